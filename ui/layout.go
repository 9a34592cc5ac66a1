package ui

import (
	"cmp"
	"iter"
	"slices"

	"github.com/plus3/splash/ecs"
)

type nodeView struct {
	Node   *Node
	Text   *Text        `ecs:"optional"`
	Image  *Image       `ecs:"optional"`
	Parent *ecs.ChildOf `ecs:"optional"`
}

type treeNode struct {
	id       ecs.EntityId
	view     nodeView
	children []*treeNode
}

// buildTree groups nodes under their parents. Roots and siblings are sorted
// by (ZIndex, Order, id); a node whose parent is not a live node becomes a
// root.
func buildTree(storage *ecs.Storage, nodes iter.Seq2[ecs.EntityId, nodeView]) []*treeNode {
	byID := make(map[ecs.EntityId]*treeNode)
	var order []*treeNode
	for id, view := range nodes {
		n := &treeNode{id: id, view: view}
		byID[id] = n
		order = append(order, n)
	}

	var roots []*treeNode
	for _, n := range order {
		if n.view.Parent != nil {
			if parentID, ok := storage.ResolveEntityRef(n.view.Parent.Parent); ok {
				if parent, ok := byID[parentID]; ok {
					parent.children = append(parent.children, n)
					continue
				}
			}
		}
		roots = append(roots, n)
	}

	sortNodes(roots)
	for _, n := range order {
		sortNodes(n.children)
	}
	return roots
}

func sortNodes(nodes []*treeNode) {
	slices.SortStableFunc(nodes, func(a, b *treeNode) int {
		return cmp.Or(
			cmp.Compare(a.view.Node.ZIndex, b.view.Node.ZIndex),
			cmp.Compare(a.view.Node.Order, b.view.Node.Order),
			cmp.Compare(a.id, b.id),
		)
	})
}

// LayoutSystem computes Node.Rect for every node. Roots are laid out against
// the window; children follow their parent's flex style.
type LayoutSystem struct {
	Nodes  ecs.Query[nodeView]
	Window ecs.Singleton[Window]
	Assets ecs.Singleton[Assets]
}

// Execute recomputes the rect of every node from the window size down.
func (s *LayoutSystem) Execute(frame *ecs.UpdateFrame) {
	var window Rect
	if w := s.Window.Get(); w != nil {
		window = Rect{W: w.Width, H: w.Height}
	}
	l := &layouter{assets: s.Assets.Get()}
	for _, root := range buildTree(frame.Storage, s.Nodes.Iter()) {
		l.placeRoot(root, window)
	}
}

type layouter struct {
	assets *Assets
}

func (l *layouter) placeRoot(n *treeNode, window Rect) {
	style := n.view.Node.Style
	w, h := l.size(n, window)
	n.view.Node.Rect = Rect{
		X: window.X + style.Left.Resolve(window.W, 0),
		Y: window.Y + style.Top.Resolve(window.H, 0),
		W: w,
		H: h,
	}
	l.arrange(n)
}

// size resolves a node's width and height against its parent.
func (l *layouter) size(n *treeNode, parent Rect) (float64, float64) {
	style := n.view.Node.Style
	iw, ih := l.intrinsic(n, parent)
	return style.Width.Resolve(parent.W, iw), style.Height.Resolve(parent.H, ih)
}

func (l *layouter) intrinsic(n *treeNode, parent Rect) (float64, float64) {
	style := n.view.Node.Style
	switch {
	case n.view.Text != nil && l.assets != nil:
		return l.assets.MeasureText(n.view.Text)
	case n.view.Image != nil && l.assets != nil:
		size, ok := l.assets.ImageSize(n.view.Image.Path)
		if !ok || size.X == 0 || size.Y == 0 {
			return 0, 0
		}
		w, h := float64(size.X), float64(size.Y)
		// Keep the aspect ratio when only one side is given.
		switch {
		case !style.Width.IsAuto() && style.Height.IsAuto():
			rw := style.Width.Resolve(parent.W, w)
			return rw, h * rw / w
		case style.Width.IsAuto() && !style.Height.IsAuto():
			rh := style.Height.Resolve(parent.H, h)
			return w * rh / h, rh
		}
		return w, h
	}

	var main, cross float64
	flow := 0
	for _, child := range n.children {
		if child.view.Node.Hidden || child.view.Node.Style.Position == Absolute {
			continue
		}
		cw, ch := l.size(child, Rect{})
		cm, cc := axes(style.Direction, cw, ch)
		main += cm
		cross = max(cross, cc)
		flow++
	}
	if flow > 1 {
		main += style.Gap * float64(flow-1)
	}
	return fromAxes(style.Direction, main, cross)
}

func axes(dir FlexDirection, w, h float64) (main, cross float64) {
	if dir == Column {
		return h, w
	}
	return w, h
}

func fromAxes(dir FlexDirection, main, cross float64) (w, h float64) {
	if dir == Column {
		return cross, main
	}
	return main, cross
}

type flexItem struct {
	node        *treeNode
	main, cross float64
}

type flexLine struct {
	items       []flexItem
	main, cross float64
}

// arrange positions n's children inside n.Rect.
func (l *layouter) arrange(n *treeNode) {
	style := n.view.Node.Style
	rect := n.view.Node.Rect
	mainExtent, crossExtent := axes(style.Direction, rect.W, rect.H)

	var lines []flexLine
	cur := flexLine{}
	for _, child := range n.children {
		if child.view.Node.Hidden {
			continue
		}
		if child.view.Node.Style.Position == Absolute {
			l.placeAbsolute(child, rect)
			continue
		}

		cw, ch := l.size(child, rect)
		cm, cc := axes(style.Direction, cw, ch)
		gap := 0.0
		if len(cur.items) > 0 {
			gap = style.Gap
		}
		if style.Wrap == Wrap && len(cur.items) > 0 && cur.main+gap+cm > mainExtent {
			lines = append(lines, cur)
			cur = flexLine{}
			gap = 0
		}
		cur.items = append(cur.items, flexItem{node: child, main: cm, cross: cc})
		cur.main += gap + cm
		cur.cross = max(cur.cross, cc)
	}
	if len(cur.items) > 0 {
		lines = append(lines, cur)
	}
	if len(lines) == 0 {
		return
	}
	if style.Wrap == NoWrap {
		lines[0].cross = crossExtent
	}

	totalCross := style.Gap * float64(len(lines)-1)
	for _, line := range lines {
		totalCross += line.cross
	}
	crossCursor := alignOffset(style.Align, crossExtent, totalCross)
	if style.Wrap == NoWrap {
		crossCursor = 0
	}

	for _, line := range lines {
		start, spacing := justify(style.Justify, mainExtent-line.main, len(line.items))
		mainCursor := start
		for i, item := range line.items {
			crossSize := item.cross
			crossPos := alignOffset(style.Align, line.cross, item.cross)
			if style.Align == AlignStretch && l.crossIsAuto(item.node, style.Direction) {
				crossSize = line.cross
				crossPos = 0
			}

			x, y := fromAxes(style.Direction, mainCursor, crossCursor+crossPos)
			w, h := fromAxes(style.Direction, item.main, crossSize)
			item.node.view.Node.Rect = Rect{X: rect.X + x, Y: rect.Y + y, W: w, H: h}
			l.arrange(item.node)

			mainCursor += item.main + spacing
			if i < len(line.items)-1 {
				mainCursor += style.Gap
			}
		}
		crossCursor += line.cross + style.Gap
	}
}

func (l *layouter) crossIsAuto(n *treeNode, dir FlexDirection) bool {
	if dir == Column {
		return n.view.Node.Style.Width.IsAuto()
	}
	return n.view.Node.Style.Height.IsAuto()
}

func (l *layouter) placeAbsolute(n *treeNode, parent Rect) {
	style := n.view.Node.Style
	w, h := l.size(n, parent)
	n.view.Node.Rect = Rect{
		X: parent.X + style.Left.Resolve(parent.W, 0),
		Y: parent.Y + style.Top.Resolve(parent.H, 0),
		W: w,
		H: h,
	}
	l.arrange(n)
}

func alignOffset(align AlignItems, extent, size float64) float64 {
	switch align {
	case AlignCenter:
		return (extent - size) / 2
	case AlignEnd:
		return extent - size
	default:
		return 0
	}
}

// justify returns the offset of the first item and the extra spacing
// inserted after each item.
func justify(mode JustifyContent, free float64, count int) (float64, float64) {
	if count == 0 {
		return 0, 0
	}
	switch mode {
	case JustifyEnd:
		return free, 0
	case JustifyCenter:
		return free / 2, 0
	case JustifySpaceBetween:
		if count == 1 || free < 0 {
			return 0, 0
		}
		return 0, free / float64(count-1)
	case JustifySpaceAround:
		if free < 0 {
			return free / 2, 0
		}
		each := free / float64(count)
		return each / 2, each
	case JustifySpaceEvenly:
		if free < 0 {
			return free / 2, 0
		}
		each := free / float64(count+1)
		return each, each
	default:
		return 0, 0
	}
}
