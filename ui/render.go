package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/splash/ecs"
)

// Renderer draws the UI tree of a storage. Parents are drawn before their
// children; siblings follow (ZIndex, Order).
type Renderer struct {
	storage *ecs.Storage
	nodes   *ecs.Query[nodeView]
}

func NewRenderer(storage *ecs.Storage) *Renderer {
	return &Renderer{
		storage: storage,
		nodes:   ecs.NewQuery[nodeView](storage),
	}
}

// Draw renders every visible node onto screen.
func (r *Renderer) Draw(screen *ebiten.Image) {
	r.nodes.Execute()
	assets, _ := ecs.LookupSingleton[Assets](r.storage)
	for _, root := range buildTree(r.storage, r.nodes.Iter()) {
		r.drawNode(screen, root, assets)
	}
}

func (r *Renderer) drawNode(screen *ebiten.Image, n *treeNode, assets *Assets) {
	node := n.view.Node
	if node.Hidden {
		return
	}
	rect := node.Rect
	bg := ecs.ReadComponent[BackgroundColor](r.storage, n.id)

	switch {
	case n.view.Image != nil:
		tint := White
		if bg != nil {
			tint = bg.Color
		}
		r.drawImage(screen, n.view.Image, rect, tint, assets)
	case bg != nil && bg.Color.A > 0:
		vector.DrawFilledRect(screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), bg.Color, false)
	}

	if n.view.Text != nil && assets != nil {
		r.drawText(screen, n.view.Text, rect, assets)
	}

	for _, child := range n.children {
		r.drawNode(screen, child, assets)
	}
}

func (r *Renderer) drawImage(screen *ebiten.Image, image *Image, rect Rect, tint Color, assets *Assets) {
	if assets == nil || tint.A <= 0 || rect.W <= 0 || rect.H <= 0 {
		return
	}
	img := assets.Image(image.Path)
	if img == nil {
		return
	}

	bounds := img.Bounds()
	sx := rect.W / float64(bounds.Dx())
	sy := rect.H / float64(bounds.Dy())

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	if image.FlipX {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(float64(bounds.Dx()), 0)
	}
	if image.FlipY {
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, float64(bounds.Dy()))
	}
	op.GeoM.Scale(sx, sy)
	op.GeoM.Translate(rect.X, rect.Y)
	op.ColorScale.ScaleWithColor(tint)
	screen.DrawImage(img, op)
}

func (r *Renderer) drawText(screen *ebiten.Image, t *Text, rect Rect, assets *Assets) {
	runs, width, _ := assets.layoutText(t)

	offset := 0.0
	switch t.Justify {
	case TextCenter:
		offset = (rect.W - width) / 2
	case TextRight:
		offset = rect.W - width
	}

	for _, run := range runs {
		if run.color.A <= 0 {
			continue
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(rect.X+offset+run.x, rect.Y+run.y)
		op.ColorScale.ScaleWithColor(run.color)
		text.Draw(screen, run.value, run.face, op)
	}
}
