package debugui

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/ui"
)

var nodeType = reflect.TypeFor[ui.Node]()

// NodeInfo is one row of the node browser.
type NodeInfo struct {
	ID             ecs.EntityId
	Parent         ecs.EntityId
	Depth          int
	Rect           ui.Rect
	Hidden         bool
	ComponentTypes []string
}

// NodeBrowserPanel lists every entity carrying a ui.Node.
type NodeBrowserPanel struct {
	nodes              []NodeInfo
	selected           ecs.EntityId
	filterText         string
	maxNodesPerPage    int
	currentPage        int
	sortColumn         int
	sortAscending      bool
	lastArchetypeCount int
}

func NewNodeBrowserPanel(maxNodesPerPage int) *NodeBrowserPanel {
	return &NodeBrowserPanel{
		maxNodesPerPage: maxNodesPerPage,
		sortAscending:   true,
	}
}

// Selected returns the entity picked in the table, or zero.
func (nb *NodeBrowserPanel) Selected() ecs.EntityId {
	return nb.selected
}

// Render draws the browser window. Clicking a row selects that node.
func (nb *NodeBrowserPanel) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Node Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	// Rects change every frame, so the rows are rebuilt each time.
	nb.refresh(storage)

	imgui.InputTextWithHint("##search", "Search...", &nb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		nb.filterText = ""
	}

	filtered := nb.filtered()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("NodeTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Depth")
		imgui.TableSetupColumn("Rect")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			nb.sortColumn = int(spec.ColumnIndex())
			nb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			nb.sortNodes()
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := nb.currentPage * nb.maxNodesPerPage
		endIdx := min(startIdx+nb.maxNodesPerPage, len(filtered))

		for i := startIdx; i < endIdx; i++ {
			node := filtered[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			label := node.ID.String()
			if node.Hidden {
				label += " (hidden)"
			}
			if imgui.SelectableBoolV(label, nb.selected == node.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				nb.selected = node.ID
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", node.Depth))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.0f,%.0f %.0fx%.0f", node.Rect.X, node.Rect.Y, node.Rect.W, node.Rect.H))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(node.ComponentTypes, ", "))
		}

		imgui.EndTable()
	}

	if len(filtered) > nb.maxNodesPerPage {
		totalPages := (len(filtered) + nb.maxNodesPerPage - 1) / nb.maxNodesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d nodes)", nb.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && nb.currentPage > 0 {
			nb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && nb.currentPage < totalPages-1 {
			nb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d nodes", len(filtered)))
	}

	imgui.End()
}

func (nb *NodeBrowserPanel) refresh(storage *ecs.Storage) {
	nb.nodes = collectNodes(storage, nb.nodes[:0])
	nb.sortNodes()
	if nb.selected != 0 && !storage.Alive(nb.selected) {
		nb.selected = 0
	}
}

func collectNodes(storage *ecs.Storage, out []NodeInfo) []NodeInfo {
	for _, archetype := range storage.GetArchetypes() {
		if !archetype.HasComponent(nodeType) {
			continue
		}
		componentTypes := archetype.TypeNames()

		for id := range archetype.Iter() {
			node := ecs.ReadComponent[ui.Node](storage, id)
			info := NodeInfo{
				ID:             id,
				Rect:           node.Rect,
				Hidden:         node.Hidden,
				ComponentTypes: componentTypes,
			}
			parent, ok := storage.ParentOf(id)
			info.Parent = parent
			for p := parent; ok; p, ok = storage.ParentOf(p) {
				info.Depth++
			}
			out = append(out, info)
		}
	}
	return out
}

func (nb *NodeBrowserPanel) sortNodes() {
	slices.SortStableFunc(nb.nodes, func(a, b NodeInfo) int {
		var c int
		switch nb.sortColumn {
		case 1:
			c = cmp.Compare(a.Depth, b.Depth)
		case 2:
			c = cmp.Compare(a.Rect.W*a.Rect.H, b.Rect.W*b.Rect.H)
		case 3:
			c = slices.Compare(a.ComponentTypes, b.ComponentTypes)
		default:
			c = cmp.Compare(a.ID, b.ID)
		}
		if !nb.sortAscending {
			return -c
		}
		return c
	})
}

func (nb *NodeBrowserPanel) filtered() []NodeInfo {
	if nb.filterText == "" {
		return nb.nodes
	}

	filterLower := strings.ToLower(nb.filterText)
	out := make([]NodeInfo, 0, len(nb.nodes))
	for _, node := range nb.nodes {
		idStr := node.ID.String()
		componentsStr := strings.ToLower(strings.Join(node.ComponentTypes, " "))
		if strings.Contains(idStr, filterLower) || strings.Contains(componentsStr, filterLower) {
			out = append(out, node)
		}
	}
	return out
}
