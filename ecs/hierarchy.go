package ecs

import "reflect"

// ChildOf links an entity to its parent. The reference follows the parent
// across archetype moves and resolves to nothing once the parent is deleted.
type ChildOf struct {
	Parent *EntityRef
}

var childOfType = reflect.TypeFor[ChildOf]()

// SpawnTree spawns root and then each child with a ChildOf pointing at root.
// It returns the root id followed by the child ids in order.
func (s *Storage) SpawnTree(root []any, children ...[]any) (EntityId, []EntityId) {
	rootId := s.Spawn(root...)
	ref := s.CreateEntityRef(rootId)

	childIds := make([]EntityId, 0, len(children))
	for _, components := range children {
		withParent := make([]any, 0, len(components)+1)
		withParent = append(withParent, components...)
		withParent = append(withParent, ChildOf{Parent: ref})
		childIds = append(childIds, s.Spawn(withParent...))
	}

	// Ids are only stable until an archetype move; resolve through the ref.
	if id, ok := s.ResolveEntityRef(ref); ok {
		rootId = id
	}
	return rootId, childIds
}

// ParentOf returns the parent of an entity, if it has a live one.
func (s *Storage) ParentOf(id EntityId) (EntityId, bool) {
	link, ok := s.GetComponent(id, childOfType).(*ChildOf)
	if !ok || link == nil {
		return 0, false
	}
	return s.ResolveEntityRef(link.Parent)
}

// Children returns the direct children of an entity.
func (s *Storage) Children(parent EntityId) []EntityId {
	var children []EntityId
	for _, archetype := range s.archetypes {
		if !archetype.HasComponent(childOfType) {
			continue
		}
		for id := range archetype.Iter() {
			link, ok := archetype.GetComponent(id.Index(), childOfType).(*ChildOf)
			if !ok || link.Parent == nil {
				continue
			}
			if parentId, alive := s.ResolveEntityRef(link.Parent); alive && parentId == parent {
				children = append(children, id)
			}
		}
	}
	return children
}

// Descendants returns every entity below parent, depth first.
func (s *Storage) Descendants(parent EntityId) []EntityId {
	var out []EntityId
	for _, child := range s.Children(parent) {
		out = append(out, child)
		out = append(out, s.Descendants(child)...)
	}
	return out
}
