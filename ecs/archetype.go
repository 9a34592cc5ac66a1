package ecs

import (
	"cmp"
	"iter"
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

// sortTypes orders component types by name, which gives every combination a
// single canonical key.
func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return cmp.Compare(a.String(), b.String())
	})
}

// Archetype holds every entity with exactly one combination of component
// types. Each type has its own column and an entity's index is the same in
// all of them.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	names    []string
	storages []iComponentStorage
	refs     *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype creates an archetype for types, which must already be sorted.
// It panics if any type was not registered.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		names:    make([]string, len(types)),
		storages: make([]iComponentStorage, len(types)),
		refs:     intmap.New[EntityId, weak.Pointer[EntityRef]](256),
	}

	for i, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[i] = factory()
		a.names[i] = typ.String()
	}
	return a
}

func (a *Archetype) column(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

// Spawn appends one row and returns its index. components may hold values or
// pointers and must cover every type of the archetype.
func (a *Archetype) Spawn(components []any) uint32 {
	var index int
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Pointer {
			compType = compType.Elem()
		}
		if col := a.column(compType); col >= 0 {
			index = a.storages[col].Append(comp)
		}
	}
	return uint32(index)
}

// GetComponent returns a pointer to the component of compType stored at
// entityIndex, or nil.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	col := a.column(compType)
	if col < 0 {
		return nil
	}
	return a.storages[col].Get(int(entityIndex))
}

// Delete frees the row at entityIndex and invalidates its EntityRef. Other
// rows keep their indices.
func (a *Archetype) Delete(entityIndex uint32) {
	id := NewEntityId(a.id, entityIndex)
	if weakPtr, ok := a.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(id)
	}

	for _, storage := range a.storages {
		storage.Delete(int(entityIndex))
	}
}

func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.column(compType) >= 0
}

func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types. The slice must not be modified.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// TypeNames returns the component type names in the order of Types.
func (a *Archetype) TypeNames() []string {
	return a.names
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// Compact packs live rows to the front of every column and rewrites the
// EntityRefs that point into this archetype. Raw EntityIds taken before the
// call are no longer valid.
func (a *Archetype) Compact() {
	if len(a.storages) == 0 {
		return
	}

	indexMap := a.storages[0].Compact()
	for _, storage := range a.storages[1:] {
		storage.Compact()
	}

	live := make(map[EntityId]weak.Pointer[EntityRef], len(indexMap))
	for oldIdx, newIdx := range indexMap {
		weakPtr, ok := a.refs.Get(NewEntityId(a.id, uint32(oldIdx)))
		if !ok {
			continue
		}
		if ref := weakPtr.Value(); ref != nil {
			newId := NewEntityId(a.id, uint32(newIdx))
			ref.Id = newId
			live[newId] = weakPtr
		}
	}

	a.refs.Clear()
	for id, weakPtr := range live {
		a.refs.Put(id, weakPtr)
	}
}

// Iter yields the id of every live entity in index order.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}
		for index := range a.storages[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
