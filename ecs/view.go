package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// viewField is one pointer field of a view struct.
type viewField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
}

// View reads a fixed set of components as one struct. T must be a struct of
// pointer fields, one per component type. Embedded fields are required;
// named fields may be tagged `ecs:"optional"` and are nil when missing.
//
//	type sprite struct {
//		*Position
//		Tint *Color `ecs:"optional"`
//	}
type View[T any] struct {
	storage *Storage
	fields  []viewField
}

// NewView parses T. It panics if T is not a struct of pointers or carries an
// unknown ecs tag.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	fields := make([]viewField, 0, structType.NumField())
	for i := range structType.NumField() {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Pointer {
			panic("View struct fields must be pointer types")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}

		fields = append(fields, viewField{
			typ:      field.Type.Elem(),
			offset:   field.Offset,
			optional: optional,
		})
	}
	return &View[T]{storage: storage, fields: fields}
}

func (v *View[T]) set(base unsafe.Pointer, i int, component any) {
	slot := (*unsafe.Pointer)(unsafe.Add(base, v.fields[i].offset))
	if component == nil {
		*slot = nil
		return
	}
	*slot = (*iface)(unsafe.Pointer(&component)).data
}

// Fill points the fields of ptr at the components of id. It returns false if
// a required component is missing.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}

	base := unsafe.Pointer(ptr)
	for i, field := range v.fields {
		component := archetype.GetComponent(id.Index(), field.typ)
		if component == nil && !field.optional {
			return false
		}
		v.set(base, i, component)
	}
	return true
}

// Get returns the view of id, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef returns the view of the entity behind ref, or nil.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

// matchesArchetype reports whether archetype has every required component.
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for _, field := range v.fields {
		if !field.optional && !archetype.HasComponent(field.typ) {
			return false
		}
	}
	return true
}

// iterArchetype yields every live entity of archetype that fills the view.
// The yielded struct is reused between iterations.
func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(archetype.storages) == 0 {
			return
		}

		columns := make([]int, len(v.fields))
		for i, field := range v.fields {
			columns[i] = archetype.column(field.typ)
		}

		var result T
		base := unsafe.Pointer(&result)

	rows:
		for index := range archetype.storages[0].Iter() {
			for i, col := range columns {
				var component any
				if col >= 0 {
					component = archetype.storages[col].Get(index)
				}
				if component == nil && !v.fields[i].optional {
					continue rows
				}
				v.set(base, i, component)
			}

			if !yield(NewEntityId(archetype.id, uint32(index)), result) {
				return
			}
		}
	}
}

// Iter yields every matching entity, archetype by archetype in id order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.GetArchetypes() {
			if !v.matchesArchetype(archetype) {
				continue
			}
			for id, item := range v.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values is Iter without the entity ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
