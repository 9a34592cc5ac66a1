package ecs

import (
	"reflect"
	"unsafe"
)

// singletonEntry owns the heap copy of one singleton. Accessors cache the
// entry, so removal is flagged on it rather than only dropped from the map.
type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
	removed bool
}

// AddSingleton stores value, or the value it points to, as the singleton of
// its type. An existing singleton is overwritten in place so accessors keep
// seeing it.
func (s *Storage) AddSingleton(value any) {
	if value == nil {
		panic("cannot add nil singleton")
	}
	val := reflect.Indirect(reflect.ValueOf(value))
	typ := val.Type()

	if entry, ok := s.singletons[typ]; ok {
		entry.value.Set(val)
		return
	}

	ptr := reflect.New(typ)
	ptr.Elem().Set(val)
	s.singletons[typ] = &singletonEntry{
		value:   ptr.Elem(),
		dataPtr: ptr.UnsafePointer(),
	}
}

// RemoveSingleton drops the singleton of the given type.
func (s *Storage) RemoveSingleton(typ reflect.Type) {
	if entry, ok := s.singletons[typ]; ok {
		entry.removed = true
		delete(s.singletons, typ)
	}
}

// LookupSingleton returns the stored T without creating it.
func LookupSingleton[T any](storage *Storage) (*T, bool) {
	entry := storage.singletons[reflect.TypeFor[T]()]
	if entry == nil {
		return nil, false
	}
	return (*T)(entry.dataPtr), true
}

// Singleton is a system field giving access to global state that belongs
// to no entity, such as settings, timers or asset caches.
type Singleton[T any] struct {
	storage *Storage
	entry   *singletonEntry
}

// NewSingleton returns an accessor for T, first storing initializer (or the
// zero value) if T has no singleton yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if _, ok := LookupSingleton[T](storage); !ok {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(&value)
	}
	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage. The Scheduler calls it on registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.entry = nil
	s.resolve()
}

func (s *Singleton[T]) resolve() *singletonEntry {
	if s.entry != nil && !s.entry.removed {
		return s.entry
	}
	s.entry = nil
	if s.storage != nil {
		s.entry = s.storage.singletons[reflect.TypeFor[T]()]
	}
	return s.entry
}

// Get returns the singleton, or nil if none has been added.
func (s *Singleton[T]) Get() *T {
	entry := s.resolve()
	if entry == nil {
		return nil
	}
	return (*T)(entry.dataPtr)
}

// Exists reports whether T is currently stored.
func (s *Singleton[T]) Exists() bool {
	return s.resolve() != nil
}
