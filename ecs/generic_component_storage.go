package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry maps component types to storage factories. Every Storage
// owns one, so independent apps never share component state.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent makes T usable as a component. Spawning an unregistered
// type panics. Registering twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// IsRegistered reports whether T has been registered.
func IsRegistered[T any](r *ComponentRegistry) bool {
	_, ok := r.factories[reflect.TypeFor[T]()]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const blockSize = 64

// genericComponentStorage keeps components of type T in fixed-size blocks.
// Deleted slots are reused before new ones are allocated, so pointers from
// Get are only valid until the next Append or Compact.
type genericComponentStorage[T any] struct {
	blocks    [][blockSize]T
	filled    [][blockSize]bool
	freeSlots []int
	nextIndex int
	live      int
}

func (cs *genericComponentStorage[T]) locate(index int) (block, slot int, ok bool) {
	if index < 0 {
		return 0, 0, false
	}
	block, slot = index/blockSize, index%blockSize
	return block, slot, block < len(cs.blocks)
}

// Append stores item, given as T or *T, and returns its index. Any other type
// is rejected with -1.
func (cs *genericComponentStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if index/blockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, [blockSize]T{})
			cs.filled = append(cs.filled, [blockSize]bool{})
		}
	}

	block, slot, _ := cs.locate(index)
	cs.blocks[block][slot] = value
	cs.filled[block][slot] = true
	cs.live++
	return index
}

// Get returns a *T for a live slot, or nil.
func (cs *genericComponentStorage[T]) Get(index int) any {
	block, slot, ok := cs.locate(index)
	if !ok || !cs.filled[block][slot] {
		return nil
	}
	return &cs.blocks[block][slot]
}

// Delete zeroes a slot and queues it for reuse.
func (cs *genericComponentStorage[T]) Delete(index int) {
	block, slot, ok := cs.locate(index)
	if !ok || !cs.filled[block][slot] {
		return
	}
	var zero T
	cs.blocks[block][slot] = zero
	cs.filled[block][slot] = false
	cs.freeSlots = append(cs.freeSlots, index)
	cs.live--
}

func (cs *genericComponentStorage[T]) Has(index int) bool {
	block, slot, ok := cs.locate(index)
	return ok && cs.filled[block][slot]
}

// Len returns the number of live slots.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.live
}

// Compact moves live components to the front and returns old index → new
// index for every one of them.
func (cs *genericComponentStorage[T]) Compact() map[int]int {
	indexMap := make(map[int]int, cs.live)
	if cs.live == 0 {
		cs.blocks = make([][blockSize]T, 1)
		cs.filled = make([][blockSize]bool, 1)
		cs.freeSlots = nil
		cs.nextIndex = 0
		return indexMap
	}

	numBlocks := (cs.live + blockSize - 1) / blockSize
	blocks := make([][blockSize]T, numBlocks)
	filled := make([][blockSize]bool, numBlocks)

	write := 0
	for read := range cs.Iter() {
		rb, rs, _ := cs.locate(read)
		wb, ws := write/blockSize, write%blockSize
		blocks[wb][ws] = cs.blocks[rb][rs]
		filled[wb][ws] = true
		indexMap[read] = write
		write++
	}

	cs.blocks = blocks
	cs.filled = filled
	cs.freeSlots = nil
	cs.nextIndex = write
	return indexMap
}

// Iter yields live indices in ascending order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			if cs.Has(i) && !yield(i) {
				return
			}
		}
	}
}
