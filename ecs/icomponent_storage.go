package ecs

import "iter"

// iComponentStorage is the type-erased column of one component type inside
// an archetype. Indices are shared by every column of the archetype.
type iComponentStorage interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Compact() map[int]int
	Iter() iter.Seq[int]
}
