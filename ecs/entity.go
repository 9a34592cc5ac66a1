package ecs

import "strconv"

// EntityId packs the archetype id into the upper 32 bits and the row index
// into the lower 32. Ids change when an entity moves between archetypes; hold
// an EntityRef to follow it.
type EntityId uint64

func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) Index() uint32 {
	return uint32(e)
}

// String formats the id as archetype:index.
func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e.ArchetypeId()), 10) + ":" + strconv.FormatUint(uint64(e.Index()), 10)
}

// EntityRef tracks one entity across archetype moves. Id is 0 once the
// entity is deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}
