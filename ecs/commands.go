package ecs

import "reflect"

type commandKind uint8

const (
	cmdDelete commandKind = iota
	cmdDeleteRecursive
	cmdRemove
	cmdAdd
	cmdSpawn
	cmdDefer
)

type command struct {
	kind      commandKind
	entity    EntityId
	compType  reflect.Type
	component any
	spawn     []any
	children  [][]any
	fn        func()
}

// Commands buffers structural changes made by systems. They are applied by
// Flush once the frame is over, in this order: deletions, component
// removals, component additions, spawns, deferred funcs.
type Commands struct {
	queue []command
}

func newCommands() *Commands {
	return &Commands{}
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Spawn queues an entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.queue = append(c.queue, command{kind: cmdSpawn, spawn: components})
}

// SpawnTree queues a parent entity and its direct children. Each child gets
// a ChildOf component pointing at the parent.
func (c *Commands) SpawnTree(root []any, children ...[]any) {
	c.queue = append(c.queue, command{kind: cmdSpawn, spawn: root, children: children})
}

// Delete queues removal of entity.
func (c *Commands) Delete(entity EntityId) {
	c.queue = append(c.queue, command{kind: cmdDelete, entity: entity})
}

// DeleteRecursive queues deletion of an entity and all of its descendants.
func (c *Commands) DeleteRecursive(entity EntityId) {
	c.queue = append(c.queue, command{kind: cmdDeleteRecursive, entity: entity})
}

// AddComponent queues adding or replacing a component on entity.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.queue = append(c.queue, command{kind: cmdAdd, entity: entity, component: component})
}

// RemoveComponent queues removing the compType component from entity.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.queue = append(c.queue, command{kind: cmdRemove, entity: entity, compType: compType})
}

// Defer queues fn to run after every structural change of the frame.
func (c *Commands) Defer(fn func()) {
	c.queue = append(c.queue, command{kind: cmdDefer, fn: fn})
}

// Flush applies the queued commands to storage and empties the buffer.
// Changes aimed at an entity deleted in the same flush are dropped.
func (c *Commands) Flush(storage *Storage) {
	if len(c.queue) == 0 {
		return
	}

	deleted := make(map[EntityId]struct{})
	remove := func(id EntityId) {
		if _, ok := deleted[id]; ok {
			return
		}
		storage.Delete(id)
		deleted[id] = struct{}{}
	}

	// Descendants are resolved before anything is deleted.
	for _, cmd := range c.queue {
		if cmd.kind == cmdDeleteRecursive {
			for _, id := range storage.Descendants(cmd.entity) {
				remove(id)
			}
			remove(cmd.entity)
		}
	}

	for _, phase := range []commandKind{cmdDelete, cmdRemove, cmdAdd, cmdSpawn, cmdDefer} {
		for _, cmd := range c.queue {
			if cmd.kind != phase {
				continue
			}
			_, gone := deleted[cmd.entity]

			switch cmd.kind {
			case cmdDelete:
				remove(cmd.entity)
			case cmdRemove:
				if !gone {
					storage.RemoveComponent(cmd.entity, cmd.compType)
				}
			case cmdAdd:
				if !gone {
					storage.AddComponent(cmd.entity, cmd.component)
				}
			case cmdSpawn:
				if cmd.children != nil {
					storage.SpawnTree(cmd.spawn, cmd.children...)
				} else {
					storage.Spawn(cmd.spawn...)
				}
			case cmdDefer:
				cmd.fn()
			}
		}
	}

	clear(c.queue)
	c.queue = c.queue[:0]
}
