package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/splash/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSpawnSystem struct {
	executed bool
}

func (s *testSpawnSystem) Execute(frame *ecs.UpdateFrame) {
	s.executed = true
	frame.Commands.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	frame.Commands.Spawn(Position{X: 3, Y: 4})
}

type testDeleteSystem struct {
	entityToDelete ecs.EntityId
}

func (s *testDeleteSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Delete(s.entityToDelete)
}

type testAddSystem struct {
	entity ecs.EntityId
}

func (s *testAddSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.AddComponent(s.entity, Velocity{DX: 5, DY: 10})
}

type testRemoveSystem struct {
	entity ecs.EntityId
}

func (s *testRemoveSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.RemoveComponent(s.entity, reflect.TypeOf(Velocity{}))
}

type testMixedSystem struct {
	entity ecs.EntityId
}

func (s *testMixedSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Position{X: 10, Y: 20})
	frame.Commands.AddComponent(s.entity, Velocity{DX: 1, DY: 1})
	frame.Commands.Delete(s.entity)
	frame.Commands.Spawn(Health{Current: 100, Max: 100})
}

type systemAddHealth struct {
	entity ecs.EntityId
}

func (s *systemAddHealth) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.AddComponent(s.entity, Health{Current: 50, Max: 100})
}

func TestCommands(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)

	t.Run("spawn entities", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		system := &testSpawnSystem{}
		scheduler.Register(system)

		view := ecs.NewView[struct{ *Position }](storage)
		count := 0
		for range view.Iter() {
			count++
		}
		if count != 0 {
			t.Error("entities spawned before frame execution")
		}

		scheduler.Once(1.0)

		count = 0
		for range view.Iter() {
			count++
		}
		if count != 2 {
			t.Errorf("expected 2 entities after frame, got %d", count)
		}

		if !system.executed {
			t.Error("system was not executed")
		}
	})

	t.Run("delete entities", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		e1 := storage.Spawn(Position{X: 1, Y: 2})
		e2 := storage.Spawn(Position{X: 3, Y: 4})

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&testDeleteSystem{entityToDelete: e1})

		if storage.GetComponent(e1, reflect.TypeOf(Position{})) == nil {
			t.Error("entity deleted before frame execution")
		}

		scheduler.Once(1.0)

		if storage.GetComponent(e1, reflect.TypeOf(Position{})) != nil {
			t.Error("entity not deleted after frame")
		}
		if storage.GetComponent(e2, reflect.TypeOf(Position{})) == nil {
			t.Error("wrong entity deleted")
		}
	})

	t.Run("add components", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		entity := storage.Spawn(Position{X: 1, Y: 2})

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&testAddSystem{entity: entity})

		scheduler.Once(1.0)

		view := ecs.NewView[struct {
			*Position
			*Velocity
		}](storage)

		found := false
		for _, item := range view.Iter() {
			if item.Position.X == 1 && item.Position.Y == 2 {
				if item.Velocity.DX == 5 && item.Velocity.DY == 10 {
					found = true
				}
			}
		}

		if !found {
			t.Error("component not added after frame or values incorrect")
		}
	})

	t.Run("remove components", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		entity := storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 5, DY: 10})

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&testRemoveSystem{entity: entity})

		scheduler.Once(1.0)

		viewWithVelocity := ecs.NewView[struct {
			*Position
			*Velocity
		}](storage)

		countWithVelocity := 0
		for range viewWithVelocity.Iter() {
			countWithVelocity++
		}

		viewWithoutVelocity := ecs.NewView[struct{ *Position }](storage)
		countWithoutVelocity := 0
		foundCorrectEntity := false
		for _, item := range viewWithoutVelocity.Iter() {
			countWithoutVelocity++
			if item.Position.X == 1 && item.Position.Y == 2 {
				foundCorrectEntity = true
			}
		}

		if countWithVelocity != 0 {
			t.Error("velocity component not removed")
		}
		if !foundCorrectEntity {
			t.Error("entity with only position not found")
		}
	})

	t.Run("mixed operations", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		e1 := storage.Spawn(Position{X: 1, Y: 2})

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&testMixedSystem{entity: e1})
		scheduler.Once(1.0)

		view := ecs.NewView[struct{ *Position }](storage)
		count := 0
		for range view.Iter() {
			count++
		}
		if count != 1 {
			t.Errorf("expected 1 position entity, got %d", count)
		}
	})

	t.Run("mutation after delete is ignored", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		entity := storage.Spawn(Position{X: 7, Y: 8})

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&testDeleteSystem{entityToDelete: entity})
		scheduler.Register(&systemAddHealth{entity: entity})
		scheduler.Once(1.0)

		assert.False(t, storage.Alive(entity))
		for range ecs.NewView[struct{ *Health }](storage).Iter() {
			t.Error("no Health-only entities should exist")
		}
	})
}

type treeSystem struct{}

func (treeSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.SpawnTree(
		[]any{Name{Value: "root"}},
		[]any{Name{Value: "a"}, Position{X: 1}},
		[]any{Name{Value: "b"}, Position{X: 2}},
	)
}

type purgeSystem struct {
	root ecs.EntityId
}

func (s *purgeSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.DeleteRecursive(s.root)
}

func TestCommandsHierarchy(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[ecs.ChildOf](registry)

	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(treeSystem{})
	scheduler.Once(0)

	var root ecs.EntityId
	for id, item := range ecs.NewView[struct{ *Name }](storage).Iter() {
		if item.Name.Value == "root" {
			root = id
		}
	}
	require.NotZero(t, root)

	children := storage.Children(root)
	assert.Len(t, children, 2)
	for _, child := range children {
		parent, ok := storage.ParentOf(child)
		assert.True(t, ok)
		assert.Equal(t, root, parent)
	}

	purge := ecs.NewScheduler(storage)
	purge.Register(&purgeSystem{root: root})
	purge.Once(0)

	assert.False(t, storage.Alive(root))
	for _, child := range children {
		assert.False(t, storage.Alive(child))
	}
	assert.Equal(t, 0, storage.CollectStats().TotalEntityCount)
}

func TestCommandsDeferRunsAfterStructuralChanges(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	frame := ecs.NewUpdateFrame(0, storage)

	var seen int
	frame.Commands.Defer(func() {
		seen = storage.EntityCount()
	})
	frame.Commands.Spawn(Position{})
	frame.Commands.SpawnTree([]any{Name{Value: "root"}}, []any{Position{X: 1}})
	assert.Equal(t, 3, frame.Commands.Len())
	assert.Zero(t, storage.EntityCount(), "nothing applied before Flush")

	frame.Commands.Flush(storage)
	assert.Equal(t, 3, seen)
	assert.Zero(t, frame.Commands.Len())

	frame.Commands.Flush(storage)
	assert.Equal(t, 3, storage.EntityCount(), "flushing an empty buffer is a no-op")
}
