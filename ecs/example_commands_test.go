package ecs_test

import (
	"fmt"

	"github.com/plus3/splash/ecs"
)

type menuTree struct{}

func (menuTree) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.SpawnTree(
		[]any{Name{Value: "menu"}},
		[]any{Name{Value: "play"}},
		[]any{Name{Value: "quit"}},
	)
}

// ExampleCommands_SpawnTree queues a parent with two children from a system.
// Nothing exists until the scheduler flushes the commands after the frame.
func ExampleCommands_SpawnTree() {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(menuTree{})
	scheduler.Once(0)

	names := ecs.NewView[struct{ *Name }](storage)
	for id, item := range names.Iter() {
		if item.Name.Value != "menu" {
			continue
		}
		for _, child := range storage.Children(id) {
			fmt.Println(names.Get(child).Name.Value)
		}
	}
	// Output:
	// play
	// quit
}
