package ecs_test

import (
	"fmt"

	"github.com/plus3/splash/ecs"
)

// ExampleQuery moves every entity that has both a position and a velocity.
// Entities missing a required component are not visited.
func ExampleQuery() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 0}, Velocity{DX: 1})
	storage.Spawn(Position{X: 10}, Velocity{DX: -2})
	storage.Spawn(Position{X: 100})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)
	query.Execute()

	for _, item := range query.Iter() {
		item.Position.X += item.Velocity.DX
		fmt.Println(item.Position.X)
	}
	fmt.Println(query.Len())
	// Output:
	// 1
	// 8
	// 2
}
