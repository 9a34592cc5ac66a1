package ecs_test

import (
	"fmt"

	"github.com/plus3/splash/ecs"
)

type phase int

const (
	phaseIntro phase = iota
	phaseMenu
)

type countdown struct {
	Left float64
}

type countdownSystem struct {
	Timer ecs.Singleton[countdown]
	State ecs.Singleton[ecs.State[phase]]
}

func (s *countdownSystem) Execute(frame *ecs.UpdateFrame) {
	timer := s.Timer.Get()
	timer.Left -= frame.DeltaTime
	if timer.Left <= 0 {
		s.State.Get().Set(phaseMenu)
	}
}

type announceSystem struct{}

func (*announceSystem) Execute(*ecs.UpdateFrame) {
	fmt.Println("entered menu")
}

// ExampleApp runs a timed intro state that hands over to a menu. The
// countdown only runs while the intro is active, and the transition queued
// by Set is applied at the start of the following frame.
func ExampleApp() {
	app := ecs.NewApp()
	ecs.AddState(app, phaseIntro)
	ecs.NewSingleton(app.Storage(), countdown{Left: 1})
	app.AddSystem(&countdownSystem{}, ecs.InState(phaseIntro))
	ecs.OnEnter(app, phaseMenu, &announceSystem{})

	for range 5 {
		app.Update(0.4)
	}

	state, _ := ecs.LookupSingleton[ecs.State[phase]](app.Storage())
	fmt.Println(state.Get() == phaseMenu, app.Frames())
	// Output:
	// entered menu
	// true 5
}
