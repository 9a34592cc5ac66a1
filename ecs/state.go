package ecs

import "reflect"

// State holds the current value of an application state machine. Set queues
// a transition that the App applies at the start of the next frame.
type State[S comparable] struct {
	current S
	next    S
	pending bool
}

// Get returns the active state.
func (s *State[S]) Get() S {
	return s.current
}

// Set queues a transition to next.
func (s *State[S]) Set(next S) {
	s.next = next
	s.pending = true
}

// Pending returns the queued state, if any.
func (s *State[S]) Pending() (S, bool) {
	return s.next, s.pending
}

// InState is a run condition that holds while S equals want.
func InState[S comparable](want S) Condition {
	return func(storage *Storage) bool {
		state, ok := LookupSingleton[State[S]](storage)
		return ok && state.current == want
	}
}

type stateHooks[S comparable] struct {
	enter   map[S][]*PreparedSystem
	exit    map[S][]*PreparedSystem
	entered bool
}

// AddState registers State[S] with its initial value. Enter systems of the
// initial state run on the first update. Adding the same state type twice
// keeps the first registration.
func AddState[S comparable](app *App, initial S) {
	key := reflect.TypeFor[State[S]]()
	if _, ok := app.states[key]; ok {
		return
	}

	NewSingleton(app.storage, State[S]{current: initial})
	hooks := &stateHooks[S]{
		enter: make(map[S][]*PreparedSystem),
		exit:  make(map[S][]*PreparedSystem),
	}
	app.states[key] = hooks
	app.frameStart = append(app.frameStart, hooks.apply)
}

// HasState reports whether State[S] was registered on the app.
func HasState[S comparable](app *App) bool {
	_, ok := app.states[reflect.TypeFor[State[S]]()]
	return ok
}

// OnEnter schedules systems to run once each time S becomes value.
func OnEnter[S comparable](app *App, value S, systems ...System) {
	hooks := mustStateHooks[S](app)
	for _, system := range systems {
		hooks.enter[value] = append(hooks.enter[value], app.scheduler.Prepare(system))
	}
}

// OnExit schedules systems to run once each time S leaves value.
func OnExit[S comparable](app *App, value S, systems ...System) {
	hooks := mustStateHooks[S](app)
	for _, system := range systems {
		hooks.exit[value] = append(hooks.exit[value], app.scheduler.Prepare(system))
	}
}

func mustStateHooks[S comparable](app *App) *stateHooks[S] {
	hooks, ok := app.states[reflect.TypeFor[State[S]]()].(*stateHooks[S])
	if !ok {
		panic("state " + reflect.TypeFor[S]().String() + " not registered; call AddState first")
	}
	return hooks
}

func (h *stateHooks[S]) apply(frame *UpdateFrame) {
	state, ok := LookupSingleton[State[S]](frame.Storage)
	if !ok {
		return
	}

	if !h.entered {
		h.entered = true
		for _, system := range h.enter[state.current] {
			system.Run(frame)
		}
	}

	if !state.pending {
		return
	}
	state.pending = false
	if state.next == state.current {
		return
	}

	for _, system := range h.exit[state.current] {
		system.Run(frame)
	}
	state.current = state.next
	for _, system := range h.enter[state.current] {
		system.Run(frame)
	}
}
