package tween

import (
	"time"

	"github.com/plus3/splash/ecs"
)

// AnimatorState is the playback state of an Animator.
type AnimatorState int

const (
	Playing AnimatorState = iota
	Paused
)

// Completed is sent whenever a tween created with WithCompletedEvent
// finishes an iteration.
type Completed struct {
	Entity   ecs.EntityId
	UserData uint64
}

// Animator is the component that drives a Tweenable against a sibling T
// component on the same entity.
type Animator[T any] struct {
	Tweenable Tweenable[T]
	State     AnimatorState
	Speed     float64

	finished bool
}

// NewAnimator returns a playing animator at normal speed.
func NewAnimator[T any](tweenable Tweenable[T]) Animator[T] {
	return Animator[T]{
		Tweenable: tweenable,
		State:     Playing,
		Speed:     1,
	}
}

// Finished reports whether the tweenable has run to completion.
func (a *Animator[T]) Finished() bool {
	return a.finished
}

// Rewind restarts the tweenable from the beginning.
func (a *Animator[T]) Rewind() {
	if a.Tweenable != nil {
		a.Tweenable.Rewind()
	}
	a.finished = false
}

// Tick advances the animator by dt seconds.
func (a *Animator[T]) Tick(dt float64, target *T, emit func(uint64)) {
	if a.Tweenable == nil || a.State == Paused || a.finished {
		return
	}
	delta := time.Duration(dt * a.Speed * float64(time.Second))
	if a.Tweenable.Tick(delta, target, emit) == Finished {
		a.finished = true
	}
}

// AnimatorSystem ticks every Animator[T] and forwards completion events.
type AnimatorSystem[T any] struct {
	Animated ecs.Query[struct {
		Animator *Animator[T]
		Target   *T
	}]
	Events ecs.Singleton[ecs.Events[Completed]]
}

// Execute ticks every playing animator by the frame time scaled by its speed.
func (s *AnimatorSystem[T]) Execute(frame *ecs.UpdateFrame) {
	events := s.Events.Get()
	for id, item := range s.Animated.Iter() {
		item.Animator.Tick(frame.DeltaTime, item.Target, func(userData uint64) {
			if events != nil {
				events.Send(Completed{Entity: id, UserData: userData})
			}
		})
	}
}

// Plugin registers the Completed event.
type Plugin struct{}

// Build registers the Completed event.
func (Plugin) Build(app *ecs.App) {
	ecs.AddEvent[Completed](app)
}

type animatorPlugin[T any] struct{}

func (animatorPlugin[T]) Build(app *ecs.App) {
	app.AddPlugins(Plugin{})
	ecs.RegisterComponent[Animator[T]](app.Registry())
	app.AddSystem(&AnimatorSystem[T]{})
}

// AddAnimator enables Animator[T] components on the app. Calling it again for
// the same T is a no-op.
func AddAnimator[T any](app *ecs.App) {
	app.AddPlugins(animatorPlugin[T]{})
}
