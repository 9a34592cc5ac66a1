package ecs

import (
	"context"
	"reflect"
	"time"
)

// Plugin bundles component registrations, singletons and systems.
type Plugin interface {
	Build(app *App)
}

// App owns a storage and scheduler and drives them one frame at a time.
//
// Each Update runs, in order: startup systems (first frame only), frame-start
// hooks (event buffer rotation, state transitions), then every registered
// system. Commands are flushed after each of those phases.
type App struct {
	registry  *ComponentRegistry
	storage   *Storage
	scheduler *Scheduler

	startup    []*PreparedSystem
	started    bool
	frameStart []func(frame *UpdateFrame)
	plugins    map[reflect.Type]bool
	events     map[reflect.Type]bool
	states     map[reflect.Type]any
	frames     uint64
}

// NewApp creates an app with an empty registry. ChildOf is registered up
// front so hierarchies work out of the box.
func NewApp() *App {
	registry := NewComponentRegistry()
	RegisterComponent[ChildOf](registry)

	storage := NewStorage(registry)
	return &App{
		registry:  registry,
		storage:   storage,
		scheduler: NewScheduler(storage),
		plugins:   make(map[reflect.Type]bool),
		events:    make(map[reflect.Type]bool),
		states:    make(map[reflect.Type]any),
	}
}

func (a *App) Registry() *ComponentRegistry { return a.registry }
func (a *App) Storage() *Storage            { return a.storage }
func (a *App) Scheduler() *Scheduler        { return a.scheduler }

// Frames returns how many times Update has run.
func (a *App) Frames() uint64 { return a.frames }

// AddPlugins builds each plugin once; a plugin whose type was already added
// is skipped.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	for _, plugin := range plugins {
		typ := reflect.TypeOf(plugin)
		if a.plugins[typ] {
			continue
		}
		a.plugins[typ] = true
		plugin.Build(a)
	}
	return a
}

// HasPlugin reports whether a plugin of the same type was added.
func (a *App) HasPlugin(plugin Plugin) bool {
	return a.plugins[reflect.TypeOf(plugin)]
}

// AddStartupSystem queues systems that run once, before the first frame.
func (a *App) AddStartupSystem(systems ...System) *App {
	for _, system := range systems {
		a.startup = append(a.startup, a.scheduler.Prepare(system))
	}
	return a
}

// AddSystem registers a per-frame system gated by optional run conditions.
func (a *App) AddSystem(system System, conditions ...Condition) *App {
	a.scheduler.RegisterIf(system, conditions...)
	return a
}

// AddFrameStartHook runs fn at the start of every frame, before systems.
func (a *App) AddFrameStartHook(fn func(frame *UpdateFrame)) *App {
	a.frameStart = append(a.frameStart, fn)
	return a
}

// AddEvent registers Events[T] and rotates it once per frame. Registering the
// same event type twice is a no-op.
func AddEvent[T any](app *App) {
	key := reflect.TypeFor[Events[T]]()
	if app.events[key] {
		return
	}
	app.events[key] = true

	events := NewSingleton[Events[T]](app.storage)
	app.frameStart = append(app.frameStart, func(*UpdateFrame) {
		events.Get().Update()
	})
}

// Update advances the app by dt seconds.
func (a *App) Update(dt float64) {
	if !a.started {
		a.started = true
		frame := NewUpdateFrame(0, a.storage)
		for _, system := range a.startup {
			system.Run(frame)
		}
		frame.Commands.Flush(a.storage)
	}

	frame := NewUpdateFrame(dt, a.storage)
	for _, hook := range a.frameStart {
		hook(frame)
	}
	frame.Commands.Flush(a.storage)

	a.scheduler.Once(dt)
	a.frames++
}

// Run updates the app at a fixed interval until the context is cancelled.
// Windowed games drive Update from their own loop instead.
func (a *App) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			a.Update(dt)
		}
	}
}
