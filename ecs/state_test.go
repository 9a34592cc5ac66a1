package ecs_test

import (
	"testing"

	"github.com/plus3/splash/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type screen int

const (
	screenSplash screen = iota
	screenMenu
)

type recorder struct {
	Log *[]string
	Tag string
}

func (r recorder) Execute(frame *ecs.UpdateFrame) {
	*r.Log = append(*r.Log, r.Tag)
}

type ticker struct {
	Ticks int
}

func (s *ticker) Execute(frame *ecs.UpdateFrame) {
	s.Ticks++
}

type switcher struct {
	State ecs.Singleton[ecs.State[screen]]
	After int
	seen  int
}

func (s *switcher) Execute(frame *ecs.UpdateFrame) {
	s.seen++
	if s.seen == s.After {
		s.State.Get().Set(screenMenu)
	}
}

func TestStateTransitions(t *testing.T) {
	app := ecs.NewApp()
	ecs.AddState(app, screenSplash)
	require.True(t, ecs.HasState[screen](app))

	var log []string
	ecs.OnEnter(app, screenSplash, recorder{Log: &log, Tag: "enter splash"})
	ecs.OnExit(app, screenSplash, recorder{Log: &log, Tag: "exit splash"})
	ecs.OnEnter(app, screenMenu, recorder{Log: &log, Tag: "enter menu"})

	inSplash := &ticker{}
	inMenu := &ticker{}
	app.AddSystem(&switcher{After: 2})
	app.AddSystem(inSplash, ecs.InState(screenSplash))
	app.AddSystem(inMenu, ecs.InState(screenMenu))

	app.Update(0.1)
	app.Update(0.1)
	assert.Equal(t, []string{"enter splash"}, log)
	assert.Equal(t, 2, inSplash.Ticks)
	assert.Equal(t, 0, inMenu.Ticks)

	app.Update(0.1)
	assert.Equal(t, []string{"enter splash", "exit splash", "enter menu"}, log)
	assert.Equal(t, 2, inSplash.Ticks)
	assert.Equal(t, 1, inMenu.Ticks)

	state, ok := ecs.LookupSingleton[ecs.State[screen]](app.Storage())
	require.True(t, ok)
	assert.Equal(t, screenMenu, state.Get())
}

func TestStateSetToCurrentIsNoop(t *testing.T) {
	app := ecs.NewApp()
	ecs.AddState(app, screenMenu)
	ecs.AddState(app, screenSplash)

	var log []string
	ecs.OnExit(app, screenMenu, recorder{Log: &log, Tag: "exit"})

	state, _ := ecs.LookupSingleton[ecs.State[screen]](app.Storage())
	assert.Equal(t, screenMenu, state.Get())

	state.Set(screenMenu)
	app.Update(0)

	_, pending := state.Pending()
	assert.False(t, pending)
	assert.Empty(t, log)
}

func TestOnEnterWithoutStatePanics(t *testing.T) {
	app := ecs.NewApp()
	assert.Panics(t, func() {
		ecs.OnEnter(app, screenMenu, &ticker{})
	})
}

func TestInStateWithoutSingleton(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	assert.False(t, ecs.InState(screenSplash)(storage))
}
