package splash_test

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/input"
	"github.com/plus3/splash/splash"
	"github.com/plus3/splash/tween"
	"github.com/plus3/splash/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type screenState int

const (
	stateSplash screenState = iota
	stateMenu
	stateGame
)

const step = 0.1

var (
	black = ui.Black
	white = ui.White
)

func textBrand(value string, d time.Duration) splash.Item {
	return splash.Item{
		Asset:    splash.TextAsset{Text: ui.NewText(value, ui.TextStyle{Size: 40})},
		Tint:     white,
		Width:    ui.Percent(40),
		Height:   ui.Px(80),
		Ease:     tween.QuarticInOut,
		Duration: d,
	}
}

func imageBrand(path string, d time.Duration) splash.Item {
	return splash.Item{
		Asset:    splash.ImageAsset{Path: path},
		Tint:     white,
		Width:    ui.Px(64),
		Height:   ui.Px(64),
		Duration: d,
	}
}

func newSplashApp(t *testing.T, plugin *splash.Plugin[screenState]) *ecs.App {
	t.Helper()
	app := ecs.NewApp()
	app.AddPlugins(plugin)
	return app
}

func currentState(t *testing.T, app *ecs.App) screenState {
	t.Helper()
	state, ok := ecs.LookupSingleton[ecs.State[screenState]](app.Storage())
	require.True(t, ok)
	return state.Get()
}

func countClearSplash(app *ecs.App) int {
	n := 0
	for _, arch := range app.Storage().GetArchetypes() {
		for _, typ := range arch.Types() {
			if typ.Name() == "ClearSplash" {
				for range arch.Iter() {
					n++
				}
			}
		}
	}
	return n
}

func countEntities(app *ecs.App) int {
	return app.Storage().CollectStats().TotalEntityCount
}

// runUntil advances the app in fixed steps until cond holds or limit passes.
// It returns the simulated time.
func runUntil(app *ecs.App, limit time.Duration, cond func() bool) time.Duration {
	var elapsed time.Duration
	for elapsed < limit {
		app.Update(step)
		elapsed += time.Duration(step * float64(time.Second))
		if cond() {
			break
		}
	}
	return elapsed
}

func backgroundColor(t *testing.T, app *ecs.App) ui.Color {
	t.Helper()
	for _, arch := range app.Storage().GetArchetypes() {
		if len(arch.Types()) != 4 {
			continue
		}
		for id := range arch.Iter() {
			if ecs.ReadComponent[splash.ClearSplash](app.Storage(), id) == nil {
				continue
			}
			if bg := ecs.ReadComponent[ui.BackgroundColor](app.Storage(), id); bg != nil {
				return bg.Color
			}
		}
	}
	t.Fatal("background node not found")
	return ui.Color{}
}

func TestSingleScreenTimeline(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		AddScreen(splash.Screen{
			Brands:     []splash.Item{textBrand("Studio", 2*time.Second)},
			Background: black,
		}))

	app.Update(0)
	assert.Equal(t, stateSplash, currentState(t, app))
	assert.Equal(t, 2, countClearSplash(app), "background and one screen container")
	assert.Equal(t, 3, countEntities(app))

	// 1s hold + 1s delay + 2s in + 2s out.
	elapsed := runUntil(app, 10*time.Second, func() bool { return countClearSplash(app) == 0 })
	assert.InDelta(t, 6.0, elapsed.Seconds(), 2*step)
	assert.Zero(t, countEntities(app), "brands are removed with their container")

	app.Update(step)
	assert.Equal(t, stateMenu, currentState(t, app))
}

func TestBrandFadesFromTransparent(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		AddScreen(splash.Screen{Brands: []splash.Item{textBrand("Studio", 2*time.Second)}}))

	app.Update(0)
	text := findText(t, app)
	assert.Zero(t, text.Sections[0].Style.Color.A)

	runUntil(app, 4*time.Second-time.Millisecond, func() bool { return false })
	text = findText(t, app)
	assert.InDelta(t, 1, text.Sections[0].Style.Color.A, 0.01, "fully visible at the top of the fade")
}

func findText(t *testing.T, app *ecs.App) *ui.Text {
	t.Helper()
	query := ecs.NewQuery[struct{ *ui.Text }](app.Storage())
	query.Execute()
	for _, item := range query.Iter() {
		return item.Text
	}
	t.Fatal("no text node")
	return nil
}

func TestScreensSwitchBackground(t *testing.T) {
	red := ui.RGB(1, 0, 0)
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		AddScreen(splash.Screen{
			Brands:     []splash.Item{textBrand("First", time.Second), imageBrand("logo.png", time.Second)},
			Background: black,
		}).
		AddScreen(splash.Screen{
			Brands:     []splash.Item{textBrand("Second", time.Second)},
			Type:       splash.Grid,
			Background: red,
		}))

	app.Update(0)
	assert.Equal(t, black, backgroundColor(t, app))

	// Screen 0 ends at 1s hold + 1s delay + 2s fade.
	runUntil(app, 3900*time.Millisecond, func() bool { return false })
	assert.Equal(t, black, backgroundColor(t, app))

	runUntil(app, 300*time.Millisecond, func() bool { return false })
	assert.Equal(t, red, backgroundColor(t, app))

	// Screen 1 waits 1s × 2 × 1 + 1s after the hold, then fades for 2s.
	elapsed := runUntil(app, 10*time.Second, func() bool { return countClearSplash(app) == 0 })
	assert.InDelta(t, 1.8, elapsed.Seconds(), 2*step)
}

func TestSpecificWait(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		AddScreen(splash.Screen{
			Brands: []splash.Item{textBrand("First", time.Second)},
			Wait:   splash.Specific(5 * time.Second),
		}).
		AddScreen(splash.Screen{
			Brands: []splash.Item{textBrand("Second", time.Second)},
		}))

	app.Update(0)
	// Screen 1 starts 5s after the hold instead of 3s and fades for 2s.
	elapsed := runUntil(app, 20*time.Second, func() bool { return countClearSplash(app) == 0 })
	assert.InDelta(t, 8.0, elapsed.Seconds(), 2*step)
}

func TestSkipOnKeyPress(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		Skipable().
		AddScreen(splash.Screen{Brands: []splash.Item{textBrand("Studio", 5*time.Second)}}))

	app.Update(step)
	require.NotZero(t, countClearSplash(app))

	ecs.SendEvent(app.Storage(), input.KeyboardInput{Key: ebiten.KeySpace, State: input.Released})
	app.Update(step)
	assert.NotZero(t, countClearSplash(app), "releases do not skip")

	ecs.SendEvent(app.Storage(), input.KeyboardInput{Key: ebiten.KeySpace, State: input.Pressed})
	app.Update(step)
	assert.Zero(t, countClearSplash(app))

	app.Update(step)
	assert.Equal(t, stateMenu, currentState(t, app))
}

func TestSkipSources(t *testing.T) {
	events := map[string]func(*ecs.Storage){
		"mouse": func(s *ecs.Storage) {
			ecs.SendEvent(s, input.MouseButtonInput{Button: ebiten.MouseButtonLeft, State: input.Pressed})
		},
		"touch": func(s *ecs.Storage) {
			ecs.SendEvent(s, input.TouchInput{ID: 1, Phase: input.TouchStarted})
		},
		"gamepad": func(s *ecs.Storage) {
			ecs.SendEvent(s, input.GamepadButtonInput{Button: ebiten.GamepadButton0, State: input.Pressed})
		},
		"skip event": splash.Skip,
	}
	for name, send := range events {
		t.Run(name, func(t *testing.T) {
			app := newSplashApp(t, splash.New(stateSplash, stateMenu).
				Skipable().
				AddScreen(splash.Screen{Brands: []splash.Item{textBrand("Studio", 5*time.Second)}}))
			app.Update(step)

			send(app.Storage())
			app.Update(step)
			assert.Zero(t, countClearSplash(app))
		})
	}
}

func TestIgnoreDefaultEvents(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		Skipable().
		IgnoreDefaultEvents().
		AddScreen(splash.Screen{Brands: []splash.Item{textBrand("Studio", 5*time.Second)}}))
	app.Update(step)

	ecs.SendEvent(app.Storage(), input.KeyboardInput{Key: ebiten.KeyEnter, State: input.Pressed})
	app.Update(step)
	assert.NotZero(t, countClearSplash(app))

	splash.Skip(app.Storage())
	app.Update(step)
	assert.Zero(t, countClearSplash(app))
}

func TestNotSkipable(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		AddScreen(splash.Screen{Brands: []splash.Item{textBrand("Studio", 5*time.Second)}}))
	app.Update(step)

	splash.Skip(app.Storage())
	ecs.SendEvent(app.Storage(), input.KeyboardInput{Key: ebiten.KeyEnter, State: input.Pressed})
	app.Update(step)
	assert.NotZero(t, countClearSplash(app))
}

func TestEmptyPluginDoesNothing(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu))
	app.Update(step)

	assert.False(t, ecs.HasState[screenState](app))
	assert.Zero(t, countEntities(app))
}

func TestScreensWithoutBrandsEndImmediately(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		AddScreen(splash.Screen{Background: black}))

	app.Update(step)
	assert.Zero(t, countClearSplash(app))
	app.Update(step)
	assert.Equal(t, stateMenu, currentState(t, app))
}

func TestStaticBrandStaysVisible(t *testing.T) {
	brand := textBrand("Static", time.Second)
	brand.Static = true
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		AddScreen(splash.Screen{Brands: []splash.Item{brand}}))

	app.Update(0)
	runUntil(app, 2500*time.Millisecond, func() bool { return false })
	assert.Equal(t, float32(1), findText(t, app).Sections[0].Style.Color.A)

	elapsed := runUntil(app, 10*time.Second, func() bool { return countClearSplash(app) == 0 })
	assert.InDelta(t, 1.5, elapsed.Seconds(), 2*step)
}

func TestCustomClearSplashNodeIsRemoved(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		Skipable().
		AddScreen(splash.Screen{Brands: []splash.Item{textBrand("Studio", 5*time.Second)}}))

	hint, _ := app.Storage().SpawnTree(
		[]any{ui.Node{}, splash.ClearSplash{}},
		[]any{ui.Node{}, ui.NewText("Press any key", ui.TextStyle{})},
	)
	app.Update(step)
	require.True(t, app.Storage().Alive(hint))

	splash.Skip(app.Storage())
	app.Update(step)
	assert.False(t, app.Storage().Alive(hint))
	assert.Zero(t, countEntities(app))
}

func TestConfiguredTextIsNotMutated(t *testing.T) {
	brand := textBrand("Studio", time.Second)
	brand.Asset = splash.TextAsset{Text: ui.NewText("Studio", ui.TextStyle{Color: white}), Font: "Fira.ttf"}
	plugin := splash.New(stateSplash, stateMenu).AddScreen(splash.Screen{Brands: []splash.Item{brand}})
	app := newSplashApp(t, plugin)
	app.Update(step)

	asset := plugin.Screens()[0].Brands[0].Asset.(splash.TextAsset)
	assert.Equal(t, white, asset.Text.Sections[0].Style.Color)
	assert.Empty(t, asset.Text.Sections[0].Style.Font)
	assert.Equal(t, "Fira.ttf", findText(t, app).Sections[0].Style.Font)
}

func TestSkipAfterSplashEndedIsIgnored(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		Skipable().
		AddScreen(splash.Screen{Brands: []splash.Item{textBrand("Studio", 5*time.Second)}}))
	app.Update(step)

	splash.Skip(app.Storage())
	app.Update(step)
	app.Update(step)
	require.Equal(t, stateMenu, currentState(t, app))

	state, _ := ecs.LookupSingleton[ecs.State[screenState]](app.Storage())
	state.Set(stateGame)
	app.Update(step)
	require.Equal(t, stateGame, currentState(t, app))

	splash.Skip(app.Storage())
	ecs.SendEvent(app.Storage(), input.KeyboardInput{Key: ebiten.KeySpace, State: input.Pressed})
	app.Update(step)
	app.Update(step)
	assert.Equal(t, stateGame, currentState(t, app), "skipping with no splash left must not change state")
	assert.Zero(t, countEntities(app))
}

func TestLastScreenKeepsBackground(t *testing.T) {
	red := ui.RGB(1, 0, 0)
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		AddScreen(splash.Screen{
			Brands:     []splash.Item{textBrand("Long", 3*time.Second)},
			Wait:       splash.Specific(time.Second),
			Background: black,
		}).
		AddScreen(splash.Screen{
			Brands:     []splash.Item{textBrand("Short", time.Second)},
			Background: red,
		}))
	app.Update(0)

	// The last screen is done at 4s while the first one fades until 8s.
	runUntil(app, 4500*time.Millisecond, func() bool { return false })
	assert.Equal(t, black, backgroundColor(t, app))
	assert.NotZero(t, countClearSplash(app))

	// Overlapping screens: the first screen finishing switches the colour,
	// but the splash is left for a skip to end.
	runUntil(app, 4*time.Second, func() bool { return false })
	assert.Equal(t, red, backgroundColor(t, app))
	assert.NotZero(t, countClearSplash(app))
	assert.Equal(t, stateSplash, currentState(t, app))
}

func TestForeignCompletionEventsAreIgnored(t *testing.T) {
	app := newSplashApp(t, splash.New(stateSplash, stateMenu).
		AddScreen(splash.Screen{
			Brands:     []splash.Item{textBrand("Studio", 2*time.Second)},
			Background: black,
		}))
	app.Update(step)

	ecs.SendEvent(app.Storage(), tween.Completed{UserData: 99})
	require.NotPanics(t, func() { app.Update(step) })

	assert.Equal(t, black, backgroundColor(t, app))
	assert.NotZero(t, countClearSplash(app))
	assert.Equal(t, stateSplash, currentState(t, app))
}
