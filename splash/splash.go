// Package splash shows a timed sequence of text and image brands before
// switching the app to another state.
//
// Each screen fades its brands in and out together. Screens play one after
// another over a shared background whose colour follows the active screen.
// When the last brand of the last screen has faded out, every splash node is
// removed and the app moves to the next state.
package splash

import (
	"log"
	"time"

	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/input"
	"github.com/plus3/splash/tween"
	"github.com/plus3/splash/ui"
)

// Asset is the content of a brand: a TextAsset or an ImageAsset.
type Asset interface {
	isAsset()
}

// TextAsset shows text. Font applies to every section that does not name
// its own font.
type TextAsset struct {
	Text ui.Text
	Font string
}

// ImageAsset shows an image loaded from the asset filesystem.
type ImageAsset struct {
	Path string
}

func (TextAsset) isAsset()  {}
func (ImageAsset) isAsset() {}

// Type selects how brands of a screen are arranged.
type Type int

const (
	// List stacks brands in a centred column.
	List Type = iota
	// Grid flows brands in centred rows that wrap.
	Grid
)

// Wait controls when the screen following this one starts.
type Wait struct {
	specific bool
	duration time.Duration
}

// AfterEnd starts the following screen once this one has faded out.
var AfterEnd = Wait{}

// Specific starts the following screen d after the initial one-second hold.
func Specific(d time.Duration) Wait {
	return Wait{specific: true, duration: d}
}

// Duration returns the explicit start delay and whether one was set.
func (w Wait) Duration() (time.Duration, bool) {
	return w.duration, w.specific
}

func (w Wait) String() string {
	if w.specific {
		return w.duration.String()
	}
	return "after_end"
}

// Item is a single brand. A nil Asset shows a plain block of Tint.
type Item struct {
	Asset Asset
	// Tint is the fully faded-in colour of the brand.
	Tint   ui.Color
	Width  ui.Val
	Height ui.Val
	Ease   tween.EaseMethod
	// Duration is the length of the fade in; the fade out takes as long.
	Duration time.Duration
	// Static brands skip the fade and stay at full tint while shown.
	Static bool
}

// Screen is a group of brands shown together.
type Screen struct {
	Brands     []Item
	Type       Type
	Wait       Wait
	Background ui.Color
}

// SkipEvent ends the splash immediately when skipping is enabled, even if
// default input events are ignored.
type SkipEvent struct{}

// Skip sends a SkipEvent.
func Skip(storage *ecs.Storage) {
	ecs.SendEvent(storage, SkipEvent{})
}

// Plugin configures the splash for the state machine S.
type Plugin[S comparable] struct {
	state         S
	next          S
	skipable      bool
	ignoreDefault bool
	screens       []Screen
	seen          *SeenStore
}

// New creates a splash shown while the app is in state and followed by
// next.
func New[S comparable](state, next S) *Plugin[S] {
	return &Plugin[S]{state: state, next: next}
}

// Skipable lets input end the splash early.
func (p *Plugin[S]) Skipable() *Plugin[S] {
	p.skipable = true
	return p
}

// IgnoreDefaultEvents makes keys, mouse buttons, touches and gamepad buttons
// no longer skip the splash. Only SkipEvent does.
func (p *Plugin[S]) IgnoreDefaultEvents() *Plugin[S] {
	p.ignoreDefault = true
	return p
}

// AddScreen appends a screen.
func (p *Plugin[S]) AddScreen(screen Screen) *Plugin[S] {
	p.screens = append(p.screens, screen)
	return p
}

// ShowOnce records in store that the splash finished and skips it on later
// runs.
func (p *Plugin[S]) ShowOnce(store *SeenStore) *Plugin[S] {
	p.seen = store
	return p
}

// Screens returns the configured screens.
func (p *Plugin[S]) Screens() []Screen {
	return p.screens
}

// Settings is the singleton holding the skip configuration.
type Settings struct {
	Skipable            bool
	IgnoreDefaultEvents bool
}

type screens struct {
	list []Screen
}

// maxScreens is the precomputed end condition of the splash.
type maxScreens[S comparable] struct {
	// last is the index of the last screen that has brands.
	last uint64
	// next is the state entered when the splash ends.
	next S
	// total is the number of completion events expected overall.
	total uint64
}

func newMaxScreens[S comparable](list []Screen, next S) maxScreens[S] {
	m := maxScreens[S]{next: next}
	for i, screen := range list {
		if len(screen.Brands) == 0 {
			continue
		}
		m.last = uint64(i)
		m.total += uint64(len(screen.Brands)) * 2
	}
	return m
}

// Build registers the splash on app. Without screens it does nothing;
// otherwise it adds the events, animators, resources and systems and makes
// sure State[S] exists, starting in the splash state.
func (p *Plugin[S]) Build(app *ecs.App) {
	if len(p.screens) == 0 {
		log.Printf("[Splash] No screens configured, plugin disabled")
		return
	}

	if !ecs.HasState[S](app) {
		ecs.AddState(app, p.state)
	}

	registry := app.Registry()
	ecs.RegisterComponent[ui.Node](registry)
	ecs.RegisterComponent[ui.BackgroundColor](registry)
	ecs.RegisterComponent[ui.Text](registry)
	ecs.RegisterComponent[ui.Image](registry)
	ecs.RegisterComponent[ClearSplash](registry)
	ecs.RegisterComponent[background](registry)

	ecs.AddEvent[SkipEvent](app)
	input.RegisterEvents(app)
	tween.AddAnimator[ui.Text](app)
	tween.AddAnimator[ui.BackgroundColor](app)

	storage := app.Storage()
	list := append([]Screen(nil), p.screens...)
	ecs.NewSingleton(storage, screens{list: list})
	ecs.NewSingleton(storage, newMaxScreens(list, p.next))
	ecs.NewSingleton(storage, Settings{Skipable: p.skipable, IgnoreDefaultEvents: p.ignoreDefault})

	if p.seen != nil {
		if p.seen.Seen() {
			log.Printf("[Splash] Already shown, going straight to the next state")
			app.AddStartupSystem(&gotoSystem[S]{next: p.next})
			return
		}
		ecs.OnEnter(app, p.next, &markSeenSystem{store: p.seen})
	}

	app.AddStartupSystem(&createSystem{})
	app.AddSystem(&updateSystem[S]{}, ecs.InState(p.state))
	if p.skipable {
		app.AddSystem(&skipSystem[S]{})
	}
}

// gotoSystem moves straight to the next state.
type gotoSystem[S comparable] struct {
	State ecs.Singleton[ecs.State[S]]
	next  S
}

func (s *gotoSystem[S]) Execute(frame *ecs.UpdateFrame) {
	s.State.Get().Set(s.next)
}

type markSeenSystem struct {
	store *SeenStore
}

func (s *markSeenSystem) Execute(frame *ecs.UpdateFrame) {
	if err := s.store.MarkSeen(); err != nil {
		log.Printf("[Splash] Warning: failed to record splash as shown: %v", err)
	}
}
