package main

import (
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/ecs/debugui"
	"github.com/plus3/splash/input"
	"github.com/plus3/splash/splash"
	"github.com/plus3/splash/ui"
)

type previewState int

const (
	stateSplash previewState = iota
	stateMenu
)

// Restart asks the preview to play the splash again.
type Restart struct {
	Requested bool
}

type options struct {
	configPath string
	assets     fs.FS
	width      float64
	height     float64
	debug      bool
	// seen is used when the config or -once asks for ShowOnce.
	seen *splash.SeenStore
}

// newApp builds an app playing cfg and then showing the menu placeholder.
func newApp(cfg *splash.Config, opts options, source input.Source) (*ecs.App, error) {
	plugin := splash.New(stateSplash, stateMenu)
	if err := splash.Apply(cfg, plugin); err != nil {
		return nil, err
	}
	if opts.seen != nil {
		plugin.ShowOnce(opts.seen)
	}

	app := ecs.NewApp()
	app.AddPlugins(
		ui.Plugin{Assets: opts.assets, Width: opts.width, Height: opts.height, Clear: ui.Black},
		input.Plugin{Source: source},
		plugin,
	)
	ecs.NewSingleton[Restart](app.Storage())
	control := &controlSystem{}
	app.AddSystem(control, ecs.InState(stateMenu))
	ecs.OnEnter(app, stateMenu, &menuSystem{control: control})

	if opts.debug {
		app.AddPlugins(debugui.Plugin{Panels: true})
	}
	return app, nil
}

// menuSystem spawns the placeholder shown once the splash has ended. The
// key that skipped the splash is still buffered at that point, so the menu
// controls start reading after it.
type menuSystem struct {
	control *controlSystem
}

func (s *menuSystem) Execute(frame *ecs.UpdateFrame) {
	log.Printf("[Preview] Splash finished")
	if s.control != nil {
		s.control.Keyboard.Clear()
	}
	frame.Commands.Spawn(
		ui.Node{Style: ui.Style{
			Position: ui.Absolute,
			Width:    ui.Percent(100),
			Height:   ui.Percent(100),
			Justify:  ui.JustifyCenter,
			Align:    ui.AlignCenter,
		}},
		ui.Text{
			Sections: []ui.TextSection{
				{Value: "Menu\n", Style: ui.TextStyle{Size: 48, Color: ui.White}},
				{Value: "R to replay, Esc to quit", Style: ui.TextStyle{Size: 20, Color: ui.RGB(0.6, 0.6, 0.6)}},
			},
			Justify: ui.TextCenter,
		},
	)
}

// controlSystem handles the menu keys.
type controlSystem struct {
	Keyboard ecs.EventReader[input.KeyboardInput]
	Restart  ecs.Singleton[Restart]
	Exit     ecs.Singleton[ui.Exit]
}

func (s *controlSystem) Execute(frame *ecs.UpdateFrame) {
	for ev := range s.Keyboard.Read() {
		if ev.State != input.Pressed {
			continue
		}
		switch ev.Key {
		case ebiten.KeyR:
			s.Restart.Get().Requested = true
		case ebiten.KeyEscape:
			s.Exit.Get().Requested = true
		}
	}
}

// preview runs the splash and rebuilds it on restart or file changes.
type preview struct {
	cfg     *splash.Config
	opts    options
	game    *ui.Game
	overlay ui.Overlay
	watcher *Watcher
	reload  func(path string) (*splash.Config, error)
}

func newPreview(cfg *splash.Config, opts options) (*preview, error) {
	p := &preview{cfg: cfg, opts: opts, reload: splash.LoadConfig}
	if err := p.rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *preview) rebuild() error {
	app, err := newApp(p.cfg, p.opts, nil)
	if err != nil {
		return err
	}
	p.game = ui.NewGame(app)
	if p.overlay != nil {
		p.game.SetOverlay(p.overlay)
	}
	return nil
}

func (p *preview) setOverlay(overlay ui.Overlay) {
	p.overlay = overlay
	p.game.SetOverlay(overlay)
}

// poll drains pending file changes. It returns true when anything changed.
func (p *preview) poll() bool {
	if p.watcher == nil {
		return false
	}
	changed := false
	for {
		select {
		case name := <-p.watcher.Events:
			log.Printf("[Preview] %s changed", name)
			changed = true
		case err := <-p.watcher.Errors:
			log.Printf("[Preview] Watch error: %v", err)
		default:
			return changed
		}
	}
}

// refresh reloads the config from disk and restarts the splash. A broken
// config keeps the current one running.
func (p *preview) refresh() {
	cfg, err := p.reload(p.opts.configPath)
	if err != nil {
		log.Printf("[Preview] Keeping previous config: %v", err)
		return
	}
	p.cfg = cfg
	if err := p.rebuild(); err != nil {
		log.Printf("[Preview] Failed to rebuild splash: %v", err)
	}
}

func (p *preview) Update() error {
	if p.poll() {
		p.refresh()
	}
	if restart, ok := ecs.LookupSingleton[Restart](p.game.App().Storage()); ok && restart.Requested {
		if err := p.rebuild(); err != nil {
			return err
		}
	}
	return p.game.Update()
}

func (p *preview) Draw(screen *ebiten.Image) {
	p.game.Draw(screen)
}

func (p *preview) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.game.Layout(outsideWidth, outsideHeight)
}
