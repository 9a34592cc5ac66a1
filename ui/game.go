package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/splash/ecs"
)

// Overlay draws on top of the UI, such as a debug interface. BeginFrame and
// EndFrame bracket the app update.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// Exit requests the game loop to stop after the current update.
type Exit struct {
	Requested bool
}

// Game adapts an ecs.App to ebiten.Game.
type Game struct {
	app      *ecs.App
	renderer *Renderer
	overlay  Overlay
}

// NewGame wraps app. The app should already carry the ui Plugin.
func NewGame(app *ecs.App) *Game {
	return &Game{
		app:      app,
		renderer: NewRenderer(app.Storage()),
	}
}

// SetOverlay installs an overlay drawn after the UI.
func (g *Game) SetOverlay(overlay Overlay) {
	g.overlay = overlay
}

// App returns the wrapped app.
func (g *Game) App() *ecs.App {
	return g.app
}

// Update advances the app by one tick and returns ebiten.Termination once
// Exit is requested.
func (g *Game) Update() error {
	if g.overlay != nil {
		g.overlay.BeginFrame()
	}
	g.app.Update(1 / float64(ebiten.TPS()))
	if g.overlay != nil {
		g.overlay.EndFrame()
	}

	if exit, ok := ecs.LookupSingleton[Exit](g.app.Storage()); ok && exit.Requested {
		return ebiten.Termination
	}
	return nil
}

// Draw clears the screen, renders the nodes and then the overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if cc, ok := ecs.LookupSingleton[ClearColor](g.app.Storage()); ok {
		screen.Fill(cc.Color)
	}
	g.renderer.Draw(screen)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

// Layout keeps the logical size equal to the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if window, ok := ecs.LookupSingleton[Window](g.app.Storage()); ok {
		window.Width = float64(outsideWidth)
		window.Height = float64(outsideHeight)
	}
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
