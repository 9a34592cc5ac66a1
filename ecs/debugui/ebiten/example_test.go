package ebiten_test

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/ecs/debugui"
	debugui_ebiten "github.com/plus3/splash/ecs/debugui/ebiten"
	"github.com/plus3/splash/ui"
)

func Example() {
	// Create the ImGui backend and its window
	backend := debugui_ebiten.NewImguiBackend("Splash Debug", 1280, 720)

	// Build the app with the UI and the debug panels
	app := ecs.NewApp()
	app.AddPlugins(
		ui.Plugin{Width: 1280, Height: 720, Clear: ui.Black},
		debugui.Plugin{Panels: true},
	)

	// Add a custom debug window
	app.Storage().Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Debug Window")
			imgui.Text("Hello from ECS!")
			imgui.End()
		},
	})

	// Draw ImGui on top of the UI
	game := ui.NewGame(app)
	game.SetOverlay(debugui_ebiten.Overlay{Backend: backend})

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
