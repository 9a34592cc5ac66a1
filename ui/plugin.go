package ui

import (
	"io/fs"
	"log"

	"github.com/plus3/splash/ecs"
)

// Plugin registers the UI components, the asset cache and the layout system.
type Plugin struct {
	// Assets is the filesystem fonts and images are loaded from.
	Assets fs.FS
	// Width and Height seed the Window singleton until the first Layout call.
	Width, Height float64
	// Clear is the screen clear colour.
	Clear Color
}

// Build registers the UI components, the Window and Assets singletons and the
// layout system.
func (p Plugin) Build(app *ecs.App) {
	registry := app.Registry()
	ecs.RegisterComponent[Node](registry)
	ecs.RegisterComponent[BackgroundColor](registry)
	ecs.RegisterComponent[Text](registry)
	ecs.RegisterComponent[Image](registry)

	storage := app.Storage()
	width, height := p.Width, p.Height
	if width <= 0 || height <= 0 {
		width, height = 1280, 720
	}
	ecs.NewSingleton(storage, Window{Width: width, Height: height})
	ecs.NewSingleton(storage, ClearColor{Color: p.Clear})
	ecs.NewSingleton[Exit](storage)

	assets, err := NewAssets(p.Assets)
	if err != nil {
		log.Printf("[UI] Warning: %v", err)
	} else {
		storage.AddSingleton(assets)
	}

	app.AddSystem(&LayoutSystem{})
}
