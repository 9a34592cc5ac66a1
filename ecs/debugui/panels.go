package debugui

import (
	"time"

	"github.com/plus3/splash/ecs"
)

// SpawnPanels adds the built-in debug windows to app. Selecting a node in
// the browser shows it in the inspector.
func SpawnPanels(app *ecs.App) {
	storage := app.Storage()
	perf := NewPerformancePanel(120)
	browser := NewNodeBrowserPanel(100)
	inspector := &InspectorPanel{}
	timer := NewFrameTimer()

	storage.Spawn(ImguiItem{Render: func() {
		perf.Render(app, timer.GetDeltaTime())
	}})
	storage.Spawn(ImguiItem{Order: 1, Render: func() {
		browser.Render(storage)
	}})
	storage.Spawn(ImguiItem{Order: 2, Render: func() {
		inspector.Render(storage, browser.Selected())
	}})
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
