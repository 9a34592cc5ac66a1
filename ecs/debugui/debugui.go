// Package debugui draws Dear ImGui windows over a running app. Windows are
// entities carrying an ImguiItem; their render funcs run once the frame's
// systems are done.
package debugui

import (
	"cmp"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/input"
)

// ImguiItem holds a render func called every frame. Lower Order renders
// first.
type ImguiItem struct {
	Render func()
	Order  int
}

// ImguiInputState mirrors whether ImGui wants the mouse or keyboard.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem defers every ImguiItem render func and publishes ImGui's
// capture flags, both as ImguiInputState and as input.Capture so the splash
// does not react to clicks and keys meant for a panel.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
	Capture    ecs.Singleton[input.Capture]

	items []*ImguiItem
}

// Execute publishes the capture flags and queues every render func in Order.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	i.publish(io.WantCaptureMouse(), io.WantCaptureKeyboard())

	i.items = i.items[:0]
	for item := range i.Items.Values() {
		i.items = append(i.items, item.ImguiItem)
	}
	slices.SortStableFunc(i.items, func(a, b *ImguiItem) int {
		return cmp.Compare(a.Order, b.Order)
	})
	for _, item := range i.items {
		frame.Commands.Defer(item.Render)
	}
}

func (i *ImguiSystem) publish(mouse, keyboard bool) {
	state := i.InputState.Get()
	state.WantCaptureMouse = mouse
	state.WantCaptureKeyboard = keyboard

	if capture := i.Capture.Get(); capture != nil {
		capture.Pointer = mouse
		capture.Keyboard = keyboard
	}
}

// Plugin installs the ImGui system. With Panels set it also spawns the
// performance, node browser and inspector windows.
type Plugin struct {
	Panels bool
}

// Build registers ImguiItem and the ImguiSystem.
func (p Plugin) Build(app *ecs.App) {
	ecs.RegisterComponent[ImguiItem](app.Registry())
	ecs.NewSingleton(app.Storage(), ImguiInputState{})
	app.AddSystem(&ImguiSystem{})

	if p.Panels {
		SpawnPanels(app)
	}
}
