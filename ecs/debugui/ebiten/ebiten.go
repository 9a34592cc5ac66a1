// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window. The imgui.ini file is
// disabled.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

// Overlay draws the ImGui frame on top of a ui.Game.
type Overlay struct {
	Backend *ImguiBackend
}

func (o Overlay) BeginFrame() {
	o.Backend.BeginFrame()
}

func (o Overlay) EndFrame() {
	o.Backend.EndFrame()
}

func (o Overlay) Draw(screen *ebiten.Image) {
	o.Backend.EbitenBackend.Draw(screen)
}

func (o Overlay) Layout(width, height int) {
	o.Backend.EbitenBackend.Layout(width, height)
}
