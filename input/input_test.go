package input_test

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	keys    []ebiten.Key
	mouse   []ebiten.MouseButton
	touches []ebiten.TouchID
	pads    map[ebiten.GamepadID][]ebiten.GamepadButton
}

func (f *fakeSource) JustPressedKeys(keys []ebiten.Key) []ebiten.Key {
	return append(keys, f.keys...)
}
func (f *fakeSource) JustReleasedKeys(keys []ebiten.Key) []ebiten.Key { return keys }
func (f *fakeSource) JustPressedMouseButtons() []ebiten.MouseButton  { return f.mouse }
func (f *fakeSource) JustReleasedMouseButtons() []ebiten.MouseButton { return nil }
func (f *fakeSource) JustPressedTouches(ids []ebiten.TouchID) []ebiten.TouchID {
	return append(ids, f.touches...)
}
func (f *fakeSource) JustReleasedTouches(ids []ebiten.TouchID) []ebiten.TouchID { return ids }
func (f *fakeSource) TouchPosition(ebiten.TouchID) (int, int)                   { return 3, 4 }
func (f *fakeSource) Gamepads(ids []ebiten.GamepadID) []ebiten.GamepadID {
	for id := range f.pads {
		ids = append(ids, id)
	}
	return ids
}
func (f *fakeSource) JustPressedGamepadButtons(id ebiten.GamepadID, buttons []ebiten.GamepadButton) []ebiten.GamepadButton {
	return append(buttons, f.pads[id]...)
}

type inputLog struct {
	Keys    ecs.EventReader[input.KeyboardInput]
	Mouse   ecs.EventReader[input.MouseButtonInput]
	Touch   ecs.EventReader[input.TouchInput]
	Gamepad ecs.EventReader[input.GamepadButtonInput]

	keys    []input.KeyboardInput
	mouse   []input.MouseButtonInput
	touches []input.TouchInput
	pads    []input.GamepadButtonInput
}

func (l *inputLog) Execute(frame *ecs.UpdateFrame) {
	for ev := range l.Keys.Read() {
		l.keys = append(l.keys, ev)
	}
	for ev := range l.Mouse.Read() {
		l.mouse = append(l.mouse, ev)
	}
	for ev := range l.Touch.Read() {
		l.touches = append(l.touches, ev)
	}
	for ev := range l.Gamepad.Read() {
		l.pads = append(l.pads, ev)
	}
}

func TestPollSystem(t *testing.T) {
	source := &fakeSource{
		keys:    []ebiten.Key{ebiten.KeySpace},
		mouse:   []ebiten.MouseButton{ebiten.MouseButtonLeft},
		touches: []ebiten.TouchID{7},
		pads:    map[ebiten.GamepadID][]ebiten.GamepadButton{1: {ebiten.GamepadButton0}},
	}

	app := ecs.NewApp()
	app.AddPlugins(input.Plugin{Source: source})
	log := &inputLog{}
	app.AddSystem(log)

	app.Update(0)

	require.Len(t, log.keys, 1)
	assert.Equal(t, input.KeyboardInput{Key: ebiten.KeySpace, State: input.Pressed}, log.keys[0])
	assert.Equal(t, []input.MouseButtonInput{{Button: ebiten.MouseButtonLeft, State: input.Pressed}}, log.mouse)
	assert.Equal(t, []input.TouchInput{{ID: 7, Phase: input.TouchStarted, X: 3, Y: 4}}, log.touches)
	assert.Equal(t, []input.GamepadButtonInput{{Gamepad: 1, Button: ebiten.GamepadButton0, State: input.Pressed}}, log.pads)

	*source = fakeSource{}
	app.Update(0)
	assert.Len(t, log.keys, 1, "no new edges")
}

func TestPollSystemRespectsCapture(t *testing.T) {
	source := &fakeSource{
		keys:  []ebiten.Key{ebiten.KeyA},
		mouse: []ebiten.MouseButton{ebiten.MouseButtonLeft},
		pads:  map[ebiten.GamepadID][]ebiten.GamepadButton{0: {ebiten.GamepadButton1}},
	}

	app := ecs.NewApp()
	app.AddPlugins(input.Plugin{Source: source})
	log := &inputLog{}
	app.AddSystem(log)

	capture, ok := ecs.LookupSingleton[input.Capture](app.Storage())
	require.True(t, ok)
	capture.Keyboard = true
	capture.Pointer = true

	app.Update(0)
	assert.Empty(t, log.keys)
	assert.Empty(t, log.mouse)
	assert.Len(t, log.pads, 1, "gamepads are never captured")

	capture.Keyboard = false
	app.Update(0)
	assert.Len(t, log.keys, 1)
	assert.Empty(t, log.mouse)
}
