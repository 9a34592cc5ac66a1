// Package input turns Ebitengine input polling into ECS events.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/splash/ecs"
)

// ButtonState is the edge a button event reports.
type ButtonState int

const (
	Pressed ButtonState = iota
	Released
)

type KeyboardInput struct {
	Key   ebiten.Key
	State ButtonState
}

type MouseButtonInput struct {
	Button ebiten.MouseButton
	State  ButtonState
}

// TouchPhase is the lifecycle stage of a touch.
type TouchPhase int

const (
	TouchStarted TouchPhase = iota
	TouchEnded
)

type TouchInput struct {
	ID    ebiten.TouchID
	Phase TouchPhase
	X, Y  int
}

type GamepadButtonInput struct {
	Gamepad ebiten.GamepadID
	Button  ebiten.GamepadButton
	State   ButtonState
}

// Source reports the input edges of the current tick.
type Source interface {
	JustPressedKeys(keys []ebiten.Key) []ebiten.Key
	JustReleasedKeys(keys []ebiten.Key) []ebiten.Key
	JustPressedMouseButtons() []ebiten.MouseButton
	JustReleasedMouseButtons() []ebiten.MouseButton
	JustPressedTouches(ids []ebiten.TouchID) []ebiten.TouchID
	JustReleasedTouches(ids []ebiten.TouchID) []ebiten.TouchID
	TouchPosition(id ebiten.TouchID) (int, int)
	Gamepads(ids []ebiten.GamepadID) []ebiten.GamepadID
	JustPressedGamepadButtons(id ebiten.GamepadID, buttons []ebiten.GamepadButton) []ebiten.GamepadButton
}

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
	ebiten.MouseButton3,
	ebiten.MouseButton4,
}

// EbitenSource polls the live Ebitengine input state.
type EbitenSource struct{}

func (EbitenSource) JustPressedKeys(keys []ebiten.Key) []ebiten.Key {
	return inpututil.AppendJustPressedKeys(keys)
}

func (EbitenSource) JustReleasedKeys(keys []ebiten.Key) []ebiten.Key {
	return inpututil.AppendJustReleasedKeys(keys)
}

func (EbitenSource) JustPressedMouseButtons() []ebiten.MouseButton {
	var pressed []ebiten.MouseButton
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			pressed = append(pressed, b)
		}
	}
	return pressed
}

func (EbitenSource) JustReleasedMouseButtons() []ebiten.MouseButton {
	var released []ebiten.MouseButton
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustReleased(b) {
			released = append(released, b)
		}
	}
	return released
}

func (EbitenSource) JustPressedTouches(ids []ebiten.TouchID) []ebiten.TouchID {
	return inpututil.AppendJustPressedTouchIDs(ids)
}

func (EbitenSource) JustReleasedTouches(ids []ebiten.TouchID) []ebiten.TouchID {
	return inpututil.AppendJustReleasedTouchIDs(ids)
}

func (EbitenSource) TouchPosition(id ebiten.TouchID) (int, int) {
	return ebiten.TouchPosition(id)
}

func (EbitenSource) Gamepads(ids []ebiten.GamepadID) []ebiten.GamepadID {
	return ebiten.AppendGamepadIDs(ids)
}

func (EbitenSource) JustPressedGamepadButtons(id ebiten.GamepadID, buttons []ebiten.GamepadButton) []ebiten.GamepadButton {
	return inpututil.AppendJustPressedGamepadButtons(id, buttons)
}

// Capture is set by overlays that consume input themselves. While a flag is
// set, PollSystem sends no events of that kind.
type Capture struct {
	Keyboard bool
	Pointer  bool
}

// PollSystem forwards the edges reported by Source as events.
type PollSystem struct {
	Source Source

	Capture  ecs.Singleton[Capture]

	Keyboard ecs.Singleton[ecs.Events[KeyboardInput]]
	Mouse    ecs.Singleton[ecs.Events[MouseButtonInput]]
	Touch    ecs.Singleton[ecs.Events[TouchInput]]
	Gamepad  ecs.Singleton[ecs.Events[GamepadButtonInput]]

	keys     []ebiten.Key
	touches  []ebiten.TouchID
	gamepads []ebiten.GamepadID
	buttons  []ebiten.GamepadButton
}

// Execute sends the edges of this frame, skipping captured devices.
func (s *PollSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Source == nil {
		return
	}

	var capture Capture
	if c := s.Capture.Get(); c != nil {
		capture = *c
	}
	if !capture.Keyboard {
		s.pollKeyboard()
	}
	if !capture.Pointer {
		s.pollPointer()
	}
	s.pollGamepads()
}

func (s *PollSystem) pollKeyboard() {
	keyboard := s.Keyboard.Get()
	s.keys = s.Source.JustPressedKeys(s.keys[:0])
	for _, key := range s.keys {
		keyboard.Send(KeyboardInput{Key: key, State: Pressed})
	}
	s.keys = s.Source.JustReleasedKeys(s.keys[:0])
	for _, key := range s.keys {
		keyboard.Send(KeyboardInput{Key: key, State: Released})
	}
}

func (s *PollSystem) pollPointer() {
	mouse := s.Mouse.Get()
	for _, b := range s.Source.JustPressedMouseButtons() {
		mouse.Send(MouseButtonInput{Button: b, State: Pressed})
	}
	for _, b := range s.Source.JustReleasedMouseButtons() {
		mouse.Send(MouseButtonInput{Button: b, State: Released})
	}

	touch := s.Touch.Get()
	s.touches = s.Source.JustPressedTouches(s.touches[:0])
	for _, id := range s.touches {
		x, y := s.Source.TouchPosition(id)
		touch.Send(TouchInput{ID: id, Phase: TouchStarted, X: x, Y: y})
	}
	s.touches = s.Source.JustReleasedTouches(s.touches[:0])
	for _, id := range s.touches {
		touch.Send(TouchInput{ID: id, Phase: TouchEnded})
	}
}

func (s *PollSystem) pollGamepads() {
	gamepad := s.Gamepad.Get()
	s.gamepads = s.Source.Gamepads(s.gamepads[:0])
	for _, id := range s.gamepads {
		s.buttons = s.Source.JustPressedGamepadButtons(id, s.buttons[:0])
		for _, b := range s.buttons {
			gamepad.Send(GamepadButtonInput{Gamepad: id, Button: b, State: Pressed})
		}
	}
}

// RegisterEvents adds the input event types without polling anything.
func RegisterEvents(app *ecs.App) {
	ecs.AddEvent[KeyboardInput](app)
	ecs.AddEvent[MouseButtonInput](app)
	ecs.AddEvent[TouchInput](app)
	ecs.AddEvent[GamepadButtonInput](app)
}

// Plugin registers the input events and polls Source every frame. A nil
// Source polls Ebitengine.
type Plugin struct {
	Source Source
}

// Build registers the events, the Capture singleton and the PollSystem.
func (p Plugin) Build(app *ecs.App) {
	RegisterEvents(app)
	ecs.NewSingleton[Capture](app.Storage())
	source := p.Source
	if source == nil {
		source = EbitenSource{}
	}
	app.AddSystem(&PollSystem{Source: source})
}
