package splash

import (
	"log"

	"github.com/kamstrup/intmap"
	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/input"
	"github.com/plus3/splash/tween"
	"github.com/plus3/splash/ui"
)

// ClearSplash marks root nodes that are removed, with their children, when
// the splash ends. Games can attach it to their own nodes, such as a "press
// any key" hint, to have them cleaned up too.
type ClearSplash struct{}

// background drives the colour of the shared background node.
type background struct {
	// expected is the number of completion events each screen raises.
	expected []uint64
	colors   []ui.Color
}

type clearView struct {
	*ClearSplash
}

// end removes every splash root with its children and queues the next state.
func end[S comparable](frame *ecs.UpdateFrame, nodes *ecs.Query[clearView], state *ecs.State[S], next S) {
	for id := range nodes.Iter() {
		frame.Commands.DeleteRecursive(id)
	}
	if state != nil {
		state.Set(next)
	}
	log.Printf("[Splash] Finished, switching to %v", next)
}

// updateSystem counts brand completions, switches the background colour
// when a screen is done and ends the splash after the last one.
type updateSystem[S comparable] struct {
	Completed  ecs.EventReader[tween.Completed]
	Background ecs.Query[struct {
		Color *ui.BackgroundColor
		Data  *background
	}]
	Nodes ecs.Query[clearView]
	Max   ecs.Singleton[maxScreens[S]]
	State ecs.Singleton[ecs.State[S]]

	// completed counts every completion event seen so far.
	completed uint64
	// shown counts completion events per screen index.
	shown *intmap.Map[uint64, uint64]
}

func (s *updateSystem[S]) Execute(frame *ecs.UpdateFrame) {
	limits := s.Max.Get()
	if s.shown == nil {
		s.shown = intmap.New[uint64, uint64](8)
	}

	finished := limits.total == 0
	for ev := range s.Completed.Read() {
		s.completed++
		if ev.UserData == limits.last && s.completed == limits.total {
			finished = true
		}

		count, _ := s.shown.Get(ev.UserData)
		count++
		s.shown.Put(ev.UserData, count)

		screen := ev.UserData
		for _, bg := range s.Background.Iter() {
			if screen >= uint64(len(bg.Data.expected)) || screen+1 >= uint64(len(bg.Data.colors)) {
				continue
			}
			if bg.Data.expected[screen] == count {
				bg.Color.Color = bg.Data.colors[screen+1]
			}
		}
	}

	if finished {
		end(frame, &s.Nodes, s.State.Get(), limits.next)
	}
}

// skipSystem ends the splash on user input or a SkipEvent.
type skipSystem[S comparable] struct {
	Keyboard ecs.EventReader[input.KeyboardInput]
	Mouse    ecs.EventReader[input.MouseButtonInput]
	Touch    ecs.EventReader[input.TouchInput]
	Gamepad  ecs.EventReader[input.GamepadButtonInput]
	Skip     ecs.EventReader[SkipEvent]

	Nodes    ecs.Query[clearView]
	Max      ecs.Singleton[maxScreens[S]]
	Settings ecs.Singleton[Settings]
	State    ecs.Singleton[ecs.State[S]]
}

func (s *skipSystem[S]) Execute(frame *ecs.UpdateFrame) {
	settings := s.Settings.Get()
	if settings == nil || !settings.Skipable || s.Nodes.Empty() {
		return
	}

	done := false
	if !settings.IgnoreDefaultEvents {
		for ev := range s.Keyboard.Read() {
			done = done || ev.State == input.Pressed
		}
		for ev := range s.Mouse.Read() {
			done = done || ev.State == input.Pressed
		}
		for ev := range s.Touch.Read() {
			done = done || ev.Phase == input.TouchStarted
		}
		for ev := range s.Gamepad.Read() {
			done = done || ev.State == input.Pressed
		}
	}

	if !s.Skip.IsEmpty() {
		s.Skip.Clear()
		done = true
	}

	if done {
		end(frame, &s.Nodes, s.State.Get(), s.Max.Get().next)
	}
}
