package tween

import "time"

// State reports whether a tweenable still has work to do.
type State int

const (
	Active State = iota
	Finished
)

func (s State) String() string {
	if s == Finished {
		return "finished"
	}
	return "active"
}

// Tweenable is anything that can be ticked to animate a *T.
type Tweenable[T any] interface {
	// TotalDuration returns the full playback length. The boolean is false for
	// animations that repeat forever.
	TotalDuration() (time.Duration, bool)
	// Elapsed returns how much time has been consumed so far.
	Elapsed() time.Duration
	// Tick advances by delta, writes into target and calls emit once for each
	// completion event raised during the step.
	Tick(delta time.Duration, target *T, emit func(userData uint64)) State
	// Rewind resets playback to the start.
	Rewind()
}

func discard(uint64) {}
