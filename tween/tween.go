package tween

import (
	"fmt"
	"time"
)

// RepeatCount controls how many times a Tween plays.
type RepeatCount struct {
	times    uint32
	duration time.Duration
	infinite bool
}

// Finite plays the tween n times. Zero is treated as one.
func Finite(n uint32) RepeatCount {
	return RepeatCount{times: max(n, 1)}
}

// For repeats the tween until d has elapsed.
func For(d time.Duration) RepeatCount {
	return RepeatCount{duration: d}
}

// Infinite repeats the tween forever.
var Infinite = RepeatCount{infinite: true}

func (r RepeatCount) String() string {
	switch {
	case r.infinite:
		return "infinite"
	case r.duration > 0:
		return "for " + r.duration.String()
	default:
		return fmt.Sprintf("%dx", r.times)
	}
}

// RepeatStrategy decides how a repeating tween restarts.
type RepeatStrategy int

const (
	// Repeat jumps back to the start on each iteration.
	Repeat RepeatStrategy = iota
	// MirroredRepeat plays every other iteration backwards.
	MirroredRepeat
)

// Direction is the playback direction of a single iteration.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Tween interpolates a lens over a fixed duration.
type Tween[T any] struct {
	ease      EaseMethod
	lens      Lens[T]
	duration  time.Duration
	repeat    RepeatCount
	strategy  RepeatStrategy
	direction Direction

	elapsed  time.Duration
	ticks    uint64
	hasEvent bool
	userData uint64
}

// New creates a tween that plays once, forward.
func New[T any](ease EaseMethod, duration time.Duration, lens Lens[T]) *Tween[T] {
	if ease == nil {
		ease = Linear
	}
	return &Tween[T]{
		ease:     ease,
		lens:     lens,
		duration: duration,
		repeat:   Finite(1),
	}
}

// WithRepeatCount sets how many iterations the tween plays. The default is
// Finite(1).
func (t *Tween[T]) WithRepeatCount(count RepeatCount) *Tween[T] {
	t.repeat = count
	return t
}

// WithRepeatStrategy chooses whether each new iteration restarts from the
// start or plays back from the end.
func (t *Tween[T]) WithRepeatStrategy(strategy RepeatStrategy) *Tween[T] {
	t.strategy = strategy
	return t
}

// WithDirection sets the direction of the first iteration.
func (t *Tween[T]) WithDirection(direction Direction) *Tween[T] {
	t.direction = direction
	return t
}

// WithCompletedEvent makes the tween raise a completion event carrying
// userData each time an iteration finishes.
func (t *Tween[T]) WithCompletedEvent(userData uint64) *Tween[T] {
	t.hasEvent = true
	t.userData = userData
	return t
}

// Then chains next after this tween.
func (t *Tween[T]) Then(next Tweenable[T]) *Sequence[T] {
	return NewSequence[T](t, next)
}

// Duration returns the length of one iteration.
func (t *Tween[T]) Duration() time.Duration {
	return t.duration
}

// TotalDuration returns duration × iterations, or false when the tween
// repeats forever.
func (t *Tween[T]) TotalDuration() (time.Duration, bool) {
	switch {
	case t.repeat.infinite:
		return 0, false
	case t.repeat.duration > 0:
		return t.repeat.duration, true
	default:
		return t.duration * time.Duration(t.repeat.times), true
	}
}

func (t *Tween[T]) Elapsed() time.Duration {
	return t.elapsed
}

// TimesCompleted returns how many iterations have finished.
func (t *Tween[T]) TimesCompleted() uint64 {
	if t.duration <= 0 {
		return t.ticks
	}
	return uint64(t.elapsed / t.duration)
}

// Rewind resets progress and the completed iteration count.
func (t *Tween[T]) Rewind() {
	t.elapsed = 0
	t.ticks = 0
}

// Tick advances the tween, writes the eased value into target and calls emit
// once per finished iteration when a completion event was requested.
func (t *Tween[T]) Tick(delta time.Duration, target *T, emit func(userData uint64)) State {
	if emit == nil {
		emit = discard
	}
	if t.duration <= 0 {
		return t.tickInstant(target, emit)
	}

	total, finite := t.TotalDuration()
	if finite && t.elapsed >= total {
		return Finished
	}

	before := t.TimesCompleted()
	t.elapsed += delta
	done := finite && t.elapsed >= total
	if done {
		t.elapsed = total
	}

	iteration := t.elapsed / t.duration
	progress := float64(t.elapsed%t.duration) / float64(t.duration)
	if done && progress == 0 && iteration > 0 {
		iteration--
		progress = 1
	}
	t.apply(target, uint64(iteration), progress)

	if t.hasEvent {
		for range t.TimesCompleted() - before {
			emit(t.userData)
		}
	}

	if done {
		return Finished
	}
	return Active
}

func (t *Tween[T]) tickInstant(target *T, emit func(uint64)) State {
	total, finite := t.TotalDuration()
	if finite && t.ticks > 0 {
		return Finished
	}
	iterations := uint64(1)
	if finite && t.repeat.duration == 0 {
		iterations = uint64(t.repeat.times)
	}
	t.ticks += iterations
	t.elapsed = total
	t.apply(target, iterations-1, 1)
	if t.hasEvent {
		for range iterations {
			emit(t.userData)
		}
	}
	if finite {
		return Finished
	}
	return Active
}

func (t *Tween[T]) apply(target *T, iteration uint64, progress float64) {
	if t.strategy == MirroredRepeat && iteration%2 == 1 {
		progress = 1 - progress
	}
	if t.direction == Backward {
		progress = 1 - progress
	}
	if target != nil && t.lens != nil {
		t.lens.Lerp(target, t.ease.Sample(progress))
	}
}

// Delay is a tweenable that waits without touching its target.
type Delay[T any] struct {
	duration time.Duration
	elapsed  time.Duration
}

// NewDelay returns a tweenable that only waits.
func NewDelay[T any](duration time.Duration) *Delay[T] {
	return &Delay[T]{duration: max(duration, 0)}
}

// Then plays next once the delay is over.
func (d *Delay[T]) Then(next Tweenable[T]) *Sequence[T] {
	return NewSequence[T](d, next)
}

func (d *Delay[T]) TotalDuration() (time.Duration, bool) {
	return d.duration, true
}

func (d *Delay[T]) Elapsed() time.Duration {
	return d.elapsed
}

func (d *Delay[T]) Rewind() {
	d.elapsed = 0
}

func (d *Delay[T]) Tick(delta time.Duration, _ *T, _ func(uint64)) State {
	d.elapsed = min(d.elapsed+delta, d.duration)
	if d.elapsed >= d.duration {
		return Finished
	}
	return Active
}

// Sequence plays tweenables one after another. Time left over when one
// finishes carries into the next within the same tick.
type Sequence[T any] struct {
	items []Tweenable[T]
	index int
}

// NewSequence plays items one after another.
func NewSequence[T any](items ...Tweenable[T]) *Sequence[T] {
	s := &Sequence[T]{}
	for _, item := range items {
		s.append(item)
	}
	return s
}

func (s *Sequence[T]) append(item Tweenable[T]) {
	if nested, ok := item.(*Sequence[T]); ok && nested.index == 0 {
		s.items = append(s.items, nested.items...)
		return
	}
	s.items = append(s.items, item)
}

// Then appends next and returns the same sequence.
func (s *Sequence[T]) Then(next Tweenable[T]) *Sequence[T] {
	s.append(next)
	return s
}

// Len returns the number of chained tweenables.
func (s *Sequence[T]) Len() int {
	return len(s.items)
}

// Index returns the position of the tweenable currently playing.
func (s *Sequence[T]) Index() int {
	return s.index
}

func (s *Sequence[T]) TotalDuration() (time.Duration, bool) {
	var total time.Duration
	for _, item := range s.items {
		d, finite := item.TotalDuration()
		if !finite {
			return 0, false
		}
		total += d
	}
	return total, true
}

func (s *Sequence[T]) Elapsed() time.Duration {
	var elapsed time.Duration
	for _, item := range s.items {
		elapsed += item.Elapsed()
	}
	return elapsed
}

func (s *Sequence[T]) Rewind() {
	for _, item := range s.items {
		item.Rewind()
	}
	s.index = 0
}

// Tick advances the current item and carries leftover time into the next.
func (s *Sequence[T]) Tick(delta time.Duration, target *T, emit func(uint64)) State {
	for s.index < len(s.items) {
		item := s.items[s.index]
		before := item.Elapsed()
		if item.Tick(delta, target, emit) == Active {
			return Active
		}
		delta -= item.Elapsed() - before
		if delta < 0 {
			delta = 0
		}
		s.index++
	}
	return Finished
}
