package ecs

import "iter"

type eventInstance[T any] struct {
	id    uint64
	event T
}

// Events is a double-buffered queue of T stored as a singleton. Events sent
// during a frame stay readable for that frame and the next one; Update drops
// the older buffer.
type Events[T any] struct {
	older []eventInstance[T]
	newer []eventInstance[T]
	next  uint64
}

// Send appends an event.
func (e *Events[T]) Send(event T) {
	e.newer = append(e.newer, eventInstance[T]{id: e.next, event: event})
	e.next++
}

// Update rotates the buffers. It is called once per frame by the App.
func (e *Events[T]) Update() {
	e.older, e.newer = e.newer, e.older[:0]
}

// Clear drops every buffered event.
func (e *Events[T]) Clear() {
	e.older = e.older[:0]
	e.newer = e.newer[:0]
}

// Len returns the number of buffered events across both buffers.
func (e *Events[T]) Len() int {
	return len(e.older) + len(e.newer)
}

// SendEvent sends an event through the storage's Events[T] singleton,
// creating it if needed.
func SendEvent[T any](storage *Storage, event T) {
	NewSingleton[Events[T]](storage).Get().Send(event)
}

// EventReader reads Events[T] with a private cursor so every reader sees each
// event at most once. Declare it as a system field and the Scheduler wires it.
type EventReader[T any] struct {
	events Singleton[Events[T]]
	cursor uint64
}

// NewEventReader creates a reader positioned at the oldest buffered event.
func NewEventReader[T any](storage *Storage) *EventReader[T] {
	r := &EventReader[T]{}
	r.Init(storage)
	return r
}

// Init binds the reader to a storage. Called by the Scheduler.
func (r *EventReader[T]) Init(storage *Storage) {
	NewSingleton[Events[T]](storage)
	r.events.Init(storage)
	r.cursor = 0
}

// Read yields unread events, oldest first, and advances the cursor past
// everything it yields.
func (r *EventReader[T]) Read() iter.Seq[T] {
	return func(yield func(T) bool) {
		events := r.events.Get()
		if events == nil {
			return
		}
		for _, buf := range [][]eventInstance[T]{events.older, events.newer} {
			for _, inst := range buf {
				if inst.id < r.cursor {
					continue
				}
				r.cursor = inst.id + 1
				if !yield(inst.event) {
					return
				}
			}
		}
		r.cursor = events.next
	}
}

// Len returns the number of events this reader has not seen yet.
func (r *EventReader[T]) Len() int {
	events := r.events.Get()
	if events == nil {
		return 0
	}
	n := 0
	for _, buf := range [][]eventInstance[T]{events.older, events.newer} {
		for _, inst := range buf {
			if inst.id >= r.cursor {
				n++
			}
		}
	}
	return n
}

// IsEmpty reports whether there is nothing left to read.
func (r *EventReader[T]) IsEmpty() bool {
	return r.Len() == 0
}

// Clear marks every buffered event as read.
func (r *EventReader[T]) Clear() {
	if events := r.events.Get(); events != nil {
		r.cursor = events.next
	}
}
