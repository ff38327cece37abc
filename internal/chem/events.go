package chem

// Event is a stable event-bus id.
type Event int

// Event enumeration, stable ids per spec.
const (
	EventSetDot Event = iota
	EventMoveDot
	EventRun
	EventQuit
	EventLoadDump
	EventSaveDump
	eventLast
)

// EventParam is the tagged payload carried by a Fire call. Only the fields
// relevant to the event being fired are populated; it stands in for the
// distinct payload types spec.md's event table lists (an offset+atom pair
// for SET_DOT, a src/dst/atom triple for MOVE_DOT, a path for
// LOAD_DUMP/SAVE_DUMP, nothing for RUN/QUIT).
type EventParam struct {
	Offs0 Offs
	Offs1 Offs
	Atom  Atom
	Path  string
}

// Subscriber receives event payloads synchronously, on the firing
// goroutine.
type Subscriber func(EventParam)

// EventBus is an indexed fan-out from core mutations to external sinks.
// Fire invokes subscribers synchronously and in registration order; Off
// replaces a subscriber with a tombstone rather than shifting the slice, so
// subscription ids returned by On stay valid for the lifetime of the bus.
// EventBus does no locking of its own: On/Off/Fire must all be called from
// the same goroutine that drives Core.Step, per SPEC_FULL §5's
// single-mutator invariant. Boundary packages that live on other
// goroutines (internal/httpapi) reach the bus only by submitting a closure
// through Core.OnTick, never by calling these methods directly.
type EventBus struct {
	subs [eventLast][]Subscriber
}

// NewEventBus returns a ready-to-use bus with no subscribers.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// On registers cb for event and returns a subscription id stable for Off.
func (b *EventBus) On(event Event, cb Subscriber) int {
	b.subs[event] = append(b.subs[event], cb)
	return len(b.subs[event]) - 1
}

// Off replaces the subscriber at id with a no-op tombstone. Other ids for
// the same event are unaffected.
func (b *EventBus) Off(event Event, id int) {
	if id < 0 || id >= len(b.subs[event]) {
		return
	}
	b.subs[event][id] = nil
}

// Fire invokes every live subscriber for event, in registration order, on
// the calling goroutine.
func (b *EventBus) Fire(event Event, p EventParam) {
	for _, cb := range b.subs[event] {
		if cb != nil {
			cb(p)
		}
	}
}
