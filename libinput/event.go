package libinput

// Event is one of CursorMoved, Scrolled, KeyChanged, Resized,
// MouseButtonChanged or CharTyped.
type Event interface {
	event()
}

// CursorMoved carries the absolute cursor position in screen coordinates.
type CursorMoved struct {
	X, Y float64
}

type Scrolled struct {
	XOffset, YOffset float64
}

type KeyChanged struct {
	Key     Key
	Pressed bool
}

// Resized carries the new framebuffer size in pixels.
type Resized struct {
	Width, Height int
}

type MouseButtonChanged struct {
	Button  MouseButton
	Pressed bool
}

type CharTyped struct {
	Char rune
}

func (CursorMoved) event()        {}
func (Scrolled) event()           {}
func (KeyChanged) event()         {}
func (Resized) event()            {}
func (MouseButtonChanged) event() {}
func (CharTyped) event()          {}

// EventQueue collects events in arrival order between two calls to Drain.
// It is not safe for concurrent use; window callbacks run on the main thread.
type EventQueue struct {
	events []Event
	spare  []Event
}

func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Drain returns the queued events and empties the queue.
// The returned slice is only valid until the next call to Drain.
func (q *EventQueue) Drain() []Event {
	events := q.events
	q.events = q.spare[:0]
	q.spare = events
	return events
}

func (q *EventQueue) Len() int {
	return len(q.events)
}
