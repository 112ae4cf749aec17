// Package pointer routes terminal mouse events to scoped listeners.
//
// Listeners are registered on a Dispatcher and released through a Scope.
// A Scope owns every subscription made through it and removes all of them
// on Close, so a gesture that ends early still leaves nothing attached.
package pointer

import tea "github.com/charmbracelet/bubbletea"

// Kind classifies a pointer event.
type Kind int

const (
	Press Kind = iota
	Move
	Release
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Event is a pointer event in terminal cell coordinates.
type Event struct {
	Kind Kind
	X    int
	Y    int
}

// FromMouse converts a Bubble Tea mouse message. Returns false for messages
// that are not left-button presses, motion, or releases (wheel, right click).
func FromMouse(msg tea.MouseMsg) (Event, bool) {
	ev := Event{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return Event{}, false
		}
		ev.Kind = Press
	case tea.MouseActionMotion:
		ev.Kind = Move
	case tea.MouseActionRelease:
		ev.Kind = Release
	default:
		return Event{}, false
	}
	return ev, true
}

// Listener handles one event.
type Listener func(Event)

type entry struct {
	id       int
	kind     Kind
	listener Listener
}

// Dispatcher holds listeners per event kind and delivers events to them in
// registration order.
type Dispatcher struct {
	entries []entry
	nextID  int
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Listen registers l for events of the given kind.
// The returned Subscription removes it again.
func (d *Dispatcher) Listen(kind Kind, l Listener) *Subscription {
	d.nextID++
	d.entries = append(d.entries, entry{id: d.nextID, kind: kind, listener: l})
	return &Subscription{d: d, id: d.nextID}
}

// Dispatch delivers ev to every listener registered for ev.Kind.
// Returns true if at least one listener received it.
// Listeners may unsubscribe themselves or others while being called; the
// set of recipients is fixed when Dispatch starts.
func (d *Dispatcher) Dispatch(ev Event) bool {
	var targets []entry
	for _, e := range d.entries {
		if e.kind == ev.Kind {
			targets = append(targets, e)
		}
	}
	for _, e := range targets {
		if !d.has(e.id) {
			continue
		}
		e.listener(ev)
	}
	return len(targets) > 0
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	return len(d.entries)
}

func (d *Dispatcher) has(id int) bool {
	for _, e := range d.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

func (d *Dispatcher) remove(id int) {
	for i, e := range d.entries {
		if e.id == id {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return
		}
	}
}

// Subscription is a single registered listener.
type Subscription struct {
	d      *Dispatcher
	id     int
	closed bool
}

// Close removes the listener. Safe to call more than once.
func (s *Subscription) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.d.remove(s.id)
}

// Scope groups subscriptions that share a lifetime.
type Scope struct {
	d       *Dispatcher
	subs    []*Subscription
	onClose []func()
	closed  bool
}

// OnClose registers f to run once, after the scope's listeners are removed.
func (s *Scope) OnClose(f func()) {
	if s.closed {
		f()
		return
	}
	s.onClose = append(s.onClose, f)
}

// NewScope creates a scope whose subscriptions are made on d.
func NewScope(d *Dispatcher) *Scope {
	return &Scope{d: d}
}

// Listen registers l on the scope's dispatcher.
// Listening on a closed scope is a no-op.
func (s *Scope) Listen(kind Kind, l Listener) {
	if s.closed {
		return
	}
	s.subs = append(s.subs, s.d.Listen(kind, l))
}

// Guard runs fn and closes the scope if fn panics, then re-panics.
func (s *Scope) Guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.Close()
			panic(r)
		}
	}()
	fn()
}

// Close removes every subscription made through the scope.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, sub := range s.subs {
		sub.Close()
	}
	s.subs = nil
	hooks := s.onClose
	s.onClose = nil
	for _, f := range hooks {
		f()
	}
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	return s.closed
}
