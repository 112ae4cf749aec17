// Package resize implements the drag controller that redistributes width
// between two panels.
//
// A drag is a Session: it starts on a press over a panel's handle, follows
// pointer motion, and ends on release. Width updates use clamp-and-freeze:
// each candidate width is floored at the minimum, and if the floored pair
// would exceed the maximum total the frame is skipped and both panels keep
// their current widths.
package resize

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"resizecards/internal/log"
	"resizecards/internal/pointer"
)

const (
	DefaultMinWidth = 200
	DefaultMaxTotal = 1400
)

// End reasons recorded on a finished session.
const (
	ReasonRelease    = "release"
	ReasonSuperseded = "superseded"
	ReasonPanic      = "panic"
)

// Constraints bound the widths a drag may produce.
type Constraints struct {
	MinWidth int
	MaxTotal int
}

// DefaultConstraints returns the 200/1400 bounds.
func DefaultConstraints() Constraints {
	return Constraints{MinWidth: DefaultMinWidth, MaxTotal: DefaultMaxTotal}
}

// Resolve computes the widths for a drag offset dx applied to a pair that
// started at (a, b). The returned widths are the floored candidates; ok is
// false when they would exceed c.MaxTotal, in which case the caller must
// leave the current widths untouched.
func Resolve(c Constraints, a, b, dx int) (newA, newB int, ok bool) {
	newA = max(c.MinWidth, a+dx)
	newB = max(c.MinWidth, b-dx)
	return newA, newB, newA+newB <= c.MaxTotal
}

// Target is a panel whose width the controller reads and writes.
type Target interface {
	Width() int
	SetWidth(int)
}

// Session is the state of one drag gesture.
type Session struct {
	StartX   int
	InitialA int
	InitialB int
	Active   Target
	Partner  Target

	Applied int // frames committed
	Skipped int // frames dropped by the sum constraint
	Reason  string

	scope  *pointer.Scope
	span   oteltrace.Span
	logger *slog.Logger
}

// Done reports whether the session has ended.
func (s *Session) Done() bool {
	return s.scope.Closed()
}

// Controller tracks at most one Session at a time.
type Controller struct {
	Constraints Constraints
	// UnitsPerCell converts pointer columns into width units.
	UnitsPerCell int
	Tracer       oteltrace.Tracer
	// OnEnd is called after a session's listeners are removed.
	OnEnd func(*Session)

	dispatcher *pointer.Dispatcher
	session    *Session
}

// NewController creates a controller listening on d.
func NewController(d *pointer.Dispatcher, c Constraints) *Controller {
	return &Controller{
		Constraints:  c,
		UnitsPerCell: 1,
		Tracer:       noop.NewTracerProvider().Tracer(""),
		dispatcher:   d,
	}
}

// Begin starts a drag from ev with self as the panel being dragged and
// partner as the panel that absorbs the opposite change. Move and release
// listeners are subscribed on the controller's dispatcher until the session
// ends. An active session is ended first. Session logs go to the logger
// carried by ctx, tagged with the gesture's trace ID.
func (c *Controller) Begin(ctx context.Context, ev pointer.Event, self, partner Target) *Session {
	if c.session != nil {
		c.Cancel(ReasonSuperseded)
	}

	s := &Session{
		StartX:   ev.X,
		InitialA: self.Width(),
		InitialB: partner.Width(),
		Active:   self,
		Partner:  partner,
		scope:    pointer.NewScope(c.dispatcher),
	}
	spanCtx, span := c.Tracer.Start(ctx, "resize.drag", oteltrace.WithAttributes(
		attribute.Int("resize.start_x", s.StartX),
		attribute.Int("resize.initial_a", s.InitialA),
		attribute.Int("resize.initial_b", s.InitialB),
		attribute.Int("resize.min_width", c.Constraints.MinWidth),
		attribute.Int("resize.max_total", c.Constraints.MaxTotal),
	))
	s.span = span
	s.logger = log.WithContext(spanCtx)

	s.scope.Listen(pointer.Move, func(ev pointer.Event) {
		s.scope.Guard(func() { c.move(s, ev) })
	})
	s.scope.Listen(pointer.Release, func(pointer.Event) {
		c.end(s, ReasonRelease)
	})
	s.scope.OnClose(func() { c.finish(s) })

	c.session = s
	s.logger.Debug("drag started",
		slog.Int("x", s.StartX),
		slog.Int("width_a", s.InitialA),
		slog.Int("width_b", s.InitialB),
	)
	return s
}

// Dragging reports whether a session is active.
func (c *Controller) Dragging() bool {
	return c.session != nil
}

// Session returns the active session, or nil.
func (c *Controller) Session() *Session {
	return c.session
}

// Cancel ends the active session, if any, recording reason.
func (c *Controller) Cancel(reason string) {
	if c.session == nil {
		return
	}
	c.end(c.session, reason)
}

func (c *Controller) move(s *Session, ev pointer.Event) {
	dx := (ev.X - s.StartX) * c.unitsPerCell()
	a, b, ok := Resolve(c.Constraints, s.InitialA, s.InitialB, dx)
	if !ok {
		s.Skipped++
		s.logger.Debug("drag frame skipped",
			slog.Int("dx", dx),
			slog.Int("candidate_a", a),
			slog.Int("candidate_b", b),
		)
		return
	}
	s.Active.SetWidth(a)
	s.Partner.SetWidth(b)
	s.Applied++
}

func (c *Controller) end(s *Session, reason string) {
	if s.Reason == "" {
		s.Reason = reason
	}
	s.scope.Close()
}

// finish runs once per session when its scope closes, including a close
// triggered by a panicking listener.
func (c *Controller) finish(s *Session) {
	if s.Reason == "" {
		s.Reason = ReasonPanic
	}
	if c.session == s {
		c.session = nil
	}

	s.span.SetAttributes(
		attribute.Int("resize.final_a", s.Active.Width()),
		attribute.Int("resize.final_b", s.Partner.Width()),
		attribute.Int("resize.frames.applied", s.Applied),
		attribute.Int("resize.frames.skipped", s.Skipped),
		attribute.String("resize.end_reason", s.Reason),
	)
	s.span.End()

	s.logger.Debug("drag ended",
		slog.String("reason", s.Reason),
		slog.Int("width_a", s.Active.Width()),
		slog.Int("width_b", s.Partner.Width()),
		slog.Int("applied", s.Applied),
		slog.Int("skipped", s.Skipped),
	)
	if c.OnEnd != nil {
		c.OnEnd(s)
	}
}

func (c *Controller) unitsPerCell() int {
	if c.UnitsPerCell <= 0 {
		return 1
	}
	return c.UnitsPerCell
}
