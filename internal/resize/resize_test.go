package resize

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"resizecards/internal/log"
	"resizecards/internal/pointer"
)

type panel struct{ w int }

func (p *panel) Width() int     { return p.w }
func (p *panel) SetWidth(w int) { p.w = w }

type panicPanel struct{ panel }

func (p *panicPanel) SetWidth(int) { panic("render failed") }

func newTestController() (*Controller, *pointer.Dispatcher) {
	d := pointer.NewDispatcher()
	return NewController(d, DefaultConstraints()), d
}

func press(x int) pointer.Event   { return pointer.Event{Kind: pointer.Press, X: x} }
func move(x int) pointer.Event    { return pointer.Event{Kind: pointer.Move, X: x} }
func release(x int) pointer.Event { return pointer.Event{Kind: pointer.Release, X: x} }

func TestResolve(t *testing.T) {
	c := DefaultConstraints()
	tests := map[string]struct {
		a, b, dx   int
		wantA      int
		wantB      int
		wantCommit bool
	}{
		"grow left":              {a: 700, b: 700, dx: 100, wantA: 800, wantB: 600, wantCommit: true},
		"grow right":             {a: 700, b: 700, dx: -100, wantA: 600, wantB: 800, wantCommit: true},
		"zero":                   {a: 700, b: 700, dx: 0, wantA: 700, wantB: 700, wantCommit: true},
		"exactly at minimum":     {a: 700, b: 700, dx: 500, wantA: 1200, wantB: 200, wantCommit: true},
		"left floored overflows": {a: 700, b: 700, dx: -600, wantA: 200, wantB: 1300, wantCommit: false},
		"right floored overflow": {a: 700, b: 700, dx: 600, wantA: 1300, wantB: 200, wantCommit: false},
		"narrow pair floored":    {a: 300, b: 300, dx: 150, wantA: 450, wantB: 200, wantCommit: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			a, b, ok := Resolve(c, tc.a, tc.b, tc.dx)
			assert.Equal(t, tc.wantCommit, ok)
			assert.Equal(t, tc.wantA, a)
			assert.Equal(t, tc.wantB, b)
		})
	}
}

func TestResolve_InvariantsHoldForAllOffsets(t *testing.T) {
	c := DefaultConstraints()
	starts := [][2]int{{700, 700}, {200, 1200}, {1200, 200}, {450, 600}, {200, 200}}
	for _, s := range starts {
		for dx := -1500; dx <= 1500; dx += 7 {
			a, b, ok := Resolve(c, s[0], s[1], dx)
			assert.GreaterOrEqual(t, a, c.MinWidth)
			assert.GreaterOrEqual(t, b, c.MinWidth)
			if ok {
				assert.LessOrEqual(t, a+b, c.MaxTotal, "start=%v dx=%d", s, dx)
			}
		}
	}
}

func TestController_DragLeftHandle(t *testing.T) {
	c, d := newTestController()
	left, right := &panel{700}, &panel{700}

	c.Begin(context.Background(), press(700), left, right)
	require.True(t, c.Dragging())
	assert.Equal(t, 2, d.Len())

	d.Dispatch(move(800))
	assert.Equal(t, 800, left.w)
	assert.Equal(t, 600, right.w)

	d.Dispatch(release(800))
	assert.False(t, c.Dragging())
	assert.Equal(t, 0, d.Len())
}

func TestController_OverflowSkipsFrame(t *testing.T) {
	c, d := newTestController()
	left, right := &panel{700}, &panel{700}

	s := c.Begin(context.Background(), press(700), left, right)
	d.Dispatch(move(100))

	assert.Equal(t, 700, left.w)
	assert.Equal(t, 700, right.w)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 0, s.Applied)
}

func TestController_FreezeKeepsLastValidWidths(t *testing.T) {
	c, d := newTestController()
	left, right := &panel{700}, &panel{700}

	c.Begin(context.Background(), press(700), left, right)
	d.Dispatch(move(300)) // 300/1100
	d.Dispatch(move(100)) // would be 200/1300, skipped

	assert.Equal(t, 300, left.w)
	assert.Equal(t, 1100, right.w)
}

func TestController_MoveAfterReleaseIsIgnored(t *testing.T) {
	c, d := newTestController()
	left, right := &panel{700}, &panel{700}

	c.Begin(context.Background(), press(700), left, right)
	d.Dispatch(move(750))
	d.Dispatch(release(750))

	delivered := d.Dispatch(move(900))
	assert.False(t, delivered)
	assert.Equal(t, 750, left.w)
	assert.Equal(t, 650, right.w)
}

func TestController_RightHandleMirrorsSign(t *testing.T) {
	c, d := newTestController()
	left, right := &panel{700}, &panel{700}

	// The right panel drags with itself as the active target.
	c.Begin(context.Background(), press(700), right, left)
	d.Dispatch(move(800))

	assert.Equal(t, 800, right.w)
	assert.Equal(t, 600, left.w)

	d.Dispatch(move(600))
	assert.Equal(t, 600, right.w)
	assert.Equal(t, 800, left.w)
}

func TestController_UnitsPerCell(t *testing.T) {
	c, d := newTestController()
	c.UnitsPerCell = 10
	left, right := &panel{700}, &panel{700}

	c.Begin(context.Background(), press(70), left, right)
	d.Dispatch(move(80))

	assert.Equal(t, 800, left.w)
	assert.Equal(t, 600, right.w)
}

func TestController_RepeatedDragsDoNotLeakListeners(t *testing.T) {
	c, d := newTestController()
	left, right := &panel{700}, &panel{700}

	for i := range 5 {
		c.Begin(context.Background(), press(700), left, right)
		d.Dispatch(move(700 + i))
		d.Dispatch(release(700 + i))
		require.Equal(t, 0, d.Len(), "drag %d", i)
	}
}

func TestController_BeginSupersedesStaleSession(t *testing.T) {
	c, d := newTestController()
	left, right := &panel{700}, &panel{700}

	first := c.Begin(context.Background(), press(700), left, right)
	second := c.Begin(context.Background(), press(700), right, left)

	assert.True(t, first.Done())
	assert.Equal(t, ReasonSuperseded, first.Reason)
	assert.False(t, second.Done())
	assert.Same(t, second, c.Session())
	assert.Equal(t, 2, d.Len())
}

func TestController_Cancel(t *testing.T) {
	c, d := newTestController()
	left, right := &panel{700}, &panel{700}

	var ended *Session
	c.OnEnd = func(s *Session) { ended = s }

	s := c.Begin(context.Background(), press(700), left, right)
	c.Cancel("blur")

	assert.False(t, c.Dragging())
	assert.Equal(t, 0, d.Len())
	require.Same(t, s, ended)
	assert.Equal(t, "blur", ended.Reason)

	// No session: no-op.
	c.Cancel("blur")
}

func TestController_PanicInListenerReleasesSubscriptions(t *testing.T) {
	c, d := newTestController()
	left, right := &panicPanel{panel{700}}, &panel{700}

	c.Begin(context.Background(), press(700), left, right)
	assert.Panics(t, func() { d.Dispatch(move(800)) })

	assert.False(t, c.Dragging())
	assert.Equal(t, 0, d.Len())
}

func TestController_RecordsGestureSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	c, d := newTestController()
	c.Tracer = tp.Tracer("test")
	left, right := &panel{700}, &panel{700}

	c.Begin(context.Background(), press(700), left, right)
	d.Dispatch(move(800))
	d.Dispatch(move(50))
	d.Dispatch(release(50))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "resize.drag", spans[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(800), attrs["resize.final_a"].AsInt64())
	assert.Equal(t, int64(600), attrs["resize.final_b"].AsInt64())
	assert.Equal(t, int64(1), attrs["resize.frames.applied"].AsInt64())
	assert.Equal(t, int64(1), attrs["resize.frames.skipped"].AsInt64())
	assert.Equal(t, ReasonRelease, attrs["resize.end_reason"].AsString())
}

func TestController_LogsCarryTraceID(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := log.NewContext(context.Background(), logger)

	c, d := newTestController()
	c.Tracer = tp.Tracer("test")
	left, right := &panel{700}, &panel{700}

	c.Begin(ctx, press(700), left, right)
	d.Dispatch(move(50))
	d.Dispatch(release(50))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	traceID := spans[0].SpanContext().TraceID().String()[:8]

	out := buf.String()
	for _, msg := range []string{"drag started", "drag frame skipped", "drag ended"} {
		assert.Contains(t, out, msg)
	}
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("trace_id="+traceID)))
}
