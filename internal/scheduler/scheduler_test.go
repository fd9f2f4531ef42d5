package scheduler

import (
	"bytes"
	"errors"
	"log"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/parallaxus/internal/element"
	"github.com/ivlev/parallaxus/internal/keyframe"
)

type testNode struct {
	name   string
	page   *testHost
	docTop float64
	height float64
	props  map[string]string
	writes int
	reads  int
}

func (n *testNode) Bounds() element.Rect {
	n.reads++
	return element.Rect{Top: n.docTop - n.page.scroll, Width: 100, Height: n.height}
}

func (n *testNode) SetProperty(name, value string) {
	n.props[name] = value
	n.writes++
}

func (n *testNode) String() string { return n.name }

type testHost struct {
	width, height float64
	scroll        float64
	scan          Scan
	scanErr       error
	scans         int
}

func (h *testHost) Viewport() (float64, float64) { return h.width, h.height }
func (h *testHost) ScrollOffset() float64        { return h.scroll }
func (h *testHost) Scan() (Scan, error) {
	h.scans++
	return h.scan, h.scanErr
}

func (h *testHost) node(name string, docTop, height float64) *testNode {
	return &testNode{name: name, page: h, docTop: docTop, height: height, props: map[string]string{}}
}

func (h *testHost) addElement(n *testNode, cfg keyframe.Config) {
	h.scan.Elements = append(h.scan.Elements, ElementSource{Node: n, Keyframes: cfg})
}

var fade = keyframe.Config{"from": {"opacity": 0}, "to": {"opacity": 1}}

func quietLogger() *log.Logger { return log.New(&bytes.Buffer{}, "", 0) }

func newTestScheduler(t *testing.T, h *testHost) (*Scheduler, *ManualClock) {
	t.Helper()
	clock := NewManualClock()
	s := New(h, clock, DefaultOptions(), quietLogger())
	require.NoError(t, s.Setup())
	return s, clock
}

// drain steps the clock until the scheduler stops requesting frames
func drain(t *testing.T, clock *ManualClock, limit int) int {
	t.Helper()
	steps := 0
	for clock.Pending() > 0 {
		clock.Step()
		steps++
		require.Less(t, steps, limit, "loop did not converge")
	}
	return steps
}

func TestSetupGoesIdleAtRest(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	h.addElement(h.node("a", 100, 100), fade)

	s, clock := newTestScheduler(t, h)
	assert.Equal(t, Converging, s.State())
	assert.Equal(t, 1, s.Animated(), "visible element rendered on setup")

	drain(t, clock, 5)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 0, clock.Pending())
}

func TestConvergenceIsMonotonic(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)

	h.scroll = 500
	s.OnScroll(500)

	prev := s.Current()
	for clock.Pending() > 0 {
		clock.Step()
		assert.GreaterOrEqual(t, s.Current(), prev)
		assert.LessOrEqual(t, s.Current(), 500.0)
		assert.Equal(t, s.Current(), math.Round(s.Current()*100)/100)
		prev = s.Current()
	}

	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 500.0, s.Current())
}

func TestConvergenceUpward(t *testing.T) {
	h := &testHost{width: 1000, height: 800, scroll: 900}
	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)
	assert.Equal(t, 900.0, s.Current(), "first setup adopts the host offset")

	h.scroll = 0
	s.OnScroll(0)
	prev := s.Current()
	for clock.Pending() > 0 {
		clock.Step()
		assert.LessOrEqual(t, s.Current(), prev)
		prev = s.Current()
	}
	assert.Equal(t, 0.0, s.Current())
}

func TestRoundingStallSnapsToTarget(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)

	// 0.06 * 0.075 rounds back to 0.00
	s.OnScroll(0.06)
	steps := drain(t, clock, 5)
	assert.LessOrEqual(t, steps, 2)
	assert.Equal(t, 0.06, s.Current())
}

func TestNoFramesWhileIdle(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)
	frames := clock.Frames()

	for i := 0; i < 10; i++ {
		clock.Step()
	}
	assert.Equal(t, frames, clock.Frames())
	assert.Equal(t, Idle, s.State())
}

func TestOnScrollDoesNotDoubleSchedule(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)

	s.OnScroll(100)
	s.OnScroll(200)
	s.OnScroll(300)
	assert.Equal(t, 1, clock.Pending())
	assert.Equal(t, 300.0, s.Target())
}

func TestStopCancelsFrame(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)

	s.OnScroll(400)
	s.Stop()
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 0, clock.Pending())
}

func TestOnlyVisibleElementsAnimate(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	near := h.node("near", 900, 100)
	far := h.node("far", 5000, 100)
	h.addElement(near, fade)
	h.addElement(far, fade)

	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)

	h.scroll = 300
	s.OnScroll(300)
	drain(t, clock, 500)

	assert.NotEmpty(t, near.props["opacity"])
	assert.NotContains(t, far.props, "opacity")
}

func TestPendingScrollDoesNotShiftGeometry(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	n := h.node("late", 1000, 200)
	h.addElement(n, keyframe.Config{"from": {"translateY": "0px"}, "to": {"translateY": "100px"}})

	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)

	h.scroll = 400
	s.OnScroll(400)
	clock.Step()

	// page moved on, the scroll event is still held back by the throttle
	h.scroll = 700
	clock.Step()

	assert.InDelta(t, 57.75, s.Current(), 0.001)
	assert.Equal(t, 400.0, s.Target())
	assert.Equal(t, 700.0, s.Viewport().Scroll)
	assert.Zero(t, s.Animated())
	assert.NotContains(t, n.props, "transform")
}

func TestBoundsReadOncePerFrame(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	n := h.node("near", 500, 100)
	h.addElement(n, fade)

	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)

	n.reads = 0
	h.scroll = 100
	s.OnScroll(100)
	clock.Step()

	assert.Equal(t, 1, s.Animated())
	assert.Equal(t, 1, n.reads)
}

func TestBadElementDoesNotBlockSiblings(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	bad := h.node("bad", 100, 100)
	good := h.node("good", 200, 100)
	h.addElement(bad, keyframe.Config{"middle": {"opacity": 1}})
	h.addElement(good, fade)

	s, _ := newTestScheduler(t, h)
	require.Len(t, s.Elements(), 1)
	assert.Equal(t, good, s.Elements()[0].Node())
	assert.Equal(t, "0.0000", good.props["opacity"])
}

func TestTriggersFireOnThreshold(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	spot := h.node("spot", 1000, 50)
	var calls []int
	h.scan.Triggers = append(h.scan.Triggers, TriggerSource{
		Node:  spot,
		Enter: func(dir int) { calls = append(calls, dir) },
		Leave: func(dir int) { calls = append(calls, -10*dir) },
	})

	s, clock := newTestScheduler(t, h)
	drain(t, clock, 5)
	assert.Empty(t, calls)

	h.scroll = 400
	s.OnScroll(400)
	drain(t, clock, 500)
	require.NotEmpty(t, calls)
	assert.Equal(t, element.Down, calls[0])
	assert.True(t, s.Triggers()[0].Triggered())

	calls = nil
	h.scroll = 0
	s.OnScroll(0)
	drain(t, clock, 500)
	require.NotEmpty(t, calls)
	assert.Equal(t, -10*element.Up, calls[len(calls)-1], "left while scrolling up")
	assert.False(t, s.Triggers()[0].Triggered())
}

func TestResizeRebuildsState(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	spot := h.node("spot", 0, 50)
	h.scan.Triggers = append(h.scan.Triggers, TriggerSource{Node: spot, Once: true})

	s, clock := newTestScheduler(t, h)
	before := s.Triggers()[0]

	h.width, h.height = 400, 300
	require.NoError(t, s.Resize())
	drain(t, clock, 5)

	assert.Equal(t, 2, h.scans)
	assert.NotSame(t, before, s.Triggers()[0])
	assert.Equal(t, 300.0, s.Viewport().Height)
}

func TestSetupScanError(t *testing.T) {
	h := &testHost{width: 1000, height: 800, scanErr: errors.New("no document")}
	s := New(h, NewManualClock(), DefaultOptions(), quietLogger())
	err := s.Setup()
	require.Error(t, err)
	assert.Equal(t, Idle, s.State())
}

func TestReducedMotionDisablesLoop(t *testing.T) {
	h := &testHost{width: 1000, height: 800}
	n := h.node("a", 100, 100)
	h.addElement(n, fade)

	opts := DefaultOptions()
	opts.ReducedMotion = true
	clock := NewManualClock()
	s := New(h, clock, opts, quietLogger())

	require.NoError(t, s.Setup())
	s.OnScroll(300)
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, 0, h.scans)
	assert.Zero(t, n.writes)
}

func TestNewFillsInvalidOptions(t *testing.T) {
	s := New(&testHost{}, NewManualClock(), Options{Ease: 3, Epsilon: -1, Precision: -2, TriggerThreshold: -5}, nil)
	assert.Equal(t, DefaultOptions(), s.opts)
}
