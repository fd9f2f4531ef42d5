package scheduler

import (
	"fmt"
	"log"
	"math"

	"github.com/ivlev/parallaxus/internal/element"
	"github.com/ivlev/parallaxus/internal/keyframe"
)

// State of the frame loop
type State int

const (
	// Idle means current == target and no frame is requested
	Idle State = iota
	// Converging means a frame is queued and current is moving toward target
	Converging
)

func (s State) String() string {
	if s == Converging {
		return "converging"
	}
	return "idle"
}

// Options tunes the convergence loop
type Options struct {
	Ease             float64 // fraction of the remaining distance closed per frame
	Epsilon          float64 // distance under which current snaps to target
	Precision        int     // decimal digits current is rounded to
	TriggerThreshold float64 // movement in px between trigger evaluations
	ReducedMotion    bool    // disables the scheduler entirely
}

// DefaultOptions returns the tuning used by the browser library
func DefaultOptions() Options {
	return Options{
		Ease:             0.075,
		Epsilon:          0.05,
		Precision:        2,
		TriggerThreshold: 10,
	}
}

// ElementSource is a node carrying an animation config
type ElementSource struct {
	Node      element.Node
	Keyframes keyframe.Config
}

// TriggerSource is a node carrying enter/leave callbacks
type TriggerSource struct {
	Node  element.Node
	Enter element.Callback
	Leave element.Callback
	Once  bool
}

// Scan is what the host reports when the page is (re)scanned
type Scan struct {
	Elements []ElementSource
	Triggers []TriggerSource
}

// Host is the page environment the scheduler reads from
type Host interface {
	Viewport() (width, height float64)
	ScrollOffset() float64
	Scan() (Scan, error)
}

// Scheduler owns the scroll state and drives elements and triggers once per frame
type Scheduler struct {
	host   Host
	clock  FrameClock
	opts   Options
	logger *log.Logger

	current     float64
	target      float64
	lastTrigger float64
	width       float64
	height      float64
	ready       bool

	elements []*element.Tracked
	triggers []*element.Trigger

	state    State
	frame    FrameID
	animated int
}

// New creates an idle scheduler; call Setup to scan the page
func New(host Host, clock FrameClock, opts Options, logger *log.Logger) *Scheduler {
	def := DefaultOptions()
	if opts.Ease <= 0 || opts.Ease > 1 {
		opts.Ease = def.Ease
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = def.Epsilon
	}
	if opts.Precision < 0 {
		opts.Precision = def.Precision
	}
	if opts.TriggerThreshold < 0 {
		opts.TriggerThreshold = def.TriggerThreshold
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		host:   host,
		clock:  clock,
		opts:   opts,
		logger: logger,
	}
}

// Setup rebuilds every tracked element and trigger from the host, renders
// the visible elements once and starts the loop. Prior state is dropped.
func (s *Scheduler) Setup() error {
	if s.opts.ReducedMotion {
		return nil
	}

	scan, err := s.host.Scan()
	if err != nil {
		return fmt.Errorf("scan page: %w", err)
	}

	s.width, s.height = s.host.Viewport()
	s.target = s.host.ScrollOffset()
	if !s.ready {
		s.current = s.target
		s.ready = true
	}

	s.elements = make([]*element.Tracked, 0, len(scan.Elements))
	for _, src := range scan.Elements {
		t, err := element.Bind(src.Node, src.Keyframes, s.logger)
		if err != nil {
			s.logger.Printf("[!] element skipped: %v", err)
			continue
		}
		s.elements = append(s.elements, t)
	}

	s.triggers = make([]*element.Trigger, 0, len(scan.Triggers))
	for _, src := range scan.Triggers {
		s.triggers = append(s.triggers, element.BindTrigger(src.Node, src.Enter, src.Leave, src.Once))
	}

	s.animated = 0
	s.animate()
	s.Start()
	return nil
}

// Resize rebuilds the scheduler state for new viewport dimensions
func (s *Scheduler) Resize() error {
	return s.Setup()
}

// OnScroll records a new raw scroll offset and makes sure the loop runs
func (s *Scheduler) OnScroll(offset float64) {
	if s.opts.ReducedMotion {
		return
	}
	s.target = offset
	s.Start()
}

// Start requests a frame unless the loop is already converging
func (s *Scheduler) Start() {
	if s.opts.ReducedMotion || s.state == Converging {
		return
	}
	s.state = Converging
	s.frame = s.clock.RequestFrame(s.Tick)
}

// Stop cancels the queued frame and goes idle
func (s *Scheduler) Stop() {
	if s.state != Converging {
		return
	}
	s.clock.Cancel(s.frame)
	s.frame = 0
	s.state = Idle
}

// Tick advances current toward target by one eased step, animates the
// visible elements and requests the next frame until converged.
func (s *Scheduler) Tick() {
	s.frame = 0
	s.animated = 0
	if s.state != Converging {
		return
	}

	diff := s.target - s.current
	if math.Abs(diff) < s.opts.Epsilon {
		s.current = s.target
		s.state = Idle
		s.updateTriggers()
		return
	}

	next := round(s.current+diff*s.opts.Ease, s.opts.Precision)
	if next == s.current || (s.target-next)*diff < 0 {
		// rounding stalled or overshot
		next = s.target
	}
	s.current = next

	s.animate()
	s.updateTriggers()
	s.frame = s.clock.RequestFrame(s.Tick)
}

func (s *Scheduler) animate() {
	vp := s.Viewport()
	for _, e := range s.elements {
		if e.Animate(vp) {
			s.animated++
		}
	}
}

func (s *Scheduler) updateTriggers() {
	if math.Abs(s.lastTrigger-s.current) <= s.opts.TriggerThreshold {
		return
	}

	direction := element.Down
	if s.current <= s.lastTrigger {
		direction = element.Up
	}

	vp := s.Viewport()
	for _, t := range s.triggers {
		t.Update(vp, direction)
	}
	s.lastTrigger = math.Max(s.current, 0)
}

// Viewport returns the snapshot elements are evaluated against.
// Scroll is read from the host so node bounds and the document top agree
// even while a throttled scroll has not reached OnScroll yet.
func (s *Scheduler) Viewport() element.Viewport {
	return element.Viewport{
		Width:   s.width,
		Height:  s.height,
		Current: s.current,
		Target:  s.target,
		Scroll:  s.host.ScrollOffset(),
	}
}

// State returns the loop state
func (s *Scheduler) State() State { return s.state }

// Current returns the smoothed scroll offset
func (s *Scheduler) Current() float64 { return s.current }

// Target returns the latest raw scroll offset
func (s *Scheduler) Target() float64 { return s.target }

// Elements returns the tracked elements in registration order
func (s *Scheduler) Elements() []*element.Tracked { return s.elements }

// Triggers returns the triggers in registration order
func (s *Scheduler) Triggers() []*element.Trigger { return s.triggers }

// Animated returns how many elements were restyled by the last tick
func (s *Scheduler) Animated() int { return s.animated }

func round(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}
