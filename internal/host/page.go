package host

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/ivlev/parallaxus/internal/action"
	"github.com/ivlev/parallaxus/internal/element"
	"github.com/ivlev/parallaxus/internal/keyframe"
	"github.com/ivlev/parallaxus/internal/scheduler"
)

// ErrViewport is returned when the page has no usable viewport
var ErrViewport = errors.New("invalid viewport")

// Hitpoint marks a node as a trigger
type Hitpoint struct {
	Enter []action.Spec
	Leave []action.Spec
	Once  bool
}

// Node is a headless stand-in for a DOM element. Top and Left are document
// coordinates; Bounds reports them relative to the viewport like a browser.
type Node struct {
	ID        string
	Top       float64
	Left      float64
	Width     float64
	Height    float64
	Keyframes keyframe.Config
	Hitpoint  *Hitpoint

	page    *Page
	classes map[string]bool
	props   map[string]string
}

// Bounds implements element.Node
func (n *Node) Bounds() element.Rect {
	scroll := 0.0
	if n.page != nil {
		scroll = n.page.Scroll
	}
	return element.Rect{
		Top:    n.Top - scroll,
		Left:   n.Left,
		Width:  n.Width,
		Height: n.Height,
	}
}

// SetProperty records a style write
func (n *Node) SetProperty(name, value string) {
	if n.props == nil {
		n.props = make(map[string]string)
	}
	n.props[name] = value
}

// Property returns the last value written for name
func (n *Node) Property(name string) (string, bool) {
	v, ok := n.props[name]
	return v, ok
}

// Properties returns a copy of every style written so far
func (n *Node) Properties() map[string]string {
	out := make(map[string]string, len(n.props))
	for k, v := range n.props {
		out[k] = v
	}
	return out
}

func (n *Node) AddClass(name string) {
	if n.classes == nil {
		n.classes = make(map[string]bool)
	}
	n.classes[name] = true
}

func (n *Node) RemoveClass(name string) { delete(n.classes, name) }

func (n *Node) HasClass(name string) bool { return n.classes[name] }

// Classes returns the class list sorted
func (n *Node) Classes() []string {
	out := make([]string, 0, len(n.classes))
	for c := range n.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (n *Node) String() string { return "#" + n.ID }

// Page is a headless document: a viewport, a scroll position and the
// nodes laid out on it. It satisfies scheduler.Host.
type Page struct {
	Width  float64
	Height float64
	Scroll float64
	Length float64 // document height; zero leaves scrolling unbounded

	nodes    []*Node
	registry *action.Registry
	logger   *log.Logger
}

// NewPage creates an empty page. Trigger actions resolve through registry.
func NewPage(width, height, length float64, registry *action.Registry, logger *log.Logger) *Page {
	if logger == nil {
		logger = log.Default()
	}
	if registry == nil {
		registry = action.NewRegistry(logger)
	}
	return &Page{
		Width:    width,
		Height:   height,
		Length:   length,
		registry: registry,
		logger:   logger,
	}
}

// Add attaches nodes to the page in document order
func (p *Page) Add(nodes ...*Node) {
	for _, n := range nodes {
		n.page = p
		p.nodes = append(p.nodes, n)
	}
}

// Nodes returns the attached nodes
func (p *Page) Nodes() []*Node { return p.nodes }

// Node finds a node by id
func (p *Page) Node(id string) *Node {
	for _, n := range p.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Viewport implements scheduler.Host
func (p *Page) Viewport() (float64, float64) { return p.Width, p.Height }

// ScrollOffset implements scheduler.Host
func (p *Page) ScrollOffset() float64 { return p.Scroll }

// ScrollTo moves the page, clamped to the scrollable range, and returns the new offset
func (p *Page) ScrollTo(offset float64) float64 {
	offset = math.Max(offset, 0)
	if p.Length > 0 {
		offset = math.Min(offset, math.Max(p.Length-p.Height, 0))
	}
	p.Scroll = offset
	return offset
}

// Resize changes the viewport and re-clamps the scroll position
func (p *Page) Resize(width, height float64) {
	p.Width, p.Height = width, height
	p.ScrollTo(p.Scroll)
}

// Scan implements scheduler.Host. Nodes with keyframes become elements and
// nodes with a hitpoint become triggers; a trigger whose actions do not
// resolve is logged and left out.
func (p *Page) Scan() (scheduler.Scan, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return scheduler.Scan{}, fmt.Errorf("%w: %vx%v", ErrViewport, p.Width, p.Height)
	}

	var scan scheduler.Scan
	for _, n := range p.nodes {
		if n.Keyframes != nil {
			scan.Elements = append(scan.Elements, scheduler.ElementSource{Node: n, Keyframes: n.Keyframes})
		}
		if n.Hitpoint == nil {
			continue
		}

		enter, err := p.registry.ResolveAll(n.Hitpoint.Enter, n)
		if err != nil {
			p.logger.Printf("[!] trigger %v skipped: enter: %v", n, err)
			continue
		}
		leave, err := p.registry.ResolveAll(n.Hitpoint.Leave, n)
		if err != nil {
			p.logger.Printf("[!] trigger %v skipped: leave: %v", n, err)
			continue
		}
		scan.Triggers = append(scan.Triggers, scheduler.TriggerSource{
			Node:  n,
			Enter: enter,
			Leave: leave,
			Once:  n.Hitpoint.Once,
		})
	}
	return scan, nil
}
