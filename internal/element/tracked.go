package element

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/ivlev/parallaxus/internal/keyframe"
	"github.com/ivlev/parallaxus/internal/renderer"
)

// Tracked binds a keyframe set to one node and animates it from the scroll position
type Tracked struct {
	node   Node
	set    *keyframe.Set
	height float64
	logger *log.Logger
	warned map[string]bool
}

// Bind parses cfg and attaches the resulting animation to node
func Bind(node Node, cfg keyframe.Config, logger *log.Logger) (*Tracked, error) {
	set, err := keyframe.Parse(cfg)
	if err != nil {
		return nil, fmt.Errorf("bind %v: %w", node, err)
	}
	if logger == nil {
		logger = log.Default()
	}

	t := &Tracked{
		node:   node,
		set:    set,
		height: node.Bounds().Height,
		logger: logger,
		warned: make(map[string]bool),
	}

	for _, p := range set.Properties() {
		if p.Err != nil {
			t.warn(p.Name, p.Err)
		}
	}

	node.SetProperty("will-change", set.WillChange())
	return t, nil
}

// Node returns the bound node
func (t *Tracked) Node() Node { return t.node }

// Set returns the parsed keyframes
func (t *Tracked) Set() *keyframe.Set { return t.set }

// Visible reports whether the cached box intersects the viewport at the smoothed position
func (t *Tracked) Visible(vp Viewport) bool {
	offsetY, _ := vp.offset(t.node.Bounds())
	return vp.intersects(offsetY, t.height)
}

// Ratio returns how far the node has travelled through the viewport:
// 0 when its top touches the bottom edge, 1 when its bottom leaves the top edge.
// Nodes that start inside the first screen use their own document top as the
// travel distance so they animate from the first paint.
func (t *Tracked) Ratio(vp Viewport) (float64, bool) {
	offsetY, docTop := vp.offset(t.node.Bounds())
	return t.ratio(vp, offsetY, docTop)
}

func (t *Tracked) ratio(vp Viewport, offsetY, docTop float64) (float64, bool) {
	effective := vp.Height
	if docTop < effective {
		effective = docTop
	}

	span := t.height + effective
	if span <= 0 {
		return 0, false
	}

	ratio := 1 - (offsetY+t.height)/span
	return math.Round(ratio*10000) / 10000, true
}

// Animate applies the style for the current position; off-screen nodes are
// skipped. Bounds are read once per call.
func (t *Tracked) Animate(vp Viewport) bool {
	offsetY, docTop := vp.offset(t.node.Bounds())
	if !vp.intersects(offsetY, t.height) {
		return false
	}
	ratio, ok := t.ratio(vp, offsetY, docTop)
	if !ok {
		return false
	}
	t.ApplyStyle(ratio)
	return true
}

// ApplyStyle renders the keyframes at ratio and writes them to the node.
// Transform-only sets touch nothing but the transform properties.
func (t *Tracked) ApplyStyle(ratio float64) {
	frame := renderer.Interpolate(t.set, ratio)
	for _, err := range frame.Errs {
		var perr *renderer.PropertyError
		if errors.As(err, &perr) {
			t.warn(perr.Property, perr.Err)
		}
	}

	if !t.set.HasStyle() {
		t.setTransform(frame.Transform)
		return
	}

	for _, decl := range strings.Split(frame.Full(), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		if name == "transform" {
			t.setTransform(value)
			continue
		}
		t.node.SetProperty(name, value)
	}
}

func (t *Tracked) setTransform(value string) {
	t.node.SetProperty("transform", value)
	t.node.SetProperty("-webkit-transform", value)
}

// warn logs a property problem once per element
func (t *Tracked) warn(property string, err error) {
	if t.warned[property] {
		return
	}
	t.warned[property] = true
	t.logger.Printf("[!] %v: property skipped: %v", t.node, err)
}
