package scene

import (
	"log"

	"github.com/ivlev/parallaxus/internal/action"
	"github.com/ivlev/parallaxus/internal/host"
	"github.com/ivlev/parallaxus/internal/keyframe"
)

// Page lays the scene out on a headless page
func (s *Scene) Page(registry *action.Registry, logger *log.Logger) *host.Page {
	p := host.NewPage(float64(s.Viewport.W), float64(s.Viewport.H), s.Length, registry, logger)

	for _, e := range s.Elements {
		n := node(e.ID, e.Rect)
		n.Keyframes = e.Keyframes
		p.Add(n)
	}
	for _, t := range s.Triggers {
		n := node(t.ID, t.Rect)
		n.Hitpoint = &host.Hitpoint{Enter: t.Enter, Leave: t.Leave, Once: t.Once}
		p.Add(n)
	}
	return p
}

func node(id string, r Rectangle) *host.Node {
	return &host.Node{
		ID:     id,
		Top:    float64(r.Y),
		Left:   float64(r.X),
		Width:  float64(r.W),
		Height: float64(r.H),
	}
}

// Sample returns a small demo scene used by -init
func Sample() *Scene {
	scroll := func(v float64) *float64 { return &v }

	return &Scene{
		Version:  "1.0",
		Viewport: Size{W: 1280, H: 720},
		Length:   4000,
		Elements: []Element{
			{
				ID:   "hero",
				Rect: Rectangle{X: 240, Y: 200, W: 800, H: 300},
				Keyframes: keyframe.Config{
					"from": {"translateY": "0px", "opacity": 1},
					"to":   {"translateY": "-200px", "opacity": 0},
				},
			},
			{
				ID:   "card",
				Rect: Rectangle{X: 140, Y: 1100, W: 400, H: 260},
				Keyframes: keyframe.Config{
					"from": {"translateX": "-300px", "rotate": "-10deg", "backgroundColor": "#1e3a8a"},
					"50":   {"translateX": "0px", "rotate": "0deg"},
					"to":   {"translateX": "0px", "rotate": "0deg", "backgroundColor": "#f59e0b"},
				},
			},
			{
				ID:   "badge",
				Rect: Rectangle{X: 740, Y: 1600, W: 300, H: 300},
				Keyframes: keyframe.Config{
					"from": {"scale": 0.5, "boxShadow": "0px 0px 0px #000000"},
					"to":   {"scale": 1.2, "boxShadow": "0px 20px 40px #333333"},
				},
			},
		},
		Triggers: []Trigger{
			{
				ID:    "chapter-2",
				Rect:  Rectangle{X: 0, Y: 1500, W: 1280, H: 10},
				Enter: []action.Spec{{Name: "addClass", Args: map[string]string{"class": "active"}}},
				Leave: []action.Spec{{Name: "removeClass", Args: map[string]string{"class": "active"}}},
			},
			{
				ID:    "footer",
				Rect:  Rectangle{X: 0, Y: 3600, W: 1280, H: 400},
				Enter: []action.Spec{{Name: "log", Args: map[string]string{"message": "reached the footer"}}},
				Once:  true,
			},
		},
		Timeline: []Event{
			{Frame: 0, Scroll: scroll(0)},
			{Frame: 30, Scroll: scroll(800)},
			{Frame: 120, Scroll: scroll(1800)},
			{Frame: 200, Resize: &Size{W: 1024, H: 768}},
			{Frame: 240, Scroll: scroll(3280)},
			{Frame: 360, Scroll: scroll(0)},
		},
	}
}
