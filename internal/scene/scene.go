package scene

import (
	"github.com/ivlev/parallaxus/internal/action"
	"github.com/ivlev/parallaxus/internal/keyframe"
)

// Scene is a headless page description plus the scroll timeline replayed over it
type Scene struct {
	Version  string    `yaml:"version"`
	Viewport Size      `yaml:"viewport"`
	Length   float64   `yaml:"length"` // document height in px
	Elements []Element `yaml:"elements,omitempty"`
	Triggers []Trigger `yaml:"triggers,omitempty"`
	Timeline []Event   `yaml:"timeline,omitempty"`
}

// Size is a viewport in px
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Rectangle represents a bounding box in document coordinates
type Rectangle struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Element is a node animated by its keyframes
type Element struct {
	ID        string          `yaml:"id"`
	Rect      Rectangle       `yaml:"rect"`
	Keyframes keyframe.Config `yaml:"keyframes"`
}

// Trigger is a node firing actions as it crosses the viewport
type Trigger struct {
	ID    string        `yaml:"id"`
	Rect  Rectangle     `yaml:"rect"`
	Enter []action.Spec `yaml:"enter,omitempty"`
	Leave []action.Spec `yaml:"leave,omitempty"`
	Once  bool          `yaml:"once,omitempty"`
}

// Event happens at a frame of the timeline: a scroll, a resize, or both
type Event struct {
	Frame  int      `yaml:"frame"`
	Scroll *float64 `yaml:"scroll,omitempty"`
	Resize *Size    `yaml:"resize,omitempty"`
}

// LastFrame is the frame of the final timeline event
func (s *Scene) LastFrame() int {
	last := 0
	for _, ev := range s.Timeline {
		if ev.Frame > last {
			last = ev.Frame
		}
	}
	return last
}
