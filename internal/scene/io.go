package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate
var ErrInvalid = errors.New("invalid scene")

// Write writes a scene to a YAML file
func Write(s *Scene, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads and validates a scene from a YAML file
func Read(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// Validate checks the structure of the scene. Keyframe contents are
// checked later, per element, so one bad element does not reject the file.
func (s *Scene) Validate() error {
	if s.Viewport.W <= 0 || s.Viewport.H <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalid, s.Viewport.W, s.Viewport.H)
	}
	if s.Length < 0 {
		return fmt.Errorf("%w: negative length", ErrInvalid)
	}

	ids := make(map[string]bool)
	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%w: %s without id", ErrInvalid, kind)
		}
		if ids[id] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalid, id)
		}
		ids[id] = true
		return nil
	}

	for _, e := range s.Elements {
		if err := check("element", e.ID); err != nil {
			return err
		}
		if len(e.Keyframes) == 0 {
			return fmt.Errorf("%w: element %q has no keyframes", ErrInvalid, e.ID)
		}
	}
	for _, t := range s.Triggers {
		if err := check("trigger", t.ID); err != nil {
			return err
		}
	}

	prev := 0
	for i, ev := range s.Timeline {
		if ev.Frame < prev {
			return fmt.Errorf("%w: timeline event %d goes back to frame %d", ErrInvalid, i, ev.Frame)
		}
		prev = ev.Frame
		if ev.Scroll == nil && ev.Resize == nil {
			return fmt.Errorf("%w: timeline event %d is empty", ErrInvalid, i)
		}
		if ev.Resize != nil && (ev.Resize.W <= 0 || ev.Resize.H <= 0) {
			return fmt.Errorf("%w: timeline event %d resizes to %dx%d", ErrInvalid, i, ev.Resize.W, ev.Resize.H)
		}
	}
	return nil
}
