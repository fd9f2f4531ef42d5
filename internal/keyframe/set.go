package keyframe

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrConfig is returned when an element configuration cannot be bound
var ErrConfig = errors.New("invalid keyframe config")

// Config is the decoded per-element configuration: breakpoint -> property -> raw value
type Config map[string]map[string]any

// Point is a value pinned to a breakpoint (0-100)
type Point struct {
	At    int
	Raw   any
	Value Value
}

// Property holds the ordered keyframes of one configured property.
// Err is set when one of its raw values could not be parsed; such a
// property is kept so callers can report it, but it never renders.
type Property struct {
	Spec
	Points []Point
	Err    error
}

// Set is the parsed keyframe description of one element
type Set struct {
	transform []*Property
	style     []*Property
}

// Parse builds a Set from a configuration map
func Parse(cfg Config) (*Set, error) {
	if len(cfg) == 0 {
		return nil, fmt.Errorf("%w: no breakpoints", ErrConfig)
	}

	byName := make(map[string]*Property)
	for key, body := range cfg {
		at, err := ParseBreakpoint(key)
		if err != nil {
			return nil, err
		}

		for name, raw := range body {
			spec, ok := Lookup(name)
			if !ok {
				continue
			}

			prop := byName[name]
			if prop == nil {
				prop = &Property{Spec: spec}
				byName[name] = prop
			}

			for _, p := range prop.Points {
				if p.At == at {
					return nil, fmt.Errorf("%w: breakpoint %d of %s given twice", ErrConfig, at, name)
				}
			}

			v, err := ParseValue(raw)
			if err != nil {
				if errors.Is(err, ErrConfig) {
					return nil, fmt.Errorf("%s at %d: %w", name, at, err)
				}
				if prop.Err == nil {
					prop.Err = fmt.Errorf("%s at %d: %w", name, at, err)
				}
			}
			prop.Points = append(prop.Points, Point{At: at, Raw: raw, Value: v})
		}
	}

	if len(byName) == 0 {
		return nil, fmt.Errorf("%w: no animatable properties", ErrConfig)
	}

	set := &Set{}
	for _, spec := range Properties {
		prop, ok := byName[spec.Name]
		if !ok {
			continue
		}
		sort.Slice(prop.Points, func(i, j int) bool {
			return prop.Points[i].At < prop.Points[j].At
		})
		if spec.Kind == KindTransform {
			set.transform = append(set.transform, prop)
		} else {
			set.style = append(set.style, prop)
		}
	}

	return set, nil
}

// ParseBreakpoint normalizes a breakpoint key; "from" and "to" alias 0 and 100
func ParseBreakpoint(key string) (int, error) {
	switch strings.TrimSpace(key) {
	case "from":
		return 0, nil
	case "to":
		return 100, nil
	}

	at, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || at < 0 || at > 100 {
		return 0, fmt.Errorf("%w: breakpoint %q is not from, to or 0-100", ErrConfig, key)
	}
	return at, nil
}

// HasTransform reports whether any transform-kind property is configured
func (s *Set) HasTransform() bool { return len(s.transform) > 0 }

// HasStyle reports whether any style-kind property is configured
func (s *Set) HasStyle() bool { return len(s.style) > 0 }

// Transform returns the transform-kind properties in render order
func (s *Set) Transform() []*Property { return s.transform }

// Style returns the style-kind properties in render order
func (s *Set) Style() []*Property { return s.style }

// Properties returns every configured property, transform kind first
func (s *Set) Properties() []*Property {
	all := make([]*Property, 0, len(s.transform)+len(s.style))
	all = append(all, s.transform...)
	return append(all, s.style...)
}

// WillChange returns the will-change hint for the bound element
func (s *Set) WillChange() string {
	for _, p := range s.style {
		if p.Name == "opacity" {
			return "transform, opacity"
		}
	}
	return "transform"
}
