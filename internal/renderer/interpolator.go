package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/parallaxus/internal/keyframe"
)

// ErrMismatch is returned when two bracketing keyframe values cannot be blended
var ErrMismatch = errors.New("keyframe values do not match")

// PropertyValue interpolates one property at pos (0-100 breakpoint domain)
// and returns the serialized value without prefix or suffix.
//
// Positions at or before the first breakpoint resolve to the first value,
// positions at or after the last one to the last value. Between them the
// segment starting at the greatest breakpoint <= pos is used, so an exact
// breakpoint hit yields that breakpoint's own value.
func PropertyValue(p *keyframe.Property, pos float64) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.Points) == 0 {
		return "", fmt.Errorf("%s: no keyframes", p.Name)
	}

	from, to, t := bracket(p.Points, pos)
	v, err := lerpValue(from.Value, to.Value, t)
	if err != nil {
		return "", fmt.Errorf("%s between %d and %d: %w", p.Name, from.At, to.At, err)
	}
	return Format(v), nil
}

// bracket finds the keyframes surrounding pos and the local fraction between them
func bracket(points []keyframe.Point, pos float64) (keyframe.Point, keyframe.Point, float64) {
	first, last := points[0], points[len(points)-1]
	if pos <= float64(first.At) {
		return first, first, 0
	}
	if pos >= float64(last.At) {
		return last, last, 0
	}

	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if pos >= float64(a.At) && pos < float64(b.At) {
			return a, b, (pos - float64(a.At)) / float64(b.At-a.At)
		}
	}
	return last, last, 0
}

func lerpValue(a, b keyframe.Value, t float64) (keyframe.Value, error) {
	if a.Kind != b.Kind {
		return keyframe.Value{}, fmt.Errorf("%w: %s and %s", ErrMismatch, a.Kind, b.Kind)
	}

	switch a.Kind {
	case keyframe.Scalar:
		unit := a.Unit
		if unit == "" {
			unit = b.Unit
		} else if b.Unit != "" && b.Unit != a.Unit {
			return keyframe.Value{}, fmt.Errorf("%w: units %q and %q", ErrMismatch, a.Unit, b.Unit)
		}
		return keyframe.Value{
			Kind:      keyframe.Scalar,
			Magnitude: lerp(a.Magnitude, b.Magnitude, t),
			Unit:      unit,
		}, nil

	case keyframe.ColorKind:
		return keyframe.Value{Kind: keyframe.ColorKind, Color: lerpColor(a.Color, b.Color, t)}, nil

	case keyframe.Keyword:
		if a.Word != b.Word {
			return keyframe.Value{}, fmt.Errorf("%w: %q and %q", ErrMismatch, a.Word, b.Word)
		}
		return a, nil

	case keyframe.Composite:
		if len(a.Layers) != len(b.Layers) {
			return keyframe.Value{}, fmt.Errorf("%w: %d and %d layers", ErrMismatch, len(a.Layers), len(b.Layers))
		}
		layers := make([][]keyframe.Value, len(a.Layers))
		for i := range a.Layers {
			if len(a.Layers[i]) != len(b.Layers[i]) {
				return keyframe.Value{}, fmt.Errorf("%w: layer %d has %d and %d tokens",
					ErrMismatch, i, len(a.Layers[i]), len(b.Layers[i]))
			}
			layers[i] = make([]keyframe.Value, len(a.Layers[i]))
			for j := range a.Layers[i] {
				v, err := lerpValue(a.Layers[i][j], b.Layers[i][j], t)
				if err != nil {
					return keyframe.Value{}, err
				}
				layers[i][j] = v
			}
		}
		return keyframe.Value{Kind: keyframe.Composite, Layers: layers}, nil
	}

	return keyframe.Value{}, fmt.Errorf("%w: kind %s", keyframe.ErrUnsupportedValue, a.Kind)
}

func lerpColor(a, b keyframe.Color, t float64) keyframe.Color {
	return keyframe.Color{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := math.Round(lerp(float64(a), float64(b), t))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
