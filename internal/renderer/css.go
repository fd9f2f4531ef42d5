package renderer

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/parallaxus/internal/keyframe"
)

// compositing hint forced in front of every transform
const gpuHint = "translateZ(0)"

// Frame is the rendered output of one Set at one ratio
type Frame struct {
	Transform    string // transform value, empty when the set has no transform properties
	Style        string // style declarations, empty when the set has no style properties
	HasTransform bool
	HasStyle     bool
	Errs         []error // properties skipped in this frame
}

// PropertyError reports a property left out of a Frame
type PropertyError struct {
	Property string
	Err      error
}

func (e *PropertyError) Error() string { return e.Err.Error() }

func (e *PropertyError) Unwrap() error { return e.Err }

// Interpolate renders every property of set at ratio (0 = entering, 1 = leaving).
// It has no side effects; a property that cannot be interpolated is left
// out and reported in Frame.Errs.
func Interpolate(set *keyframe.Set, ratio float64) Frame {
	pos := ratio * 100
	var f Frame

	if set.HasTransform() {
		f.HasTransform = true
		parts := []string{gpuHint}
		for _, p := range set.Transform() {
			v, err := PropertyValue(p, pos)
			if err != nil {
				f.Errs = append(f.Errs, &PropertyError{Property: p.Name, Err: err})
				continue
			}
			parts = append(parts, p.Prefix+v+p.Suffix)
		}
		f.Transform = strings.Join(parts, " ")
	}

	if set.HasStyle() {
		f.HasStyle = true
		var decls []string
		for _, p := range set.Style() {
			v, err := PropertyValue(p, pos)
			if err != nil {
				f.Errs = append(f.Errs, &PropertyError{Property: p.Name, Err: err})
				continue
			}
			decls = append(decls, p.Prefix+v+p.Suffix)
		}
		f.Style = strings.Join(decls, " ")
	}

	return f
}

// TransformString returns only the transform value of set at ratio
func TransformString(set *keyframe.Set, ratio float64) string {
	if !set.HasTransform() {
		return ""
	}
	return Interpolate(set, ratio).Transform
}

// Full merges style declarations and the transform into one declaration list
func (f Frame) Full() string {
	switch {
	case f.Style != "" && f.HasTransform:
		return f.Style + " transform: " + f.Transform + ";"
	case f.Style != "":
		return f.Style
	case f.HasTransform:
		return "transform: " + f.Transform + ";"
	}
	return ""
}

// Format serializes a value the way it is written into CSS
func Format(v keyframe.Value) string {
	switch v.Kind {
	case keyframe.Scalar:
		m := v.Magnitude
		if m == 0 {
			m = 0 // drop negative zero
		}
		return strconv.FormatFloat(m, 'f', 4, 64) + v.Unit
	case keyframe.ColorKind:
		return colorful.Color{
			R: float64(v.Color.R) / 255,
			G: float64(v.Color.G) / 255,
			B: float64(v.Color.B) / 255,
		}.Hex()
	case keyframe.Keyword:
		return v.Word
	case keyframe.Composite:
		layers := make([]string, len(v.Layers))
		for i, layer := range v.Layers {
			tokens := make([]string, len(layer))
			for j, tok := range layer {
				tokens[j] = Format(tok)
			}
			layers[i] = strings.Join(tokens, " ")
		}
		return strings.Join(layers, ", ")
	}
	return ""
}
