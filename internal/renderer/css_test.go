package renderer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/parallaxus/internal/keyframe"
)

func TestInterpolateOpacityOnly(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"from": {"opacity": 0},
		"to":   {"opacity": 1},
	})

	f := Interpolate(set, 0.5)
	assert.False(t, f.HasTransform)
	assert.Equal(t, "opacity: 0.5000;", f.Style)
	assert.Equal(t, "opacity: 0.5000;", f.Full())
	assert.Empty(t, f.Errs)
	assert.Empty(t, TransformString(set, 0.5))
}

func TestInterpolateTransformOnly(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"from": {"translateY": "0px"},
		"to":   {"translateY": "100px"},
	})

	f := Interpolate(set, 0.5)
	assert.False(t, f.HasStyle)
	assert.Equal(t, "translateZ(0) translateY(50.0000px)", f.Transform)
	assert.Equal(t, "translateZ(0) translateY(50.0000px)", TransformString(set, 0.5))
	assert.Equal(t, "transform: translateZ(0) translateY(50.0000px);", f.Full())
}

func TestInterpolateBothGroups(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"from": {"scale": 1, "rotate": "0deg", "opacity": 0, "backgroundColor": "#000"},
		"to":   {"scale": 2, "rotate": "90deg", "opacity": 1, "backgroundColor": "#fff"},
	})

	f := Interpolate(set, 0.5)
	assert.Equal(t, "translateZ(0) scale(1.5000) rotate(45.0000deg)", f.Transform)
	assert.Equal(t, "opacity: 0.5000; background-color: #808080;", f.Style)
	assert.Equal(t,
		"opacity: 0.5000; background-color: #808080; transform: translateZ(0) scale(1.5000) rotate(45.0000deg);",
		f.Full())
}

func TestInterpolateIsDeterministic(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"from": {"translateX": "-20px", "boxShadow": "0px 0px 4px #102030"},
		"33":   {"translateX": "15px", "boxShadow": "2px 2px 8px #405060"},
		"to":   {"translateX": "40px", "boxShadow": "6px 6px 16px #a0b0c0"},
	})

	for _, r := range []float64{0.1, 0.33, 0.4567, 0.9} {
		a := Interpolate(set, r)
		b := Interpolate(set, r)
		assert.Equal(t, a.Full(), b.Full())
	}
}

func TestInterpolateSkipsBrokenPropertyOnly(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"from": {"width": "10px", "height": "calc(1px)", "opacity": 0},
		"to":   {"width": "20%", "height": "5px", "opacity": 1},
	})

	f := Interpolate(set, 0.5)
	require.Len(t, f.Errs, 2)
	assert.ErrorIs(t, f.Errs[0], ErrMismatch)
	assert.ErrorIs(t, f.Errs[1], keyframe.ErrUnsupportedValue)
	assert.Equal(t, "opacity: 0.5000;", f.Style)
}

func TestInterpolateKindMismatch(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"from": {"backgroundColor": "#fff"},
		"to":   {"backgroundColor": "10px"},
	})

	f := Interpolate(set, 0.5)
	require.Len(t, f.Errs, 1)
	assert.ErrorIs(t, f.Errs[0], ErrMismatch)
	assert.Equal(t, "", f.Full())
}

func TestFormatNegativeZero(t *testing.T) {
	v := keyframe.Value{Kind: keyframe.Scalar, Magnitude: math.Copysign(0, -1), Unit: "px"}
	assert.Equal(t, "0.0000px", Format(v))
	assert.Equal(t, "-1.2500em", Format(keyframe.Value{Kind: keyframe.Scalar, Magnitude: -1.25, Unit: "em"}))
}
