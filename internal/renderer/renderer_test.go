package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/parallaxus/internal/keyframe"
)

func mustParse(t *testing.T, cfg keyframe.Config) *keyframe.Set {
	t.Helper()
	set, err := keyframe.Parse(cfg)
	require.NoError(t, err)
	return set
}

func TestPropertyValueAcrossBreakpoints(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"0":   {"translateX": "0px"},
		"50":  {"translateX": "80px"},
		"100": {"translateX": "100px"},
	})
	prop := set.Transform()[0]

	tests := []struct {
		ratio    float64
		expected string
	}{
		{-0.1, "0.0000px"},  // before the first breakpoint
		{0.0, "0.0000px"},   // first breakpoint
		{0.25, "40.0000px"}, // inside first segment
		{0.5, "80.0000px"},  // exact inner breakpoint
		{0.75, "90.0000px"}, // inside second segment
		{1.0, "100.0000px"}, // last breakpoint
		{1.3, "100.0000px"}, // past the last breakpoint
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got, err := PropertyValue(prop, tt.ratio*100)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got, "at ratio %.2f", tt.ratio)
		})
	}
}

func TestScalarLinearity(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"0":   {"width": "0px"},
		"100": {"width": "100px"},
	})

	got, err := PropertyValue(set.Style()[0], 25)
	require.NoError(t, err)
	assert.Equal(t, "25.0000px", got)
}

func TestUnitFromEitherEndpoint(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"from": {"height": 0},
		"to":   {"height": "10vh"},
	})

	got, err := PropertyValue(set.Style()[0], 50)
	require.NoError(t, err)
	assert.Equal(t, "5.0000vh", got)
}

func TestColorMidpoint(t *testing.T) {
	tests := []struct {
		from, to string
	}{
		{"#000000", "#ffffff"},
		{"#000", "#fff"},
	}

	for _, tt := range tests {
		set := mustParse(t, keyframe.Config{
			"from": {"backgroundColor": tt.from},
			"to":   {"backgroundColor": tt.to},
		})
		got, err := PropertyValue(set.Style()[0], 50)
		require.NoError(t, err)
		assert.Equal(t, "#808080", got, "%s -> %s at 0.5", tt.from, tt.to)
	}
}

func TestCompositeShadow(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"from": {"boxShadow": "0px 0px 0px #000000, 1px 1px 0px #ff0000"},
		"to":   {"boxShadow": "10px 20px 30px #ffffff, 3px 5px 2px #0000ff"},
	})

	got, err := PropertyValue(set.Style()[0], 50)
	require.NoError(t, err)
	assert.Equal(t, "5.0000px 10.0000px 15.0000px #808080, 2.0000px 3.0000px 1.0000px #800080", got)
}

func TestCompositeKeywordPassThrough(t *testing.T) {
	set := mustParse(t, keyframe.Config{
		"from": {"outline": "0px solid #000000"},
		"to":   {"outline": "4px solid #ffffff"},
	})

	got, err := PropertyValue(set.Style()[0], 50)
	require.NoError(t, err)
	assert.Equal(t, "2.0000px solid #808080", got)
}
