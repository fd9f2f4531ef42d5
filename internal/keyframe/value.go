package keyframe

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnsupportedValue marks a raw value that is neither a scalar, a color nor a composite list
var ErrUnsupportedValue = errors.New("unsupported value")

// ValueKind is the tag of a parsed Value
type ValueKind int

const (
	Scalar ValueKind = iota
	ColorKind
	Composite
	Keyword
)

func (k ValueKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case ColorKind:
		return "color"
	case Composite:
		return "composite"
	case Keyword:
		return "keyword"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Color is an sRGB triple with 8 bits per channel
type Color struct {
	R, G, B uint8
}

// Value is a parsed keyframe value. Only the fields matching Kind are set:
// Magnitude and Unit for scalars, Color for colors, Layers for composites
// and Word for keywords found inside composites.
type Value struct {
	Kind      ValueKind
	Magnitude float64
	Unit      string
	Color     Color
	Layers    [][]Value
	Word      string
}

var (
	scalarPattern  = regexp.MustCompile(`^(-?\d*\.?\d+)(px|%|em|rem|vh|vw|deg|rad|turn)?$`)
	colorPattern   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	keywordPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z-]*$`)
	layerSplit     = regexp.MustCompile(`,\s*`)
)

// ParseValue converts a raw configuration value into a typed Value.
// Numbers become unitless scalars. Strings are classified structurally:
// anything with a comma or inner whitespace is a composite list,
// #rgb and #rrggbb are colors, the rest must be a number with an optional unit.
func ParseValue(raw any) (Value, error) {
	switch v := raw.(type) {
	case float64:
		return Value{Kind: Scalar, Magnitude: v}, nil
	case float32:
		return Value{Kind: Scalar, Magnitude: float64(v)}, nil
	case int:
		return Value{Kind: Scalar, Magnitude: float64(v)}, nil
	case int64:
		return Value{Kind: Scalar, Magnitude: float64(v)}, nil
	case uint64:
		return Value{Kind: Scalar, Magnitude: float64(v)}, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedValue, v.String())
		}
		return Value{Kind: Scalar, Magnitude: f}, nil
	case string:
		return parseString(v)
	}
	return Value{}, fmt.Errorf("%w: value of type %T", ErrConfig, raw)
}

func parseString(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("%w: empty string", ErrUnsupportedValue)
	}

	if strings.ContainsAny(s, ", \t\n") {
		return parseComposite(s)
	}

	v, err := parseToken(s)
	if err != nil {
		return Value{}, err
	}
	if v.Kind == Keyword {
		// a bare keyword has nothing to interpolate
		return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedValue, s)
	}
	return v, nil
}

func parseComposite(s string) (Value, error) {
	parts := layerSplit.Split(s, -1)
	layers := make([][]Value, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			return Value{}, fmt.Errorf("%w: empty layer in %q", ErrUnsupportedValue, s)
		}
		tokens := make([]Value, 0, len(fields))
		for _, f := range fields {
			tok, err := parseToken(f)
			if err != nil {
				return Value{}, err
			}
			tokens = append(tokens, tok)
		}
		layers = append(layers, tokens)
	}
	return Value{Kind: Composite, Layers: layers}, nil
}

func parseToken(s string) (Value, error) {
	if colorPattern.MatchString(s) {
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedValue, s)
		}
		r, g, b := c.RGB255()
		return Value{Kind: ColorKind, Color: Color{R: r, G: g, B: b}}, nil
	}

	if m := scalarPattern.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedValue, s)
		}
		return Value{Kind: Scalar, Magnitude: f, Unit: m[2]}, nil
	}

	if keywordPattern.MatchString(s) {
		return Value{Kind: Keyword, Word: s}, nil
	}

	return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedValue, s)
}
