package preview

import (
	"image"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/parallaxus/internal/system"
)

// Box is one node as it appeared in a frame, in viewport coordinates
type Box struct {
	ID         string
	Top        float64
	Left       float64
	Width      float64
	Height     float64
	Properties map[string]string
	Classes    []string
}

// Frame is a viewport snapshot to rasterise
type Frame struct {
	Index  int
	Width  int
	Height int
	Boxes  []Box
}

// Options control the rasteriser
type Options struct {
	Scale   float64 // output size relative to the viewport; 0 means 1
	Labels  bool
	Workers int
}

var (
	background = color.RGBA{R: 0x12, G: 0x14, B: 0x1a, A: 0xff}
	outline    = color.RGBA{R: 0xfa, G: 0xcc, B: 0x15, A: 0xff}
	palette    = []string{"#3b82f6", "#10b981", "#ef4444", "#a855f7", "#f97316"}
)

// Transform is the subset of a CSS transform the preview understands
type Transform struct {
	TranslateX  float64
	TranslateY  float64
	PercentX    bool
	PercentY    bool
	Scale       float64
	RotateDeg   float64
	HasRotation bool
}

var transformFn = regexp.MustCompile(`(\w+)\(\s*(-?\d*\.?\d+)([a-z%]*)\s*\)`)

// ParseTransform reads translate, scale and rotate functions from a transform value
func ParseTransform(s string) Transform {
	t := Transform{Scale: 1}
	for _, m := range transformFn.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		switch m[1] {
		case "translateX":
			t.TranslateX, t.PercentX = v, m[3] == "%"
		case "translateY":
			t.TranslateY, t.PercentY = v, m[3] == "%"
		case "scale":
			t.Scale = v
		case "rotate":
			t.HasRotation = true
			switch m[3] {
			case "rad":
				t.RotateDeg = v * 180 / math.Pi
			case "turn":
				t.RotateDeg = v * 360
			default:
				t.RotateDeg = v
			}
		}
	}
	return t
}

// Rect applies the transform to a box and returns its on-screen rectangle
func (t Transform) Rect(b Box) image.Rectangle {
	dx, dy := t.TranslateX, t.TranslateY
	if t.PercentX {
		dx = b.Width * dx / 100
	}
	if t.PercentY {
		dy = b.Height * dy / 100
	}

	cx := b.Left + b.Width/2 + dx
	cy := b.Top + b.Height/2 + dy
	w := b.Width * t.Scale
	h := b.Height * t.Scale
	if t.HasRotation {
		// axis-aligned bounds of the rotated box
		rad := t.RotateDeg * math.Pi / 180
		sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
		w, h = w*cos+h*sin, w*sin+h*cos
	}
	return image.Rect(
		int(math.Round(cx-w/2)), int(math.Round(cy-h/2)),
		int(math.Round(cx+w/2)), int(math.Round(cy+h/2)),
	)
}

// Render rasterises a frame into an image taken from pool; the caller
// returns it with pool.Put once encoded.
func Render(f Frame, pool *system.ImagePool, opts Options) *image.RGBA {
	canvas := pool.Get(image.Rect(0, 0, f.Width, f.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for i, b := range f.Boxes {
		drawBox(canvas, b, i, opts.Labels)
	}

	if opts.Scale <= 0 || opts.Scale == 1 {
		return canvas
	}

	w := int(math.Max(1, math.Round(float64(f.Width)*opts.Scale)))
	h := int(math.Max(1, math.Round(float64(f.Height)*opts.Scale)))
	scaled := pool.Get(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	pool.Put(canvas)
	return scaled
}

func drawBox(dst *image.RGBA, b Box, index int, labels bool) {
	r := ParseTransform(b.Properties["transform"]).Rect(b).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	fill := boxColor(b.Properties["background-color"], index)
	alpha := opacity(b.Properties["opacity"])
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})
	draw.DrawMask(dst, r, image.NewUniform(fill), image.Point{}, mask, image.Point{}, draw.Over)

	if len(b.Classes) > 0 {
		border(dst, r, outline)
	}

	if labels {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.White,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(r.Min.X+4, r.Min.Y+14),
		}
		label := b.ID
		if len(b.Classes) > 0 {
			label += " ." + strings.Join(b.Classes, " .")
		}
		d.DrawString(label)
	}
}

func boxColor(value string, index int) color.Color {
	if c, err := colorful.Hex(strings.TrimSpace(value)); err == nil {
		return c
	}
	c, _ := colorful.Hex(palette[index%len(palette)])
	return c
}

func opacity(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 1
	}
	return math.Min(math.Max(v, 0), 1)
}

func border(dst *image.RGBA, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+2),
		image.Rect(r.Min.X, r.Max.Y-2, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+2, r.Max.Y),
		image.Rect(r.Max.X-2, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}
