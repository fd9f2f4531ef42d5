package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/parallaxus/internal/keyframe"
)

func TestSampleIsValid(t *testing.T) {
	s := Sample()
	require.NoError(t, s.Validate())
	assert.Equal(t, 360, s.LastFrame())

	for _, e := range s.Elements {
		_, err := keyframe.Parse(e.Keyframes)
		assert.NoError(t, err, e.ID)
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, Write(Sample(), path))

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, "1.0", got.Version)
	assert.Equal(t, Size{W: 1280, H: 720}, got.Viewport)
	require.Len(t, got.Elements, 3)
	assert.Equal(t, Rectangle{X: 140, Y: 1100, W: 400, H: 260}, got.Elements[1].Rect)
	require.Len(t, got.Triggers, 2)
	assert.True(t, got.Triggers[1].Once)
	assert.Equal(t, "active", got.Triggers[0].Enter[0].Args["class"])
	require.NotNil(t, got.Timeline[1].Scroll)
	assert.Equal(t, 800.0, *got.Timeline[1].Scroll)

	// keyframes still parse after the YAML round trip
	set, err := keyframe.Parse(got.Elements[1].Keyframes)
	require.NoError(t, err)
	assert.True(t, set.HasStyle())
}

func TestReadNumericBreakpointKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	doc := `
version: "1.0"
viewport: {w: 800, h: 600}
elements:
  - id: box
    rect: {x: 0, y: 700, w: 100, h: 100}
    keyframes:
      0: {opacity: 0}
      100: {opacity: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	s, err := Read(path)
	require.NoError(t, err)
	set, err := keyframe.Parse(s.Elements[0].Keyframes)
	require.NoError(t, err)
	require.Len(t, set.Style(), 1)
	assert.Equal(t, 100, set.Style()[0].Points[1].At)
}

func TestValidate(t *testing.T) {
	scroll := 10.0
	tests := []struct {
		name   string
		mutate func(s *Scene)
		want   string
	}{
		{"viewport", func(s *Scene) { s.Viewport.H = 0 }, "viewport"},
		{"missing id", func(s *Scene) { s.Elements[0].ID = "" }, "without id"},
		{"duplicate id", func(s *Scene) { s.Triggers[0].ID = "hero" }, "duplicate"},
		{"no keyframes", func(s *Scene) { s.Elements[0].Keyframes = nil }, "no keyframes"},
		{"backwards", func(s *Scene) { s.Timeline = append(s.Timeline, Event{Frame: 1, Scroll: &scroll}) }, "goes back"},
		{"empty event", func(s *Scene) { s.Timeline[0].Scroll = nil }, "empty"},
		{"bad resize", func(s *Scene) { s.Timeline[3].Resize = &Size{W: -1, H: 5} }, "resizes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sample()
			tt.mutate(s)
			err := s.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPageLayout(t *testing.T) {
	p := Sample().Page(nil, nil)
	assert.Equal(t, 1280.0, p.Width)
	assert.Equal(t, 4000.0, p.Length)
	require.Len(t, p.Nodes(), 5)

	card := p.Node("card")
	require.NotNil(t, card)
	assert.Equal(t, 1100.0, card.Top)
	assert.NotNil(t, card.Keyframes)
	assert.Nil(t, card.Hitpoint)

	footer := p.Node("footer")
	require.NotNil(t, footer.Hitpoint)
	assert.True(t, footer.Hitpoint.Once)

	scan, err := p.Scan()
	require.NoError(t, err)
	assert.Len(t, scan.Elements, 3)
	assert.Len(t, scan.Triggers, 2)
}

func TestGeneratePath(t *testing.T) {
	path := GeneratePath("output", "demo")
	assert.True(t, strings.HasPrefix(path, filepath.Join("output", "demo_")))
	assert.True(t, strings.HasSuffix(path, ".yaml"))
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.yaml", "b.yml", "c.yaml"}
	for i, name := range files {
		f := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(f, []byte("version: x"), 0644))
		mod := time.Now().Add(time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(f, mod, mod))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

	latest, err := FindLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "c.yaml"), latest)

	_, err = FindLatest(t.TempDir())
	assert.Error(t, err)
}
