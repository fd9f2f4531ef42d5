package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/parallaxus/internal/action"
	"github.com/ivlev/parallaxus/internal/config"
	"github.com/ivlev/parallaxus/internal/host"
	"github.com/ivlev/parallaxus/internal/preview"
	"github.com/ivlev/parallaxus/internal/scene"
	"github.com/ivlev/parallaxus/internal/scheduler"
	"github.com/ivlev/parallaxus/internal/system"
)

// TriggerEvent is one action fired by a trigger
type TriggerEvent struct {
	Frame     int    `yaml:"frame"`
	Node      string `yaml:"node"`
	Action    string `yaml:"action"`
	Direction int    `yaml:"direction"`
}

// NodeState is a node as the viewport saw it at the end of a frame
type NodeState struct {
	ID         string            `yaml:"id"`
	Top        float64           `yaml:"top"`
	Left       float64           `yaml:"left"`
	Width      float64           `yaml:"width"`
	Height     float64           `yaml:"height"`
	Properties map[string]string `yaml:"properties,omitempty"`
	Classes    []string          `yaml:"classes,omitempty"`
}

// FrameRecord is the observable state after one animation frame
type FrameRecord struct {
	Frame    int            `yaml:"frame"`
	Current  float64        `yaml:"current"`
	Target   float64        `yaml:"target"`
	State    string         `yaml:"state"`
	Width    float64        `yaml:"width"`
	Height   float64        `yaml:"height"`
	Animated int            `yaml:"animated"`
	Nodes    []NodeState    `yaml:"nodes"`
	Events   []TriggerEvent `yaml:"events,omitempty"`
}

// Report is the result of replaying a scene
type Report struct {
	Build   string         `yaml:"build,omitempty"`
	Scene   string         `yaml:"scene,omitempty"`
	FPS     int            `yaml:"fps"`
	Frames  []FrameRecord  `yaml:"frames"`
	Events  []TriggerEvent `yaml:"events,omitempty"`
	Elapsed time.Duration  `yaml:"-"`
	Stats   *system.Stats  `yaml:"-"`
}

type Project struct {
	Config *config.Config
	Scene  *scene.Scene
	logger *log.Logger
}

func NewProject(cfg *config.Config, sc *scene.Scene, logger *log.Logger) *Project {
	if logger == nil {
		logger = log.Default()
	}
	return &Project{
		Config: cfg,
		Scene:  sc,
		logger: logger,
	}
}

// Options maps the config onto scheduler tuning
func (p *Project) Options() scheduler.Options {
	return scheduler.Options{
		Ease:             p.Config.Ease,
		Epsilon:          p.Config.Epsilon,
		Precision:        p.Config.Precision,
		TriggerThreshold: p.Config.TriggerThreshold,
		ReducedMotion:    p.Config.ReducedMotion,
	}
}

// Run replays the scene timeline against a headless page, one animation
// frame per timeline frame, and records what every frame looked like.
// Timeline time is synthetic (frame / FPS) so runs are reproducible.
func (p *Project) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	cfg := p.Config
	if cfg.Width > 0 && cfg.Height > 0 {
		p.Scene.Viewport = scene.Size{W: cfg.Width, H: cfg.Height}
	}

	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}

	report := &Report{Build: cfg.BuildVersion, Scene: cfg.ScenePath, FPS: fps}
	frame := 0
	var pending []TriggerEvent

	registry := action.NewRegistry(p.logger)
	registry.Observe(func(target action.Target, name string, direction int) {
		ev := TriggerEvent{Frame: frame, Action: name, Direction: direction}
		if n, ok := target.(*host.Node); ok {
			ev.Node = n.ID
		}
		pending = append(pending, ev)
	})

	page := p.Scene.Page(registry, p.logger)
	clock := scheduler.NewManualClock()
	sched := scheduler.New(page, clock, p.Options(), p.logger)
	if err := sched.Setup(); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	scrollTh := scheduler.NewThrottle(cfg.ScrollThrottle)
	resizeTh := scheduler.NewThrottle(cfg.ResizeThrottle)

	last := p.Scene.LastFrame()
	limit := cfg.Frames
	if limit <= 0 {
		// run past the last event until everything settles
		limit = last + 1 + 10*fps
	}

	timeline := p.Scene.Timeline
	for frame = 0; frame < limit; frame++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		now := time.Unix(0, 0).Add(time.Duration(frame) * time.Second / time.Duration(fps))

		for len(timeline) > 0 && timeline[0].Frame == frame {
			ev := timeline[0]
			timeline = timeline[1:]

			if ev.Resize != nil {
				page.Resize(float64(ev.Resize.W), float64(ev.Resize.H))
				if resizeTh.Offer(now) {
					if err := sched.Resize(); err != nil {
						return nil, fmt.Errorf("frame %d: %w", frame, err)
					}
				}
			}
			if ev.Scroll != nil {
				page.ScrollTo(*ev.Scroll)
				if scrollTh.Offer(now) {
					sched.OnScroll(page.ScrollOffset())
				}
			}
		}

		if resizeTh.Due(now) {
			if err := sched.Resize(); err != nil {
				return nil, fmt.Errorf("frame %d: %w", frame, err)
			}
		}
		if scrollTh.Due(now) {
			sched.OnScroll(page.ScrollOffset())
		}

		clock.Step()

		rec := record(frame, sched, page)
		rec.Events = pending
		report.Events = append(report.Events, pending...)
		pending = nil
		report.Frames = append(report.Frames, rec)

		if cfg.Frames <= 0 && frame >= last && sched.State() == scheduler.Idle &&
			!scrollTh.Pending() && !resizeTh.Pending() {
			break
		}
	}

	report.Elapsed = time.Since(start)
	if cfg.ShowStats {
		if st, err := system.Snapshot(); err == nil {
			report.Stats = &st
		} else {
			p.logger.Printf("[!] stats unavailable: %v", err)
		}
	}
	return report, nil
}

func record(frame int, sched *scheduler.Scheduler, page *host.Page) FrameRecord {
	vp := sched.Viewport()
	rec := FrameRecord{
		Frame:    frame,
		Current:  vp.Current,
		Target:   vp.Target,
		State:    sched.State().String(),
		Width:    vp.Width,
		Height:   vp.Height,
		Animated: sched.Animated(),
	}
	for _, n := range page.Nodes() {
		b := n.Bounds()
		rec.Nodes = append(rec.Nodes, NodeState{
			ID:         n.ID,
			Top:        b.Top,
			Left:       b.Left,
			Width:      b.Width,
			Height:     b.Height,
			Properties: n.Properties(),
			Classes:    n.Classes(),
		})
	}
	return rec
}

// PreviewFrames converts the recorded frames for the rasteriser
func (r *Report) PreviewFrames() []preview.Frame {
	frames := make([]preview.Frame, 0, len(r.Frames))
	for _, f := range r.Frames {
		pf := preview.Frame{Index: f.Frame, Width: int(f.Width), Height: int(f.Height)}
		for _, n := range f.Nodes {
			pf.Boxes = append(pf.Boxes, preview.Box{
				ID:         n.ID,
				Top:        n.Top,
				Left:       n.Left,
				Width:      n.Width,
				Height:     n.Height,
				Properties: n.Properties,
				Classes:    n.Classes,
			})
		}
		frames = append(frames, pf)
	}
	return frames
}

// WriteLog writes the report as YAML
func WriteLog(r *Report, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Summary is the human readable performance block printed with -stats
func (r *Report) Summary() string {
	s := fmt.Sprintf(
		"--- [REPLAY REPORT] ---\n"+
			"Build: %s\n"+
			"Frames: %d\n"+
			"Trigger events: %d\n"+
			"Total Time: %.3fs\n",
		r.Build, len(r.Frames), len(r.Events), r.Elapsed.Seconds(),
	)
	if r.Stats != nil {
		s += fmt.Sprintf("Resources: %s\n", r.Stats)
	}
	return s + "-----------------------\n"
}
