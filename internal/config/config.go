package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	ScenePath        string
	OutputLog        string
	PreviewDir       string
	PreviewVideo     string
	TuningPath       string
	Width            int
	Height           int
	FPS              int
	Frames           int
	Workers          int
	Ease             float64
	Epsilon          float64
	Precision        int
	TriggerThreshold float64
	ScrollThrottle   time.Duration
	ResizeThrottle   time.Duration
	ReducedMotion    bool
	ShowStats        bool
	Live             bool
	VideoEncoder     string
	Quality          int
	BuildVersion     string
}

// Default returns the settings used when no flag or tuning file overrides them
func Default() *Config {
	return &Config{
		FPS:              60,
		Workers:          4,
		Ease:             0.075,
		Epsilon:          0.05,
		Precision:        2,
		TriggerThreshold: 10,
		ScrollThrottle:   16 * time.Millisecond,
		ResizeThrottle:   200 * time.Millisecond,
	}
}

// Tuning is the on-disk TOML form; only keys present in the file override Config
type Tuning struct {
	Scheduler struct {
		Ease             *float64 `toml:"ease"`
		Epsilon          *float64 `toml:"epsilon"`
		Precision        *int     `toml:"precision"`
		TriggerThreshold *float64 `toml:"trigger_threshold"`
		ReducedMotion    *bool    `toml:"reduced_motion"`
	} `toml:"scheduler"`
	Throttle struct {
		ScrollMS *int `toml:"scroll_ms"`
		ResizeMS *int `toml:"resize_ms"`
	} `toml:"throttle"`
	Render struct {
		FPS     *int    `toml:"fps"`
		Workers *int    `toml:"workers"`
		Encoder *string `toml:"encoder"`
		Quality *int    `toml:"quality"`
	} `toml:"render"`
}

// LoadTuning reads a TOML tuning file and applies it on top of cfg
func LoadTuning(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tuning: %w", err)
	}

	var t Tuning
	if err := toml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("parse tuning %s: %w", path, err)
	}

	t.Apply(cfg)
	return cfg.Validate()
}

// Apply copies every set field onto cfg
func (t *Tuning) Apply(cfg *Config) {
	s := t.Scheduler
	if s.Ease != nil {
		cfg.Ease = *s.Ease
	}
	if s.Epsilon != nil {
		cfg.Epsilon = *s.Epsilon
	}
	if s.Precision != nil {
		cfg.Precision = *s.Precision
	}
	if s.TriggerThreshold != nil {
		cfg.TriggerThreshold = *s.TriggerThreshold
	}
	if s.ReducedMotion != nil {
		cfg.ReducedMotion = *s.ReducedMotion
	}

	if t.Throttle.ScrollMS != nil {
		cfg.ScrollThrottle = time.Duration(*t.Throttle.ScrollMS) * time.Millisecond
	}
	if t.Throttle.ResizeMS != nil {
		cfg.ResizeThrottle = time.Duration(*t.Throttle.ResizeMS) * time.Millisecond
	}

	r := t.Render
	if r.FPS != nil {
		cfg.FPS = *r.FPS
	}
	if r.Workers != nil {
		cfg.Workers = *r.Workers
	}
	if r.Encoder != nil {
		cfg.VideoEncoder = *r.Encoder
	}
	if r.Quality != nil {
		cfg.Quality = *r.Quality
	}
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	case c.Workers <= 0:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	case c.Ease <= 0 || c.Ease > 1:
		return fmt.Errorf("ease must be in (0, 1], got %v", c.Ease)
	case c.Epsilon <= 0:
		return fmt.Errorf("epsilon must be positive, got %v", c.Epsilon)
	case c.Precision < 0:
		return fmt.Errorf("precision must not be negative, got %d", c.Precision)
	case c.TriggerThreshold < 0:
		return fmt.Errorf("trigger threshold must not be negative, got %v", c.TriggerThreshold)
	case c.ScrollThrottle < 0 || c.ResizeThrottle < 0:
		return fmt.Errorf("throttle intervals must not be negative")
	}
	return nil
}
