package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ivlev/parallaxus/internal/action"
	"github.com/ivlev/parallaxus/internal/host"
	"github.com/ivlev/parallaxus/internal/scheduler"
)

// Live runs the scene against wall-clock frames. Commands are read from
// in, one per line:
//
//	scroll <offset>
//	resize <width> <height>
//	quit
//
// Trigger events and settled positions are reported to out. Live returns
// when ctx is done, on quit, or once in is exhausted and the loop is idle.
// When in is an io.Closer it is closed on return so the reader goroutine
// can exit. A plain io.Reader blocked in Read keeps that goroutine alive
// until the reader returns.
func (p *Project) Live(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	registry := action.NewRegistry(p.logger)
	registry.Observe(func(target action.Target, name string, direction int) {
		fmt.Fprintf(out, "[>] %v %s %+d\n", target, name, direction)
	})

	page := p.Scene.Page(registry, p.logger)
	clock := scheduler.NewTickerClock(p.Config.FPS)
	sched := scheduler.New(page, clock, p.Options(), p.logger)

	scrollTh := scheduler.NewThrottle(p.Config.ScrollThrottle)
	resizeTh := scheduler.NewThrottle(p.Config.ResizeThrottle)
	closing := false

	// trailing throttle calls need a frame to flush on even when idle
	flush := func() {
		if scrollTh.Pending() || resizeTh.Pending() {
			clock.RequestFrame(func() {})
		}
	}

	clock.AfterFrame = func() {
		now := time.Now()
		if scrollTh.Due(now) {
			sched.OnScroll(page.ScrollOffset())
		}
		if resizeTh.Due(now) {
			p.resize(sched, out)
		}
		if sched.State() == scheduler.Idle {
			fmt.Fprintf(out, "[*] idle at %.2f\n", sched.Current())
			if closing && !scrollTh.Pending() && !resizeTh.Pending() {
				cancel()
			}
		}
		flush()
	}

	if err := clock.Post(ctx, func() {
		if err := sched.Setup(); err != nil {
			fmt.Fprintf(out, "[-] setup: %v\n", err)
			cancel()
		}
	}); err != nil {
		return err
	}

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			cmd := line
			err := clock.Post(ctx, func() {
				if err := p.command(cmd, page, sched, scrollTh, resizeTh, out); err != nil {
					if errors.Is(err, errQuit) {
						cancel()
						return
					}
					fmt.Fprintf(out, "[!] %v\n", err)
				}
				flush()
			})
			if err != nil {
				return
			}
		}
		_ = clock.Post(ctx, func() {
			closing = true
			if sched.State() == scheduler.Idle && !scrollTh.Pending() && !resizeTh.Pending() {
				cancel()
			}
		})
	}()

	err := clock.Run(ctx)
	cancel()
	if c, ok := in.(io.Closer); ok {
		c.Close()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var errQuit = errors.New("quit")

func (p *Project) command(line string, page *host.Page, sched *scheduler.Scheduler, scrollTh, resizeTh *scheduler.Throttle, out io.Writer) error {
	fields := strings.Fields(line)
	now := time.Now()

	switch fields[0] {
	case "quit", "exit":
		return errQuit
	case "scroll":
		if len(fields) != 2 {
			return fmt.Errorf("usage: scroll <offset>")
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
		page.ScrollTo(v)
		if scrollTh.Offer(now) {
			sched.OnScroll(page.ScrollOffset())
		}
	case "resize":
		if len(fields) != 3 {
			return fmt.Errorf("usage: resize <width> <height>")
		}
		w, errW := strconv.Atoi(fields[1])
		h, errH := strconv.Atoi(fields[2])
		if err := errors.Join(errW, errH); err != nil {
			return fmt.Errorf("resize: %w", err)
		}
		if w <= 0 || h <= 0 {
			return fmt.Errorf("resize: %dx%d is not a viewport", w, h)
		}
		page.Resize(float64(w), float64(h))
		if resizeTh.Offer(now) {
			p.resize(sched, out)
		}
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return nil
}

func (p *Project) resize(sched *scheduler.Scheduler, out io.Writer) {
	if err := sched.Resize(); err != nil {
		fmt.Fprintf(out, "[!] resize: %v\n", err)
	}
}
