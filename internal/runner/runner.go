package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/ledsim/sketchhost/internal/module"
	"github.com/ledsim/sketchhost/internal/probe"
	log "github.com/sirupsen/logrus"
)

// FrameEvent is published after every loop invocation.
type FrameEvent struct {
	Frame int
	Code  int32
}

// Runner drives the lifecycle hooks of a loaded module: declare files, setup
// once, then loop on a fixed cadence until stopped.
type Runner struct {
	killSwitch func()
	ctx        context.Context
	frames     chan FrameEvent
	display    Display
	interval   time.Duration
	maxFrames  int
}

// New creates a runner. A maxFrames of zero means loop until Close or
// context cancellation.
func New(display Display, interval time.Duration, maxFrames int) *Runner {
	log.Debug("Initializing the runner...")
	ctx, cancel := context.WithCancel(context.Background())
	r := Runner{
		ctx:        ctx,
		killSwitch: cancel,
		display:    display,
		interval:   interval,
		maxFrames:  maxFrames,
	}
	r.frames = make(chan FrameEvent, 10)

	return &r
}

func (r *Runner) Frames() <-chan FrameEvent {
	return r.frames
}

func (r *Runner) Close() error {
	r.killSwitch()
	return nil
}

// Run blocks until the module stops looping. The manifest text is handed to
// the module before setup, mirroring the load order of the wasm host.
func (r *Runner) Run(hooks module.Hooks, manifestJSON string) error {
	defer close(r.frames)
	defer r.display.Clear()

	if err := probe.Check(); err != nil {
		return fmt.Errorf("module image failed pre-flight check: %w", err)
	}

	hooks.DeclareFiles(manifestJSON)

	if code := hooks.Setup(); code != 0 {
		r.display.Status("SETUP FAILED")
		return fmt.Errorf("setup returned %d", code)
	}
	log.Info("Module setup complete. Starting the loop.")
	r.display.Status("Running sketch")

	t := time.NewTicker(r.interval)
	defer t.Stop()

	for frame := 1; ; frame++ {
		select {
		case <-t.C:
			// fall out of the select and do the work.
		case <-r.ctx.Done():
			log.Debug("Kill switch flipped. Stopping the loop.")
			return nil
		}

		code := hooks.Loop()
		r.display.Frame(frame, code)

		// Frame events are advisory. A slow observer should not stall
		// the loop cadence.
		select {
		case r.frames <- FrameEvent{Frame: frame, Code: code}:
		default:
		}

		if code != 0 {
			r.display.Status("LOOP FAILED")
			return fmt.Errorf("loop returned %d on frame %d", code, frame)
		}

		if r.maxFrames > 0 && frame >= r.maxFrames {
			log.Infof("Frame budget of %d reached. Stopping the loop.", r.maxFrames)
			return nil
		}
	}
}
