// Package daemon runs the render loop that keeps every configured window
// alive: it answers queued IPC requests, feeds each window a frame from its
// source and stops once the user has closed everything.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/framewin/internal/frame"
	"github.com/1broseidon/framewin/internal/ipc"
	"github.com/1broseidon/framewin/internal/source"
	"github.com/1broseidon/framewin/internal/window"
)

const defaultFPS = 60

// Config holds configuration for the runner.
type Config struct {
	Manager *window.Manager
	// Sources maps window names to their frame source. Windows without a
	// source are serviced but never drawn.
	Sources map[string]source.Source
	FPS     int
	// IPC is optional. Its requests are answered between frames.
	IPC    *ipc.Server
	Info   ipc.Info
	Logger *slog.Logger
}

// Runner drives a window.Manager from a single goroutine.
type Runner struct {
	manager  *window.Manager
	sources  map[string]source.Source
	interval time.Duration
	ipc      *ipc.Server
	handler  ipc.Handler
	logger   *slog.Logger

	start   time.Time
	lastErr map[string]string
}

// NewRunner creates a runner. The manager must already hold the windows to
// drive.
func NewRunner(cfg Config) *Runner {
	fps := cfg.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		manager:  cfg.Manager,
		sources:  cfg.Sources,
		interval: time.Second / time.Duration(fps),
		ipc:      cfg.IPC,
		logger:   logger,
		start:    time.Now(),
		lastErr:  make(map[string]string),
	}
	if r.ipc != nil {
		r.handler = ipc.NewDispatcher(cfg.Manager, cfg.Info)
	}
	return r
}

// Run renders frames until every window is closed for good or ctx is
// cancelled, then closes the remaining windows. It must run on the thread
// that owns the platform backend.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer r.manager.Shutdown()

	r.logger.Info("render loop started", "interval", r.interval, "windows", len(r.manager.Names()))

	for {
		if done := r.Step(time.Since(r.start)); done {
			r.logger.Info("all windows closed")
			return nil
		}
		select {
		case <-ctx.Done():
			r.logger.Info("render loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Step renders one frame at time t and reports whether every window is
// closed for good.
func (r *Runner) Step(t time.Duration) (done bool) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("render step panic recovered", "error", err)
		}
	}()

	if r.ipc != nil {
		if n := r.ipc.Pump(r.handler); n > 0 {
			r.logger.Debug("answered IPC requests", "count", n)
		}
	}

	for _, name := range r.manager.Names() {
		f := r.frameFor(name, t)
		if err := r.manager.Show(name, f); err != nil {
			r.reportError(name, err)
			continue
		}
		delete(r.lastErr, name)
	}
	return r.manager.Done()
}

func (r *Runner) frameFor(name string, t time.Duration) *frame.Frame {
	src, ok := r.sources[name]
	if !ok || src == nil {
		return nil
	}
	return src.Frame(t)
}

// reportError logs each distinct error once until the window recovers, so a
// window that cannot be created does not flood the log every frame.
func (r *Runner) reportError(name string, err error) {
	msg := err.Error()
	if r.lastErr[name] == msg {
		return
	}
	r.lastErr[name] = msg
	r.logger.Error("failed to show window", "window", name, "error", err)
}
