package daemon

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/framewin/internal/ipc"
	"github.com/1broseidon/framewin/internal/platform/platformtest"
	"github.com/1broseidon/framewin/internal/source"
	"github.com/1broseidon/framewin/internal/window"
)

type fixture struct {
	backend *platformtest.Backend
	manager *window.Manager
	logs    *bytes.Buffer
	logger  *slog.Logger
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelInfo}))
	backend := platformtest.New()
	m := window.NewManager(window.Options{Backend: backend, Logger: logger})
	for _, name := range names {
		if !m.Initialize(name, window.DefaultConfig()) {
			t.Fatalf("Initialize(%q) = false", name)
		}
	}
	return &fixture{backend: backend, manager: m, logs: logs, logger: logger}
}

func (f *fixture) handle(t *testing.T, name string) *platformtest.Window {
	t.Helper()
	id, err := f.manager.Handle(name)
	if err != nil || id == 0 {
		t.Fatalf("Handle(%q) = %d, %v", name, id, err)
	}
	return f.backend.Window(id)
}

func TestStepShowsEveryWindow(t *testing.T) {
	f := newFixture(t, "drawn", "idle")
	r := NewRunner(Config{
		Manager: f.manager,
		Sources: map[string]source.Source{"drawn": source.NewBars(16, 8)},
		Logger:  f.logger,
	})

	if done := r.Step(0); done {
		t.Fatal("Step reported done with open windows")
	}
	if done := r.Step(time.Second); done {
		t.Fatal("Step reported done with open windows")
	}

	if got := f.handle(t, "drawn").Presenter.Presents; got != 2 {
		t.Fatalf("drawn presents = %d, want 2", got)
	}
	if got := f.handle(t, "idle").Presenter.Presents; got != 0 {
		t.Fatalf("idle presents = %d, want 0", got)
	}
	if f.backend.Polls != 4 {
		t.Fatalf("polls = %d, want 4", f.backend.Polls)
	}
}

func TestRunStopsWhenUserClosesEverything(t *testing.T) {
	f := newFixture(t, "a")
	r := NewRunner(Config{Manager: f.manager, FPS: 240, Logger: f.logger})

	r.Step(0)
	w := f.handle(t, "a")
	f.backend.RequestClose(w.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Run only returned after the context expired")
	}
	if st, _ := f.manager.State("a"); st != window.ClosedByUser {
		t.Fatalf("state = %v, want closed-by-user", st)
	}
	if !strings.Contains(f.logs.String(), "all windows closed") {
		t.Fatalf("missing stop log:\n%s", f.logs.String())
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	f := newFixture(t, "a")
	r := NewRunner(Config{Manager: f.manager, Logger: f.logger})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if st, _ := f.manager.State("a"); st != window.ClosedByCode {
		t.Fatalf("state = %v, want closed-by-code", st)
	}
	if f.backend.Destroys != 1 {
		t.Fatalf("destroys = %d, want 1", f.backend.Destroys)
	}
}

func TestStepReportsCreateFailureOnce(t *testing.T) {
	f := newFixture(t, "a")
	f.backend.FailCreate = errors.New("no display")
	r := NewRunner(Config{Manager: f.manager, Logger: f.logger})

	for i := 0; i < 3; i++ {
		r.Step(0)
	}
	if n := strings.Count(f.logs.String(), "failed to show window"); n != 1 {
		t.Fatalf("logged failure %d times, want 1:\n%s", n, f.logs.String())
	}

	f.backend.FailCreate = nil
	r.Step(0)
	if open, _ := f.manager.GetOpen("a"); !open {
		t.Fatal("window did not open after the backend recovered")
	}
}

func TestStepAnswersIPC(t *testing.T) {
	f := newFixture(t, "a")
	socket := filepath.Join(t.TempDir(), "fw.sock")
	srv, err := ipc.NewServer(socket, f.logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	r := NewRunner(Config{Manager: f.manager, IPC: srv, Logger: f.logger})
	r.Step(0)

	type result struct {
		info *ipc.WindowInfo
		err  error
	}
	results := make(chan result, 1)
	go func() {
		info, err := ipc.NewClientWithPath(socket).SetUndestroyable("a", true)
		results <- result{info, err}
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case res := <-results:
			if res.err != nil {
				t.Fatalf("SetUndestroyable: %v", res.err)
			}
			if !res.info.Undestroyable || res.info.State != "open" {
				t.Fatalf("unexpected info %+v", res.info)
			}
			return
		case <-deadline:
			t.Fatal("IPC request was never answered")
		default:
			r.Step(0)
			time.Sleep(time.Millisecond)
		}
	}
}
