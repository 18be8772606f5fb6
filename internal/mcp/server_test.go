package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framewin/internal/ipc"
)

type fakeDaemon struct {
	status   ipc.StatusData
	windows  []ipc.WindowInfo
	err      error
	geometry []ipc.GeometryPayload
	calls    []string
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	f.calls = append(f.calls, "status")
	if f.err != nil {
		return nil, f.err
	}
	s := f.status
	return &s, nil
}

func (f *fakeDaemon) ListWindows() ([]ipc.WindowInfo, error) {
	f.calls = append(f.calls, "list")
	if f.err != nil {
		return nil, f.err
	}
	return f.windows, nil
}

func (f *fakeDaemon) find(name string) (*ipc.WindowInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.windows {
		if f.windows[i].Name == name {
			return &f.windows[i], nil
		}
	}
	return nil, errors.New("daemon error: unknown window")
}

func (f *fakeDaemon) OpenWindow(name string) (*ipc.WindowInfo, error) {
	f.calls = append(f.calls, "open "+name)
	w, err := f.find(name)
	if err != nil {
		return nil, err
	}
	w.State = "open"
	w.Handle = 7
	out := *w
	return &out, nil
}

func (f *fakeDaemon) CloseWindow(name string) (*ipc.WindowInfo, error) {
	f.calls = append(f.calls, "close "+name)
	w, err := f.find(name)
	if err != nil {
		return nil, err
	}
	w.State = "closed-by-code"
	w.Handle = 0
	out := *w
	return &out, nil
}

func (f *fakeDaemon) SetGeometry(g ipc.GeometryPayload) (*ipc.WindowInfo, error) {
	f.calls = append(f.calls, "geometry "+g.Name)
	f.geometry = append(f.geometry, g)
	w, err := f.find(g.Name)
	if err != nil {
		return nil, err
	}
	if g.X != nil {
		w.X = g.X
	}
	if g.Width != nil {
		w.Width = g.Width
	}
	out := *w
	return &out, nil
}

func (f *fakeDaemon) SetUndestroyable(name string, on bool) (*ipc.WindowInfo, error) {
	f.calls = append(f.calls, "undestroyable "+name)
	w, err := f.find(name)
	if err != nil {
		return nil, err
	}
	w.Undestroyable = on
	out := *w
	return &out, nil
}

func newTestServer(d Daemon) *Server {
	return NewServer(d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func intp(v int) *int { return &v }

func TestNewServerRegistersTools(t *testing.T) {
	s := newTestServer(&fakeDaemon{})
	if s.mcpServer == nil {
		t.Fatal("mcp server not created")
	}
}

func TestListWindows(t *testing.T) {
	d := &fakeDaemon{windows: []ipc.WindowInfo{
		{Name: "main", State: "open", Handle: 3},
		{Name: "side", State: "closed-by-user"},
	}}
	s := newTestServer(d)

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if diff := cmp.Diff(d.windows, out.Windows); diff != "" {
		t.Fatalf("windows mismatch (-want +got):\n%s", diff)
	}
}

func TestListWindowsEmptyIsNotNil(t *testing.T) {
	s := newTestServer(&fakeDaemon{})
	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if out.Windows == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestWindowStatus(t *testing.T) {
	d := &fakeDaemon{
		status:  ipc.StatusData{Backend: "glfw", Presenter: "gl", FPS: 60, WindowCount: 1, DaemonRunning: true},
		windows: []ipc.WindowInfo{{Name: "main", State: "open"}},
	}
	s := newTestServer(d)

	_, out, err := s.handleWindowStatus(context.Background(), nil, WindowStatusInput{})
	if err != nil {
		t.Fatalf("window_status: %v", err)
	}
	if out.Window != nil || out.Daemon.FPS != 60 {
		t.Fatalf("unexpected output %+v", out)
	}

	_, out, err = s.handleWindowStatus(context.Background(), nil, WindowStatusInput{Name: "main"})
	if err != nil {
		t.Fatalf("window_status(main): %v", err)
	}
	if out.Window == nil || out.Window.State != "open" {
		t.Fatalf("unexpected window %+v", out.Window)
	}

	if _, _, err := s.handleWindowStatus(context.Background(), nil, WindowStatusInput{Name: "nope"}); err == nil || !strings.Contains(err.Error(), "unknown window") {
		t.Fatalf("window_status(nope) error = %v", err)
	}
}

func TestOpenAndCloseWindow(t *testing.T) {
	d := &fakeDaemon{windows: []ipc.WindowInfo{{Name: "main", State: "not-created"}}}
	s := newTestServer(d)

	res, out, err := s.handleOpenWindow(context.Background(), nil, WindowNameInput{Name: "main"})
	if err != nil {
		t.Fatalf("open_window: %v", err)
	}
	if out.Window.State != "open" || out.Window.Handle != 7 {
		t.Fatalf("unexpected window %+v", out.Window)
	}
	text := res.Content[0].(*mcpsdk.TextContent).Text
	if !strings.Contains(text, `"main" is open`) {
		t.Fatalf("unexpected text %q", text)
	}

	_, out, err = s.handleCloseWindow(context.Background(), nil, WindowNameInput{Name: "main"})
	if err != nil {
		t.Fatalf("close_window: %v", err)
	}
	if out.Window.State != "closed-by-code" {
		t.Fatalf("unexpected window %+v", out.Window)
	}

	want := []string{"open main", "close main"}
	if diff := cmp.Diff(want, d.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSetGeometry(t *testing.T) {
	d := &fakeDaemon{windows: []ipc.WindowInfo{{Name: "main", State: "open", X: intp(0), Width: intp(400)}}}
	s := newTestServer(d)

	_, out, err := s.handleSetGeometry(context.Background(), nil, SetGeometryInput{Name: "main", X: intp(25), Width: intp(640)})
	if err != nil {
		t.Fatalf("set_window_geometry: %v", err)
	}
	if *out.Window.X != 25 || *out.Window.Width != 640 {
		t.Fatalf("unexpected window %+v", out.Window)
	}
	want := []ipc.GeometryPayload{{Name: "main", X: intp(25), Width: intp(640)}}
	if diff := cmp.Diff(want, d.geometry); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSetUndestroyable(t *testing.T) {
	d := &fakeDaemon{windows: []ipc.WindowInfo{{Name: "main", State: "open"}}}
	s := newTestServer(d)

	_, out, err := s.handleSetUndestroyable(context.Background(), nil, SetUndestroyableInput{Name: "main", Undestroyable: true})
	if err != nil {
		t.Fatalf("set_undestroyable: %v", err)
	}
	if !out.Window.Undestroyable {
		t.Fatalf("flag not set: %+v", out.Window)
	}
}

func TestToolValidation(t *testing.T) {
	d := &fakeDaemon{windows: []ipc.WindowInfo{{Name: "main"}}}
	s := newTestServer(d)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{"open without name", func() error {
			_, _, err := s.handleOpenWindow(ctx, nil, WindowNameInput{Name: "  "})
			return err
		}, "name is required"},
		{"close without name", func() error {
			_, _, err := s.handleCloseWindow(ctx, nil, WindowNameInput{})
			return err
		}, "name is required"},
		{"geometry without fields", func() error {
			_, _, err := s.handleSetGeometry(ctx, nil, SetGeometryInput{Name: "main"})
			return err
		}, "at least one of"},
		{"undestroyable without name", func() error {
			_, _, err := s.handleSetUndestroyable(ctx, nil, SetUndestroyableInput{})
			return err
		}, "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
	if len(d.calls) != 0 {
		t.Fatalf("daemon called on invalid input: %v", d.calls)
	}
}

func TestDaemonErrorsPropagate(t *testing.T) {
	d := &fakeDaemon{err: errors.New("failed to connect to daemon")}
	s := newTestServer(d)

	if _, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{}); err == nil {
		t.Fatal("expected list error")
	}
	if _, _, err := s.handleWindowStatus(context.Background(), nil, WindowStatusInput{}); err == nil {
		t.Fatal("expected status error")
	}
	if _, _, err := s.handleOpenWindow(context.Background(), nil, WindowNameInput{Name: "main"}); err == nil {
		t.Fatal("expected open error")
	}
}
