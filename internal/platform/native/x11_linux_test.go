//go:build linux

package native

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/framewin/internal/platform"
	"github.com/1broseidon/framewin/internal/x11"
)

// fakeDisplay records geometry requests and keeps rects in memory.
type fakeDisplay struct {
	next  xproto.Window
	rects map[xproto.Window]image.Rectangle
	calls []string
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{next: 100, rects: make(map[xproto.Window]image.Rectangle)}
}

func (d *fakeDisplay) CreateWindow(opts x11.WindowOptions) (xproto.Window, error) {
	d.next++
	d.rects[d.next] = image.Rect(opts.X, opts.Y, opts.X+opts.Width, opts.Y+opts.Height)
	return d.next, nil
}

func (d *fakeDisplay) DestroyWindow(win xproto.Window) error {
	delete(d.rects, win)
	return nil
}

func (d *fakeDisplay) FindWindowByTitle(string) (xproto.Window, error) {
	return 0, errors.New("not found")
}

func (d *fakeDisplay) WindowRect(win xproto.Window) (image.Rectangle, error) {
	r, ok := d.rects[win]
	if !ok {
		return image.Rectangle{}, errors.New("bad window")
	}
	return r, nil
}

func (d *fakeDisplay) MoveResizeWindow(win xproto.Window, x, y, width, height int) error {
	d.calls = append(d.calls, fmt.Sprintf("moveresize %dx%d", width, height))
	d.rects[win] = image.Rect(x, y, x+width, y+height)
	return nil
}

func (d *fakeDisplay) SetFixedSize(win xproto.Window, x, y, width, height int) error {
	d.calls = append(d.calls, fmt.Sprintf("pin %dx%d", width, height))
	return nil
}

func (d *fakeDisplay) SetResizable(win xproto.Window, resizable bool) error {
	d.calls = append(d.calls, fmt.Sprintf("resizable %v", resizable))
	return nil
}

func (d *fakeDisplay) SetAbove(xproto.Window, bool) error                     { return nil }
func (d *fakeDisplay) SetIcon(xproto.Window, []image.Image) error             { return nil }
func (d *fakeDisplay) GetActiveWindow() (xproto.Window, error)                { return 0, nil }
func (d *fakeDisplay) IsIconic(xproto.Window) (bool, error)                   { return false, nil }
func (d *fakeDisplay) Minimize(xproto.Window) error                           { return nil }
func (d *fakeDisplay) Restore(xproto.Window) error                            { return nil }
func (d *fakeDisplay) RaiseWindow(xproto.Window) error                        { return nil }
func (d *fakeDisplay) Lower(xproto.Window) error                              { return nil }
func (d *fakeDisplay) DrainEvents(func(error)) []x11.Event                    { return nil }
func (d *fakeDisplay) NewImageTarget(xproto.Window) (*x11.ImageTarget, error) { return nil, nil }
func (d *fakeDisplay) Close()                                                 {}

func TestX11SetSizeRepinsFixedSizeWindows(t *testing.T) {
	d := newFakeDisplay()
	b := newX11Backend(d, nil)

	id, err := b.Create(platform.WindowSpec{Title: "fixed", Width: 400, Height: 200, Resizable: false})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.SetSize(id, 400, 300); err != nil {
		t.Fatalf("SetSize: %v", err)
	}

	want := []string{"pin 400x300", "moveresize 400x300"}
	if diff := cmp.Diff(want, d.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	r, err := b.ClientRect(id)
	if err != nil {
		t.Fatalf("ClientRect: %v", err)
	}
	if r.Width != 400 || r.Height != 300 {
		t.Fatalf("rect = %+v, want 400x300", r)
	}
}

func TestX11SetSizeFollowsResizableChanges(t *testing.T) {
	d := newFakeDisplay()
	b := newX11Backend(d, nil)

	id, err := b.Create(platform.WindowSpec{Title: "free", Width: 400, Height: 200, Resizable: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.SetSize(id, 500, 200); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	if err := b.SetResizable(id, false); err != nil {
		t.Fatalf("SetResizable: %v", err)
	}
	if err := b.SetSize(id, 600, 250); err != nil {
		t.Fatalf("SetSize: %v", err)
	}

	want := []string{
		"moveresize 500x200",
		"resizable false",
		"pin 600x250",
		"moveresize 600x250",
	}
	if diff := cmp.Diff(want, d.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}
