//go:build linux

package native

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/framewin/internal/frame"
	"github.com/1broseidon/framewin/internal/platform"
	"github.com/1broseidon/framewin/internal/present"
	"github.com/1broseidon/framewin/internal/x11"
)

// X11Backend drives windows directly over the X11 protocol and presents
// frames with PutImage.
type X11Backend struct {
	conn   display
	logger *slog.Logger

	owned   map[xproto.Window]*ownedWindow
	closing map[xproto.Window]bool
}

// display is the part of *x11.Connection the backend drives.
type display interface {
	CreateWindow(opts x11.WindowOptions) (xproto.Window, error)
	DestroyWindow(win xproto.Window) error
	FindWindowByTitle(title string) (xproto.Window, error)
	WindowRect(win xproto.Window) (image.Rectangle, error)
	MoveResizeWindow(win xproto.Window, x, y, width, height int) error
	SetFixedSize(win xproto.Window, x, y, width, height int) error
	SetResizable(win xproto.Window, resizable bool) error
	SetAbove(win xproto.Window, above bool) error
	SetIcon(win xproto.Window, images []image.Image) error
	GetActiveWindow() (xproto.Window, error)
	IsIconic(win xproto.Window) (bool, error)
	Minimize(win xproto.Window) error
	Restore(win xproto.Window) error
	RaiseWindow(win xproto.Window) error
	Lower(win xproto.Window) error
	DrainEvents(onError func(error)) []x11.Event
	NewImageTarget(win xproto.Window) (*x11.ImageTarget, error)
	Close()
}

var _ display = (*x11.Connection)(nil)

type ownedWindow struct {
	title     string
	resizable bool
}

var _ platform.Backend = (*X11Backend)(nil)

// NewX11Backend opens a connection to the display named by $DISPLAY.
func NewX11Backend(logger *slog.Logger) (*X11Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return newX11Backend(conn, logger), nil
}

func newX11Backend(conn display, logger *slog.Logger) *X11Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &X11Backend{
		conn:    conn,
		logger:  logger,
		owned:   make(map[xproto.Window]*ownedWindow),
		closing: make(map[xproto.Window]bool),
	}
}

func (b *X11Backend) Create(spec platform.WindowSpec) (platform.WindowID, error) {
	win, err := b.conn.CreateWindow(x11.WindowOptions{
		Title:     spec.Title,
		X:         spec.X,
		Y:         spec.Y,
		Width:     spec.Width,
		Height:    spec.Height,
		Resizable: spec.Resizable,
		Above:     spec.TopMost,
	})
	if err != nil {
		return 0, err
	}
	b.owned[win] = &ownedWindow{title: spec.Title, resizable: spec.Resizable}
	return platform.WindowID(win), nil
}

func (b *X11Backend) Destroy(id platform.WindowID) error {
	win := xproto.Window(id)
	delete(b.owned, win)
	delete(b.closing, win)
	if err := b.conn.DestroyWindow(win); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrNoWindow, err)
	}
	return nil
}

func (b *X11Backend) FindByTitle(title string) (platform.WindowID, bool) {
	for win, w := range b.owned {
		if w.title == title {
			return platform.WindowID(win), true
		}
	}
	win, err := b.conn.FindWindowByTitle(title)
	if err != nil {
		return 0, false
	}
	return platform.WindowID(win), true
}

func (b *X11Backend) ClientRect(id platform.WindowID) (platform.Rect, error) {
	r, err := b.conn.WindowRect(xproto.Window(id))
	if err != nil {
		return platform.Rect{}, fmt.Errorf("%w: %v", platform.ErrNoWindow, err)
	}
	return platform.Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}, nil
}

func (b *X11Backend) SetPosition(id platform.WindowID, x, y int) error {
	r, err := b.ClientRect(id)
	if err != nil {
		return err
	}
	return b.conn.MoveResizeWindow(xproto.Window(id), x, y, r.Width, r.Height)
}

func (b *X11Backend) SetSize(id platform.WindowID, width, height int) error {
	r, err := b.ClientRect(id)
	if err != nil {
		return err
	}
	win := xproto.Window(id)
	if w, ok := b.owned[win]; ok && !w.resizable {
		if err := b.conn.SetFixedSize(win, r.X, r.Y, width, height); err != nil {
			return fmt.Errorf("%w: %v", platform.ErrNoWindow, err)
		}
	}
	return b.conn.MoveResizeWindow(win, r.X, r.Y, width, height)
}

// SetTitleBarColor is unsupported: decorations belong to the window
// manager.
func (b *X11Backend) SetTitleBarColor(platform.WindowID, platform.Color) error {
	return platform.ErrUnsupported
}

func (b *X11Backend) SetIcon(id platform.WindowID, images []image.Image) error {
	return b.conn.SetIcon(xproto.Window(id), images)
}

func (b *X11Backend) SetResizable(id platform.WindowID, on bool) error {
	win := xproto.Window(id)
	if err := b.conn.SetResizable(win, on); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrNoWindow, err)
	}
	if w, ok := b.owned[win]; ok {
		w.resizable = on
	}
	return nil
}

func (b *X11Backend) SetTopMost(id platform.WindowID, on bool) error {
	return b.conn.SetAbove(xproto.Window(id), on)
}

// ActiveWindow returns the currently active/focused window ID.
func (b *X11Backend) ActiveWindow() (platform.WindowID, error) {
	wid, err := b.conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return platform.WindowID(wid), nil
}

func (b *X11Backend) IsIconic(id platform.WindowID) (bool, error) {
	iconic, err := b.conn.IsIconic(xproto.Window(id))
	if err != nil {
		return false, fmt.Errorf("%w: %v", platform.ErrNoWindow, err)
	}
	return iconic, nil
}

func (b *X11Backend) Minimize(id platform.WindowID) error {
	return b.conn.Minimize(xproto.Window(id))
}

func (b *X11Backend) Restore(id platform.WindowID) error {
	return b.conn.Restore(xproto.Window(id))
}

func (b *X11Backend) Raise(id platform.WindowID) error {
	return b.conn.RaiseWindow(xproto.Window(id))
}

func (b *X11Backend) Lower(id platform.WindowID) error {
	return b.conn.Lower(xproto.Window(id))
}

func (b *X11Backend) CloseRequested(id platform.WindowID) bool {
	b.drain()
	return b.closing[xproto.Window(id)]
}

func (b *X11Backend) PollEvents() {
	b.drain()
}

func (b *X11Backend) drain() {
	events := b.conn.DrainEvents(func(err error) {
		b.logger.Debug("x11 error", "error", err)
	})
	for _, ev := range events {
		if _, ok := b.owned[ev.Window]; !ok {
			continue
		}
		switch ev.Kind {
		case x11.EventCloseRequested, x11.EventDestroyed:
			b.closing[ev.Window] = true
		}
	}
}

func (b *X11Backend) NewPresenter(id platform.WindowID) (present.Presenter, error) {
	target, err := b.conn.NewImageTarget(xproto.Window(id))
	if err != nil {
		if errors.Is(err, x11.ErrUnsupportedVisual) {
			return nil, fmt.Errorf("%w: %v", platform.ErrUnsupported, err)
		}
		return nil, err
	}
	return present.NewBlit(imageTarget{target}), nil
}

// Close disconnects from the X server.
func (b *X11Backend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// imageTarget adapts x11.ImageTarget to present.BlitTarget.
type imageTarget struct {
	*x11.ImageTarget
}

func (t imageTarget) Layout() frame.Layout {
	return frame.Layout{Order: frame.BGR}
}

func (t imageTarget) Blit(f *frame.Frame) error {
	return t.PutBGR(f.Pix, f.Width, f.Height)
}

func openX11(logger *slog.Logger) (platform.Backend, error) {
	return NewX11Backend(logger)
}
