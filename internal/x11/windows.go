package x11

import (
	"errors"
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// EWMH _NET_WM_STATE actions.
const (
	stateRemove = 0
	stateAdd    = 1
)

const iconicState = 3

// WindowOptions describes a top-level window to create.
type WindowOptions struct {
	Title     string
	X         int
	Y         int
	Width     int
	Height    int
	Resizable bool
	Above     bool
}

// CreateWindow creates, names and maps a top-level window that accepts
// WM_DELETE_WINDOW.
func (c *Connection) CreateWindow(opts WindowOptions) (xproto.Window, error) {
	conn := c.Conn()
	screen := c.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		int16(opts.X), int16(opts.Y),
		uint16(opts.Width), uint16(opts.Height),
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			screen.BlackPixel,
			xproto.EventMaskStructureNotify | xproto.EventMaskExposure,
		},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	if err := ewmh.WmNameSet(c.XUtil, wid, opts.Title); err != nil {
		xproto.DestroyWindow(conn, wid)
		return 0, fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	// Legacy name for window managers without EWMH support.
	_ = icccm.WmNameSet(c.XUtil, wid, opts.Title)
	if err := icccm.WmProtocolsSet(c.XUtil, wid, []string{"WM_DELETE_WINDOW"}); err != nil {
		xproto.DestroyWindow(conn, wid)
		return 0, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	_ = c.setNormalHints(wid, opts.X, opts.Y, opts.Width, opts.Height, opts.Resizable)
	if opts.Above {
		// Unmapped windows carry their initial state as a property.
		_ = ewmh.WmStateSet(c.XUtil, wid, []string{"_NET_WM_STATE_ABOVE"})
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		xproto.DestroyWindow(conn, wid)
		return 0, fmt.Errorf("failed to map window: %w", err)
	}
	return wid, nil
}

// DestroyWindow destroys a window. Destroying a window that no longer
// exists returns an error.
func (c *Connection) DestroyWindow(windowID xproto.Window) error {
	return xproto.DestroyWindowChecked(c.Conn(), windowID).Check()
}

func (c *Connection) setNormalHints(windowID xproto.Window, x, y, width, height int, resizable bool) error {
	return icccm.WmNormalHintsSet(c.XUtil, windowID, normalHints(x, y, width, height, resizable))
}

// normalHints describes a window at the given geometry. A fixed-size window
// gets min and max sizes equal to its size.
func normalHints(x, y, width, height int, resizable bool) *icccm.NormalHints {
	hints := &icccm.NormalHints{
		Flags:     icccm.SizeHintPPosition | icccm.SizeHintPSize,
		X:         x,
		Y:         y,
		Width:     uint(width),
		Height:    uint(height),
		MinWidth:  uint(width),
		MinHeight: uint(height),
		MaxWidth:  uint(width),
		MaxHeight: uint(height),
	}
	if !resizable {
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
	}
	return hints
}

// SetFixedSize re-pins a fixed-size window to a new size. The window
// manager clamps resize requests to the pinned size, so this must precede
// MoveResizeWindow.
func (c *Connection) SetFixedSize(windowID xproto.Window, x, y, width, height int) error {
	return c.setNormalHints(windowID, x, y, width, height, false)
}

// SetResizable pins or releases the window size through WM_NORMAL_HINTS.
func (c *Connection) SetResizable(windowID xproto.Window, resizable bool) error {
	rect, err := c.WindowRect(windowID)
	if err != nil {
		return err
	}
	return c.setNormalHints(windowID, rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(), resizable)
}

// SetAbove adds or removes _NET_WM_STATE_ABOVE on a mapped window.
func (c *Connection) SetAbove(windowID xproto.Window, above bool) error {
	action := stateRemove
	if above {
		action = stateAdd
	}
	return ewmh.WmStateReq(c.XUtil, windowID, action, "_NET_WM_STATE_ABOVE")
}

// WindowRect returns the window's geometry translated to root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (image.Rectangle, error) {
	conn := c.Conn()
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(windowID)).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}

	translate, err := xproto.TranslateCoordinates(conn, windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}

	x, y := int(translate.DstX), int(translate.DstY)
	return image.Rect(x, y, x+int(geom.Width), y+int(geom.Height)), nil
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// A maximized window ignores geometry requests.
	_ = c.unmaximizeWindow(windowID)

	err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height)
	if err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			_ = ewmh.WmStateReq(c.XUtil, windowID, stateRemove, state)
		}
	}
	return nil
}

// IsIconic reports whether the window is minimized. The ICCCM WM_STATE is
// authoritative; _NET_WM_STATE_HIDDEN is used when it is missing.
func (c *Connection) IsIconic(windowID xproto.Window) (bool, error) {
	if _, err := xproto.GetGeometry(c.Conn(), xproto.Drawable(windowID)).Reply(); err != nil {
		return false, err
	}
	if st, err := icccm.WmStateGet(c.XUtil, windowID); err == nil {
		return st.State == iconicState, nil
	}
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, nil
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true, nil
		}
	}
	return false, nil
}

// Minimize minimizes a window via WM_CHANGE_STATE.
func (c *Connection) Minimize(windowID xproto.Window) error {
	reply, err := xproto.InternAtom(c.Conn(), false, uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   reply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// Restore maps an iconified window and activates it.
func (c *Connection) Restore(windowID xproto.Window) error {
	if err := xproto.MapWindowChecked(c.Conn(), windowID).Check(); err != nil {
		return err
	}
	return c.FocusWindow(windowID)
}

// Lower pushes the window to the bottom of the stacking order.
func (c *Connection) Lower(windowID xproto.Window) error {
	return xproto.ConfigureWindowChecked(c.Conn(), windowID,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeBelow}).Check()
}

// SetIcon publishes images as _NET_WM_ICON.
func (c *Connection) SetIcon(windowID xproto.Window, images []image.Image) error {
	if len(images) == 0 {
		return errors.New("no icon images")
	}
	icons := make([]ewmh.WmIcon, 0, len(images))
	for _, img := range images {
		icons = append(icons, wmIcon(img))
	}
	return ewmh.WmIconSet(c.XUtil, windowID, icons)
}

// wmIcon packs img as non-premultiplied ARGB, one pixel per CARDINAL.
func wmIcon(img image.Image) ewmh.WmIcon {
	b := img.Bounds()
	data := make([]uint, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a > 0 && a < 0xffff {
				r, g, bl = r*0xffff/a, g*0xffff/a, bl*0xffff/a
			}
			data = append(data, uint(a>>8)<<24|uint(r>>8)<<16|uint(g>>8)<<8|uint(bl>>8))
		}
	}
	return ewmh.WmIcon{Width: uint(b.Dx()), Height: uint(b.Dy()), Data: data}
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
