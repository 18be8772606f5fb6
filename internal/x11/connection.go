package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	wmProtocols    xproto.Atom
	wmDeleteWindow xproto.Atom
}

// NewConnection establishes a connection to the X11 server and interns the
// atoms used for close detection.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	if c.wmProtocols, err = xprop.Atm(xu, "WM_PROTOCOLS"); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("failed to intern WM_PROTOCOLS: %w", err)
	}
	if c.wmDeleteWindow, err = xprop.Atm(xu, "WM_DELETE_WINDOW"); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}
	return c, nil
}

// Conn returns the raw xgb connection.
func (c *Connection) Conn() *xgb.Conn {
	return c.XUtil.Conn()
}

// Screen returns the default screen.
func (c *Connection) Screen() *xproto.ScreenInfo {
	return c.XUtil.Screen()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
