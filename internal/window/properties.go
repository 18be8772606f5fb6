package window

import (
	"errors"

	"github.com/1broseidon/framewin/internal/icon"
	"github.com/1broseidon/framewin/internal/opt"
	"github.com/1broseidon/framewin/internal/platform"
)

// Setters change a live window and are ignored unless the window is open;
// SetUndestroyable is the exception. Getters return cached values unless
// the window is open and the platform can report the live value.

// openRecord returns the record for name when it is open. The bool is false
// for registered windows that are not open.
func (m *Manager) openRecord(name string) (*record, bool, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return nil, false, err
	}
	if rec.state != Open {
		m.logger.Debug("window not open, ignoring change", "window", name, "state", rec.state)
		return rec, false, nil
	}
	return rec, true, nil
}

// liveRect queries the client rectangle of an open window, downgrading it
// if the query fails.
func (m *Manager) liveRect(rec *record) (platform.Rect, bool) {
	if rec.state != Open {
		return platform.Rect{}, false
	}
	r, err := m.backend.ClientRect(rec.handle)
	if err != nil {
		m.markGone(rec, err)
		return platform.Rect{}, false
	}
	return r, true
}

// SetSize resizes the client area. Unset components keep the current size;
// the result is raised to the MinWidth x MinHeight floor.
func (m *Manager) SetSize(name string, s Size) error {
	rec, open, err := m.openRecord(name)
	if err != nil || !open {
		return err
	}
	if !s.Width.IsSet() && !s.Height.IsSet() {
		m.warn(rec, "size must set a width, a height or both")
		return nil
	}

	cur, _ := m.GetSize(name)
	if rec.state != Open {
		return nil
	}
	w, h := floorSize(s.Width.Or(cur.Width.Or(MinWidth)), s.Height.Or(cur.Height.Or(MinHeight)))
	if m.apply(rec, "size", func(id platform.WindowID) error { return m.backend.SetSize(id, w, h) }) {
		rec.cfg.Size = Size{Width: opt.Some(w), Height: opt.Some(h)}
	}
	return nil
}

// GetSize returns the live client size of an open window, otherwise the
// configured size.
func (m *Manager) GetSize(name string) (Size, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return Size{}, err
	}
	if r, ok := m.liveRect(rec); ok {
		return Size{Width: opt.Some(r.Width), Height: opt.Some(r.Height)}, nil
	}
	return rec.cfg.Size, nil
}

// SetPosition moves the client area. Unset components keep the current
// coordinate.
func (m *Manager) SetPosition(name string, p Position) error {
	rec, open, err := m.openRecord(name)
	if err != nil || !open {
		return err
	}
	if !p.X.IsSet() && !p.Y.IsSet() {
		m.warn(rec, "position must set x, y or both")
		return nil
	}

	cur, _ := m.GetPosition(name)
	if rec.state != Open {
		return nil
	}
	x, y := p.X.Or(cur.X.Or(0)), p.Y.Or(cur.Y.Or(0))
	if m.apply(rec, "position", func(id platform.WindowID) error { return m.backend.SetPosition(id, x, y) }) {
		rec.cfg.Position = Position{X: opt.Some(x), Y: opt.Some(y)}
	}
	return nil
}

// GetPosition returns the live screen position of the client area of an
// open window, otherwise the configured position.
func (m *Manager) GetPosition(name string) (Position, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return Position{}, err
	}
	if r, ok := m.liveRect(rec); ok {
		return Position{X: opt.Some(r.X), Y: opt.Some(r.Y)}, nil
	}
	return rec.cfg.Position, nil
}

// SetTitleBarColor sets the caption color. Channels are clamped to 0..255.
func (m *Manager) SetTitleBarColor(name string, r, g, b int) error {
	rec, open, err := m.openRecord(name)
	if err != nil || !open {
		return err
	}
	c := RGB(r, g, b)
	if r != int(c.R) || g != int(c.G) || b != int(c.B) {
		m.warn(rec, "title bar color channel out of range, clamping", "r", r, "g", g, "b", b)
	}
	if m.apply(rec, "title bar color", func(id platform.WindowID) error { return m.backend.SetTitleBarColor(id, c) }) {
		rec.cfg.TitleBarColor = c
	}
	return nil
}

// GetTitleBarColor returns the configured caption color.
func (m *Manager) GetTitleBarColor(name string) (platform.Color, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return platform.Color{}, err
	}
	return rec.cfg.TitleBarColor, nil
}

// SetResizable toggles whether the user can resize the window. Backends that
// cannot change the attribute live get a new native window with the same
// configuration.
func (m *Manager) SetResizable(name string, on bool) error {
	rec, open, err := m.openRecord(name)
	if err != nil || !open || rec.cfg.Resizable == on {
		return err
	}
	return m.setAttr(rec, "resizable", func(id platform.WindowID) error { return m.backend.SetResizable(id, on) },
		func(c *Config) { c.Resizable = on })
}

// GetResizable returns the configured resizable flag.
func (m *Manager) GetResizable(name string) (bool, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return false, err
	}
	return rec.cfg.Resizable, nil
}

// SetTopMost toggles whether the window floats above normal windows.
func (m *Manager) SetTopMost(name string, on bool) error {
	rec, open, err := m.openRecord(name)
	if err != nil || !open || rec.cfg.TopMost == on {
		return err
	}
	return m.setAttr(rec, "top-most", func(id platform.WindowID) error { return m.backend.SetTopMost(id, on) },
		func(c *Config) { c.TopMost = on })
}

// GetTopMost returns the configured top-most flag.
func (m *Manager) GetTopMost(name string) (bool, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return false, err
	}
	return rec.cfg.TopMost, nil
}

func (m *Manager) setAttr(rec *record, what string, fn func(platform.WindowID) error, update func(*Config)) error {
	err := fn(rec.handle)
	if errors.Is(err, platform.ErrRecreateRequired) {
		update(&rec.cfg)
		m.logger.Debug("recreating window to change attribute", "window", rec.name, "attribute", what)
		return m.recreate(rec)
	}
	if m.applied(rec, what, err) {
		update(&rec.cfg)
	}
	return nil
}

// SetIcon loads the .ico file at path and applies it. Missing files and
// other extensions are reported as a warning and leave the icon unchanged.
func (m *Manager) SetIcon(name, path string) error {
	rec, open, err := m.openRecord(name)
	if err != nil || !open {
		return err
	}
	images, err := icon.Load(path)
	if err != nil {
		m.warn(rec, "icon not applied", "icon", path, "error", err)
		return nil
	}
	if m.apply(rec, "icon", func(id platform.WindowID) error { return m.backend.SetIcon(id, images) }) {
		rec.cfg.Icon = path
	}
	return nil
}

// GetIcon returns the path of the applied icon.
func (m *Manager) GetIcon(name string) (string, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return "", err
	}
	return rec.cfg.Icon, nil
}

// SetUndestroyable may be called in any state.
func (m *Manager) SetUndestroyable(name string, on bool) error {
	rec, err := m.lookup(name)
	if err != nil {
		return err
	}
	rec.cfg.Undestroyable = on
	return nil
}

// GetUndestroyable returns the undestroyable flag.
func (m *Manager) GetUndestroyable(name string) (bool, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return false, err
	}
	return rec.cfg.Undestroyable, nil
}

// SetForeground raises and focuses the window, or pushes it behind other
// windows. Top-most windows stay above normal windows when lowered.
func (m *Manager) SetForeground(name string, on bool) error {
	rec, open, err := m.openRecord(name)
	if err != nil || !open {
		return err
	}
	fn := m.backend.Lower
	if on {
		fn = m.backend.Raise
	}
	if m.apply(rec, "foreground", fn) {
		rec.cfg.Foreground = on
	}
	return nil
}

// GetForeground reports whether the window is the active window. Windows
// that are not open are never in the foreground.
func (m *Manager) GetForeground(name string) (bool, error) {
	st, err := m.Status(name)
	if err != nil {
		return false, err
	}
	return st.Foreground, nil
}

// SetMinimized iconifies or restores the window.
func (m *Manager) SetMinimized(name string, on bool) error {
	rec, open, err := m.openRecord(name)
	if err != nil || !open {
		return err
	}
	fn := m.backend.Restore
	if on {
		fn = m.backend.Minimize
	}
	if m.apply(rec, "minimized", fn) {
		rec.cfg.Minimized = on
	}
	return nil
}

// GetMinimized reports whether the window is currently iconic. Windows that
// are not open report false.
func (m *Manager) GetMinimized(name string) (bool, error) {
	st, err := m.Status(name)
	if err != nil {
		return false, err
	}
	return st.Iconic, nil
}
