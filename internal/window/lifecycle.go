package window

import (
	"errors"
	"fmt"

	"github.com/1broseidon/framewin/internal/icon"
	"github.com/1broseidon/framewin/internal/platform"
)

// create allocates the native window and presenter for rec and moves it to
// Open. On failure the record is left as it was.
func (m *Manager) create(rec *record) error {
	cfg := rec.cfg.resolved()
	w, _ := cfg.Size.Width.Get()
	h, _ := cfg.Size.Height.Get()
	x, _ := cfg.Position.X.Get()
	y, _ := cfg.Position.Y.Get()

	id, err := m.backend.Create(platform.WindowSpec{
		Title:     rec.name,
		X:         x,
		Y:         y,
		Width:     w,
		Height:    h,
		Resizable: cfg.Resizable,
		TopMost:   cfg.TopMost,
	})
	if err != nil {
		return fmt.Errorf("create window %q: %w", rec.name, err)
	}

	p, err := m.backend.NewPresenter(id)
	if err != nil {
		_ = m.backend.Destroy(id)
		return fmt.Errorf("create presenter for %q: %w", rec.name, err)
	}

	rec.cfg = cfg
	rec.handle = id
	rec.presenter = p
	rec.state = Open

	// Decorations are best-effort.
	if err := m.backend.SetTitleBarColor(id, cfg.TitleBarColor); err != nil {
		m.logger.Debug("title bar color not applied", "window", rec.name, "error", err)
	}
	if cfg.Icon != "" {
		if images, err := icon.Load(cfg.Icon); err != nil {
			m.logger.Debug("icon not applied", "window", rec.name, "icon", cfg.Icon, "error", err)
		} else if err := m.backend.SetIcon(id, images); err != nil {
			m.logger.Debug("icon not applied", "window", rec.name, "icon", cfg.Icon, "error", err)
		}
	}

	switch {
	case cfg.Minimized:
		err = m.backend.Minimize(id)
	case cfg.Foreground:
		err = m.backend.Raise(id)
	}
	if err != nil {
		m.logger.Debug("initial window state not applied", "window", rec.name, "error", err)
	}

	m.logger.Info("window created", "window", rec.name, "handle", id, "width", w, "height", h)
	return nil
}

// teardown releases the presenter, then destroys the native window. Errors
// from destroying an already-gone window are swallowed.
func (m *Manager) teardown(rec *record) {
	if rec.presenter != nil {
		rec.presenter.Release()
		rec.presenter = nil
	}
	if rec.handle != 0 {
		if err := m.backend.Destroy(rec.handle); err != nil {
			m.logger.Debug("destroy window", "window", rec.name, "handle", rec.handle, "error", err)
		}
		rec.handle = 0
	}
}

// markGone handles a failed OS query on an open window: the window is
// treated as gone and downgraded to ClosedByCode.
func (m *Manager) markGone(rec *record, cause error) {
	m.logger.Info("window lost", "window", rec.name, "handle", rec.handle, "error", cause)
	m.teardown(rec)
	rec.state = ClosedByCode
}

// recreate replaces the native window of an open record, keeping its
// configuration.
func (m *Manager) recreate(rec *record) error {
	m.teardown(rec)
	rec.state = ClosedByCode
	return m.create(rec)
}

// Close releases the presenter and destroys the native window. Closing a
// window that is not open does nothing. The next Show re-creates it.
func (m *Manager) Close(name string) error {
	rec, err := m.lookup(name)
	if err != nil {
		return err
	}
	if rec.state != Open {
		return nil
	}
	m.teardown(rec)
	rec.state = ClosedByCode
	m.logger.Info("window closed", "window", name)
	return nil
}

// SetOpen opens or closes name explicitly. Opening also revives a window the
// user closed.
func (m *Manager) SetOpen(name string, open bool) error {
	rec, err := m.lookup(name)
	if err != nil {
		return err
	}
	if !open {
		return m.Close(name)
	}
	if rec.state == Open {
		return nil
	}
	return m.create(rec)
}

// GetOpen reports whether name has a live native window.
func (m *Manager) GetOpen(name string) (bool, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return false, err
	}
	return rec.state == Open, nil
}

// Shutdown closes every open window. The registry keeps its records.
func (m *Manager) Shutdown() {
	for _, name := range m.Names() {
		_ = m.Close(name)
	}
}

// apply runs an attribute change against the native window of an open
// record and reports whether the change took effect. A missing window
// downgrades the record; unsupported attributes are only logged.
func (m *Manager) apply(rec *record, what string, fn func(platform.WindowID) error) bool {
	return m.applied(rec, what, fn(rec.handle))
}

func (m *Manager) applied(rec *record, what string, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, platform.ErrNoWindow):
		m.markGone(rec, err)
		return false
	case errors.Is(err, platform.ErrUnsupported):
		m.logger.Debug("attribute not supported by backend", "window", rec.name, "attribute", what)
		return true
	default:
		m.warn(rec, "failed to apply window attribute", "attribute", what, "error", err)
		return false
	}
}
