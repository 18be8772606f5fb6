package window

import (
	"github.com/1broseidon/framewin/internal/frame"
)

// Show is the per-frame entry point and must be called regularly for the
// window to stay responsive. It creates the window if needed, handles a
// pending close request and presents f scaled to the client area. A nil f
// only services the window.
//
// Show returns an error only for unknown names and failed window creation.
// Once the user has closed a window that is not undestroyable, Show does
// nothing at all.
func (m *Manager) Show(name string, f *frame.Frame) error {
	rec, err := m.lookup(name)
	if err != nil {
		return err
	}
	if rec.state == ClosedByUser && !rec.cfg.Undestroyable {
		return nil
	}
	defer m.backend.PollEvents()

	if rec.state != Open {
		if err := m.create(rec); err != nil {
			return err
		}
	}

	if m.backend.CloseRequested(rec.handle) {
		m.teardown(rec)
		if rec.cfg.Undestroyable {
			m.logger.Info("recreating undestroyable window", "window", name)
			rec.state = ClosedByCode
			return m.create(rec)
		}
		rec.state = ClosedByUser
		m.logger.Info("window closed by user", "window", name)
		return nil
	}

	if f != nil {
		m.present(rec, f)
	}
	return nil
}

func (m *Manager) present(rec *record, f *frame.Frame) {
	if err := f.Validate(); err != nil {
		m.warn(rec, "frame skipped", "error", err)
		return
	}
	iconic, err := m.backend.IsIconic(rec.handle)
	if err != nil {
		m.markGone(rec, err)
		return
	}
	if iconic {
		return
	}
	rect, err := m.backend.ClientRect(rec.handle)
	if err != nil {
		m.markGone(rec, err)
		return
	}
	if rect.Width <= 0 || rect.Height <= 0 {
		return
	}

	out, err := f.Prepare(rec.presenter.Layout(), rect.Width, rect.Height)
	if err != nil {
		m.warn(rec, "frame skipped", "error", err)
		return
	}
	if err := rec.presenter.Upload(out); err != nil {
		m.logger.Debug("upload frame", "window", rec.name, "error", err)
		return
	}
	if err := rec.presenter.Present(); err != nil {
		m.logger.Debug("present frame", "window", rec.name, "error", err)
	}
}
