// Package window keeps a registry of named windows and drives each one
// through its lifecycle: lazy creation on the first Show, detection of
// user closes, re-creation of undestroyable windows and per-frame
// presentation.
//
// A Manager is not safe for concurrent use. All calls must come from the
// goroutine that owns the platform backend.
package window

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/1broseidon/framewin/internal/platform"
	"github.com/1broseidon/framewin/internal/present"
)

// ErrUnknownWindow is returned for names that were never initialized.
var ErrUnknownWindow = errors.New("unknown window")

// record is the registry entry for one name. handle and presenter are set if
// and only if state is Open.
type record struct {
	name      string
	cfg       Config
	state     State
	handle    platform.WindowID
	presenter present.Presenter
}

// Options configures a Manager.
type Options struct {
	Backend platform.Backend
	Logger  *slog.Logger
	// NoWarnings suppresses warnings for every window.
	NoWarnings bool
}

// Manager owns the window registry and the backend it drives.
type Manager struct {
	backend    platform.Backend
	logger     *slog.Logger
	noWarnings bool
	windows    map[string]*record
}

// NewManager creates an empty registry over opts.Backend.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend:    opts.Backend,
		logger:     logger,
		noWarnings: opts.NoWarnings,
		windows:    make(map[string]*record),
	}
}

// Initialize registers name with cfg. It returns false, leaving the registry
// unchanged, when name is empty or a live window with that title already
// exists. Re-initializing a closed window replaces its record.
func (m *Manager) Initialize(name string, cfg Config) bool {
	if name == "" {
		m.warnf(cfg.NoWarnings, "window name must not be empty")
		return false
	}
	if _, exists := m.backend.FindByTitle(name); exists {
		m.warnf(cfg.NoWarnings, "a window with this title already exists", "window", name)
		return false
	}
	if old, ok := m.windows[name]; ok {
		// Defensive: the title lookup should have caught a live record.
		m.teardown(old)
	}
	cfg.Size = clampSize(cfg.Size)
	m.windows[name] = &record{name: name, cfg: cfg, state: NotCreated}
	m.logger.Debug("window initialized", "window", name)
	return true
}

// Names returns the registered window names in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.windows))
	for name := range m.windows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config returns the stored configuration of name.
func (m *Manager) Config(name string) (Config, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return Config{}, err
	}
	return rec.cfg, nil
}

// State returns the lifecycle state of name.
func (m *Manager) State(name string) (State, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return NotCreated, err
	}
	return rec.state, nil
}

// Handle returns the native handle of name, or zero when it is not open.
func (m *Manager) Handle(name string) (platform.WindowID, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	return rec.handle, nil
}

// Status reports the lifecycle state together with live foreground and
// iconic flags. A window whose native window has disappeared is downgraded
// to ClosedByCode.
func (m *Manager) Status(name string) (Status, error) {
	rec, err := m.lookup(name)
	if err != nil {
		return Status{}, err
	}
	if rec.state != Open {
		return Status{State: rec.state}, nil
	}
	iconic, err := m.backend.IsIconic(rec.handle)
	if err != nil {
		m.markGone(rec, err)
		return Status{State: rec.state}, nil
	}
	st := Status{State: Open, Handle: rec.handle, Iconic: iconic}
	if active, err := m.backend.ActiveWindow(); err == nil {
		st.Foreground = active == rec.handle
	}
	return st, nil
}

// Done reports whether every registered window is terminally closed, that
// is closed by the user and not undestroyable. An empty registry is done.
func (m *Manager) Done() bool {
	for _, rec := range m.windows {
		if rec.state != ClosedByUser || rec.cfg.Undestroyable {
			return false
		}
	}
	return true
}

func (m *Manager) lookup(name string) (*record, error) {
	rec, ok := m.windows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWindow, name)
	}
	return rec, nil
}

// warnf logs a caller-input warning unless suppressed globally or for the
// window.
func (m *Manager) warnf(suppressed bool, msg string, args ...any) {
	if m.noWarnings || suppressed {
		return
	}
	m.logger.Warn(msg, args...)
}

func (m *Manager) warn(rec *record, msg string, args ...any) {
	m.warnf(rec.cfg.NoWarnings, msg, append([]any{"window", rec.name}, args...)...)
}
