package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig. A windows section
// replaces the default window rather than adding to it.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Backend != nil {
		cfg.Backend = *raw.Backend
	}
	if raw.Presenter != nil {
		cfg.Presenter = *raw.Presenter
	}
	if raw.FPS != nil {
		cfg.FPS = *raw.FPS
	}
	if raw.NoWarnings != nil {
		cfg.NoWarnings = *raw.NoWarnings
	}

	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		cfg.Logging.MaxSizeMB = derefInt(raw.Logging.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(raw.Logging.MaxFiles, cfg.Logging.MaxFiles)
	}

	if raw.Windows != nil {
		cfg.Windows = make(map[string]WindowConfig, len(raw.Windows))
		for _, name := range sortedKeys(raw.Windows) {
			cfg.Windows[name] = buildWindow(raw.Windows[name])
		}
	}

	return cfg, nil
}

func buildWindow(raw RawWindow) WindowConfig {
	w := DefaultWindowConfig()
	if raw.Size != nil {
		if raw.Size.Width != nil {
			w.Size.Width = *raw.Size.Width
		}
		if raw.Size.Height != nil {
			w.Size.Height = *raw.Size.Height
		}
	}
	if raw.Position != nil {
		if raw.Position.X != nil {
			w.Position.X = *raw.Position.X
		}
		if raw.Position.Y != nil {
			w.Position.Y = *raw.Position.Y
		}
	}
	if raw.TitleBarColor != nil {
		w.TitleBarColor = append([]int(nil), raw.TitleBarColor...)
	}
	w.Resizable = derefBool(raw.Resizable, w.Resizable)
	w.TopMost = derefBool(raw.TopMost, w.TopMost)
	w.Foreground = derefBool(raw.Foreground, w.Foreground)
	w.Minimized = derefBool(raw.Minimized, w.Minimized)
	w.Undestroyable = derefBool(raw.Undestroyable, w.Undestroyable)
	w.NoWarnings = derefBool(raw.NoWarnings, w.NoWarnings)
	if raw.Icon != nil {
		w.Icon = *raw.Icon
	}
	if raw.Source != nil {
		w.Source = *raw.Source
	}
	return w
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
