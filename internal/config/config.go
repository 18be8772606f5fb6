package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/framewin/internal/opt"
	"github.com/1broseidon/framewin/internal/platform"
	"github.com/1broseidon/framewin/internal/window"
)

const (
	DefaultBackend    = platform.BackendGLFW
	DefaultPresenter  = platform.PresenterGL
	DefaultFPS        = 60
	DefaultWindowName = "framewin"
	// SourcePattern selects the built-in animated test pattern.
	SourcePattern = "pattern"

	maxFPS = 240
)

// SizeConfig is the requested client-area size. Unset components fall back
// to the window minimums.
type SizeConfig struct {
	Width  opt.Int `yaml:"width"`
	Height opt.Int `yaml:"height"`
}

// PositionConfig is the requested client-area origin.
type PositionConfig struct {
	X opt.Int `yaml:"x"`
	Y opt.Int `yaml:"y"`
}

// WindowConfig describes one named window.
type WindowConfig struct {
	Size     SizeConfig     `yaml:"size"`
	Position PositionConfig `yaml:"position"`
	// TitleBarColor is an [r, g, b] triple. Empty keeps the system color.
	TitleBarColor []int  `yaml:"title_bar_color,omitempty"`
	Resizable     bool   `yaml:"resizable"`
	TopMost       bool   `yaml:"top_most"`
	Foreground    bool   `yaml:"foreground"`
	Minimized     bool   `yaml:"minimized"`
	Undestroyable bool   `yaml:"undestroyable"`
	Icon          string `yaml:"icon,omitempty"`
	// Source is "pattern" or the path of an image file.
	Source     string `yaml:"source"`
	NoWarnings bool   `yaml:"no_warnings,omitempty"`
}

// LoggingConfig configures the daemon logger.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File mirrors the log to a rotating file when set.
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// Config is the effective framewin configuration.
type Config struct {
	// Backend selects the window system: glfw or x11.
	Backend string `yaml:"backend"`
	// Presenter selects how frames reach the window: gl or blit.
	Presenter  string                  `yaml:"presenter"`
	FPS        int                     `yaml:"fps"`
	NoWarnings bool                    `yaml:"no_warnings"`
	Logging    LoggingConfig           `yaml:"logging"`
	Windows    map[string]WindowConfig `yaml:"windows"`
}

// DefaultWindowConfig returns the settings a window gets for every key left
// out of the YAML.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Resizable:  true,
		Foreground: true,
		Source:     SourcePattern,
	}
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Backend:   DefaultBackend,
		Presenter: DefaultPresenter,
		FPS:       DefaultFPS,
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		Windows: map[string]WindowConfig{
			DefaultWindowName: DefaultWindowConfig(),
		},
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "framewin", "config.yaml"), nil
}

// WindowNames returns the configured window names in sorted order.
func (c *Config) WindowNames() []string {
	return sortedKeys(c.Windows)
}

// Window converts the named window to its engine configuration. The global
// no_warnings flag is folded in.
func (c *Config) Window(name string) (window.Config, error) {
	wc, ok := c.Windows[name]
	if !ok {
		return window.Config{}, fmt.Errorf("window %q not found", name)
	}
	cfg := wc.Window()
	cfg.NoWarnings = cfg.NoWarnings || c.NoWarnings
	return cfg, nil
}

// Window converts w to its engine configuration.
func (w WindowConfig) Window() window.Config {
	cfg := window.Config{
		Size:          window.Size{Width: w.Size.Width, Height: w.Size.Height},
		Position:      window.Position{X: w.Position.X, Y: w.Position.Y},
		Resizable:     w.Resizable,
		TopMost:       w.TopMost,
		Foreground:    w.Foreground,
		Minimized:     w.Minimized,
		Undestroyable: w.Undestroyable,
		Icon:          w.Icon,
		NoWarnings:    w.NoWarnings,
	}
	if len(w.TitleBarColor) == 3 {
		cfg.TitleBarColor = window.RGB(w.TitleBarColor[0], w.TitleBarColor[1], w.TitleBarColor[2])
	}
	return cfg
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the source YAML files.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates c and writes it to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case platform.BackendGLFW, platform.BackendX11:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: glfw, x11")}
	}
	switch c.Presenter {
	case platform.PresenterGL, platform.PresenterBlit:
	default:
		return &ValidationError{Path: "presenter", Err: fmt.Errorf("presenter must be one of: gl, blit")}
	}
	if c.Backend == platform.BackendX11 && c.Presenter != platform.PresenterBlit {
		return &ValidationError{Path: "presenter", Err: fmt.Errorf("the x11 backend only supports the blit presenter")}
	}
	if c.FPS < 1 || c.FPS > maxFPS {
		return &ValidationError{Path: "fps", Err: fmt.Errorf("fps must be between 1 and %d", maxFPS)}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}

	for _, name := range sortedKeys(c.Windows) {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "windows", Err: fmt.Errorf("windows contains an empty name")}
		}
		if err := validateWindow(c.Windows[name]); err != nil {
			err.Path = "windows." + name + "." + err.Path
			return err
		}
	}
	return nil
}

func validateWindow(w WindowConfig) *ValidationError {
	if n, ok := w.Size.Width.Get(); ok && n < 0 {
		return &ValidationError{Path: "size.width", Err: fmt.Errorf("width must be >= 0")}
	}
	if n, ok := w.Size.Height.Get(); ok && n < 0 {
		return &ValidationError{Path: "size.height", Err: fmt.Errorf("height must be >= 0")}
	}
	if len(w.TitleBarColor) != 0 {
		if len(w.TitleBarColor) != 3 {
			return &ValidationError{Path: "title_bar_color", Err: fmt.Errorf("expected [r, g, b]")}
		}
		for _, ch := range w.TitleBarColor {
			if ch < 0 || ch > 255 {
				return &ValidationError{Path: "title_bar_color", Err: fmt.Errorf("channels must be between 0 and 255")}
			}
		}
	}
	if strings.TrimSpace(w.Source) == "" {
		return &ValidationError{Path: "source", Err: fmt.Errorf("source is required")}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
