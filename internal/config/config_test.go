package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/framewin/internal/opt"
	"github.com/1broseidon/framewin/internal/platform"
	"github.com/1broseidon/framewin/internal/window"
)

var cmpOpts = cmp.AllowUnexported(opt.Int{})

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if got := cfg.WindowNames(); len(got) != 1 || got[0] != DefaultWindowName {
		t.Fatalf("expected a single %q window, got %v", DefaultWindowName, got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), res.Config, cmpOpts); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.FPS != DefaultFPS {
		t.Fatalf("expected fps %d, got %d", DefaultFPS, res.Config.FPS)
	}
}

func TestLoadFromPath_Windows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"backend: x11",
		"presenter: blit",
		"fps: 30",
		"windows:",
		"  preview:",
		"    size: {width: 640}",
		"    position: {x: 10, y: none}",
		"    title_bar_color: [20, 30, 40]",
		"    top_most: true",
		"    undestroyable: true",
		"    source: /tmp/frame.png",
		"  plain: {}",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Backend != platform.BackendX11 || cfg.Presenter != platform.PresenterBlit || cfg.FPS != 30 {
		t.Fatalf("unexpected globals: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"plain", "preview"}, cfg.WindowNames()); diff != "" {
		t.Fatalf("window names mismatch (-want +got):\n%s", diff)
	}

	want := WindowConfig{
		Size:          SizeConfig{Width: opt.Some(640)},
		Position:      PositionConfig{X: opt.Some(10)},
		TitleBarColor: []int{20, 30, 40},
		Resizable:     true,
		TopMost:       true,
		Foreground:    true,
		Undestroyable: true,
		Source:        "/tmp/frame.png",
	}
	if diff := cmp.Diff(want, cfg.Windows["preview"], cmpOpts); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(DefaultWindowConfig(), cfg.Windows["plain"], cmpOpts); diff != "" {
		t.Fatalf("plain mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigWindow_ConvertsAndFoldsNoWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoWarnings = true
	cfg.Windows["w"] = WindowConfig{
		Size:          SizeConfig{Height: opt.Some(90)},
		TitleBarColor: []int{1, 2, 3},
		Minimized:     true,
		Icon:          "app.ico",
		Source:        SourcePattern,
	}

	got, err := cfg.Window("w")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	want := window.Config{
		Size:          window.Size{Height: opt.Some(90)},
		TitleBarColor: platform.Color{R: 1, G: 2, B: 3},
		Minimized:     true,
		Icon:          "app.ico",
		NoWarnings:    true,
	}
	if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
		t.Fatalf("window config mismatch (-want +got):\n%s", diff)
	}

	if _, err := cfg.Window("missing"); err == nil {
		t.Fatalf("expected error for unknown window")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "fps: 0\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "fps" {
		t.Fatalf("expected path fps, got %q", verr.Path)
	}
	if !strings.Contains(err.Error(), path+":1:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"unknown backend", func(c *Config) { c.Backend = "wayland" }, "backend"},
		{"unknown presenter", func(c *Config) { c.Presenter = "vulkan" }, "presenter"},
		{"x11 needs blit", func(c *Config) { c.Backend = platform.BackendX11 }, "presenter"},
		{"fps too high", func(c *Config) { c.FPS = 1000 }, "fps"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"negative files", func(c *Config) { c.Logging.MaxFiles = -1 }, "logging.max_files"},
		{"negative width", func(c *Config) {
			w := DefaultWindowConfig()
			w.Size.Width = opt.Some(-5)
			c.Windows["a"] = w
		}, "windows.a.size.width"},
		{"short color", func(c *Config) {
			w := DefaultWindowConfig()
			w.TitleBarColor = []int{1, 2}
			c.Windows["a"] = w
		}, "windows.a.title_bar_color"},
		{"color out of range", func(c *Config) {
			w := DefaultWindowConfig()
			w.TitleBarColor = []int{1, 2, 300}
			c.Windows["a"] = w
		}, "windows.a.title_bar_color"},
		{"empty source", func(c *Config) {
			w := DefaultWindowConfig()
			w.Source = " "
			c.Windows["a"] = w
		}, "windows.a.source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "fps: 24\nwindows:\n  a:\n    size: {width: 300, height: 200}\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "fps: 25\n")

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"fps: 26",
		"windows:",
		"  a:",
		"    size: {height: 120}",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.FPS != 26 {
		t.Fatalf("expected fps to be 26, got %d", res.Config.FPS)
	}
	want := SizeConfig{Width: opt.Some(300), Height: opt.Some(120)}
	if diff := cmp.Diff(want, res.Config.Windows["a"].Size, cmpOpts); diff != "" {
		t.Fatalf("merged size mismatch (-want +got):\n%s", diff)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "fps: 12\nwindows:\n  a:\n    top_most: true\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "fps")
	if err != nil {
		t.Fatalf("explain fps: %v", err)
	}
	if val != 12 || src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("fps = %v from %+v", val, src)
	}

	val, src, err = Explain(res, "windows.a.resizable")
	if err != nil {
		t.Fatalf("explain resizable: %v", err)
	}
	if val != true || src.Kind != SourceDefault {
		t.Fatalf("resizable = %v from %+v", val, src)
	}

	if _, _, err := Explain(res, "windows.b.size"); err == nil {
		t.Fatalf("expected error for unknown window")
	}
}

func TestSaveToRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	w := DefaultWindowConfig()
	w.Size = SizeConfig{Width: opt.Some(320)}
	w.TitleBarColor = []int{9, 8, 7}
	cfg.Windows["extra"] = w

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(cfg, res.Config, cmpOpts); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = 0
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.SaveTo(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file written, stat err = %v", err)
	}
}
