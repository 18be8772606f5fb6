package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "window", "preview")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked through warn level:\n%s", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "window=preview") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, ansiRed) {
		t.Fatal("non-terminal writer should not get color codes")
	}
}

func TestLevelColor(t *testing.T) {
	color := levelColor(true)
	warn := color(nil, slog.Any(slog.LevelKey, slog.LevelWarn))
	if got := warn.Value.String(); got != ansiRed+"WARN"+ansiReset {
		t.Fatalf("warn level = %q", got)
	}
	info := color(nil, slog.Any(slog.LevelKey, slog.LevelInfo))
	if got := info.Value.Any(); got != slog.LevelInfo {
		t.Fatalf("info level = %v, want untouched", got)
	}
	if levelColor(false) != nil {
		t.Fatal("color disabled should not install ReplaceAttr")
	}
}

func TestNewMirrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "framewin.log")
	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: "info", File: path, MaxSizeMB: 1, MaxFiles: 2}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("window created", "window", "preview")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "window created") || !strings.Contains(buf.String(), "window created") {
		t.Fatalf("record missing: file=%q stderr=%q", data, buf.String())
	}
}

func TestRotatingFileRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "framewin.log")
	f, err := OpenRotatingFile(path, 1, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile: %v", err)
	}
	f.maxBytes = 10
	defer f.Close()

	for _, line := range []string{"first-line\n", "second-line\n", "third-line\n"} {
		if _, err := f.Write([]byte(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	want := map[string]string{
		path:        "third-line\n",
		path + ".1": "second-line\n",
		path + ".2": "first-line\n",
	}
	for p, content := range want {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if string(data) != content {
			t.Fatalf("%s = %q, want %q", p, data, content)
		}
	}
}
