package window

import (
	"github.com/1broseidon/framewin/internal/opt"
	"github.com/1broseidon/framewin/internal/platform"
)

// Minimum client-area size. Smaller requests are raised to these floors.
const (
	MinWidth  = 150
	MinHeight = 50
)

// Size is a width/height pair whose components may be left unset.
type Size struct {
	Width  opt.Int
	Height opt.Int
}

// Position is an x/y pair in screen coordinates whose components may be
// left unset.
type Position struct {
	X opt.Int
	Y opt.Int
}

// Config is the configuration of one window. Use DefaultConfig as a starting
// point; the zero value is not resizable and does not take focus.
type Config struct {
	// Size of the client area. Unset width defaults to MinWidth and unset
	// height to MinHeight when the window is created.
	Size Size
	// Position of the client area. Unset components default to 0 when the
	// window is created.
	Position      Position
	TitleBarColor platform.Color
	Resizable     bool
	TopMost       bool
	// Foreground raises and focuses the window after it is created.
	Foreground bool
	// Minimized iconifies the window after it is created.
	Minimized bool
	// Undestroyable windows come back with a new native window whenever the
	// user closes them.
	Undestroyable bool
	// Icon is a path to a .ico file. Missing or invalid paths are ignored.
	Icon       string
	NoWarnings bool
}

// DefaultConfig returns a resizable window that takes focus when created.
func DefaultConfig() Config {
	return Config{
		Resizable:  true,
		Foreground: true,
	}
}

// ClampChannel limits v to the 0..255 range of a color channel.
func ClampChannel(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// RGB builds a color from integer channels, clamping each to 0..255.
func RGB(r, g, b int) platform.Color {
	return platform.Color{R: ClampChannel(r), G: ClampChannel(g), B: ClampChannel(b)}
}

func floorSize(width, height int) (int, int) {
	return max(width, MinWidth), max(height, MinHeight)
}

// clampSize applies the size floors to the set components of s.
func clampSize(s Size) Size {
	if w, ok := s.Width.Get(); ok {
		s.Width = opt.Some(max(w, MinWidth))
	}
	if h, ok := s.Height.Get(); ok {
		s.Height = opt.Some(max(h, MinHeight))
	}
	return s
}

// resolved fills unset size and position components with their creation
// defaults.
func (c Config) resolved() Config {
	w, h := floorSize(c.Size.Width.Or(MinWidth), c.Size.Height.Or(MinHeight))
	c.Size = Size{Width: opt.Some(w), Height: opt.Some(h)}
	c.Position = Position{X: opt.Some(c.Position.X.Or(0)), Y: opt.Some(c.Position.Y.Or(0))}
	return c
}
