//go:build !windows

package native

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/1broseidon/framewin/internal/platform"
	"github.com/1broseidon/framewin/internal/present"
)

// GDI, DWM and native title lookup exist only on Windows.
const gdiAvailable = false

func findNativeWindow(string) (platform.WindowID, bool) {
	return 0, false
}

func setCaptionColor(*glfw.Window, platform.Color) error {
	return platform.ErrUnsupported
}

func lowerWindow(*glfw.Window) error {
	return platform.ErrUnsupported
}

func newGDITarget(*glfw.Window) (present.BlitTarget, error) {
	return nil, platform.ErrUnsupported
}
