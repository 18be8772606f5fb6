// Package native holds the GLFW and X11 implementations of platform.Backend.
// Both link against system libraries.
package native

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/framewin/internal/platform"
)

// Open creates the named backend. The x11 backend only supports the blit
// presenter.
func Open(kind, presenter string, logger *slog.Logger) (platform.Backend, error) {
	switch kind {
	case platform.BackendGLFW:
		return NewGLFWBackend(presenter, logger)
	case platform.BackendX11:
		if presenter != platform.PresenterBlit {
			return nil, fmt.Errorf("%w: x11 backend with %q presenter", platform.ErrUnsupported, presenter)
		}
		return openX11(logger)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
