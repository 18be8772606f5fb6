//go:build !linux

package native

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/framewin/internal/platform"
)

func openX11(*slog.Logger) (platform.Backend, error) {
	return nil, fmt.Errorf("%w: x11 backend is only available on linux", platform.ErrUnsupported)
}
