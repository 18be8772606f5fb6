package native

import (
	"errors"
	"testing"

	"github.com/1broseidon/framewin/internal/platform"
)

func TestOpenRejectsUnknownKinds(t *testing.T) {
	if _, err := Open("wayland", platform.PresenterGL, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := Open(platform.BackendX11, platform.PresenterGL, nil); !errors.Is(err, platform.ErrUnsupported) {
		t.Fatalf("x11 with gl presenter error = %v, want ErrUnsupported", err)
	}
	if _, err := Open(platform.BackendGLFW, "vulkan", nil); err == nil {
		t.Fatal("expected error for unknown presenter")
	}
}
