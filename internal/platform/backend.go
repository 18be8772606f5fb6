// Package platform defines the window-system interface the window manager
// drives. Implementations live in platform/native; platformtest holds an
// in-memory fake.
package platform

import (
	"errors"
	"image"

	"github.com/1broseidon/framewin/internal/present"
)

// WindowID is a platform-neutral window identifier. Zero is never a valid
// window.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Color is an 8-bit RGB triple.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// WindowSpec carries everything needed to allocate a native window.
type WindowSpec struct {
	Title     string
	X         int
	Y         int
	Width     int
	Height    int
	Resizable bool
	TopMost   bool
}

// Backend kinds.
const (
	BackendGLFW = "glfw"
	BackendX11  = "x11"
)

// Presenter kinds.
const (
	PresenterGL   = "gl"
	PresenterBlit = "blit"
)

var (
	// ErrNoWindow is returned when a handle no longer refers to a live window.
	ErrNoWindow = errors.New("window no longer exists")
	// ErrUnsupported is returned for operations a backend cannot perform.
	ErrUnsupported = errors.New("operation not supported by backend")
	// ErrRecreateRequired is returned by attribute setters when the backend
	// can only apply the attribute to a freshly created window.
	ErrRecreateRequired = errors.New("attribute change requires window re-creation")
)

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Create(spec WindowSpec) (WindowID, error)
	Destroy(id WindowID) error
	FindByTitle(title string) (WindowID, bool)
	ClientRect(id WindowID) (Rect, error)
	SetPosition(id WindowID, x, y int) error
	SetSize(id WindowID, width, height int) error
	SetTitleBarColor(id WindowID, c Color) error
	SetIcon(id WindowID, images []image.Image) error
	SetResizable(id WindowID, on bool) error
	SetTopMost(id WindowID, on bool) error
	ActiveWindow() (WindowID, error)
	IsIconic(id WindowID) (bool, error)
	Minimize(id WindowID) error
	Restore(id WindowID) error
	Raise(id WindowID) error
	Lower(id WindowID) error
	CloseRequested(id WindowID) bool
	PollEvents()
	NewPresenter(id WindowID) (present.Presenter, error)
	Close()
}
