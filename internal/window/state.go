package window

import (
	"fmt"

	"github.com/1broseidon/framewin/internal/platform"
)

// State is the lifecycle state of a registered window.
type State int

const (
	// NotCreated windows are registered but have no native window yet.
	NotCreated State = iota
	// Open windows have a live native window and presenter.
	Open
	// ClosedByCode windows were closed by the program, or lost their native
	// window, and come back on the next Show.
	ClosedByCode
	// ClosedByUser windows were closed from the window manager. This is
	// terminal unless the window is undestroyable.
	ClosedByUser
)

func (s State) String() string {
	switch s {
	case NotCreated:
		return "not-created"
	case Open:
		return "open"
	case ClosedByCode:
		return "closed-by-code"
	case ClosedByUser:
		return "closed-by-user"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status is a snapshot of a window's live state.
type Status struct {
	State  State
	Handle platform.WindowID
	// Foreground is true when the window is the active window.
	Foreground bool
	// Iconic is true when the window is minimized.
	Iconic bool
}
