// Package present turns prepared frames into pixels on screen. A Presenter
// owns the per-window presentation resource: nothing for a pixel blit, a
// texture object for the OpenGL path.
package present

import (
	"errors"
	"fmt"

	"github.com/1broseidon/framewin/internal/frame"
)

// ErrNoFrame is returned by Present before any frame has been uploaded.
var ErrNoFrame = errors.New("no frame uploaded")

// ErrReleased is returned when a released presenter is used.
var ErrReleased = errors.New("presenter released")

// Presenter uploads frames and displays the most recent one.
type Presenter interface {
	// Layout reports the channel and row order Upload expects.
	Layout() frame.Layout
	Upload(f *frame.Frame) error
	Present() error
	// Release frees the presentation resource. It is safe to call more than
	// once.
	Release()
}

func checkLayout(p Presenter, f *frame.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	l := p.Layout()
	if f.Order != l.Order || f.BottomUp != l.BottomUp {
		return fmt.Errorf("%w: frame is %s/bottomUp=%v, presenter wants %s/bottomUp=%v",
			frame.ErrInvalidFrame, f.Order, f.BottomUp, l.Order, l.BottomUp)
	}
	return nil
}
