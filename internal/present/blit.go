package present

import (
	"github.com/1broseidon/framewin/internal/frame"
)

// BlitTarget copies a pixel buffer into a window's client area at (0,0).
type BlitTarget interface {
	Layout() frame.Layout
	Blit(f *frame.Frame) error
	Release() error
}

// Blit presents frames with a direct pixel transfer and holds no GPU state.
type Blit struct {
	target   BlitTarget
	pending  *frame.Frame
	released bool
}

// NewBlit wraps target.
func NewBlit(target BlitTarget) *Blit {
	return &Blit{target: target}
}

func (b *Blit) Layout() frame.Layout {
	return b.target.Layout()
}

func (b *Blit) Upload(f *frame.Frame) error {
	if b.released {
		return ErrReleased
	}
	if err := checkLayout(b, f); err != nil {
		return err
	}
	b.pending = f
	return nil
}

func (b *Blit) Present() error {
	if b.released {
		return ErrReleased
	}
	if b.pending == nil {
		return ErrNoFrame
	}
	return b.target.Blit(b.pending)
}

func (b *Blit) Release() {
	if b.released {
		return
	}
	b.released = true
	b.pending = nil
	// The window may already be gone; nothing useful to do with the error.
	_ = b.target.Release()
}
