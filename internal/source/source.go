// Package source produces the frames the daemon shows in each window.
package source

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/1broseidon/framewin/internal/frame"
)

// Pattern is the name that selects the animated test pattern in Open.
const Pattern = "pattern"

// Default pattern size. Frames are scaled to the client area when shown.
const (
	PatternWidth  = 320
	PatternHeight = 180
)

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidImageData = errors.New("invalid image data")
)

// Source yields the frame to show at time t since the daemon started. The
// returned frame stays owned by the source and may be reused by the next
// call.
type Source interface {
	Frame(t time.Duration) *frame.Frame
}

// Open returns the pattern source for "pattern" and a still image source for
// anything else, treated as a file path.
func Open(spec string) (Source, error) {
	if spec == Pattern {
		return NewBars(PatternWidth, PatternHeight), nil
	}
	return LoadImage(spec)
}

// Still shows the same frame forever.
type Still struct {
	frame  *frame.Frame
	format string
}

// NewStill wraps an already decoded frame.
func NewStill(f *frame.Frame) *Still {
	return &Still{frame: f}
}

// LoadImage decodes a png, jpeg, gif, bmp or webp file.
func LoadImage(path string) (*Still, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidImageData, path, err)
	}
	return &Still{frame: frame.FromImage(img, frame.RGB), format: format}, nil
}

// Format is the decoder name, e.g. "png". Empty for NewStill sources.
func (s *Still) Format() string {
	return s.format
}

func (s *Still) Frame(time.Duration) *frame.Frame {
	return s.frame
}
