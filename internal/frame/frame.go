// Package frame holds raw 24-bit raster frames and prepares them for a
// presenter: channel order conversion, scaling to the client area and row
// order flipping.
package frame

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/1broseidon/framewin/internal/swizzle"
)

// Order is the byte order of the three channels of a pixel.
type Order int

const (
	RGB Order = iota
	BGR
)

func (o Order) String() string {
	switch o {
	case RGB:
		return "rgb"
	case BGR:
		return "bgr"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// Layout describes the pixel layout a presenter expects.
type Layout struct {
	Order    Order
	BottomUp bool
}

// BytesPerPixel is fixed: 8 bits per channel, three channels, no padding.
const BytesPerPixel = 3

// ErrInvalidFrame is returned for frames whose buffer does not match their
// dimensions.
var ErrInvalidFrame = errors.New("invalid frame")

// Frame is a tightly packed height x width x 3 pixel buffer. Rows run top to
// bottom unless BottomUp is set.
type Frame struct {
	Pix      []byte
	Width    int
	Height   int
	Order    Order
	BottomUp bool
}

// New allocates a black frame.
func New(width, height int, order Order) *Frame {
	return &Frame{
		Pix:    make([]byte, width*height*BytesPerPixel),
		Width:  width,
		Height: height,
		Order:  order,
	}
}

// Validate checks the buffer length against the dimensions.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if want := f.Width * f.Height * BytesPerPixel; len(f.Pix) != want {
		return fmt.Errorf("%w: buffer has %d bytes, want %d for %dx%d", ErrInvalidFrame, len(f.Pix), want, f.Width, f.Height)
	}
	return nil
}

// Stride returns the number of bytes per row.
func (f *Frame) Stride() int {
	return f.Width * BytesPerPixel
}

// FromImage packs img into a top-down frame with the given channel order.
func FromImage(img image.Image, order Order) *Frame {
	b := img.Bounds()
	f := New(b.Dx(), b.Dy(), order)
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	packRGBA(f, rgba)
	return f
}

// Image converts the frame to an RGBA image.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	stride := f.Stride()
	for y := 0; y < f.Height; y++ {
		sy := y
		if f.BottomUp {
			sy = f.Height - 1 - y
		}
		src := f.Pix[sy*stride : (sy+1)*stride]
		dst := img.Pix[y*img.Stride : y*img.Stride+f.Width*4]
		for x := 0; x < f.Width; x++ {
			r, g, b := src[x*3], src[x*3+1], src[x*3+2]
			if f.Order == BGR {
				r, b = b, r
			}
			dst[x*4+0] = r
			dst[x*4+1] = g
			dst[x*4+2] = b
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// Prepare returns a new frame of width x height pixels in the given layout.
// The receiver is not modified.
func (f *Frame) Prepare(l Layout, width, height int) (*Frame, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", ErrInvalidFrame, width, height)
	}

	var out *Frame
	if width == f.Width && height == f.Height {
		out = &Frame{
			Pix:      append([]byte(nil), f.Pix...),
			Width:    f.Width,
			Height:   f.Height,
			Order:    f.Order,
			BottomUp: f.BottomUp,
		}
	} else {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		src := f.Image()
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)
		out = New(width, height, RGB)
		packRGBA(out, scaled)
	}

	if out.Order != l.Order {
		swizzle.BGR(out.Pix)
		out.Order = l.Order
	}
	if out.BottomUp != l.BottomUp {
		out.flipRows()
		out.BottomUp = l.BottomUp
	}
	return out, nil
}

func (f *Frame) flipRows() {
	stride := f.Stride()
	tmp := make([]byte, stride)
	for top, bot := 0, f.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := f.Pix[top*stride : (top+1)*stride]
		b := f.Pix[bot*stride : (bot+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// packRGBA writes src (same size as f) into f's top-down rows in f.Order.
func packRGBA(f *Frame, src *image.RGBA) {
	stride := f.Stride()
	for y := 0; y < f.Height; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+f.Width*4]
		d := f.Pix[y*stride : (y+1)*stride]
		for x := 0; x < f.Width; x++ {
			d[x*3+0] = s[x*4+0]
			d[x*3+1] = s[x*4+1]
			d[x*3+2] = s[x*4+2]
		}
	}
	if f.Order == BGR {
		swizzle.BGR(f.Pix)
	}
}
