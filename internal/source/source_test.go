package source

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"

	"github.com/1broseidon/framewin/internal/frame"
)

func pixel(f *frame.Frame, x, y int) [3]byte {
	i := y*f.Stride() + x*frame.BytesPerPixel
	return [3]byte{f.Pix[i], f.Pix[i+1], f.Pix[i+2]}
}

func TestBarsScroll(t *testing.T) {
	b := NewBars(80, 4)

	f := b.Frame(0)
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := pixel(f, 0, 3); got != barColors[0] {
		t.Fatalf("t=0 x=0: got %v, want %v", got, barColors[0])
	}
	if got := pixel(f, 10, 0); got != barColors[1] {
		t.Fatalf("t=0 x=10: got %v, want %v", got, barColors[1])
	}

	f = b.Frame(time.Second)
	if got := pixel(f, 0, 0); got != barColors[1] {
		t.Fatalf("t=1s x=0: got %v, want %v", got, barColors[1])
	}
	if got := pixel(f, 75, 2); got != barColors[0] {
		t.Fatalf("t=1s x=75 should wrap: got %v, want %v", got, barColors[0])
	}
}

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{A: 255})
	img.Set(0, 1, color.RGBA{A: 255})
	img.Set(1, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	return img
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		encode func(*os.File, image.Image) error
		format string
	}{
		{"a.png", func(f *os.File, img image.Image) error { return png.Encode(f, img) }, "png"},
		{"a.bmp", func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }, "bmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			f, err := os.Create(path)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if err := tt.encode(f, testImage()); err != nil {
				t.Fatalf("encode: %v", err)
			}
			f.Close()

			src, err := LoadImage(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if src.Format() != tt.format {
				t.Fatalf("format = %q, want %q", src.Format(), tt.format)
			}
			fr := src.Frame(time.Hour)
			if fr.Width != 2 || fr.Height != 2 || fr.Order != frame.RGB {
				t.Fatalf("unexpected frame %dx%d %v", fr.Width, fr.Height, fr.Order)
			}
			if got := pixel(fr, 0, 0); got != [3]byte{10, 20, 30} {
				t.Fatalf("pixel(0,0) = %v", got)
			}
			if got := pixel(fr, 1, 1); got != [3]byte{200, 100, 50} {
				t.Fatalf("pixel(1,1) = %v", got)
			}
		})
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("missing file error = %v, want ErrFileNotFound", err)
	}

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadImage(junk); !errors.Is(err, ErrInvalidImageData) {
		t.Fatalf("junk file error = %v, want ErrInvalidImageData", err)
	}
}

func TestOpen(t *testing.T) {
	src, err := Open(Pattern)
	if err != nil {
		t.Fatalf("open pattern: %v", err)
	}
	f := src.Frame(0)
	if f.Width != PatternWidth || f.Height != PatternHeight {
		t.Fatalf("pattern size %dx%d", f.Width, f.Height)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatalf("expected error for missing image")
	}
}
