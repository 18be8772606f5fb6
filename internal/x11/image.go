package x11

import (
	"errors"

	"github.com/BurntSushi/xgb/xproto"
)

// putImageHeaderLen is the size of a PutImage request without its data.
const putImageHeaderLen = 24

// ErrUnsupportedVisual is returned when the root visual is not 24-bit
// TrueColor with 32 bits per pixel.
var ErrUnsupportedVisual = errors.New("unsupported X11 visual")

// ImageTarget draws packed BGR rows into a window with PutImage.
type ImageTarget struct {
	c      *Connection
	window xproto.Window
	gc     xproto.Gcontext
	depth  byte
	buf    []byte
}

// NewImageTarget creates a graphics context for windowID.
func (c *Connection) NewImageTarget(windowID xproto.Window) (*ImageTarget, error) {
	screen := c.Screen()
	if screen.RootDepth != 24 || !c.has32bppZPixmap(24) {
		return nil, ErrUnsupportedVisual
	}

	gc, err := xproto.NewGcontextId(c.Conn())
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateGCChecked(c.Conn(), gc, xproto.Drawable(windowID), 0, nil).Check(); err != nil {
		return nil, err
	}
	return &ImageTarget{c: c, window: windowID, gc: gc, depth: screen.RootDepth}, nil
}

func (c *Connection) has32bppZPixmap(depth byte) bool {
	for _, f := range xproto.Setup(c.Conn()).PixmapFormats {
		if f.Depth == depth {
			return f.BitsPerPixel == 32
		}
	}
	return false
}

// PutBGR uploads a top-down, tightly packed BGR buffer at (0,0). Large
// images are split into bands that fit the maximum request length.
func (t *ImageTarget) PutBGR(pix []byte, width, height int) error {
	if width <= 0 || height <= 0 || len(pix) != width*height*3 {
		return errors.New("buffer does not match image size")
	}
	need := width * height * 4
	if cap(t.buf) < need {
		t.buf = make([]byte, need)
	}
	buf := t.buf[:need]
	for i, j := 0, 0; i < len(pix); i, j = i+3, j+4 {
		buf[j+0] = pix[i+0]
		buf[j+1] = pix[i+1]
		buf[j+2] = pix[i+2]
		buf[j+3] = 0
	}

	stride := width * 4
	maxBytes := int(xproto.Setup(t.c.Conn()).MaximumRequestLength)*4 - putImageHeaderLen
	rows := maxBytes / stride
	if rows < 1 {
		return errors.New("image row exceeds maximum request length")
	}
	conn := t.c.Conn()
	for y := 0; y < height; y += rows {
		n := min(rows, height-y)
		xproto.PutImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(t.window), t.gc,
			uint16(width), uint16(n), 0, int16(y), 0, t.depth, buf[y*stride:(y+n)*stride])
	}
	return nil
}

// Release frees the graphics context.
func (t *ImageTarget) Release() error {
	return xproto.FreeGCChecked(t.c.Conn(), t.gc).Check()
}
