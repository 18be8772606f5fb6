package present

import (
	"github.com/1broseidon/framewin/internal/frame"
)

// GL is the slice of OpenGL a TextureQuad needs. All calls run on the thread
// that owns the window's context.
type GL interface {
	MakeCurrent()
	GenTexture() uint32
	DeleteTexture(tex uint32)
	BindTexture(tex uint32)
	// TexImage2D (re)allocates the bound texture as RGB8 and fills it.
	TexImage2D(width, height int, pix []byte)
	// TexSubImage2D replaces the contents of the bound texture.
	TexSubImage2D(width, height int, pix []byte)
	Viewport(width, height int)
	// DrawQuad draws the bound texture over the whole viewport using fixed
	// normalized device coordinates.
	DrawQuad()
	SwapBuffers()
}

// TextureLayout is the layout OpenGL expects: RGB with the first row at the
// bottom of the texture.
var TextureLayout = frame.Layout{Order: frame.RGB, BottomUp: true}

// TextureQuad presents frames as a single texture drawn over a full-window
// quad followed by a buffer swap.
type TextureQuad struct {
	gl       GL
	tex      uint32
	width    int
	height   int
	uploaded bool
	released bool
}

// NewTextureQuad allocates the texture object.
func NewTextureQuad(gl GL) *TextureQuad {
	gl.MakeCurrent()
	return &TextureQuad{gl: gl, tex: gl.GenTexture()}
}

func (t *TextureQuad) Layout() frame.Layout {
	return TextureLayout
}

func (t *TextureQuad) Upload(f *frame.Frame) error {
	if t.released {
		return ErrReleased
	}
	if err := checkLayout(t, f); err != nil {
		return err
	}
	t.gl.MakeCurrent()
	t.gl.BindTexture(t.tex)
	if !t.uploaded || f.Width != t.width || f.Height != t.height {
		t.gl.TexImage2D(f.Width, f.Height, f.Pix)
		t.width, t.height = f.Width, f.Height
		t.uploaded = true
		return nil
	}
	t.gl.TexSubImage2D(f.Width, f.Height, f.Pix)
	return nil
}

func (t *TextureQuad) Present() error {
	if t.released {
		return ErrReleased
	}
	if !t.uploaded {
		return ErrNoFrame
	}
	t.gl.MakeCurrent()
	t.gl.Viewport(t.width, t.height)
	t.gl.BindTexture(t.tex)
	t.gl.DrawQuad()
	t.gl.SwapBuffers()
	return nil
}

func (t *TextureQuad) Release() {
	if t.released {
		return
	}
	t.released = true
	t.gl.MakeCurrent()
	t.gl.DeleteTexture(t.tex)
	t.tex = 0
}
