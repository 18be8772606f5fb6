// Package opengl implements present.GL on top of the go-gl bindings using
// the OpenGL 2.1 fixed-function pipeline.
package opengl

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v2.1/gl"

	"github.com/1broseidon/framewin/internal/present"
)

// Surface is a window that owns an OpenGL context. *glfw.Window satisfies it.
type Surface interface {
	MakeContextCurrent()
	SwapBuffers()
}

var (
	initOnce sync.Once
	initErr  error
)

// Context drives the GL context of a single surface.
type Context struct {
	surface Surface
}

var _ present.GL = (*Context)(nil)

// New makes the surface current and loads the GL entry points on first use.
func New(s Surface) (*Context, error) {
	s.MakeContextCurrent()
	initOnce.Do(func() {
		if err := gl.Init(); err != nil {
			initErr = fmt.Errorf("gl.Init failed: %w", err)
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return &Context{surface: s}, nil
}

func (c *Context) MakeCurrent() {
	c.surface.MakeContextCurrent()
}

func (c *Context) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return tex
}

func (c *Context) DeleteTexture(tex uint32) {
	if tex == 0 {
		return
	}
	gl.DeleteTextures(1, &tex)
}

func (c *Context) BindTexture(tex uint32) {
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (c *Context) TexImage2D(width, height int, pix []byte) {
	// Rows of 3-byte pixels are not 4-byte aligned in general.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8, int32(width), int32(height), 0, gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(pix))
}

func (c *Context) TexSubImage2D(width, height int, pix []byte) {
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height), gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(pix))
}

func (c *Context) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (c *Context) DrawQuad() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Enable(gl.TEXTURE_2D)
	gl.Begin(gl.QUADS)
	gl.TexCoord2f(0, 0)
	gl.Vertex2f(-1, -1)
	gl.TexCoord2f(1, 0)
	gl.Vertex2f(1, -1)
	gl.TexCoord2f(1, 1)
	gl.Vertex2f(1, 1)
	gl.TexCoord2f(0, 1)
	gl.Vertex2f(-1, 1)
	gl.End()
	gl.Disable(gl.TEXTURE_2D)
}

func (c *Context) SwapBuffers() {
	c.surface.SwapBuffers()
}
