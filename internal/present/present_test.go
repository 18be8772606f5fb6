package present

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/framewin/internal/frame"
)

type fakeGL struct {
	calls   []string
	nextTex uint32
	deleted []uint32
}

func (g *fakeGL) MakeCurrent() {}

func (g *fakeGL) GenTexture() uint32 {
	g.nextTex++
	g.calls = append(g.calls, "gen")
	return g.nextTex
}

func (g *fakeGL) DeleteTexture(tex uint32) {
	g.deleted = append(g.deleted, tex)
	g.calls = append(g.calls, "delete")
}

func (g *fakeGL) BindTexture(uint32)             { g.calls = append(g.calls, "bind") }
func (g *fakeGL) TexImage2D(int, int, []byte)    { g.calls = append(g.calls, "teximage") }
func (g *fakeGL) TexSubImage2D(int, int, []byte) { g.calls = append(g.calls, "texsubimage") }
func (g *fakeGL) Viewport(int, int)              { g.calls = append(g.calls, "viewport") }
func (g *fakeGL) DrawQuad()                      { g.calls = append(g.calls, "quad") }
func (g *fakeGL) SwapBuffers()                   { g.calls = append(g.calls, "swap") }
func (g *fakeGL) reset()                         { g.calls = nil }
func (g *fakeGL) joined() string                 { return strings.Join(g.calls, ",") }

type fakeTarget struct {
	layout   frame.Layout
	blits    int
	releases int
	last     *frame.Frame
}

func (t *fakeTarget) Layout() frame.Layout { return t.layout }

func (t *fakeTarget) Blit(f *frame.Frame) error {
	t.blits++
	t.last = f
	return nil
}

func (t *fakeTarget) Release() error {
	t.releases++
	return errors.New("window already destroyed")
}

func prepared(t *testing.T, l frame.Layout, w, h int) *frame.Frame {
	t.Helper()
	f, err := frame.New(w, h, frame.RGB).Prepare(l, w, h)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return f
}

func TestTextureQuadUploadReallocatesOnResize(t *testing.T) {
	gl := &fakeGL{}
	tq := NewTextureQuad(gl)
	if got := gl.joined(); got != "gen" {
		t.Fatalf("NewTextureQuad calls = %q, want one texture allocation", got)
	}

	steps := []struct {
		w, h int
		want string
	}{
		{w: 4, h: 2, want: "bind,teximage"},
		{w: 4, h: 2, want: "bind,texsubimage"},
		{w: 8, h: 2, want: "bind,teximage"},
	}
	for i, s := range steps {
		gl.reset()
		if err := tq.Upload(prepared(t, TextureLayout, s.w, s.h)); err != nil {
			t.Fatalf("step %d: Upload: %v", i, err)
		}
		if got := gl.joined(); got != s.want {
			t.Fatalf("step %d: calls = %q, want %q", i, got, s.want)
		}
	}

	gl.reset()
	if err := tq.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if diff := cmp.Diff([]string{"viewport", "bind", "quad", "swap"}, gl.calls); diff != "" {
		t.Fatalf("Present calls (-want +got):\n%s", diff)
	}
}

func TestTextureQuadRejectsWrongLayout(t *testing.T) {
	tq := NewTextureQuad(&fakeGL{})
	f := prepared(t, frame.Layout{Order: frame.BGR}, 2, 2)
	if err := tq.Upload(f); !errors.Is(err, frame.ErrInvalidFrame) {
		t.Fatalf("Upload(bgr) = %v, want ErrInvalidFrame", err)
	}
	if err := tq.Present(); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("Present before upload = %v, want ErrNoFrame", err)
	}
}

func TestTextureQuadReleaseIsIdempotent(t *testing.T) {
	gl := &fakeGL{}
	tq := NewTextureQuad(gl)
	tq.Release()
	tq.Release()
	if diff := cmp.Diff([]uint32{1}, gl.deleted); diff != "" {
		t.Fatalf("deleted textures (-want +got):\n%s", diff)
	}
	if err := tq.Upload(prepared(t, TextureLayout, 2, 2)); !errors.Is(err, ErrReleased) {
		t.Fatalf("Upload after release = %v, want ErrReleased", err)
	}
}

func TestBlit(t *testing.T) {
	target := &fakeTarget{layout: frame.Layout{Order: frame.BGR, BottomUp: true}}
	b := NewBlit(target)

	if err := b.Present(); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("Present before upload = %v, want ErrNoFrame", err)
	}
	f := prepared(t, b.Layout(), 3, 3)
	if err := b.Upload(f); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := b.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if target.blits != 1 || target.last != f {
		t.Fatalf("blits = %d, last = %p, want 1 and %p", target.blits, target.last, f)
	}

	b.Release()
	b.Release()
	if target.releases != 1 {
		t.Fatalf("target released %d times, want 1", target.releases)
	}
	if err := b.Present(); !errors.Is(err, ErrReleased) {
		t.Fatalf("Present after release = %v, want ErrReleased", err)
	}
}
