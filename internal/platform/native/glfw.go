package native

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/1broseidon/framewin/internal/platform"
	"github.com/1broseidon/framewin/internal/present"
	"github.com/1broseidon/framewin/internal/present/opengl"
)

// GLFWBackend manages windows through GLFW. All methods must be called from
// the thread that called NewGLFWBackend, which should be the main thread.
type GLFWBackend struct {
	presenter string
	logger    *slog.Logger
	windows   map[platform.WindowID]*glfw.Window
	titles    map[platform.WindowID]string
	next      platform.WindowID
}

var _ platform.Backend = (*GLFWBackend)(nil)

// NewGLFWBackend initializes GLFW. presenter selects the presentation
// path for every window: PresenterGL or, on Windows, PresenterBlit.
func NewGLFWBackend(presenter string, logger *slog.Logger) (*GLFWBackend, error) {
	switch presenter {
	case platform.PresenterGL:
	case platform.PresenterBlit:
		if !gdiAvailable {
			return nil, fmt.Errorf("%w: blit presenter with glfw backend", platform.ErrUnsupported)
		}
	default:
		return nil, fmt.Errorf("unknown presenter %q", presenter)
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw.Init failed: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GLFWBackend{
		presenter: presenter,
		logger:    logger,
		windows:   make(map[platform.WindowID]*glfw.Window),
		titles:    make(map[platform.WindowID]string),
	}, nil
}

func glfwBool(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

func (b *GLFWBackend) window(id platform.WindowID) (*glfw.Window, error) {
	w, ok := b.windows[id]
	if !ok {
		return nil, platform.ErrNoWindow
	}
	return w, nil
}

func (b *GLFWBackend) Create(spec platform.WindowSpec) (platform.WindowID, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.FocusOnShow, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfwBool(spec.Resizable))
	glfw.WindowHint(glfw.Floating, glfwBool(spec.TopMost))
	if b.presenter == platform.PresenterGL {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 2)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	} else {
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}

	w, err := glfw.CreateWindow(spec.Width, spec.Height, spec.Title, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("glfw.CreateWindow: %w", err)
	}
	w.SetPos(spec.X, spec.Y)
	w.Show()

	b.next++
	b.windows[b.next] = w
	b.titles[b.next] = spec.Title
	return b.next, nil
}

func (b *GLFWBackend) Destroy(id platform.WindowID) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	delete(b.windows, id)
	delete(b.titles, id)
	w.Destroy()
	return nil
}

func (b *GLFWBackend) FindByTitle(title string) (platform.WindowID, bool) {
	for id, t := range b.titles {
		if t == title {
			return id, true
		}
	}
	return findNativeWindow(title)
}

func (b *GLFWBackend) ClientRect(id platform.WindowID) (platform.Rect, error) {
	w, err := b.window(id)
	if err != nil {
		return platform.Rect{}, err
	}
	x, y := w.GetPos()
	width, height := w.GetSize()
	return platform.Rect{X: x, Y: y, Width: width, Height: height}, nil
}

func (b *GLFWBackend) SetPosition(id platform.WindowID, x, y int) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.SetPos(x, y)
	return nil
}

func (b *GLFWBackend) SetSize(id platform.WindowID, width, height int) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.SetSize(width, height)
	return nil
}

func (b *GLFWBackend) SetTitleBarColor(id platform.WindowID, c platform.Color) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	return setCaptionColor(w, c)
}

func (b *GLFWBackend) SetIcon(id platform.WindowID, images []image.Image) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.SetIcon(images)
	return nil
}

func (b *GLFWBackend) SetResizable(id platform.WindowID, on bool) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.SetAttrib(glfw.Resizable, glfwBool(on))
	return nil
}

func (b *GLFWBackend) SetTopMost(id platform.WindowID, on bool) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.SetAttrib(glfw.Floating, glfwBool(on))
	return nil
}

func (b *GLFWBackend) ActiveWindow() (platform.WindowID, error) {
	for id, w := range b.windows {
		if w.GetAttrib(glfw.Focused) == glfw.True {
			return id, nil
		}
	}
	return 0, nil
}

func (b *GLFWBackend) IsIconic(id platform.WindowID) (bool, error) {
	w, err := b.window(id)
	if err != nil {
		return false, err
	}
	return w.GetAttrib(glfw.Iconified) == glfw.True, nil
}

func (b *GLFWBackend) Minimize(id platform.WindowID) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.Iconify()
	return nil
}

func (b *GLFWBackend) Restore(id platform.WindowID) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	w.Restore()
	return nil
}

func (b *GLFWBackend) Raise(id platform.WindowID) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	if w.GetAttrib(glfw.Iconified) == glfw.True {
		w.Restore()
	}
	w.Show()
	w.Focus()
	return nil
}

func (b *GLFWBackend) Lower(id platform.WindowID) error {
	w, err := b.window(id)
	if err != nil {
		return err
	}
	return lowerWindow(w)
}

func (b *GLFWBackend) CloseRequested(id platform.WindowID) bool {
	w, ok := b.windows[id]
	return ok && w.ShouldClose()
}

func (b *GLFWBackend) PollEvents() {
	glfw.PollEvents()
}

func (b *GLFWBackend) NewPresenter(id platform.WindowID) (present.Presenter, error) {
	w, err := b.window(id)
	if err != nil {
		return nil, err
	}
	if b.presenter == platform.PresenterBlit {
		target, err := newGDITarget(w)
		if err != nil {
			return nil, err
		}
		return present.NewBlit(target), nil
	}

	ctx, err := opengl.New(glSurface{w})
	if err != nil {
		return nil, err
	}
	// Windows share the render loop; do not block on vsync per window.
	glfw.SwapInterval(0)
	return present.NewTextureQuad(ctx), nil
}

// Close destroys every window and terminates GLFW.
func (b *GLFWBackend) Close() {
	for id := range b.windows {
		_ = b.Destroy(id)
	}
	glfw.Terminate()
}

// glSurface adapts a GLFW window to opengl.Surface.
type glSurface struct {
	w *glfw.Window
}

func (s glSurface) MakeContextCurrent() { s.w.MakeContextCurrent() }
func (s glSurface) SwapBuffers()        { s.w.SwapBuffers() }
