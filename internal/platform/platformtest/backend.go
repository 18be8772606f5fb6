// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"image"

	"github.com/1broseidon/framewin/internal/frame"
	"github.com/1broseidon/framewin/internal/platform"
	"github.com/1broseidon/framewin/internal/present"
)

// Window is the fake native state of one created window.
type Window struct {
	ID             platform.WindowID
	Title          string
	Rect           platform.Rect
	Resizable      bool
	TopMost        bool
	TitleBarColor  platform.Color
	Icon           []image.Image
	Iconic         bool
	Raised         int
	Lowered        int
	CloseRequested bool
	Destroyed      bool
	Presenter      *Presenter
}

// Backend records every call against an in-memory window table.
type Backend struct {
	Windows map[platform.WindowID]*Window
	// Foreign holds titles of windows owned by other programs.
	Foreign map[string]bool
	Active  platform.WindowID

	// Layout is reported by every presenter the backend creates.
	Layout frame.Layout
	// RecreateAttrs makes SetResizable and SetTopMost report
	// platform.ErrRecreateRequired.
	RecreateAttrs bool
	// NoTitleBarColor makes SetTitleBarColor report platform.ErrUnsupported.
	NoTitleBarColor bool
	FailCreate      error
	FailPresenter   error

	Created    int
	Destroys   int
	Polls      int
	Presenters int

	next platform.WindowID
}

var _ platform.Backend = (*Backend)(nil)

// New returns an empty backend.
func New() *Backend {
	return &Backend{
		Windows: make(map[platform.WindowID]*Window),
		Foreign: make(map[string]bool),
		Layout:  frame.Layout{Order: frame.BGR, BottomUp: true},
	}
}

func (b *Backend) live(id platform.WindowID) (*Window, error) {
	w, ok := b.Windows[id]
	if !ok || w.Destroyed {
		return nil, platform.ErrNoWindow
	}
	return w, nil
}

// RequestClose simulates the user clicking the close control.
func (b *Backend) RequestClose(id platform.WindowID) {
	if w, ok := b.Windows[id]; ok {
		w.CloseRequested = true
	}
}

// Vanish simulates the window disappearing without notice.
func (b *Backend) Vanish(id platform.WindowID) {
	delete(b.Windows, id)
}

// SetIconicState simulates the user minimizing or restoring the window.
func (b *Backend) SetIconicState(id platform.WindowID, iconic bool) {
	if w, ok := b.Windows[id]; ok {
		w.Iconic = iconic
	}
}

// Resize simulates the user dragging the window border.
func (b *Backend) Resize(id platform.WindowID, width, height int) {
	if w, ok := b.Windows[id]; ok {
		w.Rect.Width, w.Rect.Height = width, height
	}
}

// Window returns the fake window for id or nil.
func (b *Backend) Window(id platform.WindowID) *Window {
	return b.Windows[id]
}

func (b *Backend) Create(spec platform.WindowSpec) (platform.WindowID, error) {
	if b.FailCreate != nil {
		return 0, b.FailCreate
	}
	b.next++
	b.Created++
	w := &Window{
		ID:        b.next,
		Title:     spec.Title,
		Rect:      platform.Rect{X: spec.X, Y: spec.Y, Width: spec.Width, Height: spec.Height},
		Resizable: spec.Resizable,
		TopMost:   spec.TopMost,
	}
	b.Windows[w.ID] = w
	return w.ID, nil
}

func (b *Backend) Destroy(id platform.WindowID) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	b.Destroys++
	w.Destroyed = true
	if b.Active == id {
		b.Active = 0
	}
	return nil
}

func (b *Backend) FindByTitle(title string) (platform.WindowID, bool) {
	if b.Foreign[title] {
		return platform.WindowID(1 << 31), true
	}
	for id, w := range b.Windows {
		if !w.Destroyed && w.Title == title {
			return id, true
		}
	}
	return 0, false
}

func (b *Backend) ClientRect(id platform.WindowID) (platform.Rect, error) {
	w, err := b.live(id)
	if err != nil {
		return platform.Rect{}, err
	}
	return w.Rect, nil
}

func (b *Backend) SetPosition(id platform.WindowID, x, y int) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	w.Rect.X, w.Rect.Y = x, y
	return nil
}

func (b *Backend) SetSize(id platform.WindowID, width, height int) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	w.Rect.Width, w.Rect.Height = width, height
	return nil
}

func (b *Backend) SetTitleBarColor(id platform.WindowID, c platform.Color) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	if b.NoTitleBarColor {
		return platform.ErrUnsupported
	}
	w.TitleBarColor = c
	return nil
}

func (b *Backend) SetIcon(id platform.WindowID, images []image.Image) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	w.Icon = images
	return nil
}

func (b *Backend) SetResizable(id platform.WindowID, on bool) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	if b.RecreateAttrs {
		return platform.ErrRecreateRequired
	}
	w.Resizable = on
	return nil
}

func (b *Backend) SetTopMost(id platform.WindowID, on bool) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	if b.RecreateAttrs {
		return platform.ErrRecreateRequired
	}
	w.TopMost = on
	return nil
}

func (b *Backend) ActiveWindow() (platform.WindowID, error) {
	return b.Active, nil
}

func (b *Backend) IsIconic(id platform.WindowID) (bool, error) {
	w, err := b.live(id)
	if err != nil {
		return false, err
	}
	return w.Iconic, nil
}

func (b *Backend) Minimize(id platform.WindowID) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	w.Iconic = true
	if b.Active == id {
		b.Active = 0
	}
	return nil
}

func (b *Backend) Restore(id platform.WindowID) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	w.Iconic = false
	return nil
}

func (b *Backend) Raise(id platform.WindowID) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	w.Raised++
	w.Iconic = false
	b.Active = id
	return nil
}

func (b *Backend) Lower(id platform.WindowID) error {
	w, err := b.live(id)
	if err != nil {
		return err
	}
	w.Lowered++
	if b.Active == id {
		b.Active = 0
	}
	return nil
}

func (b *Backend) CloseRequested(id platform.WindowID) bool {
	w, ok := b.Windows[id]
	return ok && w.CloseRequested
}

func (b *Backend) PollEvents() {
	b.Polls++
}

func (b *Backend) NewPresenter(id platform.WindowID) (present.Presenter, error) {
	w, err := b.live(id)
	if err != nil {
		return nil, err
	}
	if b.FailPresenter != nil {
		return nil, b.FailPresenter
	}
	b.Presenters++
	p := &Presenter{layout: b.Layout}
	w.Presenter = p
	return p, nil
}

func (b *Backend) Close() {
	for id := range b.Windows {
		_ = b.Destroy(id)
	}
}

// Presenter counts uploads and presents.
type Presenter struct {
	layout   frame.Layout
	Uploads  int
	Presents int
	Releases int
	Last     *frame.Frame
}

var _ present.Presenter = (*Presenter)(nil)

func (p *Presenter) Layout() frame.Layout {
	return p.layout
}

func (p *Presenter) Upload(f *frame.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	p.Uploads++
	p.Last = f
	return nil
}

func (p *Presenter) Present() error {
	if p.Last == nil {
		return present.ErrNoFrame
	}
	p.Presents++
	return nil
}

func (p *Presenter) Release() {
	p.Releases++
}
