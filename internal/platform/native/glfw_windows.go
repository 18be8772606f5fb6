//go:build windows

package native

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/sys/windows"

	"github.com/1broseidon/framewin/internal/frame"
	"github.com/1broseidon/framewin/internal/platform"
	"github.com/1broseidon/framewin/internal/present"
)

const gdiAvailable = true

const (
	dwmwaCaptionColor = 35
	dibRGBColors      = 0
	srcCopy           = 0x00CC0020
	swpNoSize         = 0x0001
	swpNoMove         = 0x0002
	swpNoActivate     = 0x0010
	hwndBottom        = 1
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procFindWindowW           = user32.NewProc("FindWindowW")
	procGetDC                 = user32.NewProc("GetDC")
	procReleaseDC             = user32.NewProc("ReleaseDC")
	procSetWindowPos          = user32.NewProc("SetWindowPos")
	procStretchDIBits         = gdi32.NewProc("StretchDIBits")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors [1]uint32
}

func hwndOf(w *glfw.Window) uintptr {
	return uintptr(unsafe.Pointer(w.GetWin32Window()))
}

func findNativeWindow(title string) (platform.WindowID, bool) {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, false
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(p)))
	if hwnd == 0 {
		return 0, false
	}
	return platform.WindowID(uint32(hwnd)), true
}

// setCaptionColor needs Windows 11; older systems report ErrUnsupported.
func setCaptionColor(w *glfw.Window, c platform.Color) error {
	if err := procDwmSetWindowAttribute.Find(); err != nil {
		return platform.ErrUnsupported
	}
	colorref := uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16
	hr, _, _ := procDwmSetWindowAttribute.Call(
		hwndOf(w),
		dwmwaCaptionColor,
		uintptr(unsafe.Pointer(&colorref)),
		unsafe.Sizeof(colorref),
	)
	if hr != 0 {
		return fmt.Errorf("%w: DwmSetWindowAttribute returned %#x", platform.ErrUnsupported, hr)
	}
	return nil
}

func lowerWindow(w *glfw.Window) error {
	ok, _, err := procSetWindowPos.Call(hwndOf(w), hwndBottom, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
	if ok == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

// gdiTarget blits bottom-up 24-bit DIBs into the window's device context.
type gdiTarget struct {
	hwnd uintptr
	buf  []byte
}

func newGDITarget(w *glfw.Window) (present.BlitTarget, error) {
	hwnd := hwndOf(w)
	if hwnd == 0 {
		return nil, platform.ErrNoWindow
	}
	return &gdiTarget{hwnd: hwnd}, nil
}

func (t *gdiTarget) Layout() frame.Layout {
	return frame.Layout{Order: frame.BGR, BottomUp: true}
}

func (t *gdiTarget) Blit(f *frame.Frame) error {
	// DIB rows are padded to 4 bytes.
	stride := (f.Stride() + 3) &^ 3
	pix := f.Pix
	if stride != f.Stride() {
		if cap(t.buf) < stride*f.Height {
			t.buf = make([]byte, stride*f.Height)
		}
		pix = t.buf[:stride*f.Height]
		for y := 0; y < f.Height; y++ {
			copy(pix[y*stride:], f.Pix[y*f.Stride():(y+1)*f.Stride()])
		}
	}

	bi := bitmapInfo{Header: bitmapInfoHeader{
		Width:    int32(f.Width),
		Height:   int32(f.Height),
		Planes:   1,
		BitCount: 24,
	}}
	bi.Header.Size = uint32(unsafe.Sizeof(bi.Header))

	hdc, _, _ := procGetDC.Call(t.hwnd)
	if hdc == 0 {
		return platform.ErrNoWindow
	}
	defer procReleaseDC.Call(t.hwnd, hdc)

	lines, _, err := procStretchDIBits.Call(
		hdc,
		0, 0, uintptr(f.Width), uintptr(f.Height),
		0, 0, uintptr(f.Width), uintptr(f.Height),
		uintptr(unsafe.Pointer(&pix[0])),
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColors,
		srcCopy,
	)
	if lines == 0 {
		return fmt.Errorf("StretchDIBits: %w", err)
	}
	return nil
}

func (t *gdiTarget) Release() error {
	return nil
}
