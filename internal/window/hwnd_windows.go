//go:build windows

package window

import (
	"fmt"
	"image"
	"strings"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procPrintWindow    = user32.NewProc("PrintWindow")
	procGetWindowTextW = user32.NewProc("GetWindowTextW")
)

const (
	pwClientOnly        = 0x1
	pwRenderFullContent = 0x2
)

// HWNDBackend posts messages to the emulator's child windows, so the cursor and focus are left alone.
type HWNDBackend struct {
	parent win.HWND
	child  win.HWND
	keys   win.HWND
}

var _ Backend = (*HWNDBackend)(nil)

// NewHWNDBackend returns the message-posting backend.
func NewHWNDBackend() (Backend, error) {
	return &HWNDBackend{}, nil
}

func (b *HWNDBackend) Attach(window, child, keyHandle string) error {
	title, err := windows.UTF16PtrFromString(window)
	if err != nil {
		return err
	}
	parent := win.FindWindow(nil, title)
	if parent == 0 {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, window)
	}
	c := findChild(parent, child)
	if c == 0 {
		return fmt.Errorf("%w: child %s", ErrWindowNotFound, child)
	}
	k := c
	if keyHandle != "" && keyHandle != child {
		if k = findChild(parent, keyHandle); k == 0 {
			return fmt.Errorf("%w: key handler %s", ErrWindowNotFound, keyHandle)
		}
	}
	b.parent, b.child, b.keys = parent, c, k
	return nil
}

// findChild walks the child windows of parent and matches by title, then by class name.
func findChild(parent win.HWND, name string) win.HWND {
	var found win.HWND
	cb := syscall.NewCallback(func(h win.HWND, _ uintptr) uintptr {
		if windowText(h) == name || className(h) == name {
			found = h
			return 0
		}
		return 1
	})
	win.EnumChildWindows(parent, cb, 0)
	return found
}

func windowText(h win.HWND) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

func className(h win.HWND) string {
	buf := make([]uint16, 256)
	n, _ := win.GetClassName(h, &buf[0], len(buf))
	return windows.UTF16ToString(buf[:n])
}

// Capture renders the parent client area (including compositor surfaces) and crops it to the child.
func (b *HWNDBackend) Capture() (image.Image, error) {
	var rc win.RECT
	if !win.GetClientRect(b.parent, &rc) {
		return nil, fmt.Errorf("%w: client rect", ErrWindowNotFound)
	}
	w, h := int(rc.Right-rc.Left), int(rc.Bottom-rc.Top)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty client area %dx%d", w, h)
	}

	hdcWin := win.GetDC(b.parent)
	defer win.ReleaseDC(b.parent, hdcWin)
	hdcMem := win.CreateCompatibleDC(hdcWin)
	defer win.DeleteDC(hdcMem)
	bmp := win.CreateCompatibleBitmap(hdcWin, int32(w), int32(h))
	defer win.DeleteObject(win.HGDIOBJ(bmp))
	old := win.SelectObject(hdcMem, win.HGDIOBJ(bmp))
	defer win.SelectObject(hdcMem, old)

	if ret, _, err := procPrintWindow.Call(uintptr(b.parent), uintptr(hdcMem), pwClientOnly|pwRenderFullContent); ret == 0 {
		return nil, fmt.Errorf("print window: %v", err)
	}

	var bi win.BITMAPINFO
	bi.BmiHeader = win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(bi.BmiHeader)),
		BiWidth:       int32(w),
		BiHeight:      -int32(h), // top-down rows
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: win.BI_RGB,
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if win.GetDIBits(hdcMem, bmp, 0, uint32(h), &img.Pix[0], &bi, win.DIB_RGB_COLORS) == 0 {
		return nil, fmt.Errorf("get dibits failed")
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		img.Pix[i+3] = 255
	}

	return img.SubImage(b.childRect()).(*image.RGBA), nil
}

// childRect is the child window in parent client coordinates.
func (b *HWNDBackend) childRect() image.Rectangle {
	var wr win.RECT
	win.GetWindowRect(b.child, &wr)
	origin := win.POINT{}
	win.ClientToScreen(b.parent, &origin)
	return image.Rect(
		int(wr.Left-origin.X), int(wr.Top-origin.Y),
		int(wr.Right-origin.X), int(wr.Bottom-origin.Y),
	)
}

func lParam(x, y int) uintptr {
	return uintptr(win.MAKELONG(uint16(x), uint16(y)))
}

func (b *HWNDBackend) MouseDown(x, y int) error {
	win.PostMessage(b.child, win.WM_LBUTTONDOWN, win.MK_LBUTTON, lParam(x, y))
	return nil
}

func (b *HWNDBackend) MouseMove(x, y int, pressed bool) error {
	var wParam uintptr
	if pressed {
		wParam = win.MK_LBUTTON
	}
	win.PostMessage(b.child, win.WM_MOUSEMOVE, wParam, lParam(x, y))
	return nil
}

func (b *HWNDBackend) MouseUp(x, y int) error {
	win.PostMessage(b.child, win.WM_LBUTTONUP, 0, lParam(x, y))
	return nil
}

func (b *HWNDBackend) Key(name string, system, down bool) error {
	vk, ok := virtualKeys[strings.ToUpper(name)]
	if !ok {
		return fmt.Errorf("unknown key %q", name)
	}
	var msg uint32
	switch {
	case system && down:
		msg = win.WM_SYSKEYDOWN
	case system:
		msg = win.WM_SYSKEYUP
	case down:
		msg = win.WM_KEYDOWN
	default:
		msg = win.WM_KEYUP
	}
	win.PostMessage(b.keys, msg, uintptr(vk), 0)
	return nil
}

func (b *HWNDBackend) IsMinimized() bool {
	return win.IsIconic(b.parent)
}

func (b *HWNDBackend) Maximize() error {
	win.ShowWindow(b.parent, win.SW_RESTORE)
	win.SetForegroundWindow(b.parent)
	return nil
}

// Close asks the emulator to exit.
func (b *HWNDBackend) Close() error {
	win.PostMessage(b.parent, win.WM_CLOSE, 0, 0)
	return nil
}

// Restartable is false: relaunching needs the vendor's launcher.
func (b *HWNDBackend) Restartable() bool { return false }

var virtualKeys = func() map[string]uint16 {
	m := map[string]uint16{
		KeyEscape:    win.VK_ESCAPE,
		KeyEnter:     win.VK_RETURN,
		KeySpace:     win.VK_SPACE,
		KeyBackspace: win.VK_BACK,
		KeyTab:       win.VK_TAB,
		KeyUp:        win.VK_UP,
		KeyDown:      win.VK_DOWN,
		KeyLeft:      win.VK_LEFT,
		KeyRight:     win.VK_RIGHT,
	}
	for c := 'A'; c <= 'Z'; c++ {
		m[string(c)] = uint16(c)
	}
	for c := '0'; c <= '9'; c++ {
		m[string(c)] = uint16(c)
	}
	for i := 1; i <= 12; i++ {
		m[fmt.Sprintf("F%d", i)] = uint16(win.VK_F1 + i - 1)
	}
	return m
}()
