//go:build !windows

package window

// NewHWNDBackend needs user32 and only exists on Windows.
func NewHWNDBackend() (Backend, error) {
	return nil, ErrUnsupported
}
