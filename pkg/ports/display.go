package ports

import (
	"image"
)

// Key is a platform-independent key press reported by a DisplaySurface.
type Key int

const (
	// KeyNone means the poll timed out without a key press.
	KeyNone Key = iota
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape
	// KeyOther is any key without a playback binding.
	KeyOther
)

// String returns the string representation of the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeySpace:
		return "space"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEscape:
		return "escape"
	default:
		return "other"
	}
}

// DisplaySurface abstracts a window that shows frames and reports key presses.
type DisplaySurface interface {
	// Show renders the image into the window.
	Show(img image.Image) error

	// PollKey waits up to timeoutMs for a key press.
	// A timeout of 0 blocks until a key is pressed or the window goes away.
	// Returns KeyNone on timeout.
	PollKey(timeoutMs int) Key

	// Visible reports whether the window is still open.
	Visible() bool

	// Resize requests new window dimensions. No-op once the window is closed.
	Resize(width, height int)

	// SetTitle sets the window caption.
	SetTitle(title string)

	// Close destroys the window.
	Close() error
}
