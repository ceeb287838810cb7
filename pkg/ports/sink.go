package ports

import (
	"image"
)

// DebugSink abstracts debug output of displayed frames.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveFrame saves a frame as it was sent to the display.
	SaveFrame(index int, img image.Image) error
}
