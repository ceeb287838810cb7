package ports

import (
	"image"
)

// VideoSource abstracts a seekable, frame-by-frame video decoder.
type VideoSource interface {
	// Read decodes the next frame and advances the position by one.
	// It returns false at end of stream or when decoding fails.
	Read() (image.Image, bool)

	// Seek moves the read position to the given frame index.
	// Targets outside [0, FrameCount] are clamped.
	Seek(frame int)

	// SeekMs moves the read position to the frame presented at ms.
	SeekMs(ms float64)

	// Position returns the index of the next frame to be read,
	// which equals the number of frames consumed since the last seek to 0.
	Position() int

	// PositionMs returns the presentation time of the last decoded frame.
	PositionMs() float64

	// FrameCount returns the total number of frames in the stream.
	FrameCount() int

	// FPS returns the nominal frame rate.
	FPS() float64

	// Size returns the native frame dimensions.
	Size() (width, height int)

	// Close releases decoder resources.
	Close() error
}
