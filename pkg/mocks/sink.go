package mocks

import (
	"image"

	"github.com/user/vidplay/pkg/ports"
)

// DebugSink records the frames it is given.
type DebugSink struct {
	enabled bool

	Frames  map[int]image.Image
	SaveErr error
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Frames:  make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveFrame(index int, img image.Image) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Frames[index] = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
