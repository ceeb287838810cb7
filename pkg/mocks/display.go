package mocks

import (
	"image"

	"github.com/user/vidplay/pkg/ports"
)

// DisplaySurface replays a scripted key sequence.
// Once the script is exhausted the window reports itself closed.
type DisplaySurface struct {
	Keys    []ports.Key
	ShowErr error

	// ShowFunc and PollKeyFunc override the script when set.
	ShowFunc    func(img image.Image) error
	PollKeyFunc func(timeoutMs int) ports.Key

	closed bool

	// Recorded calls for verification
	Shown      []image.Image
	Timeouts   []int
	Titles     []string
	Resizes    [][2]int
	CloseCount int
}

// NewDisplaySurface creates a surface that will report the given keys.
func NewDisplaySurface(keys ...ports.Key) *DisplaySurface {
	return &DisplaySurface{Keys: keys}
}

func (m *DisplaySurface) Show(img image.Image) error {
	if m.ShowFunc != nil {
		return m.ShowFunc(img)
	}
	if m.ShowErr != nil {
		return m.ShowErr
	}
	m.Shown = append(m.Shown, img)
	return nil
}

func (m *DisplaySurface) PollKey(timeoutMs int) ports.Key {
	m.Timeouts = append(m.Timeouts, timeoutMs)
	if m.PollKeyFunc != nil {
		return m.PollKeyFunc(timeoutMs)
	}
	if len(m.Keys) == 0 {
		m.closed = true
		return ports.KeyNone
	}
	k := m.Keys[0]
	m.Keys = m.Keys[1:]
	return k
}

func (m *DisplaySurface) Visible() bool {
	return !m.closed
}

func (m *DisplaySurface) Resize(width, height int) {
	if m.closed {
		return
	}
	m.Resizes = append(m.Resizes, [2]int{width, height})
}

func (m *DisplaySurface) SetTitle(title string) {
	m.Titles = append(m.Titles, title)
}

func (m *DisplaySurface) Close() error {
	m.CloseCount++
	m.closed = true
	return nil
}

// Hide simulates the user closing the window.
func (m *DisplaySurface) Hide() {
	m.closed = true
}

var _ ports.DisplaySurface = (*DisplaySurface)(nil)
