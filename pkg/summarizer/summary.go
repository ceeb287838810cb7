// Package summarizer produces a report of a probed video file.
package summarizer

import (
	"time"

	"github.com/user/vidplay/pkg/adapters/mp4probe"
)

// Summary contains everything reported about one file.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	File   FileInfo
	Stream StreamInfo
}

// FileInfo describes the file on disk.
type FileInfo struct {
	Path string
	Size int64
}

// StreamInfo describes the video track.
type StreamInfo struct {
	Codec      string
	Width      int
	Height     int
	FrameCount int
	FPS        float64
	DurationMs float64
	Fragmented bool
	Rotation   int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithGeneratedAt overrides the report timestamp.
func (b *Builder) WithGeneratedAt(t time.Time) *Builder {
	b.summary.GeneratedAt = t
	return b
}

// WithFile sets file information.
func (b *Builder) WithFile(path string, size int64) *Builder {
	b.summary.File = FileInfo{Path: path, Size: size}
	return b
}

// WithProbe copies the stream metadata from a probe result.
func (b *Builder) WithProbe(info mp4probe.Info) *Builder {
	b.summary.Stream = StreamInfo{
		Codec:      string(info.Codec),
		Width:      info.Width,
		Height:     info.Height,
		FrameCount: info.FrameCount,
		FPS:        info.FPS,
		DurationMs: info.DurationMs,
		Fragmented: info.Fragmented,
		Rotation:   info.Rotation,
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
