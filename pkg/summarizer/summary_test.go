package summarizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/vidplay/pkg/adapters/mp4probe"
	"github.com/user/vidplay/pkg/mocks"
)

func sampleSummary() *Summary {
	return NewBuilder().
		WithGeneratedAt(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)).
		WithFile("clips/demo.mp4", 3*1024*1024).
		WithProbe(mp4probe.Info{
			Codec:      mp4probe.CodecH264,
			Width:      1920,
			Height:     1080,
			FrameCount: 250,
			FPS:        25,
			DurationMs: 10000,
		}).
		Build()
}

func TestBuilder(t *testing.T) {
	s := sampleSummary()

	if s.File.Path != "clips/demo.mp4" || s.File.Size != 3*1024*1024 {
		t.Errorf("unexpected file info: %+v", s.File)
	}
	if s.Stream.Codec != "h264" || s.Stream.FrameCount != 250 || s.Stream.Fragmented {
		t.Errorf("unexpected stream info: %+v", s.Stream)
	}
}

func TestNewSummary_Timestamp(t *testing.T) {
	before := time.Now()
	s := NewSummary()
	if s.GeneratedAt.Before(before) {
		t.Error("expected GeneratedAt to be set to now")
	}
}

func TestMarkdownFormatter_Format(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"clips/demo.mp4",
		"3.00 MB",
		"h264",
		"1920x1080",
		"| 250 |",
		"25.000 fps",
		"00:00:10.000",
		"2024-01-15 10:30:00",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q\n%s", check, result)
		}
	}
	if !strings.HasPrefix(result, "# ") {
		t.Errorf("expected a top-level heading, got %q", result[:20])
	}
}

func TestMarkdownFormatter_Rotation(t *testing.T) {
	s := NewBuilder().WithProbe(mp4probe.Info{Width: 1920, Height: 1080, Rotation: 90}).Build()
	if s.Stream.Rotation != 90 {
		t.Fatalf("expected rotation copied from the stream, got %d", s.Stream.Rotation)
	}
	if result := NewMarkdownFormatter().Format(s); !strings.Contains(result, "| 90° |") {
		t.Errorf("expected rotation row\n%s", result)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(*Summary) string { return "report" }), fs)

	if err := w.Write("out/summary.md", sampleSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, ok := fs.GetFile("out/summary.md")
	if !ok {
		t.Fatal("expected summary file to be written")
	}
	if string(data) != "report" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(string, []byte) error { return errors.New("disk full") }
	w := NewWriter(NewMarkdownFormatter(), fs)

	if err := w.Write("summary.md", sampleSummary()); err == nil {
		t.Error("expected write error")
	}
}
