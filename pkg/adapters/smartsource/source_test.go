package smartsource

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/vidplay/pkg/adapters/cvsource"
	"github.com/user/vidplay/pkg/adapters/ffmpegsource"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", BackendAuto, false},
		{"auto", BackendAuto, false},
		{"ffmpeg", BackendFFmpeg, false},
		{"opencv", BackendOpenCV, false},
		{"gstreamer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackend(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownBackend) {
					t.Errorf("expected ErrUnknownBackend, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := Open("clip.mp4", Options{Backend: "vlc"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestOpen_OpenCVUnavailable(t *testing.T) {
	if cvsource.Compiled {
		t.Skip("built with opencv")
	}
	_, _, err := Open("clip.mp4", Options{Backend: BackendOpenCV})
	if !errors.Is(err, cvsource.ErrUnavailable) {
		t.Errorf("expected cvsource.ErrUnavailable, got %v", err)
	}
}

func TestOpen_FFmpegNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "ffmpeg")

	for _, backend := range []Backend{BackendFFmpeg, BackendAuto} {
		if backend == BackendAuto && cvsource.Compiled {
			continue
		}
		_, _, err := Open("clip.mp4", Options{Backend: backend, FFmpegPath: missing})
		if !errors.Is(err, ffmpegsource.ErrFFmpegNotFound) {
			t.Errorf("%s: expected ErrFFmpegNotFound, got %v", backend, err)
		}
	}
}
