package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/vidplay/pkg/mocks"
	"github.com/user/vidplay/pkg/ports"
)

var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.Renderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	if err := sink.SaveFrame(42, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}

	path := filepath.Join(testBaseDir, "frames", "frame-000042.png")
	if _, ok := fs.GetFile(path); !ok {
		t.Errorf("expected file at %s", path)
	}
	if ok, _ := fs.Exists(filepath.Join(testBaseDir, "frames")); !ok {
		t.Error("expected frames directory to be created")
	}
}

func TestSink_SaveFrameOverwrites(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	for _, idx := range []int{1, 2, 1} {
		if err := sink.SaveFrame(idx, img); err != nil {
			t.Fatalf("SaveFrame(%d) failed: %v", idx, err)
		}
	}
	if fs.FileCount() != 2 {
		t.Errorf("expected 2 files, got %d", fs.FileCount())
	}
}

func TestSink_EncodeError(t *testing.T) {
	encodeErr := errors.New("boom")
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, encodeErr
		},
	}
	sink := New(testBaseDir, mocks.NewFileSystem(), renderer)

	err := sink.SaveFrame(1, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, encodeErr) {
		t.Errorf("expected encode error, got %v", err)
	}
}
