package player

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/user/vidplay/pkg/mocks"
	"github.com/user/vidplay/pkg/ports"
)

func newTestPlayer(src *mocks.VideoSource, win *mocks.DisplaySurface) (*Player, *mocks.Renderer) {
	r := &mocks.Renderer{}
	p := New("/videos/clip.mp4", src, win, Options{Renderer: r})
	return p, r
}

// grayOf returns the gray level of the bottom-right pixel, which the overlay never covers.
func grayOf(img image.Image) int {
	b := img.Bounds()
	r, _, _, _ := img.At(b.Max.X-1, b.Max.Y-1).RGBA()
	return int(r >> 8)
}

func shownFrames(win *mocks.DisplaySurface) []int {
	var frames []int
	for _, img := range win.Shown {
		frames = append(frames, grayOf(img))
	}
	return frames
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_SetsTitleAndSize(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	win := mocks.NewDisplaySurface()

	New("/videos/clip.mp4", src, win, Options{Title: "Review"})

	if len(win.Titles) != 1 || win.Titles[0] != "clip.mp4 - Review" {
		t.Errorf("unexpected titles %v", win.Titles)
	}
	if len(win.Resizes) != 1 || win.Resizes[0] != [2]int{64, 48} {
		t.Errorf("expected window sized to 64x48, got %v", win.Resizes)
	}
}

func TestWindowTitle_Default(t *testing.T) {
	if got := WindowTitle("a/b/movie.mkv", ""); got != "movie.mkv - Video Player" {
		t.Errorf("unexpected title %q", got)
	}
}

func TestOpen(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	win := mocks.NewDisplaySurface()

	var gotW, gotH int
	p, err := Open("clip.mp4", Options{},
		func(path string) (ports.VideoSource, error) { return src, nil },
		func(w, h int) (ports.DisplaySurface, error) {
			gotW, gotH = w, h
			return win, nil
		},
	)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if p.Source() != src || p.Window() != win {
		t.Error("expected player to keep the opened source and window")
	}
	if gotW != 64 || gotH != 48 {
		t.Errorf("expected window opened at 64x48, got %dx%d", gotW, gotH)
	}
	if win.Titles[0] != "clip.mp4 - Video Player" {
		t.Errorf("unexpected title %q", win.Titles[0])
	}
}

func TestOpen_SourceError(t *testing.T) {
	decodeErr := errors.New("moov box missing")
	windowOpened := false

	_, err := Open("broken.mp4", Options{},
		func(path string) (ports.VideoSource, error) { return nil, decodeErr },
		func(w, h int) (ports.DisplaySurface, error) {
			windowOpened = true
			return mocks.NewDisplaySurface(), nil
		},
	)
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if !errors.Is(err, decodeErr) {
		t.Errorf("expected the cause to be wrapped, got %v", err)
	}
	if windowOpened {
		t.Error("window must not be created when the source fails")
	}
}

func TestOpen_WindowErrorReleasesSource(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	_, err := Open("clip.mp4", Options{},
		func(path string) (ports.VideoSource, error) { return src, nil },
		func(w, h int) (ports.DisplaySurface, error) { return nil, errors.New("no display") },
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if src.CloseCount != 1 {
		t.Errorf("expected source closed once, got %d", src.CloseCount)
	}
}

func TestResize(t *testing.T) {
	win := mocks.NewDisplaySurface()
	p, _ := newTestPlayer(mocks.NewVideoSource(10, 25), win)

	p.Resize(720, 480)
	win.Hide()
	p.Resize(1280, 720)

	want := [][2]int{{64, 48}, {720, 480}}
	if len(win.Resizes) != len(want) {
		t.Fatalf("expected resizes %v, got %v", want, win.Resizes)
	}
	for i := range want {
		if win.Resizes[i] != want[i] {
			t.Errorf("resize %d: expected %v, got %v", i, want[i], win.Resizes[i])
		}
	}
}

func TestPrep(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	win := mocks.NewDisplaySurface()
	p, _ := newTestPlayer(src, win)
	src.Seek(5)

	var got image.Image
	p.Prep(func(img image.Image) { got = img })

	if got == nil {
		t.Fatal("expected first frame")
	}
	if grayOf(got) != 0 {
		t.Errorf("expected frame 0, got frame %d", grayOf(got))
	}
	if len(win.Shown) != 0 {
		t.Error("Prep must not display the frame")
	}
}

func TestPrep_ReadFailure(t *testing.T) {
	src := mocks.NewVideoSource(0, 25)
	p, _ := newTestPlayer(src, mocks.NewDisplaySurface())

	called := false
	p.Prep(func(img image.Image) {
		called = true
		if img != nil {
			t.Error("expected nil frame on read failure")
		}
	})
	if !called {
		t.Error("callback must be invoked even when the read fails")
	}
}

func TestRun_StartPausedAtOffset(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface()
	p, r := newTestPlayer(src, win)

	start := 1000.0
	if err := p.Run(context.Background(), nil, &start); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	texts := r.Texts()
	if len(texts) != 1 {
		t.Fatalf("expected one rendered overlay, got %d", len(texts))
	}
	if !strings.HasPrefix(texts[0], "00:00:01.000 (026/100) ") {
		t.Errorf("unexpected overlay %q", texts[0])
	}
	if win.Timeouts[0] != 0 {
		t.Errorf("expected playback to start paused, first poll timeout %d", win.Timeouts[0])
	}
	if src.CloseCount != 1 {
		t.Errorf("expected source released once, got %d", src.CloseCount)
	}
}

func TestRun_TogglePlayback(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface(ports.KeySpace, ports.KeyNone, ports.KeyNone, ports.KeySpace)
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if want := []int{0, 40, 40, 40, 0}; !equalInts(win.Timeouts, want) {
		t.Errorf("expected poll timeouts %v, got %v", want, win.Timeouts)
	}
	if want := []int{0, 1, 2, 3, 4}; !equalInts(shownFrames(win), want) {
		t.Errorf("expected frames %v, got %v", want, shownFrames(win))
	}
}

func TestRun_StepBackAndForward(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface(ports.KeyRight, ports.KeyRight, ports.KeyLeft, ports.KeyRight)
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if want := []int{0, 1, 2, 1, 2}; !equalInts(shownFrames(win), want) {
		t.Errorf("expected frames %v, got %v", want, shownFrames(win))
	}
	if want := []int{1}; !equalInts(src.SeekCalls, want) {
		t.Errorf("expected seeks %v, got %v", want, src.SeekCalls)
	}
}

func TestRun_StepBackAtStartClamps(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface(ports.KeyLeft)
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if want := []int{0}; !equalInts(src.SeekCalls, want) {
		t.Errorf("expected seek to 0, got %v", src.SeekCalls)
	}
	if want := []int{0, 0}; !equalInts(shownFrames(win), want) {
		t.Errorf("expected frame 0 twice, got %v", shownFrames(win))
	}
}

func TestRun_JumpToEndThenPlayRewinds(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface(ports.KeyUp, ports.KeySpace)
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if want := []int{99, 0}; !equalInts(src.SeekCalls, want) {
		t.Errorf("expected seeks %v, got %v", want, src.SeekCalls)
	}
	if want := []int{0, 99, 0}; !equalInts(shownFrames(win), want) {
		t.Errorf("expected frames %v, got %v", want, shownFrames(win))
	}
	if want := []int{0, 0, 40}; !equalInts(win.Timeouts, want) {
		t.Errorf("expected timeouts %v, got %v", want, win.Timeouts)
	}
}

func TestRun_JumpToStart(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface(ports.KeyRight, ports.KeyRight, ports.KeyDown)
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if want := []int{0, 1, 2, 0}; !equalInts(shownFrames(win), want) {
		t.Errorf("expected frames %v, got %v", want, shownFrames(win))
	}
}

func TestRun_EndOfStreamPauses(t *testing.T) {
	src := mocks.NewVideoSource(3, 3)
	win := mocks.NewDisplaySurface(ports.KeySpace, ports.KeyNone, ports.KeyNone, ports.KeySpace)
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if want := []int{0, 333, 333, 0, 333}; !equalInts(win.Timeouts, want) {
		t.Errorf("expected timeouts %v, got %v", want, win.Timeouts)
	}
	if want := []int{0, 1, 2, 0}; !equalInts(shownFrames(win), want) {
		t.Errorf("expected frames %v, got %v", want, shownFrames(win))
	}
	if want := []int{0}; !equalInts(src.SeekCalls, want) {
		t.Errorf("expected rewind seek, got %v", src.SeekCalls)
	}
}

func TestRun_UnboundKeysKeepWaiting(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface(ports.KeyOther, ports.KeyOther, ports.KeyRight)
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if src.ReadCount != 2 {
		t.Errorf("expected 2 reads, got %d", src.ReadCount)
	}
	if want := []int{0, 0, 0, 0}; !equalInts(win.Timeouts, want) {
		t.Errorf("expected timeouts %v, got %v", want, win.Timeouts)
	}
}

func TestRun_EscapeQuits(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface(ports.KeyEscape, ports.KeyRight)
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(win.Shown) != 1 {
		t.Errorf("expected 1 frame shown, got %d", len(win.Shown))
	}
	if len(win.Keys) != 1 {
		t.Error("expected remaining keys to be left unread")
	}
	if src.CloseCount != 1 {
		t.Errorf("expected source released, got %d closes", src.CloseCount)
	}
}

func TestRun_WindowClosedBeforeStart(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface()
	p, _ := newTestPlayer(src, win)
	win.Hide()

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if src.ReadCount != 0 {
		t.Errorf("expected no reads, got %d", src.ReadCount)
	}
	if src.CloseCount != 1 {
		t.Errorf("expected source released, got %d closes", src.CloseCount)
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface(ports.KeyRight)
	p, _ := newTestPlayer(src, win)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Run(ctx, nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if src.ReadCount != 0 {
		t.Errorf("expected no reads after cancel, got %d", src.ReadCount)
	}
}

func TestRun_AppliesCallback(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	win := mocks.NewDisplaySurface()
	p, _ := newTestPlayer(src, win)

	calls := 0
	callback := func(img image.Image) image.Image {
		calls++
		b := img.Bounds()
		return mocks.FrameImage(b.Dx(), b.Dy(), 200)
	}

	if err := p.Run(context.Background(), callback, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected callback once, got %d", calls)
	}
	if want := []int{200}; !equalInts(shownFrames(win), want) {
		t.Errorf("expected transformed frame, got %v", shownFrames(win))
	}
}

func TestRun_MeasuresCallbackRate(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	win := mocks.NewDisplaySurface()
	r := &mocks.Renderer{}

	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(10 * time.Millisecond)
		return now
	}
	p := New("clip.mp4", src, win, Options{Renderer: r, Now: clock})

	if err := p.Run(context.Background(), func(img image.Image) image.Image { return img }, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	texts := r.Texts()
	if len(texts) != 1 || !strings.HasSuffix(texts[0], " 100.0 FPS") {
		t.Errorf("expected 100.0 FPS readout, got %v", texts)
	}
}

func TestRun_WithoutRendererShowsRawFrame(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	win := mocks.NewDisplaySurface()
	p := New("clip.mp4", src, win, Options{})

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(win.Shown) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(win.Shown))
	}
	if r, _, _, _ := win.Shown[0].At(0, 0).RGBA(); r != 0 {
		t.Error("expected untouched frame without overlay")
	}
}

func TestRun_SavesDebugFrames(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	win := mocks.NewDisplaySurface(ports.KeyRight)
	sink := mocks.NewDebugSink(true)
	p := New("clip.mp4", src, win, Options{Renderer: &mocks.Renderer{}, Sink: sink})

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(sink.Frames) != 2 {
		t.Fatalf("expected 2 saved frames, got %d", len(sink.Frames))
	}
	if _, ok := sink.Frames[1]; !ok {
		t.Error("expected frame saved under its position index")
	}
}

func TestRun_ShowError(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	win := mocks.NewDisplaySurface()
	win.ShowErr = errors.New("texture lost")
	p, _ := newTestPlayer(src, win)

	err := p.Run(context.Background(), nil, nil)
	if err == nil || !errors.Is(err, win.ShowErr) {
		t.Fatalf("expected show error, got %v", err)
	}
	if src.CloseCount != 1 {
		t.Errorf("expected source released on error, got %d closes", src.CloseCount)
	}
}

func TestRun_WindowClosedDuringPlayback(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface()

	var shown []int
	win.ShowFunc = func(img image.Image) error {
		shown = append(shown, grayOf(img))
		return nil
	}
	polls := 0
	win.PollKeyFunc = func(timeoutMs int) ports.Key {
		polls++
		switch polls {
		case 1:
			return ports.KeySpace
		case 3:
			win.Hide()
		}
		return ports.KeyNone
	}
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if want := []int{0, 1, 2}; !equalInts(shown, want) {
		t.Errorf("expected frames %v, got %v", want, shown)
	}
	if want := []int{0, 40, 40}; !equalInts(win.Timeouts, want) {
		t.Errorf("expected poll timeouts %v, got %v", want, win.Timeouts)
	}
	if len(win.Shown) != 0 {
		t.Errorf("expected ShowFunc to replace recording, got %d frames", len(win.Shown))
	}
}

func TestRun_ShowErrorMidPlayback(t *testing.T) {
	src := mocks.NewVideoSource(100, 25)
	win := mocks.NewDisplaySurface(ports.KeySpace, ports.KeyNone, ports.KeyNone)

	lost := errors.New("renderer lost")
	calls := 0
	win.ShowFunc = func(img image.Image) error {
		calls++
		if calls == 2 {
			return lost
		}
		return nil
	}
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); !errors.Is(err, lost) {
		t.Fatalf("expected show error, got %v", err)
	}
	if src.ReadCount != 2 {
		t.Errorf("expected playback to stop at the failing frame, got %d reads", src.ReadCount)
	}
	if src.CloseCount != 1 {
		t.Errorf("expected source released on error, got %d closes", src.CloseCount)
	}
}

func TestClose(t *testing.T) {
	src := mocks.NewVideoSource(10, 25)
	win := mocks.NewDisplaySurface()
	p, _ := newTestPlayer(src, win)

	if err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if src.CloseCount != 1 {
		t.Errorf("expected source released exactly once, got %d", src.CloseCount)
	}
	if win.CloseCount != 1 {
		t.Errorf("expected window closed once, got %d", win.CloseCount)
	}
}
