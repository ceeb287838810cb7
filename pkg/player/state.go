package player

import (
	"math"

	"github.com/user/vidplay/pkg/ports"
)

// NoSeek marks an Action that leaves the source position unchanged.
const NoSeek = -1

// State is the playback state carried across loop iterations.
type State struct {
	// Delay is the inter-frame wait in milliseconds. 0 means paused.
	Delay int
	// Index is the source position after the last read.
	Index int
	// OK reports whether the last read produced a frame.
	OK bool
}

// Playing reports whether the state auto-advances.
func (s State) Playing() bool {
	return s.Delay > 0
}

// Action tells the run loop what to do after a key poll.
type Action struct {
	// Resume ends the key wait and continues with the next read.
	Resume bool
	// Seek is the frame to seek to before the next read, or NoSeek.
	Seek int
	// Quit terminates playback.
	Quit bool
}

var wait = Action{Seek: NoSeek}

// PlayDelay returns the auto-advance delay for a frame rate, in milliseconds.
// It never returns 0 so that playback cannot be mistaken for pause.
func PlayDelay(fps float64) int {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 1
	}
	d := int(math.Round(1000 / fps))
	if d < 1 {
		d = 1
	}
	return d
}

// HandleKey applies a key press to the playback state.
//
// Toggle flips between paused and playing and rewinds to frame 0 once the
// stream has been read to the end. Step back seeks two frames behind the
// current position because the read that produced the visible frame already
// advanced it by one; the target is clamped at 0. KeyNone is a poll timeout.
func HandleKey(key ports.Key, s State, frameCount int, fps float64) (State, Action) {
	switch key {
	case ports.KeySpace:
		if s.Playing() {
			s.Delay = 0
		} else {
			s.Delay = PlayDelay(fps)
		}
		seek := NoSeek
		if s.Index >= frameCount {
			seek = 0
		}
		return s, Action{Resume: true, Seek: seek}

	case ports.KeyLeft:
		s.Delay = 0
		return s, Action{Resume: true, Seek: max(s.Index-2, 0)}

	case ports.KeyRight:
		s.Delay = 0
		return s, Action{Resume: true, Seek: NoSeek}

	case ports.KeyDown:
		s.Delay = 0
		return s, Action{Resume: true, Seek: 0}

	case ports.KeyUp:
		s.Delay = 0
		return s, Action{Resume: true, Seek: max(frameCount-1, 0)}

	case ports.KeyEscape:
		return s, Action{Quit: true, Seek: NoSeek}
	}

	// Unbound key or timeout: keep waiting while paused, advance while playing.
	if s.Playing() {
		return s, Action{Resume: true, Seek: NoSeek}
	}
	return s, wait
}
