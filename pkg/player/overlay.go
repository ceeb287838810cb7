package player

import (
	"fmt"
	"image"
	"image/color"

	"github.com/user/vidplay/pkg/clock"
	"github.com/user/vidplay/pkg/ports"
)

// Overlay holds the immutable style of the status readout.
type Overlay struct {
	FontSize   float64
	FontPath   string
	Padding    int
	Foreground color.Color
	Background color.Color
}

// DefaultOverlay returns white text on an opaque black box.
func DefaultOverlay() Overlay {
	return Overlay{
		FontSize:   24,
		Padding:    10,
		Foreground: color.White,
		Background: color.Black,
	}
}

// StatusText formats the readout as "HH:MM:SS.mmm (III/TTT) F.F FPS".
func StatusText(positionMs float64, index, total int, fps float64) string {
	return fmt.Sprintf("%s (%03d/%03d) %.1f FPS", clock.Format(positionMs), index, total, fps)
}

// Draw composes text onto a copy of img: a background box anchored at the
// top-left corner sized to the text metrics plus padding, and the text inset
// by the padding.
func (o Overlay) Draw(r ports.Renderer, img image.Image, text string) image.Image {
	canvas := r.CanvasFrom(img)
	style := ports.TextStyle{
		FontSize: o.FontSize,
		FontPath: o.FontPath,
		Color:    o.Foreground,
	}

	w, h := canvas.MeasureText(text, style)
	canvas.DrawRect(0, 0, int(w)+2*o.Padding, int(h)+2*o.Padding, o.Background)
	canvas.DrawText(text, o.Padding, o.Padding, style)

	return canvas.ToImage()
}
