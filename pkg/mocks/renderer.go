package mocks

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/user/vidplay/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
// Every canvas it creates is kept in Canvases.
type Renderer struct {
	EncodeImageFunc func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)

	// CharWidth and LineHeight drive MeasureText.
	CharWidth  float64
	LineHeight float64

	Canvases []*Canvas
}

func (m *Renderer) CanvasFrom(img image.Image) ports.Canvas {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	c := &Canvas{img: rgba, charWidth: m.CharWidth, lineHeight: m.LineHeight}
	if c.charWidth == 0 {
		c.charWidth = 10
	}
	if c.lineHeight == 0 {
		c.lineHeight = 20
	}
	m.Canvases = append(m.Canvases, c)
	return c
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

// Texts returns every string drawn across all canvases, in order.
func (m *Renderer) Texts() []string {
	var texts []string
	for _, c := range m.Canvases {
		for _, t := range c.Texts {
			texts = append(texts, t.Text)
		}
	}
	return texts
}

var _ ports.Renderer = (*Renderer)(nil)

// TextCall records a DrawText call.
type TextCall struct {
	Text  string
	X, Y  int
	Style ports.TextStyle
}

// RectCall records a DrawRect call.
type RectCall struct {
	X, Y, W, H int
	Color      color.Color
}

// Canvas is a mock implementation of ports.Canvas.
// Rectangles are really filled so pixel checks work; text is only recorded.
type Canvas struct {
	img        *image.RGBA
	charWidth  float64
	lineHeight float64

	Texts []TextCall
	Rects []RectCall
}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {
	m.Rects = append(m.Rects, RectCall{X: x, Y: y, W: w, H: h, Color: c})
	draw.Draw(m.img, image.Rect(x, y, x+w, y+h), image.NewUniform(c), image.Point{}, draw.Src)
}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Texts = append(m.Texts, TextCall{Text: text, X: x, Y: y, Style: style})
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	return float64(len(text)) * m.charWidth, m.lineHeight
}

func (m *Canvas) ToImage() image.Image {
	return m.img
}

var _ ports.Canvas = (*Canvas)(nil)
