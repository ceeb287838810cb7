// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/user/vidplay/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
// Font faces are cached by path and size.
type Renderer struct {
	mu    sync.Mutex
	mono  *truetype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	path string
	size float64
}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{faces: make(map[faceKey]font.Face)}
}

// CanvasFrom creates a canvas holding a copy of img.
func (r *Renderer) CanvasFrom(img image.Image) ports.Canvas {
	return &Canvas{dc: gg.NewContextForImage(img), renderer: r}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// face returns the font face for a style, falling back to Go Mono when the
// requested font file cannot be loaded.
func (r *Renderer) face(style ports.TextStyle) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := faceKey{path: style.FontPath, size: style.FontSize}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}

	if style.FontPath != "" {
		if f, err := gg.LoadFontFace(style.FontPath, style.FontSize); err == nil {
			r.faces[key] = f
			return f, nil
		}
	}

	if r.mono == nil {
		mono, err := truetype.Parse(gomono.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse Go Mono: %w", err)
		}
		r.mono = mono
	}
	f := truetype.NewFace(r.mono, &truetype.Options{Size: style.FontSize})
	r.faces[key] = f
	return f, nil
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context.
type Canvas struct {
	dc       *gg.Context
	renderer *Renderer
}

// DrawRect draws a filled rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawText draws text with its top-left corner at (x, y).
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.useFace(style)
	c.dc.SetColor(style.Color)
	c.dc.DrawStringAnchored(text, float64(x), float64(y), 0, 1)
}

// MeasureText returns the width and height of the text.
func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	c.useFace(style)
	return c.dc.MeasureString(text)
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

func (c *Canvas) useFace(style ports.TextStyle) {
	if style.FontSize <= 0 {
		return
	}
	if f, err := c.renderer.face(style); err == nil {
		c.dc.SetFontFace(f)
	}
}

var _ ports.Canvas = (*Canvas)(nil)
