// Package transform provides ready-made frame callbacks for the player.
package transform

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"
)

// Func rewrites a frame. It has the same shape as player.Transform.
type Func = func(image.Image) image.Image

// ErrUnknown is returned by ByName for unregistered transform names.
var ErrUnknown = errors.New("transform: unknown transform")

var registry = map[string]Func{
	"none":      nil,
	"grayscale": Grayscale,
	"invert":    Invert,
}

// Names returns the registered transform names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName looks up a transform. "none" and "" yield a nil Func.
func ByName(name string) (Func, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return fn, nil
}

// Identity returns img unchanged.
func Identity(img image.Image) image.Image {
	return img
}

// Grayscale converts img to 8-bit luma.
func Grayscale(img image.Image) image.Image {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// Invert returns the color negative of img.
func Invert(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255 - out.Pix[i]
		out.Pix[i+1] = 255 - out.Pix[i+1]
		out.Pix[i+2] = 255 - out.Pix[i+2]
	}
	return out
}

// Chain applies fns in order, skipping nil entries.
func Chain(fns ...Func) Func {
	return func(img image.Image) image.Image {
		for _, fn := range fns {
			if fn != nil {
				img = fn(img)
			}
		}
		return img
	}
}
