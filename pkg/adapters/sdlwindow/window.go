// Package sdlwindow provides a DisplaySurface backed by an SDL2 window.
//
// Every SDL call goes through pkg/thread so that window creation, rendering
// and event handling stay on the main OS thread.
package sdlwindow

import (
	"fmt"
	"image"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/draw"

	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/ports"
	"github.com/user/vidplay/pkg/thread"
)

// Options configures a Window.
type Options struct {
	Title  string
	Logger ports.Logger
}

// Window is an SDL window with an accelerated renderer and a streaming
// RGBA texture sized to the last frame shown.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texW     int
	texH     int
	frame    *image.RGBA
	visible  bool
	log      ports.Logger
}

// Open initializes SDL video and creates a resizable window.
func Open(width, height int, opts Options) (*Window, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}

	w := &Window{log: log}
	err := thread.CallErr(func() error {
		if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
			return fmt.Errorf("sdl init: %w", err)
		}

		window, err := sdl.CreateWindow(
			opts.Title,
			sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
			int32(max(width, 1)), int32(max(height, 1)),
			sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
		)
		if err != nil {
			sdl.Quit()
			return fmt.Errorf("create window: %w", err)
		}

		renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
		if err != nil {
			log.Debug("Accelerated renderer unavailable, using software: %s", err.Error())
			renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		}
		if err != nil {
			window.Destroy()
			sdl.Quit()
			return fmt.Errorf("create renderer: %w", err)
		}

		w.window = window
		w.renderer = renderer
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.visible = true
	log.Debug("Window opened: %dx%d", width, height)
	return w, nil
}

// Show uploads img to the streaming texture and presents it.
func (w *Window) Show(img image.Image) error {
	if !w.visible {
		return nil
	}
	frame := toRGBA(img, w.frame)
	w.frame = frame

	return thread.CallErr(func() error {
		if err := w.ensureTexture(frame.Rect.Dx(), frame.Rect.Dy()); err != nil {
			return err
		}
		if err := w.upload(frame); err != nil {
			return err
		}
		return w.present()
	})
}

// PollKey waits up to timeoutMs for a key press; 0 waits indefinitely.
// Quit and window-close events hide the surface and return KeyNone.
func (w *Window) PollKey(timeoutMs int) ports.Key {
	if !w.visible {
		return ports.KeyNone
	}

	var deadline time.Time
	if timeoutMs > 0 {
		deadline = time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	}

	for {
		var ev sdl.Event
		if timeoutMs > 0 {
			remaining := int(time.Until(deadline) / time.Millisecond)
			if remaining <= 0 {
				return ports.KeyNone
			}
			thread.Call(func() { ev = sdl.WaitEventTimeout(remaining) })
		} else {
			thread.Call(func() { ev = sdl.WaitEvent() })
		}
		if ev == nil {
			return ports.KeyNone
		}

		switch e := ev.(type) {
		case *sdl.QuitEvent:
			w.visible = false
			return ports.KeyNone
		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_CLOSE:
				w.visible = false
				return ports.KeyNone
			case sdl.WINDOWEVENT_EXPOSED, sdl.WINDOWEVENT_SIZE_CHANGED:
				thread.CallErr(w.present)
			}
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				return mapKey(e.Keysym.Sym)
			}
		case *sdl.UserEvent:
			return ports.KeyNone
		}
	}
}

// Interrupt wakes a blocked PollKey, which then returns KeyNone.
// It is safe to call from any goroutine.
func (w *Window) Interrupt() {
	sdl.PushEvent(&sdl.UserEvent{Type: sdl.USEREVENT})
}

// Visible reports whether the window is still open.
func (w *Window) Visible() bool {
	return w.visible
}

// Resize sets the window's client area size.
func (w *Window) Resize(width, height int) {
	if !w.visible || width <= 0 || height <= 0 {
		return
	}
	thread.Call(func() { w.window.SetSize(int32(width), int32(height)) })
}

// SetTitle sets the window caption.
func (w *Window) SetTitle(title string) {
	if !w.visible {
		return
	}
	thread.Call(func() { w.window.SetTitle(title) })
}

// Close destroys the window and shuts SDL down.
func (w *Window) Close() error {
	if w.window == nil {
		return nil
	}
	w.visible = false

	err := thread.CallErr(func() error {
		if w.texture != nil {
			w.texture.Destroy()
			w.texture = nil
		}
		w.renderer.Destroy()
		err := w.window.Destroy()
		w.window = nil
		sdl.Quit()
		return err
	})
	if err != nil {
		w.log.Warn("Failed to destroy window: %s", err.Error())
		return fmt.Errorf("destroy window: %w", err)
	}
	return nil
}

func (w *Window) ensureTexture(width, height int) error {
	if w.texture != nil && w.texW == width && w.texH == height {
		return nil
	}
	if w.texture != nil {
		w.texture.Destroy()
		w.texture = nil
	}

	texture, err := w.renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA32, sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height),
	)
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	w.texture = texture
	w.texW, w.texH = width, height

	// Letterbox instead of stretching when the window aspect differs.
	if err := w.renderer.SetLogicalSize(int32(width), int32(height)); err != nil {
		w.log.Debug("SetLogicalSize failed: %s", err.Error())
	}
	return nil
}

func (w *Window) upload(frame *image.RGBA) error {
	pixels, pitch, err := w.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("lock texture: %w", err)
	}
	rowBytes := frame.Rect.Dx() * 4
	for y := 0; y < frame.Rect.Dy(); y++ {
		src := frame.Pix[y*frame.Stride : y*frame.Stride+rowBytes]
		copy(pixels[y*pitch:y*pitch+rowBytes], src)
	}
	w.texture.Unlock()
	return nil
}

func (w *Window) present() error {
	if w.texture == nil {
		return nil
	}
	if err := w.renderer.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return fmt.Errorf("copy texture: %w", err)
	}
	w.renderer.Present()
	return nil
}

// toRGBA returns img as an *image.RGBA anchored at the origin, reusing buf
// when it has the right size.
func toRGBA(img image.Image, buf *image.RGBA) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	if buf == nil || buf.Rect.Dx() != b.Dx() || buf.Rect.Dy() != b.Dy() {
		buf = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(buf, buf.Rect, img, b.Min, draw.Src)
	return buf
}

// mapKey translates an SDL keycode into a player key.
func mapKey(sym sdl.Keycode) ports.Key {
	switch sym {
	case sdl.K_SPACE:
		return ports.KeySpace
	case sdl.K_LEFT:
		return ports.KeyLeft
	case sdl.K_RIGHT:
		return ports.KeyRight
	case sdl.K_UP:
		return ports.KeyUp
	case sdl.K_DOWN:
		return ports.KeyDown
	case sdl.K_ESCAPE:
		return ports.KeyEscape
	default:
		return ports.KeyOther
	}
}

var _ ports.DisplaySurface = (*Window)(nil)
