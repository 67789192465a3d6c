//go:build sdl2

// Package sdl2 implements a windowed Presenter over SDL2. Building it
// requires the SDL2 development libraries; default builds use the stub
// in stub.go instead (build tag "sdl2" enables this file).
package sdl2

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/kenballus/gb/backend"
	"github.com/kenballus/gb/memory"
)

const bytesPerPixel = 4

// shades are the four DMG grays, lightest color index first.
var shades = [4]byte{0xFF, 0x98, 0x4C, 0x00}

// Backend renders frames into a streamed SDL texture scaled up to the
// window size, and translates SDL key events into button events.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	config   backend.Config

	pixels []byte
	events []backend.InputEvent
	quit   bool
}

// New returns an uninitialized SDL2 backend.
func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	s.config = config
	scale := config.Scale
	if scale <= 0 {
		scale = 4
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl2: init: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(backend.VisibleWidth*scale), int32(backend.VisibleHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2: creating window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: creating renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		backend.VisibleWidth, backend.VisibleHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: creating texture: %w", err)
	}
	s.texture = texture
	s.pixels = make([]byte, backend.VisibleWidth*backend.VisibleHeight*bytesPerPixel)

	return nil
}

func (s *Backend) Present(frame backend.FrameSource, origin backend.Origin) ([]backend.InputEvent, error) {
	s.events = s.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		s.handleEvent(event)
	}
	if s.quit {
		return s.events, backend.ErrQuit
	}

	for y := 0; y < backend.VisibleHeight; y++ {
		for x := 0; x < backend.VisibleWidth; x++ {
			shade := shades[frame.Get(int(origin.SCX)+x, int(origin.SCY)+y)&0x03]
			i := (y*backend.VisibleWidth + x) * bytesPerPixel
			// ABGR byte order for little-endian RGBA8888
			s.pixels[i] = 0xFF
			s.pixels[i+1] = shade
			s.pixels[i+2] = shade
			s.pixels[i+3] = shade
		}
	}

	s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), backend.VisibleWidth*bytesPerPixel)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	return s.events, nil
}

func (s *Backend) Close() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *Backend) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		s.quit = true
	case *sdl.KeyboardEvent:
		if e.Keysym.Sym == sdl.K_ESCAPE {
			s.quit = true
			return
		}
		if e.Repeat != 0 {
			return
		}
		btn, ok := mapKey(e.Keysym.Sym)
		if !ok {
			return
		}
		evType := backend.Press
		if e.Type == sdl.KEYUP {
			evType = backend.Release
		}
		s.events = append(s.events, backend.InputEvent{Button: btn, Type: evType})
	}
}

func mapKey(sym sdl.Keycode) (memory.Button, bool) {
	switch sym {
	case sdl.K_UP:
		return memory.ButtonUp, true
	case sdl.K_DOWN:
		return memory.ButtonDown, true
	case sdl.K_LEFT:
		return memory.ButtonLeft, true
	case sdl.K_RIGHT:
		return memory.ButtonRight, true
	case sdl.K_z:
		return memory.ButtonA, true
	case sdl.K_x:
		return memory.ButtonB, true
	case sdl.K_RETURN:
		return memory.ButtonStart, true
	case sdl.K_BACKSPACE, sdl.K_RSHIFT:
		return memory.ButtonSelect, true
	}
	return 0, false
}
