// Package backend defines the seam a host implements to present frames
// and source button events. The core never imports a backend; the CLI
// picks one and shuttles events into the emulator between frames.
package backend

import (
	"errors"

	"github.com/kenballus/gb/memory"
)

// ErrQuit is returned by Present when the backend wants the emulation
// loop to stop: window closed, quit key pressed, or frame budget spent.
var ErrQuit = errors.New("backend: quit requested")

// Origin is the scroll origin returned by the core's GetOrigin, used to
// window the 256x256 framebuffer down to the visible 160x144 region.
type Origin struct {
	SCY uint8
	SCX uint8
}

// EventType distinguishes a button going down from a button coming up.
type EventType uint8

const (
	Press EventType = iota
	Release
)

// InputEvent is one button state change collected by a backend during
// Present. Events are applied between frames, never mid-instruction.
type InputEvent struct {
	Button memory.Button
	Type   EventType
}

// Config holds presenter configuration. Backends ignore fields they have
// no use for.
type Config struct {
	Title string
	Scale int // pixel scale for windowed backends

	// StatusLine is drawn by backends that have somewhere to put it
	// (cartridge title, frame counter).
	StatusLine string
}

// Presenter renders frames and collects input. Implementations:
// terminal (tcell), headless (batch/test), sdl2 (build tag "sdl2").
type Presenter interface {
	// Init configures the backend. Required before the first Present.
	Init(config Config) error

	// Present renders the visible window of the framebuffer at the given
	// origin and returns any input events collected since the last call.
	// Returning ErrQuit stops the emulation loop.
	Present(frame FrameSource, origin Origin) ([]InputEvent, error)

	// Close releases backend resources.
	Close() error
}

// FrameSource is the read side of the framebuffer a Presenter consumes.
type FrameSource interface {
	// Get returns the 2-bit color at (x, y), wrapping both axes.
	Get(x, y int) uint8
}

// VisibleWidth and VisibleHeight are the dimensions of the LCD's visible
// region of the framebuffer.
const (
	VisibleWidth  = 160
	VisibleHeight = 144
)
