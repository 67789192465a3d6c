//go:build !sdl2

// Stub for builds without the SDL2 development libraries. Build with
// -tags sdl2 to enable the real backend.
package sdl2

import (
	"fmt"

	"github.com/kenballus/gb/backend"
)

// Backend is the stub used when SDL2 is not compiled in.
type Backend struct{}

// New creates a stub SDL2 backend whose Init always fails.
func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	return fmt.Errorf("sdl2 backend not available - build with -tags sdl2 to enable")
}

func (s *Backend) Present(frame backend.FrameSource, origin backend.Origin) ([]backend.InputEvent, error) {
	return nil, fmt.Errorf("sdl2 backend not available")
}

func (s *Backend) Close() error {
	return nil
}
