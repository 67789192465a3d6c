// Package terminal implements a Presenter that renders the visible
// frame into a tcell character grid. Terminals never report key
// releases, so held buttons are synthesized: a key event presses the
// button and a short timeout releases it again.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kenballus/gb/backend"
	"github.com/kenballus/gb/memory"
)

// keyHoldDuration is how long a button stays pressed after its key event
// before a synthetic release is emitted.
const keyHoldDuration = 150 * time.Millisecond

// shadeRunes maps the four DMG shades to terminal cells, lightest color
// index first (index 0 is the lightest shade on a DMG panel).
var shadeRunes = [4]rune{' ', '░', '▒', '█'}

// Backend renders frames with tcell and translates key events into
// button presses.
type Backend struct {
	screen tcell.Screen
	config backend.Config
	events chan tcell.Event

	lastPress map[memory.Button]time.Time
	held      map[memory.Button]bool
}

// New returns an uninitialized terminal backend.
func New() *Backend {
	return &Backend{
		lastPress: make(map[memory.Button]time.Time),
		held:      make(map[memory.Button]bool),
	}
}

func (t *Backend) Init(config backend.Config) error {
	t.config = config

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: initializing screen: %w", err)
	}
	t.screen = screen

	// PollEvent blocks, so it runs on its own goroutine; the channel is
	// drained inside Present, which keeps all emulator mutation on the
	// main loop's goroutine.
	t.events = make(chan tcell.Event, 32)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(t.events)
				return
			}
			t.events <- ev
		}
	}()

	return nil
}

func (t *Backend) Present(frame backend.FrameSource, origin backend.Origin) ([]backend.InputEvent, error) {
	events, quit := t.drainInput()
	if quit {
		return events, backend.ErrQuit
	}

	style := tcell.StyleDefault
	for y := 0; y < backend.VisibleHeight; y++ {
		for x := 0; x < backend.VisibleWidth; x++ {
			shade := frame.Get(int(origin.SCX)+x, int(origin.SCY)+y)
			t.screen.SetContent(x, y, shadeRunes[shade&0x03], nil, style)
		}
	}
	if t.config.StatusLine != "" {
		for i, r := range t.config.StatusLine {
			t.screen.SetContent(i, backend.VisibleHeight, r, nil, style.Reverse(true))
		}
	}
	t.screen.Show()

	return events, nil
}

func (t *Backend) Close() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// drainInput consumes pending tcell events, emits Press events for
// mapped keys, and Release events for buttons whose hold window expired.
func (t *Backend) drainInput() ([]backend.InputEvent, bool) {
	var out []backend.InputEvent
	now := time.Now()

	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return out, true
			}
			key, isKey := ev.(*tcell.EventKey)
			if !isKey {
				continue
			}
			if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC || key.Rune() == 'q' {
				return out, true
			}
			btn, mapped := mapKey(key)
			if !mapped {
				continue
			}
			t.lastPress[btn] = now
			if !t.held[btn] {
				t.held[btn] = true
				out = append(out, backend.InputEvent{Button: btn, Type: backend.Press})
			}
		default:
			for btn := range t.held {
				if now.Sub(t.lastPress[btn]) > keyHoldDuration {
					delete(t.held, btn)
					out = append(out, backend.InputEvent{Button: btn, Type: backend.Release})
				}
			}
			return out, false
		}
	}
}

func mapKey(ev *tcell.EventKey) (memory.Button, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return memory.ButtonUp, true
	case tcell.KeyDown:
		return memory.ButtonDown, true
	case tcell.KeyLeft:
		return memory.ButtonLeft, true
	case tcell.KeyRight:
		return memory.ButtonRight, true
	case tcell.KeyEnter:
		return memory.ButtonStart, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return memory.ButtonSelect, true
	}
	switch ev.Rune() {
	case 'z', 'Z':
		return memory.ButtonA, true
	case 'x', 'X':
		return memory.ButtonB, true
	}
	return 0, false
}
