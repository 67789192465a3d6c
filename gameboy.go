// Package gb wires the DMG core together: CPU, bus, PPU, timer and
// serial sink, plus the clock coordination that turns executed
// instructions into timer and PPU advancement.
package gb

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kenballus/gb/addr"
	"github.com/kenballus/gb/bit"
	"github.com/kenballus/gb/cpu"
	"github.com/kenballus/gb/memory"
	"github.com/kenballus/gb/serial"
	"github.com/kenballus/gb/video"
)

// GameBoy is the root struct and entry point for running the emulation.
type GameBoy struct {
	cpu    *cpu.CPU
	gpu    *video.GPU
	bus    *memory.Bus
	serial *serial.LogSink
	cart   *memory.Cartridge

	frameCount       uint64
	instructionCount uint64
}

// New returns a GameBoy with no cartridge loaded, registers and I/O at
// their post-boot values.
func New(serialOpts ...serial.Option) *GameBoy {
	bus := memory.NewBus()
	g := &GameBoy{bus: bus}

	g.serial = serial.NewLogSink(func() { bus.RequestInterrupt(addr.Serial) }, serialOpts...)
	bus.Serial = g.serial

	g.cpu = cpu.New(bus)
	bus.InterruptRequested = g.cpu.RequestInterruptRecheck

	g.gpu = video.NewGPU(bus)
	bus.SetPostBootIO()

	return g
}

// NewWithROM returns a GameBoy with the given ROM image loaded at 0x0000.
func NewWithROM(rom []byte, serialOpts ...serial.Option) (*GameBoy, error) {
	g := New(serialOpts...)

	cart, err := memory.NewCartridge(rom)
	if err != nil {
		return nil, err
	}
	g.cart = cart
	g.bus.LoadROM(cart.Data())

	slog.Info("loaded cartridge",
		"title", cart.Title(),
		"type", fmt.Sprintf("0x%02X", cart.Type()),
		"bytes", len(cart.Data()),
		"header_checksum_ok", cart.ValidHeaderChecksum())
	if cart.Type() != 0x00 {
		slog.Warn("cartridge requests an MBC; bank switching is not implemented, running as ROM-only",
			"type", fmt.Sprintf("0x%02X", cart.Type()))
	}

	return g, nil
}

// NewWithFile reads a ROM file and returns a GameBoy with it loaded.
func NewWithFile(path string, serialOpts ...serial.Option) (*GameBoy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gb: reading ROM: %w", err)
	}
	return NewWithROM(data, serialOpts...)
}

// Step executes one instruction (or one halted cycle).
func (g *GameBoy) Step() {
	g.cpu.Step()
	g.instructionCount++
}

// Wait drains the M-cycles owed by the last Step, advancing the timer
// every cycle and the PPU only while LCDC bit 7 reads set. The re-read
// per iteration is deliberate: a program that disables the LCD mid-drain
// freezes the PPU mid-frame.
func (g *GameBoy) Wait() {
	g.cpu.AddCyclesToWait(g.bus.TakeOwedCycles())
	for g.cpu.CyclesToWait() > 0 {
		g.cpu.ConsumeCycle()
		g.bus.Tick(1)
		if bit.IsSet(7, g.bus.Read(addr.LCDC)) {
			g.gpu.Tick(1)
		}
	}
}

// RunUntilFrame steps the emulation until the PPU enters VBlank, i.e.
// until the rasterizer has produced one complete frame.
func (g *GameBoy) RunUntilFrame() {
	for {
		wasVBlank := g.gpu.Mode() == video.ModeVBlank
		g.Step()
		g.Wait()
		if !wasVBlank && g.gpu.Mode() == video.ModeVBlank {
			g.frameCount++
			return
		}
	}
}

// PressButton sets the button's electrical level to 0 (pressed) and
// raises the Joypad interrupt.
func (g *GameBoy) PressButton(btn memory.Button) {
	g.bus.Joypad.Press(btn)
}

// ReleaseButton sets the button's electrical level back to 1 (released).
func (g *GameBoy) ReleaseButton(btn memory.Button) {
	g.bus.Joypad.Release(btn)
}

// GetOrigin returns the current scroll origin (SCY, SCX): the top-left
// corner of the visible 160x144 window on the 256x256 framebuffer.
func (g *GameBoy) GetOrigin() (scy, scx uint8) {
	return g.bus.Read(addr.SCY), g.bus.Read(addr.SCX)
}

// FrameBuffer returns the PPU's 256x256 output surface.
func (g *GameBoy) FrameBuffer() *video.FrameBuffer {
	return g.gpu.FrameBuffer()
}

// Mode returns the PPU's current graphics mode.
func (g *GameBoy) Mode() video.Mode { return g.gpu.Mode() }

// Dump returns the one-line register trace:
// A:XX F:XX B:XX C:XX D:XX E:XX H:XX L:XX SP:XXXX PC:XXXX PCMEM:XX,XX,XX,XX
func (g *GameBoy) Dump() string { return g.cpu.Dump() }

// FrameCount returns the number of frames completed by RunUntilFrame.
func (g *GameBoy) FrameCount() uint64 { return g.frameCount }

// InstructionCount returns the number of Step calls so far.
func (g *GameBoy) InstructionCount() uint64 { return g.instructionCount }

// SerialOutput returns everything the program has written to the serial
// debug sink so far.
func (g *GameBoy) SerialOutput() string { return g.serial.Output() }

// LoadedTitle returns the title from the cartridge header, or "" when no
// cartridge is loaded.
func (g *GameBoy) LoadedTitle() string {
	if g.cart == nil {
		return ""
	}
	return g.cart.Title()
}

// CartridgeType returns the raw cartridge type byte from the header.
func (g *GameBoy) CartridgeType() byte {
	if g.cart == nil {
		return 0
	}
	return g.cart.Type()
}

// ValidHeaderChecksum reports whether the loaded cartridge's header
// checksum matches.
func (g *GameBoy) ValidHeaderChecksum() bool {
	return g.cart != nil && g.cart.ValidHeaderChecksum()
}

// Snapshot is the structured form of Dump's trace line, for presenters
// that want fields instead of a formatted string.
type Snapshot struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	Flags                  string
	IME                    bool
	Halted                 bool
	Mode                   video.Mode
}

// Snapshot captures the current CPU register file and PPU mode.
func (g *GameBoy) Snapshot() Snapshot {
	return Snapshot{
		A: g.cpu.A(), F: g.cpu.F(),
		B: g.cpu.B(), C: g.cpu.C(),
		D: g.cpu.D(), E: g.cpu.E(),
		H: g.cpu.H(), L: g.cpu.L(),
		SP: g.cpu.SP(), PC: g.cpu.PC(),
		Flags:  g.cpu.FlagString(),
		IME:    g.cpu.IME(),
		Halted: g.cpu.Halted(),
		Mode:   g.gpu.Mode(),
	}
}
