package gb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kenballus/gb/addr"
	"github.com/kenballus/gb/memory"
	"github.com/kenballus/gb/video"
)

// jrLoop is an infinite `JR -2` at 0x100, enough program to drive the
// clock without ever leaving ROM.
func jrLoop() []byte {
	rom := make([]byte, 0x150)
	rom[0x100] = 0x18
	rom[0x101] = 0xFE
	return rom
}

func TestInitializeState(t *testing.T) {
	g := New()
	s := g.Snapshot()

	assert.Equal(t, uint8(0x01), s.A)
	assert.Equal(t, uint8(0xB0), s.F)
	assert.Equal(t, uint8(0x00), s.B)
	assert.Equal(t, uint8(0x13), s.C)
	assert.Equal(t, uint8(0x00), s.D)
	assert.Equal(t, uint8(0xD8), s.E)
	assert.Equal(t, uint8(0x01), s.H)
	assert.Equal(t, uint8(0x4D), s.L)
	assert.Equal(t, uint16(0xFFFE), s.SP)
	assert.Equal(t, uint16(0x0100), s.PC)
	assert.False(t, s.IME)
	assert.Equal(t, video.ModeSearching, s.Mode)

	assert.Equal(t, uint8(0x91), g.bus.Read(addr.LCDC))
	assert.Equal(t, uint8(0x81), g.bus.Read(addr.STAT))
	assert.Equal(t, uint8(0x91), g.bus.Read(addr.LY))
	assert.Equal(t, uint8(0xFC), g.bus.Read(addr.BGP))
	assert.Equal(t, uint8(0xE1), g.bus.Read(addr.IF))
	assert.Equal(t, uint8(0xFF), g.bus.Read(addr.DMA))
	assert.Equal(t, uint8(0xF8), g.bus.Read(addr.TAC))
	assert.Equal(t, uint8(0x18), g.bus.Read(addr.DIV))
}

func TestWaitDrainsOwedCycles(t *testing.T) {
	g, err := NewWithROM(jrLoop())
	assert.NoError(t, err)

	for i := 0; i < 100; i++ {
		g.Step()
		g.Wait()
		assert.Zero(t, g.cpu.CyclesToWait(), "cycles_to_wait after Wait")
	}
}

func TestDMAChargeDrainedByWait(t *testing.T) {
	g := New()
	g.bus.Write(addr.DMA, 0xC0)

	div := g.bus.Read(addr.DIV)
	g.Wait()

	// 160 owed cycles tick the timer, so DIV (one bump per 64 cycles)
	// advances twice.
	assert.Equal(t, div+2, g.bus.Read(addr.DIV))
	assert.Zero(t, g.cpu.CyclesToWait())
}

func TestFrameModeSequence(t *testing.T) {
	g, err := NewWithROM(jrLoop())
	assert.NoError(t, err)
	g.bus.Write(addr.IF, 0)

	transitions := map[video.Mode]int{}
	prev := g.Mode()
	for g.Mode() != video.ModeVBlank {
		g.Step()
		g.Wait()
		if m := g.Mode(); m != prev {
			transitions[m]++
			prev = m
		}
	}

	assert.Equal(t, 144, transitions[video.ModeTransferring])
	assert.Equal(t, 144, transitions[video.ModeHBlank])
	assert.Equal(t, 143, transitions[video.ModeSearching], "lines 1-143 re-enter OAM search")
	assert.Equal(t, 1, transitions[video.ModeVBlank])
	assert.Equal(t, uint8(0x01), g.bus.Read(addr.IF)&0x01, "VBlank interrupt raised")
}

func TestRunUntilFrameCountsFrames(t *testing.T) {
	g, err := NewWithROM(jrLoop())
	assert.NoError(t, err)

	g.RunUntilFrame()
	g.RunUntilFrame()

	assert.Equal(t, uint64(2), g.FrameCount())
}

func TestLCDDisableFreezesPPU(t *testing.T) {
	g, err := NewWithROM(jrLoop())
	assert.NoError(t, err)
	g.bus.Write(addr.LCDC, 0x11) // LCD off

	mode := g.Mode()
	for i := 0; i < 1000; i++ {
		g.Step()
		g.Wait()
	}

	assert.Equal(t, mode, g.Mode(), "PPU must not advance while LCDC bit 7 is clear")
}

func TestEchoRAMThroughCore(t *testing.T) {
	g := New()
	g.bus.Write(0xC100, 0x5A)
	assert.Equal(t, uint8(0x5A), g.bus.Read(0xE100))

	for a := uint16(0xE000); a < 0xF000; a += 0x101 {
		assert.Equal(t, g.bus.Read(a-0x2000), g.bus.Read(a))
	}
}

func TestPressButtonRaisesJoypadInterrupt(t *testing.T) {
	g := New()
	g.bus.Write(addr.IF, 0)

	g.PressButton(memory.ButtonA)
	assert.Equal(t, uint8(0x10), g.bus.Read(addr.IF)&0x10)

	g.ReleaseButton(memory.ButtonA)
	g.bus.Write(addr.P1, 0x10) // select action row
	assert.Equal(t, uint8(0x0F), g.bus.Read(addr.P1)&0x0F, "all buttons read released")
}

func TestJoypadTopBitsInvariant(t *testing.T) {
	g := New()
	for _, sel := range []byte{0x00, 0x10, 0x20, 0x30} {
		g.bus.Write(addr.P1, sel)
		assert.Equal(t, uint8(0xC0), g.bus.Read(addr.P1)&0xC0, "P1 bits 6-7 always read 1")
	}
}

func TestGetOrigin(t *testing.T) {
	g := New()
	g.bus.Write(addr.SCY, 0x42)
	g.bus.Write(addr.SCX, 0x17)

	scy, scx := g.GetOrigin()
	assert.Equal(t, uint8(0x42), scy)
	assert.Equal(t, uint8(0x17), scx)
}

func TestDumpTracesMemoryAtPC(t *testing.T) {
	rom := jrLoop()
	rom[0x100], rom[0x101], rom[0x102], rom[0x103] = 0xAA, 0xBB, 0xCC, 0xDD
	g, err := NewWithROM(rom)
	assert.NoError(t, err)

	assert.True(t, strings.HasSuffix(g.Dump(), "PCMEM:AA,BB,CC,DD"), "got %q", g.Dump())
	assert.True(t, strings.HasPrefix(g.Dump(), "A:01 F:B0"))
}

func TestSerialSinkThroughBus(t *testing.T) {
	g := New()
	g.bus.Write(addr.IF, 0)

	g.bus.Write(addr.SB, 'P')
	g.bus.Write(addr.SC, 0x81)

	assert.Equal(t, "P", g.SerialOutput())
	assert.Equal(t, uint8(0x08), g.bus.Read(addr.IF)&0x08, "serial interrupt raised on completion")
	assert.Zero(t, g.bus.Read(addr.SC)&0x80, "start bit cleared")
	assert.Equal(t, uint8(0xFF), g.bus.Read(addr.SB), "SB reads back idle line")
}

func TestNewWithROMRejectsTruncatedImage(t *testing.T) {
	_, err := NewWithROM(make([]byte, 0x100))
	assert.Error(t, err)
}
