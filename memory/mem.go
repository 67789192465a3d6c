// Package memory implements the DMG's flat memory-mapped address space:
// the bus dispatch rules (echo RAM, DMA, joypad, timer, serial, interrupt
// latches), the cartridge header reader, the timer, and the joypad.
package memory

import (
	"log/slog"

	"github.com/kenballus/gb/addr"
	"github.com/kenballus/gb/bit"
)

// SerialPort is the minimal interface for a device connected to SB/SC.
// Implementations only ever see reads/writes to addr.SB and addr.SC.
type SerialPort interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Bus is the DMG's 64 KiB address space plus the handful of components
// multiplexed onto it (timer, joypad, serial sink).
type Bus struct {
	data [0x10000]byte

	Timer  Timer
	Joypad *Joypad
	Serial SerialPort

	// owedCycles accumulates extra M-cycles a write incurred (currently
	// only OAM DMA) for the clock coordinator to fold into cycles_to_wait.
	owedCycles int

	// InterruptRequested is called whenever IF or IE is written, so the
	// coordinator can set need_to_do_interrupts.
	InterruptRequested func()
}

// NewBus returns a Bus with an empty address space and a fresh joypad.
func NewBus() *Bus {
	b := &Bus{Joypad: NewJoypad()}
	b.Joypad.JoypadInterruptHandler = func() { b.RequestInterrupt(addr.Joypad) }
	b.Timer.TimerInterruptHandler = func() { b.RequestInterrupt(addr.Timer) }
	return b
}

// LoadROM copies up to 65536 bytes of a cartridge image into the address
// space starting at 0x0000. Bytes past the 32 KiB ROM window are accepted
// but are never bank-switched.
func (b *Bus) LoadROM(rom []byte) {
	copy(b.data[:], rom)
}

func normalizeEcho(address uint16) uint16 {
	if address >= addr.EchoStart && address <= addr.EchoEnd {
		return address - addr.EchoOffset
	}
	return address
}

// Read returns the byte at address, after echo-RAM normalization and
// register synthesis for the joypad port.
func (b *Bus) Read(address uint16) byte {
	address = normalizeEcho(address)

	switch address {
	case addr.P1:
		return b.Joypad.Read()
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		return b.Timer.Read(address)
	case addr.SB, addr.SC:
		if b.Serial != nil {
			return b.Serial.Read(address)
		}
	}

	return b.data[address]
}

// Read16 reads a little-endian 16-bit value.
func (b *Bus) Read16(address uint16) uint16 {
	return bit.Combine(b.Read(address+1), b.Read(address))
}

// Write dispatches a byte write per the address's role. Writes to
// addresses outside the writable set are logged and dropped.
func (b *Bus) Write(address uint16, value byte) {
	normalized := normalizeEcho(address)

	switch normalized {
	case addr.DIV:
		b.Timer.Write(addr.DIV, value)
		return
	case addr.TIMA, addr.TMA, addr.TAC:
		b.Timer.Write(normalized, value)
		return
	case addr.SB, addr.SC:
		if b.Serial != nil {
			b.Serial.Write(normalized, value)
		}
		return
	case addr.P1:
		b.Joypad.Write(value)
		return
	case addr.IF, addr.IE:
		b.data[normalized] = value
		if b.InterruptRequested != nil {
			b.InterruptRequested()
		}
		return
	case addr.DMA:
		b.data[normalized] = value
		b.doDMA(value)
		return
	}

	switch {
	case normalized >= addr.VRAMStart && normalized <= addr.VRAMEnd,
		normalized >= addr.WRAMStart && normalized <= addr.WRAMEnd,
		normalized >= addr.ExtRAMStart && normalized <= addr.ExtRAMEnd,
		normalized >= addr.OAMStart && normalized <= addr.OAMEnd,
		normalized >= addr.IOStart && normalized <= addr.HRAMEnd:
		b.data[normalized] = value
	case normalized >= addr.ROMStart && normalized <= addr.ROMEnd:
		slog.Debug("memory: dropped write to ROM region (bank switching not implemented)",
			"addr", normalized, "value", value)
	default:
		slog.Warn("memory: write to unmapped address dropped", "addr", normalized, "value", value)
	}
}

// Write16 writes a little-endian 16-bit value.
func (b *Bus) Write16(address uint16, value uint16) {
	b.Write(address, bit.Low(value))
	b.Write(address+1, bit.High(value))
}

// doDMA copies 160 bytes from src<<8 into OAM and charges 160 M-cycles.
func (b *Bus) doDMA(src byte) {
	source := uint16(src) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.data[addr.OAMStart+i] = b.Read(source + i)
	}
	b.owedCycles += 160
}

// SetPostBootIO seeds the I/O registers with their DMG post-boot values.
// These have to bypass Write: a DIV store would zero it and a DMA store
// would kick off a transfer.
func (b *Bus) SetPostBootIO() {
	b.data[addr.LCDC] = 0x91
	b.data[addr.STAT] = 0x81
	b.data[addr.LY] = 0x91
	b.data[addr.BGP] = 0xFC
	b.data[addr.IF] = 0xE1
	b.data[addr.DMA] = 0xFF
	b.Timer.div = 0x18
	b.Timer.tac = 0xF8
}

// TakeOwedCycles returns and clears any extra M-cycles accumulated by
// side-effecting writes (currently OAM DMA) since the last call.
func (b *Bus) TakeOwedCycles() int {
	owed := b.owedCycles
	b.owedCycles = 0
	return owed
}

// RequestInterrupt sets the given interrupt's bit in IF.
func (b *Bus) RequestInterrupt(i addr.Interrupt) {
	flags := b.Read(addr.IF)
	b.Write(addr.IF, bit.Set(i.Bit(), flags))
}

// Tick advances the timer by the given number of M-cycles.
func (b *Bus) Tick(cycles int) {
	b.Timer.Tick(cycles)
}
