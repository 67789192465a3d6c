// Package cpu implements the fetch-decode-execute loop for the Sharp
// LR35902 instruction set: register file, flag computation, the
// unprefixed and CB-prefixed opcode tables, HALT/STOP, and interrupt
// dispatch.
package cpu

import (
	"fmt"

	"github.com/kenballus/gb/addr"
	"github.com/kenballus/gb/bit"
)

// Bus is the memory-mapped address space the CPU executes against, plus
// the interrupt-request side channel beyond plain byte access.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	Read16(address uint16) uint16
	Write16(address uint16, value uint16)
	RequestInterrupt(i addr.Interrupt)
}

// Flag is one of the four flags packed into the high nibble of F.
type Flag uint8

const (
	flagZ Flag = 1 << 7
	flagN Flag = 1 << 6
	flagH Flag = 1 << 5
	flagC Flag = 1 << 4
)

// CPU holds the LR35902 register file and scheduler-facing state
// (cycles_to_wait, HALTED, IME) described by the data model.
type CPU struct {
	a, f          uint8
	b, c          uint8
	d, e          uint8
	h, l          uint8
	sp, pc        uint16

	ime    bool
	halted bool

	// eiPending latches an EI executed by the *previous* instruction: IME
	// flips on in this Step after its interrupt check and before it
	// fetches. See Step for why this order
	// (rather than flipping IME inside EI's own handler) is what makes
	// "EI; DI" observe zero interrupts.
	eiPending bool

	// haltBug: HALT executed while IME=0 with an interrupt already
	// pending makes the next fetch skip its PC increment, so the opcode
	// byte after HALT is read and executed twice.
	haltBug bool

	currentOpcode uint16 // 0xNN for unprefixed, 0xCBNN for CB-prefixed; used by decode and dump

	cyclesToWait int
	cycleCount   uint64

	needToDoInterrupts bool

	bus Bus
}

// New returns a CPU wired to bus, with registers at their post-boot
// values.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// RequestInterruptRecheck marks scheduler state dirty so the next Step
// reconsiders dispatch. The bus calls this on every IF/IE write; CPU
// instructions that touch IME (EI, DI, RETI) call it directly.
func (c *CPU) RequestInterruptRecheck() {
	c.needToDoInterrupts = true
}

// AddCyclesToWait charges additional owed M-cycles (used by OAM DMA,
// folded in by the clock coordinator via Bus.TakeOwedCycles).
func (c *CPU) AddCyclesToWait(n int) {
	c.cyclesToWait += n
}

// CyclesToWait returns the M-cycles still owed by the last Step.
func (c *CPU) CyclesToWait() int { return c.cyclesToWait }

// ConsumeCycle decrements cycles_to_wait by one and bumps cycle_count,
// for the clock coordinator's drain loop.
func (c *CPU) ConsumeCycle() {
	if c.cyclesToWait > 0 {
		c.cyclesToWait--
	}
	c.cycleCount++
}

// Step executes one instruction, or one HALTed cycle, and returns the
// number of M-cycles it added to cycles_to_wait.
//
// Order matters for the EI delay: interrupts are checked
// and possibly serviced using the *old* IME value before eiPending (an
// EI latched by the previous instruction) is applied. That means an
// instruction immediately following EI never observes the new IME during
// its own interrupt check, so "EI; DI" can never let an interrupt slip
// in between — DI clears IME again before the next Step's check ever
// sees it as true.
func (c *CPU) Step() int {
	before := c.cyclesToWait

	serviced := c.serviceInterrupt()

	if c.eiPending {
		c.eiPending = false
		c.ime = true
	}

	if serviced {
		return c.cyclesToWait - before
	}

	if c.halted {
		c.cyclesToWait++
		return c.cyclesToWait - before
	}

	op := Decode(c)

	skipFirstInc := c.haltBug
	if !skipFirstInc {
		c.pc++
	}
	if bit.High(c.currentOpcode) == 0xCB {
		c.pc++
	}
	if skipFirstInc {
		c.haltBug = false
	}

	op(c)

	return c.cyclesToWait - before
}

// serviceInterrupt dispatches the highest-priority requested+enabled
// interrupt. It clears HALTED whenever IF&IE != 0,
// independent of IME, and returns whether it actually serviced one.
func (c *CPU) serviceInterrupt() bool {
	ie := c.bus.Read(addr.IE)
	iflag := c.bus.Read(addr.IF)
	pending := ie & iflag & 0x1F

	if pending != 0 {
		c.halted = false
	}

	if !c.ime || pending == 0 {
		return false
	}

	for i := uint8(0); i < 5; i++ {
		if !bit.IsSet(i, pending) {
			continue
		}

		c.bus.Write(addr.IF, bit.Clear(i, iflag))
		c.ime = false

		c.sp -= 2
		c.bus.Write16(c.sp, c.pc)
		c.pc = 0x40 + uint16(i)*8

		c.cyclesToWait += 5
		c.needToDoInterrupts = false
		return true
	}

	return false
}

// -- flags --

func (c *CPU) setFlag(f Flag)     { c.f |= uint8(f) }
func (c *CPU) clearFlag(f Flag)   { c.f &^= uint8(f) }
func (c *CPU) isSet(f Flag) bool  { return c.f&uint8(f) != 0 }

func (c *CPU) setFlagTo(f Flag, cond bool) {
	if cond {
		c.setFlag(f)
	} else {
		c.clearFlag(f)
	}
}

func (c *CPU) flagBit(f Flag) uint8 {
	if c.isSet(f) {
		return 1
	}
	return 0
}

// -- 16-bit register pairs --

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f) }
func (c *CPU) setAF(v uint16) {
	c.a = bit.High(v)
	c.f = bit.Low(v) & 0xF0 // low nibble of F is always zero
}

func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) setBC(v uint16) { c.b, c.c = bit.High(v), bit.Low(v) }

func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) setDE(v uint16) { c.d, c.e = bit.High(v), bit.Low(v) }

func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }
func (c *CPU) setHL(v uint16) { c.h, c.l = bit.High(v), bit.Low(v) }

// -- immediates --

func (c *CPU) imm8() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) imm16() uint16 {
	lo := c.imm8()
	hi := c.imm8()
	return bit.Combine(hi, lo)
}

func (c *CPU) simm8() int8 { return int8(c.imm8()) }

func (c *CPU) push(v uint16) {
	c.sp -= 2
	c.bus.Write16(c.sp, v)
}

func (c *CPU) pop() uint16 {
	v := c.bus.Read16(c.sp)
	c.sp += 2
	return v
}

// -- debug / presenter-facing getters --

func (c *CPU) A() uint8      { return c.a }
func (c *CPU) F() uint8      { return c.f }
func (c *CPU) B() uint8      { return c.b }
func (c *CPU) C() uint8      { return c.c }
func (c *CPU) D() uint8      { return c.d }
func (c *CPU) E() uint8      { return c.e }
func (c *CPU) H() uint8      { return c.h }
func (c *CPU) L() uint8      { return c.l }
func (c *CPU) SP() uint16    { return c.sp }
func (c *CPU) PC() uint16    { return c.pc }
func (c *CPU) IME() bool     { return c.ime }
func (c *CPU) Halted() bool  { return c.halted }

// FlagString renders the flag register as "ZNHC", with '-' for a clear
// flag, matching the convention of every GB disassembler trace.
func (c *CPU) FlagString() string {
	bitc := func(set bool, ch byte) byte {
		if set {
			return ch
		}
		return '-'
	}
	return string([]byte{
		bitc(c.isSet(flagZ), 'Z'),
		bitc(c.isSet(flagN), 'N'),
		bitc(c.isSet(flagH), 'H'),
		bitc(c.isSet(flagC), 'C'),
	})
}

// Dump renders the one-line trace:
// registers, SP, PC, and the four bytes at PC.
func (c *CPU) Dump() string {
	mem := func(off uint16) byte { return c.bus.Read(c.pc + off) }
	return fmt.Sprintf(
		"A:%02X F:%02X B:%02X C:%02X D:%02X E:%02X H:%02X L:%02X SP:%04X PC:%04X PCMEM:%02X,%02X,%02X,%02X",
		c.a, c.f, c.b, c.c, c.d, c.e, c.h, c.l, c.sp, c.pc,
		mem(0), mem(1), mem(2), mem(3))
}
