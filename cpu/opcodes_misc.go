package cpu

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kenballus/gb/addr"
	"github.com/kenballus/gb/bit"
)

// buildMiscGroup assigns the opcodes that don't fit a regular bit-field
// pattern: NOP/STOP/HALT, the unprefixed A-only rotates, the indirect
// A<->(BC)/(DE)/(HL+-) loads, DAA/CPL/SCF/CCF, the unconditional jump and
// call forms, DI/EI, the 0xFF00+n/0xFF00+C forms, and ADD SP,e / LD
// HL,SP+e / LD SP,HL. Every byte in [0x00,0xFF] ends up claimed by this
// function or one of the other build* functions — see decode_test.go.
func buildMiscGroup() {
	opcodes[0x00] = func(c *CPU) { c.cyclesToWait += 1 } // NOP

	opcodes[0x10] = func(c *CPU) { // STOP
		c.bus.Write(addr.DIV, 0)
		c.halted = true
		c.cyclesToWait += 1
	}

	opcodes[0x76] = haltOp

	opcodes[0x07] = func(c *CPU) { // RLCA
		c.a = c.rlc(c.a)
		c.clearFlag(flagZ)
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.cyclesToWait += 1
	}
	opcodes[0x17] = func(c *CPU) { // RLA
		c.a = c.rl(c.a)
		c.clearFlag(flagZ)
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.cyclesToWait += 1
	}
	opcodes[0x0F] = func(c *CPU) { // RRCA
		c.a = c.rrc(c.a)
		c.clearFlag(flagZ)
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.cyclesToWait += 1
	}
	opcodes[0x1F] = func(c *CPU) { // RRA
		c.a = c.rr(c.a)
		c.clearFlag(flagZ)
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.cyclesToWait += 1
	}

	opcodes[0x02] = func(c *CPU) { c.bus.Write(c.getBC(), c.a); c.cyclesToWait += 2 }
	opcodes[0x12] = func(c *CPU) { c.bus.Write(c.getDE(), c.a); c.cyclesToWait += 2 }
	opcodes[0x0A] = func(c *CPU) { c.a = c.bus.Read(c.getBC()); c.cyclesToWait += 2 }
	opcodes[0x1A] = func(c *CPU) { c.a = c.bus.Read(c.getDE()); c.cyclesToWait += 2 }

	opcodes[0x22] = func(c *CPU) { // LD (HL+),A
		c.bus.Write(c.getHL(), c.a)
		c.setHL(c.getHL() + 1)
		c.cyclesToWait += 2
	}
	opcodes[0x32] = func(c *CPU) { // LD (HL-),A
		c.bus.Write(c.getHL(), c.a)
		c.setHL(c.getHL() - 1)
		c.cyclesToWait += 2
	}
	opcodes[0x2A] = func(c *CPU) { // LD A,(HL+)
		c.a = c.bus.Read(c.getHL())
		c.setHL(c.getHL() + 1)
		c.cyclesToWait += 2
	}
	opcodes[0x3A] = func(c *CPU) { // LD A,(HL-)
		c.a = c.bus.Read(c.getHL())
		c.setHL(c.getHL() - 1)
		c.cyclesToWait += 2
	}

	opcodes[0x27] = daaOp
	opcodes[0x2F] = func(c *CPU) { // CPL
		c.a = ^c.a
		c.setFlag(flagN)
		c.setFlag(flagH)
		c.cyclesToWait += 1
	}
	opcodes[0x37] = func(c *CPU) { // SCF
		c.setFlag(flagC)
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.cyclesToWait += 1
	}
	opcodes[0x3F] = func(c *CPU) { // CCF
		c.setFlagTo(flagC, !c.isSet(flagC))
		c.clearFlag(flagN)
		c.clearFlag(flagH)
		c.cyclesToWait += 1
	}

	opcodes[0x18] = func(c *CPU) { // JR e (unconditional)
		e := c.simm8()
		c.pc = uint16(int32(c.pc) + int32(e))
		c.cyclesToWait += 3
	}

	opcodes[0x08] = func(c *CPU) { // LD (nn),SP
		target := c.imm16()
		c.bus.Write16(target, c.sp)
		c.cyclesToWait += 5
	}

	opcodes[0xC3] = func(c *CPU) { c.pc = c.imm16(); c.cyclesToWait += 4 }
	opcodes[0xE9] = func(c *CPU) { c.pc = c.getHL(); c.cyclesToWait += 1 }
	opcodes[0xCD] = func(c *CPU) {
		target := c.imm16()
		c.push(c.pc)
		c.pc = target
		c.cyclesToWait += 6
	}
	opcodes[0xC9] = func(c *CPU) { c.pc = c.pop(); c.cyclesToWait += 4 }
	opcodes[0xD9] = func(c *CPU) { // RETI
		c.pc = c.pop()
		c.ime = true
		c.needToDoInterrupts = true
		c.cyclesToWait += 4
	}

	opcodes[0xF3] = func(c *CPU) { // DI
		c.ime = false
		c.eiPending = false
		c.needToDoInterrupts = true
		c.cyclesToWait += 1
	}
	opcodes[0xFB] = func(c *CPU) { // EI: takes effect after the next instruction
		c.eiPending = true
		c.needToDoInterrupts = true
		c.cyclesToWait += 1
	}

	opcodes[0xE0] = func(c *CPU) { c.bus.Write(0xFF00+uint16(c.imm8()), c.a); c.cyclesToWait += 3 }
	opcodes[0xF0] = func(c *CPU) { c.a = c.bus.Read(0xFF00 + uint16(c.imm8())); c.cyclesToWait += 3 }
	opcodes[0xE2] = func(c *CPU) { c.bus.Write(0xFF00+uint16(c.c), c.a); c.cyclesToWait += 2 }
	opcodes[0xF2] = func(c *CPU) { c.a = c.bus.Read(0xFF00 + uint16(c.c)); c.cyclesToWait += 2 }

	opcodes[0xEA] = func(c *CPU) { c.bus.Write(c.imm16(), c.a); c.cyclesToWait += 4 }
	opcodes[0xFA] = func(c *CPU) { c.a = c.bus.Read(c.imm16()); c.cyclesToWait += 4 }

	opcodes[0xE8] = func(c *CPU) { // ADD SP,e
		e := c.simm8()
		c.sp = c.addSPSigned(e)
		c.cyclesToWait += 4
	}
	opcodes[0xF8] = func(c *CPU) { // LD HL,SP+e
		e := c.simm8()
		c.setHL(c.addSPSigned(e))
		c.cyclesToWait += 3
	}
	opcodes[0xF9] = func(c *CPU) { c.sp = c.getHL(); c.cyclesToWait += 2 } // LD SP,HL

	for _, code := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		opcodes[code] = unrecognizedOpcode
	}

	// 0xCB is the prefix byte; Decode dispatches it into the CB table, so
	// this entry can only run if decoding is broken.
	opcodes[0xCB] = unrecognizedOpcode
}

func haltOp(c *CPU) {
	ie := c.bus.Read(addr.IE)
	iflag := c.bus.Read(addr.IF)
	if !c.ime && ie&iflag&0x1F != 0 {
		c.haltBug = true
	} else {
		c.halted = true
	}
	c.cyclesToWait += 1
}

// daaOp BCD-adjusts A using the N/H/C flags left by the last add/sub, per
// the standard correction table.
func daaOp(c *CPU) {
	a := c.a
	adjust := uint8(0)
	carry := false

	if c.isSet(flagH) || (!c.isSet(flagN) && a&0xF > 9) {
		adjust |= 0x06
	}
	if c.isSet(flagC) || (!c.isSet(flagN) && a > 0x99) {
		adjust |= 0x60
		carry = true
	}

	if c.isSet(flagN) {
		a -= adjust
	} else {
		a += adjust
	}

	c.a = a
	c.setFlagTo(flagZ, a == 0)
	c.clearFlag(flagH)
	c.setFlagTo(flagC, carry)
	c.cyclesToWait += 1
}

func unrecognizedOpcode(c *CPU) {
	slog.Error("cpu: unrecognized opcode", "opcode", fmt.Sprintf("0x%02X", bit.Low(c.currentOpcode)), "pc", fmt.Sprintf("0x%04X", c.pc))
	os.Exit(1)
}
