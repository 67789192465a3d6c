package cpu

import "github.com/kenballus/gb/bit"

// Opcode executes one decoded instruction against c, charging its own
// M-cycles to c.cyclesToWait.
type Opcode func(c *CPU)

// opcodes and opcodesCB are built once, in init, by looping over the
// register/condition/digit bit-fields each instruction group encodes —
// op[7:6], op[5:3], op[2:0] — instead of naming a function per opcode.
// A handful of single-purpose opcodes (NOP, JR e, DAA, ...) that don't
// fit a regular pattern are still assigned individually.
var opcodes [256]Opcode
var opcodesCB [256]Opcode

// Decode returns the Opcode for the instruction at PC, without
// advancing PC (the caller does that, since the amount depends on
// whether this is a CB-prefixed instruction and on the HALT bug).
func Decode(c *CPU) Opcode {
	b0 := c.bus.Read(c.pc)
	if b0 == 0xCB {
		b1 := c.bus.Read(c.pc + 1)
		c.currentOpcode = bit.Combine(0xCB, b1)
		return opcodesCB[b1]
	}
	c.currentOpcode = bit.Combine(0, b0)
	return opcodes[b0]
}

func init() {
	buildLoadGroup()
	buildALUGroup()
	buildIncDecGroup()
	build16BitGroup()
	buildControlFlowGroup()
	buildRotateGroup()
	buildMiscGroup()
	buildCBGroup()
}

// buildLoadGroup fills LD r,r' (0x40-0x7F, minus HALT at 0x76) and
// LD r,n (z==6 within the x==0 quadrant: 0x06,0x0E,...,0x3E).
func buildLoadGroup() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 + dst*8 + src
			if op == 0x76 {
				continue
			}
			d, s := dst, src
			opcodes[op] = func(c *CPU) {
				c.setR8(d, c.getR8(s))
				c.cyclesToWait += ldR8Cycles(d, s)
			}
		}
		d := dst
		opcodes[0x06+dst*8] = func(c *CPU) {
			n := c.imm8()
			c.setR8(d, n)
			if d == 6 {
				c.cyclesToWait += 3
			} else {
				c.cyclesToWait += 2
			}
		}
	}
}

func ldR8Cycles(dst, src uint8) int {
	if dst == 6 || src == 6 {
		return 2
	}
	return 1
}

// buildALUGroup fills ALU A,r (0x80-0xBF) and ALU A,n (0xC6,0xCE,...,0xFE).
func buildALUGroup() {
	for op := uint8(0); op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			code := 0x80 + op*8 + src
			o, s := op, src
			opcodes[code] = func(c *CPU) {
				c.aluOp(o, c.getR8(s))
				if s == 6 {
					c.cyclesToWait += 2
				} else {
					c.cyclesToWait += 1
				}
			}
		}
		o := op
		opcodes[0xC6+op*8] = func(c *CPU) {
			n := c.imm8()
			c.aluOp(o, n)
			c.cyclesToWait += 2
		}
	}
}

// buildIncDecGroup fills INC r / DEC r (0x04,0x0C,...,0x3C / 0x05,...).
func buildIncDecGroup() {
	for dst := uint8(0); dst < 8; dst++ {
		d := dst
		opcodes[0x04+dst*8] = func(c *CPU) {
			c.setR8(d, c.inc8(c.getR8(d)))
			if d == 6 {
				c.cyclesToWait += 3
			} else {
				c.cyclesToWait += 1
			}
		}
		opcodes[0x05+dst*8] = func(c *CPU) {
			c.setR8(d, c.dec8(c.getR8(d)))
			if d == 6 {
				c.cyclesToWait += 3
			} else {
				c.cyclesToWait += 1
			}
		}
	}
}

// build16BitGroup fills LD dd,nn / INC dd / DEC dd / ADD HL,dd (each at
// base+dd*0x10) and PUSH qq / POP qq (base+qq*0x10).
func build16BitGroup() {
	for dd := uint8(0); dd < 4; dd++ {
		rr := dd
		opcodes[0x01+dd*0x10] = func(c *CPU) {
			c.setDD(rr, c.imm16())
			c.cyclesToWait += 3
		}
		opcodes[0x03+dd*0x10] = func(c *CPU) {
			c.setDD(rr, c.getDD(rr)+1)
			c.cyclesToWait += 2
		}
		opcodes[0x0B+dd*0x10] = func(c *CPU) {
			c.setDD(rr, c.getDD(rr)-1)
			c.cyclesToWait += 2
		}
		opcodes[0x09+dd*0x10] = func(c *CPU) {
			c.addHL16(c.getDD(rr))
			c.cyclesToWait += 2
		}
	}
	for qq := uint8(0); qq < 4; qq++ {
		q := qq
		opcodes[0xC5+qq*0x10] = func(c *CPU) {
			c.push(c.getQQ(q))
			c.cyclesToWait += 4
		}
		opcodes[0xC1+qq*0x10] = func(c *CPU) {
			c.setQQ(q, c.pop())
			c.cyclesToWait += 3
		}
	}
}

// buildControlFlowGroup fills the conditional jump/call/return/JR forms,
// each at base+cc*0x08, and RST n at 0xC7+n*8.
func buildControlFlowGroup() {
	for cc := uint8(0); cc < 4; cc++ {
		cond := cc
		opcodes[0x20+cc*0x08] = func(c *CPU) {
			e := c.simm8()
			c.cyclesToWait += 2
			if c.condition(cond) {
				c.pc = uint16(int32(c.pc) + int32(e))
				c.cyclesToWait += 1
			}
		}
		opcodes[0xC2+cc*0x08] = func(c *CPU) {
			target := c.imm16()
			c.cyclesToWait += 3
			if c.condition(cond) {
				c.pc = target
				c.cyclesToWait += 1
			}
		}
		opcodes[0xC4+cc*0x08] = func(c *CPU) {
			target := c.imm16()
			c.cyclesToWait += 3
			if c.condition(cond) {
				c.push(c.pc)
				c.pc = target
				c.cyclesToWait += 3
			}
		}
		opcodes[0xC0+cc*0x08] = func(c *CPU) {
			c.cyclesToWait += 2
			if c.condition(cond) {
				c.pc = c.pop()
				c.cyclesToWait += 3
			}
		}
	}
	for n := uint8(0); n < 8; n++ {
		vec := uint16(n) * 8
		opcodes[0xC7+n*8] = func(c *CPU) {
			c.push(c.pc)
			c.pc = vec
			c.cyclesToWait += 4
		}
	}
}

// buildRotateGroup fills the 64 CB-prefixed rotate/shift opcodes
// (0x00-0x3F), laid out as op_class*8 + r. The BIT/RES/SET opcodes
// (0x40-0xFF) are filled by buildCBGroup.
func buildRotateGroup() {
	shifts := [8]func(*CPU, uint8) uint8{
		(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
		(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
	}
	for class := uint8(0); class < 8; class++ {
		fn := shifts[class]
		for r := uint8(0); r < 8; r++ {
			reg := r
			opcodesCB[class*8+reg] = func(c *CPU) {
				result := fn(c, c.getR8(reg))
				c.setR8(reg, result)
				c.zeroFlagsAfterShift(result)
				if reg == 6 {
					c.cyclesToWait += 4
				} else {
					c.cyclesToWait += 2
				}
			}
		}
	}
}

func buildCBGroup() {
	for b := uint8(0); b < 8; b++ {
		bitIdx := b
		for r := uint8(0); r < 8; r++ {
			reg := r
			opcodesCB[0x40+bitIdx*8+reg] = func(c *CPU) {
				v := c.getR8(reg)
				c.setFlagTo(flagZ, !bit.IsSet(bitIdx, v))
				c.clearFlag(flagN)
				c.setFlag(flagH)
				if reg == 6 {
					c.cyclesToWait += 3
				} else {
					c.cyclesToWait += 2
				}
			}
			opcodesCB[0x80+bitIdx*8+reg] = func(c *CPU) {
				c.setR8(reg, bit.Clear(bitIdx, c.getR8(reg)))
				if reg == 6 {
					c.cyclesToWait += 4
				} else {
					c.cyclesToWait += 2
				}
			}
			opcodesCB[0xC0+bitIdx*8+reg] = func(c *CPU) {
				c.setR8(reg, bit.Set(bitIdx, c.getR8(reg)))
				if reg == 6 {
					c.cyclesToWait += 4
				} else {
					c.cyclesToWait += 2
				}
			}
		}
	}
}
