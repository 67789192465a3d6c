package cpu

// getR8/setR8 index the 3-bit register code r used throughout the
// unprefixed and CB opcode spaces: {B=0, C=1, D=2, E=3, H=4, L=5,
// (HL)=6, A=7}. Centralizing the index here is what lets decode.go build
// the opcode tables by looping over (dst, src) pairs instead of naming
// 256 functions.
func (c *CPU) getR8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return c.bus.Read(c.getHL())
	default:
		return c.a
	}
}

func (c *CPU) setR8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.b = v
	case 1:
		c.c = v
	case 2:
		c.d = v
	case 3:
		c.e = v
	case 4:
		c.h = v
	case 5:
		c.l = v
	case 6:
		c.bus.Write(c.getHL(), v)
	default:
		c.a = v
	}
}

// getDD/setDD index the 2-bit 16-bit register code dd: {BC=0, DE=1,
// HL=2, SP=3}.
func (c *CPU) getDD(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	default:
		return c.sp
	}
}

func (c *CPU) setDD(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.sp = v
	}
}

// getQQ/setQQ index the 2-bit stack register code qq: {BC=0, DE=1,
// HL=2, AF=3}, used by PUSH/POP.
func (c *CPU) getQQ(idx uint8) uint16 {
	if idx == 3 {
		return c.getAF()
	}
	return c.getDD(idx)
}

func (c *CPU) setQQ(idx uint8, v uint16) {
	if idx == 3 {
		c.setAF(v)
		return
	}
	c.setDD(idx, v)
}

// condition evaluates the 2-bit condition code cc: {NZ=0, Z=1, NC=2, C=3}.
func (c *CPU) condition(idx uint8) bool {
	switch idx {
	case 0:
		return !c.isSet(flagZ)
	case 1:
		return c.isSet(flagZ)
	case 2:
		return !c.isSet(flagC)
	default:
		return c.isSet(flagC)
	}
}
