package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every byte in both opcode pages must decode to something: either an
// instruction or the unrecognized-opcode handler for the 11 holes in the
// unprefixed page. A nil entry would be a table-construction bug that
// only shows up when a ROM happens to hit that byte.
func TestOpcodeTablesFullyPopulated(t *testing.T) {
	for op := 0; op < 256; op++ {
		assert.NotNil(t, opcodes[op], "unprefixed opcode 0x%02X unassigned", op)
		assert.NotNil(t, opcodesCB[op], "CB opcode 0x%02X unassigned", op)
	}
}

func TestDecodeSetsCurrentOpcode(t *testing.T) {
	c, bus := newTestCPU()

	load(c, bus, 0x3E) // LD A,n
	Decode(c)
	assert.Equal(t, uint16(0x003E), c.currentOpcode)

	load(c, bus, 0xCB, 0x37) // SWAP A
	Decode(c)
	assert.Equal(t, uint16(0xCB37), c.currentOpcode)
}

func TestDecodeDoesNotAdvancePC(t *testing.T) {
	c, bus := newTestCPU()
	load(c, bus, 0xCB, 0x37)
	Decode(c)
	assert.Equal(t, uint16(0xC000), c.pc)
}

func TestRegisterCodeIndexing(t *testing.T) {
	c, bus := newTestCPU()
	c.b, c.c, c.d, c.e, c.h, c.l, c.a = 0, 1, 2, 3, 4, 5, 7
	for idx := uint8(0); idx < 8; idx++ {
		if idx == 6 {
			continue
		}
		assert.Equal(t, idx, c.getR8(idx), "register code %d", idx)
	}

	c.setHL(0xD123)
	bus.Write(0xD123, 0x66)
	assert.Equal(t, uint8(0x66), c.getR8(6), "code 6 is the (HL) indirect")

	c.setR8(6, 0x99)
	assert.Equal(t, uint8(0x99), bus.Read(0xD123))
}

func TestLDRegisterToRegisterGrid(t *testing.T) {
	// LD r,r' for every register pair (skipping the (HL) column/row,
	// covered separately, and 0x76 which is HALT).
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			if dst == 6 || src == 6 {
				continue
			}
			c, bus := newTestCPU()
			c.setR8(src, 0xAB)
			load(c, bus, 0x40+dst*8+src)
			c.Step()
			assert.Equal(t, uint8(0xAB), c.getR8(dst), "LD r%d,r%d", dst, src)
		}
	}
}

func TestDumpFormat(t *testing.T) {
	c, _ := newTestCPU()
	c.pc = 0x0100

	assert.Equal(t,
		"A:01 F:B0 B:00 C:13 D:00 E:D8 H:01 L:4D SP:FFFE PC:0100 PCMEM:00,00,00,00",
		c.Dump())
}
