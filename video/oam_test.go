package video

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kenballus/gb/addr"
	"github.com/kenballus/gb/memory"
)

func TestReadOAMDecodesEntries(t *testing.T) {
	bus := memory.NewBus()
	// Entry 3: y=0x20, x=0x18, tile 0x42, attrs = OBP1 | x-flip | behind BG.
	base := addr.OAMStart + 3*4
	bus.Write(base, 0x20)
	bus.Write(base+1, 0x18)
	bus.Write(base+2, 0x42)
	bus.Write(base+3, 0b1011_0000)

	sprites := ReadOAM(bus)
	s := sprites[3]

	assert.Equal(t, 0x20-16, s.Y, "screen Y is raw-16")
	assert.Equal(t, 0x18-8, s.X, "screen X is raw-8")
	assert.Equal(t, uint8(0x42), s.TileIndex)
	assert.Equal(t, 3, s.OAMIndex)
	assert.True(t, s.PaletteOBP1)
	assert.True(t, s.FlipX)
	assert.False(t, s.FlipY)
	assert.True(t, s.BehindBG)
}

func TestSpriteVisibleOn(t *testing.T) {
	s := Sprite{Y: 10}

	assert.False(t, s.VisibleOn(9, 8))
	assert.True(t, s.VisibleOn(10, 8))
	assert.True(t, s.VisibleOn(17, 8))
	assert.False(t, s.VisibleOn(18, 8))
	assert.True(t, s.VisibleOn(25, 16), "8x16 sprites cover twice the rows")
}

func TestSpritePriorityLowerXWins(t *testing.T) {
	buf := newSpritePriorityBuffer()

	assert.True(t, buf.claim(10, 0, 8))
	assert.False(t, buf.claim(10, 1, 9), "higher X must not displace")
	assert.Equal(t, 0, buf.owner(10))

	assert.True(t, buf.claim(10, 2, 4), "lower X steals the pixel")
	assert.Equal(t, 2, buf.owner(10))
}

func TestSpritePriorityOAMIndexBreaksTies(t *testing.T) {
	buf := newSpritePriorityBuffer()

	buf.claim(20, 5, 16)
	assert.False(t, buf.claim(20, 7, 16), "same X, higher OAM index loses")
	assert.True(t, buf.claim(20, 2, 16), "same X, lower OAM index wins")
	assert.Equal(t, 2, buf.owner(20))
}

func TestSpritePriorityOffscreenPixels(t *testing.T) {
	buf := newSpritePriorityBuffer()

	assert.False(t, buf.claim(-1, 0, -8))
	assert.False(t, buf.claim(VisibleWidth, 0, 158))
	assert.Equal(t, -1, buf.owner(-1))
	assert.Equal(t, -1, buf.owner(VisibleWidth))
}
