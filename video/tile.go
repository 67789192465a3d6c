package video

import "github.com/kenballus/gb/bit"

// MemoryReader is the read-only bus seam the rasterizer needs.
type MemoryReader interface {
	Read(address uint16) byte
}

// TileRow is one 8-pixel row of a tile, stored as the two bit-plane bytes
// VRAM actually holds them in: Low is the byte at the row's base address
// (bit 0 of each pixel's color), High is the next byte (bit 1). Getting
// this order backwards silently rotates every color in the palette.
type TileRow struct {
	Low  byte
	High byte
}

// GetPixel extracts the color index (0-3) of pixel x (0 = leftmost,
// matching bit 7 of each plane byte).
func (t TileRow) GetPixel(x int) int {
	bitIndex := uint8(7 - x)
	pixel := 0
	if bit.IsSet(bitIndex, t.Low) {
		pixel |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		pixel |= 2
	}
	return pixel
}

// GetPixelFlipped is GetPixel with the row read right-to-left, for
// horizontally flipped sprites.
func (t TileRow) GetPixelFlipped(x int) int {
	return t.GetPixel(7 - x)
}

// Tile is a decoded 8x8 tile pattern, 8 rows of 2 bytes each (16 bytes in
// VRAM).
type Tile struct {
	Rows [8]TileRow
}

// FetchTile reads a complete 8x8 tile from VRAM starting at baseAddr.
func FetchTile(mem MemoryReader, baseAddr uint16) Tile {
	var t Tile
	for row := 0; row < 8; row++ {
		addr := baseAddr + uint16(row*2)
		t.Rows[row] = TileRow{Low: mem.Read(addr), High: mem.Read(addr + 1)}
	}
	return t
}
