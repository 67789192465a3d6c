package video

import (
	"github.com/kenballus/gb/addr"
	"github.com/kenballus/gb/bit"
)

// Bus is the read/write seam the PPU needs: LCDC/STAT/LY/LYC/palette
// register access, VRAM/OAM tile and sprite reads, and raising the
// VBlank/LCD STAT interrupts it drives.
type Bus interface {
	MemoryReader
	Write(address uint16, value byte)
	RequestInterrupt(i addr.Interrupt)
}

// Mode is one of the four PPU states the STAT register reports.
type Mode uint8

const (
	ModeSearching Mode = iota // OAM search, STAT bits 10
	ModeTransferring          // pixel transfer, STAT bits 11
	ModeHBlank                // STAT bits 00
	ModeVBlank                // STAT bits 01
)

// DotsPerFrame and dotsPerLine are the PPU's dot-clock constants:
// 70224 dots/frame, 456 dots/scanline, VBlank starting at line 144
// (144*456 = 65664).
const (
	DotsPerFrame  = 70224
	dotsPerLine   = 456
	vblankStart   = 144 * dotsPerLine
	hblankOffset  = 248
	transferStart = 80
)

// GPU times the scanline/dot-clock mode machine and, once per VBlank
// entry, rasterizes the background/window/sprite layers into a 256x256
// paletted framebuffer. Unlike hardware, which draws scanline by
// scanline, this core renders the whole frame at once on the VBlank
// edge; mid-frame register changes are not modeled.
type GPU struct {
	bus Bus
	fb  *FrameBuffer

	// bgIndex mirrors fb but stores pre-palette color indices, so sprite
	// attribute bit 7 (BG priority) can test against the raw BG/window
	// index rather than its displayed color.
	bgIndex [Height][Width]uint8

	dotCount int
	mode     Mode
}

// NewGPU returns a GPU in the SEARCHING mode with an empty framebuffer,
// matching initialize()'s graphics_mode=SEARCHING.
func NewGPU(bus Bus) *GPU {
	return &GPU{bus: bus, fb: &FrameBuffer{}, mode: ModeSearching}
}

// FrameBuffer returns the PPU's output surface.
func (g *GPU) FrameBuffer() *FrameBuffer { return g.fb }

// Mode returns the current graphics mode.
func (g *GPU) Mode() Mode { return g.mode }

// Tick advances the PPU by the given number of M-cycles (4 dots each).
// The caller (the clock coordinator) is responsible for only calling
// this while LCDC bit 7 is set, so a program that turns the LCD off
// freezes the PPU in place.
func (g *GPU) Tick(mCycles int) {
	for i := 0; i < mCycles; i++ {
		g.dotCount = (g.dotCount + 4) % DotsPerFrame
		g.updateLY()
		g.updateMode()
	}
}

func (g *GPU) updateLY() {
	ly := uint8(g.dotCount / dotsPerLine)
	g.bus.Write(addr.LY, ly)

	lyc := g.bus.Read(addr.LYC)
	stat := g.bus.Read(addr.STAT)
	if ly == lyc {
		stat = bit.Set(2, stat)
		if bit.IsSet(6, stat) {
			g.bus.RequestInterrupt(addr.LCDSTAT)
		}
	} else {
		stat = bit.Clear(2, stat)
	}
	g.bus.Write(addr.STAT, stat)
}

func (g *GPU) updateMode() {
	var target Mode
	switch {
	case g.dotCount >= vblankStart:
		target = ModeVBlank
	case g.dotCount%dotsPerLine >= hblankOffset:
		target = ModeHBlank
	case g.dotCount%dotsPerLine >= transferStart:
		target = ModeTransferring
	default:
		target = ModeSearching
	}

	if target == g.mode {
		return
	}
	g.mode = target
	g.onModeEntry(target)
}

func setModeBits(stat uint8, bits uint8) uint8 {
	return (stat &^ 0b11) | bits
}

func (g *GPU) onModeEntry(m Mode) {
	stat := g.bus.Read(addr.STAT)
	switch m {
	case ModeVBlank:
		g.bus.Write(addr.STAT, setModeBits(stat, 0b01))
		g.bus.RequestInterrupt(addr.VBlank)
		if bit.IsSet(4, stat) {
			g.bus.RequestInterrupt(addr.LCDSTAT)
		}
		g.Rasterize()
	case ModeHBlank:
		g.bus.Write(addr.STAT, setModeBits(stat, 0b00))
		if bit.IsSet(3, stat) {
			g.bus.RequestInterrupt(addr.LCDSTAT)
		}
	case ModeTransferring:
		g.bus.Write(addr.STAT, setModeBits(stat, 0b11))
	case ModeSearching:
		g.bus.Write(addr.STAT, setModeBits(stat, 0b10))
		if bit.IsSet(5, stat) {
			g.bus.RequestInterrupt(addr.LCDSTAT)
		}
	}
}

// Rasterize draws one full frame: background, then window, then
// sprites, each through its own palette register. A
// disabled LCD (LCDC bit 7 clear) skips rasterization entirely.
func (g *GPU) Rasterize() {
	lcdc := g.bus.Read(addr.LCDC)
	if !bit.IsSet(7, lcdc) {
		return
	}

	if bit.IsSet(0, lcdc) {
		g.rasterizeBackground(lcdc)
	}
	if bit.IsSet(5, lcdc) {
		g.rasterizeWindow(lcdc)
	}
	if bit.IsSet(1, lcdc) {
		g.rasterizeSprites(lcdc)
	}
}

func tileDataAddress(unsigned bool, tileNumber uint8) uint16 {
	if unsigned {
		return addr.TileDataUnsigned + uint16(tileNumber)*16
	}
	return uint16(int32(addr.TileDataSigned) + int32(int8(tileNumber))*16)
}

func (g *GPU) rasterizeBackground(lcdc uint8) {
	tileMapBase := addr.TileMap0
	if bit.IsSet(3, lcdc) {
		tileMapBase = addr.TileMap1
	}
	unsigned := bit.IsSet(4, lcdc)
	bgp := g.bus.Read(addr.BGP)

	for tileY := 0; tileY < 32; tileY++ {
		for tileX := 0; tileX < 32; tileX++ {
			tileNumber := g.bus.Read(tileMapBase + uint16(tileY*32+tileX))
			tile := FetchTile(g.bus, tileDataAddress(unsigned, tileNumber))
			for py := 0; py < 8; py++ {
				row := tile.Rows[py]
				for px := 0; px < 8; px++ {
					idx := uint8(row.GetPixel(px))
					x, y := tileX*8+px, tileY*8+py
					g.bgIndex[y][x] = idx
					g.fb.Set(x, y, ApplyPalette(idx, bgp))
				}
			}
		}
	}
}

// rasterizeWindow draws the window layer over the background. The window
// sits at screen position (WX-7, WY); since the framebuffer holds the
// whole 256x256 surface and presenters read it through the scroll
// origin, screen coordinates map to framebuffer coordinates by adding
// (SCX, SCY) with wraparound.
func (g *GPU) rasterizeWindow(lcdc uint8) {
	tileMapBase := addr.TileMap0
	if bit.IsSet(6, lcdc) {
		tileMapBase = addr.TileMap1
	}
	unsigned := bit.IsSet(4, lcdc)
	bgp := g.bus.Read(addr.BGP)
	scx := int(g.bus.Read(addr.SCX))
	scy := int(g.bus.Read(addr.SCY))
	startY := int(g.bus.Read(addr.WY))
	startX := int(g.bus.Read(addr.WX)) - 7

	for screenY := startY; screenY < VisibleHeight; screenY++ {
		wy := screenY - startY
		for screenX := max(startX, 0); screenX < VisibleWidth; screenX++ {
			wx := screenX - startX
			tileNumber := g.bus.Read(tileMapBase + uint16((wy/8)*32+wx/8))
			tile := FetchTile(g.bus, tileDataAddress(unsigned, tileNumber))
			idx := uint8(tile.Rows[wy%8].GetPixel(wx % 8))

			fx, fy := (scx+screenX)%Width, (scy+screenY)%Height
			g.bgIndex[fy][fx] = idx
			g.fb.Set(fx, fy, ApplyPalette(idx, bgp))
		}
	}
}

func (g *GPU) rasterizeSprites(lcdc uint8) {
	height := 8
	if bit.IsSet(2, lcdc) {
		height = 16
	}

	sprites := ReadOAM(g.bus)
	obp0 := g.bus.Read(addr.OBP0)
	obp1 := g.bus.Read(addr.OBP1)
	scx := int(g.bus.Read(addr.SCX))
	scy := int(g.bus.Read(addr.SCY))

	for screenY := 0; screenY < VisibleHeight; screenY++ {
		visible := make([]int, 0, 10)
		for i := range sprites {
			if sprites[i].VisibleOn(screenY, height) {
				visible = append(visible, i)
				if len(visible) >= 10 {
					break
				}
			}
		}
		if len(visible) == 0 {
			continue
		}

		buf := newSpritePriorityBuffer()
		for _, idx := range visible {
			s := sprites[idx]
			for px := 0; px < 8; px++ {
				buf.claim(s.X+px, idx, s.X)
			}
		}

		for _, idx := range visible {
			g.drawSpriteRow(sprites[idx], idx, screenY, height, buf, obp0, obp1, scx, scy)
		}
	}
}

func (g *GPU) drawSpriteRow(s Sprite, spriteIndex, screenY, height int, buf *spritePriorityBuffer, obp0, obp1 uint8, scx, scy int) {
	row := screenY - s.Y
	if s.FlipY {
		row = height - 1 - row
	}

	tileIndex := s.TileIndex
	if height == 16 {
		tileIndex &^= 1
	}
	base := addr.TileDataUnsigned + uint16(tileIndex)*16
	if row >= 8 {
		base += 16
		row -= 8
	}
	tileRow := FetchTile(g.bus, base).Rows[row]

	palette := obp0
	if s.PaletteOBP1 {
		palette = obp1
	}

	for px := 0; px < 8; px++ {
		screenX := s.X + px
		if buf.owner(screenX) != spriteIndex {
			continue
		}

		col := px
		if s.FlipX {
			col = 7 - px
		}
		idx := uint8(tileRow.GetPixel(col))
		if idx == 0 {
			continue // sprite color 0 is always transparent
		}

		fx, fy := (scx+screenX)%Width, (scy+screenY)%Height
		if s.BehindBG && g.bgIndex[fy][fx] != 0 {
			continue
		}
		g.fb.Set(fx, fy, ApplyPalette(idx, palette))
	}
}
