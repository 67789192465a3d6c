package video

// VisibleWidth and VisibleHeight are the LCD's visible region; the
// sprite priority buffer resolves ownership over one visible scanline.
const (
	VisibleWidth  = 160
	VisibleHeight = 144
)

// spritePriorityBuffer resolves DMG (non-CGB) sprite-to-pixel ownership:
// lower X wins, ties broken by lower OAM index. See
// https://gbdev.io/pandocs/OAM.html#drawing-priority.
type spritePriorityBuffer struct {
	ownerIndex [VisibleWidth]int
	ownerX     [VisibleWidth]int
}

func newSpritePriorityBuffer() *spritePriorityBuffer {
	b := &spritePriorityBuffer{}
	b.clear()
	return b
}

func (b *spritePriorityBuffer) clear() {
	for i := range b.ownerIndex {
		b.ownerIndex[i] = -1
		b.ownerX[i] = 1 << 30
	}
}

// claim attempts to claim pixelX for spriteIndex at spriteX; returns
// whether it won.
func (b *spritePriorityBuffer) claim(pixelX, spriteIndex, spriteX int) bool {
	if pixelX < 0 || pixelX >= VisibleWidth {
		return false
	}

	owner := b.ownerIndex[pixelX]
	if owner == -1 {
		b.ownerIndex[pixelX], b.ownerX[pixelX] = spriteIndex, spriteX
		return true
	}

	ownerX := b.ownerX[pixelX]
	if spriteX < ownerX || (spriteX == ownerX && spriteIndex < owner) {
		b.ownerIndex[pixelX], b.ownerX[pixelX] = spriteIndex, spriteX
		return true
	}

	return false
}

func (b *spritePriorityBuffer) owner(pixelX int) int {
	if pixelX < 0 || pixelX >= VisibleWidth {
		return -1
	}
	return b.ownerIndex[pixelX]
}
