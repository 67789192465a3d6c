// Package video implements the PPU: the dot-clock mode machine and the
// once-per-frame background/window/sprite rasterizer that produces the
// 256x256 paletted framebuffer.
package video

// Width and Height are the full background/window tile-map surface size
// in pixels; the visible window is a 160x144 region of this surface,
// scrolled by SCX/SCY with wraparound.
const (
	Width  = 256
	Height = 256
)

// FrameBuffer holds one 2-bit color-index pixel per cell, indexed
// [row=y][col=x] — never transposed, since a transposed buffer would
// rotate every frame the emulator ever produces.
type FrameBuffer struct {
	pixels [Height][Width]uint8
}

// Set stores the color index (0-3) at (x, y), wrapping both axes.
func (f *FrameBuffer) Set(x, y int, colorIndex uint8) {
	f.pixels[((y%Height)+Height)%Height][((x%Width)+Width)%Width] = colorIndex & 0x03
}

// Get returns the color index at (x, y), wrapping both axes.
func (f *FrameBuffer) Get(x, y int) uint8 {
	return f.pixels[((y%Height)+Height)%Height][((x%Width)+Width)%Width]
}

// Row returns the backing row slice for y (0-255), for presenters that
// want to copy a scanline at a time.
func (f *FrameBuffer) Row(y int) []uint8 {
	return f.pixels[((y%Height)+Height)%Height][:]
}
