package memory

import (
	"fmt"
	"strings"
)

const (
	titleAddress         = 0x134
	titleLength          = 11
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
	headerChecksumAddr   = 0x14D

	// minHeaderSize is the shortest ROM that carries a full cartridge header.
	minHeaderSize = 0x150
)

// Cartridge holds the raw ROM image plus the handful of header fields used
// for diagnostics. Bank switching is not modeled: up to the first 64 KiB of
// the image is copied into the bus starting at 0x0000 and nothing past bank
// 0 is ever addressed by a bank-switch register.
type Cartridge struct {
	data           []byte
	title          string
	cartridgeType  byte
	romSizeCode    byte
	ramSizeCode    byte
	headerChecksum byte
}

// NewCartridge parses a raw ROM image. It never panics: a truncated or
// empty image degrades to an empty title and cartridge type 0x00, and the
// caller decides (via the returned error) whether that's fatal.
func NewCartridge(rom []byte) (*Cartridge, error) {
	c := &Cartridge{data: append([]byte(nil), rom...)}

	if len(rom) < minHeaderSize {
		return c, fmt.Errorf("memory: ROM image is %d bytes, need at least %d for a valid header", len(rom), minHeaderSize)
	}

	c.title = strings.TrimRight(string(rom[titleAddress:titleAddress+titleLength]), "\x00")
	c.cartridgeType = rom[cartridgeTypeAddress]
	c.romSizeCode = rom[romSizeAddress]
	c.ramSizeCode = rom[ramSizeAddress]
	c.headerChecksum = rom[headerChecksumAddr]

	return c, nil
}

// Title returns the 11-character game title from the header, trimmed of
// trailing NUL padding.
func (c *Cartridge) Title() string { return c.title }

// Type returns the raw cartridge type byte (0x147). 0x00 is ROM ONLY; any
// other value is an MBC type this core does not implement bank switching
// for and is only ever reported, never rejected.
func (c *Cartridge) Type() byte { return c.cartridgeType }

// RAMSizeCode returns the raw external-RAM size code (0x149).
func (c *Cartridge) RAMSizeCode() byte { return c.ramSizeCode }

// ValidHeaderChecksum recomputes the header checksum over 0x134-0x14C and
// reports whether it matches the stored value at 0x14D.
func (c *Cartridge) ValidHeaderChecksum() bool {
	if len(c.data) < minHeaderSize {
		return false
	}
	var sum byte
	for i := titleAddress; i < headerChecksumAddr; i++ {
		sum = sum - c.data[i] - 1
	}
	return sum == c.headerChecksum
}

// Data returns the raw ROM image.
func (c *Cartridge) Data() []byte { return c.data }
