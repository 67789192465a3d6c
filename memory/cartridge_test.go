package memory

import "testing"

func makeHeader(title string, cartType byte) []byte {
	rom := make([]byte, minHeaderSize)
	copy(rom[titleAddress:], title)
	rom[cartridgeTypeAddress] = cartType
	return rom
}

func TestNewCartridgeParsesTitleAndType(t *testing.T) {
	rom := makeHeader("TESTROM", 0x01)
	cart, err := NewCartridge(rom)
	if err != nil {
		t.Fatalf("NewCartridge returned error for a valid-length header: %v", err)
	}
	if cart.Title() != "TESTROM" {
		t.Fatalf("Title() = %q, want %q", cart.Title(), "TESTROM")
	}
	if cart.Type() != 0x01 {
		t.Fatalf("Type() = 0x%02X, want 0x01", cart.Type())
	}
}

func TestNewCartridgeNeverPanicsOnTruncatedInput(t *testing.T) {
	for _, n := range []int{0, 1, 0x100, minHeaderSize - 1} {
		cart, err := NewCartridge(make([]byte, n))
		if err == nil {
			t.Fatalf("NewCartridge(%d bytes): expected error", n)
		}
		if cart.Title() != "" {
			t.Fatalf("NewCartridge(%d bytes): Title() = %q, want empty", n, cart.Title())
		}
		if cart.Type() != 0x00 {
			t.Fatalf("NewCartridge(%d bytes): Type() = 0x%02X, want 0x00", n, cart.Type())
		}
	}
}

func TestValidHeaderChecksum(t *testing.T) {
	rom := makeHeader("X", 0x00)
	var sum byte
	for i := titleAddress; i < headerChecksumAddr; i++ {
		sum = sum - rom[i] - 1
	}
	rom[headerChecksumAddr] = sum

	cart, err := NewCartridge(rom)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	if !cart.ValidHeaderChecksum() {
		t.Fatal("ValidHeaderChecksum() = false, want true for a correctly computed checksum")
	}

	rom[headerChecksumAddr] ^= 0xFF
	cart2, _ := NewCartridge(rom)
	if cart2.ValidHeaderChecksum() {
		t.Fatal("ValidHeaderChecksum() = true, want false for a corrupted checksum")
	}
}
