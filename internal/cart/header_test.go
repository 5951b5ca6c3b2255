package cart

import "testing"

func romWithHeader(title string, cartType, romSize, ramSize byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:], title)
	rom[0x0147] = cartType
	rom[0x0148] = romSize
	rom[0x0149] = ramSize
	return rom
}

func TestParseHeader(t *testing.T) {
	rom := romWithHeader("TETRIS", 0x00, 0x00, 0x00)
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Title != "TETRIS" {
		t.Fatalf("title got %q want TETRIS", h.Title)
	}
	if h.CartType != 0x00 || h.CartTypeStr != "ROM ONLY" {
		t.Fatalf("type got %02x (%s)", h.CartType, h.CartTypeStr)
	}
	if h.ROMSizeBytes != 32*1024 || h.ROMBanks != 2 {
		t.Fatalf("rom size got %d/%d banks", h.ROMSizeBytes, h.ROMBanks)
	}
	if h.RAMSizeBytes != 0 {
		t.Fatalf("ram size got %d want 0", h.RAMSizeBytes)
	}
}

func TestParseHeaderTooSmall(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 0x100)); err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestNewCartridgeRejectsSmallROM(t *testing.T) {
	if _, err := NewCartridge(make([]byte, 0x4000)); err == nil {
		t.Fatal("expected error for ROM below 0x8000 bytes")
	}
}

func TestNewCartridgePicksType(t *testing.T) {
	c, err := NewCartridge(romWithHeader("A", 0x00, 0x00, 0x00))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*ROMOnly); !ok {
		t.Fatalf("type 0 got %T want *ROMOnly", c)
	}

	c, err = NewCartridge(romWithHeader("B", 0x01, 0x01, 0x00))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*MBC1); !ok {
		t.Fatalf("type 1 got %T want *MBC1", c)
	}
}
