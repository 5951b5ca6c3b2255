package cart

import "testing"

// bankedROM builds an image whose every bank is filled with its bank number.
func bankedROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		for i := 0; i < 0x4000; i++ {
			rom[b*0x4000+i] = byte(b)
		}
	}
	return rom
}

func TestMBC1FixedBankZero(t *testing.T) {
	m := NewMBC1(bankedROM(4))
	if got := m.Read(0x0000); got != 0 {
		t.Fatalf("bank 0 read got %02x want 00", got)
	}
	if got := m.Read(0x3FFF); got != 0 {
		t.Fatalf("bank 0 read got %02x want 00", got)
	}
}

func TestMBC1SwitchableBank(t *testing.T) {
	m := NewMBC1(bankedROM(4))

	// Default bank is 1.
	if got := m.Read(0x4000); got != 1 {
		t.Fatalf("default bank read got %02x want 01", got)
	}

	m.Write(0x2000, 3)
	if got := m.Read(0x4000); got != 3 {
		t.Fatalf("bank 3 read got %02x want 03", got)
	}
	if got := m.Read(0x7FFF); got != 3 {
		t.Fatalf("bank 3 end read got %02x want 03", got)
	}
}

func TestMBC1BankZeroMapsToOne(t *testing.T) {
	m := NewMBC1(bankedROM(4))
	m.Write(0x2000, 0)
	if got := m.Read(0x4000); got != 1 {
		t.Fatalf("bank 0 select read got %02x want 01", got)
	}
}

func TestMBC1BankNumberMasked(t *testing.T) {
	m := NewMBC1(bankedROM(4))
	// Bit 7 is discarded: 0x83 selects bank 3.
	m.Write(0x3FFF, 0x83)
	if got := m.ROMBank(); got != 3 {
		t.Fatalf("bank got %d want 3", got)
	}
}

func TestMBC1OutOfRangeBankReadsFF(t *testing.T) {
	m := NewMBC1(bankedROM(2))
	m.Write(0x2000, 0x40)
	if got := m.Read(0x4000); got != 0xFF {
		t.Fatalf("out-of-range bank read got %02x want FF", got)
	}
}

func TestMBC1ControlRegisters(t *testing.T) {
	m := NewMBC1(bankedROM(2))
	m.Write(0x4000, 0xFF)
	if m.ramBank != 0x03 {
		t.Fatalf("ram bank got %d want 3", m.ramBank)
	}
	m.Write(0x6000, 0xFF)
	if m.romRAMSelect != 1 {
		t.Fatalf("rom/ram select got %d want 1", m.romRAMSelect)
	}
	// Writes outside the control windows change nothing.
	m.Write(0x0000, 0x0A)
	m.Write(0x8000, 0x55)
	if m.romBank != 1 {
		t.Fatalf("rom bank got %d want 1", m.romBank)
	}
}

func TestMBC1StateRoundtrip(t *testing.T) {
	m := NewMBC1(bankedROM(4))
	m.Write(0x2000, 2)
	m.Write(0x4000, 1)

	state := m.SaveState()
	m2 := NewMBC1(bankedROM(4))
	m2.LoadState(state)

	if m2.romBank != 2 || m2.ramBank != 1 {
		t.Fatalf("restored banks got %d/%d want 2/1", m2.romBank, m2.ramBank)
	}
}

func TestROMOnlyIgnoresWrites(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x4000] = 0x42
	c := NewROMOnly(rom)
	c.Write(0x2000, 5)
	if got := c.Read(0x4000); got != 0x42 {
		t.Fatalf("read after bank write got %02x want 42", got)
	}
	if got := c.Read(0x8000); got != 0xFF {
		t.Fatalf("out-of-window read got %02x want FF", got)
	}
}
