package cart

import (
	"bytes"
	"encoding/gob"
)

// MBC1 implements the banking registers the DMG exposes in ROM space:
// a 7-bit ROM bank number (minimum 1), a 2-bit RAM bank number, and the
// ROM/RAM select bit. External RAM itself is not modeled.
type MBC1 struct {
	rom []byte

	romBank      byte // 7 bit, never 0 for the switchable area
	ramBank      byte // 2 bit
	romRAMSelect byte // 1 bit
}

func NewMBC1(rom []byte) *MBC1 {
	return &MBC1{rom: rom, romBank: 1}
}

func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		// Fixed bank 0
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank)
		if bank < 1 {
			bank = 1
		}
		off := (bank-1)*0x4000 + int(addr)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		// RAM enable on real hardware; no external RAM here
	case addr < 0x4000:
		m.romBank = value & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case addr < 0x6000:
		m.ramBank = value & 0x03
	case addr < 0x8000:
		m.romRAMSelect = value & 0x01
	}
}

// ROMBank returns the bank currently mapped at 0x4000–0x7FFF.
func (m *MBC1) ROMBank() byte { return m.romBank }

type mbc1State struct {
	ROMBank      byte
	RAMBank      byte
	ROMRAMSelect byte
}

func (m *MBC1) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(mbc1State{
		ROMBank: m.romBank, RAMBank: m.ramBank, ROMRAMSelect: m.romRAMSelect,
	})
	return buf.Bytes()
}

func (m *MBC1) LoadState(data []byte) {
	var s mbc1State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return
	}
	m.romBank, m.ramBank, m.romRAMSelect = s.ROMBank, s.RAMBank, s.ROMRAMSelect
	if m.romBank == 0 {
		m.romBank = 1
	}
}
