// Package mmu implements the 64 KiB address decoder. It owns the flat RAM
// image and routes cartridge space to the MBC and I/O writes through their
// side effects. The joypad shim reads the frontend's mask through a single
// atomic load.
package mmu

import (
	"bytes"
	"encoding/gob"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/cart"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/joypad"
)

// I/O register addresses handled specially or read by the PPU.
const (
	AddrJOYP = 0xFF00
	AddrDIV  = 0xFF04
	AddrIF   = 0xFF0F
	AddrLCDC = 0xFF40
	AddrSTAT = 0xFF41
	AddrSCY  = 0xFF42
	AddrSCX  = 0xFF43
	AddrLY   = 0xFF44
	AddrLYC  = 0xFF45
	AddrDMA  = 0xFF46
	AddrBGP  = 0xFF47
	AddrOBP0 = 0xFF48
	AddrWY   = 0xFF4A
	AddrWX   = 0xFF4B
	AddrIE   = 0xFFFF
)

// Interrupt bits in IF/IE.
const (
	IntVBlank = 0
	IntSTAT   = 1
	IntTimer  = 2
	IntSerial = 3
	IntJoypad = 4
)

// MMU decodes the CPU-visible 64 KiB address space.
//
//	0000-7FFF  cartridge ROM (reads and bank control via the MBC)
//	8000-9FFF  VRAM
//	A000-BFFF  external RAM
//	C000-DFFF  WRAM
//	FE00-FE9F  OAM
//	FF00-FF7F  I/O
//	FF80-FFFE  HRAM
//	FFFF       IE
type MMU struct {
	ram  [0x10000]byte
	cart cart.Cartridge
	pad  *joypad.State
	rng  *rand.Rand
	log  *logrus.Logger
}

func New(c cart.Cartridge, pad *joypad.State, log *logrus.Logger) *MMU {
	if log == nil {
		log = logrus.New()
	}
	return &MMU{
		cart: c,
		pad:  pad,
		rng:  rand.New(rand.NewSource(int64(rand.Uint64()))),
		log:  log,
	}
}

func (m *MMU) Read(addr uint16) byte {
	// DIV: the divider is not modeled, but games sample it for entropy.
	if addr == AddrDIV {
		return byte(m.rng.Intn(0x100))
	}
	if addr < 0x8000 {
		return m.cart.Read(addr)
	}
	return m.ram[addr]
}

func (m *MMU) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		// RAM-enable range on real carts; ignored here
		return
	case addr < 0x8000:
		// Bank-control signal, must not touch ram
		m.cart.Write(addr, value)
		return
	}

	switch addr {
	case AddrJOYP:
		value = m.joyp(value)
	case AddrDMA:
		m.dma(value)
	}

	m.ram[addr] = value
}

// joyp merges the selected button group into the lower nibble of the
// written value. Select lines are active-low: bit 5 chooses the action
// buttons, bit 4 the directions.
func (m *MMU) joyp(value byte) byte {
	buttons := (value>>5)&1 == 0
	directions := (value>>4)&1 == 0

	states := m.pad.Mask()
	switch {
	case buttons && !directions:
		value |= states >> 4
	case directions && !buttons:
		value |= states & 0x0F
	default:
		value |= 0x0F
	}
	return value
}

// dma copies 160 bytes from value<<8 into OAM.
func (m *MMU) dma(value byte) {
	src := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		m.ram[0xFE00+i] = m.Read(src + i)
	}
	m.log.Debugf("OAM DMA from %04X", src)
}

// RequestInterrupt sets the given bit in IF.
func (m *MMU) RequestInterrupt(bit int) {
	m.ram[AddrIF] |= 1 << bit
}

// SetVBlank raises the VBlank interrupt request.
func (m *MMU) SetVBlank() { m.RequestInterrupt(IntVBlank) }

// SetMode replaces the mode bits (1-0) of STAT without disturbing the rest.
func (m *MMU) SetMode(mode byte) {
	m.ram[AddrSTAT] = (m.ram[AddrSTAT] &^ 0x03) | (mode & 0x03)
}

// Mode returns the current STAT mode bits.
func (m *MMU) Mode() byte { return m.ram[AddrSTAT] & 0x03 }

// SetLY writes the current scanline and updates the LY==LYC coincidence
// flag, raising LCD STAT when the coincidence interrupt is enabled.
func (m *MMU) SetLY(y byte) {
	m.ram[AddrLY] = y
	if m.ram[AddrLYC] == y {
		m.ram[AddrSTAT] |= 1 << 2
		if (m.ram[AddrSTAT]>>6)&1 == 1 {
			m.RequestInterrupt(IntSTAT)
		}
	} else {
		m.ram[AddrSTAT] &^= 1 << 2
	}
}

func (m *MMU) LY() byte  { return m.ram[AddrLY] }
func (m *MMU) SCY() byte { return m.ram[AddrSCY] }
func (m *MMU) SCX() byte { return m.ram[AddrSCX] }
func (m *MMU) WY() byte  { return m.ram[AddrWY] }
func (m *MMU) WX() byte  { return m.ram[AddrWX] }

// LCDEnabled reports LCDC bit 7.
func (m *MMU) LCDEnabled() bool { return (m.ram[AddrLCDC]>>7)&1 == 1 }

// bgMapAddr returns the BG tile-map base selected by LCDC bit 3.
func (m *MMU) bgMapAddr() uint16 {
	if (m.ram[AddrLCDC]>>3)&1 == 1 {
		return 0x9C00
	}
	return 0x9800
}

// BGTileAddr resolves the tile-data address for background tile (tx, ty).
// LCDC bit 4 selects unsigned 0x8000 addressing or signed 0x9000 addressing.
func (m *MMU) BGTileAddr(tx, ty int) uint16 {
	tile := m.ram[m.bgMapAddr()+uint16(ty)*32+uint16(tx)]
	if (m.ram[AddrLCDC]>>4)&1 == 1 {
		return 0x8000 + uint16(tile)*16
	}
	return uint16(0x9000 + int(int8(tile))*16)
}

type mmuState struct {
	RAM [0x10000]byte
}

func (m *MMU) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(mmuState{RAM: m.ram})
	return buf.Bytes()
}

func (m *MMU) LoadState(data []byte) {
	var s mmuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return
	}
	m.ram = s.RAM
}
