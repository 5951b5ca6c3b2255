// Package emu composes the machine: cartridge, MMU, CPU, and PPU are owned
// by a single Machine and wired with non-owning references, so no
// component stores a back-pointer to another.
package emu

import (
	"bytes"
	"encoding/gob"

	"github.com/sirupsen/logrus"

	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/cart"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/joypad"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/mmu"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/ppu"
)

// FrameSink receives the 160x144 palette-index framebuffer once per drawn
// frame.
type FrameSink func(fb *[ppu.Height][ppu.Width]byte)

// Machine is the composed emulator core.
type Machine struct {
	cart cart.Cartridge
	mmu  *mmu.MMU
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	pad  *joypad.State

	sink FrameSink
	log  *logrus.Logger
}

// New builds a Machine from a raw cartridge image. The only error surfaced
// from the core is a bad image; everything at run time is absorbed.
func New(rom []byte, log *logrus.Logger) (*Machine, error) {
	if log == nil {
		log = logrus.New()
	}

	c, err := cart.NewCartridge(rom)
	if err != nil {
		return nil, err
	}

	if h, err := cart.ParseHeader(rom); err == nil {
		log.Infof("cartridge %q type=%s banks=%d ram=%dB", h.Title, h.CartTypeStr, h.ROMBanks, h.RAMSizeBytes)
	}

	pad := joypad.New()
	m := mmu.New(c, pad, log)

	return &Machine{
		cart: c,
		mmu:  m,
		cpu:  cpu.New(m),
		ppu:  ppu.New(m),
		pad:  pad,
		log:  log,
	}, nil
}

// Joypad returns the shared button mask for frontend input adapters.
func (m *Machine) Joypad() *joypad.State { return m.pad }

// SetFrameSink installs the framebuffer consumer.
func (m *Machine) SetFrameSink(sink FrameSink) { m.sink = sink }

// Framebuffer returns the most recently rasterized frame.
func (m *Machine) Framebuffer() *[ppu.Height][ppu.Width]byte { return m.ppu.Framebuffer() }

// MMU exposes the address space for tests and tools.
func (m *Machine) MMU() *mmu.MMU { return m.mmu }

// CPU exposes the processor for tests and tools.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// StepFrame runs one full frame and hands the framebuffer to the sink if
// one was drawn.
func (m *Machine) StepFrame() {
	if m.ppu.StepFrame(m.cpu.Run) && m.sink != nil {
		m.sink(m.ppu.Framebuffer())
	}
}

type machineState struct {
	CPU  []byte
	MMU  []byte
	Cart []byte
}

// SaveState serializes CPU, MMU, and cartridge banking state.
func (m *Machine) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(machineState{
		CPU:  m.cpu.SaveState(),
		MMU:  m.mmu.SaveState(),
		Cart: m.cart.SaveState(),
	})
	return buf.Bytes()
}

// LoadState restores a snapshot produced by SaveState.
func (m *Machine) LoadState(data []byte) {
	var s machineState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		m.log.Errorf("load state: %v", err)
		return
	}
	m.cpu.LoadState(s.CPU)
	m.mmu.LoadState(s.MMU)
	m.cart.LoadState(s.Cart)
}
