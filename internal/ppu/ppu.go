// Package ppu implements the frame sequencer and the rasterizer. The
// sequencer owns per-frame timing: it steps the STAT mode through the
// OAM/transfer/hblank phases of each visible scanline, feeding the CPU its
// cycle budget for each phase, and raises VBlank before rasterizing.
package ppu

import "github.com/FabianRolfMatthiasNoll/dmgemu/internal/mmu"

const (
	// Screen dimensions in pixels.
	Width  = 160
	Height = 144

	// Lines per frame including VBlank, and cycles per line.
	linesPerFrame  = 154
	cyclesPerLine  = 456
	cyclesOAMScan  = 80
	cyclesTransfer = 172
	cyclesHBlank   = 204
)

// CycleRunner executes CPU work for the given cycle budget.
type CycleRunner func(cycles int)

// lineParams is the scroll/window state captured at the end of each
// visible line's pixel transfer.
type lineParams struct {
	scy, scx, wy, wx byte
}

// PPU owns the framebuffer and the 256x256 background composite. It holds
// a non-owning reference to the MMU for VRAM/OAM/IO reads.
type PPU struct {
	mmu *mmu.MMU

	fb     [Height][Width]byte
	bg     [256][256]byte
	params [Height]lineParams
}

func New(m *mmu.MMU) *PPU {
	return &PPU{mmu: m}
}

// Framebuffer returns the last rasterized frame as palette indices 0..3.
func (p *PPU) Framebuffer() *[Height][Width]byte { return &p.fb }

// StepFrame advances one full frame, driving the CPU through run.
// It reports whether a frame was rasterized (false with the LCD off).
func (p *PPU) StepFrame(run CycleRunner) bool {
	if !p.mmu.LCDEnabled() {
		p.mmu.SetMode(0)
		p.mmu.SetLY(0)
		run(linesPerFrame * cyclesPerLine)
		return false
	}

	for line := 0; line < Height; line++ {
		p.mmu.SetLY(byte(line))

		p.mmu.SetMode(2)
		run(cyclesOAMScan)

		p.mmu.SetMode(3)
		run(cyclesTransfer)
		p.params[line] = lineParams{p.mmu.SCY(), p.mmu.SCX(), p.mmu.WY(), p.mmu.WX()}

		p.mmu.SetMode(0)
		run(cyclesHBlank)
	}

	p.mmu.SetVBlank()
	p.raster()

	for line := Height; line < linesPerFrame-1; line++ {
		p.mmu.SetLY(byte(line))
		p.mmu.SetMode(1)
		run(cyclesPerLine)
	}
	return true
}
