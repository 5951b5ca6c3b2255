package ppu

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/cart"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/joypad"
	"github.com/FabianRolfMatthiasNoll/dmgemu/internal/mmu"
)

func newPPU(t *testing.T) (*PPU, *mmu.MMU) {
	t.Helper()
	c, err := cart.NewCartridge(make([]byte, 0x8000))
	if err != nil {
		t.Fatal(err)
	}
	m := mmu.New(c, joypad.New(), nil)
	return New(m), m
}

func TestFrameWithLCDOff(t *testing.T) {
	p, m := newPPU(t)
	m.Write(mmu.AddrLCDC, 0x00)

	var calls []int
	drawn := p.StepFrame(func(cycles int) { calls = append(calls, cycles) })

	if drawn {
		t.Fatal("LCD-off frame must not rasterize")
	}
	if len(calls) != 1 || calls[0] != 154*456 {
		t.Fatalf("idle frame budgets got %v want one call of %d", calls, 154*456)
	}
	if m.LY() != 0 || m.Mode() != 0 {
		t.Fatalf("LY=%d mode=%d want 0/0", m.LY(), m.Mode())
	}
}

func TestFramePhaseBudgets(t *testing.T) {
	p, m := newPPU(t)
	m.Write(mmu.AddrLCDC, 0x91)

	type phase struct {
		mode   byte
		ly     byte
		cycles int
	}
	var phases []phase
	drawn := p.StepFrame(func(cycles int) {
		phases = append(phases, phase{m.Mode(), m.LY(), cycles})
	})
	if !drawn {
		t.Fatal("frame not drawn with LCD on")
	}

	// 3 phases per visible line plus one per VBlank line.
	if len(phases) != 144*3+9 {
		t.Fatalf("phase count got %d want %d", len(phases), 144*3+9)
	}

	// First visible line: OAM scan, transfer, hblank.
	want := []phase{{2, 0, 80}, {3, 0, 172}, {0, 0, 204}}
	for i, w := range want {
		if phases[i] != w {
			t.Fatalf("phase %d got %+v want %+v", i, phases[i], w)
		}
	}

	// First VBlank line.
	vb := phases[144*3]
	if vb.mode != 1 || vb.ly != 144 || vb.cycles != 456 {
		t.Fatalf("vblank phase got %+v", vb)
	}
	// Last line of the frame.
	last := phases[len(phases)-1]
	if vbLast := (phase{1, 152, 456}); last != vbLast {
		t.Fatalf("last phase got %+v want %+v", last, vbLast)
	}
}

func TestVBlankInterruptRaised(t *testing.T) {
	p, m := newPPU(t)
	m.Write(mmu.AddrLCDC, 0x91)

	p.StepFrame(func(int) {})

	if m.Read(mmu.AddrIF)&(1<<mmu.IntVBlank) == 0 {
		t.Fatal("VBlank not requested after visible lines")
	}
}

func TestLYCCoincidenceDuringFrame(t *testing.T) {
	p, m := newPPU(t)
	m.Write(mmu.AddrLCDC, 0x91)
	m.Write(mmu.AddrLYC, 40)
	m.Write(mmu.AddrSTAT, 1<<6)

	p.StepFrame(func(int) {})

	if m.Read(mmu.AddrIF)&(1<<mmu.IntSTAT) == 0 {
		t.Fatal("STAT interrupt not raised on LY==LYC")
	}
}

func TestScrollParamsCapturedPerLine(t *testing.T) {
	p, m := newPPU(t)
	m.Write(mmu.AddrLCDC, 0x91)
	m.Write(mmu.AddrSCX, 7)
	m.Write(mmu.AddrSCY, 3)

	// Change SCX mid-frame, during line 100's OAM phase; lines before the
	// change keep the old value.
	p.StepFrame(func(cycles int) {
		if m.LY() == 100 && m.Mode() == 2 {
			m.Write(mmu.AddrSCX, 42)
		}
	})

	if p.params[0].scx != 7 || p.params[0].scy != 3 {
		t.Fatalf("line 0 params got %+v", p.params[0])
	}
	if p.params[99].scx != 7 {
		t.Fatalf("line 99 scx got %d want 7", p.params[99].scx)
	}
	if p.params[100].scx != 42 {
		t.Fatalf("line 100 scx got %d want 42", p.params[100].scx)
	}
	if p.params[143].scx != 42 {
		t.Fatalf("line 143 scx got %d want 42", p.params[143].scx)
	}
}
