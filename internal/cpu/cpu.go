// Package cpu implements the SM83 interpreter: register file, decoder
// tables, interrupt dispatch, and the fetch-decode-execute step.
package cpu

import (
	"bytes"
	"encoding/gob"
)

// Bus is the CPU's view of memory.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// CPU holds the SM83 register file and master interrupt enable.
type CPU struct {
	// 8-bit registers
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	IME bool

	bus Bus
}

// New creates a CPU with a zeroed register file and IME set. PC starts at
// 0x0000 (no boot ROM).
func New(b Bus) *CPU {
	return &CPU{bus: b, IME: true}
}

// Bus exposes the underlying bus for tests/tools.
func (c *CPU) Bus() Bus { return c.bus }

// Flag bits in F. The low nibble of F is always zero.
const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

func (c *CPU) setZNHC(z, n, h, carry bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if carry {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) flagZ() bool { return c.F&flagZ != 0 }
func (c *CPU) flagN() bool { return c.F&flagN != 0 }
func (c *CPU) flagH() bool { return c.F&flagH != 0 }
func (c *CPU) flagC() bool { return c.F&flagC != 0 }

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | (hi << 8)
}

// 16-bit pairs are big-endian composites of their 8-bit halves.
func (c *CPU) getAF() uint16  { return uint16(c.A)<<8 | uint16(c.F&0xF0) }
func (c *CPU) setAF(v uint16) { c.A = byte(v >> 8); c.F = byte(v) & 0xF0 }
func (c *CPU) getBC() uint16  { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) setBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) getDE() uint16  { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) setDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) getHL() uint16  { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) setHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }

// readReg/writeReg index the symbolic operand table {B,C,D,E,H,L,(HL),A};
// index 6 touches memory at HL.
func (c *CPU) readReg(idx byte) byte {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.getHL())
	default:
		return c.A
	}
}

func (c *CPU) writeReg(idx byte, v byte) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.getHL(), v)
	default:
		c.A = v
	}
}

// getPair/setPair index {BC,DE,HL,SP}; pushes and pops use {BC,DE,HL,AF}.
func (c *CPU) getPair(idx byte) uint16 {
	switch idx {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	default:
		return c.SP
	}
}

func (c *CPU) setPair(idx byte, v uint16) {
	switch idx {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.SP = v
	}
}

// cond indexes {NZ, Z, NC, C}.
func (c *CPU) cond(idx byte) bool {
	switch idx {
	case 0:
		return !c.flagZ()
	case 1:
		return c.flagZ()
	case 2:
		return !c.flagC()
	default:
		return c.flagC()
	}
}

// push16 writes high at SP-1, low at SP-2, then moves SP down.
func (c *CPU) push16(v uint16) {
	c.write8(c.SP-1, byte(v>>8))
	c.write8(c.SP-2, byte(v))
	c.SP -= 2
}

// pop16 reads low at SP, high at SP+1, then moves SP up.
func (c *CPU) pop16() uint16 {
	lo := uint16(c.read8(c.SP))
	hi := uint16(c.read8(c.SP + 1))
	c.SP += 2
	return lo | (hi << 8)
}

// serviceInterrupt vectors the highest-priority pending interrupt, if any.
// Returns the cycles consumed, or 0 when nothing was serviced.
func (c *CPU) serviceInterrupt() int {
	ie := c.read8(0xFFFF)
	ifReg := c.read8(0xFF0F) & 0x1F
	pending := ie & ifReg
	if pending == 0 {
		return 0
	}
	// priority order VBlank(0), LCD STAT(1), Timer(2), Serial(3), Joypad(4)
	var bit uint
	for bit = 0; bit < 5; bit++ {
		if (pending & (1 << bit)) != 0 {
			break
		}
	}
	c.write8(0xFF0F, (ifReg&^(1<<bit))&0x1F)
	c.IME = false
	c.push16(c.PC)
	c.PC = 0x40 + uint16(bit)*8
	return 20
}

// Step executes one instruction (or services one interrupt) and returns
// the cycles consumed.
func (c *CPU) Step() int {
	if c.IME {
		if cyc := c.serviceInterrupt(); cyc != 0 {
			return cyc
		}
	}

	op := c.fetch8()
	var in instr
	if op == 0xCB {
		in = cbTable[c.fetch8()]
	} else {
		in = primary[op]
	}

	var imm uint16
	switch in.length {
	case 2:
		imm = uint16(c.fetch8())
	case 3:
		imm = c.fetch16()
	}

	in.fn(c, imm)
	return in.cycles
}

// Run executes instructions until the cycle budget is exhausted.
func (c *CPU) Run(cycles int) {
	for cycles > 0 {
		cycles -= c.Step()
	}
}

type cpuState struct {
	A, F, B, C, D, E, H, L byte
	SP, PC                 uint16
	IME                    bool
}

func (c *CPU) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(cpuState{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, PC: c.PC, IME: c.IME,
	})
	return buf.Bytes()
}

func (c *CPU) LoadState(data []byte) {
	var s cpuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return
	}
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L
	c.SP, c.PC, c.IME = s.SP, s.PC, s.IME
}
