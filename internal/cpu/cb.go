package cpu

// The CB-prefixed table: rotates/shifts/SWAP in 0x00–0x3F, then BIT, RES,
// SET over the remaining three quarters. Operand index is the low octal
// digit, with 6 meaning memory at HL.

func buildCB() [256]instr {
	var t [256]instr

	shifts := []func(c *CPU, v byte) (byte, bool){
		(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
		(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
	}

	for op := 0; op < 0x40; op++ {
		group := op >> 3
		idx := byte(op) & 7
		cyc := 8
		if idx == 6 {
			cyc = 16
		}
		fn := shifts[group]
		t[op] = instr{1, cyc, func(c *CPU, _ uint16) {
			r, cy := fn(c, c.readReg(idx))
			c.writeReg(idx, r)
			c.setZNHC(r == 0, false, false, cy)
		}}
	}

	for op := 0x40; op < 0x100; op++ {
		idx := byte(op) & 7
		n := byte(op>>3) & 7
		switch (op - 0x40) / 0x40 {
		case 0: // BIT
			cyc := 8
			if idx == 6 {
				cyc = 12
			}
			t[op] = instr{1, cyc, func(c *CPU, _ uint16) { c.bit(n, c.readReg(idx)) }}
		case 1: // RES
			cyc := 8
			if idx == 6 {
				cyc = 16
			}
			t[op] = instr{1, cyc, func(c *CPU, _ uint16) { c.writeReg(idx, c.readReg(idx)&^(1<<n)) }}
		case 2: // SET
			cyc := 8
			if idx == 6 {
				cyc = 16
			}
			t[op] = instr{1, cyc, func(c *CPU, _ uint16) { c.writeReg(idx, c.readReg(idx)|1<<n) }}
		}
	}

	return t
}
