/*
 * HP2100 - Extended instruction group
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package cpu

/*
   Extended instruction group, 1000 series only. Bit 11 selects A or B
   for the register instructions.

      10x740  SAX/SBX  store A/B at address plus X.
      10x741  CAX/CBX  copy A/B to X.
      10x742  LAX/LBX  load A/B from address plus X.
      105743  STX      store X.
      10x744  CXA/CXB  copy X to A/B.
      105745  LDX      load X.
      105746  ADX      add memory to X.
      10x747  XAX/XBX  exchange A/B and X.
      10x750-757       same for Y.
      105760  ISX      increment X, skip if zero.
      105761  DSX      decrement X, skip if zero.
      105762  JLY      jump and load Y.
      105763  LBT      load byte.
      105764  SBT      store byte.
      105765  MBT      move bytes.
      105766  CBT      compare bytes.
      105767  SFB      scan for byte.
      105770  ISY      increment Y, skip if zero.
      105771  DSY      decrement Y, skip if zero.
      105772  JPY      jump indexed by Y.
      105773  SBS      set bits.
      105774  CBS      clear bits.
      105775  TBS      test bits.
      105776  CMW      compare words.
      105777  MVW      move words.

   Moves and compares look for interrupts every 16 units. The remaining
   count is saved in the word after the count operand and the instruction
   is restarted after the interrupt.
*/

// Units moved between interrupt checks.
const interruptCheck = 16

// Extended instruction group.
func (cpu *CPU) opEIG(ir uint16) error {
	reg := cpu.abReg(ir)
	op := ir & 037
	switch op {
	case 000, 002, 010, 012: // SAX, LAX, SAY, LAY
		index := cpu.X
		if op >= 010 {
			index = cpu.Y
		}
		ops, err := cpu.Operands(Pattern(OpAddr))
		if err != nil {
			return err
		}
		ma := (ops[0].Addr + index) & VAMASK
		if (op & 2) == 0 {
			return cpu.WriteWord(ma, *reg)
		}
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		*reg = value

	case 001: // CAX
		cpu.X = *reg
	case 011: // CAY
		cpu.Y = *reg
	case 004: // CXA
		*reg = cpu.X
	case 014: // CYA
		*reg = cpu.Y
	case 007: // XAX
		*reg, cpu.X = cpu.X, *reg
	case 017: // XAY
		*reg, cpu.Y = cpu.Y, *reg

	case 003, 013: // STX, STY
		ops, err := cpu.Operands(Pattern(OpAddr))
		if err != nil {
			return err
		}
		value := cpu.X
		if op == 013 {
			value = cpu.Y
		}
		return cpu.WriteWord(ops[0].Addr, value)

	case 005, 015: // LDX, LDY
		ops, err := cpu.Operands(Pattern(OpAddrInt))
		if err != nil {
			return err
		}
		if op == 005 {
			cpu.X = ops[0].Word[0]
		} else {
			cpu.Y = ops[0].Word[0]
		}

	case 006, 016: // ADX, ADY
		ops, err := cpu.Operands(Pattern(OpAddrInt))
		if err != nil {
			return err
		}
		if op == 006 {
			cpu.X = cpu.add16(cpu.X, ops[0].Word[0])
		} else {
			cpu.Y = cpu.add16(cpu.Y, ops[0].Word[0])
		}

	case 020: // ISX
		cpu.X++
		if cpu.X == 0 {
			cpu.Skip(1)
		}
	case 021: // DSX
		cpu.X--
		if cpu.X == 0 {
			cpu.Skip(1)
		}
	case 030: // ISY
		cpu.Y++
		if cpu.Y == 0 {
			cpu.Skip(1)
		}
	case 031: // DSY
		cpu.Y--
		if cpu.Y == 0 {
			cpu.Skip(1)
		}

	case 022: // JLY
		ops, err := cpu.Operands(Pattern(OpAddr))
		if err != nil {
			return err
		}
		if err := cpu.checkJump(ops[0].Addr); err != nil {
			return err
		}
		cpu.Y = cpu.P
		cpu.P = ops[0].Addr

	case 032: // JPY
		ops, err := cpu.Operands(Pattern(OpConst))
		if err != nil {
			return err
		}
		ma := (ops[0].Word[0] + cpu.Y) & VAMASK
		if err := cpu.checkJump(ma); err != nil {
			return err
		}
		cpu.P = ma

	case 023: // LBT
		value, err := cpu.readByte(cpu.B, cpu.meu.CurrentMap())
		if err != nil {
			return err
		}
		cpu.A = value
		cpu.B++

	case 024: // SBT
		if err := cpu.writeByte(cpu.B, cpu.meu.CurrentMap(), cpu.A); err != nil {
			return err
		}
		cpu.B++

	case 025: // MBT
		return cpu.moveUnits(true)
	case 026: // CBT
		return cpu.compareUnits(true)
	case 036: // CMW
		return cpu.compareUnits(false)
	case 037: // MVW
		return cpu.moveUnits(false)

	case 027: // SFB
		return cpu.opSFB()

	case 033, 034, 035: // SBS, CBS, TBS
		ops, err := cpu.Operands(Pattern(OpAddrInt, OpAddr))
		if err != nil {
			return err
		}
		mask := ops[0].Word[0]
		value, err := cpu.ReadWord(ops[1].Addr)
		if err != nil {
			return err
		}
		switch op {
		case 033:
			return cpu.WriteWord(ops[1].Addr, value|mask)
		case 034:
			return cpu.WriteWord(ops[1].Addr, value&^mask)
		}
		if (value & mask) != mask {
			cpu.Skip(1)
		}
	}
	return nil
}

// Return starting count for a long move, continuing if interrupted.
func (cpu *CPU) longCount() (uint16, uint16, error) {
	ops, err := cpu.Operands(Pattern(OpAddrInt, OpVar))
	if err != nil {
		return 0, 0, err
	}
	count := ops[1].Word[0]
	if count == 0 {
		count = ops[0].Word[0]
	}
	return count, ops[1].Addr, nil
}

// Check for interrupt during long operation. Saves count and restarts
// the instruction if one is pending.
func (cpu *CPU) suspend(done int, count uint16, save uint16) (bool, error) {
	if count == 0 || (done%interruptCheck) != 0 || !cpu.interruptPending() {
		return false, nil
	}
	if err := cpu.WriteWord(save, count); err != nil {
		return false, err
	}
	cpu.P = cpu.errPC
	return true, nil
}

// MBT and MVW, move from A to B.
func (cpu *CPU) moveUnits(bytes bool) error {
	count, save, err := cpu.longCount()
	if err != nil {
		return err
	}
	m := cpu.meu.CurrentMap()
	for done := 1; count != 0; done++ {
		if bytes {
			value, err := cpu.readByte(cpu.A, m)
			if err != nil {
				return err
			}
			if err := cpu.writeByte(cpu.B, m, value); err != nil {
				return err
			}
		} else {
			value, err := cpu.ReadWord(cpu.A)
			if err != nil {
				return err
			}
			if err := cpu.WriteWord(cpu.B, value); err != nil {
				return err
			}
		}
		cpu.A++
		cpu.B++
		count--
		if stop, err := cpu.suspend(done, count, save); stop || err != nil {
			return err
		}
	}
	return cpu.WriteWord(save, 0)
}

// CBT and CMW, compare A to B. On a mismatch B advances past the rest
// and P skips one if A is less, two if greater.
func (cpu *CPU) compareUnits(bytes bool) error {
	count, save, err := cpu.longCount()
	if err != nil {
		return err
	}
	m := cpu.meu.CurrentMap()
	for done := 1; count != 0; done++ {
		var src, dst uint16
		if bytes {
			if src, err = cpu.readByte(cpu.A, m); err != nil {
				return err
			}
			if dst, err = cpu.readByte(cpu.B, m); err != nil {
				return err
			}
		} else {
			if src, err = cpu.ReadWord(cpu.A); err != nil {
				return err
			}
			if dst, err = cpu.ReadWord(cpu.B); err != nil {
				return err
			}
			// Words compare signed.
			src ^= SIGN
			dst ^= SIGN
		}
		if src != dst {
			cpu.B += count
			if src < dst {
				cpu.Skip(1)
			} else {
				cpu.Skip(2)
			}
			return cpu.WriteWord(save, 0)
		}
		cpu.A++
		cpu.B++
		count--
		if stop, err := cpu.suspend(done, count, save); stop || err != nil {
			return err
		}
	}
	return cpu.WriteWord(save, 0)
}

// Scan bytes at B for test byte in low half of A, stop at terminator in
// the high half. Skips if the terminator was found. The scan is
// restarted every 16 bytes.
func (cpu *CPU) opSFB() error {
	test := cpu.A & LOWBYTE
	term := cpu.A >> 8
	m := cpu.meu.CurrentMap()
	for done := 1; ; done++ {
		value, err := cpu.readByte(cpu.B, m)
		if err != nil {
			return err
		}
		if value == test {
			return nil
		}
		cpu.B++
		if value == term {
			cpu.Skip(1)
			return nil
		}
		// No count to save, restart to let the loop run DMA and
		// interrupts.
		if (done % interruptCheck) == 0 {
			cpu.P = cpu.errPC
			return nil
		}
	}
}
