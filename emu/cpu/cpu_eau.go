/*
 * HP2100 - Extended arithmetic unit
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
   EAU instructions:

      100000  DIAG   1000-E/F diagnostic, executes as a no-op.
      1000n0  ASL    arithmetic left shift B:A, count 1-16.
      1000n0  LSL    logical left shift B:A.
      1001n0  RRL    rotate left B:A.
      100200  MPY    B:A = A * M.
      100400  DIV    A = B:A / M, B = remainder.
      1010n0  ASR    arithmetic right shift B:A.
      1010n0  LSR    logical right shift B:A.
      1011n0  RRR    rotate right B:A.
      104200  DLD    load B:A double.
      104400  DST    store B:A double.

   Shift count is in the low four bits, zero means 16.
*/

// Extended arithmetic.
func (cpu *CPU) opEAU(ir uint16) error {
	switch ir & 0177400 {
	case 0100000:
		if (ir & 0177600) == 0100200 {
			return cpu.opMPY()
		}
		switch (ir >> 4) & 017 {
		case 000:
			if ir == 0100000 && cpu.cfg.Model.IsEF() {
				return nil
			}
		case 001:
			cpu.opASL(shiftCount(ir))
			return nil
		case 002:
			cpu.setDouble(cpu.double() << shiftCount(ir))
			return nil
		case 004:
			n := shiftCount(ir)
			v := cpu.double()
			cpu.setDouble((v << n) | (v >> (32 - n)))
			return nil
		}

	case 0100400:
		return cpu.opDIV()

	case 0101000:
		switch (ir >> 4) & 017 {
		case 001: // ASR
			cpu.setDouble(uint32(int32(cpu.double()) >> shiftCount(ir)))
			cpu.O = false
			return nil
		case 002: // LSR
			cpu.setDouble(cpu.double() >> shiftCount(ir))
			return nil
		case 004: // RRR
			n := shiftCount(ir)
			v := cpu.double()
			cpu.setDouble((v >> n) | (v << (32 - n)))
			return nil
		}

	case 0104000:
		if (ir & 0177600) == 0104200 { // DLD
			ops, err := cpu.Operands(Pattern(OpAddrDbl))
			if err != nil {
				return err
			}
			cpu.A = ops[0].Word[0]
			cpu.B = ops[0].Word[1]
			return nil
		}

	case 0104400: // DST
		ops, err := cpu.Operands(Pattern(OpAddr))
		if err != nil {
			return err
		}
		return cpu.WriteOp(ops[0].Addr, Operand{Word: [5]uint16{cpu.A, cpu.B}}, 2)
	}
	return cpu.undefined(ir)
}

// Return shift count, 0 means 16.
func shiftCount(ir uint16) uint32 {
	n := uint32(ir & 017)
	if n == 0 {
		n = 16
	}
	return n
}

// Return B:A as one 32 bit value.
func (cpu *CPU) double() uint32 {
	return (uint32(cpu.B) << 16) | uint32(cpu.A)
}

// Set B:A from 32 bit value.
func (cpu *CPU) setDouble(v uint32) {
	cpu.B = uint16(v >> 16)
	cpu.A = uint16(v)
}

// Arithmetic shift left, overflow if any bit lost differs from the sign.
func (cpu *CPU) opASL(n uint32) {
	v := cpu.double()
	sign := v & 0x80000000
	cpu.O = false
	for range n {
		if ((v << 1) & 0x80000000) != sign {
			cpu.O = true
		}
		v = sign | ((v << 1) & 0x7fffffff)
	}
	cpu.setDouble(v)
}

// Multiply A by operand giving B:A.
func (cpu *CPU) opMPY() error {
	ops, err := cpu.Operands(Pattern(OpAddrInt))
	if err != nil {
		return err
	}
	product := int32(int16(cpu.A)) * int32(int16(ops[0].Word[0]))
	cpu.setDouble(uint32(product))
	cpu.O = product < -32768 || product > 32767
	return nil
}

// Divide B:A by operand. On overflow A and B are unchanged.
func (cpu *CPU) opDIV() error {
	ops, err := cpu.Operands(Pattern(OpAddrInt))
	if err != nil {
		return err
	}
	dividend := int64(int32(cpu.double()))
	divisor := int64(int16(ops[0].Word[0]))
	if divisor == 0 || (abs64(dividend)>>16) >= abs64(divisor) {
		cpu.O = true
		return nil
	}
	quotient := dividend / divisor
	if quotient < -32768 || quotient > 32767 {
		cpu.O = true
		return nil
	}
	cpu.A = uint16(quotient)
	cpu.B = uint16(dividend % divisor)
	cpu.O = false
	return nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
