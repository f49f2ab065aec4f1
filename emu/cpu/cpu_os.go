/*
 * HP2100 - Operating system firmware
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

// Firmware revision returned by $OTST.
const osRevision = 6

// RTE-6/VM operating system assists.
func (cpu *CPU) opOS(ir uint16) error {
	switch ir {
	case 0105347: // .LLS
		return cpu.opLLS()

	case 0105350: // .SIP
		if cpu.interruptPending() {
			cpu.Skip(1)
		}

	case 0105352: // .CPM
		ops, err := cpu.Operands(Pattern(OpAddrInt, OpAddrInt))
		if err != nil {
			return err
		}
		a := int16(ops[0].Word[0])
		b := int16(ops[1].Word[0])
		switch {
		case a < b:
			cpu.Skip(1)
		case a > b:
			cpu.Skip(2)
		}

	case 0105355: // $OTST
		cpu.X = osRevision
		cpu.Skip(1)

	default:
		return cpu.undefined(ir)
	}
	return nil
}

// Search linked list at B for node whose word at offset matches A. B is
// left pointing at the node and P skips, or B is zero if not found. A
// pending interrupt restarts the search with B at the current node.
func (cpu *CPU) opLLS() error {
	ops, err := cpu.Operands(Pattern(OpAddrInt))
	if err != nil {
		return err
	}
	offset := ops[0].Word[0]
	for done := 1; cpu.B != 0; done++ {
		key, err := cpu.ReadWord(cpu.B + offset)
		if err != nil {
			return err
		}
		if key == cpu.A {
			cpu.Skip(1)
			return nil
		}
		next, err := cpu.ReadWord(cpu.B)
		if err != nil {
			return err
		}
		cpu.B = next
		if cpu.restart(done, next != 0) {
			return nil
		}
	}
	return nil
}
