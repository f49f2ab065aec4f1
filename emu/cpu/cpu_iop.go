/*
 * HP2100 - I/O processor instructions
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
   I/O processor firmware, 1000 series numbering. The 2100 codes are
   renumbered before dispatch.

      105400-105437  LAI     load A from B plus offset.
      101400-101437  SAI     store A at B plus offset.
      105460         CRC     update CRC-16 with low byte of A.
      105461         RESTR   pop B and A.
      105462         READF   A = stack pointer.
      105463         INS     stack pointer = A.
      105464         ENQ     add element B to queue at A.
      105466         DEQ     remove element from queue at A into B.
      105467         TRSLT   translate bytes.
      105474         SAVE    push A and B.

   The offset is the low five bits, bit 4 clear is -16 to -1 and bit 4
   set is 0 to 15.
*/

// CRC-16 polynomial, reversed.
const crcPoly uint16 = 0120001

// I/O processor.
func (cpu *CPU) opIOP(ir uint16) error {
	switch ir & 0177740 {
	case 0105400: // LAI
		value, err := cpu.ReadWord(cpu.B + iopOffset(ir))
		if err != nil {
			return err
		}
		cpu.A = value
		return nil
	case 0101400: // SAI
		return cpu.WriteWord(cpu.B+iopOffset(ir), cpu.A)
	}

	switch ir {
	case 0105460: // CRC
		ops, err := cpu.Operands(Pattern(OpAddr))
		if err != nil {
			return err
		}
		crc, err := cpu.ReadWord(ops[0].Addr)
		if err != nil {
			return err
		}
		return cpu.WriteWord(ops[0].Addr, crc16(crc, cpu.A))

	case 0105461: // RESTR
		value, err := cpu.ReadWord(cpu.SP)
		if err != nil {
			return err
		}
		cpu.B = value
		cpu.SP--
		if value, err = cpu.ReadWord(cpu.SP); err != nil {
			return err
		}
		cpu.A = value
		cpu.SP--

	case 0105462: // READF
		cpu.A = cpu.SP

	case 0105463: // INS
		cpu.SP = cpu.A

	case 0105464: // ENQ
		return cpu.enqueue(cpu.A, cpu.B)

	case 0105466: // DEQ
		return cpu.dequeue(cpu.A)

	case 0105467: // TRSLT
		ops, err := cpu.Operands(Pattern(OpAddrInt))
		if err != nil {
			return err
		}
		m := cpu.meu.CurrentMap()
		for range ops[0].Word[0] {
			value, err := cpu.readByte(cpu.B, m)
			if err != nil {
				return err
			}
			value, err = cpu.readByte(cpu.A*2+value, m)
			if err != nil {
				return err
			}
			if err := cpu.writeByte(cpu.B, m, value); err != nil {
				return err
			}
			cpu.B++
		}

	case 0105474: // SAVE
		cpu.SP++
		if err := cpu.WriteWord(cpu.SP, cpu.A); err != nil {
			return err
		}
		cpu.SP++
		return cpu.WriteWord(cpu.SP, cpu.B)

	default:
		return cpu.undefined(ir)
	}
	return nil
}

// Return signed offset from instruction.
func iopOffset(ir uint16) uint16 {
	if (ir & 020) != 0 {
		return ir & 017
	}
	return (ir & 017) - 020
}

// Accumulate one byte into CRC.
func crc16(crc uint16, data uint16) uint16 {
	crc ^= data & LOWBYTE
	for range 8 {
		if (crc & 1) != 0 {
			crc = (crc >> 1) ^ crcPoly
		} else {
			crc >>= 1
		}
	}
	return crc
}

// Add element to tail of queue. Header is head then tail, link in the
// first word of each element.
func (cpu *CPU) enqueue(header, elem uint16) error {
	if err := cpu.WriteWord(elem, 0); err != nil {
		return err
	}
	head, err := cpu.ReadWord(header)
	if err != nil {
		return err
	}
	if head == 0 {
		if err := cpu.WriteWord(header, elem); err != nil {
			return err
		}
	} else {
		tail, err := cpu.ReadWord(header + 1)
		if err != nil {
			return err
		}
		if err := cpu.WriteWord(tail, elem); err != nil {
			return err
		}
	}
	return cpu.WriteWord(header+1, elem)
}

// Remove element from head of queue into B, skip if one was removed.
func (cpu *CPU) dequeue(header uint16) error {
	head, err := cpu.ReadWord(header)
	if err != nil {
		return err
	}
	cpu.B = head
	if head == 0 {
		return nil
	}
	next, err := cpu.ReadWord(head)
	if err != nil {
		return err
	}
	if err := cpu.WriteWord(header, next); err != nil {
		return err
	}
	if next == 0 {
		if err := cpu.WriteWord(header+1, 0); err != nil {
			return err
		}
	}
	cpu.Skip(1)
	return nil
}
