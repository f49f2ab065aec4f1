/*
 * HP2100 - Operand resolution for macro instructions
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
   Firmware instructions are followed by a calling sequence of address
   or value words. The operand pattern lists how each operand is found,
   one four bit tag per operand, first operand in the low bits:

      OpNone      end of list.
      OpIntA      A register.
      OpDblAB     A and B as a double integer.
      OpFltAB     A and B as a float.
      OpConst     inline word is the value.
      OpVar       address of the inline word.
      OpAddr      inline word is an address, resolved through indirects.
      OpAddrInt   one word at the address.
      OpAddrDbl   two words at the address.
      OpAddrFlt   two word float at the address.
      OpAddrX     three words at the address.
      OpAddrT     four words at the address.
      OpAddrE     five words at the address.

   Every tag from OpConst up uses one inline word and advances P.
*/

// OpTag describes one operand.
type OpTag uint8

const (
	OpNone OpTag = iota
	OpIntA
	OpDblAB
	OpFltAB
	OpConst
	OpVar
	OpAddr
	OpAddrInt
	OpAddrDbl
	OpAddrFlt
	OpAddrX
	OpAddrT
	OpAddrE
)

// OpPattern is a packed list of up to 8 tags.
type OpPattern uint32

const maxOperands = 8

// Build pattern from tags.
func Pattern(tags ...OpTag) OpPattern {
	var pat OpPattern
	for i, tag := range tags {
		if i >= maxOperands {
			break
		}
		pat |= OpPattern(tag&017) << (4 * i)
	}
	return pat
}

// Operand holds up to five words and the address they came from.
type Operand struct {
	Word [5]uint16 // Value, most significant first.
	Addr uint16    // Address of operand.
}

// Operands in pattern order.
type Operands [maxOperands]Operand

// Number of words for each memory tag.
var tagPrecision = map[OpTag]int{
	OpAddrInt: 1,
	OpAddrDbl: 2,
	OpAddrFlt: 2,
	OpAddrX:   3,
	OpAddrT:   4,
	OpAddrE:   5,
}

// Follow indirect chain to final address.
func (cpu *CPU) resolve(ma uint16) (uint16, error) {
	for depth := 0; (ma & IBIT) != 0; depth++ {
		if depth >= cpu.cfg.IndirectMax {
			return 0, cpu.stop(StopIndirect)
		}
		if depth >= 3 && cpu.interruptPending() {
			return 0, errDefer
		}
		value, err := cpu.ReadWord(ma & VAMASK)
		if err != nil {
			return 0, err
		}
		ma = value
	}
	return ma & VAMASK, nil
}

// Read multiword operand.
func (cpu *CPU) ReadOp(va uint16, prec int) (Operand, error) {
	op := Operand{Addr: va & VAMASK}
	for i := range prec {
		value, err := cpu.ReadWord(va)
		if err != nil {
			return op, err
		}
		op.Word[i] = value
		va = (va + 1) & VAMASK
	}
	return op, nil
}

// Write multiword operand.
func (cpu *CPU) WriteOp(va uint16, op Operand, prec int) error {
	for i := range prec {
		if err := cpu.WriteWord(va, op.Word[i]); err != nil {
			return err
		}
		va = (va + 1) & VAMASK
	}
	return nil
}

// Fetch operands described by pattern.
func (cpu *CPU) Operands(pat OpPattern) (Operands, error) {
	var ops Operands
	for i := 0; pat != 0 && i < maxOperands; i++ {
		tag := OpTag(pat & 017)
		pat >>= 4
		op := &ops[i]

		switch tag {
		case OpNone:
			return ops, nil
		case OpIntA:
			op.Word[0] = cpu.A
			continue
		case OpDblAB, OpFltAB:
			op.Word[0] = cpu.A
			op.Word[1] = cpu.B
			continue
		}

		// Rest use inline word.
		pc := cpu.P
		word, err := cpu.ReadWord(pc)
		if err != nil {
			return ops, err
		}
		cpu.P = (cpu.P + 1) & VAMASK

		switch tag {
		case OpConst:
			op.Word[0] = word
			op.Addr = pc
		case OpVar:
			op.Addr = pc
			op.Word[0] = word
		default:
			addr, err := cpu.resolve(word)
			if err != nil {
				return ops, err
			}
			op.Addr = addr
			if tag == OpAddr {
				continue
			}
			prec, ok := tagPrecision[tag]
			if !ok {
				return ops, cpu.stop(StopInternal)
			}
			value, err := cpu.ReadOp(addr, prec)
			if err != nil {
				return ops, err
			}
			op.Word = value.Word
		}
	}
	return ops, nil
}
