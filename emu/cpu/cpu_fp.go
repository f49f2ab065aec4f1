/*
 * HP2100 - Floating point instructions
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
   Two word floating point:

      15  14                                                       0
    +---+-----------------------------------------------------------+
    | S |                 mantissa high 15 bits                     |
    +---+-------------------------------+---------------------------+
    |    mantissa low 8 bits            |   exponent  7 bits    |ES |
    +-----------------------------------+-----------------------+---+

   The mantissa is a two's complement fraction, normalized so bits 23 and
   22 differ. The exponent is two's complement with its sign in bit 0.
   1.0 is 040000 000002.

      105000  FAD    A,B = A,B + M
      105020  FSB    A,B = A,B - M
      105040  FMP    A,B = A,B * M
      105060  FDV    A,B = A,B / M
      105100  FIX    A = integer of A,B
      105120  FLT    A,B = float of A
*/

// Working mantissa has the binary point at fltPoint, guard bits below
// the 24 bits that are kept.
const (
	fltGuard   = 16
	fltPoint   = 23 + fltGuard
	fltHigh    = int64(1) << fltPoint
	fltHalf    = int64(1) << (fltPoint - 1)
	fltRound   = int64(1) << (fltGuard - 1)
	fltMaxExp  = 127
	fltMinExp  = -128
	fltMantMax = int64(1) << 23
)

// Split float into 24 bit mantissa and exponent.
func unpackFloat(w1, w2 uint16) (int64, int) {
	mant := int64(int32((uint32(w1)<<16)|uint32(w2&0177400)) >> 8)
	exp := int(int8(((w2 & 1) << 7) | ((w2 >> 1) & 0177)))
	return mant, exp
}

// Build float from mantissa and exponent, no checks.
func packFloat(mant int64, exp int) (uint16, uint16) {
	m := uint32(mant) & 077777777
	e := uint16(exp) & 0377
	w2 := uint16(m<<8) | ((e << 1) & 0376) | (e >> 7)
	return uint16(m >> 8), w2
}

// Normalize and round working mantissa, returns packed result and true
// if the result overflowed or underflowed.
func normalize(m int64, exp int) (uint16, uint16, bool) {
	if m == 0 {
		return 0, 0, false
	}
	for m >= fltHigh || m < -fltHigh {
		m >>= 1
		exp++
	}
	for (m > 0 && m < fltHalf) || (m < 0 && m >= -fltHalf) {
		m <<= 1
		exp--
	}

	// Round to nearest, ties away from zero.
	var r int64
	if m >= 0 {
		r = (m + fltRound) >> fltGuard
		if r == fltMantMax {
			r >>= 1
			exp++
		}
	} else {
		r = -((-m + fltRound) >> fltGuard)
		if r == -(fltMantMax >> 1) {
			r <<= 1
			exp--
		}
	}

	switch {
	case exp > fltMaxExp:
		if r < 0 {
			w1, w2 := packFloat(-fltMantMax, fltMaxExp)
			return w1, w2, true
		}
		w1, w2 := packFloat(fltMantMax-1, fltMaxExp)
		return w1, w2, true
	case exp < fltMinExp:
		return 0, 0, true
	}
	w1, w2 := packFloat(r, exp)
	return w1, w2, false
}

// Shift right arithmetic with limit.
func shiftRight(m int64, n int) int64 {
	if n > 62 {
		n = 62
	}
	return m >> n
}

// Floating point.
func (cpu *CPU) opFP(ir uint16) error {
	op := (ir >> 4) & 07
	switch op {
	case 4: // FIX
		cpu.A, cpu.O = fixFloat(cpu.A, cpu.B)
		return nil
	case 5: // FLT
		cpu.A, cpu.B, _ = normalize(int64(int16(cpu.A))<<fltGuard, 23)
		cpu.O = false
		return nil
	case 6, 7:
		return cpu.undefined(ir)
	}

	ops, err := cpu.Operands(Pattern(OpFltAB, OpAddrFlt))
	if err != nil {
		return err
	}
	ma, ea := unpackFloat(ops[0].Word[0], ops[0].Word[1])
	mb, eb := unpackFloat(ops[1].Word[0], ops[1].Word[1])

	var w1, w2 uint16
	var ovf bool
	switch op {
	case 0, 1: // FAD, FSB
		if op == 1 {
			mb = -mb
		}
		w1, w2, ovf = addFloat(ma, ea, mb, eb)
	case 2: // FMP
		w1, w2, ovf = normalize((ma*mb)>>(46-fltPoint), ea+eb)
	case 3: // FDV
		if mb == 0 {
			cpu.O = true
			return nil
		}
		w1, w2, ovf = normalize((ma<<fltPoint)/mb, ea-eb)
	}
	cpu.A = w1
	cpu.B = w2
	cpu.O = ovf
	return nil
}

// Add two unpacked floats.
func addFloat(ma int64, ea int, mb int64, eb int) (uint16, uint16, bool) {
	switch {
	case ma == 0:
		return normalize(mb<<fltGuard, eb)
	case mb == 0:
		return normalize(ma<<fltGuard, ea)
	}
	ma <<= fltGuard
	mb <<= fltGuard
	exp := ea
	if ea >= eb {
		mb = shiftRight(mb, ea-eb)
	} else {
		ma = shiftRight(ma, eb-ea)
		exp = eb
	}
	return normalize(ma+mb, exp)
}

// Convert float to integer, truncating toward zero. Returns 077777 and
// overflow if the value does not fit.
func fixFloat(w1, w2 uint16) (uint16, bool) {
	mant, exp := unpackFloat(w1, w2)
	switch {
	case exp > 15:
		return 077777, true
	case exp < 0:
		return 0, false
	}
	shift := 23 - exp
	if mant < 0 {
		return uint16(-((-mant) >> shift)), false
	}
	return uint16(mant >> shift), false
}
