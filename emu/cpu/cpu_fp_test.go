/*
 * HP2100 - Floating point test set
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

import (
	"math/rand"
	"testing"
)

type float struct {
	w1 uint16
	w2 uint16
}

var (
	fltZero   = float{0, 0}
	fltOne    = float{040000, 000002}
	fltTwo    = float{040000, 000004}
	fltSix    = float{060000, 000006}
	fltTwoHlf = float{050000, 000004}
	fltMinus1 = float{0100000, 000000}
	fltMinusH = float{0100000, 000377}
	fltHalf2  = float{040000, 000000}
)

func TestFloatArith(t *testing.T) {
	tests := []struct {
		name string
		ir   uint16
		a    float
		m    float
		res  float
		o    bool
	}{
		{"FAD 1+1", 0105000, fltOne, fltOne, fltTwo, false},
		{"FAD 1-1", 0105000, fltOne, fltMinus1, fltZero, false},
		{"FAD 0+6", 0105000, fltZero, fltSix, fltSix, false},
		{"FSB 6-2.5", 0105020, fltSix, fltTwoHlf, float{070000, 000004}, false},
		{"FSB 1-2", 0105020, fltOne, fltTwo, fltMinus1, false},
		{"FMP 2*2.5", 0105040, fltTwo, fltTwoHlf, float{050000, 000006}, false},
		{"FMP -1*-0.5", 0105040, fltMinus1, fltMinusH, fltHalf2, false},
		{"FMP 0*6", 0105040, fltZero, fltSix, fltZero, false},
		{"FDV 6/2", 0105060, fltSix, fltTwo, float{060000, 000004}, false},
		{"FDV 1/-1", 0105060, fltOne, fltMinus1, fltMinus1, false},
		{"FDV by zero", 0105060, fltSix, fltZero, fltSix, true},
		{"FMP overflow", 0105040, float{040000, 0376}, float{040000, 0376}, float{077777, 0177776}, true},
		{"FMP underflow", 0105040, float{040000, 0001}, float{040000, 0001}, fltZero, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu := setup(t, DefaultConfig())
			cpu.load(0100, test.ir, 0200, opHLT)
			cpu.load(0200, test.m.w1, test.m.w2)
			cpu.A = test.a.w1
			cpu.B = test.a.w2
			checkHalt(t, cpu.testInst(0100, testCycles), 0102)
			if cpu.A != test.res.w1 || cpu.B != test.res.w2 {
				t.Errorf("Result not correct got: %06o %06o expected: %06o %06o",
					cpu.A, cpu.B, test.res.w1, test.res.w2)
			}
			if cpu.O != test.o {
				t.Errorf("O not correct got: %v expected: %v", cpu.O, test.o)
			}
		})
	}
}

func TestFix(t *testing.T) {
	tests := []struct {
		name string
		a    float
		res  uint16
		o    bool
	}{
		{"Six", fltSix, 6, false},
		{"Minus one", fltMinus1, 0177777, false},
		{"Minus half", fltMinusH, 0, false},
		{"Two and a half", fltTwoHlf, 2, false},
		{"Zero", fltZero, 0, false},
		{"Too big", float{040000, 000042}, 077777, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu := setup(t, DefaultConfig())
			cpu.load(0100, 0105100, opHLT)
			cpu.A = test.a.w1
			cpu.B = test.a.w2
			checkHalt(t, cpu.testInst(0100, testCycles), 0101)
			if cpu.A != test.res {
				t.Errorf("FIX not correct got: %06o expected: %06o", cpu.A, test.res)
			}
			if cpu.O != test.o {
				t.Errorf("O not correct got: %v expected: %v", cpu.O, test.o)
			}
		})
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		a   uint16
		res float
	}{
		{1, fltOne},
		{2, fltTwo},
		{6, fltSix},
		{5, float{050000, 000006}},
		{0177777, fltMinus1},
		{0, fltZero},
	}
	for _, test := range tests {
		cpu := setup(t, DefaultConfig())
		cpu.load(0100, 0105120, opHLT)
		cpu.A = test.a
		checkHalt(t, cpu.testInst(0100, testCycles), 0101)
		if cpu.A != test.res.w1 || cpu.B != test.res.w2 {
			t.Errorf("FLT %06o not correct got: %06o %06o expected: %06o %06o",
				test.a, cpu.A, cpu.B, test.res.w1, test.res.w2)
		}
	}
}

// FIX of FLT gives back the integer.
func TestFloatRandom(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100, 0105120, 0105100, opHLT)
	for range testCycles {
		n := uint16(rand.Int31n(65536))
		cpu.A = n
		checkHalt(t, cpu.testInst(0100, testCycles), 0102)
		if cpu.A != n || cpu.O {
			t.Errorf("FIX(FLT(%06o)) not correct got: %06o O=%v", n, cpu.A, cpu.O)
		}
	}
}

// Sum of random integers as floats matches integer sum.
func TestFloatAddRandom(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	for range testCycles {
		x := int16(rand.Int31n(16384) - 8192)
		y := int16(rand.Int31n(16384) - 8192)
		cpu.A = uint16(y)
		cpu.load(0100, 0105120, opHLT)
		checkHalt(t, cpu.testInst(0100, testCycles), 0101)
		cpu.load(0200, cpu.A, cpu.B)
		cpu.A = uint16(x)
		cpu.load(0100, 0105120, 0105000, 0200, 0105100, opHLT)
		checkHalt(t, cpu.testInst(0100, testCycles), 0104)
		if int16(cpu.A) != x+y {
			t.Errorf("FAD %d + %d not correct got: %d expected: %d", x, y, int16(cpu.A), x+y)
		}
	}
}

func TestFloatNormalize(t *testing.T) {
	tests := []struct {
		name string
		m    int64
		exp  int
		res  float
	}{
		{"Exact", int64(1) << 38, 1, fltOne},
		{"Round up", (int64(1) << 38) + fltRound, 1, float{040000, 000402}},
		{"Round carry", fltHigh - 1, 0, fltOne},
		{"Negative half", -(int64(1) << 38), 0, fltMinusH},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w1, w2, ovf := normalize(test.m, test.exp)
			if w1 != test.res.w1 || w2 != test.res.w2 || ovf {
				t.Errorf("Normalize not correct got: %06o %06o %v expected: %06o %06o",
					w1, w2, ovf, test.res.w1, test.res.w2)
			}
		})
	}
}
