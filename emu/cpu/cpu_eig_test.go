/*
 * HP2100 - Extended instruction group test set
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
	"testing"

	testdev "github.com/rcornwell/HP2100/emu/test_dev"
)

// Load bytes starting at byte address.
func (cpu *CPU) loadBytes(ba uint16, data string) {
	for i := range len(data) {
		a := ba + uint16(i)
		word := cpu.Examine(a >> 1)
		if (a & 1) == 0 {
			word = (word & LOWBYTE) | (uint16(data[i]) << 8)
		} else {
			word = (word &^ LOWBYTE) | uint16(data[i])
		}
		cpu.Deposit(a>>1, word)
	}
}

// Return bytes starting at byte address.
func (cpu *CPU) getBytes(ba uint16, n int) string {
	buf := make([]byte, n)
	for i := range n {
		a := ba + uint16(i)
		word := cpu.Examine(a >> 1)
		if (a & 1) == 0 {
			buf[i] = byte(word >> 8)
		} else {
			buf[i] = byte(word)
		}
	}
	return string(buf)
}

func TestIndexRegisters(t *testing.T) {
	tests := []struct {
		name string
		ir   uint16
		a    uint16
		b    uint16
		x    uint16
		y    uint16
		resA uint16
		resB uint16
		resX uint16
		resY uint16
	}{
		{"CAX", 0101741, 012, 034, 0, 0, 012, 034, 012, 0},
		{"CBX", 0105741, 012, 034, 0, 0, 012, 034, 034, 0},
		{"CAY", 0101751, 012, 034, 0, 0, 012, 034, 0, 012},
		{"CXA", 0101744, 012, 034, 056, 0, 056, 034, 056, 0},
		{"CYB", 0105754, 012, 034, 0, 077, 012, 077, 0, 077},
		{"XAX", 0101747, 012, 034, 056, 0, 056, 034, 012, 0},
		{"XBY", 0105757, 012, 034, 0, 077, 012, 077, 0, 034},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu := setup(t, DefaultConfig())
			cpu.load(0100, test.ir, opHLT)
			cpu.A = test.a
			cpu.B = test.b
			cpu.X = test.x
			cpu.Y = test.y
			checkHalt(t, cpu.testInst(0100, testCycles), 0101)
			if cpu.A != test.resA || cpu.B != test.resB || cpu.X != test.resX || cpu.Y != test.resY {
				t.Errorf("Registers not correct got: %06o %06o %06o %06o expected: %06o %06o %06o %06o",
					cpu.A, cpu.B, cpu.X, cpu.Y, test.resA, test.resB, test.resX, test.resY)
			}
		})
	}
}

func TestIndexedAccess(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100,
		0101740, 0200, // SAX 200
		0105752, 0300, // LBY 300
		0105743, 0400, // STX 400
		0105755, 0401, // LDY 401
		0105746, 0402, // ADX 402
		opHLT)
	cpu.load(0307, 04444)
	cpu.load(0401, 0123, 0177777)
	cpu.A = 05555
	cpu.X = 3
	cpu.Y = 7
	checkHalt(t, cpu.testInst(0100, testCycles), 0112)
	if v := cpu.Examine(0203); v != 05555 {
		t.Errorf("SAX not correct got: %06o expected: %06o", v, 05555)
	}
	if cpu.B != 04444 {
		t.Errorf("LBY not correct got: %06o expected: %06o", cpu.B, 04444)
	}
	if v := cpu.Examine(0400); v != 3 {
		t.Errorf("STX not correct got: %06o expected: %06o", v, 3)
	}
	if cpu.Y != 0123 {
		t.Errorf("LDY not correct got: %06o expected: %06o", cpu.Y, 0123)
	}
	if cpu.X != 2 || !cpu.E {
		t.Errorf("ADX not correct got: %06o E=%v expected: %06o E=true", cpu.X, cpu.E, 2)
	}
}

func TestIncrementSkip(t *testing.T) {
	tests := []struct {
		name string
		ir   uint16
		x    uint16
		y    uint16
		pc   uint16
	}{
		{"ISX skip", 0105760, 0177777, 0, 0102},
		{"ISX", 0105760, 5, 0, 0101},
		{"DSX skip", 0105761, 1, 0, 0102},
		{"DSX", 0105761, 0, 0, 0101},
		{"ISY skip", 0105770, 0, 0177777, 0102},
		{"DSY skip", 0105771, 0, 1, 0102},
		{"DSY", 0105771, 0, 2, 0101},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu := setup(t, DefaultConfig())
			cpu.load(0100, test.ir, opHLT, opHLT)
			cpu.X = test.x
			cpu.Y = test.y
			checkHalt(t, cpu.testInst(0100, testCycles), test.pc)
		})
	}
}

func TestJumpY(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100, 0105762, 0300) // JLY 300
	cpu.load(0300, 0105772, 0400) // JPY 400
	cpu.load(0405, opHLT)
	cpu.Y = 0
	stop := cpu.testInst(0100, 1)
	if stop != nil {
		t.Fatalf("JLY stopped: %v", stop)
	}
	if cpu.Y != 0102 || cpu.P != 0300 {
		t.Errorf("JLY not correct got: Y=%06o P=%06o expected: Y=%06o P=%06o", cpu.Y, cpu.P, 0102, 0300)
	}
	cpu.Y = 5
	checkHalt(t, cpu.testInst(0300, testCycles), 0405)
}

func TestByteLoadStore(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100,
		0105763, // LBT
		0105764, // SBT
		0105763, // LBT
		opHLT)
	cpu.loadBytes(0600, "ABC")
	cpu.B = 0600
	checkHalt(t, cpu.testInst(0100, testCycles), 0103)
	// Second byte was overwritten with the first.
	if s := cpu.getBytes(0600, 3); s != "AAC" {
		t.Errorf("Bytes not correct got: %q expected: %q", s, "AAC")
	}
	if cpu.A != 'C' || cpu.B != 0603 {
		t.Errorf("Registers not correct got: A=%06o B=%06o expected: A=%06o B=%06o", cpu.A, cpu.B, 'C', 0603)
	}
}

func TestMoveBytes(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100, 0105765, 0200, 0, opHLT) // MBT 200
	cpu.load(0200, 5)
	cpu.loadBytes(01001, "Hello")
	cpu.A = 01001
	cpu.B = 02000
	checkHalt(t, cpu.testInst(0100, testCycles), 0103)
	if s := cpu.getBytes(02000, 5); s != "Hello" {
		t.Errorf("Bytes moved not correct got: %q expected: %q", s, "Hello")
	}
	if cpu.A != 01006 || cpu.B != 02005 {
		t.Errorf("Registers not correct got: A=%06o B=%06o", cpu.A, cpu.B)
	}
	if v := cpu.Examine(0102); v != 0 {
		t.Errorf("Count word not cleared got: %06o", v)
	}
}

func TestMoveWords(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100, 0105777, 0200, 0, opHLT) // MVW 200
	cpu.load(0200, 3)
	cpu.load(01000, 1, 2, 3, 4)
	cpu.A = 01000
	cpu.B = 01100
	checkHalt(t, cpu.testInst(0100, testCycles), 0103)
	for i := range uint16(3) {
		if v := cpu.Examine(01100 + i); v != i+1 {
			t.Errorf("Word %d not correct got: %06o expected: %06o", i, v, i+1)
		}
	}
	if v := cpu.Examine(01103); v != 0 {
		t.Errorf("Moved too many words got: %06o", v)
	}
}

// Long move restarts with an interrupt pending and finishes after.
func TestMoveInterrupted(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	if _, err := testdev.New(cpu.Bus(), cpu.Events(), 010, 0); err != nil {
		t.Fatalf("Unable to attach test device: %v", err)
	}
	cpu.load(0100, 0105777, 0200, 0, opHLT) // MVW 200
	cpu.load(0200, 40)
	for i := range uint16(40) {
		cpu.load(01000+i, i+1)
	}
	cpu.A = 01000
	cpu.B = 02000
	cpu.ion = true
	cpu.ionDefer = true
	cpu.Bus().SetControl(010)
	cpu.Bus().SetFlag(010)
	cpu.P = 0100
	if _, err := cpu.Cycle(); err != nil {
		t.Fatalf("Cycle failed: %v", err)
	}
	if cpu.P != 0100 {
		t.Errorf("Instruction not restarted got: %06o expected: %06o", cpu.P, 0100)
	}
	if v := cpu.Examine(0102); v != 24 {
		t.Errorf("Remaining count not correct got: %d expected: %d", v, 24)
	}
	if cpu.A != 01020 || cpu.B != 02020 {
		t.Errorf("Registers not correct got: A=%06o B=%06o", cpu.A, cpu.B)
	}
	cpu.Bus().ClearFlag(010)
	checkHalt(t, cpu.testInst(0100, testCycles), 0103)
	for i := range uint16(40) {
		if v := cpu.Examine(02000 + i); v != i+1 {
			t.Errorf("Word %d not correct got: %06o expected: %06o", i, v, i+1)
		}
	}
	if v := cpu.Examine(02050); v != 0 {
		t.Errorf("Moved too many words got: %06o", v)
	}
	if v := cpu.Examine(0102); v != 0 {
		t.Errorf("Count word not cleared got: %06o", v)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		ir   uint16
		src  []uint16
		dst  []uint16
		pc   uint16
		resB uint16
	}{
		{"CMW equal", 0105776, []uint16{1, 2, 3}, []uint16{1, 2, 3}, 0103, 02003},
		{"CMW less", 0105776, []uint16{1, 2, 3}, []uint16{1, 5, 3}, 0104, 02003},
		{"CMW greater", 0105776, []uint16{7, 2, 3}, []uint16{1, 2, 3}, 0105, 02003},
		{"CMW signed", 0105776, []uint16{0177777, 2, 3}, []uint16{1, 2, 3}, 0104, 02003},
		{"CBT equal", 0105766, []uint16{0101102, 0103000}, []uint16{0101102, 0103000}, 0103, 04003},
		{"CBT less", 0105766, []uint16{0101102, 0103000}, []uint16{0101102, 0104000}, 0104, 04003},
		{"CBT greater", 0105766, []uint16{0101102, 0103000}, []uint16{0101101, 0103000}, 0105, 04003},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu := setup(t, DefaultConfig())
			cpu.load(0100, test.ir, 0200, 0, opHLT, opHLT, opHLT)
			cpu.load(0200, 3)
			cpu.load(01000, test.src...)
			cpu.load(02000, test.dst...)
			if test.ir == 0105766 {
				cpu.A = 02000
				cpu.B = 04000
			} else {
				cpu.A = 01000
				cpu.B = 02000
			}
			checkHalt(t, cpu.testInst(0100, testCycles), test.pc)
			if cpu.B != test.resB {
				t.Errorf("B not correct got: %06o expected: %06o", cpu.B, test.resB)
			}
		})
	}
}

func TestScanBytes(t *testing.T) {
	tests := []struct {
		name string
		data string
		test byte
		term byte
		pc   uint16
		resB uint16
	}{
		{"Found", "abcdef", 'd', '.', 0101, 02003},
		{"Terminator", "abc.def", 'x', '.', 0102, 02004},
		{"First", "abc", 'a', '.', 0101, 02000},
		{"Long", "0123456789012345678901234567890123456789x", 'x', '.', 0101, 02050},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu := setup(t, DefaultConfig())
			cpu.load(0100, 0105767, opHLT, opHLT)
			cpu.loadBytes(02000, test.data)
			cpu.A = uint16(test.term)<<8 | uint16(test.test)
			cpu.B = 02000
			checkHalt(t, cpu.testInst(0100, testCycles), test.pc)
			if cpu.B != test.resB {
				t.Errorf("B not correct got: %06o expected: %06o", cpu.B, test.resB)
			}
		})
	}
}

func TestBitOps(t *testing.T) {
	tests := []struct {
		name  string
		ir    uint16
		mask  uint16
		value uint16
		res   uint16
		pc    uint16
	}{
		{"SBS", 0105773, 0000360, 0100001, 0100361, 0103},
		{"CBS", 0105774, 0100001, 0100361, 0000360, 0103},
		{"TBS all", 0105775, 0000060, 0000070, 0000070, 0103},
		{"TBS some", 0105775, 0000060, 0000020, 0000020, 0104},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu := setup(t, DefaultConfig())
			cpu.load(0100, test.ir, 0200, 0201, opHLT, opHLT)
			cpu.load(0200, test.mask, test.value)
			checkHalt(t, cpu.testInst(0100, testCycles), test.pc)
			if v := cpu.Examine(0201); v != test.res {
				t.Errorf("Word not correct got: %06o expected: %06o", v, test.res)
			}
		})
	}
}
