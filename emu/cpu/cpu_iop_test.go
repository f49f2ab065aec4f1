/*
 * HP2100 - I/O processor and operating system firmware test set
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
)

func TestLoadStoreIndexed(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100,
		0105421, // LAI 1
		0101422, // SAI 2
		0105417, // LAI -1
		opHLT)
	cpu.load(0277, 0777, 0, 0123)
	cpu.B = 0300
	checkHalt(t, cpu.testInst(0100, testCycles), 0103)
	if v := cpu.Examine(0302); v != 0123 {
		t.Errorf("SAI not correct got: %06o expected: %06o", v, 0123)
	}
	if cpu.A != 0777 {
		t.Errorf("LAI not correct got: %06o expected: %06o", cpu.A, 0777)
	}
}

// 2100 encodings reach the same handlers.
func TestIOP2100(t *testing.T) {
	cfg := Config{Model: Model2100, Options: OptEAU | OptIOP, MemSize: 32, IndirectMax: 16}
	cpu := setup(t, cfg)
	cpu.load(0100,
		0105020, // LAI -16
		0105362, // SAVE
		0105340, // RESTR
		opHLT)
	cpu.load(0300, 0456)
	cpu.B = 0320
	cpu.SP = 0400
	checkHalt(t, cpu.testInst(0100, testCycles), 0103)
	if cpu.A != 0456 || cpu.B != 0320 {
		t.Errorf("Registers not correct got: A=%06o B=%06o", cpu.A, cpu.B)
	}
	if v := cpu.Examine(0401); v != 0456 {
		t.Errorf("Stack not correct got: %06o expected: %06o", v, 0456)
	}
}

func TestCRC(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100, 0105460, 0200, opHLT) // CRC 200
	for _, c := range []byte("123456789") {
		cpu.A = uint16(c)
		checkHalt(t, cpu.testInst(0100, testCycles), 0102)
	}
	if v := cpu.Examine(0200); v != 0xbb3d {
		t.Errorf("CRC not correct got: %04x expected: %04x", v, 0xbb3d)
	}
}

func TestStack(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100,
		0105463, // INS
		0105474, // SAVE
		0105462, // READF
		opHLT)
	cpu.load(0110,
		0105461, // RESTR
		opHLT)
	cpu.A = 0500
	cpu.B = 012345
	checkHalt(t, cpu.testInst(0100, testCycles), 0103)
	if cpu.SP != 0502 || cpu.A != 0502 {
		t.Errorf("Stack pointer not correct got: SP=%06o A=%06o expected: %06o", cpu.SP, cpu.A, 0502)
	}
	if v := cpu.Examine(0501); v != 0500 {
		t.Errorf("Saved A not correct got: %06o expected: %06o", v, 0500)
	}
	if v := cpu.Examine(0502); v != 012345 {
		t.Errorf("Saved B not correct got: %06o expected: %06o", v, 012345)
	}
	cpu.B = 0
	checkHalt(t, cpu.testInst(0110, testCycles), 0111)
	if cpu.A != 0500 || cpu.B != 012345 || cpu.SP != 0500 {
		t.Errorf("RESTR not correct got: A=%06o B=%06o SP=%06o", cpu.A, cpu.B, cpu.SP)
	}
}

func TestQueue(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100, 0105464, opHLT)        // ENQ
	cpu.load(0110, 0105466, opHLT, opHLT) // DEQ
	enq := func(elem uint16) {
		cpu.A = 0400
		cpu.B = elem
		checkHalt(t, cpu.testInst(0100, testCycles), 0101)
	}
	deq := func(elem uint16) {
		t.Helper()
		cpu.A = 0400
		pc := uint16(0112)
		if elem == 0 {
			pc = 0111
		}
		checkHalt(t, cpu.testInst(0110, testCycles), pc)
		if cpu.B != elem {
			t.Errorf("DEQ not correct got: %06o expected: %06o", cpu.B, elem)
		}
	}
	cpu.load(0500, 0777)
	enq(0500)
	if cpu.Examine(0400) != 0500 || cpu.Examine(0401) != 0500 || cpu.Examine(0500) != 0 {
		t.Errorf("Queue header not correct got: %06o %06o", cpu.Examine(0400), cpu.Examine(0401))
	}
	enq(0510)
	if cpu.Examine(0500) != 0510 || cpu.Examine(0401) != 0510 {
		t.Errorf("Queue link not correct got: %06o %06o", cpu.Examine(0500), cpu.Examine(0401))
	}
	deq(0500)
	deq(0510)
	if cpu.Examine(0400) != 0 || cpu.Examine(0401) != 0 {
		t.Errorf("Queue not empty got: %06o %06o", cpu.Examine(0400), cpu.Examine(0401))
	}
	deq(0)
}

func TestTranslate(t *testing.T) {
	cpu := setup(t, DefaultConfig())
	cpu.load(0100, 0105467, 0200, opHLT) // TRSLT 200
	cpu.load(0200, 4)
	cpu.loadBytes(02000+'a', "ABCD")
	cpu.loadBytes(03000, "dcba")
	cpu.A = 01000
	cpu.B = 03000
	checkHalt(t, cpu.testInst(0100, testCycles), 0102)
	if s := cpu.getBytes(03000, 4); s != "DCBA" {
		t.Errorf("Translate not correct got: %q expected: %q", s, "DCBA")
	}
	if cpu.B != 03004 {
		t.Errorf("B not correct got: %06o expected: %06o", cpu.B, 03004)
	}
}

func osConfig() Config {
	return Config{Model: Model1000F, Options: OptEAU | OptFP | OptDMS | OptEIG | OptOS | OptMP | OptDMA,
		MemSize: 256, IndirectMax: 16}
}

func TestListSearch(t *testing.T) {
	tests := []struct {
		name string
		key  uint16
		node uint16
		pc   uint16
	}{
		{"First", 5, 0400, 0103},
		{"Second", 7, 0410, 0103},
		{"Missing", 9, 0, 0102},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu := setup(t, osConfig())
			cpu.load(0100, 0105347, 0200, opHLT, opHLT) // .LLS 200
			cpu.load(0200, 2)
			cpu.load(0400, 0410, 0, 5)
			cpu.load(0410, 0, 0, 7)
			cpu.A = test.key
			cpu.B = 0400
			checkHalt(t, cpu.testInst(0100, testCycles), test.pc)
			if cpu.B != test.node {
				t.Errorf("B not correct got: %06o expected: %06o", cpu.B, test.node)
			}
		})
	}
}

func TestCompareSigned(t *testing.T) {
	tests := []struct {
		name string
		a    uint16
		b    uint16
		pc   uint16
	}{
		{"Equal", 5, 5, 0103},
		{"Less", 0177777, 1, 0104},
		{"Greater", 1, 0177777, 0105},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cpu := setup(t, osConfig())
			cpu.load(0100, 0105352, 0200, 0201, opHLT, opHLT, opHLT) // .CPM 200,201
			cpu.load(0200, test.a, test.b)
			checkHalt(t, cpu.testInst(0100, testCycles), test.pc)
		})
	}
}

func TestFirmwareTest(t *testing.T) {
	cpu := setup(t, osConfig())
	cpu.load(0100, 0105355, opHLT, opHLT) // $OTST
	checkHalt(t, cpu.testInst(0100, testCycles), 0102)
	if cpu.X != osRevision {
		t.Errorf("Revision not correct got: %d expected: %d", cpu.X, osRevision)
	}
	cpu.load(0100, 0105350, opHLT, opHLT) // .SIP
	checkHalt(t, cpu.testInst(0100, testCycles), 0101)
}
