/*
 * HP2100 - HP 2100/1000 instruction disassembler
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

package disassemble

import (
	"fmt"
	"strings"
)

/*
   Instructions are decoded in 1000 series numbering. Only the
   instruction word is shown, operand words that follow a macro
   instruction are disassembled as separate words.
*/

const (
	tyMRG = 1 + iota // Memory reference.
	tySRG            // Shift-rotate group.
	tyASG            // Alter-skip group.
	tyIOG            // I/O group.
	tyMAC            // Macro instruction.

	macPlain  = 1 + iota // No operand in instruction.
	macShift             // Shift count in low four bits.
	macOffset            // Signed offset in low five bits.
)

type opcode struct {
	opName  string // Opcode string.
	opFlags int    // Opcode flags.
}

// Memory reference group, indexed by bits 14-11.
var mrgOps = [16]string{
	"", "", "AND", "JSB", "XOR", "JMP", "IOR", "ISZ",
	"ADA", "ADB", "CPA", "CPB", "LDA", "LDB", "STA", "STB",
}

// Shift and rotate names, A then B register.
var shiftOps = [2][8]string{
	{"ALS", "ARS", "RAL", "RAR", "ALR", "ERA", "ELA", "ALF"},
	{"BLS", "BRS", "RBL", "RBR", "BLR", "ERB", "ELB", "BLF"},
}

// I/O group, indexed by bits 8-6, A then B register.
var iogOps = [2][8]string{
	{"HLT", "STF", "SFC", "SFS", "MIA", "LIA", "OTA", "STC"},
	{"HLT", "STF", "SFC", "SFS", "MIB", "LIB", "OTB", "STC"},
}

// Macro instructions with a fixed range of codes.
type macroRange struct {
	low  uint16
	high uint16
	op   opcode
}

var macroRanges = []macroRange{
	{0100000, 0100000, opcode{"DIAG", macPlain}},
	{0100020, 0100037, opcode{"ASL", macShift}},
	{0100040, 0100057, opcode{"LSL", macShift}},
	{0100100, 0100117, opcode{"RRL", macShift}},
	{0100200, 0100377, opcode{"MPY", macPlain}},
	{0100400, 0100777, opcode{"DIV", macPlain}},
	{0101020, 0101037, opcode{"ASR", macShift}},
	{0101040, 0101057, opcode{"LSR", macShift}},
	{0101100, 0101117, opcode{"RRR", macShift}},
	{0104200, 0104377, opcode{"DLD", macPlain}},
	{0104400, 0104777, opcode{"DST", macPlain}},
	{0105000, 0105017, opcode{"FAD", macPlain}},
	{0105020, 0105037, opcode{"FSB", macPlain}},
	{0105040, 0105057, opcode{"FMP", macPlain}},
	{0105060, 0105077, opcode{"FDV", macPlain}},
	{0105100, 0105117, opcode{"FIX", macPlain}},
	{0105120, 0105137, opcode{"FLT", macPlain}},
	{0105400, 0105437, opcode{"LAI", macOffset}},
	{0101400, 0101437, opcode{"SAI", macOffset}},
}

// Single code macro instructions.
var macroOps = map[uint16]string{
	0105347: ".LLS",
	0105350: ".SIP",
	0105352: ".CPM",
	0105355: "$OTST",
	0105460: "CRC",
	0105461: "RESTR",
	0105462: "READF",
	0105463: "INS",
	0105464: "ENQ",
	0105465: "PENQ",
	0105466: "DEQ",
	0105467: "TRSLT",
	0105470: "ILIST",
	0105471: "PRFEI",
	0105472: "PRFEX",
	0105473: "PRFIO",
	0105474: "SAVE",
}

// Dynamic mapping instructions 10x700-10x737, A then B form.
var dmsOps = [32][2]string{
	{"XMM", "XMM"}, {}, {"MBI", "MBI"}, {"MBF", "MBF"},
	{"MBW", "MBW"}, {"MWI", "MWI"}, {"MWF", "MWF"}, {"MWW", "MWW"},
	{"SYA", "SYB"}, {"USA", "USB"}, {"PAA", "PAB"}, {"PBA", "PBB"},
	{"SSM", "SSM"}, {"JRS", "JRS"}, {}, {},
	{"XMM", "XMM"}, {"XMS", "XMS"}, {"XMA", "XMB"}, {},
	{"XLA", "XLB"}, {"XSA", "XSB"}, {"XCA", "XCB"}, {"LFA", "LFB"},
	{"RSA", "RSB"}, {"RVA", "RVB"}, {"DJP", "DJP"}, {"DJS", "DJS"},
	{"SJP", "SJP"}, {"SJS", "SJS"}, {"UJP", "UJP"}, {"UJS", "UJS"},
}

// Extended instruction group 10x740-10x777, A then B form.
var eigOps = [32][2]string{
	{"SAX", "SBX"}, {"CAX", "CBX"}, {"LAX", "LBX"}, {"STX", "STX"},
	{"CXA", "CXB"}, {"LDX", "LDX"}, {"ADX", "ADX"}, {"XAX", "XBX"},
	{"SAY", "SBY"}, {"CAY", "CBY"}, {"LAY", "LBY"}, {"STY", "STY"},
	{"CYA", "CYB"}, {"LDY", "LDY"}, {"ADY", "ADY"}, {"XAY", "XBY"},
	{"ISX", "ISX"}, {"DSX", "DSX"}, {"JLY", "JLY"}, {"LBT", "LBT"},
	{"SBT", "SBT"}, {"MBT", "MBT"}, {"CBT", "CBT"}, {"SFB", "SFB"},
	{"ISY", "ISY"}, {"DSY", "DSY"}, {"JPY", "JPY"}, {"SBS", "SBS"},
	{"CBS", "CBS"}, {"TBS", "TBS"}, {"CMW", "CMW"}, {"MVW", "MVW"},
}

// Return instruction type of word.
func instType(ir uint16) int {
	switch {
	case (ir & 0070000) != 0:
		return tyMRG
	case (ir & 0100000) == 0:
		if (ir & 0002000) == 0 {
			return tySRG
		}
		return tyASG
	case (ir & 0002000) != 0:
		return tyIOG
	}
	return tyMAC
}

// Disassemble instruction at logical address addr.
func Disassemble(addr uint16, ir uint16) string {
	switch instType(ir) {
	case tyMRG:
		return memRef(addr, ir)
	case tySRG:
		return shiftRotate(ir)
	case tyASG:
		return alterSkip(ir)
	case tyIOG:
		return ioGroup(ir)
	}
	return macro(ir)
}

// Pad opcode to operand column.
func pad(name string) string {
	inst := name + "      "
	return inst[:6]
}

func memRef(addr uint16, ir uint16) string {
	target := ir & 01777
	if (ir & 0002000) != 0 {
		target |= addr & 076000
	}
	inst := pad(mrgOps[(ir>>11)&017]) + fmt.Sprintf("%o", target)
	if (ir & 0100000) != 0 {
		inst += ",I"
	}
	return inst
}

func shiftRotate(ir uint16) string {
	reg := (ir >> 11) & 1
	r := string("AB"[reg])
	parts := []string{}
	if (ir & 0001000) != 0 {
		parts = append(parts, shiftOps[reg][(ir>>6)&07])
	}
	if (ir & 0000040) != 0 {
		parts = append(parts, "CLE")
	}
	if (ir & 0000010) != 0 {
		parts = append(parts, "SL"+r)
	}
	if (ir & 0000020) != 0 {
		parts = append(parts, shiftOps[reg][ir&07])
	}
	if len(parts) == 0 {
		return "NOP"
	}
	return strings.Join(parts, ",")
}

func alterSkip(ir uint16) string {
	r := string("AB"[(ir>>11)&1])
	parts := []string{}
	switch (ir >> 8) & 03 {
	case 01:
		parts = append(parts, "CL"+r)
	case 02:
		parts = append(parts, "CM"+r)
	case 03:
		parts = append(parts, "CC"+r)
	}
	if (ir & 0000040) != 0 {
		parts = append(parts, "SEZ")
	}
	switch (ir >> 6) & 03 {
	case 01:
		parts = append(parts, "CLE")
	case 02:
		parts = append(parts, "CME")
	case 03:
		parts = append(parts, "CCE")
	}
	if (ir & 0000020) != 0 {
		parts = append(parts, "SS"+r)
	}
	if (ir & 0000010) != 0 {
		parts = append(parts, "SL"+r)
	}
	if (ir & 0000004) != 0 {
		parts = append(parts, "IN"+r)
	}
	if (ir & 0000002) != 0 {
		parts = append(parts, "SZ"+r)
	}
	if (ir & 0000001) != 0 {
		parts = append(parts, "RSS")
	}
	if len(parts) == 0 {
		return "NOP"
	}
	return strings.Join(parts, ",")
}

func ioGroup(ir uint16) string {
	op := (ir >> 6) & 07
	hc := (ir & 0001000) != 0
	name := iogOps[(ir>>11)&1][op]
	switch {
	case op == 1 && hc:
		name = "CLF"
		hc = false
	case op == 7 && (ir&0004000) != 0:
		name = "CLC"
	}
	inst := pad(name) + fmt.Sprintf("%o", ir&077)
	if hc {
		inst += ",C"
	}
	return inst
}

func macro(ir uint16) string {
	if name, ok := macroOps[ir]; ok {
		return name
	}
	for _, r := range macroRanges {
		if ir < r.low || ir > r.high {
			continue
		}
		switch r.op.opFlags {
		case macShift:
			n := ir & 017
			if n == 0 {
				n = 16
			}
			return pad(r.op.opName) + fmt.Sprintf("%d", n)
		case macOffset:
			n := int(ir & 017)
			if (ir & 020) == 0 {
				n -= 16
			}
			return pad(r.op.opName) + fmt.Sprintf("%d", n)
		}
		return r.op.opName
	}

	reg := (ir >> 11) & 1
	var name string
	switch ir & 0173740 {
	case 0101700:
		name = dmsOps[ir&037][reg]
	case 0101740:
		name = eigOps[ir&037][reg]
	}
	if name != "" {
		return name
	}
	return undefined(ir)
}

func undefined(ir uint16) string {
	return pad("OCT") + fmt.Sprintf("%06o", ir)
}
