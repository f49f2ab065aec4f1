/*
 * HP2100 - HP 2100/1000 single instruction assembler
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

package assembler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/rcornwell/HP2100/util/octal"
)

/*
   Assembles one instruction word in 1000 series numbering. Operand
   words of macro instructions are entered as separate OCT words.
*/

const (
	tyMRG = 1 + iota // Memory reference, "op addr[,I]".
	tySRG            // Shift-rotate micro-op.
	tyASG            // Alter-skip micro-op.
	tyIOG            // I/O group, "op sc[,C]".
	tyMAC            // Macro with no operand.
	tySFT            // Macro with shift count 1-16.
	tyOFS            // Macro with offset -16 to 15.
	tyOCT            // Literal octal word.
)

type opcode struct {
	opCode uint16 // Base value of instruction.
	opType int    // Operand format.
	regB   bool   // Selects B register.
	hold   bool   // Accepts ,C.
}

var opMap = map[string]opcode{
	"AND": {0010000, tyMRG, false, false},
	"JSB": {0014000, tyMRG, false, false},
	"XOR": {0020000, tyMRG, false, false},
	"JMP": {0024000, tyMRG, false, false},
	"IOR": {0030000, tyMRG, false, false},
	"ISZ": {0034000, tyMRG, false, false},
	"ADA": {0040000, tyMRG, false, false},
	"ADB": {0044000, tyMRG, false, false},
	"CPA": {0050000, tyMRG, false, false},
	"CPB": {0054000, tyMRG, false, false},
	"LDA": {0060000, tyMRG, false, false},
	"LDB": {0064000, tyMRG, false, false},
	"STA": {0070000, tyMRG, false, false},
	"STB": {0074000, tyMRG, false, false},

	"HLT": {0102000, tyIOG, false, true},
	"STF": {0102100, tyIOG, false, false},
	"CLF": {0103100, tyIOG, false, false},
	"SFC": {0102200, tyIOG, false, true},
	"SFS": {0102300, tyIOG, false, true},
	"MIA": {0102400, tyIOG, false, true},
	"MIB": {0106400, tyIOG, true, true},
	"LIA": {0102500, tyIOG, false, true},
	"LIB": {0106500, tyIOG, true, true},
	"OTA": {0102600, tyIOG, false, true},
	"OTB": {0106600, tyIOG, true, true},
	"STC": {0102700, tyIOG, false, true},
	"CLC": {0106700, tyIOG, false, true},

	"DIAG": {0100000, tyMAC, false, false},
	"ASL":  {0100020, tySFT, false, false},
	"LSL":  {0100040, tySFT, false, false},
	"RRL":  {0100100, tySFT, false, false},
	"MPY":  {0100200, tyMAC, false, false},
	"DIV":  {0100400, tyMAC, false, false},
	"ASR":  {0101020, tySFT, false, false},
	"LSR":  {0101040, tySFT, false, false},
	"RRR":  {0101100, tySFT, false, false},
	"DLD":  {0104200, tyMAC, false, false},
	"DST":  {0104400, tyMAC, false, false},
	"FAD":  {0105000, tyMAC, false, false},
	"FSB":  {0105020, tyMAC, false, false},
	"FMP":  {0105040, tyMAC, false, false},
	"FDV":  {0105060, tyMAC, false, false},
	"FIX":  {0105100, tyMAC, false, false},
	"FLT":  {0105120, tyMAC, false, false},
	"LAI":  {0105400, tyOFS, false, false},
	"SAI":  {0101400, tyOFS, false, false},

	".LLS":  {0105347, tyMAC, false, false},
	".SIP":  {0105350, tyMAC, false, false},
	".CPM":  {0105352, tyMAC, false, false},
	"$OTST": {0105355, tyMAC, false, false},
	"CRC":   {0105460, tyMAC, false, false},
	"RESTR": {0105461, tyMAC, false, false},
	"READF": {0105462, tyMAC, false, false},
	"INS":   {0105463, tyMAC, false, false},
	"ENQ":   {0105464, tyMAC, false, false},
	"PENQ":  {0105465, tyMAC, false, false},
	"DEQ":   {0105466, tyMAC, false, false},
	"TRSLT": {0105467, tyMAC, false, false},
	"ILIST": {0105470, tyMAC, false, false},
	"PRFEI": {0105471, tyMAC, false, false},
	"PRFEX": {0105472, tyMAC, false, false},
	"PRFIO": {0105473, tyMAC, false, false},
	"SAVE":  {0105474, tyMAC, false, false},

	"OCT": {0, tyOCT, false, false},
}

// Dynamic mapping instructions 10x700-10x737, A then B form.
var dmsNames = [32][2]string{
	{}, {}, {"MBI", "MBI"}, {"MBF", "MBF"},
	{"MBW", "MBW"}, {"MWI", "MWI"}, {"MWF", "MWF"}, {"MWW", "MWW"},
	{"SYA", "SYB"}, {"USA", "USB"}, {"PAA", "PAB"}, {"PBA", "PBB"},
	{"SSM", "SSM"}, {"JRS", "JRS"}, {}, {},
	{"XMM", "XMM"}, {"XMS", "XMS"}, {"XMA", "XMB"}, {},
	{"XLA", "XLB"}, {"XSA", "XSB"}, {"XCA", "XCB"}, {"LFA", "LFB"},
	{"RSA", "RSB"}, {"RVA", "RVB"}, {"DJP", "DJP"}, {"DJS", "DJS"},
	{"SJP", "SJP"}, {"SJS", "SJS"}, {"UJP", "UJP"}, {"UJS", "UJS"},
}

// Extended instruction group 10x740-10x777, A then B form.
var eigNames = [32][2]string{
	{"SAX", "SBX"}, {"CAX", "CBX"}, {"LAX", "LBX"}, {"STX", "STX"},
	{"CXA", "CXB"}, {"LDX", "LDX"}, {"ADX", "ADX"}, {"XAX", "XBX"},
	{"SAY", "SBY"}, {"CAY", "CBY"}, {"LAY", "LBY"}, {"STY", "STY"},
	{"CYA", "CYB"}, {"LDY", "LDY"}, {"ADY", "ADY"}, {"XAY", "XBY"},
	{"ISX", "ISX"}, {"DSX", "DSX"}, {"JLY", "JLY"}, {"LBT", "LBT"},
	{"SBT", "SBT"}, {"MBT", "MBT"}, {"CBT", "CBT"}, {"SFB", "SFB"},
	{"ISY", "ISY"}, {"DSY", "DSY"}, {"JPY", "JPY"}, {"SBS", "SBS"},
	{"CBS", "CBS"}, {"TBS", "TBS"}, {"CMW", "CMW"}, {"MVW", "MVW"},
}

// Micro-op bits. A "*" in the name stands for the A or B register.
type microOp struct {
	group int
	bits  uint16
	slot  bool // Shift which may use either shift position.
	reg   int  // Register selected, -1 for none.
}

var microGeneric = map[string]microOp{
	"*LS": {tySRG, 0, true, -1},
	"*RS": {tySRG, 1, true, -1},
	"R*L": {tySRG, 2, true, -1},
	"R*R": {tySRG, 3, true, -1},
	"*LR": {tySRG, 4, true, -1},
	"ER*": {tySRG, 5, true, -1},
	"EL*": {tySRG, 6, true, -1},
	"*LF": {tySRG, 7, true, -1},
	"SL*": {0, 0000010, false, -1},
	"CL*": {tyASG, 0000400, false, -1},
	"CM*": {tyASG, 0001000, false, -1},
	"CC*": {tyASG, 0001400, false, -1},
	"SS*": {tyASG, 0000020, false, -1},
	"IN*": {tyASG, 0000004, false, -1},
	"SZ*": {tyASG, 0000002, false, -1},
	"SEZ": {tyASG, 0000040, false, -1},
	"CME": {tyASG, 0000200, false, -1},
	"CCE": {tyASG, 0000300, false, -1},
	"RSS": {tyASG, 0000001, false, -1},
	"CLE": {0, 0, false, -1},
}

var microOps = map[string]microOp{}

func init() {
	for name, op := range microGeneric {
		if !strings.Contains(name, "*") {
			microOps[name] = op
			continue
		}
		for reg, r := range []string{"A", "B"} {
			op.reg = reg
			microOps[strings.Replace(name, "*", r, 1)] = op
		}
	}
	for i := range 32 {
		for reg := range 2 {
			base := uint16(0101700) | uint16(reg)<<11 | uint16(i)
			// Later entries win, so shared names take the B form.
			if name := dmsNames[i][reg]; name != "" {
				opMap[name] = opcode{base, tyMAC, false, false}
			}
			if name := eigNames[i][reg]; name != "" {
				opMap[name] = opcode{base | 040, tyMAC, false, false}
			}
		}
	}
}

// Assemble one instruction to be placed at logical address addr.
func Assemble(addr uint16, line string) (uint16, error) {
	opName, rest := getName(line)
	opName = strings.ToUpper(opName)
	if opName == "" {
		return 0, errors.New("missing opcode")
	}
	if opName == "NOP" {
		return 0, checkEnd(rest, opName)
	}
	if _, ok := microOps[strings.SplitN(opName, ",", 2)[0]]; ok {
		return assembleMicro(strings.ToUpper(strings.Join(strings.Fields(line), "")))
	}

	opc, ok := opMap[opName]
	if !ok {
		return 0, errors.New("undefined opcode " + opName)
	}

	inst := opc.opCode
	switch opc.opType {
	case tyMRG:
		target, indirect, err := getOperand(rest, 15, "I")
		if err != nil {
			return 0, errors.New(err.Error() + " for " + opName)
		}
		switch {
		case target < 02000:
		case (uint16(target) & 076000) == (addr & 076000):
			inst |= 0002000
		default:
			return 0, errors.New("address not on base or current page for " + opName)
		}
		inst |= uint16(target) & 01777
		if indirect {
			inst |= 0100000
		}

	case tyIOG:
		flag := ""
		if opc.hold {
			flag = "C"
		}
		sc, hold, err := getOperand(rest, 6, flag)
		if err != nil {
			return 0, errors.New(err.Error() + " for " + opName)
		}
		inst |= uint16(sc)
		if hold {
			inst |= 0001000
		}

	case tySFT:
		n, err := getDecimal(rest, 1, 16)
		if err != nil {
			return 0, errors.New(err.Error() + " for " + opName)
		}
		inst |= uint16(n) & 017

	case tyOFS:
		n, err := getDecimal(rest, -16, 15)
		if err != nil {
			return 0, errors.New(err.Error() + " for " + opName)
		}
		if n >= 0 {
			inst |= 020 | uint16(n)
		} else {
			inst |= uint16(n + 16)
		}

	case tyOCT:
		v, _, err := getOperand(rest, 16, "")
		if err != nil {
			return 0, errors.New(err.Error() + " for " + opName)
		}
		inst = uint16(v)

	default:
		if err := checkEnd(rest, opName); err != nil {
			return 0, err
		}
	}
	return inst, nil
}

// Assemble comma separated shift-rotate or alter-skip micro-ops.
func assembleMicro(line string) (uint16, error) {
	reg := -1
	group := 0
	var bits uint16
	shifts := 0
	cle := false
	for _, part := range strings.Split(line, ",") {
		op, ok := microOps[part]
		if !ok {
			return 0, errors.New("undefined micro-op " + part)
		}
		if op.reg >= 0 {
			if reg >= 0 && reg != op.reg {
				return 0, errors.New("micro-ops select both A and B " + line)
			}
			reg = op.reg
		}
		if op.group != 0 {
			if group != 0 && group != op.group {
				return 0, errors.New("micro-ops from different groups " + line)
			}
			group = op.group
		}
		switch {
		case op.slot:
			switch {
			case shifts == 0 && !cle && (bits&0000010) == 0:
				bits |= 0001000 | op.bits<<6
			case (bits & 0000020) == 0:
				bits |= 0000020 | op.bits
			default:
				return 0, errors.New("too many shifts " + line)
			}
			shifts++
		case part == "CLE":
			if cle {
				return 0, errors.New("duplicate micro-op " + part)
			}
			cle = true
		default:
			mask := op.bits
			switch {
			case (op.bits & 0001400) != 0:
				mask = 0001400
			case (op.bits & 0000300) != 0:
				mask = 0000300
			}
			if (bits & mask) != 0 {
				return 0, errors.New("duplicate micro-op " + part)
			}
			bits |= op.bits
		}
	}

	if group == tyASG {
		if (bits&0000300) != 0 && cle {
			return 0, errors.New("conflicting E register micro-ops " + line)
		}
		bits |= 0002000
		if cle {
			bits |= 0000100
		}
	} else if cle {
		bits |= 0000040
	}
	if reg == 1 {
		bits |= 0004000
	}
	return bits, nil
}

// Collect octal value and an optional ",flag" suffix.
func getOperand(str string, bits int, flag string) (uint32, bool, error) {
	str = skipSpace(str)
	value, suffix, found := strings.Cut(str, ",")
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false, errors.New("missing operand")
	}
	v, err := octal.Parse(value, bits)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return v, false, nil
	}
	if flag == "" || !strings.EqualFold(strings.TrimSpace(suffix), flag) {
		return 0, false, errors.New("invalid modifier " + suffix)
	}
	return v, true, nil
}

// Collect signed decimal value in range.
func getDecimal(str string, low, high int) (int, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, errors.New("missing operand")
	}
	neg := false
	if str[0] == '-' {
		neg = true
		str = str[1:]
	}
	num := 0
	for _, by := range str {
		if !unicode.IsDigit(by) {
			return 0, errors.New("invalid number")
		}
		num = (num * 10) + int(by-'0')
		if num > 16 {
			return 0, errors.New("value out of range")
		}
	}
	if neg {
		num = -num
	}
	if num < low || num > high {
		return 0, errors.New("value out of range")
	}
	return num, nil
}

func checkEnd(str string, opName string) error {
	if skipSpace(str) != "" {
		return errors.New("extra data after instruction " + opName)
	}
	return nil
}

// Skip forward over line until none whitespace character found.
func skipSpace(str string) string {
	for i := range str {
		if !unicode.IsSpace(rune(str[i])) {
			return str[i:]
		}
	}
	return ""
}

// Get next name.
func getName(str string) (string, string) {
	str = skipSpace(str)
	for i := range str {
		if unicode.IsSpace(rune(str[i])) {
			return str[:i], str[i+1:]
		}
	}
	return str, ""
}
