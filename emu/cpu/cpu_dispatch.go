/*
 * HP2100 - Macro instruction dispatch
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
	"fmt"

	"github.com/rcornwell/HP2100/util/debug"
)

/*
   Macro instructions are first renumbered to the 1000 series encoding,
   then looked up in the dispatch table. Each range lists the families
   that may claim it in order, the first one installed executes the
   instruction. Anything not claimed goes to the user handlers and then
   is unimplemented.
*/

type handler func(cpu *CPU, ir uint16) error

// Family which may claim a range.
type claim struct {
	name      string
	installed func(cfg *Config) bool
	exec      handler
}

// Range of opcodes, inclusive.
type dispatchRange struct {
	low    uint16
	high   uint16
	claims []claim
}

// User supplied handler for macro instructions.
type UserHandler func(cpu *CPU, ir uint16) error

type userEntry struct {
	low     uint16 // First opcode.
	high    uint16 // One past last opcode.
	handler UserHandler
}

func hasOption(opt Options) func(cfg *Config) bool {
	return func(cfg *Config) bool {
		return cfg.Has(opt)
	}
}

func has1000Option(opt Options) func(cfg *Config) bool {
	return func(cfg *Config) bool {
		return cfg.Model.Is1000() && cfg.Has(opt)
	}
}

var (
	claimEAU = claim{name: "EAU", installed: hasOption(OptEAU), exec: (*CPU).opEAU}
	claimFP  = claim{name: "FP", installed: hasOption(OptFP), exec: (*CPU).opFP}
	claimOS  = claim{name: "OS", installed: has1000Option(OptOS), exec: (*CPU).opOS}
	claimIOP = claim{name: "IOP", installed: hasOption(OptIOP), exec: (*CPU).opIOP}
	claimDMS = claim{name: "DMS", installed: has1000Option(OptDMS), exec: (*CPU).opDMS}
	claimEIG = claim{name: "EIG", installed: has1000Option(OptEIG), exec: (*CPU).opEIG}
)

var dispatchTable = []dispatchRange{
	{0100000, 0100377, []claim{claimEAU}},
	{0100400, 0100777, []claim{claimEAU}},
	{0101000, 0101377, []claim{claimEAU}},
	{0104000, 0104377, []claim{claimEAU}},
	{0104400, 0104777, []claim{claimEAU}},
	{0105000, 0105137, []claim{claimFP}},
	{0105340, 0105357, []claim{claimOS}},
	{0101400, 0101437, []claim{claimIOP}},
	{0105400, 0105437, []claim{claimIOP}},
	{0105460, 0105477, []claim{claimIOP}},
	{0101700, 0101737, []claim{claimDMS}},
	{0105700, 0105737, []claim{claimDMS}},
	{0101740, 0101777, []claim{claimEIG}},
	{0105740, 0105777, []claim{claimEIG}},
}

// 2100 IOP single codes renumbered to 1000 codes.
var iop2100 = map[uint16]uint16{
	0105150: 0105460, // CRC
	0105340: 0105461, // RESTR
	0105220: 0105462, // READF
	0105320: 0105463, // INS
	0105240: 0105464, // ENQ
	0105257: 0105465, // PENQ
	0105260: 0105466, // DEQ
	0105160: 0105467, // TRSLT
	0105221: 0105473, // PRFIO
	0105222: 0105471, // PRFEI
	0105223: 0105472, // PRFEX
	0105362: 0105474, // SAVE
}

// Renumber instruction to canonical 1000 series encoding.
func canonicalize(ir uint16, cfg *Config) uint16 {
	if cfg.Model != Model2100 || !cfg.Has(OptIOP) {
		return ir
	}
	if !cfg.Has(OptFP) {
		switch {
		case ir == 0105000: // ILIST
			return 0105470
		case ir >= 0105020 && ir <= 0105057: // LAI
			return 0105400 + (ir - 0105020)
		case ir >= 0105060 && ir <= 0105117: // SAI
			return 0101400 + (ir - 0105060)
		}
	}
	if op, ok := iop2100[ir]; ok {
		return op
	}
	return ir
}

// Return true if instruction is in macro space.
func isMacro(ir uint16) bool {
	return (ir&0174000) == 0100000 || (ir&0174000) == 0104000
}

// Find handler for canonical opcode, returns name of who claimed it.
func (cpu *CPU) lookup(op uint16) (string, handler) {
	for _, r := range dispatchTable {
		if op < r.low || op > r.high {
			continue
		}
		for _, c := range r.claims {
			if c.installed(&cpu.cfg) {
				return c.name, c.exec
			}
		}
	}
	for _, u := range cpu.user {
		if op >= u.low && op < u.high {
			return "user", handler(u.handler)
		}
	}
	return "", nil
}

// Execute macro instruction.
func (cpu *CPU) executeMacro(ir uint16) error {
	op := canonicalize(ir, &cpu.cfg)
	name, exec := cpu.lookup(op)
	if exec == nil {
		return cpu.unimplemented(op)
	}
	debug.Debugf("CPU", debugMsk, debugInst, "%06o dispatch %06o to %s", cpu.errPC, op, name)
	return exec(cpu, op)
}

// Register handler for range [low, high) of canonical opcodes.
func (cpu *CPU) RegisterUser(low, high uint16, h UserHandler) error {
	if low >= high {
		return fmt.Errorf("invalid user range %06o-%06o", low, high)
	}
	if h == nil {
		return fmt.Errorf("no handler for user range %06o-%06o", low, high)
	}
	for _, u := range cpu.user {
		if low < u.high && u.low < high {
			return fmt.Errorf("user range %06o-%06o overlaps %06o-%06o", low, high, u.low, u.high)
		}
	}
	cpu.user = append(cpu.user, userEntry{low: low, high: high, handler: h})
	return nil
}

// No handler for instruction.
func (cpu *CPU) unimplemented(op uint16) error {
	if cpu.cfg.Unimplemented == PolicyNOP {
		return nil
	}
	return &Stop{Reason: StopUnimplemented, PC: cpu.errPC, IR: op}
}

// Instruction in an installed family which is not defined.
func (cpu *CPU) undefined(op uint16) error {
	if cpu.cfg.Unimplemented == PolicyNOP {
		return nil
	}
	return &Stop{Reason: StopUndefined, PC: cpu.errPC, IR: op}
}
