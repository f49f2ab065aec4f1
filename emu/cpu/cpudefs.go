/*
 * HP2100 - CPU definitions
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
	"errors"
	"fmt"

	"github.com/rcornwell/HP2100/emu/dma"
	"github.com/rcornwell/HP2100/emu/event"
	"github.com/rcornwell/HP2100/emu/iobus"
	"github.com/rcornwell/HP2100/emu/memory"
	"github.com/rcornwell/HP2100/emu/meu"
	"github.com/rcornwell/HP2100/emu/protect"
)

// CPU holds the complete state of one machine.
type CPU struct {
	A        uint16 // Accumulator A, location 0.
	B        uint16 // Accumulator B, location 1.
	X        uint16 // Index register X.
	Y        uint16 // Index register Y.
	P        uint16 // Program counter.
	S        uint16 // Switch register.
	M        uint16 // Memory address register.
	T        uint16 // Memory data register.
	SP       uint16 // IOP stack pointer.
	E        bool   // Extend.
	O        bool   // Overflow.
	ion      bool   // Interrupt system on.
	ionDefer bool   // Hold off interrupts one instruction.
	errPC    uint16 // Address of current instruction.
	ir       uint16 // Current instruction.
	trapCell bool   // Executing trap cell instruction.

	cfg    Config
	mem    *memory.Memory
	meu    *meu.Unit
	mp     *protect.Unit
	bus    *iobus.Bus
	dma    *dma.Controller
	events *event.List
	user   []userEntry
}

const (
	VAMASK  uint16 = 0077777 // Logical address mask.
	DMASK   uint16 = 0177777 // Data mask.
	SIGN    uint16 = 0100000 // Sign bit.
	IBIT    uint16 = 0100000 // Indirect bit.
	PAGE    uint16 = 0076000 // Current page bits.
	OFFSET  uint16 = 0001777 // Offset in page.
	CPBIT   uint16 = 0002000 // Current page select.
	ABBIT   uint16 = 0004000 // A or B register select.
	HCBIT   uint16 = 0001000 // Hold or clear flag.
	IOGSC   uint16 = 0000077 // Select code in I/O instruction.
	LOWBYTE uint16 = 0000377 // Low byte.
)

/*
   Instruction formats:

   Memory reference:
      15  14  13  12  11  10   9   8   7   6   5   4   3   2   1   0
    +---+---------------+---+---------------------------------------+
    | I |    opcode     | P |               offset                  |
    +---+---------------+---+---------------------------------------+
     I = indirect, P = current page.

   Shift-rotate:
    +---+---+---+---+---+---+---+-----------+---+---+---+-----------+
    | 0 | 0 | 0 | 0 |A/B| 0 |E1 |  shift 1  |CLE|E2 |SLA|  shift 2  |
    +---+---+---+---+---+---+---+-----------+---+---+---+-----------+

   Alter-skip:
    +---+---+---+---+---+---+-------+-------+---+---+---+---+---+---+
    | 0 | 0 | 0 | 0 |A/B| 1 |CLA/CMA|CLE/CME|SEZ|SSA|SLA|INA|SZA|RSS|
    +---+---+---+---+---+---+-------+-------+---+---+---+---+---+---+

   Input-output:
    +---+---+---+---+---+---+---+-----------+-----------------------+
    | 1 | 0 | 0 | 0 |A/B| 1 |H/C|  opcode   |      select code      |
    +---+---+---+---+---+---+---+-----------+-----------------------+

   Macro (extended arithmetic and firmware):
    +---+---+---+---+---+---+---------------------------------------+
    | 1 | 0 | 0 | 0 |A/B| 0 |             operation                 |
    +---+---+---+---+---+---+---------------------------------------+
*/

// Reason the simulation stopped.
type StopReason uint8

const (
	StopHalt          StopReason = 1 + iota // HLT instruction.
	StopUnimplemented                       // No handler for instruction.
	StopUndefined                           // Undefined code in installed family.
	StopIndirect                            // Indirect chain too long.
	StopInternal                            // Simulator error.
)

func (r StopReason) String() string {
	switch r {
	case StopHalt:
		return "halt"
	case StopUnimplemented:
		return "unimplemented instruction"
	case StopUndefined:
		return "undefined instruction"
	case StopIndirect:
		return "indirect address loop"
	case StopInternal:
		return "internal error"
	}
	return "unknown"
}

// Stop is returned when the simulation must stop.
type Stop struct {
	Reason StopReason // Why stopped.
	PC     uint16     // Address of instruction.
	IR     uint16     // Instruction.
	Err    error      // Underlying error for internal stops.
}

func (s *Stop) Error() string {
	if s.Err != nil {
		return fmt.Sprintf("%s at P=%06o IR=%06o: %v", s.Reason, s.PC, s.IR, s.Err)
	}
	return fmt.Sprintf("%s at P=%06o IR=%06o", s.Reason, s.PC, s.IR)
}

func (s *Stop) Unwrap() error {
	return s.Err
}

// Instruction was deferred to let an interrupt in, it is restarted.
var errDefer = errors.New("instruction deferred")

// Unimplemented instruction handling.
type Policy uint8

const (
	PolicyStop Policy = iota // Stop simulation.
	PolicyNOP                // Execute as no operation.
)

// Debug options.
const (
	debugInst = 1 << iota
	debugData
	debugIRQ
	debugMEU
	debugMP
)

var debugOption = map[string]int{
	"INST": debugInst,
	"DATA": debugData,
	"IRQ":  debugIRQ,
	"MEU":  debugMEU,
	"MP":   debugMP,
}

var debugMsk int

// Enable debug options.
func Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("CPU debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
