/*
 * HP2100 - CPU main loop
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
	"strings"

	"github.com/rcornwell/HP2100/emu/disassemble"
	"github.com/rcornwell/HP2100/emu/dma"
	"github.com/rcornwell/HP2100/emu/event"
	"github.com/rcornwell/HP2100/emu/iobus"
	"github.com/rcornwell/HP2100/emu/memory"
	"github.com/rcornwell/HP2100/emu/meu"
	"github.com/rcornwell/HP2100/emu/protect"
	"github.com/rcornwell/HP2100/util/debug"
)

/*
   The HP 2116 was introduced in 1966, followed by the 2100 in 1971 and
   the 1000 M, E and F series. All share the same basic instruction set
   of 16 bit words with a 15 bit logical address. Locations 0 and 1 are
   the A and B registers.

   Options extend the instruction set in the macro space: extended
   arithmetic, floating point, I/O processor, the extended instruction
   group, dynamic mapping and operating system firmware. The dynamic
   mapping system adds the memory expansion unit which maps the 32K
   logical space into up to 1M words of physical memory.

   Each step services one DMA cycle, checks for interrupts and then
   executes one instruction. Protection violations abort the current
   instruction and raise the memory protect interrupt. Anything done
   before the violation stays done.
*/

// Create a new machine from configuration.
func New(cfg Config) (*CPU, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cpu := &CPU{
		cfg:    cfg,
		mem:    memory.New(cfg.MemSize),
		meu:    meu.New(),
		mp:     protect.New(cfg.Jumpers),
		bus:    iobus.New(),
		events: event.New(),
	}

	if err := cpu.attachInternal(); err != nil {
		return nil, err
	}

	if cfg.Has(OptDMA) {
		ctl, err := dma.New(cpu.bus, cpu)
		if err != nil {
			return nil, err
		}
		cpu.dma = ctl
	}
	if err := cpu.PowerOn(); err != nil {
		return nil, err
	}
	return cpu, nil
}

// Return configuration.
func (cpu *CPU) Config() Config {
	return cpu.cfg
}

// Return I/O backplane.
func (cpu *CPU) Bus() *iobus.Bus {
	return cpu.bus
}

// Return event list.
func (cpu *CPU) Events() *event.List {
	return cpu.events
}

// Return DMA controller, nil if not installed.
func (cpu *CPU) DMA() *dma.Controller {
	return cpu.dma
}

// Set power on state.
func (cpu *CPU) PowerOn() error {
	cpu.A = 0
	cpu.B = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.P = 0
	cpu.S = 0
	cpu.M = 0
	cpu.T = 0
	cpu.SP = 0
	cpu.meu.PowerOn()
	cpu.events.Clear()
	return cpu.Reset()
}

// Preset machine, registers other than flags are kept.
func (cpu *CPU) Reset() error {
	cpu.E = false
	cpu.O = false
	cpu.ion = false
	cpu.ionDefer = false
	cpu.trapCell = false
	cpu.meu.Reset()
	cpu.mp.Reset()
	return cpu.bus.Reset()
}

// Return true if interrupt system on.
func (cpu *CPU) InterruptsOn() bool {
	return cpu.ion
}

// Return true if an interrupt would be taken.
func (cpu *CPU) interruptPending() bool {
	return cpu.bus.Request(cpu.ion) != 0
}

// Execute one step: a DMA cycle, then an interrupt or one instruction.
// Returns number of cycles used. Errors returned are always *Stop.
func (cpu *CPU) Cycle() (int, error) {
	cycles := 1

	if cpu.dma != nil {
		moved, err := cpu.dma.Service()
		if err != nil {
			return cycles, &Stop{Reason: StopInternal, PC: cpu.P, Err: err}
		}
		if moved {
			cycles++
		}
	}

	sc := uint8(0)
	if cpu.ionDefer {
		cpu.ionDefer = false
	} else {
		sc = cpu.bus.Request(cpu.ion)
	}

	var err error
	if sc != 0 {
		err = cpu.interrupt(sc)
	} else {
		cpu.errPC = cpu.P
		cpu.ir, err = cpu.fetch(cpu.P)
		cpu.P = (cpu.P + 1) & VAMASK
	}

	if err == nil {
		if (debugMsk & debugInst) != 0 {
			debug.Debugf("CPU", debugMsk, debugInst, "%06o: %06o %s A=%06o B=%06o X=%06o Y=%06o",
				cpu.errPC, cpu.ir, disassemble.Disassemble(cpu.errPC, cpu.ir), cpu.A, cpu.B, cpu.X, cpu.Y)
		}
		err = cpu.execute(cpu.ir)
	}

	if cpu.trapCell {
		var stop *Stop
		halted := errors.As(err, &stop) && stop.Reason == StopHalt
		cpu.mp.EndTrapCell(halted)
		cpu.trapCell = false
	}

	err = cpu.outcome(err)
	cpu.events.Advance(cycles)
	return cycles, err
}

// Start interrupt processing, fetch the trap cell instruction.
func (cpu *CPU) interrupt(sc uint8) error {
	debug.Debugf("CPU", debugMsk, debugIRQ, "interrupt %02o P=%06o", sc, cpu.P)
	if err := cpu.bus.Acknowledge(sc); err != nil {
		return &Stop{Reason: StopInternal, PC: cpu.P, Err: err}
	}
	cpu.meu.InterruptEntry()
	cpu.mp.Acknowledge()
	cpu.errPC = cpu.P
	cpu.trapCell = true
	ir, err := cpu.fetch(uint16(sc))
	cpu.ir = ir
	return err
}

// Decide what happens after an instruction.
func (cpu *CPU) outcome(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, errDefer) {
		debug.Debugf("CPU", debugMsk, debugIRQ, "deferred P=%06o", cpu.errPC)
		cpu.P = cpu.errPC
		return nil
	}

	var mv *meu.Violation
	if errors.As(err, &mv) {
		debug.Debugf("CPU", debugMsk, debugMEU, "%v P=%06o", mv, cpu.errPC)
		cpu.protectTrap(true)
		return nil
	}

	var pv *protect.Violation
	if errors.As(err, &pv) {
		debug.Debugf("CPU", debugMsk, debugMP, "%v P=%06o", pv, cpu.errPC)
		cpu.protectTrap(false)
		return nil
	}

	var stop *Stop
	if errors.As(err, &stop) {
		if stop.Reason != StopHalt {
			cpu.P = cpu.errPC
		}
		return stop
	}

	return &Stop{Reason: StopInternal, PC: cpu.errPC, IR: cpu.ir, Err: err}
}

// Abort instruction and request memory protect interrupt.
func (cpu *CPU) protectTrap(fromMEU bool) {
	cpu.P = cpu.errPC
	if cpu.mp.Violate(cpu.errPC, fromMEU) {
		cpu.bus.SetControl(iobus.SCProtect)
		cpu.bus.SetFlag(iobus.SCProtect)
	}
}

// Create a stop for current instruction.
func (cpu *CPU) stop(reason StopReason) error {
	return &Stop{Reason: reason, PC: cpu.errPC, IR: cpu.ir}
}

// Skip n instructions.
func (cpu *CPU) Skip(n uint16) {
	cpu.P = (cpu.P + n) & VAMASK
}

// Return value of register by name.
func (cpu *CPU) GetRegister(name string) (uint16, error) {
	switch strings.ToUpper(name) {
	case "A":
		return cpu.A, nil
	case "B":
		return cpu.B, nil
	case "X":
		return cpu.X, nil
	case "Y":
		return cpu.Y, nil
	case "P":
		return cpu.P, nil
	case "S":
		return cpu.S, nil
	case "M":
		return cpu.M, nil
	case "T":
		return cpu.T, nil
	case "SP":
		return cpu.SP, nil
	case "E":
		return boolWord(cpu.E), nil
	case "O":
		return boolWord(cpu.O), nil
	}
	return 0, fmt.Errorf("unknown register: %s", name)
}

// Set register by name.
func (cpu *CPU) SetRegister(name string, value uint16) error {
	switch strings.ToUpper(name) {
	case "A":
		cpu.A = value
	case "B":
		cpu.B = value
	case "X":
		cpu.X = value
	case "Y":
		cpu.Y = value
	case "P":
		cpu.P = value & VAMASK
	case "S":
		cpu.S = value
	case "M":
		cpu.M = value & VAMASK
	case "T":
		cpu.T = value
	case "SP":
		cpu.SP = value
	case "E":
		cpu.E = value != 0
	case "O":
		cpu.O = value != 0
	default:
		return fmt.Errorf("unknown register: %s", name)
	}
	return nil
}

// Names of registers for display.
var RegisterNames = []string{"P", "A", "B", "X", "Y", "E", "O", "S", "M", "T", "SP"}

func boolWord(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// Return MEU status register.
func (cpu *CPU) MEUStatus() uint16 {
	return cpu.meu.Status(cpu.mp.Enabled())
}

// Return MEU violation register, brought up to date on read.
func (cpu *CPU) MEUViolation() uint16 {
	return cpu.meu.ViolationRegister(cpu.errPC, true)
}

// Return memory protect fence.
func (cpu *CPU) MPFence() uint16 {
	return cpu.mp.Fence()
}

// Return memory protect violation register.
func (cpu *CPU) MPViolation() uint16 {
	return cpu.mp.ViolationRegister()
}

// Return true if memory protect enabled.
func (cpu *CPU) MPEnabled() bool {
	return cpu.mp.Enabled()
}

// Return true if MEU enabled.
func (cpu *CPU) MEUEnabled() bool {
	return cpu.meu.Enabled()
}
