/*
 * HP2100 - I/O instructions and internal select codes
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
	"github.com/rcornwell/HP2100/emu/iobus"
)

/*
   I/O group opcodes, bits 8-6:

      0  HLT       halt, H/C clears flag.
      1  STF/CLF   set or clear flag, bit 9 selects.
      2  SFC       skip if flag clear.
      3  SFS       skip if flag set.
      4  MIA/MIB   merge into A or B.
      5  LIA/LIB   load into A or B.
      6  OTA/OTB   output A or B.
      7  STC/CLC   set or clear control, bit 11 selects.

   Select codes 0, 1, 4 and 5 are inside the CPU. Select codes 2, 3, 6
   and 7 are the DMA channels.
*/

// I/O group.
func (cpu *CPU) opIOG(ir uint16) error {
	sc := uint8(ir & IOGSC)
	op := (ir >> 6) & 07
	reg := cpu.abReg(ir)
	clearFlag := (ir & HCBIT) != 0

	if err := cpu.mp.CheckIO(sc, op == 0); err != nil {
		return err
	}

	var sig iobus.Signal
	switch op {
	case 0: // HLT
	case 1: // STF, CLF
		if clearFlag {
			sig = iobus.SigCLF
		} else {
			sig = iobus.SigSTF
		}
		clearFlag = false
	case 2: // SFC
		sig = iobus.SigSFC
	case 3: // SFS
		sig = iobus.SigSFS
	case 4, 5: // MIA, LIA
		sig = iobus.SigIOI
	case 6: // OTA
		sig = iobus.SigIOO
	case 7: // STC, CLC
		if (ir & ABBIT) != 0 {
			sig = iobus.SigCLC
		} else {
			sig = iobus.SigSTC
		}
	}
	if clearFlag {
		sig |= iobus.SigCLF
	}

	cpu.ionDefer = true
	if sig == iobus.SigNone {
		return cpu.stop(StopHalt)
	}

	value, skip, err := cpu.bus.Dispatch(sc, sig, *reg)
	if err != nil {
		return &Stop{Reason: StopInternal, PC: cpu.errPC, IR: ir, Err: err}
	}
	switch op {
	case 0:
		return cpu.stop(StopHalt)
	case 4:
		*reg |= value
	case 5:
		*reg = value
	}
	if skip {
		cpu.Skip(1)
	}
	return nil
}

// Interrupt system, select code 0.
type interruptSystem struct {
	cpu *CPU
}

func (d *interruptSystem) IOSignal(_ uint8, sig iobus.Signal, _ uint16) (uint16, bool, error) {
	skip := false
	for sig != iobus.SigNone {
		switch sig.Next() {
		case iobus.SigPOPIO, iobus.SigCRS:
			d.cpu.ion = false
		case iobus.SigSTF:
			d.cpu.ion = true
		case iobus.SigCLF:
			d.cpu.ion = false
		case iobus.SigSFS:
			skip = d.cpu.ion
		case iobus.SigSFC:
			skip = !d.cpu.ion
		case iobus.SigCLC:
			// Reset all interface cards.
			if err := d.cpu.bus.Broadcast(iobus.SCDMA1, iobus.SigCRS); err != nil {
				return 0, false, err
			}
		}
	}
	return 0, skip, nil
}

// Switch register and overflow, select code 1.
type overflow struct {
	cpu *CPU
}

func (d *overflow) IOSignal(_ uint8, sig iobus.Signal, data uint16) (uint16, bool, error) {
	skip := false
	value := uint16(0)
	for sig != iobus.SigNone {
		switch sig.Next() {
		case iobus.SigSTF:
			d.cpu.O = true
		case iobus.SigCLF:
			d.cpu.O = false
		case iobus.SigSFS:
			skip = d.cpu.O
		case iobus.SigSFC:
			skip = !d.cpu.O
		case iobus.SigIOI:
			value = d.cpu.S
		case iobus.SigIOO:
			d.cpu.S = data
		}
	}
	return value, skip, nil
}

// Power fail, select code 4. Power never fails.
type powerFail struct {
	cpu *CPU
}

func (d *powerFail) IOSignal(sc uint8, sig iobus.Signal, _ uint16) (uint16, bool, error) {
	skip := false
	for sig != iobus.SigNone {
		s := sig.Next()
		switch s {
		case iobus.SigPOPIO:
			continue
		case iobus.SigSTF:
			// Flag only set by power failure.
			continue
		}
		if d.cpu.bus.Standard(sc, s) {
			skip = true
		}
	}
	return 0, skip, nil
}

// Memory protect, select code 5.
type protectCard struct {
	cpu *CPU
}

func (d *protectCard) IOSignal(sc uint8, sig iobus.Signal, data uint16) (uint16, bool, error) {
	skip := false
	value := uint16(0)
	bus := d.cpu.bus
	for sig != iobus.SigNone {
		switch sig.Next() {
		case iobus.SigPOPIO:
			d.cpu.mp.Reset()
			bus.ClearFlag(sc)
			bus.ClearControl(sc)
		case iobus.SigIAK:
			bus.ClearFlag(sc)
			bus.ClearControl(sc)
		case iobus.SigSFS:
			skip = d.cpu.mp.MEV()
		case iobus.SigSFC:
			skip = !d.cpu.mp.MEV()
		case iobus.SigIOI:
			value = d.cpu.mp.ViolationRegister()
		case iobus.SigIOO:
			d.cpu.mp.SetFence(data)
		case iobus.SigSTC:
			d.cpu.mp.Enable()
			d.cpu.meu.Rearm()
			bus.ClearFlag(sc)
			bus.ClearControl(sc)
		}
	}
	return value, skip, nil
}

// Attach internal select codes.
func (cpu *CPU) attachInternal() error {
	if err := cpu.bus.Attach(iobus.SCInterrupt, &interruptSystem{cpu: cpu}); err != nil {
		return err
	}
	if err := cpu.bus.Attach(iobus.SCOverflow, &overflow{cpu: cpu}); err != nil {
		return err
	}
	if err := cpu.bus.Attach(iobus.SCPower, &powerFail{cpu: cpu}); err != nil {
		return err
	}
	if cpu.cfg.Has(OptMP) {
		return cpu.bus.Attach(iobus.SCProtect, &protectCard{cpu: cpu})
	}
	return nil
}
