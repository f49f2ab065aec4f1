/*
 * HP2100 - I/O backplane
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

package iobus

import (
	"fmt"

	"github.com/rcornwell/HP2100/util/debug"
)

/*
   Each select code has a control, flag and flag buffer flip-flop. A card
   requests an interrupt when its control, flag and flag buffer are all
   set. The interrupt acknowledge clears the flag buffer. While flag and
   control remain set the card holds off every lower priority card, the
   lowest select code has the highest priority.

   Select codes 4 and 5 are not gated by the interrupt system, all others
   need the interrupt system on.
*/

// Bus connects interface cards to the CPU and DMA.
type Bus struct {
	devs  [MaxSC + 1]Device // Attached devices.
	latch [MaxSC + 1]Latch  // Flip-flops for each select code.
}

// Create empty backplane.
func New() *Bus {
	return &Bus{}
}

// Attach device to select code.
func (bus *Bus) Attach(sc uint8, dev Device) error {
	if sc > MaxSC {
		return fmt.Errorf("select code %02o out of range", sc)
	}
	if bus.devs[sc] != nil {
		return fmt.Errorf("select code %02o already in use", sc)
	}
	bus.devs[sc] = dev
	bus.latch[sc] = Latch{}
	return nil
}

// Remove device from select code.
func (bus *Bus) Detach(sc uint8) {
	sc &= SCMask
	bus.devs[sc] = nil
	bus.latch[sc] = Latch{}
}

// Return device at select code.
func (bus *Bus) GetDevice(sc uint8) (Device, error) {
	if sc > MaxSC || bus.devs[sc] == nil {
		return nil, fmt.Errorf("no device at select code %02o", sc)
	}
	return bus.devs[sc], nil
}

// Return flip-flops for select code.
func (bus *Bus) Latch(sc uint8) *Latch {
	return &bus.latch[sc&SCMask]
}

// Send signals to device at select code. An empty slot floats the
// data bus to zero and always has its flag clear.
func (bus *Bus) Dispatch(sc uint8, sig Signal, data uint16) (uint16, bool, error) {
	sc &= SCMask
	dev := bus.devs[sc]
	if dev == nil {
		return 0, (sig & SigSFC) != 0, nil
	}
	value, skip, err := dev.IOSignal(sc, sig, data)
	debug.DebugDevf(uint16(sc), debugMsk, debugSignal, "%s in=%06o out=%06o skip=%v",
		sig, data, value, skip)
	return value, skip, err
}

// Perform standard flip-flop actions for a set of signals, return skip.
func (bus *Bus) Standard(sc uint8, sig Signal) bool {
	latch := &bus.latch[sc&SCMask]
	skip := false
	for sig != SigNone {
		switch sig.Next() {
		case SigPOPIO:
			latch.Flag = true
			latch.FlagBuffer = true
		case SigCRS, SigCLC:
			latch.Control = false
		case SigIAK:
			latch.FlagBuffer = false
		case SigSFC:
			skip = !latch.Flag
		case SigSFS:
			skip = latch.Flag
		case SigSTF:
			latch.Flag = true
			latch.FlagBuffer = true
			latch.SRQ = true
		case SigCLF:
			latch.Flag = false
			latch.FlagBuffer = false
			latch.SRQ = false
		case SigSTC:
			latch.Control = true
		}
	}
	return skip
}

// Set flag and flag buffer, raising service request.
func (bus *Bus) SetFlag(sc uint8) {
	bus.Standard(sc, SigSTF)
}

// Clear flag and flag buffer.
func (bus *Bus) ClearFlag(sc uint8) {
	bus.Standard(sc, SigCLF)
}

// Set control flip-flop.
func (bus *Bus) SetControl(sc uint8) {
	bus.latch[sc&SCMask].Control = true
}

// Clear control flip-flop.
func (bus *Bus) ClearControl(sc uint8) {
	bus.latch[sc&SCMask].Control = false
}

// Set or clear service request.
func (bus *Bus) SetSRQ(sc uint8, srq bool) {
	bus.latch[sc&SCMask].SRQ = srq
}

// Return service request for select code.
func (bus *Bus) SRQ(sc uint8) bool {
	return bus.latch[sc&SCMask].SRQ
}

// Return flag for select code.
func (bus *Bus) Flag(sc uint8) bool {
	return bus.latch[sc&SCMask].Flag
}

// Return control for select code.
func (bus *Bus) Control(sc uint8) bool {
	return bus.latch[sc&SCMask].Control
}

// Return select code of highest priority interrupt request, or zero.
func (bus *Bus) Request(ion bool) uint8 {
	for sc := SCPower; sc <= MaxSC; sc++ {
		if sc >= SCDMA1 && !ion {
			break
		}
		latch := &bus.latch[sc]
		if !latch.Control || !latch.Flag {
			continue
		}
		if latch.FlagBuffer {
			debug.DebugDevf(uint16(sc), debugMsk, debugIRQ, "interrupt request")
			return sc
		}
		// Card in service, holds off lower priority.
		return 0
	}
	return 0
}

// Acknowledge interrupt at select code.
func (bus *Bus) Acknowledge(sc uint8) error {
	sc &= SCMask
	if bus.devs[sc] == nil {
		bus.Standard(sc, SigIAK)
		return nil
	}
	_, _, err := bus.Dispatch(sc, SigIAK, 0)
	return err
}

// Send signal to every attached device, from lowest select code up.
func (bus *Bus) Broadcast(first uint8, sig Signal) error {
	for sc := first; sc <= MaxSC; sc++ {
		if bus.devs[sc] == nil {
			continue
		}
		if _, _, err := bus.Dispatch(sc, sig, 0); err != nil {
			return err
		}
	}
	return nil
}

// Reset all devices, power on preset and control reset.
func (bus *Bus) Reset() error {
	for sc := range bus.latch {
		bus.latch[sc] = Latch{}
	}
	return bus.Broadcast(0, SigPOPIO|SigCRS)
}
