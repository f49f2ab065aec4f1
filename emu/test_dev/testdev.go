/*
 * HP2100 - Test interface card
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

package testdev

import (
	"github.com/rcornwell/HP2100/emu/event"
	"github.com/rcornwell/HP2100/emu/iobus"
)

/*
   Interface card used for testing interrupts and DMA.

   STC starts an operation, after Delay cycles the card sets its flag,
   which raises service request. LIA reads the next word of Data, OTA
   stores the next word of Data. CLF clears the flag and service request,
   the next STC starts another operation. EDT marks the transfer done.
*/

type TestDev struct {
	SC       uint8       // Select code.
	Data     [256]uint16 // Data to read/write.
	Count    int         // Words moved.
	Delay    int         // Cycles from STC to flag.
	NotReady int         // Number of data cycles to refuse.
	Done     bool        // EDT seen.
	busy     bool        // Operation in progress.
	bus      *iobus.Bus  // Backplane.
	events   *event.List // Event list.
}

// Create test card and attach it to the bus.
func New(bus *iobus.Bus, events *event.List, sc uint8, delay int) (*TestDev, error) {
	d := &TestDev{SC: sc, Delay: delay, bus: bus, events: events}
	if err := bus.Attach(sc, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Handle signals from the backplane.
func (d *TestDev) IOSignal(sc uint8, sig iobus.Signal, data uint16) (uint16, bool, error) {
	if d.NotReady > 0 && (sig&(iobus.SigIOI|iobus.SigIOO)) != 0 {
		d.NotReady--
		return 0, false, iobus.ErrNotReady
	}

	value := uint16(0)
	skip := false
	for sig != iobus.SigNone {
		s := sig.Next()
		switch s {
		case iobus.SigPOPIO, iobus.SigCRS:
			d.busy = false
			d.events.Cancel(d, 0)
		case iobus.SigIOI:
			value = d.Data[d.Count&0377]
			d.Count++
		case iobus.SigIOO:
			d.Data[d.Count&0377] = data
			d.Count++
		case iobus.SigSTC:
			d.start()
		case iobus.SigEDT:
			d.Done = true
		case iobus.SigCLC:
			d.busy = false
			d.events.Cancel(d, 0)
		}
		if d.bus.Standard(sc, s) {
			skip = true
		}
	}
	return value, skip, nil
}

// Start an operation.
func (d *TestDev) start() {
	if d.busy {
		return
	}
	d.busy = true
	d.events.Add(d, d.callback, d.Delay, 0)
}

// Operation complete, set flag.
func (d *TestDev) callback(_ int) {
	d.busy = false
	d.bus.SetFlag(d.SC)
}
