/*
 * HP2100 - Direct memory access channels
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

package dma

import (
	"errors"
	"fmt"

	"github.com/rcornwell/HP2100/emu/iobus"
	"github.com/rcornwell/HP2100/util/debug"
)

/*
   Each channel is programmed with three control words:

   CW1, OTA 6/7:
     +--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
     |S |B |C |            unused  |  select code    |
     +--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
      S = STC to device each cycle.
      B = Byte packing.
      C = CLC to device after last cycle.

   CW2, OTA 2/3 with register select clear:
     +--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
     |I |              memory address                |
     +--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
      I = Input to memory.

   CW3, OTA 2/3 with register select set:
     +--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
     |        negative word or byte count            |
     +--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+

   STC 2/3 sets register select, CLC 2/3 clears it. LIA 2/3 reads the
   count remaining. STC 6/7 starts the channel, CLC 6/7 stops it. When
   the count reaches zero the channel flag on 6/7 is set.
*/

const (
	CW1STC   uint16 = 0100000 // Issue STC each cycle.
	CW1Byte  uint16 = 0040000 // Byte packing.
	CW1CLC   uint16 = 0020000 // Issue CLC at end.
	CW1SC    uint16 = 0000077 // Select code.
	CW2Input uint16 = 0100000 // Input to memory.
	CW2Addr  uint16 = 0077777 // Memory address.
)

// Memory access for DMA, port is 0 for channel 1 and 1 for channel 2.
type Memory interface {
	ReadDMA(port int, addr uint16) uint16
	WriteDMA(port int, addr uint16, data uint16)
}

// Channel state.
type Channel struct {
	number   int    // Channel number, 1 or 2.
	cw1      uint16 // Control word 1.
	cw2      uint16 // Control word 2.
	cw3      uint16 // Control word 3.
	packer   uint16 // Byte held between cycles.
	odd      bool   // Packer holds first byte.
	transfer bool   // Transfer enabled.
	selSC    uint8  // Register select code.
	ctlSC    uint8  // Control select code.
}

// Controller for both channels.
type Controller struct {
	bus *iobus.Bus
	mem Memory
	ch  [2]Channel
}

// Status snapshot of a channel.
type Status struct {
	CW1      uint16
	CW2      uint16
	CW3      uint16
	Transfer bool
	Odd      bool
}

// Create DMA controller and attach to backplane.
func New(bus *iobus.Bus, mem Memory) (*Controller, error) {
	ctl := &Controller{bus: bus, mem: mem}
	ctl.ch[0] = Channel{number: 1, selSC: iobus.SCDMA1Sel, ctlSC: iobus.SCDMA1}
	ctl.ch[1] = Channel{number: 2, selSC: iobus.SCDMA2Sel, ctlSC: iobus.SCDMA2}
	for _, sc := range []uint8{iobus.SCDMA1Sel, iobus.SCDMA2Sel, iobus.SCDMA1, iobus.SCDMA2} {
		if err := bus.Attach(sc, ctl); err != nil {
			return nil, err
		}
	}
	return ctl, nil
}

// Return channel for select code.
func (ctl *Controller) channel(sc uint8) *Channel {
	if sc == iobus.SCDMA1Sel || sc == iobus.SCDMA1 {
		return &ctl.ch[0]
	}
	return &ctl.ch[1]
}

// Return status of channel 1 or 2.
func (ctl *Controller) Status(number int) (Status, error) {
	if number < 1 || number > 2 {
		return Status{}, fmt.Errorf("invalid DMA channel %d", number)
	}
	ch := &ctl.ch[number-1]
	return Status{CW1: ch.cw1, CW2: ch.cw2, CW3: ch.cw3, Transfer: ch.transfer, Odd: ch.odd}, nil
}

// Return true if channel is set up to a legal device.
func (ch *Channel) active() bool {
	return uint8(ch.cw1&CW1SC) >= iobus.FirstIO
}

// Stop channel, packer is cleared.
func (ch *Channel) stop() {
	ch.transfer = false
	ch.odd = false
	ch.packer = 0
}

// Handle I/O instructions to DMA select codes.
func (ctl *Controller) IOSignal(sc uint8, sig iobus.Signal, data uint16) (uint16, bool, error) {
	ch := ctl.channel(sc)
	value := uint16(0)
	skip := ctl.bus.Standard(sc, sig)

	if sc == ch.selSC {
		for sig != iobus.SigNone {
			switch sig.Next() {
			case iobus.SigCRS:
				ch.stop()
			case iobus.SigIOI:
				value = ch.cw3
			case iobus.SigIOO:
				if ctl.bus.Control(sc) {
					ch.cw3 = data
					debug.DebugChanf(ch.number, debugMsk, debugCmd, "CW3 %06o", data)
				} else {
					ch.cw2 = data
					debug.DebugChanf(ch.number, debugMsk, debugCmd, "CW2 %06o", data)
				}
			}
		}
		return value, skip, nil
	}

	for sig != iobus.SigNone {
		switch sig.Next() {
		case iobus.SigCRS, iobus.SigCLC:
			ch.stop()
		case iobus.SigIOO:
			ch.cw1 = data
			ch.odd = false
			ch.packer = 0
			if !ch.active() {
				ch.transfer = false
			}
			debug.DebugChanf(ch.number, debugMsk, debugCmd, "CW1 %06o", data)
		case iobus.SigSTC:
			ch.transfer = true
			ch.odd = false
			ch.packer = 0
			debug.DebugChanf(ch.number, debugMsk, debugCmd, "start sc=%02o addr=%06o count=%06o",
				ch.cw1&CW1SC, ch.cw2, ch.cw3)
		}
	}
	return value, skip, nil
}

// Return true if channel wants a cycle.
func (ctl *Controller) requesting(ch *Channel) bool {
	return ch.transfer && ch.active() && ctl.bus.SRQ(uint8(ch.cw1&CW1SC))
}

// Run at most one DMA cycle, channel 1 has priority. Returns true if a
// word or byte moved.
func (ctl *Controller) Service() (bool, error) {
	for i := range ctl.ch {
		ch := &ctl.ch[i]
		if ctl.requesting(ch) {
			return ctl.cycle(ch)
		}
	}
	return false, nil
}

// Perform one transfer cycle on channel.
func (ctl *Controller) cycle(ch *Channel) (bool, error) {
	sc := uint8(ch.cw1 & CW1SC)
	addr := ch.cw2 & CW2Addr
	input := (ch.cw2 & CW2Input) != 0
	byteMode := (ch.cw1 & CW1Byte) != 0
	last := ch.cw3 == 0177777
	port := ch.number - 1

	sig := iobus.SigCLF
	if input {
		sig |= iobus.SigIOI
	} else {
		sig |= iobus.SigIOO
	}
	if (ch.cw1 & CW1STC) != 0 {
		sig |= iobus.SigSTC
	}
	if last {
		sig |= iobus.SigEDT
		if (ch.cw1 & CW1CLC) != 0 {
			sig |= iobus.SigCLC
		}
	}

	// Output data
	out := uint16(0)
	if !input {
		out = ctl.mem.ReadDMA(port, addr)
		if byteMode {
			if ch.odd {
				out &= 0377
			} else {
				out >>= 8
			}
		}
	}

	value, _, err := ctl.bus.Dispatch(sc, sig, out)
	if errors.Is(err, iobus.ErrNotReady) {
		debug.DebugChanf(ch.number, debugMsk, debugData, "device %02o not ready", sc)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	advance := true
	if byteMode {
		value &= 0377
		if !ch.odd {
			// High byte first, hold it.
			ch.packer = value << 8
			ch.odd = true
			advance = false
			if input && last {
				word := ctl.mem.ReadDMA(port, addr)
				ctl.mem.WriteDMA(port, addr, ch.packer|(word&0377))
			}
		} else {
			value |= ch.packer
			ch.odd = false
			ch.packer = 0
		}
	}
	if input && advance {
		ctl.mem.WriteDMA(port, addr, value)
	}
	debug.DebugChanf(ch.number, debugMsk, debugData, "sc=%02o addr=%06o data=%06o %s", sc, addr, value, sig)

	if advance {
		ch.cw2 = (ch.cw2 & CW2Input) | ((addr + 1) & CW2Addr)
	}
	ch.cw3++
	if ch.cw3 == 0 {
		ch.stop()
		ctl.bus.SetFlag(ch.ctlSC)
		debug.DebugChanf(ch.number, debugMsk, debugCmd, "complete")
	}
	return true, nil
}

const (
	debugCmd = 1 << iota
	debugData
)

var debugOption = map[string]int{
	"CMD":  debugCmd,
	"DATA": debugData,
}

var debugMsk int

// Enable debug options.
func Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("DMA debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
