/*
 * HP2100 - Time base generator interface card
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

package tbg

import (
	"errors"

	"github.com/rcornwell/HP2100/emu/iobus"
	"github.com/rcornwell/HP2100/util/debug"
)

/*
   Time base generator, 12539C.

   OTA selects the rate from the low three bits of the data word. STC
   starts the clock, CLC stops it. Each host tick is worth 10ms, the card
   sets its flag when enough ticks for the selected rate have passed.
   Rates faster than the host tick set the flag on every tick. If the
   flag is still set when the next period ends the lost tick bit is set,
   LIA returns it in bit 5. CLC clears it.
*/

// Ticks of 10ms per period for each rate select.
var rateTicks = [8]int{1, 1, 1, 10, 100, 1000, 10000, 100000}

var rateNames = [8]string{"100us", "1ms", "10ms", "100ms", "1s", "10s", "100s", "1000s"}

// Status bit returned by LIA.
const StatusLost uint16 = 040

type TBG struct {
	SC    uint8      // Select code.
	rate  uint16     // Selected rate.
	count int        // Ticks since last flag.
	lost  bool       // Flag was still set at end of period.
	bus   *iobus.Bus // Backplane.
}

// Create time base generator and attach it to the bus.
func New(bus *iobus.Bus, sc uint8) (*TBG, error) {
	if sc < iobus.FirstIO {
		return nil, errors.New("time base generator select code must be 10 or higher")
	}
	t := &TBG{SC: sc, bus: bus, rate: 2}
	if err := bus.Attach(sc, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Handle signals from the backplane.
func (t *TBG) IOSignal(sc uint8, sig iobus.Signal, data uint16) (uint16, bool, error) {
	value := uint16(0)
	skip := false
	for sig != iobus.SigNone {
		s := sig.Next()
		switch s {
		case iobus.SigIOI:
			if t.lost {
				value = StatusLost
			}
		case iobus.SigIOO:
			t.rate = data & 07
			t.count = 0
			debug.DebugDevf(uint16(sc), debugMsk, debugCmd, "rate %s", rateNames[t.rate])
		case iobus.SigSTC:
			t.count = 0
			debug.DebugDevf(uint16(sc), debugMsk, debugCmd, "start")
		case iobus.SigCLC, iobus.SigCRS:
			t.lost = false
			debug.DebugDevf(uint16(sc), debugMsk, debugCmd, "stop")
		}
		if t.bus.Standard(sc, s) {
			skip = true
		}
	}
	return value, skip, nil
}

// Advance clock by one host tick.
func (t *TBG) Tick() {
	if !t.bus.Control(t.SC) {
		return
	}
	t.count++
	if t.count < rateTicks[t.rate] {
		return
	}
	t.count = 0
	if t.bus.Flag(t.SC) {
		t.lost = true
		debug.DebugDevf(uint16(t.SC), debugMsk, debugTick, "lost tick")
		return
	}
	debug.DebugDevf(uint16(t.SC), debugMsk, debugTick, "tick")
	t.bus.SetFlag(t.SC)
}

// Rate returns the selected rate name.
func (t *TBG) Rate() string {
	return rateNames[t.rate]
}

// Debug options.
const (
	debugCmd = 1 << iota
	debugTick
)

var debugOption = map[string]int{
	"CMD":  debugCmd,
	"TICK": debugTick,
}

var debugMsk int

// Enable debug options.
func Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("TBG debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
