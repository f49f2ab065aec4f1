/*
 * HP2100 - Time base generator test set
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
	"testing"

	"github.com/rcornwell/HP2100/emu/iobus"
)

func setup(t *testing.T) (*iobus.Bus, *TBG) {
	t.Helper()
	bus := iobus.New()
	tbg, err := New(bus, 013)
	if err != nil {
		t.Fatalf("Unable to create time base generator: %v", err)
	}
	return bus, tbg
}

func TestSelectCode(t *testing.T) {
	bus := iobus.New()
	if _, err := New(bus, iobus.SCProtect); err == nil {
		t.Errorf("Attach to internal select code succeeded")
	}
}

func TestTickStopped(t *testing.T) {
	bus, tbg := setup(t)
	for range 10 {
		tbg.Tick()
	}
	if bus.Flag(tbg.SC) {
		t.Errorf("Flag set while stopped")
	}
}

func TestRates(t *testing.T) {
	tests := []struct {
		rate  uint16
		ticks int
	}{
		{0, 1},
		{2, 1},
		{3, 10},
		{4, 100},
	}
	for _, test := range tests {
		t.Run(rateNames[test.rate], func(t *testing.T) {
			bus, tbg := setup(t)
			if _, _, err := bus.Dispatch(tbg.SC, iobus.SigIOO|iobus.SigSTC, test.rate); err != nil {
				t.Fatalf("Dispatch failed: %v", err)
			}
			for i := 1; i < test.ticks; i++ {
				tbg.Tick()
				if bus.Flag(tbg.SC) {
					t.Fatalf("Flag set early after %d ticks", i)
				}
			}
			tbg.Tick()
			if !bus.Flag(tbg.SC) {
				t.Errorf("Flag not set after %d ticks", test.ticks)
			}
		})
	}
}

func TestLostTick(t *testing.T) {
	bus, tbg := setup(t)
	if _, _, err := bus.Dispatch(tbg.SC, iobus.SigIOO|iobus.SigSTC, 2); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	tbg.Tick()
	tbg.Tick()
	status, _, err := bus.Dispatch(tbg.SC, iobus.SigIOI, 0)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if status != StatusLost {
		t.Errorf("Status not correct got: %06o expected: %06o", status, StatusLost)
	}

	// CLC,C stops clock and clears the lost status.
	if _, _, err := bus.Dispatch(tbg.SC, iobus.SigCLC|iobus.SigCLF, 0); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	status, _, _ = bus.Dispatch(tbg.SC, iobus.SigIOI, 0)
	if status != 0 || bus.Flag(tbg.SC) || bus.Control(tbg.SC) {
		t.Errorf("CLC,C did not reset card got: %06o", status)
	}
	tbg.Tick()
	if bus.Flag(tbg.SC) {
		t.Errorf("Flag set after CLC")
	}
}

func TestDebugOption(t *testing.T) {
	if err := Debug("TICK"); err != nil {
		t.Errorf("Debug TICK failed: %v", err)
	}
	if err := Debug("BOGUS"); err == nil {
		t.Errorf("Debug BOGUS succeeded")
	}
	debugMsk = 0
}
