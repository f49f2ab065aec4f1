/*
 * HP2100 - I/O backplane test set
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
	"testing"
)

// Simple card that uses the standard flip-flops.
type testCard struct {
	bus    *Bus
	data   uint16
	output uint16
	sigs   []Signal
}

func (card *testCard) IOSignal(sc uint8, sig Signal, data uint16) (uint16, bool, error) {
	card.sigs = append(card.sigs, sig)
	value := uint16(0)
	if (sig & SigIOI) != 0 {
		value = card.data
	}
	if (sig & SigIOO) != 0 {
		card.output = data
	}
	skip := card.bus.Standard(sc, sig)
	return value, skip, nil
}

func setup() (*Bus, *testCard) {
	bus := New()
	card := &testCard{bus: bus}
	return bus, card
}

func TestSignalOrder(t *testing.T) {
	sig := SigCLC | SigIOI | SigCLF | SigSFS
	expect := []Signal{SigSFS, SigIOI, SigCLF, SigCLC}
	for i, e := range expect {
		s := sig.Next()
		if s != e {
			t.Errorf("Signal %d not correct got: %s expected: %s", i, s, e)
		}
	}
	if sig != SigNone {
		t.Errorf("Signals left over: %s", sig)
	}
	if (SigIOI | SigCLF).String() != "IOI+CLF" {
		t.Errorf("Signal name not correct got: %s", (SigIOI | SigCLF).String())
	}
}

func TestAttach(t *testing.T) {
	bus, card := setup()
	if err := bus.Attach(012, card); err != nil {
		t.Errorf("Attach failed: %v", err)
	}
	if err := bus.Attach(012, card); err == nil {
		t.Errorf("Attach to used select code succeeded")
	}
	if err := bus.Attach(0100, card); err == nil {
		t.Errorf("Attach to invalid select code succeeded")
	}
	if _, err := bus.GetDevice(012); err != nil {
		t.Errorf("GetDevice failed: %v", err)
	}
	bus.Detach(012)
	if _, err := bus.GetDevice(012); err == nil {
		t.Errorf("GetDevice found detached device")
	}
}

// Empty slot reads zero and flag is always clear.
func TestEmptySlot(t *testing.T) {
	bus, _ := setup()
	value, skip, err := bus.Dispatch(020, SigIOI|SigSFC, 0)
	if err != nil || value != 0 || !skip {
		t.Errorf("Empty slot not correct got: %o %v %v", value, skip, err)
	}
	_, skip, _ = bus.Dispatch(020, SigSFS, 0)
	if skip {
		t.Errorf("Empty slot skipped on SFS")
	}
}

// Skip tests occur before flag is cleared.
func TestSkipClear(t *testing.T) {
	bus, card := setup()
	_ = bus.Attach(012, card)
	card.data = 012345
	bus.SetFlag(012)
	value, skip, _ := bus.Dispatch(012, SigSFS|SigIOI|SigCLF, 0)
	if !skip {
		t.Errorf("SFS,C did not skip")
	}
	if value != 012345 {
		t.Errorf("Data not correct got: %o expected: %o", value, 012345)
	}
	if bus.Flag(012) {
		t.Errorf("Flag not cleared")
	}
	_, _, _ = bus.Dispatch(012, SigIOO|SigSTC, 054321)
	if card.output != 054321 || !bus.Control(012) {
		t.Errorf("Output not correct got: %o control: %v", card.output, bus.Control(012))
	}
}

func TestPriority(t *testing.T) {
	bus, _ := setup()
	if sc := bus.Request(true); sc != 0 {
		t.Errorf("Request with nothing pending got: %o", sc)
	}
	bus.SetControl(020)
	bus.SetFlag(020)
	bus.SetControl(015)
	bus.SetFlag(015)
	if sc := bus.Request(false); sc != 0 {
		t.Errorf("Request with interrupts off got: %o", sc)
	}
	if sc := bus.Request(true); sc != 015 {
		t.Errorf("Request not correct got: %o expected: %o", sc, 015)
	}
	_ = bus.Acknowledge(015)
	// 015 is in service, holds off 020.
	if sc := bus.Request(true); sc != 0 {
		t.Errorf("In service card did not hold off got: %o", sc)
	}
	bus.ClearFlag(015)
	if sc := bus.Request(true); sc != 020 {
		t.Errorf("Request not correct got: %o expected: %o", sc, 020)
	}
	// Memory protect is not gated by interrupt system.
	bus.SetControl(SCProtect)
	bus.SetFlag(SCProtect)
	if sc := bus.Request(false); sc != SCProtect {
		t.Errorf("Protect request not correct got: %o", sc)
	}
}

func TestReset(t *testing.T) {
	bus, card := setup()
	_ = bus.Attach(012, card)
	bus.SetControl(012)
	bus.SetControl(030)
	if err := bus.Reset(); err != nil {
		t.Errorf("Reset failed: %v", err)
	}
	if bus.Control(012) || bus.Control(030) {
		t.Errorf("Reset did not clear control")
	}
	if !bus.Flag(012) {
		t.Errorf("POPIO did not set flag")
	}
	if len(card.sigs) != 1 || card.sigs[0] != SigPOPIO|SigCRS {
		t.Errorf("Reset signals not correct got: %v", card.sigs)
	}
}
