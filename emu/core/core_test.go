/*
 * HP2100 - CPU run loop test set
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

package core

import (
	"errors"
	"testing"
	"time"

	"github.com/rcornwell/HP2100/emu/cpu"
	"github.com/rcornwell/HP2100/emu/master"
	"github.com/rcornwell/HP2100/emu/tbg"
)

const opHLT = 0102000

func setup(t *testing.T) *Core {
	t.Helper()
	c, err := cpu.New(cpu.DefaultConfig())
	if err != nil {
		t.Fatalf("Unable to create CPU: %v", err)
	}
	core := New(make(chan master.Packet), c)
	go core.Start()
	t.Cleanup(core.Stop)
	return core
}

func (core *Core) load(addr uint16, words ...uint16) {
	core.Do(func(c *cpu.CPU) {
		for i, w := range words {
			c.Deposit(addr+uint16(i), w)
		}
	})
}

// Wait for CPU to stop.
func waitHalt(t *testing.T, core *Core) error {
	t.Helper()
	select {
	case err := <-core.Halted():
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("CPU did not stop")
	}
	return nil
}

func TestRunHalt(t *testing.T) {
	core := setup(t)
	core.load(0100, 0000000, 0000000, opHLT)
	core.SendStart(0100, true)
	err := waitHalt(t, core)
	var stop *cpu.Stop
	if !errors.As(err, &stop) || stop.Reason != cpu.StopHalt {
		t.Fatalf("Stop not correct got: %v", err)
	}
	if stop.PC != 0102 {
		t.Errorf("Halt address not correct got: %06o expected: %06o", stop.PC, 0102)
	}
	if core.Running() {
		t.Errorf("CPU still running after halt")
	}
}

func TestStep(t *testing.T) {
	core := setup(t)
	core.load(0100, 0000000, 0000000, 0000000, 0000000, opHLT)
	core.Do(func(c *cpu.CPU) { c.P = 0100 })
	core.SendStep(3)
	if err := waitHalt(t, core); err != nil {
		t.Fatalf("Step stopped with error: %v", err)
	}
	p := uint16(0)
	core.Do(func(c *cpu.CPU) { p = c.P })
	if p != 0103 {
		t.Errorf("P not correct got: %06o expected: %06o", p, 0103)
	}
}

func TestStopCommand(t *testing.T) {
	core := setup(t)
	core.load(0100, 0024100) // JMP 100
	core.SendStart(0100, true)
	time.Sleep(10 * time.Millisecond)
	if !core.Running() {
		t.Fatalf("CPU not running")
	}
	core.SendStop()
	if err := waitHalt(t, core); err != nil {
		t.Errorf("Stop command gave error: %v", err)
	}
	if core.Running() {
		t.Errorf("CPU still running after stop")
	}
}

// Clock ticks reach the time base generator while running.
func TestClock(t *testing.T) {
	core := setup(t)
	var clock *tbg.TBG
	core.Do(func(c *cpu.CPU) {
		var err error
		clock, err = tbg.New(c.Bus(), 013)
		if err != nil {
			t.Errorf("Unable to create time base generator: %v", err)
			return
		}
		core.AttachClock(clock)
	})
	if clock == nil {
		t.FailNow()
	}
	core.load(0100,
		0102713, // STC 13
		0102313, // SFS 13
		0024101, // JMP 101
		opHLT)
	core.SendStart(0100, true)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case err := <-core.Halted():
			var stop *cpu.Stop
			if !errors.As(err, &stop) || stop.PC != 0103 {
				t.Errorf("Stop not correct got: %v", err)
			}
			return
		case core.Master <- master.Packet{Msg: master.TimeClock}:
		case <-timeout:
			t.Fatalf("Clock flag never set")
		}
	}
}
