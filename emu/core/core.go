/*
 * HP2100 - CPU run loop
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
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/rcornwell/HP2100/emu/cpu"
	"github.com/rcornwell/HP2100/emu/master"
	"github.com/rcornwell/HP2100/emu/tbg"
)

type Core struct {
	wg      sync.WaitGroup
	done    chan struct{} // Signal to shutdown simulator.
	running bool          // Indicate when simulator should run or not.
	steps   int           // Instructions left in step, 0 runs free.
	halted  chan error    // Reason for last stop.
	Master  chan master.Packet
	cpu     *cpu.CPU
	clock   *tbg.TBG
}

// Create run loop for a CPU.
func New(master chan master.Packet, cpu *cpu.CPU) *Core {
	return &Core{
		Master: master,
		done:   make(chan struct{}),
		halted: make(chan error, 1),
		cpu:    cpu,
	}
}

// Deliver host clock ticks to time base generator.
func (core *Core) AttachClock(clock *tbg.TBG) {
	core.clock = clock
}

// Run CPU, returns when Shutdown is called.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	for {
		if !core.running {
			select {
			case <-core.done:
				return
			case packet := <-core.Master:
				if core.processPacket(packet) {
					return
				}
			}
			continue
		}

		core.step()
		select {
		case <-core.done:
			return
		case packet := <-core.Master:
			if core.processPacket(packet) {
				return
			}
		default:
		}
	}
}

// Execute one instruction.
func (core *Core) step() {
	_, err := core.cpu.Cycle()
	if err != nil {
		core.halt(err)
		return
	}
	if core.steps > 0 {
		core.steps--
		if core.steps == 0 {
			core.halt(nil)
		}
	}
}

// Stop running and report why.
func (core *Core) halt(err error) {
	core.running = false
	core.steps = 0
	var stop *cpu.Stop
	switch {
	case err == nil:
		slog.Info("Stopped", "P", octal(core.cpu.P))
	case errors.As(err, &stop) && stop.Reason == cpu.StopHalt:
		slog.Info("Halted", "P", octal(stop.PC), "IR", octal(stop.IR))
	case errors.As(err, &stop):
		slog.Warn("Stopped: "+stop.Reason.String(), "P", octal(stop.PC), "IR", octal(stop.IR))
	default:
		slog.Error(err.Error())
	}

	// Keep only the most recent stop.
	select {
	case <-core.halted:
	default:
	}
	core.halted <- err
}

// Shutdown run loop.
func (core *Core) Stop() {
	slog.Info("Shutting down CPU")
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for CPU to finish.")
	}
}

// Halted returns channel receiving reason for each stop, nil for step or stop command.
func (core *Core) Halted() <-chan error {
	return core.halted
}

// Start CPU, at addr if setP.
func (core *Core) SendStart(addr uint16, setP bool) {
	core.Master <- master.Packet{Msg: master.Start, Addr: addr, SetP: setP}
}

// Stop CPU.
func (core *Core) SendStop() {
	core.Master <- master.Packet{Msg: master.Stop}
}

// Execute count instructions.
func (core *Core) SendStep(count int) {
	core.Master <- master.Packet{Msg: master.Step, Count: count}
}

// Run fn against the machine inside the run loop and wait for it.
func (core *Core) Do(fn func(*cpu.CPU)) {
	done := make(chan struct{})
	core.Master <- master.Packet{Msg: master.Exec, Fn: func() { fn(core.cpu) }, Done: done}
	<-done
}

// Report if CPU is running.
func (core *Core) Running() bool {
	running := false
	core.Do(func(*cpu.CPU) { running = core.running })
	return running
}

// Process a packet sent to system simulation, returns true on shutdown.
func (core *Core) processPacket(packet master.Packet) bool {
	switch packet.Msg {
	case master.TimeClock:
		if core.clock != nil && core.running {
			core.clock.Tick()
		}
	case master.Start:
		if packet.SetP {
			core.cpu.P = packet.Addr & cpu.VAMASK
		}
		core.steps = 0
		core.running = true
		slog.Info("Running", "P", octal(core.cpu.P))
	case master.Step:
		if packet.Count <= 0 {
			packet.Count = 1
		}
		core.steps = packet.Count
		core.running = true
	case master.Stop:
		if core.running {
			core.halt(nil)
		}
	case master.Exec:
		packet.Fn()
		close(packet.Done)
	case master.Shutdown:
		return true
	default:
		slog.Warn("Unknown packet: " + packet.String())
	}
	return false
}

func octal(v uint16) string {
	return strconv.FormatUint(uint64(v), 8)
}
