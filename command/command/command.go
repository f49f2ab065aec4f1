/*
 * HP2100 - Console interface to the simulator
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

package command

import "github.com/rcornwell/HP2100/emu/cpu"

// Machine the operator console controls. Commands reach the CPU only
// through these calls so they run between instructions.
type Machine interface {
	SendStart(addr uint16, setP bool) // Start running, at addr if setP.
	SendStop()                        // Stop at next instruction.
	SendStep(count int)               // Execute count instructions.
	Do(fn func(*cpu.CPU))             // Run fn inside the run loop.
	Running() bool                    // CPU is running.
	Halted() <-chan error             // Reason for each stop.
}

// Units reported by show.
var ShowUnits = []string{"cpu", "dma", "meu", "mp"}
