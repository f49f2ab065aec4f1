/*
 * HP2100 - Control packets passed to the run loop
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

package master

// Message types sent to the core.
const (
	Start     = 1 + iota // Start CPU running at current P.
	Stop                 // Stop CPU at next instruction boundary.
	Step                 // Execute Count instructions then stop.
	TimeClock            // Host clock tick.
	Shutdown             // Stop run loop and exit.
	Exec                 // Run Fn in the core goroutine.
)

// Packet sent to core over master channel.
type Packet struct {
	Msg   int           // Message type.
	Addr  uint16        // Start address.
	SetP  bool          // Addr is valid.
	Count int           // Number of instructions for Step.
	Fn    func()        // Function for Exec.
	Done  chan struct{} // Closed when Fn returns.
}

var msgNames = map[int]string{
	Start:     "start",
	Stop:      "stop",
	Step:      "step",
	TimeClock: "tick",
	Shutdown:  "shutdown",
	Exec:      "exec",
}

// Return printable name of packet.
func (p Packet) String() string {
	name, ok := msgNames[p.Msg]
	if !ok {
		return "unknown"
	}
	return name
}
