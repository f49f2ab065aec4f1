/*
 * HP2100 - Memory protect
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

package protect

import (
	"fmt"
)

/*
   Memory protect guards the memory below the fence register. While enabled
   any write or jump to an address below the fence is a violation, except
   for locations 0 and 1 which are the A and B registers. I/O instructions
   are also restricted to the switch register and overflow, select code 1.

   A violation disables memory protect, the only way to enable it again
   is with STC 5. The violation register captures the address of the
   offending instruction, it will not change again until STC 5 rearms it.

   When any interrupt is acknowledged memory protect is turned off for the
   instruction in the trap cell. If that instruction is not a halt, memory
   protect is turned back on once it completes.
*/

// Jumpers select optional behavior.
type Jumpers uint8

const (
	JumperIO  Jumpers = 1 << iota // Allow all I/O but HLT.
	JumperJSB                     // Allow indirect JSB below fence.
)

// Kind of violation.
type Kind uint8

const (
	WriteViolation Kind = iota // Write below fence.
	JumpViolation              // Jump below fence.
	IOViolation                // Illegal I/O instruction.
	MEUViolation               // Violation passed in from MEU.
)

func (k Kind) String() string {
	switch k {
	case WriteViolation:
		return "write"
	case JumpViolation:
		return "jump"
	case IOViolation:
		return "I/O"
	case MEUViolation:
		return "MEU"
	}
	return "unknown"
}

// Violation detected by memory protect.
type Violation struct {
	Kind    Kind   // What was violated.
	Address uint16 // Address referenced or select code.
}

func (v *Violation) Error() string {
	return fmt.Sprintf("memory protect %s violation at %06o", v.Kind, v.Address)
}

// Unit holds memory protect state.
type Unit struct {
	control   bool    // Memory protect enabled.
	fence     uint16  // Fence register.
	vr        uint16  // Violation register.
	evr       bool    // Violation register will latch.
	mev       bool    // Last violation from MEU.
	jumpers   Jumpers // Installed jumpers.
	suspended bool    // Turned off for trap cell.
}

const VAMASK uint16 = 077777 // Logical address mask.

// Create memory protect unit.
func New(jumpers Jumpers) *Unit {
	return &Unit{jumpers: jumpers, evr: true}
}

// Reset unit to power on state.
func (u *Unit) Reset() {
	u.control = false
	u.evr = true
	u.mev = false
	u.suspended = false
}

// Return true if memory protect enabled.
func (u *Unit) Enabled() bool {
	return u.control
}

// Enable memory protect, STC 5.
func (u *Unit) Enable() {
	u.control = true
	u.evr = true
	u.mev = false
	u.suspended = false
}

// Set fence register.
func (u *Unit) SetFence(fence uint16) {
	u.fence = fence & VAMASK
}

// Return fence register.
func (u *Unit) Fence() uint16 {
	return u.fence
}

// Return violation register.
func (u *Unit) ViolationRegister() uint16 {
	return u.vr
}

// Return true if last violation came from MEU.
func (u *Unit) MEV() bool {
	return u.mev
}

// Return installed jumpers.
func (u *Unit) Jumpers() Jumpers {
	return u.jumpers
}

// Check write to address.
func (u *Unit) CheckWrite(va uint16) error {
	va &= VAMASK
	if u.control && va > 1 && va < u.fence {
		return &Violation{Kind: WriteViolation, Address: va}
	}
	return nil
}

// Check jump to address.
func (u *Unit) CheckJump(va uint16) error {
	va &= VAMASK
	if u.control && va > 1 && va < u.fence {
		return &Violation{Kind: JumpViolation, Address: va}
	}
	return nil
}

// Check indirect JSB, which may be allowed by jumper.
func (u *Unit) CheckJSB(va uint16, indirect bool) error {
	if indirect && (u.jumpers&JumperJSB) != 0 {
		return nil
	}
	return u.CheckJump(va)
}

// Check I/O instruction to select code.
func (u *Unit) CheckIO(sc uint8, halt bool) error {
	if !u.control {
		return nil
	}
	if halt {
		return &Violation{Kind: IOViolation, Address: uint16(sc)}
	}
	if sc == 1 || (u.jumpers&JumperIO) != 0 {
		return nil
	}
	return &Violation{Kind: IOViolation, Address: uint16(sc)}
}

// Record violation at instruction address pc. Returns true if memory
// protect was enabled and an interrupt should be requested.
func (u *Unit) Violate(pc uint16, fromMEU bool) bool {
	if !u.control {
		return false
	}
	if u.evr {
		u.vr = pc & VAMASK
		u.evr = false
	}
	u.mev = fromMEU
	u.control = false
	u.suspended = false
	return true
}

// Interrupt acknowledged, stop checking for the trap cell instruction.
func (u *Unit) Acknowledge() {
	if u.control {
		u.control = false
		u.suspended = true
	}
}

// Trap cell instruction complete, turn protection back on unless the
// instruction was a halt.
func (u *Unit) EndTrapCell(halted bool) {
	if u.suspended && !halted {
		u.control = true
	}
	u.suspended = false
}

// Return true if waiting for trap cell instruction to finish.
func (u *Unit) Suspended() bool {
	return u.suspended
}
