/*
 * HP2100 - Memory expansion unit
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

package meu

import (
	"fmt"
)

/*
   The memory expansion unit translates a 15 bit logical address into a
   20 bit physical address. Each of the four maps holds 32 map registers,
   one for each 1K page of the logical space.

   Map register:

      15  14  13  12  11  10   9   8   7   6   5   4   3   2   1   0
    +---+---+---------------+---------------------------------------+
    | R | W |   reserved    |            physical page              |
    +---+---+---------------+---------------------------------------+

   The base page is split at the fence. One side of the fence goes through
   map register 0 of the selected map, the other side addresses physical
   page 0 directly. Writes to the direct side are violations while the
   unit is enabled. The port maps used by DMA do not see the fence.

   Status register:

      15  14  13  12  11  10   9   8   7   6   5   4   3   2   1   0
    +---+---+---+---+---+---+---------------------------------------+
    |ENI|UMI|ENB|USR|PRO|FLT|           base page fence             |
    +---+---+---+---+---+---+---------------------------------------+

   Violation register:

      15  14  13  12  11  10   9   8   7   6   5   4   3   2   1   0
    +---+---+---+---+-----------+---+---+---+---+-------------------+
    |RPV|WPV|BPV|PRV|           |   |MEB|MEM|UMP|   logical page    |
    +---+---+---+---+-----------+---+---+---+---+-------------------+
*/

// MapID names one of the four maps.
type MapID uint8

const (
	SystemMap MapID = iota // System map.
	UserMap                // User map.
	PortAMap               // DMA port A map.
	PortBMap               // DMA port B map.
)

const (
	MapCount  = 4                  // Number of maps.
	MapRegs   = 32                 // Registers per map.
	Registers = MapCount * MapRegs // Total map registers.

	MapReadProt  uint16 = 0100000 // Read protect.
	MapWriteProt uint16 = 0040000 // Write protect.
	MapReserved  uint16 = 0036000 // Reserved bits.
	MapPage      uint16 = 0001777 // Physical page.

	StatusEnabledInt uint16 = 0100000 // Enabled at last interrupt.
	StatusUserInt    uint16 = 0040000 // User map at last interrupt.
	StatusEnabled    uint16 = 0020000 // Unit enabled.
	StatusUser       uint16 = 0010000 // User map selected.
	StatusProtect    uint16 = 0004000 // Memory protect enabled.
	StatusFenceLow   uint16 = 0002000 // Direct half of base page is below fence.
	StatusFence      uint16 = 0001777 // Base page fence.

	ViolRead       uint16 = 0100000 // Read violation.
	ViolWrite      uint16 = 0040000 // Write violation.
	ViolBasePage   uint16 = 0020000 // Base page violation.
	ViolPrivileged uint16 = 0010000 // Privileged instruction violation.
	ViolMEBus      uint16 = 0000200 // Violation on mapped access.
	ViolEnabled    uint16 = 0000100 // Unit was enabled.
	ViolUser       uint16 = 0000040 // User map was selected.
	ViolPage       uint16 = 0000037 // Logical page.

	PageShift         = 10      // Page number shift.
	OffsetMask uint16 = 0001777 // Offset in page.
	VAMASK     uint16 = 0077777 // Logical address mask.
)

// Protection is the access class of a translation.
type Protection uint16

const (
	NoProt    Protection = 0                        // Unchecked access.
	ReadProt  Protection = Protection(MapReadProt)  // Read access.
	WriteProt Protection = Protection(MapWriteProt) // Write access.
)

// Cause of a violation.
type Cause uint8

const (
	None Cause = iota
	ReadViolation
	WriteViolation
	BasePageViolation
	PrivilegedViolation
)

func (c Cause) String() string {
	switch c {
	case ReadViolation:
		return "read"
	case WriteViolation:
		return "write"
	case BasePageViolation:
		return "base page"
	case PrivilegedViolation:
		return "privileged"
	}
	return "none"
}

// Violation register bit for each cause.
var causeBits = [...]uint16{0, ViolRead, ViolWrite, ViolBasePage, ViolPrivileged}

func (m MapID) String() string {
	switch m {
	case SystemMap:
		return "system"
	case UserMap:
		return "user"
	case PortAMap:
		return "port A"
	case PortBMap:
		return "port B"
	}
	return "unknown"
}

// Violation detected by the unit.
type Violation struct {
	Cause    Cause  // What was violated.
	Address  uint16 // Logical address of access.
	Map      MapID  // Map in use.
	Register uint16 // Violation register at time of fault.
}

func (v *Violation) Error() string {
	return fmt.Sprintf("MEU %s violation at %06o using %s map", v.Cause, v.Address, v.Map)
}

// Unit holds the state of one memory expansion unit.
type Unit struct {
	maps     [Registers]uint16 // Map registers.
	enabled  bool              // Mapping enabled.
	user     bool              // User map selected.
	enbInt   bool              // Enabled at last interrupt.
	userInt  bool              // User map at last interrupt.
	fence    uint16            // Base page fence.
	fenceLow bool              // Direct half is below the fence.
	vr       uint16            // Violation register.
	frozen   bool              // Violation register frozen.
}

// Create a new unit, all maps clear.
func New() *Unit {
	return &Unit{}
}

// Clear all state including map registers.
func (u *Unit) PowerOn() {
	*u = Unit{}
}

// Reset unit, map registers are preserved.
func (u *Unit) Reset() {
	u.enabled = false
	u.user = false
	u.enbInt = false
	u.userInt = false
	u.fence = 0
	u.fenceLow = false
	u.vr = 0
	u.frozen = false
}

// Return true if mapping enabled.
func (u *Unit) Enabled() bool {
	return u.enabled
}

// Enable mapping with selected map.
func (u *Unit) Enable(user bool) {
	u.enabled = true
	u.user = user
}

// Disable mapping, current map is not changed.
func (u *Unit) Disable() {
	u.enabled = false
}

// Select system or user map.
func (u *Unit) SelectMap(user bool) {
	u.user = user
}

// Return current program map.
func (u *Unit) CurrentMap() MapID {
	if u.user {
		return UserMap
	}
	return SystemMap
}

// Return map not currently selected.
func (u *Unit) AlternateMap() MapID {
	if u.user {
		return SystemMap
	}
	return UserMap
}

// Read a map register.
func (u *Unit) ReadMap(reg int) uint16 {
	return u.maps[reg%Registers]
}

// Write a map register, reserved bits are dropped.
func (u *Unit) WriteMap(reg int, value uint16) {
	u.maps[reg%Registers] = value &^ MapReserved
}

// Load fence and fence low flag from status word format.
func (u *Unit) LoadFence(value uint16) {
	u.fence = value & StatusFence
	u.fenceLow = (value & StatusFenceLow) != 0
}

// Return fence in status word format.
func (u *Unit) Fence() uint16 {
	if u.fenceLow {
		return u.fence | StatusFenceLow
	}
	return u.fence
}

// Translate logical to physical address. Has no side effects, a
// violation is reported by cause only.
func (u *Unit) Translate(va uint16, m MapID, prot Protection) (uint32, Cause) {
	va &= VAMASK
	if !u.enabled {
		return uint32(va), None
	}

	page := va >> PageShift
	if page == 0 && m <= UserMap {
		var direct bool
		if u.fenceLow {
			direct = va < u.fence
		} else {
			direct = va >= u.fence
		}
		if direct {
			if prot == WriteProt {
				return uint32(va), BasePageViolation
			}
			return uint32(va), None
		}
	}

	mpr := u.maps[int(m)*MapRegs+int(page)]
	pa := (uint32(mpr&MapPage) << PageShift) | uint32(va&OffsetMask)
	if mpr&uint16(prot) != 0 {
		if prot == ReadProt {
			return pa, ReadViolation
		}
		return pa, WriteViolation
	}
	return pa, None
}

// Record a violation. The violation register is only updated when not
// frozen, freeze stops further updates until rearmed.
func (u *Unit) Violate(va uint16, m MapID, cause Cause, freeze bool) *Violation {
	if !u.frozen {
		u.vr = causeBits[cause] | ((va >> PageShift) & ViolPage)
		if cause == ReadViolation || cause == WriteViolation {
			u.vr |= ViolMEBus
		}
		if u.enabled {
			u.vr |= ViolEnabled
		}
		if u.user {
			u.vr |= ViolUser
		}
		u.frozen = freeze
	}
	return &Violation{Cause: cause, Address: va & VAMASK, Map: m, Register: u.vr}
}

// Allow violation register to update again.
func (u *Unit) Rearm() {
	u.frozen = false
}

// Return true if violation register is frozen.
func (u *Unit) Frozen() bool {
	return u.frozen
}

// Return violation register. While live and not frozen the register
// tracks the current state, it is only brought up to date when read.
func (u *Unit) ViolationRegister(va uint16, live bool) uint16 {
	if live && !u.frozen {
		u.vr = (va >> PageShift) & ViolPage
		if u.enabled {
			u.vr |= ViolEnabled
		}
		if u.user {
			u.vr |= ViolUser
		}
	}
	return u.vr
}

// Return status register, built on request.
func (u *Unit) Status(protect bool) uint16 {
	status := u.Fence()
	if u.enbInt {
		status |= StatusEnabledInt
	}
	if u.userInt {
		status |= StatusUserInt
	}
	if u.enabled {
		status |= StatusEnabled
	}
	if u.user {
		status |= StatusUser
	}
	if protect {
		status |= StatusProtect
	}
	return status
}

// Save state at interrupt and switch to system map.
func (u *Unit) InterruptEntry() {
	u.enbInt = u.enabled
	u.userInt = u.user
	u.user = false
}

// Restore enable and map from the at interrupt bits of a status word.
func (u *Unit) RestoreStatus(status uint16) {
	u.enabled = (status & StatusEnabledInt) != 0
	u.user = (status & StatusUserInt) != 0
}
