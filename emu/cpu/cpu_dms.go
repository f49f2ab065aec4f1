/*
 * HP2100 - Dynamic mapping system instructions
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

package cpu

import (
	"github.com/rcornwell/HP2100/emu/meu"
	"github.com/rcornwell/HP2100/util/debug"
)

/*
   Dynamic mapping system, 1000 series. Bit 11 selects A or B where an
   instruction names a register.

      10x700  XMM    same as 105720.
      10x701         complement A or B, used as a probe.
      105702  MBI    move bytes into user map.
      105703  MBF    move bytes from user map.
      105704  MBW    move bytes within user map.
      105705  MWI    move words into user map.
      105706  MWF    move words from user map.
      105707  MWW    move words within user map.
      10x710  SYA    load or store system map.
      10x711  USA    load or store user map.
      10x712  PAA    load or store port A map.
      10x713  PBA    load or store port B map.
      105714  SSM    store status.
      105715  JRS    jump and restore status.
      105720  XMM    transfer maps to or from memory.
      105721  XMS    transfer sequential values to maps.
      10x722  XMA    copy system or user map to a port map.
      10x724  XLA    load from alternate map.
      10x725  XSA    store to alternate map.
      10x726  XCA    compare with alternate map, skip if unequal.
      10x727  LFA    load fence.
      10x730  RSA    read status.
      10x731  RVA    read violation register.
      105732  DJP    disable MEU and jump.
      105733  DJS    disable MEU and jump to subroutine.
      105734  SJP    enable system map and jump.
      105735  SJS    enable system map and jump to subroutine.
      105736  UJP    enable user map and jump.
      105737  UJS    enable user map and jump to subroutine.

   Instructions that change the maps or the mapping state are privileged
   while memory protect is on.
*/

// Dynamic mapping system.
func (cpu *CPU) opDMS(ir uint16) error {
	reg := cpu.abReg(ir)
	op := ir & 037
	switch op {
	case 000, 020: // XMM
		return cpu.opXMM()

	case 001:
		*reg = ^*reg

	case 002: // MBI
		return cpu.crossMove(meu.SystemMap, meu.UserMap, true)
	case 003: // MBF
		return cpu.crossMove(meu.UserMap, meu.SystemMap, true)
	case 004: // MBW
		return cpu.crossMove(meu.UserMap, meu.UserMap, true)
	case 005: // MWI
		return cpu.crossMove(meu.SystemMap, meu.UserMap, false)
	case 006: // MWF
		return cpu.crossMove(meu.UserMap, meu.SystemMap, false)
	case 007: // MWW
		return cpu.crossMove(meu.UserMap, meu.UserMap, false)

	case 010, 011, 012, 013: // SY*, US*, PA*, PB*
		return cpu.mapTransfer(reg, meu.MapID(op&3))

	case 014: // SSM
		ops, err := cpu.Operands(Pattern(OpAddr))
		if err != nil {
			return err
		}
		return cpu.WriteWord(ops[0].Addr, cpu.MEUStatus())

	case 015: // JRS
		ops, err := cpu.Operands(Pattern(OpAddrInt, OpAddr))
		if err != nil {
			return err
		}
		if err := cpu.privileged(); err != nil {
			return err
		}
		if err := cpu.checkJump(ops[1].Addr); err != nil {
			return err
		}
		cpu.meu.RestoreStatus(ops[0].Word[0])
		cpu.P = ops[1].Addr
		cpu.ionDefer = true

	case 016, 017, 023:
		// No operation.

	case 021: // XMS
		return cpu.opXMS()

	case 022: // XM*
		if err := cpu.privileged(); err != nil {
			return err
		}
		src := meu.SystemMap
		if (*reg & SIGN) != 0 {
			src = meu.UserMap
		}
		dst := meu.PortAMap
		if (*reg & 1) != 0 {
			dst = meu.PortBMap
		}
		for i := range meu.MapRegs {
			cpu.meu.WriteMap(int(dst)*meu.MapRegs+i, cpu.meu.ReadMap(int(src)*meu.MapRegs+i))
		}

	case 024: // XL*
		ops, err := cpu.Operands(Pattern(OpAddr))
		if err != nil {
			return err
		}
		value, err := cpu.readMap(ops[0].Addr, cpu.meu.AlternateMap())
		if err != nil {
			return err
		}
		*reg = value

	case 025: // XS*
		ops, err := cpu.Operands(Pattern(OpAddr))
		if err != nil {
			return err
		}
		return cpu.writeMap(ops[0].Addr, cpu.meu.AlternateMap(), *reg)

	case 026: // XC*
		ops, err := cpu.Operands(Pattern(OpAddr))
		if err != nil {
			return err
		}
		value, err := cpu.readMap(ops[0].Addr, cpu.meu.AlternateMap())
		if err != nil {
			return err
		}
		if value != *reg {
			cpu.Skip(1)
		}

	case 027: // LF*
		if err := cpu.privileged(); err != nil {
			return err
		}
		cpu.meu.LoadFence(*reg)

	case 030: // RS*
		*reg = cpu.MEUStatus()

	case 031: // RV*
		*reg = cpu.MEUViolation()

	case 032, 033, 034, 035, 036, 037: // DJP, DJS, SJP, SJS, UJP, UJS
		return cpu.mapJump(op)
	}
	return nil
}

// Move bytes or words from A to B with count in X.
func (cpu *CPU) crossMove(src, dst meu.MapID, bytes bool) error {
	for done := 1; cpu.X != 0; done++ {
		if bytes {
			value, err := cpu.readByte(cpu.A, src)
			if err != nil {
				return err
			}
			if err := cpu.writeByte(cpu.B, dst, value); err != nil {
				return err
			}
		} else {
			value, err := cpu.readMap(cpu.A, src)
			if err != nil {
				return err
			}
			if err := cpu.writeMap(cpu.B, dst, value); err != nil {
				return err
			}
		}
		cpu.A++
		cpu.B++
		cpu.X--
		if cpu.restart(done, cpu.X != 0) {
			return nil
		}
	}
	return nil
}

// Restart instruction if an interrupt is pending, checked every 16
// units. Registers hold the state to continue.
func (cpu *CPU) restart(done int, more bool) bool {
	if !more || (done%interruptCheck) != 0 || !cpu.interruptPending() {
		return false
	}
	cpu.P = cpu.errPC
	return true
}

// Load or store a whole map. Sign of the address register selects store.
func (cpu *CPU) mapTransfer(reg *uint16, m meu.MapID) error {
	store := (*reg & SIGN) != 0
	if !store {
		if err := cpu.privileged(); err != nil {
			return err
		}
	}
	addr := *reg & VAMASK
	base := int(m) * meu.MapRegs
	for i := range meu.MapRegs {
		va := (addr + uint16(i)) & VAMASK
		if store {
			if err := cpu.WriteWord(va, cpu.meu.ReadMap(base+i)); err != nil {
				return err
			}
			continue
		}
		value, err := cpu.ReadWord(va)
		if err != nil {
			return err
		}
		cpu.meu.WriteMap(base+i, value)
	}
	debug.Debugf("CPU", debugMsk, debugMEU, "%s map store=%v at %06o", m, store, addr)
	*reg += meu.MapRegs
	return nil
}

// Transfer map registers and memory. X holds the count, negative to
// store maps to memory. A is the first map register and B the address.
func (cpu *CPU) opXMM() error {
	store := (cpu.X & SIGN) != 0
	if cpu.X == 0 {
		return nil
	}
	if !store {
		if err := cpu.privileged(); err != nil {
			return err
		}
	}
	for done := 1; cpu.X != 0; done++ {
		reg := int(cpu.A & (meu.Registers - 1))
		if store {
			if err := cpu.WriteWord(cpu.B, cpu.meu.ReadMap(reg)); err != nil {
				return err
			}
			cpu.X++
		} else {
			value, err := cpu.ReadWord(cpu.B)
			if err != nil {
				return err
			}
			cpu.meu.WriteMap(reg, value)
			cpu.X--
		}
		cpu.A++
		cpu.B++
		if cpu.restart(done, cpu.X != 0) {
			return nil
		}
	}
	return nil
}

// Load X map registers starting at A with sequential values from B.
func (cpu *CPU) opXMS() error {
	if int16(cpu.X) <= 0 {
		return nil
	}
	if err := cpu.privileged(); err != nil {
		return err
	}
	for done := 1; int16(cpu.X) > 0; done++ {
		cpu.meu.WriteMap(int(cpu.A&(meu.Registers-1)), cpu.B)
		cpu.A++
		cpu.B++
		cpu.X--
		if cpu.restart(done, cpu.X != 0) {
			return nil
		}
	}
	return nil
}

// Jumps which change the mapping state before jumping.
func (cpu *CPU) mapJump(op uint16) error {
	ops, err := cpu.Operands(Pattern(OpAddr))
	if err != nil {
		return err
	}
	if err := cpu.privileged(); err != nil {
		return err
	}
	target := ops[0].Addr
	subroutine := (op & 1) != 0
	if subroutine {
		err = cpu.mp.CheckJSB(target, false)
	} else {
		err = cpu.checkJump(target)
	}
	if err != nil {
		return err
	}

	switch op &^ 1 {
	case 032:
		cpu.meu.Disable()
	case 034:
		cpu.meu.Enable(false)
	case 036:
		cpu.meu.Enable(true)
	}
	cpu.ionDefer = true

	if subroutine {
		if err := cpu.WriteWord(target, cpu.P); err != nil {
			return err
		}
		target = (target + 1) & VAMASK
	}
	cpu.P = target
	return nil
}
