/*
 * HP2100 - CPU memory access
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
   All program access to memory goes through here. Logical locations 0
   and 1 are the A and B registers. Writes are checked against the
   memory protect fence first, then the MEU translates the address under
   the selected map.

   A MEU violation while memory protect is enabled freezes the violation
   register and aborts the instruction. With memory protect off the
   violation is only recorded, reads complete and writes are dropped.
*/

// Handle MEU violation, returns error if the instruction must abort.
func (cpu *CPU) meuFault(va uint16, m meu.MapID, cause meu.Cause) error {
	abort := cpu.mp.Enabled()
	v := cpu.meu.Violate(va, m, cause, abort)
	debug.Debugf("CPU", debugMsk, debugMEU, "%v abort=%v", v, abort)
	if abort {
		return v
	}
	return nil
}

// Check for privileged instruction, violation only with protect on.
func (cpu *CPU) privileged() error {
	if !cpu.mp.Enabled() {
		return nil
	}
	return cpu.meuFault(cpu.errPC, cpu.meu.CurrentMap(), meu.PrivilegedViolation)
}

// Read word through map.
func (cpu *CPU) readMap(va uint16, m meu.MapID) (uint16, error) {
	va &= VAMASK
	cpu.M = va
	switch va {
	case 0:
		cpu.T = cpu.A
		return cpu.A, nil
	case 1:
		cpu.T = cpu.B
		return cpu.B, nil
	}
	pa, cause := cpu.meu.Translate(va, m, meu.ReadProt)
	if cause != meu.None {
		if err := cpu.meuFault(va, m, cause); err != nil {
			return 0, err
		}
	}
	value, _ := cpu.mem.GetWord(pa)
	cpu.T = value
	return value, nil
}

// Write word through map.
func (cpu *CPU) writeMap(va uint16, m meu.MapID, value uint16) error {
	va &= VAMASK
	cpu.M = va
	cpu.T = value
	switch va {
	case 0:
		cpu.A = value
		return nil
	case 1:
		cpu.B = value
		return nil
	}
	if err := cpu.mp.CheckWrite(va); err != nil {
		return err
	}
	pa, cause := cpu.meu.Translate(va, m, meu.WriteProt)
	if cause != meu.None {
		// Write is inhibited even if not aborted.
		return cpu.meuFault(va, m, cause)
	}
	// Writes past the end of memory are lost, nothing is there.
	_ = cpu.mem.PutWord(pa, value)
	return nil
}

// Fetch instruction.
func (cpu *CPU) fetch(va uint16) (uint16, error) {
	return cpu.readMap(va, cpu.meu.CurrentMap())
}

// Read word under current map.
func (cpu *CPU) ReadWord(va uint16) (uint16, error) {
	value, err := cpu.readMap(va, cpu.meu.CurrentMap())
	if err == nil {
		debug.Debugf("CPU", debugMsk, debugData, "read %06o = %06o", va&VAMASK, value)
	}
	return value, err
}

// Write word under current map.
func (cpu *CPU) WriteWord(va uint16, value uint16) error {
	debug.Debugf("CPU", debugMsk, debugData, "write %06o = %06o", va&VAMASK, value)
	return cpu.writeMap(va, cpu.meu.CurrentMap(), value)
}

// Read byte at byte address, high byte is even.
func (cpu *CPU) readByte(ba uint16, m meu.MapID) (uint16, error) {
	word, err := cpu.readMap(ba>>1, m)
	if err != nil {
		return 0, err
	}
	if (ba & 1) == 0 {
		return word >> 8, nil
	}
	return word & LOWBYTE, nil
}

// Write byte at byte address.
func (cpu *CPU) writeByte(ba uint16, m meu.MapID, value uint16) error {
	word, err := cpu.readMap(ba>>1, m)
	if err != nil {
		return err
	}
	if (ba & 1) == 0 {
		word = (word & LOWBYTE) | ((value & LOWBYTE) << 8)
	} else {
		word = (word &^ LOWBYTE) | (value & LOWBYTE)
	}
	return cpu.writeMap(ba>>1, m, word)
}

// Check jump target against fence.
func (cpu *CPU) checkJump(va uint16) error {
	return cpu.mp.CheckJump(va)
}

// Physical address for DMA port.
func (cpu *CPU) dmaAddress(port int, addr uint16) uint32 {
	addr &= VAMASK
	if !cpu.meu.Enabled() {
		return uint32(addr)
	}
	pa, _ := cpu.meu.Translate(addr, meu.PortAMap+meu.MapID(port&1), meu.NoProt)
	return pa
}

// Read for DMA, no protection and no register alias.
func (cpu *CPU) ReadDMA(port int, addr uint16) uint16 {
	value, _ := cpu.mem.GetWord(cpu.dmaAddress(port, addr))
	return value
}

// Write for DMA, no protection and no register alias.
func (cpu *CPU) WriteDMA(port int, addr uint16, data uint16) {
	// Nonexistent memory ignores the write.
	_ = cpu.mem.PutWord(cpu.dmaAddress(port, addr), data)
}

// Read physical memory without checks.
func (cpu *CPU) ReadPhysical(pa uint32) uint16 {
	return cpu.mem.GetMemory(pa)
}

// Write physical memory without checks.
func (cpu *CPU) WritePhysical(pa uint32, value uint16) {
	cpu.mem.SetMemory(pa, value)
}

// Return physical memory size in words.
func (cpu *CPU) MemorySize() uint32 {
	return cpu.mem.GetSize()
}

// Examine logical address under current map, no protection.
func (cpu *CPU) Examine(va uint16) uint16 {
	va &= VAMASK
	switch va {
	case 0:
		return cpu.A
	case 1:
		return cpu.B
	}
	pa, _ := cpu.meu.Translate(va, cpu.meu.CurrentMap(), meu.NoProt)
	return cpu.mem.GetMemory(pa)
}

// Deposit to logical address under current map, no protection.
func (cpu *CPU) Deposit(va uint16, value uint16) {
	va &= VAMASK
	switch va {
	case 0:
		cpu.A = value
		return
	case 1:
		cpu.B = value
		return
	}
	pa, _ := cpu.meu.Translate(va, cpu.meu.CurrentMap(), meu.NoProt)
	cpu.mem.SetMemory(pa, value)
}
