/*
 * HP2100 - Base instruction set
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

// Execute one instruction.
func (cpu *CPU) execute(ir uint16) error {
	switch {
	case (ir & 0070000) != 0:
		return cpu.opMRG(ir)
	case (ir & SIGN) == 0:
		if (ir & CPBIT) == 0 {
			cpu.opSRG(ir)
		} else {
			cpu.opASG(ir)
		}
		return nil
	case (ir & CPBIT) != 0:
		return cpu.opIOG(ir)
	}
	return cpu.executeMacro(ir)
}

// Return pointer to A or B register selected by instruction.
func (cpu *CPU) abReg(ir uint16) *uint16 {
	if (ir & ABBIT) != 0 {
		return &cpu.B
	}
	return &cpu.A
}

// Add two words, setting E on carry and O on overflow. Flags are never
// cleared.
func (cpu *CPU) add16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	result := uint16(sum)
	if sum > uint32(DMASK) {
		cpu.E = true
	}
	if ((^(a ^ b)) & (a ^ result) & SIGN) != 0 {
		cpu.O = true
	}
	return result
}

// Memory reference instructions.
func (cpu *CPU) opMRG(ir uint16) error {
	ma := ir & OFFSET
	if (ir & CPBIT) != 0 {
		ma |= cpu.errPC & PAGE
	}
	indirect := (ir & IBIT) != 0
	if indirect {
		var err error
		ma, err = cpu.resolve(ma | IBIT)
		if err != nil {
			return err
		}
	}

	switch (ir >> 11) & 017 {
	case 002: // AND
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		cpu.A &= value

	case 003: // JSB
		if err := cpu.mp.CheckJSB(ma, indirect); err != nil {
			return err
		}
		if err := cpu.WriteWord(ma, cpu.P); err != nil {
			return err
		}
		cpu.P = (ma + 1) & VAMASK
		cpu.ionDefer = indirect

	case 004: // XOR
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		cpu.A ^= value

	case 005: // JMP
		if err := cpu.checkJump(ma); err != nil {
			return err
		}
		cpu.P = ma
		cpu.ionDefer = indirect

	case 006: // IOR
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		cpu.A |= value

	case 007: // ISZ
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		value++
		if err := cpu.WriteWord(ma, value); err != nil {
			return err
		}
		if value == 0 {
			cpu.Skip(1)
		}

	case 010: // ADA
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		cpu.A = cpu.add16(cpu.A, value)

	case 011: // ADB
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		cpu.B = cpu.add16(cpu.B, value)

	case 012: // CPA
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		if cpu.A != value {
			cpu.Skip(1)
		}

	case 013: // CPB
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		if cpu.B != value {
			cpu.Skip(1)
		}

	case 014: // LDA
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		cpu.A = value

	case 015: // LDB
		value, err := cpu.ReadWord(ma)
		if err != nil {
			return err
		}
		cpu.B = value

	case 016: // STA
		return cpu.WriteWord(ma, cpu.A)

	case 017: // STB
		return cpu.WriteWord(ma, cpu.B)
	}
	return nil
}

// Perform one shift-rotate micro operation. A disabled ERA or ELA still
// copies the edge bit into E.
func (cpu *CPU) shift(value uint16, enabled bool, op uint16) uint16 {
	op &= 07
	if !enabled {
		switch op {
		case 05:
			cpu.E = (value & 1) != 0
		case 06:
			cpu.E = (value & SIGN) != 0
		}
		return value
	}

	switch op {
	case 00: // ALS
		return (value & SIGN) | ((value << 1) & 077776)
	case 01: // ARS
		return (value & SIGN) | (value >> 1)
	case 02: // RAL
		return (value << 1) | (value >> 15)
	case 03: // RAR
		return (value >> 1) | (value << 15)
	case 04: // ALR
		return (value << 1) & 077776
	case 05: // ERA
		e := boolWord(cpu.E)
		cpu.E = (value & 1) != 0
		return (value >> 1) | (e << 15)
	case 06: // ELA
		e := boolWord(cpu.E)
		cpu.E = (value & SIGN) != 0
		return (value << 1) | e
	}
	// ALF
	return (value << 4) | (value >> 12)
}

// Shift-rotate group.
func (cpu *CPU) opSRG(ir uint16) {
	reg := cpu.abReg(ir)
	value := cpu.shift(*reg, (ir&001000) != 0, ir>>6)
	if (ir & 000040) != 0 { // CLE
		cpu.E = false
	}
	if (ir&000010) != 0 && (value&1) == 0 { // SLA
		cpu.Skip(1)
	}
	*reg = cpu.shift(value, (ir&000020) != 0, ir)
}

// Alter-skip group.
func (cpu *CPU) opASG(ir uint16) {
	reg := cpu.abReg(ir)
	skip := uint16(0)

	if (ir&000040) != 0 && !cpu.E { // SEZ
		skip = 1
	}
	switch (ir >> 8) & 03 {
	case 01: // CLA
		*reg = 0
	case 02: // CMA
		*reg = ^*reg
	case 03: // CCA
		*reg = DMASK
	}
	switch (ir >> 6) & 03 {
	case 01: // CLE
		cpu.E = false
	case 02: // CME
		cpu.E = !cpu.E
	case 03: // CCE
		cpu.E = true
	}
	if (ir&000020) != 0 && (*reg&SIGN) == 0 { // SSA
		skip = 1
	}
	if (ir&000010) != 0 && (*reg&1) == 0 { // SLA
		skip = 1
	}
	if (ir & 000004) != 0 { // INA
		*reg++
		if *reg == 0 {
			cpu.E = true
		}
		if *reg == SIGN {
			cpu.O = true
		}
	}
	if (ir&000002) != 0 && *reg == 0 { // SZA
		skip = 1
	}
	if (ir & 000001) != 0 { // RSS
		skip ^= 1
	}
	cpu.Skip(skip)
}
