/*
 * HP2100 - Examine and deposit commands
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

package parser

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/rcornwell/HP2100/command/command"
	assembler "github.com/rcornwell/HP2100/emu/assemble"
	"github.com/rcornwell/HP2100/emu/cpu"
	"github.com/rcornwell/HP2100/emu/disassemble"
	"github.com/rcornwell/HP2100/util/octal"
)

// Largest number of words examine will show.
const maxExamine = 4096

type memoryOpts struct {
	physical  bool   // Physical address.
	symbolic  bool   // Show instructions.
	lowRange  uint32 // Lower start to display.
	highRange uint32 // Highest value to display.
}

// Collect switches and address range.
func (line *cmdLine) parseMemoryOptions(valid string, allowRange bool) (*memoryOpts, error) {
	switches, err := line.getSwitches(valid)
	if err != nil {
		return nil, err
	}
	options := &memoryOpts{
		physical: strings.ContainsRune(switches, 'p'),
		symbolic: strings.ContainsRune(switches, 's'),
	}
	if options.physical && options.symbolic {
		return nil, errors.New("symbolic access needs logical addresses")
	}

	bits := 15
	if options.physical {
		bits = 20
	}
	options.lowRange, err = line.getOctal(bits, '-')
	if err != nil {
		return nil, err
	}
	options.highRange = options.lowRange
	if allowRange && line.peek() == '-' {
		line.pos++
		options.highRange, err = line.getOctal(bits, 0)
		if err != nil {
			return nil, err
		}
		if options.highRange < options.lowRange {
			return nil, errors.New("address range is backwards")
		}
		if options.highRange-options.lowRange >= maxExamine {
			return nil, errors.New("address range too large")
		}
	}
	return options, nil
}

// Show memory.
func examine(line *cmdLine, machine command.Machine) (bool, error) {
	slog.Debug("Command Examine")
	options, err := line.parseMemoryOptions("ps", true)
	if err != nil {
		return false, err
	}
	if err := line.checkEOL(); err != nil {
		return false, err
	}

	machine.Do(func(c *cpu.CPU) {
		if options.physical && options.highRange >= c.MemorySize() {
			err = errors.New("address beyond end of memory")
			return
		}
		for addr := options.lowRange; addr <= options.highRange; addr++ {
			var value uint16
			if options.physical {
				value = c.ReadPhysical(addr)
				octal.FormatAddr(line.out, addr)
			} else {
				value = c.Examine(uint16(addr))
				octal.FormatWord(line.out, false, uint16(addr))
			}
			line.out.WriteString(": ")
			octal.FormatWord(line.out, false, value)
			if options.symbolic {
				line.out.WriteString("  " + disassemble.Disassemble(uint16(addr), value))
			}
			line.out.WriteByte('\n')
		}
	})
	return false, err
}

// Assemble instructions separated by ; starting at addr.
func (line *cmdLine) parseSymbolic(addr uint16) ([]uint16, error) {
	text := line.line[line.pos:]
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	line.pos = len(line.line)
	values := []uint16{}
	for _, inst := range strings.Split(text, ";") {
		if strings.TrimSpace(inst) == "" {
			continue
		}
		v, err := assembler.Assemble(addr, inst)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		addr = (addr + 1) & cpu.VAMASK
	}
	return values, nil
}

// Store values into memory.
func deposit(line *cmdLine, machine command.Machine) (bool, error) {
	slog.Debug("Command Deposit")
	options, err := line.parseMemoryOptions("ps", false)
	if err != nil {
		return false, err
	}

	var values []uint16
	if options.symbolic {
		values, err = line.parseSymbolic(uint16(options.lowRange))
		if err != nil {
			return false, err
		}
	}
	for !options.symbolic && !line.isEOL() {
		v, err := line.getOctal(16, 0)
		if err != nil {
			return false, err
		}
		values = append(values, uint16(v))
	}
	if len(values) == 0 {
		return false, errors.New("deposit requires a value")
	}

	machine.Do(func(c *cpu.CPU) {
		last := options.lowRange + uint32(len(values)) - 1
		if options.physical && last >= c.MemorySize() {
			err = errors.New("address beyond end of memory")
			return
		}
		for i, v := range values {
			addr := options.lowRange + uint32(i)
			if options.physical {
				c.WritePhysical(addr, v)
			} else {
				c.Deposit(uint16(addr), v)
			}
		}
	})
	return false, err
}
