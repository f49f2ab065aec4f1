/*
 * HP2100 - Operator console commands
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
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rcornwell/HP2100/command/command"
	"github.com/rcornwell/HP2100/emu/cpu"
	"github.com/rcornwell/HP2100/util/octal"
)

var cmdList = []cmd{
	{Name: "examine", Min: 1, Process: examine},
	{Name: "deposit", Min: 1, Process: deposit},
	{Name: "set", Min: 2, Process: set, Complete: setComplete},
	{Name: "show", Min: 2, Process: show, Complete: showComplete},
	{Name: "go", Min: 1, Process: start},
	{Name: "step", Min: 3, Process: step},
	{Name: "stop", Min: 3, Process: stop},
	{Name: "reset", Min: 3, Process: reset},
	{Name: "quit", Min: 1, Process: quit},
}

// Time to wait for a step to finish.
const stepWait = 2 * time.Second

// Handle commands that quit simulation.
func quit(line *cmdLine, _ command.Machine) (bool, error) {
	slog.Debug("Command Quit")
	return true, line.checkEOL()
}

// Stop the CPU.
func stop(line *cmdLine, machine command.Machine) (bool, error) {
	slog.Debug("Command Stop")
	if err := line.checkEOL(); err != nil {
		return false, err
	}
	machine.SendStop()
	return false, nil
}

// Start the CPU, at address if given.
func start(line *cmdLine, machine command.Machine) (bool, error) {
	slog.Debug("Command Go")
	addr := uint32(0)
	setP := false
	if !line.isEOL() {
		var err error
		addr, err = line.getOctal(15, 0)
		if err != nil {
			return false, err
		}
		setP = true
	}
	if err := line.checkEOL(); err != nil {
		return false, err
	}
	if machine.Running() {
		return false, errors.New("CPU already running")
	}
	machine.SendStart(uint16(addr), setP)
	return false, nil
}

// Execute instructions and show registers.
func step(line *cmdLine, machine command.Machine) (bool, error) {
	slog.Debug("Command Step")
	count := 1
	if !line.isEOL() {
		var err error
		count, err = line.getNumber()
		if err != nil {
			return false, err
		}
		if count == 0 {
			return false, errors.New("step count must be greater than zero")
		}
	}
	if err := line.checkEOL(); err != nil {
		return false, err
	}
	if machine.Running() {
		return false, errors.New("CPU running")
	}

	// Discard stop left from an earlier run.
	select {
	case <-machine.Halted():
	default:
	}
	machine.SendStep(count)

	var stopErr error
	select {
	case stopErr = <-machine.Halted():
	case <-time.After(stepWait):
		machine.SendStop()
		return false, errors.New("step did not finish")
	}
	if stopErr != nil {
		line.out.WriteString(stopErr.Error() + "\n")
	}
	machine.Do(func(c *cpu.CPU) {
		showCPU(line.out, c)
	})
	return false, nil
}

// Preset the machine.
func reset(line *cmdLine, machine command.Machine) (bool, error) {
	slog.Debug("Command Reset")
	if err := line.checkEOL(); err != nil {
		return false, err
	}
	if machine.Running() {
		return false, errors.New("CPU running")
	}
	var err error
	machine.Do(func(c *cpu.CPU) {
		err = c.Reset()
	})
	return false, err
}

// Set a register.
func set(line *cmdLine, machine command.Machine) (bool, error) {
	slog.Debug("Command Set")
	name := line.getWord()
	if name == "" {
		return false, errors.New("set requires a register name")
	}
	value, err := line.getOctal(16, 0)
	if err != nil {
		return false, err
	}
	if err := line.checkEOL(); err != nil {
		return false, err
	}
	machine.Do(func(c *cpu.CPU) {
		err = c.SetRegister(name, uint16(value))
	})
	return false, err
}

// Register name completion.
func setComplete(line *cmdLine) []string {
	names := make([]string, len(cpu.RegisterNames))
	for i, name := range cpu.RegisterNames {
		names[i] = strings.ToLower(name)
	}
	return line.completeWord(names)
}

// Show state of a unit.
func show(line *cmdLine, machine command.Machine) (bool, error) {
	slog.Debug("Command Show")
	unit := line.getWord()
	if unit == "" {
		unit = "cpu"
	}
	if err := line.checkEOL(); err != nil {
		return false, err
	}

	var err error
	machine.Do(func(c *cpu.CPU) {
		switch unit {
		case "cpu":
			showCPU(line.out, c)
		case "meu":
			fmt.Fprintf(line.out, "MEU %s status=%s violation=%s\n", onOff(c.MEUEnabled()),
				octal.Word(c.MEUStatus()), octal.Word(c.MEUViolation()))
		case "mp":
			fmt.Fprintf(line.out, "MP %s fence=%s violation=%s\n", onOff(c.MPEnabled()),
				octal.Word(c.MPFence()), octal.Word(c.MPViolation()))
		case "dma":
			err = showDMA(line.out, c)
		default:
			err = errors.New("show unit must be one of: " + strings.Join(command.ShowUnits, " "))
		}
	})
	return false, err
}

// Unit name completion.
func showComplete(line *cmdLine) []string {
	return line.completeWord(command.ShowUnits)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// Print registers.
func showCPU(out *strings.Builder, c *cpu.CPU) {
	cfg := c.Config()
	fmt.Fprintf(out, "%s %dK %s\n", cfg.Model, cfg.MemSize, cfg.Options)
	for i, name := range cpu.RegisterNames {
		value, _ := c.GetRegister(name)
		if i != 0 {
			out.WriteByte(' ')
		}
		out.WriteString(name + "=" + octal.Word(value))
	}
	out.WriteString(" ION=" + onOff(c.InterruptsOn()) + "\n")
}

// Print DMA channel registers.
func showDMA(out *strings.Builder, c *cpu.CPU) error {
	ctl := c.DMA()
	if ctl == nil {
		return errors.New("DMA not installed")
	}
	for n := 1; n <= 2; n++ {
		st, err := ctl.Status(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "DMA %d CW1=%s CW2=%s CW3=%s transfer=%s\n", n,
			octal.Word(st.CW1), octal.Word(st.CW2), octal.Word(st.CW3), onOff(st.Transfer))
	}
	return nil
}
