/*
 * HP2100 - Machine configuration lines
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

package sysconfig

import (
	"errors"
	"strconv"
	"strings"

	config "github.com/rcornwell/HP2100/config/configparser"
	"github.com/rcornwell/HP2100/emu/cpu"
	"github.com/rcornwell/HP2100/emu/protect"
	"github.com/rcornwell/HP2100/emu/tbg"
)

/*
   Configuration lines:

      CPU <model> [EAU] [FP] [IOP] [DMS] [EIG] [OS] [MP] [DMA]
      MEMORY <n>[K]
      MP IO|JSB|NONE [IO] [JSB]
      INDIRECT <n>
      UNIMPL STOP|NOP
      TBG <sc>

   A CPU line replaces the default option set. Lines are collected and
   the machine is built by Build once the whole file has been read.
*/

var (
	machine = cpu.DefaultConfig()
	tbgSC   uint8
)

// register configuration lines on initialize.
func init() {
	config.RegisterModel("CPU", config.TypeOptions, setCPU)
	config.RegisterOption("MEMORY", setMemory)
	config.RegisterModel("MP", config.TypeOptions, setJumpers)
	config.RegisterOption("INDIRECT", setIndirect)
	config.RegisterOption("UNIMPL", setPolicy)
	config.RegisterModel("TBG", config.TypeModel, setTBG)
}

// Return to default configuration.
func Reset() {
	machine = cpu.DefaultConfig()
	tbgSC = 0
}

// Return configuration collected so far.
func Config() cpu.Config {
	return machine
}

// Create machine and devices from configuration.
func Build() (*cpu.CPU, *tbg.TBG, error) {
	c, err := cpu.New(machine)
	if err != nil {
		return nil, nil, err
	}
	if tbgSC == 0 {
		return c, nil, nil
	}
	clock, err := tbg.New(c.Bus(), tbgSC)
	if err != nil {
		return nil, nil, err
	}
	return c, clock, nil
}

// Collect option names including comma lists.
func optionNames(options []config.Option) []string {
	names := []string{}
	for _, opt := range options {
		names = append(names, strings.ToUpper(opt.Name))
		for _, value := range opt.Value {
			names = append(names, strings.ToUpper(*value))
		}
	}
	return names
}

func setCPU(_ uint16, model string, options []config.Option) error {
	m, err := cpu.ParseModel(model)
	if err != nil {
		return err
	}
	opts := cpu.Options(0)
	for _, name := range optionNames(options) {
		opt, err := cpu.ParseOption(name)
		if err != nil {
			return err
		}
		opts |= opt
	}
	machine.Model = m
	machine.Options = opts
	return nil
}

func setMemory(_ uint16, value string, _ []config.Option) error {
	value = strings.TrimSuffix(strings.ToUpper(value), "K")
	size, err := strconv.Atoi(value)
	if err != nil {
		return errors.New("memory size must be a number: " + value)
	}
	machine.MemSize = size
	return nil
}

func setJumpers(_ uint16, first string, options []config.Option) error {
	jumpers := protect.Jumpers(0)
	for _, name := range append([]string{strings.ToUpper(first)}, optionNames(options)...) {
		switch name {
		case "IO":
			jumpers |= protect.JumperIO
		case "JSB":
			jumpers |= protect.JumperJSB
		case "NONE":
		default:
			return errors.New("unknown memory protect jumper: " + name)
		}
	}
	machine.Jumpers = jumpers
	return nil
}

func setIndirect(_ uint16, value string, _ []config.Option) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return errors.New("indirect limit must be a number: " + value)
	}
	machine.IndirectMax = n
	return nil
}

func setPolicy(_ uint16, value string, _ []config.Option) error {
	switch strings.ToUpper(value) {
	case "STOP":
		machine.Unimplemented = cpu.PolicyStop
	case "NOP":
		machine.Unimplemented = cpu.PolicyNOP
	default:
		return errors.New("unimplemented policy must be STOP or NOP: " + value)
	}
	return nil
}

func setTBG(sc uint16, _ string, _ []config.Option) error {
	if tbgSC != 0 {
		return errors.New("only one time base generator allowed")
	}
	tbgSC = uint8(sc)
	return nil
}
