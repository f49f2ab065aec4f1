/*
 * HP2100 - Debug option configuration
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

package debugconfig

import (
	"errors"
	"strings"

	config "github.com/rcornwell/HP2100/config/configparser"
	"github.com/rcornwell/HP2100/emu/cpu"
	"github.com/rcornwell/HP2100/emu/dma"
	"github.com/rcornwell/HP2100/emu/iobus"
	"github.com/rcornwell/HP2100/emu/tbg"
)

// Debug option setters for each unit.
var units = map[string]func(string) error{
	"CPU": cpu.Debug,
	"DMA": dma.Debug,
	"BUS": iobus.Debug,
	"TBG": tbg.Debug,
}

// register a device on initialize.
func init() {
	config.RegisterModel("DEBUG", config.TypeOptions, setDebug)
}

// Set debug options for a unit.
func setDebug(_ uint16, unit string, options []config.Option) error {
	fn, ok := units[strings.ToUpper(unit)]
	if !ok {
		return errors.New("debug option invalid: " + unit)
	}
	if len(options) == 0 {
		return errors.New("debug " + unit + " requires options")
	}

	for _, opt := range options {
		err := fn(strings.ToUpper(opt.Name))
		if err != nil {
			return err
		}
		for _, value := range opt.Value {
			err = fn(strings.ToUpper(*value))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
