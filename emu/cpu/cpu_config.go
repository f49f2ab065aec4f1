/*
 * HP2100 - CPU configuration
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
	"errors"
	"fmt"
	"strings"

	"github.com/rcornwell/HP2100/emu/protect"
)

// Model of machine being simulated.
type Model uint8

const (
	Model2116  Model = iota // 2116.
	Model2100               // 2100.
	Model1000M              // 1000 M-series.
	Model1000E              // 1000 E-series.
	Model1000F              // 1000 F-series.
)

var modelNames = map[Model]string{
	Model2116:  "2116",
	Model2100:  "2100",
	Model1000M: "1000-M",
	Model1000E: "1000-E",
	Model1000F: "1000-F",
}

func (m Model) String() string {
	name, ok := modelNames[m]
	if !ok {
		return "unknown"
	}
	return name
}

// Return true if model is a 1000 series machine.
func (m Model) Is1000() bool {
	return m >= Model1000M
}

// Return true for 1000 E and F series.
func (m Model) IsEF() bool {
	return m == Model1000E || m == Model1000F
}

// Convert model name to model.
func ParseModel(name string) (Model, error) {
	name = strings.ToUpper(name)
	switch name {
	case "2116":
		return Model2116, nil
	case "2100":
		return Model2100, nil
	case "1000M", "1000-M", "M":
		return Model1000M, nil
	case "1000E", "1000-E", "E":
		return Model1000E, nil
	case "1000F", "1000-F", "F":
		return Model1000F, nil
	}
	return 0, errors.New("unknown CPU model: " + name)
}

// Installed options.
type Options uint16

const (
	OptEAU Options = 1 << iota // Extended arithmetic.
	OptFP                      // Floating point.
	OptIOP                     // I/O processor.
	OptDMS                     // Dynamic mapping system, the MEU.
	OptEIG                     // Extended instruction group.
	OptOS                      // RTE-6/VM operating system firmware.
	OptMP                      // Memory protect.
	OptDMA                     // DMA channels.
)

var optionNames = []struct {
	name string
	opt  Options
}{
	{"EAU", OptEAU},
	{"FP", OptFP},
	{"IOP", OptIOP},
	{"DMS", OptDMS},
	{"EIG", OptEIG},
	{"OS", OptOS},
	{"MP", OptMP},
	{"DMA", OptDMA},
}

// Convert option name to option bit.
func ParseOption(name string) (Options, error) {
	name = strings.ToUpper(name)
	for _, o := range optionNames {
		if o.name == name {
			return o.opt, nil
		}
	}
	return 0, errors.New("unknown CPU option: " + name)
}

func (o Options) String() string {
	names := []string{}
	for _, n := range optionNames {
		if (o & n.opt) != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// Config of machine.
type Config struct {
	Model         Model           // CPU model.
	Options       Options         // Installed options.
	MemSize       int             // Memory size in K words.
	Jumpers       protect.Jumpers // Memory protect jumpers.
	Unimplemented Policy          // What to do with unimplemented instructions.
	IndirectMax   int             // Longest indirect chain.
}

const defaultIndirect = 16

// Default configuration, a 1000-E with common options.
func DefaultConfig() Config {
	return Config{
		Model:         Model1000E,
		Options:       OptEAU | OptFP | OptIOP | OptDMS | OptEIG | OptMP | OptDMA,
		MemSize:       128,
		Unimplemented: PolicyStop,
		IndirectMax:   defaultIndirect,
	}
}

// Return true if option installed.
func (cfg *Config) Has(opt Options) bool {
	return (cfg.Options & opt) == opt
}

// Check for impossible combinations.
func (cfg *Config) Validate() error {
	if _, ok := modelNames[cfg.Model]; !ok {
		return fmt.Errorf("invalid CPU model %d", cfg.Model)
	}
	if cfg.MemSize < 4 || cfg.MemSize > 1024 || (cfg.MemSize%4) != 0 {
		return fmt.Errorf("invalid memory size %dK", cfg.MemSize)
	}
	if cfg.MemSize > 32 && !cfg.Has(OptDMS) {
		return fmt.Errorf("memory size %dK requires DMS", cfg.MemSize)
	}
	if cfg.IndirectMax < 4 {
		return fmt.Errorf("indirect limit %d too small", cfg.IndirectMax)
	}
	if !cfg.Model.Is1000() {
		if cfg.Has(OptDMS) || cfg.Has(OptEIG) || cfg.Has(OptOS) {
			return fmt.Errorf("%s does not support DMS, EIG or OS", cfg.Model)
		}
	} else if !cfg.Has(OptEAU) {
		return fmt.Errorf("%s requires EAU", cfg.Model)
	}
	if cfg.Model == Model2116 && (cfg.Has(OptFP) || cfg.Has(OptIOP)) {
		return errors.New("2116 does not support FP or IOP")
	}
	if cfg.Model == Model1000F && cfg.Has(OptIOP) {
		return errors.New("1000-F does not support IOP")
	}
	if cfg.Has(OptOS) && !cfg.Has(OptDMS) {
		return errors.New("OS firmware requires DMS")
	}
	if cfg.Unimplemented != PolicyStop && cfg.Unimplemented != PolicyNOP {
		return fmt.Errorf("invalid unimplemented policy %d", cfg.Unimplemented)
	}
	return nil
}
