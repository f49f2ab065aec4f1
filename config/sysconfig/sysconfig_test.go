/*
 * HP2100 - Machine configuration test set
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
	"strings"
	"testing"

	config "github.com/rcornwell/HP2100/config/configparser"
	"github.com/rcornwell/HP2100/emu/cpu"
	"github.com/rcornwell/HP2100/emu/iobus"
	"github.com/rcornwell/HP2100/emu/protect"
)

func load(t *testing.T, input string) error {
	t.Helper()
	Reset()
	return config.LoadConfig(strings.NewReader(input))
}

func TestConfigLines(t *testing.T) {
	input := "# 2100 with IOP\n" +
		"CPU 2100 EAU,FP IOP MP DMA\n" +
		"MEMORY 32K\n" +
		"MP IO JSB\n" +
		"INDIRECT 8\n" +
		"UNIMPL NOP\n"
	if err := load(t, input); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg := Config()
	if cfg.Model != cpu.Model2100 {
		t.Errorf("Model not correct got: %s expected: %s", cfg.Model, cpu.Model2100)
	}
	expect := cpu.OptEAU | cpu.OptFP | cpu.OptIOP | cpu.OptMP | cpu.OptDMA
	if cfg.Options != expect {
		t.Errorf("Options not correct got: %s expected: %s", cfg.Options, expect)
	}
	if cfg.MemSize != 32 || cfg.IndirectMax != 8 || cfg.Unimplemented != cpu.PolicyNOP {
		t.Errorf("Config not correct got: %dK %d %d", cfg.MemSize, cfg.IndirectMax, cfg.Unimplemented)
	}
	if cfg.Jumpers != protect.JumperIO|protect.JumperJSB {
		t.Errorf("Jumpers not correct got: %d", cfg.Jumpers)
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Model", "CPU 9999\n"},
		{"Option", "CPU 1000E EAU BOGUS\n"},
		{"Memory", "MEMORY lots\n"},
		{"Jumper", "MP XYZ\n"},
		{"Policy", "UNIMPL MAYBE\n"},
		{"Indirect", "INDIRECT many\n"},
		{"TBG twice", "TBG 13\nTBG 14\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := load(t, test.input); err == nil {
				t.Errorf("Bad line accepted: %q", test.input)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	if err := load(t, "TBG 13\n"); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	c, clock, err := Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if clock == nil || clock.SC != 013 {
		t.Fatalf("Time base generator not created")
	}
	if _, err := c.Bus().GetDevice(013); err != nil {
		t.Errorf("Time base generator not on bus: %v", err)
	}
	if _, err := c.Bus().GetDevice(iobus.SCProtect); err != nil {
		t.Errorf("Memory protect not on bus: %v", err)
	}

	// 64K without DMS is rejected when built.
	if err := load(t, "CPU 2100 EAU\nMEMORY 64\n"); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if _, _, err := Build(); err == nil {
		t.Errorf("Build accepted 64K without DMS")
	}
}
