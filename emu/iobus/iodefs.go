/*
 * HP2100 - I/O backplane definitions
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

package iobus

import (
	"errors"
	"strings"
)

// Signal set sent to an interface card.
type Signal uint16

// Signals are processed by the cards in bit order. DMA cycles rely on
// data moving before control is changed.
const (
	SigPOPIO Signal = 1 << iota // Power on preset.
	SigCRS                      // Control reset.
	SigIAK                      // Interrupt acknowledge.
	SigSFC                      // Skip if flag clear.
	SigSFS                      // Skip if flag set.
	SigIOI                      // Data in.
	SigIOO                      // Data out.
	SigSTF                      // Set flag.
	SigCLF                      // Clear flag.
	SigSTC                      // Set control.
	SigEDT                      // End of data transfer.
	SigCLC                      // Clear control.
)

const SigNone Signal = 0

const (
	MaxSC   uint8 = 077 // Largest select code.
	SCMask  uint8 = 077 // Select code mask.
	FirstIO uint8 = 010 // First select code for interface cards.

	SCInterrupt uint8 = 000 // Interrupt system.
	SCOverflow  uint8 = 001 // Switch register and overflow.
	SCDMA1Sel   uint8 = 002 // DMA channel 1 register select.
	SCDMA2Sel   uint8 = 003 // DMA channel 2 register select.
	SCPower     uint8 = 004 // Power fail.
	SCProtect   uint8 = 005 // Memory protect.
	SCDMA1      uint8 = 006 // DMA channel 1 control.
	SCDMA2      uint8 = 007 // DMA channel 2 control.
)

var signalNames = [...]string{
	"POPIO", "CRS", "IAK", "SFC", "SFS", "IOI", "IOO",
	"STF", "CLF", "STC", "EDT", "CLC",
}

// Return and remove lowest signal in set.
func (s *Signal) Next() Signal {
	sig := *s & -*s
	*s &^= sig
	return sig
}

func (s Signal) String() string {
	names := []string{}
	for i, name := range signalNames {
		if s&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "+")
}

// Device attached to the backplane.
type Device interface {
	// Handle set of signals, return input data and skip.
	IOSignal(sc uint8, sig Signal, data uint16) (uint16, bool, error)
}

// Device is busy, try the cycle again later.
var ErrNotReady = errors.New("device not ready")

// Standard flip-flops for one select code.
type Latch struct {
	Control    bool // Control flip-flop.
	Flag       bool // Flag flip-flop.
	FlagBuffer bool // Flag buffer flip-flop.
	SRQ        bool // Service request.
}

const (
	debugSignal = 1 << iota
	debugIRQ
)

var debugOption = map[string]int{
	"SIGNAL": debugSignal,
	"IRQ":    debugIRQ,
}

var debugMsk int

// Enable debug options.
func Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("bus debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
