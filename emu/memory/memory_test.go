/*
 * HP2100 - Physical memory test
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

package memory

import (
	"testing"
)

// Set size in K.
func TestSetSize(t *testing.T) {
	memory := New(0)
	for i := range 1100 {
		memory.SetSize(i)
		r := memory.GetSize()
		if i > 1024 {
			if r != 1024*1024 {
				t.Errorf("GetSize size not correct got: %d expected: %d", r, 1024*1024)
			}
		} else if r != uint32(i*1024) {
			t.Errorf("GetSize size not correct got: %d expected: %d", r, i*1024)
		}
	}
}

// Check get memory.
func TestGetMemory(t *testing.T) {
	memory := New(2)
	for i := range uint32(4096) {
		memory.mem[i] = uint16(i)
	}
	for i := range uint32(4096) {
		r := memory.GetMemory(i)
		if r != uint16(i) {
			t.Errorf("GetMemory not correct got: %o expected: %o", r, i)
		}
	}
}

// Check get word.
func TestGetWord(t *testing.T) {
	memory := New(2)
	for i := range uint32(4096) {
		memory.mem[i] = uint16(i)
	}
	for i := range uint32(4096) {
		r, err := memory.GetWord(i)
		if i >= 2048 {
			if !err {
				t.Errorf("GetWord did not return error for: %o", i)
			}
			if r != 0 {
				t.Errorf("GetWord out of range not zero got: %o", r)
			}
			continue
		}
		if err {
			t.Errorf("GetWord returned error for: %o", i)
		}
		if r != uint16(i) {
			t.Errorf("GetWord not correct got: %o expected: %o", r, i)
		}
	}
}

// Check put word.
func TestPutWord(t *testing.T) {
	memory := New(2)
	for i := range uint32(4096) {
		err := memory.PutWord(i, uint16(^i))
		if (i >= 2048) != err {
			t.Errorf("PutWord error not correct for: %o got: %v", i, err)
		}
	}
	for i := range uint32(4096) {
		r := memory.GetMemory(i)
		if i >= 2048 {
			if r != 0 {
				t.Errorf("PutWord wrote out of range at: %o got: %o", i, r)
			}
			continue
		}
		if r != uint16(^i) {
			t.Errorf("PutWord not correct got: %o expected: %o", r, uint16(^i))
		}
	}
}

// Set memory ignores the configured size.
func TestSetMemory(t *testing.T) {
	memory := New(1)
	memory.SetMemory(0177777, 012345)
	if memory.GetMemory(0177777) != 012345 {
		t.Errorf("SetMemory not correct got: %o expected: %o", memory.GetMemory(0177777), 012345)
	}
	if memory.CheckAddr(0177777) {
		t.Errorf("CheckAddr returned true for address outside memory")
	}
	memory.Clear()
	if memory.GetMemory(0177777) != 0 {
		t.Errorf("Clear did not clear memory")
	}
}
