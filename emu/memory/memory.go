/*
 * HP2100 - Physical memory
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

// Memory is the physical store. It is always sized for the largest
// configuration, the configured size is a prefix of it.
type Memory struct {
	mem  [MaxSize]uint16
	size uint32
}

const (
	MaxSize uint32 = 1024 * 1024 // Largest memory in words.
	PAMASK  uint32 = MaxSize - 1 // Physical address mask.
	DMASK   uint16 = 0xffff      // Data mask.
)

// Create new memory of k K words.
func New(k int) *Memory {
	memory := &Memory{}
	memory.SetSize(k)
	return memory
}

// Set size in K words.
func (memory *Memory) SetSize(k int) {
	if k < 0 {
		k = 0
	}
	if k > int(MaxSize/1024) {
		k = int(MaxSize / 1024)
	}
	memory.size = uint32(k * 1024)
}

// Return size of memory in words.
func (memory *Memory) GetSize() uint32 {
	return memory.size
}

// Get memory value without range check.
func (memory *Memory) GetMemory(addr uint32) uint16 {
	return memory.mem[addr&PAMASK]
}

// Set memory to a value, without range check.
func (memory *Memory) SetMemory(addr uint32, data uint16) {
	memory.mem[addr&PAMASK] = data
}

// Check if address is in range.
func (memory *Memory) CheckAddr(addr uint32) bool {
	return addr < memory.size
}

// Get a word from memory. Nonexistent memory reads as zero.
func (memory *Memory) GetWord(addr uint32) (value uint16, error bool) {
	if addr >= memory.size {
		return 0, true
	}
	return memory.mem[addr], false
}

// Put a word to memory. Writes to nonexistent memory are lost.
func (memory *Memory) PutWord(addr uint32, data uint16) bool {
	if addr >= memory.size {
		return true
	}
	memory.mem[addr] = data
	return false
}

// Clear all of memory.
func (memory *Memory) Clear() {
	clear(memory.mem[:])
}
