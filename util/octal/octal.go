/*
 * HP2100 - Convert octal values to strings
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

package octal

import (
	"errors"
	"strconv"
	"strings"
)

var digits = "01234567"

// Append words as six digit octal, separated by spaces.
func FormatWord(str *strings.Builder, space bool, word ...uint16) {
	for i, w := range word {
		if space && i != 0 {
			str.WriteByte(' ')
		}
		str.WriteByte(digits[(w>>15)&1])
		shift := 12
		for range 5 {
			str.WriteByte(digits[(w>>shift)&7])
			shift -= 3
		}
	}
}

// Append physical address as seven digit octal.
func FormatAddr(str *strings.Builder, addr uint32) {
	shift := 18
	for range 7 {
		str.WriteByte(digits[(addr>>shift)&7])
		shift -= 3
	}
}

// Append byte as three digit octal.
func FormatByte(str *strings.Builder, by byte) {
	str.WriteByte(digits[(by>>6)&3])
	str.WriteByte(digits[(by>>3)&7])
	str.WriteByte(digits[by&7])
}

// Return word as six digit octal string.
func Word(w uint16) string {
	var str strings.Builder
	FormatWord(&str, false, w)
	return str.String()
}

// Parse octal number, at most bits wide. A trailing B is accepted.
func Parse(value string, bits int) (uint32, error) {
	value = strings.TrimSuffix(strings.ToUpper(value), "B")
	if value == "" {
		return 0, errors.New("missing octal number")
	}
	v, err := strconv.ParseUint(value, 8, bits)
	if err != nil {
		return 0, errors.New("invalid octal number: " + value)
	}
	return uint32(v), nil
}
