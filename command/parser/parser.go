/*
 * HP2100 - Operator console command parser
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
	"strings"
	"unicode"

	"github.com/rcornwell/HP2100/command/command"
	"github.com/rcornwell/HP2100/util/octal"
)

type cmd struct {
	Name     string // Command name.
	Min      int    // Minimum match size.
	Process  func(*cmdLine, command.Machine) (bool, error)
	Complete func(*cmdLine) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
	out  *strings.Builder
}

// Execute the command line given, returns output and true to quit.
func ProcessCommand(commandLine string, machine command.Machine) (string, bool, error) {
	var out strings.Builder
	line := cmdLine{line: commandLine, out: &out}
	name := line.getWord()
	if name == "" {
		if !line.isEOL() {
			return "", false, errors.New("invalid command: " + strings.TrimSpace(commandLine))
		}
		return "", false, nil
	}

	match := matchList(name)
	if len(match) == 0 {
		return "", false, errors.New("command not found: " + name)
	}

	if len(match) > 1 {
		return "", false, errors.New("unique command not found: " + name)
	}

	quit, err := match[0].Process(&line, machine)
	return out.String(), quit, err
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, name string) bool {
	if len(name) > len(match.Name) || len(name) < match.Min {
		return false
	}
	return strings.HasPrefix(match.Name, name)
}

// Check if command matches one of the commands.
func matchList(name string) []cmd {
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			match = append(match, m)
		}
	}
	return match
}

// Skip forward over line until none whitespace character found.
func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *cmdLine) isEOL() bool {
	line.skipSpace()
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// Return current character and advance to next.
func (line *cmdLine) getCurrent() byte {
	if line.pos >= len(line.line) || line.line[line.pos] == '#' {
		return 0
	}
	by := line.line[line.pos]
	line.pos++
	return by
}

// Peek at current character.
func (line *cmdLine) peek() byte {
	if line.pos >= len(line.line) {
		return 0
	}
	return line.line[line.pos]
}

// Return next word of letters, lower case. Empty if not a word.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	pos := line.pos
	value := ""
	for {
		by := line.peek()
		if by == 0 || unicode.IsSpace(rune(by)) {
			break
		}
		if !unicode.IsLetter(rune(by)) {
			line.pos = pos
			return ""
		}
		value += string(by)
		line.pos++
	}
	return strings.ToLower(value)
}

// Return next token up to space or stop character.
func (line *cmdLine) getToken(stop byte) string {
	line.skipSpace()
	value := ""
	for {
		by := line.peek()
		if by == 0 || by == stop || by == '#' || unicode.IsSpace(rune(by)) {
			break
		}
		value += string(by)
		line.pos++
	}
	return value
}

// Parse octal number at most bits wide.
func (line *cmdLine) getOctal(bits int, stop byte) (uint32, error) {
	if line.isEOL() {
		return 0, errors.New("missing octal number")
	}
	return octal.Parse(line.getToken(stop), bits)
}

// Parse decimal number.
func (line *cmdLine) getNumber() (int, error) {
	if line.isEOL() {
		return 0, errors.New("not a number")
	}
	value := 0
	token := line.getToken(0)
	for _, by := range token {
		if !unicode.IsDigit(by) {
			return 0, errors.New("not a number: " + token)
		}
		value = (value * 10) + int(by-'0')
	}
	return value, nil
}

// Collect single letter switches, -p -s or -ps.
func (line *cmdLine) getSwitches(valid string) (string, error) {
	switches := ""
	for !line.isEOL() && line.peek() == '-' {
		line.pos++
		for {
			by := line.peek()
			if by == 0 || unicode.IsSpace(rune(by)) {
				break
			}
			by = byte(unicode.ToLower(rune(by)))
			if !strings.ContainsRune(valid, rune(by)) {
				return "", errors.New("invalid switch: -" + string(by))
			}
			switches += string(by)
			line.pos++
		}
	}
	return switches, nil
}

// Error if anything left on line.
func (line *cmdLine) checkEOL() error {
	if !line.isEOL() {
		return errors.New("extra text on line: " + line.line[line.pos:])
	}
	return nil
}
