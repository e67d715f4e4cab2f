/*
 * mipsevm - Debug REPL command parser
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

// Package parser tokenizes and dispatches debug REPL command lines
// against a running core.Core.
package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rcornwell/mipsevm/emu/core"
)

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *core.Core) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	fields []string
	pos    int
}

var cmdList = []cmd{
	{name: "step", min: 3, process: step},
	{name: "run", min: 2, process: run},
	{name: "stop", min: 3, process: stopCmd},
	{name: "reg", min: 2, process: reg},
	{name: "mem", min: 1, process: mem},
	{name: "break", min: 1, process: breakCmd},
	{name: "root", min: 2, process: root},
	{name: "proof", min: 1, process: proof},
	{name: "dis", min: 1, process: dis},
	{name: "quit", min: 1, process: quit},
}

// ProcessCommand tokenizes and dispatches a single command line against
// core. Returns true if the REPL should exit.
func ProcessCommand(commandLine string, c *core.Core) (bool, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return false, nil
	}
	line := &cmdLine{fields: fields}
	name := line.next()

	match := matchList(name)
	switch len(match) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return match[0].process(line, c)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

// CompleteCmd returns the set of command names matching the line typed
// so far, for the REPL's tab completion.
func CompleteCmd(commandLine string) []string {
	fields := strings.Fields(commandLine)
	name := ""
	if len(fields) > 0 {
		name = fields[0]
	}
	match := matchList(name)
	names := make([]string, len(match))
	for i, m := range match {
		names[i] = m.name
	}
	return names
}

// matchList returns every command whose name has name as a prefix of at
// least its minimum unique-match length.
func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, c := range cmdList {
		if len(name) > len(c.name) {
			continue
		}
		if !strings.HasPrefix(c.name, name) {
			continue
		}
		if len(name) < c.min {
			continue
		}
		out = append(out, c)
	}
	return out
}

// next consumes and returns the next field, or "" past the end.
func (l *cmdLine) next() string {
	if l.pos >= len(l.fields) {
		return ""
	}
	f := l.fields[l.pos]
	l.pos++
	return f
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.fields)
}

// nextUint32 parses the next field as a hex (0x-prefixed) or decimal
// uint32.
func (l *cmdLine) nextUint32() (uint32, error) {
	f := l.next()
	if f == "" {
		return 0, errors.New("expected a numeric argument")
	}
	base := 10
	if strings.HasPrefix(f, "0x") || strings.HasPrefix(f, "0X") {
		f = f[2:]
		base = 16
	}
	v, err := strconv.ParseUint(f, base, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// nextUint32Default parses the next field as in nextUint32, returning
// def if no field remains.
func (l *cmdLine) nextUint32Default(def uint32) (uint32, error) {
	if l.isEOL() {
		return def, nil
	}
	return l.nextUint32()
}
