/*
 * mipsevm - Debug REPL parser test cases
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
	"encoding/binary"
	"testing"

	"github.com/rcornwell/mipsevm/emu/core"
	"github.com/rcornwell/mipsevm/emu/mips"
	"github.com/rcornwell/mipsevm/emu/state"
)

type stubOracle struct{}

func (stubOracle) Hint(data []byte) error                { return nil }
func (stubOracle) Preimage(key [32]byte) ([]byte, error) { return nil, nil }

func newTestCore(t *testing.T) *core.Core {
	t.Helper()
	s := state.New()
	s.NextPC = s.PC + 4
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], 0x20010001) // addi $1, $0, 1
	s.Memory.SetMemoryRange(0, b[:])
	s.Memory.SetMemoryRange(4, b[:])
	ip := mips.New(s, stubOracle{})
	c := core.New(ip)
	c.Start()
	t.Cleanup(c.Stop)
	return c
}

func TestProcessCommandStep(t *testing.T) {
	c := newTestCore(t)
	quit, err := ProcessCommand("step", c)
	if err != nil {
		t.Fatalf("ProcessCommand: %v", err)
	}
	if quit {
		t.Error("step should not request quit")
	}
	if c.State().PC != 4 {
		t.Errorf("PC = %d, want 4", c.State().PC)
	}
}

func TestProcessCommandQuit(t *testing.T) {
	c := newTestCore(t)
	quit, err := ProcessCommand("quit", c)
	if err != nil {
		t.Fatalf("ProcessCommand: %v", err)
	}
	if !quit {
		t.Error("quit should request REPL exit")
	}
}

func TestProcessCommandUnknown(t *testing.T) {
	c := newTestCore(t)
	if _, err := ProcessCommand("frobnicate", c); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestProcessCommandReg(t *testing.T) {
	c := newTestCore(t)
	if _, err := ProcessCommand("reg", c); err != nil {
		t.Fatalf("ProcessCommand reg: %v", err)
	}
}

func TestCompleteCmdTooShortIsAmbiguous(t *testing.T) {
	// "st" is a prefix of both step and stop, but neither reaches its
	// minimum unique-match length yet.
	matches := CompleteCmd("st")
	if len(matches) != 0 {
		t.Errorf("CompleteCmd(\"st\") = %v, want none (still ambiguous)", matches)
	}
}

func TestCompleteCmdReachingMinimumDisambiguates(t *testing.T) {
	matches := CompleteCmd("ste")
	if len(matches) != 1 || matches[0] != "step" {
		t.Errorf("CompleteCmd(\"ste\") = %v, want [step]", matches)
	}
}

func TestMatchListRequiresMinimumPrefix(t *testing.T) {
	// "r" is a prefix of run, reg, and root, all of which require at
	// least two characters to disambiguate.
	if matches := matchList("r"); len(matches) != 0 {
		t.Errorf("matchList(\"r\") = %v, want none (below minimum)", matches)
	}
	if matches := matchList("re"); len(matches) != 1 || matches[0].name != "reg" {
		t.Errorf("matchList(\"re\") = %v, want [reg]", matches)
	}
}
