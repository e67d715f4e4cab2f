/*
 * mipsevm - Disassembler test cases
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

package disassembler

import (
	"strings"
	"testing"
)

func TestDisassembleRType(t *testing.T) {
	// add $3, $1, $2
	got := Disassemble(0x00221820, 0)
	if !strings.HasPrefix(got, "add") || !strings.Contains(got, "$3") {
		t.Errorf("Disassemble add = %q", got)
	}
}

func TestDisassembleImmediate(t *testing.T) {
	// addiu $1, $0, 42
	got := Disassemble(0x2401002a, 0)
	if !strings.HasPrefix(got, "addiu") || !strings.Contains(got, "42") {
		t.Errorf("Disassemble addiu = %q", got)
	}
}

func TestDisassembleLoadStore(t *testing.T) {
	// lw $2, 4($29)
	got := Disassemble(0x8fa20004, 0)
	if !strings.HasPrefix(got, "lw") || !strings.Contains(got, "4($29)") {
		t.Errorf("Disassemble lw = %q", got)
	}
}

func TestDisassembleJump(t *testing.T) {
	// j 0x1000
	got := Disassemble(0x08000400, 0)
	if !strings.HasPrefix(got, "j") || !strings.Contains(got, "00001000") {
		t.Errorf("Disassemble j = %q", got)
	}
}

func TestDisassembleSyscallNoOperands(t *testing.T) {
	got := Disassemble(0x0000000c, 0)
	if got != "syscall" {
		t.Errorf("Disassemble syscall = %q, want exactly \"syscall\"", got)
	}
}

func TestDisassembleUnknownFallsBackToHex(t *testing.T) {
	got := Disassemble(0xfc000000, 0)
	if !strings.HasPrefix(got, "word ") {
		t.Errorf("Disassemble unknown = %q, want hex fallback", got)
	}
}
