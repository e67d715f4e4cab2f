/*
 * mipsevm - Interpreter test cases
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

package mips

import (
	"errors"
	"testing"

	"github.com/rcornwell/mipsevm/emu/state"
)

// stubOracle answers every preimage with a fixed payload and records
// every hint it receives, for tests that exercise the syscall surface.
type stubOracle struct {
	hints     [][]byte
	preimages map[[32]byte][]byte
}

func (o *stubOracle) Hint(data []byte) error {
	o.hints = append(o.hints, append([]byte(nil), data...))
	return nil
}

func (o *stubOracle) Preimage(key [32]byte) ([]byte, error) {
	if data, ok := o.preimages[key]; ok {
		return data, nil
	}
	return nil, errors.New("mips: no such preimage")
}

// asmR assembles an R-type instruction word.
func asmR(opcode, rs, rt, rd, shamt, funct uint32) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | rd<<11 | shamt<<6 | funct
}

func asmI(opcode, rs, rt uint32, imm uint16) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | uint32(imm)
}

func asmJ(opcode, target uint32) uint32 {
	return opcode<<26 | (target>>2)&0x03FFFFFF
}

func newTestInterp() (*Interpreter, *state.State) {
	s := state.New()
	s.NextPC = s.PC + 4
	return New(s, &stubOracle{preimages: map[[32]byte][]byte{}}), s
}

func TestArithmeticAndLogic(t *testing.T) {
	ip, s := newTestInterp()
	s.SetRegister(8, 5)
	s.SetRegister(9, 3)
	// add $10, $8, $9
	_ = s.Memory.SetMemory(0, asmR(opcSpecial, 8, 9, 10, 0, fnAdd))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := s.GetRegister(10); got != 8 {
		t.Errorf("add result = %d, want 8", got)
	}
	if s.PC != 4 || s.NextPC != 8 {
		t.Errorf("PC/NextPC = %#x/%#x, want 0x4/0x8", s.PC, s.NextPC)
	}
}

func TestRegisterZeroDiscardsWrites(t *testing.T) {
	ip, s := newTestInterp()
	s.SetRegister(8, 1)
	_ = s.Memory.SetMemory(0, asmR(opcSpecial, 8, 8, 0, 0, fnAdd))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if s.GetRegister(0) != 0 {
		t.Errorf("reg0 = %d, want 0", s.GetRegister(0))
	}
}

func TestDivideByZeroPinsHiLo(t *testing.T) {
	ip, s := newTestInterp()
	s.SetRegister(8, 42)
	s.SetRegister(9, 0)
	_ = s.Memory.SetMemory(0, asmR(opcSpecial, 8, 9, 0, 0, fnDivu))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if s.HI != 42 || s.LO != 0xFFFFFFFF {
		t.Errorf("HI/LO = %#x/%#x, want 0x2a/0xffffffff", s.HI, s.LO)
	}
}

func TestBranchDelaySlot(t *testing.T) {
	ip, s := newTestInterp()
	s.SetRegister(8, 1)
	s.SetRegister(9, 1)
	// beq $8, $9, +2 (skip one word past the delay slot)
	_ = s.Memory.SetMemory(0, asmI(opcBeq, 8, 9, 2))
	// delay slot: addi $10, $0, 1
	_ = s.Memory.SetMemory(4, asmI(opcAddi, 0, 10, 1))
	// fallthrough target would be here if not taken
	_ = s.Memory.SetMemory(8, asmI(opcAddi, 0, 11, 1))
	// branch target (NextPC=4, +8 bytes from offset 2<<2)
	_ = s.Memory.SetMemory(12, asmI(opcAddi, 0, 12, 1))

	if _, err := ip.Step(false); err != nil { // executes beq
		t.Fatalf("step 1: %v", err)
	}
	if s.PC != 4 || s.NextPC != 12 {
		t.Fatalf("after branch decode: PC/NextPC = %#x/%#x, want 0x4/0xc", s.PC, s.NextPC)
	}
	if _, err := ip.Step(false); err != nil { // executes delay slot
		t.Fatalf("step 2: %v", err)
	}
	if s.GetRegister(10) != 1 {
		t.Errorf("delay slot did not execute")
	}
	if s.PC != 12 {
		t.Fatalf("PC after delay slot = %#x, want 0xc", s.PC)
	}
	if _, err := ip.Step(false); err != nil { // executes branch target
		t.Fatalf("step 3: %v", err)
	}
	if s.GetRegister(11) != 0 || s.GetRegister(12) != 1 {
		t.Errorf("branch did not skip fallthrough instruction")
	}
}

func TestJalLinksReturnAddress(t *testing.T) {
	ip, s := newTestInterp()
	s.PC = 0x1000
	s.NextPC = 0x1004
	_ = s.Memory.SetMemory(0x1000, asmJ(opcJal, 0x2000))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if s.GetRegister(31) != 0x1008 {
		t.Errorf("$ra = %#x, want 0x1008", s.GetRegister(31))
	}
	if s.NextPC != 0x2000 {
		t.Errorf("NextPC = %#x, want 0x2000", s.NextPC)
	}
}

func TestLoadStoreByteSignExtension(t *testing.T) {
	ip, s := newTestInterp()
	s.SetRegister(8, 0x1000)
	s.SetRegister(9, 0xFFFFFFFB) // -5 as a byte value 0xFB
	_ = s.Memory.SetMemory(0, asmI(opcSb, 8, 9, 0))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("sb step: %v", err)
	}
	_ = s.Memory.SetMemory(4, asmI(opcLb, 8, 10, 0))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("lb step: %v", err)
	}
	if int32(s.GetRegister(10)) != -5 {
		t.Errorf("lb sign-extend = %d, want -5", int32(s.GetRegister(10)))
	}

	_ = s.Memory.SetMemory(8, asmI(opcLbu, 8, 11, 0))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("lbu step: %v", err)
	}
	if s.GetRegister(11) != 0xFB {
		t.Errorf("lbu zero-extend = %#x, want 0xfb", s.GetRegister(11))
	}
}

func TestLwrSwrLaneMasking(t *testing.T) {
	ip, s := newTestInterp()
	_ = s.Memory.SetMemory(0x2000, 0xAABBCCDD)
	s.SetRegister(8, 0x2003) // lane 3: lowest byte of the word
	s.SetRegister(9, 0xFFFFFFFF)
	s.SetRegister(10, 0xFFFFFFFF)

	_ = s.Memory.SetMemory(0, asmI(opcLwr, 8, 10, 0))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("lwr step: %v", err)
	}
	if want := uint32(0xFFFFFFDD); s.GetRegister(10) != want {
		t.Errorf("lwr result = %#x, want %#x", s.GetRegister(10), want)
	}

	_ = s.Memory.SetMemory(4, asmI(opcSwr, 8, 9, 0))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("swr step: %v", err)
	}
	got, _ := s.Memory.GetMemory(0x2000)
	if want := uint32(0xAABBCCFF); got != want {
		t.Errorf("swr result = %#x, want %#x", got, want)
	}
}

func TestClz(t *testing.T) {
	ip, s := newTestInterp()
	s.SetRegister(8, 0x0000_0001)
	_ = s.Memory.SetMemory(0, asmR(opcSpecial2, 8, 0, 9, 0, fn2Clz))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := s.GetRegister(9); got != 31 {
		t.Errorf("clz(1) = %d, want 31", got)
	}
}

func TestSyscallExitGroup(t *testing.T) {
	ip, s := newTestInterp()
	s.SetRegister(regV0, sysExitGroup)
	s.SetRegister(regA0, 7)
	_ = s.Memory.SetMemory(0, asmR(opcSpecial, 0, 0, 0, 0, fnSyscall))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !s.Exited || s.ExitCode != 7 {
		t.Errorf("Exited/ExitCode = %v/%d, want true/7", s.Exited, s.ExitCode)
	}
}

func TestStepOnExitedMachineIsNoOp(t *testing.T) {
	ip, s := newTestInterp()
	s.SetRegister(regV0, sysExitGroup)
	s.SetRegister(regA0, 7)
	_ = s.Memory.SetMemory(0, asmR(opcSpecial, 0, 0, 0, 0, fnSyscall))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("Step: %v", err)
	}

	before := s.PackScalars()
	beforeHash := s.Hash()

	w, err := ip.Step(false)
	if err != nil {
		t.Fatalf("Step on exited machine returned an error: %v", err)
	}
	if w != nil {
		t.Errorf("Step on exited machine returned a non-nil witness: %+v", w)
	}
	if s.PackScalars() != before || s.Hash() != beforeHash {
		t.Errorf("Step on exited machine mutated state")
	}
}

func TestSyscallMmapBumpAllocator(t *testing.T) {
	ip, s := newTestInterp()
	start := s.HeapPtr
	s.SetRegister(regV0, sysMmap)
	s.SetRegister(regA0, 0)
	s.SetRegister(regA1, 100)
	_ = s.Memory.SetMemory(0, asmR(opcSpecial, 0, 0, 0, 0, fnSyscall))
	if _, err := ip.Step(false); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := s.GetRegister(regV0); got != start {
		t.Errorf("mmap returned %#x, want %#x", got, start)
	}
	if s.HeapPtr != start+0x1000 {
		t.Errorf("HeapPtr = %#x, want %#x", s.HeapPtr, start+0x1000)
	}
}

func TestSyscallFcntlGetflByFd(t *testing.T) {
	cases := []struct {
		fd, wantV0, wantA3 uint32
	}{
		{fdStdin, oRdonly, 0},
		{fdStdout, oWronly, 0},
		{fdStderr, oWronly, 0},
		{9, 0xFFFFFFFF, ebadf},
	}
	for _, tc := range cases {
		ip, s := newTestInterp()
		s.SetRegister(regV0, sysFcntl)
		s.SetRegister(regA0, tc.fd)
		s.SetRegister(regA1, fGetfl)
		_ = s.Memory.SetMemory(0, asmR(opcSpecial, 0, 0, 0, 0, fnSyscall))
		if _, err := ip.Step(false); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if got := s.GetRegister(regV0); got != tc.wantV0 {
			t.Errorf("fcntl(fd=%d) v0 = %#x, want %#x", tc.fd, got, tc.wantV0)
		}
		if got := s.GetRegister(regA3); got != tc.wantA3 {
			t.Errorf("fcntl(fd=%d) a3 = %#x, want %#x", tc.fd, got, tc.wantA3)
		}
	}
}

func TestStepWitnessCapturesProofs(t *testing.T) {
	ip, s := newTestInterp()
	s.SetRegister(8, 0x3000)
	_ = s.Memory.SetMemory(0, asmI(opcLw, 8, 9, 0))
	w, err := ip.Step(true)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if w.Instruction != asmI(opcLw, 8, 9, 0) {
		t.Errorf("witness instruction mismatch")
	}
	if !w.HasMemProof {
		t.Errorf("expected a memory proof for lw")
	}
}

func TestHintAndPreimageRoundTrip(t *testing.T) {
	s := state.New()
	oracle := &stubOracle{preimages: map[[32]byte][]byte{}}
	var key [32]byte
	key[0] = 0x42
	oracle.preimages[key] = []byte("hello world")
	ip := New(s, oracle)

	s.PreimageKey = key
	buf := uint32(0x5000)
	n, err := ip.readPreimage(buf, 64)
	if err != nil {
		t.Fatalf("readPreimage: %v", err)
	}
	if n != 8+uint32(len("hello world")) {
		t.Fatalf("readPreimage returned %d bytes", n)
	}
	got := s.Memory.MemoryRange(buf, n)
	if string(got[8:]) != "hello world" {
		t.Errorf("preimage payload = %q", got[8:])
	}

	if err := ip.writeHint(append(append([]byte{0, 0, 0, 5}), []byte("howdy")...)); err != nil {
		t.Fatalf("writeHint: %v", err)
	}
	if len(oracle.hints) != 1 || string(oracle.hints[0]) != "howdy" {
		t.Errorf("hint not dispatched: %+v", oracle.hints)
	}
}
