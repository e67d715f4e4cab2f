/*
 * mipsevm - Top-level machine state
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

// Package state holds the full machine snapshot an interpreter step
// mutates: registers, control registers, and Merkleized memory, plus the
// serialization and hashing the on-chain verifier depends on bit-for-bit.
package state

import (
	"github.com/rcornwell/mipsevm/emu/memory"
)

// Registers is the 32-entry general-purpose register file. reg[0] is
// wired to zero; Set silently discards writes to it.
type Registers [32]uint32

// Set writes v to register r, except register 0 which stays zero.
func (r *Registers) Set(reg uint32, v uint32) {
	if reg == 0 {
		return
	}
	r[reg] = v
}

// State is the complete, hashable machine snapshot.
type State struct {
	Memory *memory.Memory

	Registers Registers
	PC        uint32
	NextPC    uint32
	HI        uint32
	LO        uint32
	HeapPtr   uint32
	ExitCode  uint8
	Exited    bool
	Step      uint64

	// Preimage-oracle bookkeeping mirrored here because it is part of
	// the externally visible snapshot (spec.md §6): the last committed
	// 32-byte preimage key and the client's read cursor into it.
	PreimageKey    [32]byte
	PreimageOffset uint32
}

// New returns a freshly zeroed State with empty memory, PC=NextPC=0 and
// HeapPtr at the conventional mmap start used by the reference loader.
func New() *State {
	return &State{
		Memory:  memory.New(),
		HeapPtr: 0x20000000,
	}
}

// GetRegister reads register reg (always 0 for reg==0).
func (s *State) GetRegister(reg uint32) uint32 {
	return s.Registers[reg]
}

// SetRegister writes register reg, silently discarding writes to reg 0.
func (s *State) SetRegister(reg uint32, v uint32) {
	s.Registers.Set(reg, v)
}
