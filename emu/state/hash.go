/*
 * mipsevm - State-hash derivation
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

package state

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// ScalarPackSize is the width of PackScalars' output: PC, NextPC, HI, LO,
// HeapPtr (4 bytes each), ExitCode (1), Exited (1), Step (8), and the 32
// general registers (4 bytes each).
const ScalarPackSize = 4*5 + 1 + 1 + 8 + 32*4

// PackScalars concatenates every scalar field of State, big-endian, in a
// fixed order. This is the layout an on-chain verifier must agree with
// bit-for-bit; see DESIGN.md for the frozen field order.
func (s *State) PackScalars() [ScalarPackSize]byte {
	var out [ScalarPackSize]byte
	off := 0
	putU32 := func(v uint32) {
		binary.BigEndian.PutUint32(out[off:off+4], v)
		off += 4
	}
	putU32(s.PC)
	putU32(s.NextPC)
	putU32(s.HI)
	putU32(s.LO)
	putU32(s.HeapPtr)
	out[off] = s.ExitCode
	off++
	if s.Exited {
		out[off] = 1
	}
	off++
	binary.BigEndian.PutUint64(out[off:off+8], s.Step)
	off += 8
	for _, r := range s.Registers {
		putU32(r)
	}
	return out
}

// Hash returns the 32-byte state commitment:
//
//	keccak256(memory_root || pack_scalars())
//
// Two states with identical observable fields (memory root plus every
// scalar PackScalars covers) always hash identically.
func (s *State) Hash() [32]byte {
	root := s.Memory.MerkleRoot()
	scalars := s.PackScalars()

	h := sha3.NewLegacyKeccak256()
	h.Write(root[:])
	h.Write(scalars[:])
	var out [32]byte
	h.Sum(out[:0])
	return out
}
