/*
 * mipsevm - Step witness / proof bundle
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

import "github.com/rcornwell/mipsevm/emu/memory"

// StepWitness is the constant-size proof bundle an interpreter step
// collects when proof generation is requested: everything the on-chain
// verifier needs to re-execute the instruction against the pre-state
// hash and check the claimed post-state hash (spec.md §6).
type StepWitness struct {
	StateHashPre [32]byte
	PreScalars   [ScalarPackSize]byte
	Instruction  uint32

	// FetchProof is always present: the memory proof for the
	// instruction word at the pre-state PC.
	FetchProof [memory.ProofSize]byte

	// HasMemProof and MemProof cover the single additional memory
	// access (load/store effective address) a step may perform; at
	// most one such access exists per spec.md's instruction set.
	HasMemProof bool
	MemProof    [memory.ProofSize]byte
}
