/*
 * mipsevm - MIPS32 interpreter core
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

// Package mips implements the deterministic, single-threaded, big-endian
// MIPS32 interpreter: instruction decode and execution, branch-delay
// sequencing, and the syscall surface a guest program sees, including the
// hint/preimage oracle hooks.
package mips

import (
	"errors"
	"fmt"
	"io"

	"github.com/rcornwell/mipsevm/emu/state"
)

// Oracle is the narrow interface the syscall surface needs from the
// preimage-oracle client; emu/oracle provides the real implementation,
// wired over a pair of pipe file descriptors.
type Oracle interface {
	// Hint delivers a fully-framed hint payload written to fd 4 and
	// blocks until the server's one-byte acknowledgement arrives.
	Hint(data []byte) error
	// Preimage returns the full preimage for key, fetching it from the
	// host the first time a given key is requested.
	Preimage(key [32]byte) ([]byte, error)
}

// Interpreter steps a single State through the MIPS32 instruction set.
type Interpreter struct {
	State  *state.State
	Oracle Oracle

	// Console, if set, receives bytes the guest writes to fd 1/2. A
	// headless verifier run leaves it nil and those writes are discarded.
	Console io.Writer

	table         [64]func(*Interpreter, instr) error
	special2Table [64]func(*Interpreter, instr) error
	regimmTable   [32]func(*Interpreter, instr) error
	opcodeTable   [64]func(*Interpreter, instr) error

	// hintBuf accumulates a partially written hint frame across calls to
	// write(4, ...); the host protocol is length-prefixed but nothing
	// requires the guest to write it in a single syscall.
	hintBuf []byte

	// preimage caches the framed (length-prefixed) payload for the
	// active PreimageKey, fetched from Oracle on first read.
	preimage []byte

	// keyBuf accumulates a partial 32-byte preimage key across calls to
	// write(6, ...).
	keyBuf []byte

	// branchTarget and branching are execute()'s way of telling Step what
	// NextPC should become; branching is cleared before every execute.
	branchTarget uint32
	branching    bool

	// memAddr and memHit let a load/store executor report the single
	// effective address it touched, for witness memory-proof capture.
	memAddr uint32
	memHit  bool
}

// New returns an Interpreter over s, dispatching preimage-oracle syscalls
// to oracle.
func New(s *state.State, oracle Oracle) *Interpreter {
	ip := &Interpreter{State: s, Oracle: oracle}
	ip.createTables()
	return ip
}

// ErrReservedInstruction is returned for any bit pattern outside the
// documented instruction set.
var ErrReservedInstruction = errors.New("mips: reserved instruction")

// Step executes exactly one instruction, advancing the branch-delay PC
// pair. When proof is true it also captures the fetch and (if the
// instruction touches memory) the access proof into a StepWitness. Once
// the machine has exited, Step is a no-op: it returns immediately
// without touching state, so callers can keep stepping a halted machine
// without special-casing it.
func (ip *Interpreter) Step(proof bool) (*state.StepWitness, error) {
	s := ip.State
	if s.Exited {
		return nil, nil
	}

	var witness *state.StepWitness
	if proof {
		witness = &state.StepWitness{
			StateHashPre: s.Hash(),
			PreScalars:   s.PackScalars(),
			FetchProof:   s.Memory.MerkleProof(s.PC),
		}
	}

	word, err := s.Memory.GetMemory(s.PC)
	if err != nil {
		return nil, fmt.Errorf("mips: instruction fetch: %w", err)
	}
	in := decode(word)
	if witness != nil {
		witness.Instruction = word
	}

	ip.branching = false
	effAddr, hasMem, err := ip.execute(in)
	if err != nil {
		return nil, err
	}

	if witness != nil && hasMem {
		witness.HasMemProof = true
		witness.MemProof = s.Memory.MerkleProof(effAddr)
	}

	prevNextPC := s.NextPC
	s.PC = prevNextPC
	if ip.branching {
		s.NextPC = ip.branchTarget
	} else {
		s.NextPC = prevNextPC + 4
	}
	s.Step++

	return witness, nil
}

// branch records a taken branch/jump target for Step to install as the
// new NextPC once the delay slot (already in flight) retires.
func (ip *Interpreter) branch(target uint32) {
	ip.branching = true
	ip.branchTarget = target
}

// execute dispatches a decoded instruction and returns the effective
// address of the single memory access it made, if any.
func (ip *Interpreter) execute(in instr) (effAddr uint32, hasMem bool, err error) {
	ip.memAddr = 0
	ip.memHit = false

	var fn func(*Interpreter, instr) error
	switch in.opcode {
	case opcSpecial:
		fn = ip.table[in.funct]
	case opcSpecial2:
		fn = ip.special2Table[in.funct]
	case opcRegimm:
		fn = ip.regimmTable[in.rt]
	default:
		fn = ip.opcodeTable[in.opcode]
	}
	if fn == nil {
		return 0, false, fmt.Errorf("%w: 0x%08x", ErrReservedInstruction, in.word)
	}
	if err := fn(ip, in); err != nil {
		return 0, false, err
	}
	return ip.memAddr, ip.memHit, nil
}
