/*
 * mipsevm - Debug REPL command implementations
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
	"fmt"
	"time"

	"github.com/rcornwell/mipsevm/emu/core"
	disassembler "github.com/rcornwell/mipsevm/emu/disassemble"
)

// sendAndWait submits pkt to c and blocks until the run loop has
// applied it.
func sendAndWait(c *core.Core, pkt core.Packet) error {
	done := make(chan struct{})
	pkt.Done = done
	select {
	case c.Commands() <- pkt:
	case <-time.After(time.Second):
		return fmt.Errorf("command queue full")
	}
	select {
	case <-done:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("command did not complete")
	}
}

// step executes one or more instructions and reports the landing PC.
func step(line *cmdLine, c *core.Core) (bool, error) {
	n, err := line.nextUint32Default(1)
	if err != nil {
		return false, err
	}
	if err := sendAndWait(c, core.Packet{Msg: core.StepN, Count: int(n)}); err != nil {
		return false, err
	}
	s := c.State()
	fmt.Printf("pc=%#08x next=%#08x exited=%v\n", s.PC, s.NextPC, s.Exited)
	return false, nil
}

// run resumes free-running execution.
func run(_ *cmdLine, c *core.Core) (bool, error) {
	if err := sendAndWait(c, core.Packet{Msg: core.Start}); err != nil {
		return false, err
	}
	fmt.Println("running")
	return false, nil
}

// stopCmd halts free-running execution.
func stopCmd(_ *cmdLine, c *core.Core) (bool, error) {
	if err := sendAndWait(c, core.Packet{Msg: core.Stop}); err != nil {
		return false, err
	}
	s := c.State()
	fmt.Printf("stopped at pc=%#08x\n", s.PC)
	return false, nil
}

// reg dumps the register file, HI/LO, and PC/NextPC.
func reg(_ *cmdLine, c *core.Core) (bool, error) {
	s := c.State()
	for i := 0; i < 32; i += 4 {
		fmt.Printf("$%-2d=%#08x  $%-2d=%#08x  $%-2d=%#08x  $%-2d=%#08x\n",
			i, s.GetRegister(uint32(i)),
			i+1, s.GetRegister(uint32(i+1)),
			i+2, s.GetRegister(uint32(i+2)),
			i+3, s.GetRegister(uint32(i+3)))
	}
	fmt.Printf("pc=%#08x next=%#08x hi=%#08x lo=%#08x heap=%#08x step=%d exited=%v\n",
		s.PC, s.NextPC, s.HI, s.LO, s.HeapPtr, s.Step, s.Exited)
	return false, nil
}

// mem hex-dumps count bytes of memory starting at addr.
func mem(line *cmdLine, c *core.Core) (bool, error) {
	addr, err := line.nextUint32()
	if err != nil {
		return false, err
	}
	count, err := line.nextUint32Default(64)
	if err != nil {
		return false, err
	}
	data := c.State().Memory.MemoryRange(addr, count)
	for off := uint32(0); off < uint32(len(data)); off += 16 {
		end := off + 16
		if end > uint32(len(data)) {
			end = uint32(len(data))
		}
		fmt.Printf("%#08x  % x\n", addr+off, data[off:end])
	}
	return false, nil
}

// breakCmd installs a breakpoint at addr.
func breakCmd(line *cmdLine, c *core.Core) (bool, error) {
	addr, err := line.nextUint32()
	if err != nil {
		return false, err
	}
	if err := sendAndWait(c, core.Packet{Msg: core.SetBreak, Addr: addr}); err != nil {
		return false, err
	}
	fmt.Printf("breakpoint set at %#08x\n", addr)
	return false, nil
}

// root prints the memory Merkle root and full state hash.
func root(_ *cmdLine, c *core.Core) (bool, error) {
	s := c.State()
	memRoot := s.Memory.MerkleRoot()
	stateHash := s.Hash()
	fmt.Printf("memory root: %x\nstate hash:  %x\n", memRoot, stateHash)
	return false, nil
}

// proof prints the Merkle proof for the 32-byte leaf containing addr.
func proof(line *cmdLine, c *core.Core) (bool, error) {
	addr, err := line.nextUint32()
	if err != nil {
		return false, err
	}
	p := c.State().Memory.MerkleProof(addr)
	fmt.Printf("proof(%#08x):\n", addr)
	for i := 0; i < len(p); i += 32 {
		fmt.Printf("  [%02d] %x\n", i/32, p[i:i+32])
	}
	return false, nil
}

// dis disassembles count instructions starting at addr.
func dis(line *cmdLine, c *core.Core) (bool, error) {
	addr, err := line.nextUint32()
	if err != nil {
		return false, err
	}
	count, err := line.nextUint32Default(1)
	if err != nil {
		return false, err
	}
	mem := c.State().Memory
	for i := uint32(0); i < count; i++ {
		a := addr + i*4
		word, err := mem.GetMemory(a)
		if err != nil {
			return false, err
		}
		fmt.Printf("%#08x  %08x  %s\n", a, word, disassembler.Disassemble(word, a))
	}
	return false, nil
}

// quit exits the REPL.
func quit(_ *cmdLine, _ *core.Core) (bool, error) {
	return true, nil
}
