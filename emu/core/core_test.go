/*
 * mipsevm - Core run loop tests
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

package core

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/rcornwell/mipsevm/emu/mips"
	"github.com/rcornwell/mipsevm/emu/state"
)

type stubOracle struct{}

func (stubOracle) Hint(data []byte) error               { return nil }
func (stubOracle) Preimage(key [32]byte) ([]byte, error) { return nil, nil }

func putWord(s *state.State, addr, word uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], word)
	s.Memory.SetMemoryRange(addr, b[:])
}

func newTestCore(t *testing.T) (*Core, *state.State) {
	t.Helper()
	s := state.New()
	s.NextPC = s.PC + 4
	ip := mips.New(s, stubOracle{})
	return New(ip), s
}

func send(t *testing.T, c *Core, pkt Packet) {
	t.Helper()
	done := make(chan struct{})
	pkt.Done = done
	c.Commands() <- pkt
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("command did not complete")
	}
}

func TestStepNAdvancesPC(t *testing.T) {
	c, s := newTestCore(t)
	putWord(s, 0, 0x20010001) // addi $1, $0, 1
	putWord(s, 4, 0x20010001)
	putWord(s, 8, 0x20010001)
	c.Start()
	defer c.Stop()

	send(t, c, Packet{Msg: StepN, Count: 3})

	if s.PC != 12 {
		t.Errorf("PC = %d, want 12", s.PC)
	}
	if s.GetRegister(1) != 1 {
		t.Errorf("$1 = %d, want 1", s.GetRegister(1))
	}
}

func TestBreakpointStopsFreeRun(t *testing.T) {
	c, s := newTestCore(t)
	for addr := uint32(0); addr < 40; addr += 4 {
		putWord(s, addr, 0x20010001)
	}
	c.Start()
	defer c.Stop()

	send(t, c, Packet{Msg: SetBreak, Addr: 20})
	send(t, c, Packet{Msg: Start})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		done := make(chan struct{})
		c.Commands() <- Packet{Msg: StepN, Count: 0, Done: done}
		<-done
		if s.PC == 20 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("breakpoint never reached, PC=%d", s.PC)
}

func TestExitStopsRunLoop(t *testing.T) {
	c, s := newTestCore(t)
	// li $2, 4246 ($v0 = SYS_exit_group); syscall
	putWord(s, 0, 0x34021096)
	putWord(s, 4, 0x0000000C)
	c.Start()
	defer c.Stop()

	send(t, c, Packet{Msg: StepN, Count: 2})

	if !s.Exited {
		t.Error("state not marked exited after exit_group syscall")
	}
}
