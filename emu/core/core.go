/*
 * mipsevm - Core run loop
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

// Package core drives the interpreter in its own goroutine, accepting
// run-control requests (step, run, stop, breakpoint) over a channel so a
// debug REPL running on another goroutine can steer execution without
// touching interpreter state directly.
package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/mipsevm/emu/mips"
	"github.com/rcornwell/mipsevm/emu/state"
)

// MsgKind identifies the run-control operation a Packet carries.
type MsgKind int

const (
	// Start resumes free-running execution.
	Start MsgKind = iota
	// Stop halts free-running execution after the current instruction.
	Stop
	// StepN executes exactly N instructions (or until exit/breakpoint),
	// regardless of the running state, then closes Done.
	StepN
	// SetBreak installs a breakpoint address.
	SetBreak
	// ClearBreak removes a previously installed breakpoint.
	ClearBreak
)

// Packet is a single run-control request sent to the core's command
// channel.
type Packet struct {
	Msg   MsgKind
	Count int    // operand for StepN
	Addr  uint32 // operand for SetBreak/ClearBreak

	// Done, if non-nil, is closed once the request has been applied —
	// useful for StepN, where the caller wants execution to have
	// actually reached the requested point before issuing another
	// command.
	Done chan struct{}
}

// Core owns the interpreter and runs its step loop on a dedicated
// goroutine until Stop is called.
type Core struct {
	ip *mips.Interpreter

	wg      sync.WaitGroup
	done    chan struct{}
	cmd     chan Packet
	running bool

	breakpoints map[uint32]bool

	mu          sync.Mutex
	lastWitness *state.StepWitness
	lastErr     error
}

// New wires a Core around an already-constructed interpreter.
func New(ip *mips.Interpreter) *Core {
	return &Core{
		ip:          ip,
		done:        make(chan struct{}),
		cmd:         make(chan Packet, 16),
		breakpoints: make(map[uint32]bool),
	}
}

// Commands returns the channel callers send Packets on.
func (c *Core) Commands() chan<- Packet {
	return c.cmd
}

// Start launches the run loop on its own goroutine and returns
// immediately.
func (c *Core) Start() {
	c.wg.Add(1)
	go c.loop()
}

// Stop signals the run loop to exit and waits up to one second for it to
// do so.
func (c *Core) Stop() {
	close(c.done)
	waited := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(time.Second):
		slog.Warn("core: timed out waiting for run loop to stop")
	}
}

// State exposes the interpreter's machine state for read-only inspection
// (register dump, memory peek) from the owning goroutine; callers must
// not mutate it concurrently with the run loop.
func (c *Core) State() *state.State {
	return c.ip.State
}

func (c *Core) loop() {
	defer c.wg.Done()
	for {
		if !c.running {
			select {
			case <-c.done:
				slog.Info("core: run loop stopped")
				return
			case pkt := <-c.cmd:
				c.process(pkt)
			}
			continue
		}

		select {
		case <-c.done:
			slog.Info("core: run loop stopped")
			return
		case pkt := <-c.cmd:
			c.process(pkt)
		default:
			c.stepOnce(false)
			if c.ip.State.Exited || c.atBreakpoint() {
				c.running = false
			}
		}
	}
}

func (c *Core) process(pkt Packet) {
	switch pkt.Msg {
	case Start:
		c.running = true
	case Stop:
		c.running = false
	case StepN:
		for i := 0; i < pkt.Count; i++ {
			if c.ip.State.Exited {
				break
			}
			c.stepOnce(true)
			if c.atBreakpoint() {
				break
			}
		}
	case SetBreak:
		c.breakpoints[pkt.Addr] = true
	case ClearBreak:
		delete(c.breakpoints, pkt.Addr)
	}
	if pkt.Done != nil {
		close(pkt.Done)
	}
}

func (c *Core) stepOnce(proof bool) {
	witness, err := c.ip.Step(proof)
	c.mu.Lock()
	c.lastWitness = witness
	c.lastErr = err
	c.mu.Unlock()
	if err != nil {
		slog.Error("core: step failed", "error", err, "pc", c.ip.State.PC)
		c.running = false
	}
}

func (c *Core) atBreakpoint() bool {
	return c.breakpoints[c.ip.State.PC]
}

// LastStep returns the witness and error from the most recently executed
// instruction, or (nil, nil) if none has run yet.
func (c *Core) LastStep() (*state.StepWitness, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastWitness, c.lastErr
}
