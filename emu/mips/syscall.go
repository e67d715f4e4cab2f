/*
 * mipsevm - Syscall surface and preimage-oracle wiring
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
	"encoding/binary"
	"fmt"
)

// Register numbers the o32 syscall ABI uses.
const (
	regV0 = 2
	regA0 = 4
	regA1 = 5
	regA2 = 6
	regA3 = 7
)

// pageRoundUp rounds size up to the containing number of 4096-byte pages,
// matching the loader's page granularity.
func pageRoundUp(size uint32) uint32 {
	const pageMask = 0xFFF
	return (size + pageMask) &^ pageMask
}

func opSyscall(ip *Interpreter, _ instr) error {
	s := ip.State
	num := s.GetRegister(regV0)
	a0 := s.GetRegister(regA0)
	a1 := s.GetRegister(regA1)
	a2 := s.GetRegister(regA2)

	var v0, v1 uint32
	var err error
	switch num {
	case sysMmap:
		v0 = ip.sysMmap(a0, a1)
	case sysBrk:
		v0 = 0x40000000
	case sysClone:
		v0 = 1
	case sysExitGroup:
		s.Exited = true
		s.ExitCode = uint8(a0)
	case sysRead:
		v0, v1, err = ip.sysRead(a0, a1, a2)
	case sysWrite:
		v0, v1, err = ip.sysWrite(a0, a1, a2)
	case sysFcntl:
		v0, v1 = sysFcntlImpl(a0, a1)
	default:
		v0 = 0
	}
	if err != nil {
		return fmt.Errorf("mips: oracle transport: %w", err)
	}
	s.SetRegister(regV0, v0)
	s.SetRegister(regA3, v1)
	return nil
}

// sysMmap implements the reference loader's bump allocator: addr==0
// requests the next free region, anything else is honored verbatim (the
// guest is trusted to pass a previously reserved address).
func (ip *Interpreter) sysMmap(addr, size uint32) uint32 {
	if addr != 0 {
		return addr
	}
	s := ip.State
	out := s.HeapPtr
	s.HeapPtr += pageRoundUp(size)
	return out
}

// ebadf is the errno value the syscall surface reports for any file
// descriptor it does not recognize.
const ebadf = 9

// fcntl command and flag values sysFcntlImpl recognizes.
const (
	fGetfl  = 3
	oRdonly = 0
	oWronly = 1
)

// sysFcntlImpl implements F_GETFL for the three standard streams: stdin
// reports O_RDONLY, stdout/stderr report O_WRONLY. Any other fd, or any
// command besides F_GETFL, reports EBADF.
func sysFcntlImpl(fd, cmd uint32) (v0, v1 uint32) {
	if cmd != fGetfl {
		return 0xFFFFFFFF, ebadf
	}
	switch fd {
	case fdStdin:
		return oRdonly, 0
	case fdStdout, fdStderr:
		return oWronly, 0
	default:
		return 0xFFFFFFFF, ebadf
	}
}

// sysRead dispatches on fd: stdin always reads as empty, the hint-ack fd
// (3) is an untyped sync point that returns count immediately (the
// actual wait for the server's acknowledgement already happened inside
// Oracle.Hint when the hint was written), and the preimage fd (5)
// streams the 8-byte big-endian length prefix followed by the preimage
// payload from the state's read cursor. Any other fd reports EBADF.
func (ip *Interpreter) sysRead(fd, addr, count uint32) (v0, v1 uint32, err error) {
	switch fd {
	case fdStdin:
		return 0, 0, nil
	case fdHintRead:
		return count, 0, nil
	case fdPreimageRead:
		n, err := ip.readPreimage(addr, count)
		return n, 0, err
	default:
		return 0xFFFFFFFF, ebadf, nil
	}
}

// sysWrite dispatches on fd: stdout/stderr are forwarded to Console (if
// set) and otherwise discarded, fd 4 accumulates hint-request frames,
// and fd 6 accumulates the 32-byte preimage key. Any other fd reports
// EBADF.
func (ip *Interpreter) sysWrite(fd, addr, count uint32) (v0, v1 uint32, err error) {
	switch fd {
	case fdStdout, fdStderr:
		if ip.Console != nil {
			_, _ = ip.Console.Write(ip.State.Memory.MemoryRange(addr, count))
		}
		return count, 0, nil
	case fdHintWrite:
		if err := ip.writeHint(ip.State.Memory.MemoryRange(addr, count)); err != nil {
			return 0, 0, err
		}
		return count, 0, nil
	case fdPreimageWrite:
		ip.writePreimageKey(ip.State.Memory.MemoryRange(addr, count))
		return count, 0, nil
	default:
		return 0xFFFFFFFF, ebadf, nil
	}
}

// writeHint appends data to the pending hint frame buffer and dispatches
// every complete 4-byte-length-prefixed frame it can assemble.
func (ip *Interpreter) writeHint(data []byte) error {
	ip.hintBuf = append(ip.hintBuf, data...)
	for len(ip.hintBuf) >= 4 {
		n := binary.BigEndian.Uint32(ip.hintBuf[:4])
		if uint32(len(ip.hintBuf)-4) < n {
			return nil
		}
		if ip.Oracle != nil {
			if err := ip.Oracle.Hint(ip.hintBuf[4 : 4+n]); err != nil {
				return err
			}
		}
		ip.hintBuf = ip.hintBuf[4+n:]
	}
	return nil
}

// writePreimageKey accumulates bytes written to fd 6 into keyBuf; once 32
// bytes have arrived it commits the key, resets the read cursor, and
// drops any cached payload for the previous key, matching the spec's
// key_buf/commit semantics.
func (ip *Interpreter) writePreimageKey(data []byte) {
	ip.keyBuf = append(ip.keyBuf, data...)
	if len(ip.keyBuf) < 32 {
		return
	}
	s := ip.State
	copy(s.PreimageKey[:], ip.keyBuf[:32])
	ip.keyBuf = ip.keyBuf[32:]
	s.PreimageOffset = 0
	ip.preimage = nil
}

// readPreimage serves up to count bytes of the framed preimage (an
// 8-byte big-endian length prefix followed by the raw payload) starting
// at the state's current PreimageOffset, fetching the payload from
// Oracle on first use for the active key.
func (ip *Interpreter) readPreimage(addr, count uint32) (uint32, error) {
	s := ip.State
	if ip.preimage == nil && ip.Oracle != nil {
		data, err := ip.Oracle.Preimage(s.PreimageKey)
		if err != nil {
			return 0, err
		}
		framed := make([]byte, 8+len(data))
		binary.BigEndian.PutUint64(framed[:8], uint64(len(data)))
		copy(framed[8:], data)
		ip.preimage = framed
	}
	if ip.preimage == nil {
		return 0, nil
	}
	remaining := uint32(len(ip.preimage)) - s.PreimageOffset
	if remaining == 0 {
		return 0, nil
	}
	n := count
	if n > remaining {
		n = remaining
	}
	s.Memory.SetMemoryRange(addr, ip.preimage[s.PreimageOffset:s.PreimageOffset+n])
	s.PreimageOffset += n
	return n, nil
}
