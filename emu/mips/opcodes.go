/*
 * mipsevm - MIPS32 opcode and function-code constants
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

// Primary opcode field, bits 31:26. Named opc* rather than op* since the
// executor functions in branch.go/itype.go/memop.go already take the op*
// names (opJ, opAddi, ...) for the instructions these select.
const (
	opcSpecial  = 0x00
	opcRegimm   = 0x01
	opcJ        = 0x02
	opcJal      = 0x03
	opcBeq      = 0x04
	opcBne      = 0x05
	opcBlez     = 0x06
	opcBgtz     = 0x07
	opcAddi     = 0x08
	opcAddiu    = 0x09
	opcSlti     = 0x0A
	opcSltiu    = 0x0B
	opcAndi     = 0x0C
	opcOri      = 0x0D
	opcXori     = 0x0E
	opcLui      = 0x0F
	opcSpecial2 = 0x1C
	opcLb       = 0x20
	opcLh       = 0x21
	opcLw       = 0x23
	opcLbu      = 0x24
	opcLhu      = 0x25
	opcLwr      = 0x26
	opcSb       = 0x28
	opcSh       = 0x29
	opcSw       = 0x2B
	opcSwr      = 0x2E
)

// SPECIAL (opcode 0) function codes, bits 5:0.
const (
	fnSll     = 0x00
	fnSrl     = 0x02
	fnSra     = 0x03
	fnSllv    = 0x04
	fnSrlv    = 0x06
	fnSrav    = 0x07
	fnJr      = 0x08
	fnJalr    = 0x09
	fnSyscall = 0x0C
	fnSync    = 0x0F
	fnMfhi    = 0x10
	fnMthi    = 0x11
	fnMflo    = 0x12
	fnMtlo    = 0x13
	fnMult    = 0x18
	fnMultu   = 0x19
	fnDiv     = 0x1A
	fnDivu    = 0x1B
	fnAdd     = 0x20
	fnAddu    = 0x21
	fnSub     = 0x22
	fnSubu    = 0x23
	fnAnd     = 0x24
	fnOr      = 0x25
	fnXor     = 0x26
	fnNor     = 0x27
	fnSlt     = 0x2A
	fnSltu    = 0x2B
)

// SPECIAL2 (opcode 0x1C) function codes.
const (
	fn2Mul = 0x02
	fn2Clz = 0x20
)

// REGIMM (opcode 0x01) rt-field selectors.
const (
	rtBltz = 0x00
	rtBgez = 0x01
)

// Well-known syscall numbers the v0 register selects (spec.md §4.2).
const (
	sysMmap      = 4090
	sysBrk       = 4045
	sysClone     = 4120
	sysExitGroup = 4246
	sysRead      = 4003
	sysWrite     = 4004
	sysFcntl     = 4055
)

// File descriptors the syscall surface recognizes.
const (
	fdStdin         = 0
	fdStdout        = 1
	fdStderr        = 2
	fdHintRead      = 3
	fdHintWrite     = 4
	fdPreimageRead  = 5
	fdPreimageWrite = 6
)
