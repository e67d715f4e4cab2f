/*
 * mipsevm - Instruction word decode
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

// instr holds every field a big-endian MIPS32 word might carry, decoded
// once up front so the executors never touch the raw word.
type instr struct {
	word   uint32
	opcode uint8
	rs     uint8
	rt     uint8
	rd     uint8
	shamt  uint8
	funct  uint8
	imm16  uint16
	imm26  uint32
}

// signExt16 sign-extends imm16 to 32 bits.
func (i instr) signExt16() uint32 {
	return uint32(int32(int16(i.imm16)))
}

// zeroExt16 zero-extends imm16 to 32 bits.
func (i instr) zeroExt16() uint32 {
	return uint32(i.imm16)
}

// branchOffset is the PC-relative branch displacement,
// sign_extend(imm16) << 2; the branch executors add it to the branch's
// own NextPC (the address of its delay slot) to form the target.
func (i instr) branchOffset() uint32 {
	return i.signExt16() << 2
}

// jumpTarget is the absolute target for j/jal: the top 4 bits of the
// delay-slot address combined with imm26<<2.
func (i instr) jumpTarget(delaySlotPC uint32) uint32 {
	return (delaySlotPC & 0xF0000000) | (i.imm26 << 2)
}

func decode(word uint32) instr {
	return instr{
		word:   word,
		opcode: uint8(word >> 26),
		rs:     uint8((word >> 21) & 0x1F),
		rt:     uint8((word >> 16) & 0x1F),
		rd:     uint8((word >> 11) & 0x1F),
		shamt:  uint8((word >> 6) & 0x1F),
		funct:  uint8(word & 0x3F),
		imm16:  uint16(word & 0xFFFF),
		imm26:  word & 0x03FFFFFF,
	}
}
