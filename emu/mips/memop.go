/*
 * mipsevm - Load/store executors
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

import "encoding/binary"

func effAddr(ip *Interpreter, in instr) uint32 {
	addr := ip.State.GetRegister(uint32(in.rs)) + in.signExt16()
	ip.memAddr = addr
	ip.memHit = true
	return addr
}

func opLb(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	v := int32(int8(ip.State.Memory.GetByte(addr)))
	ip.State.SetRegister(uint32(in.rt), uint32(v))
	return nil
}

func opLbu(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	ip.State.SetRegister(uint32(in.rt), uint32(ip.State.Memory.GetByte(addr)))
	return nil
}

func opSb(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	ip.State.Memory.SetByte(addr, byte(ip.State.GetRegister(uint32(in.rt))))
	return nil
}

func opLh(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	raw := ip.State.Memory.MemoryRange(addr, 2)
	v := int32(int16(binary.BigEndian.Uint16(raw)))
	ip.State.SetRegister(uint32(in.rt), uint32(v))
	return nil
}

func opLhu(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	raw := ip.State.Memory.MemoryRange(addr, 2)
	ip.State.SetRegister(uint32(in.rt), uint32(binary.BigEndian.Uint16(raw)))
	return nil
}

func opSh(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	var raw [2]byte
	binary.BigEndian.PutUint16(raw[:], uint16(ip.State.GetRegister(uint32(in.rt))))
	ip.State.Memory.SetMemoryRange(addr, raw[:])
	return nil
}

func opLw(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	v, err := ip.State.Memory.GetMemory(addr)
	if err != nil {
		return err
	}
	ip.State.SetRegister(uint32(in.rt), v)
	return nil
}

func opSw(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	return ip.State.Memory.SetMemory(addr, ip.State.GetRegister(uint32(in.rt)))
}

// wordLaneMask returns the low-order byte mask covering every lane from
// addr&3 through the end of its aligned word, and that word's aligned
// base address. Lane 0 (addr word-aligned) covers the whole word.
func wordLaneMask(addr uint32) (base uint32, mask uint32) {
	lane := addr & 3
	nBytes := 4 - lane
	base = addr &^ 3
	if nBytes == 4 {
		return base, 0xFFFFFFFF
	}
	return base, uint32(1)<<(8*nBytes) - 1
}

// opLwr and opSwr are the "right-aligned partial word" forms: they touch
// only the bytes from the effective address through the end of that
// word's containing aligned word, leaving the rest of the destination
// untouched. There is no paired lwl/swl in this instruction set, so the
// lane covered always runs to the high-address end of the word.
func opLwr(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	base, mask := wordLaneMask(addr)
	word, err := ip.State.Memory.GetMemory(base)
	if err != nil {
		return err
	}
	old := ip.State.GetRegister(uint32(in.rt))
	ip.State.SetRegister(uint32(in.rt), (old &^ mask)|(word&mask))
	return nil
}

func opSwr(ip *Interpreter, in instr) error {
	addr := effAddr(ip, in)
	base, mask := wordLaneMask(addr)
	old, err := ip.State.Memory.GetMemory(base)
	if err != nil {
		return err
	}
	rt := ip.State.GetRegister(uint32(in.rt))
	return ip.State.Memory.SetMemory(base, (old&^mask)|(rt&mask))
}
