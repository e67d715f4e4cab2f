/*
 * mipsevm - SPECIAL and SPECIAL2 (R-type) executors
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

// None of these ever trap: add/addu, sub/subu and their immediate forms
// all behave as the unsigned (wrapping) forms. There is no overflow
// exception anywhere in this instruction set.

func opSll(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rt))<<in.shamt)
	return nil
}

func opSrl(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rt))>>in.shamt)
	return nil
}

func opSra(ip *Interpreter, in instr) error {
	v := int32(ip.State.GetRegister(uint32(in.rt))) >> in.shamt
	ip.State.SetRegister(uint32(in.rd), uint32(v))
	return nil
}

func opSllv(ip *Interpreter, in instr) error {
	shift := ip.State.GetRegister(uint32(in.rs)) & 0x1F
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rt))<<shift)
	return nil
}

func opSrlv(ip *Interpreter, in instr) error {
	shift := ip.State.GetRegister(uint32(in.rs)) & 0x1F
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rt))>>shift)
	return nil
}

func opSrav(ip *Interpreter, in instr) error {
	shift := ip.State.GetRegister(uint32(in.rs)) & 0x1F
	v := int32(ip.State.GetRegister(uint32(in.rt))) >> shift
	ip.State.SetRegister(uint32(in.rd), uint32(v))
	return nil
}

func opSync(_ *Interpreter, _ instr) error {
	return nil
}

func opMfhi(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.HI)
	return nil
}

func opMthi(ip *Interpreter, in instr) error {
	ip.State.HI = ip.State.GetRegister(uint32(in.rs))
	return nil
}

func opMflo(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.LO)
	return nil
}

func opMtlo(ip *Interpreter, in instr) error {
	ip.State.LO = ip.State.GetRegister(uint32(in.rs))
	return nil
}

func opMult(ip *Interpreter, in instr) error {
	a := int64(int32(ip.State.GetRegister(uint32(in.rs))))
	b := int64(int32(ip.State.GetRegister(uint32(in.rt))))
	prod := uint64(a * b)
	ip.State.HI = uint32(prod >> 32)
	ip.State.LO = uint32(prod)
	return nil
}

func opMultu(ip *Interpreter, in instr) error {
	a := uint64(ip.State.GetRegister(uint32(in.rs)))
	b := uint64(ip.State.GetRegister(uint32(in.rt)))
	prod := a * b
	ip.State.HI = uint32(prod >> 32)
	ip.State.LO = uint32(prod)
	return nil
}

// opDiv and opDivu never trap on division by zero: per spec, HI is
// pinned to the dividend and LO to 0xFFFFFFFF instead.
func opDiv(ip *Interpreter, in instr) error {
	a := int32(ip.State.GetRegister(uint32(in.rs)))
	b := int32(ip.State.GetRegister(uint32(in.rt)))
	if b == 0 {
		ip.State.HI = uint32(a)
		ip.State.LO = 0xFFFFFFFF
		return nil
	}
	ip.State.LO = uint32(a / b)
	ip.State.HI = uint32(a % b)
	return nil
}

func opDivu(ip *Interpreter, in instr) error {
	a := ip.State.GetRegister(uint32(in.rs))
	b := ip.State.GetRegister(uint32(in.rt))
	if b == 0 {
		ip.State.HI = a
		ip.State.LO = 0xFFFFFFFF
		return nil
	}
	ip.State.LO = a / b
	ip.State.HI = a % b
	return nil
}

func opAdd(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rs))+ip.State.GetRegister(uint32(in.rt)))
	return nil
}

func opAddu(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rs))+ip.State.GetRegister(uint32(in.rt)))
	return nil
}

func opSub(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rs))-ip.State.GetRegister(uint32(in.rt)))
	return nil
}

func opSubu(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rs))-ip.State.GetRegister(uint32(in.rt)))
	return nil
}

func opAnd(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rs))&ip.State.GetRegister(uint32(in.rt)))
	return nil
}

func opOr(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rs))|ip.State.GetRegister(uint32(in.rt)))
	return nil
}

func opXor(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ip.State.GetRegister(uint32(in.rs))^ip.State.GetRegister(uint32(in.rt)))
	return nil
}

func opNor(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rd), ^(ip.State.GetRegister(uint32(in.rs)) | ip.State.GetRegister(uint32(in.rt))))
	return nil
}

func opSlt(ip *Interpreter, in instr) error {
	var v uint32
	if int32(ip.State.GetRegister(uint32(in.rs))) < int32(ip.State.GetRegister(uint32(in.rt))) {
		v = 1
	}
	ip.State.SetRegister(uint32(in.rd), v)
	return nil
}

func opSltu(ip *Interpreter, in instr) error {
	var v uint32
	if ip.State.GetRegister(uint32(in.rs)) < ip.State.GetRegister(uint32(in.rt)) {
		v = 1
	}
	ip.State.SetRegister(uint32(in.rd), v)
	return nil
}

// opMul is the SPECIAL2 single-result multiply: rd = lo32(rs * rt), HI/LO
// left unspecified (we leave them untouched, matching the reference
// interpreter this was grounded on).
func opMul(ip *Interpreter, in instr) error {
	v := ip.State.GetRegister(uint32(in.rs)) * ip.State.GetRegister(uint32(in.rt))
	ip.State.SetRegister(uint32(in.rd), v)
	return nil
}

func opClz(ip *Interpreter, in instr) error {
	v := ip.State.GetRegister(uint32(in.rs))
	n := uint32(0)
	for bit := uint32(31); ; bit-- {
		if v&(1<<bit) != 0 {
			break
		}
		n++
		if bit == 0 {
			break
		}
	}
	ip.State.SetRegister(uint32(in.rd), n)
	return nil
}
