/*
 * mipsevm - Immediate arithmetic/logical executors
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

func opAddi(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rt), ip.State.GetRegister(uint32(in.rs))+in.signExt16())
	return nil
}

func opAddiu(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rt), ip.State.GetRegister(uint32(in.rs))+in.signExt16())
	return nil
}

func opSlti(ip *Interpreter, in instr) error {
	var v uint32
	if int32(ip.State.GetRegister(uint32(in.rs))) < int32(in.signExt16()) {
		v = 1
	}
	ip.State.SetRegister(uint32(in.rt), v)
	return nil
}

func opSltiu(ip *Interpreter, in instr) error {
	var v uint32
	if ip.State.GetRegister(uint32(in.rs)) < in.signExt16() {
		v = 1
	}
	ip.State.SetRegister(uint32(in.rt), v)
	return nil
}

func opAndi(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rt), ip.State.GetRegister(uint32(in.rs))&in.zeroExt16())
	return nil
}

func opOri(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rt), ip.State.GetRegister(uint32(in.rs))|in.zeroExt16())
	return nil
}

func opXori(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rt), ip.State.GetRegister(uint32(in.rs))^in.zeroExt16())
	return nil
}

func opLui(ip *Interpreter, in instr) error {
	ip.State.SetRegister(uint32(in.rt), in.zeroExt16()<<16)
	return nil
}
