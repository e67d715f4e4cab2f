/*
 * mipsevm - Jump and branch executors
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

// Every branch/jump here targets the instruction *after* the delay slot:
// ip.State.NextPC at execute time is the delay slot's own address, which
// Step installs as the new PC; ip.branch records what NextPC becomes once
// that delay slot retires.

func opJ(ip *Interpreter, in instr) error {
	ip.branch(in.jumpTarget(ip.State.NextPC))
	return nil
}

func opJal(ip *Interpreter, in instr) error {
	ip.State.SetRegister(31, ip.State.NextPC+4)
	ip.branch(in.jumpTarget(ip.State.NextPC))
	return nil
}

func opJr(ip *Interpreter, in instr) error {
	ip.branch(ip.State.GetRegister(uint32(in.rs)))
	return nil
}

func opJalr(ip *Interpreter, in instr) error {
	target := ip.State.GetRegister(uint32(in.rs))
	ip.State.SetRegister(uint32(in.rd), ip.State.NextPC+4)
	ip.branch(target)
	return nil
}

func opBeq(ip *Interpreter, in instr) error {
	if ip.State.GetRegister(uint32(in.rs)) == ip.State.GetRegister(uint32(in.rt)) {
		ip.branch(ip.State.NextPC + in.branchOffset())
	}
	return nil
}

func opBne(ip *Interpreter, in instr) error {
	if ip.State.GetRegister(uint32(in.rs)) != ip.State.GetRegister(uint32(in.rt)) {
		ip.branch(ip.State.NextPC + in.branchOffset())
	}
	return nil
}

func opBlez(ip *Interpreter, in instr) error {
	if int32(ip.State.GetRegister(uint32(in.rs))) <= 0 {
		ip.branch(ip.State.NextPC + in.branchOffset())
	}
	return nil
}

func opBgtz(ip *Interpreter, in instr) error {
	if int32(ip.State.GetRegister(uint32(in.rs))) > 0 {
		ip.branch(ip.State.NextPC + in.branchOffset())
	}
	return nil
}

func opBltz(ip *Interpreter, in instr) error {
	if int32(ip.State.GetRegister(uint32(in.rs))) < 0 {
		ip.branch(ip.State.NextPC + in.branchOffset())
	}
	return nil
}

func opBgez(ip *Interpreter, in instr) error {
	if int32(ip.State.GetRegister(uint32(in.rs))) >= 0 {
		ip.branch(ip.State.NextPC + in.branchOffset())
	}
	return nil
}
