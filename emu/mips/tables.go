/*
 * mipsevm - Dispatch table construction
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

// createTables wires every opcode/funct slot this instruction set defines.
// table is keyed by funct under SPECIAL, special2Table by funct under
// SPECIAL2, regimmTable by rt under REGIMM, and opcodeTable by the
// primary opcode for everything else.
func (ip *Interpreter) createTables() {
	ip.table = [64]func(*Interpreter, instr) error{
		fnSll: opSll, fnSrl: opSrl, fnSra: opSra,
		fnSllv: opSllv, fnSrlv: opSrlv, fnSrav: opSrav,
		fnJr: opJr, fnJalr: opJalr,
		fnSyscall: opSyscall, fnSync: opSync,
		fnMfhi: opMfhi, fnMthi: opMthi, fnMflo: opMflo, fnMtlo: opMtlo,
		fnMult: opMult, fnMultu: opMultu, fnDiv: opDiv, fnDivu: opDivu,
		fnAdd: opAdd, fnAddu: opAddu, fnSub: opSub, fnSubu: opSubu,
		fnAnd: opAnd, fnOr: opOr, fnXor: opXor, fnNor: opNor,
		fnSlt: opSlt, fnSltu: opSltu,
	}

	ip.special2Table = [64]func(*Interpreter, instr) error{
		fn2Mul: opMul, fn2Clz: opClz,
	}

	ip.regimmTable = [32]func(*Interpreter, instr) error{
		rtBltz: opBltz, rtBgez: opBgez,
	}

	ip.opcodeTable = [64]func(*Interpreter, instr) error{
		opcJ: opJ, opcJal: opJal,
		opcBeq: opBeq, opcBne: opBne, opcBlez: opBlez, opcBgtz: opBgtz,
		opcAddi: opAddi, opcAddiu: opAddiu, opcSlti: opSlti, opcSltiu: opSltiu,
		opcAndi: opAndi, opcOri: opOri, opcXori: opXori, opcLui: opLui,
		opcLb: opLb, opcLh: opLh, opcLw: opLw, opcLbu: opLbu, opcLhu: opLhu, opcLwr: opLwr,
		opcSb: opSb, opcSh: opSh, opcSw: opSw, opcSwr: opSwr,
	}
}
