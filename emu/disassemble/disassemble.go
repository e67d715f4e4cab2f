/*
 * mipsevm - MIPS32 disassembler
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

// Package disassembler renders a best-effort mnemonic for a single
// 32-bit MIPS instruction word, for the debug REPL's "dis" command.
package disassembler

import (
	"fmt"
)

const (
	fmtR = 1 + iota // rd, rs, rt
	fmtShift        // rd, rt, shamt
	fmtJR           // rs only (jr/jalr)
	fmtNone         // no operands (sync)
	fmtI            // rt, rs, imm
	fmtILoadStore   // rt, offset(rs)
	fmtIBranch      // rs, rt, offset  (pc-relative)
	fmtIBranch1     // rs, offset      (pc-relative, one register)
	fmtLui          // rt, imm
	fmtJ            // target
)

type opcode struct {
	name string
	kind int
}

var specialMap = map[uint8]opcode{
	0x00: {"sll", fmtShift},
	0x02: {"srl", fmtShift},
	0x03: {"sra", fmtShift},
	0x04: {"sllv", fmtR},
	0x06: {"srlv", fmtR},
	0x07: {"srav", fmtR},
	0x08: {"jr", fmtJR},
	0x09: {"jalr", fmtJR},
	0x0c: {"syscall", fmtNone},
	0x0f: {"sync", fmtNone},
	0x10: {"mfhi", fmtJR},
	0x11: {"mthi", fmtJR},
	0x12: {"mflo", fmtJR},
	0x13: {"mtlo", fmtJR},
	0x18: {"mult", fmtR},
	0x19: {"multu", fmtR},
	0x1a: {"div", fmtR},
	0x1b: {"divu", fmtR},
	0x20: {"add", fmtR},
	0x21: {"addu", fmtR},
	0x22: {"sub", fmtR},
	0x23: {"subu", fmtR},
	0x24: {"and", fmtR},
	0x25: {"or", fmtR},
	0x26: {"xor", fmtR},
	0x27: {"nor", fmtR},
	0x2a: {"slt", fmtR},
	0x2b: {"sltu", fmtR},
}

var special2Map = map[uint8]opcode{
	0x02: {"mul", fmtR},
	0x20: {"clz", fmtJR},
}

var regimmMap = map[uint8]opcode{
	0x00: {"bltz", fmtIBranch1},
	0x01: {"bgez", fmtIBranch1},
}

var opcodeMap = map[uint8]opcode{
	0x02: {"j", fmtJ},
	0x03: {"jal", fmtJ},
	0x04: {"beq", fmtIBranch},
	0x05: {"bne", fmtIBranch},
	0x06: {"blez", fmtIBranch1},
	0x07: {"bgtz", fmtIBranch1},
	0x08: {"addi", fmtI},
	0x09: {"addiu", fmtI},
	0x0a: {"slti", fmtI},
	0x0b: {"sltiu", fmtI},
	0x0c: {"andi", fmtI},
	0x0d: {"ori", fmtI},
	0x0e: {"xori", fmtI},
	0x0f: {"lui", fmtLui},
	0x20: {"lb", fmtILoadStore},
	0x21: {"lh", fmtILoadStore},
	0x23: {"lw", fmtILoadStore},
	0x24: {"lbu", fmtILoadStore},
	0x25: {"lhu", fmtILoadStore},
	0x26: {"lwr", fmtILoadStore},
	0x28: {"sb", fmtILoadStore},
	0x29: {"sh", fmtILoadStore},
	0x2b: {"sw", fmtILoadStore},
	0x2e: {"swr", fmtILoadStore},
}

func regName(n uint8) string {
	return fmt.Sprintf("$%d", n)
}

func signExt16(v uint16) int32 {
	return int32(int16(v))
}

// Disassemble renders word (fetched from address pc) as a mnemonic
// string. Unrecognized encodings render as a raw hex word, matching the
// teacher's undefined-opcode fallback.
func Disassemble(word uint32, pc uint32) string {
	opc := uint8(word >> 26)
	rs := uint8((word >> 21) & 0x1f)
	rt := uint8((word >> 16) & 0x1f)
	rd := uint8((word >> 11) & 0x1f)
	shamt := uint8((word >> 6) & 0x1f)
	funct := uint8(word & 0x3f)
	imm := uint16(word & 0xffff)

	var op opcode
	var ok bool
	switch opc {
	case 0x00:
		op, ok = specialMap[funct]
	case 0x1c:
		op, ok = special2Map[funct]
	case 0x01:
		op, ok = regimmMap[rt]
	default:
		op, ok = opcodeMap[opc]
	}
	if !ok {
		return fmt.Sprintf("word %08x", word)
	}

	switch op.kind {
	case fmtR:
		return fmt.Sprintf("%-8s%s, %s, %s", op.name, regName(rd), regName(rs), regName(rt))
	case fmtShift:
		return fmt.Sprintf("%-8s%s, %s, %d", op.name, regName(rd), regName(rt), shamt)
	case fmtJR:
		if op.name == "jalr" {
			return fmt.Sprintf("%-8s%s, %s", op.name, regName(rd), regName(rs))
		}
		return fmt.Sprintf("%-8s%s", op.name, regName(rs))
	case fmtNone:
		return op.name
	case fmtI:
		return fmt.Sprintf("%-8s%s, %s, %d", op.name, regName(rt), regName(rs), signExt16(imm))
	case fmtLui:
		return fmt.Sprintf("%-8s%s, 0x%x", op.name, regName(rt), imm)
	case fmtILoadStore:
		return fmt.Sprintf("%-8s%s, %d(%s)", op.name, regName(rt), signExt16(imm), regName(rs))
	case fmtIBranch:
		target := pc + 4 + uint32(signExt16(imm)<<2)
		return fmt.Sprintf("%-8s%s, %s, 0x%08x", op.name, regName(rs), regName(rt), target)
	case fmtIBranch1:
		target := pc + 4 + uint32(signExt16(imm)<<2)
		return fmt.Sprintf("%-8s%s, 0x%08x", op.name, regName(rs), target)
	case fmtJ:
		target := (pc & 0xf0000000) | ((word & 0x03ffffff) << 2)
		return fmt.Sprintf("%-8s0x%08x", op.name, target)
	default:
		return fmt.Sprintf("word %08x", word)
	}
}
