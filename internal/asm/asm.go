/*
 * VM32 - a 32-bit register virtual machine
 *
 * Copyright 2026, VM32 Contributors
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

package asm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/vm32sys/vm32/emu/cpu"
)

// rawLine is one source line after stripping comments and a label, kept
// around for the second pass.
type rawLine struct {
	lineNo int
	label  string
	text   string
}

// Assemble turns source into a flat stream of 4-byte little-endian
// instruction words, suitable for loading at a known base address (the
// loader places it at the CODE segment's base). Labels resolve to
// byte offsets from that base.
func Assemble(source string) ([]byte, error) {
	lines, err := firstPass(source)
	if err != nil {
		return nil, err
	}
	symbols, err := collectLabels(lines)
	if err != nil {
		return nil, err
	}
	return secondPass(lines, symbols)
}

func firstPass(source string) ([]rawLine, error) {
	var out []rawLine
	for i, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(splitComment(raw))
		if line == "" {
			continue
		}
		label := ""
		if idx := strings.IndexByte(line, ':'); idx >= 0 {
			label = strings.TrimSpace(line[:idx])
			line = strings.TrimSpace(line[idx+1:])
		}
		if label != "" {
			out = append(out, rawLine{lineNo: i + 1, label: label, text: ""})
		}
		if line != "" {
			out = append(out, rawLine{lineNo: i + 1, text: line})
		}
	}
	return out, nil
}

// collectLabels assigns each label the byte offset of the instruction
// that follows it; every non-empty text line is exactly one 4-byte word.
func collectLabels(lines []rawLine) (map[string]int64, error) {
	symbols := make(map[string]int64)
	addr := int64(0)
	for _, l := range lines {
		if l.label != "" {
			if _, exists := symbols[l.label]; exists {
				return nil, fmt.Errorf("line %d: duplicate label %q", l.lineNo, l.label)
			}
			symbols[l.label] = addr
		}
		if l.text != "" {
			addr += 4
		}
	}
	return symbols, nil
}

func secondPass(lines []rawLine, symbols map[string]int64) ([]byte, error) {
	var out []byte
	for _, l := range lines {
		if l.text == "" {
			continue
		}
		instr, err := assembleLine(l.text, symbols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", l.lineNo, err)
		}
		word := cpu.Encode(instr)
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], word)
		out = append(out, buf[:]...)
	}
	return out, nil
}

func assembleLine(text string, symbols map[string]int64) (cpu.Instruction, error) {
	name, rest := splitMnemonic(text)
	m, ok := mnemonics[strings.ToUpper(name)]
	if !ok {
		return cpu.Instruction{}, fmt.Errorf("unknown mnemonic %q", name)
	}
	ops := fields(rest)

	switch m.shape {
	case shapeNone:
		return cpu.Instruction{Opcode: m.opcode}, nil

	case shapeReg:
		reg, err := requireRegister(ops, 0)
		if err != nil {
			return cpu.Instruction{}, err
		}
		return cpu.Instruction{Opcode: m.opcode, Reg1: reg}, nil

	case shapeImm:
		if len(ops) != 1 {
			return cpu.Instruction{}, fmt.Errorf("%s takes one immediate operand", name)
		}
		n, label, err := numberOrLabel(strings.TrimPrefix(ops[0], "#"))
		if err != nil {
			return cpu.Instruction{}, err
		}
		if label != "" {
			v, ok := symbols[label]
			if !ok {
				return cpu.Instruction{}, fmt.Errorf("undefined label %q", label)
			}
			n = v
		}
		return cpu.Instruction{Opcode: m.opcode, Mode: cpu.ModeIMM, Immediate: uint16(n)}, nil

	case shapeJump:
		if len(ops) != 1 {
			return cpu.Instruction{}, fmt.Errorf("%s takes one target operand", name)
		}
		return assembleOperandOnly(m.opcode, ops[0], symbols)

	case shapeJumpReg:
		if len(ops) != 2 {
			return cpu.Instruction{}, fmt.Errorf("%s takes a counter register and a target", name)
		}
		reg, err := requireRegister(ops[:1], 0)
		if err != nil {
			return cpu.Instruction{}, err
		}
		instr, err := assembleOperandOnly(m.opcode, ops[1], symbols)
		if err != nil {
			return cpu.Instruction{}, err
		}
		instr.Reg1 = reg
		return instr, nil

	case shapeRegOperand:
		if len(ops) != 2 {
			return cpu.Instruction{}, fmt.Errorf("%s takes a register and an operand", name)
		}
		reg, err := requireRegister(ops[:1], 0)
		if err != nil {
			return cpu.Instruction{}, err
		}
		instr, err := assembleOperandOnly(m.opcode, ops[1], symbols)
		if err != nil {
			return cpu.Instruction{}, err
		}
		instr.Reg1 = reg
		return instr, nil

	default:
		return cpu.Instruction{}, fmt.Errorf("internal: unhandled shape for %s", name)
	}
}

// assembleOperandOnly builds an Instruction from a single addressed
// operand (no Reg1), resolving any label reference against symbols.
func assembleOperandOnly(opcode uint8, tok string, symbols map[string]int64) (cpu.Instruction, error) {
	op, err := parseOperand(tok)
	if err != nil {
		return cpu.Instruction{}, err
	}
	value := op.value
	if op.isLabel {
		v, ok := symbols[op.label]
		if !ok {
			return cpu.Instruction{}, fmt.Errorf("undefined label %q", op.label)
		}
		value = v
	}

	instr := cpu.Instruction{Opcode: opcode, Mode: op.mode}
	switch op.mode {
	case cpu.ModeIMM, cpu.ModeMEM, cpu.ModeSTK, cpu.ModeBAS:
		instr.Immediate = uint16(value)
	case cpu.ModeREG:
		instr.Reg2 = op.reg2
	case cpu.ModeREGM, cpu.ModeIDX:
		instr.Reg2 = op.reg2
		instr.Immediate = uint16(value) & 0xFFF
	}
	return instr, nil
}

func requireRegister(ops []string, i int) (uint8, error) {
	if i >= len(ops) {
		return 0, fmt.Errorf("missing register operand")
	}
	reg, ok := registerNumber(ops[i])
	if !ok {
		return 0, fmt.Errorf("expected register, got %q", ops[i])
	}
	return reg, nil
}

func splitMnemonic(line string) (string, string) {
	line = skipSpace(line)
	for i, r := range line {
		if r == ' ' || r == '\t' {
			return line[:i], line[i+1:]
		}
	}
	return line, ""
}
