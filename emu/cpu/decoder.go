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

package cpu

// Addressing modes. REG/REGM/IDX carry a register selector in reg2 plus a
// 12-bit displacement; IMM/MEM/STK/BAS fold reg2 into the high nibble of a
// widened 16-bit immediate instead.
const (
	ModeIMM = 0
	ModeREG = 1
	ModeMEM = 2
	ModeREGM = 3
	ModeIDX = 4
	ModeSTK = 5
	ModeBAS = 6
)

// foldsImmediate reports whether mode widens reg2+imm12 into a 16-bit
// immediate (true) or keeps reg2 as a register selector (false).
func foldsImmediate(mode uint8) bool {
	switch mode {
	case ModeIMM, ModeMEM, ModeSTK, ModeBAS:
		return true
	default:
		return false
	}
}

// Instruction is a decoded 32-bit word: opcode/mode/reg1/reg2/immediate.
// Immediate is already widened to 16 bits for the fold-carrying modes.
type Instruction struct {
	Opcode    uint8
	Mode      uint8
	Reg1      uint8
	Reg2      uint8
	Immediate uint16
}

// Decode splits a raw 32-bit instruction word into its fields, per the
// bit layout: opcode(31-24) mode(23-20) reg1(19-16) reg2(15-12) imm(11-0).
func Decode(word uint32) Instruction {
	opcode := uint8(word >> 24)
	mode := uint8((word >> 20) & 0xF)
	reg1 := uint8((word >> 16) & 0xF)
	reg2 := uint8((word >> 12) & 0xF)
	imm12 := uint16(word & 0xFFF)

	instr := Instruction{Opcode: opcode, Mode: mode, Reg1: reg1, Reg2: reg2}
	if foldsImmediate(mode) {
		instr.Immediate = uint16(reg2)<<12 | imm12
	} else {
		instr.Immediate = imm12
	}
	return instr
}

// Encode reassembles a raw instruction word from its fields, inverting the
// reg2-fold so that Decode(Encode(i)) == i for any valid i. In the folding
// modes Encode ignores i.Reg2 and Decode returns the immediate's top nibble
// there, so a valid i carries that nibble in Reg2.
func Encode(instr Instruction) uint32 {
	var reg2, imm12 uint16
	if foldsImmediate(instr.Mode) {
		reg2 = instr.Immediate >> 12
		imm12 = instr.Immediate & 0xFFF
	} else {
		reg2 = uint16(instr.Reg2)
		imm12 = instr.Immediate & 0xFFF
	}
	word := uint32(instr.Opcode)<<24 |
		uint32(instr.Mode&0xF)<<20 |
		uint32(instr.Reg1&0xF)<<16 |
		uint32(reg2&0xF)<<12 |
		uint32(imm12&0xFFF)
	return word
}

// decodeAt reads the instruction word at addr and decodes it, surfacing
// memory faults for an out-of-bounds or non-executable fetch.
func (vm *VM) decodeAt(addr uint32) (Instruction, error) {
	word, err := vm.Mem.ReadDword(addr)
	if err != nil {
		return Instruction{}, err
	}
	return Decode(word), nil
}
