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

import "github.com/vm32sys/vm32/emu/vmerr"

// Shift/rotate counts come from the operand's low 5 bits: a 32-bit lane
// only has 32 distinct shift amounts.
func shiftCount(v uint32) uint {
	return uint(v & 0x1F)
}

// carryOrUnchanged returns shifted when n shifted at least one bit, and the
// current C flag otherwise: a zero count leaves C unchanged.
func (vm *VM) carryOrUnchanged(n uint, shifted bool) bool {
	if n == 0 {
		return vm.flagTest(FlagC)
	}
	return shifted
}

// execLogical handles AND/OR/XOR/NOT/SHL/SHR/SAR/ROL/ROR/TEST. O is always
// cleared by the bitwise and shift/rotate family; only C (from the last bit
// shifted out) and Z/N are meaningful here.
func (vm *VM) execLogical(instr Instruction) error {
	acc := vm.reg(instr.Reg1)

	switch instr.Opcode {
	case OpAND:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result := acc & operand
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), false, false)
		return nil

	case OpOR:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result := acc | operand
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), false, false)
		return nil

	case OpXOR:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result := acc ^ operand
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), false, false)
		return nil

	case OpNOT:
		result := ^acc
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), false, false)
		return nil

	case OpSHL:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		n := shiftCount(operand)
		result, c := shl32(acc, n)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), vm.carryOrUnchanged(n, c), false)
		return nil

	case OpSHR:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		n := shiftCount(operand)
		result, c := shr32(acc, n)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), vm.carryOrUnchanged(n, c), false)
		return nil

	case OpSAR:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		n := shiftCount(operand)
		result, c := sar32(acc, n)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), vm.carryOrUnchanged(n, c), false)
		return nil

	case OpROL:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		n := shiftCount(operand)
		result, c := rol32(acc, n)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), vm.carryOrUnchanged(n, c), false)
		return nil

	case OpROR:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		n := shiftCount(operand)
		result, c := ror32(acc, n)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), vm.carryOrUnchanged(n, c), false)
		return nil

	case OpTEST:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result := acc & operand
		vm.setArithFlags(result, isZero(result), isNeg(result), false, false)
		return nil

	default:
		return vm.fault(vmerr.InvalidInstruction, "unrecognized logical opcode 0x%02X", instr.Opcode)
	}
}
