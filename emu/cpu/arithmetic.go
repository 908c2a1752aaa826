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

// execArithmetic handles ADD/SUB/MUL/DIV/MOD/INC/DEC/NEG/CMP/ADDC/SUBC.
// Every member of this family writes Z/N/C/O, including the ones (MUL, DIV,
// MOD) whose carry/overflow meaning is documented as a VM-specific quirk
// rather than the textbook ALU definition.
func (vm *VM) execArithmetic(instr Instruction) error {
	acc := vm.reg(instr.Reg1)

	switch instr.Opcode {
	case OpADD:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result, c, o := add32(acc, operand)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), c, o)
		return nil

	case OpSUB:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result, c, o := sub32(acc, operand)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), c, o)
		return nil

	case OpADDC:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result, c, o := addWithCarry(acc, operand, vm.flagTest(FlagC))
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), c, o)
		return nil

	case OpSUBC:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result, c, o := subWithBorrow(acc, operand, vm.flagTest(FlagC))
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), c, o)
		return nil

	case OpMUL:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result, o := mul32(acc, operand)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), o, o)
		return nil

	case OpDIV:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		if operand == 0 {
			return vm.fault(vmerr.DivisionByZero, "DIV by zero at R%d", instr.Reg1)
		}
		result := acc / operand
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), false, false)
		return nil

	case OpMOD:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		if operand == 0 {
			return vm.fault(vmerr.DivisionByZero, "MOD by zero at R%d", instr.Reg1)
		}
		result := acc % operand
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), false, false)
		return nil

	case OpINC:
		result, c, o := add32(acc, 1)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), c, o)
		return nil

	case OpDEC:
		result, c, o := sub32(acc, 1)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), c, o)
		return nil

	case OpNEG:
		result, c, o := sub32(0, acc)
		vm.setReg(instr.Reg1, result)
		vm.setArithFlags(result, isZero(result), isNeg(result), c, o)
		return nil

	case OpCMP:
		operand, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		result, c, o := sub32(acc, operand)
		vm.setArithFlags(result, isZero(result), isNeg(result), c, o)
		return nil

	default:
		return vm.fault(vmerr.InvalidInstruction, "unrecognized arithmetic opcode 0x%02X", instr.Opcode)
	}
}
