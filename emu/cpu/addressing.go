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

func signExtend12(v uint16) int32 {
	v &= 0xFFF
	if v&0x800 != 0 {
		return int32(v) - 0x1000
	}
	return int32(v)
}

func signExtend16(v uint16) int32 {
	return int32(int16(v))
}

func (vm *VM) reg(i uint8) uint32     { return vm.Reg[i&0xF] }
func (vm *VM) setReg(i uint8, v uint32) { vm.Reg[i&0xF] = v }

// effectiveAddress resolves the memory address an instruction's second
// operand names, for every mode that names one. REG does not (it names a
// register, not memory) and callers must not call this for ModeREG.
func (vm *VM) effectiveAddress(instr Instruction) (uint32, error) {
	switch instr.Mode {
	case ModeMEM:
		return uint32(instr.Immediate), nil
	case ModeREGM:
		return vm.reg(instr.Reg2), nil
	case ModeIDX:
		base := vm.reg(instr.Reg2)
		return uint32(int64(base) + int64(signExtend12(instr.Immediate))), nil
	case ModeSTK:
		return uint32(int64(vm.Reg[RegSP]) + int64(signExtend16(instr.Immediate))), nil
	case ModeBAS:
		return uint32(int64(vm.Reg[RegBP]) + int64(signExtend16(instr.Immediate))), nil
	default:
		return 0, vmerr.New(vmerr.InvalidInstruction, vm.FaultPC, "mode %d does not name a memory address", instr.Mode)
	}
}

// operandValue reads the instruction's second operand as a 32-bit value:
// an immediate for IMM, a register's contents for REG, or a memory dword
// for the four address-bearing modes.
func (vm *VM) operandValue(instr Instruction) (uint32, error) {
	switch instr.Mode {
	case ModeIMM:
		return uint32(instr.Immediate), nil
	case ModeREG:
		return vm.reg(instr.Reg2), nil
	default:
		addr, err := vm.effectiveAddress(instr)
		if err != nil {
			return 0, err
		}
		return vm.Mem.ReadDword(addr)
	}
}

// storeOperand writes v to wherever the instruction's second operand
// names: a register for REG, memory otherwise. IMM is not a valid store
// target and is rejected by the caller before this is reached.
func (vm *VM) storeOperand(instr Instruction, v uint32) error {
	if instr.Mode == ModeREG {
		vm.setReg(instr.Reg2, v)
		return nil
	}
	addr, err := vm.effectiveAddress(instr)
	if err != nil {
		return err
	}
	return vm.Mem.WriteDword(addr, v)
}
