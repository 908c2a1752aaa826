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

// jumpTarget resolves a control-flow instruction's destination address.
// IMM and REG name the address directly; the memory-addressing modes name
// it the same way LEA would, as a computed address rather than a value to
// dereference.
func (vm *VM) jumpTarget(instr Instruction) (uint32, error) {
	switch instr.Mode {
	case ModeIMM:
		return uint32(instr.Immediate), nil
	case ModeREG:
		return vm.reg(instr.Reg2), nil
	default:
		return vm.effectiveAddress(instr)
	}
}

// execControlFlow handles the jump family, CALL/RET, SYSCALL and LOOP.
func (vm *VM) execControlFlow(instr Instruction) error {
	switch instr.Opcode {
	case OpJMP:
		target, err := vm.jumpTarget(instr)
		if err != nil {
			return err
		}
		vm.Reg[RegPC] = target
		return nil

	case OpJZ:
		return vm.condJump(instr, vm.flagTest(FlagZ))
	case OpJNZ:
		return vm.condJump(instr, !vm.flagTest(FlagZ))
	case OpJN:
		return vm.condJump(instr, vm.flagTest(FlagN))
	case OpJP:
		return vm.condJump(instr, !vm.flagTest(FlagN) && !vm.flagTest(FlagZ))
	case OpJO:
		return vm.condJump(instr, vm.flagTest(FlagO))
	case OpJC:
		return vm.condJump(instr, vm.flagTest(FlagC))
	case OpJBE:
		return vm.condJump(instr, vm.flagTest(FlagC) || vm.flagTest(FlagZ))
	case OpJA:
		return vm.condJump(instr, !vm.flagTest(FlagC) && !vm.flagTest(FlagZ))

	case OpCALL:
		target, err := vm.jumpTarget(instr)
		if err != nil {
			return err
		}
		if err := vm.pushDword(vm.Reg[RegPC]); err != nil {
			return err
		}
		vm.Reg[RegLR] = vm.Reg[RegPC]
		vm.Reg[RegPC] = target
		return nil

	case OpRET:
		ret, err := vm.popDword()
		if err != nil {
			return err
		}
		vm.Reg[RegPC] = ret
		if instr.Immediate > 0 {
			vm.Reg[RegSP] += uint32(instr.Immediate)
		}
		return nil

	case OpSYSCALL:
		return vm.syscall(uint32(instr.Immediate))

	case OpLOOP:
		target, err := vm.jumpTarget(instr)
		if err != nil {
			return err
		}
		vm.Reg[instr.Reg1]--
		if vm.Reg[instr.Reg1] != 0 {
			vm.Reg[RegPC] = target
		}
		return nil

	default:
		return vm.fault(vmerr.InvalidInstruction, "unrecognized control flow opcode 0x%02X", instr.Opcode)
	}
}

func (vm *VM) condJump(instr Instruction, take bool) error {
	if !take {
		return nil
	}
	target, err := vm.jumpTarget(instr)
	if err != nil {
		return err
	}
	vm.Reg[RegPC] = target
	return nil
}
