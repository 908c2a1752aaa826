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

// execDataTransfer handles NOP/LOAD/STORE/MOVE/LOADB/STOREB/LOADW/STOREW/LEA.
func (vm *VM) execDataTransfer(instr Instruction) error {
	switch instr.Opcode {
	case OpNOP:
		return nil

	case OpLOAD:
		v, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		vm.setReg(instr.Reg1, v)
		return nil

	case OpSTORE:
		if instr.Mode == ModeIMM {
			return vm.fault(vmerr.InvalidInstruction, "STORE cannot target an immediate")
		}
		return vm.storeOperand(instr, vm.reg(instr.Reg1))

	case OpMOVE:
		v, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		vm.setReg(instr.Reg1, v)
		return nil

	case OpLOADB:
		addr, err := vm.effectiveAddress(instr)
		if err != nil {
			return err
		}
		b, err := vm.Mem.ReadByte(addr)
		if err != nil {
			return err
		}
		vm.setReg(instr.Reg1, uint32(b))
		return nil

	case OpSTOREB:
		addr, err := vm.effectiveAddress(instr)
		if err != nil {
			return err
		}
		return vm.Mem.WriteByte(addr, uint8(vm.reg(instr.Reg1)))

	case OpLOADW:
		addr, err := vm.effectiveAddress(instr)
		if err != nil {
			return err
		}
		w, err := vm.Mem.ReadWord(addr)
		if err != nil {
			return err
		}
		vm.setReg(instr.Reg1, uint32(w))
		return nil

	case OpSTOREW:
		addr, err := vm.effectiveAddress(instr)
		if err != nil {
			return err
		}
		return vm.Mem.WriteWord(addr, uint16(vm.reg(instr.Reg1)))

	case OpLEA:
		addr, err := vm.effectiveAddress(instr)
		if err != nil {
			return err
		}
		vm.setReg(instr.Reg1, addr)
		return nil

	default:
		return vm.fault(vmerr.InvalidInstruction, "unrecognized data transfer opcode 0x%02X", instr.Opcode)
	}
}
