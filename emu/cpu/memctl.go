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

import (
	"github.com/vm32sys/vm32/emu/memory"
	"github.com/vm32sys/vm32/emu/vmerr"
)

// execMemoryControl handles ALLOC/FREE/MEMCPY/MEMSET/PROTECT. Reg1 is the
// destination register for ALLOC's returned pointer; for the rest it names
// the pointer/address operand the instruction starts from, with the
// addressing mode supplying any remaining operand.
func (vm *VM) execMemoryControl(instr Instruction) error {
	switch instr.Opcode {
	case OpALLOC:
		size, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		p, err := vm.Mem.Allocate(size)
		if err != nil {
			return err
		}
		vm.setReg(instr.Reg1, p)
		return nil

	case OpFREE:
		return vm.Mem.Free(vm.reg(instr.Reg1))

	case OpMEMCPY:
		// Reg1 names the destination address, Reg2 the source address, and
		// the immediate gives the byte count.
		n := uint32(instr.Immediate)
		return vm.Mem.Copy(vm.reg(instr.Reg1), vm.reg(instr.Reg2), n)

	case OpMEMSET:
		// Reg1 names the destination address, the immediate gives the byte
		// count, and Reg2's low 8 bits supply the fill byte.
		n := uint32(instr.Immediate)
		return vm.Mem.Fill(vm.reg(instr.Reg1), uint8(vm.reg(instr.Reg2)), n)

	case OpPROTECT:
		perm, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		return vm.Mem.Protect(vm.reg(instr.Reg1), memory.Perm(perm))

	default:
		return vm.fault(vmerr.InvalidInstruction, "unrecognized memory control opcode 0x%02X", instr.Opcode)
	}
}
