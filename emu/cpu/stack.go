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

// The stack grows down from the top of the STACK segment. pushDword and
// popDword are the shared primitives every PUSH/POP-family instruction,
// CALL/RET, and the interrupt entry/return path build on.

func (vm *VM) pushDword(v uint32) error {
	newSP := vm.Reg[RegSP] - 4
	if newSP < vm.Mem.SegmentBase(memory.Stack) {
		return vm.fault(vmerr.StackOverflow, "push would underflow STACK segment base")
	}
	if err := vm.Mem.WriteDword(newSP, v); err != nil {
		return err
	}
	vm.Reg[RegSP] = newSP
	return nil
}

func (vm *VM) popDword() (uint32, error) {
	sp := vm.Reg[RegSP]
	top := vm.Mem.SegmentBase(memory.Stack) + vm.Mem.SegmentSize(memory.Stack)
	if sp+4 > top {
		return 0, vm.fault(vmerr.StackUnderflow, "pop would read past STACK segment top")
	}
	v, err := vm.Mem.ReadDword(sp)
	if err != nil {
		return 0, err
	}
	vm.Reg[RegSP] = sp + 4
	return v, nil
}

// execStackFrame handles PUSH/POP/PUSHF/POPF/PUSHA/POPA/ENTER/LEAVE.
func (vm *VM) execStackFrame(instr Instruction) error {
	switch instr.Opcode {
	case OpPUSH:
		v, err := vm.operandValue(instr)
		if err != nil {
			return err
		}
		return vm.pushDword(v)

	case OpPOP:
		v, err := vm.popDword()
		if err != nil {
			return err
		}
		if instr.Mode == ModeIMM {
			return vm.fault(vmerr.InvalidInstruction, "POP cannot target an immediate")
		}
		return vm.storeOperand(instr, v)

	case OpPUSHF:
		return vm.pushDword(vm.Reg[RegSR])

	case OpPOPF:
		v, err := vm.popDword()
		if err != nil {
			return err
		}
		vm.Reg[RegSR] = v
		return nil

	case OpPUSHA:
		// The SP slot records the SP as it stood before any of these
		// pushes, not the live value the intervening pushes decrement.
		origSP := vm.Reg[RegSP]
		for i := 0; i < 16; i++ {
			v := vm.Reg[i]
			if i == RegSP {
				v = origSP
			}
			if err := vm.pushDword(v); err != nil {
				return err
			}
		}
		return nil

	case OpPOPA:
		// The SP slot is skipped: its dword is popped (so SP still advances
		// by 4 for it) but discarded rather than overwriting the live SP.
		for i := 15; i >= 0; i-- {
			v, err := vm.popDword()
			if err != nil {
				return err
			}
			if i == RegSP {
				continue
			}
			vm.Reg[i] = v
		}
		return nil

	case OpENTER:
		savedBP := vm.Reg[RegBP]
		if err := vm.pushDword(savedBP); err != nil {
			return err
		}
		newBP := vm.Reg[RegSP]
		frameSize := uint32(instr.Immediate)
		newSP := newBP - frameSize
		if newSP < vm.Mem.SegmentBase(memory.Stack) {
			// Roll back: undo the BP push before faulting.
			if _, err := vm.popDword(); err != nil {
				return err
			}
			return vm.fault(vmerr.StackOverflow, "ENTER frame of %d bytes overflows STACK segment", frameSize)
		}
		vm.Reg[RegBP] = newBP
		vm.Reg[RegSP] = newSP
		return nil

	case OpLEAVE:
		vm.Reg[RegSP] = vm.Reg[RegBP]
		v, err := vm.popDword()
		if err != nil {
			return err
		}
		vm.Reg[RegBP] = v
		return nil

	default:
		return vm.fault(vmerr.InvalidInstruction, "unrecognized stack/frame opcode 0x%02X", instr.Opcode)
	}
}
