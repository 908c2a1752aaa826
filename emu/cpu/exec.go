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

// Step fetches, decodes and executes a single instruction. FaultPC is
// captured before PC advances, so a fault always points at the instruction
// that caused it rather than the next one in line.
func (vm *VM) Step() error {
	if vm.Halted {
		return vm.fault(vmerr.InvalidInstruction, "Step called on a halted VM")
	}

	pc := vm.Reg[RegPC]
	vm.FaultPC = pc

	instr, err := vm.decodeAt(pc)
	if err == nil {
		vm.Reg[RegPC] = pc + 4
		vm.LastInstr = instr
		vm.InstructionCount++
		err = vm.dispatch(instr)
	}
	if f, ok := err.(*vmerr.Fault); ok {
		f.PC = vm.FaultPC
		vm.LastError = f.Code
		vm.LastMessage = f.Message
	}
	return err
}

// Run steps until the VM halts, a fault occurs, or max instructions have
// executed (max <= 0 means unbounded).
func (vm *VM) Run(max int64) error {
	for max <= 0 || vm.InstructionCount < uint64(max) {
		if vm.Halted || vm.exitRequested {
			return nil
		}
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) dispatch(instr Instruction) error {
	switch familyOf(instr.Opcode) {
	case familyDataTransfer:
		return vm.execDataTransfer(instr)
	case familyArithmetic:
		return vm.execArithmetic(instr)
	case familyLogical:
		return vm.execLogical(instr)
	case familyControlFlow:
		return vm.execControlFlow(instr)
	case familyStackFrame:
		return vm.execStackFrame(instr)
	case familySystem:
		return vm.execSystem(instr)
	case familyMemoryControl:
		return vm.execMemoryControl(instr)
	default:
		return vm.fault(vmerr.InvalidInstruction, "opcode 0x%02X has no dispatch family", instr.Opcode)
	}
}
