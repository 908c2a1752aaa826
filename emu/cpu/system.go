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

// CPUID fields, returned packed into a single dword by the CPUID opcode:
// a fixed architecture ID, register count, word size in bits and flag count.
const (
	cpuidArchID    = 0x56 // 'V'
	cpuidRegCount  = 16
	cpuidWordBits  = 32
	cpuidFlagCount = 8
)

// execSystem handles HALT/INT/CLI/STI/IRET/IN/OUT/CPUID/RESET/DEBUG.
func (vm *VM) execSystem(instr Instruction) error {
	switch instr.Opcode {
	case OpHALT:
		vm.Halted = true
		return nil

	case OpINT:
		return vm.raiseInterrupt(uint8(instr.Immediate))

	case OpCLI:
		vm.InterruptEnabled = false
		vm.flagSet(FlagI, false)
		return nil

	case OpSTI:
		vm.InterruptEnabled = true
		vm.flagSet(FlagI, true)
		return nil

	case OpIRET:
		return vm.returnFromInterrupt()

	case OpIN:
		if vm.IO == nil {
			return vm.fault(vmerr.IOError, "no device router attached")
		}
		port := uint16(instr.Immediate)
		v, err := vm.IO.In(port)
		if err != nil {
			return vm.fault(vmerr.IOError, "%v", err)
		}
		vm.setReg(instr.Reg1, v)
		return nil

	case OpOUT:
		if vm.IO == nil {
			return vm.fault(vmerr.IOError, "no device router attached")
		}
		port := uint16(instr.Immediate)
		if err := vm.IO.Out(port, vm.reg(instr.Reg1)); err != nil {
			return vm.fault(vmerr.IOError, "%v", err)
		}
		return nil

	case OpCPUID:
		id := uint32(cpuidArchID)<<24 | uint32(cpuidRegCount)<<16 |
			uint32(cpuidWordBits)<<8 | uint32(cpuidFlagCount)
		vm.setReg(instr.Reg1, id)
		return nil

	case OpRESET:
		vm.Reset()
		return nil

	case OpDEBUG:
		vm.DebugMode = instr.Immediate != 0
		return nil

	default:
		return vm.fault(vmerr.InvalidInstruction, "unrecognized system opcode 0x%02X", instr.Opcode)
	}
}
