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

// VectorTableEntries is the fixed size of the interrupt vector table, held
// at the base of the DATA segment: each entry is a 4-byte handler address.
const VectorTableEntries = 16

// raiseInterrupt pushes SR and PC, disables further interrupts (the T
// flag marks a trap in progress), and jumps to the handler named by the
// vector table. INT with interrupts masked by CLI still honors software INT
// (it is a trap, not a maskable external line); whether interrupts were
// enabled is recorded in the I bit of the pushed SR, which IRET restores.
func (vm *VM) raiseInterrupt(vector uint8) error {
	if int(vector) >= VectorTableEntries {
		return vm.fault(vmerr.UnhandledInterrupt, "interrupt vector %d out of range", vector)
	}
	if vm.flagTest(FlagT) {
		return vm.fault(vmerr.NestedInterrupt, "interrupt vector %d raised while already servicing one", vector)
	}

	entryAddr := vm.vectorTableBase + uint32(vector)*4
	handler, err := vm.Mem.ReadDword(entryAddr)
	if err != nil {
		return err
	}
	if handler == 0 {
		return vm.fault(vmerr.UnhandledInterrupt, "vector %d has no handler installed", vector)
	}

	wasEnabled := vm.InterruptEnabled
	vm.flagSet(FlagI, wasEnabled)
	if err := vm.pushDword(vm.Reg[RegSR]); err != nil {
		return err
	}
	if err := vm.pushDword(vm.Reg[RegPC]); err != nil {
		return err
	}
	vm.flagSet(FlagT, true)
	vm.flagSet(FlagI, false)
	vm.InterruptEnabled = false
	vm.Reg[RegPC] = handler
	return nil
}

// returnFromInterrupt pops PC and SR (restoring the saved enabled state
// from the I flag it stashed) and clears the in-service marker.
func (vm *VM) returnFromInterrupt() error {
	if !vm.flagTest(FlagT) {
		return vm.fault(vmerr.UnhandledInterrupt, "IRET with no interrupt in service")
	}
	pc, err := vm.popDword()
	if err != nil {
		return err
	}
	sr, err := vm.popDword()
	if err != nil {
		return err
	}
	vm.Reg[RegPC] = pc
	vm.InterruptEnabled = sr&FlagI != 0
	vm.Reg[RegSR] = sr
	vm.flagSet(FlagT, false)
	return nil
}
