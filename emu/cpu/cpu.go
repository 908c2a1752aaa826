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

// Package cpu is the execution core: fetch-decode-dispatch, the ALU and
// flag discipline, the addressing resolver, the stack/frame manager and the
// interrupt/syscall layer. It owns the VM's registers and drives the
// memory and device-router components through their own packages.
package cpu

import (
	"time"

	"github.com/vm32sys/vm32/emu/device"
	"github.com/vm32sys/vm32/emu/memory"
	"github.com/vm32sys/vm32/emu/vmerr"
)

// Fixed register roles. R5-R14 are general purpose.
const (
	RegACC = 0
	RegBP  = 1
	RegSP  = 2
	RegPC  = 3
	RegSR  = 4
	RegLR  = 15
)

// Status register flag bits.
const (
	FlagZ uint32 = 0x01
	FlagN uint32 = 0x02
	FlagC uint32 = 0x04
	FlagO uint32 = 0x08
	FlagI uint32 = 0x10
	FlagD uint32 = 0x20
	FlagS uint32 = 0x40
	FlagT uint32 = 0x80
)

// Console is the host I/O surface for the console syscalls (0-3). The
// liner-backed command/reader.LinerConsole satisfies it; the console
// device does its I/O through its own reader and writer instead.
type Console interface {
	WriteString(s string) error
	ReadByte() (byte, error)
	ReadLine(max int) (string, error)
}

// VM is one instance of the execution core: registers, owned memory, halt
// state, the I/O router, interrupt/debug flags and diagnostics.
type VM struct {
	Reg [16]uint32

	Mem     *memory.Memory
	IO      *device.Router
	Console Console

	Halted           bool
	DebugMode        bool
	InterruptEnabled bool

	InstructionCount uint64
	LastInstr        Instruction
	LastError        vmerr.Code
	LastMessage      string
	FaultPC          uint32

	vectorTableBase uint32
	rng             rngState
	startedAt       time.Time
	fileRoot        string
	fileTable       fileHandles
	exitCode        int32
	exitRequested   bool
}

// New builds a VM over freshly created memory of the given size (KiB) and
// device router, ready for a loader to populate CODE/DATA before Step runs.
func New(memSizeKiB int, io *device.Router, console Console) *VM {
	vm := &VM{
		Mem:     memory.New(memSizeKiB),
		IO:      io,
		Console: console,
	}
	vm.vectorTableBase = vm.Mem.SegmentBase(memory.Data)
	vm.fileTable = newFileHandles()
	vm.Reset()
	return vm
}

// Close releases host resources the VM is holding, currently just any
// still-open sandboxed file handles.
func (vm *VM) Close() {
	vm.fileTable.closeAll()
	if vm.IO != nil {
		vm.IO.Shutdown()
	}
}

// Reset zeroes registers and memory, disables interrupts, and restarts the
// RNG and instruction-start clock, without resizing memory.
func (vm *VM) Reset() {
	for i := range vm.Reg {
		vm.Reg[i] = 0
	}
	vm.Reg[RegSP] = vm.Mem.SegmentBase(memory.Stack) + vm.Mem.SegmentSize(memory.Stack)
	vm.Reg[RegPC] = vm.Mem.SegmentBase(memory.Code)
	vm.Mem.Reset()
	vm.Halted = false
	vm.DebugMode = false
	vm.InterruptEnabled = false
	vm.InstructionCount = 0
	vm.LastInstr = Instruction{}
	vm.LastError = vmerr.None
	vm.LastMessage = ""
	vm.FaultPC = 0
	vm.rng = newRNG(0xC0FFEE)
	vm.startedAt = time.Now()
	vm.exitRequested = false
	vm.exitCode = 0
}

// SetFileRoot sandboxes syscalls 10-19 to files under root.
func (vm *VM) SetFileRoot(root string) { vm.fileRoot = root }

// Exited reports whether SYSCALL 30 (process exit) has fired, and its code.
func (vm *VM) Exited() (bool, int32) { return vm.exitRequested, vm.exitCode }

// flagSet/flagClear/flagTest manipulate individual SR bits.
func (vm *VM) flagSet(bit uint32, on bool) {
	if on {
		vm.Reg[RegSR] |= bit
	} else {
		vm.Reg[RegSR] &^= bit
	}
}

func (vm *VM) flagTest(bit uint32) bool {
	return vm.Reg[RegSR]&bit != 0
}

// setArithFlags writes Z/N/C/O into SR after an arithmetic/logical op.
func (vm *VM) setArithFlags(result uint32, z, n, c, o bool) {
	vm.flagSet(FlagZ, z)
	vm.flagSet(FlagN, n)
	vm.flagSet(FlagC, c)
	vm.flagSet(FlagO, o)
	_ = result
}

// fault builds a Fault at the current FaultPC and mirrors it into the VM's
// last-error convenience fields for the host.
func (vm *VM) fault(code vmerr.Code, format string, args ...interface{}) error {
	f := vmerr.New(code, vm.FaultPC, format, args...)
	vm.LastError = f.Code
	vm.LastMessage = f.Message
	return f
}
