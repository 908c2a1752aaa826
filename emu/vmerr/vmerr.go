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

// Package vmerr holds the stable fault taxonomy shared by memory, cpu and
// device code, so none of those packages need import one another just to
// raise an error.
package vmerr

import "fmt"

// Code is a stable fault number, reproduced in image/protocol documentation.
type Code int

const (
	None               Code = 0
	InvalidInstruction Code = 1
	SegmentationFault  Code = 2
	StackOverflow      Code = 3
	StackUnderflow     Code = 4
	DivisionByZero     Code = 5
	InvalidAddress     Code = 6
	InvalidSyscall     Code = 7
	MemoryAllocation   Code = 8
	InvalidAlignment   Code = 9
	UnhandledInterrupt Code = 10
	IOError            Code = 11
	ProtectionFault    Code = 12
	NestedInterrupt    Code = 13
)

var names = map[Code]string{
	None:               "NONE",
	InvalidInstruction: "INVALID_INSTRUCTION",
	SegmentationFault:  "SEGMENTATION_FAULT",
	StackOverflow:      "STACK_OVERFLOW",
	StackUnderflow:     "STACK_UNDERFLOW",
	DivisionByZero:     "DIVISION_BY_ZERO",
	InvalidAddress:     "INVALID_ADDRESS",
	InvalidSyscall:     "INVALID_SYSCALL",
	MemoryAllocation:   "MEMORY_ALLOCATION",
	InvalidAlignment:   "INVALID_ALIGNMENT",
	UnhandledInterrupt: "UNHANDLED_INTERRUPT",
	IOError:            "IO_ERROR",
	ProtectionFault:    "PROTECTION_FAULT",
	NestedInterrupt:    "NESTED_INTERRUPT",
}

// String renders the stable name of a fault code, not its numeric value.
func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(c))
}

// Fault is the sum-type error every handler returns: code plus a formatted
// message plus the PC the fault was raised at. Readers must not parse
// Message, only Code.
type Fault struct {
	Code    Code
	Message string
	PC      uint32
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s at 0x%04X: %s", f.Code, f.PC, f.Message)
}

// New builds a Fault with a formatted message.
func New(code Code, pc uint32, format string, args ...interface{}) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...), PC: pc}
}

// CodeOf extracts the Code from any error produced by this package, or
// None if err is nil and InvalidInstruction if err is a foreign error type.
func CodeOf(err error) Code {
	if err == nil {
		return None
	}
	if f, ok := err.(*Fault); ok {
		return f.Code
	}
	return InvalidInstruction
}
