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

// Data transfer opcodes (0x00-0x1F).
const (
	OpNOP    = 0x00
	OpLOAD   = 0x01
	OpSTORE  = 0x02
	OpMOVE   = 0x03
	OpLOADB  = 0x04
	OpSTOREB = 0x05
	OpLOADW  = 0x06
	OpSTOREW = 0x07
	OpLEA    = 0x08
)

// Arithmetic opcodes (0x20-0x3F).
const (
	OpADD  = 0x20
	OpSUB  = 0x21
	OpMUL  = 0x22
	OpDIV  = 0x23
	OpMOD  = 0x24
	OpINC  = 0x25
	OpDEC  = 0x26
	OpNEG  = 0x27
	OpCMP  = 0x28
	OpADDC = 0x2A
	OpSUBC = 0x2B
)

// Logical/shift/rotate opcodes (0x40-0x5F).
const (
	OpAND  = 0x40
	OpOR   = 0x41
	OpXOR  = 0x42
	OpNOT  = 0x43
	OpSHL  = 0x44
	OpSHR  = 0x45
	OpSAR  = 0x46
	OpROL  = 0x47
	OpROR  = 0x48
	OpTEST = 0x49
)

// Control flow opcodes (0x60-0x7F).
const (
	OpJMP     = 0x60
	OpJZ      = 0x61
	OpJNZ     = 0x62
	OpJN      = 0x63
	OpJP      = 0x64
	OpJO      = 0x65
	OpJC      = 0x66
	OpJBE     = 0x67
	OpJA      = 0x68
	OpCALL    = 0x6A
	OpRET     = 0x6B
	OpSYSCALL = 0x6C
	OpLOOP    = 0x6F
)

// Stack/frame opcodes (0x80-0x9F).
const (
	OpPUSH  = 0x80
	OpPOP   = 0x81
	OpPUSHF = 0x82
	OpPOPF  = 0x83
	OpPUSHA = 0x84
	OpPOPA  = 0x85
	OpENTER = 0x86
	OpLEAVE = 0x87
)

// System opcodes (0xA0-0xBF).
const (
	OpHALT  = 0xA0
	OpINT   = 0xA1
	OpCLI   = 0xA2
	OpSTI   = 0xA3
	OpIRET  = 0xA4
	OpIN    = 0xA5
	OpOUT   = 0xA6
	OpCPUID = 0xA7
	OpRESET = 0xA8
	OpDEBUG = 0xA9
)

// Memory control opcodes (0xC0-0xDF).
const (
	OpALLOC   = 0xC0
	OpFREE    = 0xC1
	OpMEMCPY  = 0xC2
	OpMEMSET  = 0xC3
	OpPROTECT = 0xC4
)

// opcodeFamily buckets an opcode into one of the six disjoint, complete
// dispatch ranges from the fetch-decode-execute step.
type opcodeFamily int

const (
	familyDataTransfer opcodeFamily = iota
	familyArithmetic
	familyLogical
	familyControlFlow
	familyStackFrame
	familySystem
	familyMemoryControl
)

func familyOf(opcode uint8) opcodeFamily {
	switch {
	case opcode <= 0x1F:
		return familyDataTransfer
	case opcode <= 0x3F:
		return familyArithmetic
	case opcode <= 0x5F:
		return familyLogical
	case opcode <= 0x7F:
		return familyControlFlow
	case opcode <= 0x9F:
		return familyStackFrame
	case opcode <= 0xBF:
		return familySystem
	default:
		return familyMemoryControl
	}
}
