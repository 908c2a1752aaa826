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

package asm

import "github.com/vm32sys/vm32/emu/cpu"

// shape describes how many operands a mnemonic takes and what they mean,
// since the instruction word's reg1/mode/reg2/imm fields carry different
// things for different opcodes.
type shape int

const (
	shapeNone       shape = iota // HALT, RET, NOP, ...
	shapeReg                     // INC R1 (reg1 only)
	shapeRegOperand              // ADD R1, [operand] (reg1 + addressed operand)
	shapeJump                    // JMP target (addressed operand only, no reg1)
	shapeJumpReg                 // LOOP R1, target (reg1 is the counter, operand is target)
	shapeImm                     // INT 3 / SYSCALL 2 / ENTER 16 / DEBUG 1 (bare immediate)
)

type mnemonic struct {
	opcode uint8
	shape  shape
}

var mnemonics = map[string]mnemonic{
	"NOP":    {cpu.OpNOP, shapeNone},
	"LOAD":   {cpu.OpLOAD, shapeRegOperand},
	"STORE":  {cpu.OpSTORE, shapeRegOperand},
	"MOVE":   {cpu.OpMOVE, shapeRegOperand},
	"LOADB":  {cpu.OpLOADB, shapeRegOperand},
	"STOREB": {cpu.OpSTOREB, shapeRegOperand},
	"LOADW":  {cpu.OpLOADW, shapeRegOperand},
	"STOREW": {cpu.OpSTOREW, shapeRegOperand},
	"LEA":    {cpu.OpLEA, shapeRegOperand},

	"ADD":  {cpu.OpADD, shapeRegOperand},
	"SUB":  {cpu.OpSUB, shapeRegOperand},
	"MUL":  {cpu.OpMUL, shapeRegOperand},
	"DIV":  {cpu.OpDIV, shapeRegOperand},
	"MOD":  {cpu.OpMOD, shapeRegOperand},
	"INC":  {cpu.OpINC, shapeReg},
	"DEC":  {cpu.OpDEC, shapeReg},
	"NEG":  {cpu.OpNEG, shapeReg},
	"CMP":  {cpu.OpCMP, shapeRegOperand},
	"ADDC": {cpu.OpADDC, shapeRegOperand},
	"SUBC": {cpu.OpSUBC, shapeRegOperand},

	"AND":  {cpu.OpAND, shapeRegOperand},
	"OR":   {cpu.OpOR, shapeRegOperand},
	"XOR":  {cpu.OpXOR, shapeRegOperand},
	"NOT":  {cpu.OpNOT, shapeReg},
	"SHL":  {cpu.OpSHL, shapeRegOperand},
	"SHR":  {cpu.OpSHR, shapeRegOperand},
	"SAR":  {cpu.OpSAR, shapeRegOperand},
	"ROL":  {cpu.OpROL, shapeRegOperand},
	"ROR":  {cpu.OpROR, shapeRegOperand},
	"TEST": {cpu.OpTEST, shapeRegOperand},

	"JMP":     {cpu.OpJMP, shapeJump},
	"JZ":      {cpu.OpJZ, shapeJump},
	"JNZ":     {cpu.OpJNZ, shapeJump},
	"JN":      {cpu.OpJN, shapeJump},
	"JP":      {cpu.OpJP, shapeJump},
	"JO":      {cpu.OpJO, shapeJump},
	"JC":      {cpu.OpJC, shapeJump},
	"JBE":     {cpu.OpJBE, shapeJump},
	"JA":      {cpu.OpJA, shapeJump},
	"CALL":    {cpu.OpCALL, shapeJump},
	"RET":     {cpu.OpRET, shapeNone},
	"SYSCALL": {cpu.OpSYSCALL, shapeImm},
	"LOOP":    {cpu.OpLOOP, shapeJumpReg},

	"PUSH":  {cpu.OpPUSH, shapeRegOperand},
	"POP":   {cpu.OpPOP, shapeRegOperand},
	"PUSHF": {cpu.OpPUSHF, shapeNone},
	"POPF":  {cpu.OpPOPF, shapeNone},
	"PUSHA": {cpu.OpPUSHA, shapeNone},
	"POPA":  {cpu.OpPOPA, shapeNone},
	"ENTER": {cpu.OpENTER, shapeImm},
	"LEAVE": {cpu.OpLEAVE, shapeNone},

	"HALT":  {cpu.OpHALT, shapeNone},
	"INT":   {cpu.OpINT, shapeImm},
	"CLI":   {cpu.OpCLI, shapeNone},
	"STI":   {cpu.OpSTI, shapeNone},
	"IRET":  {cpu.OpIRET, shapeNone},
	"IN":    {cpu.OpIN, shapeRegOperand},
	"OUT":   {cpu.OpOUT, shapeRegOperand},
	"CPUID": {cpu.OpCPUID, shapeReg},
	"RESET": {cpu.OpRESET, shapeNone},
	"DEBUG": {cpu.OpDEBUG, shapeImm},

	"ALLOC":   {cpu.OpALLOC, shapeRegOperand},
	"FREE":    {cpu.OpFREE, shapeReg},
	"MEMCPY":  {cpu.OpMEMCPY, shapeRegOperand},
	"MEMSET":  {cpu.OpMEMSET, shapeRegOperand},
	"PROTECT": {cpu.OpPROTECT, shapeRegOperand},
}
