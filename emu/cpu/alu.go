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

// The ALU helpers below are pure functions of their operands: they compute
// a result plus Z/N/C/O without touching VM state, so exec.go can decide
// which of them actually get written back to SR per instruction.

func isZero(v uint32) bool { return v == 0 }
func isNeg(v uint32) bool  { return v&0x80000000 != 0 }

// addWithCarry computes a+b+carryIn and reports the carry-out and signed
// overflow, matching a ripple-carry adder's definitions: carry-out is an
// unsigned overflow out of bit 31, signed overflow is operands-same-sign,
// result-different-sign.
func addWithCarry(a, b uint32, carryIn bool) (result uint32, carryOut, overflow bool) {
	var cin uint64
	if carryIn {
		cin = 1
	}
	wide := uint64(a) + uint64(b) + cin
	result = uint32(wide)
	carryOut = wide > 0xFFFFFFFF
	aSign, bSign, rSign := isNeg(a), isNeg(b), isNeg(result)
	overflow = aSign == bSign && rSign != aSign
	return
}

// subWithBorrow computes a-b-borrowIn using two's complement; carry-out
// true means a borrow occurred (a < b+borrowIn), matching SUB/CMP/SUBC's
// documented flag: C set when the minuend is less than the subtrahend.
func subWithBorrow(a, b uint32, borrowIn bool) (result uint32, carryOut, overflow bool) {
	var bin uint64
	if borrowIn {
		bin = 1
	}
	wide := uint64(a) - uint64(b) - bin
	result = uint32(wide)
	carryOut = uint64(a) < uint64(b)+bin
	aSign, bSign, rSign := isNeg(a), isNeg(b), isNeg(result)
	overflow = aSign != bSign && rSign != aSign
	return
}

func add32(a, b uint32) (result uint32, carry, overflow bool) {
	return addWithCarry(a, b, false)
}

func sub32(a, b uint32) (result uint32, carry, overflow bool) {
	return subWithBorrow(a, b, false)
}

// mul32 returns the low 32 bits of the product and whether the full 64-bit
// product did not fit in 32 bits unsigned (the VM's documented overflow
// rule for MUL: unsigned widening, not sign-aware).
func mul32(a, b uint32) (result uint32, overflow bool) {
	wide := uint64(a) * uint64(b)
	result = uint32(wide)
	overflow = wide > 0xFFFFFFFF
	return
}

func shl32(a uint32, n uint) (result uint32, carryOut bool) {
	if n == 0 {
		return a, false
	}
	if n > 32 {
		return 0, false
	}
	carryOut = n <= 32 && (a>>(32-n))&1 != 0
	if n == 32 {
		return 0, carryOut
	}
	return a << n, carryOut
}

func shr32(a uint32, n uint) (result uint32, carryOut bool) {
	if n == 0 {
		return a, false
	}
	if n > 32 {
		return 0, false
	}
	carryOut = (a>>(n-1))&1 != 0
	if n == 32 {
		return 0, carryOut
	}
	return a >> n, carryOut
}

// sar32 is the arithmetic (sign-extending) right shift used by SAR.
func sar32(a uint32, n uint) (result uint32, carryOut bool) {
	if n == 0 {
		return a, false
	}
	if n > 32 {
		n = 32
	}
	carryOut = (a>>(n-1))&1 != 0
	return uint32(int32(a) >> n), carryOut
}

func rol32(a uint32, n uint) (result uint32, carryOut bool) {
	n %= 32
	if n == 0 {
		return a, a&0x80000000 != 0
	}
	result = a<<n | a>>(32-n)
	carryOut = result&1 != 0
	return
}

func ror32(a uint32, n uint) (result uint32, carryOut bool) {
	n %= 32
	if n == 0 {
		return a, a&1 != 0
	}
	result = a>>n | a<<(32-n)
	carryOut = result&0x80000000 != 0
	return
}
