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

// rngState is a 32-bit linear congruential generator backing SYSCALL 40/41.
// It is deliberately not cryptographically strong: guest programs that seed
// it get reproducible sequences, which is the point for test fixtures.
type rngState struct {
	seed uint32
}

func newRNG(seed uint32) rngState {
	if seed == 0 {
		seed = 1
	}
	return rngState{seed: seed}
}

// next returns the next value in the sequence and advances the state.
// Constants are the same multiplier/increment as glibc's rand() LCG.
func (r *rngState) next() uint32 {
	r.seed = r.seed*1103515245 + 12345
	return r.seed
}

func (r *rngState) reseed(seed uint32) {
	if seed == 0 {
		seed = 1
	}
	r.seed = seed
}
