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

package device

import "time"

// Timer ports, relative to the device's registered base.
const (
	TimerPortTicks = 0 // IN: milliseconds since the timer was created
	TimerPortReset = 1 // OUT (any value): rebase the tick counter to zero
)

// TimerDevice exposes a free-running millisecond counter, the minimal
// clock source a guest program needs for polling loops and benchmarking.
type TimerDevice struct {
	started time.Time
}

// NewTimerDevice starts the counter running immediately.
func NewTimerDevice() *TimerDevice {
	return &TimerDevice{started: time.Now()}
}

func (t *TimerDevice) Name() string { return "timer" }

func (t *TimerDevice) In(port uint16) (uint32, error) {
	if port == TimerPortTicks {
		return uint32(time.Since(t.started).Milliseconds()), nil
	}
	return 0, nil
}

func (t *TimerDevice) Out(port uint16, value uint32) error {
	if port == TimerPortReset {
		t.started = time.Now()
	}
	return nil
}
