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

// Package device implements the I/O port space addressed by IN/OUT: a
// Router dispatching 16-bit port numbers to the Device that claimed the
// range containing them, plus the console and timer devices.
package device

import (
	"fmt"
)

// Device is a peripheral reachable through the port router. Ports are
// relative to the low end of the range the device registered for.
type Device interface {
	In(port uint16) (uint32, error)
	Out(port uint16, value uint32) error
	Name() string
}

type binding struct {
	low, high uint16 // inclusive
	dev       Device
}

// Router dispatches IN/OUT traffic by port-range ownership, in the order
// devices were registered; the first range containing the port wins.
type Router struct {
	bindings []binding
}

// NewRouter returns an empty port router.
func NewRouter() *Router {
	return &Router{}
}

// Register claims [low,high] (inclusive) for dev. Overlapping claims are a
// configuration bug caught at startup, not a runtime fault.
func (r *Router) Register(low, high uint16, dev Device) error {
	if low > high {
		return fmt.Errorf("device: invalid port range [%d,%d] for %s", low, high, dev.Name())
	}
	for _, b := range r.bindings {
		if low <= b.high && high >= b.low {
			return fmt.Errorf("device: port range [%d,%d] for %s overlaps %s's [%d,%d]",
				low, high, dev.Name(), b.dev.Name(), b.low, b.high)
		}
	}
	r.bindings = append(r.bindings, binding{low: low, high: high, dev: dev})
	return nil
}

func (r *Router) find(port uint16) *binding {
	for i := range r.bindings {
		if port >= r.bindings[i].low && port <= r.bindings[i].high {
			return &r.bindings[i]
		}
	}
	return nil
}

// In reads from the device owning port, translating the port to the
// device's own 0-based range before dispatch.
func (r *Router) In(port uint16) (uint32, error) {
	b := r.find(port)
	if b == nil {
		return 0, fmt.Errorf("device: no device bound to port %d", port)
	}
	return b.dev.In(port - b.low)
}

// Out writes to the device owning port, same translation as In.
func (r *Router) Out(port uint16, value uint32) error {
	b := r.find(port)
	if b == nil {
		return fmt.Errorf("device: no device bound to port %d", port)
	}
	return b.dev.Out(port-b.low, value)
}

// Shutdown tears down every registered device, in registration order.
func (r *Router) Shutdown() {
	for _, b := range r.bindings {
		if s, ok := b.dev.(interface{ Shutdown() }); ok {
			s.Shutdown()
		}
	}
}
