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

import (
	"bufio"
	"io"
)

// Console ports, relative to the device's registered base.
const (
	ConsolePortData   = 0 // IN: next byte (blocking); OUT: write one byte
	ConsolePortStatus = 1 // IN: 1 if a byte is ready, else 0
)

// ConsoleDevice is the port-mapped half of console I/O: SYSCALL 0-9 goes
// through the host console directly, while IN/OUT on its two ports let
// guest code poll and read/write a byte at a time.
type ConsoleDevice struct {
	in  *bufio.Reader
	out io.Writer

	pending bool
	byte    byte
}

// NewConsoleDevice wraps the given host streams.
func NewConsoleDevice(in io.Reader, out io.Writer) *ConsoleDevice {
	return &ConsoleDevice{in: bufio.NewReader(in), out: out}
}

func (c *ConsoleDevice) Name() string { return "console" }

func (c *ConsoleDevice) fill() {
	if c.pending {
		return
	}
	b, err := c.in.ReadByte()
	if err == nil {
		c.byte = b
		c.pending = true
	}
}

func (c *ConsoleDevice) In(port uint16) (uint32, error) {
	switch port {
	case ConsolePortStatus:
		c.fill()
		if c.pending {
			return 1, nil
		}
		return 0, nil
	case ConsolePortData:
		c.fill()
		if !c.pending {
			return 0, nil
		}
		c.pending = false
		return uint32(c.byte), nil
	default:
		return 0, nil
	}
}

func (c *ConsoleDevice) Out(port uint16, value uint32) error {
	if port != ConsolePortData {
		return nil
	}
	_, err := c.out.Write([]byte{byte(value)})
	return err
}
