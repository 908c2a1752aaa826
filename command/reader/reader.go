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

// Package reader is the host side of the console: a liner-backed
// implementation of cpu.Console for SYSCALL 0-3, plus a minimal
// step-debugger prompt for -D runs.
package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/vm32sys/vm32/emu/cpu"
	"github.com/vm32sys/vm32/util/hex"
)

// LinerConsole implements cpu.Console over a liner line editor, giving the
// guest program history and line editing on its blocking reads for free.
type LinerConsole struct {
	line *liner.State
}

// NewLinerConsole starts a fresh liner session.
func NewLinerConsole() *LinerConsole {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	return &LinerConsole{line: l}
}

func (c *LinerConsole) Close() { c.line.Close() }

func (c *LinerConsole) WriteString(s string) error {
	fmt.Print(s)
	return nil
}

// ReadByte reads one line and returns its first byte; liner has no
// single-keystroke mode, so SYSCALL 2 reads a line and replays it a byte
// at a time would require buffering the caller doesn't ask for here.
func (c *LinerConsole) ReadByte() (byte, error) {
	s, err := c.line.Prompt("")
	if err != nil {
		return 0, err
	}
	if len(s) == 0 {
		return '\n', nil
	}
	return s[0], nil
}

func (c *LinerConsole) ReadLine(max int) (string, error) {
	s, err := c.line.Prompt("")
	if err != nil {
		return "", err
	}
	c.line.AppendHistory(s)
	if max > 0 && len(s) > max {
		s = s[:max]
	}
	return s, nil
}

// RunDebugger drives an interactive step-debugger prompt over vm: step,
// regs, mem <addr> <len>, continue and quit. It is not a disassembler: mem
// prints raw bytes, and step prints only the register file after each
// instruction.
func RunDebugger(vm *cpu.VM) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		cmd, err := line.Prompt("vm32> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("debugger: error reading command: " + err.Error())
			return
		}
		line.AppendHistory(cmd)

		quit, err := dispatchDebugCommand(strings.TrimSpace(cmd), vm)
		if err != nil {
			fmt.Println("error: " + err.Error())
		}
		if quit || vm.Halted {
			return
		}
	}
}

func dispatchDebugCommand(cmd string, vm *cpu.VM) (bool, error) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "step", "s":
		if err := vm.Step(); err != nil {
			return false, err
		}
		fmt.Println(hex.RegisterDump(vm.Reg))
		return false, nil

	case "continue", "c":
		return false, vm.Run(0)

	case "regs", "r":
		fmt.Println(hex.RegisterDump(vm.Reg))
		return false, nil

	case "mem", "m":
		if len(fields) < 3 {
			return false, fmt.Errorf("usage: mem <addr> <len>")
		}
		addr, err := strconv.ParseUint(fields[1], 0, 32)
		if err != nil {
			return false, err
		}
		n, err := strconv.ParseUint(fields[2], 0, 32)
		if err != nil {
			return false, err
		}
		data := make([]byte, n)
		for i := range data {
			b, err := vm.Mem.ReadByte(uint32(addr) + uint32(i))
			if err != nil {
				return false, err
			}
			data[i] = b
		}
		fmt.Print(hex.MemoryDump(uint32(addr), data))
		return false, nil

	case "quit", "q":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q (try step, regs, mem, continue, quit)", fields[0])
	}
}
