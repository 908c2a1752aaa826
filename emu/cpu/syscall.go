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

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vm32sys/vm32/emu/vmerr"
)

// Syscall numbers, grouped by family in ranges of ten. Arguments come from
// R5-R8 in order, and the return value is written back into ACC (R0).
const (
	sysConsolePutChar = 0
	sysConsolePutStr  = 1
	sysConsoleGetChar = 2
	sysConsoleGetLine = 3

	sysFileOpen  = 10
	sysFileClose = 11
	sysFileRead  = 12
	sysFileWrite = 13
	sysFileSeek  = 14

	sysMemSize    = 20
	sysMemSegBase = 21
	sysMemSegSize = 22

	sysProcExit   = 30
	sysProcTicks  = 31
	sysProcInstrs = 32

	sysRandNext = 40
	sysRandSeed = 41
)

// syscall arguments, by the R5-R8 convention.
func (vm *VM) arg(n int) uint32 { return vm.Reg[5+n] }

func (vm *VM) syscall(number uint32) error {
	switch {
	case number <= 9:
		return vm.syscallConsole(number)
	case number <= 19:
		return vm.syscallFile(number)
	case number <= 29:
		return vm.syscallMemory(number)
	case number <= 39:
		return vm.syscallProcess(number)
	case number <= 49:
		return vm.syscallRandom(number)
	default:
		return vm.fault(vmerr.InvalidSyscall, "syscall number %d out of range", number)
	}
}

func (vm *VM) syscallConsole(number uint32) error {
	if vm.Console == nil {
		return vm.fault(vmerr.IOError, "no console attached")
	}
	switch number {
	case sysConsolePutChar:
		return vm.Console.WriteString(string(rune(vm.arg(0))))

	case sysConsolePutStr:
		s, err := vm.readCString(vm.arg(0), 4096)
		if err != nil {
			return err
		}
		return vm.Console.WriteString(s)

	case sysConsoleGetChar:
		b, err := vm.Console.ReadByte()
		if err != nil {
			return vm.fault(vmerr.IOError, "%v", err)
		}
		vm.Reg[RegACC] = uint32(b)
		return nil

	case sysConsoleGetLine:
		maxLen := int(vm.arg(1))
		line, err := vm.Console.ReadLine(maxLen)
		if err != nil {
			return vm.fault(vmerr.IOError, "%v", err)
		}
		n, err := vm.writeCString(vm.arg(0), line, maxLen)
		if err != nil {
			return err
		}
		vm.Reg[RegACC] = uint32(n)
		return nil

	default:
		return vm.fault(vmerr.InvalidSyscall, "unimplemented console syscall %d", number)
	}
}

// readCString reads a NUL-terminated string out of guest memory, bounded
// by max bytes.
func (vm *VM) readCString(addr uint32, max int) (string, error) {
	var b strings.Builder
	for i := 0; i < max; i++ {
		c, err := vm.Mem.ReadByte(addr + uint32(i))
		if err != nil {
			return "", err
		}
		if c == 0 {
			break
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// writeCString writes s plus a NUL terminator into guest memory, truncated
// to max bytes including the terminator, and returns the byte count written.
func (vm *VM) writeCString(addr uint32, s string, max int) (int, error) {
	if max <= 0 {
		max = len(s) + 1
	}
	if len(s) > max-1 {
		s = s[:max-1]
	}
	for i := 0; i < len(s); i++ {
		if err := vm.Mem.WriteByte(addr+uint32(i), s[i]); err != nil {
			return 0, err
		}
	}
	if err := vm.Mem.WriteByte(addr+uint32(len(s)), 0); err != nil {
		return 0, err
	}
	return len(s), nil
}

// syscallFile implements 10-19 against a sandboxed root directory: every
// path the guest supplies is joined under fileRoot and rejected if it
// would escape it, so a guest program can never reach the host filesystem
// outside the directory the VM was launched with -C.
func (vm *VM) syscallFile(number uint32) error {
	if vm.fileRoot == "" {
		return vm.fault(vmerr.InvalidSyscall, "file syscalls disabled: no sandbox root configured")
	}
	switch number {
	case sysFileOpen:
		path, err := vm.readCString(vm.arg(0), 1024)
		if err != nil {
			return err
		}
		full, err := vm.sandboxPath(path)
		if err != nil {
			return err
		}
		flags := os.O_RDONLY
		if vm.arg(1) != 0 {
			flags = os.O_RDWR | os.O_CREATE
		}
		f, err := os.OpenFile(full, flags, 0644)
		if err != nil {
			return vm.fault(vmerr.IOError, "open %q: %v", path, err)
		}
		vm.Reg[RegACC] = vm.fileTable.add(f)
		return nil

	case sysFileClose:
		f, err := vm.fileTable.get(vm.arg(0))
		if err != nil {
			return vm.fault(vmerr.IOError, "%v", err)
		}
		vm.fileTable.remove(vm.arg(0))
		return f.Close()

	case sysFileRead:
		f, err := vm.fileTable.get(vm.arg(0))
		if err != nil {
			return vm.fault(vmerr.IOError, "%v", err)
		}
		buf := make([]byte, vm.arg(2))
		n, err := f.Read(buf)
		if err != nil && n == 0 {
			vm.Reg[RegACC] = 0
			return nil
		}
		for i := 0; i < n; i++ {
			if err := vm.Mem.WriteByte(vm.arg(1)+uint32(i), buf[i]); err != nil {
				return err
			}
		}
		vm.Reg[RegACC] = uint32(n)
		return nil

	case sysFileWrite:
		f, err := vm.fileTable.get(vm.arg(0))
		if err != nil {
			return vm.fault(vmerr.IOError, "%v", err)
		}
		length := vm.arg(2)
		buf := make([]byte, length)
		for i := uint32(0); i < length; i++ {
			b, err := vm.Mem.ReadByte(vm.arg(1) + i)
			if err != nil {
				return err
			}
			buf[i] = b
		}
		n, err := f.Write(buf)
		if err != nil {
			return vm.fault(vmerr.IOError, "write: %v", err)
		}
		vm.Reg[RegACC] = uint32(n)
		return nil

	case sysFileSeek:
		f, err := vm.fileTable.get(vm.arg(0))
		if err != nil {
			return vm.fault(vmerr.IOError, "%v", err)
		}
		off, err := f.Seek(int64(int32(vm.arg(1))), int(vm.arg(2)))
		if err != nil {
			return vm.fault(vmerr.IOError, "seek: %v", err)
		}
		vm.Reg[RegACC] = uint32(off)
		return nil

	default:
		return vm.fault(vmerr.InvalidSyscall, "unimplemented file syscall %d", number)
	}
}

func (vm *VM) sandboxPath(path string) (string, error) {
	full := filepath.Join(vm.fileRoot, filepath.Clean("/"+path))
	rel, err := filepath.Rel(vm.fileRoot, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", vm.fault(vmerr.InvalidSyscall, "path %q escapes sandbox root", path)
	}
	return full, nil
}

func (vm *VM) syscallMemory(number uint32) error {
	switch number {
	case sysMemSize:
		vm.Reg[RegACC] = vm.Mem.Size()
		return nil
	case sysMemSegBase:
		vm.Reg[RegACC] = vm.Mem.SegmentBase(int(vm.arg(0)))
		return nil
	case sysMemSegSize:
		vm.Reg[RegACC] = vm.Mem.SegmentSize(int(vm.arg(0)))
		return nil
	default:
		return vm.fault(vmerr.InvalidSyscall, "unimplemented memory syscall %d", number)
	}
}

func (vm *VM) syscallProcess(number uint32) error {
	switch number {
	case sysProcExit:
		vm.exitRequested = true
		vm.exitCode = int32(vm.arg(0))
		vm.Halted = true
		return nil
	case sysProcTicks:
		vm.Reg[RegACC] = uint32(msSince(vm.startedAt))
		return nil
	case sysProcInstrs:
		vm.Reg[RegACC] = uint32(vm.InstructionCount)
		return nil
	default:
		return vm.fault(vmerr.InvalidSyscall, "unimplemented process syscall %d", number)
	}
}

func (vm *VM) syscallRandom(number uint32) error {
	switch number {
	case sysRandNext:
		vm.Reg[RegACC] = vm.rng.next()
		return nil
	case sysRandSeed:
		vm.rng.reseed(vm.arg(0))
		return nil
	default:
		return vm.fault(vmerr.InvalidSyscall, "unimplemented rng syscall %d", number)
	}
}
