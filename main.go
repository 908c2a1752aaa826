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

package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/vm32sys/vm32/command/reader"
	"github.com/vm32sys/vm32/emu/cpu"
	"github.com/vm32sys/vm32/emu/device"
	"github.com/vm32sys/vm32/emu/loader"
	"github.com/vm32sys/vm32/emu/memory"
	"github.com/vm32sys/vm32/emu/vmerr"
	"github.com/vm32sys/vm32/internal/asm"
	"github.com/vm32sys/vm32/internal/vmlog"
)

var Logger *slog.Logger

func main() {
	optMemKiB := getopt.IntLong("memory", 'm', memory.DefaultSizeKiB, "Memory size in KiB")
	optDebug := getopt.StringLong("debug", 'd', "", "Debug subsystems (cpu,memory,io,syscall,all)")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optSandbox := getopt.StringLong("sandbox", 'C', "", "Sandbox root for file syscalls (10-19)")
	optAssemble := getopt.BoolLong("asm", 'a', "Treat the program file as assembly source")
	optDebugger := getopt.BoolLong("interactive", 'D', "Drop into the step debugger instead of free-running")
	optMaxSteps := getopt.Int64Long("max-steps", 0, 0, "Stop after this many instructions (0 = unbounded)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: vm32 [options] <program-file>")
		getopt.Usage()
		os.Exit(1)
	}
	programPath := args[0]

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vm32: cannot create log file: %v\n", err)
			os.Exit(1)
		}
	}
	mask := vmlog.ParseMask(*optDebug)
	Logger = vmlog.New(logFile, mask)
	slog.SetDefault(Logger)

	program, err := os.ReadFile(programPath)
	if err != nil {
		Logger.Error("reading program file", "path", programPath, "error", err)
		os.Exit(1)
	}

	io := device.NewRouter()
	console := reader.NewLinerConsole()
	defer console.Close()
	if err := io.Register(0, 1, device.NewConsoleDevice(os.Stdin, os.Stdout)); err != nil {
		Logger.Error("registering console device", "error", err)
		os.Exit(1)
	}
	if err := io.Register(2, 3, device.NewTimerDevice()); err != nil {
		Logger.Error("registering timer device", "error", err)
		os.Exit(1)
	}

	vm := cpu.New(*optMemKiB, io, console)
	defer vm.Close()
	if *optSandbox != "" {
		vm.SetFileRoot(*optSandbox)
	}

	if err := loadProgram(vm, program, *optAssemble); err != nil {
		Logger.Error("loading program", "path", programPath, "error", err)
		os.Exit(1)
	}

	if *optDebugger {
		reader.RunDebugger(vm)
	} else if err := vm.Run(*optMaxSteps); err != nil {
		Logger.Error("execution fault",
			"code", vmerr.CodeOf(err).String(),
			"pc", fmt.Sprintf("0x%04X", vm.FaultPC),
			"error", err)
		os.Exit(1)
	}

	if exited, code := vm.Exited(); exited {
		os.Exit(int(code))
	}
}

// loadProgram places program into vm's memory: assembled source goes
// straight at the CODE segment base, otherwise it is parsed as a VM32
// binary image (or, failing that magic check, as legacy raw code).
func loadProgram(vm *cpu.VM, program []byte, assemble bool) error {
	if assemble {
		code, err := asm.Assemble(string(program))
		if err != nil {
			return fmt.Errorf("assembling program: %w", err)
		}
		return vm.Mem.LoadBytes(vm.Mem.SegmentBase(memory.Code), code)
	}

	img, err := loader.Decode(program)
	if err == nil {
		return loader.LoadInto(vm, img)
	}
	return vm.Mem.LoadBytes(vm.Mem.SegmentBase(memory.Code), program)
}
