package cpu

import (
	"strings"
	"testing"

	"github.com/vm32sys/vm32/emu/device"
	"github.com/vm32sys/vm32/emu/memory"
	"github.com/vm32sys/vm32/emu/vmerr"
)

// stubConsole is a minimal Console for tests that never actually block on
// real stdio.
type stubConsole struct {
	out strings.Builder
	in  []byte
}

func (c *stubConsole) WriteString(s string) error {
	c.out.WriteString(s)
	return nil
}

func (c *stubConsole) ReadByte() (byte, error) {
	if len(c.in) == 0 {
		return 0, nil
	}
	b := c.in[0]
	c.in = c.in[1:]
	return b, nil
}

func (c *stubConsole) ReadLine(max int) (string, error) {
	return "", nil
}

func newTestVM() (*VM, *stubConsole) {
	con := &stubConsole{}
	vm := New(memory.MinSizeKiB, device.NewRouter(), con)
	return vm, con
}

func asmWord(instr Instruction) uint32 { return Encode(instr) }

// codeBytes encodes instr as the four little-endian bytes of its word, for
// LoadBytes: CODE is not writable through WriteDword.
func codeBytes(instr Instruction) []byte {
	w := asmWord(instr)
	return []byte{byte(w), byte(w >> 8), byte(w >> 16), byte(w >> 24)}
}

func loadProgram(t *testing.T, vm *VM, words []Instruction) {
	t.Helper()
	addr := vm.Mem.SegmentBase(memory.Code)
	for _, w := range words {
		if err := vm.Mem.LoadBytes(addr, codeBytes(w)); err != nil {
			t.Fatalf("LoadBytes: %v", err)
		}
		addr += 4
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []Instruction{
		{Opcode: OpMOVE, Mode: ModeIMM, Reg1: 5, Reg2: 0x1, Immediate: 0x1234},
		{Opcode: OpADD, Mode: ModeREG, Reg1: 3, Reg2: 7},
		{Opcode: OpLOAD, Mode: ModeREGM, Reg1: 2, Reg2: 9, Immediate: 0x0FF & 0xFFF},
		{Opcode: OpSTORE, Mode: ModeIDX, Reg1: 1, Reg2: 4, Immediate: 8},
		{Opcode: OpJMP, Mode: ModeMEM, Reg2: 0x4, Immediate: 0x4010},
	}
	for _, c := range cases {
		word := Encode(c)
		got := Decode(word)
		if got != c {
			t.Errorf("round trip mismatch: want %+v, got %+v (word=0x%08X)", c, got, word)
		}
	}
}

func TestMoveAddCmpFlags(t *testing.T) {
	vm, _ := newTestVM()
	loadProgram(t, vm, []Instruction{
		{Opcode: OpMOVE, Mode: ModeIMM, Reg1: 5, Immediate: 10},
		{Opcode: OpADD, Mode: ModeIMM, Reg1: 5, Immediate: 32},
		{Opcode: OpCMP, Mode: ModeIMM, Reg1: 5, Immediate: 42},
		{Opcode: OpHALT},
	})
	if err := vm.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if vm.Reg[5] != 42 {
		t.Fatalf("R5 = %d, want 42", vm.Reg[5])
	}
	if !vm.flagTest(FlagZ) {
		t.Errorf("expected Z flag set after CMP of equal values")
	}
	if !vm.Halted {
		t.Errorf("expected VM halted after HALT")
	}
}

func TestSubUnderflowSetsNegativeAndCarry(t *testing.T) {
	// C is set when the subtraction borrows, so 0-1 (which does borrow) sets it.
	vm, _ := newTestVM()
	loadProgram(t, vm, []Instruction{
		{Opcode: OpMOVE, Mode: ModeIMM, Reg1: 5, Immediate: 0},
		{Opcode: OpSUB, Mode: ModeIMM, Reg1: 5, Immediate: 1},
		{Opcode: OpHALT},
	})
	if err := vm.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if vm.Reg[5] != 0xFFFFFFFF {
		t.Fatalf("R5 = 0x%X, want 0xFFFFFFFF", vm.Reg[5])
	}
	if !vm.flagTest(FlagN) {
		t.Errorf("expected N flag set for 0-1 result")
	}
	if !vm.flagTest(FlagC) {
		t.Errorf("expected C flag set (borrow occurred) for 0-1")
	}
}

func TestDivisionByZeroFaults(t *testing.T) {
	vm, _ := newTestVM()
	loadProgram(t, vm, []Instruction{
		{Opcode: OpMOVE, Mode: ModeIMM, Reg1: 5, Immediate: 10},
		{Opcode: OpDIV, Mode: ModeIMM, Reg1: 5, Immediate: 0},
	})
	err := vm.Run(10)
	if err == nil {
		t.Fatal("expected a division-by-zero fault")
	}
	if vmerr.CodeOf(err) != vmerr.DivisionByZero {
		t.Fatalf("error code = %v, want DivisionByZero", vmerr.CodeOf(err))
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	vm, _ := newTestVM()
	loadProgram(t, vm, []Instruction{
		{Opcode: OpMOVE, Mode: ModeIMM, Reg1: 5, Immediate: 0xCAFE},
		{Opcode: OpPUSH, Mode: ModeREG, Reg2: 5},
		{Opcode: OpPOP, Mode: ModeREG, Reg2: 6},
		{Opcode: OpHALT},
	})
	spBefore := vm.Reg[RegSP]
	if err := vm.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if vm.Reg[6] != 0xCAFE {
		t.Fatalf("R6 = 0x%X, want 0xCAFE", vm.Reg[6])
	}
	if vm.Reg[RegSP] != spBefore {
		t.Fatalf("SP = 0x%X, want 0x%X (balanced push/pop)", vm.Reg[RegSP], spBefore)
	}
}

func TestStackOverflowFault(t *testing.T) {
	vm, _ := newTestVM()
	base := vm.Mem.SegmentBase(memory.Stack)
	vm.Reg[RegSP] = base
	err := vm.pushDword(1)
	if err == nil {
		t.Fatal("expected a stack overflow fault when SP is at the segment base")
	}
	if vmerr.CodeOf(err) != vmerr.StackOverflow {
		t.Fatalf("error code = %v, want StackOverflow", vmerr.CodeOf(err))
	}
}

func TestCallRetPreservesReturnAddress(t *testing.T) {
	vm, _ := newTestVM()
	codeBase := vm.Mem.SegmentBase(memory.Code)
	loadProgram(t, vm, []Instruction{
		{Opcode: OpCALL, Mode: ModeIMM, Immediate: uint16(codeBase + 8)}, // word 0: call word 2
		{Opcode: OpHALT},                                                 // word 1: return lands here
		{Opcode: OpMOVE, Mode: ModeIMM, Reg1: 7, Immediate: 99},          // word 2: callee
		{Opcode: OpRET},                                                  // word 3
	})
	if err := vm.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if vm.Reg[7] != 99 {
		t.Fatalf("R7 = %d, want 99 (callee ran)", vm.Reg[7])
	}
	if !vm.Halted {
		t.Fatalf("expected HALT after RET returned to word 1")
	}
}

func TestInterruptDispatchAndReturn(t *testing.T) {
	vm, _ := newTestVM()
	codeBase := vm.Mem.SegmentBase(memory.Code)
	handlerAddr := codeBase + 200

	// Install a handler for vector 2 in the vector table at DATA base.
	if err := vm.Mem.WriteDword(vm.vectorTableBase+2*4, handlerAddr); err != nil {
		t.Fatalf("WriteDword vector: %v", err)
	}

	loadProgram(t, vm, []Instruction{
		{Opcode: OpINT, Mode: ModeIMM, Immediate: 2}, // word 0
		{Opcode: OpHALT},                             // word 1: resumes here after IRET
	})
	if err := vm.Mem.LoadBytes(handlerAddr, codeBytes(Instruction{Opcode: OpMOVE, Mode: ModeIMM, Reg1: 9, Immediate: 7})); err != nil {
		t.Fatalf("LoadBytes handler[0]: %v", err)
	}
	if err := vm.Mem.LoadBytes(handlerAddr+4, codeBytes(Instruction{Opcode: OpIRET})); err != nil {
		t.Fatalf("LoadBytes handler[1]: %v", err)
	}

	if err := vm.Run(20); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if vm.Reg[9] != 7 {
		t.Fatalf("R9 = %d, want 7 (handler ran)", vm.Reg[9])
	}
	if !vm.Halted {
		t.Fatalf("expected control to resume after the INT and HALT")
	}
	if vm.flagTest(FlagT) {
		t.Errorf("expected T flag cleared after IRET")
	}
}

func TestSyscallConsoleWrite(t *testing.T) {
	vm, con := newTestVM()
	dataBase := vm.Mem.SegmentBase(memory.Data)
	msg := "hi\x00"
	if err := vm.Mem.LoadBytes(dataBase, []byte(msg)); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	vm.Reg[5] = dataBase // arg(0): string pointer

	loadProgram(t, vm, []Instruction{
		{Opcode: OpSYSCALL, Mode: ModeIMM, Immediate: 1}, // console write string
		{Opcode: OpHALT},
	})
	if err := vm.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if con.out.String() != "hi" {
		t.Fatalf("console output = %q, want %q", con.out.String(), "hi")
	}
}

func TestFaultPCIsPreIncrement(t *testing.T) {
	vm, _ := newTestVM()
	codeBase := vm.Mem.SegmentBase(memory.Code)
	loadProgram(t, vm, []Instruction{
		{Opcode: OpMOVE, Mode: ModeIMM, Reg1: 5, Immediate: 1},
		{Opcode: OpDIV, Mode: ModeIMM, Reg1: 5, Immediate: 0},
	})
	err := vm.Run(10)
	if err == nil {
		t.Fatal("expected division fault")
	}
	if vm.FaultPC != codeBase+4 {
		t.Fatalf("FaultPC = 0x%X, want 0x%X (address of the faulting instruction)", vm.FaultPC, codeBase+4)
	}
}

func TestMemcpyUsesReg2AsSourcePointer(t *testing.T) {
	vm, _ := newTestVM()
	dataBase := vm.Mem.SegmentBase(memory.Data)
	src := dataBase
	dst := dataBase + 64
	if err := vm.Mem.LoadBytes(src, []byte("abcd")); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	vm.Reg[7] = src
	vm.Reg[6] = dst

	loadProgram(t, vm, []Instruction{
		{Opcode: OpMEMCPY, Mode: ModeREG, Reg1: 6, Reg2: 7, Immediate: 4},
		{Opcode: OpHALT},
	})
	if err := vm.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := make([]byte, 4)
	for i := range got {
		b, err := vm.Mem.ReadByte(dst + uint32(i))
		if err != nil {
			t.Fatalf("ReadByte: %v", err)
		}
		got[i] = b
	}
	if string(got) != "abcd" {
		t.Fatalf("copied bytes = %q, want %q", got, "abcd")
	}
}
