package asm

import (
	"encoding/binary"
	"testing"

	"github.com/vm32sys/vm32/emu/cpu"
)

func decodeWords(t *testing.T, code []byte) []cpu.Instruction {
	t.Helper()
	if len(code)%4 != 0 {
		t.Fatalf("code length %d is not a multiple of 4", len(code))
	}
	var out []cpu.Instruction
	for i := 0; i < len(code); i += 4 {
		word := binary.LittleEndian.Uint32(code[i : i+4])
		out = append(out, cpu.Decode(word))
	}
	return out
}

func TestAssembleSimpleProgram(t *testing.T) {
	src := `
		start:  MOVE  R5, #10
			ADD   R5, #32
			CMP   R5, #42
			JZ    done
			HALT
		done:   HALT
	`
	code, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(code) != 6*4 {
		t.Fatalf("expected 6 words, got %d bytes", len(code))
	}

	words := decodeWords(t, code)

	if words[0].Opcode != cpu.OpMOVE || words[0].Reg1 != 5 || words[0].Mode != cpu.ModeIMM || words[0].Immediate != 10 {
		t.Errorf("word 0 = %+v, want MOVE R5,#10", words[0])
	}
	if words[1].Opcode != cpu.OpADD || words[1].Reg1 != 5 || words[1].Immediate != 32 {
		t.Errorf("word 1 = %+v, want ADD R5,#32", words[1])
	}
	// JZ done: done is at byte offset 20 (word 5, the sixth instruction).
	if words[3].Opcode != cpu.OpJZ || words[3].Mode != cpu.ModeIMM || words[3].Immediate != 20 {
		t.Errorf("word 3 = %+v, want JZ #20", words[3])
	}
	if words[5].Opcode != cpu.OpHALT {
		t.Errorf("word 5 = %+v, want HALT", words[5])
	}
}

func TestAssembleMemoryOperands(t *testing.T) {
	src := `
		LOAD  R6, [0x4000]
		STORE R6, [R7+4]
		LOAD  R8, [R9]
		PUSH  R5, [SP+4]
		LOAD  R1, [BP-4]
	`
	code, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	words := decodeWords(t, code)
	if len(words) != 5 {
		t.Fatalf("expected 5 words, got %d", len(words))
	}

	if words[0].Mode != cpu.ModeMEM || words[0].Immediate != 0x4000 {
		t.Errorf("word 0 = %+v, want MEM 0x4000", words[0])
	}
	if words[1].Mode != cpu.ModeIDX || words[1].Reg2 != 7 || words[1].Immediate != 4 {
		t.Errorf("word 1 = %+v, want IDX R7+4", words[1])
	}
	if words[2].Mode != cpu.ModeREGM || words[2].Reg2 != 9 {
		t.Errorf("word 2 = %+v, want REGM [R9]", words[2])
	}
	if words[3].Mode != cpu.ModeSTK || words[3].Immediate != 4 {
		t.Errorf("word 3 = %+v, want STK +4", words[3])
	}
	if words[4].Mode != cpu.ModeBAS {
		t.Errorf("word 4 = %+v, want BAS mode", words[4])
	}
	// BP-4 encodes a negative displacement in the 16-bit immediate field.
	if int16(words[4].Immediate) != -4 {
		t.Errorf("word 4 displacement = %d, want -4", int16(words[4].Immediate))
	}
}

func TestAssembleUnknownMnemonic(t *testing.T) {
	_, err := Assemble("FROBNICATE R1")
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, err := Assemble("JMP nowhere")
	if err == nil {
		t.Fatal("expected an error for an undefined label")
	}
}

func TestAssembleDuplicateLabel(t *testing.T) {
	src := `
		again: NOP
		again: NOP
	`
	_, err := Assemble(src)
	if err == nil {
		t.Fatal("expected an error for a duplicate label")
	}
}

func TestAssembleCommentsAndBlankLines(t *testing.T) {
	src := `
		; this is a full-line comment
		NOP ; trailing comment
		HALT
	`
	code, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	words := decodeWords(t, code)
	if len(words) != 2 || words[0].Opcode != cpu.OpNOP || words[1].Opcode != cpu.OpHALT {
		t.Fatalf("words = %+v, want [NOP HALT]", words)
	}
}

func TestAssembleLoopShape(t *testing.T) {
	src := `
		top: DEC R6
		     LOOP R6, top
	`
	code, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	words := decodeWords(t, code)
	if words[1].Opcode != cpu.OpLOOP || words[1].Reg1 != 6 || words[1].Immediate != 0 {
		t.Errorf("word 1 = %+v, want LOOP R6,#0", words[1])
	}
}
