package loader

import (
	"testing"

	"github.com/vm32sys/vm32/emu/cpu"
	"github.com/vm32sys/vm32/emu/device"
	"github.com/vm32sys/vm32/emu/memory"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	img := Image{
		CodeBase: 0x0000,
		Code:     []byte{0xDE, 0xAD, 0xBE, 0xEF},
		DataBase: 0x4000,
		Data:     []byte{1, 2, 3, 4, 5},
		Symbols: []Symbol{
			{Name: "start", Address: 0x0000},
			{Name: "loop", Address: 0x0010},
		},
	}

	raw := Encode(img)
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.CodeBase != img.CodeBase || string(got.Code) != string(img.Code) {
		t.Errorf("code segment mismatch: got base=0x%X code=%v", got.CodeBase, got.Code)
	}
	if got.DataBase != img.DataBase || string(got.Data) != string(img.Data) {
		t.Errorf("data segment mismatch: got base=0x%X data=%v", got.DataBase, got.Data)
	}
	if len(got.Symbols) != 2 || got.Symbols[0].Name != "start" || got.Symbols[1].Address != 0x0010 {
		t.Errorf("symbols mismatch: got %+v", got.Symbols)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	raw := make([]byte, HeaderSize)
	copy(raw, "XXXX")
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected an error for a bad magic number")
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	raw := []byte("VM32")
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected an error for a truncated header")
	}
}

func TestDecodeRejectsOversizedSegments(t *testing.T) {
	img := Image{CodeBase: 0, Code: []byte{1, 2, 3, 4}}
	raw := Encode(img)
	// Lie about the code size in the header so it claims more than is present.
	raw[16] = 0xFF
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected an error when declared segment sizes exceed the file")
	}
}

func TestLoadIntoPopulatesMemoryAndPC(t *testing.T) {
	vm := cpu.New(16, device.NewRouter(), nil)
	img := Image{
		CodeBase: vm.Mem.SegmentBase(memory.Code),
		Code:     []byte{0x01, 0x02, 0x03, 0x04},
		DataBase: vm.Mem.SegmentBase(memory.Data),
		Data:     []byte{0xAA, 0xBB},
	}
	if err := LoadInto(vm, img); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if vm.Reg[cpu.RegPC] != img.CodeBase {
		t.Fatalf("PC = 0x%X, want 0x%X", vm.Reg[cpu.RegPC], img.CodeBase)
	}
	b, err := vm.Mem.ReadByte(img.DataBase)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if b != 0xAA {
		t.Fatalf("data byte = 0x%X, want 0xAA", b)
	}
}
