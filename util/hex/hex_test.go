package hex

import (
	"strings"
	"testing"
)

func TestFormatWord(t *testing.T) {
	var b strings.Builder
	FormatWord(&b, []uint32{0xDEADBEEF, 0x0})
	if got, want := b.String(), "DEADBEEF 00000000 "; got != want {
		t.Fatalf("FormatWord = %q, want %q", got, want)
	}
}

func TestFormatBytes(t *testing.T) {
	var b strings.Builder
	FormatBytes(&b, true, []byte{0xAB, 0x01})
	if got, want := b.String(), "AB 01 "; got != want {
		t.Fatalf("FormatBytes = %q, want %q", got, want)
	}
}

func TestRegName(t *testing.T) {
	cases := map[int]string{0: "ACC", 1: "BP ", 2: "SP ", 3: "PC ", 4: "SR ", 15: "LR ", 7: "R7"}
	for i, want := range cases {
		if got := RegName(i); got != want {
			t.Errorf("RegName(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestFormatDecimalString(t *testing.T) {
	cases := map[uint8]string{0: "0", 7: "7", 15: "15", 255: "255"}
	for n, want := range cases {
		if got := FormatDecimalString(n); got != want {
			t.Errorf("FormatDecimalString(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRegisterDumpHasFourRows(t *testing.T) {
	var regs [16]uint32
	regs[0] = 1
	regs[15] = 2
	dump := RegisterDump(regs)
	if rows := strings.Count(dump, "\n"); rows != 3 {
		t.Fatalf("RegisterDump has %d newlines, want 3 (four rows of four)", rows)
	}
	if !strings.Contains(dump, "ACC=00000001") {
		t.Errorf("dump = %q, want it to contain ACC=00000001", dump)
	}
}

func TestMemoryDumpRowsOfSixteen(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	dump := MemoryDump(0x4000, data)
	lines := strings.Split(strings.TrimRight(dump, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("MemoryDump produced %d lines, want 2 for 20 bytes", len(lines))
	}
	if !strings.HasPrefix(lines[0], "00004000: ") {
		t.Errorf("first row = %q, want it to start with the base address", lines[0])
	}
	if !strings.HasPrefix(lines[1], "00004010: ") {
		t.Errorf("second row = %q, want it to start at base+16", lines[1])
	}
}
