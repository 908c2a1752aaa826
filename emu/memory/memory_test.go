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

package memory

import (
	"testing"

	"github.com/vm32sys/vm32/emu/vmerr"
)

func TestNewClampsSize(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, DefaultSizeKiB},
		{1, MinSizeKiB},
		{128, MaxSizeKiB},
		{64, 64},
	}
	for _, c := range cases {
		m := New(c.in)
		if got := int(m.Size()) / 1024; got != c.want {
			t.Errorf("New(%d).Size() = %d KiB, want %d KiB", c.in, got, c.want)
		}
	}
}

func TestDefaultSegmentLayout(t *testing.T) {
	m := New(DefaultSizeKiB)
	if m.SegmentBase(Code) != 0x0000 || m.SegmentSize(Code) != 0x4000 {
		t.Errorf("CODE segment wrong: base=0x%04X size=0x%04X", m.SegmentBase(Code), m.SegmentSize(Code))
	}
	if m.SegmentBase(Data) != 0x4000 || m.SegmentSize(Data) != 0x4000 {
		t.Errorf("DATA segment wrong: base=0x%04X size=0x%04X", m.SegmentBase(Data), m.SegmentSize(Data))
	}
	if m.SegmentBase(Stack) != 0x8000 || m.SegmentSize(Stack) != 0x4000 {
		t.Errorf("STACK segment wrong: base=0x%04X size=0x%04X", m.SegmentBase(Stack), m.SegmentSize(Stack))
	}
	if m.SegmentBase(Heap) != 0xC000 || m.SegmentSize(Heap) != 0x4000 {
		t.Errorf("HEAP segment wrong: base=0x%04X size=0x%04X", m.SegmentBase(Heap), m.SegmentSize(Heap))
	}
}

func TestLittleEndianRoundTrip(t *testing.T) {
	m := New(DefaultSizeKiB)
	addr := m.SegmentBase(Data)

	if err := m.WriteDword(addr, 0x11223344); err != nil {
		t.Fatalf("WriteDword: %v", err)
	}
	b0, _ := m.ReadByte(addr)
	b1, _ := m.ReadByte(addr + 1)
	b2, _ := m.ReadByte(addr + 2)
	b3, _ := m.ReadByte(addr + 3)
	if b0 != 0x44 || b1 != 0x33 || b2 != 0x22 || b3 != 0x11 {
		t.Fatalf("little-endian bytes wrong: %02X %02X %02X %02X", b0, b1, b2, b3)
	}
	got, err := m.ReadDword(addr)
	if err != nil || got != 0x11223344 {
		t.Fatalf("ReadDword = 0x%08X, %v", got, err)
	}

	if err := m.WriteWord(addr, 0xBEEF); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	w, err := m.ReadWord(addr)
	if err != nil || w != 0xBEEF {
		t.Fatalf("ReadWord = 0x%04X, %v", w, err)
	}
}

func TestSegmentProtection(t *testing.T) {
	m := New(DefaultSizeKiB)
	// CODE is R+X, not writable.
	if err := m.WriteByte(m.SegmentBase(Code), 1); vmerr.CodeOf(err) != vmerr.ProtectionFault {
		t.Fatalf("write to CODE: got %v, want PROTECTION_FAULT", err)
	}
	// DATA is R+W.
	if err := m.WriteByte(m.SegmentBase(Data), 1); err != nil {
		t.Fatalf("write to DATA: %v", err)
	}
}

func TestOutOfBoundsIsSegFault(t *testing.T) {
	m := New(DefaultSizeKiB)
	_, err := m.ReadDword(m.Size() - 2)
	if vmerr.CodeOf(err) != vmerr.SegmentationFault {
		t.Fatalf("read past end: got %v, want SEGMENTATION_FAULT", err)
	}
}

func TestAllocateWithinHeapAnd4ByteAligned(t *testing.T) {
	m := New(DefaultSizeKiB)
	p, err := m.Allocate(10)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if p < m.SegmentBase(Heap) || p >= m.SegmentBase(Heap)+m.SegmentSize(Heap) {
		t.Fatalf("pointer 0x%04X not in HEAP", p)
	}
	if p%4 != 0 {
		t.Fatalf("pointer 0x%04X not 4-byte aligned", p)
	}
}

func TestDistinctAllocationsDoNotOverlap(t *testing.T) {
	m := New(DefaultSizeKiB)
	a, err := m.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate a: %v", err)
	}
	b, err := m.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate b: %v", err)
	}
	if a == b {
		t.Fatalf("two allocations returned the same pointer 0x%04X", a)
	}
	if err := m.WriteDword(a, 0xAAAAAAAA); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := m.WriteDword(b, 0xBBBBBBBB); err != nil {
		t.Fatalf("write b: %v", err)
	}
	got, _ := m.ReadDword(a)
	if got != 0xAAAAAAAA {
		t.Fatalf("allocation a corrupted by writing b: got 0x%08X", got)
	}
}

func TestUseAfterFreeIsSegFault(t *testing.T) {
	m := New(DefaultSizeKiB)
	p, err := m.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := m.WriteDword(p, 1); err != nil {
		t.Fatalf("write before free: %v", err)
	}
	if err := m.Free(p); err != nil {
		t.Fatalf("Free: %v", err)
	}
	_, err = m.ReadDword(p)
	if vmerr.CodeOf(err) != vmerr.SegmentationFault {
		t.Fatalf("read after free: got %v, want SEGMENTATION_FAULT", err)
	}
}

func TestDoubleFreeIsInvalidAddress(t *testing.T) {
	m := New(DefaultSizeKiB)
	p, _ := m.Allocate(16)
	if err := m.Free(p); err != nil {
		t.Fatalf("first Free: %v", err)
	}
	err := m.Free(p)
	if vmerr.CodeOf(err) != vmerr.InvalidAddress {
		t.Fatalf("double free: got %v, want INVALID_ADDRESS", err)
	}
}

func TestProtectBlocksWrite(t *testing.T) {
	m := New(DefaultSizeKiB)
	p, _ := m.Allocate(16)
	if err := m.Protect(p, PermRead); err != nil {
		t.Fatalf("Protect: %v", err)
	}
	if err := m.WriteByte(p, 1); vmerr.CodeOf(err) != vmerr.ProtectionFault {
		t.Fatalf("write after PROT_WRITE cleared: got %v, want PROTECTION_FAULT", err)
	}
	if _, err := m.ReadByte(p); err != nil {
		t.Fatalf("read should still be allowed: %v", err)
	}
}

func TestFreeMarksBlockFree(t *testing.T) {
	m := New(DefaultSizeKiB)
	a, _ := m.Allocate(64)
	b, _ := m.Allocate(64)
	_ = b
	if err := m.Free(a); err != nil {
		t.Fatalf("Free a: %v", err)
	}
	hdrAddr, err := m.blockHeaderAddr(a)
	if err != nil {
		t.Fatalf("blockHeaderAddr: %v", err)
	}
	hdr, err := m.readHeader(hdrAddr)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if !hdr.isFree {
		t.Fatalf("freed block not marked free")
	}
}

func TestResetReinitializesHeap(t *testing.T) {
	m := New(DefaultSizeKiB)
	p1, _ := m.Allocate(16)
	_ = m.WriteByte(p1, 0xFF)
	m.Reset()
	p2, err := m.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate after Reset: %v", err)
	}
	if p2 != m.SegmentBase(Heap)+headerSize {
		t.Fatalf("Reset did not restore single free block: got 0x%04X", p2)
	}
	v, _ := m.ReadByte(p1)
	if v != 0 {
		t.Fatalf("Reset did not zero memory: got %d", v)
	}
}

func TestHeapExhaustion(t *testing.T) {
	m := New(MinSizeKiB)
	heapSize := m.SegmentSize(Heap)
	_, err := m.Allocate(heapSize)
	if vmerr.CodeOf(err) != vmerr.MemoryAllocation {
		t.Fatalf("over-sized allocation: got %v, want MEMORY_ALLOCATION", err)
	}
}
