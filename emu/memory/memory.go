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

// Package memory owns the guest byte array: bounds- and permission-checked
// byte/word/dword access in little-endian, over four fixed segments, plus
// the protected heap allocator carved out of the HEAP segment.
package memory

import (
	"github.com/vm32sys/vm32/emu/vmerr"
)

// Perm is a set of access-kind bits a heap block or segment grants.
type Perm uint8

const (
	PermRead  Perm = 1 << 0
	PermWrite Perm = 1 << 1
	PermExec  Perm = 1 << 2
	PermAll   Perm = PermRead | PermWrite | PermExec
)

// Segment names, in address order.
const (
	Code = iota
	Data
	Stack
	Heap
	numSegments
)

// DefaultSizeKiB is the memory size used when the host does not override it.
const DefaultSizeKiB = 64

// MaxSizeKiB is the largest memory this VM supports: addresses are 16-bit
// guest pointers, so the whole address space tops out at 64 KiB.
const MaxSizeKiB = 64

// MinSizeKiB keeps every segment large enough to hold at least one heap
// header plus its minimum payload.
const MinSizeKiB = 4

const (
	headerSize = 8
	heapMagic  = 0xABCD
	minPayload = 8
)

// segInfo describes one fixed-base, fixed-size region of guest memory.
type segInfo struct {
	base uint32
	size uint32
	perm Perm
}

// Memory is the VM's entire guest address space: one owned byte buffer,
// typed accessors, and the heap free-list threaded through the HEAP segment.
type Memory struct {
	buf  []byte
	size uint32
	segs [numSegments]segInfo
}

// New allocates a Memory sized to sizeKiB (clamped to [MinSizeKiB,
// MaxSizeKiB]), split into four equal quarters: CODE, DATA, STACK, HEAP, in
// that address order. At the default 64 KiB this reproduces the spec's
// fixed bases (0x0000, 0x4000, 0x8000, 0xC000).
func New(sizeKiB int) *Memory {
	if sizeKiB <= 0 {
		sizeKiB = DefaultSizeKiB
	}
	if sizeKiB > MaxSizeKiB {
		sizeKiB = MaxSizeKiB
	}
	if sizeKiB < MinSizeKiB {
		sizeKiB = MinSizeKiB
	}
	size := uint32(sizeKiB * 1024)
	quarter := size / 4

	m := &Memory{
		buf:  make([]byte, size),
		size: size,
	}
	m.segs[Code] = segInfo{base: 0, size: quarter, perm: PermRead | PermExec}
	m.segs[Data] = segInfo{base: quarter, size: quarter, perm: PermRead | PermWrite}
	m.segs[Stack] = segInfo{base: 2 * quarter, size: quarter, perm: PermRead | PermWrite}
	m.segs[Heap] = segInfo{base: 3 * quarter, size: quarter, perm: PermAll}
	m.initHeap()
	return m
}

// Reset zeroes guest memory and reinitializes the heap free-list, without
// resizing or moving segment boundaries.
func (m *Memory) Reset() {
	for i := range m.buf {
		m.buf[i] = 0
	}
	m.initHeap()
}

// Size returns the total configured memory size in bytes.
func (m *Memory) Size() uint32 { return m.size }

// SegmentBase and SegmentSize report a segment's fixed address-space window.
func (m *Memory) SegmentBase(seg int) uint32 { return m.segs[seg].base }
func (m *Memory) SegmentSize(seg int) uint32 { return m.segs[seg].size }

// segmentOf finds which fixed segment contains addr, if any.
func (m *Memory) segmentOf(addr uint32) (int, bool) {
	for i := range m.segs {
		s := &m.segs[i]
		if addr >= s.base && addr < s.base+s.size {
			return i, true
		}
	}
	return 0, false
}

// wrap keeps addresses within the configured memory size, per spec's
// "arithmetic wraps within the configured memory size".
func (m *Memory) wrap(addr uint32) uint32 {
	if m.size == 0 {
		return 0
	}
	return addr % m.size
}

// checkAccess validates that [addr, addr+size) lies entirely within one
// segment (or one in-use heap block) whose permissions cover need.
func (m *Memory) checkAccess(addr, size uint32, need Perm) error {
	if size == 0 {
		return nil
	}
	end := addr + size
	if end < addr || end > m.size {
		return vmerr.New(vmerr.SegmentationFault, 0, "access [0x%04X,0x%04X) exceeds memory size 0x%04X", addr, end, m.size)
	}
	seg, ok := m.segmentOf(addr)
	if !ok {
		return vmerr.New(vmerr.SegmentationFault, 0, "address 0x%04X is not in any segment", addr)
	}
	if end > m.segs[seg].base+m.segs[seg].size {
		return vmerr.New(vmerr.SegmentationFault, 0, "access [0x%04X,0x%04X) crosses segment boundary", addr, end)
	}
	if seg == Heap {
		return m.checkHeapAccess(addr, size, need)
	}
	if m.segs[seg].perm&need != need {
		return vmerr.New(vmerr.ProtectionFault, 0, "segment lacks permission for access at 0x%04X", addr)
	}
	return nil
}

// ReadByte, ReadWord and ReadDword perform bounds- and permission-checked
// little-endian loads of 8/16/32 bits.
func (m *Memory) ReadByte(addr uint32) (uint8, error) {
	addr = m.wrap(addr)
	if err := m.checkAccess(addr, 1, PermRead); err != nil {
		return 0, err
	}
	return m.buf[addr], nil
}

func (m *Memory) ReadWord(addr uint32) (uint16, error) {
	addr = m.wrap(addr)
	if err := m.checkAccess(addr, 2, PermRead); err != nil {
		return 0, err
	}
	return uint16(m.buf[addr]) | uint16(m.buf[addr+1])<<8, nil
}

func (m *Memory) ReadDword(addr uint32) (uint32, error) {
	addr = m.wrap(addr)
	if err := m.checkAccess(addr, 4, PermRead); err != nil {
		return 0, err
	}
	return uint32(m.buf[addr]) | uint32(m.buf[addr+1])<<8 |
		uint32(m.buf[addr+2])<<16 | uint32(m.buf[addr+3])<<24, nil
}

// WriteByte, WriteWord and WriteDword perform bounds- and permission-checked
// little-endian stores of 8/16/32 bits.
func (m *Memory) WriteByte(addr uint32, v uint8) error {
	addr = m.wrap(addr)
	if err := m.checkAccess(addr, 1, PermWrite); err != nil {
		return err
	}
	m.buf[addr] = v
	return nil
}

func (m *Memory) WriteWord(addr uint32, v uint16) error {
	addr = m.wrap(addr)
	if err := m.checkAccess(addr, 2, PermWrite); err != nil {
		return err
	}
	m.buf[addr] = byte(v)
	m.buf[addr+1] = byte(v >> 8)
	return nil
}

func (m *Memory) WriteDword(addr uint32, v uint32) error {
	addr = m.wrap(addr)
	if err := m.checkAccess(addr, 4, PermWrite); err != nil {
		return err
	}
	m.buf[addr] = byte(v)
	m.buf[addr+1] = byte(v >> 8)
	m.buf[addr+2] = byte(v >> 16)
	m.buf[addr+3] = byte(v >> 24)
	return nil
}

// LoadBytes copies raw bytes into memory with no permission check, for the
// loader populating CODE/DATA before execution starts.
func (m *Memory) LoadBytes(base uint32, data []byte) error {
	if uint64(base)+uint64(len(data)) > uint64(m.size) {
		return vmerr.New(vmerr.SegmentationFault, 0, "image of %d bytes does not fit at 0x%04X", len(data), base)
	}
	copy(m.buf[base:], data)
	return nil
}

// Copy moves n bytes from src to dst, tolerating overlap (MEMCPY semantics).
func (m *Memory) Copy(dst, src, n uint32) error {
	dst, src = m.wrap(dst), m.wrap(src)
	if err := m.checkAccess(src, n, PermRead); err != nil {
		return err
	}
	if err := m.checkAccess(dst, n, PermWrite); err != nil {
		return err
	}
	tmp := make([]byte, n)
	copy(tmp, m.buf[src:src+n])
	copy(m.buf[dst:dst+n], tmp)
	return nil
}

// Fill writes n copies of val starting at addr (MEMSET semantics).
func (m *Memory) Fill(addr uint32, val uint8, n uint32) error {
	addr = m.wrap(addr)
	if err := m.checkAccess(addr, n, PermWrite); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		m.buf[addr+i] = val
	}
	return nil
}
