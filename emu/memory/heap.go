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

import "github.com/vm32sys/vm32/emu/vmerr"

// heapHeader is the 8-byte record preceding every heap allocation. It is
// read and written through width-specific accessors, never through a
// pointer cast, so its layout never depends on host struct padding.
type heapHeader struct {
	magic      uint16
	size       uint16 // total block size, including this header
	isFree     bool
	protection Perm
	next       uint16 // offset from HEAP base to next block; 0 terminates
}

// initHeap writes a single free block covering the entire HEAP segment.
func (m *Memory) initHeap() {
	h := m.segs[Heap]
	hdr := heapHeader{magic: heapMagic, size: uint16(h.size), isFree: true, protection: PermAll, next: 0}
	m.writeHeader(h.base, hdr)
}

func (m *Memory) readHeader(addr uint32) (heapHeader, error) {
	magic, err := m.rawWord(addr)
	if err != nil {
		return heapHeader{}, err
	}
	size, err := m.rawWord(addr + 2)
	if err != nil {
		return heapHeader{}, err
	}
	isFree, err := m.rawByte(addr + 4)
	if err != nil {
		return heapHeader{}, err
	}
	prot, err := m.rawByte(addr + 5)
	if err != nil {
		return heapHeader{}, err
	}
	next, err := m.rawWord(addr + 6)
	if err != nil {
		return heapHeader{}, err
	}
	hdr := heapHeader{magic: magic, size: size, isFree: isFree != 0, protection: Perm(prot), next: next}
	if hdr.magic != heapMagic {
		return heapHeader{}, vmerr.New(vmerr.MemoryAllocation, 0, "corrupted heap block at 0x%04X: bad magic 0x%04X", addr, hdr.magic)
	}
	return hdr, nil
}

func (m *Memory) writeHeader(addr uint32, hdr heapHeader) {
	m.rawPutWord(addr, hdr.magic)
	m.rawPutWord(addr+2, hdr.size)
	free := uint8(0)
	if hdr.isFree {
		free = 1
	}
	m.rawPutByte(addr+4, free)
	m.rawPutByte(addr+5, uint8(hdr.protection))
	m.rawPutWord(addr+6, hdr.next)
}

// rawByte/rawWord bypass segment/heap permission checks: the allocator
// manages header bytes itself and must read/write them unconditionally.
func (m *Memory) rawByte(addr uint32) (uint8, error) {
	if addr >= m.size {
		return 0, vmerr.New(vmerr.SegmentationFault, 0, "heap header read out of bounds at 0x%04X", addr)
	}
	return m.buf[addr], nil
}

func (m *Memory) rawWord(addr uint32) (uint16, error) {
	if addr+2 > m.size {
		return 0, vmerr.New(vmerr.SegmentationFault, 0, "heap header read out of bounds at 0x%04X", addr)
	}
	return uint16(m.buf[addr]) | uint16(m.buf[addr+1])<<8, nil
}

func (m *Memory) rawPutByte(addr uint32, v uint8) { m.buf[addr] = v }

func (m *Memory) rawPutWord(addr uint32, v uint16) {
	m.buf[addr] = byte(v)
	m.buf[addr+1] = byte(v >> 8)
}

func roundSize(n uint32) uint32 {
	n = (n + 3) &^ 3
	if n < minPayload {
		n = minPayload
	}
	return n
}

// Allocate finds the first free block able to hold n bytes (first-fit),
// splitting it if the remainder can hold a fresh header plus the minimum
// payload, and returns the address of the payload (just past the header).
func (m *Memory) Allocate(n uint32) (uint32, error) {
	need := roundSize(n)
	h := m.segs[Heap]
	addr := h.base
	for addr != 0 {
		hdr, err := m.readHeader(addr)
		if err != nil {
			return 0, err
		}
		total := need + headerSize
		if hdr.isFree && uint32(hdr.size) >= total {
			remainder := uint32(hdr.size) - total
			if remainder >= headerSize+minPayload {
				newAddr := addr + total
				m.writeHeader(newAddr, heapHeader{
					magic: heapMagic, size: uint16(remainder), isFree: true,
					protection: PermAll, next: hdr.next,
				})
				hdr.size = uint16(total)
				hdr.next = uint16(newAddr - h.base)
			}
			hdr.isFree = false
			hdr.protection = PermAll
			m.writeHeader(addr, hdr)
			return addr + headerSize, nil
		}
		if hdr.next == 0 {
			break
		}
		addr = h.base + uint32(hdr.next)
	}
	return 0, vmerr.New(vmerr.MemoryAllocation, 0, "heap exhausted: no free block for %d bytes", n)
}

// blockHeaderAddr walks the free-list to find the block header whose
// payload contains p.
func (m *Memory) blockHeaderAddr(p uint32) (uint32, error) {
	h := m.segs[Heap]
	if p < h.base+headerSize || p >= h.base+h.size {
		return 0, vmerr.New(vmerr.InvalidAddress, 0, "address 0x%04X is not a heap payload pointer", p)
	}
	addr := h.base
	for addr != 0 {
		hdr, err := m.readHeader(addr)
		if err != nil {
			return 0, err
		}
		if p >= addr+headerSize && p < addr+uint32(hdr.size) {
			return addr, nil
		}
		if hdr.next == 0 {
			break
		}
		addr = h.base + uint32(hdr.next)
	}
	return 0, vmerr.New(vmerr.InvalidAddress, 0, "address 0x%04X is not a live heap block", p)
}

// Free releases the block whose payload contains p, then coalesces it
// forward with an immediately-following free block. Coalescing only looks
// forward because the free-list is address-sorted and singly linked.
func (m *Memory) Free(p uint32) error {
	addr, err := m.blockHeaderAddr(p)
	if err != nil {
		return err
	}
	hdr, err := m.readHeader(addr)
	if err != nil {
		return err
	}
	if hdr.isFree {
		return vmerr.New(vmerr.InvalidAddress, 0, "double free at 0x%04X", p)
	}
	hdr.isFree = true
	m.writeHeader(addr, hdr)
	return m.coalesce(addr)
}

// coalesce merges the block at addr with its immediate successor while both
// are free and adjacent in memory.
func (m *Memory) coalesce(addr uint32) error {
	h := m.segs[Heap]
	for {
		hdr, err := m.readHeader(addr)
		if err != nil {
			return err
		}
		if hdr.next == 0 {
			return nil
		}
		nextAddr := h.base + uint32(hdr.next)
		if nextAddr != addr+uint32(hdr.size) {
			return nil // not adjacent, nothing to merge
		}
		nextHdr, err := m.readHeader(nextAddr)
		if err != nil {
			return err
		}
		if !nextHdr.isFree {
			return nil
		}
		hdr.size += nextHdr.size
		hdr.next = nextHdr.next
		m.writeHeader(addr, hdr)
	}
}

// Protect sets the protection bits of the block containing p.
func (m *Memory) Protect(p uint32, perm Perm) error {
	addr, err := m.blockHeaderAddr(p)
	if err != nil {
		return err
	}
	hdr, err := m.readHeader(addr)
	if err != nil {
		return err
	}
	hdr.protection = perm
	m.writeHeader(addr, hdr)
	return nil
}

// checkHeapAccess validates that [addr,addr+size) lies within one in-use
// heap block whose protection bits cover need.
func (m *Memory) checkHeapAccess(addr, size uint32, need Perm) error {
	h := m.segs[Heap]
	blockAddr := h.base
	for blockAddr != 0 {
		hdr, err := m.readHeader(blockAddr)
		if err != nil {
			return err
		}
		payload := blockAddr + headerSize
		payloadEnd := blockAddr + uint32(hdr.size)
		if addr >= payload && addr+size <= payloadEnd {
			if hdr.isFree {
				return vmerr.New(vmerr.SegmentationFault, 0, "access to freed heap block at 0x%04X", addr)
			}
			if hdr.protection&need != need {
				return vmerr.New(vmerr.ProtectionFault, 0, "heap block at 0x%04X lacks required permission", blockAddr)
			}
			return nil
		}
		if hdr.next == 0 {
			break
		}
		blockAddr = h.base + uint32(hdr.next)
	}
	return vmerr.New(vmerr.SegmentationFault, 0, "access [0x%04X,+%d) is not within one allocated heap block", addr, size)
}
