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
	"fmt"
	"os"
	"time"
)

// fileHandles hands out small integer descriptors for the file syscalls,
// so guest code can hold a 32-bit handle instead of a host pointer.
type fileHandles struct {
	next  uint32
	files map[uint32]*os.File
}

func newFileHandles() fileHandles {
	return fileHandles{next: 1, files: make(map[uint32]*os.File)}
}

func (h *fileHandles) add(f *os.File) uint32 {
	id := h.next
	h.next++
	h.files[id] = f
	return id
}

func (h *fileHandles) get(id uint32) (*os.File, error) {
	f, ok := h.files[id]
	if !ok {
		return nil, fmt.Errorf("no open file with handle %d", id)
	}
	return f, nil
}

func (h *fileHandles) remove(id uint32) {
	delete(h.files, id)
}

// closeAll closes every still-open handle, used when the VM is torn down.
func (h *fileHandles) closeAll() {
	for id, f := range h.files {
		f.Close()
		delete(h.files, id)
	}
}

func msSince(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}
