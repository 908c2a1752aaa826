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

// Package loader reads the VM32 binary image format and populates a VM's
// memory and PC, kept separate from package cpu so a host can inspect or
// rewrite an image without pulling in the execution core.
package loader

import (
	"encoding/binary"
	"fmt"

	"github.com/vm32sys/vm32/emu/cpu"
)

// Image header layout, 32 bytes, little-endian throughout:
//
//	offset 0  magic[4]      "VM32"
//	offset 4  versionMajor  uint16
//	offset 6  versionMinor  uint16
//	offset 8  headerSize    uint32  (always HeaderSize)
//	offset 12 codeBase      uint32
//	offset 16 codeSize      uint32
//	offset 20 dataBase      uint32
//	offset 24 dataSize      uint32
//	offset 28 symbolSize    uint32
const (
	HeaderSize = 32

	VersionMajor = 1
	VersionMinor = 0
)

var magic = [4]byte{'V', 'M', '3', '2'}

// Image is a decoded binary image: the CODE and DATA base addresses, the
// raw segment payloads and the decoded symbol table.
type Image struct {
	CodeBase uint32
	Code     []byte
	DataBase uint32
	Data     []byte
	Symbols  []Symbol
}

// Symbol is one entry of the optional debug symbol table: a name and the
// guest address it refers to.
type Symbol struct {
	Name    string
	Address uint32
}

// Encode serializes img into the on-disk binary image format.
func Encode(img Image) []byte {
	symBytes := encodeSymbols(img.Symbols)

	out := make([]byte, HeaderSize)
	copy(out[0:4], magic[:])
	binary.LittleEndian.PutUint16(out[4:6], VersionMajor)
	binary.LittleEndian.PutUint16(out[6:8], VersionMinor)
	binary.LittleEndian.PutUint32(out[8:12], HeaderSize)
	binary.LittleEndian.PutUint32(out[12:16], img.CodeBase)
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(img.Code)))
	binary.LittleEndian.PutUint32(out[20:24], img.DataBase)
	binary.LittleEndian.PutUint32(out[24:28], uint32(len(img.Data)))
	binary.LittleEndian.PutUint32(out[28:32], uint32(len(symBytes)))

	out = append(out, img.Code...)
	out = append(out, img.Data...)
	out = append(out, symBytes...)
	return out
}

// Decode parses raw into an Image, validating the magic number and that
// every declared segment fits within raw.
func Decode(raw []byte) (Image, error) {
	if len(raw) < 12 || string(raw[0:4]) != string(magic[:]) {
		return Image{}, fmt.Errorf("loader: missing VM32 magic number")
	}
	if len(raw) < HeaderSize {
		return Image{}, fmt.Errorf("loader: truncated header: got %d bytes, want %d", len(raw), HeaderSize)
	}

	headerSize := binary.LittleEndian.Uint32(raw[8:12])
	if int(headerSize) > len(raw) {
		return Image{}, fmt.Errorf("loader: header size %d exceeds file size %d", headerSize, len(raw))
	}
	codeBase := binary.LittleEndian.Uint32(raw[12:16])
	codeSize := binary.LittleEndian.Uint32(raw[16:20])
	dataBase := binary.LittleEndian.Uint32(raw[20:24])
	dataSize := binary.LittleEndian.Uint32(raw[24:28])
	symbolSize := binary.LittleEndian.Uint32(raw[28:32])

	need := uint64(headerSize) + uint64(codeSize) + uint64(dataSize) + uint64(symbolSize)
	if need > uint64(len(raw)) {
		return Image{}, fmt.Errorf("loader: segment sizes (%d) exceed file size %d", need, len(raw))
	}

	codeOff := headerSize
	dataOff := codeOff + codeSize
	symOff := dataOff + dataSize

	img := Image{
		CodeBase: codeBase,
		Code:     raw[codeOff : codeOff+codeSize],
		DataBase: dataBase,
		Data:     raw[dataOff : dataOff+dataSize],
	}
	if symbolSize > 0 {
		symbols, err := decodeSymbols(raw[symOff : symOff+symbolSize])
		if err != nil {
			return Image{}, err
		}
		img.Symbols = symbols
	}
	return img, nil
}

// LoadInto writes img's segments into vm's memory and positions PC at the
// code segment's entry point.
func LoadInto(vm *cpu.VM, img Image) error {
	if len(img.Code) > 0 {
		if err := vm.Mem.LoadBytes(img.CodeBase, img.Code); err != nil {
			return err
		}
	}
	if len(img.Data) > 0 {
		if err := vm.Mem.LoadBytes(img.DataBase, img.Data); err != nil {
			return err
		}
	}
	vm.Reg[cpu.RegPC] = img.CodeBase
	return nil
}

func encodeSymbols(symbols []Symbol) []byte {
	if len(symbols) == 0 {
		return nil
	}
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(len(symbols)))
	for _, s := range symbols {
		nameLen := make([]byte, 2)
		binary.LittleEndian.PutUint16(nameLen, uint16(len(s.Name)))
		out = append(out, nameLen...)
		out = append(out, s.Name...)
		addr := make([]byte, 4)
		binary.LittleEndian.PutUint32(addr, s.Address)
		out = append(out, addr...)
	}
	return out
}

func decodeSymbols(data []byte) ([]Symbol, error) {
	if len(data) < 4 {
		return nil, nil
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	ptr := 4
	symbols := make([]Symbol, 0, count)
	for i := uint32(0); i < count; i++ {
		if ptr+2 > len(data) {
			break
		}
		nameLen := int(binary.LittleEndian.Uint16(data[ptr : ptr+2]))
		ptr += 2
		if ptr+nameLen+4 > len(data) {
			break
		}
		name := string(data[ptr : ptr+nameLen])
		ptr += nameLen
		addr := binary.LittleEndian.Uint32(data[ptr : ptr+4])
		ptr += 4
		symbols = append(symbols, Symbol{Name: name, Address: addr})
	}
	return symbols, nil
}
