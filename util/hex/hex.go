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

// Package hex formats register and memory dumps for the debugger prompt
// and fault diagnostics, without dragging in a general-purpose dumper.
package hex

import "strings"

var hexMap = "0123456789ABCDEF"

// FormatWord appends each 32-bit word in words as 8 hex digits, space
// separated.
func FormatWord(str *strings.Builder, words []uint32) {
	for _, full := range words {
		shift := 28
		for i := 0; i < 8; i++ {
			str.WriteByte(hexMap[(full>>shift)&0xf])
			shift -= 4
		}
		str.WriteByte(' ')
	}
}

// FormatHalf appends each 16-bit half in halves as 4 hex digits.
func FormatHalf(str *strings.Builder, space bool, halves []uint16) {
	for _, half := range halves {
		shift := 12
		for i := 0; i < 4; i++ {
			str.WriteByte(hexMap[(half>>shift)&0xf])
			shift -= 4
		}
		if space {
			str.WriteByte(' ')
		}
	}
	if !space {
		str.WriteByte(' ')
	}
}

// FormatBytes appends each byte in data as 2 hex digits, optionally
// space separated.
func FormatBytes(str *strings.Builder, space bool, data []uint8) {
	for _, b := range data {
		str.WriteByte(hexMap[(b>>4)&0xf])
		str.WriteByte(hexMap[b&0xf])
		if space {
			str.WriteByte(' ')
		}
	}
}

// FormatByte appends a single byte as 2 hex digits.
func FormatByte(str *strings.Builder, data byte) {
	str.WriteByte(hexMap[(data>>4)&0xf])
	str.WriteByte(hexMap[data&0xf])
}

// RegisterDump formats the 16 general registers as four rows of four,
// each labeled with its RegName, the layout the step debugger prints after every stop.
func RegisterDump(regs [16]uint32) string {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte('\n')
		}
		b.WriteString(RegName(i))
		b.WriteString("=")
		FormatWord(&b, []uint32{regs[i]})
	}
	return b.String()
}

// RegName returns a register's conventional name, falling back to Rn for
// the general-purpose ones.
func RegName(i int) string {
	switch i {
	case 0:
		return "ACC"
	case 1:
		return "BP "
	case 2:
		return "SP "
	case 3:
		return "PC "
	case 4:
		return "SR "
	case 15:
		return "LR "
	default:
		return "R" + FormatDecimalString(uint8(i))
	}
}

// FormatDecimalString renders num in decimal without leading zeros.
func FormatDecimalString(num uint8) string {
	if num == 0 {
		return "0"
	}
	var digits []byte
	for num > 0 {
		digits = append([]byte{byte('0' + num%10)}, digits...)
		num /= 10
	}
	return string(digits)
}

// MemoryDump formats addr..addr+len(data) as 16-byte rows prefixed by the
// row's starting address.
func MemoryDump(base uint32, data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		addr := base + uint32(i)
		for shift := 24; shift >= 0; shift -= 8 {
			FormatByte(&b, byte(addr>>uint(shift)))
		}
		b.WriteString(": ")
		FormatBytes(&b, true, data[i:end])
		b.WriteByte('\n')
	}
	return b.String()
}
