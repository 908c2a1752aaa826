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

package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vm32sys/vm32/emu/cpu"
)

// operand is a parsed second operand: a register, an immediate/address
// value, or a register-plus-displacement. When it names a symbol instead of
// a literal number, label is set and assembleOperandOnly resolves it into
// value.
type operand struct {
	mode    uint8
	reg2    uint8
	value   int64
	label   string
	isLabel bool
}

func parseNumber(tok string) (int64, error) {
	neg := false
	if strings.HasPrefix(tok, "-") {
		neg = true
		tok = tok[1:]
	}
	var n int64
	var err error
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		v, e := strconv.ParseUint(tok[2:], 16, 64)
		n, err = int64(v), e
	} else {
		v, e := strconv.ParseInt(tok, 10, 64)
		n, err = v, e
	}
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", tok)
	}
	if neg {
		n = -n
	}
	return n, nil
}

// isNumeric reports whether tok looks like a literal number rather than a
// label reference.
func isNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	t := tok
	if strings.HasPrefix(t, "-") {
		t = t[1:]
	}
	if t == "" {
		return false
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		return len(t) > 2
	}
	for _, r := range t {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func numberOrLabel(tok string) (int64, string, error) {
	if isNumeric(tok) {
		n, err := parseNumber(tok)
		return n, "", err
	}
	return 0, tok, nil
}

// parseOperand parses a second-operand token into one of the seven
// addressing modes: #imm (a bare number or label is also an immediate), a
// bare register, or a bracketed memory expression ([addr], [Rn],
// [Rn+disp], [SP+disp], [BP+disp]).
func parseOperand(tok string) (operand, error) {
	tok = strings.TrimSpace(tok)
	switch {
	case strings.HasPrefix(tok, "#"):
		n, label, err := numberOrLabel(tok[1:])
		if err != nil {
			return operand{}, err
		}
		return operand{mode: cpu.ModeIMM, value: n, label: label, isLabel: label != ""}, nil

	case strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]"):
		return parseMemOperand(tok[1 : len(tok)-1])

	default:
		if reg, ok := registerNumber(tok); ok {
			return operand{mode: cpu.ModeREG, reg2: reg}, nil
		}
		n, label, err := numberOrLabel(tok)
		if err != nil {
			return operand{}, err
		}
		return operand{mode: cpu.ModeIMM, value: n, label: label, isLabel: label != ""}, nil
	}
}

func parseMemOperand(inner string) (operand, error) {
	inner = strings.TrimSpace(inner)
	upper := strings.ToUpper(inner)

	switch {
	case strings.HasPrefix(upper, "SP"):
		disp, err := parseDisplacement(inner[2:])
		if err != nil {
			return operand{}, err
		}
		return operand{mode: cpu.ModeSTK, value: disp}, nil

	case strings.HasPrefix(upper, "BP"):
		disp, err := parseDisplacement(inner[2:])
		if err != nil {
			return operand{}, err
		}
		return operand{mode: cpu.ModeBAS, value: disp}, nil

	default:
		if i := strings.IndexAny(inner, "+-"); i >= 0 {
			reg, ok := registerNumber(strings.TrimSpace(inner[:i]))
			if ok {
				disp, err := parseDisplacement(inner[i:])
				if err != nil {
					return operand{}, err
				}
				return operand{mode: cpu.ModeIDX, reg2: reg, value: disp}, nil
			}
		}
		if reg, ok := registerNumber(inner); ok {
			return operand{mode: cpu.ModeREGM, reg2: reg}, nil
		}
		n, label, err := numberOrLabel(inner)
		if err != nil {
			return operand{}, err
		}
		return operand{mode: cpu.ModeMEM, value: n, label: label, isLabel: label != ""}, nil
	}
}

func parseDisplacement(tok string) (int64, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, nil
	}
	return parseNumber(tok)
}
