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

// Package vmlog wraps log/slog with a per-subsystem debug mask, so -d on
// the CLI can turn on CPU or syscall tracing without a config file.
package vmlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Subsystem names a debug mask bit a caller can toggle independently.
type Subsystem int

const (
	CPU Subsystem = 1 << iota
	MEMORY
	IO
	SYSCALL
)

func (s Subsystem) String() string {
	switch s {
	case CPU:
		return "cpu"
	case MEMORY:
		return "memory"
	case IO:
		return "io"
	case SYSCALL:
		return "syscall"
	default:
		return "unknown"
	}
}

// ParseMask turns a comma-separated subsystem list ("cpu,io") into a mask.
// An empty string enables none; "all" enables every subsystem.
func ParseMask(spec string) Subsystem {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0
	}
	if spec == "all" {
		return CPU | MEMORY | IO | SYSCALL
	}
	var mask Subsystem
	for _, tok := range strings.Split(spec, ",") {
		switch strings.TrimSpace(tok) {
		case "cpu":
			mask |= CPU
		case "memory":
			mask |= MEMORY
		case "io":
			mask |= IO
		case "syscall":
			mask |= SYSCALL
		}
	}
	return mask
}

// Handler is a slog.Handler that always writes to an optional log file and
// additionally mirrors to stderr when the record's subsystem is in mask
// (attached via the "subsystem" attribute) or the level is above Debug.
type Handler struct {
	out  io.Writer
	h    slog.Handler
	mu   *sync.Mutex
	mask Subsystem
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu, mask: h.mask}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu, mask: h.mask}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")
	strs := []string{formattedTime, level, r.Message}

	var subsystem string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "subsystem" {
			subsystem = a.Value.String()
		}
		strs = append(strs, a.Value.String())
		return true
	})
	result := strings.Join(strs, " ") + "\n"
	b := []byte(result)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if r.Level > slog.LevelDebug || h.subsystemEnabled(subsystem) {
		_, err = os.Stderr.Write(b)
	}
	return err
}

func (h *Handler) subsystemEnabled(name string) bool {
	switch name {
	case "cpu":
		return h.mask&CPU != 0
	case "memory":
		return h.mask&MEMORY != 0
	case "io":
		return h.mask&IO != 0
	case "syscall":
		return h.mask&SYSCALL != 0
	default:
		return false
	}
}

// NewHandler builds a Handler writing to file (which may be nil to disable
// the file sink) with the given subsystem debug mask.
func NewHandler(file io.Writer, opts *slog.HandlerOptions, mask Subsystem) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: slog.LevelDebug}
	}
	if file == nil {
		file = io.Discard
	}
	return &Handler{
		out:  file,
		h:    slog.NewTextHandler(file, opts),
		mu:   &sync.Mutex{},
		mask: mask,
	}
}

// New is a convenience constructor returning a ready-to-use *slog.Logger.
func New(file io.Writer, mask Subsystem) *slog.Logger {
	return slog.New(NewHandler(file, nil, mask))
}
