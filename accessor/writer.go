// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package accessor

import (
	"fmt"
	"strings"
)

// Writer accumulates indented source lines. Targets use it to emit their
// multi-line declarations.
type Writer struct {
	out    strings.Builder
	indent int
}

// String returns the text written so far.
func (w *Writer) String() string {
	return w.out.String()
}

// Line writes one indented line. Arguments, when present, are formatted
// with fmt.Sprintf.
func (w *Writer) Line(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.out.WriteByte('\n')
}

// Push increases indentation.
func (w *Writer) Push() {
	w.indent++
}

// Pop decreases indentation.
func (w *Writer) Pop() {
	if w.indent > 0 {
		w.indent--
	}
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}
