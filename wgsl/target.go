// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/ir"
)

// Target is the WGSL syntax adapter for accessor generation.
type Target struct{}

var _ accessor.Target = Target{}

// Language returns "wgsl".
func (Target) Language() string { return "wgsl" }

// ScalarType returns f32, i32 or u32.
func (Target) ScalarType(k ir.ScalarKind) string {
	switch {
	case k.IsFloat():
		return "f32"
	case k.IsSigned():
		return "i32"
	default:
		return "u32"
	}
}

// VectorType returns vecN<T>.
func (t Target) VectorType(k ir.ScalarKind, lanes uint8) string {
	return fmt.Sprintf("vec%d<%s>", lanes, t.ScalarType(k))
}

// Uint prints an unsigned literal. WGSL does not convert abstract integers
// in shifts, so every literal carries the u suffix.
func (Target) Uint(v uint32) string { return strconv.FormatUint(uint64(v), 10) + "u" }
func (Target) Hex(v uint32) string  { return fmt.Sprintf("0x%xu", v) }

func (Target) FloatFromBits(x string) string { return "bitcast<f32>(" + x + ")" }
func (Target) FloatToBits(x string) string   { return "bitcast<u32>(" + x + ")" }
func (Target) IntFromBits(x string) string   { return "i32(" + x + ")" }
func (Target) IntToBits(x string) string     { return "u32(" + x + ")" }

func (Target) MakeRef(def, offset string) string { return def + "Ref(" + offset + ")" }

// RefParam is "handle" because ref is reserved in WGSL.
func (Target) RefParam() string { return "handle" }

func (Target) DefNames(string) []string { return nil }
func (Target) Locals() []string         { return nil }

// WriteBufferDecl declares the word array in the storage address space.
func (Target) WriteBufferDecl(w *accessor.Writer, name string, b accessor.Binding, writable bool) {
	access := "read"
	if writable {
		access = "read_write"
	}
	w.Line("@group(%d) @binding(%d) var<storage, %s> %s: array<u32>;", b.Group, b.Binding, access, name)
}

func (t Target) WriteRefDecl(w *accessor.Writer, def string) {
	t.WriteStructDecl(w, def+"Ref", []accessor.Member{{Name: "offset", Type: "u32"}})
}

func (Target) WriteStructDecl(w *accessor.Writer, name string, members []accessor.Member) {
	w.Line("struct %s {", name)
	w.Push()
	for _, m := range members {
		w.Line("%s: %s,", m.Name, m.Type)
	}
	w.Pop()
	w.Line("}")
	w.Blank()
}

func (t Target) WriteConstant(w *accessor.Writer, name string, value uint32) {
	w.Line("const %s: u32 = %s;", name, t.Uint(value))
}

func (Target) FuncBegin(name string, params []accessor.Param, ret string) string {
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = p.Name + ": " + p.Type
	}
	if ret == "" {
		return fmt.Sprintf("fn %s(%s) {", name, strings.Join(args, ", "))
	}
	return fmt.Sprintf("fn %s(%s) -> %s {", name, strings.Join(args, ", "), ret)
}

// Let ignores the type; WGSL infers it from the initializer.
func (Target) Let(name, _, expr string) string { return "let " + name + " = " + expr + ";" }

func (Target) VarDecl(name, typ string) string { return "var " + name + ": " + typ + ";" }

// IsReserved reports WGSL keywords and reserved words.
func (Target) IsReserved(name string) bool { return isReserved(name) }
