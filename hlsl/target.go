// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/ir"
)

// refConstructorSuffix names the function that builds a handle from an
// offset. HLSL structs have no constructor syntax.
const refConstructorSuffix = "Ref_new"

// Target is the HLSL syntax adapter for accessor generation.
type Target struct{}

var _ accessor.Target = Target{}

// Language returns "hlsl".
func (Target) Language() string { return "hlsl" }

// ScalarType returns float, int or uint.
func (Target) ScalarType(k ir.ScalarKind) string {
	return scalarToHLSL(k)
}

// VectorType returns floatN, intN or uintN.
func (Target) VectorType(k ir.ScalarKind, lanes uint8) string {
	return scalarToHLSL(k) + strconv.Itoa(int(lanes))
}

func scalarToHLSL(k ir.ScalarKind) string {
	switch {
	case k.IsFloat():
		return "float"
	case k.IsSigned():
		return "int"
	default:
		return "uint"
	}
}

func (Target) Uint(v uint32) string { return strconv.FormatUint(uint64(v), 10) }
func (Target) Hex(v uint32) string  { return fmt.Sprintf("0x%x", v) }

func (Target) FloatFromBits(x string) string { return "asfloat(" + x + ")" }
func (Target) FloatToBits(x string) string   { return "asuint(" + x + ")" }
func (Target) IntFromBits(x string) string   { return "int(" + x + ")" }
func (Target) IntToBits(x string) string     { return "uint(" + x + ")" }

// MakeRef calls the handle's constructor function.
func (Target) MakeRef(def, offset string) string {
	return def + refConstructorSuffix + "(" + offset + ")"
}

func (Target) RefParam() string { return "ref" }

// DefNames returns the handle constructor of def.
func (Target) DefNames(def string) []string { return []string{def + refConstructorSuffix} }

// Locals returns the constructor's parameter and result names.
func (Target) Locals() []string { return []string{"offset", "r"} }

// WriteBufferDecl declares a structured buffer of words. Read-only buffers
// bind to a t register, writable ones to a u register.
func (Target) WriteBufferDecl(w *accessor.Writer, name string, b accessor.Binding, writable bool) {
	if writable {
		w.Line("RWStructuredBuffer<uint> %s : register(u%d, space%d);", name, b.Binding, b.Group)
		return
	}
	w.Line("StructuredBuffer<uint> %s : register(t%d, space%d);", name, b.Binding, b.Group)
}

// WriteRefDecl declares the handle struct and its constructor.
func (Target) WriteRefDecl(w *accessor.Writer, def string) {
	ref := def + "Ref"
	w.Line("struct %s {", ref)
	w.Push()
	w.Line("uint offset;")
	w.Pop()
	w.Line("};")
	w.Blank()
	w.Line("%s %s%s(uint offset) {", ref, def, refConstructorSuffix)
	w.Push()
	w.Line("%s r;", ref)
	w.Line("r.offset = offset;")
	w.Line("return r;")
	w.Pop()
	w.Line("}")
	w.Blank()
}

func (Target) WriteStructDecl(w *accessor.Writer, name string, members []accessor.Member) {
	w.Line("struct %s {", name)
	w.Push()
	for _, m := range members {
		w.Line("%s %s;", m.Type, m.Name)
	}
	w.Pop()
	w.Line("};")
	w.Blank()
}

func (Target) WriteConstant(w *accessor.Writer, name string, value uint32) {
	w.Line("#define %s %d", name, value)
}

func (Target) FuncBegin(name string, params []accessor.Param, ret string) string {
	if ret == "" {
		ret = "void"
	}
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = p.Type + " " + p.Name
	}
	return fmt.Sprintf("%s %s(%s) {", ret, name, strings.Join(args, ", "))
}

func (Target) Let(name, typ, expr string) string { return typ + " " + name + " = " + expr + ";" }

// VarDecl zero-initializes the local so that every path returns a defined
// value under DXC's uninitialized-variable checks.
func (Target) VarDecl(name, typ string) string { return typ + " " + name + " = (" + typ + ")0;" }

// IsReserved reports HLSL keywords, type names and semantics.
func (Target) IsReserved(name string) bool { return isReserved(name) }
