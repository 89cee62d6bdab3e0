// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/ir"
)

// GLSL type names used by accessors.
const (
	glslTypeFloat = "float"
	glslTypeInt   = "int"
	glslTypeUint  = "uint"
)

// Target is the GLSL syntax adapter for accessor generation.
type Target struct{}

var _ accessor.Target = Target{}

// Language returns "glsl".
func (Target) Language() string { return "glsl" }

// ScalarType returns the GLSL type that holds a scalar of kind k.
func (Target) ScalarType(k ir.ScalarKind) string {
	switch {
	case k.IsFloat():
		return glslTypeFloat
	case k.IsSigned():
		return glslTypeInt
	default:
		return glslTypeUint
	}
}

// VectorType returns vecN, ivecN or uvecN.
func (Target) VectorType(k ir.ScalarKind, lanes uint8) string {
	prefix := "u"
	switch {
	case k.IsFloat():
		prefix = ""
	case k.IsSigned():
		prefix = "i"
	}
	return fmt.Sprintf("%svec%d", prefix, lanes)
}

func (Target) Uint(v uint32) string { return strconv.FormatUint(uint64(v), 10) }
func (Target) Hex(v uint32) string  { return fmt.Sprintf("0x%x", v) }

func (Target) FloatFromBits(x string) string { return "uintBitsToFloat(" + x + ")" }
func (Target) FloatToBits(x string) string   { return "floatBitsToUint(" + x + ")" }
func (Target) IntFromBits(x string) string   { return "int(" + x + ")" }
func (Target) IntToBits(x string) string     { return "uint(" + x + ")" }

// MakeRef uses the handle struct's constructor.
func (Target) MakeRef(def, offset string) string {
	return def + "Ref(" + offset + ")"
}

func (Target) RefParam() string { return "ref" }

func (Target) DefNames(string) []string { return nil }
func (Target) Locals() []string         { return nil }

// WriteBufferDecl declares the buffer as a Vulkan GLSL storage block.
func (Target) WriteBufferDecl(w *accessor.Writer, name string, b accessor.Binding, writable bool) {
	access := "readonly "
	if writable {
		access = ""
	}
	w.Line("layout(set = %d, binding = %d) %sbuffer %sBuf {", b.Group, b.Binding, access, name)
	w.Push()
	w.Line("uint %s[];", name)
	w.Pop()
	w.Line("};")
}

func (Target) WriteRefDecl(w *accessor.Writer, def string) {
	w.Line("struct %sRef {", def)
	w.Push()
	w.Line("uint offset;")
	w.Pop()
	w.Line("};")
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
func (Target) VarDecl(name, typ string) string   { return typ + " " + name + ";" }

// IsReserved reports GLSL keywords, built-ins and reserved namespaces.
func (Target) IsReserved(name string) bool { return isReserved(name) }
