// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package accessor

import "github.com/gogpu/gpulayout/ir"

// Member is a struct member in a type declaration.
type Member struct {
	Name string
	Type string
}

// Param is a function parameter.
type Param struct {
	Name string
	Type string
}

// Target adapts the generator to the syntax of one shading language.
// Expression methods receive already formatted operands and return the
// formatted result.
type Target interface {
	// Language is the short language name used in diagnostics.
	Language() string

	// ScalarType and VectorType map layout types to language types.
	// VectorType is only called with 2 to 4 lanes.
	ScalarType(k ir.ScalarKind) string
	VectorType(k ir.ScalarKind, lanes uint8) string

	// Uint and Hex format unsigned literals.
	Uint(v uint32) string
	Hex(v uint32) string

	// Bit casts between uint words and float or int values.
	FloatFromBits(x string) string
	FloatToBits(x string) string
	IntFromBits(x string) string
	IntToBits(x string) string

	// MakeRef constructs the handle of def from a byte offset.
	MakeRef(def, offset string) string

	// RefParam is the name of the handle parameter of every accessor.
	RefParam() string

	// DefNames lists top-level names the target declares for def beyond
	// the ones every target shares, e.g. a handle constructor.
	DefNames(def string) []string

	// Locals lists local and parameter names used by the target's own
	// declarations.
	Locals() []string

	// WriteBufferDecl declares the word buffer.
	WriteBufferDecl(w *Writer, name string, b Binding, writable bool)

	// WriteRefDecl declares the handle type of def.
	WriteRefDecl(w *Writer, def string)

	// WriteStructDecl declares a struct type.
	WriteStructDecl(w *Writer, name string, members []Member)

	// WriteConstant declares a named unsigned constant.
	WriteConstant(w *Writer, name string, value uint32)

	// FuncBegin returns the opening line of a function. An empty ret
	// declares a function without a result.
	FuncBegin(name string, params []Param, ret string) string

	// Let declares an immutable local; VarDecl a default initialized one.
	Let(name, typ, expr string) string
	VarDecl(name, typ string) string

	// IsReserved reports whether name may not be used as an identifier.
	IsReserved(name string) bool
}
