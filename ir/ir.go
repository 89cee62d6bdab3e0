package ir

import "fmt"

// Module is a resolved layout module.
type Module struct {
	// Name is the identifier of the shared word buffer in emitted code.
	Name string

	// Defs holds all definitions in dependency order.
	Defs []TypeDef

	// WriteEnabled enables generation of encode functions.
	WriteEnabled bool

	index map[string]DefHandle
}

// DefHandle indexes Module.Defs.
type DefHandle uint32

// TypeDef is a named struct or union with its total byte size.
type TypeDef struct {
	Name string
	Size uint32
	Def  Definition
}

// Definition is either a StructDef or a UnionDef.
type Definition interface {
	definition()
}

// StructDef is an ordered list of fields.
type StructDef struct {
	Fields []Field
}

func (StructDef) definition() {}

// UnionDef is an ordered list of variants. A variant's index is its tag.
type UnionDef struct {
	Variants []Variant
}

func (UnionDef) definition() {}

// Field is a struct member at a fixed byte offset.
type Field struct {
	Name   string
	Offset uint32
	Type   LayoutType
}

// Variant is a union alternative.
type Variant struct {
	Name    string
	Payload Payload
}

// Payload describes what a union variant carries after its tag.
type Payload interface {
	payload()
}

// NoPayload marks a variant that only stores its tag.
type NoPayload struct{}

func (NoPayload) payload() {}

// StructPayload is a single inline struct stored at Offset.
type StructPayload struct {
	Offset uint32
	Def    DefHandle
}

func (StructPayload) payload() {}

// UnsupportedPayload is any other payload shape. It is kept in the IR so
// that code generation can report it instead of silently skipping it.
type UnsupportedPayload struct {
	Items  []PayloadItem
	Reason string
}

func (UnsupportedPayload) payload() {}

// PayloadItem is one element of an unsupported payload.
type PayloadItem struct {
	Offset uint32
	Type   LayoutType
}

// LayoutType is a type together with its byte size.
type LayoutType struct {
	Type Type
	Size uint32
}

// Type is the value type of a field.
type Type interface {
	gpuType()
}

// ScalarType is a single 1, 2 or 4 byte value.
type ScalarType struct {
	Kind ScalarKind
}

func (ScalarType) gpuType() {}

// VectorType is 1 to 4 lanes of the same scalar kind.
type VectorType struct {
	Kind  ScalarKind
	Lanes uint8
}

func (VectorType) gpuType() {}

// StructType embeds another struct definition inline.
type StructType struct {
	Def DefHandle
}

func (StructType) gpuType() {}

// RefType is a 4-byte offset into the shared buffer pointing at a value of
// the target definition. It is never dereferenced by generated code.
type RefType struct {
	Def DefHandle
}

func (RefType) gpuType() {}

// ScalarKind enumerates the supported scalar encodings.
type ScalarKind uint8

const (
	F32 ScalarKind = iota
	U8
	U16
	U32
	I8
	I16
	I32
)

var scalarNames = [...]string{
	F32: "f32",
	U8:  "u8",
	U16: "u16",
	U32: "u32",
	I8:  "i8",
	I16: "i16",
	I32: "i32",
}

// String returns the short kind name, e.g. "u16".
func (k ScalarKind) String() string {
	if int(k) < len(scalarNames) {
		return scalarNames[k]
	}
	return fmt.Sprintf("scalar(%d)", uint8(k))
}

// ParseScalarKind is the inverse of ScalarKind.String.
func ParseScalarKind(s string) (ScalarKind, bool) {
	for k, name := range scalarNames {
		if name == s {
			return ScalarKind(k), true
		}
	}
	return 0, false
}

// Size returns the width in bytes.
func (k ScalarKind) Size() uint32 {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	default:
		return 4
	}
}

// IsFloat reports whether the kind is a floating point kind.
func (k ScalarKind) IsFloat() bool {
	return k == F32
}

// IsSigned reports whether the kind is a signed integer kind.
func (k ScalarKind) IsSigned() bool {
	return k == I8 || k == I16 || k == I32
}

// Lookup returns the handle of the named definition.
func (m *Module) Lookup(name string) (DefHandle, bool) {
	if m.index != nil {
		h, ok := m.index[name]
		return h, ok
	}
	for i := range m.Defs {
		if m.Defs[i].Name == name {
			return DefHandle(i), true //nolint:gosec // G115: i is a valid slice index
		}
	}
	return 0, false
}

// Def returns the definition for a handle, or nil if out of range.
func (m *Module) Def(h DefHandle) *TypeDef {
	if int(h) >= len(m.Defs) {
		return nil
	}
	return &m.Defs[h]
}

// SizeOf returns the byte size of a type.
func (m *Module) SizeOf(t Type) uint32 {
	switch t := t.(type) {
	case ScalarType:
		return t.Kind.Size()
	case VectorType:
		return t.Kind.Size() * uint32(t.Lanes)
	case RefType:
		return 4
	case StructType:
		if def := m.Def(t.Def); def != nil {
			return def.Size
		}
	}
	return 0
}

// Layout pairs a type with its computed size.
func (m *Module) Layout(t Type) LayoutType {
	return LayoutType{Type: t, Size: m.SizeOf(t)}
}
