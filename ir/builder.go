package ir

import (
	"fmt"
	"strconv"
)

// TypeSpec names a field type before definition names are resolved.
type TypeSpec struct {
	kind   specKind
	scalar ScalarKind
	lanes  uint8
	name   string
}

type specKind uint8

const (
	specScalar specKind = iota
	specVector
	specInline
	specRef
)

// Scalar returns a spec for a scalar of the given kind.
func Scalar(k ScalarKind) TypeSpec {
	return TypeSpec{kind: specScalar, scalar: k}
}

// Vector returns a spec for a vector of lanes elements.
func Vector(k ScalarKind, lanes uint8) TypeSpec {
	return TypeSpec{kind: specVector, scalar: k, lanes: lanes}
}

// Inline returns a spec for the named struct embedded inline.
func Inline(name string) TypeSpec {
	return TypeSpec{kind: specInline, name: name}
}

// Ref returns a spec for a reference to the named struct.
func Ref(name string) TypeSpec {
	return TypeSpec{kind: specRef, name: name}
}

// String formats the spec the way description files spell it.
func (s TypeSpec) String() string {
	switch s.kind {
	case specVector:
		return "vec" + strconv.Itoa(int(s.lanes)) + "<" + s.scalar.String() + ">"
	case specInline:
		return s.name
	case specRef:
		return "ref<" + s.name + ">"
	default:
		return s.scalar.String()
	}
}

// FieldSpec describes a struct field. A zero Size means the size is derived
// from the type.
type FieldSpec struct {
	Name   string
	Offset uint32
	Type   TypeSpec
	Size   uint32
}

// F is shorthand for a FieldSpec with a derived size.
func F(name string, offset uint32, typ TypeSpec) FieldSpec {
	return FieldSpec{Name: name, Offset: offset, Type: typ}
}

// PayloadSpec is one payload element of a union variant.
type PayloadSpec struct {
	Offset uint32
	Type   TypeSpec
}

// P is shorthand for a PayloadSpec.
func P(offset uint32, typ TypeSpec) PayloadSpec {
	return PayloadSpec{Offset: offset, Type: typ}
}

// VariantSpec describes a union variant.
type VariantSpec struct {
	Name    string
	Payload []PayloadSpec
}

// V is shorthand for a VariantSpec.
func V(name string, payload ...PayloadSpec) VariantSpec {
	return VariantSpec{Name: name, Payload: payload}
}

type defSpec struct {
	name     string
	size     uint32
	union    bool
	fields   []FieldSpec
	variants []VariantSpec
}

// Builder assembles a Module from by-name specs.
// Definitions must be added in dependency order.
type Builder struct {
	name  string
	write bool
	defs  []defSpec
}

// NewBuilder creates a builder for a module whose buffer is called name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name: name,
		defs: make([]defSpec, 0, 8),
	}
}

// SetWriteEnabled controls generation of encode functions.
func (b *Builder) SetWriteEnabled(enabled bool) *Builder {
	b.write = enabled
	return b
}

// Struct adds a struct definition of the given total size.
func (b *Builder) Struct(name string, size uint32, fields ...FieldSpec) *Builder {
	b.defs = append(b.defs, defSpec{name: name, size: size, fields: fields})
	return b
}

// Union adds a union definition of the given total size.
func (b *Builder) Union(name string, size uint32, variants ...VariantSpec) *Builder {
	b.defs = append(b.defs, defSpec{name: name, size: size, union: true, variants: variants})
	return b
}

// Build interns definition names, resolves type specs and validates the
// result. The returned error is a ValidationErrors value.
func (b *Builder) Build() (*Module, error) {
	m := &Module{
		Name:         b.name,
		WriteEnabled: b.write,
		Defs:         make([]TypeDef, 0, len(b.defs)),
		index:        make(map[string]DefHandle, len(b.defs)),
	}

	var errs ValidationErrors
	for _, spec := range b.defs {
		if _, dup := m.index[spec.name]; dup {
			errs = append(errs, ValidationError{
				Kind:    KindDuplicateDefinition,
				Type:    spec.name,
				Message: "defined more than once",
			})
			continue
		}
		m.index[spec.name] = DefHandle(len(m.Defs)) //nolint:gosec // G115: bounded by len(b.defs)
		m.Defs = append(m.Defs, TypeDef{Name: spec.name, Size: spec.size})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	r := resolver{module: m, unions: make([]bool, len(b.defs))}
	for i, spec := range b.defs {
		r.unions[i] = spec.union
	}
	for i, spec := range b.defs {
		r.typeName = spec.name
		if spec.union {
			m.Defs[i].Def = r.union(spec.variants)
		} else {
			m.Defs[i].Def = r.structDef(spec.fields)
		}
	}
	if len(r.errs) > 0 {
		return nil, r.errs
	}

	verrs, err := Validate(m)
	if err != nil {
		return nil, err
	}
	if len(verrs) > 0 {
		return nil, ValidationErrors(verrs)
	}
	return m, nil
}

// resolver turns by-name specs into handle based types.
type resolver struct {
	module   *Module
	unions   []bool
	typeName string
	errs     ValidationErrors
}

func (r *resolver) structDef(specs []FieldSpec) StructDef {
	fields := make([]Field, 0, len(specs))
	for _, fs := range specs {
		typ, ok := r.resolve(fs.Type, fs.Name)
		if !ok {
			continue
		}
		size := fs.Size
		if size == 0 {
			size = r.module.SizeOf(typ)
		}
		fields = append(fields, Field{
			Name:   fs.Name,
			Offset: fs.Offset,
			Type:   LayoutType{Type: typ, Size: size},
		})
	}
	return StructDef{Fields: fields}
}

func (r *resolver) union(specs []VariantSpec) UnionDef {
	variants := make([]Variant, 0, len(specs))
	for _, vs := range specs {
		variants = append(variants, Variant{Name: vs.Name, Payload: r.payload(vs)})
	}
	return UnionDef{Variants: variants}
}

func (r *resolver) payload(vs VariantSpec) Payload {
	if len(vs.Payload) == 0 {
		return NoPayload{}
	}

	items := make([]PayloadItem, 0, len(vs.Payload))
	for _, ps := range vs.Payload {
		typ, ok := r.resolve(ps.Type, vs.Name)
		if !ok {
			return NoPayload{}
		}
		items = append(items, PayloadItem{Offset: ps.Offset, Type: r.module.Layout(typ)})
	}

	if len(items) > 1 {
		return UnsupportedPayload{
			Items:  items,
			Reason: fmt.Sprintf("payload has %d items, only a single struct is supported", len(items)),
		}
	}
	st, ok := items[0].Type.Type.(StructType)
	if !ok {
		return UnsupportedPayload{
			Items:  items,
			Reason: fmt.Sprintf("payload of type %s is not a struct", vs.Payload[0].Type),
		}
	}
	if r.unions[st.Def] {
		return UnsupportedPayload{
			Items:  items,
			Reason: fmt.Sprintf("payload %s is a union, only structs are supported", vs.Payload[0].Type),
		}
	}
	return StructPayload{Offset: items[0].Offset, Def: st.Def}
}

func (r *resolver) resolve(spec TypeSpec, member string) (Type, bool) {
	switch spec.kind {
	case specScalar:
		return ScalarType{Kind: spec.scalar}, true
	case specVector:
		return VectorType{Kind: spec.scalar, Lanes: spec.lanes}, true
	}

	h, ok := r.module.index[spec.name]
	if !ok {
		r.errs = append(r.errs, ValidationError{
			Kind:    KindUnknownType,
			Type:    r.typeName,
			Member:  member,
			Message: fmt.Sprintf("unknown type %q", spec.name),
		})
		return nil, false
	}
	if spec.kind == specRef {
		return RefType{Def: h}, true
	}
	return StructType{Def: h}, true
}
