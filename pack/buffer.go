package pack

import (
	"fmt"
	"math"

	"github.com/gogpu/gpulayout/ir"
)

// Vector is a host vector value. Every lane holds the scalar type of the
// vector's kind.
type Vector []any

// Struct is a host struct value. Fields are in declaration order and hold
// float32, uint8, uint16, uint32, int8, int16, int32, Vector, Ref or Struct.
type Struct struct {
	Def    ir.DefHandle
	Fields []any
}

// Ref is a host reference: a byte offset into the word buffer.
type Ref struct {
	Offset uint32
}

// Union is a host union value. Payload is nil for variants without one.
type Union struct {
	Tag     uint32
	Payload *Struct
}

// Buffer encodes and decodes host values in a word buffer with the same
// packing as generated shader accessors. Offsets are byte offsets and must
// be word aligned.
type Buffer struct {
	module *ir.Module
	words  []uint32
}

// NewBuffer wraps words for access through the definitions of module.
func NewBuffer(module *ir.Module, words []uint32) *Buffer {
	return &Buffer{module: module, words: words}
}

// Words returns the underlying word slice.
func (b *Buffer) Words() []uint32 {
	return b.words
}

// Index returns the offset of element index in an array of def values
// starting at offset.
func (b *Buffer) Index(def ir.DefHandle, offset, index uint32) uint32 {
	return offset + index*b.module.SizeOf(ir.StructType{Def: def})
}

// ReadStruct decodes the struct def stored at offset.
func (b *Buffer) ReadStruct(def ir.DefHandle, offset uint32) (Struct, error) {
	return b.readStruct(nil, def, offset)
}

// WriteStruct encodes s at offset. Every word holding a field is
// overwritten entirely, clearing its padding bits; words that only hold
// padding keep their contents. On error the buffer is left unchanged.
func (b *Buffer) WriteStruct(offset uint32, s Struct) error {
	td, _, err := b.structDef("write", nil, s.Def)
	if err != nil {
		return err
	}
	ix, err := b.base("write", td, offset)
	if err != nil {
		return err
	}
	scratch := b.window(ix, td.Size)
	if err := b.encodeStruct(nil, scratch, 0, s); err != nil {
		return err
	}
	copy(b.words[ix:], scratch)
	return nil
}

// Tag returns the tag word of the union def stored at offset.
func (b *Buffer) Tag(def ir.DefHandle, offset uint32) (uint32, error) {
	td, _, err := b.unionDef("read", def)
	if err != nil {
		return 0, err
	}
	return b.tag(td, offset)
}

func (b *Buffer) tag(td *ir.TypeDef, offset uint32) (uint32, error) {
	ix, err := b.base("read", td, offset)
	if err != nil {
		return 0, err
	}
	return b.words[ix], nil
}

// ReadVariant decodes the payload of variant tag regardless of the tag
// currently stored.
func (b *Buffer) ReadVariant(def ir.DefHandle, tag, offset uint32) (Struct, error) {
	td, un, err := b.unionDef("read", def)
	if err != nil {
		return Struct{}, err
	}
	if _, err := b.base("read", td, offset); err != nil {
		return Struct{}, err
	}
	p, err := b.payload("read", td, un, tag)
	if err != nil {
		return Struct{}, err
	}
	if p == nil {
		v := un.Variants[tag]
		return Struct{}, b.errorf("read", KindTypeMismatch, []string{td.Name, v.Name}, "variant has no payload")
	}
	return b.readStruct([]string{td.Name, un.Variants[tag].Name}, p.Def, offset+p.Offset)
}

// WriteVariant stores tag and, for variants that carry one, the payload.
// The tag and payload are stored together only after the payload encoded
// without error.
func (b *Buffer) WriteVariant(def ir.DefHandle, tag, offset uint32, payload *Struct) error {
	td, un, err := b.unionDef("write", def)
	if err != nil {
		return err
	}
	ix, err := b.base("write", td, offset)
	if err != nil {
		return err
	}
	p, err := b.payload("write", td, un, tag)
	if err != nil {
		return err
	}
	path := []string{td.Name, un.Variants[tag].Name}
	switch {
	case p == nil && payload != nil:
		return b.errorf("write", KindTypeMismatch, path, "variant has no payload")
	case p != nil && payload == nil:
		return b.errorf("write", KindTypeMismatch, path, "missing payload")
	case p != nil && payload.Def != p.Def:
		return b.errorf("write", KindTypeMismatch, path,
			fmt.Sprintf("payload is %s, want %s", b.defName(payload.Def), b.defName(p.Def)))
	}

	scratch := b.window(ix, td.Size)
	scratch[0] = tag
	if p != nil {
		if err := b.encodeStruct(path, scratch, p.Offset, *payload); err != nil {
			return err
		}
	}
	copy(b.words[ix:], scratch)
	return nil
}

// ReadUnion decodes the tag and the payload it selects.
func (b *Buffer) ReadUnion(def ir.DefHandle, offset uint32) (Union, error) {
	td, un, err := b.unionDef("read", def)
	if err != nil {
		return Union{}, err
	}
	tag, err := b.tag(td, offset)
	if err != nil {
		return Union{}, err
	}
	p, err := b.payload("read", td, un, tag)
	if err != nil {
		return Union{}, err
	}
	u := Union{Tag: tag}
	if p != nil {
		s, err := b.readStruct([]string{td.Name, un.Variants[tag].Name}, p.Def, offset+p.Offset)
		if err != nil {
			return Union{}, err
		}
		u.Payload = &s
	}
	return u, nil
}

// WriteUnion encodes u at offset.
func (b *Buffer) WriteUnion(def ir.DefHandle, offset uint32, u Union) error {
	return b.WriteVariant(def, u.Tag, offset, u.Payload)
}

func (b *Buffer) readStruct(path []string, h ir.DefHandle, offset uint32) (Struct, error) {
	td, st, err := b.structDef("read", path, h)
	if err != nil {
		return Struct{}, err
	}
	path = append(path[:len(path):len(path)], td.Name)
	ix, err := b.base("read", td, offset)
	if err != nil {
		return Struct{}, err
	}

	groups := Resolve(st.Fields, td.Size, Read)
	raw := make([]uint32, len(groups))
	for _, g := range groups {
		if g.NeedsRaw() {
			raw[g.Word] = b.words[ix+g.Word]
		}
	}

	out := Struct{Def: h, Fields: make([]any, len(st.Fields))}
	for i, f := range st.Fields {
		switch t := f.Type.Type.(type) {
		case ir.ScalarType:
			out.Fields[i] = decodeScalar(raw, f.Offset, t.Kind)
		case ir.VectorType:
			vec := make(Vector, t.Lanes)
			for lane := range vec {
				vec[lane] = decodeScalar(raw, f.Offset+uint32(lane)*t.Kind.Size(), t.Kind) //nolint:gosec // G115: lane < 4
			}
			out.Fields[i] = vec
		case ir.RefType:
			out.Fields[i] = Ref{Offset: raw[f.Offset/4]}
		case ir.StructType:
			inner, err := b.readStruct(append(path, f.Name), t.Def, offset+f.Offset)
			if err != nil {
				return Struct{}, err
			}
			out.Fields[i] = inner
		}
	}
	return out, nil
}

// encodeStruct encodes s into words, a window of the buffer, starting at
// byte offset. Nothing outside words is touched.
func (b *Buffer) encodeStruct(path []string, words []uint32, offset uint32, s Struct) error {
	td, st, err := b.structDef("write", path, s.Def)
	if err != nil {
		return err
	}
	path = append(path[:len(path):len(path)], td.Name)
	if len(s.Fields) != len(st.Fields) {
		return b.errorf("write", KindFieldCountMismatch, path,
			fmt.Sprintf("got %d fields, want %d", len(s.Fields), len(st.Fields)))
	}
	ix := offset / 4

	for _, g := range Resolve(st.Fields, td.Size, Write) {
		var word uint32
		for _, p := range g.Pieces {
			f := st.Fields[p.Field]
			fieldPath := append(path[:len(path):len(path)], f.Name)
			value := s.Fields[p.Field]

			switch t := f.Type.Type.(type) {
			case ir.ScalarType:
				bits, ok := scalarBits(t.Kind, value)
				if !ok {
					return b.mismatch(fieldPath, t.Kind.String(), value)
				}
				word |= InsertScalar(p.Offset, t.Kind, false).Bits(bits)
			case ir.VectorType:
				vec, ok := value.(Vector)
				if !ok || len(vec) != int(t.Lanes) {
					return b.mismatch(fieldPath, fmt.Sprintf("vec%d<%s>", t.Lanes, t.Kind), value)
				}
				bits, ok := scalarBits(t.Kind, vec[p.Lane])
				if !ok {
					return b.mismatch(fieldPath, t.Kind.String(), vec[p.Lane])
				}
				word |= InsertScalar(p.Offset, t.Kind, false).Bits(bits)
			case ir.RefType:
				ref, ok := value.(Ref)
				if !ok {
					return b.mismatch(fieldPath, "ref", value)
				}
				word |= ref.Offset
			case ir.StructType:
				inner, ok := value.(Struct)
				if !ok || inner.Def != t.Def {
					return b.mismatch(fieldPath, b.defName(t.Def), value)
				}
				if err := b.encodeStruct(fieldPath, words, offset+f.Offset, inner); err != nil {
					return err
				}
			}
		}
		if g.NeedsRaw() {
			words[ix+g.Word] = word
		}
	}
	return nil
}

// window returns a copy of the size bytes of words starting at word ix.
func (b *Buffer) window(ix, size uint32) []uint32 {
	scratch := make([]uint32, size/4)
	copy(scratch, b.words[ix:])
	return scratch
}

// base checks that offset addresses a whole def value inside the buffer
// and returns its first word index.
func (b *Buffer) base(op string, td *ir.TypeDef, offset uint32) (uint32, error) {
	if offset%4 != 0 {
		return 0, b.errorf(op, KindMisalignedReference, []string{td.Name},
			fmt.Sprintf("offset %d is not word aligned", offset))
	}
	ix := offset / 4
	if uint64(ix)+uint64(td.Size/4) > uint64(len(b.words)) {
		return 0, b.errorf(op, KindOutOfBounds, []string{td.Name},
			fmt.Sprintf("bytes [%d, %d) exceed buffer of %d words", offset, uint64(offset)+uint64(td.Size), len(b.words)))
	}
	return ix, nil
}

func (b *Buffer) structDef(op string, path []string, h ir.DefHandle) (*ir.TypeDef, ir.StructDef, error) {
	td := b.module.Def(h)
	if td == nil {
		return nil, ir.StructDef{}, b.errorf(op, KindInvalidDefinition, path, fmt.Sprintf("no definition %d", h))
	}
	st, ok := td.Def.(ir.StructDef)
	if !ok {
		return nil, ir.StructDef{}, b.errorf(op, KindInvalidDefinition, path, td.Name+" is not a struct")
	}
	return td, st, nil
}

func (b *Buffer) unionDef(op string, h ir.DefHandle) (*ir.TypeDef, ir.UnionDef, error) {
	td := b.module.Def(h)
	if td == nil {
		return nil, ir.UnionDef{}, b.errorf(op, KindInvalidDefinition, nil, fmt.Sprintf("no definition %d", h))
	}
	un, ok := td.Def.(ir.UnionDef)
	if !ok {
		return nil, ir.UnionDef{}, b.errorf(op, KindInvalidDefinition, []string{td.Name}, td.Name+" is not a union")
	}
	return td, un, nil
}

// payload returns the struct payload of variant tag, or nil when the
// variant only stores its tag.
func (b *Buffer) payload(op string, td *ir.TypeDef, un ir.UnionDef, tag uint32) (*ir.StructPayload, error) {
	if uint64(tag) >= uint64(len(un.Variants)) {
		return nil, b.errorf(op, KindInvalidTag, []string{td.Name},
			fmt.Sprintf("tag %d, union has %d variants", tag, len(un.Variants)))
	}
	v := un.Variants[tag]
	switch p := v.Payload.(type) {
	case ir.StructPayload:
		return &p, nil
	case ir.UnsupportedPayload:
		return nil, b.errorf(op, KindUnsupportedPayload, []string{td.Name, v.Name}, p.Reason)
	default:
		return nil, nil
	}
}

func (b *Buffer) defName(h ir.DefHandle) string {
	if td := b.module.Def(h); td != nil {
		return td.Name
	}
	return fmt.Sprintf("def(%d)", h)
}

func (b *Buffer) mismatch(path []string, want string, got any) error {
	return b.errorf("write", KindTypeMismatch, path, fmt.Sprintf("want %s, got %T", want, got))
}

func (b *Buffer) errorf(op string, kind CodecKind, path []string, detail string) error {
	return &CodecError{Op: op, Kind: kind, Path: path, Detail: detail}
}

// decodeScalar applies the extraction plan of a scalar to its raw word and
// converts the result to the host type of kind.
func decodeScalar(raw []uint32, offset uint32, kind ir.ScalarKind) any {
	e := ExtractScalar(offset, kind)
	bits := e.Bits(raw[e.Word])
	switch kind {
	case ir.F32:
		return math.Float32frombits(bits)
	case ir.U8:
		return uint8(bits) //nolint:gosec // G115: masked to 8 bits
	case ir.U16:
		return uint16(bits) //nolint:gosec // G115: masked to 16 bits
	case ir.I8:
		return int8(int32(bits)) //nolint:gosec // G115: sign extended from 8 bits
	case ir.I16:
		return int16(int32(bits)) //nolint:gosec // G115: sign extended from 16 bits
	case ir.I32:
		return int32(bits) //nolint:gosec // G115: two's complement reinterpretation
	default:
		return bits
	}
}

// scalarBits returns the word bits of a host scalar of the given kind.
func scalarBits(kind ir.ScalarKind, v any) (uint32, bool) {
	switch kind {
	case ir.F32:
		f, ok := v.(float32)
		return math.Float32bits(f), ok
	case ir.U8:
		u, ok := v.(uint8)
		return uint32(u), ok
	case ir.U16:
		u, ok := v.(uint16)
		return uint32(u), ok
	case ir.U32:
		u, ok := v.(uint32)
		return u, ok
	case ir.I8:
		i, ok := v.(int8)
		return uint32(int32(i)), ok //nolint:gosec // G115: two's complement reinterpretation
	case ir.I16:
		i, ok := v.(int16)
		return uint32(int32(i)), ok //nolint:gosec // G115: two's complement reinterpretation
	case ir.I32:
		i, ok := v.(int32)
		return uint32(i), ok //nolint:gosec // G115: two's complement reinterpretation
	}
	return 0, false
}
