package schema

import (
	"fmt"

	"github.com/gogpu/gpulayout/ir"
)

// tagSize is the size of the union tag word.
const tagSize = 4

// layouter feeds declarations to an ir.Builder, filling in omitted
// offsets and sizes. It records declaration positions so that build
// errors can be reported against the file.
type layouter struct {
	sizes    map[string]uint32 // sizes of definitions declared so far
	declared map[string]bool   // every definition name in the file
	types    map[string]Position
	members  map[string]Position
	auto     int
}

func newLayouter(decls []typeDecl) *layouter {
	l := &layouter{
		sizes:    make(map[string]uint32),
		declared: make(map[string]bool, len(decls)),
		types:    make(map[string]Position),
		members:  make(map[string]Position),
	}
	for _, d := range decls {
		l.declared[d.Struct] = true
		l.declared[d.Union] = true
	}
	delete(l.declared, "")
	return l
}

func (l *layouter) add(b *ir.Builder, d *typeDecl) error {
	switch {
	case d.Struct != "" && d.Union != "":
		return errorf(d.pos, "declaration is both struct %s and union %s", d.Struct, d.Union)
	case d.Struct != "":
		if len(d.Variants) > 0 {
			return errorf(d.pos, "struct %s cannot have variants", d.Struct)
		}
		return l.addStruct(b, d)
	case d.Union != "":
		if len(d.Fields) > 0 {
			return errorf(d.pos, "union %s cannot have fields", d.Union)
		}
		return l.addUnion(b, d)
	default:
		return errorf(d.pos, "declaration needs a struct or union name")
	}
}

func (l *layouter) addStruct(b *ir.Builder, d *typeDecl) error {
	name := d.Struct
	l.types[name] = d.pos

	fields := make([]ir.FieldSpec, 0, len(d.Fields))
	var cursor, end uint32
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Name == "" {
			return errorf(f.pos, "field of %s needs a name", name)
		}
		l.members[memberKey(name, f.Name)] = f.pos

		t, err := parseType(f.Type)
		if err != nil {
			return errorf(f.pos, "field %s.%s: %v", name, f.Name, err)
		}
		size, align, err := l.measure(t)
		if err != nil {
			return errorf(f.pos, "field %s.%s: %v", name, f.Name, err)
		}

		offset := alignUp(cursor, align)
		if f.Offset != nil {
			offset = *f.Offset
		} else {
			l.auto++
		}
		fields = append(fields, ir.F(f.Name, offset, t.spec))
		cursor = offset + size
		end = max(end, cursor)
	}

	size := alignUp(end, 4)
	if d.Size != nil {
		size = *d.Size
	}
	l.sizes[name] = size
	b.Struct(name, size, fields...)
	return nil
}

func (l *layouter) addUnion(b *ir.Builder, d *typeDecl) error {
	name := d.Union
	l.types[name] = d.pos

	variants := make([]ir.VariantSpec, 0, len(d.Variants))
	end := uint32(tagSize)
	for i := range d.Variants {
		v := &d.Variants[i]
		if v.Name == "" {
			return errorf(v.pos, "variant of %s needs a name", name)
		}
		l.members[memberKey(name, v.Name)] = v.pos

		payload := make([]ir.PayloadSpec, 0, len(v.Payload))
		cursor := uint32(tagSize)
		for j := range v.Payload {
			p := &v.Payload[j]
			t, err := parseType(p.Type)
			if err != nil {
				return errorf(p.pos, "variant %s.%s: %v", name, v.Name, err)
			}
			size, align, err := l.measure(t)
			if err != nil {
				return errorf(p.pos, "variant %s.%s: %v", name, v.Name, err)
			}

			offset := alignUp(cursor, align)
			if p.Offset != nil {
				offset = *p.Offset
			} else {
				l.auto++
			}
			payload = append(payload, ir.P(offset, t.spec))
			cursor = offset + size
			end = max(end, cursor)
		}
		variants = append(variants, ir.V(v.Name, payload...))
	}

	size := alignUp(end, 4)
	if d.Size != nil {
		size = *d.Size
	}
	l.sizes[name] = size
	b.Union(name, size, variants...)
	return nil
}

// measure returns the size and alignment of a member type. Inline
// structs must already be declared; references may point anywhere.
func (l *layouter) measure(t memberType) (size, align uint32, err error) {
	switch {
	case t.ref:
		return 4, 4, nil
	case t.name != "":
		size, ok := l.sizes[t.name]
		switch {
		case ok:
			return size, 4, nil
		case l.declared[t.name]:
			return 0, 0, fmt.Errorf("type %s must be declared before it is inlined", t.name)
		default:
			return 0, 0, fmt.Errorf("unknown type %q", t.name)
		}
	case t.lanes > 0:
		return t.scalar.Size() * uint32(t.lanes), t.scalar.Size(), nil
	default:
		return t.scalar.Size(), t.scalar.Size(), nil
	}
}

func alignUp(v, align uint32) uint32 {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}
