// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package accessor

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gogpu/gpulayout/ir"
	"github.com/gogpu/gpulayout/pack"
)

// DefaultHeader is the comment placed at the top of generated code.
const DefaultHeader = "Code auto-generated by gpulayout"

// lanes names vector components in order.
const lanes = "xyzw"

// Options configures accessor generation.
type Options struct {
	// BufferName is the word buffer the accessors index.
	// Defaults to the module name.
	BufferName string

	// Header is the leading comment. Defaults to DefaultHeader.
	Header string

	// MaskUnsigned masks 8 and 16 bit unsigned values to their width
	// before they are merged into a word. When false the caller must keep
	// those values in range.
	MaskUnsigned bool

	// SkipUnsupported emits a comment instead of accessors for union
	// variants with an unsupported payload. When false such a variant is
	// an ErrUnsupportedPayload error.
	SkipUnsupported bool

	// Binding, when set, emits a declaration of the buffer itself. The
	// buffer is read-only unless the module enables writes.
	Binding *Binding
}

// Binding locates the word buffer in a pipeline layout.
type Binding struct {
	Group   uint32
	Binding uint32
}

// Skipped records a union variant left without payload accessors.
type Skipped struct {
	Type    string
	Variant string
	Reason  string
}

// TranslationInfo contains metadata about the generated code.
type TranslationInfo struct {
	// Functions lists the generated functions in output order.
	Functions []string

	// Skipped lists variants whose payload accessors were not generated.
	Skipped []Skipped
}

// Generate emits the type declarations and accessor functions of module
// in the syntax of target.
func Generate(module *ir.Module, target Target, opts Options) (string, TranslationInfo, error) {
	if module == nil {
		return "", TranslationInfo{}, NewError(ErrInvalidModule, "module is nil")
	}
	if target == nil {
		return "", TranslationInfo{}, NewError(ErrInternal, "no target")
	}

	verrs, err := ir.Validate(module)
	if err != nil {
		return "", TranslationInfo{}, &Error{Kind: ErrInvalidModule, Message: err.Error(), Cause: err}
	}
	if len(verrs) > 0 {
		errs := ir.ValidationErrors(verrs)
		return "", TranslationInfo{}, &Error{Kind: ErrInvalidModule, Message: errs.Error(), Cause: errs}
	}

	g := newGenerator(module, target, opts)
	if err := g.checkNames(); err != nil {
		return "", TranslationInfo{}, err
	}
	if err := g.checkPayloads(); err != nil {
		return "", TranslationInfo{}, err
	}

	g.writeModule()

	Logger().Debug("generated accessors",
		zap.String("language", target.Language()),
		zap.String("module", module.Name),
		zap.Int("definitions", len(module.Defs)),
		zap.Int("functions", len(g.info.Functions)),
		zap.Int("skipped", len(g.info.Skipped)),
	)
	return g.w.String(), g.info, nil
}

type generator struct {
	module *ir.Module
	target Target
	opts   Options
	w      *Writer
	info   TranslationInfo

	buffer   string
	ref      string
	uintType string
}

func newGenerator(module *ir.Module, target Target, opts Options) *generator {
	g := &generator{
		module:   module,
		target:   target,
		opts:     opts,
		w:        &Writer{},
		buffer:   opts.BufferName,
		ref:      target.RefParam(),
		uintType: target.ScalarType(ir.U32),
	}
	if g.buffer == "" {
		g.buffer = module.Name
	}
	if g.opts.Header == "" {
		g.opts.Header = DefaultHeader
	}
	return g
}

// checkNames rejects identifiers that are malformed, reserved by the
// target, or that would produce the same generated name twice. Top-level
// names must also differ from the locals of the emitted functions.
func (g *generator) checkNames() error {
	check := func(name, typ, variant, what string) error {
		if !isIdentifier(name) {
			return &Error{Kind: ErrInvalidModule, Type: typ, Variant: variant,
				Message: fmt.Sprintf("%s name %q is not an identifier", what, name)}
		}
		if g.target.IsReserved(name) {
			return &Error{Kind: ErrReservedName, Type: typ, Variant: variant,
				Message: fmt.Sprintf("%s name %q is reserved in %s", what, name, g.target.Language())}
		}
		return nil
	}

	if g.buffer == "" {
		return NewError(ErrInvalidModule, "no buffer name")
	}
	if err := check(g.buffer, "", "", "buffer"); err != nil {
		return err
	}

	used := map[string]string{}
	for _, name := range append([]string{g.ref, "ix", "s", "index"}, g.target.Locals()...) {
		used[name] = "local " + name
	}
	claim := func(name, typ, variant, origin string) error {
		prev, dup := used[name]
		if !dup && isRawName(name) {
			prev, dup = "local "+name, true
		}
		if dup {
			return &Error{Kind: ErrNameCollision, Type: typ, Variant: variant,
				Message: fmt.Sprintf("generated name %s of %s collides with %s", name, origin, prev)}
		}
		used[name] = origin
		return nil
	}
	if err := claim(g.buffer, "", "", "buffer"); err != nil {
		return err
	}

	for i := range g.module.Defs {
		def := &g.module.Defs[i]
		if err := check(def.Name, def.Name, "", "type"); err != nil {
			return err
		}
		names := []string{def.Name + "Ref", def.Name + "_size", def.Name + "_index"}
		names = append(names, g.target.DefNames(def.Name)...)

		switch d := def.Def.(type) {
		case ir.StructDef:
			names = append(names, def.Name, def.Name+"_read", def.Name+"_write")
			for _, f := range d.Fields {
				if err := check(f.Name, def.Name, "", "field"); err != nil {
					return err
				}
			}
		case ir.UnionDef:
			names = append(names, def.Name+"_tag")
			for _, v := range d.Variants {
				if err := check(v.Name, def.Name, v.Name, "variant"); err != nil {
					return err
				}
				base := def.Name + "_" + v.Name
				names = append(names, base, base+"_read", base+"_write")
			}
		}

		for _, name := range names {
			if err := claim(name, def.Name, "", "type "+def.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkPayloads reports or records variants with unsupported payloads.
func (g *generator) checkPayloads() error {
	for i := range g.module.Defs {
		def := &g.module.Defs[i]
		un, ok := def.Def.(ir.UnionDef)
		if !ok {
			continue
		}
		for _, v := range un.Variants {
			p, ok := v.Payload.(ir.UnsupportedPayload)
			if !ok {
				continue
			}
			if !g.opts.SkipUnsupported {
				return &Error{Kind: ErrUnsupportedPayload, Type: def.Name, Variant: v.Name, Message: p.Reason}
			}
			g.info.Skipped = append(g.info.Skipped, Skipped{Type: def.Name, Variant: v.Name, Reason: p.Reason})
			Logger().Warn("skipping unsupported payload",
				zap.String("type", def.Name),
				zap.String("variant", v.Name),
				zap.String("reason", p.Reason),
			)
		}
	}
	return nil
}

func (g *generator) writeModule() {
	for _, line := range strings.Split(g.opts.Header, "\n") {
		g.w.Line("// %s", line)
	}
	g.w.Blank()

	if g.opts.Binding != nil {
		g.target.WriteBufferDecl(g.w, g.buffer, *g.opts.Binding, g.module.WriteEnabled)
		g.w.Blank()
	}

	for i := range g.module.Defs {
		g.target.WriteRefDecl(g.w, g.module.Defs[i].Name)
	}

	for i := range g.module.Defs {
		def := &g.module.Defs[i]
		switch d := def.Def.(type) {
		case ir.StructDef:
			members := lo.Map(d.Fields, func(f ir.Field, _ int) Member {
				return Member{Name: f.Name, Type: g.typeName(f.Type.Type)}
			})
			g.target.WriteStructDecl(g.w, def.Name, members)
		case ir.UnionDef:
			for tag, v := range d.Variants {
				g.target.WriteConstant(g.w, def.Name+"_"+v.Name, uint32(tag)) //nolint:gosec // G115: tag is a slice index
			}
		}
		g.writeItemDef(def)
	}

	for i := range g.module.Defs {
		def := &g.module.Defs[i]
		switch d := def.Def.(type) {
		case ir.StructDef:
			g.writeStructRead(def, d)
			if g.module.WriteEnabled {
				g.writeStructWrite(def, d)
			}
		case ir.UnionDef:
			g.writeUnionRead(def, d)
			if g.module.WriteEnabled {
				g.writeUnionWrite(def, d)
			}
		}
	}
}

// writeItemDef writes the size constant and the array index function.
func (g *generator) writeItemDef(def *ir.TypeDef) {
	name := def.Name
	g.target.WriteConstant(g.w, name+"_size", def.Size)
	g.w.Blank()

	g.beginFunc(name+"_index", []Param{{g.ref, name + "Ref"}, {"index", g.uintType}}, name+"Ref")
	g.w.Line("return %s;", g.target.MakeRef(name, fmt.Sprintf("%s.offset + index * %s_size", g.ref, name)))
	g.endFunc()
}

func (g *generator) writeStructRead(def *ir.TypeDef, st ir.StructDef) {
	name := def.Name
	g.beginFunc(name+"_read", []Param{{g.ref, name + "Ref"}}, name)

	groups := pack.Resolve(st.Fields, def.Size, pack.Read)
	if lo.SomeBy(groups, pack.Group.NeedsRaw) {
		g.w.Line(g.target.Let("ix", g.uintType, g.ref+".offset >> "+g.target.Uint(2)))
	}
	for _, gr := range groups {
		if gr.NeedsRaw() {
			g.w.Line(g.target.Let(rawName(gr.Word), g.uintType, g.word(gr.Word)))
		}
	}
	g.w.Line(g.target.VarDecl("s", name))
	for _, f := range st.Fields {
		g.w.Line("s.%s = %s;", f.Name, g.readExpr(f))
	}
	g.w.Line("return s;")
	g.endFunc()
}

func (g *generator) writeStructWrite(def *ir.TypeDef, st ir.StructDef) {
	name := def.Name
	g.beginFunc(name+"_write", []Param{{g.ref, name + "Ref"}, {"s", name}}, "")

	groups := pack.Resolve(st.Fields, def.Size, pack.Write)
	if lo.SomeBy(groups, pack.Group.NeedsRaw) {
		g.w.Line(g.target.Let("ix", g.uintType, g.ref+".offset >> "+g.target.Uint(2)))
	}
	for _, gr := range groups {
		var parts []string
		for _, p := range gr.Pieces {
			f := st.Fields[p.Field]
			value := "s." + f.Name
			switch t := f.Type.Type.(type) {
			case ir.ScalarType:
				parts = append(parts, g.insertExpr(p.Offset, t.Kind, value))
			case ir.VectorType:
				if t.Lanes > 1 {
					value += "." + lanes[p.Lane:p.Lane+1]
				}
				parts = append(parts, g.insertExpr(p.Offset, t.Kind, value))
			case ir.RefType:
				parts = append(parts, value+".offset")
			case ir.StructType:
				inner := g.module.Defs[t.Def].Name
				g.w.Line("%s_write(%s, %s);", inner, g.target.MakeRef(inner, g.offset(f.Offset)), value)
			}
		}
		if len(parts) > 0 {
			g.w.Line("%s = %s;", g.word(gr.Word), strings.Join(parts, " | "))
		}
	}
	g.endFunc()
}

func (g *generator) writeUnionRead(def *ir.TypeDef, un ir.UnionDef) {
	name := def.Name
	g.beginFunc(name+"_tag", []Param{{g.ref, name + "Ref"}}, g.uintType)
	g.w.Line("return %s;", g.tagWord())
	g.endFunc()

	for _, v := range un.Variants {
		fn := name + "_" + v.Name + "_read"
		switch p := v.Payload.(type) {
		case ir.StructPayload:
			inner := g.module.Defs[p.Def].Name
			g.beginFunc(fn, []Param{{g.ref, name + "Ref"}}, inner)
			g.w.Line("return %s_read(%s);", inner, g.target.MakeRef(inner, g.offset(p.Offset)))
			g.endFunc()
		case ir.UnsupportedPayload:
			g.omitted(fn, p.Reason)
		}
	}
}

func (g *generator) writeUnionWrite(def *ir.TypeDef, un ir.UnionDef) {
	name := def.Name
	for _, v := range un.Variants {
		fn := name + "_" + v.Name + "_write"
		tag := name + "_" + v.Name
		switch p := v.Payload.(type) {
		case ir.NoPayload:
			g.beginFunc(fn, []Param{{g.ref, name + "Ref"}}, "")
			g.w.Line("%s = %s;", g.tagWord(), tag)
			g.endFunc()
		case ir.StructPayload:
			inner := g.module.Defs[p.Def].Name
			g.beginFunc(fn, []Param{{g.ref, name + "Ref"}, {"s", inner}}, "")
			g.w.Line("%s = %s;", g.tagWord(), tag)
			g.w.Line("%s_write(%s, s);", inner, g.target.MakeRef(inner, g.offset(p.Offset)))
			g.endFunc()
		case ir.UnsupportedPayload:
			g.omitted(fn, p.Reason)
		}
	}
}

// readExpr returns the expression decoding field f from the raw words.
func (g *generator) readExpr(f ir.Field) string {
	switch t := f.Type.Type.(type) {
	case ir.ScalarType:
		return g.extractExpr(f.Offset, t.Kind)
	case ir.VectorType:
		width := t.Kind.Size()
		elems := lo.Map(lo.Range(int(t.Lanes)), func(lane, _ int) string {
			return g.extractExpr(f.Offset+uint32(lane)*width, t.Kind) //nolint:gosec // G115: lane < 4
		})
		return g.typeName(t) + "(" + strings.Join(elems, ", ") + ")"
	case ir.StructType:
		inner := g.module.Defs[t.Def].Name
		return fmt.Sprintf("%s_read(%s)", inner, g.target.MakeRef(inner, g.offset(f.Offset)))
	case ir.RefType:
		return g.target.MakeRef(g.module.Defs[t.Def].Name, g.extractExpr(f.Offset, ir.U32))
	}
	return ""
}

// extractExpr prints the extraction plan of a scalar.
func (g *generator) extractExpr(offset uint32, kind ir.ScalarKind) string {
	e := pack.ExtractScalar(offset, kind)
	t := g.target
	raw := rawName(e.Word)
	switch e.Op {
	case pack.ExtractMask:
		return raw + " & " + t.Hex(e.Mask)
	case pack.ExtractShift:
		return raw + " >> " + t.Uint(e.Shift)
	case pack.ExtractShiftMask:
		return "(" + raw + " >> " + t.Uint(e.Shift) + ") & " + t.Hex(e.Mask)
	case pack.ExtractFloat:
		return t.FloatFromBits(raw)
	case pack.ExtractInt:
		return t.IntFromBits(raw)
	case pack.ExtractIntShift:
		return t.IntFromBits(raw) + " >> " + t.Uint(e.Shift)
	case pack.ExtractIntPair:
		return t.IntFromBits(raw+" << "+t.Uint(e.Up)) + " >> " + t.Uint(e.Shift)
	default:
		return raw
	}
}

// insertExpr prints the insertion plan of a scalar held in value.
func (g *generator) insertExpr(offset uint32, kind ir.ScalarKind, value string) string {
	in := pack.InsertScalar(offset, kind, g.opts.MaskUnsigned)
	t := g.target

	bits := value
	switch {
	case kind.IsFloat():
		bits = t.FloatToBits(value)
	case kind.IsSigned():
		bits = t.IntToBits(value)
	}
	if in.Mask != 0 {
		bits = "(" + bits + " & " + t.Hex(in.Mask) + ")"
	}
	if in.Shift != 0 {
		bits = "(" + bits + " << " + t.Uint(in.Shift) + ")"
	}
	return bits
}

// typeName maps a field type to the target's type name. One-lane vectors
// map to their scalar.
func (g *generator) typeName(t ir.Type) string {
	switch t := t.(type) {
	case ir.ScalarType:
		return g.target.ScalarType(t.Kind)
	case ir.VectorType:
		if t.Lanes == 1 {
			return g.target.ScalarType(t.Kind)
		}
		return g.target.VectorType(t.Kind, t.Lanes)
	case ir.StructType:
		return g.module.Defs[t.Def].Name
	case ir.RefType:
		return g.module.Defs[t.Def].Name + "Ref"
	}
	return ""
}

func (g *generator) beginFunc(name string, params []Param, ret string) {
	g.w.Line(g.target.FuncBegin(name, params, ret))
	g.w.Push()
	g.info.Functions = append(g.info.Functions, name)
}

func (g *generator) endFunc() {
	g.w.Pop()
	g.w.Line("}")
	g.w.Blank()
}

func (g *generator) omitted(fn, reason string) {
	g.w.Line("// %s omitted: %s", fn, reason)
	g.w.Blank()
}

// word addresses word i of the value at ix.
func (g *generator) word(i uint32) string {
	return fmt.Sprintf("%s[ix + %s]", g.buffer, g.target.Uint(i))
}

func (g *generator) tagWord() string {
	return fmt.Sprintf("%s[%s.offset >> %s]", g.buffer, g.ref, g.target.Uint(2))
}

// offset returns the handle offset plus a constant, omitting "+ 0".
func (g *generator) offset(c uint32) string {
	if c == 0 {
		return g.ref + ".offset"
	}
	return g.ref + ".offset + " + g.target.Uint(c)
}

func rawName(word uint32) string {
	return fmt.Sprintf("raw%d", word)
}

// isRawName reports names of the form rawN used for loaded words.
func isRawName(name string) bool {
	digits, ok := strings.CutPrefix(name, "raw")
	if !ok || digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
