package ir

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind categorizes validation errors. It implements error so that
// callers can match a kind with errors.Is.
type ErrorKind uint8

const (
	KindDuplicateDefinition ErrorKind = iota
	KindDuplicateMember
	KindUnknownType
	KindForwardReference
	KindCycle
	KindNotAStruct
	KindMisaligned
	KindOverlap
	KindOutOfBounds
	KindSizeMismatch
	KindInvalidVector
	KindEmptyStruct
	KindEmptyUnion
)

var kindNames = [...]string{
	KindDuplicateDefinition: "DuplicateDefinition",
	KindDuplicateMember:     "DuplicateMember",
	KindUnknownType:         "UnknownType",
	KindForwardReference:    "ForwardReference",
	KindCycle:               "Cycle",
	KindNotAStruct:          "NotAStruct",
	KindMisaligned:          "Misaligned",
	KindOverlap:             "Overlap",
	KindOutOfBounds:         "OutOfBounds",
	KindSizeMismatch:        "SizeMismatch",
	KindInvalidVector:       "InvalidVector",
	KindEmptyStruct:         "EmptyStruct",
	KindEmptyUnion:          "EmptyUnion",
}

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Error implements the error interface.
func (k ErrorKind) Error() string {
	return k.String()
}

// ValidationError represents a validation error.
type ValidationError struct {
	Kind ErrorKind
	// Optional context
	Type    string
	Member  string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Type != "" {
		if e.Member != "" {
			return fmt.Sprintf("%s: in type %s, member %s: %s", e.Kind, e.Type, e.Member, e.Message)
		}
		return fmt.Sprintf("%s: in type %s: %s", e.Kind, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the error kind.
func (e ValidationError) Unwrap() error {
	return e.Kind
}

// ValidationErrors collects every problem found in a module.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", errs[0].Error(), len(errs)-1)
	}
}

// Unwrap exposes each error to errors.Is and errors.As.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i := range errs {
		out[i] = errs[i]
	}
	return out
}

// Validator validates layout modules.
type Validator struct {
	module *Module
	errors []ValidationError

	// deps[i] lists the inline and payload dependencies of definition i.
	deps     [][]DefHandle
	typeName string
	reported map[string]struct{}
}

// Validate checks the module for correctness.
// Returns validation errors if any, or nil if module is valid.
func Validate(module *Module) ([]ValidationError, error) {
	if module == nil {
		return nil, fmt.Errorf("module is nil")
	}

	v := &Validator{
		module:   module,
		errors:   make([]ValidationError, 0),
		deps:     make([][]DefHandle, len(module.Defs)),
		reported: make(map[string]struct{}),
	}

	v.ValidateModule()

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

// ValidateModule validates the complete module.
func (v *Validator) ValidateModule() {
	v.validateNames()

	for i := range v.module.Defs {
		def := &v.module.Defs[i]
		v.typeName = def.Name
		if def.Size%4 != 0 {
			v.addError(KindMisaligned, "", fmt.Sprintf("size %d is not a multiple of 4", def.Size))
		}
		switch d := def.Def.(type) {
		case StructDef:
			v.validateStruct(DefHandle(i), def, d) //nolint:gosec // G115: i is a valid slice index
		case UnionDef:
			v.validateUnion(DefHandle(i), def, d) //nolint:gosec // G115: i is a valid slice index
		default:
			v.addError(KindUnknownType, "", "definition is neither a struct nor a union")
		}
	}

	// Declaration order must respect inline dependencies.
	for i := range v.module.Defs {
		v.typeName = v.module.Defs[i].Name
		v.validateOrder(DefHandle(i)) //nolint:gosec // G115: i is a valid slice index
	}
}

func (v *Validator) validateNames() {
	seen := make(map[string]struct{}, len(v.module.Defs))
	for _, def := range v.module.Defs {
		if _, dup := seen[def.Name]; dup {
			v.errors = append(v.errors, ValidationError{
				Kind:    KindDuplicateDefinition,
				Type:    def.Name,
				Message: "defined more than once",
			})
		}
		seen[def.Name] = struct{}{}
	}
}

func (v *Validator) validateStruct(h DefHandle, def *TypeDef, st StructDef) {
	if len(st.Fields) == 0 {
		v.addError(KindEmptyStruct, "", "struct has no fields")
		return
	}

	names := make(map[string]struct{}, len(st.Fields))
	for _, f := range st.Fields {
		if _, dup := names[f.Name]; dup {
			v.addError(KindDuplicateMember, f.Name, "field declared more than once")
		}
		names[f.Name] = struct{}{}

		if !v.validateType(f.Name, f.Type.Type) {
			continue
		}
		if want := v.module.SizeOf(f.Type.Type); f.Type.Size != want {
			v.addError(KindSizeMismatch, f.Name, fmt.Sprintf("declared size %d, type needs %d", f.Type.Size, want))
			continue
		}
		v.validateAlignment(f.Name, f.Offset, f.Type.Type)
		if f.Offset+f.Type.Size > def.Size {
			v.addError(KindOutOfBounds, f.Name,
				fmt.Sprintf("bytes [%d, %d) exceed struct size %d", f.Offset, f.Offset+f.Type.Size, def.Size))
		}
		if inner, ok := f.Type.Type.(StructType); ok {
			v.deps[h] = append(v.deps[h], inner.Def)
		}
	}

	v.validateOverlap(st.Fields)
}

func (v *Validator) validateUnion(h DefHandle, def *TypeDef, un UnionDef) {
	if len(un.Variants) == 0 {
		v.addError(KindEmptyUnion, "", "union has no variants")
		return
	}
	if def.Size < 4 {
		v.addError(KindOutOfBounds, "", fmt.Sprintf("size %d cannot hold the 4-byte tag", def.Size))
	}

	names := make(map[string]struct{}, len(un.Variants))
	for _, variant := range un.Variants {
		if _, dup := names[variant.Name]; dup {
			v.addError(KindDuplicateMember, variant.Name, "variant declared more than once")
		}
		names[variant.Name] = struct{}{}

		p, ok := variant.Payload.(StructPayload)
		if !ok {
			continue
		}
		if !v.validateType(variant.Name, StructType{Def: p.Def}) {
			continue
		}
		size := v.module.Defs[p.Def].Size
		switch {
		case p.Offset < 4:
			v.addError(KindOverlap, variant.Name, fmt.Sprintf("payload at offset %d overlaps the tag word", p.Offset))
		case p.Offset%4 != 0:
			v.addError(KindMisaligned, variant.Name, fmt.Sprintf("payload offset %d is not word aligned", p.Offset))
		case p.Offset+size > def.Size:
			v.addError(KindOutOfBounds, variant.Name,
				fmt.Sprintf("payload bytes [%d, %d) exceed union size %d", p.Offset, p.Offset+size, def.Size))
		}
		v.deps[h] = append(v.deps[h], p.Def)
	}
}

// validateType checks that a field type is well formed.
func (v *Validator) validateType(member string, t Type) bool {
	switch t := t.(type) {
	case ScalarType:
		if t.Kind > I32 {
			v.addError(KindUnknownType, member, fmt.Sprintf("unknown scalar kind %d", t.Kind))
			return false
		}
	case VectorType:
		if t.Kind > I32 {
			v.addError(KindUnknownType, member, fmt.Sprintf("unknown scalar kind %d", t.Kind))
			return false
		}
		if t.Lanes < 1 || t.Lanes > 4 {
			v.addError(KindInvalidVector, member, fmt.Sprintf("vector must have 1 to 4 lanes, got %d", t.Lanes))
			return false
		}
	case StructType:
		return v.validateTarget(member, t.Def, "inline")
	case RefType:
		return v.validateTarget(member, t.Def, "reference")
	default:
		v.addError(KindUnknownType, member, "missing type")
		return false
	}
	return true
}

func (v *Validator) validateTarget(member string, h DefHandle, what string) bool {
	target := v.module.Def(h)
	if target == nil {
		v.addError(KindUnknownType, member, fmt.Sprintf("%s target %d does not exist", what, h))
		return false
	}
	if _, ok := target.Def.(UnionDef); ok {
		v.addError(KindNotAStruct, member, fmt.Sprintf("%s target %s is a union", what, target.Name))
		return false
	}
	return true
}

func (v *Validator) validateAlignment(member string, offset uint32, t Type) {
	var align uint32
	switch t := t.(type) {
	case ScalarType:
		align = t.Kind.Size()
	case VectorType:
		align = t.Kind.Size()
	default:
		align = 4
	}
	if offset%align != 0 {
		v.addError(KindMisaligned, member, fmt.Sprintf("offset %d is not a multiple of %d", offset, align))
	}
}

func (v *Validator) validateOverlap(fields []Field) {
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Offset+prev.Type.Size > cur.Offset {
			v.addError(KindOverlap, cur.Name, fmt.Sprintf("overlaps field %s", prev.Name))
		}
	}
}

// validateOrder reports dependencies that are declared at or after their
// user. A dependency that leads back to the user is reported as a cycle.
func (v *Validator) validateOrder(h DefHandle) {
	for _, dep := range v.deps[h] {
		if dep < h {
			continue
		}
		if path := v.findPath(dep, h); path != nil {
			names := make([]string, 0, len(path)+1)
			names = append(names, v.module.Defs[h].Name)
			for _, p := range path {
				names = append(names, v.module.Defs[p].Name)
			}
			key := cycleKey(path)
			if _, seen := v.reported[key]; seen {
				continue
			}
			v.reported[key] = struct{}{}
			v.addError(KindCycle, "", "inline dependency cycle "+strings.Join(names, " -> "))
			continue
		}
		v.addError(KindForwardReference, "",
			fmt.Sprintf("depends on %s, which is declared later", v.module.Defs[dep].Name))
	}
}

// findPath returns the definitions on a dependency path from -> ... -> to,
// or nil if to is unreachable.
func (v *Validator) findPath(from, to DefHandle) []DefHandle {
	visited := make(map[DefHandle]bool)
	var walk func(h DefHandle) []DefHandle
	walk = func(h DefHandle) []DefHandle {
		if h == to {
			return []DefHandle{h}
		}
		if visited[h] {
			return nil
		}
		visited[h] = true
		for _, next := range v.deps[h] {
			if rest := walk(next); rest != nil {
				return append([]DefHandle{h}, rest...)
			}
		}
		return nil
	}
	return walk(from)
}

// cycleKey identifies a cycle independent of its starting point.
func cycleKey(path []DefHandle) string {
	ids := make([]int, len(path))
	for i, h := range path {
		ids[i] = int(h)
	}
	sort.Ints(ids)
	return fmt.Sprint(ids)
}

func (v *Validator) addError(kind ErrorKind, member, msg string) {
	v.errors = append(v.errors, ValidationError{
		Kind:    kind,
		Type:    v.typeName,
		Member:  member,
		Message: msg,
	})
}
