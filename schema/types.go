package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gpulayout/ir"
)

// memberType is a parsed type expression.
type memberType struct {
	spec   ir.TypeSpec
	scalar ir.ScalarKind
	lanes  uint8  // zero for scalars, refs and inline structs
	name   string // definition name for refs and inline structs
	ref    bool
}

// parseType parses the type grammar of description files:
//
//	f32 | u8 | u16 | u32 | i8 | i16 | i32
//	vecN<scalar>    N in 1..4
//	ref<Name>
//	Name            inline struct
func parseType(s string) (memberType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return memberType{}, fmt.Errorf("missing type")
	}

	if k, ok := ir.ParseScalarKind(s); ok {
		return memberType{spec: ir.Scalar(k), scalar: k}, nil
	}

	if inner, ok := generic(s, "ref"); ok {
		if !isName(inner) {
			return memberType{}, fmt.Errorf("ref target %q is not a type name", inner)
		}
		return memberType{spec: ir.Ref(inner), name: inner, ref: true}, nil
	}

	if strings.HasPrefix(s, "vec") {
		open := strings.IndexByte(s, '<')
		if open < 0 {
			return memberType{}, fmt.Errorf("vector type %q needs an element type, e.g. vec2<f32>", s)
		}
		lanes, err := strconv.ParseUint(s[len("vec"):open], 10, 8)
		if err != nil || lanes < 1 || lanes > 4 {
			return memberType{}, fmt.Errorf("vector type %q must have 1 to 4 lanes", s)
		}
		inner, ok := generic(s, s[:open])
		if !ok {
			return memberType{}, fmt.Errorf("malformed vector type %q", s)
		}
		k, ok := ir.ParseScalarKind(inner)
		if !ok {
			return memberType{}, fmt.Errorf("vector element %q is not a scalar type", inner)
		}
		n := uint8(lanes)
		return memberType{spec: ir.Vector(k, n), scalar: k, lanes: n}, nil
	}

	if !isName(s) {
		return memberType{}, fmt.Errorf("unknown type %q", s)
	}
	return memberType{spec: ir.Inline(s), name: s}, nil
}

// generic unwraps prefix<inner>.
func generic(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix+"<") || !strings.HasSuffix(s, ">") {
		return "", false
	}
	return strings.TrimSpace(s[len(prefix)+1 : len(s)-1]), true
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
