package pack

import "strings"

// CodecKind categorizes host codec errors.
type CodecKind string

const (
	KindOutOfBounds         CodecKind = "out_of_bounds"
	KindTypeMismatch        CodecKind = "type_mismatch"
	KindUnsupportedPayload  CodecKind = "unsupported_payload"
	KindInvalidTag          CodecKind = "invalid_tag"
	KindInvalidDefinition   CodecKind = "invalid_definition"
	KindFieldCountMismatch  CodecKind = "field_count_mismatch"
	KindMisalignedReference CodecKind = "misaligned_reference"
)

// CodecError is returned by Buffer operations.
type CodecError struct {
	Op     string // "read" or "write"
	Kind   CodecKind
	Path   []string
	Detail string
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(e.Op)
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Is reports whether target is a CodecError of the same kind. An empty
// Op in target matches either direction.
func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Op == "" || t.Op == e.Op)
}
