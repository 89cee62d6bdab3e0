// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package accessor

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes accessor generation errors.
type ErrorKind uint8

const (
	// ErrUnsupportedPayload indicates a union variant whose payload is not
	// a single inline struct.
	ErrUnsupportedPayload ErrorKind = iota

	// ErrInvalidModule indicates the layout module is malformed.
	ErrInvalidModule

	// ErrReservedName indicates a name that is a keyword or built-in of the
	// target language.
	ErrReservedName

	// ErrNameCollision indicates two generated identifiers with the same name.
	ErrNameCollision

	// ErrInternal indicates an internal generator error.
	ErrInternal
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupportedPayload:
		return "UnsupportedPayload"
	case ErrInvalidModule:
		return "InvalidModule"
	case ErrReservedName:
		return "ReservedName"
	case ErrNameCollision:
		return "NameCollision"
	case ErrInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error represents an accessor generation error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Type and Variant optionally locate the error.
	Type    string
	Variant string

	// Message provides details about the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var loc []string
	if e.Type != "" {
		loc = append(loc, "type "+e.Type)
	}
	if e.Variant != "" {
		loc = append(loc, "variant "+e.Variant)
	}
	if len(loc) > 0 {
		return fmt.Sprintf("%s in %s: %s", e.Kind, strings.Join(loc, ", "), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError creates a new error without location.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
