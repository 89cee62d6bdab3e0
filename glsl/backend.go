// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/ir"
)

// Options configures GLSL code generation.
type Options struct {
	// BufferName is the name of the uint array accessors index.
	// Defaults to the module name if empty.
	BufferName string

	// Header is the comment written at the top of the output.
	Header string

	// MaskUnsigned masks u8 and u16 values before packing them.
	MaskUnsigned bool

	// SkipUnsupported turns unsupported union payloads into comments
	// instead of errors.
	SkipUnsupported bool

	// Binding, when set, also declares the buffer as a storage block at
	// the given descriptor set and binding.
	Binding *accessor.Binding
}

// DefaultOptions returns sensible default options for GLSL generation.
func DefaultOptions() Options {
	return Options{
		Header: accessor.DefaultHeader,
	}
}

// TranslationInfo contains metadata about the translation.
type TranslationInfo = accessor.TranslationInfo

// Compile generates GLSL declarations and accessors for a layout module.
// Returns the GLSL source as a string, translation info, or an error.
func Compile(module *ir.Module, options Options) (string, TranslationInfo, error) {
	source, info, err := accessor.Generate(module, Target{}, accessor.Options{
		BufferName:      options.BufferName,
		Header:          options.Header,
		MaskUnsigned:    options.MaskUnsigned,
		SkipUnsupported: options.SkipUnsupported,
		Binding:         options.Binding,
	})
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("glsl: %w", err)
	}
	return source, info, nil
}
