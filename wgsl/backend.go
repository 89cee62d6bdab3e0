// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/ir"
)

// Options configures WGSL code generation.
type Options struct {
	// BufferName is the name of the array<u32> accessors index.
	// Defaults to the module name if empty.
	BufferName string

	// Header is the comment written at the top of the output.
	Header string

	// MaskUnsigned masks u8 and u16 values before packing them.
	MaskUnsigned bool

	// SkipUnsupported turns unsupported union payloads into comments
	// instead of errors.
	SkipUnsupported bool

	// Binding, when set, also declares the buffer as a storage variable.
	Binding *accessor.Binding
}

// DefaultOptions returns sensible default options for WGSL generation.
func DefaultOptions() Options {
	return Options{
		Header: accessor.DefaultHeader,
	}
}

// TranslationInfo contains metadata about the translation.
type TranslationInfo = accessor.TranslationInfo

// Compile generates WGSL declarations and accessors for a layout module.
func Compile(module *ir.Module, options Options) (string, TranslationInfo, error) {
	source, info, err := accessor.Generate(module, Target{}, accessor.Options{
		BufferName:      options.BufferName,
		Header:          options.Header,
		MaskUnsigned:    options.MaskUnsigned,
		SkipUnsupported: options.SkipUnsupported,
		Binding:         options.Binding,
	})
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("wgsl: %w", err)
	}
	return source, info, nil
}
