// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl provides a GLSL (OpenGL Shading Language) backend for
// gpulayout.
//
// The output is meant to be included into compute shaders that declare the
// word buffer themselves, as in
//
//	layout(set = 0, binding = 0) buffer Memory {
//	    uint memory[];
//	};
//
//	#include "scene.h"
//
// or, with Options.Binding set, it declares the buffer on its own.
//
// # Basic Usage
//
//	source, info, err := glsl.Compile(module, glsl.DefaultOptions())
//
// # Reserved Words
//
// Type, member and buffer names that are GLSL keywords, start with "gl_"
// or contain "__" are rejected with accessor.ErrReservedName.
package glsl
