// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl provides an HLSL (High-Level Shader Language) backend for
// gpulayout.
//
// The generated accessors index a buffer of uint words, normally declared
// as
//
//	RWStructuredBuffer<uint> memory : register(u0);
//
// HLSL has no struct constructors, so every handle type FooRef comes with
// a FooRef_new(uint offset) function that accessors use to build handles.
//
// # Basic Usage
//
//	source, info, err := hlsl.Compile(module, hlsl.DefaultOptions())
package hlsl
