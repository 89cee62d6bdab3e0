// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package wgsl provides a WGSL (WebGPU Shading Language) backend for
// gpulayout.
//
// The generated accessors index a storage array of u32 words:
//
//	@group(0) @binding(0) var<storage, read_write> memory: array<u32>;
//
// Handles are passed as a parameter named handle, since ref is reserved
// in WGSL. All integer literals carry the u suffix.
//
// # Basic Usage
//
//	source, info, err := wgsl.Compile(module, wgsl.DefaultOptions())
package wgsl
