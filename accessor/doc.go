// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package accessor generates shader code that reads and writes layout
// types packed into a shared buffer of 32-bit words.
//
// For every definition Foo of an ir.Module the output contains:
//
//   - FooRef, a handle holding the byte offset of a Foo in the buffer
//   - Foo_size and Foo_index(ref, i) for arrays of Foo
//   - for structs: the struct Foo, Foo_read(ref) and Foo_write(ref, s)
//   - for unions: a tag constant Foo_Variant per variant, Foo_tag(ref),
//     Foo_Variant_read(ref) and Foo_Variant_write(ref[, s])
//
// Write functions are only generated when the module enables writes.
//
// The generator itself is language independent. A Target supplies the
// spelling of types, literals, casts and declarations; the glsl, hlsl and
// wgsl packages provide targets and a Compile entry point each.
package accessor
