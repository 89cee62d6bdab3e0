// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import "strings"

// keywords contains the WGSL keywords and predeclared type names.
var keywords = map[string]struct{}{
	"alias": {}, "break": {}, "case": {}, "const": {}, "const_assert": {},
	"continue": {}, "continuing": {}, "default": {}, "diagnostic": {}, "discard": {},
	"else": {}, "enable": {}, "false": {}, "fn": {}, "for": {}, "if": {}, "let": {},
	"loop": {}, "override": {}, "requires": {}, "return": {}, "struct": {}, "switch": {},
	"true": {}, "var": {}, "while": {},

	// Types
	"bool": {}, "f16": {}, "f32": {}, "i32": {}, "u32": {},
	"vec2": {}, "vec3": {}, "vec4": {},
	"mat2x2": {}, "mat2x3": {}, "mat2x4": {},
	"mat3x2": {}, "mat3x3": {}, "mat3x4": {},
	"mat4x2": {}, "mat4x3": {}, "mat4x4": {},
	"array": {}, "atomic": {}, "ptr": {}, "sampler": {}, "sampler_comparison": {},
	"texture_1d": {}, "texture_2d": {}, "texture_2d_array": {}, "texture_3d": {},
	"texture_cube": {}, "texture_cube_array": {}, "texture_multisampled_2d": {},
	"texture_storage_1d": {}, "texture_storage_2d": {}, "texture_storage_2d_array": {},
	"texture_storage_3d": {}, "texture_depth_2d": {}, "texture_depth_2d_array": {},
	"texture_depth_cube": {}, "texture_depth_cube_array": {},
	"texture_depth_multisampled_2d": {},

	// Address spaces and access modes used by the buffer declaration
	"function": {}, "private": {}, "workgroup": {}, "uniform": {}, "storage": {},
	"read": {}, "write": {}, "read_write": {},

	// Built-in functions used by accessors
	"bitcast": {}, "select": {}, "arrayLength": {},
}

// reservedWords contains identifiers WGSL reserves for future use.
var reservedWords = map[string]struct{}{
	"NULL": {}, "Self": {}, "abstract": {}, "active": {}, "alignas": {}, "alignof": {},
	"as": {}, "asm": {}, "asm_fragment": {}, "async": {}, "attribute": {}, "auto": {},
	"await": {}, "become": {}, "binding_array": {}, "cast": {}, "catch": {}, "class": {},
	"co_await": {}, "co_return": {}, "co_yield": {}, "coherent": {}, "column_major": {},
	"common": {}, "compile": {}, "compile_fragment": {}, "concept": {}, "const_cast": {},
	"consteval": {}, "constexpr": {}, "constinit": {}, "crate": {}, "debugger": {},
	"decltype": {}, "delete": {}, "demote": {}, "demote_to_helper": {}, "do": {},
	"dynamic_cast": {}, "enum": {}, "explicit": {}, "export": {}, "extends": {},
	"extern": {}, "external": {}, "fallthrough": {}, "filter": {}, "final": {},
	"finally": {}, "friend": {}, "from": {}, "fxgroup": {}, "get": {}, "goto": {},
	"groupshared": {}, "highp": {}, "impl": {}, "implements": {}, "import": {},
	"inline": {}, "instanceof": {}, "interface": {}, "layout": {}, "lowp": {}, "macro": {},
	"macro_rules": {}, "match": {}, "mediump": {}, "meta": {}, "mod": {}, "module": {},
	"move": {}, "mut": {}, "mutable": {}, "namespace": {}, "new": {}, "nil": {},
	"noexcept": {}, "noinline": {}, "nointerpolation": {}, "noperspective": {}, "null": {},
	"nullptr": {}, "of": {}, "operator": {}, "package": {}, "packoffset": {},
	"partition": {}, "pass": {}, "patch": {}, "pixelfragment": {}, "precise": {},
	"precision": {}, "premerge": {}, "priv": {}, "protected": {}, "pub": {}, "public": {},
	"readonly": {}, "ref": {}, "regardless": {}, "register": {}, "reinterpret_cast": {},
	"require": {}, "resource": {}, "restrict": {}, "self": {}, "set": {}, "shared": {},
	"sizeof": {}, "smooth": {}, "snorm": {}, "static": {}, "static_assert": {},
	"static_cast": {}, "std": {}, "subroutine": {}, "super": {}, "target": {},
	"template": {}, "this": {}, "thread_local": {}, "throw": {}, "trait": {}, "try": {},
	"type": {}, "typedef": {}, "typeid": {}, "typename": {}, "typeof": {}, "union": {},
	"unless": {}, "unorm": {}, "unsafe": {}, "unsized": {}, "use": {}, "using": {},
	"varying": {}, "virtual": {}, "volatile": {}, "wgsl": {}, "where": {}, "with": {},
	"writeonly": {}, "yield": {},
}

// isReserved reports keywords, reserved words and identifiers starting
// with two underscores, which WGSL forbids.
func isReserved(name string) bool {
	if _, ok := keywords[name]; ok {
		return true
	}
	if _, ok := reservedWords[name]; ok {
		return true
	}
	return strings.HasPrefix(name, "__") || name == "_"
}
