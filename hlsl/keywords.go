// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strconv"
	"strings"
)

// reservedKeywords contains the HLSL keywords, reserved words, resource
// types and intrinsics that cannot name generated types, members or
// buffers. Based on the Microsoft HLSL documentation.
var reservedKeywords = map[string]struct{}{
	// FXC keywords
	"AppendStructuredBuffer": {}, "asm": {}, "asm_fragment": {}, "BlendState": {},
	"break": {}, "Buffer": {}, "ByteAddressBuffer": {}, "case": {}, "cbuffer": {},
	"centroid": {}, "class": {}, "column_major": {}, "compile": {}, "compile_fragment": {},
	"CompileShader": {}, "const": {}, "continue": {}, "ComputeShader": {},
	"ConsumeStructuredBuffer": {}, "default": {}, "discard": {}, "do": {}, "else": {},
	"export": {}, "extern": {}, "false": {}, "for": {}, "fxgroup": {}, "groupshared": {},
	"if": {}, "in": {}, "inline": {}, "inout": {}, "interface": {}, "line": {}, "lineadj": {},
	"linear": {}, "matrix": {}, "namespace": {}, "nointerpolation": {}, "noperspective": {},
	"NULL": {}, "out": {}, "packoffset": {}, "pass": {}, "point": {}, "precise": {},
	"return": {}, "register": {}, "row_major": {}, "RWBuffer": {}, "RWByteAddressBuffer": {},
	"RWStructuredBuffer": {}, "RWTexture2D": {}, "sample": {}, "sampler": {}, "SamplerState": {},
	"shared": {}, "snorm": {}, "static": {}, "string": {}, "struct": {}, "switch": {},
	"StructuredBuffer": {}, "tbuffer": {}, "technique": {}, "texture": {}, "Texture2D": {},
	"triangle": {}, "true": {}, "typedef": {}, "uniform": {}, "unorm": {}, "unsigned": {},
	"vector": {}, "void": {}, "volatile": {}, "while": {},

	// FXC reserved words
	"auto": {}, "catch": {}, "char": {}, "const_cast": {}, "delete": {}, "dynamic_cast": {},
	"enum": {}, "explicit": {}, "friend": {}, "goto": {}, "long": {}, "mutable": {}, "new": {},
	"operator": {}, "private": {}, "protected": {}, "public": {}, "reinterpret_cast": {},
	"short": {}, "signed": {}, "sizeof": {}, "static_cast": {}, "template": {}, "this": {},
	"throw": {}, "try": {}, "typename": {}, "union": {}, "using": {}, "virtual": {},

	// DXC keywords
	"alignas": {}, "alignof": {}, "constexpr": {}, "decltype": {}, "noexcept": {},
	"nullptr": {}, "static_assert": {}, "thread_local": {},

	// Intrinsics used by accessors or likely to collide with field names
	"abs": {}, "all": {}, "any": {}, "asfloat": {}, "asint": {}, "asuint": {}, "clamp": {},
	"countbits": {}, "firstbithigh": {}, "firstbitlow": {}, "f16tof32": {}, "f32tof16": {},
	"length": {}, "lerp": {}, "max": {}, "min": {}, "reversebits": {}, "saturate": {},
	"sign": {}, "step": {},
	"InterlockedAdd": {}, "InterlockedAnd": {}, "InterlockedOr": {}, "InterlockedExchange": {},
	"InterlockedCompareExchange": {}, "DeviceMemoryBarrier": {}, "GroupMemoryBarrier": {},
}

// caseInsensitiveKeywords contains keywords that are case-insensitive in HLSL.
var caseInsensitiveKeywords = map[string]struct{}{
	"asm":         {},
	"decl":        {},
	"pass":        {},
	"technique":   {},
	"texture1d":   {},
	"texture2d":   {},
	"texture3d":   {},
	"texturecube": {},
}

// typeShorthands contains all scalar, vector and matrix type names.
// Generated programmatically from base types.
var typeShorthands = func() map[string]struct{} {
	result := make(map[string]struct{})

	bases := []string{
		"bool", "int", "uint", "dword", "half", "float", "double",
		"min10float", "min16float", "min12int", "min16int", "min16uint",
		"int16_t", "int32_t", "int64_t", "uint16_t", "uint32_t", "uint64_t",
		"float16_t", "float32_t", "float64_t",
	}
	for _, base := range bases {
		result[base] = struct{}{}
		for r := 1; r <= 4; r++ {
			rs := strconv.Itoa(r)
			result[base+rs] = struct{}{}
			for c := 1; c <= 4; c++ {
				result[base+rs+"x"+strconv.Itoa(c)] = struct{}{}
			}
		}
	}
	return result
}()

// isReserved checks if a name is an HLSL keyword, type name, built-in
// semantic, or matches a case-insensitive keyword.
func isReserved(name string) bool {
	if _, ok := reservedKeywords[name]; ok {
		return true
	}
	if _, ok := typeShorthands[name]; ok {
		return true
	}
	if _, ok := caseInsensitiveKeywords[strings.ToLower(name)]; ok {
		return true
	}
	return strings.HasPrefix(name, "SV_")
}
