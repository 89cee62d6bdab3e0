// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "strings"

// glslKeywords contains the GLSL words that cannot name a type, member or
// buffer in generated code: keywords, reserved words, type names and the
// built-in functions accessors use.
// Based on GLSL 4.60 and GLSL ES 3.20 specifications.
var glslKeywords = map[string]struct{}{
	// Scalar, vector and matrix types
	"void": {}, "bool": {}, "int": {}, "uint": {}, "float": {}, "double": {},
	"vec2": {}, "vec3": {}, "vec4": {},
	"ivec2": {}, "ivec3": {}, "ivec4": {},
	"uvec2": {}, "uvec3": {}, "uvec4": {},
	"bvec2": {}, "bvec3": {}, "bvec4": {},
	"dvec2": {}, "dvec3": {}, "dvec4": {},
	"mat2": {}, "mat3": {}, "mat4": {},
	"mat2x2": {}, "mat2x3": {}, "mat2x4": {},
	"mat3x2": {}, "mat3x3": {}, "mat3x4": {},
	"mat4x2": {}, "mat4x3": {}, "mat4x4": {},
	"sampler": {}, "sampler2D": {}, "sampler3D": {}, "samplerCube": {},
	"image2D": {}, "image3D": {}, "atomic_uint": {},

	// Keywords
	"attribute": {}, "const": {}, "uniform": {}, "varying": {},
	"buffer": {}, "shared": {}, "coherent": {}, "volatile": {}, "restrict": {}, "readonly": {}, "writeonly": {},
	"layout": {}, "centroid": {}, "flat": {}, "smooth": {}, "noperspective": {},
	"patch": {}, "sample": {}, "subroutine": {},
	"break": {}, "continue": {}, "do": {}, "for": {}, "while": {}, "switch": {}, "case": {}, "default": {},
	"if": {}, "else": {}, "discard": {}, "return": {},
	"in": {}, "out": {}, "inout": {},
	"true": {}, "false": {},
	"invariant": {}, "precise": {}, "struct": {},
	"lowp": {}, "mediump": {}, "highp": {}, "precision": {},

	// Reserved for future use
	"common": {}, "partition": {}, "active": {},
	"asm": {}, "class": {}, "union": {}, "enum": {}, "typedef": {}, "template": {}, "this": {},
	"resource": {}, "goto": {},
	"inline": {}, "noinline": {}, "public": {}, "static": {}, "extern": {}, "external": {}, "interface": {},
	"long": {}, "short": {}, "half": {}, "fixed": {}, "unsigned": {}, "superp": {},
	"input": {}, "output": {}, "filter": {}, "sizeof": {}, "cast": {},
	"namespace": {}, "using": {},

	// Built-in functions
	"main": {},
	"floatBitsToInt": {}, "floatBitsToUint": {}, "intBitsToFloat": {}, "uintBitsToFloat": {},
	"bitfieldExtract": {}, "bitfieldInsert": {}, "bitCount": {}, "findLSB": {}, "findMSB": {},
	"packUnorm4x8": {}, "unpackUnorm4x8": {}, "packHalf2x16": {}, "unpackHalf2x16": {},
	"min": {}, "max": {}, "clamp": {}, "mix": {}, "abs": {}, "sign": {}, "length": {},
	"atomicAdd": {}, "atomicAnd": {}, "atomicOr": {}, "atomicExchange": {}, "atomicCompSwap": {},
	"barrier": {}, "memoryBarrier": {}, "memoryBarrierBuffer": {},
}

// isKeyword checks if a name is a GLSL keyword or reserved word.
func isKeyword(name string) bool {
	_, ok := glslKeywords[name]
	return ok
}

// isReserved reports whether name is unusable as an identifier: a keyword,
// a name in the reserved "gl_" namespace, or a name containing "__".
func isReserved(name string) bool {
	return isKeyword(name) || strings.HasPrefix(name, "gl_") || strings.Contains(name, "__")
}
