// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/ir"
)

func buildModule(t *testing.T, write bool, build func(b *ir.Builder)) *ir.Module {
	t.Helper()
	b := ir.NewBuilder("memory").SetWriteEnabled(write)
	build(b)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return m
}

func packedStruct(b *ir.Builder) {
	b.Struct("Packed", 8,
		ir.F("a", 0, ir.Scalar(ir.U8)),
		ir.F("b", 1, ir.Scalar(ir.I8)),
		ir.F("c", 2, ir.Scalar(ir.U16)),
		ir.F("d", 4, ir.Scalar(ir.F32)),
	)
}

func mustCompile(t *testing.T, m *ir.Module, opts Options) string {
	t.Helper()
	source, _, err := Compile(m, opts)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	return source
}

func mustContainLines(t *testing.T, source string, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if !strings.Contains(source, line) {
			t.Errorf("output missing %q\n--- output ---\n%s", line, source)
		}
	}
}

const packedWGSL = `// Code auto-generated by gpulayout

struct PackedRef {
    offset: u32,
}

struct Packed {
    a: u32,
    b: i32,
    c: u32,
    d: f32,
}

const Packed_size: u32 = 8u;

fn Packed_index(handle: PackedRef, index: u32) -> PackedRef {
    return PackedRef(handle.offset + index * Packed_size);
}

fn Packed_read(handle: PackedRef) -> Packed {
    let ix = handle.offset >> 2u;
    let raw0 = memory[ix + 0u];
    let raw1 = memory[ix + 1u];
    var s: Packed;
    s.a = raw0 & 0xffu;
    s.b = i32(raw0 << 16u) >> 24u;
    s.c = raw0 >> 16u;
    s.d = bitcast<f32>(raw1);
    return s;
}

fn Packed_write(handle: PackedRef, s: Packed) {
    let ix = handle.offset >> 2u;
    memory[ix + 0u] = s.a | ((u32(s.b) & 0xffu) << 8u) | (s.c << 16u);
    memory[ix + 1u] = bitcast<u32>(s.d);
}

`

func TestCompile_PackedStruct(t *testing.T) {
	m := buildModule(t, true, packedStruct)
	source := mustCompile(t, m, DefaultOptions())
	if source != packedWGSL {
		t.Errorf("Compile() output mismatch\n--- got ---\n%s\n--- want ---\n%s", source, packedWGSL)
	}
}

func TestCompile_Vectors(t *testing.T) {
	m := buildModule(t, true, func(b *ir.Builder) {
		b.Struct("Lanes", 12,
			ir.F("v", 2, ir.Vector(ir.U8, 3)),
			ir.F("h", 8, ir.Vector(ir.I16, 2)),
		)
	})
	source := mustCompile(t, m, DefaultOptions())
	mustContainLines(t, source,
		"    v: vec3<u32>,",
		"    h: vec2<i32>,",
		"    s.v = vec3<u32>((raw0 >> 16u) & 0xffu, raw0 >> 24u, raw1 & 0xffu);",
		"    s.h = vec2<i32>(i32(raw2 << 16u) >> 16u, i32(raw2) >> 16u);",
		"    memory[ix + 0u] = (s.v.x << 16u) | (s.v.y << 24u);",
		"    memory[ix + 1u] = s.v.z;",
	)
}

func TestCompile_UnionAndRef(t *testing.T) {
	m := buildModule(t, true, func(b *ir.Builder) {
		packedStruct(b)
		b.Struct("Node", 8,
			ir.F("next", 0, ir.Ref("Node")),
			ir.F("packed", 4, ir.Ref("Packed")),
		)
		b.Union("Shape", 12, ir.V("Empty"), ir.V("Filled", ir.P(4, ir.Inline("Packed"))))
	})
	source := mustCompile(t, m, DefaultOptions())
	mustContainLines(t, source,
		"    next: NodeRef,",
		"    s.next = NodeRef(raw0);",
		"    s.packed = PackedRef(raw1);",
		"    memory[ix + 1u] = s.packed.offset;",
		"const Shape_Empty: u32 = 0u;\nconst Shape_Filled: u32 = 1u;\nconst Shape_size: u32 = 12u;\n",
		"fn Shape_tag(handle: ShapeRef) -> u32 {\n    return memory[handle.offset >> 2u];\n}\n",
		"fn Shape_Filled_read(handle: ShapeRef) -> Packed {\n    return Packed_read(PackedRef(handle.offset + 4u));\n}\n",
		"fn Shape_Empty_write(handle: ShapeRef) {\n    memory[handle.offset >> 2u] = Shape_Empty;\n}\n",
	)
}

func TestCompile_Binding(t *testing.T) {
	tests := []struct {
		name  string
		write bool
		want  string
	}{
		{"writable", true, "@group(0) @binding(1) var<storage, read_write> memory: array<u32>;\n"},
		{"read only", false, "@group(0) @binding(1) var<storage, read> memory: array<u32>;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildModule(t, tt.write, packedStruct)
			opts := DefaultOptions()
			opts.Binding = &accessor.Binding{Group: 0, Binding: 1}
			source := mustCompile(t, m, opts)
			if !strings.HasPrefix(source, "// Code auto-generated by gpulayout\n\n"+tt.want+"\n") {
				t.Errorf("unexpected prologue:\n%s", source)
			}
		})
	}
}

func TestCompile_ReservedNames(t *testing.T) {
	for _, field := range []string{"loop", "vec4", "type", "__x", "_"} {
		t.Run(field, func(t *testing.T) {
			m := buildModule(t, true, func(b *ir.Builder) {
				b.Struct("S", 4, ir.F(field, 0, ir.Scalar(ir.U32)))
			})
			_, _, err := Compile(m, DefaultOptions())
			if !errors.Is(err, &accessor.Error{Kind: accessor.ErrReservedName}) {
				t.Errorf("Compile() error = %v, want ErrReservedName", err)
			}
		})
	}
}

func TestCompile_ErrorPrefix(t *testing.T) {
	m := buildModule(t, true, func(b *ir.Builder) {
		b.Union("Cmd", 8, ir.V("Raw", ir.P(4, ir.Scalar(ir.U32))))
	})
	_, _, err := Compile(m, DefaultOptions())
	if err == nil || !strings.HasPrefix(err.Error(), "wgsl: ") {
		t.Errorf("Compile() error = %v, want wgsl prefix", err)
	}
	if !errors.Is(err, &accessor.Error{Kind: accessor.ErrUnsupportedPayload}) {
		t.Errorf("Compile() error = %v, want ErrUnsupportedPayload", err)
	}
}
