// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package accessor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/glsl"
	"github.com/gogpu/gpulayout/hlsl"
	"github.com/gogpu/gpulayout/ir"
	"github.com/gogpu/gpulayout/wgsl"
)

func build(t *testing.T, fn func(b *ir.Builder)) *ir.Module {
	t.Helper()
	b := ir.NewBuilder("memory").SetWriteEnabled(true)
	fn(b)
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func point(b *ir.Builder) {
	b.Struct("Point", 8, ir.F("x", 0, ir.Scalar(ir.F32)), ir.F("y", 4, ir.Scalar(ir.F32)))
}

func TestGenerate_FunctionOrder(t *testing.T) {
	m := build(t, func(b *ir.Builder) {
		point(b)
		b.Union("Item", 12, ir.V("None"), ir.V("At", ir.P(4, ir.Inline("Point"))))
	})

	_, info, err := accessor.Generate(m, glsl.Target{}, accessor.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Point_index", "Item_index",
		"Point_read", "Point_write",
		"Item_tag", "Item_At_read", "Item_None_write", "Item_At_write",
	}, info.Functions)
	assert.Empty(t, info.Skipped)
}

func TestGenerate_DefaultsFromModule(t *testing.T) {
	m := build(t, point)

	out, _, err := accessor.Generate(m, glsl.Target{}, accessor.Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "// "+accessor.DefaultHeader+"\n\n")
	assert.Contains(t, out, "memory[ix + 0]")
}

func TestGenerate_NameCollisions(t *testing.T) {
	tests := []struct {
		name  string
		build  func(b *ir.Builder)
		opts   accessor.Options
		target accessor.Target
	}{
		{
			name: "variant named size",
			build: func(b *ir.Builder) {
				b.Union("Shape", 4, ir.V("size"))
			},
		},
		{
			name: "struct named like a variant constant",
			build: func(b *ir.Builder) {
				point(b)
				b.Union("Item", 4, ir.V("Point"))
				b.Struct("Item_Point", 4, ir.F("x", 0, ir.Scalar(ir.U32)))
			},
		},
		{
			name: "struct named like a handle",
			build: func(b *ir.Builder) {
				point(b)
				b.Struct("PointRef", 4, ir.F("x", 0, ir.Scalar(ir.U32)))
			},
		},
		{
			name:  "buffer named like a type",
			build: point,
			opts:  accessor.Options{BufferName: "Point"},
		},
		{name: "buffer named like the handle parameter", build: point, opts: accessor.Options{BufferName: "ref"}},
		{name: "buffer named like the word index", build: point, opts: accessor.Options{BufferName: "ix"}},
		{name: "buffer named like the value local", build: point, opts: accessor.Options{BufferName: "s"}},
		{name: "buffer named like the array index", build: point, opts: accessor.Options{BufferName: "index"}},
		{name: "buffer named like a raw word", build: point, opts: accessor.Options{BufferName: "raw0"}},
		{
			name: "struct named like the value local",
			build: func(b *ir.Builder) {
				b.Struct("s", 4, ir.F("a", 0, ir.Scalar(ir.U32)))
			},
		},
		{
			name: "struct named like a raw word",
			build: func(b *ir.Builder) {
				b.Struct("raw12", 4, ir.F("a", 0, ir.Scalar(ir.U32)))
			},
		},
		{
			name:   "wgsl buffer named like the handle parameter",
			build:  point,
			opts:   accessor.Options{BufferName: "handle"},
			target: wgsl.Target{},
		},
		{
			name: "struct named like an hlsl handle constructor",
			build: func(b *ir.Builder) {
				point(b)
				b.Struct("PointRef_new", 4, ir.F("x", 0, ir.Scalar(ir.U32)))
			},
			target: hlsl.Target{},
		},
		{
			name:   "hlsl buffer named like the constructor parameter",
			build:  point,
			opts:   accessor.Options{BufferName: "offset"},
			target: hlsl.Target{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := build(t, tt.build)
			target := tt.target
			if target == nil {
				target = glsl.Target{}
			}
			_, _, err := accessor.Generate(m, target, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, &accessor.Error{Kind: accessor.ErrNameCollision})
		})
	}
}

func TestGenerate_InvalidIdentifiers(t *testing.T) {
	for _, name := range []string{"bad-name", "1st", "héllo"} {
		t.Run(name, func(t *testing.T) {
			m := build(t, func(b *ir.Builder) {
				b.Struct("S", 4, ir.F(name, 0, ir.Scalar(ir.U32)))
			})
			_, _, err := accessor.Generate(m, glsl.Target{}, accessor.Options{})
			assert.ErrorIs(t, err, &accessor.Error{Kind: accessor.ErrInvalidModule})
		})
	}
}

func TestGenerate_InvalidModuleCause(t *testing.T) {
	m := &ir.Module{Name: "memory", Defs: []ir.TypeDef{
		{Name: "Empty", Size: 4, Def: ir.StructDef{}},
	}}

	_, _, err := accessor.Generate(m, glsl.Target{}, accessor.Options{})
	require.Error(t, err)

	var aerr *accessor.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, accessor.ErrInvalidModule, aerr.Kind)

	var verrs ir.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, ir.KindEmptyStruct, verrs[0].Kind)
}

func TestGenerate_NilArguments(t *testing.T) {
	_, _, err := accessor.Generate(nil, glsl.Target{}, accessor.Options{})
	assert.ErrorIs(t, err, &accessor.Error{Kind: accessor.ErrInvalidModule})

	_, _, err = accessor.Generate(build(t, point), nil, accessor.Options{})
	assert.ErrorIs(t, err, &accessor.Error{Kind: accessor.ErrInternal})
}

func TestGenerate_SkippedPayloadIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	accessor.SetLogger(zap.New(core))
	t.Cleanup(func() { accessor.SetLogger(zap.NewNop()) })

	m := build(t, func(b *ir.Builder) {
		point(b)
		b.Union("Cmd", 20,
			ir.V("Nop"),
			ir.V("Pair", ir.P(4, ir.Inline("Point")), ir.P(12, ir.Inline("Point"))),
		)
	})

	out, info, err := accessor.Generate(m, glsl.Target{}, accessor.Options{SkipUnsupported: true})
	require.NoError(t, err)
	require.Len(t, info.Skipped, 1)
	assert.Equal(t, accessor.Skipped{
		Type:    "Cmd",
		Variant: "Pair",
		Reason:  "payload has 2 items, only a single struct is supported",
	}, info.Skipped[0])
	assert.Contains(t, out, "// Cmd_Pair_read omitted: payload has 2 items")
	assert.NotContains(t, info.Functions, "Cmd_Pair_write")

	entries := logs.FilterMessage("skipping unsupported payload").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Pair", entries[0].ContextMap()["variant"])
}

func TestError_Format(t *testing.T) {
	cause := errors.New("boom")
	err := &accessor.Error{
		Kind:    accessor.ErrUnsupportedPayload,
		Type:    "Cmd",
		Variant: "Raw",
		Message: "not a struct",
		Cause:   cause,
	}
	assert.Equal(t, "UnsupportedPayload in type Cmd, variant Raw: not a struct", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, &accessor.Error{Kind: accessor.ErrInternal})

	assert.Equal(t, "Internal: no target", accessor.NewError(accessor.ErrInternal, "no target").Error())
	assert.Equal(t, "Unknown", accessor.ErrorKind(99).String())
}

func TestWriter(t *testing.T) {
	var w accessor.Writer
	w.Line("a {")
	w.Push()
	w.Line("b = %d;", 1)
	literal := "100%"
	w.Line(literal)
	w.Pop()
	w.Pop()
	w.Line("}")
	w.Blank()
	assert.Equal(t, "a {\n    b = 1;\n    100%\n}\n\n", w.String())
}
