package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gogpu/gpulayout/ir"
)

const sceneYAML = `module: memory
write: true
types:
  - struct: Point
    fields:
      - {name: x, type: f32}
      - {name: y, type: f32}
  - struct: Packed
    fields:
      - {name: a, type: u8}
      - {name: b, type: i8}
      - {name: c, type: u16}
      - {name: d, type: f32}
  - struct: Node
    fields:
      - {name: flag, type: u8}
      - {name: color, type: vec3<u8>}
      - {name: next, type: ref<Node>}
      - {name: pos, type: Point}
      - {name: half, type: vec1<i16>}
  - union: Shape
    variants:
      - name: Empty
      - name: Filled
        payload: [Point]
      - name: Placed
        payload:
          - {type: Packed, offset: 8}
`

func field(t *testing.T, m *ir.Module, def, name string) ir.Field {
	t.Helper()
	h, ok := m.Lookup(def)
	require.True(t, ok, "definition %s", def)
	st, ok := m.Def(h).Def.(ir.StructDef)
	require.True(t, ok, "%s is not a struct", def)
	for _, f := range st.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("%s has no field %s", def, name)
	return ir.Field{}
}

func TestLoad_Scene(t *testing.T) {
	m, err := Load([]byte(sceneYAML))
	require.NoError(t, err)

	assert.Equal(t, "memory", m.Name)
	assert.True(t, m.WriteEnabled)
	require.Len(t, m.Defs, 4)

	sizes := map[string]uint32{}
	for _, d := range m.Defs {
		sizes[d.Name] = d.Size
	}
	assert.Equal(t, map[string]uint32{"Point": 8, "Packed": 8, "Node": 20, "Shape": 16}, sizes)

	offsets := map[string]uint32{}
	for _, name := range []string{"flag", "color", "next", "pos", "half"} {
		offsets[name] = field(t, m, "Node", name).Offset
	}
	assert.Equal(t, map[string]uint32{"flag": 0, "color": 1, "next": 4, "pos": 8, "half": 16}, offsets)

	assert.Equal(t, ir.VectorType{Kind: ir.U8, Lanes: 3}, field(t, m, "Node", "color").Type.Type)
	assert.Equal(t, ir.RefType{Def: 2}, field(t, m, "Node", "next").Type.Type)
	assert.Equal(t, ir.StructType{Def: 0}, field(t, m, "Node", "pos").Type.Type)

	un, ok := m.Defs[3].Def.(ir.UnionDef)
	require.True(t, ok)
	assert.Equal(t, ir.NoPayload{}, un.Variants[0].Payload)
	assert.Equal(t, ir.StructPayload{Offset: 4, Def: 0}, un.Variants[1].Payload)
	assert.Equal(t, ir.StructPayload{Offset: 8, Def: 1}, un.Variants[2].Payload)
}

func TestLoad_ExplicitLayout(t *testing.T) {
	src := `module: buf
types:
  - struct: Header
    size: 16
    fields:
      - {name: magic, type: u32, offset: 0}
      - {name: count, type: u16, offset: 6}
      - {name: tail, type: u16}
`
	m, err := Load([]byte(src))
	require.NoError(t, err)
	assert.False(t, m.WriteEnabled)
	assert.Equal(t, uint32(16), m.Defs[0].Size)
	assert.Equal(t, uint32(6), field(t, m, "Header", "count").Offset)
	assert.Equal(t, uint32(8), field(t, m, "Header", "tail").Offset, "auto offset continues after an explicit one")
}

func TestLoad_UnsupportedPayloadIsKept(t *testing.T) {
	src := `module: memory
types:
  - union: Cmd
    variants:
      - name: Raw
        payload: [u32, u32]
`
	m, err := Load([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, uint32(12), m.Defs[0].Size)

	un := m.Defs[0].Def.(ir.UnionDef)
	p, ok := un.Variants[0].Payload.(ir.UnsupportedPayload)
	require.True(t, ok)
	require.Len(t, p.Items, 2)
	assert.Equal(t, uint32(8), p.Items[1].Offset)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		message string
	}{
		{
			name:    "empty",
			src:     "",
			message: "empty description",
		},
		{
			name:    "missing module",
			src:     "types:\n  - struct: A\n    fields: [{name: x, type: u32}]\n",
			line:    1,
			message: "missing module name",
		},
		{
			name:    "unknown key",
			src:     "module: m\ntypes:\n  - struct: A\n    feilds: []\n",
			line:    4,
			message: `unknown key "feilds"`,
		},
		{
			name:    "bad type",
			src:     "module: m\ntypes:\n  - struct: A\n    fields:\n      - {name: x, type: u64}\n",
			line:    5,
			message: `field A.x: unknown type "u64"`,
		},
		{
			name:    "vector lanes",
			src:     "module: m\ntypes:\n  - struct: A\n    fields:\n      - {name: x, type: vec5<u8>}\n",
			line:    5,
			message: `field A.x: vector type "vec5<u8>" must have 1 to 4 lanes`,
		},
		{
			name:    "inline before declaration",
			src:     "module: m\ntypes:\n  - struct: A\n    fields:\n      - {name: b, type: B}\n  - struct: B\n    fields:\n      - {name: x, type: u32}\n",
			line:    5,
			message: "field A.b: type B must be declared before it is inlined",
		},
		{
			name:    "struct and union",
			src:     "module: m\ntypes:\n  - {struct: A, union: B}\n",
			line:    3,
			message: "declaration is both struct A and union B",
		},
		{
			name:    "yaml type error",
			src:     "module: m\nwrite: true\ntypes:\n  - struct: A\n    size: big\n    fields: [{name: x, type: u32}]\n",
			line:    5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.src))
			require.Error(t, err)

			var se *SourceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.line, se.Pos.Line, "line of %q", se.Message)
			if tt.message != "" {
				assert.Equal(t, tt.message, se.Message)
			}
			assert.Equal(t, tt.src, se.Source)
		})
	}
}

func TestLoad_ValidationErrorsArePositioned(t *testing.T) {
	src := `module: m
types:
  - struct: A
    fields:
      - {name: x, type: u32}
      - {name: y, type: u16, offset: 2}
`
	_, err := Load([]byte(src))
	require.Error(t, err)

	var se *SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Position{Line: 6, Column: 9}, se.Pos)
	assert.True(t, errors.Is(err, ir.KindOverlap), "error %v should unwrap to an overlap", err)
}

func TestSourceError_FormatWithContext(t *testing.T) {
	se := &SourceError{
		Message: "unknown key",
		Pos:     Position{Line: 2, Column: 3},
		Source:  "module: m\n  bad: 1\n",
	}
	want := "error: unknown key\n" +
		"  --> line 2:3\n" +
		"   |\n" +
		"  2|   bad: 1\n" +
		"   |   ^\n"
	assert.Equal(t, want, se.FormatWithContext())
	assert.Equal(t, "2:3: unknown key", se.Error())

	se.Pos = Position{}
	assert.Equal(t, "unknown key", se.FormatWithContext())
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"f32", "f32"},
		{" u16 ", "u16"},
		{"vec2<f32>", "vec2<f32>"},
		{"vec4< u8 >", "vec4<u8>"},
		{"ref<Node>", "ref<Node>"},
		{"Point", "Point"},
	}
	for _, tt := range tests {
		got, err := parseType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.spec.String())
	}

	for _, bad := range []string{"", "vec", "vec0<u8>", "vec2<Point>", "ref<>", "a-b", "vec2<f32"} {
		_, err := parseType(bad)
		assert.Error(t, err, "parseType(%q)", bad)
	}
}

func TestLoad_LogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	_, err := Load([]byte(sceneYAML))
	require.NoError(t, err)

	entries := logs.FilterMessage("loaded layout description").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "memory", ctx["module"])
	assert.Equal(t, int64(4), ctx["definitions"])
}
