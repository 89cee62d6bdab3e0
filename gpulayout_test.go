package gpulayout

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/ir"
	"github.com/gogpu/gpulayout/schema"
)

const pointYAML = `module: memory
write: true
types:
  - struct: Point
    fields:
      - {name: x, type: f32}
      - {name: y, type: f32}
  - union: Item
    variants:
      - name: None
      - name: At
        payload: [Point]
`

func TestParseLanguage(t *testing.T) {
	for _, l := range Languages {
		got, err := ParseLanguage(strings.ToUpper(l.String()))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	_, err := ParseLanguage("msl")
	assert.Error(t, err)
	assert.Equal(t, ".wgsl", WGSL.Extension())
	assert.Equal(t, "language(9)", Language(9).String())
}

func TestCompile_AllLanguages(t *testing.T) {
	want := map[Language]string{
		GLSL: "Point Item_At_read(ItemRef ref) {",
		HLSL: "ItemRef ItemRef_new(uint offset) {",
		WGSL: "fn Item_At_read(handle: ItemRef) -> Point {",
	}
	for _, lang := range Languages {
		t.Run(lang.String(), func(t *testing.T) {
			code, err := Compile([]byte(pointYAML), lang, DefaultOptions())
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(code, "// "+accessor.DefaultHeader+"\n"))
			assert.Contains(t, code, want[lang])
		})
	}
}

func TestCompile_MatchesStagedPipeline(t *testing.T) {
	module, err := schema.Load([]byte(pointYAML))
	require.NoError(t, err)

	staged, info, err := Generate(module, HLSL, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, info.Functions, "Item_tag")

	direct, err := Compile([]byte(pointYAML), HLSL, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, staged, direct)
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile([]byte("module: m\ntypes: [{struct: A}]\n"), GLSL, DefaultOptions())
	require.Error(t, err)
	var se *schema.SourceError
	assert.ErrorAs(t, err, &se)
	assert.True(t, errors.Is(err, ir.KindEmptyStruct), "error %v", err)

	_, err = Compile([]byte(pointYAML), Language(7), DefaultOptions())
	assert.ErrorContains(t, err, "unsupported language")

	opts := DefaultOptions()
	opts.BufferName = "switch"
	_, err = Compile([]byte(pointYAML), WGSL, opts)
	assert.ErrorIs(t, err, &accessor.Error{Kind: accessor.ErrReservedName})
	assert.ErrorContains(t, err, "wgsl: ")
}
