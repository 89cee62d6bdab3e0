package pack

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gpulayout/ir"
)

func field(name string, offset uint32, t ir.Type, size uint32) ir.Field {
	return ir.Field{Name: name, Offset: offset, Type: ir.LayoutType{Type: t, Size: size}}
}

func scalar(name string, offset uint32, k ir.ScalarKind) ir.Field {
	return field(name, offset, ir.ScalarType{Kind: k}, k.Size())
}

// packedFields is a:u8@0, b:i8@1, c:u16@2, d:f32@4 in an 8-byte struct.
func packedFields() []ir.Field {
	return []ir.Field{
		scalar("a", 0, ir.U8),
		scalar("b", 1, ir.I8),
		scalar("c", 2, ir.U16),
		scalar("d", 4, ir.F32),
	}
}

func TestResolve_PackedScalars(t *testing.T) {
	got := Resolve(packedFields(), 8, Read)

	want := []Group{
		{Word: 0, Pieces: []Piece{
			{Kind: PieceScalar, Field: 0, Lane: NoLane, Offset: 0, Size: 1},
			{Kind: PieceScalar, Field: 1, Lane: NoLane, Offset: 1, Size: 1},
			{Kind: PieceScalar, Field: 2, Lane: NoLane, Offset: 2, Size: 2},
		}},
		{Word: 1, Pieces: []Piece{
			{Kind: PieceScalar, Field: 3, Lane: NoLane, Offset: 4, Size: 4},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_VectorLanesSplitAcrossWords(t *testing.T) {
	fields := []ir.Field{field("v", 2, ir.VectorType{Kind: ir.U8, Lanes: 3}, 3)}
	groups := Resolve(fields, 8, Read)
	require.Len(t, groups, 2)

	want0 := []Piece{
		{Kind: PieceLane, Field: 0, Lane: 0, Offset: 2, Size: 1},
		{Kind: PieceLane, Field: 0, Lane: 1, Offset: 3, Size: 1},
	}
	want1 := []Piece{
		{Kind: PieceLane, Field: 0, Lane: 2, Offset: 4, Size: 1},
	}
	assert.Equal(t, want0, groups[0].Pieces)
	assert.Equal(t, want1, groups[1].Pieces)
	assert.Equal(t, uint32(16), groups[0].Pieces[0].Shift())
	assert.Equal(t, uint32(24), groups[0].Pieces[1].Shift())
	assert.Equal(t, uint32(0), groups[1].Pieces[0].Shift())
}

func TestResolve_NestedByMode(t *testing.T) {
	fields := []ir.Field{
		scalar("tag", 0, ir.U32),
		field("inner", 4, ir.StructType{Def: 0}, 8),
		field("next", 12, ir.RefType{Def: 0}, 4),
	}

	read := Resolve(fields, 16, Read)
	require.Len(t, read, 4)
	for _, w := range []int{1, 2} {
		require.Len(t, read[w].Pieces, 1, "word %d", w)
		assert.Equal(t, PieceNested, read[w].Pieces[0].Kind)
		assert.False(t, read[w].NeedsRaw())
	}
	assert.Equal(t, PieceRef, read[3].Pieces[0].Kind)
	assert.True(t, read[3].NeedsRaw())

	write := Resolve(fields, 16, Write)
	require.Len(t, write, 4)
	require.Len(t, write[1].Pieces, 1)
	assert.Equal(t, Piece{Kind: PieceNested, Field: 1, Lane: NoLane, Offset: 4, Size: 8}, write[1].Pieces[0])
	assert.True(t, write[2].Empty(), "nested struct is delegated from its first word")
}

func TestResolve_PaddingWords(t *testing.T) {
	groups := Resolve([]ir.Field{scalar("x", 8, ir.U32)}, 12, Read)
	require.Len(t, groups, 3)
	assert.True(t, groups[0].Empty())
	assert.True(t, groups[1].Empty())
	assert.False(t, groups[2].Empty())
}

// Every byte of every field is covered exactly once, in the group of the
// word that contains it.
func TestResolve_CoverageComplete(t *testing.T) {
	fields := []ir.Field{
		scalar("a", 0, ir.U8),
		field("v", 2, ir.VectorType{Kind: ir.U8, Lanes: 3}, 3),
		field("h", 6, ir.VectorType{Kind: ir.I16, Lanes: 3}, 6),
		scalar("f", 12, ir.F32),
		field("p", 16, ir.StructType{Def: 0}, 8),
		field("r", 24, ir.RefType{Def: 0}, 4),
	}

	groups := Resolve(fields, 28, Read)
	seen := make(map[uint32]int)
	for _, g := range groups {
		for _, p := range g.Pieces {
			for b := p.Offset; b < p.Offset+p.Size; b++ {
				assert.Equal(t, g.Word, b/4, "byte %d of field %d lands in word %d", b, p.Field, g.Word)
				seen[b]++
			}
		}
	}
	for i, f := range fields {
		for b := f.Offset; b < f.Offset+f.Type.Size; b++ {
			assert.Equal(t, 1, seen[b], "byte %d of field %d", b, i)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	fields := packedFields()
	first := Resolve(fields, 8, Write)
	second := Resolve(fields, 8, Write)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "read", Read.String())
	assert.Equal(t, "write", Write.String())
}
