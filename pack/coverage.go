package pack

import "github.com/gogpu/gpulayout/ir"

// Mode selects how a struct's fields are grouped into words.
type Mode uint8

const (
	// Read groups every byte of every field by containing word, so a
	// decoder knows which raw words to load.
	Read Mode = iota

	// Write groups the contributions that make up one word store. Nested
	// structs are delegated to their own encoder and appear once.
	Write
)

// String returns "read" or "write".
func (m Mode) String() string {
	if m == Write {
		return "write"
	}
	return "read"
}

// PieceKind classifies a contribution to a word.
type PieceKind uint8

const (
	PieceScalar PieceKind = iota // scalar field
	PieceLane                    // one lane of a vector field
	PieceRef                     // reference handle, stored as a u32 offset
	PieceNested                  // inline struct, handled by its own accessor
)

// NoLane is the Lane value of pieces that are not vector lanes.
const NoLane = -1

// Piece is the part of a field that falls into one word.
type Piece struct {
	Kind   PieceKind
	Field  int    // index into the struct's fields
	Lane   int    // vector lane, or NoLane
	Offset uint32 // struct-relative byte offset of the piece
	Size   uint32 // bytes of the piece inside this word
}

// Shift returns the bit offset of the piece inside its word.
func (p Piece) Shift() uint32 {
	return (p.Offset % 4) * 8
}

// Raw reports whether the piece is decoded from the raw word bits.
func (p Piece) Raw() bool {
	return p.Kind != PieceNested
}

// Group is the ordered set of pieces overlapping one word.
type Group struct {
	Word   uint32
	Pieces []Piece
}

// Empty reports whether no field touches the word.
func (g Group) Empty() bool {
	return len(g.Pieces) == 0
}

// NeedsRaw reports whether any piece must be extracted from the raw word.
func (g Group) NeedsRaw() bool {
	for _, p := range g.Pieces {
		if p.Raw() {
			return true
		}
	}
	return false
}

// Resolve computes the word coverage of a struct of the given size.
// The result has one group per word, in word order; pieces inside a group
// follow field order, then lane order. Offsets are taken as given.
func Resolve(fields []ir.Field, size uint32, mode Mode) []Group {
	groups := make([]Group, (size+3)/4)
	for i := range groups {
		groups[i].Word = uint32(i) //nolint:gosec // G115: bounded by size/4
	}

	add := func(p Piece) {
		word := p.Offset / 4
		for uint32(len(groups)) <= word { //nolint:gosec // G115: len is non-negative
			groups = append(groups, Group{Word: uint32(len(groups))}) //nolint:gosec // G115: len is non-negative
		}
		groups[word].Pieces = append(groups[word].Pieces, p)
	}

	for i, f := range fields {
		switch t := f.Type.Type.(type) {
		case ir.ScalarType:
			span(f.Offset, f.Type.Size, func(off, n uint32) {
				add(Piece{Kind: PieceScalar, Field: i, Lane: NoLane, Offset: off, Size: n})
			})
		case ir.VectorType:
			width := t.Kind.Size()
			for lane := 0; lane < int(t.Lanes); lane++ {
				span(f.Offset+uint32(lane)*width, width, func(off, n uint32) { //nolint:gosec // G115: lane < 4
					add(Piece{Kind: PieceLane, Field: i, Lane: lane, Offset: off, Size: n})
				})
			}
		case ir.RefType:
			span(f.Offset, 4, func(off, n uint32) {
				add(Piece{Kind: PieceRef, Field: i, Lane: NoLane, Offset: off, Size: n})
			})
		case ir.StructType:
			if mode == Write {
				add(Piece{Kind: PieceNested, Field: i, Lane: NoLane, Offset: f.Offset, Size: f.Type.Size})
				continue
			}
			span(f.Offset, f.Type.Size, func(off, n uint32) {
				add(Piece{Kind: PieceNested, Field: i, Lane: NoLane, Offset: off, Size: n})
			})
		}
	}
	return groups
}

// span calls fn once per word touched by bytes [offset, offset+size), with
// the intersection of the range and that word.
func span(offset, size uint32, fn func(off, n uint32)) {
	end := offset + size
	for off := offset; off < end; {
		next := (off/4 + 1) * 4
		if next > end {
			next = end
		}
		fn(off, next-off)
		off = next
	}
}
