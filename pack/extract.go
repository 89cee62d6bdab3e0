package pack

import "github.com/gogpu/gpulayout/ir"

// ExtractOp is the shape of the expression that decodes a scalar from its
// raw word.
type ExtractOp uint8

const (
	ExtractWord      ExtractOp = iota // raw
	ExtractMask                       // raw & mask
	ExtractShift                      // raw >> shift
	ExtractShiftMask                  // (raw >> shift) & mask
	ExtractFloat                      // float bitcast of raw
	ExtractInt                        // int(raw)
	ExtractIntShift                   // int(raw) >> shift
	ExtractIntPair                    // int(raw << up) >> shift
)

// Extract decodes one scalar stored in word Word of a struct.
type Extract struct {
	Word  uint32
	Kind  ir.ScalarKind
	Op    ExtractOp
	Shift uint32 // right shift, arithmetic for signed kinds
	Up    uint32 // left shift of ExtractIntPair
	Mask  uint32
}

// ExtractScalar plans the decoding of a scalar at a struct-relative byte
// offset. The scalar must not cross a word boundary.
func ExtractScalar(offset uint32, kind ir.ScalarKind) Extract {
	e := Extract{Word: offset / 4, Kind: kind}
	nbytes := kind.Size()
	pos := offset % 4

	switch {
	case kind.IsFloat():
		e.Op = ExtractFloat
	case kind.IsSigned():
		switch {
		case nbytes == 4:
			e.Op = ExtractInt
		case pos+nbytes == 4:
			e.Op = ExtractIntShift
			e.Shift = pos * 8
		default:
			e.Op = ExtractIntPair
			e.Up = (4 - nbytes - pos) * 8
			e.Shift = (4 - nbytes) * 8
		}
	default:
		mask := uint32(1)<<(nbytes*8) - 1
		switch {
		case nbytes == 4:
			e.Op = ExtractWord
		case pos == 0:
			e.Op = ExtractMask
			e.Mask = mask
		case pos+nbytes == 4:
			e.Op = ExtractShift
			e.Shift = pos * 8
		default:
			e.Op = ExtractShiftMask
			e.Shift = pos * 8
			e.Mask = mask
		}
	}
	return e
}

// Bits evaluates the extraction on a raw word. Signed results are returned
// as the two's complement bits of an int32, floats as their IEEE bits.
func (e Extract) Bits(raw uint32) uint32 {
	switch e.Op {
	case ExtractMask:
		return raw & e.Mask
	case ExtractShift:
		return raw >> e.Shift
	case ExtractShiftMask:
		return (raw >> e.Shift) & e.Mask
	case ExtractInt:
		return raw
	case ExtractIntShift, ExtractIntPair:
		width := e.Kind.Size() * 8
		return uint32(SignExtend(raw, uint(32-width-e.Up), uint(width)))
	default:
		return raw
	}
}

// SignExtend returns the signed value of the bitWidth-wide field that
// starts bitOffset bits into raw.
//
// A field that ends at bit 31 needs a single arithmetic shift; any other
// field is shifted up until its top bit is bit 31 and then shifted back
// down arithmetically.
func SignExtend(raw uint32, bitOffset, bitWidth uint) int32 {
	if bitOffset+bitWidth >= 32 {
		return int32(raw) >> bitOffset
	}
	up := 32 - bitOffset - bitWidth
	return int32(raw<<up) >> (32 - bitWidth)
}

// Insert encodes one scalar into its share of word Word.
type Insert struct {
	Word  uint32
	Kind  ir.ScalarKind
	Shift uint32 // left shift to the scalar's bit offset
	Mask  uint32 // applied before shifting; zero means no mask
}

// InsertScalar plans the encoding of a scalar at a struct-relative byte
// offset. Signed values narrower than a word are masked to their width
// unless they end at the top of the word. Unsigned values are stored as
// given unless maskUnsigned is set.
func InsertScalar(offset uint32, kind ir.ScalarKind, maskUnsigned bool) Insert {
	in := Insert{Word: offset / 4, Kind: kind, Shift: (offset % 4) * 8}
	nbytes := kind.Size()
	if nbytes == 4 || kind.IsFloat() {
		return in
	}
	topAligned := in.Shift+nbytes*8 == 32
	if (kind.IsSigned() && !topAligned) || (!kind.IsSigned() && maskUnsigned) {
		in.Mask = uint32(1)<<(nbytes*8) - 1
	}
	return in
}

// Bits returns the contribution of value to the word. Value holds the
// scalar as uint32 bits: IEEE bits for floats, two's complement for
// signed kinds.
func (in Insert) Bits(value uint32) uint32 {
	if in.Mask != 0 {
		value &= in.Mask
	}
	return value << in.Shift
}
