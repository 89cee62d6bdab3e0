// Package pack computes how struct fields are packed into 32-bit words.
//
// Resolve groups the pieces of every field by the word they occupy.
// ExtractScalar and InsertScalar describe the shifts and masks that move a
// scalar between its word and its value; the shader backends print these
// plans as expressions, and Buffer evaluates them on the host so that data
// can be prepared for (or read back from) a GPU buffer with the exact same
// layout.
//
// Example:
//
//	m, _ := ir.NewBuilder("memory").
//		Struct("Point", 8, ir.F("x", 0, ir.Scalar(ir.F32)), ir.F("y", 4, ir.Scalar(ir.F32))).
//		Build()
//	buf := pack.NewBuffer(m, make([]uint32, 2))
//	_ = buf.WriteStruct(0, pack.Struct{Def: 0, Fields: []any{float32(1), float32(2)}})
package pack
