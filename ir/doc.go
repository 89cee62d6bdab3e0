// Package ir defines the layout IR consumed by the accessor generator.
//
// The IR describes GPU data types whose byte offsets and sizes are already
// resolved by a front-end:
//   - Scalars: f32, u8, u16, u32, i8, i16, i32
//   - Vectors: 1 to 4 lanes of one scalar kind
//   - Inline structs: another struct definition embedded at an offset
//   - References: a 4-byte offset into the shared buffer
//
// Definitions are structs or tagged unions. A Module lists them in
// dependency order and names the shared buffer of 32-bit words that
// generated accessors read and write.
//
// # Construction
//
// Modules are normally created with a Builder. The builder interns every
// definition name into a DefHandle, resolves by-name type specs into
// handles, and runs Validate, which rejects forward references, inline
// cycles, overlapping or misaligned fields and size mismatches:
//
//	b := ir.NewBuilder("memory")
//	b.Struct("Point", 8,
//		ir.F("x", 0, ir.Scalar(ir.F32)),
//		ir.F("y", 4, ir.Scalar(ir.F32)),
//	)
//	module, err := b.Build()
//
// Validation errors carry an ErrorKind that can be matched with errors.Is.
package ir
