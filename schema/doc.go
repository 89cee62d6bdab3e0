// Package schema loads layout modules from YAML description files.
//
// A description names the module (and so the shared word buffer), enables
// or disables encode functions, and lists struct and union definitions in
// dependency order:
//
//	module: memory
//	write: true
//	types:
//	  - struct: Point
//	    fields:
//	      - {name: x, type: f32}
//	      - {name: y, type: f32}
//	  - struct: Node
//	    fields:
//	      - {name: next, type: ref<Node>}
//	      - {name: pos, type: Point}
//	      - {name: color, type: vec4<u8>}
//	  - union: Shape
//	    variants:
//	      - name: Empty
//	      - name: Filled
//	        payload: [Point]
//
// Field offsets, payload offsets and definition sizes may be given
// explicitly. When omitted they follow a tight layout: scalars and vector
// lanes are aligned to their scalar width, references and inline structs to
// 4 bytes, and sizes are rounded up to whole words. Union payloads start
// after the tag word.
//
// Every error returned by Load is a *SourceError carrying the line and
// column of the offending declaration.
package schema
