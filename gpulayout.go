// Package gpulayout generates shader accessors for data packed into a
// buffer of 32-bit words.
//
// A layout description lists structs and tagged unions with byte exact
// field offsets. gpulayout emits, for GLSL, HLSL or WGSL, a handle type per
// definition plus functions that decode a definition from the word buffer
// and encode it back:
//   - GLSL: OpenGL / Vulkan compute shaders
//   - HLSL: DirectX shaders
//   - WGSL: WebGPU shaders
//
// The package provides a one-call pipeline from a YAML description to
// source text as well as access to the individual stages.
//
// Example usage:
//
//	source := []byte(`
//	module: memory
//	write: true
//	types:
//	  - struct: Point
//	    fields:
//	      - {name: x, type: f32}
//	      - {name: y, type: f32}
//	`)
//	code, err := gpulayout.Compile(source, gpulayout.GLSL, gpulayout.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For lower-level control, load the module with the schema package (or
// build one with ir.Builder) and call a backend directly:
//
//	module, _ := schema.Load(source)
//	code, info, err := hlsl.Compile(module, hlsl.DefaultOptions())
package gpulayout

import (
	"fmt"
	"strings"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/glsl"
	"github.com/gogpu/gpulayout/hlsl"
	"github.com/gogpu/gpulayout/ir"
	"github.com/gogpu/gpulayout/schema"
	"github.com/gogpu/gpulayout/wgsl"
)

// Language selects the generated shading language.
type Language uint8

const (
	GLSL Language = iota
	HLSL
	WGSL
)

// Languages lists every supported language in a stable order.
var Languages = []Language{GLSL, HLSL, WGSL}

// String returns the lower-case language name.
func (l Language) String() string {
	switch l {
	case GLSL:
		return "glsl"
	case HLSL:
		return "hlsl"
	case WGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("language(%d)", uint8(l))
	}
}

// Extension returns the conventional file extension, including the dot.
func (l Language) Extension() string {
	return "." + l.String()
}

// ParseLanguage is the inverse of Language.String. It ignores case.
func ParseLanguage(s string) (Language, error) {
	for _, l := range Languages {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown language %q (want glsl, hlsl or wgsl)", s)
}

// Options configures generation for any language.
type Options struct {
	// BufferName overrides the buffer name taken from the module.
	BufferName string

	// Header is the comment written at the top of the output.
	Header string

	// MaskUnsigned masks u8 and u16 values before packing them.
	MaskUnsigned bool

	// SkipUnsupported turns unsupported union payloads into comments.
	SkipUnsupported bool

	// Binding, when set, also declares the buffer.
	Binding *accessor.Binding
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Header: accessor.DefaultHeader,
	}
}

// Compile loads a YAML layout description and generates accessors for it.
//
// The pipeline is:
//  1. Load and lay out the description (schema.Load)
//  2. Validate the module (done by the builder)
//  3. Generate source text for lang
func Compile(source []byte, lang Language, opts Options) (string, error) {
	module, err := schema.Load(source)
	if err != nil {
		return "", fmt.Errorf("load error: %w", err)
	}
	code, _, err := Generate(module, lang, opts)
	return code, err
}

// Generate emits accessors for an already built module.
func Generate(module *ir.Module, lang Language, opts Options) (string, accessor.TranslationInfo, error) {
	switch lang {
	case GLSL:
		return glsl.Compile(module, glsl.Options{
			BufferName:      opts.BufferName,
			Header:          opts.Header,
			MaskUnsigned:    opts.MaskUnsigned,
			SkipUnsupported: opts.SkipUnsupported,
			Binding:         opts.Binding,
		})
	case HLSL:
		return hlsl.Compile(module, hlsl.Options{
			BufferName:      opts.BufferName,
			Header:          opts.Header,
			MaskUnsigned:    opts.MaskUnsigned,
			SkipUnsupported: opts.SkipUnsupported,
			Binding:         opts.Binding,
		})
	case WGSL:
		return wgsl.Compile(module, wgsl.Options{
			BufferName:      opts.BufferName,
			Header:          opts.Header,
			MaskUnsigned:    opts.MaskUnsigned,
			SkipUnsupported: opts.SkipUnsupported,
			Binding:         opts.Binding,
		})
	default:
		return "", accessor.TranslationInfo{}, fmt.Errorf("unsupported language %s", lang)
	}
}
