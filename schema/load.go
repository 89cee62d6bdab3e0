package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gpulayout/ir"
)

// document is the top level of a description file.
type document struct {
	Module string     `yaml:"module"`
	Write  bool       `yaml:"write"`
	Types  []typeDecl `yaml:"types"`

	pos Position
}

type typeDecl struct {
	Struct   string        `yaml:"struct"`
	Union    string        `yaml:"union"`
	Size     *uint32       `yaml:"size"`
	Fields   []fieldDecl   `yaml:"fields"`
	Variants []variantDecl `yaml:"variants"`

	pos Position
}

type fieldDecl struct {
	Name   string  `yaml:"name"`
	Type   string  `yaml:"type"`
	Offset *uint32 `yaml:"offset"`

	pos Position
}

type variantDecl struct {
	Name    string        `yaml:"name"`
	Payload []payloadDecl `yaml:"payload"`

	pos Position
}

// payloadDecl is either a bare type string or a {type, offset} mapping.
type payloadDecl struct {
	Type   string  `yaml:"type"`
	Offset *uint32 `yaml:"offset"`

	pos Position
}

func (d *document) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "module", "write", "types"); err != nil {
		return err
	}
	type plain document
	d.pos = positionOf(node)
	return node.Decode((*plain)(d))
}

func (d *typeDecl) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "struct", "union", "size", "fields", "variants"); err != nil {
		return err
	}
	type plain typeDecl
	d.pos = positionOf(node)
	return node.Decode((*plain)(d))
}

func (d *fieldDecl) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "name", "type", "offset"); err != nil {
		return err
	}
	type plain fieldDecl
	d.pos = positionOf(node)
	return node.Decode((*plain)(d))
}

func (d *variantDecl) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "name", "payload"); err != nil {
		return err
	}
	type plain variantDecl
	d.pos = positionOf(node)
	return node.Decode((*plain)(d))
}

func (d *payloadDecl) UnmarshalYAML(node *yaml.Node) error {
	d.pos = positionOf(node)
	if node.Kind == yaml.ScalarNode {
		d.Type = node.Value
		return nil
	}
	if err := checkKeys(node, "type", "offset"); err != nil {
		return err
	}
	type plain payloadDecl
	return node.Decode((*plain)(d))
}

func positionOf(node *yaml.Node) Position {
	return Position{Line: node.Line, Column: node.Column}
}

// checkKeys rejects mapping keys outside allowed.
func checkKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return errorf(positionOf(node), "expected a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		known := false
		for _, a := range allowed {
			if key.Value == a {
				known = true
				break
			}
		}
		if !known {
			return errorf(positionOf(key), "unknown key %q", key.Value)
		}
	}
	return nil
}

// Load parses a YAML layout description and builds a validated module.
// Offsets and sizes that the description omits are computed with a tight
// layout. All errors are *SourceError values; validation failures keep the
// ir.ValidationErrors as their cause.
func Load(source []byte) (*ir.Module, error) {
	text := string(source)
	m, err := load(source)
	if err != nil {
		var se *SourceError
		if !errors.As(err, &se) {
			se = &SourceError{Message: err.Error(), Cause: err}
		}
		se.Source = text
		return nil, se
	}
	return m, nil
}

func load(source []byte) (*ir.Module, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(source))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errorf(Position{}, "empty description")
		}
		var se *SourceError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, fromYAML(err)
	}

	if doc.Module == "" {
		return nil, errorf(doc.pos, "missing module name")
	}
	if len(doc.Types) == 0 {
		return nil, errorf(doc.pos, "module %s declares no types", doc.Module)
	}

	l := newLayouter(doc.Types)
	b := ir.NewBuilder(doc.Module).SetWriteEnabled(doc.Write)
	for i := range doc.Types {
		if err := l.add(b, &doc.Types[i]); err != nil {
			return nil, err
		}
	}

	m, err := b.Build()
	if err != nil {
		return nil, l.locate(err)
	}

	Logger().Debug("loaded layout description",
		zap.String("module", m.Name),
		zap.Bool("write", m.WriteEnabled),
		zap.Int("definitions", len(m.Defs)),
		zap.Int("auto_offsets", l.auto),
	)
	return m, nil
}

// locate attaches the position of the offending declaration to a build
// error.
func (l *layouter) locate(err error) error {
	var verrs ir.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &SourceError{Message: err.Error(), Cause: err}
	}
	first := verrs[0]
	pos := l.types[first.Type]
	if p, ok := l.members[memberKey(first.Type, first.Member)]; ok {
		pos = p
	}
	msg := first.Error()
	if len(verrs) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(verrs)-1)
	}
	return &SourceError{Message: msg, Pos: pos, Cause: verrs}
}

func memberKey(typ, member string) string {
	return typ + "." + member
}
