package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gogpu/gpulayout/ir"
	"github.com/gogpu/gpulayout/pack"
	"github.com/gogpu/gpulayout/schema"
)

func newCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage <input.yaml>",
		Short: "Show how each definition maps onto buffer words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			module, err := schema.Load(source)
			if err != nil {
				return err
			}
			writeCoverage(cmd.OutOrStdout(), module)
			return nil
		},
	}
}

// writeCoverage prints one table per definition: word groups for structs,
// tags and payload placement for unions.
func writeCoverage(w io.Writer, m *ir.Module) {
	st := newStyles(w)
	for i := range m.Defs {
		def := &m.Defs[i]
		switch d := def.Def.(type) {
		case ir.StructDef:
			fmt.Fprintln(w, st.title.Render(fmt.Sprintf("struct %s (%d bytes)", def.Name, def.Size)))
			fmt.Fprintln(w, structTable(st, d, def.Size).Render())
		case ir.UnionDef:
			fmt.Fprintln(w, st.title.Render(fmt.Sprintf("union %s (%d bytes)", def.Name, def.Size)))
			fmt.Fprintln(w, unionTable(st, m, d).Render())
		}
		fmt.Fprintln(w)
	}
}

func newTable(st styles, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			return st.cell
		})
}

func structTable(st styles, d ir.StructDef, size uint32) *table.Table {
	t := newTable(st, "word", "read", "write")
	reads := pack.Resolve(d.Fields, size, pack.Read)
	writes := pack.Resolve(d.Fields, size, pack.Write)
	for i, g := range reads {
		var w pack.Group
		if i < len(writes) {
			w = writes[i]
		}
		t.Row(fmt.Sprint(g.Word), describeGroup(st, d, g), describeGroup(st, d, w))
	}
	return t
}

func describeGroup(st styles, d ir.StructDef, g pack.Group) string {
	if g.Empty() {
		return st.muted.Render("-")
	}
	return strings.Join(lo.Map(g.Pieces, func(p pack.Piece, _ int) string {
		return describePiece(d, p)
	}), ", ")
}

// describePiece prints a piece as name[from:to] with bit positions inside
// its word.
func describePiece(d ir.StructDef, p pack.Piece) string {
	name := d.Fields[p.Field].Name
	if p.Lane != pack.NoLane {
		name += "." + "xyzw"[p.Lane:p.Lane+1]
	}
	from, to := p.Shift(), p.Shift()+p.Size*8
	switch p.Kind {
	case pack.PieceRef:
		return fmt.Sprintf("%s[%d:%d] ref", name, from, to)
	case pack.PieceNested:
		return fmt.Sprintf("%s nested", name)
	default:
		return fmt.Sprintf("%s[%d:%d]", name, from, to)
	}
}

func unionTable(st styles, m *ir.Module, d ir.UnionDef) *table.Table {
	t := newTable(st, "tag", "variant", "payload")
	for tag, v := range d.Variants {
		var payload string
		switch p := v.Payload.(type) {
		case ir.NoPayload:
			payload = st.muted.Render("-")
		case ir.StructPayload:
			payload = fmt.Sprintf("%s @ %d", m.Defs[p.Def].Name, p.Offset)
		case ir.UnsupportedPayload:
			payload = st.warn.Render("unsupported: " + p.Reason)
		}
		t.Row(fmt.Sprint(tag), v.Name, payload)
	}
	return t
}
