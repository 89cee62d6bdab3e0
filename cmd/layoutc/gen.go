package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/gpulayout"
	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/schema"
)

type genFlags struct {
	target          string
	output          string
	buffer          string
	header          string
	maskUnsigned    bool
	skipUnsupported bool
	group           uint32
	binding         uint32
}

func newGenCmd() *cobra.Command {
	var f genFlags

	cmd := &cobra.Command{
		Use:   "gen [flags] <input.yaml>",
		Short: "Generate accessors for a layout description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, args[0], &f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.target, "target", "t", "", "output language: glsl, hlsl or wgsl (default: from -o extension, else glsl)")
	flags.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	flags.StringVar(&f.buffer, "buffer", "", "buffer name (default: module name)")
	flags.StringVar(&f.header, "header", accessor.DefaultHeader, "comment written at the top of the output")
	flags.BoolVar(&f.maskUnsigned, "mask-unsigned", false, "mask u8 and u16 values before packing")
	flags.BoolVar(&f.skipUnsupported, "skip-unsupported", false, "comment out variants with unsupported payloads instead of failing")
	flags.Uint32Var(&f.group, "group", 0, "bind group or register space of the buffer declaration")
	flags.Uint32Var(&f.binding, "binding", 0, "binding slot; setting it also emits the buffer declaration")
	return cmd
}

func runGen(cmd *cobra.Command, input string, f *genFlags) error {
	lang, err := resolveLanguage(f.target, f.output)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	module, err := schema.Load(source)
	if err != nil {
		return err
	}

	opts := gpulayout.Options{
		BufferName:      f.buffer,
		Header:          f.header,
		MaskUnsigned:    f.maskUnsigned,
		SkipUnsupported: f.skipUnsupported,
	}
	if cmd.Flags().Changed("binding") || cmd.Flags().Changed("group") {
		opts.Binding = &accessor.Binding{Group: f.group, Binding: f.binding}
	}

	code, info, err := gpulayout.Generate(module, lang, opts)
	if err != nil {
		return err
	}

	st := newStyles(cmd.ErrOrStderr())
	for _, s := range info.Skipped {
		fmt.Fprintln(cmd.ErrOrStderr(), st.warn.Render(fmt.Sprintf("skipped %s.%s: %s", s.Type, s.Variant, s.Reason)))
	}

	if f.output == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), code)
		return err
	}
	if err := os.WriteFile(f.output, []byte(code), 0o644); err != nil { //nolint:gosec // G306: generated source is not secret
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), st.ok.Render(fmt.Sprintf("wrote %d %s functions to %s", len(info.Functions), lang, f.output)))
	return nil
}

// resolveLanguage honours -t, then the output extension, then GLSL.
func resolveLanguage(target, output string) (gpulayout.Language, error) {
	if target != "" {
		return gpulayout.ParseLanguage(target)
	}
	if ext := filepath.Ext(output); ext != "" {
		for _, l := range gpulayout.Languages {
			if ext == l.Extension() {
				return l, nil
			}
		}
	}
	return gpulayout.GLSL, nil
}
