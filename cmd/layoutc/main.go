// Command layoutc generates shader accessors from a layout description.
//
// Usage:
//
//	layoutc gen [flags] <input.yaml>
//	layoutc coverage <input.yaml>
//
// Examples:
//
//	layoutc gen scene.yaml                     # GLSL to stdout
//	layoutc gen -t wgsl -o scene.wgsl scene.yaml
//	layoutc gen -o scene.hlsl scene.yaml       # language from the extension
//	layoutc coverage scene.yaml                # show word coverage per type
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gogpu/gpulayout/accessor"
	"github.com/gogpu/gpulayout/schema"
)

const layoutcVersion = "0.1.0-dev"

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "layoutc",
		Short:         "Generate GPU buffer accessors from layout descriptions",
		Version:       layoutcVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			log, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			schema.SetLogger(log)
			accessor.SetLogger(log)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newGenCmd(), newCoverageCmd())
	return root
}

// newLogger logs warnings to stderr, or everything with -v.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// printError writes err to w, with source context for description errors.
func printError(w io.Writer, err error) {
	st := newStyles(w)
	var se *schema.SourceError
	if errors.As(err, &se) && se.Source != "" {
		fmt.Fprint(w, st.err.Render(se.FormatWithContext()))
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, st.err.Render("error: "+err.Error()))
}
