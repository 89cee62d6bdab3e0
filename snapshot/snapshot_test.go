// Package snapshot_test provides golden file tests for accessor generation.
//
// Each YAML layout description in testdata/in/ is generated for every
// target language and compared against the stored output in
// testdata/golden/{glsl,hlsl,wgsl}/.
//
// Usage:
//
//	go test ./snapshot/...                    # compare against golden files
//	UPDATE_GOLDEN=1 go test ./snapshot/...    # regenerate golden files
package snapshot_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/gpulayout"
	"github.com/gogpu/gpulayout/ir"
	"github.com/gogpu/gpulayout/schema"
)

// layoutFile is an input description loaded from disk.
type layoutFile struct {
	name   string // base name without extension
	source []byte
}

// TestSnapshots loads every description, generates each language with
// default options and compares the result with its golden file.
func TestSnapshots(t *testing.T) {
	layouts := loadInputs(t, "testdata/in")
	if len(layouts) == 0 {
		t.Fatal("no layout descriptions found in testdata/in/")
	}

	for i := range layouts {
		layout := &layouts[i]
		t.Run(layout.name, func(t *testing.T) {
			module := load(t, layout)
			for _, lang := range gpulayout.Languages {
				t.Run(lang.String(), func(t *testing.T) {
					code, _, err := gpulayout.Generate(module, lang, gpulayout.DefaultOptions())
					if err != nil {
						t.Fatalf("generate %s: %v", lang, err)
					}
					path := filepath.Join("testdata", "golden", lang.String(), layout.name+lang.Extension())
					compareGolden(t, path, code)
				})
			}
		})
	}
}

// TestSnapshotsDeterministic checks that repeated generation is stable.
func TestSnapshotsDeterministic(t *testing.T) {
	for _, layout := range loadInputs(t, "testdata/in") {
		module := load(t, &layout)
		for _, lang := range gpulayout.Languages {
			first, _, err := gpulayout.Generate(module, lang, gpulayout.DefaultOptions())
			if err != nil {
				t.Fatalf("%s/%s: %v", layout.name, lang, err)
			}
			second, _, _ := gpulayout.Generate(module, lang, gpulayout.DefaultOptions())
			if first != second {
				t.Errorf("%s/%s: output changed between runs", layout.name, lang)
			}
		}
	}
}

// loadInputs reads all .yaml files from dir.
func loadInputs(t *testing.T, dir string) []layoutFile {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read input directory %q: %v", dir, err)
	}

	var layouts []layoutFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(dir, entry.Name()))
		if readErr != nil {
			t.Fatalf("read description %q: %v", entry.Name(), readErr)
		}
		layouts = append(layouts, layoutFile{
			name:   strings.TrimSuffix(entry.Name(), ".yaml"),
			source: data,
		})
	}
	return layouts
}

func load(t *testing.T, layout *layoutFile) *ir.Module {
	t.Helper()
	module, err := schema.Load(layout.source)
	if err != nil {
		var se *schema.SourceError
		if errors.As(err, &se) {
			t.Fatalf("load %s:\n%s", layout.name, se.FormatWithContext())
		}
		t.Fatalf("load %s: %v", layout.name, err)
	}
	return module
}

// compareGolden compares actual with the golden file at path, or rewrites
// the file when UPDATE_GOLDEN is set.
func compareGolden(t *testing.T, path, actual string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil { //nolint:gosec // G306: golden files are not secret
			t.Fatalf("write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("golden file missing: %s\nRun with UPDATE_GOLDEN=1 to create.\n\nActual output:\n%s", path, actual)
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	// Git may convert \n to \r\n on Windows checkout.
	want := strings.ReplaceAll(string(expected), "\r\n", "\n")
	got := strings.ReplaceAll(actual, "\r\n", "\n")
	if diff := cmp.Diff(strings.Split(want, "\n"), strings.Split(got, "\n")); diff != "" {
		t.Errorf("output differs from golden %s (-want +got):\n%s", path, diff)
	}
}
