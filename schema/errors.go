package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Position is a 1-based line and column in a description file.
// The zero Position means the location is unknown.
type Position struct {
	Line   int
	Column int
}

// SourceError represents an error with source location information.
type SourceError struct {
	Message string
	Pos     Position
	Source  string // Original description text (for context display)

	// Cause is the underlying error, for example ir.ValidationErrors.
	Cause error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Pos.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// FormatWithContext returns the error message with source context.
// Shows the problematic line with a caret pointing to the error location.
func (e *SourceError) FormatWithContext() string {
	if e.Source == "" || e.Pos.Line == 0 {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	lineNum := e.Pos.Line
	if lineNum < 1 || lineNum > len(lines) {
		return e.Error()
	}

	line := lines[lineNum-1]
	col := max(e.Pos.Column, 1)
	col = min(col, len(line)+1)

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", lineNum, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	return sb.String()
}

func errorf(pos Position, format string, args ...any) *SourceError {
	return &SourceError{Message: fmt.Sprintf(format, args...), Pos: pos}
}

// yamlLine matches the line numbers yaml.v3 embeds in its messages.
var yamlLine = regexp.MustCompile(`line (\d+): `)

// fromYAML converts a yaml.v3 syntax or type error into a SourceError.
// yaml.v3 reports lines only, so the column is left at 1.
func fromYAML(err error) *SourceError {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	msg = strings.TrimPrefix(msg, "unmarshal errors:\n")
	msg = strings.TrimSpace(msg)

	se := &SourceError{Message: msg, Cause: err}
	if m := yamlLine.FindStringSubmatchIndex(msg); m != nil {
		line, _ := strconv.Atoi(msg[m[2]:m[3]])
		se.Pos = Position{Line: line, Column: 1}
		se.Message = strings.TrimSpace(msg[:m[0]] + msg[m[1]:])
	}
	return se
}
