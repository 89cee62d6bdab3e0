package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
	muted  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
}

// newStyles returns coloured styles when w is a terminal and plain ones
// otherwise, so redirected output stays free of escape codes.
func newStyles(w io.Writer) styles {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: fd fits in int
		plain := lipgloss.NewStyle()
		return styles{
			title:  plain,
			header: plain.Padding(0, 1),
			cell:   plain.Padding(0, 1),
			border: plain,
			muted:  plain,
			ok:     plain,
			warn:   plain,
			err:    plain,
		}
	}

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB")).
			Padding(0, 1),
		cell: lipgloss.NewStyle().
			Padding(0, 1),
		border: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		ok: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90")),
		warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
	}
}
