package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// table writes aligned columns with a styled header and a separator row.
type table struct {
	w   *tabwriter.Writer
	err error
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{
		w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
	}

	styled := make([]string, len(headers))
	rule := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = headerStyle.Render(h)
		rule[i] = strings.Repeat("─", max(len([]rune(h)), 4))
	}
	t.line(styled)
	t.line(rule)
	return t
}

func (t *table) Row(cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	t.line(parts)
}

func (t *table) line(cells []string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

// Flush writes the table and reports the first write error.
func (t *table) Flush() error {
	if err := t.w.Flush(); err != nil && t.err == nil {
		t.err = err
	}
	if t.err != nil {
		return fmt.Errorf("failed to write table: %w", t.err)
	}
	return nil
}
