package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/jbi-runtime/symbol"
)

var (
	classStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// listSymbols writes the natives grouped by class. Styles apply only when
// w is a terminal.
func listSymbols(w io.Writer, t *symbol.Table) error {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	class := ""
	for _, n := range t.Entries() {
		if n.Class != class {
			if class != "" {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			class = n.Class
			if _, err := fmt.Fprintln(w, render(classStyle, class)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %s  %s\n",
			render(funcStyle, n.Method+n.Descriptor.String()),
			render(symbolStyle, n.Symbol)); err != nil {
			return err
		}
	}
	return nil
}
