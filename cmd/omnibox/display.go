package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bebanjo/omnibox"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	matchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	destinationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func stdinPiped() bool {
	return !isTerminal(os.Stdin)
}

// renderDescription turns suggestion markup into text for a terminal, or into
// plain text when styled is false.
func renderDescription(s string, styled bool) string {
	if !styled {
		return omnibox.StripMarkup(s)
	}
	return omnibox.RenderMarkup(s, func(t string) string { return matchStyle.Render(t) })
}

func printInference(w io.Writer, inf omnibox.Inference, styled bool) {
	fmt.Fprintln(w, renderDescription(inf.Default, styled))
	for _, s := range inf.Suggestions {
		dest := s.Destination
		if styled {
			dest = destinationStyle.Render(dest)
		}
		fmt.Fprintf(w, "  %-30s  %s\n", renderDescription(s.Description, styled), dest)
	}
}
