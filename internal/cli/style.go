package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	styleLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
)

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, styleHeader.Render(title))
}

func printField(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %v\n", styleLabel.Render(fmt.Sprintf("%-18s", label+":")), value)
}
