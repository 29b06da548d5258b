// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"io"

	"github.com/arthur-debert/modlink/pkg/ui/styles"
	"github.com/arthur-debert/modlink/pkg/ui/text"
	"github.com/pterm/pterm"
)

// New creates a renderer that styles the text layout with the registry in
// pkg/ui/styles and draws tables with pterm's default colors
func New(w io.Writer) *text.Renderer {
	table := *pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.Bold, pterm.FgLightBlue)).
		WithSeparator(" │ ").
		WithSeparatorStyle(pterm.NewStyle(pterm.FgGray))
	return text.NewWithStyle(w, styles.Render, table)
}
