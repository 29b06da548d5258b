// Package markdown renders mod README files for the terminal with glamour.
package markdown

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer converts markdown to terminal output
type Renderer struct {
	// Style is a glamour style name ("dark", "light", "notty", "auto") or a
	// path to a custom style
	Style string
	// Width wraps output at this many columns; 0 keeps glamour's default
	Width int
}

// NewRenderer creates a renderer with terminal background detection
func NewRenderer() *Renderer {
	return &Renderer{Style: "auto"}
}

// NewPlainRenderer creates a renderer that emits no escape sequences
func NewPlainRenderer() *Renderer {
	return &Renderer{Style: "notty"}
}

// Render converts content to terminal output. Files that are not markdown,
// and any content glamour cannot handle, are returned unchanged.
func (r *Renderer) Render(content, filename string) string {
	if !IsMarkdown(filename) {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// IsMarkdown reports whether filename has a markdown extension
func IsMarkdown(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
