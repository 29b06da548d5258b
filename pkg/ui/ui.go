// Package ui renders command results in terminal, text, JSON and YAML form.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/modlink/pkg/ui/json"
	"github.com/arthur-debert/modlink/pkg/ui/terminal"
	"github.com/arthur-debert/modlink/pkg/ui/text"
	"github.com/arthur-debert/modlink/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers.
//
// RenderResult understands []types.ModRecord, []string mod ids,
// types.ModStats, types.ActivationResult and *config.Config. Anything else
// is printed with fmt by the human renderers and encoded as is by the
// machine ones.
type Renderer interface {
	RenderResult(result interface{}) error
	RenderError(err error) error
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format writing to output.
// FormatAuto inspects output when it is a file and falls back to plain text
// otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	case FormatYAML:
		return yaml.New(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}

// IsStyled reports whether format produces styled human output
func IsStyled(format Format, output io.Writer) bool {
	switch format {
	case FormatTerminal:
		return true
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return DetectFormat(file) == FormatTerminal
		}
	}
	return false
}

// IsMachine reports whether format is meant for other programs
func IsMachine(format Format) bool {
	return format == FormatJSON || format == FormatYAML
}
