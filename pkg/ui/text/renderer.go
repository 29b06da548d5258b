// Package text renders command results as plain, human readable text.
//
// The layout is shared with the terminal renderer, which supplies a styler
// and table styles through NewWithStyle.
package text

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/modlink/pkg/config"
	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/types"
	"github.com/pterm/pterm"
)

// Styler decorates text with a named style
type Styler func(name, text string) string

// Renderer writes plain text output
type Renderer struct {
	output io.Writer
	style  Styler
	table  pterm.TablePrinter
}

// New creates a renderer without any styling
func New(w io.Writer) *Renderer {
	plain := pterm.NewStyle()
	table := *pterm.DefaultTable.
		WithHasHeader().
		WithStyle(plain).
		WithHeaderStyle(plain).
		WithSeparatorStyle(plain).
		WithHeaderRowSeparatorStyle(plain)
	return NewWithStyle(w, func(_, s string) string { return s }, table)
}

// NewWithStyle creates a renderer that decorates its output with style and
// draws tables with table
func NewWithStyle(w io.Writer, style Styler, table pterm.TablePrinter) *Renderer {
	return &Renderer{output: w, style: style, table: table}
}

// RenderResult renders a known result type
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case []types.ModRecord:
		return r.renderMods(v)
	case []string:
		return r.renderIDs(v)
	case types.ModStats:
		return r.renderStats(v)
	case *types.ModStats:
		return r.renderStats(*v)
	case types.ActivationResult:
		return r.renderActivation(v)
	case *types.ActivationResult:
		return r.renderActivation(*v)
	case *config.Config:
		return r.renderConfig(v)
	default:
		_, err := fmt.Fprintf(r.output, "%v\n", v)
		return err
	}
}

// RenderError renders an error with its code when it carries one
func (r *Renderer) RenderError(err error) error {
	msg := errors.Message(err)
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		msg = fmt.Sprintf("%s (%s)", msg, code)
	}
	_, werr := fmt.Fprintln(r.output, r.style("Error", "Error:")+" "+msg)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) renderMods(mods []types.ModRecord) error {
	if len(mods) == 0 {
		return r.RenderMessage(r.style("Muted", "No mods found"))
	}

	data := pterm.TableData{{"ID", "NAME", "STATUS", "KEYBINDS"}}
	active := 0
	for _, mod := range mods {
		status := r.style("Inactive", "off")
		if mod.IsActive {
			status = r.style("Active", "on")
			active++
		}
		data = append(data, []string{
			r.style("ModID", mod.ID),
			r.style("ModName", mod.Name),
			status,
			fmt.Sprintf("%d", len(mod.Keybinds)),
		})
	}

	out, err := r.table.WithData(data).Srender()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.output, out); err != nil {
		return err
	}
	return r.RenderMessage(r.style("Muted", fmt.Sprintf("%d mod(s), %d active", len(mods), active)))
}

func (r *Renderer) renderIDs(ids []string) error {
	if len(ids) == 0 {
		return r.RenderMessage(r.style("Muted", "No active mods"))
	}
	for _, id := range ids {
		if err := r.RenderMessage(r.style("ModID", id)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderStats(stats types.ModStats) error {
	if stats.Error != "" {
		return r.RenderError(errors.New(errors.ErrInternal, stats.Error))
	}
	if !stats.Exists {
		return r.RenderMessage(r.style("Warning", fmt.Sprintf("Mod '%s' not found", stats.Name)))
	}

	status := r.style("Inactive", "inactive")
	if stats.IsActive {
		status = r.style("Active", "active")
	}
	return r.renderFields([][2]string{
		{"Mod", r.style("ModID", stats.Name)},
		{"Status", status},
		{"Size", stats.SizeFormatted},
		{"Files", fmt.Sprintf("%d", stats.FilesCount)},
		{"Path", r.style("FilePath", stats.Path)},
	})
}

func (r *Renderer) renderActivation(result types.ActivationResult) error {
	name := "Success"
	switch {
	case !result.OK:
		name = "Error"
	case result.Status == types.StatusPartial:
		name = "Warning"
	}
	if err := r.RenderMessage(r.style(name, result.Message)); err != nil {
		return err
	}

	failed := append([]types.ModFailure(nil), result.Failed...)
	sort.Slice(failed, func(i, j int) bool { return failed[i].ID < failed[j].ID })
	for _, f := range failed {
		line := fmt.Sprintf("  - %s: %s", r.style("ModID", f.ID), f.Reason)
		if err := r.RenderMessage(line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderConfig(cfg *config.Config) error {
	return r.renderFields([][2]string{
		{"mods_path", orUnset(cfg.ModsPath)},
		{"save_mods_path", orUnset(cfg.SaveModsPath)},
		{"first_run", fmt.Sprintf("%t", cfg.FirstRun)},
		{"reload.enabled", fmt.Sprintf("%t", cfg.Reload.Enabled)},
		{"reload.trigger_ttl", cfg.Reload.TriggerTTL.String()},
		{"server.listen", cfg.Server.Listen},
	})
}

func (r *Renderer) renderFields(fields [][2]string) error {
	width := 0
	for _, f := range fields {
		if len(f[0]) > width {
			width = len(f[0])
		}
	}
	var b strings.Builder
	for _, f := range fields {
		key := fmt.Sprintf("%-*s", width+1, f[0]+":")
		b.WriteString(r.style("Key", key) + " " + f[1] + "\n")
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
