// pkg/ui/ui_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (in-memory buffers)
// PURPOSE: Verify renderer selection and the output of each format

package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/arthur-debert/modlink/pkg/config"
	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/types"
	"github.com/arthur-debert/modlink/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleMods() []types.ModRecord {
	return []types.ModRecord{
		{ID: "Alpha", Name: "Alpha Mod", Keybinds: map[string]string{"Toggle": "VK_F1"}, IsActive: true},
		{ID: "Beta", Name: "Beta", Keybinds: map[string]string{}},
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name    string
		format  ui.Format
		wantErr bool
	}{
		{"terminal", ui.FormatTerminal, false},
		{"text", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"yaml", ui.FormatYAML, false},
		{"auto_with_buffer", ui.FormatAuto, false},
		{"invalid", ui.Format(999), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ui.NewRenderer(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}
}

func TestAutoWithBufferIsPlain(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatAuto, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(sampleMods()))
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.False(t, ui.IsStyled(ui.FormatAuto, &buf))
}

func TestTextRenderer_Mods(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(sampleMods()))
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Alpha Mod")
	assert.Contains(t, out, "Beta")
	assert.Contains(t, out, "2 mod(s), 1 active")
}

func TestTextRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatText, &buf)

	require.NoError(t, r.RenderResult([]types.ModRecord{}))
	require.NoError(t, r.RenderResult([]string{}))

	assert.Equal(t, "No mods found\nNo active mods\n", buf.String())
}

func TestTextRenderer_ActiveIDs(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatText, &buf)

	require.NoError(t, r.RenderResult([]string{"Alpha", "Beta"}))
	assert.Equal(t, "Alpha\nBeta\n", buf.String())
}

func TestTextRenderer_Activation(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatText, &buf)

	result := types.ActivationResult{
		OK:      true,
		Status:  types.StatusPartial,
		Message: "Activated 1 of 3 mods. Failed: Zed, Gamma",
		Failed: []types.ModFailure{
			{ID: "Zed", Reason: "source not found"},
			{ID: "Gamma", Reason: "source is not a folder"},
		},
	}
	require.NoError(t, r.RenderResult(result))

	assert.Equal(t,
		"Activated 1 of 3 mods. Failed: Zed, Gamma\n"+
			"  - Gamma: source is not a folder\n"+
			"  - Zed: source not found\n",
		buf.String())
}

func TestTextRenderer_Stats(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		var buf bytes.Buffer
		r, _ := ui.NewRenderer(ui.FormatText, &buf)
		require.NoError(t, r.RenderResult(types.ModStats{
			Name: "Alpha", Exists: true, SizeFormatted: "1.5 KB", FilesCount: 3, IsActive: true, Path: "/mods/Alpha",
		}))
		out := buf.String()
		assert.Contains(t, out, "Status: active")
		assert.Contains(t, out, "Size:   1.5 KB")
		assert.Contains(t, out, "Files:  3")
	})

	t.Run("missing", func(t *testing.T) {
		var buf bytes.Buffer
		r, _ := ui.NewRenderer(ui.FormatText, &buf)
		require.NoError(t, r.RenderResult(types.ModStats{Name: "Ghost", SizeFormatted: "0 B"}))
		assert.Equal(t, "Mod 'Ghost' not found\n", buf.String())
	})
}

func TestTextRenderer_Config(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatText, &buf)

	cfg := config.Defaults()
	cfg.ModsPath = "/games/mods"
	cfg.Reload.TriggerTTL = 10 * time.Second
	require.NoError(t, r.RenderResult(cfg))

	out := buf.String()
	assert.Contains(t, out, "/games/mods")
	assert.Contains(t, out, "(not set)")
	assert.Contains(t, out, "10s")
}

func TestTextRenderer_Error(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatText, &buf)

	require.NoError(t, r.RenderError(errors.New(errors.ErrModNotFound, "mod 'x' not found")))
	require.NoError(t, r.RenderError(assert.AnError))

	assert.Equal(t,
		"Error: mod 'x' not found (MOD_NOT_FOUND)\nError: "+assert.AnError.Error()+"\n",
		buf.String())
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatJSON, &buf)

	require.NoError(t, r.RenderResult(sampleMods()))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Alpha", decoded[0]["id"])
	assert.Equal(t, true, decoded[0]["is_active"])

	buf.Reset()
	require.NoError(t, r.RenderError(errors.New(errors.ErrEmptySelection, "no mods selected")))
	var errObj map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &errObj))
	assert.Equal(t, false, errObj["success"])
	assert.Equal(t, "EMPTY_SELECTION", errObj["code"])
	assert.Equal(t, "no mods selected", errObj["error"])
}

func TestYAMLRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatYAML, &buf)

	require.NoError(t, r.RenderResult(types.Succeeded("Mod 'Alpha' activated", "Alpha")))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, []interface{}{"Alpha"}, decoded["activated"])

	buf.Reset()
	require.NoError(t, r.RenderMessage("done"))
	assert.Equal(t, "message: done\n", buf.String())
}

func TestIsMachine(t *testing.T) {
	assert.True(t, ui.IsMachine(ui.FormatJSON))
	assert.True(t, ui.IsMachine(ui.FormatYAML))
	assert.False(t, ui.IsMachine(ui.FormatText))
	assert.False(t, ui.IsStyled(ui.FormatText, &bytes.Buffer{}))
	assert.True(t, ui.IsStyled(ui.FormatTerminal, &bytes.Buffer{}))
}
