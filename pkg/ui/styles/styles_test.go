// pkg/ui/styles/styles_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify the embedded style sheet loads into the registry

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	expected := []string{
		"Header", "Success", "Error", "Warning", "Muted",
		"ModID", "ModName", "Active", "Inactive", "FilePath", "Key", "Indent",
	}

	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			_, ok := StyleRegistry[name]
			assert.True(t, ok, "style %s should exist", name)
		})
	}
}

func TestLoadStyles(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, LoadStyles(defaultStyles))
	})

	t.Run("custom", func(t *testing.T) {
		data := []byte(`
colors:
  red: {light: "#FF0000", dark: "#FF5555"}
styles:
  Alert:
    bold: true
    foreground: red
`)
		require.NoError(t, LoadStyles(data))
		style := GetStyle("Alert")
		assert.True(t, style.GetBold())
		assert.Equal(t, lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF5555"}, style.GetForeground())
		_, ok := StyleRegistry["Header"]
		assert.False(t, ok, "registry is replaced")
	})

	t.Run("unknown_color", func(t *testing.T) {
		err := LoadStyles([]byte("styles:\n  Bad:\n    foreground: nope\n"))
		assert.Error(t, err)
	})

	t.Run("invalid_yaml", func(t *testing.T) {
		err := LoadStyles([]byte("styles: [unclosed"))
		assert.Error(t, err)
	})
}

func TestGetStyle_Missing(t *testing.T) {
	assert.Equal(t, "plain", GetStyle("DoesNotExist").Render("plain"))
}
