// pkg/ui/markdown/markdown_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify README rendering and pass-through of non-markdown files

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMarkdown(t *testing.T) {
	tests := []struct {
		file string
		want bool
	}{
		{"README.md", true},
		{"notes.MARKDOWN", true},
		{"readme.txt", false},
		{"README", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarkdown(tt.file))
		})
	}
}

func TestRender_PassThrough(t *testing.T) {
	content := "# not markdown\nplain text"
	assert.Equal(t, content, NewPlainRenderer().Render(content, "readme.txt"))
}

func TestRender_Markdown(t *testing.T) {
	r := NewPlainRenderer()
	r.Width = 60

	out := r.Render("# Better Water\n\nMakes the water **shinier**.", "README.md")

	assert.Contains(t, out, "Better Water")
	assert.Contains(t, out, "shinier")
}
