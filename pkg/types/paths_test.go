package types

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathsConfigured(t *testing.T) {
	tests := []struct {
		name  string
		paths Paths
		want  bool
	}{
		{"both_set", Paths{ModsPath: "/m", SaveModsPath: "/a"}, true},
		{"mods_missing", Paths{SaveModsPath: "/a"}, false},
		{"active_missing", Paths{ModsPath: "/m"}, false},
		{"empty", Paths{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.paths.Configured())
		})
	}
}

func TestPathsJoin(t *testing.T) {
	p := Paths{ModsPath: "/repo", SaveModsPath: "/active"}
	assert.Equal(t, filepath.Join("/repo", "Mod1"), p.SourcePath("Mod1"))
	assert.Equal(t, filepath.Join("/active", "Mod1"), p.LinkPath("Mod1"))
}

func TestValidModID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"Mod1", true},
		{"My Mod (v2)", true},
		{".hidden", true},
		{"", false},
		{".", false},
		{"..", false},
		{"a/b", false},
		{`a\b`, false},
		{"../escape", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidModID(tt.id))
		})
	}
}
