package types

import (
	"path/filepath"
	"strings"
)

// Paths is the pair of roots the engine works between. Either may be empty;
// that is a valid state reported by validation, not a construction error.
type Paths struct {
	// ModsPath is the repository root holding one folder per mod
	ModsPath string `json:"mods_path" yaml:"mods_path" toml:"mods_path" koanf:"mods_path"`
	// SaveModsPath is the active-links root watched by the mod loader
	SaveModsPath string `json:"save_mods_path" yaml:"save_mods_path" toml:"save_mods_path" koanf:"save_mods_path"`
}

// Configured reports whether both roots are set
func (p Paths) Configured() bool {
	return p.ModsPath != "" && p.SaveModsPath != ""
}

// SourcePath returns the repository folder for a mod id
func (p Paths) SourcePath(id string) string {
	return filepath.Join(p.ModsPath, id)
}

// LinkPath returns where the activation link for a mod id lives
func (p Paths) LinkPath(id string) string {
	return filepath.Join(p.SaveModsPath, id)
}

// ValidModID reports whether id names a single entry directly under a root.
// Separators, "." and ".." would escape the roots and are rejected.
func ValidModID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
