// pkg/testutil/modrepo.go
// DEPENDENCIES: Real filesystem (temp directories)
// PURPOSE: Build mod repositories and active-links roots for tests

package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ModRepo is a repository root plus an active-links root inside one temp dir
type ModRepo struct {
	Root       string
	ModsPath   string
	ActivePath string

	t *testing.T
}

// NewModRepo creates <tmp>/mods. The active root <tmp>/active is not
// created; call EnsureActive when a test needs it to exist up front.
func NewModRepo(t *testing.T) *ModRepo {
	t.Helper()

	root := t.TempDir()
	repo := &ModRepo{
		Root:       root,
		ModsPath:   filepath.Join(root, "mods"),
		ActivePath: filepath.Join(root, "active"),
		t:          t,
	}
	if err := os.MkdirAll(repo.ModsPath, 0755); err != nil {
		t.Fatalf("failed to create mods dir: %v", err)
	}
	return repo
}

// EnsureActive creates the active-links root
func (r *ModRepo) EnsureActive() *ModRepo {
	r.t.Helper()
	if err := os.MkdirAll(r.ActivePath, 0755); err != nil {
		r.t.Fatalf("failed to create active dir: %v", err)
	}
	return r
}

// AddMod creates a mod folder and returns its path
func (r *ModRepo) AddMod(id string) string {
	r.t.Helper()
	path := filepath.Join(r.ModsPath, id)
	if err := os.MkdirAll(path, 0755); err != nil {
		r.t.Fatalf("failed to create mod %s: %v", id, err)
	}
	return path
}

// AddFile writes a file relative to a mod folder, creating the mod if needed
func (r *ModRepo) AddFile(id, relPath, content string) string {
	r.t.Helper()
	path := filepath.Join(r.AddMod(id), relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// AddForeignFile places a regular file directly under the active root
func (r *ModRepo) AddForeignFile(name, content string) string {
	r.t.Helper()
	r.EnsureActive()
	path := filepath.Join(r.ActivePath, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.t.Fatalf("failed to write foreign file %s: %v", path, err)
	}
	return path
}

// AddForeignDir places a real directory (with one file) under the active root
func (r *ModRepo) AddForeignDir(name string) string {
	r.t.Helper()
	r.EnsureActive()
	path := filepath.Join(r.ActivePath, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		r.t.Fatalf("failed to create foreign dir %s: %v", path, err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep.txt"), []byte("keep"), 0644); err != nil {
		r.t.Fatalf("failed to populate foreign dir %s: %v", path, err)
	}
	return path
}

// LinkMod links a mod into the active root behind the engine's back
func (r *ModRepo) LinkMod(id string) string {
	r.t.Helper()
	r.EnsureActive()
	link := filepath.Join(r.ActivePath, id)
	if err := os.Symlink(filepath.Join(r.ModsPath, id), link); err != nil {
		r.t.Fatalf("failed to link %s: %v", id, err)
	}
	return link
}

// ActiveLinks lists symlink names under the active root, sorted
func (r *ModRepo) ActiveLinks() []string {
	r.t.Helper()
	entries, err := os.ReadDir(r.ActivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}
		}
		r.t.Fatalf("failed to read active dir: %v", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.Type()&os.ModeSymlink != 0 {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// IsLinked reports whether <active>/<id> is a symlink
func (r *ModRepo) IsLinked(id string) bool {
	info, err := os.Lstat(filepath.Join(r.ActivePath, id))
	return err == nil && info.Mode()&os.ModeSymlink != 0
}
