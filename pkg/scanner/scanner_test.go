// pkg/scanner/scanner_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp directories)
// PURPOSE: Verify metadata extraction from mod folders

package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modlink/pkg/filesystem"
	"github.com/arthur-debert/modlink/pkg/scanner"
	"github.com/arthur-debert/modlink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_EmptyFolder(t *testing.T) {
	repo := testutil.NewModRepo(t)
	folder := repo.AddMod("Mod1")

	record := scanner.New(filesystem.NewOS()).Scan(folder)

	assert.Equal(t, "Mod1", record.ID)
	assert.Equal(t, "Mod1", record.Name)
	assert.Equal(t, "Mod Mod1", record.Description)
	assert.Empty(t, record.ImagePath)
	assert.NotNil(t, record.Keybinds)
	assert.Empty(t, record.Keybinds)
	assert.Equal(t, folder, record.SourcePath)
	assert.False(t, record.IsActive)
}

func TestScan_MissingFolderStillReturnsRecord(t *testing.T) {
	repo := testutil.NewModRepo(t)

	record := scanner.New(filesystem.NewOS()).Scan(filepath.Join(repo.ModsPath, "Gone"))

	assert.Equal(t, "Gone", record.ID)
	assert.Equal(t, "Gone", record.Name)
	assert.Equal(t, "Mod Gone", record.Description)
}

func TestScan_Keybinds(t *testing.T) {
	repo := testutil.NewModRepo(t)
	repo.AddFile("Mod1", "mod.ini", "[Harness]\nkey = VK_F3\n")

	record := scanner.New(filesystem.NewOS()).Scan(filepath.Join(repo.ModsPath, "Mod1"))

	assert.Equal(t, map[string]string{scanner.LabelHarness: "VK_F3"}, record.Keybinds)
	assert.Equal(t, "Mod Mod1 (keys: Harness)", record.Description)
}

func TestScan_KeybindsAcrossFiles(t *testing.T) {
	repo := testutil.NewModRepo(t)
	repo.AddFile("Mod1", "a.ini", `
[KeySwapBottom]
key = VK_F5

[KeyTailToggle]
Key = no_modifiers 7

[Constants]
global $active = 0
`)
	repo.AddFile("Mod1", "b.ini", `
[KeyFaceSwap]
key = 8

[KeyBottomAlt]
key = VK_F6
`)
	// not scanned: wrong extension, nested, hidden
	repo.AddFile("Mod1", "readme.txt", "[Harness]\nkey = X\n")
	repo.AddFile("Mod1", "nested/c.ini", "[Color]\nkey = Y\n")
	repo.AddFile("Mod1", ".hidden.ini", "[Color]\nkey = Z\n")

	record := scanner.New(filesystem.NewOS()).Scan(filepath.Join(repo.ModsPath, "Mod1"))

	assert.Equal(t, map[string]string{
		scanner.LabelBottom: "VK_F6",
		scanner.LabelTail:   "no_modifiers 7",
		scanner.LabelFace:   "8",
	}, record.Keybinds)
	assert.Equal(t, "Mod Mod1 (keys: Bottom, Tail, Face)", record.Description)
}

func TestScan_LoaderSyntaxDoesNotAbortParsing(t *testing.T) {
	repo := testutil.NewModRepo(t)
	repo.AddFile("Mod1", "mod.ini", `
[CommandListForceReload]
if $force_reload == 1
    run = BuiltInCommandListReloadConfig
endif

[KeyColor]
key = VK_F9
`)

	record := scanner.New(filesystem.NewOS()).Scan(filepath.Join(repo.ModsPath, "Mod1"))

	assert.Equal(t, "VK_F9", record.Keybinds[scanner.LabelColor])
}

func TestScan_NameFromComment(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "semicolon_comment",
			files: map[string]string{"mod.ini": "; Shiny Jacket\n[Harness]\nkey = 1\n"},
			want:  "Shiny Jacket",
		},
		{
			name:  "hash_comment",
			files: map[string]string{"mod.ini": "# Neon Hair\n"},
			want:  "Neon Hair",
		},
		{
			name:  "created_note_is_skipped",
			files: map[string]string{"mod.ini": "; Created by someone\n; CREATED again\n; Real Name\n"},
			want:  "Real Name",
		},
		{
			name:  "short_comment_is_skipped",
			files: map[string]string{"mod.ini": ";\n; ab\n; Long Enough\n"},
			want:  "Long Enough",
		},
		{
			name:  "comment_after_ten_lines_is_ignored",
			files: map[string]string{"mod.ini": "\n\n\n\n\n\n\n\n\n\n; Too Late\n"},
			want:  "Mod1",
		},
		{
			name: "first_file_in_enumeration_order_wins",
			files: map[string]string{
				"b.ini": "; From B\n",
				"a.ini": "; From A\n",
			},
			want: "From A",
		},
		{
			name: "later_file_used_when_earlier_has_no_name",
			files: map[string]string{
				"a.ini": "[Section]\nkey = 1\n",
				"b.ini": "; From B\n",
			},
			want: "From B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewModRepo(t)
			for file, content := range tt.files {
				repo.AddFile("Mod1", file, content)
			}

			record := scanner.New(filesystem.NewOS()).Scan(filepath.Join(repo.ModsPath, "Mod1"))
			assert.Equal(t, tt.want, record.Name)
		})
	}
}

func TestScan_ImagePriority(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"preview_png_first", []string{"icon.png", "front.png", "Preview.png"}, "Preview.png"},
		{"front_png_before_preview_jpg", []string{"front.png", "Preview.jpg"}, "front.png"},
		{"jpg_before_thumbnail", []string{"thumbnail.png", "front.jpg"}, "front.jpg"},
		{"icon_last", []string{"icon.png"}, "icon.png"},
		{"unlisted_name_ignored", []string{"cover.png"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewModRepo(t)
			folder := repo.AddMod("Mod1")
			for _, f := range tt.files {
				repo.AddFile("Mod1", f, "img")
			}

			record := scanner.New(filesystem.NewOS()).Scan(folder)

			if tt.want == "" {
				assert.Empty(t, record.ImagePath)
				return
			}
			assert.Equal(t, filepath.Join(folder, tt.want), record.ImagePath)
			assert.True(t, filepath.IsAbs(record.ImagePath))
		})
	}
}

func TestScan_ImageDirectoryIsNotAnImage(t *testing.T) {
	repo := testutil.NewModRepo(t)
	folder := repo.AddMod("Mod1")
	require.NoError(t, os.MkdirAll(filepath.Join(folder, "Preview.png"), 0755))
	repo.AddFile("Mod1", "icon.png", "img")

	record := scanner.New(filesystem.NewOS()).Scan(folder)

	assert.Equal(t, filepath.Join(folder, "icon.png"), record.ImagePath)
}

func TestScan_UnreadableIniIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	repo := testutil.NewModRepo(t)
	bad := repo.AddFile("Mod1", "a.ini", "; Hidden Name\n[Harness]\nkey = 1\n")
	repo.AddFile("Mod1", "b.ini", "[Face]\nkey = 2\n")
	require.NoError(t, os.Chmod(bad, 0000))
	t.Cleanup(func() { _ = os.Chmod(bad, 0644) })

	record := scanner.New(filesystem.NewOS()).Scan(filepath.Join(repo.ModsPath, "Mod1"))

	assert.Equal(t, "Mod1", record.Name)
	assert.Equal(t, map[string]string{scanner.LabelFace: "2"}, record.Keybinds)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		section string
		want  string
	}{
		{"Harness", scanner.LabelHarness},
		{"KeySwapHARNESS", scanner.LabelHarness},
		{"KeyBottom", scanner.LabelBottom},
		{"TailLength", scanner.LabelTail},
		{"FaceMask", scanner.LabelFace},
		{"ColorCycle", scanner.LabelColor},
		{"HarnessColor", scanner.LabelHarness},
		{"KeyGlasses", "KeyGlasses"},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			assert.Equal(t, tt.want, scanner.Classify(tt.section))
		})
	}
}

func TestExtractKeybinds_IgnoresDefaultSection(t *testing.T) {
	binds, err := scanner.ExtractKeybinds([]byte("key = top\n[Face]\nkey = F\n"))
	require.NoError(t, err)
	require.Len(t, binds, 1)
	assert.Equal(t, scanner.Keybind{Label: scanner.LabelFace, Section: "Face", Key: "F"}, binds[0])
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Mod X", scanner.Describe("X", nil))
	assert.Equal(t, "Mod X (keys: Face, Tail)", scanner.Describe("X", []string{"Face", "Tail"}))
}
