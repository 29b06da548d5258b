package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modlink/pkg/logging"
	"github.com/arthur-debert/modlink/pkg/types"
	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"
)

// ImageCandidates is the preview lookup order; the first existing file wins.
var ImageCandidates = []string{
	"Preview.png",
	"front.png",
	"preview.png",
	"Preview.jpg",
	"front.jpg",
	"preview.jpg",
	"thumbnail.png",
	"icon.png",
}

// nameProbeLines is how many leading lines of a config file may carry the
// display name comment
const nameProbeLines = 10

// keybindField is the section field holding a key identifier
const keybindField = "key"

var iniLoadOptions = ini.LoadOptions{
	InsensitiveKeys:         true,
	SkipUnrecognizableLines: true,
	IgnoreInlineComment:     true,
	AllowBooleanKeys:        true,
}

// Scanner extracts metadata from a single mod folder
type Scanner struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Scanner reading through fs
func New(fs types.FS) *Scanner {
	return &Scanner{
		fs:     fs,
		logger: logging.GetLogger("scanner"),
	}
}

// Scan builds the record for folder. It never fails: problems are logged and
// whatever was gathered so far is returned, with at least ID and Name set.
func (s *Scanner) Scan(folder string) types.ModRecord {
	id := filepath.Base(folder)
	record := types.ModRecord{
		ID:         id,
		Name:       id,
		Keybinds:   map[string]string{},
		SourcePath: folder,
	}

	s.logger.Debug().Str("mod", id).Msg("Scanning mod folder")

	record.ImagePath = s.findImage(folder)

	var labels []string
	for _, file := range s.configFiles(folder) {
		data, err := s.fs.ReadFile(file)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", file).Msg("Cannot read config file, skipping")
			continue
		}

		binds, err := ExtractKeybinds(data)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", file).Msg("Cannot parse config file, skipping keybinds")
		}
		for _, b := range binds {
			if _, seen := record.Keybinds[b.Label]; !seen {
				labels = append(labels, b.Label)
			}
			record.Keybinds[b.Label] = b.Key
		}

		if record.Name == id {
			if name := ExtractName(data); name != "" {
				record.Name = name
			}
		}
	}

	if record.Description == "" {
		record.Description = Describe(record.Name, labels)
	}

	return record
}

// findImage returns the absolute path of the first preview candidate present
func (s *Scanner) findImage(folder string) string {
	for _, candidate := range ImageCandidates {
		path := filepath.Join(folder, candidate)
		info, err := s.fs.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		s.logger.Debug().Str("image", candidate).Msg("Found preview image")
		return path
	}
	return ""
}

// configFiles lists *.ini files directly inside folder in enumeration order
func (s *Scanner) configFiles(folder string) []string {
	entries, err := s.fs.ReadDir(folder)
	if err != nil {
		s.logger.Warn().Err(err).Str("folder", folder).Msg("Cannot list mod folder")
		return nil
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".ini" {
			continue
		}
		files = append(files, filepath.Join(folder, name))
	}
	return files
}

// Keybind is one labelled key found in a config file
type Keybind struct {
	Label   string
	Section string
	Key     string
}

// ExtractKeybinds returns the labelled `key` fields of every section, in
// file order. A file that cannot be parsed yields no keybinds.
func ExtractKeybinds(data []byte) ([]Keybind, error) {
	cfg, err := ini.LoadSources(iniLoadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ini: %w", err)
	}

	var binds []Keybind
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		if !section.HasKey(keybindField) {
			continue
		}
		binds = append(binds, Keybind{
			Label:   Classify(section.Name()),
			Section: section.Name(),
			Key:     section.Key(keybindField).String(),
		})
	}
	return binds, nil
}

// ExtractName returns the first comment among the leading lines that looks
// like a title: longer than two characters and not a "created ..." note.
func ExtractName(data []byte) string {
	lines := bufio.NewScanner(bytes.NewReader(data))
	for i := 0; i < nameProbeLines && lines.Scan(); i++ {
		line := strings.TrimSpace(lines.Text())
		if i == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if !strings.HasPrefix(line, ";") && !strings.HasPrefix(line, "#") {
			continue
		}
		comment := strings.TrimSpace(line[1:])
		if len([]rune(comment)) > 2 && !strings.HasPrefix(strings.ToLower(comment), "created") {
			return comment
		}
	}
	return ""
}

// Describe synthesizes the default description for a mod
func Describe(name string, labels []string) string {
	desc := "Mod " + name
	if len(labels) > 0 {
		desc += " (keys: " + strings.Join(labels, ", ") + ")"
	}
	return desc
}
