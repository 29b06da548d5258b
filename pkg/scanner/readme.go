package scanner

import (
	"path/filepath"
	"strings"
)

// readmeNames are matched case-insensitively, in this order
var readmeNames = []string{"readme.md", "readme.markdown", "readme.txt", "readme"}

// Readme returns the path and content of the first README found directly
// inside folder. ok is false when there is none or it cannot be read.
func (s *Scanner) Readme(folder string) (path string, content []byte, ok bool) {
	entries, err := s.fs.ReadDir(folder)
	if err != nil {
		return "", nil, false
	}

	found := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lower := strings.ToLower(entry.Name())
		if _, dup := found[lower]; !dup {
			found[lower] = entry.Name()
		}
	}

	for _, candidate := range readmeNames {
		name, exists := found[candidate]
		if !exists {
			continue
		}
		path = filepath.Join(folder, name)
		data, err := s.fs.ReadFile(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", path).Msg("Cannot read readme")
			return "", nil, false
		}
		return path, data, true
	}
	return "", nil, false
}
