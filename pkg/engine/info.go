package engine

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/modlink/pkg/types"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with one decimal using 1024 steps,
// e.g. "512.0 B", "1.5 KB". Sizes past TB are shown in PB.
func FormatSize(size int64) string {
	value := float64(size)
	for _, unit := range sizeUnits {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f PB", value)
}

// GetModInfo reports size and file count for a mod folder. Failures are
// reported in the Error field rather than returned. An entry that is a plain
// file exists but has no size or files of its own.
func (m *Manager) GetModInfo(id string) types.ModStats {
	p := m.snapshot()
	stats := types.ModStats{Name: id, SizeFormatted: "0 B"}

	if p.ModsPath == "" {
		stats.Error = "mods folder is not configured"
		return stats
	}
	if !types.ValidModID(id) {
		stats.Error = fmt.Sprintf("invalid mod id %q", id)
		return stats
	}

	path := p.SourcePath(id)
	info, err := m.fs.Stat(path)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			stats.Error = err.Error()
		}
		return stats
	}

	var size int64
	var count int
	if info.IsDir() {
		size, count, err = m.dirStats(path)
		if err != nil {
			m.logger.Error().Err(err).Str("mod", id).Msg("Cannot measure mod folder")
			return types.ModStats{Name: id, Exists: false, SizeFormatted: "0 B", Error: err.Error()}
		}
	}

	stats.Exists = true
	stats.Size = size
	stats.SizeFormatted = FormatSize(size)
	stats.FilesCount = count
	stats.IsActive = m.isActive(p, id)
	stats.Path = path
	return stats
}

// dirStats sums the size of every regular file below dir. Linked
// directories are not descended into; linked files count with their
// target's size.
func (m *Manager) dirStats(dir string) (int64, int, error) {
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		return 0, 0, err
	}

	var size int64
	count := 0
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subSize, subCount, err := m.dirStats(path)
			if err != nil {
				return 0, 0, err
			}
			size += subSize
			count += subCount
			continue
		}

		info, err := m.fs.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		size += info.Size()
		count++
	}
	return size, count, nil
}
