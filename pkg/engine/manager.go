package engine

import (
	stderrors "errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/links"
	"github.com/arthur-debert/modlink/pkg/logging"
	"github.com/arthur-debert/modlink/pkg/scanner"
	"github.com/arthur-debert/modlink/pkg/types"
	"github.com/rs/zerolog"
)

// Manager activates and deactivates mods by managing links.
// It is safe for concurrent use; each call works on the paths that were
// current when it started.
type Manager struct {
	fs      types.FS
	scanner *scanner.Scanner
	logger  zerolog.Logger

	mu    sync.RWMutex
	paths types.Paths
}

// New creates a Manager for the given repository and active-links roots.
// Either path may be empty.
func New(fsys types.FS, modsPath, saveModsPath string) *Manager {
	return NewFromConfig(fsys, types.Paths{ModsPath: modsPath, SaveModsPath: saveModsPath})
}

// NewFromConfig creates a Manager from a stored path configuration
func NewFromConfig(fsys types.FS, paths types.Paths) *Manager {
	return &Manager{
		fs:      fsys,
		paths:   paths,
		scanner: scanner.New(fsys),
		logger:  logging.GetLogger("engine"),
	}
}

// SetPaths replaces both roots
func (m *Manager) SetPaths(modsPath, saveModsPath string) {
	m.mu.Lock()
	m.paths = types.Paths{ModsPath: modsPath, SaveModsPath: saveModsPath}
	m.mu.Unlock()

	m.logger.Info().
		Str("mods", modsPath).
		Str("active", saveModsPath).
		Msg("Paths updated")
}

// Paths returns the repository root and the active-links root
func (m *Manager) Paths() (string, string) {
	p := m.snapshot()
	return p.ModsPath, p.SaveModsPath
}

func (m *Manager) snapshot() types.Paths {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths
}

// ValidatePaths checks that both roots are usable. A missing active-links
// root is fine; it is created on first activation.
func (m *Manager) ValidatePaths() error {
	return m.validate(m.snapshot())
}

func (m *Manager) validate(p types.Paths) error {
	if !p.Configured() {
		return errors.New(errors.ErrPathsNotConfigured,
			"paths are not configured, set the mods folder and the active folder first")
	}

	info, err := m.fs.Stat(p.ModsPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Newf(errors.ErrRepositoryNotFound, "mods folder does not exist: %s", p.ModsPath).
				WithDetail("path", p.ModsPath)
		}
		return errors.Wrapf(err, errors.ErrFilesystem, "cannot inspect mods folder %s", p.ModsPath)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrRepositoryNotDirectory, "mods path is not a folder: %s", p.ModsPath).
			WithDetail("path", p.ModsPath)
	}

	info, err = m.fs.Stat(p.SaveModsPath)
	if err == nil && !info.IsDir() {
		return errors.Newf(errors.ErrActiveRootNotDirectory, "active path exists but is not a folder: %s", p.SaveModsPath).
			WithDetail("path", p.SaveModsPath)
	}

	return nil
}

// ScanMods lists the mod ids in the repository root, sorted. Hidden folders
// are skipped. Any failure yields an empty list.
func (m *Manager) ScanMods() []string {
	folders := m.modFolders(m.snapshot())
	sort.Strings(folders)
	m.logger.Info().Int("count", len(folders)).Msg("Scanned mods")
	return folders
}

// ScanModsDetailed scans every mod folder and marks which ones are active.
// Records are ordered by lowercased name, then by id.
func (m *Manager) ScanModsDetailed() []types.ModRecord {
	p := m.snapshot()
	folders := m.modFolders(p)
	records := make([]types.ModRecord, 0, len(folders))
	for _, id := range folders {
		record := m.scanner.Scan(p.SourcePath(id))
		record.IsActive = m.isActive(p, id)
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := strings.ToLower(records[i].Name), strings.ToLower(records[j].Name)
		if a != b {
			return a < b
		}
		return records[i].ID < records[j].ID
	})

	m.logger.Info().Int("count", len(records)).Msg("Scanned mods with details")
	return records
}

// modFolders returns the non-hidden directories in the repository root.
// Entries that are links to directories count as folders.
func (m *Manager) modFolders(p types.Paths) []string {
	if err := m.validate(p); err != nil {
		m.logger.Error().Err(err).Msg("Invalid paths, nothing to scan")
		return []string{}
	}

	entries, err := m.fs.ReadDir(p.ModsPath)
	if err != nil {
		m.logger.Error().Err(err).Str("path", p.ModsPath).Msg("Cannot read mods folder")
		return []string{}
	}

	folders := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		isDir := entry.IsDir()
		if !isDir && entry.Type()&os.ModeSymlink != 0 {
			if info, err := m.fs.Stat(p.SourcePath(name)); err == nil {
				isDir = info.IsDir()
			}
		}
		if !isDir {
			m.logger.Trace().Str("entry", name).Msg("Skipping non-folder entry")
			continue
		}
		folders = append(folders, name)
	}
	return folders
}

// IsModActive reports whether a link named id exists under the active-links
// root. The link target is not checked.
func (m *Manager) IsModActive(id string) bool {
	return m.isActive(m.snapshot(), id)
}

func (m *Manager) isActive(p types.Paths, id string) bool {
	if p.SaveModsPath == "" || !types.ValidModID(id) {
		return false
	}
	return links.IsLink(m.fs, p.LinkPath(id))
}

// GetActiveMods lists every link directly under the active-links root,
// sorted. Real files and folders there are ignored.
func (m *Manager) GetActiveMods() []string {
	p := m.snapshot()
	active := []string{}
	if p.SaveModsPath == "" {
		return active
	}

	entries, err := m.fs.ReadDir(p.SaveModsPath)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			m.logger.Error().Err(err).Str("path", p.SaveModsPath).Msg("Cannot read active folder")
		}
		return active
	}

	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 {
			active = append(active, entry.Name())
		}
	}
	sort.Strings(active)
	m.logger.Debug().Int("count", len(active)).Msg("Listed active mods")
	return active
}

// ActivateSingle links one mod without touching any other active mod.
// Activating a mod that is already linked changes nothing.
func (m *Manager) ActivateSingle(id string) types.ActivationResult {
	return m.activateSingle(m.snapshot(), id)
}

func (m *Manager) activateSingle(p types.Paths, id string) types.ActivationResult {
	done := logging.LogOperationStart(m.logger, "activate")
	defer done()

	if err := m.validate(p); err != nil {
		return types.Failed(err)
	}
	if err := checkID(id); err != nil {
		return types.Failed(err)
	}
	if err := m.requireSource(p, id); err != nil {
		return types.Failed(err)
	}
	if err := m.ensureActiveRoot(p); err != nil {
		return types.Failed(err)
	}

	dest := p.LinkPath(id)
	kind, err := links.Classify(m.fs, dest)
	if err != nil {
		return types.Failed(err)
	}

	switch kind {
	case links.KindSymlink:
		result := types.Succeeded(msgAlreadyActive(id))
		result.IsActive = true
		return result
	case links.KindDir, links.KindFile:
		m.logger.Warn().Str("mod", id).Stringer("kind", kind).Msg("Replacing foreign entry in active folder")
	}

	if err := links.CreateLink(m.fs, p.SourcePath(id), dest); err != nil {
		m.logger.Error().Err(err).Str("mod", id).Msg("Failed to activate mod")
		return types.Failed(err)
	}

	m.logger.Info().Str("mod", id).Msg("Activated mod")
	result := types.Succeeded(msgActivated(id), id)
	result.IsActive = m.isActive(p, id)
	return result
}

// DeactivateSingle removes the link for one mod. A missing link or a missing
// active-links root is not an error. A real file or folder under that name is
// left alone.
func (m *Manager) DeactivateSingle(id string) error {
	return m.deactivateSingle(m.snapshot(), id)
}

func (m *Manager) deactivateSingle(p types.Paths, id string) error {
	done := logging.LogOperationStart(m.logger, "deactivate")
	defer done()

	if p.SaveModsPath == "" {
		return errors.New(errors.ErrPathsNotConfigured, "active folder is not configured")
	}
	if err := checkID(id); err != nil {
		return err
	}
	if _, err := m.fs.Lstat(p.SaveModsPath); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFilesystem, "cannot inspect active folder %s", p.SaveModsPath)
	}

	dest := p.LinkPath(id)
	kind, err := links.Classify(m.fs, dest)
	if err != nil {
		return err
	}

	switch kind {
	case links.KindSymlink:
		if err := links.RemoveLink(m.fs, dest); err != nil {
			m.logger.Error().Err(err).Str("mod", id).Msg("Failed to deactivate mod")
			return err
		}
		m.logger.Info().Str("mod", id).Msg("Deactivated mod")
	case links.KindAbsent:
		m.logger.Debug().Str("mod", id).Msg("Mod is not active")
	default:
		m.logger.Warn().Str("mod", id).Stringer("kind", kind).Msg("Entry in active folder is not a link, leaving it")
	}
	return nil
}

// ActivateSet makes ids the complete set of active mods. Every existing link
// is removed first, then each id is linked on its own so one failure does
// not stop the rest. Duplicate ids are linked once.
func (m *Manager) ActivateSet(ids []string) types.ActivationResult {
	done := logging.LogOperationStart(m.logger, "activate-set")
	defer done()

	p := m.snapshot()
	wanted := dedupe(ids)
	if len(wanted) == 0 {
		return types.Failed(errors.New(errors.ErrEmptySelection, "no mods selected"))
	}
	if err := m.validate(p); err != nil {
		return types.Failed(err)
	}
	if err := m.ensureActiveRoot(p); err != nil {
		return types.Failed(err)
	}

	m.logger.Info().Msg("Removing current links")
	if err := m.deactivateAll(p); err != nil {
		// Leftover links are replaced below when requested again
		m.logger.Warn().Err(err).Msg("Some links could not be removed")
	}

	var activated []string
	var failed []types.ModFailure
	for _, id := range wanted {
		if err := m.linkOne(p, id); err != nil {
			m.logger.Warn().Err(err).Str("mod", id).Msg("Failed to activate mod")
			failed = append(failed, types.ModFailure{
				ID:     id,
				Code:   errors.GetErrorCode(err),
				Reason: errors.Message(err),
			})
			continue
		}
		activated = append(activated, id)
	}

	switch {
	case len(failed) == 0:
		m.logger.Info().Int("count", len(activated)).Msg("Activated mod set")
		return types.Succeeded(msgSetActivated(len(activated)), activated...)
	case len(activated) > 0:
		m.logger.Warn().Int("activated", len(activated)).Int("failed", len(failed)).Msg("Mod set partially activated")
		return types.ActivationResult{
			OK:        true,
			Status:    types.StatusPartial,
			Message:   msgSetPartial(len(activated), len(wanted), failed),
			Activated: activated,
			Failed:    failed,
		}
	default:
		m.logger.Error().Int("failed", len(failed)).Msg("No mod could be activated")
		return types.ActivationResult{
			OK:      false,
			Status:  types.StatusFailure,
			Message: msgSetFailed(failed),
			Failed:  failed,
			Code:    errors.ErrActivationFails,
		}
	}
}

// linkOne links a single id during a bulk activation
func (m *Manager) linkOne(p types.Paths, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := m.requireSource(p, id); err != nil {
		return err
	}
	return links.CreateLink(m.fs, p.SourcePath(id), p.LinkPath(id))
}

// DeactivateAll removes every link directly under the active-links root.
// Real files and folders are never touched. Failed removals are collected
// into one error after every link has been tried.
func (m *Manager) DeactivateAll() error {
	return m.deactivateAll(m.snapshot())
}

func (m *Manager) deactivateAll(p types.Paths) error {
	done := logging.LogOperationStart(m.logger, "deactivate-all")
	defer done()

	if p.SaveModsPath == "" {
		m.logger.Info().Msg("Active folder not configured, nothing to remove")
		return nil
	}

	entries, err := m.fs.ReadDir(p.SaveModsPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			m.logger.Info().Msg("Active folder does not exist, nothing to remove")
			return nil
		}
		return errors.Wrapf(err, errors.ErrFilesystem, "cannot read active folder %s", p.SaveModsPath)
	}

	removed := 0
	var failedNames []string
	var firstErr error
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		if err := links.RemoveLink(m.fs, p.LinkPath(entry.Name())); err != nil {
			m.logger.Error().Err(err).Str("link", entry.Name()).Msg("Failed to remove link")
			failedNames = append(failedNames, entry.Name())
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}

	m.logger.Info().Int("removed", removed).Msg("Removed links")
	if len(failedNames) > 0 {
		return errors.Wrapf(firstErr, errors.ErrFilesystem, "failed to remove %d link(s): %s",
			len(failedNames), strings.Join(failedNames, ", ")).
			WithDetail("entries", failedNames)
	}
	return nil
}

// Toggle deactivates an active mod and activates an inactive one
func (m *Manager) Toggle(id string) types.ActivationResult {
	p := m.snapshot()
	if m.isActive(p, id) {
		if err := m.deactivateSingle(p, id); err != nil {
			result := types.Failed(err)
			result.IsActive = m.isActive(p, id)
			return result
		}
		result := types.Succeeded(msgDeactivated(id))
		result.IsActive = m.isActive(p, id)
		return result
	}

	result := m.activateSingle(p, id)
	result.IsActive = m.isActive(p, id)
	return result
}

func (m *Manager) requireSource(p types.Paths, id string) error {
	source := p.SourcePath(id)
	if _, err := m.fs.Stat(source); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Newf(errors.ErrModNotFound, "mod '%s' not found", id).
				WithDetail("path", source)
		}
		return errors.Wrapf(err, errors.ErrFilesystem, "cannot inspect mod '%s'", id)
	}
	return nil
}

func (m *Manager) ensureActiveRoot(p types.Paths) error {
	if _, err := m.fs.Stat(p.SaveModsPath); err == nil {
		return nil
	}
	if err := m.fs.MkdirAll(p.SaveModsPath, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create active folder %s", p.SaveModsPath)
	}
	m.logger.Info().Str("path", p.SaveModsPath).Msg("Created active folder")
	return nil
}

func checkID(id string) error {
	if !types.ValidModID(id) {
		return errors.Newf(errors.ErrInvalidInput, "invalid mod id %q", id)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
