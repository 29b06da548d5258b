package links

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/logging"
	"github.com/arthur-debert/modlink/pkg/types"
)

// EntryKind is what occupies a path, as seen by Lstat.
type EntryKind int

const (
	KindAbsent EntryKind = iota
	KindSymlink
	KindDir
	KindFile
)

func (k EntryKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindSymlink:
		return "symlink"
	case KindDir:
		return "directory"
	case KindFile:
		return "file"
	}
	return "unknown"
}

// Classify reports what kind of entry sits at path without following links.
func Classify(fsys types.FS, path string) (EntryKind, error) {
	info, err := fsys.Lstat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return KindAbsent, nil
		}
		return KindAbsent, wrapOSError(err, errors.ErrFilesystem, "cannot inspect path", path)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return KindSymlink, nil
	case info.IsDir():
		return KindDir, nil
	default:
		return KindFile, nil
	}
}

// IsLink reports whether path is a symbolic link. Errors read as false.
func IsLink(fsys types.FS, path string) bool {
	kind, err := Classify(fsys, path)
	return err == nil && kind == KindSymlink
}

// ReadLinkTarget returns the absolute target of the link at path.
// Relative targets are resolved against the link's directory.
func ReadLinkTarget(fsys types.FS, path string) (string, bool) {
	if !IsLink(fsys, path) {
		return "", false
	}
	target, err := fsys.Readlink(path)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), true
}

// CreateLink points a directory symlink at destination to source.
// The destination itself is never resolved, so an existing link there is
// replaced rather than followed.
func CreateLink(fsys types.FS, source, destination string) error {
	logger := logging.GetLogger("links")

	resolved, err := resolveSource(fsys, source)
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("Cannot link source")
		return err
	}

	if err := DeleteEntry(fsys, destination); err != nil {
		logger.Error().Err(err).Str("destination", destination).Msg("Cannot clear link destination")
		return err
	}

	if err := fsys.Symlink(resolved, destination); err != nil {
		if stderrors.Is(err, fs.ErrPermission) {
			return wrapOSError(err, errors.ErrPermissionDenied, "no permission to create symlink", destination)
		}
		return wrapOSError(err, errors.ErrLinkCreate, "failed to create symlink", destination).
			WithDetail("source", resolved)
	}

	logger.Info().Str("link", destination).Str("target", resolved).Msg("Created symlink")
	return nil
}

// resolveSource makes source absolute and checks it is an existing directory.
func resolveSource(fsys types.FS, source string) (string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", wrapOSError(err, errors.ErrSourceNotFound, "cannot resolve source", source)
	}

	info, err := fsys.Stat(abs)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.New(errors.ErrSourceNotFound, "source does not exist").
				WithDetail("path", abs)
		}
		return "", wrapOSError(err, errors.ErrFilesystem, "cannot inspect source", abs)
	}
	if !info.IsDir() {
		return "", errors.New(errors.ErrSourceNotDirectory, "source is not a directory").
			WithDetail("path", abs)
	}

	// Link to the real folder, not to another link
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return abs, nil
}

// RemoveLink unlinks path. It refuses to remove anything that is not a
// symbolic link, and never touches the link target.
func RemoveLink(fsys types.FS, path string) error {
	kind, err := Classify(fsys, path)
	if err != nil {
		return err
	}

	switch kind {
	case KindAbsent:
		return errors.New(errors.ErrNotFound, "nothing to unlink").WithDetail("path", path)
	case KindSymlink:
		if err := fsys.Remove(path); err != nil {
			if stderrors.Is(err, fs.ErrPermission) {
				return wrapOSError(err, errors.ErrPermissionDenied, "no permission to remove symlink", path)
			}
			return wrapOSError(err, errors.ErrFilesystem, "failed to remove symlink", path)
		}
		logger := logging.GetLogger("links")
		logger.Info().Str("link", path).Msg("Removed symlink")
		return nil
	default:
		return errors.Newf(errors.ErrNotASymlink, "refusing to remove %s, it is not a symlink", kind).
			WithDetail("path", path)
	}
}

// DeleteEntry removes whatever is at path: links are unlinked, directories
// removed recursively, files removed. A missing path is a no-op.
func DeleteEntry(fsys types.FS, path string) error {
	logger := logging.GetLogger("links")

	kind, err := Classify(fsys, path)
	if err != nil {
		return err
	}

	var removeErr error
	switch kind {
	case KindAbsent:
		return nil
	case KindSymlink:
		removeErr = fsys.Remove(path)
	case KindDir:
		removeErr = fsys.RemoveAll(path)
	case KindFile:
		removeErr = fsys.Remove(path)
	}

	if removeErr != nil {
		if stderrors.Is(removeErr, fs.ErrPermission) {
			return wrapOSError(removeErr, errors.ErrPermissionDenied, "no permission to remove", path)
		}
		return wrapOSError(removeErr, errors.ErrFilesystem, "failed to remove", path).
			WithDetail("kind", kind.String())
	}

	logger.Info().Str("path", path).Stringer("kind", kind).Msg("Removed entry")
	return nil
}

func wrapOSError(err error, code errors.ErrorCode, message, path string) *errors.Error {
	if stderrors.Is(err, fs.ErrPermission) && code != errors.ErrPermissionDenied {
		code = errors.ErrPermissionDenied
	}
	return errors.Wrap(err, code, message).WithDetail("path", path)
}
