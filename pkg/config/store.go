package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/filesystem"
	"github.com/arthur-debert/modlink/pkg/logging"
	"github.com/arthur-debert/modlink/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

const fileHeader = "# modlink configuration. Written by modlink; comments are not preserved.\n\n"

// Store reads and writes the configuration file
type Store struct {
	path    string
	envFile string
	fs      types.FS
	logger  zerolog.Logger

	// mu serializes writers; the temp file name is shared
	mu sync.Mutex
}

// Option customizes a Store
type Option func(*Store)

// WithEnvFile sets the .env file consulted on Load. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(s *Store) { s.envFile = path }
}

// WithFS replaces the filesystem used for the config file
func WithFS(fsys types.FS) Option {
	return func(s *Store) { s.fs = fsys }
}

// NewStore creates a Store for the file at path. An empty path selects
// DefaultPath. By default ".env" in the working directory is consulted.
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath(os.Getenv)
	}
	s := &Store{
		path:    path,
		envFile: ".env",
		fs:      filesystem.NewOS(),
		logger:  logging.GetLogger("config"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the config file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the effective configuration. A missing file is created with
// the defaults; an unreadable one is ignored with a warning.
func (s *Store) Load() (*Config, error) {
	k, state, err := s.loadBase()
	if err != nil {
		return nil, err
	}

	if state == fileMissing {
		defaults, err := unmarshal(k)
		if err != nil {
			return nil, err
		}
		if err := s.saveIfMissing(defaults); err != nil {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Could not write default config file")
		}
	}

	if err := s.loadEnv(k); err != nil {
		return nil, err
	}
	return unmarshal(k)
}

// Save writes cfg to the config file, replacing it atomically
func (s *Store) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cfg)
}

// saveIfMissing writes cfg unless another writer created the file first
func (s *Store) saveIfMissing(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.fs.Stat(s.path); err == nil {
		return nil
	}
	return s.save(cfg)
}

func (s *Store) save(cfg *Config) error {
	data, err := toml.Marshal(toFile(cfg))
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "failed to encode configuration")
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "cannot create config directory for %s", s.path)
	}

	tmp := s.path + ".tmp"
	if err := s.fs.WriteFile(tmp, append([]byte(fileHeader), data...), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "cannot write %s", tmp)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrConfigSave, "cannot replace %s", s.path)
	}

	s.logger.Info().Str("path", s.path).Msg("Saved configuration")
	return nil
}

// SetPaths stores both roots and clears the first-run flag. It returns the
// effective configuration after the change.
func (s *Store) SetPaths(modsPath, saveModsPath string) (*Config, error) {
	return s.update(func(cfg *Config) {
		cfg.ModsPath = modsPath
		cfg.SaveModsPath = saveModsPath
		cfg.FirstRun = false
	})
}

// CompleteFirstRun clears the first-run flag
func (s *Store) CompleteFirstRun() (*Config, error) {
	return s.update(func(cfg *Config) {
		cfg.FirstRun = false
	})
}

// update applies change to the persisted configuration. A config file that
// exists but cannot be parsed is left alone and reported as CONFIG_LOAD.
func (s *Store) update(change func(*Config)) (*Config, error) {
	s.mu.Lock()
	k, state, err := s.loadBase()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if state == fileCorrupt {
		s.mu.Unlock()
		return nil, errors.Newf(errors.ErrConfigLoad,
			"config file %s is invalid; fix or remove it before changing settings", s.path).
			WithDetail("path", s.path)
	}

	persisted, err := unmarshal(k)
	if err == nil {
		change(persisted)
		err = s.save(persisted)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.Load()
}
