package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	appDirName     = "modlink"
	configFileName = "config.toml"

	envPrefix     = "MODLINK_"
	envConfigPath = "MODLINK_CONFIG"
)

// envKeys maps MODLINK_* suffixes to config keys. A fixed table keeps
// underscores inside key names such as mods_path.
var envKeys = map[string]string{
	"MODS_PATH":          "mods_path",
	"SAVE_MODS_PATH":     "save_mods_path",
	"FIRST_RUN":          "first_run",
	"RELOAD_ENABLED":     "reload.enabled",
	"RELOAD_TRIGGER_TTL": "reload.trigger_ttl",
	"SERVER_LISTEN":      "server.listen",
}

// envKey returns the config key for an environment variable name, or "" to
// ignore it
func envKey(name string) string {
	if !strings.HasPrefix(name, envPrefix) {
		return ""
	}
	return envKeys[strings.TrimPrefix(name, envPrefix)]
}

// DefaultPath returns $MODLINK_CONFIG, or config.toml under the XDG config
// home
func DefaultPath(getenv func(string) string) string {
	if p := getenv(envConfigPath); p != "" {
		return p
	}
	if home := getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appDirName, configFileName)
	}
	return filepath.Join(xdg.ConfigHome, appDirName, configFileName)
}

// fileState reports what happened when the user file layer was loaded
type fileState int

const (
	fileLoaded fileState = iota
	fileMissing
	fileCorrupt
)

// loadBase loads the defaults and the user file into a fresh koanf instance
func (s *Store) loadBase() (*koanf.Koanf, fileState, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fileMissing, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.logger.Info().Str("path", s.path).Msg("Config file not found, using defaults")
			return k, fileMissing, nil
		}
		return nil, fileMissing, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", s.path)
	}

	// Load into a scratch instance so a broken file leaves the defaults intact
	user := koanf.New(".")
	if err := user.Load(&rawBytesProvider{bytes: data}, toml.Parser()); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Config file is invalid, using defaults")
		return k, fileCorrupt, nil
	}
	if err := k.Merge(user); err != nil {
		return nil, fileCorrupt, errors.Wrap(err, errors.ErrConfigLoad, "failed to merge config file")
	}

	s.logger.Debug().Str("path", s.path).Msg("Loaded config file")
	return k, fileLoaded, nil
}

// loadEnv applies the .env file and then the process environment
func (s *Store) loadEnv(k *koanf.Koanf) error {
	if s.envFile != "" {
		values, err := godotenv.Read(s.envFile)
		switch {
		case err == nil:
			mapped := map[string]interface{}{}
			for name, value := range values {
				if key := envKey(name); key != "" {
					mapped[key] = value
				}
			}
			if err := k.Load(confmap.Provider(mapped, "."), nil); err != nil {
				return errors.Wrapf(err, errors.ErrConfigLoad, "failed to apply %s", s.envFile)
			}
			s.logger.Debug().Str("path", s.envFile).Int("keys", len(mapped)).Msg("Applied env file")
		case stderrors.Is(err, fs.ErrNotExist):
		default:
			s.logger.Warn().Err(err).Str("path", s.envFile).Msg("Cannot read env file, ignoring it")
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}
	if cfg.Reload.TriggerTTL < 0 {
		return nil, errors.Newf(errors.ErrConfigLoad, "reload.trigger_ttl must not be negative, got %s", cfg.Reload.TriggerTTL)
	}
	return &cfg, nil
}

// Defaults returns the embedded default configuration
func Defaults() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return cfg
}
