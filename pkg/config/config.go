package config

import (
	"time"

	"github.com/arthur-debert/modlink/pkg/types"
)

// Config is the complete modlink configuration
type Config struct {
	types.Paths `koanf:",squash" yaml:",inline"`

	// FirstRun is true until the user has configured paths once
	FirstRun bool `koanf:"first_run" json:"first_run" yaml:"first_run"`

	Reload Reload `koanf:"reload" json:"reload" yaml:"reload"`
	Server Server `koanf:"server" json:"server" yaml:"server"`
}

// Reload controls the loader reload notifier
type Reload struct {
	Enabled    bool          `koanf:"enabled" json:"enabled" yaml:"enabled"`
	TriggerTTL time.Duration `koanf:"trigger_ttl" json:"trigger_ttl" yaml:"trigger_ttl"`
}

// Server holds HTTP API settings
type Server struct {
	Listen string `koanf:"listen" json:"listen" yaml:"listen"`
}

// fileConfig is the on-disk shape of Config. Durations are stored as
// strings such as "10s".
type fileConfig struct {
	ModsPath     string     `toml:"mods_path"`
	SaveModsPath string     `toml:"save_mods_path"`
	FirstRun     bool       `toml:"first_run"`
	Reload       fileReload `toml:"reload"`
	Server       fileServer `toml:"server"`
}

type fileReload struct {
	Enabled    bool   `toml:"enabled"`
	TriggerTTL string `toml:"trigger_ttl"`
}

type fileServer struct {
	Listen string `toml:"listen"`
}

func toFile(cfg *Config) fileConfig {
	return fileConfig{
		ModsPath:     cfg.ModsPath,
		SaveModsPath: cfg.SaveModsPath,
		FirstRun:     cfg.FirstRun,
		Reload: fileReload{
			Enabled:    cfg.Reload.Enabled,
			TriggerTTL: cfg.Reload.TriggerTTL.String(),
		},
		Server: fileServer{Listen: cfg.Server.Listen},
	}
}
