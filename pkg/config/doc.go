// Package config stores the modlink path configuration.
//
// Settings are layered with koanf, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/modlink/config.toml or $MODLINK_CONFIG
//  3. MODLINK_* entries of an optional .env file
//  4. MODLINK_* environment variables
//
// Only the user file is ever written. Store.SetPaths and
// Store.CompleteFirstRun rewrite it from the file layer alone, so values that
// came from the environment are not persisted by accident.
package config
