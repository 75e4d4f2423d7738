// Package config loads lazor settings from a TOML file.
//
// The file lives at ~/.config/lazor/config.toml (XDG_CONFIG_HOME is
// honored). Every field has a working default, so a missing file is not an
// error; command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lazorkit/lazor/pkg/errors"
)

// appName is the directory name used under the config and cache homes.
const appName = "lazor"

// Config is the full settings file.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// SolverConfig controls search defaults.
type SolverConfig struct {
	// TimeLimitSeconds is the wall-clock budget per board.
	TimeLimitSeconds int `toml:"time_limit_seconds"`

	// Convention selects the collision detection rule ("wall" or "center").
	Convention string `toml:"convention"`

	// Parallel enables the multi-seed explorer.
	Parallel bool `toml:"parallel"`

	// Seeds overrides the explorer's seed list when non-empty.
	Seeds []int64 `toml:"seeds"`
}

// TimeLimit converts the configured budget to a duration.
func (s SolverConfig) TimeLimit() time.Duration {
	return time.Duration(s.TimeLimitSeconds) * time.Second
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	// Backend is "file", "redis" or "none".
	Backend string `toml:"backend"`

	// RedisAddr is the Redis address for the redis backend.
	RedisAddr string `toml:"redis_addr"`

	// RedisDB is the Redis database number.
	RedisDB int `toml:"redis_db"`
}

// ServerConfig controls serve mode.
type ServerConfig struct {
	// Addr is the HTTP listen address.
	Addr string `toml:"addr"`

	// MongoURI enables the run archive when set.
	MongoURI string `toml:"mongo_uri"`

	// MongoDatabase is the archive database name.
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			TimeLimitSeconds: 180,
			Convention:       "wall",
			Parallel:         true,
		},
		Cache: CacheConfig{
			Backend:   "file",
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MongoDatabase: "lazor",
		},
	}
}

// Load reads the configuration file at path, layering it over the defaults.
// An empty path resolves to the standard location; a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return cfg, nil
}

// Path returns the standard config file location
// (~/.config/lazor/config.toml, honoring XDG_CONFIG_HOME).
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the cache directory (~/.cache/lazor/, honoring
// XDG_CACHE_HOME).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
