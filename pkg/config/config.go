// Package config loads brkgraph settings from a TOML file.
//
// The file is optional. Every setting has a default, and command-line flags
// override file values. A complete file looks like this:
//
//	[analysis]
//	workers = 4
//	skip_cyclic = true
//
//	[output]
//	legacy_density_key = false
//	indent = "  "
//
//	[cache]
//	backend = "file"         # "file", "redis" or "none"
//	dir = "/var/cache/brkgraph"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[compare]
//	max_nodes = 32
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/brkgraph/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Output   Output   `toml:"output"`
	Cache    Cache    `toml:"cache"`
	Compare  Compare  `toml:"compare"`
	Server   Server   `toml:"server"`
}

// Analysis controls the per-graph pipeline and batch concurrency.
type Analysis struct {
	// Workers is the number of graphs analysed concurrently in a batch.
	Workers int `toml:"workers"`

	// SkipCyclic stops the metric passes on graphs with a directed cycle.
	SkipCyclic bool `toml:"skip_cyclic"`
}

// Output controls serialization.
type Output struct {
	LegacyDensityKey bool   `toml:"legacy_density_key"`
	Indent           string `toml:"indent"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Compare bounds the exact edit-distance search.
type Compare struct {
	// MaxNodes refuses larger graphs. 0 disables the budget.
	MaxNodes int `toml:"max_nodes"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("90m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Analysis: Analysis{Workers: 2, SkipCyclic: true},
		Output:   Output{Indent: "  "},
		Cache:    Cache{Backend: BackendFile, RedisAddr: "localhost:6379", TTL: Duration{7 * 24 * time.Hour}},
		Compare:  Compare{MaxNodes: 32},
		Server:   Server{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/brkgraph/config.toml, falling back
// to the platform's user config directory.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		var err error
		if base, err = os.UserConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(base, "brkgraph", "config.toml"), nil
}

// Load reads the file at path over the defaults. A missing file at the
// default location is not an error; a missing file named explicitly is.
// An empty path means [DefaultPath].
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Analysis.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "analysis.workers must be at least 1, got %d", c.Analysis.Workers)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of file, redis, none; got %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Compare.MaxNodes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "compare.max_nodes must not be negative")
	}
	return nil
}

// Encode renders c as TOML.
func (c Config) Encode() (string, error) {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}
