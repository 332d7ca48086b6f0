// Package config provides configuration loading for hindsight-cc.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gcswan/hindsight-cc/internal/logging"
	"github.com/gcswan/hindsight-cc/pkg/git"
)

// MaxGitTimeout bounds the per-call git timeout.
const MaxGitTimeout = 30 * time.Second

// Config holds hindsight-cc configuration.
type Config struct {
	// Debug enables progress output on stderr.
	Debug   Switch        `koanf:"debug" json:"debug"`
	Git     GitConfig     `koanf:"git" json:"git"`
	Logging LoggingConfig `koanf:"logging" json:"logging"`
}

// GitConfig controls how the version-control tool is queried.
type GitConfig struct {
	// Backend is one of git.Backends().
	Backend string `koanf:"backend" json:"backend"`
	// Binary is the git executable used by the cli backend.
	Binary string `koanf:"binary" json:"binary"`
	// Timeout bounds each git query.
	Timeout Duration `koanf:"timeout" json:"timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// GitOptions converts the git section into backend options.
func (c *Config) GitOptions() git.Options {
	return git.Options{
		Backend: c.Git.Backend,
		Binary:  c.Git.Binary,
		Timeout: c.Git.Timeout.Duration(),
	}
}

// Validate validates the configuration.
//
// Returns an error if:
//   - the git backend is unknown
//   - the git timeout is not in (0, MaxGitTimeout]
//   - the logging format is not console or json
//   - the logging level is not a known level name (see logging.LevelFromString)
func (c *Config) Validate() error {
	if !slices.Contains(git.Backends(), c.Git.Backend) {
		return fmt.Errorf("invalid git backend: %q (must be one of %s)",
			c.Git.Backend, strings.Join(git.Backends(), ", "))
	}

	if c.Git.Binary == "" {
		return errors.New("git binary must not be empty")
	}

	if t := c.Git.Timeout.Duration(); t <= 0 || t > MaxGitTimeout {
		return fmt.Errorf("invalid git timeout: %s (must be positive and at most %s)", t, MaxGitTimeout)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format: %q (must be console or json)", c.Logging.Format)
	}

	if _, err := logging.LevelFromString(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}

	return nil
}
