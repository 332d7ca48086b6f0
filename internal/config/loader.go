package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/gcswan/hindsight-cc/pkg/git"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "HINDSIGHT_"

	appDir    = "hindsight-cc"
	systemDir = "/etc/hindsight-cc"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// defaultNames are tried in order when no config path is given.
var defaultNames = []string{"config.yaml", "config.yml", "config.toml"}

// Load loads configuration from a YAML or TOML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (HINDSIGHT_GIT_TIMEOUT, HINDSIGHT_DEBUG, etc.)
//  2. Config file (~/.config/hindsight-cc/config.yaml)
//  3. Hardcoded defaults
//
// Command-line flags sit above all of these and are applied by the caller.
//
// If configPath is empty the first existing file among config.yaml,
// config.yml and config.toml in ~/.config/hindsight-cc/ is used. A missing
// file is not an error.
//
// # Security Considerations
//
// Only files under ~/.config/hindsight-cc/ or /etc/hindsight-cc/ can be
// loaded, symlinks are resolved before the check, and the file must be
// 0600 or 0400 and at most 1MB.
//
// # Environment Variable Mapping
//
// The HINDSIGHT_ prefix is dropped and the first underscore separates the
// section from the field:
//
//	HINDSIGHT_GIT_TIMEOUT   -> git.timeout
//	HINDSIGHT_LOGGING_LEVEL -> logging.level
//	HINDSIGHT_DEBUG         -> debug
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = path
	}

	parser, err := parserFor(configPath)
	if err != nil {
		return nil, err
	}

	if err := validateConfigPath(configPath); err != nil {
		return nil, fmt.Errorf("config path validation failed: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), parser); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	return decode(k)
}

// LoadEnv loads defaults overridden by HINDSIGHT_* environment variables
// only, skipping any config file. Callers use it to keep environment
// overrides when the file layer is unusable.
func LoadEnv() (*Config, error) {
	return decode(koanf.New("."))
}

// decode applies the environment layer on top of k and produces a validated
// Config.
func decode(k *koanf.Koanf) (*Config, error) {
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps HINDSIGHT_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, found := strings.Cut(lower, "_")
	if !found {
		return lower
	}
	return section + "." + field
}

// Dir returns the user config directory, ~/.config/hindsight-cc.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}

// DefaultPath returns the first existing default config file, or
// ~/.config/hindsight-cc/config.yaml when none exists.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	for _, name := range defaultNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return filepath.Join(dir, defaultNames[0]), nil
}

// parserFor picks a koanf parser from the file extension.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return TOMLParser(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// readConfigFile opens path once and validates through the open descriptor
// to avoid a TOCTOU race between the checks and the read.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateConfigFileProperties(info); err != nil {
		return nil, fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(content) > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: more than %d bytes", maxConfigFileSize)
	}
	return content, nil
}

// validateConfigPath checks if path is in allowed directories.
// This validation runs even if the file doesn't exist yet.
func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	// Paths that don't exist yet are checked as written.
	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		resolvedPath = absPath
	}

	dir, err := Dir()
	if err != nil {
		return err
	}

	allowedDirs := []string{dir, systemDir}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil && resolved != dir {
		allowedDirs = append(allowedDirs, resolved)
	}

	for _, allowed := range allowedDirs {
		if strings.HasPrefix(resolvedPath, allowed+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("config file must be in ~/.config/%s/ or %s/", appDir, systemDir)
}

// validateConfigFileProperties checks file permissions and size.
func validateConfigFileProperties(info os.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("config path is a directory")
	}

	// Windows has a different permission model.
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Git.Backend == "" {
		cfg.Git.Backend = git.BackendCLI
	}
	if cfg.Git.Binary == "" {
		cfg.Git.Binary = git.DefaultBinary
	}
	if cfg.Git.Timeout == 0 {
		cfg.Git.Timeout = Duration(git.DefaultTimeout)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
