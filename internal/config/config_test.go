package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcswan/hindsight-cc/pkg/git"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Debug.Enabled())
	assert.Equal(t, git.BackendCLI, cfg.Git.Backend)
	assert.Equal(t, "git", cfg.Git.Binary)
	assert.Equal(t, 2*time.Second, cfg.Git.Timeout.Duration())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestConfig_GitOptions(t *testing.T) {
	cfg := Default()
	cfg.Git.Backend = git.BackendAuto
	cfg.Git.Binary = "/usr/local/bin/git"
	cfg.Git.Timeout = Duration(5 * time.Second)

	assert.Equal(t, git.Options{
		Backend: git.BackendAuto,
		Binary:  "/usr/local/bin/git",
		Timeout: 5 * time.Second,
	}, cfg.GitOptions())
}

func TestConfig_JSON(t *testing.T) {
	cfg := Default()
	cfg.Debug = true
	cfg.Git.Timeout = Duration(1500 * time.Millisecond)

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"debug": true,
		"git": {"backend": "cli", "binary": "git", "timeout": "1.5s"},
		"logging": {"level": "info", "format": "console"}
	}`, string(data))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			modify: func(c *Config) {},
		},
		{
			name:   "gogit backend",
			modify: func(c *Config) { c.Git.Backend = git.BackendGoGit },
		},
		{
			name:   "trace level",
			modify: func(c *Config) { c.Logging.Level = "trace" },
		},
		{
			name:   "json format at max timeout",
			modify: func(c *Config) { c.Logging.Format = "json"; c.Git.Timeout = Duration(MaxGitTimeout) },
		},
		{
			name:    "unknown backend",
			modify:  func(c *Config) { c.Git.Backend = "libgit2" },
			wantErr: "invalid git backend",
		},
		{
			name:    "empty binary",
			modify:  func(c *Config) { c.Git.Binary = "" },
			wantErr: "git binary",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Git.Timeout = 0 },
			wantErr: "invalid git timeout",
		},
		{
			name:    "timeout above max",
			modify:  func(c *Config) { c.Git.Timeout = Duration(time.Minute) },
			wantErr: "invalid git timeout",
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Logging.Format = "logfmt" },
			wantErr: "invalid logging format",
		},
		{
			name:    "unknown level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
