package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcswan/hindsight-cc/pkg/git"
)

// setupTestHome points HOME at a temp dir and returns the config directory
// inside it.
func setupTestHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "hindsight-cc")
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	setupTestHome(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	dir := setupTestHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, `debug: true
git:
  backend: gogit
  timeout: 3s
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug.Enabled())
	assert.Equal(t, git.BackendGoGit, cfg.Git.Backend)
	assert.Equal(t, "git", cfg.Git.Binary, "unset fields keep defaults")
	assert.Equal(t, 3*time.Second, cfg.Git.Timeout.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_TOML(t *testing.T) {
	dir := setupTestHome(t)
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, `debug = "yes"

[git]
backend = "auto"
binary = "/opt/git/bin/git"
timeout = "750ms"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug.Enabled())
	assert.Equal(t, git.BackendAuto, cfg.Git.Backend)
	assert.Equal(t, "/opt/git/bin/git", cfg.Git.Binary)
	assert.Equal(t, 750*time.Millisecond, cfg.Git.Timeout.Duration())
}

func TestLoad_DefaultPathDiscovery(t *testing.T) {
	dir := setupTestHome(t)
	writeConfig(t, filepath.Join(dir, "config.toml"), "[logging]\nlevel = \"warn\"\n")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)

	writeConfig(t, filepath.Join(dir, "config.yaml"), "logging:\n  level: error\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level, "yaml is preferred over toml")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := setupTestHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "git:\n  timeout: 3s\nlogging:\n  level: warn\n")

	t.Setenv("HINDSIGHT_GIT_TIMEOUT", "5s")
	t.Setenv("HINDSIGHT_DEBUG", "1")
	t.Setenv("HINDSIGHT_GIT_BACKEND", "gogit")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Git.Timeout.Duration())
	assert.True(t, cfg.Debug.Enabled())
	assert.Equal(t, git.BackendGoGit, cfg.Git.Backend)
	assert.Equal(t, "warn", cfg.Logging.Level, "file value kept when env is unset")
}

func TestLoad_DebugEnvSpellings(t *testing.T) {
	for value, want := range map[string]bool{
		"1": true, "true": true, "YES": true,
		"0": false, "false": false, "no": false,
	} {
		t.Run(value, func(t *testing.T) {
			setupTestHome(t)
			t.Setenv("HINDSIGHT_DEBUG", value)

			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, want, cfg.Debug.Enabled())
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		perm    os.FileMode
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			file:    "config.yaml",
			content: "git: [unclosed",
			perm:    0600,
			wantErr: "failed to load config file",
		},
		{
			name:    "invalid backend",
			file:    "config.yaml",
			content: "git:\n  backend: svn\n",
			perm:    0600,
			wantErr: "invalid git backend",
		},
		{
			name:    "negative timeout",
			file:    "config.yaml",
			content: "git:\n  timeout: -1s\n",
			perm:    0600,
			wantErr: "failed to unmarshal config",
		},
		{
			name:    "timeout from env too large",
			file:    "config.yaml",
			content: "debug: false\n",
			perm:    0600,
			env:     map[string]string{"HINDSIGHT_GIT_TIMEOUT": "1m"},
			wantErr: "invalid git timeout",
		},
		{
			name:    "unsupported extension",
			file:    "config.json",
			content: "{}",
			perm:    0600,
			wantErr: "unsupported config file format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTestHome(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), tt.perm))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_RejectsInsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission model differs on windows")
	}

	dir := setupTestHome(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0644))
	require.NoError(t, os.Chmod(path, 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoad_RejectsOversizedFile(t *testing.T) {
	dir := setupTestHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "# "+strings.Repeat("x", maxConfigFileSize)+"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidateConfigPath(t *testing.T) {
	dir := setupTestHome(t)

	valid := []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "nested", "config.toml"),
		"/etc/hindsight-cc/config.yaml",
	}
	for _, path := range valid {
		t.Run("allows "+path, func(t *testing.T) {
			assert.NoError(t, validateConfigPath(path))
		})
	}

	invalid := []string{
		"/etc/passwd",
		"/tmp/config.yaml",
		"/etc/hindsight-cc../etc/passwd",
		dir + "-evil/config.yaml",
		filepath.Join(dir, "..", "..", "..", "etc", "passwd"),
		dir,
	}
	for _, path := range invalid {
		t.Run("rejects "+path, func(t *testing.T) {
			assert.Error(t, validateConfigPath(path))
		})
	}
}

func TestValidateConfigPath_Symlink(t *testing.T) {
	dir := setupTestHome(t)
	outside := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, outside, "debug: true\n")

	link := filepath.Join(dir, "config.yaml")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	assert.Error(t, validateConfigPath(link), "symlink escaping the config dir is rejected")
}

func TestLoadEnv_SkipsFile(t *testing.T) {
	dir := setupTestHome(t)
	writeConfig(t, filepath.Join(dir, "config.yaml"), "git:\n  backend: svn\n")
	t.Setenv("HINDSIGHT_DEBUG", "1")
	t.Setenv("HINDSIGHT_GIT_TIMEOUT", "5s")

	_, err := Load("")
	require.Error(t, err, "the file layer is invalid")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Debug.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Git.Timeout.Duration())
	assert.Equal(t, "cli", cfg.Git.Backend, "file value is not applied")
}

func TestLoadEnv_InvalidEnv(t *testing.T) {
	setupTestHome(t)
	t.Setenv("HINDSIGHT_GIT_BACKEND", "svn")

	_, err := LoadEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid git backend")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "git.timeout", envKey("HINDSIGHT_GIT_TIMEOUT"))
	assert.Equal(t, "logging.level", envKey("HINDSIGHT_LOGGING_LEVEL"))
	assert.Equal(t, "debug", envKey("HINDSIGHT_DEBUG"))
	assert.Equal(t, "git.some_field", envKey("HINDSIGHT_GIT_SOME_FIELD"))
}
