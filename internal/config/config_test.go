package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func validConfig() Config {
	var cfg Config
	cfg.App.Port = 38472
	cfg.Auth.DefaultOwner = "local"
	cfg.Reminders.SweepSeconds = 300
	return cfg
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, `
app:
  port: 38472
auth:
  require_token: true
  default_owner: "local"
reminders:
  sweep_seconds: 60
link_preview:
  enabled: true
  timeout_seconds: 10
  req_per_sec: 1
  burst: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 38472, cfg.App.Port)
	assert.True(t, cfg.Auth.RequireToken)
	assert.Equal(t, "local", cfg.Auth.DefaultOwner)
	assert.Equal(t, 60, cfg.Reminders.SweepSeconds)
	assert.True(t, cfg.LinkPreview.Enabled)
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.DefaultOwner = "  local  "

	out, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK(), "errors: %v", res.Errors)
	assert.Equal(t, "local", out.Auth.DefaultOwner)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := validConfig()
	cfg.App.Port = 0
	cfg.Auth.DefaultOwner = ""
	cfg.Reminders.SweepSeconds = -1

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
	assert.Len(t, res.Errors, 3)
}

func TestValidateLinkPreviewOnlyWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.LinkPreview.Enabled = false
	// zeroed preview settings are fine while disabled
	_, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK())

	cfg.LinkPreview.Enabled = true
	_, res = NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := validConfig()

	require.NoError(t, SaveAtomic(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	// Second save keeps a .bak of the previous file.
	cfg.App.Port = 40000
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestEnsureUserConfigCopiesOnce(t *testing.T) {
	dataDir := t.TempDir()
	defaultPath := writeTempConfig(t, "app:\n  port: 38472\n")

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	// A user edit must survive a second bootstrap.
	require.NoError(t, os.WriteFile(userPath, []byte("app:\n  port: 1\n"), 0o644))
	again, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, userPath, again)

	cfg, err := Load(again)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.App.Port)
}
