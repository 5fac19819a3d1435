package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBaseEnv sets the minimum environment for a valid configuration
func setBaseEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("EDGEGATE_STATIC_DIR", dir)
	t.Setenv("EDGEGATE_AUTH_BASIC_USERNAME", "admin")
	t.Setenv("EDGEGATE_AUTH_BASIC_PASSWORD", "admin")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := setBaseEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Nil(t, cfg.Upstream.URL)
	assert.Equal(t, dir, cfg.Static.Dir)
	assert.True(t, cfg.Static.SPAFallback)
	assert.True(t, cfg.Auth.Basic.Enabled)
	assert.Equal(t, "admin", cfg.Auth.Basic.Username)
	assert.Equal(t, "admin", cfg.Auth.Basic.Password)
	assert.Equal(t, "Restricted", cfg.Auth.Basic.Realm)
	assert.True(t, cfg.Todos.Enabled)
	assert.Equal(t, StoreMemory, cfg.Todos.Store)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "console", cfg.Observability.LogFormat)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	setBaseEnv(t)
	path := filepath.Join(t.TempDir(), "edgegate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_addr: ":7000"
upstream_url: "http://app.internal:3000"
upstream_timeout: "5s"
auth_basic_realm: "Preview"
todos_store: "sqlite"
`), 0o600))
	t.Setenv("EDGEGATE_AUTH_BASIC_REALM", "Staging")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Address)
	require.NotNil(t, cfg.Upstream.URL)
	assert.Equal(t, "app.internal:3000", cfg.Upstream.URL.Host)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "Staging", cfg.Auth.Basic.Realm)
	assert.Equal(t, StoreSQLite, cfg.Todos.Store)
	assert.Equal(t, "edgegate.db", cfg.Todos.SQLitePath)
}

func TestLoadRejectsMissingPassword(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EDGEGATE_AUTH_BASIC_PASSWORD", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "password is required")
}

func TestLoadGateDisabledNeedsNoCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EDGEGATE_AUTH_BASIC_USERNAME", "")
	t.Setenv("EDGEGATE_AUTH_BASIC_PASSWORD", "")
	t.Setenv("EDGEGATE_AUTH_BASIC_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Auth.Basic.Enabled)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{"bad shutdown timeout", map[string]string{"EDGEGATE_SHUTDOWN_TIMEOUT": "soon"}, "invalid shutdown_timeout"},
		{"negative upstream timeout", map[string]string{"EDGEGATE_UPSTREAM_TIMEOUT": "-1s"}, "must be positive"},
		{"upstream scheme", map[string]string{"EDGEGATE_UPSTREAM_URL": "ftp://files"}, "http or https"},
		{"missing static dir", map[string]string{"EDGEGATE_STATIC_DIR": "/definitely/not/here"}, "static directory not usable"},
		{"unknown store", map[string]string{"EDGEGATE_TODOS_STORE": "redis"}, "unknown todos store"},
		{"tls without cert", map[string]string{"EDGEGATE_TLS_ENABLED": "true"}, "certificate path is required"},
		{"bad log format", map[string]string{"EDGEGATE_LOG_FORMAT": "xml"}, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestLoadRejectsUnreadableConfigFile(t *testing.T) {
	setBaseEnv(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_addr: [unterminated"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to read config file")
}
