package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stylepanel.toml", `
schema = "layout.yaml"
debug = true

[server]
listen = ":9090"

[store]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "24h"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "layout.yaml", cfg.Schema)
	assert.True(t, cfg.Debug)
	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "text", cfg.LogFormat, "defaults survive")

	ttl, err := cfg.Store.ttl()
	require.NoError(t, err)
	assert.Equal(t, "24h0m0s", ttl.String())
}

func TestLoadConfig_Missing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err, "the default file is optional")
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig("nope.toml")
	assert.Error(t, err, "an explicit file is required")
}

func TestLoadConfig_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STYLEPANEL_STORE", "memory")
	t.Setenv("STYLEPANEL_DEBUG", "true")
	t.Setenv("STYLEPANEL_LISTEN", "127.0.0.1:1")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "127.0.0.1:1", cfg.Server.Listen)
}

func TestApplyEnv_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(func(key string) (string, bool) {
		if key == EnvPrefix+"REDIS_DB" {
			return "zero", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "STYLEPANEL_REDIS_DB")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"Defaults", func(*Config) {}, ""},
		{"Unknown Backend", func(c *Config) { c.Store.Backend = "s3" }, "unknown store backend"},
		{"Redis Without Address", func(c *Config) { c.Store.Backend = "redis" }, "redis_addr"},
		{"Bad TTL", func(c *Config) { c.Store.TTL = "soon" }, "store.ttl"},
		{"Negative Lock TTL", func(c *Config) { c.Store.LockTTL = "-1s" }, "negative"},
		{"Bad Log Format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}
