package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "state.json", cfg.Storage.Path)
	assert.Equal(t, "jsonstudio-tabs", cfg.Storage.Key)
	assert.Equal(t, 2, cfg.Editor.Indent)
	assert.True(t, cfg.Logging.Redaction)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"sqlite backend", func(c *Config) { c.Storage.Backend = "sqlite"; c.Storage.Path = "state.db" }, ""},
		{"memory backend", func(c *Config) { c.Storage.Backend = "memory"; c.Storage.Path = "" }, ""},
		{"memory backend ignores path", func(c *Config) { c.Storage.Backend = "memory" }, ""},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging"},
		{"negative indent", func(c *Config) { c.Editor.Indent = -1 }, "editor"},
		{"huge indent", func(c *Config) { c.Editor.Indent = 12 }, "editor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	s := DefaultConfig().String()
	assert.Contains(t, s, `"backend": "file"`)
	assert.Contains(t, s, `"indent": 2`)
}
