package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBackend(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		backend   string
		shouldErr bool
	}{
		{"file", false},
		{"sqlite", false},
		{"memory", false},
		{"", true},
		{"SQLite", true},
		{"s3", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			err := v.ValidateBackend(tt.backend)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateLogLevel("debug"))
	assert.NoError(t, v.ValidateLogLevel("WARN"))
	assert.Error(t, v.ValidateLogLevel("verbose"))
}

func TestValidateIndent(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateIndent(0))
	assert.NoError(t, v.ValidateIndent(MaxIndent))
	assert.Error(t, v.ValidateIndent(-1))
	assert.Error(t, v.ValidateIndent(MaxIndent+1))
}
