package config

import (
	"fmt"
	"strings"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// MaxIndent is the widest indent accepted for formatting.
const MaxIndent = 8

// ValidateBackend validates a storage backend name
func (v *Validator) ValidateBackend(backend string) error {
	switch backend {
	case "file", "sqlite", "memory":
		return nil
	case "":
		return fmt.Errorf("backend cannot be empty")
	default:
		return fmt.Errorf("invalid backend %q (must be: file, sqlite, memory)", backend)
	}
}

// ValidateLogLevel validates a log level name
func (v *Validator) ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		return nil
	default:
		return fmt.Errorf("invalid log level %q", level)
	}
}

// ValidateIndent validates the format indent width
func (v *Validator) ValidateIndent(indent int) error {
	if indent < 0 || indent > MaxIndent {
		return fmt.Errorf("indent must be between 0 and %d, got %d", MaxIndent, indent)
	}
	return nil
}
