package config

import (
	"encoding/json"
	"fmt"
)

// Config represents the main jsonstudio configuration
type Config struct {
	// Storage
	Storage StorageConfig `json:"storage" mapstructure:"storage"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Editor
	Editor EditorConfig `json:"editor" mapstructure:"editor"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// StorageConfig selects the durable key-value store for the session
type StorageConfig struct {
	Backend string `json:"backend" mapstructure:"backend"` // file, sqlite, memory
	Path    string `json:"path" mapstructure:"path"`       // relative paths resolve against data_dir
	Key     string `json:"key" mapstructure:"key"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// EditorConfig holds editor behaviour settings
type EditorConfig struct {
	Indent     int  `json:"indent" mapstructure:"indent"`           // format indent, 0 minifies
	WatchFiles bool `json:"watch_files" mapstructure:"watch_files"` // flag tabs modified on external change
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "file",
			Path:    "state.json",
			Key:     "jsonstudio-tabs",
		},
		Logging: LoggingConfig{
			Level:     "warn",
			Console:   true,
			Pretty:    true,
			Redaction: true,
		},
		Editor: EditorConfig{
			Indent:     2,
			WatchFiles: true,
		},
		DataDir: "",
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	v := NewValidator()

	if err := v.ValidateBackend(c.Storage.Backend); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := v.ValidateLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := v.ValidateIndent(c.Editor.Indent); err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	return nil
}
