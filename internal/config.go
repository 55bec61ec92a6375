package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultModel matches the backend's default completion model.
const DefaultModel = "meta-llama/llama-3.2-3b-instruct:free"

// Config holds the client settings. All fields have working defaults; a
// config file and the CHATCORE_API_KEY environment variable override them.
type Config struct {
	// Endpoint is the base URL of the completion backend.
	Endpoint string `yaml:"endpoint"`
	// APIKey is sent as a bearer token.
	APIKey string `yaml:"api_key"`
	// Model selects the completion model.
	Model string `yaml:"model"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// Stream selects chunked reception instead of a single JSON envelope.
	Stream bool `yaml:"stream"`
	// ImageMode requests image generation alongside the text response.
	ImageMode bool `yaml:"image_mode"`
	// ShowEmptyThought keeps an empty <thought></thought> region as a
	// present-but-empty thinking section instead of dropping it.
	ShowEmptyThought bool `yaml:"show_empty_thought"`
	// StoragePath is the SQLite database file backing the session store.
	StoragePath string `yaml:"storage_path"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	return Config{
		Endpoint:         "http://localhost:10000",
		Model:            DefaultModel,
		TimeoutSeconds:   30,
		Stream:           true,
		ShowEmptyThought: true,
		StoragePath:      defaultStoragePath(),
	}
}

// LoadConfig reads settings from path, falling back to defaults when the
// file does not exist. An unreadable or malformed file is an error; a chat
// client silently running against the wrong backend is worse than failing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if key := os.Getenv("CHATCORE_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = defaultStoragePath()
	}
	return cfg, nil
}

// DefaultConfigPath returns the config file location under the user's home
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".chatcore", "config.yaml")
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func defaultStoragePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "chatcore.db"
	}
	return filepath.Join(homeDir, ".chatcore", "chatcore.db")
}
