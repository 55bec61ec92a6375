package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pittawat/chatcore/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Endpoint != "http://localhost:10000" {
		t.Errorf("Endpoint = %q, want http://localhost:10000", cfg.Endpoint)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if !cfg.Stream {
		t.Error("Stream should default to true")
	}
	if !cfg.ShowEmptyThought {
		t.Error("ShowEmptyThought should default to true")
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.StoragePath == "" {
		t.Error("StoragePath should have a default")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	cfg, err := LoadConfig(filepath.Join(dir, "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, missing file should not fail", err)
	}
	if cfg.Endpoint != DefaultConfig().Endpoint {
		t.Errorf("Endpoint = %q, want default", cfg.Endpoint)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	content := `endpoint: https://api.example.com
api_key: secret-key
model: custom/model
timeout_seconds: 60
stream: false
storage_path: /tmp/custom.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Endpoint != "https://api.example.com" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.APIKey != "secret-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != "custom/model" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d", cfg.TimeoutSeconds)
	}
	if cfg.Stream {
		t.Error("Stream should be false per file")
	}
	if cfg.StoragePath != "/tmp/custom.db" {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
}

func TestLoadConfig_MalformedFileFails(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("endpoint: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail on malformed YAML")
	}
}

func TestLoadConfig_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv("CHATCORE_API_KEY", "env-key")

	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("api_key: file-key\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key (environment wins)", cfg.APIKey)
	}
}

func TestLoadConfig_SanitizesValues(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("timeout_seconds: -5\nmodel: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30 fallback", cfg.TimeoutSeconds)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want default fallback", cfg.Model)
	}
}

func TestConfig_Timeout(t *testing.T) {
	cfg := Config{TimeoutSeconds: 45}
	if cfg.Timeout() != 45*time.Second {
		t.Errorf("Timeout() = %v, want 45s", cfg.Timeout())
	}
}
