package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.API.Model)
	}
	if cfg.API.BaseURL == "" {
		t.Error("BaseURL empty")
	}
	if diff := cmp.Diff(DefaultTopics, cfg.Feed.Topics); diff != "" {
		t.Errorf("Topics mismatch (-want +got):\n%s", diff)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir empty")
	}
}

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  api_key: file-key
  model: gemini-2.5-pro
  timeout: 30s
feed:
  topics: [Space, Climate]
logging:
  debug_mode: true
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.API.APIKey != "file-key" || cfg.API.Model != "gemini-2.5-pro" {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("BaseURL = %q, want default preserved", cfg.API.BaseURL)
	}
	if diff := cmp.Diff([]string{"Space", "Climate"}, cfg.Feed.Topics); diff != "" {
		t.Errorf("Topics mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Logging.DebugMode || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  api_key: file-key\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.APIKey != "env-key" {
		t.Fatalf("APIKey = %q, want env override", cfg.API.APIKey)
	}
}

func TestLoad_EmptyTopicsRestored(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("feed:\n  topics: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultTopics, cfg.Feed.Topics); diff != "" {
		t.Errorf("Topics mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeoutDuration(t *testing.T) {
	tests := []struct {
		timeout string
		want    time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"", 2 * time.Minute},
		{"garbage", 2 * time.Minute},
		{"-10s", 2 * time.Minute},
	}
	for _, tt := range tests {
		a := APIConfig{Timeout: tt.timeout}
		if got := a.TimeoutDuration(); got != tt.want {
			t.Errorf("TimeoutDuration(%q) = %v, want %v", tt.timeout, got, tt.want)
		}
	}
}
