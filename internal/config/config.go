// Package config loads the TruthLens configuration: a YAML file layered over
// defaults, with the API key overridable from the environment. The core
// orchestrators never read configuration or storage themselves; they receive
// the resolved values from the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTopics is the feed topic list used when the user has no saved
// preferences.
var DefaultTopics = []string{
	"Technology",
	"World Politics",
	"Science",
	"Health",
	"Economy",
}

// APIConfig configures the model provider.
type APIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// FeedConfig configures the curated feed.
type FeedConfig struct {
	Topics []string `yaml:"topics"`
}

// LoggingConfig controls the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// Config is the full application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Feed    FeedConfig    `yaml:"feed"`
	DataDir string        `yaml:"data_dir"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	dataDir := ".truthlens"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".truthlens")
	}
	return Config{
		API: APIConfig{
			Model:   "gemini-2.5-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: "2m",
		},
		Feed:    FeedConfig{Topics: append([]string(nil), DefaultTopics...)},
		DataDir: dataDir,
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML config at path layered over defaults. A missing file
// is not an error. GEMINI_API_KEY in the environment overrides the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.API.APIKey = key
	}
	if len(cfg.Feed.Topics) == 0 {
		cfg.Feed.Topics = append([]string(nil), DefaultTopics...)
	}
	return cfg, nil
}

// TimeoutDuration parses the configured API timeout, defaulting to 2m.
func (a APIConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
