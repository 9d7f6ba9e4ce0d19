package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// The two candidate base URLs are fixed at build time; failover only ever
// alternates between them.
const (
	DefaultPrimaryURL   = "http://127.0.0.1:8000"
	DefaultAlternateURL = "https://vocabbuddy.fly.dev"
)

type Config struct {
	PrimaryURL   string `yaml:"primary_url"`
	AlternateURL string `yaml:"alternate_url"`
	Level        string `yaml:"level"` // Beginner|Intermediate|Advanced
	Topic        string `yaml:"topic"`
	Mode         string `yaml:"mode"` // chat|daily
	TimeoutSecs  int    `yaml:"timeout_seconds"`
	StorageRoot  string `yaml:"storage_root"`
}

func DefaultConfig() Config {
	return Config{
		PrimaryURL:   DefaultPrimaryURL,
		AlternateURL: DefaultAlternateURL,
		Level:        "Beginner",
		Mode:         "chat",
		TimeoutSecs:  30,
	}
}

// NormalizeBaseURL trims whitespace and any trailing slash so endpoint
// comparison in the failover pool works on exact strings.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.PrimaryURL = NormalizeBaseURL(cfg.PrimaryURL)
	cfg.AlternateURL = NormalizeBaseURL(cfg.AlternateURL)
	if cfg.PrimaryURL == "" {
		cfg.PrimaryURL = DefaultPrimaryURL
	}
	if cfg.AlternateURL == "" {
		cfg.AlternateURL = DefaultAlternateURL
	}
	if cfg.Mode != "chat" && cfg.Mode != "daily" {
		cfg.Mode = "chat"
	}
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = 30
	}
	if cfg.TimeoutSecs > 300 {
		cfg.TimeoutSecs = 300
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "vocab-cli", "config.yml")
}
