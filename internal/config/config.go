package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"recipechat/internal/lexicon"
	"recipechat/internal/logging"
)

// DatasetConfig locates the recipe dataset.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible
// embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedder implementation.
// Type "none" disables semantic matching entirely.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// MatchingConfig carries the tunable extraction and ranking constants.
// These are example-calibrated values, not fixed truths; validate against
// the actual dataset when changing them.
type MatchingConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	QuickMinutes        int     `yaml:"quick_minutes"`
	SlowMinutes         int     `yaml:"slow_minutes"`
	TopN                int     `yaml:"top_n"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Dataset  DatasetConfig      `yaml:"dataset"`
	Embedder EmbedderConfig     `yaml:"embedder"`
	Matching MatchingConfig     `yaml:"matching"`
	Logging  logging.Config     `yaml:"logging"`
	Lexicon  *lexicon.Overrides `yaml:"lexicon,omitempty"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then
// ~/.config/recipechat/config.yaml. If neither exists, it writes defaults
// to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "recipechat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Dataset:  DatasetConfig{Path: "data/recipes.csv"},
		Embedder: EmbedderConfig{Type: "tfidf"},
		Matching: MatchingConfig{
			SimilarityThreshold: 0.55,
			QuickMinutes:        30,
			SlowMinutes:         60,
			TopN:                3,
		},
		Logging: logging.Config{Level: "info", Format: "json", File: "conversation.log"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "data/recipes.csv"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Matching.SimilarityThreshold == 0 {
		cfg.Matching.SimilarityThreshold = 0.55
	}
	if cfg.Matching.QuickMinutes == 0 {
		cfg.Matching.QuickMinutes = 30
	}
	if cfg.Matching.SlowMinutes == 0 {
		cfg.Matching.SlowMinutes = 60
	}
	if cfg.Matching.TopN == 0 {
		cfg.Matching.TopN = 3
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
