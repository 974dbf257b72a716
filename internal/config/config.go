// Package config loads the merged application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config represents the merged ttrpg configuration
type Config struct {
	Store StoreConfig `json:"store"`
	GM    GMConfig    `json:"gm"`
	Log   LogConfig   `json:"log"`
}

type StoreConfig struct {
	Path string `json:"path"`
}

// GMConfig configures the turn generator.
type GMConfig struct {
	Driver  string `json:"driver"` // "anthropic" or "openai"
	Model   string `json:"model"`
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"` // OpenAI-compatible endpoint override

	// MaxHistoryTokens caps how much conversation history is sent per
	// turn. 0 uses the default budget.
	MaxHistoryTokens int `json:"maxHistoryTokens"`

	Temperature float32 `json:"temperature"`
}

type LogConfig struct {
	Level string `json:"level"` // "debug", "info", "warn", "error"
	File  string `json:"file"`
}

// DataDir returns the per-user data directory, creating it if needed.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".ai-ttrpg")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// Load reads configuration from <datadir>/config.json over defaults,
// then applies environment overrides. A .env file in the working
// directory is honoured for the API key.
func Load() (*Config, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Store: StoreConfig{
			Path: filepath.Join(dataDir, "sessions.db"),
		},
		GM: GMConfig{
			Driver:      "openai",
			Model:       "gemini-2.5-flash",
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai",
			Temperature: 0.7,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "ttrpg.log"),
		},
	}

	path := filepath.Join(dataDir, "config.json")
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// .env is optional; missing file is not an error.
	godotenv.Load()

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides config values from the environment. Secrets are
// expected here rather than in config.json.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TTRPG_GM_DRIVER"); v != "" {
		cfg.GM.Driver = v
	}
	if v := os.Getenv("TTRPG_GM_MODEL"); v != "" {
		cfg.GM.Model = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.GM.APIKey == "" {
		cfg.GM.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.GM.Driver == "anthropic" {
		cfg.GM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.GM.APIKey == "" {
		cfg.GM.APIKey = v
	}
	if v := os.Getenv("TTRPG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
