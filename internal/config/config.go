// Package config handles global configuration for lexrag.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/lexrag/config.yml.
// Every field has a default; the file only needs to exist to override
// them. Credentials are never stored here, only read from the
// environment at time of use.
type Config struct {
	Provider        string `yaml:"provider,omitempty"`          // "openai" or "ollama"
	EmbedModel      string `yaml:"embed_model,omitempty"`       // remote embedding model
	BatchSize       int    `yaml:"batch_size,omitempty"`        // remote embedding batch size
	OllamaURL       string `yaml:"ollama_url,omitempty"`        // local Ollama endpoint
	OllamaModel     string `yaml:"ollama_model,omitempty"`      // local embedding model
	GroqModel       string `yaml:"groq_model,omitempty"`        // generation model
	TopK            int    `yaml:"top_k,omitempty"`             // retrieval depth
	MaxContextChars int    `yaml:"max_context_chars,omitempty"` // generator context budget
	Addr            string `yaml:"addr,omitempty"`              // serve listen address
	StaticDir       string `yaml:"static_dir,omitempty"`        // optional front-end directory
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "lexrag"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Path returns the path to the global config file. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/lexrag/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider:        "openai",
		EmbedModel:      "text-embedding-3-small",
		BatchSize:       64,
		OllamaURL:       "http://localhost:11434",
		OllamaModel:     "all-minilm:l6-v2",
		GroqModel:       "llama-3.3-70b-versatile",
		TopK:            5,
		MaxContextChars: 20000,
		Addr:            ":8080",
	}
}

// Load reads the global configuration file, layering it over the
// defaults. A missing file is not an error; defaults are returned.
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Provider == "" {
		cfg.Provider = def.Provider
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = def.EmbedModel
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.OllamaURL == "" {
		cfg.OllamaURL = def.OllamaURL
	}
	if cfg.OllamaModel == "" {
		cfg.OllamaModel = def.OllamaModel
	}
	if cfg.GroqModel == "" {
		cfg.GroqModel = def.GroqModel
	}
	if cfg.TopK == 0 {
		cfg.TopK = def.TopK
	}
	if cfg.MaxContextChars == 0 {
		cfg.MaxContextChars = def.MaxContextChars
	}
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
}

// Save writes the config to the global path, creating directories as
// needed.
func Save(cfg *Config) error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
