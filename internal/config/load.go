package config

import (
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration file, applies environment secrets and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return Load(path)
}

// ApplyEnv copies secrets from the environment. They are never read from YAML.
func (c *Config) ApplyEnv() {
	if keys := splitKeys(os.Getenv("GEMINI_API_KEY")); len(keys) > 0 {
		c.Gemini.APIKeys = keys
	}
	if token := strings.TrimSpace(os.Getenv("HF_TOKEN")); token != "" {
		c.Diarization.HFToken = token
	}
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		c.OpenAI.APIKey = key
	}
}

// Merge overlays the non-zero fields of overrides onto c and revalidates.
func (c *Config) Merge(overrides Config) error {
	if err := mergo.Merge(c, overrides, mergo.WithOverride, mergo.WithoutDereference); err != nil {
		return fmt.Errorf("merge overrides: %w", err)
	}
	return c.Validate()
}

func splitKeys(v string) []string {
	var keys []string
	for _, k := range strings.Split(v, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
