package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is the configuration schema version this build understands.
const Version = 1

// PlaceholderKey is the API key value written by the default configuration.
const PlaceholderKey = "YOUR_GEMINI_API_KEY"

const defaultTimeout = 30 * time.Second

// Config is the root configuration for paip.
type Config struct {
	Version  int
	Provider string
	Timeout  time.Duration // request timeout; bare numbers in the file are seconds
	Gemini   *GeminiConfig // nil when the gemini block is absent
	History  HistoryConfig
	Prompts  map[string]string

	// Path is the file the configuration was loaded from.
	Path string
}

// GeminiConfig holds the Gemini provider settings.
type GeminiConfig struct {
	Key        string
	Model      string
	BaseURL    string // empty means the public Gemini endpoint
	Generation GenerationParams
}

// GenerationParams are the optional model tuning knobs. Nil means "not set".
type GenerationParams struct {
	Temperature     *float64
	TopP            *float64
	TopK            *int
	MaxOutputTokens *int
	ThinkingBudget  *int
	ThinkingLevel   *string
}

// HistoryConfig controls the local SQLite log of requests.
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// rawConfig is used for YAML unmarshaling (snake_case fields, timeout as scalar text).
type rawConfig struct {
	Version  int               `yaml:"version"`
	Provider string            `yaml:"provider"`
	Timeout  scalarText        `yaml:"timeout"`
	Gemini   *rawGeminiConfig  `yaml:"gemini"`
	History  rawHistoryConfig  `yaml:"history"`
	Prompt   map[string]string `yaml:"prompt"`
}

type rawGeminiConfig struct {
	Key             string   `yaml:"key"`
	Model           string   `yaml:"model"`
	BaseURL         string   `yaml:"base_url"`
	Temperature     *float64 `yaml:"temperature"`
	TopP            *float64 `yaml:"top_p"`
	TopK            *int     `yaml:"top_k"`
	MaxOutputTokens *int     `yaml:"max_output_tokens"`
	ThinkingBudget  *int     `yaml:"thinking_budget"`
	ThinkingLevel   *string  `yaml:"thinking_level"`
}

type rawHistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// scalarText captures a scalar verbatim so that both `30` and `"30s"` decode.
type scalarText string

func (s *scalarText) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", n.Line)
	}
	*s = scalarText(n.Value)
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w (run with --init-config to create a default)", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = path
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(filepath.Dir(path), "history.db")
	}
	return cfg, nil
}

// Parse expands environment variables in data, decodes it and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout, err := parseTimeout(string(raw.Timeout))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Version:  raw.Version,
		Provider: raw.Provider,
		Timeout:  timeout,
		History: HistoryConfig{
			Enabled: raw.History.Enabled,
			Path:    raw.History.Path,
		},
		Prompts: raw.Prompt,
	}
	if cfg.Prompts == nil {
		cfg.Prompts = map[string]string{}
	}
	if g := raw.Gemini; g != nil {
		cfg.Gemini = &GeminiConfig{
			Key:     g.Key,
			Model:   g.Model,
			BaseURL: g.BaseURL,
			Generation: GenerationParams{
				Temperature:     g.Temperature,
				TopP:            g.TopP,
				TopK:            g.TopK,
				MaxOutputTokens: g.MaxOutputTokens,
				ThinkingBudget:  g.ThinkingBudget,
				ThinkingLevel:   g.ThinkingLevel,
			},
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseTimeout accepts a bare number of seconds or a Go duration string.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultTimeout, nil
	}
	if secs, err := strconv.ParseUint(s, 10, 32); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse timeout %q: expected seconds or a duration like \"90s\"", s)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if cfg.Version != Version {
		return fmt.Errorf("configuration version mismatch: expected %d, found %d; update your config file or run with --init-config to generate a new one", Version, cfg.Version)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}
	if g := cfg.Gemini; g != nil {
		if g.Model == "" {
			return fmt.Errorf("gemini.model is required")
		}
		p := g.Generation
		if p.TopP != nil && (*p.TopP < 0 || *p.TopP > 1) {
			return fmt.Errorf("gemini.top_p must be between 0 and 1, got %v", *p.TopP)
		}
		if p.Temperature != nil && *p.Temperature < 0 {
			return fmt.Errorf("gemini.temperature must not be negative, got %v", *p.Temperature)
		}
		if p.ThinkingLevel != nil && strings.TrimSpace(*p.ThinkingLevel) == "" {
			return fmt.Errorf("gemini.thinking_level must not be empty when set")
		}
	}
	return nil
}

// Prompt returns the named prompt template.
func (c *Config) Prompt(name string) (string, error) {
	if text, ok := c.Prompts[name]; ok {
		return text, nil
	}
	names := c.PromptNames()
	if len(names) == 0 {
		return "", fmt.Errorf("prompt %q not found: no prompts are configured", name)
	}
	return "", fmt.Errorf("prompt %q not found; available prompts: %s", name, strings.Join(names, ", "))
}

// PromptNames returns the configured prompt names in sorted order.
func (c *Config) PromptNames() []string {
	names := make([]string, 0, len(c.Prompts))
	for n := range c.Prompts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
