package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// DefaultModel is the model written into a freshly generated configuration.
const DefaultModel = "gemini-2.5-flash"

//go:embed default.yaml.tmpl
var defaultConfigRaw string

var defaultConfigTemplate = template.Must(template.New("config").Funcs(template.FuncMap{
	"yaml": yamlScalar,
}).Parse(defaultConfigRaw))

// ErrExists is returned by WriteDefault when the target file already exists.
var ErrExists = errors.New("config file already exists")

// yamlScalar renders s as a single YAML scalar.
func yamlScalar(s string) (string, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

// DefaultPath returns <user config dir>/paip/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "paip", "config.yaml"), nil
}

// DefaultContent renders the default configuration with the given key and model.
// Empty arguments fall back to the placeholder key and DefaultModel.
func DefaultContent(key, model string) ([]byte, error) {
	if key == "" {
		key = PlaceholderKey
	}
	if model == "" {
		model = DefaultModel
	}
	var buf bytes.Buffer
	if err := defaultConfigTemplate.Execute(&buf, struct{ Key, Model string }{key, model}); err != nil {
		return nil, fmt.Errorf("render default config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is left untouched unless force is set.
func WriteDefault(path, key, model string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}
	content, err := DefaultContent(key, model)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	// The file may hold an API key.
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
