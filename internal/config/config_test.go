package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
version: 1
provider: gemini
timeout: 45
gemini:
  key: abc123
  model: gemini-2.5-pro
  temperature: 0.2
  top_k: 40
  thinking_level: high
prompt:
  summarize: "Summarize:"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Gemini == nil {
		t.Fatal("expected gemini block")
	}
	if cfg.Gemini.Key != "abc123" || cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("Gemini = %+v", cfg.Gemini)
	}
	gp := cfg.Gemini.Generation
	if gp.Temperature == nil || *gp.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", gp.Temperature)
	}
	if gp.TopK == nil || *gp.TopK != 40 {
		t.Errorf("TopK = %v, want 40", gp.TopK)
	}
	if gp.TopP != nil || gp.MaxOutputTokens != nil || gp.ThinkingBudget != nil {
		t.Errorf("unset fields should stay nil: %+v", gp)
	}
	if gp.ThinkingLevel == nil || *gp.ThinkingLevel != "high" {
		t.Errorf("ThinkingLevel = %v, want high", gp.ThinkingLevel)
	}
	if got := cfg.History.Path; got != filepath.Join(filepath.Dir(path), "history.db") {
		t.Errorf("History.Path = %q", got)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoad_TimeoutAcceptsDuration(t *testing.T) {
	path := writeConfig(t, "version: 1\nprovider: gemini\ntimeout: 1500ms\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 1500*time.Millisecond {
		t.Errorf("Timeout = %v, want 1.5s", cfg.Timeout)
	}
}

func TestLoad_TimeoutDefault(t *testing.T) {
	path := writeConfig(t, "version: 1\nprovider: gemini\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Gemini != nil {
		t.Errorf("Gemini = %+v, want nil when block is absent", cfg.Gemini)
	}
}

func TestLoad_ZeroTimeout(t *testing.T) {
	path := writeConfig(t, "version: 1\nprovider: gemini\ntimeout: 0\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected validation error for zero timeout")
	}
}

func TestLoad_BadTimeout(t *testing.T) {
	path := writeConfig(t, "version: 1\nprovider: gemini\ntimeout: soon\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for unparseable timeout")
	}
}

func TestLoad_VersionMismatch(t *testing.T) {
	path := writeConfig(t, "version: 2\nprovider: gemini\ntimeout: 10\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load: expected version mismatch error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "version: [broken")

	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("PAIP_TEST_KEY", "from-env")
	path := writeConfig(t, `
version: 1
provider: gemini
gemini:
  key: ${PAIP_TEST_KEY}
  model: m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.Key != "from-env" {
		t.Errorf("Key = %q, want from-env", cfg.Gemini.Key)
	}
}

func TestLoad_TopPOutOfRange(t *testing.T) {
	path := writeConfig(t, `
version: 1
provider: gemini
gemini:
  key: k
  model: m
  top_p: 1.5
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for top_p > 1")
	}
}

func TestPrompt(t *testing.T) {
	cfg := &Config{Prompts: map[string]string{"b": "B text", "a": "A text"}}

	got, err := cfg.Prompt("a")
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	if got != "A text" {
		t.Errorf("Prompt(a) = %q", got)
	}

	_, err = cfg.Prompt("missing")
	if err == nil {
		t.Fatal("expected error for unknown prompt")
	}
	if want := `prompt "missing" not found; available prompts: a, b`; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestDefaultContent_IsValid(t *testing.T) {
	content, err := DefaultContent("", "")
	if err != nil {
		t.Fatalf("DefaultContent: %v", err)
	}
	cfg, err := Parse(content)
	if err != nil {
		t.Fatalf("default config should parse: %v", err)
	}
	if cfg.Version != Version {
		t.Errorf("Version = %d, want %d", cfg.Version, Version)
	}
	if cfg.Gemini == nil || cfg.Gemini.Key != PlaceholderKey {
		t.Errorf("default key should be the placeholder, got %+v", cfg.Gemini)
	}
	if cfg.Gemini.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Gemini.Model, DefaultModel)
	}
	if _, err := cfg.Prompt("summarize"); err != nil {
		t.Errorf("default config should ship a summarize prompt: %v", err)
	}
}

func TestDefaultContent_QuotesKey(t *testing.T) {
	content, err := DefaultContent(`key: with "quotes" #hash`, "gemini-x")
	if err != nil {
		t.Fatalf("DefaultContent: %v", err)
	}
	cfg, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Gemini.Key != `key: with "quotes" #hash` {
		t.Errorf("Key = %q", cfg.Gemini.Key)
	}
	if cfg.Gemini.Model != "gemini-x" {
		t.Errorf("Model = %q", cfg.Gemini.Model)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path, "", "", false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load written default: %v", err)
	}

	err := WriteDefault(path, "", "", false)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("second WriteDefault error = %v, want ErrExists", err)
	}

	if err := WriteDefault(path, "real-key", "", true); err != nil {
		t.Fatalf("forced WriteDefault: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.Key != "real-key" {
		t.Errorf("Key = %q, want real-key", cfg.Gemini.Key)
	}
}
