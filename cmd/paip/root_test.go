package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amishk599/paip/internal/prompt"
)

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgPath, verbose, promptName, message, pick, initConfig = "", false, "", "", false, false
	historyLimit, historyOlderThan = 20, 0
	initInteractive, initForce = false, false

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// geminiServer answers every request with answer and records the prompt text.
func geminiServer(t *testing.T, answer string, gotPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if gotPrompt != nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			*gotPrompt = req.Contents[0].Parts[0].Text
		}
		resp := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": answer}}},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeTestConfig(t *testing.T, baseURL, key string, history bool) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `version: 1
provider: gemini
timeout: 5
gemini:
  key: "` + key + `"
  model: gemini-test
  base_url: "` + baseURL + `"
history:
  enabled: ` + map[bool]string{true: "true", false: "false"}[history] + `
prompt:
  summarize: "Summarize:"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRoot_SendsAssembledPromptFromFile(t *testing.T) {
	var gotPrompt string
	srv := geminiServer(t, "A summary.\n\n", &gotPrompt)
	cfg := writeTestConfig(t, srv.URL, "test-key", false)

	input := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(input, []byte("text."), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "-c", cfg, "-p", "summarize", input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "A summary.\n" {
		t.Errorf("stdout = %q, want %q", out, "A summary.\n")
	}
	if want := prompt.Assemble("Summarize:", "text.", ""); gotPrompt != want {
		t.Errorf("prompt = %q, want %q", gotPrompt, want)
	}
}

func TestRoot_ReadsStdinAndMessage(t *testing.T) {
	var gotPrompt string
	srv := geminiServer(t, "ok", &gotPrompt)
	cfg := writeTestConfig(t, srv.URL, "test-key", false)

	if _, err := execute(t, "piped", "-c", cfg, "-m", "be brief"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if want := "piped\n\nbe brief\n\n" + prompt.PlaintextDirective; gotPrompt != want {
		t.Errorf("prompt = %q, want %q", gotPrompt, want)
	}
}

func TestRoot_UnknownPrompt(t *testing.T) {
	srv := geminiServer(t, "unused", nil)
	cfg := writeTestConfig(t, srv.URL, "test-key", false)

	_, err := execute(t, "x", "-c", cfg, "-p", "nope")
	if err == nil || !strings.Contains(err.Error(), `prompt "nope" not found`) {
		t.Fatalf("err = %v, want unknown prompt error", err)
	}
}

func TestRoot_PlaceholderKey(t *testing.T) {
	srv := geminiServer(t, "unused", nil)
	cfg := writeTestConfig(t, srv.URL, "YOUR_GEMINI_API_KEY", false)

	_, err := execute(t, "x", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "API key is not configured") {
		t.Fatalf("err = %v, want API key error", err)
	}
}

func TestRoot_RecordsHistory(t *testing.T) {
	srv := geminiServer(t, "remembered answer", nil)
	cfg := writeTestConfig(t, srv.URL, "test-key", true)

	if _, err := execute(t, "x", "-c", cfg, "-p", "summarize"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	out, err := execute(t, "", "-c", cfg, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "remembered answer") || !strings.Contains(out, "summarize") {
		t.Errorf("history output missing entry:\n%s", out)
	}

	out, err = execute(t, "", "-c", cfg, "history", "show", "1")
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	if !strings.Contains(out, "Model:    gemini-test") {
		t.Errorf("history show output:\n%s", out)
	}

	out, err = execute(t, "", "-c", cfg, "history", "clear")
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	if !strings.Contains(out, "Deleted") {
		t.Errorf("history clear output: %q", out)
	}
}

func TestRoot_HistoryDisabledHint(t *testing.T) {
	cfg := writeTestConfig(t, "http://127.0.0.1:1", "test-key", false)

	out, err := execute(t, "", "-c", cfg, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "History is disabled") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paip", "config.yaml")

	out, err := execute(t, "", "-c", path, "--init-config")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output should name the path: %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	if _, err := execute(t, "", "-c", path, "config", "init"); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, err := execute(t, "", "-c", path, "config", "init", "--force"); err != nil {
		t.Fatalf("forced init: %v", err)
	}
}

func TestPromptsList(t *testing.T) {
	cfg := writeTestConfig(t, "http://127.0.0.1:1", "test-key", false)

	out, err := execute(t, "", "-c", cfg, "prompts")
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	if !strings.Contains(out, "summarize") || !strings.Contains(out, "Total: 1 prompts") {
		t.Errorf("prompts output:\n%s", out)
	}

	out, err = execute(t, "", "-c", cfg, "prompts", "summarize")
	if err != nil {
		t.Fatalf("prompts summarize: %v", err)
	}
	if out != "Summarize:\n" {
		t.Errorf("prompts summarize = %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
}

func TestLoadDotEnvMissingFileIgnored(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("loadDotEnv missing = %v, want nil", err)
	}
}

func TestLoadConfigReadsDotEnvNextToConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PAIP_TEST_DOTENV_KEY=dotenv-key\n"), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.yaml")
	content := "version: 1\nprovider: gemini\ngemini:\n  key: ${PAIP_TEST_DOTENV_KEY}\n  model: m\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("PAIP_TEST_DOTENV_KEY") })

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Gemini.Key != "dotenv-key" {
		t.Errorf("Key = %q, want dotenv-key", cfg.Gemini.Key)
	}
}
