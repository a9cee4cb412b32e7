package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amishk599/paip/internal/config"
	"github.com/amishk599/paip/internal/llm"
	"github.com/amishk599/paip/internal/model"
	"github.com/amishk599/paip/internal/prompt"
	"github.com/amishk599/paip/internal/store"
	"github.com/amishk599/paip/internal/tui"
)

var (
	cfgPath    string
	verbose    bool
	promptName string
	message    string
	pick       bool
	initConfig bool
)

var rootCmd = &cobra.Command{
	Use:   "paip [flags] [files...]",
	Short: "Pipe text through an LLM",
	Long: "paip sends text from files or stdin, optionally wrapped in a named prompt from the\n" +
		"configuration file, to an LLM and prints the plain-text answer.\n\n" +
		"Reads from stdin if no files are provided. Use '-' to read from stdin within a list of files.",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: PAIP_CONFIG env var or the user config directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output for debugging")

	rootCmd.Flags().StringVarP(&promptName, "prompt", "p", "", "use a predefined prompt from the configuration file")
	rootCmd.Flags().StringVarP(&message, "message", "m", "", "additional message to include after input")
	rootCmd.Flags().BoolVar(&pick, "pick", false, "choose the prompt interactively")
	rootCmd.Flags().BoolVar(&initConfig, "init-config", false, "create a default configuration file if it doesn't exist")
	rootCmd.MarkFlagsMutuallyExclusive("prompt", "pick")
}

// resolveConfigPath picks the config file location.
// Priority: explicit path arg > PAIP_CONFIG env var > user config directory.
func resolveConfigPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv("PAIP_CONFIG"); env != "" {
		return env, nil
	}
	return config.DefaultPath()
}

// loadConfig loads optional .env files, then parses the config file.
func loadConfig(path string) (*config.Config, error) {
	path, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	for _, envPath := range []string{".env", filepath.Join(filepath.Dir(path), ".env")} {
		if err := loadDotEnv(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}
	return config.Load(path)
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// setupLogger logs to stderr; stdout is reserved for the answer.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// openHistory returns the SQLite history store when enabled, otherwise a NopStore.
// Failing to open the store is logged and recording is skipped.
func openHistory(cfg *config.Config, logger *slog.Logger) model.HistoryStore {
	if !cfg.History.Enabled {
		return store.NewNopStore()
	}
	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		logger.Warn("history disabled for this run", "path", cfg.History.Path, "error", err)
		return store.NewNopStore()
	}
	return s
}

func runRoot(cmd *cobra.Command, args []string) error {
	if initConfig {
		return runConfigInit(cmd, false, false)
	}

	logger := setupLogger(verbose)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	name := promptName
	if pick {
		name, err = pickPrompt(cfg, os.Stderr)
		if err != nil {
			return err
		}
	}
	var template string
	if name != "" {
		if template, err = cfg.Prompt(name); err != nil {
			return err
		}
	}

	input, err := prompt.ReadInputs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	fullInput := prompt.Assemble(template, input, message)

	if verbose {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "--- Full Input to LLM ---")
		fmt.Fprintln(errOut, fullInput)
		fmt.Fprintln(errOut, "-------------------------")
	}

	client, err := llm.New(cfg, verbose, logger)
	if err != nil {
		return err
	}

	history := openHistory(cfg, logger)
	defer history.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	answer, err := send(ctx, client, fullInput)
	recordHistory(history, client, name, fullInput, answer, err, time.Since(start), logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

// send calls the client, showing a spinner on stderr when it is a terminal and
// verbose output is off.
func send(ctx context.Context, client *llm.Client, fullInput string) (string, error) {
	if verbose || !isTerminal(os.Stderr) {
		return client.Send(ctx, fullInput)
	}
	label := fmt.Sprintf("Asking %s", client.Model())
	return tui.RunLoader(ctx, label, os.Stderr, func(ctx context.Context) (string, error) {
		return client.Send(ctx, fullInput)
	})
}

func recordHistory(h model.HistoryStore, client *llm.Client, name, fullInput, answer string, sendErr error, elapsed time.Duration, logger *slog.Logger) {
	e := model.Entry{
		Provider:    string(client.Provider()),
		Model:       client.Model(),
		PromptName:  name,
		PromptChars: len([]rune(fullInput)),
		Response:    answer,
		Elapsed:     elapsed,
	}
	if sendErr != nil {
		e.ErrorKind = llm.Kind(sendErr)
		if e.ErrorKind == "" {
			e.ErrorKind = "other"
		}
		e.Error = sendErr.Error()
	}
	if _, err := h.Record(e); err != nil {
		logger.Warn("failed to record history", "error", err)
	}
}

func pickPrompt(cfg *config.Config, out io.Writer) (string, error) {
	if !isTerminal(os.Stderr) {
		return "", errors.New("--pick needs an interactive terminal")
	}
	names := cfg.PromptNames()
	if len(names) == 0 {
		return "", errors.New("no prompts are configured")
	}
	choices := make([]tui.PromptChoice, len(names))
	for i, n := range names {
		choices[i] = tui.PromptChoice{Name: n, Text: cfg.Prompts[n]}
	}
	name, err := tui.RunPromptPicker(choices, out)
	if err != nil {
		return "", fmt.Errorf("prompt picker: %w", err)
	}
	if name == "" {
		return "", tui.ErrCancelled
	}
	return name, nil
}
