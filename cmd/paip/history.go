package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/paip/internal/config"
	"github.com/amishk599/paip/internal/model"
	"github.com/amishk599/paip/internal/store"
)

var (
	historyLimit     int
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent requests",
	Long:  "Lists requests recorded while history.enabled is true in the configuration.",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one recorded request in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete recorded requests",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	historyClearCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "only delete entries older than this (e.g. 720h); 0 deletes everything")
	historyCmd.AddCommand(historyShowCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistoryForRead opens the history database if it exists. It returns nil
// and prints a hint when there is nothing to read.
func openHistoryForRead(cfg *config.Config, out io.Writer) (*store.SQLiteStore, error) {
	if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
		if cfg.History.Enabled {
			fmt.Fprintln(out, "No history recorded yet.")
		} else {
			fmt.Fprintln(out, "History is disabled. Set history.enabled: true in the config file to record requests.")
		}
		return nil, nil
	}
	return store.NewSQLiteStore(cfg.History.Path)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	s, err := openHistoryForRead(cfg, out)
	if err != nil || s == nil {
		return err
	}
	defer s.Close()

	entries, err := s.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-16s %-20s %-12s %-8s %s\n", "ID", "When", "Model", "Prompt", "Status", "Answer")
	fmt.Fprintln(out, strings.Repeat("─", 96))
	for _, e := range entries {
		status, text := "ok", e.Response
		if e.Failed() {
			status, text = e.ErrorKind, e.Error
		}
		name := e.PromptName
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(out, "%-6d %-16s %-20s %-12s %-8s %s\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04"), truncate(e.Model, 20), truncate(name, 12), status, truncate(oneLine(text), 40))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid history id %q", args[0])
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	s, err := openHistoryForRead(cfg, out)
	if err != nil || s == nil {
		return err
	}
	defer s.Close()

	e, err := s.Get(id)
	if err != nil {
		return err
	}
	printEntry(out, e)
	return nil
}

func printEntry(out io.Writer, e model.Entry) {
	fmt.Fprintf(out, "ID:       %d\n", e.ID)
	fmt.Fprintf(out, "When:     %s\n", e.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Provider: %s\n", e.Provider)
	fmt.Fprintf(out, "Model:    %s\n", e.Model)
	if e.PromptName != "" {
		fmt.Fprintf(out, "Prompt:   %s\n", e.PromptName)
	}
	fmt.Fprintf(out, "Input:    %d chars\n", e.PromptChars)
	fmt.Fprintf(out, "Elapsed:  %s\n", e.Elapsed)
	if e.Failed() {
		fmt.Fprintf(out, "Error:    [%s] %s\n", e.ErrorKind, e.Error)
		return
	}
	fmt.Fprintf(out, "\n%s\n", e.Response)
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	s, err := openHistoryForRead(cfg, out)
	if err != nil || s == nil {
		return err
	}
	defer s.Close()

	n, err := s.Cleanup(historyOlderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d history entries.\n", n)
	return nil
}
