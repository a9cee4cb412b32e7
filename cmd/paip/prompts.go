package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts [name]",
	Short: "List configured prompts, or print one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPrompts,
}

func init() {
	rootCmd.AddCommand(promptsCmd)
}

func runPrompts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		text, err := cfg.Prompt(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}

	names := cfg.PromptNames()
	if len(names) == 0 {
		fmt.Fprintln(out, "No prompts configured.")
		return nil
	}

	fmt.Fprintf(out, "%-20s %s\n", "Prompt", "Text")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	for _, n := range names {
		fmt.Fprintf(out, "%-20s %s\n", n, truncate(oneLine(cfg.Prompts[n]), 51))
	}
	fmt.Fprintf(out, "\nTotal: %d prompts\n", len(names))
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
