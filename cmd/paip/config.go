package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/paip/internal/config"
	"github.com/amishk599/paip/internal/tui"
)

var (
	initInteractive bool
	initForce       bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration subcommands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long:  "Writes the default configuration file. With --interactive, asks for the API key and model first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd, initInteractive, initForce)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cfgPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "prompt for the API key and model")
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing configuration file")
	configCmd.AddCommand(configInitCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, interactive, force bool) error {
	path, err := resolveConfigPath(cfgPath)
	if err != nil {
		return err
	}

	var key, model string
	if interactive {
		answers, err := tui.RunInitWizard(config.DefaultModel)
		if err != nil {
			return err
		}
		key, model = answers.Key, answers.Model
	}

	if err := config.WriteDefault(path, key, model, force); err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%w; use `paip config init --force` to overwrite it", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Default config file created at: %s\n", path)
	if key == "" {
		fmt.Fprintln(out, "Please edit the config file with your LLM provider details.")
	}
	return nil
}
