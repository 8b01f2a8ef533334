// Package main provides the mindmap CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// configPath is the --config flag shared by every command.
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mindmap",
	Short: "Explore related words as a growing mind map",
	Long: `mindmap asks a language model for words related to a seed word and
draws them as a force-directed map in the terminal. Click or press enter on
any word to grow the map from it.

Provider keys are read from GEMINI_API_KEY or OPENAI_API_KEY (a .env file in
the working directory is honoured).`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	// Load .env file if present (for provider API keys)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mindmap/config.toml)")
}
