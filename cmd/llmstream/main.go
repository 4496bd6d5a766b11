// Command llmstream sends one conversation turn to a hosted model and prints
// the text and reasoning chunks it answers with.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/llmstream/errors"
	"github.com/kbukum/llmstream/version"
)

// Exit codes.
const (
	exitError         = 1
	exitConfiguration = 2
	exitBackend       = 3
	exitNetwork       = 4
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   version.Product,
		Short: "Stream a model response as text and reasoning chunks",
		Long: `llmstream flattens a prompt into a single request to a Clarifai-hosted
model and prints the response split into text and reasoning chunks.

Examples:
  llmstream stream "explain goroutines"
  llmstream stream --system "Be brief." --show-reasoning "why is the sky blue"
  llmstream models
  llmstream version`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		Version:           version.Short(),
	}
	root.PersistentFlags().String("config", "", "Config file (default: searched in ./config.yml, ./config/, user config dir)")
	root.PersistentFlags().String("env-file", "", "Env file to load before reading the environment")

	root.AddCommand(newStreamCmd(), newModelsCmd(), newVersionCmd())
	return root
}

func exitCode(err error) int {
	switch {
	case errors.IsConfiguration(err):
		return exitConfiguration
	case errors.IsBackend(err):
		return exitBackend
	case errors.IsNetwork(err):
		return exitNetwork
	default:
		return exitError
	}
}
