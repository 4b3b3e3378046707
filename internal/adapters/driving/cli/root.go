// Package cli implements the command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/memo-labs/memo-cli/internal/core/ports/driven"
	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
	"github.com/memo-labs/memo-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired in by the composition root before Execute runs.
var (
	memoryService    driving.MemoryService
	configStore      driven.ConfigStore
	embeddingService driven.EmbeddingService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "memo",
	Short: "Local semantic memory",
	Long: `Memo stores notes and snippets in local SQLite databases and finds
them back by meaning rather than keywords. Each database file is
self-contained; searches can span the project database and the global
one in a single query.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices wires the application services into the command tree.
func SetServices(memory driving.MemoryService, config driven.ConfigStore, embedder driven.EmbeddingService) {
	memoryService = memory
	configStore = config
	embeddingService = embedder
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
