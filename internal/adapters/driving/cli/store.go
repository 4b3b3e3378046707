package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
)

var (
	storeTitle string
	storeTags  []string
	storeMeta  []string
	storeDB    string
)

var storeCmd = &cobra.Command{
	Use:   "store [content]",
	Short: "Store a new memory",
	Long: `Stores a piece of text together with its embedding so it can be
found back by meaning. Use --db to write to a project database instead
of the global one.`,
	Args: cobra.ExactArgs(1),
	RunE: runStore,
}

func init() {
	storeCmd.Flags().StringVarP(&storeTitle, "title", "t", "", "optional title")
	storeCmd.Flags().StringSliceVar(&storeTags, "tags", nil, "comma-separated tags")
	storeCmd.Flags().StringArrayVarP(&storeMeta, "meta", "m", nil, "metadata as key=value (repeatable)")
	storeCmd.Flags().StringVar(&storeDB, "db", "", "target database path or project directory")
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	meta, err := parseMetadata(storeMeta)
	if err != nil {
		return err
	}

	id, err := memoryService.Store(cmd.Context(), driving.StoreRequest{
		Location: locationPtr(storeDB),
		Content:  args[0],
		Title:    storeTitle,
		Tags:     storeTags,
		Metadata: meta,
	})
	if err != nil {
		return fmt.Errorf("store failed: %w", err)
	}

	cmd.Printf("Stored %s\n", id)
	return nil
}
