package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	getDB   string
	getJSON bool
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a stored memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().StringVar(&getDB, "db", "", "database path or project directory")
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	doc, err := memoryService.Get(cmd.Context(), locationPtr(getDB), args[0])
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}

	if getJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printDocument(cmd, doc)
	return nil
}
