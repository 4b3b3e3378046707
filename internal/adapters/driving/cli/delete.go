package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteDB string

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteDB, "db", "", "database path or project directory")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	existed, err := memoryService.Delete(cmd.Context(), locationPtr(deleteDB), args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if !existed {
		cmd.Printf("No memory with id %s\n", args[0])
		return nil
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}
