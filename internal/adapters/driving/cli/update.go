package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
)

var (
	updateContent string
	updateTitle   string
	updateTags    []string
	updateMeta    []string
	updateDB      string
)

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a stored memory",
	Long: `Updates the given fields of a memory and leaves the rest untouched.
Changing the content re-embeds the document. Passing an empty value
clears the field:

  memo update 3f2a... --title ""`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateContent, "content", "c", "", "replacement content")
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "replacement title")
	updateCmd.Flags().StringSliceVar(&updateTags, "tags", nil, "replacement tags")
	updateCmd.Flags().StringArrayVarP(&updateMeta, "meta", "m", nil, "replacement metadata as key=value (repeatable)")
	updateCmd.Flags().StringVar(&updateDB, "db", "", "database path or project directory")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	// Only flags the caller actually set participate in the update, so
	// an unset flag never clears a field.
	req := driving.UpdateRequest{Location: locationPtr(updateDB)}
	if cmd.Flags().Changed("content") {
		req.Content = &updateContent
	}
	if cmd.Flags().Changed("title") {
		req.Title = &updateTitle
	}
	if cmd.Flags().Changed("tags") {
		req.Tags = &updateTags
	}
	if cmd.Flags().Changed("meta") {
		meta, err := parseMetadata(updateMeta)
		if err != nil {
			return err
		}
		if meta == nil {
			meta = map[string]any{}
		}
		req.Metadata = &meta
	}

	doc, err := memoryService.Update(cmd.Context(), args[0], req)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	cmd.Printf("Updated %s\n", doc.ID)
	return nil
}
