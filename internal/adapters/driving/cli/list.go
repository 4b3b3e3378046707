package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memo-labs/memo-cli/internal/core/domain"
	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
)

var (
	listLimit     int
	listJSON      bool
	listDB        string
	listScope     string
	listTags      []string
	listAfter     float64
	listBefore    float64
	listMinTokens int
	listMaxTokens int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored memories",
	Long:  `Lists memories newest first, optionally filtered by tags.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum number of documents")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	listCmd.Flags().StringVar(&listDB, "db", "", "database path or project directory")
	listCmd.Flags().StringVar(&listScope, "scope", "local", "list scope: local, global or all")
	listCmd.Flags().StringSliceVar(&listTags, "tags", nil, "only list documents carrying one of these tags")
	listCmd.Flags().Float64Var(&listAfter, "after", 0, "only documents created at or after this Unix timestamp")
	listCmd.Flags().Float64Var(&listBefore, "before", 0, "only documents created at or before this Unix timestamp")
	listCmd.Flags().IntVar(&listMinTokens, "min-tokens", 0, "only documents of at least this many tokens")
	listCmd.Flags().IntVar(&listMaxTokens, "max-tokens", 0, "only documents of at most this many tokens")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	req := driving.ListRequest{
		Location: locationPtr(listDB),
		Scope:    domain.Scope(listScope),
		Filter:   domain.Filter{Tags: listTags},
		Limit:    listLimit,
	}
	if cmd.Flags().Changed("after") {
		req.Filter.After = &listAfter
	}
	if cmd.Flags().Changed("before") {
		req.Filter.Before = &listBefore
	}
	if cmd.Flags().Changed("min-tokens") {
		req.Filter.MinTokens = &listMinTokens
	}
	if cmd.Flags().Changed("max-tokens") {
		req.Filter.MaxTokens = &listMaxTokens
	}

	docs, err := memoryService.List(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No memories stored.")
		return nil
	}

	for i := range docs {
		title := docs[i].Title
		if title == "" {
			title = snippet(docs[i].Content)
		}
		cmd.Printf("%s  %s  %s\n", docs[i].ID, formatTimestamp(docs[i].CreatedAt), title)
	}
	return nil
}
