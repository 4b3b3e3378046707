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
	searchLimit     int
	searchJSON      bool
	searchDB        string
	searchScope     string
	searchTags      []string
	searchMinScore  float64
	searchAfter     float64
	searchBefore    float64
	searchMinTokens int
	searchMaxTokens int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search memories by meaning",
	Long: `Performs semantic search over stored memories. The query is embedded
and compared against stored documents by cosine similarity.

Scopes:
  local   - the database selected by --db (default)
  global  - the global database only
  all     - local and global merged`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchDB, "db", "", "database path or project directory")
	searchCmd.Flags().StringVar(&searchScope, "scope", "local", "search scope: local, global or all")
	searchCmd.Flags().StringSliceVar(&searchTags, "tags", nil, "only return documents carrying one of these tags")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "minimum similarity score (0-1)")
	searchCmd.Flags().Float64Var(&searchAfter, "after", 0, "only documents created at or after this Unix timestamp")
	searchCmd.Flags().Float64Var(&searchBefore, "before", 0, "only documents created at or before this Unix timestamp")
	searchCmd.Flags().IntVar(&searchMinTokens, "min-tokens", 0, "only documents of at least this many tokens")
	searchCmd.Flags().IntVar(&searchMaxTokens, "max-tokens", 0, "only documents of at most this many tokens")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	req := driving.SearchRequest{
		Location: locationPtr(searchDB),
		Scope:    domain.Scope(searchScope),
		Query:    args[0],
		Limit:    searchLimit,
		Filter:   domain.Filter{Tags: searchTags},
	}
	if cmd.Flags().Changed("min-score") {
		req.MinScore = &searchMinScore
	}
	if cmd.Flags().Changed("after") {
		req.Filter.After = &searchAfter
	}
	if cmd.Flags().Changed("before") {
		req.Filter.Before = &searchBefore
	}
	if cmd.Flags().Changed("min-tokens") {
		req.Filter.MinTokens = &searchMinTokens
	}
	if cmd.Flags().Changed("max-tokens") {
		req.Filter.MaxTokens = &searchMaxTokens
	}

	results, err := memoryService.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Document.Title
		if title == "" {
			title = results[i].Document.ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		cmd.Printf("      %s\n", snippet(results[i].Document.Content))
		cmd.Println()
	}

	return nil
}

// snippet truncates content to one display line.
func snippet(content string) string {
	const maxLen = 100
	for i, r := range content {
		if r == '\n' {
			return content[:i] + "..."
		}
		if i >= maxLen {
			return content[:i] + "..."
		}
	}
	return content
}
