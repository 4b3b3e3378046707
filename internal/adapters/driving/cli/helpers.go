package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/memo-labs/memo-cli/internal/core/domain"
)

// locationPtr converts the --db flag value into the optional location
// the service layer expects.
func locationPtr(db string) *string {
	if db == "" {
		return nil
	}
	return &db
}

// parseMetadata converts repeated key=value flag values into a
// metadata map.
func parseMetadata(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q, expected key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}

// maskAPIKey shows only the first and last few characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// formatTimestamp renders fractional Unix seconds as local time.
func formatTimestamp(ts float64) string {
	return time.Unix(int64(ts), 0).Local().Format("2006-01-02 15:04")
}

// printDocument writes one document in the long form used by get.
func printDocument(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("ID:       %s\n", doc.ID)
	if doc.Title != "" {
		cmd.Printf("Title:    %s\n", doc.Title)
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("Tags:     %s\n", strings.Join(doc.Tags, ", "))
	}
	cmd.Printf("Tokens:   %d\n", doc.TokenCount)
	cmd.Printf("Created:  %s\n", formatTimestamp(doc.CreatedAt))
	cmd.Printf("Updated:  %s\n", formatTimestamp(doc.UpdatedAt))
	for key, value := range doc.Metadata {
		cmd.Printf("Meta:     %s = %v\n", key, value)
	}
	cmd.Println()
	cmd.Println(doc.Content)
}
