// Package tokenizer provides a deterministic heuristic token counter.
package tokenizer

import (
	"unicode/utf8"

	"github.com/memo-labs/memo-cli/internal/core/ports/driven"
)

// Ensure Heuristic implements the interface.
var _ driven.Tokenizer = (*Heuristic)(nil)

// CharsPerToken is the assumed average characters per token. This
// matches the rule of thumb published for the OpenAI tokenizers; the
// count is a filterable size proxy, not an exact model token count.
const CharsPerToken = 4

// Heuristic counts tokens as runes divided by CharsPerToken, rounded
// up. The same scheme is applied at store and update time, so counts
// stay comparable across documents.
type Heuristic struct{}

// NewHeuristic creates a new heuristic tokenizer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Count returns the token count for the text. Empty text counts zero.
func (*Heuristic) Count(text string) int {
	runes := utf8.RuneCountInString(text)
	if runes == 0 {
		return 0
	}
	return (runes + CharsPerToken - 1) / CharsPerToken
}
