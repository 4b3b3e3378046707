package driven

// Tokenizer counts tokens in a text. Counts must be deterministic: the
// same scheme is applied at store and update time so stored counts stay
// comparable across documents.
type Tokenizer interface {
	// Count returns a non-negative token count for the text.
	Count(text string) int
}
