package domain

// Document represents a stored memory unit.
// It is the canonical representation persisted in a database file.
type Document struct {
	// ID is the unique identifier, assigned at creation.
	ID string

	// Content is the full text body.
	Content string

	// Title is an optional human-readable title.
	Title string

	// Tags is a set of labels, stored in insertion order.
	// Queries treat membership as a set; order is irrelevant.
	Tags []string

	// Metadata contains arbitrary key-value pairs. The engine stores
	// them verbatim and never filters or indexes on them.
	Metadata map[string]any

	// TokenCount is derived from Content by the configured tokenizer.
	// It is recomputed whenever Content changes.
	TokenCount int

	// CreatedAt is the creation time in Unix seconds (fractional).
	// Set once, never changed by updates.
	CreatedAt float64

	// UpdatedAt is the last mutation time in Unix seconds (fractional).
	// Advanced on every update, including no-op field updates.
	UpdatedAt float64
}

// SearchResult represents a single similarity search hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Score is the cosine similarity (1 - distance), higher is better.
	Score float64
}

// UpdateRequest describes a partial document update.
// Nil fields are left unchanged; non-nil fields are applied even when
// they point at an empty value, so "set tags to []" is expressible.
type UpdateRequest struct {
	// Content replaces the text body. When set, Embedding must be set too
	// and the token count is recomputed.
	Content *string

	// Title replaces the title.
	Title *string

	// Tags replaces the tag set.
	Tags *[]string

	// Metadata replaces the metadata map.
	Metadata *map[string]any

	// Embedding is the vector for the new Content. Ignored when Content
	// is nil.
	Embedding []float32
}

// Empty reports whether the request changes no fields. An empty update
// still advances UpdatedAt.
func (u UpdateRequest) Empty() bool {
	return u.Content == nil && u.Title == nil && u.Tags == nil && u.Metadata == nil
}
