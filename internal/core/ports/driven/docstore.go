// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/memo-labs/memo-cli/internal/core/domain"
)

// StoreInput carries the caller-supplied fields of a new document.
// Derived fields (id, token count, timestamps) are assigned by the store.
type StoreInput struct {
	Content  string
	Title    string
	Tags     []string
	Metadata map[string]any
}

// SearchQuery describes a filtered similarity search against one database.
type SearchQuery struct {
	// Embedding is the query vector. Must match the database's
	// configured dimensionality.
	Embedding []float32

	// Limit is the maximum number of results.
	Limit int

	// MinScore drops results scoring below the bound (inclusive: a
	// result is kept when score >= MinScore). Nil means no bound.
	MinScore *float64

	// Filter holds the post-filters applied to candidate documents.
	Filter domain.Filter
}

// ListQuery describes a filtered listing against one database, ordered
// by creation time descending.
type ListQuery struct {
	Filter domain.Filter
	Limit  int
}

// DocumentStore persists documents and their embeddings in a single
// database file. Backed by SQLite with the sqlite-vec extension.
type DocumentStore interface {
	// Store inserts a new document and its embedding in one durable
	// unit and returns the generated id.
	Store(ctx context.Context, in StoreInput, embedding []float32) (string, error)

	// Get retrieves a document by id. Returns domain.ErrNotFound when
	// the id does not exist.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Update applies a partial update and returns the updated document.
	// Returns domain.ErrNotFound without mutating anything when the id
	// does not exist.
	Update(ctx context.Context, id string, upd domain.UpdateRequest) (*domain.Document, error)

	// Delete removes a document and its embedding. Returns whether a
	// row existed; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) (bool, error)

	// Search runs a k-nearest-neighbour query and applies post-filters.
	// Results are ordered by score descending.
	Search(ctx context.Context, q SearchQuery) ([]domain.SearchResult, error)

	// List returns documents ordered by creation time descending.
	List(ctx context.Context, q ListQuery) ([]domain.Document, error)
}

// StoreRegistry hands out one DocumentStore per resolved database path,
// creating and schema-initialising the database on first use. Safe for
// concurrent first access; a failed open is not cached.
type StoreRegistry interface {
	ForPath(path string) (DocumentStore, error)
}
