// Package driving provides interfaces for primary (inbound) ports.
package driving

import (
	"context"

	"github.com/memo-labs/memo-cli/internal/core/domain"
)

// StoreRequest carries the fields of a new document plus its target
// database location.
type StoreRequest struct {
	// Location is the logical database location: nil for the global
	// database, a directory, or an explicit .db file path.
	Location *string

	Content  string
	Title    string
	Tags     []string
	Metadata map[string]any
}

// UpdateRequest is a partial update. Nil fields are left unchanged;
// non-nil empty values are applied. When Content is set, the service
// recomputes the embedding and token count.
type UpdateRequest struct {
	Location *string

	Content  *string
	Title    *string
	Tags     *[]string
	Metadata *map[string]any
}

// SearchRequest describes a semantic search.
type SearchRequest struct {
	Location *string
	Scope    domain.Scope

	// Query is the text to embed and search by.
	Query string

	// Limit is the maximum number of results (default applied by the
	// service when <= 0).
	Limit int

	// MinScore drops results below the bound (inclusive).
	MinScore *float64

	Filter domain.Filter
}

// ListRequest describes a filtered listing.
type ListRequest struct {
	Location *string
	Scope    domain.Scope
	Filter   domain.Filter
	Limit    int
}

// MemoryService exposes the document store to external actors. It
// resolves logical locations to database files, obtains connections,
// generates embeddings, and federates reads across databases.
type MemoryService interface {
	// Store persists a new document and returns its id.
	Store(ctx context.Context, req StoreRequest) (string, error)

	// Get retrieves a document by id from one database.
	Get(ctx context.Context, location *string, id string) (*domain.Document, error)

	// Update applies a partial update and returns the updated document.
	// Returns domain.ErrNotFound when the id does not exist.
	Update(ctx context.Context, id string, req UpdateRequest) (*domain.Document, error)

	// Delete removes a document. Returns whether it existed.
	Delete(ctx context.Context, location *string, id string) (bool, error)

	// Search finds documents by semantic similarity, federating across
	// databases when the scope requires it.
	Search(ctx context.Context, req SearchRequest) ([]domain.SearchResult, error)

	// List returns documents ordered by creation time descending,
	// federating across databases when the scope requires it.
	List(ctx context.Context, req ListRequest) ([]domain.Document, error)
}
