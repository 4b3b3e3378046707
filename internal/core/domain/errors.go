package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document does not exist.
	// Callers should treat this as a normal outcome, not a fault.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, rejected
	// before any I/O (e.g. an embedding of the wrong dimensionality).
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageUnavailable indicates a database file could not be
	// opened or initialised (permissions, corruption, vector table
	// dimensionality mismatch). Scoped to a single path.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Store and semantic search are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
