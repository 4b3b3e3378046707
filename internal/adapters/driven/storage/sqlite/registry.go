package sqlite

import (
	"sync"

	"github.com/memo-labs/memo-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.StoreRegistry = (*Registry)(nil)

// Registry caches one open Store per database path for the lifetime of
// the process. First access to a path opens and schema-initialises the
// database; concurrent first access is serialised per path so no two
// callers double-initialise the same file. A failed open is not
// cached, so later calls retry.
type Registry struct {
	dims      int
	tokenizer driven.Tokenizer

	mu     sync.Mutex
	stores map[string]*Store
	locks  map[string]*sync.Mutex
}

// NewRegistry creates a registry for databases of the given vector
// dimensionality.
func NewRegistry(dims int, tokenizer driven.Tokenizer) *Registry {
	return &Registry{
		dims:      dims,
		tokenizer: tokenizer,
		stores:    make(map[string]*Store),
		locks:     make(map[string]*sync.Mutex),
	}
}

// ForPath returns the cached store for the path, opening it on first
// use. Two different paths have no resource coupling and open in
// parallel.
func (r *Registry) ForPath(path string) (driven.DocumentStore, error) {
	r.mu.Lock()
	if s, ok := r.stores[path]; ok {
		r.mu.Unlock()
		return s, nil
	}
	lock, ok := r.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[path] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	// Another caller may have opened the store while we waited.
	r.mu.Lock()
	if s, ok := r.stores[path]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	s, err := Open(path, r.dims, r.tokenizer)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.stores[path] = s
	r.mu.Unlock()
	return s, nil
}

// Close closes every cached store. The registry normally lives for the
// process lifetime; this exists for tests and orderly shutdown.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for path, s := range r.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.stores, path)
	}
	return firstErr
}
