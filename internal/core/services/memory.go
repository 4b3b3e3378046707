// Package services implements the core driving ports: path resolution,
// document operations and federated search across database files.
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/memo-labs/memo-cli/internal/core/domain"
	"github.com/memo-labs/memo-cli/internal/core/ports/driven"
	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
	"github.com/memo-labs/memo-cli/internal/logger"
)

// Ensure MemoryService implements the interface.
var _ driving.MemoryService = (*MemoryService)(nil)

// MemoryService implements the caller-facing document operations. Each
// operation resolves a path (or set of paths), obtains a connection
// from the registry, and executes against the document store.
// Federated reads fan out concurrently and merge best-effort: a path
// that fails contributes no results instead of failing the call.
type MemoryService struct {
	resolver *Resolver
	registry driven.StoreRegistry
	embedder driven.EmbeddingService
}

// NewMemoryService creates a new memory service. The embedder may be
// nil, which disables store, content updates and search.
func NewMemoryService(
	resolver *Resolver,
	registry driven.StoreRegistry,
	embedder driven.EmbeddingService,
) *MemoryService {
	return &MemoryService{
		resolver: resolver,
		registry: registry,
		embedder: embedder,
	}
}

// storeFor resolves a logical location and opens its document store.
func (s *MemoryService) storeFor(location *string) (driven.DocumentStore, string, error) {
	path := s.resolver.Resolve(location)
	store, err := s.registry.ForPath(path)
	if err != nil {
		return nil, path, err
	}
	return store, path, nil
}

// Store persists a new document and returns its id.
func (s *MemoryService) Store(ctx context.Context, req driving.StoreRequest) (string, error) {
	if strings.TrimSpace(req.Content) == "" {
		return "", fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return "", domain.ErrEmbeddingUnavailable
	}

	embedding, err := s.embedder.Embed(ctx, req.Content)
	if err != nil {
		return "", fmt.Errorf("embedding content: %w", err)
	}

	store, path, err := s.storeFor(req.Location)
	if err != nil {
		return "", err
	}
	logger.Debug("storing document in %s", path)

	return store.Store(ctx, driven.StoreInput{
		Content:  req.Content,
		Title:    req.Title,
		Tags:     req.Tags,
		Metadata: req.Metadata,
	}, embedding)
}

// Get retrieves a document by id from one database.
func (s *MemoryService) Get(ctx context.Context, location *string, id string) (*domain.Document, error) {
	store, _, err := s.storeFor(location)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, id)
}

// Update applies a partial update. When content changes, a fresh
// embedding is generated before the store is touched.
func (s *MemoryService) Update(ctx context.Context, id string, req driving.UpdateRequest) (*domain.Document, error) {
	upd := domain.UpdateRequest{
		Content:  req.Content,
		Title:    req.Title,
		Tags:     req.Tags,
		Metadata: req.Metadata,
	}
	if upd.Empty() {
		logger.Debug("update %s: no field changes, touching timestamp only", id)
	}

	if req.Content != nil {
		if s.embedder == nil {
			return nil, domain.ErrEmbeddingUnavailable
		}
		embedding, err := s.embedder.Embed(ctx, *req.Content)
		if err != nil {
			return nil, fmt.Errorf("embedding content: %w", err)
		}
		upd.Embedding = embedding
	}

	store, _, err := s.storeFor(req.Location)
	if err != nil {
		return nil, err
	}
	return store.Update(ctx, id, upd)
}

// Delete removes a document. Returns whether it existed.
func (s *MemoryService) Delete(ctx context.Context, location *string, id string) (bool, error) {
	store, _, err := s.storeFor(location)
	if err != nil {
		return false, err
	}
	return store.Delete(ctx, id)
}

// Search finds documents by semantic similarity.
func (s *MemoryService) Search(ctx context.Context, req driving.SearchRequest) ([]domain.SearchResult, error) {
	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return []domain.SearchResult{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Search")
	logger.Debug("query: %q scope: %s", req.Query, req.Scope.OrDefault())

	embedding, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	query := driven.SearchQuery{
		Embedding: embedding,
		Limit:     limit,
		MinScore:  req.MinScore,
		Filter:    req.Filter,
	}

	paths := s.scopePaths(req.Location, req.Scope)
	if len(paths) == 1 {
		store, err := s.registry.ForPath(paths[0])
		if err != nil {
			return nil, err
		}
		return store.Search(ctx, query)
	}
	return s.searchMulti(ctx, paths, query), nil
}

// List returns documents ordered by creation time descending.
func (s *MemoryService) List(ctx context.Context, req driving.ListRequest) ([]domain.Document, error) {
	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := driven.ListQuery{
		Filter: req.Filter,
		Limit:  limit,
	}

	paths := s.scopePaths(req.Location, req.Scope)
	if len(paths) == 1 {
		store, err := s.registry.ForPath(paths[0])
		if err != nil {
			return nil, err
		}
		return store.List(ctx, query)
	}
	return s.listMulti(ctx, paths, query), nil
}

// scopePaths resolves the set of database paths a scoped read targets.
// The set is deduplicated before dispatch, so a logical scope is never
// queried twice.
func (s *MemoryService) scopePaths(location *string, scope domain.Scope) []string {
	switch scope.OrDefault() {
	case domain.ScopeGlobal:
		return []string{s.resolver.DefaultPath()}
	case domain.ScopeAll:
		return s.resolver.ResolveSet(location, true)
	default:
		return []string{s.resolver.Resolve(location)}
	}
}

// searchMulti dispatches the search against every path concurrently
// and merges the per-path results. A failing path is logged and
// contributes nothing; it never aborts the merge.
func (s *MemoryService) searchMulti(ctx context.Context, paths []string, q driven.SearchQuery) []domain.SearchResult {
	perPath := make([][]domain.SearchResult, len(paths))

	var wg sync.WaitGroup
	wg.Add(len(paths))
	for i, path := range paths {
		go func(i int, path string) {
			defer wg.Done()
			store, err := s.registry.ForPath(path)
			if err != nil {
				logger.Warn("federated search: opening %s: %v", path, err)
				return
			}
			results, err := store.Search(ctx, q)
			if err != nil {
				logger.Warn("federated search: querying %s: %v", path, err)
				return
			}
			perPath[i] = results
		}(i, path)
	}
	wg.Wait()

	limit := q.Limit
	seen := make(map[string]bool)
	merged := make([]domain.SearchResult, 0, limit)
	for _, results := range perPath {
		for _, r := range results {
			if seen[r.Document.ID] {
				continue
			}
			seen[r.Document.ID] = true
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	logger.Debug("federated search: merged %d results from %d paths", len(merged), len(paths))
	return merged
}

// listMulti is the listing counterpart of searchMulti, ordered by
// creation time descending after the merge.
func (s *MemoryService) listMulti(ctx context.Context, paths []string, q driven.ListQuery) []domain.Document {
	perPath := make([][]domain.Document, len(paths))

	var wg sync.WaitGroup
	wg.Add(len(paths))
	for i, path := range paths {
		go func(i int, path string) {
			defer wg.Done()
			store, err := s.registry.ForPath(path)
			if err != nil {
				logger.Warn("federated list: opening %s: %v", path, err)
				return
			}
			docs, err := store.List(ctx, q)
			if err != nil {
				logger.Warn("federated list: querying %s: %v", path, err)
				return
			}
			perPath[i] = docs
		}(i, path)
	}
	wg.Wait()

	limit := q.Limit
	seen := make(map[string]bool)
	merged := make([]domain.Document, 0, limit)
	for _, docs := range perPath {
		for _, doc := range docs {
			if seen[doc.ID] {
				continue
			}
			seen[doc.ID] = true
			merged = append(merged, doc)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt > merged[j].CreatedAt
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	logger.Debug("federated list: merged %d documents from %d paths", len(merged), len(paths))
	return merged
}

// Default limits applied when a request carries none. The per-path
// stores apply the same defaults underneath as a safety net.
const (
	DefaultSearchLimit = 10
	DefaultListLimit   = 100
)
