package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memo-labs/memo-cli/internal/adapters/driven/tokenizer"
	"github.com/memo-labs/memo-cli/internal/core/domain"
	"github.com/memo-labs/memo-cli/internal/core/ports/driven"
)

const testDims = 3

// setupTestStore creates a store on a temporary database file.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "memo.db")
	store, err := Open(path, testDims, tokenizer.NewHeuristic())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func storeDoc(t *testing.T, s *Store, content string, tags []string, embedding []float32) string {
	t.Helper()
	id, err := s.Store(context.Background(), driven.StoreInput{
		Content: content,
		Tags:    tags,
	}, embedding)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// ==================== Open and Migration ====================

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "memo.db")

	store, err := Open(path, testDims, tokenizer.NewHeuristic())
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, path, store.Path())
}

func TestOpen_InvalidDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.db")

	_, err := Open(path, 0, tokenizer.NewHeuristic())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpen_DimensionMismatchDetectedEagerly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.db")

	store, err := Open(path, testDims, tokenizer.NewHeuristic())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening under a different configured dimensionality must fail
	// at open time, not on the first query.
	_, err = Open(path, testDims+1, tokenizer.NewHeuristic())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "dimensional")
}

func TestOpen_BusyTimeoutOnEveryConnection(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Pin two pool connections at once; each must carry the DSN pragma,
	// not only whichever connection served the schema setup.
	conn1, err := store.db.Conn(ctx)
	require.NoError(t, err)
	defer conn1.Close()
	conn2, err := store.db.Conn(ctx)
	require.NoError(t, err)
	defer conn2.Close()

	for _, conn := range []*sql.Conn{conn1, conn2} {
		var timeout int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		assert.Equal(t, 5000, timeout)
	}
}

func TestMigrate_AddsTokenCountToLegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.db")

	// Create a database laid out like the pre-token_count revision.
	legacy, err := Open(path, testDims, tokenizer.NewHeuristic())
	require.NoError(t, err)
	_, err = legacy.db.Exec(`
		CREATE TABLE legacy_documents (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			title TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at REAL NOT NULL,
			updated_at REAL NOT NULL
		);
		DROP TABLE documents;
		ALTER TABLE legacy_documents RENAME TO documents;
		INSERT INTO documents (id, content, created_at, updated_at) VALUES ('old', 'legacy row', 1.0, 1.0);
	`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	store, err := Open(path, testDims, tokenizer.NewHeuristic())
	require.NoError(t, err)
	defer store.Close()

	// The legacy row defaults to zero rather than a recomputed count.
	doc, err := store.Get(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, 0, doc.TokenCount)
}

// ==================== Round-trip ====================

func TestStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Store(ctx, driven.StoreInput{
		Content:  "buy milk",
		Title:    "groceries",
		Tags:     []string{"errand", "food"},
		Metadata: map[string]any{"source": "chat", "nested": map[string]any{"k": "v"}},
	}, []float32{1, 0, 0})
	require.NoError(t, err)

	doc, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "buy milk", doc.Content)
	assert.Equal(t, "groceries", doc.Title)
	assert.Equal(t, []string{"errand", "food"}, doc.Tags)
	assert.Equal(t, "chat", doc.Metadata["source"])
	assert.Equal(t, map[string]any{"k": "v"}, doc.Metadata["nested"])
	assert.Equal(t, tokenizer.NewHeuristic().Count("buy milk"), doc.TokenCount)
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	assert.Positive(t, doc.CreatedAt)
}

func TestStore_NilTagsAndMetadataNormalised(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id := storeDoc(t, store, "plain", nil, []float32{0, 1, 0})

	doc, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{}, doc.Tags)
	assert.Equal(t, map[string]any{}, doc.Metadata)
	assert.Empty(t, doc.Title)
}

func TestStore_WrongDimensionality(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Store(context.Background(), driven.StoreInput{Content: "x"}, []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Update ====================

func TestUpdate_PartialLeavesOtherFieldsAlone(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Store(ctx, driven.StoreInput{
		Content:  "original content",
		Title:    "before",
		Tags:     []string{"a"},
		Metadata: map[string]any{"k": "v"},
	}, []float32{1, 0, 0})
	require.NoError(t, err)

	before, err := store.Get(ctx, id)
	require.NoError(t, err)

	title := "after"
	updated, err := store.Update(ctx, id, domain.UpdateRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, before.Content, updated.Content)
	assert.Equal(t, before.Tags, updated.Tags)
	assert.Equal(t, before.Metadata, updated.Metadata)
	assert.Equal(t, before.TokenCount, updated.TokenCount)
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, before.UpdatedAt)
}

func TestUpdate_EmptyValuesAreApplied(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Store(ctx, driven.StoreInput{
		Content: "text",
		Title:   "titled",
		Tags:    []string{"a", "b"},
	}, []float32{1, 0, 0})
	require.NoError(t, err)

	emptyTitle := ""
	emptyTags := []string{}
	updated, err := store.Update(ctx, id, domain.UpdateRequest{
		Title: &emptyTitle,
		Tags:  &emptyTags,
	})
	require.NoError(t, err)

	assert.Empty(t, updated.Title)
	assert.Equal(t, []string{}, updated.Tags)
}

func TestUpdate_ContentRecomputesTokensAndReplacesEmbedding(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id := storeDoc(t, store, "short", nil, []float32{1, 0, 0})

	newContent := "a considerably longer piece of content"
	updated, err := store.Update(ctx, id, domain.UpdateRequest{
		Content:   &newContent,
		Embedding: []float32{0, 0, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, newContent, updated.Content)
	assert.Equal(t, tokenizer.NewHeuristic().Count(newContent), updated.TokenCount)

	// The document is now nearest to the new vector, not the old one.
	results, err := store.Search(ctx, driven.SearchQuery{Embedding: []float32{0, 0, 1}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].Document.ID)
	assert.InDelta(t, 1.0, results[0].Score, 0.001)

	results, err = store.Search(ctx, driven.SearchQuery{Embedding: []float32{1, 0, 0}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Less(t, results[0].Score, 0.5)
}

func TestUpdate_ContentWithoutEmbeddingRejected(t *testing.T) {
	store := setupTestStore(t)
	id := storeDoc(t, store, "text", nil, []float32{1, 0, 0})

	content := "new text"
	_, err := store.Update(context.Background(), id, domain.UpdateRequest{Content: &content})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_NoOpStillAdvancesUpdatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id := storeDoc(t, store, "text", nil, []float32{1, 0, 0})
	before, err := store.Get(ctx, id)
	require.NoError(t, err)

	updated, err := store.Update(ctx, id, domain.UpdateRequest{})
	require.NoError(t, err)
	assert.Greater(t, updated.UpdatedAt, before.UpdatedAt)
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)
}

func TestUpdate_NotFound(t *testing.T) {
	store := setupTestStore(t)

	title := "x"
	_, err := store.Update(context.Background(), "missing", domain.UpdateRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Delete ====================

func TestDelete_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id := storeDoc(t, store, "to be removed", nil, []float32{1, 0, 0})

	existed, err := store.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Neither search nor list may surface the deleted document.
	results, err := store.Search(ctx, driven.SearchQuery{Embedding: []float32{1, 0, 0}, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)

	docs, err := store.List(ctx, driven.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

// ==================== Search ====================

func TestSearch_NearestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	milk := storeDoc(t, store, "buy milk", nil, []float32{1, 0, 0})
	storeDoc(t, store, "buy eggs", nil, []float32{0.9, 0.1, 0})

	results, err := store.Search(ctx, driven.SearchQuery{Embedding: []float32{1, 0, 0}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, milk, results[0].Document.ID)
	assert.Equal(t, "buy milk", results[0].Document.Content)
	assert.InDelta(t, 1.0, results[0].Score, 0.001)
}

func TestSearch_ScoreMonotonicallyDecreasing(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	storeDoc(t, store, "a", nil, []float32{1, 0, 0})
	storeDoc(t, store, "b", nil, []float32{0.8, 0.2, 0})
	storeDoc(t, store, "c", nil, []float32{0.5, 0.5, 0})
	storeDoc(t, store, "d", nil, []float32{0, 1, 0})

	results, err := store.Search(ctx, driven.SearchQuery{Embedding: []float32{1, 0, 0}, Limit: 4})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearch_ScoresIgnoreVectorMagnitude(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Similarity is directional: scaling either side of the comparison
	// must not move the score.
	id := storeDoc(t, store, "scaled", nil, []float32{0, 0, 2})

	results, err := store.Search(ctx, driven.SearchQuery{Embedding: []float32{0, 0, 5}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].Document.ID)
	assert.InDelta(t, 1.0, results[0].Score, 0.001)

	results, err = store.Search(ctx, driven.SearchQuery{Embedding: []float32{3, 0, 0}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.0, results[0].Score, 0.001)
}

func TestSearch_MinScoreInclusive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	storeDoc(t, store, "aligned", nil, []float32{1, 0, 0})
	storeDoc(t, store, "orthogonal", nil, []float32{0, 1, 0})

	results, err := store.Search(ctx, driven.SearchQuery{
		Embedding: []float32{1, 0, 0},
		Limit:     10,
		MinScore:  floatPtr(0.9),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "aligned", results[0].Document.Content)
}

func TestSearch_TagORSemantics(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	withA := storeDoc(t, store, "doc a", []string{"a"}, []float32{1, 0, 0})
	withB := storeDoc(t, store, "doc b", []string{"b"}, []float32{0.9, 0.1, 0})
	storeDoc(t, store, "untagged", nil, []float32{0.8, 0.2, 0})

	results, err := store.Search(ctx, driven.SearchQuery{
		Embedding: []float32{1, 0, 0},
		Limit:     10,
		Filter:    domain.Filter{Tags: []string{"a", "b"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	ids := []string{results[0].Document.ID, results[1].Document.ID}
	assert.Contains(t, ids, withA)
	assert.Contains(t, ids, withB)
}

func TestSearch_TokenAndTimeFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	short := storeDoc(t, store, "tiny", nil, []float32{1, 0, 0})
	long := storeDoc(t, store, "a much longer document body with many more tokens in it", nil, []float32{0.9, 0.1, 0})

	results, err := store.Search(ctx, driven.SearchQuery{
		Embedding: []float32{1, 0, 0},
		Limit:     10,
		Filter:    domain.Filter{MinTokens: intPtr(5)},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, long, results[0].Document.ID)

	results, err = store.Search(ctx, driven.SearchQuery{
		Embedding: []float32{1, 0, 0},
		Limit:     10,
		Filter:    domain.Filter{MaxTokens: intPtr(4)},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, short, results[0].Document.ID)

	doc, err := store.Get(ctx, short)
	require.NoError(t, err)

	results, err = store.Search(ctx, driven.SearchQuery{
		Embedding: []float32{1, 0, 0},
		Limit:     10,
		Filter:    domain.Filter{After: &doc.CreatedAt, Before: &doc.CreatedAt},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, short, results[0].Document.ID)
}

func TestSearch_WrongQueryDimensionality(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Search(context.Background(), driven.SearchQuery{Embedding: []float32{1, 0}, Limit: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ==================== List ====================

func TestList_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := storeDoc(t, store, "first", nil, []float32{1, 0, 0})
	second := storeDoc(t, store, "second", nil, []float32{0, 1, 0})
	third := storeDoc(t, store, "third", nil, []float32{0, 0, 1})

	docs, err := store.List(ctx, driven.ListQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, third, docs[0].ID)
	assert.Equal(t, second, docs[1].ID)
	assert.Equal(t, first, docs[2].ID)
}

func TestList_TagFilterAndLimit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	storeDoc(t, store, "plain one", nil, []float32{1, 0, 0})
	tagged := storeDoc(t, store, "tagged", []string{"keep"}, []float32{0, 1, 0})
	storeDoc(t, store, "plain two", nil, []float32{0, 0, 1})

	docs, err := store.List(ctx, driven.ListQuery{
		Filter: domain.Filter{Tags: []string{"keep"}},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, tagged, docs[0].ID)

	docs, err = store.List(ctx, driven.ListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestList_TokenBoundsPushedDown(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	storeDoc(t, store, "tiny", nil, []float32{1, 0, 0})
	long := storeDoc(t, store, "a much longer document body with many more tokens", nil, []float32{0, 1, 0})

	docs, err := store.List(ctx, driven.ListQuery{
		Filter: domain.Filter{MinTokens: intPtr(5)},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, long, docs[0].ID)
}
