// Package sqlite persists documents and their embeddings in SQLite
// database files, using the sqlite-vec extension for cosine-distance
// nearest-neighbour queries.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces" // vec0 extension
	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver" // sqlite3 database/sql driver

	"github.com/memo-labs/memo-cli/internal/core/domain"
	"github.com/memo-labs/memo-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// searchOverfetchFactor multiplies the KNN k when post-filters are
// active, to compensate for filter rejection without a full scan.
// Because k is a fixed multiple rather than adaptively re-queried, a
// search with very selective filters can return fewer than limit
// results even when more matching documents exist. This is an accepted
// approximation; the alternative is unbounded re-querying.
const searchOverfetchFactor = 5

// listOverfetchFactor multiplies the list fetch size when a tag filter
// is active. Tags are stored as a JSON array and cannot be pushed down
// as an indexed predicate, so they are filtered in-process. The same
// approximation caveat as searchOverfetchFactor applies.
const listOverfetchFactor = 3

// DefaultSearchLimit bounds searches that pass no explicit limit.
const DefaultSearchLimit = 10

// DefaultListLimit bounds listings that pass no explicit limit.
const DefaultListLimit = 100

var vecDimsPattern = regexp.MustCompile(`FLOAT\[(\d+)\]`)

// Store provides document CRUD, filtered similarity search and
// filtered listing against one database file.
type Store struct {
	db        *sql.DB
	path      string
	dims      int
	tokenizer driven.Tokenizer
}

// Open opens or creates the database file at path, enables write-ahead
// logging with a bounded lock-wait timeout, and runs schema creation
// and migration. Failures wrap domain.ErrStorageUnavailable.
func Open(path string, dims int, tokenizer driven.Tokenizer) (*Store, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be positive, got %d", domain.ErrInvalidInput, dims)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: creating database directory: %v", domain.ErrStorageUnavailable, err)
	}

	// Pragmas go in the DSN so every pooled connection gets them, not
	// just the one that happens to serve a PRAGMA statement.
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database %s: %v", domain.ErrStorageUnavailable, path, err)
	}

	s := &Store{
		db:        db,
		path:      path,
		dims:      dims,
		tokenizer: tokenizer,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: initialising schema on %s: %v", domain.ErrStorageUnavailable, path, err)
	}

	if err := s.checkDimensions(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate creates the document table and vector index if absent, then
// applies forward-only column migrations for databases created by
// earlier schema revisions.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			title TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			metadata TEXT NOT NULL DEFAULT '{}',
			token_count INTEGER NOT NULL DEFAULT 0,
			created_at REAL NOT NULL,
			updated_at REAL NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(created_at);
		CREATE INDEX IF NOT EXISTS idx_documents_tokens ON documents(token_count);
	`)
	if err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}

	// vec0 keys rows by an integer primary key, so embeddings are
	// addressed by the document's rowid rather than its text id.
	_, err = s.db.Exec(fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS document_embeddings USING vec0(
			doc_id INTEGER PRIMARY KEY,
			embedding FLOAT[%d]
		)
	`, s.dims))
	if err != nil {
		return fmt.Errorf("creating vector table: %w", err)
	}

	// token_count arrived after the initial schema. Pre-existing rows
	// default to zero rather than recomputing historical counts.
	if !s.columnExists("documents", "token_count") {
		if _, err := s.db.Exec("ALTER TABLE documents ADD COLUMN token_count INTEGER NOT NULL DEFAULT 0"); err != nil {
			return fmt.Errorf("adding token_count column: %w", err)
		}
	}

	return nil
}

// columnExists inspects a table's column set via PRAGMA table_info.
func (s *Store) columnExists(table, column string) bool {
	rows, err := s.db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue any
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}

// checkDimensions compares the vector table's fixed width against the
// configured dimensionality. The width is baked in at creation, so a
// database created under a different configuration is unusable and the
// mismatch is reported eagerly rather than on first failed query.
func (s *Store) checkDimensions() error {
	var ddl string
	err := s.db.QueryRow(
		"SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'document_embeddings'",
	).Scan(&ddl)
	if err != nil {
		return fmt.Errorf("%w: reading vector table definition on %s: %v", domain.ErrStorageUnavailable, s.path, err)
	}

	m := vecDimsPattern.FindStringSubmatch(ddl)
	if m == nil {
		return fmt.Errorf("%w: vector table on %s has no recognisable dimension", domain.ErrStorageUnavailable, s.path)
	}
	existing, err := strconv.Atoi(m[1])
	if err != nil || existing != s.dims {
		return fmt.Errorf("%w: database %s stores %s-dimensional vectors, process configured for %d",
			domain.ErrStorageUnavailable, s.path, m[1], s.dims)
	}
	return nil
}

// unixNow returns the current time in fractional Unix seconds.
func unixNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Store inserts a new document and its embedding in one transaction.
func (s *Store) Store(ctx context.Context, in driven.StoreInput, embedding []float32) (string, error) {
	if len(embedding) != s.dims {
		return "", fmt.Errorf("%w: embedding has %d dimensions, database %s expects %d",
			domain.ErrInvalidInput, len(embedding), s.path, s.dims)
	}

	tagsJSON, metadataJSON, err := encodeTagsMetadata(in.Tags, in.Metadata)
	if err != nil {
		return "", err
	}

	blob, err := serializeVector(normalizeVector(embedding))
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := unixNow()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, content, title, tags, metadata, token_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, in.Content, nullString(in.Title), tagsJSON, metadataJSON, s.tokenizer.Count(in.Content), now, now)
	if err != nil {
		return "", fmt.Errorf("inserting document: %w", err)
	}
	rowid, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading document rowid: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO document_embeddings (doc_id, embedding) VALUES (?, ?)", rowid, blob)
	if err != nil {
		return "", fmt.Errorf("inserting embedding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// Get retrieves a document by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.Document, error) {
	return scanDocumentRow(s.db.QueryRowContext(ctx, `
		SELECT id, content, title, tags, metadata, token_count, created_at, updated_at
		FROM documents WHERE id = ?
	`, id))
}

// Update applies a partial update inside one transaction. Nil fields
// are left unchanged; UpdatedAt always advances. A content change
// replaces the embedding wholesale and recomputes the token count.
func (s *Store) Update(ctx context.Context, id string, upd domain.UpdateRequest) (*domain.Document, error) {
	if upd.Content != nil && upd.Embedding == nil {
		return nil, fmt.Errorf("%w: content update requires a fresh embedding", domain.ErrInvalidInput)
	}
	if upd.Content != nil && len(upd.Embedding) != s.dims {
		return nil, fmt.Errorf("%w: embedding has %d dimensions, database %s expects %d",
			domain.ErrInvalidInput, len(upd.Embedding), s.path, s.dims)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	doc, err := scanDocumentRow(tx.QueryRowContext(ctx, `
		SELECT id, content, title, tags, metadata, token_count, created_at, updated_at
		FROM documents WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}

	if upd.Content != nil {
		doc.Content = *upd.Content
		doc.TokenCount = s.tokenizer.Count(*upd.Content)
	}
	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.Tags != nil {
		doc.Tags = *upd.Tags
	}
	if upd.Metadata != nil {
		doc.Metadata = *upd.Metadata
	}
	doc.UpdatedAt = unixNow()

	tagsJSON, metadataJSON, err := encodeTagsMetadata(doc.Tags, doc.Metadata)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE documents
		SET content = ?, title = ?, tags = ?, metadata = ?, token_count = ?, updated_at = ?
		WHERE id = ?
	`, doc.Content, nullString(doc.Title), tagsJSON, metadataJSON, doc.TokenCount, doc.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}

	if upd.Content != nil {
		blob, err := serializeVector(normalizeVector(upd.Embedding))
		if err != nil {
			return nil, err
		}
		var rowid int64
		if err := tx.QueryRowContext(ctx,
			"SELECT rowid FROM documents WHERE id = ?", id).Scan(&rowid); err != nil {
			return nil, fmt.Errorf("reading document rowid: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM document_embeddings WHERE doc_id = ?", rowid); err != nil {
			return nil, fmt.Errorf("removing old embedding: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_embeddings (doc_id, embedding) VALUES (?, ?)", rowid, blob); err != nil {
			return nil, fmt.Errorf("inserting new embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return doc, nil
}

// Delete removes a document and its embedding in one transaction.
// Returns whether a row existed; deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var rowid int64
	err = tx.QueryRowContext(ctx, "SELECT rowid FROM documents WHERE id = ?", id).Scan(&rowid)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading document rowid: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM document_embeddings WHERE doc_id = ?", rowid); err != nil {
		return false, fmt.Errorf("deleting embedding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}
	return true, nil
}

// Search runs a k-nearest-neighbour query against the vector table and
// post-filters the hydrated documents. Results keep the index's native
// order, which is score descending. Vectors are stored unit length, so
// the index's euclidean distance d converts to cosine similarity as
// 1 - d*d/2.
func (s *Store) Search(ctx context.Context, q driven.SearchQuery) ([]domain.SearchResult, error) {
	if len(q.Embedding) != s.dims {
		return nil, fmt.Errorf("%w: query embedding has %d dimensions, database %s expects %d",
			domain.ErrInvalidInput, len(q.Embedding), s.path, s.dims)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	k := limit
	if q.Filter.Active() {
		k = limit * searchOverfetchFactor
	}

	blob, err := serializeVector(normalizeVector(q.Embedding))
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.content, d.title, d.tags, d.metadata, d.token_count, d.created_at, d.updated_at, v.distance
		FROM document_embeddings v
		JOIN documents d ON d.rowid = v.doc_id
		WHERE v.embedding MATCH ? AND v.k = ?
		ORDER BY v.distance
	`, blob, k)
	if err != nil {
		return nil, fmt.Errorf("querying vector index: %w", err)
	}
	defer rows.Close()

	results := make([]domain.SearchResult, 0, limit)
	for rows.Next() {
		doc, distance, err := scanSearchHit(rows)
		if err != nil {
			return nil, err
		}
		score := 1.0 - (distance*distance)/2.0

		if q.MinScore != nil && score < *q.MinScore {
			continue
		}
		if !q.Filter.Matches(doc) {
			continue
		}

		results = append(results, domain.SearchResult{Document: *doc, Score: score})
		if len(results) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vector hits: %w", err)
	}
	return results, nil
}

// List returns documents ordered by creation time descending. Time and
// token bounds are pushed down as indexed range predicates; the tag
// filter is applied in-process over an over-fetched window.
func (s *Store) List(ctx context.Context, q driven.ListQuery) ([]domain.Document, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	fetch := limit
	if len(q.Filter.Tags) > 0 {
		fetch = limit * listOverfetchFactor
	}

	query := `
		SELECT id, content, title, tags, metadata, token_count, created_at, updated_at
		FROM documents WHERE 1=1`
	var args []any
	if q.Filter.After != nil {
		query += " AND created_at >= ?"
		args = append(args, *q.Filter.After)
	}
	if q.Filter.Before != nil {
		query += " AND created_at <= ?"
		args = append(args, *q.Filter.Before)
	}
	if q.Filter.MinTokens != nil {
		query += " AND token_count >= ?"
		args = append(args, *q.Filter.MinTokens)
	}
	if q.Filter.MaxTokens != nil {
		query += " AND token_count <= ?"
		args = append(args, *q.Filter.MaxTokens)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, fetch)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		if !q.Filter.MatchesTags(doc.Tags) {
			continue
		}
		docs = append(docs, *doc)
		if len(docs) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for document scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocumentRow(row *sql.Row) (*domain.Document, error) {
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	return scanDocument(rows)
}

// scanSearchHit scans a joined document row plus its index distance.
func scanSearchHit(rows *sql.Rows) (*domain.Document, float64, error) {
	var doc domain.Document
	var title sql.NullString
	var tagsJSON, metadataJSON string
	var distance float64
	if err := rows.Scan(&doc.ID, &doc.Content, &title, &tagsJSON, &metadataJSON,
		&doc.TokenCount, &doc.CreatedAt, &doc.UpdatedAt, &distance); err != nil {
		return nil, 0, fmt.Errorf("scanning vector hit: %w", err)
	}

	doc.Title = title.String
	if err := json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
		return nil, 0, fmt.Errorf("unmarshaling tags: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, 0, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	return &doc, distance, nil
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var title sql.NullString
	var tagsJSON, metadataJSON string
	if err := row.Scan(&doc.ID, &doc.Content, &title, &tagsJSON, &metadataJSON,
		&doc.TokenCount, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Title = title.String
	if err := json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
		return nil, fmt.Errorf("unmarshaling tags: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	return &doc, nil
}

// encodeTagsMetadata marshals tags and metadata, normalising nil to an
// empty collection so stored JSON is never "null".
func encodeTagsMetadata(tags []string, metadata map[string]any) (string, string, error) {
	if tags == nil {
		tags = []string{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", "", fmt.Errorf("marshalling tags: %w", err)
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", "", fmt.Errorf("marshalling metadata: %w", err)
	}
	return string(tagsJSON), string(metadataJSON), nil
}

// nullString converts an empty string to NULL for optional columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
