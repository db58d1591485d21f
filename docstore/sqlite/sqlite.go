/*
Package sqlite provides a SQLite-backed implementation of docstore.Store.

PURPOSE:
  Persists the flat document collection in a single table. The same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

CONFLICT DETECTION:
  Every document row carries a revision. Put compares the supplied
  revision with the stored one inside a single database transaction, so
  a stale update is rejected with docstore.ErrRevConflict and nothing is
  written. The revision advances on every accepted write.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.
  There is exactly one logical user, so contention is not a concern;
  the mutex keeps the read-compare-write of Put serialized.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/stockbook.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - docstore/store.go: Interface definition
  - docstore/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stockbook/stockbook/docstore"
)

// Store implements docstore.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Flat document collection. Category is the only discriminator.
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		rev TEXT NOT NULL,
		category TEXT NOT NULL,
		body TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_category
		ON documents(category);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DOCUMENT STORE (docstore.Store interface)
// =============================================================================

// Get returns the document for id, or (nil, nil) if absent.
func (s *Store) Get(ctx context.Context, id string) (*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc docstore.Document
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, rev, category, body FROM documents WHERE id = ?",
		id,
	).Scan(&doc.ID, &doc.Rev, &doc.Category, &body)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc.Body = []byte(body)
	return &doc, nil
}

// Put upserts a document with revision conflict detection.
func (s *Store) Put(ctx context.Context, doc docstore.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	var currentRev string
	err = sqlTx.QueryRowContext(ctx,
		"SELECT rev FROM documents WHERE id = ?", doc.ID,
	).Scan(&currentRev)

	switch {
	case err == sql.ErrNoRows:
		if doc.Rev != "" {
			return "", docstore.ErrRevConflict
		}
	case err != nil:
		return "", fmt.Errorf("failed to read revision: %w", err)
	default:
		if doc.Rev != currentRev {
			return "", docstore.ErrRevConflict
		}
	}

	newRev := docstore.NextRev(currentRev)
	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO documents (id, rev, category, body, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			rev = excluded.rev,
			category = excluded.category,
			body = excluded.body,
			updated_at = excluded.updated_at
	`,
		doc.ID, newRev, doc.Category, string(doc.Body),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to put document: %w", err)
	}

	if err := sqlTx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return newRev, nil
}

// AllDocs returns every stored document.
func (s *Store) AllDocs(ctx context.Context) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, rev, category, body FROM documents ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var doc docstore.Document
		var body string
		if err := rows.Scan(&doc.ID, &doc.Rev, &doc.Category, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Body = []byte(body)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM documents")
	return err
}
