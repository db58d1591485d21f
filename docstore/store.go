/*
store.go - Persistence interface for the flat document collection

PURPOSE:
  Defines the interface between the ledger core and the database.
  Everything the application persists - parts and ledger entries alike -
  lives in one flat collection of JSON documents, distinguished only by
  a category field. The store imposes no schema of its own.

KEY CONCEPTS:
  Document:  An opaque JSON body plus identity (ID), revision (Rev),
             and a category tag.
  Revision:  An opaque conflict token. A Put that carries a stale or
             missing revision for an existing document is rejected with
             ErrRevConflict. Readers carry the revision forward to prove
             an update is based on the latest known version.

OPERATIONS:
  Get:     Lookup by ID. A missing document is NOT an error - Get returns
           (nil, nil). Absence is an expected, common case.
  Put:     Upsert with conflict detection. Returns the new revision.
  AllDocs: Full scan of every document. Callers filter by category.

IMPLEMENTATIONS:
  - docstore/memory.go:  In-memory, for tests and dev.
  - docstore/sqlite:     SQLite-backed, for real use.

SEE ALSO:
  - ledger/core.go: The only writer of inventory/ledger documents.
  - backup/backup.go: Reads the full document set for snapshots.
*/
package docstore

import (
	"context"
	"errors"
)

// =============================================================================
// CATEGORIES
// =============================================================================

// Document categories. The collection is flat; these tags are the only
// way the two record kinds are told apart.
const (
	CategoryInventory = "inventory"
	CategoryLedger    = "ledger"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is a single stored record. Body holds the domain payload as
// JSON; ID, Rev, and Category are store-level metadata kept outside it.
type Document struct {
	ID       string
	Rev      string
	Category string
	Body     []byte
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is the document persistence contract.
//
// Implementations serialize concurrent get/put pairs internally; callers
// rely on that guarantee but do not add locking of their own.
type Store interface {
	// Get returns the document for id, or (nil, nil) if absent.
	Get(ctx context.Context, id string) (*Document, error)

	// Put upserts a document and returns the new revision.
	// For an existing document, doc.Rev must match the stored revision;
	// otherwise Put fails with ErrRevConflict and nothing is written.
	Put(ctx context.Context, doc Document) (string, error)

	// AllDocs returns every stored document. Order is not a contract.
	AllDocs(ctx context.Context) ([]Document, error)
}

// ErrRevConflict is returned by Put when the supplied revision does not
// match the stored one (or is empty while a document already exists).
var ErrRevConflict = errors.New("document revision conflict")
