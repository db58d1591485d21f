/*
core.go - The four core operations: merge, lookup, append, aggregate

PURPOSE:
  Implements stock accumulation on rescan and balance aggregation across
  transactions. Every operation is a single read-modify-write or
  read-aggregate transition against the injected document store - no
  multi-step protocol, no pending/committed phases, no timeouts.

OPERATIONS:
  SaveOrMergePart:  Merge a scanned/entered part into existing stock.
                    Quantity is summed with what's on hand; name and
                    price are overwritten with the supplied values.
  FindPart:         Lookup by SKU. Absence is a result, not an error.
  AddTransaction:   Append an immutable ledger entry. Always an insert.
  ComputeBalances:  Fold the full entry history into customer totals.
                    Invoice adds, payment subtracts, positive = owes.

ERROR HANDLING:
  Validation failures are raised before the point of writing, so the
  store is left unchanged. Store failures mean the record is not saved;
  the caller may retry - the core performs no automatic retry and no
  logging.

SEE ALSO:
  - types.go: Part, Entry, EntryKind
  - errors.go: ValidationError, StoreError
  - docstore/store.go: Store contract this core depends on
*/
package ledger

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockbook/stockbook/docstore"
)

// =============================================================================
// CORE
// =============================================================================

// Core holds the injected store dependency. Create it once at startup
// and keep it for the process lifetime; it has no teardown of its own.
type Core struct {
	store docstore.Store
}

func New(store docstore.Store) *Core {
	return &Core{store: store}
}

// =============================================================================
// PART MERGE
// =============================================================================

// SaveOrMergePart merges a submitted part into stock.
//
// If a part already exists under in.SKU, its quantity becomes existing
// quantity + the submitted delta, and name/price are overwritten whole.
// The existing revision is carried forward so the write is accepted as
// an update. If no part exists, one is created with the delta as its
// opening stock. Exactly one part per SKU exists afterward.
func (c *Core) SaveOrMergePart(ctx context.Context, in PartInput) (*Part, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" {
		return nil, validationErr("sku", "must not be empty")
	}
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}

	part := Part{
		SKU:      sku,
		Name:     name,
		Price:    coercePrice(in.Price),
		Quantity: coerceQuantity(in.Quantity),
	}

	existing, err := c.FindPart(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		part.Quantity += existing.Quantity
		part.Rev = existing.Rev
	}
	if part.Quantity < 0 {
		return nil, validationErr("quantity", "stock on hand cannot go negative")
	}

	rev, err := c.putPart(ctx, part)
	if err != nil {
		return nil, err
	}
	part.Rev = rev
	return &part, nil
}

// FindPart returns the part for sku, or (nil, nil) if absent. A missing
// part is an expected outcome (a freshly scanned unknown barcode), kept
// distinct from a store access failure.
func (c *Core) FindPart(ctx context.Context, sku string) (*Part, error) {
	doc, err := c.store.Get(ctx, sku)
	if err != nil {
		return nil, storeErr("lookup part", err)
	}
	if doc == nil {
		return nil, nil
	}
	return decodePart(*doc)
}

// ListParts returns all stocked parts, sorted by SKU.
func (c *Core) ListParts(ctx context.Context) ([]Part, error) {
	docs, err := c.store.AllDocs(ctx)
	if err != nil {
		return nil, storeErr("list parts", err)
	}

	var parts []Part
	for _, doc := range docs {
		if doc.Category != docstore.CategoryInventory {
			continue
		}
		p, err := decodePart(doc)
		if err != nil {
			return nil, err
		}
		parts = append(parts, *p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].SKU < parts[j].SKU })
	return parts, nil
}

// =============================================================================
// TRANSACTION APPEND
// =============================================================================

// AddTransaction appends an immutable ledger entry. Never merges with
// prior entries - always an insert under a fresh id.
func (c *Core) AddTransaction(ctx context.Context, customer, amount string, kind EntryKind) (*Entry, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, validationErr("customer", "must not be empty")
	}
	if kind != KindInvoice && kind != KindPayment {
		return nil, validationErr("kind", "must be invoice or payment")
	}
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, validationErr("amount", "must be a number")
	}
	if !amt.IsPositive() {
		return nil, validationErr("amount", "must be positive")
	}

	entry := Entry{
		ID:        entryID(),
		Customer:  customer,
		Amount:    amt,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}

	if err := c.putEntry(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries returns the full ledger history, oldest first.
func (c *Core) ListEntries(ctx context.Context) ([]Entry, error) {
	docs, err := c.store.AllDocs(ctx)
	if err != nil {
		return nil, storeErr("list entries", err)
	}

	var entries []Entry
	for _, doc := range docs {
		if doc.Category != docstore.CategoryLedger {
			continue
		}
		e, err := decodeEntry(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// EntriesForCustomer returns one customer's ledger history, oldest first.
func (c *Core) EntriesForCustomer(ctx context.Context, customer string) ([]Entry, error) {
	all, err := c.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, e := range all {
		if e.Customer == customer {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// =============================================================================
// BALANCE AGGREGATION
// =============================================================================

// ComputeBalances folds the full ledger into customer -> signed total.
// Invoice entries contribute +amount, payment entries -amount. Positive
// means the customer owes money. Customers with no entries never appear.
//
// This is a full-history fold on every call - trivially consistent, and
// O(total entries) per computation.
func (c *Core) ComputeBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	entries, err := c.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal)
	for _, e := range entries {
		balances[e.Customer] = balances[e.Customer].Add(e.Signed())
	}
	return balances, nil
}

// =============================================================================
// COERCION
// =============================================================================

// coercePrice parses a non-negative decimal price. Parse failures and
// negative values become zero; price is descriptive, not validated.
func coercePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// coerceQuantity parses an integer quantity delta, zero on failure.
func coerceQuantity(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// =============================================================================
// DOCUMENT CODEC
// =============================================================================

// Entry ids carry a prefix so generated keys can never collide with
// barcode/SKU keys in the shared collection.
const entryIDPrefix = "txn-"

func entryID() string {
	return entryIDPrefix + uuid.NewString()
}

type partBody struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"qty"`
}

type entryBody struct {
	Customer  string          `json:"customer"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      EntryKind       `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
}

func (c *Core) putPart(ctx context.Context, p Part) (string, error) {
	body, err := json.Marshal(partBody{Name: p.Name, Price: p.Price, Quantity: p.Quantity})
	if err != nil {
		return "", storeErr("encode part", err)
	}
	rev, err := c.store.Put(ctx, docstore.Document{
		ID:       p.SKU,
		Rev:      p.Rev,
		Category: docstore.CategoryInventory,
		Body:     body,
	})
	if err != nil {
		return "", storeErr("save part", err)
	}
	return rev, nil
}

func (c *Core) putEntry(ctx context.Context, e Entry) error {
	body, err := json.Marshal(entryBody{
		Customer:  e.Customer,
		Amount:    e.Amount,
		Kind:      e.Kind,
		CreatedAt: e.CreatedAt,
	})
	if err != nil {
		return storeErr("encode entry", err)
	}
	if _, err := c.store.Put(ctx, docstore.Document{
		ID:       e.ID,
		Category: docstore.CategoryLedger,
		Body:     body,
	}); err != nil {
		return storeErr("save entry", err)
	}
	return nil
}

func decodePart(doc docstore.Document) (*Part, error) {
	var body partBody
	if err := json.Unmarshal(doc.Body, &body); err != nil {
		return nil, storeErr("decode part", err)
	}
	return &Part{
		SKU:      doc.ID,
		Name:     body.Name,
		Price:    body.Price,
		Quantity: body.Quantity,
		Rev:      doc.Rev,
	}, nil
}

func decodeEntry(doc docstore.Document) (*Entry, error) {
	var body entryBody
	if err := json.Unmarshal(doc.Body, &body); err != nil {
		return nil, storeErr("decode entry", err)
	}
	return &Entry{
		ID:        doc.ID,
		Customer:  body.Customer,
		Amount:    body.Amount,
		Kind:      body.Kind,
		CreatedAt: body.CreatedAt,
	}, nil
}
