/*
Package ledger is the inventory/ledger core.

PURPOSE:
  Pure record-keeping over the document store:
  - Parts: stock keyed by barcode/SKU, accumulated by merge on rescan.
  - Entries: append-only signed monetary transactions per customer.
  - Balances: per-customer running totals derived by folding the full
    entry history on every query. There is no cached balance field that
    can drift out of sync.

KEY CONCEPTS IN THIS FILE (types.go):
  - Part: A stocked item. Quantity only ever changes through the merge
    operation; descriptive fields (name, price) are overwritten whole.
  - Entry: An immutable ledger record. Amount is always stored positive;
    the sign is derived from Kind at aggregation time, never negated in
    storage.
  - EntryKind: invoice (customer owes more) or payment (owes less).

DESIGN PRINCIPLES:
  1. Immutability: Entries are created once and never edited.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors.
  3. Derivation: Balance = fold(entries). Positive means the customer
     owes money. That sign convention is the one domain rule here that
     could silently invert and corrupt financial meaning - preserve it.

SEE ALSO:
  - core.go: The four core operations
  - errors.go: Error taxonomy
  - docstore/store.go: Underlying persistence
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PART - Stock record keyed by barcode/SKU
// =============================================================================

// Part is a stocked item. The SKU doubles as the document key, so there
// is exactly one Part per SKU at all times.
type Part struct {
	SKU      string
	Name     string
	Price    decimal.Decimal
	Quantity int64

	// Rev is the store's conflict token for this record. It is carried
	// forward on merge so the write is accepted as an update rather than
	// a conflicting insert.
	Rev string
}

// PartInput is a part as submitted by a scan or form: price and quantity
// arrive as raw strings and are coerced, not validated. A price that
// fails to parse (or is negative) becomes 0; a quantity that fails to
// parse becomes 0.
type PartInput struct {
	SKU      string
	Name     string
	Price    string
	Quantity string
}

// =============================================================================
// ENTRY - Immutable ledger record
// =============================================================================

type EntryKind string

const (
	KindInvoice EntryKind = "invoice" // customer owes more
	KindPayment EntryKind = "payment" // customer paid down / has credit
)

// Entry is a single ledger transaction. Append-only: created once,
// never merged or edited.
type Entry struct {
	ID        string
	Customer  string
	Amount    decimal.Decimal // always positive; sign derives from Kind
	Kind      EntryKind
	CreatedAt time.Time
}

// Signed returns the entry's contribution to its customer's balance.
func (e Entry) Signed() decimal.Decimal {
	if e.Kind == KindPayment {
		return e.Amount.Neg()
	}
	return e.Amount
}
