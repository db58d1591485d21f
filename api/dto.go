/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

COERCION:
  SavePartRequest carries price and quantity as raw strings on purpose:
  they come straight from scan/form fields and the core coerces them
  (bad price -> 0, bad quantity -> 0) rather than rejecting.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PartDTO represents a stocked part in API responses.
type PartDTO struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
	Rev      string `json:"rev,omitempty"`
}

// SavePartRequest is the request to save or merge a part.
type SavePartRequest struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// EntryDTO represents a ledger entry in API responses.
type EntryDTO struct {
	ID        string `json:"id"`
	Customer  string `json:"customer"`
	Amount    string `json:"amount"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

// AddTransactionRequest is the request to append a ledger entry.
type AddTransactionRequest struct {
	Customer string `json:"customer"`
	Amount   string `json:"amount"`
	Kind     string `json:"kind"`
}

// BalanceDTO is one customer's folded balance. Status presents the sign
// convention: positive balances owe, everything else is settled/credit.
type BalanceDTO struct {
	Customer string `json:"customer"`
	Balance  string `json:"balance"`
	Status   string `json:"status"`
}

// BackupResponse reports where a snapshot went.
type BackupResponse struct {
	Documents int    `json:"documents"`
	Uploaded  bool   `json:"uploaded"`
	LocalPath string `json:"local_path,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
