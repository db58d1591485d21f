/*
handlers.go - HTTP handlers for the inventory/ledger scratchpad

PURPOSE:
  Exposes the ledger core via REST. Handles HTTP request/response and
  JSON serialization, and delegates everything else to the core.

ENDPOINTS:
  Parts:
    GET    /api/parts             List stocked parts
    GET    /api/parts/{sku}       Lookup a part (404 if unknown)
    POST   /api/parts             Save or merge a part

  Ledger:
    POST   /api/transactions      Append a ledger entry
    GET    /api/transactions      Full ledger history
    GET    /api/balances          Per-customer folded balances
    GET    /api/customers/{name}/statement  PDF statement download

  Backup:
    POST   /api/backup            Snapshot all documents and push/write

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed JSON
  - 404: Unknown SKU on lookup
  - 500: Store failures
  - 502: Remote backup upload failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stockbook/stockbook/backup"
	"github.com/stockbook/stockbook/docstore"
	"github.com/stockbook/stockbook/ledger"
	"github.com/stockbook/stockbook/statement"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Core  *ledger.Core
	Store docstore.Store

	// Backup destinations. Uploader may be nil when no remote endpoint
	// is configured; BackupDir may be empty to skip local snapshots.
	Uploader  *backup.Uploader
	BackupDir string
}

// NewHandler creates a new handler around the given store.
func NewHandler(store docstore.Store) *Handler {
	return &Handler{
		Core:  ledger.New(store),
		Store: store,
	}
}

// =============================================================================
// PART HANDLERS
// =============================================================================

// ListParts returns all stocked parts.
func (h *Handler) ListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.Core.ListParts(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	dtos := make([]PartDTO, len(parts))
	for i, p := range parts {
		dtos[i] = partDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPart looks up a part by SKU. An unknown SKU is 404 - the common
// case for a freshly scanned barcode, not a server fault.
func (h *Handler) GetPart(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	part, err := h.Core.FindPart(r.Context(), sku)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if part == nil {
		writeError(w, http.StatusNotFound, "Part not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, partDTO(*part))
}

// SavePart saves or merges a part into stock.
func (h *Handler) SavePart(w http.ResponseWriter, r *http.Request) {
	var req SavePartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	part, err := h.Core.SaveOrMergePart(r.Context(), ledger.PartInput{
		SKU:      req.SKU,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partDTO(*part))
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// AddTransaction appends a ledger entry.
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := h.Core.AddTransaction(r.Context(), req.Customer, req.Amount, ledger.EntryKind(req.Kind))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entryDTO(*entry))
}

// ListTransactions returns the full ledger history, oldest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Core.ListEntries(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = entryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBalances returns the folded per-customer balances.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Core.ComputeBalances(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	dtos := make([]BalanceDTO, 0, len(balances))
	for customer, total := range balances {
		status := "settled"
		switch {
		case total.IsPositive():
			status = "owes"
		case total.IsNegative():
			status = "credit"
		}
		dtos = append(dtos, BalanceDTO{
			Customer: customer,
			Balance:  total.String(),
			Status:   status,
		})
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Customer < dtos[j].Customer })
	writeJSON(w, http.StatusOK, dtos)
}

// GetStatement renders one customer's ledger history as a PDF download.
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	customer := chi.URLParam(r, "name")

	entries, err := h.Core.EntriesForCustomer(r.Context(), customer)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	balances, err := h.Core.ComputeBalances(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	pdf, err := statement.Render(customer, entries, balances[customer])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render statement", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// =============================================================================
// BACKUP HANDLER
// =============================================================================

// TriggerBackup snapshots every document and pushes it to the remote
// endpoint and/or a local backup file, depending on configuration.
func (h *Handler) TriggerBackup(w http.ResponseWriter, r *http.Request) {
	snapshot, err := backup.Export(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export snapshot", err)
		return
	}

	var records []json.RawMessage
	json.Unmarshal(snapshot, &records)

	resp := BackupResponse{Documents: len(records)}

	if h.BackupDir != "" {
		path, err := backup.WriteLocal(h.BackupDir, snapshot)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to write local backup", err)
			return
		}
		resp.LocalPath = path
	}

	if h.Uploader != nil {
		if err := h.Uploader.Upload(r.Context(), snapshot); err != nil {
			writeError(w, http.StatusBadGateway, "Failed to upload snapshot", err)
			return
		}
		resp.Uploaded = true
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func partDTO(p ledger.Part) PartDTO {
	return PartDTO{
		SKU:      p.SKU,
		Name:     p.Name,
		Price:    p.Price.String(),
		Quantity: p.Quantity,
		Rev:      p.Rev,
	}
}

func entryDTO(e ledger.Entry) EntryDTO {
	return EntryDTO{
		ID:        e.ID,
		Customer:  e.Customer,
		Amount:    e.Amount.String(),
		Kind:      string(e.Kind),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// writeCoreError maps core errors onto HTTP statuses.
func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsValidation(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Store failure", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
