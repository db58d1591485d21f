package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/api"
	"github.com/stockbook/stockbook/backup"
	"github.com/stockbook/stockbook/docstore"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *api.Handler) {
	t.Helper()
	handler := api.NewHandler(docstore.NewMemory())
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, handler
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// =============================================================================
// PARTS
// =============================================================================

func TestAPI_SaveAndMergePart(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/parts", api.SavePartRequest{SKU: "A1", Name: "Widget", Price: "2.0", Quantity: "5"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	part := decodeJSON[api.PartDTO](t, resp)
	assert.Equal(t, int64(5), part.Quantity)

	resp = postJSON(t, srv.URL+"/api/parts", api.SavePartRequest{SKU: "A1", Name: "Widget", Price: "2.0", Quantity: "3"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	part = decodeJSON[api.PartDTO](t, resp)
	assert.Equal(t, int64(8), part.Quantity, "rescan merges into existing stock")
}

func TestAPI_GetPart_UnknownIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/parts/never-scanned")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_SavePart_ValidationIs400(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/parts", api.SavePartRequest{SKU: "", Name: "x", Price: "1", Quantity: "1"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// LEDGER
// =============================================================================

func TestAPI_TransactionsAndBalances(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/transactions", api.AddTransactionRequest{Customer: "Alice", Amount: "100", Kind: "invoice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/transactions", api.AddTransactionRequest{Customer: "Alice", Amount: "40", Kind: "payment"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/balances")
	require.NoError(t, err)
	balances := decodeJSON[[]api.BalanceDTO](t, resp)

	require.Len(t, balances, 1)
	assert.Equal(t, "Alice", balances[0].Customer)
	assert.Equal(t, "60", balances[0].Balance)
	assert.Equal(t, "owes", balances[0].Status)
}

func TestAPI_AddTransaction_NegativeAmountIs400(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/transactions", api.AddTransactionRequest{Customer: "Bob", Amount: "-5", Kind: "invoice"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/balances")
	require.NoError(t, err)
	balances := decodeJSON[[]api.BalanceDTO](t, resp)
	assert.Empty(t, balances, "rejected entry must not surface in balances")
}

func TestAPI_Statement_ReturnsPDF(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/transactions", api.AddTransactionRequest{Customer: "Alice", Amount: "10", Kind: "invoice"})
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/customers/Alice/statement")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

// =============================================================================
// BACKUP
// =============================================================================

func TestAPI_Backup_UploadsSnapshotWithBearerToken(t *testing.T) {
	srv, handler := newTestServer(t)

	var gotAuth string
	var gotBody []byte
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		buf := new(bytes.Buffer)
		buf.ReadFrom(r.Body)
		gotBody = buf.Bytes()
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(remote.Close)

	handler.Uploader = backup.NewUploader(remote.URL, "secret-token")

	resp := postJSON(t, srv.URL+"/api/parts", api.SavePartRequest{SKU: "A1", Name: "Widget", Price: "2.0", Quantity: "5"})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/backup", struct{}{})
	result := decodeJSON[api.BackupResponse](t, resp)

	assert.True(t, result.Uploaded)
	assert.Equal(t, 1, result.Documents)
	assert.Equal(t, "Bearer secret-token", gotAuth)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "A1", records[0]["_id"])
	assert.Equal(t, "inventory", records[0]["category"])
}

func TestAPI_Backup_RemoteFailureIs502(t *testing.T) {
	srv, handler := newTestServer(t)

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(remote.Close)
	handler.Uploader = backup.NewUploader(remote.URL, "expired")

	resp := postJSON(t, srv.URL+"/api/backup", struct{}{})
	resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
