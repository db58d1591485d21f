/*
Package backup serializes the full document set and pushes it off-box.

PURPOSE:
  Takes a snapshot of every stored document - parts and ledger entries
  alike - as one JSON array, and either uploads it to a remote endpoint
  with a bearer credential or writes it to a local backup directory.
  Credential acquisition (interactive sign-in) is entirely external;
  this package only ever sees the opaque token.

SNAPSHOT FORMAT:
  One JSON array. Each element is the document body with _id, _rev, and
  category folded in, so a snapshot round-trips into any document store
  with the same key/revision model.

FAILURE MODEL:
  Upload either fully succeeds (2xx) or fails; there is no partial
  upload and no retry here. The caller decides whether to try again.

SEE ALSO:
  - docstore/store.go: Source of the snapshot
  - api/handlers.go: The endpoint that triggers backups
*/
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/stockbook/stockbook/docstore"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Export serializes every document in the store as one JSON array.
func Export(ctx context.Context, store docstore.Store) ([]byte, error) {
	docs, err := store.AllDocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}

	records := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		record := make(map[string]any)
		if err := json.Unmarshal(doc.Body, &record); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", doc.ID, err)
		}
		record["_id"] = doc.ID
		record["_rev"] = doc.Rev
		record["category"] = doc.Category
		records = append(records, record)
	}

	return json.Marshal(records)
}

// =============================================================================
// REMOTE UPLOAD
// =============================================================================

// Uploader pushes snapshots to a remote object store over HTTP.
type Uploader struct {
	Endpoint string
	Token    string // opaque bearer credential, acquired externally
	Client   *http.Client
}

func NewUploader(endpoint, token string) *Uploader {
	return &Uploader{
		Endpoint: endpoint,
		Token:    token,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sends a snapshot to the remote endpoint. Any non-2xx response
// is a failure.
func (u *Uploader) Upload(ctx context.Context, snapshot []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint, bytes.NewReader(snapshot))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.Token)

	resp, err := u.Client.Do(req)
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload snapshot: remote returned %s", resp.Status)
	}
	return nil
}

// =============================================================================
// LOCAL SNAPSHOT FILES
// =============================================================================

// WriteLocal writes a timestamped snapshot file into dir and returns
// its path.
func WriteLocal(dir string, snapshot []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := fmt.Sprintf("stockbook-%s.json", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, snapshot, 0o644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}
	return path, nil
}
