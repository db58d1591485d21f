package docstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory Store. Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]Document)}
}

func (m *Memory) Get(_ context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	cp := doc
	cp.Body = append([]byte(nil), doc.Body...)
	return &cp, nil
}

func (m *Memory) Put(_ context.Context, doc Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.docs[doc.ID]
	if ok && existing.Rev != doc.Rev {
		return "", ErrRevConflict
	}
	if !ok && doc.Rev != "" {
		return "", ErrRevConflict
	}

	doc.Rev = NextRev(existing.Rev)
	doc.Body = append([]byte(nil), doc.Body...)
	m.docs[doc.ID] = doc
	return doc.Rev, nil
}

func (m *Memory) AllDocs(_ context.Context) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Document, 0, len(m.docs))
	for _, doc := range m.docs {
		cp := doc
		cp.Body = append([]byte(nil), doc.Body...)
		result = append(result, cp)
	}
	return result, nil
}

// =============================================================================
// REVISIONS
// =============================================================================

// NextRev derives the successor revision of prev ("" for a new document).
// Revisions are "seq-suffix": a generation counter plus an opaque suffix,
// so a stale token from any earlier generation never matches.
func NextRev(prev string) string {
	seq := 0
	if prev != "" {
		if n, err := strconv.Atoi(strings.SplitN(prev, "-", 2)[0]); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%d-%s", seq+1, uuid.NewString()[:8])
}
