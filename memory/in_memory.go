package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/craftlabs/designstudio/core"
)

// storedMemory is the internal representation persisted by InMemoryStore.
type storedMemory struct {
	id       string
	content  string
	metadata map[string]any
}

// InMemoryStore is a process-local MemoryStore with append-only stored
// memories and substring Search.
//
// Concurrency: protected by RWMutex.
// Search: linear scan with case-insensitive substring matching assigning a
// constant score of 1.0 to every hit. Suitable for tests and demos; swap for
// a vector index for production retrieval.
type InMemoryStore struct {
	mu      sync.RWMutex
	storage map[string]map[string]storedMemory // sessionID -> memoryID -> memory
}

// NewInMemoryStore creates a new in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		storage: make(map[string]map[string]storedMemory),
	}
}

// Search performs a simple substring match over stored memories. Results are
// returned in unspecified order up to the provided limit.
func (m *InMemoryStore) Search(sessionID string, query string, limit int) ([]core.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessionStorage, exists := m.storage[sessionID]
	if !exists {
		return []core.SearchResult{}, nil
	}

	q := strings.ToLower(query)
	results := make([]core.SearchResult, 0, limit)
	for _, stored := range sessionStorage {
		if limit > 0 && len(results) >= limit {
			break
		}
		if q != "" && !strings.Contains(strings.ToLower(stored.content), q) {
			continue
		}
		md := make(map[string]any, len(stored.metadata))
		for k, v := range stored.metadata {
			md[k] = v
		}
		results = append(results, core.SearchResult{ID: stored.id, Content: stored.content, Score: 1.0, Metadata: md})
	}
	return results, nil
}

// Store appends a new stored memory generating a simple incremental id.
func (m *InMemoryStore) Store(sessionID string, content string, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.storage[sessionID]; !exists {
		m.storage[sessionID] = make(map[string]storedMemory)
	}
	memoryID := fmt.Sprintf("mem_%d", len(m.storage[sessionID]))
	m.storage[sessionID][memoryID] = storedMemory{id: memoryID, content: content, metadata: metadata}
	return nil
}

// Delete removes a stored memory entry by id.
func (m *InMemoryStore) Delete(sessionID string, memoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessionStorage, exists := m.storage[sessionID]
	if !exists {
		return fmt.Errorf("memory not found")
	}
	if _, exists := sessionStorage[memoryID]; !exists {
		return fmt.Errorf("memory not found")
	}
	delete(sessionStorage, memoryID)
	return nil
}
