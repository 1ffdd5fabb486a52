package artifact

import (
	"sync"

	"github.com/craftlabs/designstudio/core"
)

// InMemoryStore is an in-process ArtifactStore implementation useful for
// tests, examples and single-process prototypes. It keeps all artifacts in a
// nested map guarded by an RWMutex. Data is copied on save / retrieval to
// avoid accidental external mutation of internal buffers.
//
// Layout: sessionID -> artifactID -> artifact
//
// This implementation does not enforce retention limits, size quotas, or
// eviction. For production, prefer a durable implementation (GCS, database)
// that survives process restarts.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string]core.Artifact
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string]core.Artifact)}
}

// Save stores (or overwrites) the artifact for the given session and id.
// The data slice is copied before storage.
func (a *InMemoryStore) Save(sessionID, artifactID string, art core.Artifact) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.artifacts[sessionID]; !exists {
		a.artifacts[sessionID] = make(map[string]core.Artifact)
	}
	cp := make([]byte, len(art.Data))
	copy(cp, art.Data)
	a.artifacts[sessionID][artifactID] = core.Artifact{Data: cp, MimeType: art.MimeType}
	return nil
}

// Get returns a copy of the stored artifact or ErrNotFound.
func (a *InMemoryStore) Get(sessionID, artifactID string) (core.Artifact, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.artifacts[sessionID]
	if !ok {
		return core.Artifact{}, ErrNotFound
	}
	art, ok := m[artifactID]
	if !ok {
		return core.Artifact{}, ErrNotFound
	}
	cp := make([]byte, len(art.Data))
	copy(cp, art.Data)
	return core.Artifact{Data: cp, MimeType: art.MimeType}, nil
}

// List returns the artifact ids stored for the session. The slice is a
// snapshot and safe for caller mutation.
func (a *InMemoryStore) List(sessionID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.artifacts[sessionID]
	if !ok {
		return []string{}, nil
	}
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(sessionID, artifactID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.artifacts[sessionID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[artifactID]; !ok {
		return ErrNotFound
	}
	delete(m, artifactID)
	return nil
}
