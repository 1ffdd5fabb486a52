package core

import (
	"context"
	"fmt"
	"maps"

	"github.com/craftlabs/designstudio/logging"
)

// RunContext carries execution state & helpers for a single agent run. It
// aggregates:
//   - The ambient cancellation Context
//   - Identifiers (SessionID, RunID, Agent info)
//   - Input user Content
//   - Emission / resumption coordination channels
//   - Backing stores (session, artifact, memory) for persistence concerns
//   - A working Session snapshot and a pending StateDelta to commit
//
// State mutations performed via SetState accumulate in StateDelta until
// CommitStateDelta applies them. Clone produces an isolated delta buffer
// while keeping references to the underlying stores.
type RunContext struct {
	Context          context.Context
	SessionID, RunID string
	Agent            AgentInfo
	UserContent      Content
	Emit             chan<- Event
	Resume           <-chan struct{}
	SessionStore     SessionStore
	ArtifactStore    ArtifactStore
	MemoryStore      MemoryStore
	Limiter          *ModelLimiter
	Session          *Session
	StateDelta       map[string]any

	*loggerAdapter
}

// RunContextConfig bundles the dependencies needed to build a RunContext.
type RunContextConfig struct {
	SessionID     string
	RunID         string
	Agent         AgentInfo
	UserContent   Content
	MaxModelCalls int
	Emit          chan<- Event
	Resume        <-chan struct{}
	Session       *Session
	SessionStore  SessionStore
	ArtifactStore ArtifactStore
	MemoryStore   MemoryStore
	Logger        logging.Logger
}

// NewRunContext constructs a RunContext with an empty state delta.
func NewRunContext(ctx context.Context, cfg RunContextConfig) *RunContext {
	return &RunContext{
		Context:       ctx,
		SessionID:     cfg.SessionID,
		RunID:         cfg.RunID,
		Agent:         cfg.Agent,
		UserContent:   cfg.UserContent,
		Emit:          cfg.Emit,
		Resume:        cfg.Resume,
		Session:       cfg.Session,
		SessionStore:  cfg.SessionStore,
		ArtifactStore: cfg.ArtifactStore,
		MemoryStore:   cfg.MemoryStore,
		Limiter:       NewModelLimiter(cfg.MaxModelCalls),
		StateDelta:    map[string]any{},
		loggerAdapter: newLoggerAdapter(cfg.Logger),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// GetState returns a staged (delta) value if present, else the persisted
// session value.
func (rc *RunContext) GetState(k string) (any, bool) {
	if v, ok := rc.StateDelta[k]; ok {
		return v, true
	}

	if rc.Session != nil {
		return rc.Session.GetState(k)
	}

	return nil, false
}

// SetState stages a state mutation in the in-memory delta buffer.
func (rc *RunContext) SetState(k string, v any) { rc.StateDelta[k] = v }

// ApplyStateDelta merges all pairs from d into the staged StateDelta.
func (rc *RunContext) ApplyStateDelta(d map[string]any) {
	maps.Copy(rc.StateDelta, d)
}

// SaveArtifact stores an artifact in the ArtifactStore.
func (rc *RunContext) SaveArtifact(id string, art Artifact) error {
	if rc.ArtifactStore == nil {
		return fmt.Errorf("artifact store not configured")
	}

	return rc.ArtifactStore.Save(rc.SessionID, id, art)
}

// GetArtifact retrieves a previously saved artifact.
func (rc *RunContext) GetArtifact(id string) (Artifact, error) {
	if rc.ArtifactStore == nil {
		return Artifact{}, fmt.Errorf("artifact store not configured")
	}

	return rc.ArtifactStore.Get(rc.SessionID, id)
}

// ListArtifacts returns artifact IDs stored for the session.
func (rc *RunContext) ListArtifacts() ([]string, error) {
	if rc.ArtifactStore == nil {
		return []string{}, nil
	}

	return rc.ArtifactStore.List(rc.SessionID)
}

// SearchMemory queries the MemoryStore for relevant content.
func (rc *RunContext) SearchMemory(q string, limit int) ([]SearchResult, error) {
	if rc.MemoryStore == nil {
		return []SearchResult{}, nil
	}

	return rc.MemoryStore.Search(rc.SessionID, q, limit)
}

// StoreMemory appends content plus metadata to the MemoryStore.
func (rc *RunContext) StoreMemory(content string, md map[string]any) error {
	if rc.MemoryStore == nil {
		return fmt.Errorf("memory store not configured")
	}
	return rc.MemoryStore.Store(rc.SessionID, content, md)
}

// RefreshSession reloads the session snapshot from the SessionStore.
func (rc *RunContext) RefreshSession() error {
	if rc.SessionStore == nil {
		return fmt.Errorf("session store not configured")
	}

	s, err := rc.SessionStore.Get(rc.SessionID)
	if err != nil {
		return err
	}

	rc.Session = s

	return nil
}

// CommitStateDelta persists the accumulated StateDelta then clears the buffer.
func (rc *RunContext) CommitStateDelta() error {
	if len(rc.StateDelta) == 0 {
		return nil
	}

	if rc.SessionStore == nil {
		return fmt.Errorf("session store not configured")
	}

	if err := rc.SessionStore.ApplyDelta(rc.SessionID, rc.StateDelta); err != nil {
		return err
	}

	rc.StateDelta = map[string]any{}

	return nil
}

// GetSessionHistory returns all historical events for the session.
func (rc *RunContext) GetSessionHistory() []Event {
	if rc.Session == nil {
		return []Event{}
	}

	return rc.Session.GetEvents()
}

// Clone returns a shallow copy with a deep-copied delta buffer.
func (rc *RunContext) Clone() *RunContext {
	c := &RunContext{
		Context:       rc.Context,
		SessionID:     rc.SessionID,
		RunID:         rc.RunID,
		Agent:         rc.Agent,
		UserContent:   rc.UserContent,
		Emit:          rc.Emit,
		Resume:        rc.Resume,
		SessionStore:  rc.SessionStore,
		ArtifactStore: rc.ArtifactStore,
		MemoryStore:   rc.MemoryStore,
		Limiter:       rc.Limiter,
		Session:       rc.Session,
		StateDelta:    map[string]any{},
		loggerAdapter: rc.loggerAdapter,
	}

	maps.Copy(c.StateDelta, rc.StateDelta)

	return c
}

// WithAgent clones the context rebinding it to another agent. Used when the
// runner hands a run over to a transfer target.
func (rc *RunContext) WithAgent(info AgentInfo) *RunContext {
	c := rc.Clone()
	c.Agent = info
	return c
}
