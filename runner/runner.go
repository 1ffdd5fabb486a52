package runner

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/craftlabs/designstudio/artifact"
	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/logging"
	"github.com/craftlabs/designstudio/memory"
	"github.com/craftlabs/designstudio/session"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// EventBufferSize sets channel buffering for events.
	EventBufferSize int
	// MaxModelCalls limits the number of model calls per run.
	MaxModelCalls int
	// SessionStore persists sessions and event history.
	SessionStore core.SessionStore
	// ArtifactStore persists binary artifacts such as images.
	ArtifactStore core.ArtifactStore
	// MemoryStore provides long-term recall across sessions.
	MemoryStore core.MemoryStore
	// Logger receives structured diagnostics.
	Logger logging.Logger
}

// Runner coordinates agent execution: resolves the root agent, creates run
// contexts, streams events, applies side effects, and persists history.
// Public methods are safe for concurrent use.
type Runner struct {
	agent core.Agent

	eventBufferSize int
	maxModelCalls   int

	sessionStore  core.SessionStore
	artifactStore core.ArtifactStore
	memoryStore   core.MemoryStore
	logger        logging.Logger

	activeRuns map[string]context.CancelFunc
	mu         sync.RWMutex
}

// New constructs a Runner with optional overrides.
func New(agent core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		EventBufferSize: 100,
		MaxModelCalls:   100,
		SessionStore:    session.NewInMemoryStore(),
		ArtifactStore:   artifact.NewInMemoryStore(),
		MemoryStore:     memory.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		agent:           agent,
		eventBufferSize: opts.EventBufferSize,
		maxModelCalls:   opts.MaxModelCalls,
		sessionStore:    opts.SessionStore,
		artifactStore:   opts.ArtifactStore,
		memoryStore:     opts.MemoryStore,
		logger:          opts.Logger,
		activeRuns:      make(map[string]context.CancelFunc),
	}
}

// Run starts an asynchronous run for the given session. The returned event
// channel carries every event the agent tree emits; the error channel carries
// at most one terminal error. Both close when the run finishes.
func (r *Runner) Run(
	ctx context.Context,
	sessionID string,
	userContent core.Content,
) (string, <-chan core.Event, <-chan error, error) {
	sess, err := r.sessionStore.Get(sessionID)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	runID := core.NewID()

	userContent = r.interceptUploads(sessionID, userContent)

	eventsCh := make(chan core.Event, r.eventBufferSize)
	errorsCh := make(chan error, 1)
	agentEmit := make(chan core.Event, r.eventBufferSize)
	resumeCh := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.activeRuns[runID] = cancel
	r.mu.Unlock()

	runCtx := core.NewRunContext(ctx, core.RunContextConfig{
		SessionID:     sessionID,
		RunID:         runID,
		Agent:         core.AgentInfo{Name: r.agent.Name(), Type: "model"},
		UserContent:   userContent,
		MaxModelCalls: r.maxModelCalls,
		Emit:          agentEmit,
		Resume:        resumeCh,
		Session:       sess,
		SessionStore:  r.sessionStore,
		ArtifactStore: r.artifactStore,
		MemoryStore:   r.memoryStore,
		Logger:        r.logger,
	})

	userEvent := core.NewUserContentEvent(runID, &userContent)
	if err := r.sessionStore.AppendEvent(sessionID, userEvent); err != nil {
		cancel()
		r.mu.Lock()
		delete(r.activeRuns, runID)
		r.mu.Unlock()
		return "", nil, nil, fmt.Errorf("failed to append user event: %w", err)
	}

	go func() {
		defer func() {
			close(agentEmit)
			r.mu.Lock()
			delete(r.activeRuns, runID)
			r.mu.Unlock()
		}()

		if err := r.runAgent(runCtx); err != nil {
			select {
			case <-runCtx.Done():
				return
			case errorsCh <- fmt.Errorf("agent execution failed: %w", err):
			}
		}
	}()

	go func() {
		defer func() { close(eventsCh); close(errorsCh) }()

		r.processEvents(runCtx, sessionID, agentEmit, resumeCh, eventsCh, errorsCh)
	}()

	return runID, eventsCh, errorsCh, nil
}

// Cancel stops a running run by ID.
func (r *Runner) Cancel(runID string) error {
	r.mu.Lock()
	cancel, exists := r.activeRuns[runID]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	cancel()

	return nil
}

func (r *Runner) runAgent(runCtx *core.RunContext) error {
	if err := r.agent.Start(runCtx); err != nil {
		return err
	}

	defer func() {
		if err := r.agent.Stop(runCtx); err != nil {
			r.logger.Warn("error stopping agent", "agent", r.agent.Name(), "error", err)
		}
	}()

	return r.agent.Run(runCtx)
}

func (r *Runner) processEvents(
	runCtx *core.RunContext,
	sessionID string,
	agentEmit <-chan core.Event,
	resumeCh chan<- struct{},
	eventsCh chan<- core.Event,
	errorsCh chan<- error,
) {
	for {
		select {
		case <-runCtx.Done():
			return
		case ev, ok := <-agentEmit:
			if !ok {
				return
			}
			if err := r.applyEventActions(sessionID, ev); err != nil {
				select {
				case <-runCtx.Done():
					return
				case errorsCh <- fmt.Errorf("failed to process event actions: %w", err):
				}
				return
			}
			if !ev.IsPartial() {
				if err := r.sessionStore.AppendEvent(sessionID, ev); err != nil {
					select {
					case <-runCtx.Done():
						return
					case errorsCh <- fmt.Errorf("failed to append event to session: %w", err):
					}
					return
				}
			}
			select {
			case <-runCtx.Done():
				return
			case eventsCh <- ev:
				r.logger.Debug("runner delivered event", "event_id", ev.ID, "session_id", sessionID)
			}
			if !ev.IsPartial() {
				select {
				case <-runCtx.Done():
					return
				case resumeCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (r *Runner) applyEventActions(sessionID string, ev core.Event) error {
	if len(ev.Actions.StateDelta) > 0 {
		if err := r.sessionStore.ApplyDelta(sessionID, ev.Actions.StateDelta); err != nil {
			return fmt.Errorf("failed to apply state delta: %w", err)
		}
	}

	if ev.Actions.TransferToAgent != nil && *ev.Actions.TransferToAgent != "" {
		r.logger.Debug("runner.event.transfer_to_agent", "target", *ev.Actions.TransferToAgent, "session_id", sessionID)
	}

	if ev.Actions.Escalate != nil && *ev.Actions.Escalate {
		r.logger.Debug("runner.event.escalate", "session_id", sessionID)
	}

	return nil
}

// interceptUploads stores inline file parts of the user content as artifacts
// and prefixes each with a caption naming the artifact ID. The artifact ID is
// content-addressed so resubmitting the same image does not duplicate storage.
func (r *Runner) interceptUploads(sessionID string, content core.Content) core.Content {
	hasUpload := false
	for _, p := range content.Parts {
		if fp, ok := p.(core.FilePart); ok && fp.File.Bytes != "" {
			hasUpload = true
			break
		}
	}
	if !hasUpload {
		return content
	}

	existing, err := r.artifactStore.List(sessionID)
	if err != nil {
		r.logger.Warn("failed to list artifacts for upload dedupe", "error", err)
		existing = nil
	}

	parts := make([]core.Part, 0, len(content.Parts)+1)
	for _, p := range content.Parts {
		fp, ok := p.(core.FilePart)
		if !ok || fp.File.Bytes == "" {
			parts = append(parts, p)
			continue
		}

		data, err := base64.StdEncoding.DecodeString(fp.File.Bytes)
		if err != nil {
			r.logger.Warn("failed to decode uploaded file part", "error", err)
			parts = append(parts, p)
			continue
		}

		filename := "uploaded_image"
		if fp.File.Name != nil && *fp.File.Name != "" {
			filename = *fp.File.Name
		}

		mimeType := "image/png"
		if fp.File.MimeType != nil && *fp.File.MimeType != "" {
			mimeType = *fp.File.MimeType
		}

		artifactID := uploadArtifactID(filename, mimeType, data)

		if !slices.Contains(existing, artifactID) {
			art := core.Artifact{Data: data, MimeType: mimeType}
			if err := r.artifactStore.Save(sessionID, artifactID, art); err != nil {
				r.logger.Warn("failed to save uploaded artifact", "artifact_id", artifactID, "error", err)
			} else {
				existing = append(existing, artifactID)
				r.logger.Debug("saved uploaded artifact", "artifact_id", artifactID, "session_id", sessionID)
			}
		}

		caption := fmt.Sprintf("[User Uploaded Artifact]\nBelow is the content of artifact ID : %s", artifactID)
		parts = append(parts, core.TextPart{Text: caption}, p)
	}

	content.Parts = parts

	return content
}

func uploadArtifactID(filename, mimeType string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(filename))
	h.Write(data)
	contentHash := hex.EncodeToString(h.Sum(nil))[:16]

	ext := mimeType
	if idx := strings.LastIndex(mimeType, "/"); idx >= 0 {
		ext = mimeType[idx+1:]
	}

	return fmt.Sprintf("img_%s.%s", contentHash, ext)
}
