// Package designstudio provides a high-level façade over the runner and
// service abstractions (sessions, artifacts, memory & logging) for driving a
// multi-agent image studio. Most applications interact with this package by:
//  1. Assembling an agent tree (studio.New or a custom root agent)
//  2. Creating a Studio via New() (optionally overriding default in-memory services)
//  3. Invoking the root agent asynchronously (Invoke) or synchronously (InvokeSync)
//
// The façade delegates orchestration to runner.Runner while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply durable store
// implementations and a structured logger.
package designstudio

import (
	"context"

	"github.com/craftlabs/designstudio/artifact"
	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/logging"
	"github.com/craftlabs/designstudio/memory"
	"github.com/craftlabs/designstudio/runner"
	"github.com/craftlabs/designstudio/session"
)

// Options configures the Studio instance.
type Options struct {
	// EventBufferSize sets the channel buffer size for event processing.
	EventBufferSize int

	// MaxModelCalls limits the number of model calls per run.
	MaxModelCalls int

	// Stores (defaults to in-memory implementations if not provided).
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore
	MemoryStore   core.MemoryStore

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Studio is the high-level façade aggregating the runner and its services.
type Studio struct {
	opts   Options
	runner *runner.Runner
}

// New creates a Studio driving the given root agent. Any unset service is
// initialized with an in-memory implementation.
func New(root core.Agent, optFns ...func(o *Options)) *Studio {
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

	r := runner.New(root, func(o *runner.Options) {
		o.EventBufferSize = opts.EventBufferSize
		o.MaxModelCalls = opts.MaxModelCalls
		o.SessionStore = opts.SessionStore
		o.ArtifactStore = opts.ArtifactStore
		o.MemoryStore = opts.MemoryStore
		o.Logger = opts.Logger
	})

	return &Studio{opts: opts, runner: r}
}

// ArtifactStore exposes the artifact service, useful for inspecting images
// produced during a run.
func (s *Studio) ArtifactStore() core.ArtifactStore { return s.opts.ArtifactStore }

// Invoke starts an asynchronous run returning event & error channels.
func (s *Studio) Invoke(
	ctx context.Context,
	sessionID string,
	userContent core.Content,
) (string, <-chan core.Event, <-chan error, error) {
	return s.runner.Run(ctx, sessionID, userContent)
}

// InvokeSync drains the async channels, accumulates events and returns the
// run ID alongside them.
func (s *Studio) InvokeSync(
	ctx context.Context,
	sessionID string,
	userContent core.Content,
) (string, []core.Event, error) {
	runID, eventsCh, errorsCh, err := s.runner.Run(ctx, sessionID, userContent)
	if err != nil {
		return "", nil, err
	}

	var events []core.Event
	for eventsCh != nil || errorsCh != nil {
		select {
		case <-ctx.Done():
			return runID, events, ctx.Err()

		case ev, ok := <-eventsCh:
			if !ok {
				eventsCh = nil
				continue
			}
			events = append(events, ev)

		case err, ok := <-errorsCh:
			if !ok {
				errorsCh = nil
				continue
			}
			if err != nil {
				return runID, events, err
			}
		}
	}

	return runID, events, nil
}

// Cancel aborts an in-flight run by ID.
func (s *Studio) Cancel(runID string) error { return s.runner.Cancel(runID) }
