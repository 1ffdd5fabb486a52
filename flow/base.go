package flow

import (
	"fmt"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/model"
)

// BaseFlow is a minimal single-agent flow implementation that supports a
// request -> model -> (optional tool loop) cycle with pluggable pre/post
// processors. Tool batches run through a FunctionExecutor.
type BaseFlow struct {
	agent              FlowAgent
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
	executor           FunctionExecutor
}

// NewBaseFlow creates a new basic single-agent flow.
func NewBaseFlow(agent FlowAgent) *BaseFlow {
	return &BaseFlow{
		agent:              agent,
		requestProcessors:  []RequestProcessor{},
		responseProcessors: []ResponseProcessor{},
		executor:           NewParallelFunctionExecutor(FunctionExecutorConfig{PreserveOrder: true}),
	}
}

// AddRequestProcessor appends a request processor; order of registration
// defines execution order.
func (f *BaseFlow) AddRequestProcessor(processor RequestProcessor) {
	f.requestProcessors = append(f.requestProcessors, processor)
}

// AddResponseProcessor appends a response processor executed after each model
// chunk.
func (f *BaseFlow) AddResponseProcessor(processor ResponseProcessor) {
	f.responseProcessors = append(f.responseProcessors, processor)
}

// SetFunctionExecutor replaces the default tool batch executor.
func (f *BaseFlow) SetFunctionExecutor(executor FunctionExecutor) {
	if executor != nil {
		f.executor = executor
	}
}

// Execute launches the flow asynchronously and returns a channel of Events.
// The channel is closed when a final response is emitted, a transfer is
// requested, or an unrecoverable error occurs.
func (f *BaseFlow) Execute(runCtx *core.RunContext) (<-chan core.Event, error) {
	eventChan := make(chan core.Event, 100)

	go func() {
		defer close(eventChan)

		for {
			last := f.runOnce(runCtx, eventChan)
			if last == nil {
				break
			}
			// A transfer hands the conversation to another agent; the caller
			// performs the handoff once the channel closes.
			if last.Actions.TransferToAgent != nil {
				break
			}
			if last.Actions.Escalate != nil && *last.Actions.Escalate {
				break
			}
			// A function response means the model gets another turn.
			if len(last.GetFunctionResponses()) > 0 {
				continue
			}
			if last.IsPartial() {
				runCtx.LogWarn("flow.partial_tail", "agent", f.agent.GetName())
				break
			}
			if last.IsFinalResponse() {
				break
			}
		}
	}()

	return eventChan, nil
}

// emitError converts an internal error to a system Event.
func (f *BaseFlow) emitError(eventChan chan<- core.Event, runCtx *core.RunContext, err error) {
	eventChan <- core.NewErrorEvent(runCtx.RunID, "system", err)
}

// emitAndWait sends an event then blocks until the runner confirms
// persistence, so the next model turn sees the updated session.
func (f *BaseFlow) emitAndWait(runCtx *core.RunContext, eventChan chan<- core.Event, ev core.Event) error {
	select {
	case eventChan <- ev:
	case <-runCtx.Context.Done():
		return runCtx.Context.Err()
	}

	if !ev.IsPartial() && runCtx.Resume != nil {
		select {
		case <-runCtx.Context.Done():
			return runCtx.Context.Err()
		case <-runCtx.Resume:
		}
	}
	return nil
}

// runOnce performs one model turn (including any tool executions) and returns
// the last emitted Event. A nil return signals termination.
func (f *BaseFlow) runOnce(runCtx *core.RunContext, eventChan chan<- core.Event) *core.Event {
	// Refresh the session snapshot so request processors see the latest
	// conversation, including tool responses from the previous turn.
	if err := runCtx.RefreshSession(); err != nil {
		runCtx.LogWarn("flow.session.refresh_failed", "error", err.Error())
	}

	if runCtx.Limiter != nil {
		if err := runCtx.Limiter.Increment(); err != nil {
			f.emitError(eventChan, runCtx, err)
			return nil
		}
	}

	req := new(model.Request)

	for _, processor := range f.requestProcessors {
		if err := processor.ProcessRequest(runCtx, req, f.agent); err != nil {
			f.emitError(eventChan, runCtx, fmt.Errorf("request processor %s failed: %w", processor.Name(), err))
			return nil
		}
	}

	if f.agent.IsFunctionCallingEnabled() {
		tools := f.agent.GetTools()
		for _, t := range tools {
			req.Tools = append(req.Tools, model.ToolDefinition{
				Type: "function",
				Function: model.FunctionDefinition{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.Parameters(),
				},
			})
		}
	}

	req.Stream = f.agent.IsStreamingEnabled()

	llm := f.agent.GetLLM()
	respCh, errCh := llm.Generate(runCtx.Context, *req)

	var lastEvent *core.Event

loop:
	for {
		select {
		case resp, ok := <-respCh:
			if !ok {
				break loop
			}

			for _, processor := range f.responseProcessors {
				if err := processor.ProcessResponse(runCtx, &resp, f.agent); err != nil {
					f.emitError(eventChan, runCtx, fmt.Errorf("response processor %s failed: %w", processor.Name(), err))
					return nil
				}
			}

			ev := core.NewEvent(runCtx.RunID, f.agent.GetName())
			ev.Content = &resp.Content
			ev.Partial = &resp.Partial

			// A final assistant response with no pending tool calls
			// completes the turn.
			if !resp.Partial && len(ev.GetFunctionCalls()) == 0 {
				complete := true
				ev.TurnComplete = &complete

				if key := f.agent.GetOutputKey(); key != "" && ev.Content != nil {
					ev.Actions.StateDelta = map[string]any{key: ev.Content.Text()}
				}
			}

			lastEvent = &ev

			if err := f.emitAndWait(runCtx, eventChan, ev); err != nil {
				return lastEvent
			}

			if fnCalls := ev.GetFunctionCalls(); len(fnCalls) > 0 {
				f.executor.Execute(runCtx, f.agent, f.agent.GetTools(), fnCalls, func(respEv core.Event) error {
					lastEvent = &respEv
					return f.emitAndWait(runCtx, eventChan, respEv)
				})
			}
		case err, ok := <-errCh:
			if ok && err != nil {
				f.emitError(eventChan, runCtx, err)
				return nil
			}
			// Closed error channel: keep draining responses.
			errCh = nil
		case <-runCtx.Context.Done():
			return lastEvent
		}
	}

	return lastEvent
}
