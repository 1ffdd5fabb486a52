package flow

import (
	"fmt"

	"github.com/craftlabs/designstudio/core"
	internalutil "github.com/craftlabs/designstudio/internal/util"
	"github.com/craftlabs/designstudio/model"
)

// InstructionsProcessor handles system prompt and instruction processing.
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest resolves the agent instruction and applies template
// substitution from session state.
func (p *InstructionsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	instructions, err := agent.ResolveInstructions(runCtx)
	if err != nil {
		return fmt.Errorf("failed to resolve instruction: %w", err)
	}

	runCtx.LogDebug("agent.instruction.resolved", "agent", agent.GetName(), "length", len(instructions))

	if runCtx.Session != nil && runCtx.Session.State != nil {
		req.Instructions, err = internalutil.RenderTemplate(instructions, runCtx.Session.GetStateSnapshot())
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
		return nil
	}

	req.Instructions = instructions
	return nil
}

// ContentsProcessor assembles the conversation contents for the request.
type ContentsProcessor struct{}

// NewContentsProcessor creates a new contents processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name returns the processor's identifier.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest adds the capped conversation history to the request.
func (p *ContentsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	var contents []core.Content

	if runCtx.Session != nil {
		events := runCtx.Session.GetConversationHistory()
		if max := agent.MaxHistoryMessages(); max > 0 && len(events) > max {
			events = events[len(events)-max:]
		}

		for _, ev := range events {
			if ev.Content != nil && len(ev.Content.Parts) > 0 {
				contents = append(contents, *ev.Content)
			}
		}
	}

	if len(contents) == 0 && len(runCtx.UserContent.Parts) > 0 {
		contents = append(contents, runCtx.UserContent)
	}

	req.Contents = contents
	return nil
}
