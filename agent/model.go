package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/flow"
	"github.com/craftlabs/designstudio/model"
	"github.com/craftlabs/designstudio/tool"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Description           string
	Instruction           Instruction
	EnableStreaming       bool
	EnableFunctionCalling bool
	ToolTimeout           time.Duration
	OutputKey             string
	MaxHistoryMessages    int
	AllowTransfer         bool
	Tools                 map[string]tool.Tool
}

// ModelAgent integrates with hosted AI models to provide intelligent text
// processing capabilities.
//
// This agent implementation supports:
//   - Natural language conversation through system prompts
//   - Function calling with registered tools
//   - Session state management with output keys
//   - Template-based prompt customization
//   - Transfer of control to sub-agents
//
// ModelAgent embeds BaseAgent to inherit standard agent lifecycle and
// hierarchy management.
type ModelAgent struct {
	BaseAgent
	llm                   model.Model
	instruction           Instruction
	tools                 map[string]tool.Tool
	enableFunctionCalling bool
	enableStreaming       bool
	toolTimeout           time.Duration
	outputKey             string
	maxHistoryMessages    int
	allowTransfer         bool
}

// NewModelAgent creates a new model-based agent with sensible defaults:
// function calling enabled, a 20-message history cap, and sub-agent transfer
// allowed. When transfer is allowed the transfer_to_agent tool is registered
// automatically.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Instruction:           NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		EnableStreaming:       false,
		EnableFunctionCalling: true,
		ToolTimeout:           15 * time.Second,
		MaxHistoryMessages:    20,
		AllowTransfer:         true,
		Tools:                 make(map[string]tool.Tool),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	a := &ModelAgent{
		BaseAgent:             NewBaseAgent(name),
		llm:                   llm,
		instruction:           opts.Instruction,
		enableStreaming:       opts.EnableStreaming,
		enableFunctionCalling: opts.EnableFunctionCalling,
		toolTimeout:           opts.ToolTimeout,
		outputKey:             opts.OutputKey,
		maxHistoryMessages:    opts.MaxHistoryMessages,
		allowTransfer:         opts.AllowTransfer,
		tools:                 opts.Tools,
	}

	if opts.Description != "" {
		a.SetDescription(opts.Description)
	}

	if a.allowTransfer {
		a.RegisterTool(tool.NewTransferToAgentTool())
	}

	return a
}

// RegisterTool adds a function tool to the agent's capability set.
//
// Registered tools become available for the model to call during
// conversations when function calling is enabled.
func (a *ModelAgent) RegisterTool(t tool.Tool) {
	a.tools[t.Name()] = t
}

// RegisterTools adds multiple tools to the agent's capability set.
func (a *ModelAgent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// UnregisterTool removes a tool from the agent's capability set.
//
// Returns true if the tool was found and removed.
func (a *ModelAgent) UnregisterTool(name string) bool {
	if _, exists := a.tools[name]; exists {
		delete(a.tools, name)
		return true
	}
	return false
}

// HasTool checks if a tool is registered with the agent.
func (a *ModelAgent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// ListTools returns the names of all registered tools.
func (a *ModelAgent) ListTools() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	return names
}

// GetTool retrieves a specific tool by name.
func (a *ModelAgent) GetTool(name string) (tool.Tool, bool) {
	t, exists := a.tools[name]
	return t, exists
}

// GetName returns the agent's display name.
func (a *ModelAgent) GetName() string {
	return a.Name()
}

// GetDescription returns the agent's description.
func (a *ModelAgent) GetDescription() string {
	return a.Description()
}

// GetLLM returns the language model instance.
func (a *ModelAgent) GetLLM() model.Model {
	return a.llm
}

// GetTools returns a copy of the registered tools for function calling.
func (a *ModelAgent) GetTools() map[string]tool.Tool {
	tools := make(map[string]tool.Tool, len(a.tools))
	for name, t := range a.tools {
		tools[name] = t
	}
	return tools
}

// GetSubAgents returns the list of child agents as FlowAgents.
func (a *ModelAgent) GetSubAgents() []flow.FlowAgent {
	subAgents := a.SubAgents()
	flowAgents := make([]flow.FlowAgent, 0, len(subAgents))
	for _, subAgent := range subAgents {
		if flowAgent, ok := subAgent.(flow.FlowAgent); ok {
			flowAgents = append(flowAgents, flowAgent)
		}
	}
	return flowAgents
}

// IsFunctionCallingEnabled returns whether function calling is enabled.
func (a *ModelAgent) IsFunctionCallingEnabled() bool {
	return a.enableFunctionCalling
}

// IsStreamingEnabled returns whether streaming responses are enabled.
func (a *ModelAgent) IsStreamingEnabled() bool {
	return a.enableStreaming
}

// IsTransferEnabled returns whether agent transfer is enabled.
func (a *ModelAgent) IsTransferEnabled() bool {
	return a.allowTransfer
}

// GetOutputKey returns the session state key for saving responses.
func (a *ModelAgent) GetOutputKey() string {
	return a.outputKey
}

// MaxHistoryMessages returns the maximum number of conversation history
// messages to keep.
func (a *ModelAgent) MaxHistoryMessages() int {
	return a.maxHistoryMessages
}

// ResolveInstructions produces the final instruction string (system prompt)
// by resolving static or dynamic instruction sources.
func (a *ModelAgent) ResolveInstructions(runCtx *core.RunContext) (string, error) {
	return a.instruction.Resolve(runCtx)
}

// ExecuteTool deserializes JSON arguments and invokes the named tool,
// returning its result or an error if the tool is unknown.
func (a *ModelAgent) ExecuteTool(toolCtx *core.ToolContext, toolName string, args string) (any, error) {
	t, exists := a.tools[toolName]
	if !exists {
		return nil, fmt.Errorf("tool %s not found", toolName)
	}

	argsMap := make(map[string]any)
	if args != "" {
		if err := json.Unmarshal([]byte(args), &argsMap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal args: %w", err)
		}
	}

	return t.Call(toolCtx, argsMap)
}

// TransferToAgent delegates execution to a named agent in the hierarchy using
// the same run context (shared session state and emit channel). The search
// starts at this agent and falls back to the root so siblings and the parent
// are reachable targets.
func (a *ModelAgent) TransferToAgent(runCtx *core.RunContext, agentName string) error {
	target := a.FindAgent(agentName)
	if target == nil {
		root := core.Agent(a)
		for root.Parent() != nil {
			root = root.Parent()
		}
		target = root.FindAgent(agentName)
	}
	if target == nil {
		return fmt.Errorf("agent '%s' not found in hierarchy", agentName)
	}

	runCtx.LogInfo("agent.transfer", "from", a.Name(), "to", agentName)

	return target.Run(runCtx.WithAgent(core.AgentInfo{Name: agentName, Type: "model"}))
}

// Run implements core.Agent using the flow selector to choose an execution
// strategy, then streams flow events to the parent run context. When a flow
// ends with a transfer request, control is handed to the target agent.
func (a *ModelAgent) Run(runCtx *core.RunContext) error {
	runCtx.LogDebug("agent.run.start", "agent", a.Name(), "run", runCtx.RunID)

	ctx := runCtx.Context

	selector := flow.NewSelector()
	fl := selector.SelectFlow(a)

	runCtx.LogDebug("agent.flow.selected", "agent", a.Name(), "flow", fmt.Sprintf("%T", fl))

	eventChan, err := fl.Execute(runCtx)
	if err != nil {
		runCtx.LogError("agent.flow.execute.error", "agent", a.Name(), "error", err.Error())
		return fmt.Errorf("flow execution failed: %w", err)
	}

	var transferTarget string

	for event := range eventChan {
		if event.Actions.TransferToAgent != nil {
			transferTarget = *event.Actions.TransferToAgent
		}

		select {
		case runCtx.Emit <- event:
			role := ""
			if event.Content != nil {
				role = event.Content.Role
			}
			runCtx.LogDebug(
				"agent.event.forward",
				"agent", a.Name(),
				"event_id", event.ID,
				"role", role,
				"fn_calls", len(event.GetFunctionCalls()),
			)
		case <-ctx.Done():
			runCtx.LogWarn("agent.run.context_done", "agent", a.Name(), "error", ctx.Err())
			return ctx.Err()
		}
	}

	if transferTarget != "" && transferTarget != a.Name() {
		return a.TransferToAgent(runCtx, transferTarget)
	}

	runCtx.LogDebug("agent.flow.execute.complete", "agent", a.Name())

	return nil
}
