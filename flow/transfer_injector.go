package flow

import (
	"fmt"
	"strings"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/model"
)

// TransferToolInjector adds the transfer_to_agent tool definition to requests
// when the agent allows transfers and has sub-agents. The definition lists
// the available targets so the model can route by description.
type TransferToolInjector struct{}

// NewTransferToolInjector creates a new transfer tool injector.
func NewTransferToolInjector() *TransferToolInjector { return &TransferToolInjector{} }

// Name returns the processor's identifier.
func (p *TransferToolInjector) Name() string { return "transfer_injector" }

// ProcessRequest injects the transfer tool definition once per request.
func (p *TransferToolInjector) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	if !agent.IsTransferEnabled() {
		return nil
	}

	subAgents := agent.GetSubAgents()
	if len(subAgents) == 0 {
		return nil
	}

	for _, td := range req.Tools {
		if td.Function.Name == "transfer_to_agent" {
			return nil
		}
	}

	names := make([]string, 0, len(subAgents))
	var catalog strings.Builder
	for _, sub := range subAgents {
		names = append(names, sub.GetName())
		fmt.Fprintf(&catalog, "- %s: %s\n", sub.GetName(), sub.GetDescription())
	}

	req.Tools = append(req.Tools, model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name: "transfer_to_agent",
			Description: fmt.Sprintf(
				"Transfer the conversation to a specialized sub-agent. Available agents:\n%s",
				catalog.String(),
			),
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"agent": map[string]any{
						"type":        "string",
						"description": "Target agent name",
						"enum":        names,
					},
				},
				"required": []string{"agent"},
			},
		},
	})

	runCtx.LogDebug("agent.transfer_tool.injected", "agent", agent.GetName(), "targets", len(names))
	return nil
}
