package flow

import (
	"strings"
	"testing"

	"github.com/craftlabs/designstudio/model"
)

func TestTransferToolInjector_Injection(t *testing.T) {
	agent := &mockFlowAgent{
		name:     "root",
		transfer: true,
		subAgents: []FlowAgent{
			&mockFlowAgent{name: "asset_agent", description: "searches brand assets"},
			&mockFlowAgent{name: "image_gen_agent", description: "generates images"},
		},
	}
	inj := NewTransferToolInjector()
	rc := newFlowRunContext(t, 0)

	req := &model.Request{}
	if err := inj.ProcessRequest(rc, req, agent); err != nil {
		t.Fatalf("inject error: %v", err)
	}

	var def *model.ToolDefinition
	for i, td := range req.Tools {
		if td.Function.Name == "transfer_to_agent" {
			def = &req.Tools[i]
		}
	}
	if def == nil {
		t.Fatal("expected transfer_to_agent tool definition injected")
	}
	if !strings.Contains(def.Function.Description, "asset_agent: searches brand assets") {
		t.Fatalf("expected sub-agent catalog in description, got %q", def.Function.Description)
	}

	props := def.Function.Parameters["properties"].(map[string]any)
	enum := props["agent"].(map[string]any)["enum"].([]string)
	if len(enum) != 2 || enum[0] != "asset_agent" || enum[1] != "image_gen_agent" {
		t.Fatalf("unexpected enum: %v", enum)
	}

	// second call should not duplicate
	_ = inj.ProcessRequest(rc, req, agent)
	count := 0
	for _, td := range req.Tools {
		if td.Function.Name == "transfer_to_agent" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected single definition, got %d", count)
	}
}

func TestTransferToolInjector_SkipsWhenDisabled(t *testing.T) {
	inj := NewTransferToolInjector()
	rc := newFlowRunContext(t, 0)

	noTransfer := &mockFlowAgent{name: "root", subAgents: []FlowAgent{&mockFlowAgent{name: "child"}}}
	req := &model.Request{}
	if err := inj.ProcessRequest(rc, req, noTransfer); err != nil {
		t.Fatalf("inject error: %v", err)
	}
	if len(req.Tools) != 0 {
		t.Fatalf("expected no injection without transfer capability, got %d tools", len(req.Tools))
	}

	noChildren := &mockFlowAgent{name: "root", transfer: true}
	req = &model.Request{}
	if err := inj.ProcessRequest(rc, req, noChildren); err != nil {
		t.Fatalf("inject error: %v", err)
	}
	if len(req.Tools) != 0 {
		t.Fatalf("expected no injection without sub-agents, got %d tools", len(req.Tools))
	}
}
