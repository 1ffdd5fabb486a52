package flow

import (
	"strings"
	"testing"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/model"
)

func TestInstructionsProcessor_RendersStateTemplate(t *testing.T) {
	rc := newFlowRunContext(t, 0)
	rc.Session.SetState("brand", "Acme")

	agent := &templatedAgent{mockFlowAgent: mockFlowAgent{name: "A"}, instructions: "You work for {{.brand}}."}
	req := &model.Request{}

	if err := NewInstructionsProcessor().ProcessRequest(rc, req, agent); err != nil {
		t.Fatalf("process: %v", err)
	}
	if req.Instructions != "You work for Acme." {
		t.Fatalf("unexpected instructions: %q", req.Instructions)
	}
}

type templatedAgent struct {
	mockFlowAgent
	instructions string
}

func (a *templatedAgent) ResolveInstructions(_ *core.RunContext) (string, error) {
	return a.instructions, nil
}

func TestContentsProcessor_UsesSessionHistory(t *testing.T) {
	rc := newFlowRunContext(t, 0)

	ev1 := core.NewUserMessageEvent("run", "first question")
	ev2 := core.NewMessageEvent("A", "first answer")
	rc.Session.AddEvent(ev1)
	rc.Session.AddEvent(ev2)

	agent := &mockFlowAgent{name: "A", maxHistory: 10}
	req := &model.Request{}

	if err := NewContentsProcessor().ProcessRequest(rc, req, agent); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(req.Contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(req.Contents))
	}
	if req.Contents[0].Text() != "first question" {
		t.Fatalf("unexpected first content: %q", req.Contents[0].Text())
	}
}

func TestContentsProcessor_CapsHistory(t *testing.T) {
	rc := newFlowRunContext(t, 0)

	for _, msg := range []string{"one", "two", "three", "four"} {
		rc.Session.AddEvent(core.NewUserMessageEvent("run", msg))
	}

	agent := &mockFlowAgent{name: "A", maxHistory: 2}
	req := &model.Request{}

	if err := NewContentsProcessor().ProcessRequest(rc, req, agent); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(req.Contents) != 2 {
		t.Fatalf("expected capped history of 2, got %d", len(req.Contents))
	}
	if req.Contents[0].Text() != "three" || req.Contents[1].Text() != "four" {
		t.Fatalf("expected most recent messages, got %q %q", req.Contents[0].Text(), req.Contents[1].Text())
	}
}

func TestContentsProcessor_FallsBackToUserContent(t *testing.T) {
	rc := newFlowRunContext(t, 0)

	agent := &mockFlowAgent{name: "A", maxHistory: 10}
	req := &model.Request{}

	if err := NewContentsProcessor().ProcessRequest(rc, req, agent); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Text(), "test message") {
		t.Fatalf("expected fallback to user content, got %+v", req.Contents)
	}
}

func TestProcessorNames(t *testing.T) {
	if NewInstructionsProcessor().Name() != "instructions" {
		t.Error("expected name 'instructions'")
	}
	if NewContentsProcessor().Name() != "contents" {
		t.Error("expected name 'contents'")
	}
	if NewTransferToolInjector().Name() != "transfer_injector" {
		t.Error("expected name 'transfer_injector'")
	}
}
