package core

import (
	"errors"
	"testing"
)

func TestEvent_ConstructorsAndHelpers(t *testing.T) {
	e := NewEvent("run-123", "authorA")
	if e.Author != "authorA" || e.RunID != "run-123" || e.ID == "" || e.Timestamp.IsZero() {
		t.Fatalf("NewEvent did not initialize fields correctly: %+v", e)
	}

	msg := NewMessageEvent("agent1", "hello world")
	if msg.Content == nil || msg.Content.Role != "assistant" || len(msg.Content.Parts) != 1 {
		t.Fatalf("NewMessageEvent malformed: %+v", msg)
	}

	user := NewUserMessageEvent("run-123", "hi")
	if user.Content == nil || user.Content.Role != "user" {
		t.Fatalf("NewUserMessageEvent malformed: %+v", user)
	}

	fRespOK := NewFunctionResponseEvent("agent2", "call-1", "do_stuff", 42, nil)
	resps := fRespOK.GetFunctionResponses()
	if len(resps) != 1 || resps[0].Response.(int) != 42 || resps[0].Error != "" {
		t.Fatalf("function response success extraction failed: %+v", resps)
	}

	fRespErr := NewFunctionResponseEvent("agent2", "call-2", "do_stuff", nil, errors.New("boom"))
	resps = fRespErr.GetFunctionResponses()
	if resps[0].Error == "" {
		t.Fatalf("expected error message in function response: %+v", resps[0])
	}
}

func TestEvent_IsFinalResponse(t *testing.T) {
	e := NewEvent("run", "authorA")
	if !e.IsFinalResponse() {
		t.Error("expected basic event to be final")
	}

	partial := true
	e2 := NewEvent("run", "agent")
	e2.Partial = &partial
	if e2.IsFinalResponse() {
		t.Error("partial event should not be final")
	}

	e3 := NewEvent("run", "agent")
	e3.Content = &Content{Role: "assistant", Parts: []Part{
		FunctionCallPart{FunctionCall: FunctionCall{Name: "f"}},
	}}
	if e3.IsFinalResponse() {
		t.Error("event with function call should not be final")
	}

	e4 := NewFunctionResponseEvent("agent", "call-3", "f", "ok", nil)
	if e4.IsFinalResponse() {
		t.Error("event with function response should not be final")
	}
}

func TestEvent_GetFunctionCallsOrder(t *testing.T) {
	e := NewEvent("run", "agent")
	e.Content = &Content{Role: "assistant", Parts: []Part{
		FunctionCallPart{FunctionCall: FunctionCall{ID: "1", Name: "first"}},
		TextPart{Text: "interleaved"},
		FunctionCallPart{FunctionCall: FunctionCall{ID: "2", Name: "second"}},
	}}

	calls := e.GetFunctionCalls()
	if len(calls) != 2 || calls[0].Name != "first" || calls[1].Name != "second" {
		t.Fatalf("function call extraction lost order: %+v", calls)
	}
}

func TestEvent_IDUniqueness(t *testing.T) {
	if NewID() == NewID() {
		t.Error("expected unique IDs")
	}
}

func TestContent_Text(t *testing.T) {
	c := Content{Role: "user", Parts: []Part{
		TextPart{Text: "a"},
		DataPart{Data: map[string]any{"k": "v"}},
		TextPart{Text: "b"},
	}}
	if c.Text() != "ab" {
		t.Fatalf("Text() = %q, want %q", c.Text(), "ab")
	}
}
