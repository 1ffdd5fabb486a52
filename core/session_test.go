package core

import "testing"

func TestSession_StateAndEvents(t *testing.T) {
	s := NewSession("sess-1")

	s.SetState("brand", "acme")
	if v, ok := s.GetState("brand"); !ok || v != "acme" {
		t.Fatalf("state roundtrip failed: %v %v", v, ok)
	}

	s.MergeState(map[string]any{"locale": "en", "brand": "acme2"})
	if v, _ := s.GetState("brand"); v != "acme2" {
		t.Fatalf("merge did not overwrite: %v", v)
	}

	s.AddEvent(NewUserMessageEvent("run", "hi"))
	s.AddEvent(NewMessageEvent("agent", "hello"))
	if len(s.GetEvents()) != 2 {
		t.Fatalf("expected 2 events, got %d", len(s.GetEvents()))
	}
}

func TestSession_ConversationHistoryFiltering(t *testing.T) {
	s := NewSession("sess-2")

	s.AddEvent(NewUserMessageEvent("run", "hi"))

	partial := true
	frag := NewMessageEvent("agent", "he")
	frag.Partial = &partial
	s.AddEvent(frag)

	s.AddEvent(NewMessageEvent("agent", "hello"))

	control := NewEvent("run", "system")
	s.AddEvent(control)

	hist := s.GetConversationHistory()
	if len(hist) != 2 {
		t.Fatalf("expected partials and control events filtered, got %d events", len(hist))
	}
}

func TestSession_CloneIsolation(t *testing.T) {
	s := NewSession("sess-3")
	s.SetState("k", "v")
	s.AddEvent(NewUserMessageEvent("run", "hi"))

	c := s.Clone()
	c.SetState("k", "other")
	c.AddEvent(NewMessageEvent("agent", "reply"))

	if v, _ := s.GetState("k"); v != "v" {
		t.Fatalf("clone mutation leaked into original state: %v", v)
	}
	if len(s.GetEvents()) != 1 {
		t.Fatalf("clone mutation leaked into original events: %d", len(s.GetEvents()))
	}
}
