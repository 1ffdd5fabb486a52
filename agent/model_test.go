package agent

import (
	"context"
	"testing"
	"time"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/logging"
	"github.com/craftlabs/designstudio/model"
	"github.com/craftlabs/designstudio/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelAgent_Defaults(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	a := NewModelAgent("router", llm)

	assert.Equal(t, "router", a.GetName())
	assert.Equal(t, llm, a.GetLLM())
	assert.True(t, a.IsFunctionCallingEnabled())
	assert.True(t, a.IsTransferEnabled())
	assert.Equal(t, 20, a.MaxHistoryMessages())
	// Transfer-enabled agents carry the transfer tool automatically.
	assert.True(t, a.HasTool("transfer_to_agent"))
}

func TestModelAgent_NoTransferTool(t *testing.T) {
	a := NewModelAgent("worker", model.NewMockModel("mock", "test"), func(o *ModelAgentOptions) {
		o.AllowTransfer = false
	})

	assert.False(t, a.IsTransferEnabled())
	assert.False(t, a.HasTool("transfer_to_agent"))
}

func TestModelAgent_Hierarchy(t *testing.T) {
	root := NewModelAgent("root", model.NewMockModel("mock", "test"))
	childA := NewModelAgent("child_a", model.NewMockModel("mock", "test"))
	childB := NewModelAgent("child_b", model.NewMockModel("mock", "test"))

	require.NoError(t, root.SetSubAgents(childA, childB))

	assert.Len(t, root.SubAgents(), 2)
	assert.NotNil(t, childA.Parent())

	found := root.FindAgent("child_b")
	require.NotNil(t, found)
	assert.Equal(t, "child_b", found.Name())

	assert.Nil(t, root.FindAgent("missing"))
}

func TestModelAgent_ToolRegistry(t *testing.T) {
	a := NewModelAgent("worker", model.NewMockModel("mock", "test"), func(o *ModelAgentOptions) {
		o.AllowTransfer = false
	})

	assert.Empty(t, a.ListTools())
	assert.False(t, a.UnregisterTool("nope"))

	_, found := a.GetTool("nope")
	assert.False(t, found)
}

// runHarness consumes emitted events like the runner does: persist, apply
// actions, then signal resume so the flow can continue.
func runHarness(t *testing.T, a *ModelAgent, userText string) []core.Event {
	t.Helper()

	store := session.NewInMemoryStore()
	sess, err := store.Create("sess")
	require.NoError(t, err)

	userEv := core.NewUserMessageEvent("run", userText)
	require.NoError(t, store.AppendEvent("sess", userEv))

	emit := make(chan core.Event, 32)
	resume := make(chan struct{}, 1)

	runCtx := core.NewRunContext(context.Background(), core.RunContextConfig{
		SessionID:    "sess",
		RunID:        "run",
		Agent:        core.AgentInfo{Name: a.GetName(), Type: "model"},
		UserContent:  core.NewUserText(userText),
		Emit:         emit,
		Resume:       resume,
		Session:      sess,
		SessionStore: store,
		Logger:       logging.NoOpLogger{},
	})

	var events []core.Event
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range emit {
			events = append(events, ev)
			if !ev.IsPartial() {
				_ = store.AppendEvent("sess", ev)
				resume <- struct{}{}
			}
		}
	}()

	require.NoError(t, a.Run(runCtx))
	close(emit)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("harness did not drain events")
	}

	return events
}

func TestModelAgent_RunProducesFinalResponse(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	llm.AddResponse("hello", "hi there")

	a := NewModelAgent("assistant", llm, func(o *ModelAgentOptions) {
		o.AllowTransfer = false
	})

	events := runHarness(t, a, "hello")

	require.NotEmpty(t, events)
	final := events[len(events)-1]
	assert.True(t, final.IsFinalResponse())
	assert.Equal(t, "assistant", final.Author)
	assert.Equal(t, "hi there", final.Content.Text())
}

func TestModelAgent_OutputKey(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	llm.AddResponse("hello", "stored reply")

	a := NewModelAgent("assistant", llm, func(o *ModelAgentOptions) {
		o.AllowTransfer = false
		o.OutputKey = "last_reply"
	})

	events := runHarness(t, a, "hello")

	require.NotEmpty(t, events)
	final := events[len(events)-1]
	assert.Equal(t, "stored reply", final.Actions.StateDelta["last_reply"])
}
