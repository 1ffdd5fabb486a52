package openai

import (
	"testing"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_PairsToolCallsWithResponses(t *testing.T) {
	req := model.Request{
		Instructions: "you are a router",
		Contents: []core.Content{
			{Role: "user", Parts: []core.Part{core.TextPart{Text: "find the spray images"}}},
			{Role: "assistant", Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID:        "call1",
				Name:      "search_assets",
				Arguments: `{"query":"spray"}`,
			}}}},
			{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
				ID:       "call1",
				Name:     "search_assets",
				Response: "found 2 files",
			}}}},
		},
	}

	toolResponses, order := collectToolResponses(req)
	require.Equal(t, []string{"call1"}, order)
	assert.Equal(t, "found 2 files", toolResponses["call1"])

	messages := buildMessages(req, toolResponses, order)
	require.Len(t, messages, 4)

	assert.NotNil(t, messages[0].OfSystem)
	assert.NotNil(t, messages[1].OfUser)

	require.NotNil(t, messages[2].OfAssistant)
	calls := messages[2].OfAssistant.ToolCalls
	require.Len(t, calls, 1)
	assert.Equal(t, "call1", calls[0].ID)
	assert.Equal(t, "search_assets", calls[0].Function.Name)
	assert.Equal(t, `{"query":"spray"}`, calls[0].Function.Arguments)

	require.NotNil(t, messages[3].OfTool)
	assert.Equal(t, "call1", messages[3].OfTool.ToolCallID)
}

func TestCollectToolResponses_KeepsFirstPerID(t *testing.T) {
	req := model.Request{Contents: []core.Content{
		{Role: "tool", Parts: []core.Part{
			core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "c1", Response: "first"}},
			core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "c1", Response: "second"}},
		}},
	}}

	toolResponses, order := collectToolResponses(req)
	assert.Equal(t, []string{"c1"}, order)
	assert.Equal(t, "first", toolResponses["c1"])
}

func TestNewModelFromClient_AppliesOptions(t *testing.T) {
	m := NewModelFromClient(nil, func(o *Options) {
		o.Model = "gpt-4o"
		o.Temperature = 0.1
	})

	assert.Equal(t, "gpt-4o", m.opts.Model)
	assert.Equal(t, 0.1, m.opts.Temperature)
	assert.Equal(t, int64(4096), m.opts.MaxCompletionTokens)
}
