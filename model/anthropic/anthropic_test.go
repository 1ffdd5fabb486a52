package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_EmbedsToolResults(t *testing.T) {
	m := NewModelFromClient(nil)

	contents := []core.Content{
		{Role: "user", Parts: []core.Part{core.TextPart{Text: "find the spray images"}}},
		{Role: "assistant", Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{
			ID:        "tu1",
			Name:      "search_assets",
			Arguments: `{"query":"spray"}`,
		}}}},
		{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
			ID:       "tu1",
			Name:     "search_assets",
			Response: "found 2 files",
		}}}},
	}

	messages := m.buildMessages(contents)
	require.Len(t, messages, 2)

	assert.Equal(t, anthropic.MessageParamRoleUser, messages[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[1].Role)
	// Tool use block plus its tool result block.
	assert.Len(t, messages[1].Content, 2)
}

func TestExtractSystemMessage_CollectsSystemText(t *testing.T) {
	m := NewModelFromClient(nil)

	blocks := m.extractSystemMessage([]core.Content{
		{Role: "system", Parts: []core.Part{core.TextPart{Text: "route requests"}}},
		{Role: "user", Parts: []core.Part{core.TextPart{Text: "hi"}}},
	})

	require.Len(t, blocks, 1)
	assert.Equal(t, "route requests", blocks[0].Text)
}

func TestBuildTools_ConvertsRequiredList(t *testing.T) {
	m := NewModelFromClient(nil)

	tools := m.buildTools([]model.ToolDefinition{{
		Type: "function",
		Function: model.FunctionDefinition{
			Name: "search_assets",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string"},
				},
				"required": []any{"query"},
			},
		},
	}})

	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "search_assets", tools[0].OfTool.Name)
	assert.Equal(t, []string{"query"}, tools[0].OfTool.InputSchema.Required)
}
