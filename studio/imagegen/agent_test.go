package imagegen

import (
	"testing"

	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/model"
	"github.com/stretchr/testify/assert"
)

type stubPublishTool struct{}

func (stubPublishTool) Name() string               { return "publish_asset" }
func (stubPublishTool) Description() string        { return "stub" }
func (stubPublishTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (stubPublishTool) Call(*core.ToolContext, map[string]any) (any, error) {
	return nil, nil
}

func TestNewAgent_RegistersTools(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	a := NewAgent(llm, NewTools(&fakeGenerator{}), stubPublishTool{})

	assert.Equal(t, "image_gen_agent", a.Name())
	assert.True(t, a.HasTool("generate_image"))
	assert.True(t, a.HasTool("generate_unbranded_image"))
	assert.True(t, a.HasTool("publish_asset"))
	assert.True(t, a.HasTool("load_artifacts"))

	// The instruction tells the model to hand editing requests off, so the
	// transfer tool has to be callable.
	assert.True(t, a.IsTransferEnabled())
	assert.True(t, a.HasTool("transfer_to_agent"))
}
