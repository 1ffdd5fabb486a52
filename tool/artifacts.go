package tool

import (
	"github.com/craftlabs/designstudio/core"
)

// loadArtifactsTool lists the artifact IDs stored for the current session so
// the model can reference previously produced or uploaded files.
type loadArtifactsTool struct{}

// NewLoadArtifactsTool constructs the artifact listing tool instance.
func NewLoadArtifactsTool() Tool { return &loadArtifactsTool{} }

func (t *loadArtifactsTool) Name() string { return "load_artifacts" }

func (t *loadArtifactsTool) Description() string {
	return "List the artifact IDs available in the current session, such as retrieved assets, uploads, and generated images."
}

func (t *loadArtifactsTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *loadArtifactsTool) Call(tc *core.ToolContext, _ map[string]any) (any, error) {
	ids, err := tc.ListArtifacts()
	if err != nil {
		return nil, err
	}
	return map[string]any{"artifact_ids": ids, "count": len(ids)}, nil
}
