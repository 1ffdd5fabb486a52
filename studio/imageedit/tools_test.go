package imageedit

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlabs/designstudio/artifact"
	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/logging"
	"github.com/craftlabs/designstudio/session"
	"github.com/craftlabs/designstudio/studio/imagegen"
)

type fakePredictor struct {
	lastModel   string
	lastPayload map[string]any
	predictions []Prediction
	err         error
}

func (f *fakePredictor) Predict(_ context.Context, model string, payload map[string]any) ([]Prediction, error) {
	f.lastModel = model
	f.lastPayload = payload
	if f.err != nil {
		return nil, f.err
	}
	return f.predictions, nil
}

type fakeEditGenerator struct {
	lastReq imagegen.Request
	images  []imagegen.Image
	err     error
}

func (f *fakeEditGenerator) Generate(_ context.Context, req imagegen.Request) ([]imagegen.Image, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.images, nil
}

func newToolContext(t *testing.T) *core.ToolContext {
	t.Helper()

	sessStore := session.NewInMemoryStore()
	sess, err := sessStore.Create("sess")
	require.NoError(t, err)

	rc := core.NewRunContext(context.Background(), core.RunContextConfig{
		SessionID:     "sess",
		RunID:         "run",
		Agent:         core.AgentInfo{Name: "image_edit_agent", Type: "model"},
		Session:       sess,
		SessionStore:  sessStore,
		ArtifactStore: artifact.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
	})

	return core.NewToolContext(rc, "fc1")
}

func seedImage(t *testing.T, tc *core.ToolContext, id string) []byte {
	t.Helper()
	data := []byte("input-image-bytes")
	require.NoError(t, tc.SaveArtifact(id, core.Artifact{Data: data, MimeType: "image/png"}))
	return data
}

func encoded(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestChangeBackgroundFast_SavesPredictions(t *testing.T) {
	pred := &fakePredictor{predictions: []Prediction{
		{BytesBase64Encoded: encoded([]byte("edit-0"))},
		{BytesBase64Encoded: encoded([]byte("edit-1"))},
	}}
	tools := NewTools(pred, &fakeEditGenerator{})
	tc := newToolContext(t)
	input := seedImage(t, tc, "product.png")

	res, err := tools.ChangeBackgroundFast().Call(tc, map[string]any{
		"description":       "on a snowy mountain peak at sunset",
		"image_artifact_id": "product.png",
		"aspect_ratio":      "16:9",
		"sample_count":      2,
	})
	require.NoError(t, err)

	m := res.(map[string]any)
	require.Equal(t, "success", m["status"])
	assert.Equal(t, "edited_img_bkg_fc1_0.png, edited_img_bkg_fc1_1.png", m["tool_response_artifact_id"])
	assert.Equal(t, "product.png", m["tool_input_artifact_id"])

	assert.Equal(t, "imagegeneration@002", pred.lastModel)

	instances := pred.lastPayload["instances"].([]map[string]any)
	require.Len(t, instances, 1)
	assert.Contains(t, instances[0]["prompt"], "YOU MUST PRESERVE THE REFERENCE PRODUCT")
	image := instances[0]["image"].(map[string]any)
	assert.Equal(t, encoded(input), image["bytesBase64Encoded"])

	params := pred.lastPayload["parameters"].(map[string]any)
	assert.Equal(t, "16:9", params["aspectRatio"])
	assert.Equal(t, "backgroundEditing", params["mode"])
	assert.Equal(t, 15, params["guidanceScale"])
	assert.Equal(t, 2, params["sampleCount"])
	assert.Equal(t, 257, params["seed"])
	assert.Equal(t, true, params["disablePersonFace"])

	saved, err := tc.LoadArtifact("edited_img_bkg_fc1_0.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("edit-0"), saved.Data)
}

func TestChangeBackgroundFast_DefaultsAspectRatio(t *testing.T) {
	pred := &fakePredictor{predictions: []Prediction{{BytesBase64Encoded: encoded([]byte("edit"))}}}
	tools := NewTools(pred, &fakeEditGenerator{})
	tc := newToolContext(t)
	seedImage(t, tc, "product.png")

	res, err := tools.ChangeBackgroundFast().Call(tc, map[string]any{
		"description":       "a beach",
		"image_artifact_id": "product.png",
		"aspect_ratio":      "21:9",
		"sample_count":      1,
	})
	require.NoError(t, err)
	require.Equal(t, "success", res.(map[string]any)["status"])

	params := pred.lastPayload["parameters"].(map[string]any)
	assert.Equal(t, "1:1", params["aspectRatio"])
}

func TestChangeBackgroundFast_MissingArtifact(t *testing.T) {
	tools := NewTools(&fakePredictor{}, &fakeEditGenerator{})
	tc := newToolContext(t)

	res, err := tools.ChangeBackgroundFast().Call(tc, map[string]any{
		"description":       "a beach",
		"image_artifact_id": "missing.png",
		"aspect_ratio":      "1:1",
	})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Contains(t, m["message"], "missing.png not found")
}

func TestChangeBackgroundFast_PredictError(t *testing.T) {
	pred := &fakePredictor{err: errors.New("permission denied")}
	tools := NewTools(pred, &fakeEditGenerator{})
	tc := newToolContext(t)
	seedImage(t, tc, "product.png")

	res, err := tools.ChangeBackgroundFast().Call(tc, map[string]any{
		"description":       "a beach",
		"image_artifact_id": "product.png",
		"aspect_ratio":      "1:1",
	})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Contains(t, m["message"], "permission denied")
}

func TestChangeBackgroundFast_ZeroPredictions(t *testing.T) {
	pred := &fakePredictor{}
	tools := NewTools(pred, &fakeEditGenerator{})
	tc := newToolContext(t)
	seedImage(t, tc, "product.png")

	res, err := tools.ChangeBackgroundFast().Call(tc, map[string]any{
		"description":       "a beach",
		"image_artifact_id": "product.png",
		"aspect_ratio":      "1:1",
	})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Contains(t, m["message"], "zero predictions")
}

func TestChangeBackgroundQuality_MaskPayload(t *testing.T) {
	pred := &fakePredictor{predictions: []Prediction{{BytesBase64Encoded: encoded([]byte("edit"))}}}
	tools := NewTools(pred, &fakeEditGenerator{})
	tc := newToolContext(t)
	input := seedImage(t, tc, "product.png")

	res, err := tools.ChangeBackgroundQuality().Call(tc, map[string]any{
		"description":       "inside a modern kitchen",
		"image_artifact_id": "product.png",
		"sample_count":      6,
	})
	require.NoError(t, err)
	require.Equal(t, "success", res.(map[string]any)["status"])

	assert.Equal(t, "imagen-3.0-capability-001", pred.lastModel)

	instances := pred.lastPayload["instances"].([]map[string]any)
	require.Len(t, instances, 1)

	refs := instances[0]["referenceImages"].([]map[string]any)
	require.Len(t, refs, 2)
	assert.Equal(t, "REFERENCE_TYPE_RAW", refs[0]["referenceType"])
	assert.Equal(t, "REFERENCE_TYPE_MASK", refs[1]["referenceType"])

	raw := refs[0]["referenceImage"].(map[string]any)
	assert.Equal(t, encoded(input), raw["bytesBase64Encoded"])

	maskCfg := refs[1]["maskImageConfig"].(map[string]any)
	assert.Equal(t, "MASK_MODE_BACKGROUND", maskCfg["maskMode"])
	assert.Equal(t, []int{115}, maskCfg["maskClasses"])

	params := pred.lastPayload["parameters"].(map[string]any)
	assert.Equal(t, "EDIT_MODE_BGSWAP", params["editMode"])
	assert.Equal(t, 14, params["guidanceScale"])
	assert.Equal(t, 4, params["sampleCount"])
	assert.Equal(t, map[string]any{"baseSteps": 65}, params["editConfig"])
	assert.Equal(t, "Dark colors", params["negativePrompt"])
}

func TestEditImage_SavesArtifact(t *testing.T) {
	gen := &fakeEditGenerator{images: []imagegen.Image{{Data: []byte("edited"), MimeType: "image/png"}}}
	tools := NewTools(&fakePredictor{}, gen)
	tc := newToolContext(t)
	seedImage(t, tc, "product.png")

	res, err := tools.EditImage().Call(tc, map[string]any{
		"description":        "replace the scene with a rooftop garden",
		"image_artifact_ids": []any{"product.png", "extra.png"},
	})
	require.NoError(t, err)

	m := res.(map[string]any)
	require.Equal(t, "success", m["status"])
	assert.Equal(t, "edited_img_fc1.png", m["tool_response_artifact_id"])
	assert.Equal(t, "product.png", m["tool_input_artifact_id"])

	prompt := m["used_prompt"].(string)
	assert.Contains(t, prompt, "COMPLETE BACKGROUND REPLACEMENT")
	assert.Contains(t, prompt, "PHOTOREALISTIC LIGHTING")
	assert.Equal(t, gen.lastReq.Prompt, prompt)
	assert.Equal(t, 1, gen.lastReq.CandidateCount)
	require.Len(t, gen.lastReq.References, 1)

	saved, err := tc.LoadArtifact("edited_img_fc1.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("edited"), saved.Data)
}

func TestEditImage_RequiresReference(t *testing.T) {
	tools := NewTools(&fakePredictor{}, &fakeEditGenerator{})
	tc := newToolContext(t)

	res, err := tools.EditImage().Call(tc, map[string]any{
		"description":        "a rooftop garden",
		"image_artifact_ids": []any{},
	})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Contains(t, m["message"], "No reference image artifact ID provided")
}
