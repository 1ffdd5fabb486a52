package assets

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlabs/designstudio/artifact"
	"github.com/craftlabs/designstudio/core"
	"github.com/craftlabs/designstudio/logging"
	"github.com/craftlabs/designstudio/session"
)

type fakeBlobStore struct {
	objects map[string][]byte

	uploads     map[string][]byte
	uploadTypes map[string]string
	listErr     error
}

func newFakeBlobStore(objects map[string][]byte) *fakeBlobStore {
	return &fakeBlobStore{
		objects:     objects,
		uploads:     map[string][]byte{},
		uploadTypes: map[string]string{},
	}
}

func (f *fakeBlobStore) List(_ context.Context, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var names []string
	for name := range f.objects {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeBlobStore) Download(_ context.Context, name string) ([]byte, error) {
	data, ok := f.objects[name]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Upload(_ context.Context, name string, data []byte, contentType string) error {
	f.uploads[name] = data
	f.uploadTypes[name] = contentType
	return nil
}

func (f *fakeBlobStore) SignedURL(name string, _ time.Duration) (string, error) {
	return "https://signed.example/" + name, nil
}

func newToolContext(t *testing.T) *core.ToolContext {
	t.Helper()

	sessStore := session.NewInMemoryStore()
	sess, err := sessStore.Create("sess")
	require.NoError(t, err)

	rc := core.NewRunContext(context.Background(), core.RunContextConfig{
		SessionID:     "sess",
		RunID:         "run",
		Agent:         core.AgentInfo{Name: "asset_agent", Type: "model"},
		Session:       sess,
		SessionStore:  sessStore,
		ArtifactStore: artifact.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
	})

	return core.NewToolContext(rc, "fc1")
}

func TestSearchAssets_RanksAndReturnsBasenames(t *testing.T) {
	store := newFakeBlobStore(map[string][]byte{
		"high_resolution_images/blue_shampoo_bottle.png": []byte("a"),
		"high_resolution_images/red_conditioner_jar.png": []byte("b"),
	})
	tools := NewTools(store, newFakeBlobStore(nil))
	tc := newToolContext(t)

	res, err := tools.SearchAssets().Call(tc, map[string]any{"search_query": "blue shampoo bottle"})
	require.NoError(t, err)

	m := res.(map[string]any)
	require.Equal(t, "success", m["status"])

	images := m["images"].([]string)
	require.NotEmpty(t, images)
	assert.Equal(t, "blue_shampoo_bottle.png", images[0])
}

func TestSearchAssets_NoMatches(t *testing.T) {
	store := newFakeBlobStore(map[string][]byte{
		"high_resolution_images/blue_shampoo_bottle.png": []byte("a"),
	})
	tools := NewTools(store, newFakeBlobStore(nil))
	tc := newToolContext(t)

	res, err := tools.SearchAssets().Call(tc, map[string]any{"search_query": "office chair"})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Equal(t, "No matching files found.", m["message"])
}

func TestSearchAssets_ListFailure(t *testing.T) {
	store := newFakeBlobStore(nil)
	store.listErr = fmt.Errorf("bucket unavailable")
	tools := NewTools(store, newFakeBlobStore(nil))
	tc := newToolContext(t)

	res, err := tools.SearchAssets().Call(tc, map[string]any{"search_query": "anything"})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Contains(t, m["message"], "bucket unavailable")
}

func TestGetAsset_SavesArtifact(t *testing.T) {
	data := []byte("image bytes")
	store := newFakeBlobStore(map[string][]byte{
		"high_resolution_images/blue_shampoo_bottle.png": data,
	})
	tools := NewTools(store, newFakeBlobStore(nil))
	tc := newToolContext(t)

	res, err := tools.GetAsset().Call(tc, map[string]any{"asset_name": "blue_shampoo_bottle.png"})
	require.NoError(t, err)

	m := res.(map[string]any)
	require.Equal(t, "success", m["status"])
	assert.Equal(t, "gcs_image_blue_shampoo_bottle.png", m["artifact_id"])

	art, err := tc.LoadArtifact("gcs_image_blue_shampoo_bottle.png")
	require.NoError(t, err)
	assert.Equal(t, data, art.Data)
	assert.Equal(t, "image/png", art.MimeType)
}

func TestGetAsset_NotFound(t *testing.T) {
	tools := NewTools(newFakeBlobStore(nil), newFakeBlobStore(nil))
	tc := newToolContext(t)

	res, err := tools.GetAsset().Call(tc, map[string]any{"asset_name": "missing.png"})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Contains(t, m["message"], "missing.png")
}

func TestPublishAsset_TimestampName(t *testing.T) {
	outputs := newFakeBlobStore(nil)
	tools := NewTools(newFakeBlobStore(nil), outputs)
	tc := newToolContext(t)

	require.NoError(t, tc.SaveArtifact("generated_img_fc1.png", core.Artifact{
		Data:     []byte("img"),
		MimeType: "image/jpeg",
	}))

	res, err := tools.PublishAsset().Call(tc, map[string]any{
		"artifact_id": "generated_img_fc1.png",
		"custom_name": "use_default",
	})
	require.NoError(t, err)

	m := res.(map[string]any)
	require.Equal(t, "success", m["status"])

	filename := m["filename"].(string)
	assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}\d{6}\.jpeg$`), filename)
	assert.Equal(t, "https://signed.example/"+filename, m["signed_url"])
	assert.Equal(t, []byte("img"), outputs.uploads[filename])
	assert.Equal(t, "image/jpeg", outputs.uploadTypes[filename])
}

func TestPublishAsset_CustomName(t *testing.T) {
	outputs := newFakeBlobStore(nil)
	tools := NewTools(newFakeBlobStore(nil), outputs)
	tc := newToolContext(t)

	require.NoError(t, tc.SaveArtifact("generated_img_fc1.png", core.Artifact{
		Data:     []byte("img"),
		MimeType: "image/png",
	}))

	res, err := tools.PublishAsset().Call(tc, map[string]any{
		"artifact_id": "generated_img_fc1.png",
		"custom_name": "My Promo Shot!",
	})
	require.NoError(t, err)

	m := res.(map[string]any)
	require.Equal(t, "success", m["status"])
	assert.Equal(t, "my_promo_shot.png", m["filename"])
}

func TestPublishAsset_UnknownMimeFallsBackToPNG(t *testing.T) {
	outputs := newFakeBlobStore(nil)
	tools := NewTools(newFakeBlobStore(nil), outputs)
	tc := newToolContext(t)

	require.NoError(t, tc.SaveArtifact("art", core.Artifact{Data: []byte("img"), MimeType: "image/webp"}))

	res, err := tools.PublishAsset().Call(tc, map[string]any{
		"artifact_id": "art",
		"custom_name": "promo",
	})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, "promo.png", m["filename"])
}

func TestPublishAsset_MissingArtifact(t *testing.T) {
	tools := NewTools(newFakeBlobStore(nil), newFakeBlobStore(nil))
	tc := newToolContext(t)

	res, err := tools.PublishAsset().Call(tc, map[string]any{"artifact_id": "nope"})
	require.NoError(t, err)

	m := res.(map[string]any)
	assert.Equal(t, "error", m["status"])
	assert.Contains(t, m["message"], "nope")
}
