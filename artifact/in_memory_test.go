package artifact

import (
	"testing"

	"github.com/craftlabs/designstudio/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SaveGet(t *testing.T) {
	store := NewInMemoryStore()

	art := core.Artifact{Data: []byte("png-bytes"), MimeType: "image/png"}
	require.NoError(t, store.Save("sess", "gcs_image_logo.png", art))

	got, err := store.Get("sess", "gcs_image_logo.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, []byte("png-bytes"), got.Data)

	// Returned copy must not alias the stored buffer.
	got.Data[0] = 'X'
	again, err := store.Get("sess", "gcs_image_logo.png")
	require.NoError(t, err)
	assert.Equal(t, byte('p'), again.Data[0])
}

func TestInMemoryStore_NotFound(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get("sess", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete("sess", "missing"), ErrNotFound)
}

func TestInMemoryStore_ListAndDelete(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Save("sess", "a", core.Artifact{Data: []byte("1")}))
	require.NoError(t, store.Save("sess", "b", core.Artifact{Data: []byte("2")}))

	ids, err := store.List("sess")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, store.Delete("sess", "a"))
	ids, err = store.List("sess")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)

	ids, err = store.List("other")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
