package session

import (
	"testing"

	"github.com/craftlabs/designstudio/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_LazyGet(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sess.ID)
	assert.Empty(t, sess.Events)
}

func TestInMemoryStore_AppendAndDelta(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.AppendEvent("sess-1", core.NewUserMessageEvent("run-1", "hello")))
	require.NoError(t, store.ApplyDelta("sess-1", map[string]any{"brand": "Acme"}))

	sess, err := store.Get("sess-1")
	require.NoError(t, err)
	assert.Len(t, sess.Events, 1)

	v, ok := sess.GetState("brand")
	assert.True(t, ok)
	assert.Equal(t, "Acme", v)
}

func TestInMemoryStore_CloneIsolation(t *testing.T) {
	store := NewInMemoryStore()
	sess, err := store.Create("sess-1")
	require.NoError(t, err)

	// Mutating the returned clone must not leak into the store.
	sess.SetState("leak", true)

	fresh, err := store.Get("sess-1")
	require.NoError(t, err)
	_, ok := fresh.GetState("leak")
	assert.False(t, ok)
}
