package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkn-labs/supportbot/internal/domain"
)

func TestGetReturnsFreshSession(t *testing.T) {
	store := NewMemoryStore()
	sess, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateInitial, sess.State)
	assert.Empty(t, sess.Context)
	assert.Equal(t, int64(1), sess.UserID)
}

func TestSetStateAndUpdateContext(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetState(ctx, 1, domain.StateAwaitingServer))
	require.NoError(t, store.UpdateContext(ctx, 1, domain.ContextChosenServer, "Russia"))
	require.NoError(t, store.UpdateContext(ctx, 1, "other", "value"))

	sess, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingServer, sess.State)
	assert.Equal(t, "Russia", sess.Context[domain.ContextChosenServer])
	assert.Equal(t, "value", sess.Context["other"])

	// Merging one key preserves the others.
	require.NoError(t, store.UpdateContext(ctx, 1, "other", "changed"))
	sess, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Russia", sess.Context[domain.ContextChosenServer])
	assert.Equal(t, "changed", sess.Context["other"])
}

func TestClearResetsToInitial(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetState(ctx, 1, domain.StateAwaitingRating))
	require.NoError(t, store.UpdateContext(ctx, 1, domain.ContextChosenServer, "Russia"))
	require.NoError(t, store.Clear(ctx, 1))

	sess, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateInitial, sess.State)
	assert.Empty(t, sess.Context)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetState(ctx, 1, domain.StateAwaitingDevice))
	require.NoError(t, store.SetState(ctx, 2, domain.StateAwaitingServer))

	first, err := store.Get(ctx, 1)
	require.NoError(t, err)
	second, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingDevice, first.State)
	assert.Equal(t, domain.StateAwaitingServer, second.State)
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.UpdateContext(ctx, 1, "key", "value"))
	sess, err := store.Get(ctx, 1)
	require.NoError(t, err)
	sess.Context["key"] = "mutated"
	sess.State = domain.StateAwaitingRating

	fresh, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "value", fresh.Context["key"])
	assert.Equal(t, domain.StateInitial, fresh.State)
}
