package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb), mr
}

func TestStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, Data{UserID: 5, Role: "user"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(5), got.UserID)
	assert.Equal(t, "user", got.Role)
}

func TestStore_UnknownIDIsUnauthenticatedNotError(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok, err := store.Get(context.Background(), "never-created")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_DestroyIsSynchronousAndIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, Data{UserID: 5, Role: "user"})
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, id))

	// Once Destroy returns, the identifier can never authenticate again.
	_, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	// Destroying an absent session is not an error.
	require.NoError(t, store.Destroy(ctx, id))
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, Data{UserID: 5, Role: "user"})
	require.NoError(t, err)

	mr.FastForward(TTL + time.Minute)

	_, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_IDsAreUniquePerSession(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Concurrent sessions for the same user coexist under distinct ids.
	id1, err := store.Create(ctx, Data{UserID: 5, Role: "user"})
	require.NoError(t, err)
	id2, err := store.Create(ctx, Data{UserID: 5, Role: "user"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	require.NoError(t, store.Destroy(ctx, id1))
	_, ok, err := store.Get(ctx, id2)
	require.NoError(t, err)
	assert.True(t, ok, "destroying one session must not touch the other")
}
