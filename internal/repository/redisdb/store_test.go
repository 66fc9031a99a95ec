package redisdb

import (
	"context"
	"testing"

	"estate/internal/domain"
	"estate/internal/repository/storetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := Connect(context.Background(), &redis.Options{Addr: mr.Addr()}, "estate", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		store, _ := setupRedis(t)
		return store
	})
}

func TestKeyLayout(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedis(t)

	require.NoError(t, store.Set(ctx, "rooms", "R1", &domain.Room{ID: "R1", Name: "101"}))

	assert.True(t, mr.Exists("estate:rooms:doc:R1"))
	members, err := mr.Members("estate:rooms:ids")
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, members)

	require.NoError(t, store.Delete(ctx, "rooms", "R1"))
	assert.False(t, mr.Exists("estate:rooms:doc:R1"))
	assert.False(t, mr.Exists("estate:rooms:ids"))
}

func TestGetInSkipsDriftedIDs(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedis(t)

	require.NoError(t, store.Set(ctx, "rooms", "R1", &domain.Room{ID: "R1"}))
	require.NoError(t, store.Set(ctx, "rooms", "R2", &domain.Room{ID: "R2"}))
	mr.Del("estate:rooms:doc:R2")

	ids, err := store.ListIDs(ctx, "rooms")
	require.NoError(t, err)
	docs, err := store.GetIn(ctx, "rooms", ids)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	id, ok := domain.DocumentID(docs[0])
	assert.True(t, ok)
	assert.Equal(t, "R1", id)
}

func TestConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), &redis.Options{Addr: addr, MaxRetries: -1}, "estate", zap.NewNop())
	assert.Error(t, err)
}
