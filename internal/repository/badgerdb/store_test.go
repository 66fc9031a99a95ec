package badgerdb

import (
	"context"
	"testing"

	"estate/internal/domain"
	"estate/internal/repository/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		return openInMemory(t)
	})
}

func TestCollectionsDoNotOverlap(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)

	require.NoError(t, s.Set(ctx, "rooms", "R1", &domain.Room{ID: "R1"}))
	require.NoError(t, s.Set(ctx, "rooms_archive", "R2", &domain.Room{ID: "R2"}))

	require.NoError(t, s.Set(ctx, "rooms/archive", "R3", &domain.Room{ID: "R3"}))

	ids, err := s.ListIDs(ctx, "rooms")
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, ids)

	ids, err = s.ListIDs(ctx, "rooms/archive")
	require.NoError(t, err)
	assert.Equal(t, []string{"R3"}, ids)

	_, err = s.Get(ctx, "rooms", "archive/R3")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpenOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(Options{Path: dir}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "tenants", "T1", &domain.Tenant{ID: "T1", Name: "Lin"}))
	require.NoError(t, s.Close())

	s, err = Open(Options{Path: dir}, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	raw, err := s.Get(ctx, "tenants", "T1")
	require.NoError(t, err)
	assert.Equal(t, "Lin", raw.Lookup("name").StringValue())
}
