package usecase

import (
	"context"
	"errors"
	"testing"

	"estate/internal/domain"
	"estate/internal/resource"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRebuild(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.putRoom(t, "R3", "P1")
	f.putRoom(t, "R1", "P1")
	f.putRoom(t, "R2", "P2")
	f.put(t, resource.Rooms.Collection, "R4", bson.M{"_id": "R4", "name": "orphan"})

	idx, err := NewIndexRebuilder(f.deps, f.clock).Rebuild(ctx, RoomsByProperty)
	require.NoError(t, err)

	assert.Equal(t, domain.IndexRoomsByProperty, idx.ID)
	assert.Equal(t, map[string][]string{"P1": {"R1", "R3"}, "P2": {"R2"}}, idx.Children)
	assert.Equal(t, f.clock.Now().UTC(), idx.RebuiltAt)
	_, err = uuid.Parse(idx.RebuildID)
	assert.NoError(t, err)

	stored, err := resource.NewRoomsByProperty(f.deps, "uA").Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, idx, stored)
}

func TestRebuildManyBatches(t *testing.T) {
	f := setupFixture(t)
	for _, id := range []string{"R01", "R02", "R03", "R04", "R05", "R06", "R07"} {
		f.putRoom(t, id, "P1")
	}
	f.deps.BatchSize = 2

	idx, err := NewIndexRebuilder(f.deps, f.clock).Rebuild(context.Background(), RoomsByProperty)
	require.NoError(t, err)
	assert.Equal(t, []string{"R01", "R02", "R03", "R04", "R05", "R06", "R07"}, idx.Children["P1"])
	assert.Equal(t, 4, f.store.Calls("GetIn", resource.Rooms.Collection))
}

func TestRebuildInvalidatesCachedIndex(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.putRoom(t, "R1", "P1")
	f.rebuild(t)

	rooms := resource.NewRoomsByProperty(f.deps, "uA")
	ids, err := rooms.IDsForParent(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, ids)

	_, err = rooms.Create(ctx, &domain.Room{ID: "R2", PropertyID: "P1", Access: companyA()})
	require.NoError(t, err)

	first, err := rooms.Index(ctx)
	require.NoError(t, err)
	f.rebuild(t)

	ids, err = rooms.IDsForParent(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R2"}, ids)

	second, err := rooms.Index(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.RebuildID, second.RebuildID)
}

func TestRebuildAll(t *testing.T) {
	f := setupFixture(t)
	f.putRoom(t, "R1", "P1")
	f.putLease(t, "L1", "P1", "R1", "T1", true)

	indexes, err := NewIndexRebuilder(f.deps, f.clock).RebuildAll(context.Background())
	require.NoError(t, err)
	require.Len(t, indexes, 2)
	assert.Equal(t, []string{"R1"}, indexes[0].ChildrenOf("P1"))
	assert.Equal(t, []string{"L1"}, indexes[1].ChildrenOf("P1"))
}

type failingStore struct {
	domain.Store
}

func (failingStore) ListIDs(context.Context, string) ([]string, error) {
	return nil, errors.New("cursor killed")
}

func TestRebuildStoreFailure(t *testing.T) {
	f := setupFixture(t)
	f.deps.Store = failingStore{Store: f.store}

	_, err := NewIndexRebuilder(f.deps, f.clock).Rebuild(context.Background(), LeasesByProperty)
	assert.ErrorIs(t, err, domain.ErrInternal)
}
