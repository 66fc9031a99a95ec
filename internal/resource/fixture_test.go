package resource

import (
	"context"
	"fmt"
	"testing"
	"time"

	"estate/internal/access"
	"estate/internal/cache"
	"estate/internal/domain"
	"estate/internal/repository/memory"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type fixture struct {
	store    *memory.Store
	registry *cache.Registry
	clock    *clock.Mock
	deps     Deps
}

// setupFixture seeds users uA (company A) and uB (company B).
func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, access.UserCollection, "uA", &domain.User{ID: "uA", Company: "A"}))
	require.NoError(t, store.Set(ctx, access.UserCollection, "uB", &domain.User{ID: "uB", Company: "B"}))

	mockClock := clock.NewMock()
	registry := cache.NewRegistry(&cache.Options{DefaultTTL: time.Hour, Clock: mockClock})

	return &fixture{
		store:    store,
		registry: registry,
		clock:    mockClock,
		deps: Deps{
			Store:     store,
			Registry:  registry,
			Directory: access.NewDirectory(store, registry, zap.NewNop()),
			Logger:    zap.NewNop(),
		},
	}
}

func newRoom(id, propertyID string, companies ...string) *domain.Room {
	return &domain.Room{
		ID:         id,
		Name:       "room " + id,
		PropertyID: propertyID,
		Facilities: map[string]int{"bed": 1},
		Access:     domain.Access{Type: domain.ScopeInternal, Companies: companies},
	}
}

func (f *fixture) putRooms(t *testing.T, rooms ...*domain.Room) {
	t.Helper()
	for _, r := range rooms {
		require.NoError(t, f.store.Set(context.Background(), Rooms.Collection, r.ID, r))
	}
}

func seqIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%03d", prefix, i)
	}
	return ids
}

// mockStore is a domain.Store whose answers are scripted per test.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	args := m.Called(ctx, collection, id)
	raw, _ := args.Get(0).(bson.Raw)
	return raw, args.Error(1)
}

func (m *mockStore) Set(ctx context.Context, collection, id string, doc any) error {
	args := m.Called(ctx, collection, id, doc)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *mockStore) ListIDs(ctx context.Context, collection string) ([]string, error) {
	args := m.Called(ctx, collection)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockStore) GetIn(ctx context.Context, collection string, ids []string) ([]bson.Raw, error) {
	args := m.Called(ctx, collection, ids)
	docs, _ := args.Get(0).([]bson.Raw)
	return docs, args.Error(1)
}

func mustRaw(t *testing.T, doc any) bson.Raw {
	t.Helper()
	raw, err := domain.EncodeDocument(doc)
	require.NoError(t, err)
	return raw
}
