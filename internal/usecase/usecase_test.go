package usecase

import (
	"context"
	"testing"
	"time"

	"estate/internal/access"
	"estate/internal/cache"
	"estate/internal/domain"
	"estate/internal/repository/memory"
	"estate/internal/resource"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store *memory.Store
	clock *clock.Mock
	deps  resource.Deps
}

// setupFixture seeds users uA (company A) and uB (company B).
func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, access.UserCollection, "uA", &domain.User{ID: "uA", Company: "A"}))
	require.NoError(t, store.Set(ctx, access.UserCollection, "uB", &domain.User{ID: "uB", Company: "B"}))

	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := cache.NewRegistry(&cache.Options{DefaultTTL: time.Hour, Clock: mockClock})

	return &fixture{
		store: store,
		clock: mockClock,
		deps: resource.Deps{
			Store:     store,
			Registry:  registry,
			Directory: access.NewDirectory(store, registry, zap.NewNop()),
			Logger:    zap.NewNop(),
		},
	}
}

func (f *fixture) put(t *testing.T, collection, id string, doc any) {
	t.Helper()
	require.NoError(t, f.store.Set(context.Background(), collection, id, doc))
}

func companyA() domain.Access {
	return domain.Access{Type: domain.ScopeInternal, Companies: []string{"A"}}
}

func (f *fixture) putProperty(t *testing.T, id string) {
	f.put(t, resource.Properties.Collection, id, &domain.Property{
		ID:            id,
		Name:          "Property " + id,
		ElectricMonth: domain.ElectricMonthOdd,
		Access:        companyA(),
	})
}

func (f *fixture) putRoom(t *testing.T, id, propertyID string) {
	f.put(t, resource.Rooms.Collection, id, &domain.Room{
		ID:         id,
		Name:       "Room " + id,
		PropertyID: propertyID,
		Access:     companyA(),
	})
}

func (f *fixture) putLease(t *testing.T, id, propertyID, roomID, tenantID string, active bool) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.put(t, resource.Leases.Collection, id, &domain.Lease{
		ID:         id,
		TimeStart:  start,
		TimeEnd:    start.AddDate(1, 0, 0),
		Deposit:    20000,
		Version:    1,
		Status:     active,
		PropertyID: propertyID,
		RoomID:     roomID,
		TenantID:   tenantID,
		Access:     companyA(),
	})
}

func (f *fixture) putTenant(t *testing.T, id, name, tel string) {
	f.put(t, resource.Tenants.Collection, id, &domain.Tenant{
		ID:     id,
		Name:   name,
		Tel:    tel,
		Access: companyA(),
	})
}

func (f *fixture) rebuild(t *testing.T) {
	t.Helper()
	_, err := NewIndexRebuilder(f.deps, f.clock).RebuildAll(context.Background())
	require.NoError(t, err)
}
