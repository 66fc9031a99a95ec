package usecase

import (
	"context"
	"testing"

	"estate/internal/domain"
	"estate/internal/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupancy(t *testing.T) {
	f := setupFixture(t)
	f.putProperty(t, "P")
	f.putRoom(t, "R1", "P")
	f.putRoom(t, "R2", "P")
	f.putRoom(t, "R3", "P")
	f.putLease(t, "L1", "P", "R1", "T1", true)
	f.putLease(t, "L0", "P", "R2", "T9", false)
	f.putTenant(t, "T1", "Chen Mei", "0912345678")
	f.rebuild(t)

	records, err := NewOccupancyService(f.deps).Occupancy(context.Background(), "uA", "P")
	require.NoError(t, err)
	require.Len(t, records, 3)

	r1 := records[0]
	assert.Equal(t, "R1", r1.RoomID)
	assert.Equal(t, StatusOccupied, r1.Status)
	require.NotNil(t, r1.Tenant)
	assert.Equal(t, "Chen Mei", r1.Tenant.Name)
	assert.Equal(t, "0912345678", r1.Tenant.Tel)
	assert.Equal(t, "T1", r1.Tenant.ID)
	require.NotNil(t, r1.Lease)
	assert.Equal(t, "L1", r1.Lease.ID)
	assert.Equal(t, int64(20000), r1.Lease.Deposit)
	assert.Equal(t, 2025, r1.Lease.TimeEnd.Year())

	for _, r := range records[1:] {
		assert.Equal(t, StatusVacant, r.Status, r.RoomID)
		assert.Nil(t, r.Tenant)
		assert.Nil(t, r.Lease)
	}
	assert.Equal(t, "R2", records[1].RoomID)
	assert.Equal(t, "R3", records[2].RoomID)
}

func TestOccupancyTooManyLeases(t *testing.T) {
	f := setupFixture(t)
	f.putProperty(t, "P")
	f.putRoom(t, "R1", "P")
	f.putLease(t, "L1", "P", "R1", "T1", true)
	f.putLease(t, "L2", "P", "R1", "T2", true)
	f.rebuild(t)
	writes := f.store.Len(resource.Leases.Collection)

	_, err := NewOccupancyService(f.deps).Occupancy(context.Background(), "uA", "P")
	require.ErrorIs(t, err, domain.ErrConsistency)

	var e *domain.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "PROP", e.Prefix)
	assert.Equal(t, writes, f.store.Len(resource.Leases.Collection))
}

func TestOccupancyTenantFailureIsolated(t *testing.T) {
	f := setupFixture(t)
	f.putProperty(t, "P")
	f.putRoom(t, "R1", "P")
	f.putRoom(t, "R2", "P")
	f.putLease(t, "L1", "P", "R1", "T-missing", true)
	f.putLease(t, "L2", "P", "R2", "T2", true)
	f.putTenant(t, "T2", "Wang", "0987654321")
	f.rebuild(t)

	records, err := NewOccupancyService(f.deps).Occupancy(context.Background(), "uA", "P")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, StatusError, records[0].Status)
	assert.Equal(t, "TENA.get: not found", records[0].Error)
	assert.Nil(t, records[0].Tenant)
	assert.Equal(t, StatusOccupied, records[1].Status)
	assert.Equal(t, "Wang", records[1].Tenant.Name)
}

func TestOccupancyPropertyChecks(t *testing.T) {
	f := setupFixture(t)
	f.putProperty(t, "P")
	ctx := context.Background()
	svc := NewOccupancyService(f.deps)

	_, err := svc.Occupancy(ctx, "uB", "P")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.Occupancy(ctx, "uA", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// no index built yet: no rooms
	records, err := svc.Occupancy(ctx, "uA", "P")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOccupancyDoubleLetRoom(t *testing.T) {
	f := setupFixture(t)
	f.putProperty(t, "P")
	f.putRoom(t, "R1", "P")
	f.putRoom(t, "R2", "P")
	f.putLease(t, "L1", "P", "R1", "T1", true)
	f.putLease(t, "L2", "P", "R1", "T1", true)
	f.putTenant(t, "T1", "Lin", "02")
	f.rebuild(t)

	records, err := NewOccupancyService(f.deps).Occupancy(context.Background(), "uA", "P")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, StatusError, records[0].Status)
	assert.Equal(t, StatusVacant, records[1].Status)
}
