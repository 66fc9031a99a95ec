package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"estate/internal/core"
	"estate/internal/domain"
	"estate/internal/resource"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// OccupancyStatus tags a room in an occupancy report.
type OccupancyStatus string

const (
	StatusOccupied OccupancyStatus = "occupied"
	StatusVacant   OccupancyStatus = "vacant"
	StatusError    OccupancyStatus = "error"
)

// TenantSummary is the part of a tenant shown in an occupancy report.
type TenantSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tel  string `json:"tel"`
}

// LeaseSummary is the part of a lease shown in an occupancy report.
type LeaseSummary struct {
	ID        string    `json:"id"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
	Deposit   int64     `json:"deposit"`
	Version   int64     `json:"version"`
}

// RoomOccupancy describes one room. Tenant and Lease are nil unless the
// room is occupied.
type RoomOccupancy struct {
	RoomID   string          `json:"room_id"`
	RoomName string          `json:"room_name"`
	Status   OccupancyStatus `json:"status"`
	Tenant   *TenantSummary  `json:"tenant"`
	Lease    *LeaseSummary   `json:"lease"`
	Error    string          `json:"error,omitempty"`
}

// OccupancyService reports which rooms of a property are let and to whom.
// It only reads.
type OccupancyService struct {
	deps   resource.Deps
	logger *zap.Logger
}

// NewOccupancyService creates the service.
func NewOccupancyService(deps resource.Deps) *OccupancyService {
	return &OccupancyService{
		deps:   deps,
		logger: core.Named(deps.Logger, "occupancy"),
	}
}

// Occupancy returns one record per visible room of propertyID, in index
// order. It fails with ErrConsistency when the property has more active
// leases than rooms. A lease whose tenant cannot be resolved turns its room
// into an error record instead of failing the call.
func (s *OccupancyService) Occupancy(ctx context.Context, uid, propertyID string) ([]RoomOccupancy, error) {
	properties := resource.NewProperties(s.deps, uid)
	rooms := resource.NewRoomsByProperty(s.deps, uid)
	leases := resource.NewLeasesByProperty(s.deps, uid)
	tenants := resource.NewTenants(s.deps, uid)

	if _, _, err := properties.Get(ctx, propertyID, resource.WithStrict()); err != nil {
		return nil, err
	}

	roomIDs, err := rooms.IDsForParent(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	roomsByID, err := rooms.GetMany(ctx, roomIDs)
	if err != nil {
		return nil, err
	}

	leasesByID, err := leases.ResourcesForParent(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	active := make([]*domain.Lease, 0, len(leasesByID))
	for _, lease := range leasesByID {
		if lease.Active() {
			active = append(active, lease)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	if len(active) > len(roomsByID) {
		return nil, domain.NewError(domain.ErrConsistency, properties.Kind().Prefix, "occupancy", propertyID,
			fmt.Errorf("%d active leases for %d rooms", len(active), len(roomsByID)))
	}

	leaseByRoom := make(map[string][]*domain.Lease, len(active))
	for _, lease := range active {
		leaseByRoom[lease.RoomID] = append(leaseByRoom[lease.RoomID], lease)
	}

	records := make([]RoomOccupancy, 0, len(roomsByID))
	for _, roomID := range roomIDs {
		room, ok := roomsByID[roomID]
		if !ok {
			continue
		}

		record := RoomOccupancy{RoomID: room.ID, RoomName: room.Name}
		switch roomLeases := leaseByRoom[roomID]; len(roomLeases) {
		case 0:
			record.Status = StatusVacant
		case 1:
			s.fillOccupied(ctx, tenants, &record, roomLeases[0])
		default:
			record.Status = StatusError
			record.Error = fmt.Sprintf("%d active leases on one room", len(roomLeases))
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *OccupancyService) fillOccupied(ctx context.Context, tenants *resource.Handler[*domain.Tenant], record *RoomOccupancy, lease *domain.Lease) {
	summary, err := resolveLease(ctx, tenants, lease)
	if err != nil {
		s.logger.Warn("Failed to resolve lease tenant",
			zap.String("room_id", record.RoomID),
			zap.String("lease_id", lease.ID),
			zap.String("tenant_id", lease.TenantID),
			zap.Error(err))

		record.Status = StatusError
		record.Error = publicError(err)
		return
	}

	record.Status = StatusOccupied
	record.Tenant = summary.tenant
	record.Lease = summary.lease
}

func resolveLease(ctx context.Context, tenants *resource.Handler[*domain.Tenant], lease *domain.Lease) (summaries, error) {
	tenant, _, err := tenants.Get(ctx, lease.TenantID, resource.WithStrict())
	if err != nil {
		return summaries{}, err
	}
	return summarize(tenant, lease)
}

type summaries struct {
	tenant *TenantSummary
	lease  *LeaseSummary
}

func summarize(tenant *domain.Tenant, lease *domain.Lease) (summaries, error) {
	var out summaries
	out.tenant = &TenantSummary{}
	if err := copier.Copy(out.tenant, tenant); err != nil {
		return out, fmt.Errorf("failed to summarize tenant: %w", err)
	}
	out.lease = &LeaseSummary{}
	if err := copier.Copy(out.lease, lease); err != nil {
		return out, fmt.Errorf("failed to summarize lease: %w", err)
	}
	return out, nil
}

func publicError(err error) string {
	var e *domain.Error
	if errors.As(err, &e) {
		return e.Public()
	}
	return err.Error()
}
