package app

import (
	"context"
	"fmt"

	"estate/internal/domain"
	"estate/internal/resource"
)

// KindNames lists the names accepted by Lookup and List.
var KindNames = []string{"properties", "rooms", "leases", "tenants", "logs", "electrics"}

// Lookup returns one resource of the named kind as seen by uid.
func (a *App) Lookup(ctx context.Context, kind, uid, id string) (any, error) {
	switch kind {
	case "properties":
		return lookup(ctx, resource.NewProperties(a.deps, uid), id)
	case "rooms":
		return lookup(ctx, resource.NewRoomsByProperty(a.deps, uid).Handler, id)
	case "leases":
		return lookup(ctx, resource.NewLeasesByProperty(a.deps, uid).Handler, id)
	case "tenants":
		return lookup(ctx, resource.NewTenants(a.deps, uid), id)
	case "logs":
		return lookup(ctx, resource.NewLogs(a.deps, uid), id)
	case "electrics":
		return lookup(ctx, resource.NewElectrics(a.deps, uid), id)
	}
	return nil, unknownKind("lookup", kind)
}

// List returns every resource of the named kind visible to uid.
func (a *App) List(ctx context.Context, kind, uid string) (any, error) {
	switch kind {
	case "properties":
		return resource.NewProperties(a.deps, uid).List(ctx)
	case "rooms":
		return resource.NewRoomsByProperty(a.deps, uid).List(ctx)
	case "leases":
		return resource.NewLeasesByProperty(a.deps, uid).List(ctx)
	case "tenants":
		return resource.NewTenants(a.deps, uid).List(ctx)
	case "logs":
		return resource.NewLogs(a.deps, uid).List(ctx)
	case "electrics":
		return resource.NewElectrics(a.deps, uid).List(ctx)
	}
	return nil, unknownKind("list", kind)
}

func lookup[T domain.Document[T]](ctx context.Context, h *resource.Handler[T], id string) (any, error) {
	item, _, err := h.Get(ctx, id, resource.WithStrict())
	if err != nil {
		return nil, err
	}
	return item, nil
}

func unknownKind(op, kind string) error {
	return domain.NewError(domain.ErrInvalid, "APP", op, kind, fmt.Errorf("unknown kind %q, want one of %v", kind, KindNames))
}
