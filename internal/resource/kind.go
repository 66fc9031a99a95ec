// Package resource implements cache-aside access to the stored resource
// kinds: single and batched reads, writes, access enforcement and the
// parent→children index lookups.
package resource

import (
	"context"

	"estate/internal/cache"
	"estate/internal/domain"
	"estate/internal/metrics"

	"go.uber.org/zap"
)

// DefaultIndexCollection holds the parent→children index documents.
const DefaultIndexCollection = "indexes"

// Kind names where a resource type lives.
type Kind[T domain.Document[T]] struct {
	Collection string
	Category   string
	Prefix     string
}

// Resource kinds.
var (
	Properties = Kind[*domain.Property]{Collection: "properties", Category: "properties", Prefix: "PROP"}
	Rooms      = Kind[*domain.Room]{Collection: "rooms", Category: "rooms", Prefix: "ROOM"}
	Leases     = Kind[*domain.Lease]{Collection: "leases", Category: "leases", Prefix: "LEAS"}
	Tenants    = Kind[*domain.Tenant]{Collection: "tenants", Category: "tenants", Prefix: "TENA"}
	Logs       = Kind[*domain.Log]{Collection: "Logs", Category: "Property_Logs", Prefix: "ESTA"}
	Electrics  = Kind[*domain.Electric]{Collection: "electrics", Category: "electric", Prefix: "ELEC"}
)

// ScopeResolver turns a caller uid into an authorization scope.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, uid string) (string, error)
}

// Deps are the shared services every handler needs. One Deps value is built
// at startup and handed to each per-request handler.
type Deps struct {
	Store     domain.Store
	Registry  *cache.Registry
	Directory ScopeResolver
	Logger    *zap.Logger
	Metrics   *metrics.Recorder

	// BatchSize bounds the IDs sent in one GetIn call. Values outside
	// 1..domain.MaxInValues select domain.MaxInValues.
	BatchSize int

	// IndexCollection defaults to DefaultIndexCollection.
	IndexCollection string
}

func (d Deps) batchSize() int {
	if d.BatchSize <= 0 || d.BatchSize > domain.MaxInValues {
		return domain.MaxInValues
	}
	return d.BatchSize
}

func (d Deps) indexCollection() string {
	if d.IndexCollection == "" {
		return DefaultIndexCollection
	}
	return d.IndexCollection
}

// Handlers for the standard kinds.

func NewProperties(deps Deps, uid string) *Handler[*domain.Property] {
	return NewHandler(Properties, deps, uid)
}

func NewTenants(deps Deps, uid string) *Handler[*domain.Tenant] {
	return NewHandler(Tenants, deps, uid)
}

func NewLogs(deps Deps, uid string) *Handler[*domain.Log] {
	return NewHandler(Logs, deps, uid)
}

func NewElectrics(deps Deps, uid string) *Handler[*domain.Electric] {
	return NewHandler(Electrics, deps, uid)
}

func NewRoomsByProperty(deps Deps, uid string) *RelatedHandler[*domain.Room] {
	return NewRelatedHandler(Rooms, domain.IndexRoomsByProperty, deps, uid)
}

func NewLeasesByProperty(deps Deps, uid string) *RelatedHandler[*domain.Lease] {
	return NewRelatedHandler(Leases, domain.IndexLeasesByProperty, deps, uid)
}
