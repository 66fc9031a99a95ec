package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"estate/internal/cache"
	"estate/internal/core"
	"estate/internal/domain"
	"estate/internal/resource"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	indexPrefix = "INDEX"

	// rebuildParallelism bounds the concurrent GetIn calls of one rebuild.
	rebuildParallelism = 4
)

// IndexSpec describes one parent→children index: which collection holds the
// children and which field names their parent.
type IndexSpec struct {
	IndexID     string
	Collection  string
	ParentField string
}

// Standard indexes.
var (
	RoomsByProperty = IndexSpec{
		IndexID:     domain.IndexRoomsByProperty,
		Collection:  resource.Rooms.Collection,
		ParentField: "property_id",
	}
	LeasesByProperty = IndexSpec{
		IndexID:     domain.IndexLeasesByProperty,
		Collection:  resource.Leases.Collection,
		ParentField: "property_id",
	}
)

// IndexRebuilder recomputes index documents from a full scan of the child
// collection and replaces them whole.
type IndexRebuilder struct {
	store           domain.Store
	registry        *cache.Registry
	clock           clock.Clock
	batchSize       int
	indexCollection string
	logger          *zap.Logger
}

// NewIndexRebuilder creates a rebuilder. A nil clk selects the wall clock.
func NewIndexRebuilder(deps resource.Deps, clk clock.Clock) *IndexRebuilder {
	if clk == nil {
		clk = clock.New()
	}
	batchSize := deps.BatchSize
	if batchSize <= 0 || batchSize > domain.MaxInValues {
		batchSize = domain.MaxInValues
	}
	indexCollection := deps.IndexCollection
	if indexCollection == "" {
		indexCollection = resource.DefaultIndexCollection
	}

	return &IndexRebuilder{
		store:           deps.Store,
		registry:        deps.Registry,
		clock:           clk,
		batchSize:       batchSize,
		indexCollection: indexCollection,
		logger:          core.Named(deps.Logger, "index"),
	}
}

// Rebuild scans spec.Collection, groups child IDs by parent, writes the
// index document and drops its cached copy. Children without a parent are
// left out.
func (r *IndexRebuilder) Rebuild(ctx context.Context, spec IndexSpec) (*domain.ParentChildIndex, error) {
	started := r.clock.Now()

	ids, err := r.store.ListIDs(ctx, spec.Collection)
	if err != nil {
		return nil, domain.NewError(domain.ErrInternal, indexPrefix, "rebuild", spec.IndexID, err)
	}

	var (
		mu       sync.Mutex
		children = make(map[string][]string)
		orphans  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildParallelism)
	for start := 0; start < len(ids); start += r.batchSize {
		batch := ids[start:min(start+r.batchSize, len(ids))]
		g.Go(func() error {
			docs, err := r.store.GetIn(gctx, spec.Collection, batch)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for _, raw := range docs {
				childID, ok := domain.DocumentID(raw)
				if !ok {
					continue
				}
				parentID, ok := parentOf(raw, spec.ParentField)
				if !ok {
					orphans++
					continue
				}
				children[parentID] = append(children[parentID], childID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.NewError(domain.ErrInternal, indexPrefix, "rebuild", spec.IndexID, err)
	}

	for _, list := range children {
		slices.Sort(list)
	}

	idx := &domain.ParentChildIndex{
		ID:        spec.IndexID,
		Children:  children,
		RebuiltAt: r.clock.Now().UTC().Truncate(time.Millisecond),
		RebuildID: uuid.NewString(),
	}
	if err := r.store.Set(ctx, r.indexCollection, idx.ID, idx); err != nil {
		return nil, domain.NewError(domain.ErrInternal, indexPrefix, "rebuild", spec.IndexID, err)
	}
	r.registry.Delete(resource.IndexCategory, idx.ID)

	r.logger.Info("Rebuilt index",
		zap.String("index", idx.ID),
		zap.String("rebuild_id", idx.RebuildID),
		zap.Int("children", len(ids)-orphans),
		zap.Int("parents", len(children)),
		zap.Int("orphans", orphans),
		zap.Duration("took", r.clock.Since(started)))

	return idx, nil
}

// RebuildAll rebuilds the rooms and leases indexes.
func (r *IndexRebuilder) RebuildAll(ctx context.Context) ([]*domain.ParentChildIndex, error) {
	var out []*domain.ParentChildIndex
	for _, spec := range []IndexSpec{RoomsByProperty, LeasesByProperty} {
		idx, err := r.Rebuild(ctx, spec)
		if err != nil {
			return out, err
		}
		out = append(out, idx)
	}
	return out, nil
}

func parentOf(raw bson.Raw, field string) (string, bool) {
	v, err := raw.LookupErr(field)
	if err != nil {
		return "", false
	}
	parentID, ok := v.StringValueOK()
	return parentID, ok && parentID != ""
}
