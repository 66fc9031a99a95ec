package resource

import (
	"context"

	"estate/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// collect resolves ids through the cache and batched store reads, then
// keeps the items the caller may see. With failFast a failed batch fails
// the call; otherwise its IDs are skipped.
func (h *Handler[T]) collect(ctx context.Context, op, scope string, ids []string, failFast bool) (map[string]T, error) {
	items := make(map[string]T, len(ids))
	seen := make(map[string]struct{}, len(ids))
	var missing []string

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if item, ok := h.cached(id); ok {
			items[id] = item
			continue
		}
		missing = append(missing, id)
	}

	fetched, err := h.fetchBatches(ctx, op, missing, failFast)
	if err != nil {
		return nil, err
	}
	for id, item := range fetched {
		items[id] = item
	}

	for id, item := range items {
		if !h.policy.Check(scope, item) {
			delete(items, id)
		}
	}
	return items, nil
}

// fetchBatches reads ids from the store in concurrent GetIn batches and
// caches what it finds.
func (h *Handler[T]) fetchBatches(ctx context.Context, op string, ids []string, failFast bool) (map[string]T, error) {
	items := make(map[string]T, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	batches := chunk(ids, h.deps.batchSize())
	results := make([][]bson.Raw, len(batches))
	failures := make([]error, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			h.deps.Metrics.StoreBatch(h.kind.Collection)

			docs, err := h.deps.Store.GetIn(gctx, h.kind.Collection, batch)
			if err != nil {
				if failFast {
					return h.internal(op, "", err)
				}
				failures[i] = err
				return nil
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, docs := range results {
		if failures[i] != nil {
			h.logger.Warn("Skipping IDs of failed batch",
				zap.String("op", op),
				zap.Strings("ids", batches[i]),
				zap.Error(failures[i]))
			continue
		}

		for _, raw := range docs {
			id, ok := domain.DocumentID(raw)
			if !ok {
				h.logger.Warn("Skipping document without _id", zap.String("op", op))
				continue
			}
			item, err := decode[T](raw)
			if err != nil {
				h.logger.Warn("Skipping undecodable document",
					zap.String("op", op),
					zap.String("id", id),
					zap.Error(err))
				continue
			}
			h.remember(id, item)
			items[id] = item
		}
	}
	return items, nil
}

// chunk splits ids into consecutive slices of at most size elements.
func chunk(ids []string, size int) [][]string {
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}
