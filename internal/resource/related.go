package resource

import (
	"context"
	"errors"

	"estate/internal/domain"

	"go.uber.org/zap"
)

// IndexCategory is the cache category of the parent→children index
// documents.
const IndexCategory = "property_index"

// RelatedHandler is a Handler that can also list the children of a parent
// through an index document. The index is only replaced by a rebuild;
// creating or deleting a child does not touch it.
type RelatedHandler[T domain.Document[T]] struct {
	*Handler[T]
	indexID string
}

// NewRelatedHandler creates a handler for kind whose parent lookups read the
// index document indexID.
func NewRelatedHandler[T domain.Document[T]](kind Kind[T], indexID string, deps Deps, uid string) *RelatedHandler[T] {
	return &RelatedHandler[T]{
		Handler: NewHandler(kind, deps, uid),
		indexID: indexID,
	}
}

// IndexID returns the ID of the index document.
func (h *RelatedHandler[T]) IndexID() string {
	return h.indexID
}

// Index returns the whole index document, or nil if it has never been
// built. A missing index is not cached.
func (h *RelatedHandler[T]) Index(ctx context.Context) (*domain.ParentChildIndex, error) {
	if v, ok := h.deps.Registry.Get(IndexCategory, h.indexID); ok {
		if idx, ok := v.(*domain.ParentChildIndex); ok {
			return idx.Copy(), nil
		}
		h.logger.Warn("Unexpected cached index type, reloading", zap.String("index", h.indexID))
		h.deps.Registry.Delete(IndexCategory, h.indexID)
	}

	raw, err := h.deps.Store.Get(ctx, h.deps.indexCollection(), h.indexID)
	if errors.Is(err, domain.ErrNotFound) {
		h.logger.Debug("Index document missing", zap.String("index", h.indexID))
		return nil, nil
	}
	if err != nil {
		return nil, h.internal("index", h.indexID, err)
	}

	idx, err := decode[*domain.ParentChildIndex](raw)
	if err != nil {
		return nil, h.internal("index", h.indexID, err)
	}

	h.deps.Registry.Set(IndexCategory, h.indexID, idx.Copy())
	return idx, nil
}

// IDsForParent returns the child IDs recorded for parentID, in index order.
func (h *RelatedHandler[T]) IDsForParent(ctx context.Context, parentID string) ([]string, error) {
	idx, err := h.Index(ctx)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return []string{}, nil
	}
	ids := idx.ChildrenOf(parentID)
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ResourcesForParent returns the visible children of parentID.
func (h *RelatedHandler[T]) ResourcesForParent(ctx context.Context, parentID string) (map[string]T, error) {
	ids, err := h.IDsForParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return h.GetMany(ctx, ids)
}

// InvalidateIndex drops the cached index so the next lookup reads the store.
func (h *RelatedHandler[T]) InvalidateIndex() {
	h.deps.Registry.Delete(IndexCategory, h.indexID)
}
