package resource

import (
	"context"
	"encoding/json"
	"errors"

	"estate/internal/access"
	"estate/internal/cache"
	"estate/internal/core"
	"estate/internal/domain"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Handler serves one resource kind on behalf of one caller. Reads go to the
// cache first and fall back to the store; writes go to the store and refresh
// the cache. Access is checked on every read because a caller's scope can
// change between reads.
type Handler[T domain.Document[T]] struct {
	kind       Kind[T]
	deps       Deps
	uid        string
	policy     access.Policy
	controlled bool
	logger     *zap.Logger
}

// NewHandler creates a handler for kind acting as uid.
func NewHandler[T domain.Document[T]](kind Kind[T], deps Deps, uid string) *Handler[T] {
	var zero T
	_, controlled := any(zero).(domain.AccessControlled)

	return &Handler[T]{
		kind:       kind,
		deps:       deps,
		uid:        uid,
		controlled: controlled,
		logger:     core.Named(deps.Logger, "resource").With(zap.String("prefix", kind.Prefix)),
	}
}

// Kind returns the handler's resource kind.
func (h *Handler[T]) Kind() Kind[T] {
	return h.kind
}

type getOptions struct {
	strict bool
}

// GetOption configures Get.
type GetOption func(*getOptions)

// WithStrict makes Get report ErrNotFound and ErrAccessDenied as errors
// instead of returning ok=false.
func WithStrict() GetOption {
	return func(o *getOptions) {
		o.strict = true
	}
}

// Get returns the resource with the given ID. ok is false when the resource
// does not exist or the caller may not see it.
func (h *Handler[T]) Get(ctx context.Context, id string, opts ...GetOption) (T, bool, error) {
	var zero T
	options := getOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	scope, err := h.callerScope(ctx)
	if err != nil {
		return zero, false, err
	}

	item, found := h.cached(id)
	if !found {
		item, found, err = h.fetch(ctx, "get", id)
		if err != nil {
			return zero, false, err
		}
	}

	if !found {
		if options.strict {
			return zero, false, domain.NewError(domain.ErrNotFound, h.kind.Prefix, "get", id, nil)
		}
		return zero, false, nil
	}

	if !h.policy.Check(scope, item) {
		h.logger.Debug("Resource not visible to caller",
			zap.String("id", id),
			zap.String("uid", h.uid))
		if options.strict {
			return zero, false, domain.NewError(domain.ErrAccessDenied, h.kind.Prefix, "get", id, nil)
		}
		return zero, false, nil
	}

	return item, true, nil
}

// List returns every resource of the kind visible to the caller, keyed by
// ID. A failed store batch fails the whole call.
func (h *Handler[T]) List(ctx context.Context) (map[string]T, error) {
	scope, err := h.callerScope(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := h.deps.Store.ListIDs(ctx, h.kind.Collection)
	if err != nil {
		return nil, h.internal("list", "", err)
	}

	return h.collect(ctx, "list", scope, ids, true)
}

// GetMany returns the visible resources among ids. IDs that do not resolve,
// are not visible, or belong to a failed store batch are left out.
func (h *Handler[T]) GetMany(ctx context.Context, ids []string) (map[string]T, error) {
	scope, err := h.callerScope(ctx)
	if err != nil {
		return nil, err
	}

	return h.collect(ctx, "get_many", scope, ids, false)
}

// Create writes item and caches it. An empty ID is replaced with a
// generated one, and versioned resources start at version 1.
func (h *Handler[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	item = item.Copy()

	if item.GetID() == "" {
		item.SetID(h.GenerateID())
	}
	if v, ok := any(item).(domain.Versioned); ok && v.GetVersion() == 0 {
		v.SetVersion(1)
	}
	id := item.GetID()

	if err := h.validate("create", item); err != nil {
		return zero, err
	}

	if err := h.deps.Store.Set(ctx, h.kind.Collection, id, item); err != nil {
		return zero, h.internal("create", id, err)
	}
	h.remember(id, item)

	h.logger.Debug("Created resource", zap.String("id", id))
	return item.Copy(), nil
}

// Update replaces the stored resource with item. The caller must be allowed
// on item and, when it exists, on the stored document. Versioned resources are written with the stored version plus one.
func (h *Handler[T]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	item = item.Copy()
	id := item.GetID()

	if id == "" {
		return zero, domain.NewError(domain.ErrInvalid, h.kind.Prefix, "update", id, errors.New("missing id"))
	}
	if err := h.validate("update", item); err != nil {
		return zero, err
	}

	scope, err := h.callerScope(ctx)
	if err != nil {
		return zero, err
	}
	if !h.policy.Check(scope, item) {
		return zero, domain.NewError(domain.ErrAccessDenied, h.kind.Prefix, "update", id, nil)
	}

	v, versioned := any(item).(domain.Versioned)
	if versioned || h.controlled {
		previous, found, err := h.load(ctx, "update", id)
		if err != nil {
			return zero, err
		}
		if found && !h.policy.Check(scope, previous) {
			return zero, domain.NewError(domain.ErrAccessDenied, h.kind.Prefix, "update", id, nil)
		}
		if versioned {
			if found {
				v.SetVersion(any(previous).(domain.Versioned).GetVersion() + 1)
			} else if v.GetVersion() == 0 {
				v.SetVersion(1)
			}
		}
		if found {
			h.logChange(id, previous, item)
		}
	}

	if err := h.deps.Store.Set(ctx, h.kind.Collection, id, item); err != nil {
		return zero, h.internal("update", id, err)
	}
	h.remember(id, item)

	return item.Copy(), nil
}

// Delete removes the resource. Existence and access are checked against the
// stored document, not the cache.
func (h *Handler[T]) Delete(ctx context.Context, id string) error {
	item, found, err := h.load(ctx, "delete", id)
	if err != nil {
		return err
	}
	if !found {
		return domain.NewError(domain.ErrNotFound, h.kind.Prefix, "delete", id, nil)
	}

	scope, err := h.callerScope(ctx)
	if err != nil {
		return err
	}
	if !h.policy.Check(scope, item) {
		return domain.NewError(domain.ErrAccessDenied, h.kind.Prefix, "delete", id, nil)
	}

	h.deps.Registry.Delete(h.kind.Category, id)
	if err := h.deps.Store.Delete(ctx, h.kind.Collection, id); err != nil {
		return h.internal("delete", id, err)
	}

	h.logger.Debug("Deleted resource", zap.String("id", id))
	return nil
}

// CacheStatus reports the entry counts of the kind's cache category.
func (h *Handler[T]) CacheStatus() cache.Stats {
	stats, _ := h.deps.Registry.Stats(h.kind.Category)
	return stats
}

// Invalidate drops the cached copy of id.
func (h *Handler[T]) Invalidate(id string) {
	h.deps.Registry.Delete(h.kind.Category, id)
}

// callerScope resolves the caller's scope. Public kinds need none.
func (h *Handler[T]) callerScope(ctx context.Context) (string, error) {
	if !h.controlled {
		return "", nil
	}
	return h.deps.Directory.ResolveScope(ctx, h.uid)
}

// cached returns a copy of the cached resource. Values of the wrong type
// are dropped and reported as a miss.
func (h *Handler[T]) cached(id string) (T, bool) {
	var zero T
	v, ok := h.deps.Registry.Get(h.kind.Category, id)
	if !ok {
		return zero, false
	}
	item, ok := v.(T)
	if !ok {
		h.logger.Warn("Unexpected cached value type, falling back to store",
			zap.String("id", id),
			zap.String("category", h.kind.Category))
		h.deps.Registry.Delete(h.kind.Category, id)
		return zero, false
	}
	return item.Copy(), true
}

// remember caches a copy of item under id.
func (h *Handler[T]) remember(id string, item T) {
	h.deps.Registry.Set(h.kind.Category, id, item.Copy())
}

// fetch reads id from the store and caches it.
func (h *Handler[T]) fetch(ctx context.Context, op, id string) (T, bool, error) {
	item, found, err := h.load(ctx, op, id)
	if err != nil || !found {
		return item, found, err
	}
	h.remember(id, item)
	return item, true, nil
}

// load reads id from the store without touching the cache.
func (h *Handler[T]) load(ctx context.Context, op, id string) (T, bool, error) {
	var zero T
	raw, err := h.deps.Store.Get(ctx, h.kind.Collection, id)
	if errors.Is(err, domain.ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, h.internal(op, id, err)
	}

	item, err := decode[T](raw)
	if err != nil {
		return zero, false, h.internal(op, id, err)
	}
	return item, true, nil
}

func (h *Handler[T]) validate(op string, item T) error {
	v, ok := any(item).(domain.Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return domain.NewError(domain.ErrInvalid, h.kind.Prefix, op, item.GetID(), err)
	}
	return nil
}

func (h *Handler[T]) internal(op, id string, err error) error {
	h.logger.Error("Resource operation failed",
		zap.String("op", op),
		zap.String("id", id),
		zap.Error(err))
	return domain.NewError(domain.ErrInternal, h.kind.Prefix, op, id, err)
}

// logChange logs the merge patch between two versions at debug level.
func (h *Handler[T]) logChange(id string, previous, next T) {
	ce := h.logger.Check(zap.DebugLevel, "Updating resource")
	if ce == nil {
		return
	}

	before, err := json.Marshal(previous)
	if err != nil {
		return
	}
	after, err := json.Marshal(next)
	if err != nil {
		return
	}
	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		h.logger.Warn("Failed to diff resource versions", zap.String("id", id), zap.Error(err))
		return
	}
	ce.Write(zap.String("id", id), zap.ByteString("patch", patch))
}

func decode[T any](raw bson.Raw) (T, error) {
	var item T
	if err := bson.Unmarshal(raw, &item); err != nil {
		return item, err
	}
	return item, nil
}
