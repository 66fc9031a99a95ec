package access

import (
	"context"
	"errors"

	"estate/internal/cache"
	"estate/internal/core"
	"estate/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// UserCollection holds one document per caller, keyed by uid.
	UserCollection = "user"

	// UserCategory is the cache category for resolved scopes.
	UserCategory = "users"

	userPrefix = "USER"
)

// Directory resolves caller identities to authorization scopes. Resolved
// scopes are cached in the registry under UserCategory.
type Directory struct {
	store    domain.Store
	registry *cache.Registry
	logger   *zap.Logger
	group    singleflight.Group
}

// NewDirectory creates a directory backed by store.
func NewDirectory(store domain.Store, registry *cache.Registry, logger *zap.Logger) *Directory {
	return &Directory{
		store:    store,
		registry: registry,
		logger:   core.Named(logger, "access"),
	}
}

// ResolveScope returns the company scope of uid. A missing or malformed user
// record yields ErrAccessDenied; a store failure yields ErrInternal.
func (d *Directory) ResolveScope(ctx context.Context, uid string) (string, error) {
	if uid == "" {
		return "", domain.NewError(domain.ErrAccessDenied, userPrefix, "resolve_scope", uid, errors.New("empty uid"))
	}

	if v, ok := d.registry.Get(UserCategory, uid); ok {
		if scope, ok := v.(string); ok && scope != "" {
			return scope, nil
		}
		d.logger.Warn("Unexpected cached scope, reloading", zap.String("uid", uid), zap.Any("value", v))
	}

	// The shared load outlives any single caller; each caller only stops
	// waiting when its own context ends.
	ch := d.group.DoChan(uid, func() (interface{}, error) {
		return d.load(context.WithoutCancel(ctx), uid)
	})
	select {
	case <-ctx.Done():
		return "", domain.NewError(domain.ErrInternal, userPrefix, "resolve_scope", uid, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (d *Directory) load(ctx context.Context, uid string) (string, error) {
	raw, err := d.store.Get(ctx, UserCollection, uid)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.NewError(domain.ErrAccessDenied, userPrefix, "resolve_scope", uid, errors.New("unknown user"))
	}
	if err != nil {
		d.logger.Error("Failed to load user", zap.String("uid", uid), zap.Error(err))
		return "", domain.NewError(domain.ErrInternal, userPrefix, "resolve_scope", uid, err)
	}

	var user domain.User
	if err := bson.Unmarshal(raw, &user); err != nil {
		return "", domain.NewError(domain.ErrAccessDenied, userPrefix, "resolve_scope", uid, err)
	}
	if user.Company == "" {
		return "", domain.NewError(domain.ErrAccessDenied, userPrefix, "resolve_scope", uid, errors.New("user has no company"))
	}

	d.registry.Set(UserCategory, uid, user.Company)
	return user.Company, nil
}

// Forget drops the cached scope of uid so the next resolution reads the store.
func (d *Directory) Forget(uid string) {
	d.registry.Delete(UserCategory, uid)
}
