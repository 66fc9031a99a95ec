// Package redisdb stores documents in Redis. Each document is a string key
// holding BSON, and each collection keeps a set of its IDs.
package redisdb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"estate/internal/core"
	"estate/internal/domain"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Store implements domain.Store on Redis.
type Store struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

var _ domain.Store = (*Store)(nil)

// New creates a store using client. Keys are namespaced with keyPrefix.
func New(client *redis.Client, keyPrefix string, logger *zap.Logger) *Store {
	return &Store{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    core.Named(logger, "redisdb"),
	}
}

// Connect creates a client from options and checks it with PING.
func Connect(ctx context.Context, options *redis.Options, keyPrefix string, logger *zap.Logger) (*Store, error) {
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return New(client, keyPrefix, logger), nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) documentKey(collection, id string) string {
	return fmt.Sprintf("%s:%s:doc:%s", s.keyPrefix, collection, id)
}

func (s *Store) idsKey(collection string) string {
	return fmt.Sprintf("%s:%s:ids", s.keyPrefix, collection)
}

// Get retrieves a document by ID
func (s *Store) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	data, err := s.client.Get(ctx, s.documentKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return bson.Raw(data), nil
}

// Set stores the document and records its ID in one transaction
func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	raw, err := domain.EncodeDocument(doc)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.documentKey(collection, id), []byte(raw), 0)
		pipe.SAdd(ctx, s.idsKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes the document and its ID in one transaction
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.documentKey(collection, id))
		pipe.SRem(ctx, s.idsKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// ListIDs returns the members of the collection's ID set in sorted order
func (s *Store) ListIDs(ctx context.Context, collection string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.idsKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	sort.Strings(ids)
	return ids, nil
}

// GetIn fetches the documents with one MGET
func (s *Store) GetIn(ctx context.Context, collection string, ids []string) ([]bson.Raw, error) {
	if err := domain.CheckInValues(ids); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []bson.Raw{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.documentKey(collection, id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}

	docs := make([]bson.Raw, 0, len(values))
	for i, v := range values {
		switch data := v.(type) {
		case nil:
			// ID set and keys can drift if a key was removed by hand
		case string:
			docs = append(docs, bson.Raw(data))
		default:
			s.logger.Warn("Unexpected MGET value",
				zap.String("collection", collection),
				zap.String("id", ids[i]),
				zap.Any("type", fmt.Sprintf("%T", v)))
		}
	}
	return docs, nil
}
