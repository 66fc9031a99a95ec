// Package mongodb stores documents in MongoDB collections.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"estate/internal/core"
	"estate/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store implements domain.Store on a MongoDB database.
type Store struct {
	db     *mongo.Database
	logger *zap.Logger
}

var _ domain.Store = (*Store)(nil)

// New creates a store on db.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: core.Named(logger, "mongodb"),
	}
}

// Connect dials uri, pings the server and returns a store on database. The
// returned store's Close disconnects the client.
func Connect(ctx context.Context, uri, database string, timeout time.Duration, logger *zap.Logger) (*Store, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := New(client.Database(database), logger)
	s.logger.Info("Connected to MongoDB", zap.String("database", database))
	return s, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// Get retrieves a document by _id
func (s *Store) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	raw, err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document %s/%s: %w", collection, id, err)
	}
	return raw, nil
}

// Set replaces the document with _id id, inserting it if absent
func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	raw, err := domain.EncodeDocument(doc)
	if err != nil {
		return err
	}

	_, err = s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, raw, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to replace document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes the document with _id id
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

// ListIDs returns every _id in the collection
func (s *Store) ListIDs(ctx context.Context, collection string) ([]string, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		id, ok := domain.DocumentID(cursor.Current)
		if !ok {
			s.logger.Warn("Skipping document with non-string _id", zap.String("collection", collection))
			continue
		}
		ids = append(ids, id)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}
	return ids, nil
}

// GetIn runs one {_id: {$in: ids}} query
func (s *Store) GetIn(ctx context.Context, collection string, ids []string) ([]bson.Raw, error) {
	if err := domain.CheckInValues(ids); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []bson.Raw{}, nil
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := make([]bson.Raw, 0, len(ids))
	for cursor.Next(ctx) {
		docs = append(docs, slices.Clone(cursor.Current))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}
	return docs, nil
}
