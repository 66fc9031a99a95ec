// Package memory provides a map-backed document store. It is used by tests
// and by the memory backend.
package memory

import (
	"context"
	"slices"
	"sync"

	"estate/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
)

// Store is an in-memory implementation of domain.Store. It also counts the
// Get and GetIn calls made against each collection.
type Store struct {
	collections map[string]map[string]bson.Raw
	calls       map[string]int
	mu          sync.RWMutex
}

var _ domain.Store = (*Store)(nil)

// NewStore creates a new in-memory store
func NewStore() *Store {
	return &Store{
		collections: make(map[string]map[string]bson.Raw),
		calls:       make(map[string]int),
	}
}

func callKey(method, collection string) string {
	return method + ":" + collection
}

// Get retrieves a document by ID
func (s *Store) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[callKey("Get", collection)]++
	doc, exists := s.collections[collection][id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(doc), nil
}

// Set stores a document, replacing any previous one
func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := domain.EncodeDocument(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]bson.Raw)
		s.collections[collection] = docs
	}
	docs[id] = slices.Clone(raw)
	return nil
}

// Delete deletes a document
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)
	return nil
}

// ListIDs returns every document ID in the collection in sorted order
func (s *Store) ListIDs(ctx context.Context, collection string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.collections[collection]))
	for id := range s.collections[collection] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// GetIn retrieves the documents whose IDs are in ids, in the order given
func (s *Store) GetIn(ctx context.Context, collection string, ids []string) ([]bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := domain.CheckInValues(ids); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[callKey("GetIn", collection)]++
	docs := make([]bson.Raw, 0, len(ids))
	for _, id := range ids {
		if doc, exists := s.collections[collection][id]; exists {
			docs = append(docs, slices.Clone(doc))
		}
	}
	return docs, nil
}

// Calls returns how many times method ("Get" or "GetIn") was called for
// collection.
func (s *Store) Calls(method, collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[callKey(method, collection)]
}

// ResetCalls zeroes the call counters.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.calls)
}

// Len returns the number of documents in the collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}
