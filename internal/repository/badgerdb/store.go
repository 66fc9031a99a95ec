// Package badgerdb stores documents in an embedded BadgerDB. Keys are
// <len(collection)>:<collection>/<id> and values are BSON.
package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"estate/internal/core"
	"estate/internal/domain"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Options configures Open.
type Options struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	InMemory bool

	// GCInterval is how often value log garbage collection runs. Zero
	// selects five minutes; GC never runs for in-memory databases.
	GCInterval time.Duration
}

// Store implements domain.Store on BadgerDB.
type Store struct {
	db     *badger.DB
	logger *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

var _ domain.Store = (*Store)(nil)

// Open opens or creates the database.
func Open(options Options, logger *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(options.Path)
	if options.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	s := &Store{
		db:     db,
		logger: core.Named(logger, "badgerdb"),
		stop:   make(chan struct{}),
	}

	if !options.InMemory {
		interval := options.GCInterval
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		s.wg.Add(1)
		go s.runGC(interval)
	}
	return s, nil
}

// Close stops garbage collection and closes the database.
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
	return s.db.Close()
}

func (s *Store) runGC(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			// keep collecting while at least half of a file can be reclaimed
			for s.db.RunValueLogGC(0.5) == nil {
			}
		}
	}
}

// collectionPrefix carries the collection's length so that no collection's
// prefix can be a prefix of another's.
func collectionPrefix(collection string) string {
	return strconv.Itoa(len(collection)) + ":" + collection + "/"
}

func key(collection, id string) []byte {
	return []byte(collectionPrefix(collection) + id)
}

// Get retrieves a document by ID
func (s *Store) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	var raw bson.Raw
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(collection, id))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return raw, nil
}

// Set stores a document, replacing any previous one
func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	raw, err := domain.EncodeDocument(doc)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(collection, id), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes a document
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(collection, id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// ListIDs iterates the collection's key prefix
func (s *Store) ListIDs(ctx context.Context, collection string) ([]string, error) {
	prefix := collectionPrefix(collection)
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), prefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return ids, nil
}

// GetIn reads each of ids in one read transaction
func (s *Store) GetIn(ctx context.Context, collection string, ids []string) ([]bson.Raw, error) {
	if err := domain.CheckInValues(ids); err != nil {
		return nil, err
	}

	docs := make([]bson.Raw, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get(key(collection, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			docs = append(docs, raw)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	return docs, nil
}
