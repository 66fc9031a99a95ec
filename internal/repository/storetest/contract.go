// Package storetest holds the behaviour every domain.Store backend must
// share.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"estate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type testDoc struct {
	ID    string `bson:"_id"`
	Name  string `bson:"name"`
	Value int    `bson:"value"`
}

// Run exercises a fresh store returned by newStore. Collections are named
// with a per-test suffix so backends that share state between calls stay
// isolated.
func Run(t *testing.T, newStore func(t *testing.T) domain.Store) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "docs_missing", "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SetGetOverwrite", func(t *testing.T) {
		s := newStore(t)
		coll := "docs_set"

		require.NoError(t, s.Set(ctx, coll, "a", &testDoc{ID: "a", Name: "first", Value: 1}))
		require.NoError(t, s.Set(ctx, coll, "a", &testDoc{ID: "a", Name: "second", Value: 2}))

		raw, err := s.Get(ctx, coll, "a")
		require.NoError(t, err)

		var got testDoc
		require.NoError(t, bson.Unmarshal(raw, &got))
		assert.Equal(t, testDoc{ID: "a", Name: "second", Value: 2}, got)
	})

	t.Run("SetRaw", func(t *testing.T) {
		s := newStore(t)
		coll := "docs_raw"

		raw, err := bson.Marshal(bson.M{"_id": "r", "name": "raw"})
		require.NoError(t, err)
		require.NoError(t, s.Set(ctx, coll, "r", bson.Raw(raw)))

		got, err := s.Get(ctx, coll, "r")
		require.NoError(t, err)
		assert.Equal(t, "raw", got.Lookup("name").StringValue())
	})

	t.Run("DeleteAndList", func(t *testing.T) {
		s := newStore(t)
		coll := "docs_list"

		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, s.Set(ctx, coll, id, &testDoc{ID: id}))
		}
		require.NoError(t, s.Delete(ctx, coll, "b"))
		require.NoError(t, s.Delete(ctx, coll, "missing"))

		ids, err := s.ListIDs(ctx, coll)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "c"}, ids)

		_, err = s.Get(ctx, coll, "b")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("GetIn", func(t *testing.T) {
		s := newStore(t)
		coll := "docs_in"

		for i := 0; i < 5; i++ {
			id := fmt.Sprintf("d%d", i)
			require.NoError(t, s.Set(ctx, coll, id, &testDoc{ID: id, Value: i}))
		}

		docs, err := s.GetIn(ctx, coll, []string{"d1", "d3", "missing"})
		require.NoError(t, err)

		var ids []string
		for _, raw := range docs {
			id, ok := domain.DocumentID(raw)
			require.True(t, ok)
			ids = append(ids, id)
		}
		assert.ElementsMatch(t, []string{"d1", "d3"}, ids)

		docs, err = s.GetIn(ctx, coll, nil)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("GetInCap", func(t *testing.T) {
		s := newStore(t)
		ids := make([]string, domain.MaxInValues+1)
		for i := range ids {
			ids[i] = fmt.Sprintf("id%d", i)
		}
		_, err := s.GetIn(ctx, "docs_cap", ids)
		assert.ErrorIs(t, err, domain.ErrTooManyIDs)
	})
}
