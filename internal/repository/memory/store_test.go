package memory

import (
	"context"
	"testing"

	"estate/internal/domain"
	"estate/internal/repository/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		return NewStore()
	})
}

func TestStoreCountsCalls(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Set(ctx, "rooms", "R1", &domain.Room{ID: "R1"}))

	_, err := s.Get(ctx, "rooms", "R1")
	require.NoError(t, err)
	_, err = s.GetIn(ctx, "rooms", []string{"R1"})
	require.NoError(t, err)
	_, err = s.GetIn(ctx, "rooms", []string{"R2"})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Calls("Get", "rooms"))
	assert.Equal(t, 2, s.Calls("GetIn", "rooms"))
	assert.Equal(t, 0, s.Calls("GetIn", "leases"))
	assert.Equal(t, 1, s.Len("rooms"))

	s.ResetCalls()
	assert.Zero(t, s.Calls("GetIn", "rooms"))
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Set(ctx, "rooms", "R1", &domain.Room{ID: "R1", Name: "101"}))

	raw, err := s.Get(ctx, "rooms", "R1")
	require.NoError(t, err)
	for i := range raw {
		raw[i] = 0
	}

	again, err := s.Get(ctx, "rooms", "R1")
	require.NoError(t, err)
	assert.Equal(t, "101", again.Lookup("name").StringValue())
}

func TestStoreHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore().Get(ctx, "rooms", "R1")
	assert.ErrorIs(t, err, context.Canceled)
}
