package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	return NewRegistry(&Options{DefaultTTL: time.Minute, Clock: mock}), mock
}

func TestRegistryCategoriesAreIsolated(t *testing.T) {
	reg, _ := newTestRegistry(t)

	reg.Set("rooms", "ID_1", "room")
	reg.Set("leases", "ID_1", "lease")

	v, ok := reg.Get("rooms", "ID_1")
	require.True(t, ok)
	assert.Equal(t, "room", v)

	v, ok = reg.Get("leases", "ID_1")
	require.True(t, ok)
	assert.Equal(t, "lease", v)

	reg.Clear("rooms")
	_, ok = reg.Get("rooms", "ID_1")
	assert.False(t, ok)
	_, ok = reg.Get("leases", "ID_1")
	assert.True(t, ok, "clearing one category must not touch another")
}

func TestRegistryExpiry(t *testing.T) {
	reg, mock := newTestRegistry(t)

	reg.SetWithTTL("users", "uid-1", "STDS", 5*time.Second)
	v, ok := reg.Get("users", "uid-1")
	require.True(t, ok)
	assert.Equal(t, "STDS", v)

	mock.Add(6 * time.Second)
	_, ok = reg.Get("users", "uid-1")
	assert.False(t, ok)

	stats, ok := reg.Stats("users")
	require.True(t, ok)
	assert.Equal(t, 0, stats.Total, "expired entry should be removed by the read")
}

func TestRegistryStatsUnknownCategory(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, ok := reg.Stats("nothing")
	assert.False(t, ok)
}

func TestNewRegistryLeavesOptionsUntouched(t *testing.T) {
	options := &Options{}
	reg := NewRegistry(options)

	assert.Zero(t, options.DefaultTTL)
	assert.Nil(t, options.Clock)

	reg.Set("rooms", "R1", 1)
	_, ok := reg.Get("rooms", "R1")
	assert.True(t, ok)
}

func TestRegistryDeleteAndClearUnknownCategory(t *testing.T) {
	reg, _ := newTestRegistry(t)
	assert.NotPanics(t, func() {
		reg.Delete("nothing", "k")
		reg.Clear("nothing")
	})
}

func TestRegistrySweep(t *testing.T) {
	reg, mock := newTestRegistry(t)

	reg.SetWithTTL("rooms", "a", 1, time.Second)
	reg.SetWithTTL("rooms", "b", 1, time.Hour)
	reg.SetWithTTL("leases", "c", 1, time.Second)
	reg.SetWithTTL("leases", "d", 1, 2*time.Second)
	reg.SetWithTTL("tenants", "e", 1, time.Hour)

	mock.Add(2 * time.Second)

	removed := reg.Sweep()
	assert.Equal(t, map[string]int{"rooms": 1, "leases": 2, "tenants": 0}, removed)

	stats, _ := reg.Stats("rooms")
	assert.Equal(t, Stats{Total: 1, Active: 1}, stats)
	stats, _ = reg.Stats("leases")
	assert.Equal(t, Stats{}, stats)

	assert.Equal(t, []string{"leases", "rooms", "tenants"}, reg.Categories())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			category := fmt.Sprintf("cat-%d", i%4)
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k-%d", j)
				reg.Set(category, key, j)
				reg.Get(category, key)
				if j%10 == 0 {
					reg.Delete(category, key)
				}
			}
			reg.Sweep()
		}(i)
	}
	wg.Wait()

	assert.Len(t, reg.Categories(), 4)
}

func TestRegistryRunSweeper(t *testing.T) {
	reg, mock := newTestRegistry(t)
	reg.SetWithTTL("rooms", "a", 1, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.RunSweeper(ctx, time.Minute)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		mock.Add(time.Minute)
		stats, _ := reg.Stats("rooms")
		return stats.Total == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestRegistryRunSweeperDisabled(t *testing.T) {
	reg, _ := newTestRegistry(t)
	// returns immediately
	reg.RunSweeper(context.Background(), 0)
}
