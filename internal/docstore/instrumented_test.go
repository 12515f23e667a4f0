package docstore

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/loyalty-admin/internal/metrics"
)

func TestInstrumentedCountsOps(t *testing.T) {
	ctx := context.Background()
	s := WithMetrics(NewMemory())

	okGets := testutil.ToFloat64(metrics.StoreOpsTotal.WithLabelValues("get", "ok"))
	errPuts := testutil.ToFloat64(metrics.StoreOpsTotal.WithLabelValues("put", "error"))

	require.NoError(t, s.Put(ctx, "items", "a", map[string]any{"n": 1}))
	_, err := s.Get(ctx, "items", "a")
	require.NoError(t, err)
	_, err = s.Get(ctx, "items", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.Put(cancelled, "items", "b", nil))

	assert.Equal(t, okGets+2, testutil.ToFloat64(metrics.StoreOpsTotal.WithLabelValues("get", "ok")))
	assert.Equal(t, errPuts+1, testutil.ToFloat64(metrics.StoreOpsTotal.WithLabelValues("put", "error")))
}

func TestInstrumentedPassesWatchThrough(t *testing.T) {
	m := NewMemory()
	s := WithMetrics(m)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := s.WatchDocument(ctx, "cfg", "general", func(*Document) error {
		calls++
		cancel()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Zero(t, m.Watchers())
}
