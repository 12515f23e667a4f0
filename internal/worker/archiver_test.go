package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/loyalty-admin/internal/docstore"
	"github.com/jmehdipour/loyalty-admin/internal/model"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
)

type memSink struct {
	mu      sync.Mutex
	rows    []model.ArchivedSale
	batches int
	fail    error
}

func (s *memSink) InsertBatch(_ context.Context, rows []model.ArchivedSale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.batches++
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *memSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r.PurchaseID)
	}
	return out
}

type memCheckpoint struct {
	mu sync.Mutex
	cp Checkpoint
}

func (m *memCheckpoint) Load(context.Context) (Checkpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cp, nil
}

func (m *memCheckpoint) Save(_ context.Context, cp Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cp = cp
	return nil
}

var base = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

func seedSales(t *testing.T, store docstore.Store, from, to int, at func(i int) time.Time) {
	t.Helper()
	s := repository.NewSeeder(store, repository.DefaultCollections())
	for i := from; i < to; i++ {
		require.NoError(t, s.PutPurchase(context.Background(), model.PurchaseRecord{
			ID:           fmt.Sprintf("p%02d", i),
			CustomerID:   "c1",
			TotalAmount:  1,
			PointsEarned: 1,
			Date:         at(i),
		}))
	}
}

func hourly(i int) time.Time { return base.Add(time.Duration(i) * time.Hour) }

func newArchiver(store docstore.Store, sink *memSink, cp *memCheckpoint) *Archiver {
	a := NewArchiver(repository.NewPurchasesRepository(store, repository.DefaultCollections()), sink, cp, nil)
	a.BatchSize = 4
	return a
}

func TestDrainArchivesInOrderAndAdvancesCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedSales(t, store, 0, 10, hourly)
	sink, cp := &memSink{}, &memCheckpoint{}
	a := newArchiver(store, sink, cp)

	n, err := a.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 3, sink.batches)
	assert.Equal(t, "p00", sink.ids()[0])
	assert.Equal(t, "p09", sink.ids()[9])
	assert.Equal(t, model.UnknownCustomerName, sink.rows[0].CustomerName)
	assert.Equal(t, Checkpoint{Date: hourly(9), ID: "p09"}, cp.cp)

	// caught up: nothing more to send
	n, err = a.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	seedSales(t, store, 10, 12, hourly)
	n, err = a.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, sink.rows, 12)
}

func TestDrainHandlesSharedTimestamps(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	same := func(int) time.Time { return base }
	seedSales(t, store, 0, 6, same)
	sink := &memSink{}
	a := newArchiver(store, sink, &memCheckpoint{})

	n, err := a.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []string{"p00", "p01", "p02", "p03", "p04", "p05"}, sink.ids())
}

func TestSinkFailureKeepsCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedSales(t, store, 0, 3, hourly)
	sink, cp := &memSink{fail: errors.New("clickhouse down")}, &memCheckpoint{}
	a := newArchiver(store, sink, cp)

	_, err := a.Drain(ctx)
	require.Error(t, err)
	assert.True(t, cp.cp.IsZero())

	sink.fail = nil
	n, err := a.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRunStopsOnCancel(t *testing.T) {
	store := docstore.NewMemory()
	seedSales(t, store, 0, 2, hourly)
	sink := &memSink{}
	a := newArchiver(store, sink, &memCheckpoint{})
	a.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return len(sink.ids()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestRunRequiresDependencies(t *testing.T) {
	assert.Error(t, (&Archiver{}).Run(context.Background()))
}
