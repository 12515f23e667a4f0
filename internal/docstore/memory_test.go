package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNumbers(t *testing.T, m *Memory, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, m.Put(ctx, "items", fmt.Sprintf("i%02d", i), map[string]any{
			"n":     int64(i),
			"group": fmt.Sprintf("g%d", i%3),
		}))
	}
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestMemoryGetNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "items", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPutIsFullOverwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "items", "a", map[string]any{"x": 1, "y": 2}))
	require.NoError(t, m.Put(ctx, "items", "a", map[string]any{"x": 3}))

	doc, err := m.Get(ctx, "items", "a")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 3}, doc.Data)
}

func TestMemoryMergeKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Merge(ctx, "cfg", "general", map[string]any{"enableSms": true}))
	require.NoError(t, m.Put(ctx, "cfg", "general", map[string]any{"pointValue": 0.5, "enableSms": true}))
	require.NoError(t, m.Merge(ctx, "cfg", "general", map[string]any{"enableSms": false}))

	doc, err := m.Get(ctx, "cfg", "general")
	require.NoError(t, err)
	assert.Equal(t, 0.5, doc.Float64("pointValue"))
	v, ok := doc.Bool("enableSms")
	assert.True(t, ok)
	assert.False(t, v)
}

func TestMemoryReturnedDataIsDetached(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	fields := map[string]any{"x": 1}
	require.NoError(t, m.Put(ctx, "items", "a", fields))
	fields["x"] = 99

	doc, err := m.Get(ctx, "items", "a")
	require.NoError(t, err)
	doc.Data["x"] = 42

	again, err := m.Get(ctx, "items", "a")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Data["x"])
}

func TestMemoryQueryOrderLimitAndStartAfter(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedNumbers(t, m, 7)

	q := Query{OrderBy: OrderBy{Field: "n", Dir: Desc}, Limit: 3}
	first, err := m.Query(ctx, "items", q)
	require.NoError(t, err)
	assert.Equal(t, []string{"i06", "i05", "i04"}, ids(first))

	q.StartAfter = &first[len(first)-1]
	second, err := m.Query(ctx, "items", q)
	require.NoError(t, err)
	assert.Equal(t, []string{"i03", "i02", "i01"}, ids(second))

	q.StartAfter = &second[len(second)-1]
	third, err := m.Query(ctx, "items", q)
	require.NoError(t, err)
	assert.Equal(t, []string{"i00"}, ids(third))
}

func TestMemoryQueryTiesBreakOnID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, m.Put(ctx, "items", id, map[string]any{"n": 1}))
	}

	asc, err := m.Query(ctx, "items", Query{OrderBy: OrderBy{Field: "n"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(asc))

	desc, err := m.Query(ctx, "items", Query{OrderBy: OrderBy{Field: "n", Dir: Desc}, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(desc))

	rest, err := m.Query(ctx, "items", Query{OrderBy: OrderBy{Field: "n", Dir: Desc}, StartAfter: &desc[0]})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(rest))
}

func TestMemoryQueryExcludesDocsMissingOrderField(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, "items", "with", map[string]any{"n": 1}))
	require.NoError(t, m.Put(ctx, "items", "without", map[string]any{"other": 1}))

	docs, err := m.Query(ctx, "items", Query{OrderBy: OrderBy{Field: "n"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"with"}, ids(docs))

	all, err := m.Query(ctx, "items", Query{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryRangeFiltersOnTime(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Put(ctx, "p", fmt.Sprintf("p%d", i), map[string]any{
			"date": base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	docs, err := m.Query(ctx, "p", Query{
		Filters: []Filter{Gte("date", base.Add(24*time.Hour)), Lte("date", base.Add(3*24*time.Hour))},
		OrderBy: OrderBy{Field: "date", Dir: Desc},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p2", "p1"}, ids(docs))
}

func TestMemoryCountWithEquality(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seedNumbers(t, m, 7)

	n, err := m.Count(ctx, "items", []Filter{Eq("group", "g0")})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = m.Count(ctx, "empty", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryDeleteMissingIsNoError(t *testing.T) {
	assert.NoError(t, NewMemory().Delete(context.Background(), "items", "nope"))
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()

	_, err := m.Query(ctx, "items", Query{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.Put(ctx, "items", "a", nil), context.Canceled)
}

func TestMemoryWatchDeliversChangesAndReleases(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan int, 8)
	done := make(chan error, 1)
	go func() {
		done <- m.Watch(ctx, "items", Query{}, func(docs []Document) error {
			updates <- len(docs)
			return nil
		})
	}()

	assert.Equal(t, 0, <-updates)
	require.Eventually(t, func() bool { return m.Watchers() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Put(context.Background(), "items", "a", map[string]any{"n": 1}))
	assert.Equal(t, 1, <-updates)

	cancel()
	require.NoError(t, <-done)
	assert.Zero(t, m.Watchers())
}

func TestMemoryWatchStopsOnHandlerError(t *testing.T) {
	m := NewMemory()
	boom := errors.New("boom")

	err := m.WatchDocument(context.Background(), "cfg", "general", func(doc *Document) error {
		assert.Nil(t, doc)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, m.Watchers())
}

func TestDocumentAccessors(t *testing.T) {
	d := Document{ID: "x", Data: map[string]any{
		"name":  "Ana",
		"int":   int64(7),
		"float": 2.5,
		"when":  time.Unix(0, 0),
	}}
	assert.Equal(t, "Ana", d.String("name"))
	assert.Equal(t, "", d.String("int"))
	assert.EqualValues(t, 7, d.Int64("int"))
	assert.EqualValues(t, 2, d.Int64("float"))
	assert.Equal(t, 7.0, d.Float64("int"))
	assert.Zero(t, d.Float64("missing"))
	_, ok := d.Time("when")
	assert.True(t, ok)
	_, ok = d.Time("name")
	assert.False(t, ok)
}
