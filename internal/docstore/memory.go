package docstore

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/jmehdipour/loyalty-admin/internal/util"
)

// Memory is an in-process Store used by tests, seeding and local runs.
type Memory struct {
	mu       sync.RWMutex
	cols     map[string]map[string]map[string]any
	watchers map[int]*memWatcher
	nextW    int
}

type memWatcher struct {
	collection string
	notify     chan struct{}
}

func NewMemory() *Memory {
	return &Memory{
		cols:     make(map[string]map[string]map[string]any),
		watchers: make(map[int]*memWatcher),
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.cols[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Data: maps.Clone(data)}, nil
}

func (m *Memory) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.query(collection, q), nil
}

func (m *Memory) query(collection string, q Query) []Document {
	docs := make([]Document, 0, len(m.cols[collection]))
	for id, data := range m.cols[collection] {
		d := Document{ID: id, Data: data}
		if q.OrderBy.Field != "" && !d.Has(q.OrderBy.Field) {
			continue
		}
		if !matchAll(d, q.Filters) {
			continue
		}
		docs = append(docs, Document{ID: id, Data: maps.Clone(data)})
	}

	sort.Slice(docs, func(i, j int) bool {
		return less(q.OrderBy, docs[i], docs[j])
	})

	if q.StartAfter != nil {
		cursor := *q.StartAfter
		i := sort.Search(len(docs), func(i int) bool {
			return less(q.OrderBy, cursor, docs[i])
		})
		docs = docs[i:]
	}

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

// less reports whether a sorts before b under ob.
func less(ob OrderBy, a, b Document) bool {
	c := 0
	if ob.Field != "" {
		c, _ = compareValues(a.Data[ob.Field], b.Data[ob.Field])
	}
	if c == 0 {
		switch {
		case a.ID < b.ID:
			c = -1
		case a.ID > b.ID:
			c = 1
		}
	}
	if ob.Dir == Desc {
		return c > 0
	}
	return c < 0
}

func matchAll(d Document, filters []Filter) bool {
	for _, f := range filters {
		if !f.matches(d) {
			return false
		}
	}
	return true
}

func (m *Memory) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for id, data := range m.cols[collection] {
		if matchAll(Document{ID: id, Data: data}, filters) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	col, ok := m.cols[collection]
	if !ok {
		col = make(map[string]map[string]any)
		m.cols[collection] = col
	}
	col[id] = maps.Clone(fields)
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	col, ok := m.cols[collection]
	if !ok {
		col = make(map[string]map[string]any)
		m.cols[collection] = col
	}
	cur, ok := col[id]
	if !ok {
		cur = make(map[string]any, len(fields))
		col[id] = cur
	}
	maps.Copy(cur, fields)
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	_, existed := m.cols[collection][id]
	delete(m.cols[collection], id)
	m.mu.Unlock()

	if existed {
		m.notify(collection)
	}
	return nil
}

func (m *Memory) NewID(string) string { return util.NewID() }

func (m *Memory) Watch(ctx context.Context, collection string, q Query, fn func([]Document) error) error {
	w, unregister := m.register(collection)
	defer unregister()

	for {
		m.mu.RLock()
		docs := m.query(collection, q)
		m.mu.RUnlock()

		if err := fn(docs); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-w.notify:
		}
	}
}

func (m *Memory) WatchDocument(ctx context.Context, collection, id string, fn func(*Document) error) error {
	w, unregister := m.register(collection)
	defer unregister()

	for {
		m.mu.RLock()
		var doc *Document
		if data, ok := m.cols[collection][id]; ok {
			doc = &Document{ID: id, Data: maps.Clone(data)}
		}
		m.mu.RUnlock()

		if err := fn(doc); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-w.notify:
		}
	}
}

// Watchers returns the number of live subscriptions.
func (m *Memory) Watchers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.watchers)
}

func (m *Memory) register(collection string) (*memWatcher, func()) {
	w := &memWatcher{collection: collection, notify: make(chan struct{}, 1)}

	m.mu.Lock()
	id := m.nextW
	m.nextW++
	m.watchers[id] = w
	m.mu.Unlock()

	return w, func() {
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}
}

func (m *Memory) notify(collection string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.watchers {
		if w.collection != collection {
			continue
		}
		// coalesce: one pending wake-up is enough, the watcher re-reads state
		select {
		case w.notify <- struct{}{}:
		default:
		}
	}
}
