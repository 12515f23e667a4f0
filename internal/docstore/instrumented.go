package docstore

import (
	"context"
	"errors"

	"github.com/jmehdipour/loyalty-admin/internal/metrics"
)

// Instrumented counts every operation of the wrapped Store in
// metrics.StoreOpsTotal. Watches are not counted.
type Instrumented struct {
	Store
}

func WithMetrics(s Store) *Instrumented { return &Instrumented{Store: s} }

func observe(op string, err error) {
	result := "ok"
	if err != nil && !errors.Is(err, ErrNotFound) {
		result = "error"
	}
	metrics.StoreOpsTotal.WithLabelValues(op, result).Inc()
}

func (i *Instrumented) Get(ctx context.Context, collection, id string) (*Document, error) {
	doc, err := i.Store.Get(ctx, collection, id)
	observe("get", err)
	return doc, err
}

func (i *Instrumented) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	docs, err := i.Store.Query(ctx, collection, q)
	observe("query", err)
	return docs, err
}

func (i *Instrumented) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	n, err := i.Store.Count(ctx, collection, filters)
	observe("count", err)
	return n, err
}

func (i *Instrumented) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	err := i.Store.Put(ctx, collection, id, fields)
	observe("put", err)
	return err
}

func (i *Instrumented) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	err := i.Store.Merge(ctx, collection, id, fields)
	observe("merge", err)
	return err
}

func (i *Instrumented) Delete(ctx context.Context, collection, id string) error {
	err := i.Store.Delete(ctx, collection, id)
	observe("delete", err)
	return err
}
