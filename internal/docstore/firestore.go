package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const countAlias = "all"

// Firestore is the production Store backed by Cloud Firestore.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

var _ Store = (*Firestore)(nil)

func (f *Firestore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (f *Firestore) build(collection string, q Query) firestore.Query {
	fq := f.client.Collection(collection).Query
	for _, flt := range q.Filters {
		fq = fq.Where(flt.Field, string(flt.Op), flt.Value)
	}

	dir := firestore.Asc
	if q.OrderBy.Dir == Desc {
		dir = firestore.Desc
	}
	if q.OrderBy.Field != "" {
		fq = fq.OrderBy(q.OrderBy.Field, dir)
	}
	// explicit id tie-break so StartAfter can address a single document
	fq = fq.OrderBy(firestore.DocumentID, dir)

	if q.StartAfter != nil {
		if q.OrderBy.Field != "" {
			fq = fq.StartAfter(q.StartAfter.Data[q.OrderBy.Field], q.StartAfter.ID)
		} else {
			fq = fq.StartAfter(q.StartAfter.ID)
		}
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq
}

func (f *Firestore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	snaps, err := f.build(collection, q).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return toDocuments(snaps), nil
}

func (f *Firestore) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	fq := f.client.Collection(collection).Query
	for _, flt := range filters {
		fq = fq.Where(flt.Field, string(flt.Op), flt.Value)
	}
	res, err := fq.NewAggregationQuery().WithCount(countAlias).Get(ctx)
	if err != nil {
		return 0, err
	}
	switch v := res[countAlias].(type) {
	case *firestorepb.Value:
		return v.GetIntegerValue(), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("unexpected count result type %T", v)
	}
}

func (f *Firestore) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	_, err := f.client.Collection(collection).Doc(id).Set(ctx, fields)
	return err
}

func (f *Firestore) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	_, err := f.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	return err
}

func (f *Firestore) Delete(ctx context.Context, collection, id string) error {
	_, err := f.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (f *Firestore) NewID(collection string) string {
	return f.client.Collection(collection).NewDoc().ID
}

func (f *Firestore) Watch(ctx context.Context, collection string, q Query, fn func([]Document) error) error {
	it := f.build(collection, q).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || isCancelled(err) {
				return nil
			}
			return err
		}
		snaps, err := snap.Documents.GetAll()
		if err != nil {
			return err
		}
		if err := fn(toDocuments(snaps)); err != nil {
			return err
		}
	}
}

func (f *Firestore) WatchDocument(ctx context.Context, collection, id string, fn func(*Document) error) error {
	it := f.client.Collection(collection).Doc(id).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || isCancelled(err) {
				return nil
			}
			return err
		}
		var doc *Document
		if snap.Exists() {
			doc = &Document{ID: snap.Ref.ID, Data: snap.Data()}
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || status.Code(err) == codes.Canceled
}

func toDocuments(snaps []*firestore.DocumentSnapshot) []Document {
	docs := make([]Document, 0, len(snaps))
	for _, s := range snaps {
		docs = append(docs, Document{ID: s.Ref.ID, Data: s.Data()})
	}
	return docs
}
