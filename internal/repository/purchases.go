package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmehdipour/loyalty-admin/internal/apperr"
	"github.com/jmehdipour/loyalty-admin/internal/docstore"
	"github.com/jmehdipour/loyalty-admin/internal/model"
)

// ErrCursorNotFound is returned by Page when the resume record is gone.
var ErrCursorNotFound = errors.New("cursor record not found")

// PurchasesRepository reads the sales log. Page and Range order by date,
// newest first; Ascending walks oldest first for incremental consumers.
type PurchasesRepository interface {
	Page(ctx context.Context, limit int, afterID string) ([]model.PurchaseRecord, error)
	Range(ctx context.Context, start, end *time.Time, limit int) ([]model.PurchaseRecord, error)
	Ascending(ctx context.Context, afterDate time.Time, afterID string, limit int) ([]model.PurchaseRecord, error)
}

type PurchasesRepositoryImpl struct {
	store      docstore.Store
	collection string
}

func NewPurchasesRepository(store docstore.Store, cols Collections) *PurchasesRepositoryImpl {
	return &PurchasesRepositoryImpl{store: store, collection: cols.Purchases}
}

var _ PurchasesRepository = (*PurchasesRepositoryImpl)(nil)

func (r *PurchasesRepositoryImpl) Page(ctx context.Context, limit int, afterID string) ([]model.PurchaseRecord, error) {
	q := docstore.Query{
		OrderBy: docstore.OrderBy{Field: fieldDate, Dir: docstore.Desc},
		Limit:   limit,
	}

	if afterID != "" {
		cursor, err := r.store.Get(ctx, r.collection, afterID)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrCursorNotFound
		}
		if err != nil {
			return nil, apperr.Store("purchases.cursor", err)
		}
		// a record without a date is not part of the ordered log
		if _, ok := cursor.Time(fieldDate); !ok {
			return nil, ErrCursorNotFound
		}
		q.StartAfter = cursor
	}

	docs, err := r.store.Query(ctx, r.collection, q)
	if err != nil {
		return nil, apperr.Store("purchases.page", err)
	}
	return purchasesFromDocs(docs), nil
}

// Range returns records with start <= date <= end; nil bounds are open.
// limit caps the read so callers can detect an oversized range.
func (r *PurchasesRepositoryImpl) Range(ctx context.Context, start, end *time.Time, limit int) ([]model.PurchaseRecord, error) {
	q := docstore.Query{
		OrderBy: docstore.OrderBy{Field: fieldDate, Dir: docstore.Desc},
		Limit:   limit,
	}
	if start != nil {
		q.Filters = append(q.Filters, docstore.Gte(fieldDate, *start))
	}
	if end != nil {
		q.Filters = append(q.Filters, docstore.Lte(fieldDate, *end))
	}

	docs, err := r.store.Query(ctx, r.collection, q)
	if err != nil {
		return nil, apperr.Store("purchases.range", err)
	}
	return purchasesFromDocs(docs), nil
}

// Ascending returns up to limit records strictly after (afterDate, afterID),
// oldest first. An empty afterID starts from the beginning of the log.
func (r *PurchasesRepositoryImpl) Ascending(ctx context.Context, afterDate time.Time, afterID string, limit int) ([]model.PurchaseRecord, error) {
	q := docstore.Query{
		OrderBy: docstore.OrderBy{Field: fieldDate, Dir: docstore.Asc},
		Limit:   limit,
	}
	if afterID != "" {
		q.StartAfter = &docstore.Document{ID: afterID, Data: map[string]any{fieldDate: afterDate}}
	}

	docs, err := r.store.Query(ctx, r.collection, q)
	if err != nil {
		return nil, apperr.Store("purchases.ascending", err)
	}
	return purchasesFromDocs(docs), nil
}

func purchasesFromDocs(docs []docstore.Document) []model.PurchaseRecord {
	out := make([]model.PurchaseRecord, 0, len(docs))
	for _, d := range docs {
		date, _ := d.Time(fieldDate)
		out = append(out, model.PurchaseRecord{
			ID:           d.ID,
			CustomerID:   d.String(fieldCustomerID),
			CustomerName: d.String(fieldCustomerName),
			TotalAmount:  d.Float64(fieldTotalAmount),
			PointsEarned: d.Int64(fieldPointsEarned),
			Date:         date,
		})
	}
	return out
}
