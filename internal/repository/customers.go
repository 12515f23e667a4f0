package repository

import (
	"context"

	"github.com/jmehdipour/loyalty-admin/internal/apperr"
	"github.com/jmehdipour/loyalty-admin/internal/docstore"
	"github.com/jmehdipour/loyalty-admin/internal/model"
)

type CustomersRepository interface {
	TopByBalance(ctx context.Context, n int) ([]model.Customer, error)
	CountByTier(ctx context.Context, tierID string) (int64, error)
}

type CustomersRepositoryImpl struct {
	store      docstore.Store
	collection string
}

func NewCustomersRepository(store docstore.Store, cols Collections) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{store: store, collection: cols.Customers}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

// TopByBalance returns up to n customers, highest balance first. Equal
// balances come back in the store's own order.
func (r *CustomersRepositoryImpl) TopByBalance(ctx context.Context, n int) ([]model.Customer, error) {
	docs, err := r.store.Query(ctx, r.collection, docstore.Query{
		OrderBy: docstore.OrderBy{Field: fieldTotalPoints, Dir: docstore.Desc},
		Limit:   n,
	})
	if err != nil {
		return nil, apperr.Store("customers.top", err)
	}
	out := make([]model.Customer, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.Customer{
			ID:                 d.ID,
			Name:               d.String(fieldName),
			TotalPointsBalance: d.Int64(fieldTotalPoints),
			MembershipLevelID:  d.String(fieldMembershipLevelID),
		})
	}
	return out, nil
}

func (r *CustomersRepositoryImpl) CountByTier(ctx context.Context, tierID string) (int64, error) {
	n, err := r.store.Count(ctx, r.collection, []docstore.Filter{
		docstore.Eq(fieldMembershipLevelID, tierID),
	})
	if err != nil {
		return 0, apperr.Store("customers.count_by_tier", err)
	}
	return n, nil
}
