package repository

import (
	"context"
	"fmt"

	"github.com/jmehdipour/loyalty-admin/internal/docstore"
	"github.com/jmehdipour/loyalty-admin/internal/model"
)

// Seeder writes the documents normally owned by the purchase processor and
// the aggregation job. It backs the seed command and test fixtures only.
type Seeder struct {
	store docstore.Store
	cols  Collections
}

func NewSeeder(store docstore.Store, cols Collections) *Seeder {
	return &Seeder{store: store, cols: cols}
}

func (s *Seeder) PutTier(ctx context.Context, t model.MembershipTier) error {
	return NewTiersRepository(s.store, s.cols).Put(ctx, t)
}

func (s *Seeder) PutCustomer(ctx context.Context, c model.Customer) error {
	if c.ID == "" {
		c.ID = s.store.NewID(s.cols.Customers)
	}
	if err := s.store.Put(ctx, s.cols.Customers, c.ID, map[string]any{
		fieldName:              c.Name,
		fieldTotalPoints:       c.TotalPointsBalance,
		fieldMembershipLevelID: c.MembershipLevelID,
	}); err != nil {
		return fmt.Errorf("put customer %s: %w", c.ID, err)
	}
	return nil
}

// PutPurchase stores p; an empty CustomerName is left out of the document,
// like legacy records written before names were denormalized.
func (s *Seeder) PutPurchase(ctx context.Context, p model.PurchaseRecord) error {
	if p.ID == "" {
		p.ID = s.store.NewID(s.cols.Purchases)
	}
	fields := map[string]any{
		fieldCustomerID:   p.CustomerID,
		fieldTotalAmount:  p.TotalAmount,
		fieldPointsEarned: p.PointsEarned,
		fieldDate:         p.Date,
	}
	if p.CustomerName != "" {
		fields[fieldCustomerName] = p.CustomerName
	}
	if err := s.store.Put(ctx, s.cols.Purchases, p.ID, fields); err != nil {
		return fmt.Errorf("put purchase %s: %w", p.ID, err)
	}
	return nil
}

func (s *Seeder) PutStats(ctx context.Context, st model.AggregateStats) error {
	return s.store.Put(ctx, s.cols.Stats, s.cols.SingletonID, map[string]any{
		fieldTotalCustomers:       st.TotalCustomers,
		fieldTotalPointsLiability: st.TotalPointsLiability,
	})
}

func (s *Seeder) PutPointValue(ctx context.Context, v float64) error {
	return s.store.Merge(ctx, s.cols.Configuration, s.cols.SingletonID, map[string]any{
		fieldPointValue: v,
	})
}
