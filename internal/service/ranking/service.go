package ranking

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jmehdipour/loyalty-admin/internal/metrics"
	"github.com/jmehdipour/loyalty-admin/internal/model"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
)

const (
	DefaultTopN = 10
	MaxTopN     = 100
)

// TierLookup resolves tier ids to their display attributes.
type TierLookup interface {
	Lookup(ctx context.Context) (map[string]model.MembershipTier, error)
}

// Service resolves the top customers by balance, joined with their tiers.
type Service struct {
	customers repository.CustomersRepository
	tiers     TierLookup
	log       *zap.Logger
}

func New(customers repository.CustomersRepository, tiers TierLookup, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{customers: customers, tiers: tiers, log: log}
}

// GetTopCustomers returns at most n customers, highest balance first. n <= 0
// means DefaultTopN; n is capped at MaxTopN. It never fails: an unreadable
// customer page gives an empty result and an unreadable tier collection
// gives every row the unknown tier. Order among equal balances is whatever
// the store returns.
func (s *Service) GetTopCustomers(ctx context.Context, n int) []model.EnrichedCustomer {
	if n <= 0 {
		n = DefaultTopN
	}
	n = min(n, MaxTopN)

	var (
		customers []model.Customer
		tiers     map[string]model.MembershipTier
		custErr   error
		tierErr   error
		g         errgroup.Group
	)
	// both loads run to completion; one failing must not cancel the other
	g.Go(func() error {
		customers, custErr = s.customers.TopByBalance(ctx, n)
		return nil
	})
	g.Go(func() error {
		tiers, tierErr = s.tiers.Lookup(ctx)
		return nil
	})
	_ = g.Wait()

	if custErr != nil {
		s.log.Warn("top customers unavailable", zap.Error(custErr))
		metrics.DegradedReadsTotal.WithLabelValues("top_customers", "store_error").Inc()
		return []model.EnrichedCustomer{}
	}
	if tierErr != nil {
		s.log.Warn("tier lookup unavailable, using unknown tier", zap.Error(tierErr))
		metrics.DegradedReadsTotal.WithLabelValues("top_customers", "store_error").Inc()
	}

	return Join(customers, tiers)
}

// Join attaches tier display attributes to each customer. Unknown or empty
// tier ids get model.UnknownTier, and a stored tier missing its name or color
// gets the unknown value for that field. A nil map resolves nothing.
func Join(customers []model.Customer, tiers map[string]model.MembershipTier) []model.EnrichedCustomer {
	out := make([]model.EnrichedCustomer, 0, len(customers))
	for _, c := range customers {
		t, ok := tiers[c.MembershipLevelID]
		if !ok {
			t = model.UnknownTier
		}
		name, color := t.Name, t.Color
		if name == "" {
			name = model.UnknownTierName
		}
		if color == "" {
			color = model.UnknownTierColor
		}
		out = append(out, model.EnrichedCustomer{
			Customer:             c,
			MembershipLevelName:  name,
			MembershipLevelColor: color,
		})
	}
	return out
}
