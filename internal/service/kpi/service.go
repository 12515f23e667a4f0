package kpi

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jmehdipour/loyalty-admin/internal/docstore"
	"github.com/jmehdipour/loyalty-admin/internal/metrics"
	"github.com/jmehdipour/loyalty-admin/internal/model"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
)

// Service reads the dashboard KPIs from the precomputed singletons.
type Service struct {
	singletons repository.SingletonsRepository
	log        *zap.Logger
}

func New(singletons repository.SingletonsRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{singletons: singletons, log: log}
}

// GetKpis never fails. A missing or unreadable singleton zeroes the fields
// derived from it and leaves the others intact.
func (s *Service) GetKpis(ctx context.Context) model.Kpis {
	var (
		stats      model.AggregateStats
		pointValue float64
		g          errgroup.Group
	)
	// both reads degrade on their own; neither goroutine returns an error
	g.Go(func() error {
		st, err := s.singletons.Stats(ctx)
		if err != nil {
			s.degraded("stats", err)
			return nil
		}
		stats = st
		return nil
	})
	g.Go(func() error {
		pv, err := s.singletons.PointValue(ctx)
		if err != nil {
			s.degraded("point_value", err)
			return nil
		}
		pointValue = pv
		return nil
	})
	_ = g.Wait()

	return compute(stats, pointValue)
}

// WatchKpis calls fn with fresh KPIs whenever either singleton changes. The
// first call happens once both have been read. It blocks until ctx is done,
// fn fails or a listener fails.
func (s *Service) WatchKpis(ctx context.Context, fn func(model.Kpis) error) error {
	var (
		mu                sync.Mutex
		stats             model.AggregateStats
		pointValue        float64
		haveStats, havePV bool
	)

	// emit runs under mu so fn never sees interleaved calls
	emit := func() error {
		if !haveStats || !havePV {
			return nil
		}
		return fn(compute(stats, pointValue))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.singletons.WatchStats(gctx, func(st model.AggregateStats, found bool) error {
			mu.Lock()
			defer mu.Unlock()
			if !found {
				st = model.AggregateStats{}
			}
			stats, haveStats = st, true
			return emit()
		})
	})
	g.Go(func() error {
		return s.singletons.WatchPointValue(gctx, func(pv float64, found bool) error {
			mu.Lock()
			defer mu.Unlock()
			if !found {
				pv = 0
			}
			pointValue, havePV = pv, true
			return emit()
		})
	})
	return g.Wait()
}

func (s *Service) degraded(field string, err error) {
	reason := "store_error"
	if errors.Is(err, docstore.ErrNotFound) {
		reason = "missing"
		s.log.Debug("kpi singleton missing", zap.String("field", field))
	} else {
		s.log.Warn("kpi read degraded to zero", zap.String("field", field), zap.Error(err))
	}
	metrics.DegradedReadsTotal.WithLabelValues("kpis", reason).Inc()
}

func compute(st model.AggregateStats, pointValue float64) model.Kpis {
	return model.Kpis{
		TotalCustomers:       st.TotalCustomers,
		TotalPointsLiability: st.TotalPointsLiability,
		TotalLiabilityValue:  float64(st.TotalPointsLiability) * pointValue,
	}
}
