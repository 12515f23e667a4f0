package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmehdipour/loyalty-admin/internal/apperr"
	"github.com/jmehdipour/loyalty-admin/internal/model"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
)

// DefaultMaxRangeRecords bounds RangeQuery when no limit is configured.
const DefaultMaxRangeRecords = 10000

// Service pages through the sales log and serves bounded range exports.
// Both read newest first.
type Service struct {
	purchases repository.PurchasesRepository
	maxRange  int
}

func New(purchases repository.PurchasesRepository, maxRange int) *Service {
	if maxRange <= 0 {
		maxRange = DefaultMaxRangeRecords
	}
	return &Service{purchases: purchases, maxRange: maxRange}
}

// Page returns up to pageSize records strictly after the record afterID, or
// from the newest record when afterID is empty. NextCursor is empty once a
// short page signals the end of the log.
func (s *Service) Page(ctx context.Context, pageSize int, afterID string) (model.SalesPage, error) {
	if pageSize <= 0 {
		return model.SalesPage{}, apperr.Validation("page_size", "must be a positive integer")
	}
	afterID = strings.TrimSpace(afterID)

	recs, err := s.purchases.Page(ctx, pageSize, afterID)
	if errors.Is(err, repository.ErrCursorNotFound) {
		return model.SalesPage{}, &apperr.CursorInvalidError{Cursor: afterID}
	}
	if err != nil {
		return model.SalesPage{}, err
	}

	page := model.SalesPage{Records: recs}
	if len(recs) == pageSize {
		page.NextCursor = recs[len(recs)-1].ID
	}
	return page, nil
}

// RangeQuery returns every record with start <= date <= end. Nil bounds are
// open. More than the configured maximum fails instead of truncating.
func (s *Service) RangeQuery(ctx context.Context, start, end *time.Time) ([]model.PurchaseRecord, error) {
	recs, err := s.purchases.Range(ctx, start, end, s.maxRange+1)
	if err != nil {
		return nil, err
	}
	if len(recs) > s.maxRange {
		return nil, apperr.Validation("range", fmt.Sprintf("matches more than %d records, narrow the dates", s.maxRange))
	}
	return recs, nil
}

// MaxRangeRecords reports the RangeQuery bound.
func (s *Service) MaxRangeRecords() int { return s.maxRange }
