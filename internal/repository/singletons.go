package repository

import (
	"context"
	"errors"

	"github.com/jmehdipour/loyalty-admin/internal/apperr"
	"github.com/jmehdipour/loyalty-admin/internal/docstore"
	"github.com/jmehdipour/loyalty-admin/internal/model"
)

// SingletonsRepository reads the precomputed stats document and the shared
// configuration document. Missing documents surface as docstore.ErrNotFound.
type SingletonsRepository interface {
	Stats(ctx context.Context) (model.AggregateStats, error)
	PointValue(ctx context.Context) (float64, error)
	Settings(ctx context.Context) (model.Settings, error)
	SetEnableSMS(ctx context.Context, enabled bool) error

	WatchStats(ctx context.Context, fn func(model.AggregateStats, bool) error) error
	WatchPointValue(ctx context.Context, fn func(float64, bool) error) error
}

type SingletonsRepositoryImpl struct {
	store docstore.Store
	cols  Collections
}

func NewSingletonsRepository(store docstore.Store, cols Collections) *SingletonsRepositoryImpl {
	return &SingletonsRepositoryImpl{store: store, cols: cols}
}

var _ SingletonsRepository = (*SingletonsRepositoryImpl)(nil)

func (r *SingletonsRepositoryImpl) get(ctx context.Context, op, collection string) (*docstore.Document, error) {
	doc, err := r.store.Get(ctx, collection, r.cols.SingletonID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	return doc, nil
}

func (r *SingletonsRepositoryImpl) Stats(ctx context.Context) (model.AggregateStats, error) {
	doc, err := r.get(ctx, "stats.get", r.cols.Stats)
	if err != nil {
		return model.AggregateStats{}, err
	}
	return statsFromDoc(*doc), nil
}

func (r *SingletonsRepositoryImpl) PointValue(ctx context.Context) (float64, error) {
	doc, err := r.get(ctx, "configuration.point_value", r.cols.Configuration)
	if err != nil {
		return 0, err
	}
	return doc.Float64(fieldPointValue), nil
}

// Settings returns the toggles; SMS confirmations default to on.
func (r *SingletonsRepositoryImpl) Settings(ctx context.Context) (model.Settings, error) {
	s := model.Settings{EnableSMS: true}
	doc, err := r.get(ctx, "configuration.settings", r.cols.Configuration)
	if errors.Is(err, docstore.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	if v, ok := doc.Bool(fieldEnableSMS); ok {
		s.EnableSMS = v
	}
	return s, nil
}

// SetEnableSMS merges the single toggle so pointValue is left untouched.
func (r *SingletonsRepositoryImpl) SetEnableSMS(ctx context.Context, enabled bool) error {
	err := r.store.Merge(ctx, r.cols.Configuration, r.cols.SingletonID, map[string]any{
		fieldEnableSMS: enabled,
	})
	return apperr.Store("configuration.set_enable_sms", err)
}

func (r *SingletonsRepositoryImpl) WatchStats(ctx context.Context, fn func(model.AggregateStats, bool) error) error {
	var fnErr error
	err := r.store.WatchDocument(ctx, r.cols.Stats, r.cols.SingletonID, func(doc *docstore.Document) error {
		if doc == nil {
			fnErr = fn(model.AggregateStats{}, false)
		} else {
			fnErr = fn(statsFromDoc(*doc), true)
		}
		return fnErr
	})
	return watchErr("stats.watch", err, fnErr)
}

func (r *SingletonsRepositoryImpl) WatchPointValue(ctx context.Context, fn func(float64, bool) error) error {
	var fnErr error
	err := r.store.WatchDocument(ctx, r.cols.Configuration, r.cols.SingletonID, func(doc *docstore.Document) error {
		if doc == nil {
			fnErr = fn(0, false)
		} else {
			fnErr = fn(doc.Float64(fieldPointValue), true)
		}
		return fnErr
	})
	return watchErr("configuration.watch", err, fnErr)
}

// watchErr passes handler errors through untouched and wraps listener failures.
func watchErr(op string, err, fnErr error) error {
	if err == nil || (fnErr != nil && errors.Is(err, fnErr)) {
		return err
	}
	return apperr.Store(op, err)
}

func statsFromDoc(d docstore.Document) model.AggregateStats {
	return model.AggregateStats{
		TotalCustomers:       d.Int64(fieldTotalCustomers),
		TotalPointsLiability: d.Int64(fieldTotalPointsLiability),
	}
}
