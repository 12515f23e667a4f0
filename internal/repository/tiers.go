package repository

import (
	"context"

	"github.com/jmehdipour/loyalty-admin/internal/apperr"
	"github.com/jmehdipour/loyalty-admin/internal/docstore"
	"github.com/jmehdipour/loyalty-admin/internal/model"
)

type TiersRepository interface {
	List(ctx context.Context) ([]model.MembershipTier, error)
	Put(ctx context.Context, tier model.MembershipTier) error
	Delete(ctx context.Context, id string) error
	NewID() string
}

type TiersRepositoryImpl struct {
	store      docstore.Store
	collection string
}

func NewTiersRepository(store docstore.Store, cols Collections) *TiersRepositoryImpl {
	return &TiersRepositoryImpl{store: store, collection: cols.Tiers}
}

var _ TiersRepository = (*TiersRepositoryImpl)(nil)

// List returns every tier in store order.
func (r *TiersRepositoryImpl) List(ctx context.Context) ([]model.MembershipTier, error) {
	docs, err := r.store.Query(ctx, r.collection, docstore.Query{})
	if err != nil {
		return nil, apperr.Store("tiers.list", err)
	}
	tiers := make([]model.MembershipTier, 0, len(docs))
	for _, d := range docs {
		tiers = append(tiers, tierFromDoc(d))
	}
	return tiers, nil
}

// Put overwrites the whole tier document at tier.ID.
func (r *TiersRepositoryImpl) Put(ctx context.Context, tier model.MembershipTier) error {
	err := r.store.Put(ctx, r.collection, tier.ID, map[string]any{
		fieldName:       tier.Name,
		fieldRewardRate: tier.RewardRate,
		fieldColorHex:   tier.Color,
	})
	return apperr.Store("tiers.put", err)
}

func (r *TiersRepositoryImpl) Delete(ctx context.Context, id string) error {
	return apperr.Store("tiers.delete", r.store.Delete(ctx, r.collection, id))
}

func (r *TiersRepositoryImpl) NewID() string { return r.store.NewID(r.collection) }

func tierFromDoc(d docstore.Document) model.MembershipTier {
	return model.MembershipTier{
		ID:         d.ID,
		Name:       d.String(fieldName),
		RewardRate: d.Float64(fieldRewardRate),
		Color:      d.String(fieldColorHex),
	}
}
