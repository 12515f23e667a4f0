package tier

import (
	"cmp"
	"context"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/apperr"
	"github.com/jmehdipour/loyalty-admin/internal/metrics"
	"github.com/jmehdipour/loyalty-admin/internal/model"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
	"github.com/jmehdipour/loyalty-admin/internal/util"
)

var colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Publisher delivers tier change events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev model.TierEvent) error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.TierEvent) error { return nil }

// Service is the tier directory: reads, validated writes and the
// delete guard against tiers still assigned to customers.
type Service struct {
	tiers     repository.TiersRepository
	customers repository.CustomersRepository
	publisher Publisher
	log       *zap.Logger
	now       func() time.Time
}

// New constructs the tier service. A nil publisher disables events.
func New(
	tiers repository.TiersRepository,
	customers repository.CustomersRepository,
	publisher Publisher,
	log *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		tiers:     tiers,
		customers: customers,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// ListAll returns every tier ordered by reward rate ascending, then id.
// Duplicate ids keep their first occurrence.
func (s *Service) ListAll(ctx context.Context) ([]model.MembershipTier, error) {
	raw, err := s.tiers.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]model.MembershipTier, 0, len(raw))
	for _, t := range raw {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}

	slices.SortStableFunc(out, func(a, b model.MembershipTier) int {
		if c := cmp.Compare(a.RewardRate, b.RewardRate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Lookup returns the tiers keyed by id. The map is built per call.
func (s *Service) Lookup(ctx context.Context) (map[string]model.MembershipTier, error) {
	raw, err := s.tiers.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]model.MembershipTier, len(raw))
	for _, t := range raw {
		if _, ok := m[t.ID]; !ok {
			m[t.ID] = t
		}
	}
	return m, nil
}

// Validate checks a tier before it is written.
func Validate(t model.MembershipTier) error {
	if strings.TrimSpace(t.Name) == "" {
		return apperr.Validation("name", "must not be empty")
	}
	if math.IsNaN(t.RewardRate) || t.RewardRate < 0 || t.RewardRate > 1 {
		return apperr.Validation("rewardRate", "must be within [0,1]")
	}
	if t.Color != "" && !colorRe.MatchString(t.Color) {
		return apperr.Validation("color", "must be #RRGGBB")
	}
	return nil
}

// Upsert creates the tier when ID is empty, otherwise overwrites the whole
// record at ID. An empty color becomes model.DefaultTierColor. It returns the
// stored tier.
func (s *Service) Upsert(ctx context.Context, t model.MembershipTier) (model.MembershipTier, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.ID = strings.TrimSpace(t.ID)
	if err := Validate(t); err != nil {
		return model.MembershipTier{}, err
	}
	if t.Color == "" {
		t.Color = model.DefaultTierColor
	}
	if t.ID == "" {
		t.ID = s.tiers.NewID()
	}

	if err := s.tiers.Put(ctx, t); err != nil {
		return model.MembershipTier{}, err
	}

	stored := t
	s.publish(ctx, model.TierEvent{Type: model.TierUpserted, TierID: t.ID, Tier: &stored})
	return t, nil
}

// Delete removes the tier unless customers still reference it. The count and
// the delete are not atomic; a customer assigned in between keeps a dangling
// id and renders with the unknown tier.
func (s *Service) Delete(ctx context.Context, tierID string) error {
	tierID = strings.TrimSpace(tierID)
	if tierID == "" {
		return apperr.Validation("id", "must not be empty")
	}

	n, err := s.customers.CountByTier(ctx, tierID)
	if err != nil {
		return err
	}
	if n > 0 {
		return &apperr.ConflictError{TierID: tierID, Count: n}
	}

	if err := s.tiers.Delete(ctx, tierID); err != nil {
		return err
	}

	s.publish(ctx, model.TierEvent{Type: model.TierDeleted, TierID: tierID})
	return nil
}

// publish is best effort: the operator write already succeeded.
func (s *Service) publish(ctx context.Context, ev model.TierEvent) {
	ev.ID = util.NewID()
	ev.OccurredAt = s.now().UTC()

	if err := s.publisher.Publish(ctx, ev); err != nil {
		metrics.TierEventsTotal.WithLabelValues(ev.Type.String(), "failed").Inc()
		s.log.Warn("tier event publish failed",
			zap.String("type", ev.Type.String()),
			zap.String("tier_id", ev.TierID),
			zap.Error(err),
		)
		return
	}
	metrics.TierEventsTotal.WithLabelValues(ev.Type.String(), "published").Inc()
}
