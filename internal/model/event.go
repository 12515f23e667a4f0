package model

import "time"

type TierEventType string

const (
	TierUpserted TierEventType = "tier.upserted"
	TierDeleted  TierEventType = "tier.deleted"
)

func (t TierEventType) String() string { return string(t) }

// TierEvent is published after an operator changes a tier, so the purchase
// processor can pick up new reward rates.
type TierEvent struct {
	ID         string          `json:"id"` // event ULID
	Type       TierEventType   `json:"type"`
	TierID     string          `json:"tier_id"`
	Tier       *MembershipTier `json:"tier,omitempty"` // nil for deletes
	OccurredAt time.Time       `json:"occurred_at"`
}
