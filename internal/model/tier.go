package model

// MembershipTier is a named loyalty level with its reward rate and badge color.
type MembershipTier struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RewardRate float64 `json:"rewardRate"` // points per currency unit, within [0,1]
	Color      string  `json:"color"`      // #RRGGBB
}

const (
	UnknownTierName  = "N/A"
	UnknownTierColor = "#808080"

	// DefaultTierColor is given to tiers saved without a color.
	DefaultTierColor = "#3b82f6"
)

// UnknownTier is what a customer shows when its tier id does not resolve.
var UnknownTier = MembershipTier{Name: UnknownTierName, Color: UnknownTierColor}
