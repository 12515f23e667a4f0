package repository

import "github.com/jmehdipour/loyalty-admin/internal/config"

// Stored field names. They match the documents written by the mobile app and
// the purchase processor, so they are not configurable.
const (
	fieldName              = "name"
	fieldTotalPoints       = "totalPointsBalance"
	fieldMembershipLevelID = "membershipLevelId"

	fieldRewardRate = "rewardRate"
	fieldColorHex   = "colorHex"

	fieldCustomerID   = "customerId"
	fieldCustomerName = "customerName"
	fieldTotalAmount  = "totalAmount"
	fieldPointsEarned = "pointsEarned"
	fieldDate         = "date"

	fieldTotalCustomers       = "totalCustomers"
	fieldTotalPointsLiability = "totalPointsLiability"
	fieldPointValue           = "pointValue"
	fieldEnableSMS            = "enableSms"
)

// Collections names the collections and singleton documents in the store.
type Collections struct {
	Customers     string
	Tiers         string
	Purchases     string
	Stats         string
	Configuration string
	SingletonID   string
}

func CollectionsFromConfig(c config.StoreConfig) Collections {
	return Collections{
		Customers:     c.Collections.Customers,
		Tiers:         c.Collections.Tiers,
		Purchases:     c.Collections.Purchases,
		Stats:         c.Collections.Stats,
		Configuration: c.Collections.Configuration,
		SingletonID:   c.SingletonID,
	}
}

// DefaultCollections mirrors the embedded config defaults.
func DefaultCollections() Collections {
	return Collections{
		Customers:     "Customers",
		Tiers:         "MembershipTypes",
		Purchases:     "Purchases",
		Stats:         "Stats",
		Configuration: "Configuration",
		SingletonID:   "general",
	}
}
