package model

// Customer is a loyalty member as stored; balances are maintained upstream.
type Customer struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	TotalPointsBalance int64  `json:"totalPointsBalance"`
	MembershipLevelID  string `json:"membershipLevelId"`
}

// EnrichedCustomer is a Customer joined with its tier display attributes.
type EnrichedCustomer struct {
	Customer
	MembershipLevelName  string `json:"membershipLevelName"`
	MembershipLevelColor string `json:"membershipLevelColor"`
}
