package model

// AggregateStats is the precomputed singleton kept by the aggregation process.
type AggregateStats struct {
	TotalCustomers       int64 `json:"totalCustomers"`
	TotalPointsLiability int64 `json:"totalPointsLiability"`
}

// Kpis is what the dashboard header renders.
type Kpis struct {
	TotalCustomers       int64   `json:"totalCustomers"`
	TotalPointsLiability int64   `json:"totalPointsLiability"`
	TotalLiabilityValue  float64 `json:"totalLiabilityValue"`
}
