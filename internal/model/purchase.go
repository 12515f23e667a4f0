package model

import "time"

// PurchaseRecord is one entry of the sales log. CustomerName is captured at
// write time and never re-joined.
type PurchaseRecord struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName,omitempty"`
	TotalAmount  float64   `json:"totalAmount"`
	PointsEarned int64     `json:"pointsEarned"`
	Date         time.Time `json:"date"`
}

// SalesPage is one cursor page of the sales log. NextCursor is empty once the
// log is exhausted.
type SalesPage struct {
	Records    []PurchaseRecord `json:"records"`
	NextCursor string           `json:"nextCursor,omitempty"`
}
