package model

import "time"

const UnknownCustomerName = "Unknown"

// ReportRow is the flat export shape of a purchase. Field order is part of the
// export contract.
type ReportRow struct {
	CustomerName string    `json:"customerName" db:"customer_name"`
	TotalAmount  float64   `json:"totalAmount" db:"total_amount"`
	PointsEarned int64     `json:"pointsEarned" db:"points_earned"`
	Date         time.Time `json:"date" db:"date"`
}

// ArchivedSale is a report row keyed by its purchase, as stored in the
// analytics archive.
type ArchivedSale struct {
	PurchaseID string `json:"purchaseId" db:"purchase_id"`
	CustomerID string `json:"customerId" db:"customer_id"`
	ReportRow
}
