package report

import (
	"strings"

	"github.com/jmehdipour/loyalty-admin/internal/model"
)

// Project flattens purchase records into export rows, preserving order.
// A record without a customer name gets model.UnknownCustomerName; amounts,
// points and date pass through as stored.
func Project(records []model.PurchaseRecord) []model.ReportRow {
	rows := make([]model.ReportRow, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.CustomerName)
		if name == "" {
			name = model.UnknownCustomerName
		}
		rows = append(rows, model.ReportRow{
			CustomerName: name,
			TotalAmount:  r.TotalAmount,
			PointsEarned: r.PointsEarned,
			Date:         r.Date,
		})
	}
	return rows
}

// Archive projects records for the analytics archive, keeping the purchase
// and customer ids next to each row.
func Archive(records []model.PurchaseRecord) []model.ArchivedSale {
	rows := Project(records)
	out := make([]model.ArchivedSale, 0, len(rows))
	for i, r := range records {
		rows[i].Date = rows[i].Date.UTC() // archive columns are UTC
		out = append(out, model.ArchivedSale{
			PurchaseID: r.ID,
			CustomerID: r.CustomerID,
			ReportRow:  rows[i],
		})
	}
	return out
}
