package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/loyalty-admin/internal/model"
)

// SalesReportTable is created by migrations/001_sales_report.sql.
const SalesReportTable = "sales_report"

// SalesArchiveRepository writes projected sales into ClickHouse. The table
// deduplicates on (date, purchase_id), so re-sending a batch is harmless.
type SalesArchiveRepository interface {
	InsertBatch(ctx context.Context, rows []model.ArchivedSale) error
}

type chSalesArchiveRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewSalesArchiveRepository(ch *sqlx.DB) SalesArchiveRepository {
	return &chSalesArchiveRepository{ch: ch}
}

// InsertBatch sends rows as one ClickHouse block: the driver buffers every
// Exec on the prepared statement and flushes on Commit.
func (r *chSalesArchiveRepository) InsertBatch(ctx context.Context, rows []model.ArchivedSale) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.ch.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO `+SalesReportTable+`
			(purchase_id, customer_id, customer_name, total_amount, points_earned, date)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			row.PurchaseID,
			row.CustomerID,
			row.CustomerName,
			row.TotalAmount,
			row.PointsEarned,
			row.Date,
		); err != nil {
			return fmt.Errorf("append %s: %w", row.PurchaseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
