package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/app"
	"github.com/jmehdipour/loyalty-admin/internal/logger"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
	"github.com/jmehdipour/loyalty-admin/internal/service/report"
	"github.com/jmehdipour/loyalty-admin/internal/service/sales"
	"github.com/jmehdipour/loyalty-admin/internal/util"
)

var exportFlags struct {
	start string
	end   string
	sink  string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a date range of sales as report rows",
	Long: `Reads the sales log between --start and --end (RFC3339 or YYYY-MM-DD,
both inclusive) and writes one JSON report row per line to stdout, or
inserts the rows into the ClickHouse archive with --sink=clickhouse.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := util.ParseBound(exportFlags.start, false)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		end, err := util.ParseBound(exportFlags.end, true)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		if exportFlags.sink != "stdout" && exportFlags.sink != "clickhouse" {
			return fmt.Errorf("unknown --sink %q (stdout | clickhouse)", exportFlags.sink)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		deps, err := app.Open(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer deps.Close()

		svc := sales.New(repository.NewPurchasesRepository(deps.Store, deps.Collections), cfg.Sales.ExportMaxRecords)
		recs, err := svc.RangeQuery(ctx, start, end)
		if err != nil {
			return err
		}

		if exportFlags.sink == "stdout" {
			enc := json.NewEncoder(os.Stdout)
			for _, row := range report.Project(recs) {
				if err := enc.Encode(row); err != nil {
					return fmt.Errorf("write row: %w", err)
				}
			}
			return nil
		}

		chDB, err := app.ClickHouse(ctx, cfg.ClickHouse)
		if err != nil {
			return fmt.Errorf("clickhouse connect: %w", err)
		}
		defer func() { _ = chDB.Close() }()

		if err := repository.NewSalesArchiveRepository(chDB).InsertBatch(ctx, report.Archive(recs)); err != nil {
			return err
		}
		logger.Log.Info("sales exported to clickhouse", zap.Int("rows", len(recs)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.start, "start", "", "first day or instant to include")
	exportCmd.Flags().StringVar(&exportFlags.end, "end", "", "last day or instant to include")
	exportCmd.Flags().StringVar(&exportFlags.sink, "sink", "stdout", "stdout | clickhouse")
}
