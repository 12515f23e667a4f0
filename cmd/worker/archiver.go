package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/app"
	"github.com/jmehdipour/loyalty-admin/internal/config"
	"github.com/jmehdipour/loyalty-admin/internal/logger"
	"github.com/jmehdipour/loyalty-admin/internal/metrics"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
	"github.com/jmehdipour/loyalty-admin/internal/worker"
)

var archiverOnce bool

var archiverCmd = &cobra.Command{
	Use:   "archiver",
	Short: "Copy new sales into the ClickHouse archive",
	RunE:  runArchiver,
}

func init() {
	archiverCmd.Flags().BoolVar(&archiverOnce, "once", false, "drain the backlog and exit")
}

func runArchiver(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Encoding)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3) source store
	deps, err := app.Open(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer deps.Close()

	// 4) checkpoint (Redis) and sink (ClickHouse)
	rdb, err := app.Redis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	if rdb == nil {
		return fmt.Errorf("archiver needs redis.addr for its checkpoint")
	}
	defer func() { _ = rdb.Close() }()

	chDB, err := app.ClickHouse(ctx, cfg.ClickHouse)
	if err != nil {
		return fmt.Errorf("clickhouse connect: %w", err)
	}
	defer func() { _ = chDB.Close() }()

	a := worker.NewArchiver(
		repository.NewPurchasesRepository(deps.Store, deps.Collections),
		repository.NewSalesArchiveRepository(chDB),
		worker.NewRedisCheckpoint(rdb, cfg.Archiver.CheckpointKey),
		log,
	)
	if cfg.Archiver.Interval > 0 {
		a.Interval = cfg.Archiver.Interval
	}
	if cfg.Archiver.BatchSize > 0 {
		a.BatchSize = cfg.Archiver.BatchSize
	}

	if archiverOnce {
		n, err := a.Drain(ctx)
		log.Info("archiver drained", zap.Int("rows", n), zap.Error(err))
		return err
	}

	log.Info("archiver started",
		zap.Duration("interval", a.Interval),
		zap.Int("batch_size", a.BatchSize),
		zap.String("checkpoint_key", cfg.Archiver.CheckpointKey),
	)
	return a.Run(ctx)
}
