package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/app"
	httpSrv "github.com/jmehdipour/loyalty-admin/internal/http"
	"github.com/jmehdipour/loyalty-admin/internal/kafka"
	"github.com/jmehdipour/loyalty-admin/internal/logger"
	"github.com/jmehdipour/loyalty-admin/internal/metrics"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
	"github.com/jmehdipour/loyalty-admin/internal/service/kpi"
	"github.com/jmehdipour/loyalty-admin/internal/service/ranking"
	"github.com/jmehdipour/loyalty-admin/internal/service/sales"
	"github.com/jmehdipour/loyalty-admin/internal/service/settings"
	"github.com/jmehdipour/loyalty-admin/internal/service/tier"
)

var seedDemoOnServe bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logger.Log
		ctx := context.Background()

		metrics.MustRegister(prometheus.DefaultRegisterer)

		deps, err := app.Open(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer deps.Close()

		if seedDemoOnServe {
			if cfg.Store.Driver != "memory" {
				return fmt.Errorf("--seed-demo only works with the memory store")
			}
			if err := seedDemo(ctx, deps.Store, deps.Collections); err != nil {
				return err
			}
		}

		redisClient, err := app.Redis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		if redisClient != nil {
			defer func() { _ = redisClient.Close() }()
		} else {
			log.Warn("redis.addr is empty; rate limiting disabled")
		}

		var publisher tier.Publisher = tier.NopPublisher{}
		if len(cfg.Kafka.Brokers) > 0 {
			producer := kafka.NewProducerFromConfig(kafka.Config{
				Brokers:      cfg.Kafka.Brokers,
				Topic:        cfg.Kafka.TierTopic,
				WriteTimeout: cfg.Kafka.WriteTimeout,
			})
			defer func() { _ = producer.Close() }()
			publisher = kafka.NewTierPublisher(producer)
		}

		// repositories
		tiersRepo := repository.NewTiersRepository(deps.Store, deps.Collections)
		customersRepo := repository.NewCustomersRepository(deps.Store, deps.Collections)
		purchasesRepo := repository.NewPurchasesRepository(deps.Store, deps.Collections)
		singletonsRepo := repository.NewSingletonsRepository(deps.Store, deps.Collections)

		// services
		tierSvc := tier.New(tiersRepo, customersRepo, publisher, log)
		svc := httpSrv.Services{
			Tiers:    tierSvc,
			Kpis:     kpi.New(singletonsRepo, log),
			Ranking:  ranking.New(customersRepo, tierSvc, log),
			Sales:    sales.New(purchasesRepo, cfg.Sales.ExportMaxRecords),
			Settings: settings.New(singletonsRepo, log),
		}

		opts := httpSrv.Options{
			Redis:         redisClient,
			RateLimitRPS:  cfg.RateLimit.RPS,
			TopCustomers:  cfg.Dashboard.TopCustomers,
			SalesPageSize: cfg.Dashboard.SalesPageSize,
		}
		if cfg.Auth.Disabled {
			log.Warn("auth disabled; every request runs as the local operator")
		} else {
			opts.Verifier = deps.Firebase.Auth
		}

		server := httpSrv.NewServer(svc, opts)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server exited", zap.Error(err))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)

		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&seedDemoOnServe, "seed-demo", false, "load demo data into the memory store before serving")
}
