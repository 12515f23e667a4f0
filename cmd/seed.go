package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/app"
	"github.com/jmehdipour/loyalty-admin/internal/docstore"
	"github.com/jmehdipour/loyalty-admin/internal/logger"
	"github.com/jmehdipour/loyalty-admin/internal/model"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with demo tiers, customers and sales",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Store.Driver == "memory" {
			return fmt.Errorf("seeding the memory store is lost on exit; use serve --seed-demo")
		}

		// 2) connect store
		ctx := cmd.Context()
		deps, err := app.Open(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer deps.Close()

		logger.Log.Info("seeding demo data")
		if err := seedDemo(ctx, deps.Store, deps.Collections); err != nil {
			return err
		}
		logger.Log.Info("seed completed")
		return nil
	},
}

var demoTiers = []model.MembershipTier{
	{ID: "bronze", Name: "Bronze", RewardRate: 0.01, Color: "#cd7f32"},
	{ID: "silver", Name: "Silver", RewardRate: 0.02, Color: "#c0c0c0"},
	{ID: "gold", Name: "Gold", RewardRate: 0.05, Color: "#ffd700"},
}

var demoCustomers = []model.Customer{
	{ID: "c-ada", Name: "Ada Lovelace", TotalPointsBalance: 1200, MembershipLevelID: "gold"},
	{ID: "c-alan", Name: "Alan Turing", TotalPointsBalance: 800, MembershipLevelID: "silver"},
	{ID: "c-grace", Name: "Grace Hopper", TotalPointsBalance: 450, MembershipLevelID: "silver"},
	{ID: "c-edsger", Name: "Edsger Dijkstra", TotalPointsBalance: 150, MembershipLevelID: "bronze"},
	{ID: "c-barbara", Name: "Barbara Liskov", TotalPointsBalance: 90, MembershipLevelID: "bronze"},
}

// seedDemo writes a small deterministic data set. Purchase ids are fixed, so
// seeding twice overwrites instead of duplicating.
func seedDemo(ctx context.Context, store docstore.Store, cols repository.Collections) error {
	seeder := repository.NewSeeder(store, cols)

	for _, t := range demoTiers {
		if err := seeder.PutTier(ctx, t); err != nil {
			return fmt.Errorf("seed tier %q: %w", t.ID, err)
		}
	}

	var liability int64
	for _, c := range demoCustomers {
		if err := seeder.PutCustomer(ctx, c); err != nil {
			return fmt.Errorf("seed customer %q: %w", c.ID, err)
		}
		liability += c.TotalPointsBalance
	}

	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -30)
	for i := range 60 {
		c := demoCustomers[i%len(demoCustomers)]
		amount := float64(20 + (i*37)%180)
		p := model.PurchaseRecord{
			ID:           fmt.Sprintf("demo-%03d", i),
			CustomerID:   c.ID,
			CustomerName: c.Name,
			TotalAmount:  amount,
			PointsEarned: int64(amount / 10),
			Date:         start.Add(time.Duration(i) * 12 * time.Hour),
		}
		if err := seeder.PutPurchase(ctx, p); err != nil {
			return fmt.Errorf("seed purchase %q: %w", p.ID, err)
		}
	}

	if err := seeder.PutStats(ctx, model.AggregateStats{
		TotalCustomers:       int64(len(demoCustomers)),
		TotalPointsLiability: liability,
	}); err != nil {
		return fmt.Errorf("seed stats: %w", err)
	}
	if err := seeder.PutPointValue(ctx, 0.01); err != nil {
		return fmt.Errorf("seed point value: %w", err)
	}
	if err := repository.NewSingletonsRepository(store, cols).SetEnableSMS(ctx, true); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	logger.Log.Info("demo data written",
		zap.Int("tiers", len(demoTiers)),
		zap.Int("customers", len(demoCustomers)),
		zap.Int("purchases", 60),
	)
	return nil
}
