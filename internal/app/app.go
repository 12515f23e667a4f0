// Package app opens the backing clients shared by the serve, seed, export and
// worker commands.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/config"
	"github.com/jmehdipour/loyalty-admin/internal/db"
	"github.com/jmehdipour/loyalty-admin/internal/docstore"
	"github.com/jmehdipour/loyalty-admin/internal/logger"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
)

// Deps is the opened document store plus the Firebase app behind it, if any.
type Deps struct {
	Store       docstore.Store
	Collections repository.Collections
	Firebase    *db.Firebase // nil for the memory driver unless auth needs it
}

// Open connects the configured store. Firebase is opened for the firestore
// driver and whenever withAuth is set and auth is enabled.
func Open(ctx context.Context, cfg config.Config, withAuth bool) (*Deps, error) {
	d := &Deps{Collections: repository.CollectionsFromConfig(cfg.Store)}

	needFirebase := cfg.Store.Driver == "firestore" || (withAuth && !cfg.Auth.Disabled)
	if needFirebase {
		fb, err := db.NewFirebase(ctx, db.FirebaseOpts{
			ProjectID:   cfg.Store.ProjectID,
			Credentials: cfg.Store.Credentials,
		})
		if err != nil {
			return nil, fmt.Errorf("firebase: %w", err)
		}
		d.Firebase = fb
	}

	var store docstore.Store
	switch cfg.Store.Driver {
	case "firestore":
		store = docstore.NewFirestore(d.Firebase.Firestore)
	case "memory":
		store = docstore.NewMemory()
		logger.Log.Warn("using in-memory store; data is lost on exit")
	default:
		d.Close()
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	d.Store = docstore.WithMetrics(store)

	logger.Log.Info("store opened",
		zap.String("driver", cfg.Store.Driver),
		zap.Bool("firebase", d.Firebase != nil),
	)
	return d, nil
}

func (d *Deps) Close() {
	if d.Firebase != nil {
		_ = d.Firebase.Close()
	}
}

// ClickHouse opens the analytics archive connection.
func ClickHouse(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	return db.NewClickHouseConnection(ctx, db.ClickHouseOpts{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		PingTimeout:     cfg.PingTimeout,
	})
}

// Redis opens the configured client, or returns nil when no address is set.
func Redis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	return db.NewRedisClient(ctx, db.RedisOpts{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
}
