package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "firestore", cfg.Store.Driver)
	assert.Equal(t, "general", cfg.Store.SingletonID)
	assert.Equal(t, "MembershipTypes", cfg.Store.Collections.Tiers)
	assert.Equal(t, "Purchases", cfg.Store.Collections.Purchases)
	assert.Equal(t, 10, cfg.Dashboard.TopCustomers)
	assert.Equal(t, 10000, cfg.Sales.ExportMaxRecords)
	assert.Equal(t, time.Minute, cfg.Archiver.Interval)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
}

func TestLoadMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: memory\nhttp:\n  addr: \":9090\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	// untouched keys keep their defaults
	assert.Equal(t, "Customers", cfg.Store.Collections.Customers)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOYALTY_STORE_DRIVER", "memory")
	t.Setenv("LOYALTY_SALES_EXPORT_MAX_RECORDS", "50")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 50, cfg.Sales.ExportMaxRecords)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("LOYALTY_STORE_DRIVER", "postgres")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := cfg
	bad.Store.Collections.Purchases = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Store.SingletonID = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Sales.ExportMaxRecords = 0
	assert.Error(t, bad.Validate())
}
