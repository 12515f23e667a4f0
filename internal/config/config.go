package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	App        AppConfig       `mapstructure:"app"`
	Log        LogConfig       `mapstructure:"log"`
	HTTP       HTTPConfig      `mapstructure:"http"`
	Store      StoreConfig     `mapstructure:"store"`
	Auth       AuthConfig      `mapstructure:"auth"`
	Redis      RedisConfig     `mapstructure:"redis"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Dashboard  DashboardConfig `mapstructure:"dashboard"`
	Sales      SalesConfig     `mapstructure:"sales"`
	Archiver   ArchiverConfig  `mapstructure:"archiver"`
}

// ---- Leaf structs ----

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	Driver      string            `mapstructure:"driver"` // firestore | memory
	ProjectID   string            `mapstructure:"project_id"`
	Credentials string            `mapstructure:"credentials"`
	Collections CollectionsConfig `mapstructure:"collections"`
	SingletonID string            `mapstructure:"singleton_id"`
}

type CollectionsConfig struct {
	Customers     string `mapstructure:"customers"`
	Tiers         string `mapstructure:"tiers"`
	Purchases     string `mapstructure:"purchases"`
	Stats         string `mapstructure:"stats"`
	Configuration string `mapstructure:"configuration"`
}

type AuthConfig struct {
	Disabled bool `mapstructure:"disabled"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	TierTopic    string        `mapstructure:"tier_topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DashboardConfig struct {
	TopCustomers  int `mapstructure:"top_customers"`
	SalesPageSize int `mapstructure:"sales_page_size"`
}

type SalesConfig struct {
	ExportMaxRecords int `mapstructure:"export_max_records"`
}

type ArchiverConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	BatchSize     int           `mapstructure:"batch_size"`
	CheckpointKey string        `mapstructure:"checkpoint_key"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (LOYALTY_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (LOYALTY_STORE_DRIVER, LOYALTY_HTTP_ADDR, ...)
	v.SetEnvPrefix("LOYALTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the services cannot run with.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "firestore", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.SingletonID == "" {
		return fmt.Errorf("store.singleton_id must not be empty")
	}
	cols := c.Store.Collections
	if cols.Customers == "" || cols.Tiers == "" || cols.Purchases == "" || cols.Stats == "" || cols.Configuration == "" {
		return fmt.Errorf("store.collections: every collection name must be set")
	}
	if c.Sales.ExportMaxRecords <= 0 {
		return fmt.Errorf("invalid sales.export_max_records: %d", c.Sales.ExportMaxRecords)
	}
	return nil
}
