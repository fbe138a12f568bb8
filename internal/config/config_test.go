// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "tax", cfg.Cart.ChargeModel)
	assert.Equal(t, 0.05, cfg.Cart.TaxRate)
	assert.Equal(t, 300, cfg.Search.MaxResults)
	assert.Equal(t, 24, cfg.Search.DefaultLimit)
	assert.Equal(t, 2*time.Hour, cfg.Cart.TTL())
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CART_CHARGE_MODEL", "deposit")
	t.Setenv("CART_TAX_RATE", "0.13")
	t.Setenv("RATE_LIMIT_ENABLED", "FALSE")
	t.Setenv("SEARCH_MAX_RESULTS", "not-a-number")
	t.Setenv("SERVER_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "deposit", cfg.Cart.ChargeModel)
	assert.Equal(t, 0.13, cfg.Cart.TaxRate)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 300, cfg.Search.MaxResults)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite"},
			Catalog:  CatalogConfig{Source: "products.json"},
			Search:   SearchConfig{MaxResults: 300, DefaultLimit: 24, MaxLimit: 100},
			Cart:     CartConfig{ChargeModel: "tax", TaxRate: 0.05},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported database driver"},
		{"production password", func(c *Config) {
			c.Environment = "production"
			c.Database.Driver = "postgres"
		}, "password is required"},
		{"charge model", func(c *Config) { c.Cart.ChargeModel = "vat" }, "unsupported cart charge model"},
		{"tax rate", func(c *Config) { c.Cart.TaxRate = -0.1 }, "must not be negative"},
		{"max results", func(c *Config) { c.Search.MaxResults = 0 }, "max results"},
		{"default limit", func(c *Config) { c.Search.DefaultLimit = 500 }, "default limit"},
		{"source", func(c *Config) { c.Catalog.Source = "" }, "catalog source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDSN(t *testing.T) {
	sqlite := DatabaseConfig{Driver: "sqlite", SQLitePath: "products.db"}
	assert.Equal(t, "products.db", sqlite.DSN())

	pg := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db",
		Port:     "5432",
		User:     "grocer",
		Password: "secret",
		Database: "grocery",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5432 user=grocer password=secret dbname=grocery sslmode=disable", pg.DSN())
}
