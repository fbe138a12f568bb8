// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Catalog     CatalogConfig
	Search      SearchConfig
	Cart        CartConfig
	AWS         AWSConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	StaticDir      string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Enabled      bool
	Driver       string // sqlite or postgres
	SQLitePath   string
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type CatalogConfig struct {
	// Source is a local path, an http(s) URL or an s3://bucket/key location.
	Source            string
	LoadTimeout       int // in seconds
	SearchURLTemplate string
	ItemURLTemplate   string
}

type SearchConfig struct {
	MaxResults    int
	DefaultLimit  int
	MaxLimit      int
	ScoringConfig string
}

type CartConfig struct {
	ChargeModel string
	TaxRate     float64
	SessionTTL  int // in minutes
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	Endpoint        string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:    getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:    getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			StaticDir:      getEnv("SERVER_STATIC_DIR", ""),
			AllowedOrigins: getEnvAsList("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", true),
			Driver:       getEnv("DB_DRIVER", "sqlite"),
			SQLitePath:   getEnv("DB_SQLITE_PATH", "products.db"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "grocery"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		Catalog: CatalogConfig{
			Source:            getEnv("CATALOG_SOURCE", "data/products.json"),
			LoadTimeout:       getEnvAsInt("CATALOG_LOAD_TIMEOUT", 30),
			SearchURLTemplate: getEnv("CATALOG_SEARCH_URL_TEMPLATE", "https://www.walmart.ca/en/search?q=%s"),
			ItemURLTemplate:   getEnv("CATALOG_ITEM_URL_TEMPLATE", "https://www.walmart.ca/en/ip/%s"),
		},
		Search: SearchConfig{
			MaxResults:    getEnvAsInt("SEARCH_MAX_RESULTS", 300),
			DefaultLimit:  getEnvAsInt("SEARCH_DEFAULT_LIMIT", 24),
			MaxLimit:      getEnvAsInt("SEARCH_MAX_LIMIT", 100),
			ScoringConfig: getEnv("SEARCH_SCORING_CONFIG", ""),
		},
		Cart: CartConfig{
			ChargeModel: getEnv("CART_CHARGE_MODEL", "tax"),
			TaxRate:     getEnvAsFloat("CART_TAX_RATE", 0.05),
			SessionTTL:  getEnvAsInt("CART_SESSION_TTL", 120), // 2 hours
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", ""),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RPS:     getEnvAsFloat("RATE_LIMIT_RPS", 20),
			Burst:   getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", ""),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Database.Driver == "postgres" && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	switch c.Cart.ChargeModel {
	case "tax", "deposit":
	default:
		return fmt.Errorf("unsupported cart charge model %q", c.Cart.ChargeModel)
	}

	if c.Cart.TaxRate < 0 {
		return fmt.Errorf("cart tax rate must not be negative")
	}

	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search max results must be positive")
	}

	if c.Search.DefaultLimit <= 0 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search default limit must be within [1,%d]", c.Search.MaxLimit)
	}

	if c.Catalog.Source == "" {
		return fmt.Errorf("catalog source is required")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.LoadTimeout) * time.Second
}

func (c *CartConfig) TTL() time.Duration {
	return time.Duration(c.SessionTTL) * time.Minute
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
