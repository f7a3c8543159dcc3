package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	// Shopify Admin API access for the shop this instance manages.
	ShopDomain       string
	AdminToken       string
	ShopifyVersion   string
	ShopifyAPIKey    string
	ShopifyAPISecret string

	// Azure OpenAI deployment used for text generation.
	TextProvider    string
	AzureEndpoint   string
	AzureAPIKey     string
	AzureAPIVersion string
	AzureDeployment string

	// Optional Postgres for the bulk-run audit log.
	DatabaseURL string

	ProductPageSize int
	ImagePageSize   int
	BulkBatchSize   int
	BulkDelay       time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	AllowedOrigins   []string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Shopify credentials are required; everything else
// degrades (audit log off, session auth open in development).
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		ShopDomain:       os.Getenv("SHOPIFY_SHOP"),
		AdminToken:       os.Getenv("SHOPIFY_ADMIN_TOKEN"),
		ShopifyVersion:   getEnv("SHOPIFY_API_VERSION", "2024-10"),
		ShopifyAPIKey:    os.Getenv("SHOPIFY_API_KEY"),
		ShopifyAPISecret: os.Getenv("SHOPIFY_API_SECRET"),
		TextProvider:     getEnv("TEXT_PROVIDER", "azure"),
		AzureEndpoint:    os.Getenv("AZURE_OAI_ENDPOINT"),
		AzureAPIKey:      os.Getenv("AZURE_OAI_KEY"),
		AzureAPIVersion:  getEnv("AZURE_OAI_API_VERSION", "2024-02-01"),
		AzureDeployment:  os.Getenv("AZURE_OAI_DEPLOYMENT_NAME"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ProductPageSize:  getEnvInt("PRODUCT_PAGE_SIZE", 20),
		ImagePageSize:    getEnvInt("IMAGE_PAGE_SIZE", 30),
		BulkBatchSize:    getEnvInt("BULK_BATCH_SIZE", 10),
		BulkDelay:        time.Millisecond * time.Duration(getEnvInt("BULK_DELAY_MS", 100)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if cfg.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP is required")
	}
	if cfg.AdminToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ADMIN_TOKEN is required")
	}
	if cfg.BulkBatchSize <= 0 {
		cfg.BulkBatchSize = 10
	}
	if cfg.BulkDelay < 0 {
		cfg.BulkDelay = 0
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
