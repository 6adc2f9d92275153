package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Database    DatabaseConfig
	Stripe      StripeConfig
	Printful    PrintfulConfig
	Checkout    CheckoutConfig
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

// StripeConfig is used to create checkout sessions and verify webhooks
type StripeConfig struct {
	SecretKey     string // STRIPE_SECRET_KEY
	WebhookSecret string // STRIPE_WEBHOOK_SECRET: verify Stripe-Signature on incoming webhooks
	BaseURL       string // override for tests; defaults to https://api.stripe.com
}

// PrintfulConfig is used to fetch authoritative variant prices and submit orders
type PrintfulConfig struct {
	APIKey  string // PRINTFUL_API_KEY
	BaseURL string // override for tests; defaults to https://api.printful.com
}

// CheckoutConfig holds server-controlled checkout behavior. SiteBaseURL is the
// only source of redirect targets; client-supplied origins are never used.
type CheckoutConfig struct {
	SiteBaseURL      string
	AllowedCountries []string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:          getEnvOrViper("DB_HOST", "localhost"),
			Port:          getEnvOrViper("DB_PORT", "5432"),
			User:          getEnvOrViper("DB_USER", "postgres"),
			Password:      getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:        getEnvOrViper("DB_NAME", "shop"),
			SSLMode:       getEnvOrViper("DB_SSLMODE", "disable"),
			MigrationsDir: getEnvOrViper("DB_MIGRATIONS_DIR", "migrations"),
		},
		Stripe: StripeConfig{
			SecretKey:     strings.TrimSpace(getEnvOrViper("STRIPE_SECRET_KEY", "")),
			WebhookSecret: strings.TrimSpace(getEnvOrViper("STRIPE_WEBHOOK_SECRET", "")),
			BaseURL:       strings.TrimSpace(getEnvOrViper("STRIPE_API_BASE_URL", "https://api.stripe.com")),
		},
		Printful: PrintfulConfig{
			APIKey:  strings.TrimSpace(getEnvOrViper("PRINTFUL_API_KEY", "")),
			BaseURL: strings.TrimSpace(getEnvOrViper("PRINTFUL_API_BASE_URL", "https://api.printful.com")),
		},
		Checkout: CheckoutConfig{
			SiteBaseURL:      strings.TrimRight(strings.TrimSpace(getEnvOrViper("SITE_BASE_URL", "")), "/"),
			AllowedCountries: splitCSV(getEnvOrViper("CHECKOUT_ALLOWED_COUNTRIES", "US,CA,GB,AU,NZ,DE,FR,NL")),
		},
	}

	// Validate required fields
	if cfg.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.Stripe.WebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}
	if cfg.Printful.APIKey == "" {
		return nil, fmt.Errorf("PRINTFUL_API_KEY is required")
	}
	if cfg.Checkout.SiteBaseURL == "" {
		return nil, fmt.Errorf("SITE_BASE_URL is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
