package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. It is loaded once at
// startup and injected into the components that need it; nothing reads the
// environment after LoadConfig returns.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	StripeSecretKey                  string `mapstructure:"STRIPE_SECRET_KEY"`
	StripePlanID                     string `mapstructure:"STRIPE_PLAN_ID"`
	StripeTaxRateID                  string `mapstructure:"STRIPE_TAX_RATE_ID"`
	StripeWebhookSecret              string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")

	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")
	viper.BindEnv("STRIPE_SECRET_KEY")
	viper.BindEnv("STRIPE_PLAN_ID")
	viper.BindEnv("STRIPE_TAX_RATE_ID")
	viper.BindEnv("STRIPE_WEBHOOK_SECRET")
	viper.BindEnv("CLIENT_URL")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripePlanID == "" {
		return nil, errors.New("STRIPE_PLAN_ID is required")
	}
	if cfg.StripeTaxRateID == "" {
		return nil, errors.New("STRIPE_TAX_RATE_ID is required")
	}
	// STRIPE_WEBHOOK_SECRET is optional: without it the webhook endpoints
	// accept unsigned payloads, matching the original deployment. Production
	// deployments should always set it.

	return &cfg, nil
}
