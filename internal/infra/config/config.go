// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Identity IdentityConfig `yaml:"identity"`
	Player   PlayerConfig   `yaml:"player"`
	Stripe   StripeConfig   `yaml:"stripe"`
}

// ServerConfig represents the payment daemon server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8080"`
}

// StorageConfig represents the persistence adapter configuration.
type StorageConfig struct {
	Driver string `yaml:"driver" default:"sqlite" validate:"oneof=sqlite memory"`
	Path   string `yaml:"path" default:"beatdeck.db"`
}

// IdentityConfig represents identity store configuration.
type IdentityConfig struct {
	RecentLimit  int `yaml:"recent_limit" default:"20" validate:"gte=1,lte=200"`
	LoginDelayMs int `yaml:"login_delay_ms" default:"1000" validate:"gte=0,lte=30000"`
}

// PlayerConfig represents playback store configuration.
type PlayerConfig struct {
	WaveformSamples int `yaml:"waveform_samples" default:"64" validate:"gte=8,lte=1024"`
}

// StripeConfig represents payment processor configuration.
type StripeConfig struct {
	PublishableKey string                `yaml:"publishable_key"`
	SecretKey      string                `yaml:"secret_key" validate:"required"`
	WebhookSecret  string                `yaml:"webhook_secret"`
	APIBaseURL     string                `yaml:"api_base_url" default:"https://api.stripe.com"`
	Plans          map[string]PlanConfig `yaml:"plans" validate:"omitempty,dive"`
}

// PlanConfig represents a single subscription plan.
// Settings carries processor-specific fields (amount, currency, interval)
// decoded by the payment service.
type PlanConfig struct {
	DisplayName string         `yaml:"display_name" validate:"required"`
	Settings    map[string]any `yaml:"settings" validate:"required"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		c.Stripe.SecretKey = v
	}
	if v := os.Getenv("STRIPE_PUBLISHABLE_KEY"); v != "" {
		c.Stripe.PublishableKey = v
	}
	if v := os.Getenv("STRIPE_WEBHOOK_SECRET"); v != "" {
		c.Stripe.WebhookSecret = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// HasPlan checks whether a plan id is configured.
func (c *Config) HasPlan(planID string) bool {
	_, ok := c.Stripe.Plans[planID]
	return ok
}
