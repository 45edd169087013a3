// Package config loads skillshop settings from the config file, a .env file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SKILLSHOP_"

// Config holds the application configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Hooks    HooksConfig    `yaml:"hooks"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// APIConfig points the client at the marketplace backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CheckoutConfig controls the simulated payment.
type CheckoutConfig struct {
	PaymentDelay time.Duration `yaml:"payment_delay"`
	Currency     string        `yaml:"currency"`
}

// CatalogConfig controls catalog listings.
type CatalogConfig struct {
	PageSize int `yaml:"page_size"`
}

// HooksConfig holds shell commands run after marketplace events.
type HooksConfig struct {
	// PostCheckout commands are templates rendered with HookTemplateData.
	PostCheckout []string `yaml:"post_checkout"`
}

// HookTemplateData defines the fields available to post_checkout templates.
type HookTemplateData struct {
	OrderID          string
	ConfirmationCode string
	Email            string
	Currency         string
	Subtotal         float64
	Tax              float64
	Total            float64
	Courses          []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api/v1",
			Timeout: 15 * time.Second,
		},
		Checkout: CheckoutConfig{
			PaymentDelay: 2 * time.Second,
			Currency:     "USD",
		},
		Catalog: CatalogConfig{
			PageSize: 12,
		},
		Hooks: HooksConfig{
			PostCheckout: []string{},
		},
	}
}

// LoadEnvFiles loads KEY=VALUE pairs from the given .env files into the process
// environment. Missing files are skipped and variables already set win.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, defaults are used. Environment
// overrides are applied last.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}
	cfg.DataDir = dataDir

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides file values with SKILLSHOP_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "API_BASE_URL"); ok && v != "" {
		c.API.BaseURL = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"API_TIMEOUT", &c.API.Timeout},
		{"CHECKOUT_PAYMENT_DELAY", &c.Checkout.PaymentDelay},
	}
	for _, d := range durations {
		v, ok := lookup(EnvPrefix + d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := lookup(EnvPrefix + "CHECKOUT_CURRENCY"); ok && v != "" {
		c.Checkout.Currency = v
	}

	if v, ok := lookup(EnvPrefix + "CATALOG_PAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCATALOG_PAGE_SIZE: %w", EnvPrefix, err)
		}
		c.Catalog.PageSize = n
	}

	return nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.Checkout.Currency == "" {
		c.Checkout.Currency = defaults.Checkout.Currency
	}
	if c.Catalog.PageSize == 0 {
		c.Catalog.PageSize = defaults.Catalog.PageSize
	}
}

// StateFile returns the path to the durable client state file.
func (c *Config) StateFile() string {
	return filepath.Join(c.DataDir, "state.json")
}
