package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tierrun/tier-go/tier"
)

// debugSelector matches the tier entry of a comma or space separated DEBUG list
var debugSelector = regexp.MustCompile(`\btier\b`)

// Load loads the configuration from file and environment. A missing config
// file is only an error when configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tier"))
		}

		// Check /etc
		v.AddConfigPath("/etc/tier/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if debugSelector.MatchString(v.GetString("debug_selector")) {
		cfg.Tier.Debug = true
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadClientConfig resolves a tier.Config from the environment alone
func LoadClientConfig() (tier.Config, error) {
	cfg, err := Load("")
	if err != nil {
		return tier.Config{}, err
	}
	return cfg.Client(), nil
}

// Client returns the settings consumed by tier.New
func (c *Config) Client() tier.Config {
	return tier.Config{
		BaseURL:  c.Tier.URL,
		APIToken: c.Tier.APIToken,
		Debug:    c.Tier.Debug,
	}
}

// RequestTimeout returns the configured transport timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Tier.Timeout) * time.Second
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Tier defaults
	v.SetDefault("tier.url", tier.DefaultBaseURL)
	v.SetDefault("tier.debug", false)
	v.SetDefault("tier.timeout", int(tier.DefaultTimeout/time.Second))

	v.SetDefault("output.format", "json")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// bindEnv maps the TIER_* variables onto config keys
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"tier.url":       "TIER_URL",
		"tier.api_token": "TIER_API_TOKEN",
		"debug_selector": "DEBUG",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}

	// TIER_DEBUG only enables debugging when set to exactly "1"
	if os.Getenv("TIER_DEBUG") == "1" {
		v.Set("tier.debug", true)
	}
	return nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Tier.URL == "" {
		return fmt.Errorf("tier.url is required")
	}

	if cfg.Tier.Timeout <= 0 {
		return fmt.Errorf("tier.timeout must be a positive number of seconds")
	}

	// Validate output format
	validOutputs := map[string]bool{
		"json": true,
		"yaml": true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
