package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Kroger   KrogerConfig
	SerpAPI  SerpAPIConfig
	Cache    CacheConfig
	Matching MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// KrogerConfig holds Kroger catalog API configuration
type KrogerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	BaseURL      string `mapstructure:"base_url"`
}

// SerpAPIConfig holds the Walmart-via-SerpAPI configuration
type SerpAPIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds ranked-result cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds matching engine configuration
type MatchingConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Optional .env file for local development; real env vars win
	_ = godotenv.Load()

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/smartcart/")

	// Environment variable settings
	v.SetEnvPrefix("SMARTCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Source defaults. Credential keys default to empty so the env
	// bindings are registered for Unmarshal.
	v.SetDefault("kroger.enabled", true)
	v.SetDefault("kroger.client_id", "")
	v.SetDefault("kroger.client_secret", "")
	v.SetDefault("kroger.base_url", "https://api-ce.kroger.com")
	v.SetDefault("serpapi.enabled", true)
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Matching defaults
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if !config.Kroger.Enabled && !config.SerpAPI.Enabled {
		return fmt.Errorf("at least one product source must be enabled")
	}

	if config.Kroger.Enabled && (config.Kroger.ClientID == "" || config.Kroger.ClientSecret == "") {
		return fmt.Errorf("Kroger credentials are required (set SMARTCART_KROGER_CLIENT_ID and SMARTCART_KROGER_CLIENT_SECRET)")
	}

	if config.SerpAPI.Enabled && config.SerpAPI.APIKey == "" {
		return fmt.Errorf("SerpAPI key is required (set SMARTCART_SERPAPI_API_KEY)")
	}

	return nil
}
