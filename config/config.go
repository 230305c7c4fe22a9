package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"weatherboard.app/errors"
)

// Config represents the application configuration structure
type Config struct {
	Server    ServerConfig    `split_words:"true"`
	Database  DatabaseConfig  `split_words:"true"`
	Weather   WeatherConfig   `split_words:"true"`
	Cache     CacheConfig     `split_words:"true"`
	Cookie    CookieConfig    `split_words:"true"`
	Refresher RefresherConfig `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"weatherboard"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// GetDSN returns a formatted database connection string
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// WeatherConfig contains settings for the OpenWeather provider
type WeatherConfig struct {
	APIKey             string `envconfig:"OPENWEATHER_API_KEY" required:"true"`
	BaseURL            string `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org/data/2.5"`
	GeoBaseURL         string `envconfig:"OPENWEATHER_GEO_BASE_URL" default:"https://api.openweathermap.org/geo/1.0"`
	OneCallBaseURL     string `envconfig:"OPENWEATHER_ONECALL_BASE_URL" default:"https://api.openweathermap.org/data/3.0"`
	TimeoutSeconds     int    `envconfig:"OPENWEATHER_TIMEOUT_SECONDS" default:"10"`
	CurrentTTLMinutes  int    `envconfig:"CACHE_TTL_MINUTES" default:"10"`
	ForecastTTLMinutes int    `envconfig:"FORECAST_CACHE_TTL_MINUTES" default:"30"`
}

// CacheConfig selects the weather cache backend
type CacheConfig struct {
	Type          string `envconfig:"CACHE_TYPE" default:"database"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// CookieConfig contains visitor identity cookie settings
type CookieConfig struct {
	Name   string `envconfig:"VISITOR_COOKIE_NAME" default:"prefId"`
	MaxAge int    `envconfig:"VISITOR_COOKIE_MAX_AGE" default:"31536000"`
	Secure bool   `envconfig:"VISITOR_COOKIE_SECURE" default:"false"`
}

// RefresherConfig contains settings for the background cache pre-warmer
type RefresherConfig struct {
	Enabled         bool `envconfig:"REFRESHER_ENABLED" default:"true"`
	IntervalMinutes int  `envconfig:"REFRESHER_INTERVAL" default:"10"`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Cookie.Validate(); err != nil {
		return err
	}
	if err := c.Refresher.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// ValidateSSLMode validates the SSL mode configuration
func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

// Validate checks database configuration
func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > 65535 {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	if err := d.ValidateSSLMode(); err != nil {
		return err
	}
	return nil
}

// Validate checks weather provider configuration
func (w *WeatherConfig) Validate() error {
	if w.APIKey == "" {
		return errors.NewConfigurationError("OPENWEATHER_API_KEY is required", nil)
	}
	for name, url := range map[string]string{
		"OPENWEATHER_BASE_URL":         w.BaseURL,
		"OPENWEATHER_GEO_BASE_URL":     w.GeoBaseURL,
		"OPENWEATHER_ONECALL_BASE_URL": w.OneCallBaseURL,
	} {
		if url == "" {
			return errors.NewConfigurationError(fmt.Sprintf("%s cannot be empty", name), nil)
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return errors.NewConfigurationError(fmt.Sprintf("%s must start with http:// or https://", name), nil)
		}
	}
	if w.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("OPENWEATHER_TIMEOUT_SECONDS must be at least 1", nil)
	}
	if w.CurrentTTLMinutes < 1 {
		return errors.NewConfigurationError("CACHE_TTL_MINUTES must be at least 1 minute", nil)
	}
	if w.ForecastTTLMinutes < 1 {
		return errors.NewConfigurationError("FORECAST_CACHE_TTL_MINUTES must be at least 1 minute", nil)
	}
	return nil
}

// Validate checks cache backend configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "database", "memory", "redis":
	default:
		return errors.NewConfigurationError("CACHE_TYPE must be one of: database, memory, redis", nil)
	}
	if c.Type == "redis" && c.RedisAddr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when CACHE_TYPE is redis", nil)
	}
	return nil
}

// Validate checks visitor cookie configuration
func (c *CookieConfig) Validate() error {
	if c.Name == "" {
		return errors.NewConfigurationError("VISITOR_COOKIE_NAME cannot be empty", nil)
	}
	if c.MaxAge < 1 {
		return errors.NewConfigurationError("VISITOR_COOKIE_MAX_AGE must be at least 1 second", nil)
	}
	return nil
}

// Validate checks refresher configuration
func (r *RefresherConfig) Validate() error {
	if r.IntervalMinutes < 1 {
		return errors.NewConfigurationError("REFRESHER_INTERVAL must be at least 1 minute", nil)
	}
	if r.IntervalMinutes > 1440 {
		return errors.NewConfigurationError("REFRESHER_INTERVAL cannot exceed 1440 minutes (24 hours)", nil)
	}
	return nil
}
