// Package config reads the service settings from the environment.
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
	Port        string
	Env         string
	FrontendURL string
	LogLevel    string

	CacheTTL     time.Duration
	WhoisTimeout time.Duration
	DatabasePath string

	WhoisFreaksKey string
	WhoAPIKey      string
	WhoisFreaksURL string
	WhoAPIURL      string

	RateLimitWindow time.Duration
	RateLimitMax    int
}

// IsProduction hides internal error details from API responses when true.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadDotEnv loads .env files into the process environment. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Load builds the configuration from environment variables.
func Load() (*Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Port:           get("PORT", "3001"),
		Env:            get("APP_ENV", get("NODE_ENV", "development")),
		FrontendURL:    get("FRONTEND_URL", "http://localhost:5173"),
		LogLevel:       get("LOG_LEVEL", "info"),
		DatabasePath:   get("DATABASE_PATH", "data/history.db"),
		WhoisFreaksKey: get("WHOISFREAKS_API_KEY", ""),
		WhoAPIKey:      get("WHOAPI_KEY", ""),
		WhoisFreaksURL: get("WHOISFREAKS_URL", ""),
		WhoAPIURL:      get("WHOAPI_URL", ""),
	}

	var err error
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", get("CACHE_TTL", "1h")); err != nil {
		return nil, err
	}
	if cfg.WhoisTimeout, err = parseDuration("WHOIS_TIMEOUT", get("WHOIS_TIMEOUT", "15s")); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = parseDuration("RATE_LIMIT_WINDOW", get("RATE_LIMIT_WINDOW", "15m")); err != nil {
		return nil, err
	}

	maxReqs := get("RATE_LIMIT_MAX", "100")
	if cfg.RateLimitMax, err = strconv.Atoi(maxReqs); err != nil || cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX %q: must be a positive integer", maxReqs)
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("90s", "1h") and bare integers as seconds.
func parseDuration(key, value string) (time.Duration, error) {
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}
	return d, nil
}
