// Package config loads application configuration from environment variables.
// All variables use the PUSTAK_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Analytics AnalyticsConfig
	Assets    AssetsConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// CatalogConfig holds catalog source settings.
type CatalogConfig struct {
	DataDir      string
	Offline      bool // build links for the school-server LAN deployment
	SubjectsPath string
	LabelsPath   string
}

// CacheConfig holds Redis snapshot-cache settings.
type CacheConfig struct {
	Enabled bool
	URL     string
}

// AnalyticsConfig holds browse-event logging settings.
type AnalyticsConfig struct {
	Enabled     bool
	DatabaseURL string
	MaxConns    int
	MinConns    int
}

// AssetsConfig holds logo/icon fetch settings.
type AssetsConfig struct {
	TimeoutSeconds int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with PUSTAK_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("PUSTAK_SERVER_PORT", 8080),
			Host: envStr("PUSTAK_SERVER_HOST", "0.0.0.0"),
		},
		Catalog: CatalogConfig{
			DataDir:      envStr("PUSTAK_DATA_DIR", "./data"),
			Offline:      envBool("PUSTAK_OFFLINE", false),
			SubjectsPath: envStr("PUSTAK_SUBJECTS_PATH", ""),
			LabelsPath:   envStr("PUSTAK_LABELS_PATH", ""),
		},
		Cache: CacheConfig{
			Enabled: envBool("PUSTAK_CACHE_ENABLED", false),
			URL:     envStr("PUSTAK_CACHE_URL", "redis://localhost:6379"),
		},
		Analytics: AnalyticsConfig{
			Enabled:     envBool("PUSTAK_ANALYTICS_ENABLED", false),
			DatabaseURL: envStr("PUSTAK_DATABASE_URL", ""),
			MaxConns:    envInt("PUSTAK_DATABASE_MAX_CONNS", 10),
			MinConns:    envInt("PUSTAK_DATABASE_MIN_CONNS", 2),
		},
		Assets: AssetsConfig{
			TimeoutSeconds: envInt("PUSTAK_ASSET_TIMEOUT", 10),
		},
		Log: LogConfig{
			Level:  envStr("PUSTAK_LOG_LEVEL", "info"),
			Format: envStr("PUSTAK_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Catalog.DataDir == "" {
		return fmt.Errorf("PUSTAK_DATA_DIR is required")
	}
	if c.Analytics.Enabled && c.Analytics.DatabaseURL == "" {
		return fmt.Errorf("PUSTAK_DATABASE_URL is required when analytics is enabled")
	}
	if c.Cache.Enabled && c.Cache.URL == "" {
		return fmt.Errorf("PUSTAK_CACHE_URL is required when the snapshot cache is enabled")
	}
	return nil
}

// ModeName returns the link-building mode selected by configuration.
func (c *Config) ModeName() string {
	if c.Catalog.Offline {
		return "offline"
	}
	return "online"
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
