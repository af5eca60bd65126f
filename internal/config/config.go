package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the match service
type Config struct {
	Server    ServerConfig
	Catalogue CatalogueConfig
	Matcher   MatcherConfig
	Geocoder  GeocoderConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// CatalogueConfig holds job catalogue source configuration
type CatalogueConfig struct {
	Source      string
	LoadTimeout time.Duration
}

// MatcherConfig holds ranking configuration
type MatcherConfig struct {
	DefaultTopN int
	MaxTopN     int
	SkillsFile  string
}

// GeocoderConfig holds Nominatim client configuration
type GeocoderConfig struct {
	Enabled        bool
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
	MinDelay       time.Duration
	CacheDir       string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetStringEnv("SERVER_PORT", ":8080"),
		},
		Catalogue: CatalogueConfig{
			Source:      GetStringEnv("CATALOGUE_SOURCE", "jobs.csv"),
			LoadTimeout: GetDurationEnv("CATALOGUE_LOAD_TIMEOUT", 30*time.Second),
		},
		Matcher: MatcherConfig{
			DefaultTopN: GetIntEnv("MATCHER_DEFAULT_TOP_N", 5),
			MaxTopN:     GetIntEnv("MATCHER_MAX_TOP_N", 50),
			SkillsFile:  GetStringEnv("SKILLS_FILE", ""),
		},
		Geocoder: GeocoderConfig{
			Enabled:        GetBoolEnv("GEOCODER_ENABLED", true),
			BaseURL:        GetStringEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org/search"),
			UserAgent:      GetStringEnv("GEOCODER_USER_AGENT", "JobMatch-Engine/1.0"),
			RequestTimeout: GetDurationEnv("GEOCODER_REQUEST_TIMEOUT", 10*time.Second),
			MinDelay:       GetDurationEnv("GEOCODER_MIN_DELAY", 1*time.Second),
			CacheDir:       GetStringEnv("GEOCODER_CACHE_DIR", "./geocache"),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
