/**
 * @description
 * Configuration loader for the DealWise backend.
 * Reads environment variables, applies defaults and validates the database URL.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - standard "os": For reading env vars
 *
 * @notes
 * - Provider credential presence is computed once here and is read-only afterwards.
 * - The DATABASE_URL scheme selects the storage backend (mongo, postgres, memory).
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends selectable through the DATABASE_URL scheme
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Refresh   RefreshConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development", "staging", "production" or "test"
}

// DBConfig holds document store settings
type DBConfig struct {
	URL     string
	Name    string
	Backend string
}

// RedisConfig holds Redis settings. An empty URL disables Redis-backed features.
type RedisConfig struct {
	URL string
}

// ProvidersConfig holds merchant API credentials
type ProvidersConfig struct {
	AmazonAccessKey        string
	AmazonSecretKey        string
	AmazonPartnerTag       string
	FlipkartAffiliateID    string
	FlipkartAffiliateToken string
}

// AmazonConfigured reports whether the full Amazon credential set is present
func (p ProvidersConfig) AmazonConfigured() bool {
	return p.AmazonAccessKey != "" && p.AmazonSecretKey != "" && p.AmazonPartnerTag != ""
}

// FlipkartConfigured reports whether the full Flipkart credential set is present
func (p ProvidersConfig) FlipkartConfigured() bool {
	return p.FlipkartAffiliateID != "" && p.FlipkartAffiliateToken != ""
}

// RefreshConfig holds settings for the background price refresh
type RefreshConfig struct {
	IntervalSeconds int
	TopQueries      int
	Limit           int
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (containers inject env vars directly)
	_ = godotenv.Load()

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		dbURL = getEnv("MONGODB_URI", "")
	}
	if dbURL == "" {
		dbURL = "mongodb://localhost:27017"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("GO_ENV", "development"),
		},
		DB: DBConfig{
			URL:  dbURL,
			Name: getEnv("DATABASE_NAME", "dealwise"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Providers: ProvidersConfig{
			AmazonAccessKey:        sanitizeCredential(getEnv("AMAZON_ACCESS_KEY", "")),
			AmazonSecretKey:        sanitizeCredential(getEnv("AMAZON_SECRET_KEY", "")),
			AmazonPartnerTag:       sanitizeCredential(getEnv("AMAZON_PARTNER_TAG", "")),
			FlipkartAffiliateID:    sanitizeCredential(getEnv("FLIPKART_AFFILIATE_ID", "")),
			FlipkartAffiliateToken: sanitizeCredential(getEnv("FLIPKART_AFFILIATE_TOKEN", "")),
		},
		Refresh: RefreshConfig{
			IntervalSeconds: getEnvAsInt("REFRESH_INTERVAL_SECONDS", 900),
			TopQueries:      getEnvAsInt("REFRESH_TOP_QUERIES", 10),
			Limit:           getEnvAsInt("REFRESH_LIMIT", 5),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the database URL and resolves the backend
func validate(cfg *Config) error {
	backend, err := BackendFor(cfg.DB.URL)
	if err != nil {
		return err
	}
	cfg.DB.Backend = backend

	if cfg.DB.Name == "" {
		return fmt.Errorf("DATABASE_NAME must not be empty")
	}
	return nil
}

// BackendFor maps a database URL to a storage backend name
func BackendFor(url string) (string, error) {
	switch {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return BackendMongo, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return BackendPostgres, nil
	case strings.HasPrefix(url, "memory://"):
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme: %q", url)
	}
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func sanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Trim(trimmed, "\"")
}

// Helper to get env var as int
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
