package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Catalog    CatalogConfig
	Session    SessionConfig
	Ranking    RankingConfig
	Logging    LoggingConfig
	Wit        WitConfig
	Gemini     GeminiConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// CatalogConfig holds catalog listing configuration
type CatalogConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// SessionConfig bounds the in-memory conversation store.
type SessionConfig struct {
	MaxSessions   int
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// RankingConfig holds ranking weights for product listings
type RankingConfig struct {
	WeightPrice   float64
	WeightRecency float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// WitConfig holds the external intent classifier configuration
type WitConfig struct {
	AccessToken string
	APIBase     string
	APIVersion  string
	Timeout     time.Duration
	Enabled     bool
}

// GeminiConfig holds the generative text service configuration
type GeminiConfig struct {
	APIKey         string
	APIBase        string
	Model          string
	EmbeddingModel string
	Timeout        time.Duration
	Enabled        bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "phone_store"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 3000),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Catalog: CatalogConfig{
			DefaultLimit: getEnvAsInt("CATALOG_DEFAULT_LIMIT", 10),
			MaxLimit:     getEnvAsInt("CATALOG_MAX_LIMIT", 100),
		},
		Session: SessionConfig{
			MaxSessions:   getEnvAsInt("SESSION_MAX_SESSIONS", 10000),
			IdleTTL:       getEnvAsDuration("SESSION_IDLE_TTL", 2*time.Hour),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		},
		Ranking: RankingConfig{
			WeightPrice:   getEnvAsFloat("RANK_WEIGHT_PRICE", 0.6),
			WeightRecency: getEnvAsFloat("RANK_WEIGHT_RECENCY", 0.4),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Wit: WitConfig{
			AccessToken: getEnv("WIT_AI_ACCESS_TOKEN", ""),
			APIBase:     getEnv("WIT_API_BASE", "https://api.wit.ai"),
			APIVersion:  getEnv("WIT_API_VERSION", "20220201"),
			Timeout:     getEnvAsDuration("WIT_TIMEOUT", 10*time.Second),
			Enabled:     getEnv("WIT_AI_ACCESS_TOKEN", "") != "",
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			APIBase:        getEnv("GEMINI_API_BASE", "https://generativelanguage.googleapis.com"),
			Model:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			Timeout:        getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
			Enabled:        getEnv("GEMINI_API_KEY", "") != "",
		},
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
