package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret  = "dev-secret-key-change-in-production"
	defaultSQLitePath = "foodflow.db"
	defaultGroqURL    = "https://api.groq.com/openai/v1/chat/completions"
	defaultGroqModel  = "llama-3.3-70b-versatile"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration. DatabaseURL wins over the individual fields and
	// may point at postgres (postgres://...) or at a sqlite file.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Recipe suggestions
	GroqAPIKey string
	GroqAPIURL string
	GroqModel  string

	// Report export
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from .env, environment variables or secrets
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	env := GetEnvironment()
	cfg := &Config{Environment: env}

	switch env {
	case Development, Test, CI:
		loadEnvConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvConfig reads everything from the process environment with local defaults.
func loadEnvConfig(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnv("DB_NAME", "foodflow")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	if cfg.DatabaseURL == "" && cfg.DBHost == "" {
		cfg.DatabaseURL = defaultSQLitePath
	}

	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.JWTSecret = getEnv("SECRET_KEY", getEnv("JWT_SECRET", defaultJWTSecret))

	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.GroqAPIURL = getEnv("GROQ_API_URL", defaultGroqURL)
	cfg.GroqModel = getEnv("GROQ_MODEL", defaultGroqModel)

	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = getEnv("AWS_REGION", "eu-south-1")
}

// loadProdConfig reads Docker secrets first and falls back to the environment.
func loadProdConfig(cfg *Config) {
	loadEnvConfig(cfg)

	cfg.DatabaseURL = secretOr("database_url", os.Getenv("DATABASE_URL"))
	cfg.DBHost = secretOr("db_host", cfg.DBHost)
	cfg.DBPort = secretOr("db_port", cfg.DBPort)
	cfg.DBUser = secretOr("db_user", cfg.DBUser)
	cfg.DBPassword = secretOr("db_password", cfg.DBPassword)
	cfg.DBName = secretOr("db_name", cfg.DBName)
	cfg.RedisPassword = secretOr("redis_password", cfg.RedisPassword)
	cfg.RedisURL = secretOr("redis_url", cfg.RedisURL)
	cfg.JWTSecret = secretOr("jwt_secret", os.Getenv("JWT_SECRET"))
	cfg.GroqAPIKey = secretOr("groq_api_key", cfg.GroqAPIKey)
}

// UsesPostgres reports whether the configured database is PostgreSQL.
func (c *Config) UsesPostgres() bool {
	if c.DatabaseURL != "" {
		return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
	}
	return c.DBHost != ""
}

// PostgresDSN returns the connection string for PostgreSQL.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// SQLitePath returns the sqlite file or URI, stripping a sqlite:/// scheme.
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, "sqlite:///")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] ignoring non-numeric %s=%q", key, v)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func secretOr(name, fallback string) string {
	if v := readSecret(name); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
