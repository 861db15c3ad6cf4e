package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration against the rules of its environment.
// All failures are returned joined.
func ValidateConfig(cfg *Config) error {
	var errs []error

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be set"})
	}
	if cfg.DatabaseURL == "" && cfg.DBHost == "" {
		errs = append(errs, ValidationError{Field: "DATABASE_URL", Message: "no database configured"})
	}

	if cfg.Environment.IsProduction() {
		if cfg.JWTSecret == defaultJWTSecret {
			errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "default secret is not allowed in production"})
		}
		if !cfg.UsesPostgres() {
			errs = append(errs, ValidationError{Field: "DATABASE_URL", Message: "production requires PostgreSQL"})
		}
		if cfg.DatabaseURL == "" && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "db_password secret is required"})
		}
	}

	return errors.Join(errs...)
}
