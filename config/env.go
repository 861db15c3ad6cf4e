package config

import (
	"os"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment from CI, FOODFLOW_ENV or ENV.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	env := os.Getenv("FOODFLOW_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	switch Environment(env) {
	case Production, Test:
		return Environment(env)
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool { return e == Production }

// GinMode maps the environment onto gin's release/test/debug modes.
func (e Environment) GinMode() string {
	switch e {
	case Production:
		return "release"
	case Test, CI:
		return "test"
	default:
		return "debug"
	}
}
