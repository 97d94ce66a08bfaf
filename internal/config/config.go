// Package config loads runtime configuration from environment
// variables.  Load covers the core settings the server cannot run
// without; the redis, cache and rate-limit constructors in this package
// read their own optional variables and degrade gracefully when the
// backing services are absent.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable; strings for identifiers, secrets and URLs,
// ints for durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DataDir        string // directory holding the registry and tenant partition files
	BaseURL        string // public base URL used when building registration links
	JWTSecret      string // secret used to sign access tokens
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	CopyServiceURL string // optional endpoint of the copy generation service
}

// Load reads configuration from the environment.  Required variables are
// enforced by must() and mustInt(); missing values exit the process with
// a fatal log message.  DataDir falls back to ./data, BaseURL and
// CopyServiceURL may stay empty.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DataDir:        getenv("DATA_DIR", "data"),
		BaseURL:        os.Getenv("BASE_URL"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		CopyServiceURL: os.Getenv("COPY_SERVICE_URL"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer.  If conversion fails, the application logs a fatal error and
// exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
