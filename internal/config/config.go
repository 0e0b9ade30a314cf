// Package config loads application configuration from environment
// variables. Required variables are enforced at startup; a missing one
// is a fatal error rather than a latent nil downstream.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field maps to an
// environment variable; types reflect how the values are used.
type Config struct {
	Env             string // application environment (dev/test/prod)
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	AccessSecret    string // secret used to sign access tokens
	RefreshSecret   string // secret used to sign refresh tokens
	AccessTTLMin    int    // access token time-to-live in minutes
	RefreshTTLHours int    // refresh token time-to-live in hours
	BcryptCost      int    // bcrypt cost for password hashing
	CookieSecure    bool   // set Secure on auth cookies (prod deployments)
}

// Load reads configuration from the environment. Access and refresh
// tokens are signed with distinct secrets so one kind can never verify
// as the other.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		AccessSecret:    must("ACCESS_TOKEN_SECRET"),
		RefreshSecret:   must("REFRESH_TOKEN_SECRET"),
		AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLHours: mustInt("REFRESH_TOKEN_TTL_HOURS"),
		BcryptCost:      mustInt("BCRYPT_COST"),
		CookieSecure:    os.Getenv("COOKIE_SECURE") == "true",
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
