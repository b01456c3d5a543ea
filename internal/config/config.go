// Package config holds server configuration read from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backend names accepted in CF_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

// Config holds server configuration.
type Config struct {
	Backend     string
	DBPath      string // empty = db.DefaultPath()
	PostgresURL string
	SupabaseURL string
	SupabaseKey string
	RedisURL    string // settings go to Redis when set
	Port        int
	DevMode     bool
	CORSOrigins []string
}

// LoadDotEnv loads variables from a .env file in the working directory.
// A missing file is not an error; existing variables are never overridden.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// FromEnv creates a Config from environment variables.
func FromEnv() Config {
	return Config{
		Backend:     strings.ToLower(envOrDefault("CF_BACKEND", BackendSQLite)),
		DBPath:      os.Getenv("CF_DB_PATH"),
		PostgresURL: os.Getenv("CF_POSTGRES_URL"),
		SupabaseURL: os.Getenv("CF_SUPABASE_URL"),
		SupabaseKey: os.Getenv("CF_SUPABASE_KEY"),
		RedisURL:    os.Getenv("CF_REDIS_URL"),
		Port:        envInt("CF_PORT", 8080),
		DevMode:     os.Getenv("CF_DEV_MODE") == "true",
		CORSOrigins: splitList(envOrDefault("CF_CORS_ORIGINS", "*")),
	}
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
	case BackendPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("CF_POSTGRES_URL is required for the postgres backend")
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("CF_SUPABASE_URL and CF_SUPABASE_KEY are required for the supabase backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (sqlite|postgres|supabase)", c.Backend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
