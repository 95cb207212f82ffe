// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL selects the trip cache. Required.
	// A postgres:// or postgresql:// URL selects Postgres; anything else is a
	// SQLite file path.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// RecommenderURL is the base URL of the remote itinerary recommender. Required.
	RecommenderURL string

	// RecommenderTimeout bounds each recommender call. Zero, the default,
	// sets no deadline beyond the caller's.
	RecommenderTimeout time.Duration

	// RecommenderRPS and RecommenderBurst rate-limit outbound recommender calls.
	RecommenderRPS   float64
	RecommenderBurst int

	// ExploreTopK and ExploreMoreK size the explore listing.
	ExploreTopK  int
	ExploreMoreK int

	// PreviewTTL is how long an unconsumed preview form is kept. Defaults to 30m.
	PreviewTTL time.Duration
}

// LoadDotEnv copies variables from the given .env files (default ".env")
// into the process environment. Variables already set win. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config.LoadDotEnv: %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// variables that could not be parsed.
func Load() (Config, error) {
	p := parser{}
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MaxBodyBytes:       int64(p.int("MAX_BODY_BYTES", 1<<20)),
		RecommenderTimeout: p.duration("RECOMMENDER_TIMEOUT", 0),
		RecommenderRPS:     p.float("RECOMMENDER_RPS", 2),
		RecommenderBurst:   p.int("RECOMMENDER_BURST", 4),
		ExploreTopK:        p.int("EXPLORE_TOP_K", 3),
		ExploreMoreK:       p.int("EXPLORE_MORE_K", 10),
		PreviewTTL:         p.duration("PREVIEW_TTL", 30*time.Minute),
	}

	p.check("RECOMMENDER_RPS", cfg.RecommenderRPS > 0)
	p.check("RECOMMENDER_BURST", cfg.RecommenderBurst >= 1)

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.RecommenderURL = strings.TrimRight(os.Getenv("RECOMMENDER_URL"), "/")
	if cfg.RecommenderURL == "" {
		missing = append(missing, "RECOMMENDER_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(p.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(p.invalid, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parser reads typed variables and records the names of those that fail to
// parse, are negative, or fail a range check.
type parser struct {
	invalid []string
}

// check records key as invalid when ok is false and the key was not
// already reported.
func (p *parser) check(key string, ok bool) {
	if ok || slices.Contains(p.invalid, key) {
		return
	}
	p.invalid = append(p.invalid, key)
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return f
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}
