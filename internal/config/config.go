package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string
	DBPath                string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	LogLevel              string
	CacheTTLSeconds       int
	WarmWorkerCount       int
	WarmQueueSize         int
	SchedulerEnabled      bool
	DigestIntervalMinutes int
	RecentActivityDays    int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:studypath.db"),
		RedisAddr:             envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         envOr("REDIS_PASSWORD", ""),
		RedisDB:               envIntOr("REDIS_DB", 0),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		CacheTTLSeconds:       envIntOr("CACHE_TTL_SECONDS", 600),
		WarmWorkerCount:       envIntOr("WARM_WORKER_COUNT", 2),
		WarmQueueSize:         envIntOr("WARM_QUEUE_SIZE", 64),
		SchedulerEnabled:      envBoolOr("SCHEDULER_ENABLED", true),
		DigestIntervalMinutes: envIntOr("DIGEST_INTERVAL_MINUTES", 60),
		RecentActivityDays:    envIntOr("RECENT_ACTIVITY_DAYS", 7),
	}
}

// Validate checks the configuration and aggregates every problem into
// a single error so operators see all of them at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.RedisAddr == "" {
		problems = append(problems, "REDIS_ADDR cannot be empty")
	}
	if c.RedisDB < 0 {
		problems = append(problems, "REDIS_DB must not be negative")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.CacheTTLSeconds <= 0 {
		problems = append(problems, "CACHE_TTL_SECONDS must be positive")
	}
	if c.WarmWorkerCount <= 0 {
		problems = append(problems, "WARM_WORKER_COUNT must be positive")
	}
	if c.WarmQueueSize <= 0 {
		problems = append(problems, "WARM_QUEUE_SIZE must be positive")
	}
	if c.DigestIntervalMinutes <= 0 {
		problems = append(problems, "DIGEST_INTERVAL_MINUTES must be positive")
	}
	if c.RecentActivityDays <= 0 {
		problems = append(problems, "RECENT_ACTIVITY_DAYS must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Unparsable values fall back to the default; Validate reports anything
// that ends up out of range.
func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
