package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Autosave backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds the process-wide settings. CLI flags override these.
type Config struct {
	// DBPath is the SQLite file; empty means the XDG default.
	DBPath string

	// Store picks the autosave backend.
	Store    string
	RedisURL string

	LogLevel string
	// LogFile is the rotated log path; empty means the XDG default,
	// "-" disables logging.
	LogFile string

	AutosaveDelay time.Duration

	// AIQuestions generates ai-mode question banks with the configured LLM.
	AIQuestions bool
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		DBPath:        getEnv("LEARNEX_DB", ""),
		Store:         strings.ToLower(getEnv("LEARNEX_STORE", StoreSQLite)),
		RedisURL:      getEnv("LEARNEX_REDIS_URL", "redis://localhost:6379/0"),
		LogLevel:      getEnv("LEARNEX_LOG_LEVEL", "info"),
		LogFile:       getEnv("LEARNEX_LOG_FILE", ""),
		AutosaveDelay: getEnvDuration("LEARNEX_AUTOSAVE_DELAY", time.Second),
		AIQuestions:   getEnvBool("LEARNEX_AI_QUESTIONS", false),
	}
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("store %q needs LEARNEX_REDIS_URL", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q (want sqlite, redis or memory)", c.Store)
	}
	if c.AutosaveDelay <= 0 {
		return fmt.Errorf("autosave delay must be positive, got %s", c.AutosaveDelay)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvDuration accepts a Go duration ("1500ms") or a bare number of
// milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
