package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	BackendURL string // Required: base URL of the retailer backend

	StorageDriver string // Optional: session storage (sqlite, redis, memory) (default: sqlite)
	StorageFile   string // Optional: SQLite file for the sqlite driver (default: ./dashboard.db)
	RedisURL      string // Optional: redis URL for the redis driver (default: redis://localhost:6379/0)
	SealKey       string // Optional: if set, persisted session values are encrypted with a key derived from it

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	BackendTimeout time.Duration // Per-call timeout for backend requests (default: 10s)
	VerifyTimeout  time.Duration // Upper bound for one verification run (default: 30s)
	VerifyWait     time.Duration // How long a page request waits for verification before showing loading (default: 1.5s)
	LogoutTimeout  time.Duration // Budget for best-effort token revocation on logout (default: 5s)
}

func LoadConfig() Config {
	cfg := Config{
		BackendURL:    getEnvOrDefault("BACKEND_URL", "http://localhost:3000"),
		StorageDriver: getEnvOrDefault("STORAGE_DRIVER", "sqlite"),
		StorageFile:   getEnvOrDefault("STORAGE_FILE", "dashboard.db"),
		RedisURL:      getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		SealKey:       os.Getenv("SESSION_SEAL_KEY"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		BackendTimeout: getEnvDurationOrDefault("BACKEND_TIMEOUT", 10*time.Second),
		VerifyTimeout:  getEnvDurationOrDefault("VERIFY_TIMEOUT", 30*time.Second),
		VerifyWait:     getEnvDurationOrDefault("VERIFY_WAIT", 1500*time.Millisecond),
		LogoutTimeout:  getEnvDurationOrDefault("LOGOUT_TIMEOUT", 5*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("90s") or whole seconds.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
