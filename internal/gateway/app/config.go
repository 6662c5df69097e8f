package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AuthBackendURL  string // Required: base URL of the backend auth service
	AuthAPIKey      string // Optional: api key sent with backend auth calls
	DirectoryURL    string // Required: base URL of the account directory RPC
	DirectoryAPIKey string // Optional: api key sent with directory calls

	AppUpstreamURL string // Optional: upstream application the gateway fronts

	RedisAddr     string // Optional: shared counter store; in-memory counters when unset
	RedisPassword string // Optional: password for the counter store

	DatabaseFile string // Optional: path to SQLite database file (default: ./gateway.db)

	LoginLimit  int           // Optional: max login attempts per window (default: 5)
	LoginWindow time.Duration // Optional: login attempt window (default: 15m)

	AuditKeep            int           // Optional: login audit rows to retain (default: 10000)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		AuthBackendURL:  getEnvOrDefault("GATEWAY_AUTH_URL", "http://localhost:9999"),
		AuthAPIKey:      os.Getenv("GATEWAY_AUTH_API_KEY"),
		DirectoryURL:    getEnvOrDefault("GATEWAY_DIRECTORY_URL", "http://localhost:9998"),
		DirectoryAPIKey: os.Getenv("GATEWAY_DIRECTORY_API_KEY"),

		AppUpstreamURL: os.Getenv("GATEWAY_APP_UPSTREAM_URL"),

		RedisAddr:     os.Getenv("GATEWAY_REDIS_ADDR"),
		RedisPassword: os.Getenv("GATEWAY_REDIS_PASSWORD"),

		DatabaseFile: getEnvOrDefault("GATEWAY_DATABASE_FILE", "gateway.db"),

		LoginLimit:  getEnvIntOrDefault("GATEWAY_LOGIN_LIMIT", 5),
		LoginWindow: getEnvDurationOrDefault("GATEWAY_LOGIN_WINDOW", 15*time.Minute),

		AuditKeep:            getEnvIntOrDefault("GATEWAY_AUDIT_KEEP", 10000),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// SecureCookies reports whether identity cookies should carry the Secure
// attribute. Local development runs over plain HTTP.
func (c Config) SecureCookies() bool {
	return c.Env != "dev"
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
