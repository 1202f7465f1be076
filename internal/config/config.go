package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string

	// DefaultOwnerID, when set, receives the seeded default expense
	// categories on startup.
	DefaultOwnerID int64

	RateLimitMaxAttempts int
	RateLimitWindow      time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "solobooks"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "solobooks"),
		DBUser:            getenv("DATABASE_USER", "solobooks"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		DefaultOwnerID: int64(getenvInt("DEFAULT_OWNER_ID", 0)),

		RateLimitMaxAttempts: getenvInt("RATE_LIMIT_MAX_ATTEMPTS", 5),
		RateLimitWindow:      time.Duration(getenvInt("RATE_LIMIT_WINDOW_SECONDS", 900)) * time.Second,
	}
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("[config] invalid integer for %s: %q, using %d", key, raw, fallback)
		return fallback
	}
	return value
}

// Module provides application configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewReportingConfigHolder),
)
