package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppPort     string
	AppEnv      string
	DatabaseURL string
	// DBDriver and DBSource are derived from DatabaseURL
	DBDriver string
	DBSource string

	SessionSecret string
	SessionTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool

	AllowedOrigin       string
	MessageHistoryLimit int
	BcryptCost          int
}

// Production reports whether cookies must always be marked secure.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	driver, source, err := ParseDatabaseURL(dbURL)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	sessionTTL := 24 * time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL %q", v)
		}
		sessionTTL = d
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			redisDB = n
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	historyLimit := 500
	if v := os.Getenv("MESSAGE_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			historyLimit = n
		}
	}

	cost := bcrypt.DefaultCost
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			cost = n
		}
	}

	return &Config{
		AppPort:             port,
		AppEnv:              os.Getenv("APP_ENV"),
		DatabaseURL:         dbURL,
		DBDriver:            driver,
		DBSource:            source,
		SessionSecret:       secret,
		SessionTTL:          sessionTTL,
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             redisDB,
		LogLevel:            logLevel,
		LogJSON:             os.Getenv("LOG_JSON") == "true",
		AllowedOrigin:       os.Getenv("ALLOWED_ORIGIN"),
		MessageHistoryLimit: historyLimit,
		BcryptCost:          cost,
	}, nil
}

// ParseDatabaseURL maps DATABASE_URL onto a driver and its data source.
// postgres:// and postgresql:// go to pgx as-is; sqlite://path opens a file.
func ParseDatabaseURL(raw string) (driver, source string, err error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite DATABASE_URL has no path")
		}
		return DriverSQLite, path, nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL scheme in %q", raw)
	}
}
