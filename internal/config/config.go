// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	CalendarModeInteractive = "interactive"
	CalendarModeStored      = "stored"
)

type Config struct {
	Env        string
	Port       int
	SecretKey  string
	JWTTTL     time.Duration
	BcryptCost int

	DatabaseURL      string
	DBMaxOpenConns   int
	DBConnMaxIdle    time.Duration
	DBConnectTimeout time.Duration

	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURI     string
	GoogleCredentialsFile string // registered app credentials, interactive mode
	GoogleTokenFile       string // saved user credential, interactive mode
	CalendarAuthMode      string
	OAuthTimeout          time.Duration
	InteractiveTimeout    time.Duration
	FrontendURL           string

	AllowedOrigins  []string
	LoginRateLimit  int
	LoginRateWindow time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	GeminiAPIKey string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

// Load reads .env (when present) and the process environment. Required
// settings missing in production are an error; elsewhere they fall back to
// development defaults and a warning is logged.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := getEnvOrDefault("ENV", EnvDevelopment)
	l := &loader{env: env}

	cfg := &Config{
		Env:        env,
		Port:       getEnvIntOrDefault("PORT", 5000),
		SecretKey:  l.required("SECRET_KEY", "your-secret-here"),
		JWTTTL:     getEnvDurationOrDefault("JWT_TTL", 24*time.Hour),
		BcryptCost: getEnvIntOrDefault("BCRYPT_WORK_FACTOR", 12),

		DBMaxOpenConns:   getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		DBConnMaxIdle:    getEnvDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 30*time.Second),
		DBConnectTimeout: getEnvDurationOrDefault("DB_CONNECT_TIMEOUT", 5*time.Second),

		GoogleClientID:        l.required("GOOGLE_CLIENT_ID", "your-client-id-here"),
		GoogleClientSecret:    l.required("GOOGLE_CLIENT_SECRET", "your-client-secret-here"),
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "token.json"),
		OAuthTimeout:          getEnvDurationOrDefault("GOOGLE_OAUTH_TIMEOUT", 30*time.Second),
		InteractiveTimeout:    getEnvDurationOrDefault("INTERACTIVE_AUTH_TIMEOUT", 5*time.Minute),
		FrontendURL:           getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),

		AllowedOrigins:  splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LoginRateLimit:  getEnvIntOrDefault("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: getEnvDurationOrDefault("LOGIN_RATE_WINDOW", 15*time.Minute),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		LogFile:   os.Getenv("LOG_FILE"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}

	if env == EnvTest {
		cfg.DatabaseURL = l.required("TEST_DATABASE_URL", "postgres://localhost:5432/job_jotter_test?sslmode=disable")
		cfg.BcryptCost = bcrypt.MinCost
	} else {
		cfg.DatabaseURL = l.required("DATABASE_URL", "postgres://localhost:5432/job_jotter?sslmode=disable")
	}

	if env == EnvProduction {
		cfg.GoogleRedirectURI = l.required("GOOGLE_REDIRECT_URI", "")
	} else {
		cfg.GoogleRedirectURI = getEnvOrDefault("GOOGLE_REDIRECT_URI", fmt.Sprintf("http://localhost:%d/auth/google/callback", cfg.Port))
	}

	defaultMode := CalendarModeInteractive
	if env == EnvProduction {
		defaultMode = CalendarModeStored
	}
	cfg.CalendarAuthMode = getEnvOrDefault("CALENDAR_AUTH_MODE", defaultMode)
	if cfg.CalendarAuthMode != CalendarModeInteractive && cfg.CalendarAuthMode != CalendarModeStored {
		l.errs = append(l.errs, fmt.Errorf("CALENDAR_AUTH_MODE has invalid value %q", cfg.CalendarAuthMode))
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		l.errs = append(l.errs, fmt.Errorf("BCRYPT_WORK_FACTOR must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	if err := errors.Join(l.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

type loader struct {
	env  string
	errs []error
}

// required returns the value of key. In production a missing value is
// recorded as an error, otherwise fallback is used.
func (l *loader) required(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if l.env == EnvProduction {
		l.errs = append(l.errs, fmt.Errorf("environment variable %s is required in production", key))
		return ""
	}
	slog.Warn("environment variable not set, using fallback value", "key", key)
	return fallback
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
