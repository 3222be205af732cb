package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfigMissing is returned when a required configuration value is absent.
var ErrConfigMissing = errors.New("required configuration missing")

// Stage identifies the deployment stage.
type Stage string

const (
	StageLocal       Stage = "Local"
	StageDevelopment Stage = "Development"
	StageProduction  Stage = "Production"
)

// ParseStage maps a raw STAGE value to a Stage, defaulting to Development.
func ParseStage(raw string) Stage {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "local":
		return StageLocal
	case "production":
		return StageProduction
	default:
		return StageDevelopment
	}
}

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Cookie   CookieConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Stage                 Stage
	Host                  string
	Port                  string
	Version               string
	ProxyHeader           string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	AccountCacheTTL time.Duration
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig holds the signing secrets of both credential domains.
type AuthConfig struct {
	UserAccessSecret   string
	UserRefreshSecret  string
	AdminAccessSecret  string
	AdminRefreshSecret string
}

// CookieConfig controls session cookie attributes.
type CookieConfig struct {
	ParentDomain string
}

// Load reads configuration from environment variables, applying defaults where possible.
// Missing secrets are fatal.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "smartpersona-backend"),
			Stage:                 ParseStage(os.Getenv("STAGE")),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			ProxyHeader:           os.Getenv("APP_PROXY_HEADER"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("DATABASE_URL"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			AccountCacheTTL: time.Duration(getEnvAsInt("ACCOUNT_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			UserAccessSecret:   os.Getenv("JWT_USER_SECRET"),
			UserRefreshSecret:  os.Getenv("JWT_USER_REFRESH_SECRET"),
			AdminAccessSecret:  os.Getenv("JWT_ADMIN_SECRET"),
			AdminRefreshSecret: os.Getenv("JWT_ADMIN_REFRESH_SECRET"),
		},
		Cookie: CookieConfig{
			ParentDomain: getEnv("COOKIE_PARENT_DOMAIN", "smartpersona.local"),
		},
	}

	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures every secret is present and no two secrets collide.
func (a AuthConfig) Validate() error {
	secrets := []struct {
		key   string
		value string
	}{
		{"JWT_USER_SECRET", a.UserAccessSecret},
		{"JWT_USER_REFRESH_SECRET", a.UserRefreshSecret},
		{"JWT_ADMIN_SECRET", a.AdminAccessSecret},
		{"JWT_ADMIN_REFRESH_SECRET", a.AdminRefreshSecret},
	}

	seen := make(map[string]string, len(secrets))
	for _, s := range secrets {
		if strings.TrimSpace(s.value) == "" {
			return fmt.Errorf("%w: %s", ErrConfigMissing, s.key)
		}
		if other, ok := seen[s.value]; ok {
			return fmt.Errorf("%s and %s must differ", other, s.key)
		}
		seen[s.value] = s.key
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
