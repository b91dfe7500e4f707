package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Session storage backends.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

type Config struct {
	Env string

	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig
	Export  ExportConfig
	Metrics MetricsConfig
	Sentry  SentryConfig
}

// APIConfig points the client at the academic backend.
type APIConfig struct {
	BaseURL string
	// Timeout of zero leaves requests unbounded; cancellation still flows
	// through the command context.
	Timeout time.Duration
}

// SessionConfig selects where the login session is persisted.
type SessionConfig struct {
	Backend   string
	File      string
	KeyPrefix string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportConfig controls transcript and grade exports.
type ExportConfig struct {
	Dir     string
	Workers int
	Retries int
}

// MetricsConfig enables the Prometheus textfile flush on exit.
type MetricsConfig struct {
	Textfile string
}

type SentryConfig struct {
	DSN     string
	Release string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("HTTP_TIMEOUT"), 0),
	}

	cfg.Session = SessionConfig{
		Backend:   strings.ToLower(v.GetString("SESSION_BACKEND")),
		File:      v.GetString("SESSION_FILE"),
		KeyPrefix: v.GetString("SESSION_KEY_PREFIX"),
	}
	if cfg.Session.File == "" {
		cfg.Session.File = defaultSessionFile()
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	workers := v.GetInt("EXPORT_WORKERS")
	if workers <= 0 {
		workers = 1
	}
	retries := v.GetInt("EXPORT_RETRIES")
	if retries < 0 {
		retries = 0
	}
	cfg.Export = ExportConfig{
		Dir:     v.GetString("EXPORT_DIR"),
		Workers: workers,
		Retries: retries,
	}

	cfg.Metrics = MetricsConfig{Textfile: v.GetString("METRICS_TEXTFILE")}

	cfg.Sentry = SentryConfig{
		DSN:     v.GetString("SENTRY_DSN"),
		Release: v.GetString("SENTRY_RELEASE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:3001")
	v.SetDefault("HTTP_TIMEOUT", "0s")

	v.SetDefault("SESSION_BACKEND", SessionBackendFile)
	v.SetDefault("SESSION_FILE", "")
	v.SetDefault("SESSION_KEY_PREFIX", "siakad:session:")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_WORKERS", 2)
	v.SetDefault("EXPORT_RETRIES", 0)

	v.SetDefault("METRICS_TEXTFILE", "")
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("SENTRY_RELEASE", "")
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "siakad", "session.json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
