package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	Port string `yaml:"port"`

	// StoreDriver selects the KV backend: sqlite (default), postgres, redis or memory.
	StoreDriver string `yaml:"store_driver"`
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `yaml:"sqlite_path"`

	DBHost string `yaml:"db_host"`
	DBPort string `yaml:"db_port"`
	DBName string `yaml:"db_name"`
	DBUser string `yaml:"db_user"`
	DBPass string `yaml:"db_pass"`

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int `yaml:"db_max_open_conns"`
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int `yaml:"db_max_idle_conns"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	// RedisPrefix is prepended to every key, so one server can hold several inventories.
	RedisPrefix string `yaml:"redis_prefix"`

	JWTSecret string `yaml:"jwt_secret"`

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string `yaml:"env"`

	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int `yaml:"jwt_expire_hours"`

	// Actor is recorded on history entries made without an authenticated user.
	Actor string `yaml:"actor"`

	// ExportDir receives files written by export commands and scheduled snapshots.
	ExportDir string `yaml:"export_dir"`
	// ExportCron is a cron expression for scheduled CSV and JSON snapshots. Empty disables them.
	ExportCron string `yaml:"export_cron"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string `yaml:"log_format"`
	// LogLevel is debug, info (default), warn or error.
	LogLevel string `yaml:"log_level"`
	// LogFile, when set, receives logs instead of stderr. The shell always logs here or nowhere.
	LogFile string `yaml:"log_file"`

	// RateLimitPerMinute bounds mutating API requests per client IP (default 120).
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// DefaultJWTSecret is the development signing key. Validate rejects it in prod.
const DefaultJWTSecret = "supersecretkey"

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:               "8080",
		StoreDriver:        DriverSQLite,
		SQLitePath:         defaultSQLitePath(),
		DBHost:             "localhost",
		DBPort:             "5432",
		DBName:             "assetdb",
		DBUser:             "assetuser",
		DBPass:             "assetpass",
		DBMaxOpenConns:     25,
		DBMaxIdleConns:     5,
		RedisAddr:          "localhost:6379",
		RedisPrefix:        "dosasset:",
		JWTSecret:          DefaultJWTSecret,
		Env:                "dev",
		JWTExpireHours:     24,
		Actor:              "admin",
		ExportDir:          ".",
		LogFormat:          "text",
		LogLevel:           "info",
		RateLimitPerMinute: 120,
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// DOSASSET_CONFIG (if any), then environment variables. A .env file in the
// working directory is loaded into the environment first; it never overrides
// variables that are already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	if path := os.Getenv("DOSASSET_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// Validate rejects settings the program cannot run with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.Env == "prod" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in prod")
	}
	if c.ExportCron != "" {
		if _, err := cron.ParseStandard(c.ExportCron); err != nil {
			return fmt.Errorf("invalid EXPORT_CRON %q: %w", c.ExportCron, err)
		}
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)

	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", cfg.StoreDriver))
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)

	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPass = getEnv("DB_PASS", cfg.DBPass)

	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", cfg.DBMaxIdleConns)

	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisPrefix = getEnv("REDIS_PREFIX", cfg.RedisPrefix)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.JWTExpireHours = getEnvInt("JWT_EXPIRE_HOURS", cfg.JWTExpireHours)
	cfg.Actor = getEnv("DOSASSET_ACTOR", cfg.Actor)

	cfg.ExportDir = getEnv("EXPORT_DIR", cfg.ExportDir)
	cfg.ExportCron = getEnv("EXPORT_CRON", cfg.ExportCron)

	// Optional TLS configuration for HTTPS.
	cfg.TLSCertFile = getEnv("TLS_CERT_FILE", cfg.TLSCertFile)
	cfg.TLSKeyFile = getEnv("TLS_KEY_FILE", cfg.TLSKeyFile)

	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = parseCORSOrigins(v)
	}
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "dosasset.db"
	}
	return filepath.Join(dir, "dosasset", "dosasset.db")
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
