// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`

	DBDriver                      string `mapstructure:"DB_DRIVER"`
	DBHost                        string `mapstructure:"DB_HOST"`
	DBPort                        string `mapstructure:"DB_PORT"`
	DBUser                        string `mapstructure:"DB_USER"`
	DBPassword                    string `mapstructure:"DB_PASSWORD"`
	DBName                        string `mapstructure:"DB_NAME"`
	DBSSLMode                     string `mapstructure:"DB_SSLMODE"`
	DBSQLitePath                  string `mapstructure:"DB_SQLITE_PATH"`
	DBSchemaMode                  string `mapstructure:"DB_SCHEMA_MODE"`
	DBAutoMigrateAllowDestructive bool   `mapstructure:"DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE"`
	DBReadHost                    string `mapstructure:"DB_READ_HOST"`
	DBReadPort                    string `mapstructure:"DB_READ_PORT"`
	DBReadUser                    string `mapstructure:"DB_READ_USER"`
	DBReadPassword                string `mapstructure:"DB_READ_PASSWORD"`
	DBMaxOpenConns                int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns                int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes      int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	RedisURL               string `mapstructure:"REDIS_URL"`
	CachePromptsTTLSeconds int    `mapstructure:"CACHE_PROMPTS_TTL_SECONDS"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`

	AssistAPIKey         string `mapstructure:"ASSIST_API_KEY"`
	AssistBaseURL        string `mapstructure:"ASSIST_BASE_URL"`
	AssistModel          string `mapstructure:"ASSIST_MODEL"`
	AssistTimeoutSeconds int    `mapstructure:"ASSIST_TIMEOUT_SECONDS"`

	DevBootstrapAdmin bool   `mapstructure:"DEV_BOOTSTRAP_ADMIN"`
	DevAdminUsername  string `mapstructure:"DEV_ADMIN_USERNAME"`
	DevAdminPassword  string `mapstructure:"DEV_ADMIN_PASSWORD"`

	// SeedPreset fills an empty database on startup outside production.
	SeedPreset string `mapstructure:"SEED_PRESET"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The base file is optional; APP_ENV may come from it or the environment.
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		slog.Info("loaded profile-specific configuration", slog.String("file", "config."+env+".yml"))
	}

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8375")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	v.SetDefault("FEATURE_FLAGS", "assist=on")

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL_HOURS", 24*7)

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "promptvault")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "promptvault.db")
	v.SetDefault("DB_SCHEMA_MODE", "hybrid")
	v.SetDefault("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE", false)
	v.SetDefault("DB_READ_HOST", "")
	v.SetDefault("DB_READ_PORT", "5432")
	v.SetDefault("DB_READ_USER", "user")
	v.SetDefault("DB_READ_PASSWORD", "password")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("CACHE_PROMPTS_TTL_SECONDS", 30)

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	v.SetDefault("ASSIST_API_KEY", "")
	v.SetDefault("ASSIST_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("ASSIST_MODEL", "gemini-2.5-flash")
	v.SetDefault("ASSIST_TIMEOUT_SECONDS", 20)

	v.SetDefault("DEV_BOOTSTRAP_ADMIN", false)
	v.SetDefault("DEV_ADMIN_USERNAME", "admin")
	v.SetDefault("DEV_ADMIN_PASSWORD", "")
	v.SetDefault("SEED_PRESET", "")
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}

// JWTTTL returns the session token lifetime.
func (c *Config) JWTTTL() time.Duration {
	if c.JWTTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// PromptsCacheTTL returns how long the unannotated feed stays cached.
func (c *Config) PromptsCacheTTL() time.Duration {
	if c.CachePromptsTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.CachePromptsTTLSeconds) * time.Second
}

// AssistTimeout bounds a single text-generation request.
func (c *Config) AssistTimeout() time.Duration {
	if c.AssistTimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.AssistTimeoutSeconds) * time.Second
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch strings.ToLower(c.DBDriver) {
	case DriverPostgres, DriverSQLite:
	case "":
		c.DBDriver = DriverPostgres
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	c.DBDriver = strings.ToLower(c.DBDriver)
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))

	if c.DBDriver == DriverSQLite && strings.TrimSpace(c.DBSQLitePath) == "" {
		return errors.New("DB_SQLITE_PATH is required when DB_DRIVER=sqlite")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == DriverPostgres && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			slog.Warn("DB_SSLMODE is 'disable' in production; SSL database connections are strongly recommended")
		}
		if c.AllowedOrigins == "*" {
			slog.Warn("ALLOWED_ORIGINS is set to '*' in production; this is insecure")
		}
	} else if len(c.JWTSecret) < 32 {
		slog.Warn("JWT_SECRET is shorter than 32 characters; use a stronger secret for production")
	}

	return nil
}
