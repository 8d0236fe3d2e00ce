package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"ENV"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32         `mapstructure:"DB_MIN_CONNS"`
	PersistenceEnabled bool          `mapstructure:"PERSISTENCE_ENABLED"`
	ModelServiceURL    string        `mapstructure:"MODEL_SERVICE_URL"`
	ModelTimeout       time.Duration `mapstructure:"MODEL_TIMEOUT"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MigrationsDir      string        `mapstructure:"MIGRATIONS_DIR"`
	CORSOrigins        []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS       float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int           `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("PERSISTENCE_ENABLED", true)
	v.SetDefault("MODEL_SERVICE_URL", "http://localhost:5000")
	v.SetDefault("MODEL_TIMEOUT", "30s")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("PERSISTENCE_ENABLED")
	v.BindEnv("MODEL_SERVICE_URL")
	v.BindEnv("MODEL_TIMEOUT")
	v.BindEnv("REQUEST_TIMEOUT")
	v.BindEnv("MIGRATIONS_DIR")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration can actually run the pipeline.
// DATABASE_URL is only required when persistence is on: the service degrades
// to prediction-only without a store, but a half-configured store is a
// deployment mistake that should fail fast.
func (c *Config) Validate() error {
	if c.ModelServiceURL == "" {
		return fmt.Errorf("MODEL_SERVICE_URL is required")
	}
	if c.PersistenceEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when PERSISTENCE_ENABLED is true")
	}
	if c.ModelTimeout <= 0 || c.ModelTimeout > 30*time.Second {
		return fmt.Errorf("MODEL_TIMEOUT must be positive and at most 30s, got %s", c.ModelTimeout)
	}
	return nil
}
