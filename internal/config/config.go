package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DataPath       string   `mapstructure:"DATA_PATH"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`

	// Sync tuning. SyncProbeAddr empty means connectivity is assumed.
	SyncPushDelayMS  int    `mapstructure:"SYNC_PUSH_DELAY_MS"`
	SyncProbeAddr    string `mapstructure:"SYNC_PROBE_ADDR"`
	SyncRetryBaseSec int    `mapstructure:"SYNC_RETRY_BASE_SECONDS"`
	SyncMaxAttempts  int    `mapstructure:"SYNC_MAX_ATTEMPTS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_PATH", "") // "" -> volatile in-memory store
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("SYNC_PUSH_DELAY_MS", 1000)
	v.SetDefault("SYNC_PROBE_ADDR", "")
	v.SetDefault("SYNC_RETRY_BASE_SECONDS", 30)
	v.SetDefault("SYNC_MAX_ATTEMPTS", 5)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_PATH")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")
	v.BindEnv("SYNC_PUSH_DELAY_MS")
	v.BindEnv("SYNC_PROBE_ADDR")
	v.BindEnv("SYNC_RETRY_BASE_SECONDS")
	v.BindEnv("SYNC_MAX_ATTEMPTS")

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

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.SyncPushDelayMS < 0 {
		return fmt.Errorf("SYNC_PUSH_DELAY_MS cannot be negative")
	}
	if c.SyncMaxAttempts < 0 {
		return fmt.Errorf("SYNC_MAX_ATTEMPTS cannot be negative")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
