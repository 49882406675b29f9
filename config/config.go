package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	SqliteDB           string `mapstructure:"SQLITE_DB"`
	Port               string `mapstructure:"PORT"`
	SessionSecret      string `mapstructure:"SESSION_SECRET"`
	SecureCookies      bool   `mapstructure:"SECURE_COOKIES"`
	Domain             string `mapstructure:"DOMAIN"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	LogPretty          bool   `mapstructure:"LOG_PRETTY"`
	BcryptCost         int    `mapstructure:"BCRYPT_COST"`
	CacheDir           string `mapstructure:"CACHE_DIR"`
	LoginRatePerMinute int    `mapstructure:"LOGIN_RATE_PER_MINUTE"`
}

var defaults = map[string]interface{}{
	"SQLITE_DB":             "draft_mode_dev.db",
	"PORT":                  "8080",
	"SECURE_COOKIES":        false,
	"DOMAIN":                "http://localhost:8080",
	"LOG_LEVEL":             "info",
	"LOG_PRETTY":            false,
	"BCRYPT_COST":           10,
	"CACHE_DIR":             "cache",
	"LOGIN_RATE_PER_MINUTE": 10,
}

// String masks the session secret.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  SqliteDB: %s\n", c.SqliteDB))
	sb.WriteString(fmt.Sprintf("  Port: %s\n", c.Port))
	sb.WriteString(fmt.Sprintf("  Domain: %s\n", c.Domain))
	sb.WriteString(fmt.Sprintf("  LogLevel: %s\n", c.LogLevel))
	sb.WriteString(fmt.Sprintf("  BcryptCost: %d\n", c.BcryptCost))
	sb.WriteString(fmt.Sprintf("  CacheDir: %s\n", c.CacheDir))
	if c.SessionSecret != "" {
		sb.WriteString("  SessionSecret: ********\n")
	} else {
		sb.WriteString("  SessionSecret: (empty)\n")
	}
	return sb.String()
}

// Load reads the environment, after loading .env when one is present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
		_ = v.BindEnv(k)
	}
	_ = v.BindEnv("SESSION_SECRET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.SqliteDB == "" {
		return fmt.Errorf("SQLITE_DB not set")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET environment variable not set")
	}
	if c.LoginRatePerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be positive, got %d", c.LoginRatePerMinute)
	}
	return nil
}
