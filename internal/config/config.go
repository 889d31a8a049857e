// Package config resolves settings from flags, environment, an optional
// YAML file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. WTAMETRICS_DATA.
const EnvPrefix = "WTAMETRICS"

// Config is the resolved runtime configuration.
type Config struct {
	Data    string `mapstructure:"data"`    // CSV dataset path
	DB      string `mapstructure:"db"`      // SQLite snapshot database
	FromDB  string `mapstructure:"from_db"` // dataset hash prefix; empty reads Data instead
	Top     int    `mapstructure:"top"`     // top-winners length
	Recent  int    `mapstructure:"recent"`  // profile recent-match length
	Limit   int    `mapstructure:"limit"`   // browse row limit, 0 = all rows
	Verbose bool   `mapstructure:"verbose"`
}

// Home returns the per-user settings directory.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".wtametrics")
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data", "wta_processed.csv")
	v.SetDefault("db", filepath.Join(Home(), "metrics.db"))
	v.SetDefault("from_db", "")
	v.SetDefault("top", 10)
	v.SetDefault("recent", 20)
	v.SetDefault("limit", 50)
	v.SetDefault("verbose", false)
}

// Load reads .env (if present), then cfgFile, or config.yaml in Home() when
// cfgFile is empty, then WTAMETRICS_* variables, and unmarshals the result.
// A missing default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Home())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the list lengths: top and recent must be at least 1, limit
// must not be negative (0 prints every row).
func (c *Config) Validate() error {
	if err := Positive("top", c.Top); err != nil {
		return err
	}
	if err := Positive("recent", c.Recent); err != nil {
		return err
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}
	return nil
}

// Positive rejects n < 1 for the named setting.
func Positive(name string, n int) error {
	if n < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", name, n)
	}
	return nil
}
