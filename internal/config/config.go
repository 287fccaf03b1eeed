package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Env               string `mapstructure:"ENV"`
	Port              string `mapstructure:"PORT"`
	BindAddr          string `mapstructure:"BIND_ADDR"`
	DataDir           string `mapstructure:"DATA_DIR"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	SeedDemo          bool   `mapstructure:"SEED_DEMO"`
	Autosave          bool   `mapstructure:"AUTOSAVE"`
	LowStockThreshold int    `mapstructure:"LOW_STOCK_THRESHOLD"`
}

var keys = []string{
	"ENV",
	"PORT",
	"BIND_ADDR",
	"DATA_DIR",
	"LOG_LEVEL",
	"SEED_DEMO",
	"AUTOSAVE",
	"LOW_STOCK_THRESHOLD",
}

// Load reads configuration from the environment and an optional .env file in
// the working directory.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error; environment variables always win over file values.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("BIND_ADDR", "127.0.0.1")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_DEMO", true)
	v.SetDefault("AUTOSAVE", true)
	v.SetDefault("LOW_STOCK_THRESHOLD", 10)

	// Bind explicitly so Unmarshal sees env-only values.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// Level returns the parsed LOG_LEVEL, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if n, err := strconv.Atoi(c.Port); err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("PORT must be a number between 0 and 65535, got %q", c.Port)
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative, got %d", c.LowStockThreshold)
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
		}
	}
	return nil
}
