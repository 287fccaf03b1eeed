package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.BindAddr != "127.0.0.1" {
		t.Errorf("expected default bind addr 127.0.0.1, got %s", cfg.BindAddr)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("expected default data dir ./data, got %s", cfg.DataDir)
	}
	if !cfg.SeedDemo || !cfg.Autosave {
		t.Errorf("expected SEED_DEMO and AUTOSAVE to default true, got %v %v", cfg.SeedDemo, cfg.Autosave)
	}
	if cfg.LowStockThreshold != 10 {
		t.Errorf("expected default threshold 10, got %d", cfg.LowStockThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/shms")
	t.Setenv("PORT", "9090")
	t.Setenv("SEED_DEMO", "false")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/var/lib/shms" {
		t.Errorf("DataDir = %s", cfg.DataDir)
	}
	if cfg.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr = %s", cfg.Addr())
	}
	if cfg.SeedDemo {
		t.Error("SEED_DEMO=false should disable seeding")
	}
	if cfg.LowStockThreshold != 3 {
		t.Errorf("LowStockThreshold = %d", cfg.LowStockThreshold)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Errorf("Level = %v, want debug", cfg.Level())
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DATA_DIR=/from/file\nAUTOSAVE=false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/from/file" {
		t.Errorf("DataDir = %s, want /from/file", cfg.DataDir)
	}
	if cfg.Autosave {
		t.Error("AUTOSAVE=false in file should be honoured")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Port: "8080", DataDir: "./data", LogLevel: "info"}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty data dir", func(c *Config) { c.DataDir = " " }, true},
		{"port not numeric", func(c *Config) { c.Port = "http" }, true},
		{"negative threshold", func(c *Config) { c.LowStockThreshold = -1 }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
