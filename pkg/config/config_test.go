package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `environment: development
server:
  port: 8080
backend:
  type: kafka
okx:
  symbols:
    - BTC-USDT
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(minimalYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t)

	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND", "clickhouse")
	t.Setenv("SYMBOLS", "ETH-USDT,SOL-USDT")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090", c.Server.Port)
	}
	if c.Backend.Type != "clickhouse" {
		t.Fatalf("backend = %q", c.Backend.Type)
	}
	if len(c.OKX.Symbols) != 2 || c.OKX.Symbols[0] != "ETH-USDT" {
		t.Fatalf("symbols = %v", c.OKX.Symbols)
	}
}

func TestLoadWithEnvBadPortKeepsYAMLValue(t *testing.T) {
	path := writeConfig(t)

	t.Setenv("PORT", "not-a-port")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("port = %d, want yaml value 8080", c.Server.Port)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	var c Config
	c.Environment = "development"
	c.Backend.Type = "postgres"
	c.OKX.Symbols = []string{"BTC-USDT"}

	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}
