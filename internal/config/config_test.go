// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "0.0.0.0:9090"

database:
  path: "./test.db"

auth:
  jwt_secret: "test-secret"
  email: "demo@example.com"
  password: "hunter2"
  token_ttl: "24h"

remote:
  base_url: "https://objects.example.com"

cors:
  allowed_origins:
    - "https://app.example.com"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:9090" {
		t.Errorf("unexpected http_addr: %s", cfg.Server.HTTPAddr)
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("unexpected database path: %s", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("unexpected token ttl: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Remote.BaseURL != "https://objects.example.com" {
		t.Errorf("unexpected remote base url: %s", cfg.Remote.BaseURL)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("unexpected cors origins: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging format: %s", cfg.Logging.Format)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "test-secret"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.HTTPAddr == "" {
		t.Error("expected default http_addr")
	}
	if cfg.Database.Path == "" {
		t.Error("expected default database path")
	}
	if cfg.Auth.Email == "" || cfg.Auth.Password == "" {
		t.Error("expected default demo credentials")
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("expected default cors origins")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging defaults: %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("PALETTE_TEST_SECRET", "from-env")
	path := writeConfig(t, `
auth:
  jwt_secret: "${PALETTE_TEST_SECRET}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("expected env-expanded secret, got: %s", cfg.Auth.JWTSecret)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "0.0.0.0:9090"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

func TestLoad_BadTokenTTL(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "x"
  token_ttl: "three days"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparsable token_ttl")
	}
}

func TestLoad_BadLoggingFormat(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "x"
logging:
  format: "xml"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported logging format")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
