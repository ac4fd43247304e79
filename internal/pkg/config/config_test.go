package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const validSecret = "marketplace_test_jwt_secret_key_0123456789"

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": validSecret,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got %q", cfg.Port)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("expected 7 day ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.HashWorkers <= 0 {
		t.Errorf("hash workers must default to a positive number, got %d", cfg.Auth.HashWorkers)
	}
	if cfg.Mongo.Database != "marketplace" {
		t.Errorf("unexpected database: %q", cfg.Mongo.Database)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis should be enabled by default")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   validSecret,
		"PORT":         "8080",
		"TOKEN_TTL":    "1h",
		"HASH_WORKERS": "3",
		"CORS_ORIGINS": "http://localhost:3000,https://example.com",
		"ENV":          "production",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Auth.TokenTTL != time.Hour || cfg.Auth.HashWorkers != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 cors origins, got %v", cfg.CORSOrigins)
	}
	if !cfg.IsProduction() {
		t.Error("expected production env")
	}
}

func TestLoadWith_MissingSecret(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadWith_ShortSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "short",
	}))
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET validation error, got %v", err)
	}
}

func TestLoadWith_StorageDriver(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     validSecret,
		"STORAGE_DRIVER": "memory",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Errorf("expected memory driver, got %q", cfg.StorageDriver)
	}

	_, err = LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     validSecret,
		"STORAGE_DRIVER": "postgres",
	}))
	if err == nil || !strings.Contains(err.Error(), "STORAGE_DRIVER") {
		t.Fatalf("expected STORAGE_DRIVER validation error, got %v", err)
	}
}

func TestLoadWith_Production(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": validSecret,
		"ENV":        "Production",
		"LOG_PRETTY": "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogPretty {
		t.Error("production must log JSON")
	}

	_, err = LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     validSecret,
		"ENV":            "production",
		"STORAGE_DRIVER": "memory",
	}))
	if err == nil || !strings.Contains(err.Error(), "not allowed in production") {
		t.Fatalf("expected memory driver to be refused in production, got %v", err)
	}
}

func TestLoadWith_RedisSettings(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     validSecret,
		"REDIS_PASSWORD": "s3cret",
		"REDIS_TIMEOUT":  "2s",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.Password != "s3cret" || cfg.Redis.Timeout != 2*time.Second {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
}
