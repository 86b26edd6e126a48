package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("APP_ENV", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port: %q", cfg.Port)
	}
	if cfg.DatabaseDSN != "file:consignation.db" {
		t.Fatalf("dsn: %q", cfg.DatabaseDSN)
	}
	if cfg.Env != "development" {
		t.Fatalf("env: %q", cfg.Env)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DSN", "postgres://app@db/consignation")
	t.Setenv("APP_ENV", "production")
	cfg := Load()
	if cfg.Port != "9090" || cfg.Env != "production" {
		t.Fatalf("cfg: %#v", cfg)
	}
	if cfg.DatabaseDSN != "postgres://app@db/consignation" {
		t.Fatalf("dsn: %q", cfg.DatabaseDSN)
	}
}
