package config

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTP.Port)
	}
	if cfg.Registration.MaxFileSizeBytes != 5*1024*1024 {
		t.Fatalf("expected 5MB file limit, got %d", cfg.Registration.MaxFileSizeBytes)
	}
	if cfg.JWT.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h session TTL, got %s", cfg.JWT.SessionTTL)
	}
	if cfg.IsProduction() {
		t.Fatal("expected development environment by default")
	}
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com/api/v1/")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("REGISTRATION_MAX_SKILLS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production environment")
	}
	if cfg.HTTP.Port != "9090" {
		t.Fatalf("expected HTTP_PORT override, got %s", cfg.HTTP.Port)
	}
	if cfg.Backend.BaseURL != "https://api.example.com/api/v1" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Fatalf("expected BACKEND_TIMEOUT 5s, got %s", cfg.Backend.Timeout)
	}
	if cfg.Registration.MaxSkills != 3 {
		t.Fatalf("expected REGISTRATION_MAX_SKILLS 3, got %d", cfg.Registration.MaxSkills)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestNewConfigInvalidDuration(t *testing.T) {
	t.Setenv("JWT_SESSION_TTL", "forever")

	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
