package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %s", cfg.Port)
	}
	if cfg.JWT.Expiry != 14*24*time.Hour {
		t.Fatalf("expected 14 day token expiry, got %s", cfg.JWT.Expiry)
	}
	if cfg.LoginRateLimit != 5 || cfg.LoginRateWindow != 15*time.Minute {
		t.Fatalf("unexpected login rate limit %d/%s", cfg.LoginRateLimit, cfg.LoginRateWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.JWT.Expiry != 2*time.Hour {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if got := cfg.AllowedOrigins(); got != "http://a.test,http://b.test" {
		t.Fatalf("unexpected origins %q", got)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestDSN(t *testing.T) {
	d := Database{URL: "postgres://x"}
	if d.DSN() != "postgres://x" {
		t.Fatalf("expected DATABASE_URL to win, got %s", d.DSN())
	}
	d = Database{Host: "h", User: "u", Password: "p", Name: "n", Port: "1"}
	want := "host=h user=u password=p dbname=n port=1 sslmode=disable TimeZone=UTC"
	if d.DSN() != want {
		t.Fatalf("got %s", d.DSN())
	}
}
