package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/auth"
	"go-inventory-tracker/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type stubAuthenticator map[string]auth.Principal

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (auth.Principal, error) {
	p, ok := s[token]
	if !ok {
		return auth.Principal{}, apperror.Auth("invalid or expired token")
	}
	return p, nil
}

func send(t *testing.T, app *fiber.App, method, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode
}

func TestRequireAuthAndRole(t *testing.T) {
	users := stubAuthenticator{
		"admin-token": {UserID: uuid.New(), Username: "root", Role: model.RoleAdmin},
		"user-token":  {UserID: uuid.New(), Username: "clerk", Role: model.RoleUser},
	}

	app := fiber.New()
	app.Get("/me", RequireAuth(users), func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(p.Username)
	})
	app.Get("/admin", RequireAuth(users), RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/me", "", http.StatusUnauthorized},
		{"unknown token", "/me", "stale", http.StatusUnauthorized},
		{"valid token", "/me", "user-token", http.StatusOK},
		{"user on admin route", "/admin", "user-token", http.StatusForbidden},
		{"admin on admin route", "/admin", "admin-token", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := send(t, app, http.MethodGet, tt.path, tt.token); got != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, got)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token user-token")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-bearer scheme, got %d", resp.StatusCode)
	}
}

func TestLoginLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginLimiter(2, time.Minute, nil), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		if got := send(t, app, http.MethodPost, "/login", ""); got != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, got)
		}
	}
	if got := send(t, app, http.MethodPost, "/login", ""); got != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", got)
	}
}

func TestHumanizeWindow(t *testing.T) {
	cases := map[time.Duration]string{
		15 * time.Minute: "15 minutes",
		time.Minute:      "1 minute",
		90 * time.Second: "1m30s",
	}
	for in, want := range cases {
		if got := humanizeWindow(in); got != want {
			t.Errorf("humanizeWindow(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	log, hook := test.NewNullLogger()

	app := fiber.New()
	app.Use(RequestLogger(log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusNotFound, "nope") })
	app.Get("/boom", func(c *fiber.Ctx) error { return apperror.New(apperror.KindInternal, "boom") })

	tests := []struct {
		path   string
		status int
		level  logrus.Level
	}{
		{"/ok", http.StatusOK, logrus.InfoLevel},
		{"/missing", http.StatusNotFound, logrus.WarnLevel},
		{"/boom", http.StatusInternalServerError, logrus.ErrorLevel},
	}
	for _, tt := range tests {
		hook.Reset()
		if got := send(t, app, http.MethodGet, tt.path, ""); got != tt.status {
			t.Fatalf("%s: expected %d, got %d", tt.path, tt.status, got)
		}
		entry := hook.LastEntry()
		if entry == nil {
			t.Fatalf("%s: nothing logged", tt.path)
		}
		if entry.Level != tt.level || entry.Data["status_code"] != tt.status || entry.Data["path"] != tt.path {
			t.Fatalf("%s: unexpected entry level=%s data=%v", tt.path, entry.Level, entry.Data)
		}
	}
}
