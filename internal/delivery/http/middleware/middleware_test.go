package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jdmatch/internal/pkg/jwt"
	"jdmatch/internal/pkg/logger"
	"jdmatch/internal/pkg/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	var env envelope
	if len(b) > 0 {
		if err := json.Unmarshal(b, &env); err != nil {
			t.Fatalf("decode %s: %v", b, err)
		}
	}
	return resp, env
}

func TestErrorMiddleware(t *testing.T) {
	var logs bytes.Buffer
	lg, err := logger.New(logger.Options{Level: "debug", Format: "json", Output: &logs})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	app := fiber.New()
	app.Use(NewErrorMiddleware(lg).Middleware())
	app.Get("/bad", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusBadRequest, "Validation failed", fiber.Map{"field": "x"}, nil)
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password is hunter2", nil, errors.New("dial tcp"))
	})
	app.Get("/plain", func(c fiber.Ctx) error {
		return errors.New("raw failure")
	})
	app.Get("/unavailable", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusServiceUnavailable, "LLM client is not configured", nil, nil)
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("kaboom")
	})

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/bad", fiber.StatusBadRequest, "Validation failed"},
		{"/boom", fiber.StatusInternalServerError, "internal server error"},
		{"/plain", fiber.StatusInternalServerError, "internal server error"},
		{"/unavailable", fiber.StatusServiceUnavailable, "LLM client is not configured"},
		{"/panic", fiber.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, env := call(t, app, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if resp.StatusCode != tt.status || env.Status != tt.status {
				t.Fatalf("expected %d, got %d/%d", tt.status, resp.StatusCode, env.Status)
			}
			if env.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, env.Message)
			}
		})
	}

	if !strings.Contains(logs.String(), "dial tcp") {
		t.Fatalf("expected 5xx cause to be logged, got %s", logs.String())
	}
	if !strings.Contains(logs.String(), "kaboom") {
		t.Fatalf("expected panic to be logged")
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("secret", "", time.Hour)
	token, err := svc.GenerateAccessToken("alice", "")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Use(NewAuthMiddleware(svc).Middleware())
	app.Get("/users/:userId", func(c fiber.Ctx) error {
		if err := RequireOwner(c, c.Params("userId")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing", "/users/alice", "", fiber.StatusUnauthorized},
		{"wrong scheme", "/users/alice", "Basic " + token, fiber.StatusUnauthorized},
		{"owner", "/users/alice", "Bearer " + token, fiber.StatusNoContent},
		{"query token", "/users/alice?access_token=" + token, "", fiber.StatusNoContent},
		{"foreign owner", "/users/bob", "Bearer " + token, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, _ := call(t, app, req)
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestAuthMiddleware_DisabledAcceptsAnyOwner(t *testing.T) {
	app := fiber.New()
	app.Use(NewAuthMiddleware(nil).Middleware())
	app.Get("/users/:userId", func(c fiber.Ctx) error {
		if err := RequireOwner(c, c.Params("userId")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/anyone", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestAccessLogMiddleware_RequestID(t *testing.T) {
	var logs bytes.Buffer
	lg, _ := logger.New(logger.Options{Level: "info", Format: "json", Output: &logs})

	app := fiber.New()
	app.Use(NewAccessLogMiddleware(lg).Middleware())
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if got := resp.Header.Get(HeaderRequestID); got != "req-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
	if !strings.Contains(logs.String(), `"rid":"req-123"`) {
		t.Fatalf("expected request id in access log, got %s", logs.String())
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestMetricsMiddleware_LabelsByRoute(t *testing.T) {
	m := metrics.NewManager()

	app := fiber.New()
	app.Use(NewMetricsMiddleware(m).Middleware())
	app.Get("/items/:id", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, id := range []string{"1", "2", "3"} {
		if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id, nil)); err != nil {
			t.Fatalf("request: %v", err)
		}
	}

	if n, err := testutil.GatherAndCount(m.Registry(), "jdmatch_http_requests_total"); err != nil || n != 1 {
		t.Fatalf("expected a single route series, got %d (err=%v)", n, err)
	}
}
