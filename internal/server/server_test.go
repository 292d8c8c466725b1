package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t)

	_, _ = s.App.Test(httptest.NewRequest("GET", "/health", nil))
	resp, err := s.App.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil || resp.StatusCode != 200 {
		t.Fatalf("metrics request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `http_requests_total{method="GET",path="/health",status="200"}`) {
		t.Fatalf("expected health request to be counted")
	}
}

func TestProtectedRoutesUseErrorEnvelope(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/posts/new"},
		{http.MethodPatch, "/posts/p1"},
		{http.MethodDelete, "/posts/p1"},
		{http.MethodPatch, "/posts/p1/like"},
		{http.MethodPatch, "/posts/p1/unlike"},
		{http.MethodGet, "/users/profile"},
		{http.MethodGet, "/users/u1/likes"},
		{http.MethodGet, "/notifications/alice"},
		{http.MethodPost, "/media/upload"},
		{http.MethodGet, "/stream/notifications/alice"},
	}
	for _, tc := range cases {
		resp, err := s.App.Test(httptest.NewRequest(tc.method, tc.path, nil))
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["ERROR"] == "" {
			t.Fatalf("%s %s: expected error envelope, got %v", tc.method, tc.path, body)
		}
	}
}

func TestErrorHandlerPlainError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500")
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["ERROR"] != "boom" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestNewServerWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewServer(config.Config{JWTSecret: "secret"}, nil, client)
	if s.Stream == nil || s.Redis != client {
		t.Fatalf("expected hub wired to redis")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
