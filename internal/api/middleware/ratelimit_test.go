package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestLoginRateLimit_DeniesBurst(t *testing.T) {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, LoginRateLimit(1))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK {
		t.Fatalf("first request should pass, got %d", codes[0])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the bucket is empty, got %v", codes)
	}
}

func TestLoginRateLimit_PerClient(t *testing.T) {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, LoginRateLimit(1))

	for _, addr := range []string{"203.0.113.1:1000", "203.0.113.2:1000"} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("client %s should have its own bucket, got %d", addr, rec.Code)
		}
	}
}
