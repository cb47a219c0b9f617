package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gymcore/gym-api/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_KindTableIsExhaustive(t *testing.T) {
	kinds := []domain.ErrorKind{
		domain.KindInternal,
		domain.KindValidation,
		domain.KindUnauthenticated,
		domain.KindForbidden,
		domain.KindNotFound,
		domain.KindConflict,
	}
	for _, k := range kinds {
		if _, ok := kindStatus[k]; !ok {
			t.Errorf("kind %s has no status", k)
		}
	}
	if len(kindStatus) != len(kinds) {
		t.Errorf("status table has %d entries, expected %d", len(kindStatus), len(kinds))
	}
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrScanTokenExpired, http.StatusBadRequest},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrWrongCenter, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrAlreadyRegisteredElsewhere, http.StatusConflict},
		{domain.ErrNotRegisteredHere, http.StatusConflict},
		{fmt.Errorf("scan: %w", domain.ErrCenterNotFound), http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			code, body := render(t, tc.err)
			if code != tc.code {
				t.Errorf("expected %d, got %d", tc.code, code)
			}
			if body.Success {
				t.Error("expected success=false")
			}
			var de *domain.Error
			errors.As(tc.err, &de)
			if body.Error != de.Msg {
				t.Errorf("expected message %q, got %q", de.Msg, body.Error)
			}
		})
	}
}

func TestErrorHandler_UnclassifiedIsGeneric(t *testing.T) {
	code, body := render(t, errors.New("pq: connection refused to 10.0.0.5"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal detail leaked: %q", body.Error)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := render(t, echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"))
	if code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if body.Error != "rate limit exceeded" {
		t.Errorf("unexpected message %q", body.Error)
	}
}
