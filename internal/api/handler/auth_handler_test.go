package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gymcore/gym-api/internal/api/middleware"
	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	meFn       func(ctx context.Context, caller domain.Identity) (*domain.PublicUser, error)
	profileFn  func(ctx context.Context, caller domain.Identity, in ports.ProfileInput) (*domain.PublicUser, error)
	passwordFn func(ctx context.Context, caller domain.Identity, current, next string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, caller domain.Identity) (*domain.PublicUser, error) {
	return s.meFn(ctx, caller)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, caller domain.Identity, in ports.ProfileInput) (*domain.PublicUser, error) {
	return s.profileFn(ctx, caller, in)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, caller domain.Identity, current, next string) error {
	return s.passwordFn(ctx, caller, current, next)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error) {
			if in.Email != "alice@example.com" || in.Name != "Alice" {
				t.Fatalf("unexpected args: %+v", in)
			}
			return &domain.PublicUser{ID: "u1", Email: in.Email, Name: in.Name, Role: domain.RoleMember, Status: domain.StatusPending}, nil
		},
	}
	handler := NewAuthHandler(stub, false)

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"correct-horse"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decode(t, rec)
	user, ok := resp["data"].(map[string]any)
	if !ok || resp["success"] != true {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if user["status"] != "pending" || user["role"] != "member" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("password hash must not be serialised")
	}
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.PublicUser, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}, false)

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Bob","password":"short"}`)
	c := e.NewContext(req, httptest.NewRecorder())

	err := handler.Register(c)
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "email is required") {
		t.Errorf("expected json field name in message, got %q", err.Error())
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.PublicUser, error) {
			return nil, domain.ErrUserExists
		},
	}, false)

	req := jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Bob","email":"bob@example.com","password":"long-enough"}`)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	e := newTestEcho()
	exp := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return &ports.LoginResult{Token: "signed.jwt.token", ExpiresAt: exp, User: domain.PublicUser{ID: "u1"}}, nil
		},
	}, true)

	req := jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"correct-horse"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["token"] != "signed.jwt.token" {
		t.Fatalf("expected token in body, got %+v", resp)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.TokenCookie || cookies[0].Value != "signed.jwt.token" {
		t.Fatalf("expected token cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Errorf("cookie should be HttpOnly and Secure: %+v", cookies[0])
	}
}

func TestAuthHandler_Login_InactiveAccount(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrAccountInactive
		},
	}, false)

	req := jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"x"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie should be set on failure")
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, false)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Me_RequiresIdentity(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, false)
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), httptest.NewRecorder())

	if err := handler.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		profileFn: func(ctx context.Context, caller domain.Identity, in ports.ProfileInput) (*domain.PublicUser, error) {
			if caller.UserID != "u1" {
				t.Fatalf("unexpected caller %+v", caller)
			}
			if in.Name == nil || *in.Name != "Alicia" || !in.ClearFavorite {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.PublicUser{ID: "u1", Name: *in.Name}, nil
		},
	}, false)

	req := jsonRequest(http.MethodPut, "/api/auth/me", `{"name":"Alicia","clearFavorite":true}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetIdentity(c, domain.Identity{UserID: "u1", Role: domain.RoleMember})

	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		passwordFn: func(ctx context.Context, caller domain.Identity, current, next string) error {
			if current != "old-password" || next != "new-password" {
				t.Fatalf("unexpected args %q %q", current, next)
			}
			return nil
		},
	}, false)

	req := jsonRequest(http.MethodPut, "/api/auth/me/password", `{"currentPassword":"old-password","newPassword":"new-password"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetIdentity(c, domain.Identity{UserID: "u1", Role: domain.RoleMember})

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
