package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gymcore/gym-api/internal/api/middleware"
	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

type stubUserService struct {
	lastFilter ports.UserFilter
	lastCreate ports.CreateUserInput
	lastStatus domain.UserStatus
	err        error
}

func (s *stubUserService) List(_ context.Context, _ domain.Identity, f ports.UserFilter) (*ports.ListUsersResult, error) {
	s.lastFilter = f
	return &ports.ListUsersResult{Items: []domain.PublicUser{{ID: "u1"}}, Total: 1, Page: 1, Limit: 20}, s.err
}

func (s *stubUserService) Get(context.Context, domain.Identity, string) (*domain.PublicUser, error) {
	return &domain.PublicUser{ID: "u1"}, s.err
}

func (s *stubUserService) Create(_ context.Context, _ domain.Identity, in ports.CreateUserInput) (*domain.PublicUser, error) {
	s.lastCreate = in
	return &domain.PublicUser{ID: "u2", Role: in.Role}, s.err
}

func (s *stubUserService) UpdateStatus(_ context.Context, _ domain.Identity, id string, st domain.UserStatus) (*domain.PublicUser, error) {
	s.lastStatus = st
	return &domain.PublicUser{ID: id, Status: st}, s.err
}

func (s *stubUserService) UpdateRole(_ context.Context, _ domain.Identity, id string, r domain.Role, _ *string) (*domain.PublicUser, error) {
	return &domain.PublicUser{ID: id, Role: r}, s.err
}

func (s *stubUserService) Delete(context.Context, domain.Identity, string) error { return s.err }

var admin = domain.Identity{UserID: "a1", Role: domain.RoleAdmin}

func TestUserHandler_ListFilters(t *testing.T) {
	svc := &stubUserService{}
	handler := NewUserHandler(svc)

	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users?role=trainer&status=active&center_id=c1", nil), rec)
	middleware.SetIdentity(c, admin)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	f := svc.lastFilter
	if f.Role != domain.RoleTrainer || f.Status != domain.StatusActive || f.CenterID != "c1" {
		t.Fatalf("unexpected filter %+v", f)
	}
	resp := decode(t, rec)
	pg, _ := resp["pagination"].(map[string]any)
	if pg["total"] != float64(1) {
		t.Fatalf("unexpected pagination %+v", resp)
	}
}

func TestUserHandler_ListRejectsUnknownRole(t *testing.T) {
	handler := NewUserHandler(&stubUserService{})
	e := newTestEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users?role=superuser", nil), httptest.NewRecorder())
	middleware.SetIdentity(c, admin)

	if err := handler.List(c); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserHandler_Create(t *testing.T) {
	svc := &stubUserService{}
	handler := NewUserHandler(svc)

	e := newTestEcho()
	body := `{"name":"Tess","email":"tess@example.com","password":"long-enough","role":"trainer","assignedCenterId":"` + centerUUID + `"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/users", body), rec)
	middleware.SetIdentity(c, admin)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	in := svc.lastCreate
	if in.Role != domain.RoleTrainer || in.AssignedCenterID == nil || *in.AssignedCenterID != centerUUID || in.Status != "" {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestUserHandler_CreateRejectsUnknownRole(t *testing.T) {
	handler := NewUserHandler(&stubUserService{})
	e := newTestEcho()
	body := `{"name":"Tess","email":"tess@example.com","password":"long-enough","role":"owner"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/users", body), httptest.NewRecorder())
	middleware.SetIdentity(c, admin)

	if err := handler.Create(c); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_UpdateStatus(t *testing.T) {
	svc := &stubUserService{}
	handler := NewUserHandler(svc)

	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/api/users/u1/status", `{"status":"active"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	middleware.SetIdentity(c, admin)

	if err := handler.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastStatus != domain.StatusActive {
		t.Fatalf("expected active, got %q", svc.lastStatus)
	}
}
