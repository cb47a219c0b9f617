package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserService implements administrative account management.
type UserService struct {
	users   ports.UserRepository
	centers ports.CenterRepository
	log     zerolog.Logger
}

func NewUserService(users ports.UserRepository, centers ports.CenterRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, centers: centers, log: log}
}

// List returns a page of users. Center admins only see their own center.
func (s *UserService) List(ctx context.Context, caller domain.Identity, filter ports.UserFilter) (*ports.ListUsersResult, error) {
	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleCenterAdmin:
		if filter.CenterID == "" {
			filter.CenterID = caller.CenterID
		}
		if err := caller.RequireCenter(filter.CenterID); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrForbidden
	}

	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		items = append(items, users[i].Public())
	}
	return &ports.ListUsersResult{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Get returns one user visible to caller.
func (s *UserService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.UserID != user.ID {
		if err := s.requireManages(caller, user); err != nil {
			return nil, err
		}
	}
	pub := user.Public()
	return &pub, nil
}

// Create adds an account administratively. Center admins may only create
// trainers, cleaners and members for their own center.
func (s *UserService) Create(ctx context.Context, caller domain.Identity, in ports.CreateUserInput) (*domain.PublicUser, error) {
	if !in.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, domain.Invalid("name and email are required")
	}

	assigned := in.AssignedCenterID
	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleCenterAdmin:
		if in.Role == domain.RoleAdmin || in.Role == domain.RoleCenterAdmin {
			return nil, domain.ErrForbidden
		}
		if assigned == nil {
			own := caller.CenterID
			assigned = &own
		}
		if err := caller.RequireCenter(*assigned); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrForbidden
	}
	if err := s.checkAssignment(ctx, in.Role, assigned); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusActive
	}
	if _, err := domain.ParseUserStatus(string(status)); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:               uuid.NewString(),
		Email:            email,
		Name:             name,
		PasswordHash:     hash,
		Role:             in.Role,
		Status:           status,
		AssignedCenterID: assigned,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Str("by", caller.UserID).Msg("user created")
	pub := user.Public()
	return &pub, nil
}

// UpdateStatus moves a user through the pending/active/inactive lifecycle.
func (s *UserService) UpdateStatus(ctx context.Context, caller domain.Identity, id string, status domain.UserStatus) (*domain.PublicUser, error) {
	if _, err := domain.ParseUserStatus(string(status)); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireManages(caller, user); err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && (user.Role == domain.RoleAdmin || user.Role == domain.RoleCenterAdmin) {
		return nil, domain.ErrForbidden
	}

	previous := user.Status
	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if previous == domain.StatusPending && status == domain.StatusActive {
		s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user activated")
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateRole changes a user's role and staff assignment. Admin only.
func (s *UserService) UpdateRole(ctx context.Context, caller domain.Identity, id string, role domain.Role, assignedCenterID *string) (*domain.PublicUser, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignedCenterID == nil && role.Staff() {
		assignedCenterID = user.AssignedCenterID
	}
	if !role.Staff() {
		assignedCenterID = nil
	}
	if err := s.checkAssignment(ctx, role, assignedCenterID); err != nil {
		return nil, err
	}

	user.Role = role
	user.AssignedCenterID = assignedCenterID
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Str("by", caller.UserID).Msg("user role changed")
	pub := user.Public()
	return &pub, nil
}

// Delete removes an account. Admin only; admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if caller.UserID == id {
		return domain.Invalid("you cannot delete your own account")
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// requireManages applies the ownership gate to a user row: the user must be
// assigned to or present at a center the caller manages.
func (s *UserService) requireManages(caller domain.Identity, user *domain.User) error {
	if caller.IsAdmin() {
		return nil
	}
	for _, c := range []*string{user.AssignedCenterID, user.CurrentCenterID} {
		if c != nil && caller.CanManageCenter(*c) {
			return nil
		}
	}
	if caller.HasRole(domain.RoleCenterAdmin) {
		return domain.ErrWrongCenter
	}
	return domain.ErrForbidden
}

func (s *UserService) checkAssignment(ctx context.Context, role domain.Role, centerID *string) error {
	if role == domain.RoleCenterAdmin && centerID == nil {
		return domain.Invalid("center admins must be assigned to a center")
	}
	if centerID == nil {
		return nil
	}
	_, err := s.centers.FindByID(ctx, *centerID)
	return err
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
