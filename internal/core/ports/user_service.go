package ports

import (
	"context"

	"github.com/gymcore/gym-api/internal/core/domain"
)

// CreateUserInput carries an administrative account creation.
type CreateUserInput struct {
	Email            string
	Name             string
	Password         string
	Role             domain.Role
	Status           domain.UserStatus
	AssignedCenterID *string
}

// ListUsersResult is one page of users.
type ListUsersResult struct {
	Items []domain.PublicUser
	Total int64
	Page  int
	Limit int
}

// UserService holds the administrative user operations.
type UserService interface {
	List(ctx context.Context, caller domain.Identity, filter UserFilter) (*ListUsersResult, error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.PublicUser, error)
	Create(ctx context.Context, caller domain.Identity, in CreateUserInput) (*domain.PublicUser, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, id string, status domain.UserStatus) (*domain.PublicUser, error)
	UpdateRole(ctx context.Context, caller domain.Identity, id string, role domain.Role, assignedCenterID *string) (*domain.PublicUser, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}

// CenterInput carries the writable fields of a center.
type CenterInput struct {
	Name       string
	Address    string
	City       string
	PostalCode string
	Phone      string
}

// CenterService holds center operations.
type CenterService interface {
	List(ctx context.Context) ([]domain.CenterView, error)
	Get(ctx context.Context, id string) (*domain.CenterView, error)
	Create(ctx context.Context, caller domain.Identity, in CenterInput) (*domain.CenterView, error)
	Update(ctx context.Context, caller domain.Identity, id string, in CenterInput) (*domain.CenterView, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}
