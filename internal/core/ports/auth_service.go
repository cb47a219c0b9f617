package ports

import (
	"context"
	"time"

	"github.com/gymcore/gym-api/internal/core/domain"
)

// TokenService issues and verifies bearer credentials.
type TokenService interface {
	Issue(user *domain.User) (string, time.Time, error)
	Verify(token string) (domain.Identity, error)
}

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// ProfileInput carries the fields a user may change on their own account.
type ProfileInput struct {
	Name             *string
	FavoriteCenterID *string
	ClearFavorite    bool
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.PublicUser
}

// AuthService handles registration, login and self-service profile changes.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.PublicUser, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, caller domain.Identity) (*domain.PublicUser, error)
	UpdateProfile(ctx context.Context, caller domain.Identity, in ProfileInput) (*domain.PublicUser, error)
	ChangePassword(ctx context.Context, caller domain.Identity, current, next string) error
}
