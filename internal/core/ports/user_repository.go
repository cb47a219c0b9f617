package ports

import (
	"context"

	"github.com/gymcore/gym-api/internal/core/domain"
)

// UserFilter narrows user listings. An empty CenterID lists every user.
type UserFilter struct {
	CenterID string // matches assigned or current center
	Role     domain.Role
	Status   domain.UserStatus
	Page     int
	Limit    int
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error)
	// ListPresent returns every user whose current center is centerID.
	ListPresent(ctx context.Context, centerID string) ([]domain.User, error)
	// Update writes the profile columns (name, role, status, favorite and
	// assigned center, password hash). It never touches current_center_id.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error

	// SwapCurrentCenter atomically sets current_center_id to `to` only if it
	// still equals `from` (nil meaning NULL). It reports whether a row changed.
	SwapCurrentCenter(ctx context.Context, userID string, from, to *string) (bool, error)
}
