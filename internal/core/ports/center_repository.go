package ports

import (
	"context"

	"github.com/gymcore/gym-api/internal/core/domain"
)

// CenterRepository persists gym locations.
type CenterRepository interface {
	Create(ctx context.Context, center *domain.Center) error
	FindByID(ctx context.Context, id string) (*domain.Center, error)
	List(ctx context.Context) ([]domain.Center, error)
	Update(ctx context.Context, center *domain.Center) error
	// Delete removes the center unless some user is currently present there,
	// in which case it returns domain.ErrCenterInUse.
	Delete(ctx context.Context, id string) error
}
