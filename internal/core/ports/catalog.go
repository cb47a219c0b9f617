package ports

import (
	"context"

	"github.com/gymcore/gym-api/internal/core/domain"
)

// ListFilter narrows catalog and plan listings. Empty fields do not filter.
type ListFilter struct {
	CenterID string
	OwnerID  string
	Page     int
	Limit    int
}

// Repository is the generic row store backing catalog and plan resources.
type Repository[T any] interface {
	Create(ctx context.Context, item *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, filter ListFilter) ([]T, int64, error)
	// Update replaces the mutable columns of item and, for records with
	// children, the children themselves.
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

// Page is one slice of a listing.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// CatalogService exposes CRUD over a center-scoped resource.
type CatalogService[T any] interface {
	List(ctx context.Context, caller domain.Identity, filter ListFilter) (*Page[T], error)
	Get(ctx context.Context, caller domain.Identity, id string) (*T, error)
	Create(ctx context.Context, caller domain.Identity, item *T) (*T, error)
	Update(ctx context.Context, caller domain.Identity, id string, item *T) (*T, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}
