package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// PlanService is the generic CRUD service for rows owned by one user.
// Members act on their own plans; trainers and admins may act for anyone.
type PlanService[T any, P domain.OwnedRecord[T]] struct {
	repo  ports.Repository[T]
	users ports.UserRepository
	log   zerolog.Logger
}

func NewPlanService[T any, P domain.OwnedRecord[T]](repo ports.Repository[T], users ports.UserRepository, resource string, log zerolog.Logger) *PlanService[T, P] {
	return &PlanService[T, P]{
		repo:  repo,
		users: users,
		log:   log.With().Str("resource", resource).Logger(),
	}
}

func (s *PlanService[T, P]) List(ctx context.Context, caller domain.Identity, filter ports.ListFilter) (*ports.Page[T], error) {
	if filter.OwnerID == "" {
		filter.OwnerID = caller.UserID
	}
	if !caller.CanActFor(filter.OwnerID) {
		return nil, domain.ErrForbidden
	}
	filter.CenterID = ""

	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.Page[T]{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *PlanService[T, P]) Get(ctx context.Context, caller domain.Identity, id string) (*T, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanActFor(P(item).GetOwnerID()) {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// Create stores item for its owner, defaulting to the caller.
func (s *PlanService[T, P]) Create(ctx context.Context, caller domain.Identity, item *T) (*T, error) {
	owner := P(item).GetOwnerID()
	if owner == "" {
		owner = caller.UserID
	}
	if !caller.CanActFor(owner) {
		return nil, domain.ErrForbidden
	}
	if owner != caller.UserID {
		if _, err := s.users.FindByID(ctx, owner); err != nil {
			return nil, err
		}
	}

	P(item).SetID(uuid.NewString())
	P(item).Prepare(owner)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.log.Debug().Str("id", P(item).GetID()).Str("owner_id", owner).Str("by", caller.UserID).Msg("created")
	return item, nil
}

// Update replaces a plan and all of its entries. The owner never changes.
func (s *PlanService[T, P]) Update(ctx context.Context, caller domain.Identity, id string, item *T) (*T, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := P(existing).GetOwnerID()
	if !caller.CanActFor(owner) {
		return nil, domain.ErrForbidden
	}

	P(item).SetID(id)
	P(item).Prepare(owner)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *PlanService[T, P]) Delete(ctx context.Context, caller domain.Identity, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanActFor(P(existing).GetOwnerID()) {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
