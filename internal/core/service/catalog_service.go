package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// CatalogPolicy describes who may touch a center-scoped resource beyond the
// ownership gate applied to every mutation.
type CatalogPolicy[T any] struct {
	Resource string
	// ReadRoles may list and get. Empty allows every authenticated caller.
	ReadRoles []domain.Role
	// OpenRoles may create rows at any existing center without managing it.
	OpenRoles []domain.Role
	// OnCreate runs before insert, after the ownership gate.
	OnCreate func(caller domain.Identity, item *T)
	// OnUpdate runs before update with the stored row.
	OnUpdate func(existing, item *T)
}

// CatalogService is the generic CRUD service for rows owned by a center.
type CatalogService[T any, P domain.CenterRecord[T]] struct {
	repo    ports.Repository[T]
	centers ports.CenterRepository
	policy  CatalogPolicy[T]
	log     zerolog.Logger
}

func NewCatalogService[T any, P domain.CenterRecord[T]](
	repo ports.Repository[T],
	centers ports.CenterRepository,
	policy CatalogPolicy[T],
	log zerolog.Logger,
) *CatalogService[T, P] {
	return &CatalogService[T, P]{
		repo:    repo,
		centers: centers,
		policy:  policy,
		log:     log.With().Str("resource", policy.Resource).Logger(),
	}
}

func (s *CatalogService[T, P]) List(ctx context.Context, caller domain.Identity, filter ports.ListFilter) (*ports.Page[T], error) {
	if err := s.requireRead(caller); err != nil {
		return nil, err
	}
	if caller.HasRole(domain.RoleCenterAdmin) {
		if filter.CenterID == "" {
			filter.CenterID = caller.CenterID
		}
		if err := caller.RequireCenter(filter.CenterID); err != nil {
			return nil, err
		}
	}

	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.Page[T]{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *CatalogService[T, P]) Get(ctx context.Context, caller domain.Identity, id string) (*T, error) {
	if err := s.requireRead(caller); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.HasRole(domain.RoleCenterAdmin) {
		if err := caller.RequireCenter(P(item).GetCenterID()); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (s *CatalogService[T, P]) Create(ctx context.Context, caller domain.Identity, item *T) (*T, error) {
	centerID := P(item).GetCenterID()
	if !caller.HasRole(s.policy.OpenRoles...) {
		if err := caller.RequireCenter(centerID); err != nil {
			return nil, err
		}
	}
	if _, err := s.centers.FindByID(ctx, centerID); err != nil {
		return nil, err
	}

	P(item).SetID(uuid.NewString())
	if s.policy.OnCreate != nil {
		s.policy.OnCreate(caller, item)
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.log.Debug().Str("id", P(item).GetID()).Str("center_id", centerID).Str("by", caller.UserID).Msg("created")
	return item, nil
}

// Update replaces a row. The caller must manage both the stored center and
// the requested one.
func (s *CatalogService[T, P]) Update(ctx context.Context, caller domain.Identity, id string, item *T) (*T, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldCenter, newCenter := P(existing).GetCenterID(), P(item).GetCenterID()
	if err := caller.RequireCenter(oldCenter); err != nil {
		return nil, err
	}
	if newCenter != oldCenter {
		if err := caller.RequireCenter(newCenter); err != nil {
			return nil, err
		}
		if _, err := s.centers.FindByID(ctx, newCenter); err != nil {
			return nil, err
		}
	}

	P(item).SetID(id)
	if s.policy.OnUpdate != nil {
		s.policy.OnUpdate(existing, item)
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService[T, P]) Delete(ctx context.Context, caller domain.Identity, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := caller.RequireCenter(P(existing).GetCenterID()); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug().Str("id", id).Str("by", caller.UserID).Msg("deleted")
	return nil
}

func (s *CatalogService[T, P]) requireRead(caller domain.Identity) error {
	if len(s.policy.ReadRoles) == 0 || caller.HasRole(s.policy.ReadRoles...) {
		return nil
	}
	return domain.ErrForbidden
}

// TicketPolicy lets any staff member or member open a ticket. The reporter is
// always the caller and is preserved across updates.
func TicketPolicy() CatalogPolicy[domain.Ticket] {
	return CatalogPolicy[domain.Ticket]{
		Resource:  "tickets",
		ReadRoles: []domain.Role{domain.RoleAdmin, domain.RoleCenterAdmin, domain.RoleTrainer, domain.RoleCleaner},
		OpenRoles: []domain.Role{domain.RoleTrainer, domain.RoleCleaner, domain.RoleMember},
		OnCreate: func(caller domain.Identity, t *domain.Ticket) {
			t.ReporterID = caller.UserID
			if t.Status == "" {
				t.Status = domain.TicketOpen
			}
		},
		OnUpdate: func(existing, t *domain.Ticket) {
			t.ReporterID = existing.ReporterID
			if t.Status == "" {
				t.Status = existing.Status
			}
		},
	}
}

func ClassPolicy() CatalogPolicy[domain.Class] {
	return CatalogPolicy[domain.Class]{Resource: "classes"}
}

func MachinePolicy() CatalogPolicy[domain.Machine] {
	return CatalogPolicy[domain.Machine]{
		Resource: "machines",
		OnCreate: func(_ domain.Identity, m *domain.Machine) {
			if m.Status == "" {
				m.Status = domain.MachineOperational
			}
		},
		OnUpdate: func(existing, m *domain.Machine) {
			if m.Status == "" {
				m.Status = existing.Status
			}
		},
	}
}

func MembershipPolicy() CatalogPolicy[domain.Membership] {
	return CatalogPolicy[domain.Membership]{
		Resource:  "memberships",
		ReadRoles: []domain.Role{domain.RoleAdmin, domain.RoleCenterAdmin},
	}
}
