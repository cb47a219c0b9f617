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

// CenterService implements center management.
type CenterService struct {
	repo ports.CenterRepository
	log  zerolog.Logger
}

func NewCenterService(repo ports.CenterRepository, log zerolog.Logger) *CenterService {
	return &CenterService{repo: repo, log: log}
}

func (s *CenterService) List(ctx context.Context) ([]domain.CenterView, error) {
	centers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CenterView, 0, len(centers))
	for i := range centers {
		out = append(out, centers[i].View())
	}
	return out, nil
}

func (s *CenterService) Get(ctx context.Context, id string) (*domain.CenterView, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := c.View()
	return &v, nil
}

// Create adds a center. Admin only.
func (s *CenterService) Create(ctx context.Context, caller domain.Identity, in ports.CenterInput) (*domain.CenterView, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("name is required")
	}

	now := time.Now().UTC()
	c := &domain.Center{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	applyCenterInput(c, in)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().Str("center_id", c.ID).Str("name", c.Name).Msg("center created")
	v := c.View()
	return &v, nil
}

// Update edits a center the caller manages.
func (s *CenterService) Update(ctx context.Context, caller domain.Identity, id string, in ports.CenterInput) (*domain.CenterView, error) {
	if err := caller.RequireCenter(id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("name is required")
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyCenterInput(c, in)
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	v := c.View()
	return &v, nil
}

// Delete removes a center. Admin only; blocked while users are present.
func (s *CenterService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("center_id", id).Str("by", caller.UserID).Msg("center deleted")
	return nil
}

func applyCenterInput(c *domain.Center, in ports.CenterInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.PostalCode = strings.TrimSpace(in.PostalCode)
	c.Phone = strings.TrimSpace(in.Phone)
}
