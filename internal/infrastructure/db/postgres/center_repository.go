package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// CenterRepository implements ports.CenterRepository on PostgreSQL.
type CenterRepository struct {
	db *gorm.DB
}

func NewCenterRepository(db *gorm.DB) *CenterRepository {
	return &CenterRepository{db: db}
}

var _ ports.CenterRepository = (*CenterRepository)(nil)

func (r *CenterRepository) Create(ctx context.Context, c *domain.Center) error {
	err := r.db.WithContext(ctx).Create(c).Error
	return translate(err, domain.ErrCenterNotFound, domain.ErrCenterExists)
}

func (r *CenterRepository) FindByID(ctx context.Context, id string) (*domain.Center, error) {
	var c domain.Center
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrCenterNotFound, domain.ErrCenterExists)
	}
	return &c, nil
}

func (r *CenterRepository) List(ctx context.Context) ([]domain.Center, error) {
	var centers []domain.Center
	err := r.db.WithContext(ctx).Order("name").Find(&centers).Error
	return centers, err
}

func (r *CenterRepository) Update(ctx context.Context, c *domain.Center) error {
	res := r.db.WithContext(ctx).Model(c).
		Select("name", "address", "city", "postal_code", "phone", "updated_at").
		Updates(c)
	if res.Error != nil {
		return translate(res.Error, domain.ErrCenterNotFound, domain.ErrCenterExists)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCenterNotFound
	}
	return nil
}

// Delete locks the center row, refuses while anyone is present and removes
// it otherwise. Favorite and assigned references fall back to NULL and
// center-scoped rows cascade.
func (r *CenterRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Center
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
		if err != nil {
			return translate(err, domain.ErrCenterNotFound, domain.ErrCenterExists)
		}

		var present int64
		if err := tx.Model(&domain.User{}).Where("current_center_id = ?", id).Count(&present).Error; err != nil {
			return err
		}
		if present > 0 {
			return domain.ErrCenterInUse
		}
		return tx.Delete(&c).Error
	})
}
