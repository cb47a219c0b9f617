package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// profileColumns are the columns Update may write. Presence is only moved
// by SwapCurrentCenter.
var profileColumns = []string{
	"name", "password_hash", "role", "status",
	"favorite_center_id", "assigned_center_id", "updated_at",
}

// UserRepository implements ports.UserRepository on PostgreSQL.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	return translate(err, domain.ErrUserNotFound, domain.ErrUserExists)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrUserNotFound, domain.ErrUserExists)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, domain.ErrUserNotFound, domain.ErrUserExists)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if f.CenterID != "" {
		q = q.Where("assigned_center_id = ? OR current_center_id = ?", f.CenterID, f.CenterID)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err := q.Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) ListPresent(ctx context.Context, centerID string) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("current_center_id = ?", centerID).
		Order("name").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Model(user).Select(profileColumns).Updates(user)
	if res.Error != nil {
		return translate(res.Error, domain.ErrUserNotFound, domain.ErrUserExists)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SwapCurrentCenter is a single conditional UPDATE, so concurrent scans for
// the same user serialize on the row and at most one of them matches.
func (r *UserRepository) SwapCurrentCenter(ctx context.Context, userID string, from, to *string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID)
	if from == nil {
		q = q.Where("current_center_id IS NULL")
	} else {
		q = q.Where("current_center_id = ?", *from)
	}

	res := q.UpdateColumns(map[string]interface{}{
		"current_center_id": to,
		"updated_at":        time.Now().UTC(),
	})
	if res.Error != nil {
		// The target center was deleted between the existence check and the swap.
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return false, domain.ErrCenterNotFound
		}
		return false, translate(res.Error, domain.ErrUserNotFound, domain.ErrUserExists)
	}
	return res.RowsAffected == 1, nil
}
