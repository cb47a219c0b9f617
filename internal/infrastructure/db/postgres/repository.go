package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// Repository is a generic gorm-backed ports.Repository.
//
// Catalog rows are updated in place. Plan rows own an ordered list of
// children, so an update replaces the parent and all of its children inside
// one transaction while preserving the original creation time.
type Repository[T any, P domain.Record[T]] struct {
	db       *gorm.DB
	children string // has-many association to preload and replace
}

// NewCatalogRepository returns a repository for flat center-scoped rows.
func NewCatalogRepository[T any, P domain.Record[T]](db *gorm.DB) *Repository[T, P] {
	return &Repository[T, P]{db: db}
}

// NewPlanRepository returns a repository for rows with an ordered has-many
// association named children.
func NewPlanRepository[T any, P domain.Record[T]](db *gorm.DB, children string) *Repository[T, P] {
	return &Repository[T, P]{db: db, children: children}
}

func (r *Repository[T, P]) Create(ctx context.Context, item *T) error {
	err := r.db.WithContext(ctx).Omit(r.omitOnWrite()...).Create(item).Error
	return translate(err, domain.ErrResourceNotFound, domain.ErrResourceExists)
}

func (r *Repository[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	item := new(T)
	if err := r.preload(r.db.WithContext(ctx)).First(item, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrResourceNotFound, domain.ErrResourceExists)
	}
	return item, nil
}

func (r *Repository[T, P]) List(ctx context.Context, f ports.ListFilter) ([]T, int64, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	if f.CenterID != "" {
		q = q.Where("center_id = ?", f.CenterID)
	}
	if f.OwnerID != "" {
		q = q.Where("user_id = ?", f.OwnerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []T
	err := r.preload(q).
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Repository[T, P]) Update(ctx context.Context, item *T) error {
	if r.children != "" {
		return r.replace(ctx, item)
	}

	res := r.db.WithContext(ctx).Model(item).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(item)
	if res.Error != nil {
		return translate(res.Error, domain.ErrResourceNotFound, domain.ErrResourceExists)
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

// replace deletes the stored row (children cascade) and inserts item with
// the same id.
func (r *Repository[T, P]) replace(ctx context.Context, item *T) error {
	id := P(item).GetID()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var created []time.Time
		if err := tx.Model(new(T)).Where("id = ?", id).Pluck("created_at", &created).Error; err != nil {
			return err
		}
		if len(created) == 0 {
			return domain.ErrResourceNotFound
		}

		if err := tx.Delete(new(T), "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Omit(r.omitOnWrite()...).Create(item).Error; err != nil {
			return translate(err, domain.ErrResourceNotFound, domain.ErrResourceExists)
		}
		return tx.Model(new(T)).Where("id = ?", id).UpdateColumn("created_at", created[0]).Error
	})
}

func (r *Repository[T, P]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, domain.ErrResourceNotFound, domain.ErrResourceExists)
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func (r *Repository[T, P]) preload(q *gorm.DB) *gorm.DB {
	if r.children == "" {
		return q
	}
	return q.Preload(r.children, func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

// omitOnWrite skips belongs-to associations so a write never upserts the
// referenced center or user. The children association is kept.
func (r *Repository[T, P]) omitOnWrite() []string {
	return []string{"Center", "User", "Trainer", "Machine", "Reporter"}
}
