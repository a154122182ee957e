package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/field/repository"
)

type fieldRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.FieldRepository { return &fieldRepo{db} }

func (r *fieldRepo) Create(ctx context.Context, f *entities.Field) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("create field: %w", err)
	}
	return nil
}

func (r *fieldRepo) FindByID(ctx context.Context, id uint) (*entities.Field, error) {
	return find(r.db.WithContext(ctx), id)
}

func find(db *gorm.DB, id uint) (*entities.Field, error) {
	var f entities.Field
	if err := db.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("field %d not found", id)
		}
		return nil, fmt.Errorf("load field: %w", err)
	}
	return &f, nil
}

func (r *fieldRepo) List(ctx context.Context, f repository.Filter) ([]entities.Field, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var out []entities.Field
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return out, nil
}

func (r *fieldRepo) Update(ctx context.Context, id, ownerID uint, cols map[string]any) (*entities.Field, error) {
	var out *entities.Field
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := find(tx, id)
		if err != nil {
			return err
		}
		if f.OwnerID != ownerID {
			return apperr.PermissionDenied("field %d belongs to another account", id)
		}
		if len(cols) > 0 {
			if err := tx.Model(f).Updates(cols).Error; err != nil {
				return fmt.Errorf("update field: %w", err)
			}
		}
		out, err = find(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *fieldRepo) Delete(ctx context.Context, id, ownerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
DELETE FROM fields
WHERE id = ? AND owner_id = ?
  AND NOT EXISTS (SELECT 1 FROM treatment_requests q WHERE q.field_id = fields.id)`, id, ownerID)
		if res.Error != nil {
			return fmt.Errorf("delete field: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			f, err := find(tx, id)
			if err != nil {
				return err
			}
			if f.OwnerID != ownerID {
				return apperr.PermissionDenied("field %d belongs to another account", id)
			}
			return apperr.Validation("field %d still has treatment requests", id)
		}
		if err := tx.Where("field_id = ?", id).Delete(&entities.NDVIReading{}).Error; err != nil {
			return fmt.Errorf("delete readings: %w", err)
		}
		return nil
	})
}
