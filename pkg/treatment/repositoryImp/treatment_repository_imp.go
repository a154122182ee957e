package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment/repository"
)

type treatmentRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.TreatmentRepository { return &treatmentRepo{db} }

func (r *treatmentRepo) FindByID(ctx context.Context, id uint) (*entities.Treatment, error) {
	return find(r.db.WithContext(ctx), id)
}

func find(db *gorm.DB, id uint) (*entities.Treatment, error) {
	var t entities.Treatment
	if err := db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("treatment %d not found", id)
		}
		return nil, fmt.Errorf("load treatment: %w", err)
	}
	return &t, nil
}

func (r *treatmentRepo) List(ctx context.Context, f repository.Filter) ([]entities.Treatment, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if f.AgronomistID != 0 {
		q = q.Where("agronomist_id = ?", f.AgronomistID)
	}
	if f.FarmerID != 0 {
		q = q.Where("farmer_id = ?", f.FarmerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []entities.Treatment
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}
	return out, nil
}

// cas runs update inside a transaction and reloads the row. When update
// matched nothing, explain classifies the current row.
func (r *treatmentRepo) cas(ctx context.Context, id uint, update func(tx *gorm.DB) *gorm.DB, explain func(*entities.Treatment) error) (*entities.Treatment, error) {
	var out *entities.Treatment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := update(tx)
		if res.Error != nil {
			return fmt.Errorf("update treatment: %w", res.Error)
		}
		cur, err := find(tx, id)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return explain(cur)
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *treatmentRepo) Transition(ctx context.Context, id uint, from entities.TreatmentStatus, cols map[string]any) (*entities.Treatment, error) {
	return r.cas(ctx, id,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&entities.Treatment{}).Where("id = ? AND status = ?", id, from).Updates(cols)
		},
		func(cur *entities.Treatment) error {
			return apperr.InvalidTransition("treatment %d is %s, expected %s", id, cur.Status, from)
		})
}

func (r *treatmentRepo) ConfirmByFarmer(ctx context.Context, id uint, at time.Time) (*entities.Treatment, error) {
	return r.cas(ctx, id,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&entities.Treatment{}).
				Where("id = ? AND status = ? AND agronomist_confirmed = ? AND farmer_confirmed = ?",
					id, entities.TreatmentVerified, true, false).
				Updates(map[string]any{"farmer_confirmed": true, "farmer_confirmed_at": at})
		},
		func(cur *entities.Treatment) error {
			if err := treatment.CanFarmerConfirm(cur); err != nil {
				return err
			}
			return apperr.InvalidTransition("treatment %d changed concurrently", id)
		})
}
