package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/request/repository"
)

type requestRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.RequestRepository { return &requestRepo{db} }

func (r *requestRepo) Create(ctx context.Context, req *entities.Request, fallback float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f entities.Field
		if err := tx.Select("id", "owner_id").First(&f, req.FieldID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("field %d not found", req.FieldID)
			}
			return fmt.Errorf("load field: %w", err)
		}
		req.FarmerID = f.OwnerID

		var latest []entities.NDVIReading
		if err := tx.Where("field_id = ?", req.FieldID).Order("observed_at DESC, id DESC").Limit(1).Find(&latest).Error; err != nil {
			return fmt.Errorf("latest reading: %w", err)
		}
		if len(latest) == 1 {
			req.BeforeNDVI, req.NDVIEstimated = latest[0].Value, false
		} else {
			req.BeforeNDVI, req.NDVIEstimated = fallback, true
		}

		if err := tx.Create(req).Error; err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return nil
	})
}

func (r *requestRepo) FindByID(ctx context.Context, id uint) (*entities.Request, error) {
	return find(r.db.WithContext(ctx), id)
}

func find(db *gorm.DB, id uint) (*entities.Request, error) {
	var req entities.Request
	if err := db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("request %d not found", id)
		}
		return nil, fmt.Errorf("load request: %w", err)
	}
	return &req, nil
}

func (r *requestRepo) List(ctx context.Context, f repository.Filter) ([]entities.Request, error) {
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
	var out []entities.Request
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return out, nil
}

// decide is the compare-and-set on a pending request.
func decide(tx *gorm.DB, id uint, to entities.RequestStatus, cols map[string]any) error {
	cols["status"] = to
	res := tx.Model(&entities.Request{}).
		Where("id = ? AND status = ?", id, entities.RequestPending).
		Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		cur, err := find(tx, id)
		if err != nil {
			return err
		}
		return apperr.InvalidTransition("request %d is %s, not pending", id, cur.Status)
	}
	return nil
}

func (r *requestRepo) Accept(ctx context.Context, id uint, at time.Time, t *entities.Treatment) (*entities.Request, error) {
	var out *entities.Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := decide(tx, id, entities.RequestAccepted, map[string]any{"accepted_at": at, "decided_at": at}); err != nil {
			return err
		}
		t.RequestID = id
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("create treatment: %w", err)
		}
		var err error
		out, err = find(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *requestRepo) Reject(ctx context.Context, id uint, at time.Time) (*entities.Request, error) {
	var out *entities.Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := decide(tx, id, entities.RequestRejected, map[string]any{"decided_at": at}); err != nil {
			return err
		}
		var err error
		out, err = find(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *requestRepo) Delete(ctx context.Context, id uint, keepAccepted bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := `
DELETE FROM treatment_requests
WHERE id = ?
  AND NOT EXISTS (SELECT 1 FROM treatments t WHERE t.request_id = treatment_requests.id)`
		args := []any{id}
		if keepAccepted {
			q += " AND status <> ?"
			args = append(args, entities.RequestAccepted)
		}
		res := tx.Exec(q, args...)
		if res.Error != nil {
			return fmt.Errorf("delete request: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		cur, err := find(tx, id)
		if err != nil {
			return err
		}
		if keepAccepted && cur.Status == entities.RequestAccepted {
			return apperr.PermissionDenied("request %d is accepted and cannot be deleted by the farmer", id)
		}
		return apperr.Validation("request %d has a treatment and cannot be deleted", id)
	})
}
