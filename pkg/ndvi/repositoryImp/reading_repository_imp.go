package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi/repository"
)

type readingRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ReadingRepository { return &readingRepo{db} }

func (r *readingRepo) Create(ctx context.Context, m *entities.NDVIReading) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create reading: %w", err)
	}
	return nil
}

func (r *readingRepo) Latest(ctx context.Context, fieldID uint) (*entities.NDVIReading, error) {
	return first(r.db.WithContext(ctx).Where("field_id = ?", fieldID))
}

func (r *readingRepo) LatestAfter(ctx context.Context, fieldID uint, after time.Time, sources ...entities.ReadingSource) (*entities.NDVIReading, error) {
	q := r.db.WithContext(ctx).Where("field_id = ? AND observed_at > ?", fieldID, after)
	if len(sources) > 0 {
		q = q.Where("source IN ?", sources)
	}
	return first(q)
}

func first(q *gorm.DB) (*entities.NDVIReading, error) {
	var m entities.NDVIReading
	if err := q.Order("observed_at DESC, id DESC").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest reading: %w", err)
	}
	return &m, nil
}

func (r *readingRepo) Series(ctx context.Context, fieldID uint, from, to time.Time) ([]entities.NDVIReading, error) {
	q := r.db.WithContext(ctx).Where("field_id = ?", fieldID)
	if !from.IsZero() {
		q = q.Where("observed_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("observed_at <= ?", to)
	}
	var out []entities.NDVIReading
	if err := q.Order("observed_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("reading series: %w", err)
	}
	return out, nil
}

func (r *readingRepo) LatestByField(ctx context.Context, fieldIDs []uint) (map[uint]entities.NDVIReading, error) {
	out := make(map[uint]entities.NDVIReading, len(fieldIDs))
	if len(fieldIDs) == 0 {
		return out, nil
	}
	var rows []entities.NDVIReading
	err := r.db.WithContext(ctx).Raw(`
SELECT r.* FROM ndvi_readings r
WHERE r.field_id IN ?
  AND r.id = (
    SELECT r2.id FROM ndvi_readings r2
    WHERE r2.field_id = r.field_id
    ORDER BY r2.observed_at DESC, r2.id DESC
    LIMIT 1)`, fieldIDs).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("latest readings: %w", err)
	}
	for _, m := range rows {
		out[m.FieldID] = m
	}
	return out, nil
}
