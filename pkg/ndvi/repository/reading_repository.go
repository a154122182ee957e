package repository

import (
	"context"
	"time"

	"github.com/deryamemmedli/agrimonitor/entities"
)

// ReadingRepository stores the append-only NDVI series. Latest lookups
// return nil, nil when a field has no reading.
type ReadingRepository interface {
	Create(ctx context.Context, r *entities.NDVIReading) error
	Latest(ctx context.Context, fieldID uint) (*entities.NDVIReading, error)
	// LatestAfter ignores readings observed at or before after. With sources
	// given, only readings from those sources count.
	LatestAfter(ctx context.Context, fieldID uint, after time.Time, sources ...entities.ReadingSource) (*entities.NDVIReading, error)
	// Series is ordered by observation time; zero bounds are open.
	Series(ctx context.Context, fieldID uint, from, to time.Time) ([]entities.NDVIReading, error)
	LatestByField(ctx context.Context, fieldIDs []uint) (map[uint]entities.NDVIReading, error)
}
