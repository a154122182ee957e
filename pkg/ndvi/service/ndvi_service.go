package service

import (
	"context"
	"time"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
)

type NDVIService interface {
	// Latest summarizes one field; a field without readings is NoData.
	Latest(ctx context.Context, actor role.Actor, fieldID uint) (*ndvi.FieldSummary, error)
	Series(ctx context.Context, actor role.Actor, fieldID uint, from, to time.Time) ([]entities.NDVIReading, error)
	Record(ctx context.Context, actor role.Actor, fieldID uint, in ndvi.RecordInput) (*entities.NDVIReading, error)
	// Fetch asks the imagery source for a new observation and stores it.
	Fetch(ctx context.Context, actor role.Actor, fieldID uint, at time.Time) (*entities.NDVIReading, error)
	// MapSummary covers every field visible to the actor.
	MapSummary(ctx context.Context, actor role.Actor) ([]ndvi.FieldSummary, error)
}
