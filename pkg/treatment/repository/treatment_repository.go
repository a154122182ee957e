package repository

import (
	"context"
	"time"

	"github.com/deryamemmedli/agrimonitor/entities"
)

// Filter zero values match everything.
type Filter struct {
	AgronomistID uint
	FarmerID     uint
	Status       entities.TreatmentStatus
}

type TreatmentRepository interface {
	FindByID(ctx context.Context, id uint) (*entities.Treatment, error)
	List(ctx context.Context, f Filter) ([]entities.Treatment, error)
	// Transition applies cols only while the treatment is still in from.
	Transition(ctx context.Context, id uint, from entities.TreatmentStatus, cols map[string]any) (*entities.Treatment, error)
	// ConfirmByFarmer records the farmer's confirmation of a verified,
	// agronomist-confirmed treatment, once.
	ConfirmByFarmer(ctx context.Context, id uint, at time.Time) (*entities.Treatment, error)
}
