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
	Status       entities.RequestStatus
}

type RequestRepository interface {
	// Create resolves the field owner and snapshots the field's latest
	// reading, falling back to fallback, in the same transaction as the
	// insert.
	Create(ctx context.Context, req *entities.Request, fallback float64) error
	FindByID(ctx context.Context, id uint) (*entities.Request, error)
	List(ctx context.Context, f Filter) ([]entities.Request, error)
	// Accept moves a pending request to accepted and inserts t atomically.
	Accept(ctx context.Context, id uint, at time.Time, t *entities.Treatment) (*entities.Request, error)
	Reject(ctx context.Context, id uint, at time.Time) (*entities.Request, error)
	// Delete removes the request unless a treatment exists; keepAccepted
	// also refuses accepted requests.
	Delete(ctx context.Context, id uint, keepAccepted bool) error
}
