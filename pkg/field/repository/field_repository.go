package repository

import (
	"context"

	"github.com/deryamemmedli/agrimonitor/entities"
)

// Filter selects fields; OwnerID 0 means every owner and Limit 0 means no
// limit.
type Filter struct {
	OwnerID uint
	Limit   int
	Offset  int
}

type FieldRepository interface {
	Create(ctx context.Context, f *entities.Field) error
	FindByID(ctx context.Context, id uint) (*entities.Field, error)
	List(ctx context.Context, f Filter) ([]entities.Field, error)
	Update(ctx context.Context, id, ownerID uint, cols map[string]any) (*entities.Field, error)
	// Delete removes the field and its readings unless a request refers to it.
	Delete(ctx context.Context, id, ownerID uint) error
}
