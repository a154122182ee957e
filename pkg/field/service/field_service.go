package service

import (
	"context"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/field"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
)

type Page struct {
	Limit  int
	Offset int
}

type FieldService interface {
	Create(ctx context.Context, actor role.Actor, in field.Input) (*entities.Field, error)
	// Get returns a field its owner or any agronomist may see.
	Get(ctx context.Context, actor role.Actor, id uint) (*entities.Field, error)
	Update(ctx context.Context, actor role.Actor, id uint, p field.Patch) (*entities.Field, error)
	Delete(ctx context.Context, actor role.Actor, id uint) error
	// List returns the farmer's own fields, or every field for an agronomist.
	List(ctx context.Context, actor role.Actor, page Page) ([]entities.Field, error)
}
