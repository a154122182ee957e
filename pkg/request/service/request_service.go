package service

import (
	"context"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/request"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
)

type RequestService interface {
	Create(ctx context.Context, actor role.Actor, in request.CreateInput) (*entities.Request, error)
	// Accept returns the accepted request and the treatment it spawned.
	Accept(ctx context.Context, actor role.Actor, id uint) (*entities.Request, *entities.Treatment, error)
	Reject(ctx context.Context, actor role.Actor, id uint) (*entities.Request, error)
	Delete(ctx context.Context, actor role.Actor, id uint) error
	Get(ctx context.Context, actor role.Actor, id uint) (*entities.Request, error)
	// List returns requests on the farmer's fields or the agronomist's own proposals.
	List(ctx context.Context, actor role.Actor, status entities.RequestStatus) ([]entities.Request, error)
}
