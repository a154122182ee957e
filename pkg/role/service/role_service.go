package service

import (
	"context"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
)

type RoleService interface {
	AvailableRoles(ctx context.Context, accountID uint) ([]entities.Role, error)
	ActivateRole(ctx context.Context, accountID uint, requested string) (entities.Role, error)
	Resolve(ctx context.Context, accountID uint, requested string) (role.Actor, error)
	UpdateProfile(ctx context.Context, actor role.Actor, p role.Profile) (*entities.RoleGrant, error)
}
