package repository

import (
	"context"

	"github.com/deryamemmedli/agrimonitor/entities"
)

type RoleRepository interface {
	Account(ctx context.Context, id uint) (*entities.Account, error)
	Grants(ctx context.Context, accountID uint) ([]entities.RoleGrant, error)
	// Grant is idempotent: granting a held role changes nothing.
	Grant(ctx context.Context, accountID uint, r entities.Role) error
	UpdateProfile(ctx context.Context, accountID uint, r entities.Role, account, grant map[string]any) (*entities.RoleGrant, error)
}
